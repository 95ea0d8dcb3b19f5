package securetoken

import (
	"crypto/ecdsa"
	"crypto/elliptic"
	"crypto/rand"
	"crypto/rsa"
	"crypto/sha256"
	"crypto/x509"
	"encoding/binary"
	"encoding/pem"
	"strings"
	"sync"
	"testing"
	"time"
)

var (
	testHS256Secret = NewSecret("hs256SignatureSecret#secret#789(jwt)$3411781_GTDSAET-569016310k")
	testHS384Secret = NewSecret(strings.Repeat("hs384-secret-", 4))
	testHS512Secret = NewSecret(strings.Repeat("hs512-secret-", 5))

	testNow = time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
)

// Key pairs are expensive to generate, every test in the package shares the same ones.
var (
	testRSAKeyPair    = sync.OnceValue(func() KeyPair { return mustRSAKeyPair(2048) })
	testRSAKeyPairAlt = sync.OnceValue(func() KeyPair { return mustRSAKeyPair(2048) })
	testECKeyPair     = sync.OnceValue(func() KeyPair { return mustECKeyPair(elliptic.P256()) })
	testECKeyPairAlt  = sync.OnceValue(func() KeyPair { return mustECKeyPair(elliptic.P256()) })
)

func mustRSAKeyPair(bits int) KeyPair {
	key, err := rsa.GenerateKey(rand.Reader, bits)
	if err != nil {
		panic(err)
	}

	public, err := x509.MarshalPKIXPublicKey(&key.PublicKey)
	if err != nil {
		panic(err)
	}

	return KeyPair{
		PublicKey:  pem.EncodeToMemory(&pem.Block{Type: "PUBLIC KEY", Bytes: public}),
		PrivateKey: pem.EncodeToMemory(&pem.Block{Type: "RSA PRIVATE KEY", Bytes: x509.MarshalPKCS1PrivateKey(key)}),
	}
}

func mustECKeyPair(curve elliptic.Curve) KeyPair {
	key, err := ecdsa.GenerateKey(curve, rand.Reader)
	if err != nil {
		panic(err)
	}

	public, err := x509.MarshalPKIXPublicKey(&key.PublicKey)
	if err != nil {
		panic(err)
	}

	private, err := x509.MarshalECPrivateKey(key)
	if err != nil {
		panic(err)
	}

	return KeyPair{
		PublicKey:  pem.EncodeToMemory(&pem.Block{Type: "PUBLIC KEY", Bytes: public}),
		PrivateKey: pem.EncodeToMemory(&pem.Block{Type: "EC PRIVATE KEY", Bytes: private}),
	}
}

// testSignatureSecret returns material fitting alg.
func testSignatureSecret(alg SignatureAlgorithm) SecretMaterial {
	switch alg {
	case HS256:
		return testHS256Secret
	case HS384:
		return testHS384Secret
	case HS512:
		return testHS512Secret
	default:
		return testRSAKeyPair()
	}
}

// testEncryptionKey returns material fitting alg and method.
func testEncryptionKey(alg EncryptionAlgorithm, method EncryptionMethod) SecretMaterial {
	switch encryptionAlgorithms[alg].family {
	case familySymmetric:
		return Secret(strings.Repeat("k", method.KeyLength()))
	case familyEC:
		return testECKeyPair()
	default:
		return testRSAKeyPair()
	}
}

// counterReader is a deterministic stand-in for crypto/rand: a SHA-256 based
// stream seeded by seed. Two readers with the same seed yield the same bytes.
type counterReader struct {
	seed    string
	counter uint64
	buf     []byte
}

func newCounterReader(seed string) *counterReader {
	return &counterReader{seed: seed}
}

func (r *counterReader) Read(p []byte) (int, error) {
	n := 0
	for n < len(p) {
		if len(r.buf) == 0 {
			block := binary.BigEndian.AppendUint64([]byte(r.seed), r.counter)
			sum := sha256.Sum256(block)
			r.buf = sum[:]
			r.counter++
		}

		c := copy(p[n:], r.buf)
		r.buf = r.buf[c:]
		n += c
	}

	return n, nil
}

func fixedClock(t time.Time) func() time.Time {
	return func() time.Time { return t }
}

func newTestService(opts ...Option) *Service {
	return New(append([]Option{WithClock(fixedClock(testNow))}, opts...)...)
}

// flipBit returns token with the lowest bit of the base64 value of the character at i
// flipped. The result is again a base64url character.
func flipBit(token string, i int) string {
	const alphabet = "ABCDEFGHIJKLMNOPQRSTUVWXYZabcdefghijklmnopqrstuvwxyz0123456789-_"
	idx := strings.IndexByte(alphabet, token[i])
	if idx < 0 {
		return token
	}

	return token[:i] + string(alphabet[idx^1]) + token[i+1:]
}

func requireKind(t *testing.T, want ErrorKind, err error) {
	t.Helper()

	if got := KindOf(err); got != want {
		t.Fatalf("expected error of kind %s but got %s: %v", want, got, err)
	}
}

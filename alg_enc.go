package securetoken

import (
	"crypto"
	_ "crypto/sha256" // ignore:lint
	_ "crypto/sha512"
	"fmt"
)

// EncryptionAlgorithm is the closed set of JWE "alg" (key management) values.
//
//   - DIR: the caller's Secret is the content encryption key (CEK) itself, its length
//     must equal the CEK length of the EncryptionMethod. The encrypted key segment is empty.
//   - ECDH1PUA128KW, ECDH1PUA192KW, ECDH1PUA256KW: one-pass unified model key agreement
//     (ephemeral-static plus static-static ECDH on P-256, P-384 or P-521) whose derived key
//     wraps a random CEK with AES Key Wrap. Requires an EC KeyPair.
//   - RSAOAEP256, RSAOAEP384, RSAOAEP512: a random CEK wrapped with RSAES-OAEP using
//     SHA-256, SHA-384 or SHA-512. Requires an RSA KeyPair of at least 2048 bits.
type EncryptionAlgorithm uint8

const (
	DIR EncryptionAlgorithm = iota + 1
	ECDH1PUA128KW
	ECDH1PUA192KW
	ECDH1PUA256KW
	RSAOAEP256
	RSAOAEP384
	RSAOAEP512
)

type encryptionAlgorithmDef struct {
	name   string
	family keyFamily
	kekLen int         // AES-KW key length in bytes, ECDH-1PU only.
	hash   crypto.Hash // OAEP hash, RSA-OAEP only.
}

var encryptionAlgorithms = map[EncryptionAlgorithm]encryptionAlgorithmDef{
	DIR:           {name: "dir", family: familySymmetric},
	ECDH1PUA128KW: {name: "ECDH-1PU+A128KW", family: familyEC, kekLen: 16},
	ECDH1PUA192KW: {name: "ECDH-1PU+A192KW", family: familyEC, kekLen: 24},
	ECDH1PUA256KW: {name: "ECDH-1PU+A256KW", family: familyEC, kekLen: 32},
	RSAOAEP256:    {name: "RSA-OAEP-256", family: familyRSA, hash: crypto.SHA256},
	RSAOAEP384:    {name: "RSA-OAEP-384", family: familyRSA, hash: crypto.SHA384},
	RSAOAEP512:    {name: "RSA-OAEP-512", family: familyRSA, hash: crypto.SHA512},
}

// String returns the JOSE "alg" name.
func (a EncryptionAlgorithm) String() string {
	if def, ok := encryptionAlgorithms[a]; ok {
		return def.name
	}

	return fmt.Sprintf("EncryptionAlgorithm(%d)", uint8(a))
}

// ParseEncryptionAlgorithm looks up an algorithm by its JOSE name (case-sensitive).
func ParseEncryptionAlgorithm(name string) (EncryptionAlgorithm, bool) {
	for alg, def := range encryptionAlgorithms {
		if def.name == name {
			return alg, true
		}
	}

	return 0, false
}

// EncryptionMethod is the closed set of JWE "enc" (content encryption) values.
// The CEK length is a property of the method alone, whatever the key management algorithm.
type EncryptionMethod uint8

const (
	A128CBCHS256 EncryptionMethod = iota + 1
	A192CBCHS384
	A256CBCHS512
	// XC20P is XChaCha20-Poly1305 with a 24-byte nonce.
	XC20P
)

type encryptionMethodDef struct {
	name   string
	keyLen int
	cipher contentCipher
}

var encryptionMethods = map[EncryptionMethod]encryptionMethodDef{
	A128CBCHS256: {name: "A128CBC-HS256", keyLen: 32, cipher: aes128CBCHS256},
	A192CBCHS384: {name: "A192CBC-HS384", keyLen: 48, cipher: aes192CBCHS384},
	A256CBCHS512: {name: "A256CBC-HS512", keyLen: 64, cipher: aes256CBCHS512},
	XC20P:        {name: "XC20P", keyLen: 32, cipher: xchacha20Poly1305},
}

// String returns the JOSE "enc" name.
func (m EncryptionMethod) String() string {
	if def, ok := encryptionMethods[m]; ok {
		return def.name
	}

	return fmt.Sprintf("EncryptionMethod(%d)", uint8(m))
}

// KeyLength returns the content encryption key length in bytes.
func (m EncryptionMethod) KeyLength() int {
	return encryptionMethods[m].keyLen
}

// ParseEncryptionMethod looks up a method by its JOSE name (case-sensitive).
func ParseEncryptionMethod(name string) (EncryptionMethod, bool) {
	for m, def := range encryptionMethods {
		if def.name == name {
			return m, true
		}
	}

	return 0, false
}

// encryptionKey is secret material resolved for one algorithm/method pair.
type encryptionKey struct {
	secret []byte
	rsa    *rsaKeyPair
	ec     *ecKeyPair
}

// resolveEncryptionKey checks that material fits alg and method and parses it.
// The returned error is a plain description of the mismatch, callers decide its kind.
func resolveEncryptionKey(alg EncryptionAlgorithm, method EncryptionMethod, material SecretMaterial) (encryptionKey, error) {
	algDef, ok := encryptionAlgorithms[alg]
	if !ok {
		return encryptionKey{}, fmt.Errorf("encryption algorithm %s is not supported", alg)
	}

	methodDef, ok := encryptionMethods[method]
	if !ok {
		return encryptionKey{}, fmt.Errorf("encryption method %s is not supported", method)
	}

	switch algDef.family {
	case familySymmetric:
		secret, ok := material.(Secret)
		if !ok {
			return encryptionKey{}, fmt.Errorf("%s requires a %s, got %s", algDef.name, algDef.family, materialKind(material))
		}

		if len(secret) != methodDef.keyLen {
			return encryptionKey{}, fmt.Errorf("%s with %s requires a secret of exactly %d bytes, got %d",
				algDef.name, methodDef.name, methodDef.keyLen, len(secret))
		}

		return encryptionKey{secret: secret}, nil
	case familyRSA:
		pair, ok := material.(KeyPair)
		if !ok {
			return encryptionKey{}, fmt.Errorf("%s requires an %s, got %s", algDef.name, algDef.family, materialKind(material))
		}

		key, err := parseRSAKeyPair(pair)
		if err != nil {
			return encryptionKey{}, fmt.Errorf("%s: %w", algDef.name, err)
		}

		return encryptionKey{rsa: key}, nil
	case familyEC:
		pair, ok := material.(KeyPair)
		if !ok {
			return encryptionKey{}, fmt.Errorf("%s requires an %s, got %s", algDef.name, algDef.family, materialKind(material))
		}

		key, err := parseECKeyPair(pair)
		if err != nil {
			return encryptionKey{}, fmt.Errorf("%s: %w", algDef.name, err)
		}

		return encryptionKey{ec: key}, nil
	default:
		return encryptionKey{}, fmt.Errorf("encryption algorithm %s is not supported", alg)
	}
}

// ValidateEncryptionKey reports whether material can encrypt and decrypt tokens with
// the alg/method pair. A non-nil error is always of KindIllegalArgument.
func ValidateEncryptionKey(alg EncryptionAlgorithm, method EncryptionMethod, material SecretMaterial) error {
	if isEmptyMaterial(material) {
		return illegalArgument("validate", "encryption key material is empty")
	}

	if _, err := resolveEncryptionKey(alg, method, material); err != nil {
		return illegalArgument("validate", "%v", err)
	}

	return nil
}

package securetoken

import (
	"fmt"
)

// SignatureAlgorithm is the closed set of JWS "alg" values known to this package.
//
// **Supported**:
//   - HS256, HS384, HS512: HMAC-SHA2 over a shared Secret. RFC 7518 mandates a key at
//     least as long as the hash output, so the minimum secret length is 32, 48 and
//     64 bytes respectively.
//   - RS256, RS384, RS512: RSASSA-PKCS1-v1_5 with SHA-2 over a KeyPair whose modulus
//     is at least 2048 bits.
//
// **Reserved**: EdDSA, Ed25519, Ed448, ES256, ES256K, ES384, ES512, PS256, PS384 and
// PS512 are recognized names but are rejected on issuance (illegal argument) and on
// verification (invalid token).
//
// The catalog behind these values is statically initialized and never mutated,
// it is safe for concurrent read-only use by construction.
//
// Example:
//
//	token, err := service.GenerateToken(securetoken.HS256, secret, claims, 15*time.Minute)
type SignatureAlgorithm uint8

const (
	HS256 SignatureAlgorithm = iota + 1
	HS384
	HS512
	RS256
	RS384
	RS512
	EdDSA
	Ed25519
	Ed448
	ES256
	ES256K
	ES384
	ES512
	PS256
	PS384
	PS512
)

// keyFamily is the shape of secret material an algorithm consumes.
type keyFamily uint8

const (
	familySymmetric keyFamily = iota + 1
	familyRSA
	familyEC
	familyReserved
)

func (f keyFamily) String() string {
	switch f {
	case familySymmetric:
		return "symmetric secret"
	case familyRSA:
		return "RSA key pair"
	case familyEC:
		return "EC key pair"
	default:
		return "unsupported"
	}
}

type signatureAlgorithmDef struct {
	name         string
	family       keyFamily
	minSecretLen int    // bytes, symmetric only.
	signer       signer // nil for reserved algorithms.
}

var signatureAlgorithms = map[SignatureAlgorithm]signatureAlgorithmDef{
	HS256: {name: "HS256", family: familySymmetric, minSecretLen: 32, signer: hmacSHA256},
	HS384: {name: "HS384", family: familySymmetric, minSecretLen: 48, signer: hmacSHA384},
	HS512: {name: "HS512", family: familySymmetric, minSecretLen: 64, signer: hmacSHA512},
	RS256: {name: "RS256", family: familyRSA, signer: rsaSHA256},
	RS384: {name: "RS384", family: familyRSA, signer: rsaSHA384},
	RS512: {name: "RS512", family: familyRSA, signer: rsaSHA512},

	EdDSA:   {name: "EdDSA", family: familyReserved},
	Ed25519: {name: "Ed25519", family: familyReserved},
	Ed448:   {name: "Ed448", family: familyReserved},
	ES256:   {name: "ES256", family: familyReserved},
	ES256K:  {name: "ES256K", family: familyReserved},
	ES384:   {name: "ES384", family: familyReserved},
	ES512:   {name: "ES512", family: familyReserved},
	PS256:   {name: "PS256", family: familyReserved},
	PS384:   {name: "PS384", family: familyReserved},
	PS512:   {name: "PS512", family: familyReserved},
}

// String returns the JOSE "alg" name.
func (a SignatureAlgorithm) String() string {
	if def, ok := signatureAlgorithms[a]; ok {
		return def.name
	}

	return fmt.Sprintf("SignatureAlgorithm(%d)", uint8(a))
}

// Supported reports whether tokens can be issued and verified with a.
func (a SignatureAlgorithm) Supported() bool {
	def, ok := signatureAlgorithms[a]
	return ok && def.signer != nil
}

// MinSecretLength returns the minimum Secret length in bytes for symmetric algorithms,
// zero otherwise.
func (a SignatureAlgorithm) MinSecretLength() int {
	return signatureAlgorithms[a].minSecretLen
}

// ParseSignatureAlgorithm looks up an algorithm by its JOSE name (case-sensitive).
// Reserved names are found too, check Supported before use.
func ParseSignatureAlgorithm(name string) (SignatureAlgorithm, bool) {
	for alg, def := range signatureAlgorithms {
		if def.name == name {
			return alg, true
		}
	}

	return 0, false
}

// SupportedSignatureAlgorithms returns every algorithm tokens can be signed with.
func SupportedSignatureAlgorithms() []SignatureAlgorithm {
	return []SignatureAlgorithm{HS256, HS384, HS512, RS256, RS384, RS512}
}

// signatureKey is secret material resolved for one signature algorithm.
type signatureKey struct {
	secret []byte
	rsa    *rsaKeyPair
}

// resolveSignatureKey checks that material fits alg and parses it.
// The returned error is a plain description of the mismatch, callers decide its kind.
func resolveSignatureKey(alg SignatureAlgorithm, material SecretMaterial) (signatureKey, error) {
	def, ok := signatureAlgorithms[alg]
	if !ok || def.signer == nil {
		return signatureKey{}, fmt.Errorf("signature algorithm %s is not supported", alg)
	}

	switch def.family {
	case familySymmetric:
		secret, ok := material.(Secret)
		if !ok {
			return signatureKey{}, fmt.Errorf("%s requires a %s, got %s", def.name, def.family, materialKind(material))
		}

		if len(secret) < def.minSecretLen {
			return signatureKey{}, fmt.Errorf("%s requires a secret of at least %d bytes, got %d", def.name, def.minSecretLen, len(secret))
		}

		return signatureKey{secret: secret}, nil
	case familyRSA:
		pair, ok := material.(KeyPair)
		if !ok {
			return signatureKey{}, fmt.Errorf("%s requires an %s, got %s", def.name, def.family, materialKind(material))
		}

		key, err := parseRSAKeyPair(pair)
		if err != nil {
			return signatureKey{}, fmt.Errorf("%s: %w", def.name, err)
		}

		return signatureKey{rsa: key}, nil
	default:
		return signatureKey{}, fmt.Errorf("signature algorithm %s is not supported", alg)
	}
}

// ValidateSignatureKey reports whether material can sign and verify tokens with alg.
// A non-nil error is always of KindIllegalArgument.
func ValidateSignatureKey(alg SignatureAlgorithm, material SecretMaterial) error {
	if isEmptyMaterial(material) {
		return illegalArgument("validate", "secret material is empty")
	}

	if _, err := resolveSignatureKey(alg, material); err != nil {
		return illegalArgument("validate", "%v", err)
	}

	return nil
}

// signer is the per-family signature strategy.
// Implementations are stateless and safe for concurrent use.
type signer interface {
	sign(key signatureKey, signingInput string) ([]byte, error)
	// verify must return errSignature on mismatch and compare in constant time.
	verify(key signatureKey, signingInput string, signature []byte) error
}

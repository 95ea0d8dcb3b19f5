package securetoken

import (
	"time"
)

// jwsEngine issues and verifies signed-only tokens.
// It holds configuration only and is safe for concurrent use.
type jwsEngine struct {
	clock     func() time.Time
	newID     func() (string, error)
	validator *Validator
	// accepted limits the "alg" values verify trusts. Empty means every supported one.
	accepted []SignatureAlgorithm
}

// issue signs claims, stamped with exp, iat and jti, into a compact JWS:
//
//	base64url(header) "." base64url(payload) "." base64url(signature)
//
// Every argument is checked before any cryptographic work. A zero ttl, or one shorter
// than a second, is rejected; a negative ttl issues an already expired token.
func (e *jwsEngine) issue(alg SignatureAlgorithm, secret SecretMaterial, claims *Claims, ttl time.Duration) (string, error) {
	const op = "generate"

	if claims == nil {
		return "", illegalArgument(op, "claims must not be nil")
	}

	if isEmptyMaterial(secret) {
		return "", illegalArgument(op, "signature secret is empty")
	}

	key, err := resolveSignatureKey(alg, secret)
	if err != nil {
		return "", illegalArgument(op, "%v", err)
	}

	if ttl/time.Second == 0 {
		return "", illegalArgument(op, "ttl must be at least one second, got %s", ttl)
	}

	id, err := e.newID()
	if err != nil {
		return "", tokenError(op, err)
	}

	payload, err := encodeClaims(claims, ttl, e.clock(), id)
	if err != nil {
		return "", illegalArgument(op, "claims: %v", err)
	}

	signingInput := joinParts(createHeader(alg), Base64Encode(payload))
	signature, err := signatureAlgorithms[alg].signer.sign(key, signingInput)
	if err != nil {
		return "", tokenError(op, err)
	}

	return joinParts(signingInput, Base64Encode(signature)), nil
}

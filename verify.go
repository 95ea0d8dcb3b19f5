package securetoken

import (
	"slices"
)

// verify checks a compact JWS and returns its claims.
//
// The order of the checks is part of the contract:
//  1. empty token or secret: illegal argument;
//  2. segment count, header JSON, unknown, reserved or not accepted "alg": invalid;
//  3. secret material that does not fit the declared "alg": token error;
//  4. signature mismatch (constant time): invalid;
//  5. payload that is not a JSON object: invalid;
//  6. "exp" in the past: expired.
func (e *jwsEngine) verify(token string, secret SecretMaterial) (*Claims, error) {
	const op = "verify"

	if token == "" {
		return nil, illegalArgument(op, "token is empty")
	}

	if isEmptyMaterial(secret) {
		return nil, illegalArgument(op, "signature secret is empty")
	}

	parts, ok := splitToken(token, jwsSegments)
	if !ok {
		return nil, invalid(op)
	}

	var header jwsHeader
	if err := decodeSegment(parts[0], &header); err != nil {
		return nil, invalid(op)
	}

	alg, ok := ParseSignatureAlgorithm(header.Algorithm)
	if !ok || !alg.Supported() || !e.accepts(alg) {
		return nil, invalid(op)
	}

	key, err := resolveSignatureKey(alg, secret)
	if err != nil {
		return nil, tokenError(op, err)
	}

	signature, err := Base64Decode(parts[2])
	if err != nil {
		return nil, invalid(op)
	}

	signingInput := joinParts(parts[0], parts[1])
	if err = signatureAlgorithms[alg].signer.verify(key, signingInput, signature); err != nil {
		return nil, invalid(op)
	}

	payload, err := Base64Decode(parts[1])
	if err != nil {
		return nil, invalid(op)
	}

	claims, err := decodeClaims(payload)
	if err != nil {
		return nil, invalid(op)
	}

	if err = e.validator.CheckTemporal(claims); err != nil {
		return nil, withOp(op, err)
	}

	return claims, nil
}

func (e *jwsEngine) accepts(alg SignatureAlgorithm) bool {
	return len(e.accepted) == 0 || slices.Contains(e.accepted, alg)
}

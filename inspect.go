package securetoken

import (
	"crypto/ecdsa"
)

// Header is the unverified protected header of a token, as returned by Inspect.
type Header struct {
	// Encrypted reports a JWE. For a JWS only Algorithm and Type are set.
	Encrypted   bool
	Algorithm   string
	Type        string
	Method      string
	ContentType string
	// EphemeralKeyCurve is the curve name of the "epk", ECDH-1PU only.
	EphemeralKeyCurve string
}

// Inspect decodes the protected header of a JWS or JWE without verifying anything.
// Nothing it returns may be trusted: use it for routing and diagnostics only,
// e.g. to pick the key to verify with.
func Inspect(token string) (Header, error) {
	const op = "inspect"

	if token == "" {
		return Header{}, illegalArgument(op, "token is empty")
	}

	if parts, ok := splitToken(token, jwsSegments); ok {
		var h jwsHeader
		if err := decodeSegment(parts[0], &h); err != nil || h.Algorithm == "" {
			return Header{}, invalid(op)
		}

		return Header{Algorithm: h.Algorithm, Type: h.Type}, nil
	}

	parts, ok := splitToken(token, jweSegments)
	if !ok {
		return Header{}, invalid(op)
	}

	var h jweHeader
	if err := decodeSegment(parts[0], &h); err != nil || h.Algorithm == "" || h.Method == "" {
		return Header{}, invalid(op)
	}

	header := Header{
		Encrypted:   true,
		Algorithm:   h.Algorithm,
		Method:      h.Method,
		ContentType: h.ContentType,
	}
	if h.EphemeralKey != nil {
		if pub, ok := h.EphemeralKey.Key.(*ecdsa.PublicKey); ok {
			header.EphemeralKeyCurve = pub.Curve.Params().Name
		}
	}

	return header, nil
}

package securetoken

import (
	"crypto/ecdh"
	"crypto/ecdsa"
	"crypto/elliptic"
	"encoding/json"
	"errors"

	"github.com/go-jose/go-jose/v4"
)

// jweHeader is the JOSE protected header of a JWE (RFC 7516 section 4).
// Field order is the serialization order.
type jweHeader struct {
	Algorithm   string `json:"alg"`
	Method      string `json:"enc"`
	ContentType string `json:"cty,omitempty"`
	// EphemeralKey is the sender's ephemeral public key, ECDH-1PU only.
	EphemeralKey *jose.JSONWebKey `json:"epk,omitempty"`
	PartyUInfo   string           `json:"apu,omitempty"`
	PartyVInfo   string           `json:"apv,omitempty"`
}

// createProtectedHeader generates a base64-encoded (raw url) JOSE protected header.
func createProtectedHeader(header jweHeader) (string, error) {
	b, err := json.Marshal(header)
	if err != nil {
		return "", err
	}

	return Base64Encode(b), nil
}

// ephemeralJWK encodes an ECDH public key as the "epk" JWK.
func ephemeralJWK(curve elliptic.Curve, pub *ecdh.PublicKey) (*jose.JSONWebKey, error) {
	key, err := ecdsaPublic(curve, pub)
	if err != nil {
		return nil, err
	}

	return &jose.JSONWebKey{Key: key}, nil
}

// ephemeralPublic returns the "epk" of header as an ECDH key on curve.
// The JWK decoder has already checked the point is on its declared curve.
func (h jweHeader) ephemeralPublic(curve elliptic.Curve) (*ecdh.PublicKey, error) {
	if h.EphemeralKey == nil {
		return nil, errors.New("missing epk")
	}

	key, ok := h.EphemeralKey.Key.(*ecdsa.PublicKey)
	if !ok || key.Curve != curve {
		return nil, errors.New("epk is not a public key on the recipient curve")
	}

	return key.ECDH()
}

// partyInfo decodes the optional "apu" and "apv" header parameters.
func (h jweHeader) partyInfo() (apu, apv []byte, err error) {
	if h.PartyUInfo != "" {
		if apu, err = Base64Decode(h.PartyUInfo); err != nil {
			return nil, nil, err
		}
	}

	if h.PartyVInfo != "" {
		if apv, err = Base64Decode(h.PartyVInfo); err != nil {
			return nil, nil, err
		}
	}

	return apu, apv, nil
}

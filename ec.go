package securetoken

import (
	"crypto/ecdh"
	"crypto/ecdsa"
	"crypto/elliptic"
	"errors"
	"fmt"

	"github.com/golang-jwt/jwt/v5"
)

// ecKeyPair is a parsed EC KeyPair converted for key agreement.
type ecKeyPair struct {
	private *ecdh.PrivateKey
	public  *ecdh.PublicKey
	curve   elliptic.Curve
}

// parseECKeyPair parses both PEM halves of pair (SEC 1 or PKCS#8 private key,
// PKIX or certificate public key). Only the NIST curves P-256, P-384 and P-521 are accepted.
func parseECKeyPair(pair KeyPair) (*ecKeyPair, error) {
	if len(pair.PrivateKey) == 0 || len(pair.PublicKey) == 0 {
		return nil, errors.New("EC: both public and private PEM keys are required")
	}

	privateKey, err := jwt.ParseECPrivateKeyFromPEM(pair.PrivateKey)
	if err != nil {
		return nil, fmt.Errorf("EC: private key: %v", err)
	}

	publicKey, err := jwt.ParseECPublicKeyFromPEM(pair.PublicKey)
	if err != nil {
		return nil, fmt.Errorf("EC: public key: %v", err)
	}

	if !publicKey.Equal(&privateKey.PublicKey) {
		return nil, errors.New("EC: public key does not belong to the private key")
	}

	if !supportedCurve(publicKey.Curve) {
		return nil, fmt.Errorf("EC: curve %s is not supported", publicKey.Curve.Params().Name)
	}

	ecdhPrivate, err := privateKey.ECDH()
	if err != nil {
		return nil, fmt.Errorf("EC: private key: %v", err)
	}

	ecdhPublic, err := publicKey.ECDH()
	if err != nil {
		return nil, fmt.Errorf("EC: public key: %v", err)
	}

	return &ecKeyPair{private: ecdhPrivate, public: ecdhPublic, curve: publicKey.Curve}, nil
}

func supportedCurve(c elliptic.Curve) bool {
	return c == elliptic.P256() || c == elliptic.P384() || c == elliptic.P521()
}

// ecdsaPublic converts an ECDH public key back to its ecdsa form for JWK encoding.
func ecdsaPublic(curve elliptic.Curve, pub *ecdh.PublicKey) (*ecdsa.PublicKey, error) {
	x, y := elliptic.Unmarshal(curve, pub.Bytes()) //nolint:staticcheck // uncompressed point from crypto/ecdh.
	if x == nil {
		return nil, errors.New("EC: invalid public point")
	}

	return &ecdsa.PublicKey{Curve: curve, X: x, Y: y}, nil
}

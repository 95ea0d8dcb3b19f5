package securetoken

import (
	"crypto/rsa"
	"errors"
	"fmt"

	"github.com/golang-jwt/jwt/v5"
)

// minRSAKeyBits is the smallest RSA modulus accepted for signing and key wrapping.
const minRSAKeyBits = 2048

var (
	rsaSHA256 signer = &algRSA{jwt.SigningMethodRS256}
	rsaSHA384 signer = &algRSA{jwt.SigningMethodRS384}
	rsaSHA512 signer = &algRSA{jwt.SigningMethodRS512}
)

type algRSA struct {
	method *jwt.SigningMethodRSA
}

func (a *algRSA) sign(key signatureKey, signingInput string) ([]byte, error) {
	return a.method.Sign(signingInput, key.rsa.private)
}

func (a *algRSA) verify(key signatureKey, signingInput string, signature []byte) error {
	if err := a.method.Verify(signingInput, signature, key.rsa.public); err != nil {
		return errSignature
	}

	return nil
}

// rsaKeyPair is a parsed, size-checked and consistent RSA KeyPair.
type rsaKeyPair struct {
	private *rsa.PrivateKey
	public  *rsa.PublicKey
}

// parseRSAKeyPair parses both PEM halves of pair. PKCS#1 and PKCS#8 private keys
// and PKIX, PKCS#1 or certificate public keys are accepted.
func parseRSAKeyPair(pair KeyPair) (*rsaKeyPair, error) {
	if len(pair.PrivateKey) == 0 || len(pair.PublicKey) == 0 {
		return nil, errors.New("RSA: both public and private PEM keys are required")
	}

	privateKey, err := jwt.ParseRSAPrivateKeyFromPEM(pair.PrivateKey)
	if err != nil {
		return nil, fmt.Errorf("RSA: private key: %v", err)
	}

	publicKey, err := jwt.ParseRSAPublicKeyFromPEM(pair.PublicKey)
	if err != nil {
		return nil, fmt.Errorf("RSA: public key: %v", err)
	}

	if !publicKey.Equal(&privateKey.PublicKey) {
		return nil, errors.New("RSA: public key does not belong to the private key")
	}

	if bits := publicKey.N.BitLen(); bits < minRSAKeyBits {
		return nil, fmt.Errorf("RSA: key size %d bits is below the minimum of %d", bits, minRSAKeyBits)
	}

	return &rsaKeyPair{private: privateKey, public: publicKey}, nil
}

package securetoken

import (
	_ "crypto/sha256" // ignore:lint
	_ "crypto/sha512"
	"errors"

	"github.com/golang-jwt/jwt/v5"
)

// errSignature is the internal cause of every signature mismatch.
// It never leaves the package, callers only see an invalid token error.
var errSignature = errors.New("signature mismatch")

var (
	hmacSHA256 signer = &algHMAC{jwt.SigningMethodHS256}
	hmacSHA384 signer = &algHMAC{jwt.SigningMethodHS384}
	hmacSHA512 signer = &algHMAC{jwt.SigningMethodHS512}
)

type algHMAC struct {
	method *jwt.SigningMethodHMAC
}

func (a *algHMAC) sign(key signatureKey, signingInput string) ([]byte, error) {
	return a.method.Sign(signingInput, key.secret)
}

// verify recomputes the MAC, the comparison inside the jwt package is hmac.Equal.
func (a *algHMAC) verify(key signatureKey, signingInput string, signature []byte) error {
	if err := a.method.Verify(signingInput, signature, key.secret); err != nil {
		return errSignature
	}

	return nil
}

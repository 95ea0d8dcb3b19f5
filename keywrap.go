package securetoken

import (
	"crypto/aes"
	"errors"

	josecipher "github.com/go-jose/go-jose/v4/cipher"
)

// AES Key Wrap (RFC 3394) of the content encryption key under the key agreement output.

var errKeyUnwrap = errors.New("key unwrap: integrity check failed")

func keyWrap(kek, cek []byte) ([]byte, error) {
	block, err := aes.NewCipher(kek)
	if err != nil {
		return nil, err
	}

	return josecipher.KeyWrap(block, cek)
}

// keyUnwrap reports every failure, a bad KEK length included, as errKeyUnwrap.
func keyUnwrap(kek, wrapped []byte) ([]byte, error) {
	block, err := aes.NewCipher(kek)
	if err != nil {
		return nil, errKeyUnwrap
	}

	cek, err := josecipher.KeyUnwrap(block, wrapped)
	if err != nil {
		return nil, errKeyUnwrap
	}

	return cek, nil
}

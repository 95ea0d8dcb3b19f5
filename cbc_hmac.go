package securetoken

import (
	"crypto/aes"
	"errors"
	"fmt"
	"io"

	josecipher "github.com/go-jose/go-jose/v4/cipher"
)

// errDecrypt indicates a failure on payload decryption. Like errSignature it never
// leaves the package: padding and MAC failures are indistinguishable to callers.
var errDecrypt = errors.New("decrypt: payload authentication failed")

// contentCipher is the per-method content encryption strategy.
type contentCipher interface {
	encrypt(random io.Reader, cek, plaintext, aad []byte) (iv, ciphertext, tag []byte, err error)
	// decrypt must return errDecrypt for every authentication or format failure.
	decrypt(cek, iv, ciphertext, tag, aad []byte) ([]byte, error)
}

var (
	aes128CBCHS256 contentCipher = &algCBCHMAC{keyLen: 32}
	aes192CBCHS384 contentCipher = &algCBCHMAC{keyLen: 48}
	aes256CBCHS512 contentCipher = &algCBCHMAC{keyLen: 64}
)

// algCBCHMAC is AES_CBC_HMAC_SHA2 (RFC 7518 section 5.2): the first half of the CEK
// is the MAC key, the second half the AES key, and the tag is the MAC truncated to
// half the CEK length. The SHA-2 variant follows from the key length.
type algCBCHMAC struct {
	keyLen int
}

func (a *algCBCHMAC) encrypt(random io.Reader, cek, plaintext, aad []byte) ([]byte, []byte, []byte, error) {
	if len(cek) != a.keyLen {
		return nil, nil, nil, fmt.Errorf("content encryption key must be %d bytes", a.keyLen)
	}

	aead, err := josecipher.NewCBCHMAC(cek, aes.NewCipher)
	if err != nil {
		return nil, nil, nil, err
	}

	iv := make([]byte, aead.NonceSize())
	if _, err = io.ReadFull(random, iv); err != nil {
		return nil, nil, nil, err
	}

	sealed := aead.Seal(nil, iv, plaintext, aad)
	offset := len(sealed) - a.keyLen/2

	return iv, sealed[:offset], sealed[offset:], nil
}

func (a *algCBCHMAC) decrypt(cek, iv, ciphertext, tag, aad []byte) ([]byte, error) {
	if len(cek) != a.keyLen || len(iv) != aes.BlockSize || len(tag) != a.keyLen/2 ||
		len(ciphertext) == 0 || len(ciphertext)%aes.BlockSize != 0 {
		return nil, errDecrypt
	}

	aead, err := josecipher.NewCBCHMAC(cek, aes.NewCipher)
	if err != nil {
		return nil, errDecrypt
	}

	sealed := make([]byte, 0, len(ciphertext)+len(tag))
	sealed = append(append(sealed, ciphertext...), tag...)

	// The tag is checked before the padding is looked at.
	plaintext, err := aead.Open(nil, iv, sealed, aad)
	if err != nil {
		return nil, errDecrypt
	}

	return plaintext, nil
}

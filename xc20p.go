package securetoken

import (
	"fmt"
	"io"

	"golang.org/x/crypto/chacha20poly1305"
)

var xchacha20Poly1305 contentCipher = algXC20P{}

// algXC20P is XChaCha20-Poly1305 with a random 24-byte nonce carried as the JWE IV
// and the 16-byte Poly1305 tag split off the sealed output.
type algXC20P struct{}

func (algXC20P) encrypt(random io.Reader, cek, plaintext, aad []byte) ([]byte, []byte, []byte, error) {
	if len(cek) != chacha20poly1305.KeySize {
		return nil, nil, nil, fmt.Errorf("content encryption key must be %d bytes", chacha20poly1305.KeySize)
	}

	aead, err := chacha20poly1305.NewX(cek)
	if err != nil {
		return nil, nil, nil, err
	}

	nonce := make([]byte, chacha20poly1305.NonceSizeX)
	if _, err = io.ReadFull(random, nonce); err != nil {
		return nil, nil, nil, err
	}

	sealed := aead.Seal(nil, nonce, plaintext, aad)
	split := len(sealed) - aead.Overhead()
	return nonce, sealed[:split], sealed[split:], nil
}

func (algXC20P) decrypt(cek, iv, ciphertext, tag, aad []byte) ([]byte, error) {
	if len(cek) != chacha20poly1305.KeySize || len(iv) != chacha20poly1305.NonceSizeX ||
		len(tag) != chacha20poly1305.Overhead {
		return nil, errDecrypt
	}

	aead, err := chacha20poly1305.NewX(cek)
	if err != nil {
		return nil, errDecrypt
	}

	sealed := make([]byte, 0, len(ciphertext)+len(tag))
	sealed = append(append(sealed, ciphertext...), tag...)

	plaintext, err := aead.Open(nil, iv, sealed, aad)
	if err != nil {
		return nil, errDecrypt
	}

	return plaintext, nil
}

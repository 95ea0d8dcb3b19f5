package securetoken

import (
	"bytes"
	"crypto/hmac"
	"crypto/rand"
	"crypto/sha256"
	"encoding/binary"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestContentCiphers(t *testing.T) {
	plaintext := []byte("eyJhbGciOiJIUzI1NiJ9.e30.c2lnbmF0dXJl")
	aad := []byte("eyJhbGciOiJkaXIifQ")

	for method, def := range encryptionMethods {
		t.Run(method.String(), func(t *testing.T) {
			cek := make([]byte, def.keyLen)
			_, err := rand.Read(cek)
			require.NoError(t, err)

			iv, ciphertext, tag, err := def.cipher.encrypt(rand.Reader, cek, plaintext, aad)
			require.NoError(t, err)
			assert.NotContains(t, string(ciphertext), string(plaintext))

			got, err := def.cipher.decrypt(cek, iv, ciphertext, tag, aad)
			require.NoError(t, err)
			assert.Equal(t, plaintext, got)

			mutate := func(b []byte) []byte {
				m := bytes.Clone(b)
				m[len(m)-1] ^= 0x80
				return m
			}

			wrongKey := bytes.Clone(cek)
			wrongKey[0] ^= 0x80 // the MAC key half of the CBC methods.
			_, err = def.cipher.decrypt(wrongKey, iv, ciphertext, tag, aad)
			assert.ErrorIs(t, err, errDecrypt, "cek")
			_, err = def.cipher.decrypt(cek, mutate(iv), ciphertext, tag, aad)
			assert.ErrorIs(t, err, errDecrypt, "iv")
			_, err = def.cipher.decrypt(cek, iv, mutate(ciphertext), tag, aad)
			assert.ErrorIs(t, err, errDecrypt, "ciphertext")
			_, err = def.cipher.decrypt(cek, iv, ciphertext, mutate(tag), aad)
			assert.ErrorIs(t, err, errDecrypt, "tag")
			_, err = def.cipher.decrypt(cek, iv, ciphertext, tag, mutate(aad))
			assert.ErrorIs(t, err, errDecrypt, "aad")
			_, err = def.cipher.decrypt(cek, iv, ciphertext, tag[:len(tag)-1], aad)
			assert.ErrorIs(t, err, errDecrypt, "short tag")

			_, _, _, err = def.cipher.encrypt(rand.Reader, cek[1:], plaintext, aad)
			assert.Error(t, err, "short cek")
		})
	}
}

func TestCBCHMACLayout(t *testing.T) {
	// tag = HMAC-SHA-256(first half of the CEK, AAD || IV || ciphertext || AL)[:16].
	cek := append(bytes.Repeat([]byte{1}, 16), bytes.Repeat([]byte{2}, 16)...)
	ivSeed := bytes.Repeat([]byte{3}, 16)
	aad := []byte("eyJhbGciOiJkaXIifQ")

	for n := 0; n <= 32; n++ {
		plaintext := bytes.Repeat([]byte{'x'}, n)

		iv, ciphertext, tag, err := aes128CBCHS256.encrypt(bytes.NewReader(ivSeed), cek, plaintext, aad)
		require.NoError(t, err)
		require.Equal(t, ivSeed, iv)
		require.Zero(t, len(ciphertext)%16, "padded to the block size")
		require.Greater(t, len(ciphertext), n)

		mac := hmac.New(sha256.New, cek[:16])
		mac.Write(aad)
		mac.Write(iv)
		mac.Write(ciphertext)
		mac.Write(binary.BigEndian.AppendUint64(nil, uint64(len(aad))*8))
		require.Equal(t, mac.Sum(nil)[:16], tag)
	}
}

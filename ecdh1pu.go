package securetoken

import (
	"crypto"
	"crypto/ecdh"
	_ "crypto/sha256"
	"encoding/binary"
	"io"

	josecipher "github.com/go-jose/go-jose/v4/cipher"
)

// ECDH-1PU key agreement in key wrapping mode.
//
// The shared secret is Z = Ze || Zs where Ze is the ECDH output of the ephemeral key
// and the recipient's static key and Zs the output of the sender's static key and the
// recipient's static key. The key encryption key is derived from Z with the NIST
// SP 800-56A Concat KDF over SHA-256, the content authentication tag is bound into
// SuppPubInfo, so the content is encrypted before the CEK is wrapped.
//
// A KeyPair plays both static roles: its private half is the sender key on issuance
// and the recipient key on verification, its public half the opposite.

// ecdh1puSenderKEK derives the key encryption key on the issuing side.
func ecdh1puSenderKEK(ephemeral *ecdh.PrivateKey, pair *ecKeyPair, alg string, kekLen int, apu, apv, tag []byte) ([]byte, error) {
	ze, err := ephemeral.ECDH(pair.public)
	if err != nil {
		return nil, err
	}

	zs, err := pair.private.ECDH(pair.public)
	if err != nil {
		return nil, err
	}

	return concatKDF(append(ze, zs...), alg, kekLen, apu, apv, tag)
}

// ecdh1puRecipientKEK derives the key encryption key on the verifying side.
func ecdh1puRecipientKEK(ephemeral *ecdh.PublicKey, pair *ecKeyPair, alg string, kekLen int, apu, apv, tag []byte) ([]byte, error) {
	ze, err := pair.private.ECDH(ephemeral)
	if err != nil {
		return nil, err
	}

	zs, err := pair.private.ECDH(pair.public)
	if err != nil {
		return nil, err
	}

	return concatKDF(append(ze, zs...), alg, kekLen, apu, apv, tag)
}

// concatKDF derives keyLen bytes from z with the single-step KDF of NIST SP 800-56A
// section 5.8.1 over SHA-256. Every variable length field of OtherInfo is prefixed by its
// 32-bit big-endian length; SuppPubInfo is keydatalen (bits) followed by the tag.
func concatKDF(z []byte, alg string, keyLen int, apu, apv, tag []byte) ([]byte, error) {
	suppPubInfo := binary.BigEndian.AppendUint32(nil, uint32(keyLen)*8)
	suppPubInfo = appendLengthPrefixed(suppPubInfo, tag)

	kdf := josecipher.NewConcatKDF(crypto.SHA256, z,
		appendLengthPrefixed(nil, []byte(alg)),
		appendLengthPrefixed(nil, apu),
		appendLengthPrefixed(nil, apv),
		suppPubInfo,
		nil,
	)

	key := make([]byte, keyLen)
	if _, err := io.ReadFull(kdf, key); err != nil {
		return nil, err
	}

	return key, nil
}

func appendLengthPrefixed(dst, data []byte) []byte {
	dst = binary.BigEndian.AppendUint32(dst, uint32(len(data)))
	return append(dst, data...)
}

// generateEphemeral creates the per-token ephemeral key on the recipient's curve.
func generateEphemeral(pair *ecKeyPair, random io.Reader) (*ecdh.PrivateKey, error) {
	return pair.private.Curve().GenerateKey(random)
}

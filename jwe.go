package securetoken

import (
	"crypto/ecdh"
	"crypto/rsa"
	"errors"
	"io"
	"slices"
	"strings"
	"time"
)

// Encryption selects how a JWS is wrapped into a JWE.
type Encryption struct {
	Algorithm EncryptionAlgorithm
	Method    EncryptionMethod
	// Key is a Secret for DIR and a KeyPair for the ECDH-1PU and RSA-OAEP algorithms.
	Key SecretMaterial
}

// Signature selects how claims are signed into a JWS.
type Signature struct {
	Algorithm SignatureAlgorithm
	// Secret is a Secret for the HMAC algorithms and a KeyPair for the RSA ones.
	Secret SecretMaterial
}

// jweEngine issues and verifies nested (signed, then encrypted) tokens.
// The ciphertext of every JWE it produces or accepts is a standalone compact JWS.
type jweEngine struct {
	random io.Reader
	jws    *jwsEngine
	// accepted "alg" and "enc" values on verification. Empty means all.
	acceptedAlgorithms []EncryptionAlgorithm
	acceptedMethods    []EncryptionMethod
}

// issue encrypts an existing compact JWS, treated as opaque plaintext:
//
//	header "." encrypted key "." IV "." ciphertext "." tag
//
// The protected header (base64url, ASCII) is the additional authenticated data.
func (e *jweEngine) issue(enc Encryption, jws string) (string, error) {
	const op = "encrypt"

	key, err := e.checkIssue(op, enc)
	if err != nil {
		return "", err
	}

	if jws == "" {
		return "", illegalArgument(op, "token is empty")
	}

	if !IsJWSToken(jws) {
		return "", illegalArgument(op, "plaintext is not a compact JWS")
	}

	algDef := encryptionAlgorithms[enc.Algorithm]
	methodDef := encryptionMethods[enc.Method]
	header := jweHeader{Algorithm: algDef.name, Method: methodDef.name, ContentType: typeJWT}

	var (
		cek       []byte
		ephemeral *ecdh.PrivateKey
	)
	switch algDef.family {
	case familySymmetric:
		cek = key.secret
	case familyRSA, familyEC:
		cek = make([]byte, methodDef.keyLen)
		if _, err = io.ReadFull(e.random, cek); err != nil {
			return "", tokenError(op, err)
		}

		if algDef.family == familyEC {
			if ephemeral, err = generateEphemeral(key.ec, e.random); err != nil {
				return "", tokenError(op, err)
			}

			if header.EphemeralKey, err = ephemeralJWK(key.ec.curve, ephemeral.PublicKey()); err != nil {
				return "", tokenError(op, err)
			}
		}
	}

	protected, err := createProtectedHeader(header)
	if err != nil {
		return "", tokenError(op, err)
	}

	iv, ciphertext, tag, err := methodDef.cipher.encrypt(e.random, cek, []byte(jws), []byte(protected))
	if err != nil {
		return "", tokenError(op, err)
	}

	var encryptedKey []byte
	switch algDef.family {
	case familyRSA:
		encryptedKey, err = rsa.EncryptOAEP(algDef.hash.New(), e.random, key.rsa.public, cek, nil)
	case familyEC:
		var kek []byte
		if kek, err = ecdh1puSenderKEK(ephemeral, key.ec, algDef.name, algDef.kekLen, nil, nil, tag); err == nil {
			encryptedKey, err = keyWrap(kek, cek)
		}
	}
	if err != nil {
		return "", tokenError(op, err)
	}

	return joinParts(
		protected,
		Base64Encode(encryptedKey),
		Base64Encode(iv),
		Base64Encode(ciphertext),
		Base64Encode(tag),
	), nil
}

// issueSigned signs claims then encrypts the resulting JWS. It is exactly
// jws.issue followed by issue, with the encryption key checked up front so that
// no caller error is reported after signing.
func (e *jweEngine) issueSigned(enc Encryption, sig Signature, claims *Claims, ttl time.Duration) (string, error) {
	const op = "generate"

	if _, err := e.checkIssue(op, enc); err != nil {
		return "", err
	}

	jws, err := e.jws.issue(sig.Algorithm, sig.Secret, claims, ttl)
	if err != nil {
		return "", err
	}

	token, err := e.issue(enc, jws)
	if err != nil {
		return "", withOp(op, err)
	}

	return token, nil
}

func (e *jweEngine) checkIssue(op string, enc Encryption) (encryptionKey, error) {
	if isEmptyMaterial(enc.Key) {
		return encryptionKey{}, illegalArgument(op, "encryption key material is empty")
	}

	key, err := resolveEncryptionKey(enc.Algorithm, enc.Method, enc.Key)
	if err != nil {
		return encryptionKey{}, illegalArgument(op, "%v", err)
	}

	return key, nil
}

// verify decrypts a JWE, then verifies the nested JWS with signatureSecret.
//
// Checks, in order:
//  1. empty token or key material: illegal argument;
//  2. segment count, header, "cty", unknown or not accepted "alg"/"enc": invalid;
//  3. decryption key material that does not fit "alg"/"enc": token error;
//  4. CEK recovery, MAC or AEAD failure: invalid;
//  5. plaintext that is not a JWS, or a bad inner signature: invalid;
//  6. expiration: expired.
func (e *jweEngine) verify(token string, decryptionKey, signatureSecret SecretMaterial) (*Claims, error) {
	const op = "decrypt"

	if token == "" {
		return nil, illegalArgument(op, "token is empty")
	}

	if isEmptyMaterial(decryptionKey) {
		return nil, illegalArgument(op, "decryption key material is empty")
	}

	if isEmptyMaterial(signatureSecret) {
		return nil, illegalArgument(op, "signature secret is empty")
	}

	parts, ok := splitToken(token, jweSegments)
	if !ok {
		return nil, invalid(op)
	}

	var header jweHeader
	if err := decodeSegment(parts[0], &header); err != nil {
		return nil, invalid(op)
	}

	if !strings.EqualFold(header.ContentType, typeJWT) {
		return nil, invalid(op)
	}

	alg, ok := ParseEncryptionAlgorithm(header.Algorithm)
	if !ok || !e.acceptsAlgorithm(alg) {
		return nil, invalid(op)
	}

	method, ok := ParseEncryptionMethod(header.Method)
	if !ok || !e.acceptsMethod(method) {
		return nil, invalid(op)
	}

	key, err := resolveEncryptionKey(alg, method, decryptionKey)
	if err != nil {
		return nil, tokenError(op, err)
	}

	segments := make([][]byte, 4)
	for i, part := range parts[1:] {
		if segments[i], err = Base64Decode(part); err != nil {
			return nil, invalid(op)
		}
	}
	encryptedKey, iv, ciphertext, tag := segments[0], segments[1], segments[2], segments[3]

	cek, err := e.recoverCEK(alg, method, key, header, encryptedKey, tag)
	if err != nil {
		return nil, invalid(op)
	}

	plaintext, err := encryptionMethods[method].cipher.decrypt(cek, iv, ciphertext, tag, []byte(parts[0]))
	if err != nil {
		return nil, invalid(op)
	}

	jws := string(plaintext)
	if !IsJWSToken(jws) {
		return nil, invalid(op)
	}

	claims, err := e.jws.verify(jws, signatureSecret)
	if err != nil {
		return nil, withOp(op, err)
	}

	return claims, nil
}

var errEncryptedKey = errors.New("unexpected encrypted key")

// recoverCEK returns the content encryption key per the key management algorithm.
func (e *jweEngine) recoverCEK(alg EncryptionAlgorithm, method EncryptionMethod, key encryptionKey, header jweHeader, encryptedKey, tag []byte) ([]byte, error) {
	algDef := encryptionAlgorithms[alg]
	keyLen := encryptionMethods[method].keyLen

	switch algDef.family {
	case familySymmetric:
		if len(encryptedKey) != 0 {
			return nil, errEncryptedKey
		}

		return key.secret, nil
	case familyRSA:
		cek, err := rsa.DecryptOAEP(algDef.hash.New(), nil, key.rsa.private, encryptedKey, nil)
		if err != nil || len(cek) != keyLen {
			// RFC 7516 section 11.5: continue with a random CEK so that an OAEP failure
			// is indistinguishable from a content authentication failure.
			cek = make([]byte, keyLen)
			if _, err = io.ReadFull(e.random, cek); err != nil {
				return nil, err
			}
		}

		return cek, nil
	case familyEC:
		epk, err := header.ephemeralPublic(key.ec.curve)
		if err != nil {
			return nil, err
		}

		apu, apv, err := header.partyInfo()
		if err != nil {
			return nil, err
		}

		kek, err := ecdh1puRecipientKEK(epk, key.ec, algDef.name, algDef.kekLen, apu, apv, tag)
		if err != nil {
			return nil, err
		}

		cek, err := keyUnwrap(kek, encryptedKey)
		if err != nil {
			return nil, err
		}

		if len(cek) != keyLen {
			return nil, errKeyUnwrap
		}

		return cek, nil
	default:
		return nil, errEncryptedKey
	}
}

func (e *jweEngine) acceptsAlgorithm(alg EncryptionAlgorithm) bool {
	return len(e.acceptedAlgorithms) == 0 || slices.Contains(e.acceptedAlgorithms, alg)
}

func (e *jweEngine) acceptsMethod(method EncryptionMethod) bool {
	return len(e.acceptedMethods) == 0 || slices.Contains(e.acceptedMethods, method)
}

package securetoken

import (
	"fmt"
	"os"
)

// SecretMaterial is the key material handed in by the caller for a single call.
// It is either a raw shared Secret or an asymmetric KeyPair.
//
// The package never persists, caches or logs secret material: both
// implementations redact themselves when formatted.
type SecretMaterial interface {
	secretMaterial()
}

// Secret is a raw shared secret, used by the HMAC signature algorithms and by
// the "dir" encryption algorithm.
type Secret []byte

func (Secret) secretMaterial() {}

// String redacts the secret.
func (s Secret) String() string { return "Secret([REDACTED])" }

// GoString redacts the secret.
func (s Secret) GoString() string { return s.String() }

// NewSecret returns the bytes of s as a Secret.
func NewSecret(s string) Secret {
	return Secret(s)
}

// KeyPair is a PEM encoded asymmetric key pair, RSA or EC depending on the algorithm.
// Both halves are required and must belong together.
type KeyPair struct {
	PublicKey  []byte
	PrivateKey []byte
}

func (KeyPair) secretMaterial() {}

// String redacts the private half.
func (p KeyPair) String() string { return "KeyPair([REDACTED])" }

// GoString redacts the private half.
func (p KeyPair) GoString() string { return p.String() }

// NewKeyPair returns a KeyPair from PEM text.
func NewKeyPair(publicKeyPEM, privateKeyPEM string) KeyPair {
	return KeyPair{PublicKey: []byte(publicKeyPEM), PrivateKey: []byte(privateKeyPEM)}
}

// LoadSecret accepts a filename whose plain text contents are the shared secret,
// or the raw secret itself when no such file exists.
func LoadSecret(filenameOrRaw string) (Secret, error) {
	if fileExists(filenameOrRaw) {
		b, err := os.ReadFile(filenameOrRaw)
		if err != nil {
			return nil, err
		}

		return Secret(b), nil
	}

	return Secret(filenameOrRaw), nil
}

// LoadKeyPair reads a PEM public key and a PEM private key from two files.
// The contents are not parsed here, the algorithm decides which family they must be.
func LoadKeyPair(publicKeyFilename, privateKeyFilename string) (KeyPair, error) {
	public, err := os.ReadFile(publicKeyFilename)
	if err != nil {
		return KeyPair{}, fmt.Errorf("public key: %w", err)
	}

	private, err := os.ReadFile(privateKeyFilename)
	if err != nil {
		return KeyPair{}, fmt.Errorf("private key: %w", err)
	}

	return KeyPair{PublicKey: public, PrivateKey: private}, nil
}

// fileExists tries to report whether the local physical "path" exists and it's not a directory.
func fileExists(path string) bool {
	info, err := os.Stat(path)
	if err != nil {
		return false
	}

	return !info.IsDir()
}

func isEmptyMaterial(m SecretMaterial) bool {
	switch v := m.(type) {
	case Secret:
		return len(v) == 0
	case KeyPair:
		return len(v.PublicKey) == 0 && len(v.PrivateKey) == 0
	default:
		return true
	}
}

func materialKind(m SecretMaterial) string {
	switch m.(type) {
	case Secret:
		return "symmetric secret"
	case KeyPair:
		return "key pair"
	default:
		return "no key material"
	}
}

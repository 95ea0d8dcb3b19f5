package securetoken

import (
	"log/slog"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfigDefaults(t *testing.T) {
	cfg, err := LoadConfig()
	require.NoError(t, err)

	assert.Zero(t, cfg.Leeway)
	assert.Empty(t, cfg.SignatureAlgorithms)
	assert.Equal(t, slog.LevelInfo, cfg.LogLevel)
}

func TestLoadConfigFromEnv(t *testing.T) {
	t.Setenv("SECURETOKEN_LEEWAY", "30s")
	t.Setenv("SECURETOKEN_SIGNATURE_ALGORITHMS", "HS256,RS256")
	t.Setenv("SECURETOKEN_ENCRYPTION_ALGORITHMS", "dir,RSA-OAEP-256")
	t.Setenv("SECURETOKEN_ENCRYPTION_METHODS", "XC20P")
	t.Setenv("SECURETOKEN_LOG_LEVEL", "debug")

	cfg, err := LoadConfig()
	require.NoError(t, err)

	assert.Equal(t, 30*time.Second, cfg.Leeway)
	assert.Equal(t, []string{"HS256", "RS256"}, cfg.SignatureAlgorithms)
	assert.Equal(t, []string{"dir", "RSA-OAEP-256"}, cfg.EncryptionAlgorithms)
	assert.Equal(t, []string{"XC20P"}, cfg.EncryptionMethods)
	assert.Equal(t, slog.LevelDebug, cfg.LogLevel)
}

func TestLoadConfigInvalidEnv(t *testing.T) {
	t.Setenv("SECURETOKEN_LEEWAY", "a while")

	_, err := LoadConfig()
	assert.Error(t, err)
}

func TestConfigOptions(t *testing.T) {
	tests := []struct {
		name string
		cfg  Config
	}{
		{"negative leeway", Config{Leeway: -time.Second}},
		{"unknown signature algorithm", Config{SignatureAlgorithms: []string{"HS1"}}},
		{"reserved signature algorithm", Config{SignatureAlgorithms: []string{"ES256"}}},
		{"unknown encryption algorithm", Config{EncryptionAlgorithms: []string{"A128KW"}}},
		{"unknown encryption method", Config{EncryptionMethods: []string{"A128GCM"}}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewFromConfig(tt.cfg)
			requireKind(t, KindIllegalArgument, err)
		})
	}
}

func TestNewFromConfig(t *testing.T) {
	cfg := Config{
		Leeway:               10 * time.Second,
		SignatureAlgorithms:  []string{"HS256"},
		EncryptionAlgorithms: []string{"dir"},
		EncryptionMethods:    []string{"A128CBC-HS256"},
	}

	// Options passed after the configuration win.
	service, err := NewFromConfig(cfg, WithClock(fixedClock(testNow.Add(5*time.Second))))
	require.NoError(t, err)

	token, err := newTestService().GenerateToken(HS256, testHS256Secret, NewClaims(), time.Second)
	require.NoError(t, err)

	_, err = service.GetAllClaimsFromToken(token, testHS256Secret)
	require.NoError(t, err, "within the configured leeway")

	rsToken, err := newTestService().GenerateToken(RS256, testRSAKeyPair(), NewClaims(), time.Minute)
	require.NoError(t, err)

	_, err = service.GetAllClaimsFromToken(rsToken, testRSAKeyPair())
	requireKind(t, KindInvalid, err)

	key := Secret(strings.Repeat("k", 32))
	jwe, err := newTestService().GenerateSignedEncryptedToken(Encryption{DIR, XC20P, key}, Signature{HS256, testHS256Secret}, NewClaims(), time.Minute)
	require.NoError(t, err)

	_, err = service.GetAllClaimsFromEncryptedToken(jwe, key, testHS256Secret)
	requireKind(t, KindInvalid, err)
}

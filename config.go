package securetoken

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/caarlos0/env/v11"
)

// Config is the environment-driven configuration of a Service.
// Algorithm lists hold JOSE names, e.g. "HS256,RS256"; an empty list accepts every
// supported value.
type Config struct {
	Leeway               time.Duration `env:"SECURETOKEN_LEEWAY" envDefault:"0s"`
	SignatureAlgorithms  []string      `env:"SECURETOKEN_SIGNATURE_ALGORITHMS" envSeparator:","`
	EncryptionAlgorithms []string      `env:"SECURETOKEN_ENCRYPTION_ALGORITHMS" envSeparator:","`
	EncryptionMethods    []string      `env:"SECURETOKEN_ENCRYPTION_METHODS" envSeparator:","`
	LogLevel             slog.Level    `env:"SECURETOKEN_LOG_LEVEL" envDefault:"INFO"`
}

// LoadConfig reads the configuration from the process environment.
func LoadConfig() (Config, error) {
	cfg, err := env.ParseAs[Config]()
	if err != nil {
		return Config{}, fmt.Errorf("securetoken: parse config: %w", err)
	}

	return cfg, nil
}

// Options converts the configuration to service options.
// Unknown or reserved algorithm names and a negative leeway are caller errors.
func (c Config) Options() ([]Option, error) {
	const op = "config"

	if c.Leeway < 0 {
		return nil, illegalArgument(op, "leeway must not be negative, got %s", c.Leeway)
	}

	opts := []Option{WithLeeway(c.Leeway)}

	if len(c.SignatureAlgorithms) > 0 {
		algs := make([]SignatureAlgorithm, 0, len(c.SignatureAlgorithms))
		for _, name := range c.SignatureAlgorithms {
			alg, ok := ParseSignatureAlgorithm(name)
			if !ok || !alg.Supported() {
				return nil, illegalArgument(op, "unsupported signature algorithm %q", name)
			}

			algs = append(algs, alg)
		}

		opts = append(opts, WithSignatureAlgorithms(algs...))
	}

	if len(c.EncryptionAlgorithms) > 0 {
		algs := make([]EncryptionAlgorithm, 0, len(c.EncryptionAlgorithms))
		for _, name := range c.EncryptionAlgorithms {
			alg, ok := ParseEncryptionAlgorithm(name)
			if !ok {
				return nil, illegalArgument(op, "unsupported encryption algorithm %q", name)
			}

			algs = append(algs, alg)
		}

		opts = append(opts, WithEncryptionAlgorithms(algs...))
	}

	if len(c.EncryptionMethods) > 0 {
		methods := make([]EncryptionMethod, 0, len(c.EncryptionMethods))
		for _, name := range c.EncryptionMethods {
			method, ok := ParseEncryptionMethod(name)
			if !ok {
				return nil, illegalArgument(op, "unsupported encryption method %q", name)
			}

			methods = append(methods, method)
		}

		opts = append(opts, WithEncryptionMethods(methods...))
	}

	return opts, nil
}

// NewFromConfig returns a Service configured by cfg. Extra opts are applied after
// the configuration, so they win, e.g. WithLogger or WithClock.
func NewFromConfig(cfg Config, opts ...Option) (*Service, error) {
	configured, err := cfg.Options()
	if err != nil {
		return nil, err
	}

	return New(append(configured, opts...)...), nil
}

package securetoken

import (
	"crypto/rand"
	"io"
	"log/slog"
	"time"

	"github.com/google/uuid"
)

// Option configures a Service. Options are applied once by New,
// a Service never changes afterwards.
type Option func(*options)

type options struct {
	clock      func() time.Time
	random     io.Reader
	newID      func() (string, error)
	leeway     time.Duration
	logger     *slog.Logger
	sigAlgs    []SignatureAlgorithm
	encAlgs    []EncryptionAlgorithm
	encMethods []EncryptionMethod
}

func defaultOptions() *options {
	return &options{
		clock:  time.Now,
		random: rand.Reader,
		logger: slog.New(slog.DiscardHandler),
	}
}

// WithClock sets the time source used for "iat", "exp" and expiration checks.
// Useful for testing.
func WithClock(clock func() time.Time) Option {
	return func(o *options) {
		if clock != nil {
			o.clock = clock
		}
	}
}

// WithRandom sets the source of IVs, nonces, content encryption keys, ephemeral keys
// and, unless WithIDGenerator is given, token ids. Defaults to crypto/rand.Reader.
// Only tests should replace it.
func WithRandom(random io.Reader) Option {
	return func(o *options) {
		if random != nil {
			o.random = random
		}
	}
}

// WithIDGenerator sets the "jti" generator. Defaults to random (version 4) UUIDs.
func WithIDGenerator(newID func() (string, error)) Option {
	return func(o *options) {
		o.newID = newID
	}
}

// WithLeeway sets the clock-skew tolerance applied to "exp" on verification.
// Zero, the default, means no tolerance at all. A negative leeway is ignored and
// the previous value is kept; Config.Options rejects it instead.
func WithLeeway(leeway time.Duration) Option {
	return func(o *options) {
		if leeway >= 0 {
			o.leeway = leeway
		}
	}
}

// WithLogger sets the structured logger. Verification failures are logged at debug
// level with their kind and operation only, never with tokens, claims or keys.
func WithLogger(logger *slog.Logger) Option {
	return func(o *options) {
		if logger != nil {
			o.logger = logger
		}
	}
}

// WithSignatureAlgorithms limits the JWS "alg" values accepted on verification.
// A token declaring any other algorithm is invalid. By default every supported
// algorithm is accepted.
func WithSignatureAlgorithms(algs ...SignatureAlgorithm) Option {
	return func(o *options) {
		o.sigAlgs = append([]SignatureAlgorithm(nil), algs...)
	}
}

// WithEncryptionAlgorithms limits the JWE "alg" values accepted on verification.
func WithEncryptionAlgorithms(algs ...EncryptionAlgorithm) Option {
	return func(o *options) {
		o.encAlgs = append([]EncryptionAlgorithm(nil), algs...)
	}
}

// WithEncryptionMethods limits the JWE "enc" values accepted on verification.
func WithEncryptionMethods(methods ...EncryptionMethod) Option {
	return func(o *options) {
		o.encMethods = append([]EncryptionMethod(nil), methods...)
	}
}

func (o *options) idGenerator() func() (string, error) {
	if o.newID != nil {
		return o.newID
	}

	random := o.random
	return func() (string, error) {
		id, err := uuid.NewRandomFromReader(random)
		if err != nil {
			return "", err
		}

		return id.String(), nil
	}
}

package securetoken

import (
	"log/slog"
	"time"
)

const (
	tokenTypeJWS = "jws"
	tokenTypeJWE = "jwe"
)

// Service is the entry point of the package: it issues and verifies JWS and nested
// JWE tokens.
//
// Every method exists in a "throwing" form, returning (value, error), and the
// verification methods also in a "safe" form, GetSafe*, returning a Result. Both
// forms share one implementation and differ only in how a failure is handed back.
//
// A Service holds configuration only. Secret material is passed per call and never
// retained, so one Service can be shared by any number of goroutines.
type Service struct {
	jws    *jwsEngine
	jwe    *jweEngine
	logger *slog.Logger
}

// New returns a Service configured by opts.
func New(opts ...Option) *Service {
	o := defaultOptions()
	for _, opt := range opts {
		opt(o)
	}

	jws := &jwsEngine{
		clock:     o.clock,
		newID:     o.idGenerator(),
		validator: &Validator{Leeway: o.leeway, Clock: o.clock},
		accepted:  o.sigAlgs,
	}

	return &Service{
		jws: jws,
		jwe: &jweEngine{
			random:             o.random,
			jws:                jws,
			acceptedAlgorithms: o.encAlgs,
			acceptedMethods:    o.encMethods,
		},
		logger: o.logger,
	}
}

// GenerateToken signs claims into a compact JWS valid for ttl.
// The "exp", "iat" and "jti" claims are always set, overriding caller values.
//
// Example:
//
//	claims := securetoken.NewClaims().Set("sub", "user-1")
//	token, err := service.GenerateToken(securetoken.HS256, securetoken.NewSecret(secret), claims, 15*time.Minute)
func (s *Service) GenerateToken(alg SignatureAlgorithm, secret SecretMaterial, claims *Claims, ttl time.Duration) (string, error) {
	token, err := s.jws.issue(alg, secret, claims, ttl)
	return s.issued(tokenTypeJWS, token, err)
}

// GenerateEncryptedToken encrypts an existing compact JWS into a nested JWE.
func (s *Service) GenerateEncryptedToken(enc Encryption, jws string) (string, error) {
	token, err := s.jwe.issue(enc, jws)
	return s.issued(tokenTypeJWE, token, err)
}

// GenerateSignedEncryptedToken signs claims and encrypts the result in one call.
// It is equivalent to GenerateToken followed by GenerateEncryptedToken.
func (s *Service) GenerateSignedEncryptedToken(enc Encryption, sig Signature, claims *Claims, ttl time.Duration) (string, error) {
	token, err := s.jwe.issueSigned(enc, sig, claims, ttl)
	return s.issued(tokenTypeJWE, token, err)
}

func (s *Service) issued(tokenType, token string, err error) (string, error) {
	if err != nil {
		e := asError(err)
		s.logger.Debug("token issuance failed", tokenTypeAttr(tokenType), opAttr(e.Op), kindAttr(e), errorAttr(e))
		return "", e
	}

	return token, nil
}

// GetAllClaimsFromToken verifies a JWS and returns all of its claims.
func (s *Service) GetAllClaimsFromToken(token string, secret SecretMaterial) (*Claims, error) {
	return s.allClaims(token, secret).Unwrap()
}

// GetSafeAllClaimsFromToken is the Result form of GetAllClaimsFromToken.
func (s *Service) GetSafeAllClaimsFromToken(token string, secret SecretMaterial) Result {
	return s.allClaims(token, secret)
}

// GetAllClaimsFromEncryptedToken decrypts a JWE, verifies the nested JWS and
// returns all of its claims.
func (s *Service) GetAllClaimsFromEncryptedToken(token string, decryptionKey, signatureSecret SecretMaterial) (*Claims, error) {
	return s.allEncryptedClaims(token, decryptionKey, signatureSecret).Unwrap()
}

// GetSafeAllClaimsFromEncryptedToken is the Result form of GetAllClaimsFromEncryptedToken.
func (s *Service) GetSafeAllClaimsFromEncryptedToken(token string, decryptionKey, signatureSecret SecretMaterial) Result {
	return s.allEncryptedClaims(token, decryptionKey, signatureSecret)
}

// GetPayloadKeys verifies a JWS and returns only the claims named by keys, in that
// order. Keys missing from the token are skipped. At least one key is required.
func (s *Service) GetPayloadKeys(token string, secret SecretMaterial, keys ...string) (*Claims, error) {
	return s.payloadKeys(token, secret, keys).Unwrap()
}

// GetSafePayloadKeys is the Result form of GetPayloadKeys.
func (s *Service) GetSafePayloadKeys(token string, secret SecretMaterial, keys ...string) Result {
	return s.payloadKeys(token, secret, keys)
}

// GetPayloadExceptKeys verifies a JWS and returns every claim not named by keys.
// With no keys the full claim set is returned.
func (s *Service) GetPayloadExceptKeys(token string, secret SecretMaterial, keys ...string) (*Claims, error) {
	return s.payloadExceptKeys(token, secret, keys).Unwrap()
}

// GetSafePayloadExceptKeys is the Result form of GetPayloadExceptKeys.
func (s *Service) GetSafePayloadExceptKeys(token string, secret SecretMaterial, keys ...string) Result {
	return s.payloadExceptKeys(token, secret, keys)
}

// GetEncryptedPayloadKeys is GetPayloadKeys for nested JWE tokens.
func (s *Service) GetEncryptedPayloadKeys(token string, decryptionKey, signatureSecret SecretMaterial, keys ...string) (*Claims, error) {
	return s.encryptedPayloadKeys(token, decryptionKey, signatureSecret, keys).Unwrap()
}

// GetSafeEncryptedPayloadKeys is the Result form of GetEncryptedPayloadKeys.
func (s *Service) GetSafeEncryptedPayloadKeys(token string, decryptionKey, signatureSecret SecretMaterial, keys ...string) Result {
	return s.encryptedPayloadKeys(token, decryptionKey, signatureSecret, keys)
}

// GetEncryptedPayloadExceptKeys is GetPayloadExceptKeys for nested JWE tokens.
func (s *Service) GetEncryptedPayloadExceptKeys(token string, decryptionKey, signatureSecret SecretMaterial, keys ...string) (*Claims, error) {
	return s.encryptedPayloadExceptKeys(token, decryptionKey, signatureSecret, keys).Unwrap()
}

// GetSafeEncryptedPayloadExceptKeys is the Result form of GetEncryptedPayloadExceptKeys.
func (s *Service) GetSafeEncryptedPayloadExceptKeys(token string, decryptionKey, signatureSecret SecretMaterial, keys ...string) Result {
	return s.encryptedPayloadExceptKeys(token, decryptionKey, signatureSecret, keys)
}

// The internal core: every public verification method is a thin adapter over these.

func (s *Service) allClaims(token string, secret SecretMaterial) Result {
	claims, err := s.jws.verify(token, secret)
	return s.verified(tokenTypeJWS, claims, err)
}

func (s *Service) allEncryptedClaims(token string, decryptionKey, signatureSecret SecretMaterial) Result {
	claims, err := s.jwe.verify(token, decryptionKey, signatureSecret)
	return s.verified(tokenTypeJWE, claims, err)
}

func (s *Service) payloadKeys(token string, secret SecretMaterial, keys []string) Result {
	if len(keys) == 0 {
		return s.verified(tokenTypeJWS, nil, illegalArgument("payload_keys", "at least one key is required"))
	}

	return project(s.allClaims(token, secret), keys)
}

func (s *Service) payloadExceptKeys(token string, secret SecretMaterial, keys []string) Result {
	return projectExcept(s.allClaims(token, secret), keys)
}

func (s *Service) encryptedPayloadKeys(token string, decryptionKey, signatureSecret SecretMaterial, keys []string) Result {
	if len(keys) == 0 {
		return s.verified(tokenTypeJWE, nil, illegalArgument("payload_keys", "at least one key is required"))
	}

	return project(s.allEncryptedClaims(token, decryptionKey, signatureSecret), keys)
}

func (s *Service) encryptedPayloadExceptKeys(token string, decryptionKey, signatureSecret SecretMaterial, keys []string) Result {
	return projectExcept(s.allEncryptedClaims(token, decryptionKey, signatureSecret), keys)
}

func project(r Result, keys []string) Result {
	if !r.OK() {
		return r
	}

	return ok(r.claims.Project(keys...))
}

func projectExcept(r Result, keys []string) Result {
	if !r.OK() {
		return r
	}

	return ok(r.claims.ProjectExcept(keys...))
}

func (s *Service) verified(tokenType string, claims *Claims, err error) Result {
	if err != nil {
		r := failed(err)
		s.logger.Debug("token verification failed", tokenTypeAttr(tokenType), opAttr(r.err.Op), kindAttr(r.err), errorAttr(r.err))
		return r
	}

	return ok(claims)
}

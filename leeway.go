package securetoken

import (
	"time"
)

// Validator performs the temporal checks shared by the JWS and JWE paths.
// It runs only after the token was cryptographically verified, so a forged
// token is reported invalid, never expired.
//
// Leeway is the clock-skew tolerance added to "exp". The default is zero:
// a token is expired from the exact second its "exp" claim names. Services
// verifying tokens minted by other hosts should configure it explicitly, see
// WithLeeway and Config.Leeway.
type Validator struct {
	Leeway time.Duration
	// Clock returns the current time, time.Now when nil.
	Clock func() time.Time
}

// CheckTemporal reports an expired error if now >= exp + Leeway,
// and an invalid error if the claims carry no numeric "exp".
func (v *Validator) CheckTemporal(claims *Claims) error {
	exp, ok := claims.Expiration()
	if !ok {
		return invalid("validate")
	}

	if !v.now().Before(exp.Add(v.Leeway)) {
		return expired("validate")
	}

	return nil
}

func (v *Validator) now() time.Time {
	if v.Clock == nil {
		return time.Now()
	}

	return v.Clock()
}

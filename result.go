package securetoken

// Result is the outcome of a "safe" verification: either the claims or a typed
// error, never both. It is returned by value and carries no panic or unwinding.
//
// Example:
//
//	res := service.GetSafeAllClaimsFromToken(token, secret)
//	if res.OK() {
//	    use(res.Claims())
//	    return
//	}
//
//	switch res.Kind() {
//	case securetoken.KindExpired:
//	    refresh()
//	default:
//	    reject()
//	}
type Result struct {
	claims *Claims
	err    *Error
}

func ok(claims *Claims) Result {
	return Result{claims: claims}
}

func failed(err error) Result {
	return Result{err: asError(err)}
}

// OK reports whether verification succeeded.
func (r Result) OK() bool {
	return r.err == nil
}

// Claims returns the verified claims, nil on failure.
func (r Result) Claims() *Claims {
	return r.claims
}

// Err returns the failure, nil on success.
func (r Result) Err() error {
	if r.err == nil {
		return nil
	}

	return r.err
}

// Kind returns the failure kind, KindUnknown on success.
func (r Result) Kind() ErrorKind {
	if r.err == nil {
		return KindUnknown
	}

	return r.err.Kind
}

// Unwrap converts the result to the (value, error) form of the throwing API.
func (r Result) Unwrap() (*Claims, error) {
	if r.err != nil {
		return nil, r.err
	}

	return r.claims, nil
}

// asError makes sure every failure surfaces as *Error. Anything foreign is a
// token error, it is never downgraded to invalid or upgraded to expired.
func asError(err error) *Error {
	if e, ok := err.(*Error); ok {
		return e
	}

	return tokenError("", err)
}

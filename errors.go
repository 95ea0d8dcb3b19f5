package securetoken

import (
	"errors"
	"fmt"
)

// ErrorKind classifies a failure of the token subsystem.
//
// The kinds are ordered by specificity. Callers that branch on failures
// (authorization, audit, retry logic) should switch on the kind instead of
// matching error messages.
type ErrorKind uint8

const (
	// KindUnknown is reported by KindOf for errors that did not originate in this package.
	KindUnknown ErrorKind = iota
	// KindIllegalArgument is a caller error: empty token or secret, empty key filter
	// where one is required, or key material structurally incompatible with the
	// requested algorithm. Always reported before any cryptographic work.
	KindIllegalArgument
	// KindToken is a cryptographically-adjacent failure that is neither "invalid" nor
	// "expired", principally key material that does not fit the algorithm a token
	// declares. It means "your key is wrong", not "this is a forgery".
	KindToken
	// KindInvalid is a structural or cryptographic verification failure.
	KindInvalid
	// KindExpired is a cryptographically valid token whose expiration has passed.
	KindExpired
)

func (k ErrorKind) String() string {
	switch k {
	case KindIllegalArgument:
		return "illegal_argument"
	case KindToken:
		return "token"
	case KindInvalid:
		return "invalid"
	case KindExpired:
		return "expired"
	default:
		return "unknown"
	}
}

var (
	// ErrIllegalArgument matches every KindIllegalArgument error through errors.Is.
	ErrIllegalArgument = errors.New("securetoken: illegal argument")
	// ErrToken matches every token failure (KindToken, KindInvalid and KindExpired)
	// through errors.Is, the same way a base exception type would.
	ErrToken = errors.New("securetoken: token error")
	// ErrTokenInvalid matches KindInvalid errors.
	ErrTokenInvalid = errors.New("securetoken: invalid token")
	// ErrTokenExpired matches KindExpired errors.
	ErrTokenExpired = errors.New("securetoken: token expired")
)

// Error is the error type returned by every operation of this package.
//
// Invalid errors deliberately carry a single fixed message and no cause:
// the failing check (segment count, header, signature, MAC) is never exposed.
type Error struct {
	Kind ErrorKind
	// Op is the operation that failed, e.g. "generate", "verify", "decrypt".
	Op  string
	msg string
	err error
}

func (e *Error) Error() string {
	if e.Kind == KindInvalid {
		return ErrTokenInvalid.Error()
	}

	if e.msg == "" {
		return e.sentinel().Error()
	}

	return e.sentinel().Error() + ": " + e.msg
}

// Unwrap returns the underlying cause, if any. Invalid errors never have one.
func (e *Error) Unwrap() error {
	return e.err
}

// Is reports whether target is the sentinel of this error's kind.
func (e *Error) Is(target error) bool {
	switch target {
	case e.sentinel():
		return true
	case ErrToken:
		return e.Kind == KindToken || e.Kind == KindInvalid || e.Kind == KindExpired
	}

	return false
}

func (e *Error) sentinel() error {
	switch e.Kind {
	case KindIllegalArgument:
		return ErrIllegalArgument
	case KindInvalid:
		return ErrTokenInvalid
	case KindExpired:
		return ErrTokenExpired
	default:
		return ErrToken
	}
}

// KindOf returns the kind of err, or KindUnknown if err is nil or foreign.
func KindOf(err error) ErrorKind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}

	return KindUnknown
}

func illegalArgument(op, format string, args ...any) *Error {
	return &Error{Kind: KindIllegalArgument, Op: op, msg: fmt.Sprintf(format, args...)}
}

func tokenError(op string, cause error) *Error {
	return &Error{Kind: KindToken, Op: op, msg: cause.Error(), err: cause}
}

func invalid(op string) *Error {
	return &Error{Kind: KindInvalid, Op: op}
}

func expired(op string) *Error {
	return &Error{Kind: KindExpired, Op: op}
}

// withOp re-labels a package error with the outer operation, keeping its kind.
func withOp(op string, err error) error {
	var e *Error
	if errors.As(err, &e) {
		cp := *e
		cp.Op = op
		return &cp
	}

	return err
}

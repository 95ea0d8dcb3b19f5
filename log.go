package securetoken

import (
	"log/slog"
)

// Attribute helpers return an empty slog.Attr for zero values, which slog drops,
// so call sites never branch on optional fields.

func opAttr(op string) slog.Attr {
	if op == "" {
		return slog.Attr{}
	}

	return slog.String("op", op)
}

func kindAttr(err *Error) slog.Attr {
	if err == nil {
		return slog.Attr{}
	}

	return slog.String("kind", err.Kind.String())
}

// errorAttr logs the message of caller and key errors. Invalid and expired
// errors carry a fixed message already, so nothing about the failing check leaks.
func errorAttr(err *Error) slog.Attr {
	if err == nil {
		return slog.Attr{}
	}

	return slog.String("error", err.Error())
}

func tokenTypeAttr(tokenType string) slog.Attr {
	return slog.String("token_type", tokenType)
}

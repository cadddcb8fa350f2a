package openrouter

import (
	"errors"
	"fmt"
)

// Kind classifies completion failures.
type Kind int

const (
	// KindUnavailable covers timeouts, transport failures and non-success statuses.
	KindUnavailable Kind = iota + 1
	// KindProtocol covers missing, unparseable or schema-violating content.
	KindProtocol
)

func (k Kind) String() string {
	switch k {
	case KindUnavailable:
		return "upstream_unavailable"
	case KindProtocol:
		return "upstream_protocol_error"
	default:
		return "unknown"
	}
}

// Error is returned by every failing completion call.
type Error struct {
	Kind       Kind
	Message    string
	StatusCode int // upstream HTTP status, 0 when no response was received
	Err        error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *Error) Unwrap() error {
	return e.Err
}

// KindOf returns the kind of a completion error, or 0 for other errors.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return 0
}

func unavailable(message string, status int, err error) *Error {
	return &Error{Kind: KindUnavailable, Message: message, StatusCode: status, Err: err}
}

func protocol(message string, err error) *Error {
	return &Error{Kind: KindProtocol, Message: message, Err: err}
}

// Package errs tags lower-level database failures with a Kind as they cross into
// the repository API. The driver error stays reachable through Unwrap.
package errs

import (
	"errors"
	"fmt"
)

type Kind uint8

const (
	Other Kind = iota
	Connection
	ConnectionTimeout
	Statement
	DuplicateKey
	NotFound
	Invalid
)

func (k Kind) String() string {
	switch k {
	case Connection:
		return "connection"
	case ConnectionTimeout:
		return "connection_timeout"
	case Statement:
		return "statement"
	case DuplicateKey:
		return "duplicate_key"
	case NotFound:
		return "not_found"
	case Invalid:
		return "invalid"
	default:
		return "other"
	}
}

// Sentinels for errors.Is. An *Error matches the sentinel of its Kind;
// DuplicateKey also matches ErrStatement.
var (
	ErrConnection        = errors.New("connection error")
	ErrConnectionTimeout = errors.New("connection timeout")
	ErrStatement         = errors.New("statement error")
	ErrDuplicateKey      = errors.New("duplicate key")
	ErrNotFound          = errors.New("not found")
	ErrInvalid           = errors.New("invalid input")
)

type Error struct {
	Kind Kind
	Op   string
	Msg  string
	Err  error
}

func (e *Error) Error() string {
	msg := e.Msg
	if msg == "" {
		msg = e.Kind.String()
	}
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Op, msg, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Op, msg)
}

func (e *Error) Unwrap() error { return e.Err }

func (e *Error) Is(target error) bool {
	switch target {
	case ErrConnection:
		return e.Kind == Connection
	case ErrConnectionTimeout:
		return e.Kind == ConnectionTimeout
	case ErrStatement:
		return e.Kind == Statement || e.Kind == DuplicateKey
	case ErrDuplicateKey:
		return e.Kind == DuplicateKey
	case ErrNotFound:
		return e.Kind == NotFound
	case ErrInvalid:
		return e.Kind == Invalid
	}
	return false
}

func E(kind Kind, op string, err error) *Error {
	return &Error{Kind: kind, Op: op, Err: err}
}

func NotFoundf(op, format string, args ...any) *Error {
	return &Error{Kind: NotFound, Op: op, Msg: fmt.Sprintf(format, args...)}
}

// KindOf reports the Kind of the first *Error in err's chain, or Other.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return Other
}

// Retag keeps an already-tagged error as is and tags anything else with kind.
func Retag(kind Kind, op string, err error) error {
	if err == nil {
		return nil
	}
	var e *Error
	if errors.As(err, &e) {
		return err
	}
	return E(kind, op, err)
}

package models

import "fmt"

// ErrorType represents different categories of errors
type ErrorType int

const (
	ErrRequest ErrorType = iota
	ErrDecode
	ErrLocalDB
	ErrIO
	ErrInvalidConfig
	ErrSignature
)

// String returns the string representation of ErrorType
func (e ErrorType) String() string {
	switch e {
	case ErrRequest:
		return "Request"
	case ErrDecode:
		return "Decode"
	case ErrLocalDB:
		return "LocalDB"
	case ErrIO:
		return "IO"
	case ErrInvalidConfig:
		return "InvalidConfig"
	case ErrSignature:
		return "Signature"
	default:
		return "Unknown"
	}
}

// ReproStatusError represents an error that aborts a status run
type ReproStatusError struct {
	Type    ErrorType
	Package string
	Err     error
}

// Error implements the error interface
func (e *ReproStatusError) Error() string {
	if e.Package != "" {
		return fmt.Sprintf("[%s] %s: %v", e.Type, e.Package, e.Err)
	}
	return fmt.Sprintf("[%s] %v", e.Type, e.Err)
}

// Unwrap returns the wrapped error
func (e *ReproStatusError) Unwrap() error {
	return e.Err
}

// NewError wraps err into a ReproStatusError of the given type.
// A nil err yields nil.
func NewError(t ErrorType, err error) error {
	if err == nil {
		return nil
	}
	return &ReproStatusError{Type: t, Err: err}
}

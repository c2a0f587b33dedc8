package sane

import (
	"errors"
	"fmt"
)

// StatusError reports that the server answered an operation with a
// non-success status.
type StatusError struct {
	Status Status
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("server returned status: %s", e.Status)
}

// FieldError reports a tagged wire field holding a value outside its
// legal domain, such as an unknown value type or constraint tag.
type FieldError struct {
	Field string
	Value int32
}

func (e *FieldError) Error() string {
	return fmt.Sprintf("field %q holds invalid value %d", e.Field, e.Value)
}

// EncodingError reports text that is not valid UTF-8 or a string too
// long to express on the wire.
type EncodingError struct {
	Reason string
}

func (e *EncodingError) Error() string { return "encoding: " + e.Reason }

// TransportError wraps a failure of the underlying byte stream.
type TransportError struct {
	Err error
}

func (e *TransportError) Error() string { return "transport: " + e.Err.Error() }

func (e *TransportError) Unwrap() error { return e.Err }

// MissingFieldError reports a field that decoded as absent where the
// protocol requires a value.
type MissingFieldError struct {
	Field string
}

func (e *MissingFieldError) Error() string {
	return fmt.Sprintf("required field %q is absent", e.Field)
}

// UnexpectedResourceError reports an authentication resource arriving
// at a point in the exchange where this client cannot act on it.
type UnexpectedResourceError struct {
	Resource string
}

func (e *UnexpectedResourceError) Error() string {
	return fmt.Sprintf("server requested authentication resource %q mid-operation", e.Resource)
}

// Errors that mark the byte stream as misaligned with the protocol
// framing. A session that sees one of these cannot be reused.
var (
	ErrArrayTerminator = errors.New("wire array missing null terminator")
	ErrSizeMismatch    = errors.New("value size does not match descriptor")
	ErrSessionBroken   = errors.New("session is no longer usable after a protocol failure")
)

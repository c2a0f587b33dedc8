package sane

import "fmt"

// Status is the result code saned reports for an operation.
type Status int32

const (
	StatusSuccess Status = iota
	StatusUnsupported
	StatusCanceled
	StatusDeviceBusy
	StatusInvalid
	StatusEOF
	StatusJammed
	StatusNoDocuments
	StatusCoverOpen
	StatusIOError
	StatusOutOfMemory
	StatusAccessDenied
)

var statusNames = [...]string{
	"success",
	"operation not supported",
	"operation canceled",
	"device busy",
	"invalid argument",
	"end of file",
	"document feeder jammed",
	"no documents",
	"cover open",
	"I/O error",
	"out of memory",
	"access denied",
}

func (s Status) String() string {
	if s < 0 || int(s) >= len(statusNames) {
		return fmt.Sprintf("status(%d)", int32(s))
	}
	return statusNames[s]
}

// statusFromWire maps a wire word to a Status. The code set is closed:
// anything outside 0-11 is rejected, not carried along.
func statusFromWire(v int32) (Status, error) {
	if v < int32(StatusSuccess) || v > int32(StatusAccessDenied) {
		return 0, &FieldError{Field: "status", Value: v}
	}
	return Status(v), nil
}

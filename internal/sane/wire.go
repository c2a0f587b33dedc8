package sane

import (
	"encoding/binary"
	"io"
	"math"
	"unicode/utf8"
)

// All multi-byte values on the saned wire are big-endian 4-byte words.
// Reads block until the bytes arrive or the stream errors; there is no
// retry here, reconnection policy belongs to the caller.
//
// The protocol carries two incompatible "no value" conventions side by
// side: strings mark absence with a length word <= 0 (readString),
// while pointed-to records mark presence with a tag word == 0
// (readPointer). They look similar enough to merge by accident, so each
// gets its own named codec and they must stay separate.

func readWord(r io.Reader) (uint32, error) {
	var buf [4]byte
	if _, err := io.ReadFull(r, buf[:]); err != nil {
		return 0, &TransportError{Err: err}
	}
	return binary.BigEndian.Uint32(buf[:]), nil
}

func writeWord(w io.Writer, v uint32) error {
	var buf [4]byte
	binary.BigEndian.PutUint32(buf[:], v)
	if _, err := w.Write(buf[:]); err != nil {
		return &TransportError{Err: err}
	}
	return nil
}

func readInt(r io.Reader) (int32, error) {
	v, err := readWord(r)
	return int32(v), err
}

func writeInt(w io.Writer, v int32) error {
	return writeWord(w, uint32(v))
}

// readByte reads one raw byte.
func readByte(r io.Reader) (byte, error) {
	var buf [1]byte
	if _, err := io.ReadFull(r, buf[:]); err != nil {
		return 0, &TransportError{Err: err}
	}
	return buf[0], nil
}

// readBool decodes a boolean carried as a full word. Only the exact
// value 1 is true; any other word decodes to false, not an error.
func readBool(r io.Reader) (bool, error) {
	v, err := readWord(r)
	return v == 1, err
}

func writeBool(w io.Writer, v bool) error {
	if v {
		return writeWord(w, 1)
	}
	return writeWord(w, 0)
}

// readString decodes an optional string under the length convention: a
// length word <= 0 means no value. A positive length is followed by up
// to that many payload bytes; a NUL ends the string early and the bytes
// after it, up to the declared length, are left unread.
func readString(r io.Reader) (string, bool, error) {
	n, err := readInt(r)
	if err != nil {
		return "", false, err
	}
	if n <= 0 {
		return "", false, nil
	}
	buf := make([]byte, 0, n)
	for i := int32(0); i < n; i++ {
		b, err := readByte(r)
		if err != nil {
			return "", false, err
		}
		if b == 0 {
			break
		}
		buf = append(buf, b)
	}
	if !utf8.Valid(buf) {
		return "", false, &EncodingError{Reason: "string payload is not valid UTF-8"}
	}
	return string(buf), true, nil
}

// writeString encodes a string as its length plus one, the raw bytes,
// and a single trailing NUL.
func writeString(w io.Writer, s string) error {
	if len(s) >= math.MaxInt32 {
		return &EncodingError{Reason: "string too long for a 32-bit length word"}
	}
	if err := writeInt(w, int32(len(s))+1); err != nil {
		return err
	}
	if len(s) > 0 {
		if _, err := io.WriteString(w, s); err != nil {
			return &TransportError{Err: err}
		}
	}
	if _, err := w.Write([]byte{0}); err != nil {
		return &TransportError{Err: err}
	}
	return nil
}

// readPointer decodes the null-pointer tag preceding a pointed-to
// value: a tag word of 0 means the value follows; any other word means
// no value and nothing further on the wire for this field. Note this is
// the reverse of the string convention above.
func readPointer(r io.Reader) (bool, error) {
	tag, err := readWord(r)
	if err != nil {
		return false, err
	}
	return tag == 0, nil
}

// writePointer writes the tag for a present pointed-to value. The value
// itself is written by the caller next.
func writePointer(w io.Writer) error {
	return writeWord(w, 0)
}

// writeNullPointer writes an absent pointed-to value. A null pointer
// still occupies two words on the wire: the tag and a placeholder.
func writeNullPointer(w io.Writer) error {
	if err := writeWord(w, 1); err != nil {
		return err
	}
	return writeWord(w, 0)
}

// element is one decoded array slot. Arrays count their own null
// terminator in the declared length, so element decoders report
// presence explicitly and readArray checks and strips the terminator.
type element[T any] struct {
	value   T
	present bool
}

// readArray decodes a counted array: a length word n followed by n
// slots. The server always makes slot n-1 a null terminator; a present
// terminator means the stream is misaligned and decoding fails rather
// than truncating. The returned slice holds the leading n-1 slots in
// wire order.
func readArray[T any](r io.Reader, elem func(io.Reader) (T, bool, error)) ([]element[T], error) {
	n, err := readInt(r)
	if err != nil {
		return nil, err
	}
	if n <= 0 {
		return nil, nil
	}
	out := make([]element[T], 0, n-1)
	for i := int32(0); i < n; i++ {
		v, present, err := elem(r)
		if err != nil {
			return nil, err
		}
		if i == n-1 {
			if present {
				return nil, ErrArrayTerminator
			}
			break
		}
		out = append(out, element[T]{value: v, present: present})
	}
	return out, nil
}

// pointerElem adapts a record decoder to a pointer-tagged array slot.
func pointerElem[T any](decode func(io.Reader) (T, error)) func(io.Reader) (T, bool, error) {
	return func(r io.Reader) (T, bool, error) {
		var zero T
		present, err := readPointer(r)
		if err != nil || !present {
			return zero, false, err
		}
		v, err := decode(r)
		if err != nil {
			return zero, false, err
		}
		return v, true, nil
	}
}

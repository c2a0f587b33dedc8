package sane

import (
	"bytes"
	"encoding/binary"
	"errors"
	"testing"
)

// words packs big-endian words into a byte stream.
func words(ws ...uint32) []byte {
	buf := make([]byte, 0, len(ws)*4)
	for _, w := range ws {
		buf = binary.BigEndian.AppendUint32(buf, w)
	}
	return buf
}

// wireString encodes s the way the server does: length+1, bytes, NUL.
func wireString(s string) []byte {
	buf := binary.BigEndian.AppendUint32(nil, uint32(len(s)+1))
	buf = append(buf, s...)
	return append(buf, 0)
}

func TestWriteString(t *testing.T) {
	var buf bytes.Buffer
	if err := writeString(&buf, "Foobar"); err != nil {
		t.Fatalf("writeString failed: %v", err)
	}
	want := append(words(7), 'F', 'o', 'o', 'b', 'a', 'r', 0)
	if !bytes.Equal(buf.Bytes(), want) {
		t.Errorf("wire bytes = %x, want %x", buf.Bytes(), want)
	}
}

func TestWriteString_Empty(t *testing.T) {
	var buf bytes.Buffer
	if err := writeString(&buf, ""); err != nil {
		t.Fatalf("writeString failed: %v", err)
	}
	want := append(words(1), 0)
	if !bytes.Equal(buf.Bytes(), want) {
		t.Errorf("wire bytes = %x, want %x", buf.Bytes(), want)
	}
}

func TestString_RoundTrip(t *testing.T) {
	for _, s := range []string{"Foobar", "", "a", "snapscan:/dev/usb0", "héllo"} {
		t.Run(s, func(t *testing.T) {
			var buf bytes.Buffer
			if err := writeString(&buf, s); err != nil {
				t.Fatalf("writeString failed: %v", err)
			}
			got, ok, err := readString(&buf)
			if err != nil {
				t.Fatalf("readString failed: %v", err)
			}
			if !ok {
				t.Fatal("readString reported absent")
			}
			if got != s {
				t.Errorf("round trip = %q, want %q", got, s)
			}
			if buf.Len() != 0 {
				t.Errorf("%d bytes left unconsumed", buf.Len())
			}
		})
	}
}

func TestReadString_Absent(t *testing.T) {
	tests := []struct {
		name   string
		length uint32
	}{
		{"zero", 0},
		{"negative", 0xFFFFFFFF}, // -1
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := bytes.NewReader(words(tt.length))
			s, ok, err := readString(r)
			if err != nil {
				t.Fatalf("readString failed: %v", err)
			}
			if ok {
				t.Errorf("readString = %q, want absent", s)
			}
		})
	}
}

func TestReadString_StopsAtNul(t *testing.T) {
	// Declared length 6, but a NUL after "ab": the string ends there
	// and the bytes after the NUL stay on the stream.
	data := append(words(6), 'a', 'b', 0, 'X', 'Y', 'Z')
	r := bytes.NewReader(data)

	s, ok, err := readString(r)
	if err != nil {
		t.Fatalf("readString failed: %v", err)
	}
	if !ok || s != "ab" {
		t.Errorf("readString = %q (present=%v), want %q", s, ok, "ab")
	}
	if r.Len() != 3 {
		t.Errorf("%d bytes left on stream, want 3", r.Len())
	}
}

func TestReadString_InvalidUTF8(t *testing.T) {
	data := append(words(3), 0xFF, 0xFE, 0)
	_, _, err := readString(bytes.NewReader(data))
	var encErr *EncodingError
	if !errors.As(err, &encErr) {
		t.Fatalf("err = %v, want EncodingError", err)
	}
}

func TestReadString_ShortStream(t *testing.T) {
	data := words(10) // declares 10 payload bytes, provides none
	_, _, err := readString(bytes.NewReader(data))
	var transportErr *TransportError
	if !errors.As(err, &transportErr) {
		t.Fatalf("err = %v, want TransportError", err)
	}
}

func TestWriteNullPointer(t *testing.T) {
	var buf bytes.Buffer
	if err := writeNullPointer(&buf); err != nil {
		t.Fatalf("writeNullPointer failed: %v", err)
	}
	// An absent pointer still occupies two wire words.
	if want := words(1, 0); !bytes.Equal(buf.Bytes(), want) {
		t.Errorf("wire bytes = %x, want %x", buf.Bytes(), want)
	}
}

func TestPointer_RoundTrip(t *testing.T) {
	var buf bytes.Buffer
	if err := writePointer(&buf); err != nil {
		t.Fatalf("writePointer failed: %v", err)
	}
	if err := writeInt(&buf, 42); err != nil {
		t.Fatalf("writeInt failed: %v", err)
	}

	present, err := readPointer(&buf)
	if err != nil {
		t.Fatalf("readPointer failed: %v", err)
	}
	if !present {
		t.Fatal("readPointer = absent, want present")
	}
	v, err := readInt(&buf)
	if err != nil {
		t.Fatalf("readInt failed: %v", err)
	}
	if v != 42 {
		t.Errorf("value = %d, want 42", v)
	}
}

func TestReadPointer_Absent(t *testing.T) {
	// Any nonzero tag means absent, not just 1.
	for _, tag := range []uint32{1, 2, 0xFFFFFFFF} {
		present, err := readPointer(bytes.NewReader(words(tag)))
		if err != nil {
			t.Fatalf("readPointer failed: %v", err)
		}
		if present {
			t.Errorf("tag %#x decoded as present", tag)
		}
	}
}

func TestReadBool(t *testing.T) {
	tests := []struct {
		name string
		word uint32
		want bool
	}{
		{"true", 1, true},
		{"false", 0, false},
		{"nonzero_is_false", 2, false},
		{"all_bits_is_false", 0xFFFFFFFF, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := readBool(bytes.NewReader(words(tt.word)))
			if err != nil {
				t.Fatalf("readBool failed: %v", err)
			}
			if got != tt.want {
				t.Errorf("readBool(%#x) = %v, want %v", tt.word, got, tt.want)
			}
		})
	}
}

func TestBool_RoundTrip(t *testing.T) {
	for _, v := range []bool{true, false} {
		var buf bytes.Buffer
		if err := writeBool(&buf, v); err != nil {
			t.Fatalf("writeBool failed: %v", err)
		}
		got, err := readBool(&buf)
		if err != nil {
			t.Fatalf("readBool failed: %v", err)
		}
		if got != v {
			t.Errorf("round trip = %v, want %v", got, v)
		}
	}
}

func TestReadWord_ShortStream(t *testing.T) {
	_, err := readWord(bytes.NewReader([]byte{0x00, 0x01}))
	var transportErr *TransportError
	if !errors.As(err, &transportErr) {
		t.Fatalf("err = %v, want TransportError", err)
	}
}

func TestReadByte(t *testing.T) {
	b, err := readByte(bytes.NewReader([]byte{0xA5}))
	if err != nil {
		t.Fatalf("readByte failed: %v", err)
	}
	if b != 0xA5 {
		t.Errorf("readByte = %#x, want 0xA5", b)
	}
}

func TestReadArray_Strings(t *testing.T) {
	// Three mode names plus the null terminator; the declared length
	// counts the terminator slot.
	var data []byte
	data = append(data, words(4)...)
	data = append(data, wireString("Color")...)
	data = append(data, wireString("Gray")...)
	data = append(data, wireString("Lineart")...)
	data = append(data, words(0)...) // terminator: absent string

	elems, err := readArray(bytes.NewReader(data), readString)
	if err != nil {
		t.Fatalf("readArray failed: %v", err)
	}
	want := []string{"Color", "Gray", "Lineart"}
	if len(elems) != len(want) {
		t.Fatalf("got %d elements, want %d", len(elems), len(want))
	}
	for i, w := range want {
		if !elems[i].present || elems[i].value != w {
			t.Errorf("element %d = %q (present=%v), want %q", i, elems[i].value, elems[i].present, w)
		}
	}
}

func TestReadArray_PointerWords(t *testing.T) {
	// Pointer-tagged words: tag 0 then the value, terminated by a
	// nonzero tag in the final slot.
	data := words(5,
		0, 75,
		0, 150,
		0, 300,
		0, 600,
		1, // terminator: null pointer
	)

	elems, err := readArray(bytes.NewReader(data), pointerElem(readInt))
	if err != nil {
		t.Fatalf("readArray failed: %v", err)
	}
	want := []int32{75, 150, 300, 600}
	if len(elems) != len(want) {
		t.Fatalf("got %d elements, want %d", len(elems), len(want))
	}
	for i, w := range want {
		if !elems[i].present || elems[i].value != w {
			t.Errorf("element %d = %d (present=%v), want %d", i, elems[i].value, elems[i].present, w)
		}
	}
}

func TestReadArray_MissingTerminator(t *testing.T) {
	// The final slot holds a present value instead of the terminator:
	// the stream is misaligned and decoding must fail, not truncate.
	data := words(2,
		0, 75,
		0, 150,
	)
	_, err := readArray(bytes.NewReader(data), pointerElem(readInt))
	if !errors.Is(err, ErrArrayTerminator) {
		t.Fatalf("err = %v, want ErrArrayTerminator", err)
	}
}

func TestReadArray_Empty(t *testing.T) {
	for _, n := range []uint32{0, 0xFFFFFFFF} {
		elems, err := readArray(bytes.NewReader(words(n)), pointerElem(readInt))
		if err != nil {
			t.Fatalf("readArray failed: %v", err)
		}
		if len(elems) != 0 {
			t.Errorf("count %#x: got %d elements, want 0", n, len(elems))
		}
	}
}

func TestReadArray_InteriorNullSlots(t *testing.T) {
	// Null slots before the terminator are legal and reported absent.
	data := words(3,
		1,     // null slot
		0, 42, // present slot
		1, // terminator
	)
	elems, err := readArray(bytes.NewReader(data), pointerElem(readInt))
	if err != nil {
		t.Fatalf("readArray failed: %v", err)
	}
	if len(elems) != 2 {
		t.Fatalf("got %d elements, want 2", len(elems))
	}
	if elems[0].present {
		t.Error("element 0 reported present, want absent")
	}
	if !elems[1].present || elems[1].value != 42 {
		t.Errorf("element 1 = %d (present=%v), want 42", elems[1].value, elems[1].present)
	}
}

package sane

import (
	"fmt"
	"io"
	"math"
)

// OptionValueType tags an option descriptor and selects the shape of
// its constraint and of the values read or written for the option.
type OptionValueType int32

const (
	TypeBool OptionValueType = iota
	TypeInt
	TypeFixed
	TypeString
	TypeButton
	TypeGroup
)

var valueTypeNames = [...]string{"boolean", "integer", "fixed", "string", "button", "group"}

func (t OptionValueType) String() string {
	if t < 0 || int(t) >= len(valueTypeNames) {
		return fmt.Sprintf("type(%d)", int32(t))
	}
	return valueTypeNames[t]
}

func valueTypeFromWire(v int32) (OptionValueType, error) {
	if v < int32(TypeBool) || v > int32(TypeGroup) {
		return 0, &FieldError{Field: "value type", Value: v}
	}
	return OptionValueType(v), nil
}

// OptionUnit is the physical unit of an option value. Pure metadata.
type OptionUnit int32

const (
	UnitNone OptionUnit = iota
	UnitPixel
	UnitBit
	UnitMillimeter
	UnitDPI
	UnitPercent
	UnitMicrosecond
)

var unitNames = [...]string{"none", "pixel", "bit", "mm", "dpi", "percent", "us"}

func (u OptionUnit) String() string {
	if u < 0 || int(u) >= len(unitNames) {
		return fmt.Sprintf("unit(%d)", int32(u))
	}
	return unitNames[u]
}

func unitFromWire(v int32) (OptionUnit, error) {
	if v < int32(UnitNone) || v > int32(UnitMicrosecond) {
		return 0, &FieldError{Field: "unit", Value: v}
	}
	return OptionUnit(v), nil
}

// Capabilities is the option capability bitset. Bits beyond the known
// flags are truncated on decode, never rejected.
type Capabilities uint32

const (
	CapSoftSelect Capabilities = 1 << iota
	CapHardSelect
	CapSoftDetect
	CapEmulated
	CapAutomatic
	CapInactive
	CapAdvanced

	capMask Capabilities = 1<<7 - 1
)

// Has reports whether all the given flags are set.
func (c Capabilities) Has(flags Capabilities) bool { return c&flags == flags }

// Constraint restricts the values an option accepts. Exactly one
// concrete constraint kind is legal per option value type: numeric
// constraints for integer and fixed options, string lists for string
// options, and none at all for the rest.
type Constraint interface {
	constraint()
}

// RangeConstraint bounds a numeric option. A Quant of zero means the
// range is continuous.
type RangeConstraint struct {
	Min   int32
	Max   int32
	Quant int32
}

// WordListConstraint enumerates the numeric values an option accepts.
type WordListConstraint []int32

// StringListConstraint enumerates the strings an option accepts.
type StringListConstraint []string

func (RangeConstraint) constraint()      {}
func (WordListConstraint) constraint()   {}
func (StringListConstraint) constraint() {}

// Constraint tag words.
const (
	constraintNone       int32 = 0
	constraintRange      int32 = 1
	constraintWordList   int32 = 2
	constraintStringList int32 = 3
)

// OptionDescriptor describes one configurable device option: its value
// type, unit, capabilities and constraint, but not its current value.
// Descriptors are produced by decoding the option list for a handle and
// are immutable afterwards.
type OptionDescriptor struct {
	Name         string
	Title        string
	Description  string
	Type         OptionValueType
	Unit         OptionUnit
	Size         int32 // value byte size for integer/fixed, max length for string
	Capabilities Capabilities
	Constraint   Constraint // nil when unconstrained
}

// WireSize is the value size this descriptor implies on the wire. The
// same rule shapes both control-option requests and the size check on
// their replies.
func (d *OptionDescriptor) WireSize() int32 {
	switch d.Type {
	case TypeBool:
		return 4
	case TypeInt, TypeFixed, TypeString:
		return d.Size
	default:
		return 0
	}
}

// readOptionDescriptor decodes one descriptor record. The field order
// is fixed: name, title, description, type, unit, size, capabilities,
// constraint. The constraint branch depends on the type tag decoded
// earlier in the same record.
func readOptionDescriptor(r io.Reader) (OptionDescriptor, error) {
	var d OptionDescriptor

	name, hasName, err := readString(r)
	if err != nil {
		return d, err
	}
	title, hasTitle, err := readString(r)
	if err != nil {
		return d, err
	}
	description, hasDescription, err := readString(r)
	if err != nil {
		return d, err
	}

	typeTag, err := readInt(r)
	if err != nil {
		return d, err
	}
	if d.Type, err = valueTypeFromWire(typeTag); err != nil {
		return d, err
	}

	unitTag, err := readInt(r)
	if err != nil {
		return d, err
	}
	if d.Unit, err = unitFromWire(unitTag); err != nil {
		return d, err
	}

	if d.Size, err = readInt(r); err != nil {
		return d, err
	}

	caps, err := readWord(r)
	if err != nil {
		return d, err
	}
	d.Capabilities = Capabilities(caps) & capMask

	// A group is only a heading in the option list; everything else
	// must be fully labelled.
	if !hasTitle {
		return d, &MissingFieldError{Field: "option title"}
	}
	if d.Type != TypeGroup {
		if !hasName {
			return d, &MissingFieldError{Field: "option name"}
		}
		if !hasDescription {
			return d, &MissingFieldError{Field: "option description"}
		}
	}
	d.Name, d.Title, d.Description = name, title, description

	d.Constraint, err = readConstraint(r, d.Type)
	return d, err
}

// readConstraint decodes the constraint tag and payload legal for the
// given value type. A tag outside the type's legal set is an error even
// when it would be valid for another type.
func readConstraint(r io.Reader, t OptionValueType) (Constraint, error) {
	tag, err := readInt(r)
	if err != nil {
		return nil, err
	}

	switch t {
	case TypeBool, TypeButton, TypeGroup:
		if tag != constraintNone {
			return nil, &FieldError{Field: "constraint", Value: tag}
		}
		return nil, nil

	case TypeInt, TypeFixed:
		switch tag {
		case constraintNone:
			return nil, nil
		case constraintRange:
			var rc RangeConstraint
			if rc.Min, err = readInt(r); err != nil {
				return nil, err
			}
			if rc.Max, err = readInt(r); err != nil {
				return nil, err
			}
			if rc.Quant, err = readInt(r); err != nil {
				return nil, err
			}
			return rc, nil
		case constraintWordList:
			elems, err := readArray(r, pointerElem(readInt))
			if err != nil {
				return nil, err
			}
			words := make(WordListConstraint, 0, len(elems))
			for _, e := range elems {
				if e.present {
					words = append(words, e.value)
				}
			}
			return words, nil
		}

	case TypeString:
		switch tag {
		case constraintNone:
			return nil, nil
		case constraintStringList:
			elems, err := readArray(r, readString)
			if err != nil {
				return nil, err
			}
			list := make(StringListConstraint, 0, len(elems))
			for _, e := range elems {
				if e.present {
					list = append(list, e.value)
				}
			}
			return list, nil
		}
	}

	return nil, &FieldError{Field: "constraint", Value: tag}
}

// OptionValue is the decoded current or requested value of one option.
// Its concrete type matches the descriptor's value type.
type OptionValue interface {
	optionValue()
}

// BoolValue is the value of a boolean option.
type BoolValue bool

// IntValue is the value of an integer option.
type IntValue int32

// FixedValue is the value of a fixed-point option, carried as a 16.16
// fixed word.
type FixedValue int32

// StringValue is the value of a string option. Present is false when
// the server sent no string for the slot.
type StringValue struct {
	Present bool
	Text    string
}

// ButtonValue and GroupValue carry no payload.
type ButtonValue struct{}
type GroupValue struct{}

func (BoolValue) optionValue()   {}
func (IntValue) optionValue()    {}
func (FixedValue) optionValue()  {}
func (StringValue) optionValue() {}
func (ButtonValue) optionValue() {}
func (GroupValue) optionValue()  {}

// Float converts a 16.16 fixed word to a float64.
func (v FixedValue) Float() float64 { return float64(v) / 65536 }

// FixedFromFloat converts a float to the nearest 16.16 fixed word.
func FixedFromFloat(f float64) FixedValue {
	return FixedValue(math.Round(f * 65536))
}

// writeValue writes an option value wrapped in its pointer tag. A nil
// value is sent as a null pointer, which still occupies two words.
func writeValue(w io.Writer, v OptionValue) error {
	if v == nil {
		return writeNullPointer(w)
	}
	if err := writePointer(w); err != nil {
		return err
	}
	switch v := v.(type) {
	case BoolValue:
		return writeBool(w, bool(v))
	case IntValue:
		return writeInt(w, int32(v))
	case FixedValue:
		return writeInt(w, int32(v))
	case StringValue:
		if !v.Present {
			return writeInt(w, 0)
		}
		return writeString(w, v.Text)
	case ButtonValue, GroupValue:
		return nil
	}
	return &EncodingError{Reason: fmt.Sprintf("unsupported option value %T", v)}
}

// ControlFlags reports how the server applied a control-option request.
// Unknown bits are truncated on decode.
type ControlFlags uint32

const (
	// FlagInexact is set when the requested value was rounded to the
	// nearest value the device supports.
	FlagInexact ControlFlags = 1 << iota
	// FlagReloadOptions is set when the option list must be re-fetched
	// before further control requests.
	FlagReloadOptions
	// FlagReloadParams is set when scan parameters may have changed.
	// The server never omits it when parameters did change, but may set
	// it spuriously.
	FlagReloadParams

	controlFlagsMask ControlFlags = 1<<3 - 1
)

// Has reports whether all the given flags are set.
func (f ControlFlags) Has(flags ControlFlags) bool { return f&flags == flags }

// ControlResult is the decoded reply to a control-option exchange.
// Value is nil when the server reported a null value pointer.
type ControlResult struct {
	Value OptionValue
	Flags ControlFlags
}

// readControlReply decodes the value portion of a control-option reply
// for this descriptor: the set-info flags, a redundant type tag and
// size word, the value null word, then the value shaped by the
// descriptor's type. The size word must match WireSize exactly; a
// mismatch means the stream is misaligned and is fatal to the session.
func (d *OptionDescriptor) readControlReply(r io.Reader) (ControlResult, error) {
	var res ControlResult

	flags, err := readWord(r)
	if err != nil {
		return res, err
	}
	res.Flags = ControlFlags(flags) & controlFlagsMask

	typeTag, err := readInt(r)
	if err != nil {
		return res, err
	}
	if _, err := valueTypeFromWire(typeTag); err != nil {
		return res, err
	}

	size, err := readInt(r)
	if err != nil {
		return res, err
	}
	if size != d.WireSize() {
		return res, fmt.Errorf("control reply for %q: wire size %d, descriptor size %d: %w",
			d.Name, size, d.WireSize(), ErrSizeMismatch)
	}

	// Value pointer word: zero means the server sent a null value.
	nullWord, err := readWord(r)
	if err != nil {
		return res, err
	}
	if nullWord == 0 {
		return res, nil
	}

	switch d.Type {
	case TypeBool:
		b, err := readBool(r)
		if err != nil {
			return res, err
		}
		res.Value = BoolValue(b)
	case TypeInt:
		n, err := readInt(r)
		if err != nil {
			return res, err
		}
		res.Value = IntValue(n)
	case TypeFixed:
		n, err := readInt(r)
		if err != nil {
			return res, err
		}
		res.Value = FixedValue(n)
	case TypeString:
		s, ok, err := readString(r)
		if err != nil {
			return res, err
		}
		res.Value = StringValue{Present: ok, Text: s}
	case TypeButton:
		res.Value = ButtonValue{}
	case TypeGroup:
		res.Value = GroupValue{}
	}
	return res, nil
}

package sane

import "io"

// Device is one remote scan source as reported by the device list. It
// is a snapshot owned by the caller; the session never mutates it.
type Device struct {
	Name   string
	Vendor string
	Model  string
	Kind   string
}

// readDevice decodes one device record. All four fields are required.
func readDevice(r io.Reader) (Device, error) {
	var d Device
	fields := []struct {
		name string
		dst  *string
	}{
		{"device name", &d.Name},
		{"device vendor", &d.Vendor},
		{"device model", &d.Model},
		{"device type", &d.Kind},
	}
	for _, f := range fields {
		s, ok, err := readString(r)
		if err != nil {
			return Device{}, err
		}
		if !ok {
			return Device{}, &MissingFieldError{Field: f.name}
		}
		*f.dst = s
	}
	return d, nil
}

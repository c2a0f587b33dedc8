package sane

import (
	"io"
	"log/slog"
)

// Session speaks the saned protocol over one connected byte stream.
//
// Operations are strictly sequential: the wire format has no message
// framing or request IDs to resynchronize on, so a second request must
// not start before the previous reply is fully consumed. A session
// holds no state shared with other sessions; run concurrent sessions on
// independent streams. A blocked operation can only be abandoned by
// closing the underlying stream.
type Session struct {
	rw     io.ReadWriter
	broken bool
}

// NewSession wraps an established stream. The caller keeps ownership of
// the connection lifecycle; the session never dials, configures or
// closes the transport.
func NewSession(rw io.ReadWriter) *Session {
	return &Session{rw: rw}
}

// fail marks the session unusable. After a mid-reply failure the stream
// position relative to the server is unknown, so every later operation
// would read another operation's framing.
func (s *Session) fail(err error) error {
	s.broken = true
	return err
}

func (s *Session) check() error {
	if s.broken {
		return ErrSessionBroken
	}
	return nil
}

// checkStatus reads the status word that opens a reply and fails the
// session unless it is success. On a non-success status the rest of the
// reply is never read.
func (s *Session) checkStatus() error {
	v, err := readInt(s.rw)
	if err != nil {
		return s.fail(err)
	}
	st, err := statusFromWire(v)
	if err != nil {
		return s.fail(err)
	}
	if st != StatusSuccess {
		return s.fail(&StatusError{Status: st})
	}
	return nil
}

// Init performs the handshake: the init command, this client's protocol
// version and its name. It returns the server's version word.
func (s *Session) Init(clientName string) (Version, error) {
	if err := s.check(); err != nil {
		return 0, err
	}
	slog.Info("initializing saned session", "client", clientName, "version", ProtocolVersion.String())

	if err := writeInt(s.rw, cmdInit); err != nil {
		return 0, s.fail(err)
	}
	if err := writeWord(s.rw, uint32(ProtocolVersion)); err != nil {
		return 0, s.fail(err)
	}
	if err := writeString(s.rw, clientName); err != nil {
		return 0, s.fail(err)
	}

	if err := s.checkStatus(); err != nil {
		return 0, err
	}
	v, err := readWord(s.rw)
	if err != nil {
		return 0, s.fail(err)
	}
	slog.Debug("session initialized", "server_version", Version(v).String())
	return Version(v), nil
}

// ListDevices asks the server for its device list. Null slots in the
// wire array carry no information and are dropped.
func (s *Session) ListDevices() ([]Device, error) {
	if err := s.check(); err != nil {
		return nil, err
	}
	slog.Info("requesting device list")

	if err := writeInt(s.rw, cmdListDevices); err != nil {
		return nil, s.fail(err)
	}
	if err := s.checkStatus(); err != nil {
		return nil, err
	}

	elems, err := readArray(s.rw, pointerElem(readDevice))
	if err != nil {
		return nil, s.fail(err)
	}
	devices := make([]Device, 0, len(elems))
	for _, e := range elems {
		if e.present {
			devices = append(devices, e.value)
		}
	}
	slog.Debug("device list received", "count", len(devices))
	return devices, nil
}

// OpenResult is the outcome of opening a device: a handle when the
// device opened directly, or an authentication resource the caller must
// satisfy out of band before retrying.
type OpenResult struct {
	Handle       int32
	AuthRequired bool
	Resource     string
}

// OpenDevice opens the named device on the server.
func (s *Session) OpenDevice(name string) (OpenResult, error) {
	if err := s.check(); err != nil {
		return OpenResult{}, err
	}
	slog.Info("opening device", "device", name)

	if err := writeInt(s.rw, cmdOpenDevice); err != nil {
		return OpenResult{}, s.fail(err)
	}
	if err := writeString(s.rw, name); err != nil {
		return OpenResult{}, s.fail(err)
	}
	if err := s.checkStatus(); err != nil {
		return OpenResult{}, err
	}

	handle, err := readInt(s.rw)
	if err != nil {
		return OpenResult{}, s.fail(err)
	}
	resource, ok, err := readString(s.rw)
	if err != nil {
		return OpenResult{}, s.fail(err)
	}
	if ok {
		slog.Debug("device requires authentication", "device", name, "resource", resource)
		return OpenResult{Handle: handle, AuthRequired: true, Resource: resource}, nil
	}
	slog.Debug("device opened", "device", name, "handle", handle)
	return OpenResult{Handle: handle}, nil
}

// CloseDevice releases an open handle. The reply is a single dummy word
// with no observable failure mode.
func (s *Session) CloseDevice(handle int32) error {
	if err := s.check(); err != nil {
		return err
	}
	slog.Info("closing device", "handle", handle)

	if err := writeInt(s.rw, cmdCloseDevice); err != nil {
		return s.fail(err)
	}
	if err := writeInt(s.rw, handle); err != nil {
		return s.fail(err)
	}
	dummy, err := readInt(s.rw)
	if err != nil {
		return s.fail(err)
	}
	slog.Debug("close acknowledged", "dummy", dummy)
	return nil
}

// OptionDescriptors fetches the option descriptors for an open handle.
// Slots the server sent as null stay nil so slice indexes keep lining
// up with the option numbers used in control requests.
func (s *Session) OptionDescriptors(handle int32) ([]*OptionDescriptor, error) {
	if err := s.check(); err != nil {
		return nil, err
	}
	slog.Info("requesting option descriptors", "handle", handle)

	if err := writeInt(s.rw, cmdOptionList); err != nil {
		return nil, s.fail(err)
	}
	if err := writeInt(s.rw, handle); err != nil {
		return nil, s.fail(err)
	}

	elems, err := readArray(s.rw, pointerElem(readOptionDescriptor))
	if err != nil {
		return nil, s.fail(err)
	}
	descriptors := make([]*OptionDescriptor, len(elems))
	for i, e := range elems {
		if e.present {
			d := e.value
			descriptors[i] = &d
		}
	}
	slog.Debug("option descriptors received", "count", len(descriptors))
	return descriptors, nil
}

// ControlOption gets or sets one option value. The descriptor must be
// the one previously fetched for the same option index: its value type
// and wire size shape both the request and the reply. A nil value sends
// a null pointer, which is what get and set-automatic actions require.
func (s *Session) ControlOption(handle int32, index uint32, action ControlAction, desc *OptionDescriptor, value OptionValue) (ControlResult, error) {
	var res ControlResult
	if err := s.check(); err != nil {
		return res, err
	}
	slog.Info("controlling option", "option", desc.Name, "index", index, "action", action)

	if err := writeInt(s.rw, cmdControlOption); err != nil {
		return res, s.fail(err)
	}
	if err := writeInt(s.rw, handle); err != nil {
		return res, s.fail(err)
	}
	if err := writeWord(s.rw, index); err != nil {
		return res, s.fail(err)
	}
	if err := writeInt(s.rw, int32(action)); err != nil {
		return res, s.fail(err)
	}
	if err := writeInt(s.rw, int32(desc.Type)); err != nil {
		return res, s.fail(err)
	}
	if err := writeInt(s.rw, desc.WireSize()); err != nil {
		return res, s.fail(err)
	}
	if err := writeValue(s.rw, value); err != nil {
		return res, s.fail(err)
	}

	if err := s.checkStatus(); err != nil {
		return res, err
	}
	res, err := desc.readControlReply(s.rw)
	if err != nil {
		return res, s.fail(err)
	}

	// The reply ends with an optional authentication resource. This
	// client has no way to authenticate mid-operation, so a present
	// resource is surfaced as its own error, never dropped.
	resource, ok, err := readString(s.rw)
	if err != nil {
		return res, s.fail(err)
	}
	if ok {
		return res, s.fail(&UnexpectedResourceError{Resource: resource})
	}

	slog.Debug("option controlled", "option", desc.Name, "flags", uint32(res.Flags))
	return res, nil
}

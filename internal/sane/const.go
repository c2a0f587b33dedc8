package sane

import "fmt"

// Version is a packed SANE version word: (major<<24 | minor<<16 | build).
type Version uint32

// ProtocolVersion is the version word sent in the init handshake.
// 1.0.3, the saned network protocol revision this client speaks.
const ProtocolVersion Version = 0x01000003

// DefaultPort is the TCP port saned listens on.
const DefaultPort = 6566

// Major returns the major component of the version word.
func (v Version) Major() int { return int(v >> 24) }

// Minor returns the minor component of the version word.
func (v Version) Minor() int { return int(v >> 16 & 0xFF) }

// Build returns the build component of the version word.
func (v Version) Build() int { return int(v & 0xFFFF) }

func (v Version) String() string {
	return fmt.Sprintf("%d.%d.%d", v.Major(), v.Minor(), v.Build())
}

// RPC command codes. Stable wire values, never renumbered.
const (
	cmdInit          int32 = 0
	cmdListDevices   int32 = 1
	cmdOpenDevice    int32 = 2
	cmdCloseDevice   int32 = 3
	cmdOptionList    int32 = 4
	cmdControlOption int32 = 5
)

// ControlAction selects what a control-option request does with the
// option's value.
type ControlAction int32

const (
	// ActionGet reads the current value.
	ActionGet ControlAction = 0
	// ActionSet writes a new value.
	ActionSet ControlAction = 1
	// ActionSetAutomatic asks the device to pick a value itself.
	ActionSetAutomatic ControlAction = 2
)

func (a ControlAction) String() string {
	switch a {
	case ActionGet:
		return "get"
	case ActionSet:
		return "set"
	case ActionSetAutomatic:
		return "set-automatic"
	}
	return fmt.Sprintf("action(%d)", int32(a))
}

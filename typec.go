// Package typec defines high level types and interfaces shared by the USB
// Type-C host port drivers and the monitoring loop that polls them.
package typec

import (
	"errors"
	"fmt"
	"strings"

	"github.com/oxplot/go-typec-host/pdmsg"
)

// Event can store multiple events and return them in priority order.
type Event uint16

// Pop returns the next high priority event and clears it.
func (e *Event) Pop() Event {
	if *e == 0 {
		return EventNone
	}
	for r := Event(1); r <= 0x8000; r <<= 1 {
		if *e&r != 0 {
			*e &= ^r
			return r
		}
	}
	return EventNone // will never get here
}

// Add adds the events v to the set.
func (e *Event) Add(v Event) {
	*e |= v
}

// Has returns true if the event v is set without clearing it.
func (e Event) Has(v Event) bool {
	return e&v != 0
}

func (e Event) String() string {
	switch e {
	case EventNone:
		return "None"
	case EventDetached:
		return "Detached"
	case EventDeviceDetached:
		return "DeviceDetached"
	case EventCableDetached:
		return "CableDetached"
	case EventDeviceAttached:
		return "DeviceAttached"
	case EventCableAttached:
		return "CableAttached"
	case EventIdentity:
		return "Identity"
	case EventUnknown:
		return "Unknown"
	default:
		return "INVALID"
	}
}

// EventNone represents no event.
const EventNone Event = 0

// The events are listed in order of priority from highest to lowest. This
// means that in presence of multiple pending events, highest priority one is
// attended to first.
const (
	EventDetached       Event = 1 << iota // Nothing is attached anymore
	EventDeviceDetached                   // Sink device removed, cable may remain
	EventCableDetached                    // Active cable stopped answering
	EventDeviceAttached                   // Sink device (Rd) detected
	EventCableAttached                    // Active cable (Ra) detected
	EventIdentity                         // Cable identity was read from the emarker
	EventUnknown                          // CC readings could not be classified
)

// Orientation tells which CC pin carries the partner termination.
type Orientation uint8

// CC orientations.
const (
	OrientationCC1 Orientation = iota
	OrientationCC2
	OrientationUnknown
)

func (o Orientation) String() string {
	switch o {
	case OrientationCC1:
		return "CC1"
	case OrientationCC2:
		return "CC2"
	default:
		return "Unknown"
	}
}

// Other returns the opposite CC pin. OrientationUnknown has no opposite.
func (o Orientation) Other() Orientation {
	switch o {
	case OrientationCC1:
		return OrientationCC2
	case OrientationCC2:
		return OrientationCC1
	default:
		return OrientationUnknown
	}
}

// HostCurrent is the current advertised by the host pull-ups on CC.
type HostCurrent uint8

// Host current advertisements.
const (
	HostCurrent500mA HostCurrent = iota // Default USB power
	HostCurrent1A5
	HostCurrent3A
)

func (c HostCurrent) String() string {
	switch c {
	case HostCurrent500mA:
		return "500mA"
	case HostCurrent1A5:
		return "1.5A"
	case HostCurrent3A:
		return "3A"
	default:
		return "INVALID"
	}
}

// MilliAmps returns the advertised current in milliamps.
func (c HostCurrent) MilliAmps() uint16 {
	switch c {
	case HostCurrent500mA:
		return 500
	case HostCurrent1A5:
		return 1500
	case HostCurrent3A:
		return 3000
	default:
		return 0
	}
}

// ParseHostCurrent parses a current as written by HostCurrent.String. The
// unit is case insensitive and "1500mA", "3000mA" and "default" are
// accepted as well.
func ParseHostCurrent(s string) (HostCurrent, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "500ma", "default", "":
		return HostCurrent500mA, nil
	case "1.5a", "1500ma":
		return HostCurrent1A5, nil
	case "3a", "3000ma":
		return HostCurrent3A, nil
	}
	return 0, fmt.Errorf("unknown host current %q", s)
}

// State is the attachment state of a host port.
type State uint8

// Host port states. StateInit is only seen between setup and the first
// update.
const (
	StateInit State = iota
	StateDetached
	StateAttachedDevice
	StateAttachedCable
	StateAttachedCableDevice
	StateUnknown
)

func (s State) String() string {
	switch s {
	case StateInit:
		return "Init"
	case StateDetached:
		return "Detached"
	case StateAttachedDevice:
		return "AttachedDevice"
	case StateAttachedCable:
		return "AttachedCable"
	case StateAttachedCableDevice:
		return "AttachedCableDevice"
	case StateUnknown:
		return "Unknown"
	default:
		return "INVALID"
	}
}

// DeviceAttached returns true if a sink device terminates the active CC pin.
func (s State) DeviceAttached() bool {
	return s == StateAttachedDevice || s == StateAttachedCableDevice
}

// ActiveCable returns true if an emarked cable is attached and powered.
func (s State) ActiveCable() bool {
	return s == StateAttachedCable || s == StateAttachedCableDevice
}

// CableType classifies the attached cable.
type CableType uint8

// Cable types.
const (
	CableNone    CableType = iota // Nothing attached
	CablePassive                  // No Ra on the inactive CC pin
	CableActive                   // Ra present, cable is marked and needs VCONN
	CableUnknown                  // Readings could not be classified
)

func (c CableType) String() string {
	switch c {
	case CableNone:
		return "None"
	case CablePassive:
		return "Passive"
	case CableActive:
		return "Active"
	default:
		return "Unknown"
	}
}

// CableTypeOf derives the cable type from a port state.
func CableTypeOf(s State) CableType {
	switch s {
	case StateAttachedDevice:
		return CablePassive
	case StateAttachedCable, StateAttachedCableDevice:
		return CableActive
	case StateUnknown:
		return CableUnknown
	default:
		return CableNone
	}
}

// Status is a snapshot of a host port.
type Status struct {
	State       State
	Current     HostCurrent
	Orientation Orientation
	Cable       CableType

	// EmarkerPresent is true if the cable emarker answered the last
	// identity request or liveness ping.
	EmarkerPresent bool

	// Identity is the cable identity read on entry to an active cable state.
	// It is nil when no identity has been read.
	Identity *pdmsg.Identity
}

// HostPort provides an interface to a device, often an IC such as FUSB302,
// operating a USB Type-C port as a source (host) that watches for device and
// cable attachment.
//
// Host ports must:
//
//   - Detect attach and detach of sink devices and emarked cables.
//   - Determine the CC orientation and source VCONN to active cables.
//   - Keep active cable states alive only while the emarker answers.
//
// HostPort implementations are not safe for concurrent use.
type HostPort interface {

	// Update reads the hardware state, performs any resulting state
	// transition and returns the events generated by it. Update is expected
	// to be called periodically, and sooner when the port raises its
	// interrupt line. A failed update leaves the state unchanged and is
	// retried from hardware on the next call.
	Update() (Event, error)

	// Status returns the state resulting from the last successful Update.
	Status() Status
}

// ErrNotSetup is returned by Update if the port was never set up.
var ErrNotSetup = errors.New("host port is not set up")

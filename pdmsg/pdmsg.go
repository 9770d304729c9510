// Package pdmsg defines types to encode and decode USB-C Power Delivery
// Messages.
package pdmsg

import (
	"encoding/binary"
	"errors"
)

const (
	// MaxDataObjects is the maximum number of data objects that can be stored in
	// a message, as set by the standard.
	MaxDataObjects = 7

	// MaxMessageBytes is the maximum number of bytes in a message which includes
	// the header and the data objects.
	MaxMessageBytes = 2 + 4*MaxDataObjects // 2 bytes header, and 7 data objects, each 32 bits (4 bytes)
)

// ErrShortMessage is returned by FromBytes when the buffer holds fewer bytes
// than the header declares.
var ErrShortMessage = errors.New("pd message truncated")

// SOP identifies the recipient of a message: the port partner or one of the
// cable plugs.
type SOP uint8

// Start of packet variants.
const (
	SOPPort        SOP = iota // SOP, port partner
	SOPPrime                  // SOP', cable plug nearest to the sender
	SOPDoublePrime            // SOP'', far cable plug
	SOPOther                  // Debug variants and anything unrecognised
)

func (s SOP) String() string {
	switch s {
	case SOPPort:
		return "SOP"
	case SOPPrime:
		return "SOP'"
	case SOPDoublePrime:
		return "SOP''"
	default:
		return "SOP?"
	}
}

// Message represents a power delivery message.
// Decoding of extended messages is not supported.
type Message struct {
	Header uint16

	// Data varies depending on the type of the message. For
	// TypeVendorDefined, the first element is a VDMHeader.
	//
	// Size of Data is fixed up to maximum allowable message size, to ensure no
	// heap allocations are necessary. To find out how many actual elements are
	// used, use DataObjectCount().
	Data [MaxDataObjects]uint32
}

// ToBytes serializes the message to a byte slice and returns the number of
// bytes written.
func (m Message) ToBytes(b []byte) uint8 {
	binary.LittleEndian.PutUint16(b, m.Header)
	c := m.DataObjectCount()
	for i, d := range m.Data[:c] {
		binary.LittleEndian.PutUint32(b[2+i*4:], d)
	}
	return 2 + c*4
}

// FromBytes deserializes the header and data objects from b and returns the
// number of bytes consumed. Data objects beyond the declared count are
// zeroed.
func (m *Message) FromBytes(b []byte) (uint8, error) {
	if len(b) < 2 {
		return 0, ErrShortMessage
	}
	m.Header = binary.LittleEndian.Uint16(b)
	c := m.DataObjectCount()
	n := 2 + int(c)*4
	if len(b) < n {
		return 0, ErrShortMessage
	}
	m.Data = [MaxDataObjects]uint32{}
	for i := 0; i < int(c); i++ {
		m.Data[i] = binary.LittleEndian.Uint32(b[2+i*4:])
	}
	return uint8(n), nil
}

// Len returns the number of bytes of the serialized message.
func (m Message) Len() int {
	return 2 + 4*int(m.DataObjectCount())
}

// Objects returns the data objects in use.
func (m *Message) Objects() []uint32 {
	return m.Data[:m.DataObjectCount()]
}

// IsExtended returns true if the message has its extended flag set.
func (m Message) IsExtended() bool {
	return m.Header&(1<<15) != 0
}

// SetExtended sets the extended flag in the message.
func (m *Message) SetExtended(e bool) {
	var b uint16
	if e {
		b = 1 << 15
	}
	m.Header = (m.Header & ^(uint16(1) << 15)) | b
}

// ID returns the message ID.
func (m Message) ID() uint8 {
	return uint8((m.Header >> 9) & 0b111)
}

// SetID sets the message ID.
func (m *Message) SetID(id uint8) {
	m.Header = (m.Header & ^(uint16(0b111) << 9)) | (uint16(id&0b111) << 9)
}

// DataObjectCount returns the number of data objects in the message.
func (m Message) DataObjectCount() uint8 {
	return uint8((m.Header >> 12) & 0b111)
}

// SetDataObjectCount sets the number of data objects in the message.
func (m *Message) SetDataObjectCount(n uint8) {
	m.Header = (m.Header & ^(uint16(0b111) << 12)) | (uint16(n&0b111) << 12)
}

// IsData returns true of the message is a data message, otherwise it's a
// control message.
func (m Message) IsData() bool {
	return m.DataObjectCount() > 0
}

// Type returns the message type. As data and control messages share the same
// value of some types, the user must check IsData in addition to Type, to
// determine the correct type of the message.
func (m Message) Type() Type {
	return Type(m.Header & 0b11111)
}

// SetType sets the message type.
func (m *Message) SetType(t Type) {
	m.Header = (m.Header & ^uint16(0b11111)) | uint16(t&0b11111)
}

// Type represents the PD message type. For control messages, the value of the
// type is equivalent to that of the PD spec. Actual message type requires
// determining if the message is a control or a data message using IsData().
type Type uint8

// Control message types
const (
	TypeGoodCRC   Type = 0b00001
	TypeAccept    Type = 0b00011
	TypeReject    Type = 0b00100
	TypePing      Type = 0b00101
	TypeWait      Type = 0b01100
	TypeSoftReset Type = 0b01101
)

// Data message types
const (
	TypeVendorDefined Type = 0b01111
)

// Revision returns the power delivery revision number of the message.
func (m Message) Revision() Revision {
	return Revision((m.Header >> 6) & 0b11)
}

// SetRevision sets the power delivery revision number of the message.
func (m *Message) SetRevision(r Revision) {
	m.Header = (m.Header & ^(uint16(0b11) << 6)) | uint16(r&0b11)<<6
}

// Revision represents the power delivery revision number of a message.
type Revision uint8

// Power delivery revision numbers.
const (
	Revision10 Revision = 0b00
	Revision20 Revision = 0b01
	Revision30 Revision = 0b10
)

// PowerRole returns the power role of the sender of the message. On messages
// addressed to a cable plug the same bit tells whether the message comes from
// the plug itself.
func (m Message) PowerRole() PowerRole {
	return PowerRole((m.Header >> 8) & 1)
}

// SetPowerRole sets the power role of the sender of the message.
func (m *Message) SetPowerRole(r PowerRole) {
	m.Header = (m.Header & ^(uint16(1) << 8)) | (uint16(r&1) << 8)
}

// PowerRole represents the power role of the sender of a message.
type PowerRole uint8

// Power roles of the sender of a message.
const (
	PowerRoleSink   PowerRole = 0
	PowerRoleSource PowerRole = 1
)

// DataRole returns the data role of the sender of the message.
func (m Message) DataRole() DataRole {
	return DataRole((m.Header >> 5) & 1)
}

// SetDataRole sets the data role of the sender of the message.
func (m *Message) SetDataRole(r DataRole) {
	m.Header = (m.Header & ^(uint16(1) << 5)) | uint16(r&1)<<5
}

// DataRole represents the data role of the sender of a message.
type DataRole uint8

// Data roles of the sender of a message.
const (
	DataRoleUFP DataRole = 0
	DataRoleDFP DataRole = 1
)

package pdmsg

import "errors"

// SVIDPowerDelivery is the Standard ID allocated to the USB PD specification.
// Discover Identity is always addressed to it.
const SVIDPowerDelivery uint16 = 0xFF00

// ErrProtocolMismatch is returned when a message does not have the shape of
// the expected response. It is a negative classification, not a fault.
var ErrProtocolMismatch = errors.New("pd message does not match expected response")

// VDMHeader is the first data object of a Vendor Defined Message.
type VDMHeader uint32

// NewStructuredVDMHeader returns a structured VDM header for the given SVID
// and command, sent by an initiator.
func NewStructuredVDMHeader(svid uint16, cmd Command) VDMHeader {
	var h VDMHeader
	h.SetSVID(svid)
	h.SetStructured(true)
	h.SetVersion(VDMVersion10)
	h.SetCommandType(CommandTypeInitiator)
	h.SetCommand(cmd)
	return h
}

// SVID returns the Standard or Vendor ID the message is addressed to.
func (h VDMHeader) SVID() uint16 {
	return uint16(h >> 16)
}

// SetSVID sets the Standard or Vendor ID.
func (h *VDMHeader) SetSVID(svid uint16) {
	*h = (*h & 0xFFFF) | VDMHeader(svid)<<16
}

// Structured returns true for structured VDMs.
func (h VDMHeader) Structured() bool {
	return h&(1<<15) != 0
}

// SetStructured sets the VDM type flag.
func (h *VDMHeader) SetStructured(s bool) {
	var b VDMHeader
	if s {
		b = 1 << 15
	}
	*h = (*h & ^(VDMHeader(1) << 15)) | b
}

// Version returns the structured VDM version.
func (h VDMHeader) Version() VDMVersion {
	return VDMVersion((h >> 13) & 0b11)
}

// SetVersion sets the structured VDM version.
func (h *VDMHeader) SetVersion(v VDMVersion) {
	*h = (*h & ^(VDMHeader(0b11) << 13)) | VDMHeader(v&0b11)<<13
}

// ObjectPosition returns the object position used by mode commands.
func (h VDMHeader) ObjectPosition() uint8 {
	return uint8((h >> 8) & 0b111)
}

// SetObjectPosition sets the object position.
func (h *VDMHeader) SetObjectPosition(p uint8) {
	*h = (*h & ^(VDMHeader(0b111) << 8)) | VDMHeader(p&0b111)<<8
}

// CommandType returns whether the message is a request or a response.
func (h VDMHeader) CommandType() CommandType {
	return CommandType((h >> 6) & 0b11)
}

// SetCommandType sets the command type.
func (h *VDMHeader) SetCommandType(t CommandType) {
	*h = (*h & ^(VDMHeader(0b11) << 6)) | VDMHeader(t&0b11)<<6
}

// Command returns the structured VDM command.
func (h VDMHeader) Command() Command {
	return Command(h & 0b11111)
}

// SetCommand sets the structured VDM command.
func (h *VDMHeader) SetCommand(c Command) {
	*h = (*h & ^VDMHeader(0b11111)) | VDMHeader(c&0b11111)
}

// VDMVersion is the structured VDM version field.
type VDMVersion uint8

// Structured VDM versions.
const (
	VDMVersion10 VDMVersion = 0b00
	VDMVersion20 VDMVersion = 0b01
)

// CommandType tells requests apart from their responses.
type CommandType uint8

// Structured VDM command types.
const (
	CommandTypeInitiator CommandType = 0b00
	CommandTypeACK       CommandType = 0b01
	CommandTypeNAK       CommandType = 0b10
	CommandTypeBusy      CommandType = 0b11
)

// Command is a structured VDM command.
type Command uint8

// Structured VDM commands.
const (
	CommandDiscoverIdentity Command = 1
	CommandDiscoverSVIDs    Command = 2
	CommandDiscoverModes    Command = 3
	CommandEnterMode        Command = 4
	CommandExitMode         Command = 5
	CommandAttention        Command = 6
)

// NewDiscoverIdentity returns a Discover Identity request as sent by a
// source DFP speaking PD revision 2.0.
func NewDiscoverIdentity() Message {
	var m Message
	m.SetType(TypeVendorDefined)
	m.SetDataObjectCount(1)
	m.SetPowerRole(PowerRoleSource)
	m.SetDataRole(DataRoleDFP)
	m.SetRevision(Revision20)
	m.Data[0] = uint32(NewStructuredVDMHeader(SVIDPowerDelivery, CommandDiscoverIdentity))
	return m
}

// ProductVDO is the Product VDO of a Discover Identity response.
type ProductVDO uint32

// ProductID returns the USB product ID.
func (o ProductVDO) ProductID() uint16 {
	return uint16(o >> 16)
}

// BCDDevice returns the device release number.
func (o ProductVDO) BCDDevice() uint16 {
	return uint16(o)
}

// CableVDO is the first product type VDO returned by a cable plug.
type CableVDO uint32

// HardwareVersion returns the cable hardware version.
func (o CableVDO) HardwareVersion() uint8 {
	return uint8((o >> 28) & 0b1111)
}

// FirmwareVersion returns the cable firmware version.
func (o CableVDO) FirmwareVersion() uint8 {
	return uint8((o >> 24) & 0b1111)
}

// MaxVBUSCurrent returns the current the cable is rated for in milliamps.
func (o CableVDO) MaxVBUSCurrent() uint16 {
	switch (o >> 5) & 0b11 {
	case 0b10:
		return 5000
	default:
		return 3000
	}
}

// USBSpeed returns the highest USB signaling the cable supports, as encoded
// in the VDO.
func (o CableVDO) USBSpeed() uint8 {
	return uint8(o & 0b111)
}

// Identity is the content of a Discover Identity ACK.
type Identity struct {
	VendorID uint16

	// IDHeader is the raw ID Header VDO.
	IDHeader uint32

	// CertStat holds the XID assigned by USB-IF, zero if not returned.
	CertStat uint32

	Product ProductVDO

	// ProductTypeVDOs are the VDOs following the Product VDO. For cable
	// plugs, the first one is a CableVDO.
	ProductTypeVDOs [3]uint32
	ProductTypeN    uint8
}

// Cable returns the cable VDO and true if the responder returned one.
func (id Identity) Cable() (CableVDO, bool) {
	if id.ProductTypeN == 0 {
		return 0, false
	}
	return CableVDO(id.ProductTypeVDOs[0]), true
}

// ParseDiscoverIdentityAck extracts the identity carried by a Discover
// Identity ACK. ErrProtocolMismatch is returned if m has fewer than two data
// objects or if its VDM header is not a PD SID Discover Identity ACK.
func ParseDiscoverIdentityAck(m Message) (Identity, error) {
	objs := m.Objects()
	if len(objs) < 2 { // VDM header and ID header at least
		return Identity{}, ErrProtocolMismatch
	}

	h := VDMHeader(objs[0])
	if h.SVID() != SVIDPowerDelivery || h.Command() != CommandDiscoverIdentity || h.CommandType() != CommandTypeACK {
		return Identity{}, ErrProtocolMismatch
	}

	id := Identity{
		VendorID: uint16(objs[1] >> 16),
		IDHeader: objs[1],
	}
	if len(objs) > 2 {
		id.CertStat = objs[2]
	}
	if len(objs) > 3 {
		id.Product = ProductVDO(objs[3])
	}
	if len(objs) > 4 {
		id.ProductTypeN = uint8(copy(id.ProductTypeVDOs[:], objs[4:]))
	}
	return id, nil
}

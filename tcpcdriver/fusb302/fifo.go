package fusb302

import (
	"encoding/binary"
	"errors"

	"github.com/oxplot/go-typec-host/pdmsg"
)

var (
	// ErrUnsupportedSOP is returned when encoding for a SOP variant the
	// driver does not transmit on. Only SOP' is supported.
	ErrUnsupportedSOP = errors.New("fusb302: unsupported start of packet")

	// ErrPayloadLength is returned when a payload or FIFO transfer does not
	// fit the chip limits.
	ErrPayloadLength = errors.New("fusb302: invalid payload length")

	// ErrIncompletePacket is returned when the buffer ends before the packet
	// announced by its header.
	ErrIncompletePacket = errors.New("fusb302: incomplete packet")

	// ErrNoPacket is returned when the buffer does not start with a receive
	// token.
	ErrNoPacket = errors.New("fusb302: no start of packet token")
)

// TX FIFO tokens.
const (
	tokenTxOn    = 0xA1
	tokenSync1   = 0x12
	tokenSync2   = 0x13
	tokenSync3   = 0x1B
	tokenReset1  = 0x15
	tokenReset2  = 0x16
	tokenPackSym = 0x80
	tokenJamCRC  = 0xFF
	tokenEOP     = 0x14
	tokenTxOff   = 0xFE
)

// RX FIFO tokens, identified by their top 3 bits.
const (
	rxTokenMask       = 0xE0
	rxTokenSOP        = 0xE0
	rxTokenSOP1       = 0xC0
	rxTokenSOP2       = 0xA0
	rxTokenSOP1Debug  = 0x80
	rxTokenSOP2Debug  = 0x60
	minPackSymPayload = 2
	maxPackSymPayload = 30
	crcLen            = 4
)

// MaxPacketTokens is the largest token stream produced by EncodePacket.
const MaxPacketTokens = 4 + 1 + maxPackSymPayload + 4

// EncodePacket writes the TX FIFO token stream of m sent on sop into dst and
// returns the number of bytes written. The stream ends with TXON, so writing
// it to the FIFO starts the transmission.
func EncodePacket(dst []byte, sop pdmsg.SOP, m pdmsg.Message) (int, error) {
	if sop != pdmsg.SOPPrime {
		return 0, ErrUnsupportedSOP
	}
	payload := m.Len()
	if payload < minPackSymPayload || payload > maxPackSymPayload {
		return 0, ErrPayloadLength
	}
	if len(dst) < 4+1+payload+4 {
		return 0, ErrPayloadLength
	}
	n := copy(dst, []byte{tokenSync1, tokenSync1, tokenSync3, tokenSync3})
	dst[n] = tokenPackSym | uint8(payload)
	n++
	n += int(m.ToBytes(dst[n:]))
	n += copy(dst[n:], []byte{tokenJamCRC, tokenEOP, tokenTxOff, tokenTxOn})
	return n, nil
}

// Packet is a PD packet read from the RX FIFO.
type Packet struct {
	SOP pdmsg.SOP
	Msg pdmsg.Message

	// CRC as received. It was already checked by the chip.
	CRC uint32

	// Start is the offset of the packet token in the scanned buffer and Len
	// the number of bytes it spans, token and CRC included.
	Start int
	Len   int
}

func rxTokenSOPType(b byte) (pdmsg.SOP, bool) {
	switch b & rxTokenMask {
	case rxTokenSOP:
		return pdmsg.SOPPort, true
	case rxTokenSOP1:
		return pdmsg.SOPPrime, true
	case rxTokenSOP2:
		return pdmsg.SOPDoublePrime, true
	case rxTokenSOP1Debug, rxTokenSOP2Debug:
		return pdmsg.SOPOther, true
	default:
		return 0, false
	}
}

// startsPacket returns true for the tokens a received packet is searched
// from. Debug tokens only decode when a packet is known to start there.
func startsPacket(b byte) bool {
	switch b & rxTokenMask {
	case rxTokenSOP, rxTokenSOP1, rxTokenSOP2:
		return true
	default:
		return false
	}
}

// DecodePacket decodes the packet at the start of buf, which must begin with
// a receive token, and returns it with the number of bytes it spans.
// ErrIncompletePacket means buf ends before the end of the packet.
func DecodePacket(buf []byte) (Packet, int, error) {
	if len(buf) == 0 {
		return Packet{}, 0, ErrIncompletePacket
	}
	sop, ok := rxTokenSOPType(buf[0])
	if !ok {
		return Packet{}, 0, ErrNoPacket
	}
	if len(buf) < 1+2+crcLen {
		return Packet{}, 0, ErrIncompletePacket
	}
	var p Packet
	p.SOP = sop
	p.Msg.Header = binary.LittleEndian.Uint16(buf[1:])
	body := 2 + 4*int(p.Msg.DataObjectCount())
	total := 1 + body + crcLen
	if len(buf) < total {
		return Packet{}, 0, ErrIncompletePacket
	}
	if _, err := p.Msg.FromBytes(buf[1 : 1+body]); err != nil {
		return Packet{}, 0, ErrIncompletePacket
	}
	p.CRC = binary.LittleEndian.Uint32(buf[1+body:])
	p.Len = total
	return p, total, nil
}

// PacketScanner finds the packets in a buffer read from the RX FIFO. Bytes
// other than the SOP, SOP prime and SOP double prime tokens are skipped until
// a packet starts.
//
//	s := NewPacketScanner(buf)
//	for s.Scan() {
//		p := s.Packet()
//		...
//	}
type PacketScanner struct {
	buf []byte
	off int
	pkt Packet
	err error
}

// NewPacketScanner returns a scanner over buf starting at offset 0.
func NewPacketScanner(buf []byte) *PacketScanner {
	return &PacketScanner{buf: buf}
}

// Scan advances to the next packet. It returns false at the end of the
// buffer or when the last packet is truncated.
func (s *PacketScanner) Scan() bool {
	if s.err != nil {
		return false
	}
	for ; s.off < len(s.buf); s.off++ {
		if !startsPacket(s.buf[s.off]) {
			continue
		}
		p, n, err := DecodePacket(s.buf[s.off:])
		if err != nil {
			s.err = err
			return false
		}
		p.Start = s.off
		s.pkt = p
		s.off += n
		return true
	}
	return false
}

// Packet returns the packet found by the last call to Scan.
func (s *PacketScanner) Packet() Packet {
	return s.pkt
}

// Offset returns where the next Scan resumes.
func (s *PacketScanner) Offset() int {
	return s.off
}

// Err returns ErrIncompletePacket if scanning stopped on a truncated packet.
func (s *PacketScanner) Err() error {
	return s.err
}

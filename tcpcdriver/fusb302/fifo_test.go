package fusb302

import (
	"github.com/oxplot/go-typec-host/pdmsg"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

func messageWith(n int) pdmsg.Message {
	var m pdmsg.Message
	m.SetType(pdmsg.TypeVendorDefined)
	m.SetRevision(pdmsg.Revision20)
	m.SetID(3)
	m.SetDataObjectCount(uint8(n))
	for i := 0; i < n; i++ {
		m.Data[i] = 0x01020304 * uint32(i+1)
	}
	return m
}

var _ = Describe("Packet codec", func() {
	var buf [MaxPacketTokens]byte

	It("should frame Discover Identity for SOP'", func() {
		n, err := EncodePacket(buf[:], pdmsg.SOPPrime, pdmsg.NewDiscoverIdentity())
		Expect(err).ToNot(HaveOccurred())
		Expect(buf[:n]).To(Equal([]byte{
			0x12, 0x12, 0x1B, 0x1B, // SOP'
			0x86,       // PACKSYM, 6 bytes
			0x6F, 0x11, // header
			0x01, 0x80, 0x00, 0xFF, // VDM header
			0xFF, 0x14, 0xFE, 0xA1, // JAM_CRC, EOP, TXOFF, TXON
		}))
	})

	It("should only encode SOP'", func() {
		for _, sop := range []pdmsg.SOP{pdmsg.SOPPort, pdmsg.SOPDoublePrime, pdmsg.SOPOther} {
			_, err := EncodePacket(buf[:], sop, pdmsg.NewDiscoverIdentity())
			Expect(err).To(MatchError(ErrUnsupportedSOP))
		}
	})

	It("should reject a short destination", func() {
		_, err := EncodePacket(buf[:10], pdmsg.SOPPrime, messageWith(2))
		Expect(err).To(MatchError(ErrPayloadLength))
	})

	DescribeTable("should decode what it encodes",
		func(objects int) {
			m := messageWith(objects)
			n, err := EncodePacket(buf[:], pdmsg.SOPPrime, m)
			Expect(err).ToNot(HaveOccurred())

			payload := int(buf[4] &^ tokenPackSym)
			Expect(payload).To(Equal(2 + 4*objects))
			Expect(n).To(Equal(4 + 1 + payload + 4))
			Expect(buf[n-1]).To(Equal(byte(tokenTxOn)))

			rx := append([]byte{rxTokenSOP1}, buf[5:5+payload]...)
			rx = append(rx, 0x11, 0x22, 0x33, 0x44)

			p, used, err := DecodePacket(rx)
			Expect(err).ToNot(HaveOccurred())
			Expect(used).To(Equal(len(rx)))
			Expect(p.SOP).To(Equal(pdmsg.SOPPrime))
			Expect(p.Msg).To(Equal(m))
			Expect(p.CRC).To(Equal(uint32(0x44332211)))
		},
		Entry("0 objects", 0),
		Entry("1 object", 1),
		Entry("2 objects", 2),
		Entry("3 objects", 3),
		Entry("4 objects", 4),
		Entry("5 objects", 5),
		Entry("6 objects", 6),
		Entry("7 objects", 7),
	)

	DescribeTable("should classify receive tokens",
		func(token byte, sop pdmsg.SOP) {
			p, _, err := DecodePacket(rxPacket(token, messageWith(1)))
			Expect(err).ToNot(HaveOccurred())
			Expect(p.SOP).To(Equal(sop))
		},
		Entry("SOP", byte(0xE0), pdmsg.SOPPort),
		Entry("SOP'", byte(0xC0), pdmsg.SOPPrime),
		Entry("SOP''", byte(0xA0), pdmsg.SOPDoublePrime),
		Entry("SOP' debug", byte(0x80), pdmsg.SOPOther),
		Entry("SOP'' debug", byte(0x60), pdmsg.SOPOther),
		Entry("low bits ignored", byte(0xC7), pdmsg.SOPPrime),
	)

	It("should not decode a buffer without a token", func() {
		_, _, err := DecodePacket([]byte{0x12, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00})
		Expect(err).To(MatchError(ErrNoPacket))
	})

	It("should report truncated packets", func() {
		full := rxPacket(rxTokenSOP1, messageWith(3))
		for _, n := range []int{0, 1, 3, 6, len(full) - 1} {
			_, _, err := DecodePacket(full[:n])
			Expect(err).To(MatchError(ErrIncompletePacket), "length %d", n)
		}
	})

	Describe("PacketScanner", func() {
		It("should find back to back packets", func() {
			first := rxPacket(rxTokenSOP1, messageWith(1))
			second := rxPacket(rxTokenSOP, messageWith(4))
			s := NewPacketScanner(append(append([]byte{}, first...), second...))

			Expect(s.Scan()).To(BeTrue())
			Expect(s.Packet().Start).To(Equal(0))
			Expect(s.Packet().Len).To(Equal(len(first)))
			Expect(s.Packet().SOP).To(Equal(pdmsg.SOPPrime))
			Expect(s.Packet().Msg).To(Equal(messageWith(1)))

			Expect(s.Scan()).To(BeTrue())
			Expect(s.Packet().Start).To(Equal(len(first)))
			Expect(s.Packet().SOP).To(Equal(pdmsg.SOPPort))
			Expect(s.Packet().Msg).To(Equal(messageWith(4)))

			Expect(s.Scan()).To(BeFalse())
			Expect(s.Err()).ToNot(HaveOccurred())
			Expect(s.Offset()).To(Equal(len(first) + len(second)))
		})

		It("should skip leading garbage", func() {
			buf := append([]byte{0x00, 0x12, 0x1F}, rxPacket(rxTokenSOP1, messageWith(2))...)
			s := NewPacketScanner(buf)
			Expect(s.Scan()).To(BeTrue())
			Expect(s.Packet().Start).To(Equal(3))
			Expect(s.Packet().Msg).To(Equal(messageWith(2)))
			Expect(s.Scan()).To(BeFalse())
		})

		It("should not start packets at debug tokens", func() {
			for _, b := range []byte{0x60, 0x7F, 0x80, 0x85, 0x9F} {
				buf := append([]byte{b}, rxPacket(rxTokenSOP1, messageWith(2))...)
				s := NewPacketScanner(buf)
				Expect(s.Scan()).To(BeTrue(), "leading 0x%02X", b)
				Expect(s.Packet().Start).To(Equal(1))
				Expect(s.Packet().SOP).To(Equal(pdmsg.SOPPrime))
				Expect(s.Packet().Msg).To(Equal(messageWith(2)))
				Expect(s.Scan()).To(BeFalse())
				Expect(s.Err()).ToNot(HaveOccurred())
			}
		})

		It("should stop on a truncated trailing packet", func() {
			first := rxPacket(rxTokenSOP1, messageWith(1))
			second := rxPacket(rxTokenSOP1, messageWith(2))
			buf := append(append([]byte{}, first...), second[:len(second)-2]...)
			s := NewPacketScanner(buf)

			Expect(s.Scan()).To(BeTrue())
			Expect(s.Scan()).To(BeFalse())
			Expect(s.Err()).To(MatchError(ErrIncompletePacket))
			Expect(s.Scan()).To(BeFalse())
		})

		It("should yield nothing from an empty buffer", func() {
			s := NewPacketScanner(nil)
			Expect(s.Scan()).To(BeFalse())
			Expect(s.Err()).ToNot(HaveOccurred())
		})
	})
})

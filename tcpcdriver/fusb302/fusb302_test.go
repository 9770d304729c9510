package fusb302

import (
	"bytes"
	"fmt"

	"github.com/oxplot/go-typec-host"
	"github.com/oxplot/go-typec-host/pdmsg"
	"github.com/oxplot/go-typec-host/tcpcdriver"
	"periph.io/x/conn/v3/i2c/i2ctest"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

const busAddr = 0x22

var _ = Describe("Register access", func() {
	var (
		bus *i2ctest.Playback
		f   *FUSB302
	)

	BeforeEach(func() {
		bus = &i2ctest.Playback{DontPanic: true}
		f = New(bus, FUSB302BMPX)
	})

	AfterEach(func() {
		Expect(bus.Close()).To(Succeed())
	})

	It("should use the part number address", func() {
		Expect(FUSB302BMPX.I2CAddress()).To(Equal(uint8(busAddr)))
		Expect(FUSB302B11MPX.I2CAddress()).To(Equal(uint8(0x25)))
		Expect(ParseMPN("FUSB302B01MPX")).To(Equal(FUSB302B01MPX))
		Expect(ParseMPN("")).To(Equal(FUSB302BMPX))
		_, err := ParseMPN("FUSB303")
		Expect(err).To(HaveOccurred())
	})

	It("should read a single register into the mirror", func() {
		bus.Ops = []i2ctest.IO{
			{Addr: busAddr, W: []byte{0x42}, R: []byte{0x21}},
		}
		Expect(f.ReadRegister(RegInterrupt)).To(Succeed())
		Expect(f.Mirror().Bit(ICompChng)).To(BeTrue())
		Expect(f.Mirror().Bit(IBCLvl)).To(BeTrue())
		Expect(f.Mirror().Bit(ICRCChk)).To(BeFalse())
	})

	It("should read a whole bank in one transaction", func() {
		status := []byte{0x01, 0x02, 0x03, 0x04, 0xA3, 0x28, 0x10}
		bus.Ops = []i2ctest.IO{
			{Addr: busAddr, W: []byte{0x3C}, R: status},
		}
		Expect(f.ReadBank(BankStatus)).To(Succeed())
		for i, v := range status {
			Expect(f.Mirror().Reg(RegStatus0A + uint8(i))).To(Equal(v))
		}
		Expect(f.Mirror().Get(BCLvl)).To(Equal(uint8(3)))
		Expect(f.Mirror().Bit(Comp)).To(BeTrue())
		Expect(f.Mirror().Bit(RxEmpty)).To(BeTrue())
	})

	It("should write the control bank from the mirror", func() {
		for r := uint8(RegDeviceID); r <= RegControl4; r++ {
			Expect(f.Mirror().SetReg(r, r)).To(Succeed())
		}
		w := []byte{0x01}
		for r := byte(0x01); r <= 0x10; r++ {
			w = append(w, r)
		}
		bus.Ops = []i2ctest.IO{{Addr: busAddr, W: w}}
		Expect(f.WriteBank(BankControl)).To(Succeed())
	})

	It("should write both switch registers together", func() {
		Expect(f.Mirror().SetReg(RegSwitches0, 0xC4)).To(Succeed())
		Expect(f.Mirror().SetReg(RegSwitches1, 0x94)).To(Succeed())
		bus.Ops = []i2ctest.IO{
			{Addr: busAddr, W: []byte{0x02, 0xC4, 0x94}},
			{Addr: busAddr, W: []byte{0x03, 0x94}},
		}
		Expect(f.WriteRange(RegSwitches0, 2)).To(Succeed())
		Expect(f.WriteRegister(RegSwitches1)).To(Succeed())
	})

	It("should refuse writes outside the control bank", func() {
		Expect(f.WriteBank(BankStatus)).To(MatchError(ErrReadOnlyRegister))
		Expect(f.WriteRegister(RegInterrupt)).To(MatchError(ErrReadOnlyRegister))
		Expect(f.WriteRegister(0x30)).To(MatchError(ErrInvalidRegister))
		Expect(f.WriteRange(RegControl4, 2)).To(MatchError(ErrInvalidRegister))
		Expect(f.ReadRegister(0x11)).To(MatchError(ErrInvalidRegister))
	})

	It("should reset with a single write", func() {
		bus.Ops = []i2ctest.IO{{Addr: busAddr, W: []byte{0x0C, 0x01}}}
		Expect(f.Reset()).To(Succeed())
		Expect(f.Mirror().Bit(SWReset)).To(BeFalse())
	})

	It("should read the device ID", func() {
		bus.Ops = []i2ctest.IO{{Addr: busAddr, W: []byte{0x01}, R: []byte{0x91}}}
		version, revision, err := f.DeviceID()
		Expect(err).ToNot(HaveOccurred())
		Expect(version).To(Equal(uint8(9)))
		Expect(revision).To(Equal(uint8(1)))
	})

	It("should leave the mirror untouched on a failed read", func() {
		Expect(f.Mirror().SetReg(RegStatus0, 0x5A)).To(Succeed())
		bus.Ops = nil
		err := f.ReadRegister(RegStatus0)
		Expect(IsTransportError(err)).To(BeTrue())
		Expect(err.Error()).To(HavePrefix("fusb302: read reg 0x40: "))
		Expect(f.Mirror().Reg(RegStatus0)).To(Equal(byte(0x5A)))
	})

	It("should bound FIFO transfers", func() {
		Expect(f.WriteFIFO(make([]byte, 81))).To(MatchError(ErrPayloadLength))
		Expect(f.ReadFIFO(make([]byte, 81))).To(MatchError(ErrPayloadLength))
	})

	It("should dump a bank", func() {
		bus.Ops = []i2ctest.IO{
			{Addr: busAddr, W: []byte{0x3C}, R: []byte{0, 0, 0, 0, 0x20, 0x28, 0}},
		}
		var buf bytes.Buffer
		Expect(f.DumpRegisters(&buf, BankStatus)).To(Succeed())
		Expect(buf.String()).To(HavePrefix("status registers:\n"))
		Expect(buf.String()).To(MatchRegexp(`0x40\s+COMP\s+1\s`))
		Expect(buf.String()).To(MatchRegexp(`0x41\s+RX_EMPTY\s+1\s`))
	})
})

var _ = Describe("Cable identity", func() {
	var (
		chip  *fakeChip
		delay *recordingDelayer
		f     *FUSB302
		logs  []string
	)

	BeforeEach(func() {
		chip = newFakeChip()
		delay = &recordingDelayer{}
		logs = nil
		f = New(chip, FUSB302BMPX)
		f.SetDelayer(delay)
		f.SetLogger(tcpcdriver.LoggerFunc(func(format string, args ...any) {
			logs = append(logs, fmt.Sprintf(format, args...))
		}))
		Expect(f.SetupHostMonitoring(DefaultHostConfig())).To(Succeed())
		delay.total, delay.calls = 0, 0
	})

	It("should reject an unknown orientation", func() {
		_, _, err := f.DiscoverCableIdentity(typec.OrientationUnknown, false)
		Expect(err).To(MatchError(ErrInvalidOrientation))
	})

	It("should send Discover Identity on SOP' and give up after the budget", func() {
		present, id, err := f.DiscoverCableIdentity(typec.OrientationCC1, false)
		Expect(err).ToNot(HaveOccurred())
		Expect(present).To(BeFalse())
		Expect(id).To(BeNil())
		Expect(delay.calls).To(Equal(tcpcdriver.DefaultResponsePolicy.Attempts))
		Expect(delay.total).To(Equal(tcpcdriver.DefaultResponsePolicy.Total()))
		Expect(logs).To(ContainElement("fusb302: no emarker response"))

		var fifo []byte
		for _, w := range chip.writes {
			if w[0] == regFIFOs {
				fifo = w[1:]
			}
		}
		var want [MaxPacketTokens]byte
		n, err := EncodePacket(want[:], pdmsg.SOPPrime, pdmsg.NewDiscoverIdentity())
		Expect(err).ToNot(HaveOccurred())
		Expect(fifo).To(Equal(want[:n]))
	})

	It("should follow a custom response policy", func() {
		cfg := DefaultHostConfig()
		cfg.Response = tcpcdriver.RetryPolicy{Attempts: 3, Interval: 1000}
		Expect(f.SetupHostMonitoring(cfg)).To(Succeed())
		delay.calls = 0

		present, _, err := f.DiscoverCableIdentity(typec.OrientationCC2, true)
		Expect(err).ToNot(HaveOccurred())
		Expect(present).To(BeFalse())
		Expect(delay.calls).To(Equal(3))
	})

	It("should skip packets that are not an identity ACK", func() {
		nak := pdmsg.NewStructuredVDMHeader(pdmsg.SVIDPowerDelivery, pdmsg.CommandDiscoverIdentity)
		nak.SetCommandType(pdmsg.CommandTypeNAK)
		var m pdmsg.Message
		m.SetType(pdmsg.TypeVendorDefined)
		m.SetDataObjectCount(2)
		m.Data[0] = uint32(nak)
		m.Data[1] = 0x12340000

		ack := identityAck(0x05AC0000, 0, 0x00120034)
		chip.emarker = &ack
		chip.noise = append(rxPacket(rxTokenSOP, ack), rxPacket(rxTokenSOP1, m)...)

		present, id, err := f.DiscoverCableIdentity(typec.OrientationCC1, false)
		Expect(err).ToNot(HaveOccurred())
		Expect(present).To(BeTrue())
		Expect(id).ToNot(BeNil())
		Expect(id.VendorID).To(Equal(uint16(0x05AC)))
		Expect(id.Product.ProductID()).To(Equal(uint16(0x0012)))
	})

	It("should find the ACK behind a stray debug token", func() {
		ack := identityAck(0x05AC0000, 0, 0x00120034)
		chip.emarker = &ack
		chip.noise = []byte{0x85}

		present, id, err := f.DiscoverCableIdentity(typec.OrientationCC1, false)
		Expect(err).ToNot(HaveOccurred())
		Expect(present).To(BeTrue())
		Expect(id).ToNot(BeNil())
		Expect(id.VendorID).To(Equal(uint16(0x05AC)))
	})

	It("should only check for an answer in check mode", func() {
		ack := identityAck(0x05AC0000)
		chip.emarker = &ack

		present, id, err := f.DiscoverCableIdentity(typec.OrientationCC1, true)
		Expect(err).ToNot(HaveOccurred())
		Expect(present).To(BeTrue())
		Expect(id).To(BeNil())
		Expect(chip.rx).To(BeEmpty())
	})

	It("should surface bus errors", func() {
		chip.failRead, chip.failErr = RegStatus1, fmt.Errorf("arbitration lost")
		ack := identityAck(0x05AC0000)
		chip.emarker = &ack

		present, _, err := f.DiscoverCableIdentity(typec.OrientationCC1, false)
		Expect(present).To(BeFalse())
		Expect(IsTransportError(err)).To(BeTrue())
	})
})

// Package fusb302 implements a USB Type-C host port driver for the FUSB302
// from ONSemi. It keeps a mirror of the control and status registers, frames
// PD packets for the chip FIFO, reads the identity of emarked cables and runs
// the attachment state machine of a source port.
package fusb302

import (
	"errors"
	"fmt"
	"time"

	"github.com/oxplot/go-typec-host"
	"github.com/oxplot/go-typec-host/tcpcdriver"
)

// MPN represents the manufacturer part number
type MPN uint8

// I2CAddress returns the I2C address of the FUSB302.
func (m MPN) I2CAddress() uint8 {
	return uint8(m)
}

// Manufacturer part numbers
const (
	FUSB302BUCX   MPN = 0b100010
	FUSB302BMPX   MPN = 0b100010
	FUSB302VMPX   MPN = 0b100010
	FUSB302B01MPX MPN = 0b100011
	FUSB302B10MPX MPN = 0b100100
	FUSB302B11MPX MPN = 0b100101
)

// ParseMPN returns the part number with the given name, as printed on the
// package marking, such as "FUSB302BMPX".
func ParseMPN(s string) (MPN, error) {
	switch s {
	case "FUSB302BUCX":
		return FUSB302BUCX, nil
	case "FUSB302BMPX", "":
		return FUSB302BMPX, nil
	case "FUSB302VMPX":
		return FUSB302VMPX, nil
	case "FUSB302B01MPX":
		return FUSB302B01MPX, nil
	case "FUSB302B10MPX":
		return FUSB302B10MPX, nil
	case "FUSB302B11MPX":
		return FUSB302B11MPX, nil
	default:
		return 0, fmt.Errorf("fusb302: unknown part number %q", s)
	}
}

// TransportError is returned when an I2C transaction with the chip fails.
// The mirror is left untouched by failed reads.
type TransportError struct {
	Op  string // "read" or "write"
	Reg uint8
	Len int
	Err error
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("fusb302: %s reg 0x%02x: %v", e.Op, e.Reg, e.Err)
}

func (e *TransportError) Unwrap() error {
	return e.Err
}

// IsTransportError returns true if err was caused by a failed bus
// transaction.
func IsTransportError(err error) bool {
	var te *TransportError
	return errors.As(err, &te)
}

const (
	resetSettle   = 10 * time.Millisecond
	measureSettle = time.Millisecond
	vconnSettle   = 10 * time.Millisecond
	maxRxBytes    = maxFIFOPayload
)

// FUSB302 represents a FUSB302 IC operating a Type-C host port.
// It is not safe for concurrent use.
type FUSB302 struct {
	port tcpcdriver.I2C
	addr uint16

	regs  Mirror
	delay tcpcdriver.Delayer
	log   tcpcdriver.Logger

	host hostState

	// Buffers used for tx and rx, defined once here instead to avoid heap
	// allocations in each method used.
	buf [maxFIFOPayload + 1]byte
	tx  [MaxPacketTokens]byte
	rx  [maxRxBytes]byte
}

// New creates a new driver and allocates all necessary memory for all future
// operations. No bus transaction is made until the port is set up.
//
// I2C port must have <=1Mhz frequency.
func New(port tcpcdriver.I2C, mpn MPN) *FUSB302 {
	return &FUSB302{
		port:  port,
		addr:  uint16(mpn.I2CAddress()),
		delay: tcpcdriver.Sleep,
		log:   tcpcdriver.Discard,
		host:  hostState{orientation: typec.OrientationUnknown},
	}
}

// SetDelayer replaces the delay primitive, time.Sleep by default.
func (f *FUSB302) SetDelayer(d tcpcdriver.Delayer) {
	if d == nil {
		d = tcpcdriver.Sleep
	}
	f.delay = d
}

// SetLogger sets the sink for diagnostic messages. Passing nil discards them.
func (f *FUSB302) SetLogger(l tcpcdriver.Logger) {
	if l == nil {
		l = tcpcdriver.Discard
	}
	f.log = l
}

// Mirror returns the register mirror. Changes made through it are sent to the
// chip by the next write of the affected registers.
func (f *FUSB302) Mirror() *Mirror {
	return &f.regs
}

func (f *FUSB302) writeMany(r uint8, d []byte) error {
	f.buf[0] = r
	copy(f.buf[1:], d)
	if err := f.port.Tx(f.addr, f.buf[:len(d)+1], nil); err != nil {
		return &TransportError{Op: "write", Reg: r, Len: len(d), Err: err}
	}
	return nil
}

func (f *FUSB302) readMany(r uint8, d []byte) error {
	f.buf[0] = r
	if err := f.port.Tx(f.addr, f.buf[:1], f.buf[1:len(d)+1]); err != nil {
		return &TransportError{Op: "read", Reg: r, Len: len(d), Err: err}
	}
	copy(d, f.buf[1:len(d)+1])
	return nil
}

// ReadRegister reads a single register into the mirror.
func (f *FUSB302) ReadRegister(reg uint8) error {
	b, err := BankOf(reg)
	if err != nil {
		return err
	}
	s := f.regs.bank(b)
	i := reg - b.Start()
	return f.readMany(reg, s[i:i+1])
}

// WriteRegister writes the mirrored value of a single control register.
func (f *FUSB302) WriteRegister(reg uint8) error {
	return f.WriteRange(reg, 1)
}

// ReadBank reads all registers of a bank in one transaction.
func (f *FUSB302) ReadBank(b Bank) error {
	return f.readMany(b.Start(), f.regs.bank(b))
}

// WriteBank writes all mirrored registers of a bank in one transaction. Only
// the control bank is writable.
func (f *FUSB302) WriteBank(b Bank) error {
	if b != BankControl {
		return ErrReadOnlyRegister
	}
	return f.writeMany(b.Start(), f.regs.bank(b))
}

// WriteRange writes n consecutive control registers starting at first in one
// transaction.
func (f *FUSB302) WriteRange(first uint8, n int) error {
	b, err := BankOf(first)
	if err != nil {
		return err
	}
	if b != BankControl {
		return ErrReadOnlyRegister
	}
	i := int(first - b.Start())
	if n < 1 || i+n > b.Len() {
		return ErrInvalidRegister
	}
	return f.writeMany(first, f.regs.bank(b)[i:i+n])
}

// ReadFIFO reads len(d) bytes from the receive FIFO. The FIFO is not
// mirrored.
func (f *FUSB302) ReadFIFO(d []byte) error {
	if len(d) > maxFIFOPayload {
		return ErrPayloadLength
	}
	return f.readMany(regFIFOs, d)
}

// WriteFIFO writes tokens to the transmit FIFO.
func (f *FUSB302) WriteFIFO(d []byte) error {
	if len(d) > maxFIFOPayload {
		return ErrPayloadLength
	}
	return f.writeMany(regFIFOs, d)
}

// Reset sets the software reset bit and writes it. It does not wait for the
// chip to come back; callers must let it settle before further access.
func (f *FUSB302) Reset() error {
	if err := f.regs.Set(SWReset, 1); err != nil {
		return err
	}
	err := f.WriteRegister(RegReset)
	_ = f.regs.Set(SWReset, 0) // self clearing on the chip
	return err
}

// DeviceID reads the DEVICE_ID register and returns its version and revision.
func (f *FUSB302) DeviceID() (version, revision uint8, err error) {
	if err := f.ReadRegister(RegDeviceID); err != nil {
		return 0, 0, err
	}
	version, _ = f.regs.Get(VersionID)
	revision, _ = f.regs.Get(RevisionID)
	return version, revision, nil
}

// pulse sets a self clearing bit, writes its register and clears the bit in
// the mirror.
func (f *FUSB302) pulse(fl Field) error {
	if err := f.regs.Set(fl, 1); err != nil {
		return err
	}
	err := f.WriteRegister(fl.Reg)
	_ = f.regs.Set(fl, 0)
	return err
}

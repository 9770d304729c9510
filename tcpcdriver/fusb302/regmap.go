package fusb302

import "errors"

var (
	// ErrInvalidRegister is returned when a register address is outside the
	// control and status banks.
	ErrInvalidRegister = errors.New("fusb302: invalid register")

	// ErrReadOnlyRegister is returned when writing to the status bank.
	ErrReadOnlyRegister = errors.New("fusb302: read-only register")
)

// Bank is a contiguous range of registers mirrored in memory.
type Bank uint8

// Register banks.
const (
	BankControl Bank = iota // DEVICE_ID through CONTROL4
	BankStatus              // STATUS0A through INTERRUPT
)

func (b Bank) String() string {
	switch b {
	case BankControl:
		return "control"
	case BankStatus:
		return "status"
	default:
		return "INVALID"
	}
}

// Start returns the address of the first register of the bank.
func (b Bank) Start() uint8 {
	if b == BankStatus {
		return statusStart
	}
	return controlStart
}

// Len returns the number of registers in the bank.
func (b Bank) Len() int {
	if b == BankStatus {
		return statusNum
	}
	return controlNum
}

// BankOf returns the bank holding register reg.
func BankOf(reg uint8) (Bank, error) {
	switch {
	case reg >= controlStart && reg < controlStart+controlNum:
		return BankControl, nil
	case reg >= statusStart && reg < statusStart+statusNum:
		return BankStatus, nil
	default:
		return 0, ErrInvalidRegister
	}
}

// OffsetNone marks a single bit field read and written as 0 or 1.
const OffsetNone = -1

// Field is a group of bits within a register. Multi-bit fields are shifted
// right by Offset into a normalized value.
type Field struct {
	Reg    uint8
	Mask   uint8
	Offset int8
}

// IsBool returns true for single bit fields.
func (f Field) IsBool() bool {
	return f.Offset == OffsetNone
}

// Mirror holds the last value read from or written to each control and
// status register. It is never refreshed implicitly.
type Mirror struct {
	control [controlNum]byte
	status  [statusNum]byte
}

func (m *Mirror) bank(b Bank) []byte {
	if b == BankStatus {
		return m.status[:]
	}
	return m.control[:]
}

func (m *Mirror) slot(reg uint8) (*byte, error) {
	b, err := BankOf(reg)
	if err != nil {
		return nil, err
	}
	return &m.bank(b)[reg-b.Start()], nil
}

// Reg returns the raw value of register reg.
func (m *Mirror) Reg(reg uint8) (byte, error) {
	p, err := m.slot(reg)
	if err != nil {
		return 0, err
	}
	return *p, nil
}

// SetReg sets the raw value of register reg.
func (m *Mirror) SetReg(reg uint8, v byte) error {
	p, err := m.slot(reg)
	if err != nil {
		return err
	}
	*p = v
	return nil
}

// Get returns the value of field f. Boolean fields read as 0 or 1.
func (m *Mirror) Get(f Field) (uint8, error) {
	raw, err := m.Reg(f.Reg)
	if err != nil {
		return 0, err
	}
	if f.IsBool() {
		if raw&f.Mask != 0 {
			return 1, nil
		}
		return 0, nil
	}
	return (raw & f.Mask) >> uint8(f.Offset), nil
}

// Set sets field f to v leaving the other bits of the register untouched.
// Any non zero v sets a boolean field. Values wider than the field are
// truncated.
func (m *Mirror) Set(f Field, v uint8) error {
	p, err := m.slot(f.Reg)
	if err != nil {
		return err
	}
	if f.IsBool() {
		if v != 0 {
			*p |= f.Mask
		} else {
			*p &= ^f.Mask
		}
		return nil
	}
	*p = (*p & ^f.Mask) | ((v << uint8(f.Offset)) & f.Mask)
	return nil
}

// Bit returns true if boolean field f is set.
func (m *Mirror) Bit(f Field) (bool, error) {
	v, err := m.Get(f)
	return v != 0, err
}

// Snapshot is a copy of a set of registers taken by Save.
type Snapshot struct {
	regs [maxBankSize]uint8
	vals [maxBankSize]byte
	n    int
}

// Save copies the current value of the given registers.
func (m *Mirror) Save(regs ...uint8) (Snapshot, error) {
	var s Snapshot
	if len(regs) > len(s.regs) {
		return s, ErrInvalidRegister
	}
	for _, r := range regs {
		v, err := m.Reg(r)
		if err != nil {
			return Snapshot{}, err
		}
		s.regs[s.n] = r
		s.vals[s.n] = v
		s.n++
	}
	return s, nil
}

// Restore puts back the values copied by Save.
func (m *Mirror) Restore(s Snapshot) {
	for i := 0; i < s.n; i++ {
		_ = m.SetReg(s.regs[i], s.vals[i]) // registers were validated by Save
	}
}

// fieldSetter applies a sequence of field writes to a mirror and keeps the
// first error.
type fieldSetter struct {
	m   *Mirror
	err error
}

func (s *fieldSetter) set(f Field, v uint8) {
	if s.err == nil {
		s.err = s.m.Set(f, v)
	}
}

func (s *fieldSetter) flag(f Field, b bool) {
	var v uint8
	if b {
		v = 1
	}
	s.set(f, v)
}

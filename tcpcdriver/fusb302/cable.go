package fusb302

import (
	"errors"

	"github.com/oxplot/go-typec-host"
	"github.com/oxplot/go-typec-host/pdmsg"
)

// ErrInvalidOrientation is returned when an operation needs to know the
// active CC pin and is given OrientationUnknown.
var ErrInvalidOrientation = errors.New("fusb302: invalid CC orientation")

// DiscoverCableIdentity sends a Discover Identity request to the cable plug
// over SOP' and waits for its answer, polling as set by the response retry
// policy of the host config.
//
// With checkOnly, any SOP' packet received counts as an answer and the
// identity is not read; this is used as a liveness ping of the emarker.
// Otherwise the first Discover Identity ACK found in the RX FIFO is parsed
// and returned.
//
// present is false when no answer arrived in time, which is the normal
// outcome for cables without an emarker. A non nil error means a bus
// transaction failed and says nothing about the cable.
func (f *FUSB302) DiscoverCableIdentity(o typec.Orientation, checkOnly bool) (present bool, id *pdmsg.Identity, err error) {
	if o != typec.OrientationCC1 && o != typec.OrientationCC2 {
		return false, nil, ErrInvalidOrientation
	}

	if err := f.pulse(TxFlush); err != nil {
		return false, nil, err
	}
	if err := f.pulse(RxFlush); err != nil {
		return false, nil, err
	}
	if err := f.ReadRegister(RegInterrupt); err != nil {
		return false, nil, err
	}

	n, err := EncodePacket(f.tx[:], pdmsg.SOPPrime, pdmsg.NewDiscoverIdentity())
	if err != nil {
		return false, nil, err
	}
	if err := f.WriteFIFO(f.tx[:n]); err != nil {
		return false, nil, err
	}

	policy := f.host.config.Response
	if policy.IsZero() {
		policy = DefaultHostConfig().Response
	}

	for attempt := 0; attempt < policy.Attempts; attempt++ {
		f.delay.Delay(policy.Delay(attempt))

		if err := f.ReadRegister(RegInterrupt); err != nil {
			return false, nil, err
		}
		if crc, _ := f.regs.Bit(ICRCChk); !crc {
			continue
		}
		if err := f.ReadRegister(RegStatus1); err != nil {
			return false, nil, err
		}
		if empty, _ := f.regs.Bit(RxEmpty); empty {
			continue
		}

		if checkOnly {
			sop1, _ := f.regs.Bit(RxSOP1)
			if err := f.pulse(RxFlush); err != nil {
				return false, nil, err
			}
			if sop1 {
				return true, nil, nil
			}
			continue
		}

		rx, err := f.drainRx()
		if err != nil {
			return false, nil, err
		}
		s := NewPacketScanner(rx)
		for s.Scan() {
			p := s.Packet()
			f.log.Printf("fusb302: packet received %s at %d, %d bytes", p.SOP, p.Start, p.Len)
			if p.SOP != pdmsg.SOPPrime {
				continue
			}
			ident, err := pdmsg.ParseDiscoverIdentityAck(p.Msg)
			if err != nil {
				continue
			}
			f.log.Printf("fusb302: cable identity VID=%04X", ident.VendorID)
			return true, &ident, nil
		}
	}

	f.log.Printf("fusb302: no emarker response")
	return false, nil, nil
}

// drainRx reads the RX FIFO one byte at a time until it reports empty or the
// buffer is full.
func (f *FUSB302) drainRx() ([]byte, error) {
	n := 0
	for n < len(f.rx) {
		if err := f.ReadRegister(RegStatus1); err != nil {
			return nil, err
		}
		if empty, _ := f.regs.Bit(RxEmpty); empty {
			break
		}
		if err := f.ReadFIFO(f.rx[n : n+1]); err != nil {
			return nil, err
		}
		n++
	}
	return f.rx[:n], nil
}

package fusb302

import (
	"errors"

	"github.com/oxplot/go-typec-host"
	"github.com/oxplot/go-typec-host/pdmsg"
	"github.com/oxplot/go-typec-host/tcpcdriver"
)

// ErrInvalidHostCurrent is returned when setting up with a host current the
// chip cannot advertise.
var ErrInvalidHostCurrent = errors.New("fusb302: invalid host current")

var _ typec.HostPort = (*FUSB302)(nil)

// HostConfig configures host port monitoring.
type HostConfig struct {
	// Current advertised on CC by the host pull-ups.
	Current typec.HostCurrent

	// Response bounds the wait for a cable plug to answer. The zero value
	// selects tcpcdriver.DefaultResponsePolicy.
	Response tcpcdriver.RetryPolicy
}

// DefaultHostConfig returns a config advertising default USB power.
func DefaultHostConfig() HostConfig {
	return HostConfig{
		Current:  typec.HostCurrent500mA,
		Response: tcpcdriver.DefaultResponsePolicy,
	}
}

// hostCurrentMode holds the register values and the BC_LVL bins expected
// for each termination at a given host current.
type hostCurrentMode struct {
	hostCur uint8
	mdac    uint8
	rd      uint8
	ra      uint8 // bit set, one bit per accepted bin
}

func (m hostCurrentMode) isRa(bin uint8) bool {
	return m.ra&(1<<bin) != 0
}

var hostCurrentModes = [...]hostCurrentMode{
	typec.HostCurrent500mA: {hostCurDefUSB, mdac1V596, bcLvl200To660mV, 1 << bcLvl0To200mV},
	// Ra reads close to the bin boundary at 1.5A and lands in either bin.
	typec.HostCurrent1A5: {hostCur1A5, mdac1V596, bcLvl660To1230mV, 1<<bcLvl0To200mV | 1<<bcLvl200To660mV},
	typec.HostCurrent3A:  {hostCur3A, mdac2V604, bcLvlAbove1230mV, 1 << bcLvl200To660mV},
}

func lookupHostCurrent(c typec.HostCurrent) (hostCurrentMode, error) {
	if int(c) >= len(hostCurrentModes) {
		return hostCurrentMode{}, ErrInvalidHostCurrent
	}
	return hostCurrentModes[c], nil
}

// Classify returns the state and orientation implied by the BC_LVL bins
// measured on CC1 and CC2 while advertising current c. Readings that match
// no known termination yield StateUnknown and OrientationUnknown.
func Classify(c typec.HostCurrent, cc1, cc2 uint8) (typec.State, typec.Orientation) {
	m, err := lookupHostCurrent(c)
	if err != nil {
		return typec.StateUnknown, typec.OrientationUnknown
	}
	const open = bcLvlOpen
	switch {
	case cc1 == m.rd && cc2 == open:
		return typec.StateAttachedDevice, typec.OrientationCC1
	case cc2 == m.rd && cc1 == open:
		return typec.StateAttachedDevice, typec.OrientationCC2
	case cc1 == m.rd && m.isRa(cc2):
		return typec.StateAttachedCableDevice, typec.OrientationCC1
	case cc2 == m.rd && m.isRa(cc1):
		return typec.StateAttachedCableDevice, typec.OrientationCC2
	case cc1 == open && m.isRa(cc2):
		return typec.StateAttachedCable, typec.OrientationCC2
	case cc2 == open && m.isRa(cc1):
		return typec.StateAttachedCable, typec.OrientationCC1
	default:
		return typec.StateUnknown, typec.OrientationUnknown
	}
}

type hostState struct {
	ready  bool
	resync bool
	config HostConfig

	state       typec.State
	orientation typec.Orientation
	emarker     bool
	identity    pdmsg.Identity
	hasIdentity bool
}

// SetupHostMonitoring resets the chip and programs it as a source port
// advertising c.Current, with SOP' reception, automatic GoodCRC and
// retries enabled. The port starts in StateInit and is evaluated by the
// next Update.
func (f *FUSB302) SetupHostMonitoring(c HostConfig) error {
	mode, err := lookupHostCurrent(c.Current)
	if err != nil {
		return err
	}
	if c.Response.IsZero() {
		c.Response = tcpcdriver.DefaultResponsePolicy
	}
	f.host.ready = false

	if err := f.Reset(); err != nil {
		return err
	}
	f.delay.Delay(resetSettle)
	if err := f.ReadBank(BankControl); err != nil {
		return err
	}

	s := fieldSetter{m: &f.regs}

	// Pull-ups on both CC, measure CC1
	s.flag(PUEn1, true)
	s.flag(PUEn2, true)
	s.flag(MeasCC1, true)
	s.flag(MeasCC2, false)
	s.flag(PDWN1, false)
	s.flag(PDWN2, false)

	// Roles used in GoodCRC replies
	s.flag(PowerRole, true)
	s.flag(DataRole, true)
	s.flag(AutoCRC, true)

	s.flag(MeasVBus, false)
	s.set(MDAC, mode.mdac)
	s.flag(IntMask, false)
	s.set(HostCur, mode.hostCur)
	s.flag(EnSOP1, true)
	s.flag(AutoRetry, true)
	s.set(NRetries, nRetries3)

	s.set(MaskAll, ^uint8(maskCompChng|maskBCLvl|maskCRCChk))
	s.set(MaskAAll, 0xFF)
	s.flag(MGCRCSent, true)

	s.flag(PwrMeasBlock, true)
	s.flag(PwrRecvCur, true)
	s.flag(PwrBandgapWake, true)
	s.flag(PwrIntOsc, true)
	if s.err != nil {
		return s.err
	}

	if err := f.WriteBank(BankControl); err != nil {
		return err
	}

	f.host = hostState{
		ready:       true,
		config:      c,
		state:       typec.StateInit,
		orientation: typec.OrientationUnknown,
	}
	f.log.Printf("fusb302: host monitoring started at %s", c.Current)
	return nil
}

// Status returns the state resulting from the last successful Update.
func (f *FUSB302) Status() typec.Status {
	h := &f.host
	s := typec.Status{
		State:          h.state,
		Current:        h.config.Current,
		Orientation:    h.orientation,
		Cable:          typec.CableTypeOf(h.state),
		EmarkerPresent: h.emarker,
	}
	if h.hasIdentity {
		id := h.identity
		s.Identity = &id
	}
	return s
}

// Update reads the interrupt and comparator status, classifies the CC lines
// when something was attached, pings the emarker of active cables and
// reconfigures the chip on state change. It returns the events of the
// transition.
//
// On error the state is left as it was and the next call re-reads the
// comparator and re-applies the switch setup of the current state.
func (f *FUSB302) Update() (typec.Event, error) {
	if !f.host.ready {
		return typec.EventNone, typec.ErrNotSetup
	}
	ev, err := f.update()
	if err != nil {
		f.host.resync = true
		return typec.EventNone, err
	}
	return ev, nil
}

func (f *FUSB302) update() (typec.Event, error) {
	h := &f.host
	prev := h.state
	prevActiveCable := prev.ActiveCable()
	resync := h.resync

	if resync {
		if err := f.configureState(prev, h.orientation); err != nil {
			return typec.EventNone, err
		}
	}

	if err := f.ReadRegister(RegInterrupt); err != nil {
		return typec.EventNone, err
	}

	state, orientation := prev, h.orientation
	emarker := h.emarker

	compChng, _ := f.regs.Bit(ICompChng)
	bcLvl, _ := f.regs.Bit(IBCLvl)
	if compChng || bcLvl || prev == typec.StateInit || resync {
		if err := f.ReadRegister(RegStatus0); err != nil {
			return typec.EventNone, err
		}
		if comp, _ := f.regs.Bit(Comp); comp {
			// CC above the MDAC reference: nothing pulls it down.
			if prevActiveCable {
				state = typec.StateAttachedCable
			} else {
				state, orientation = typec.StateDetached, typec.OrientationUnknown
			}
		} else if prevActiveCable {
			state = typec.StateAttachedCableDevice
		} else {
			var err error
			if state, orientation, err = f.discoverAttachment(); err != nil {
				return typec.EventNone, err
			}
		}
	}

	if prevActiveCable {
		present, _, err := f.DiscoverCableIdentity(h.orientation, true)
		if err != nil {
			return typec.EventNone, err
		}
		emarker = present
		if !present {
			state, orientation = typec.StateDetached, typec.OrientationUnknown
			f.log.Printf("fusb302: emarker not present, active cable detached")
		}
	}

	var (
		identity    pdmsg.Identity
		hasIdentity = h.hasIdentity && state.ActiveCable()
		ev          typec.Event
	)
	if hasIdentity {
		identity = h.identity
	}

	if state != prev {
		f.log.Printf("fusb302: state %s -> %s (CC=%s)", prev, state, orientation)
		if err := f.configureState(state, orientation); err != nil {
			return typec.EventNone, err
		}
		if state.ActiveCable() {
			present, id, err := f.DiscoverCableIdentity(orientation, false)
			if err != nil {
				return typec.EventNone, err
			}
			emarker = present
			if id != nil {
				identity, hasIdentity = *id, true
				ev.Add(typec.EventIdentity)
			}
		}
		ev.Add(transitionEvents(prev, state))
	}
	if !state.ActiveCable() {
		emarker = false
	}

	h.state, h.orientation = state, orientation
	h.emarker = emarker
	h.identity, h.hasIdentity = identity, hasIdentity
	h.resync = false
	return ev, nil
}

// transitionEvents returns the events describing a change from prev to next.
func transitionEvents(prev, next typec.State) typec.Event {
	var ev typec.Event
	switch next {
	case typec.StateDetached:
		ev.Add(typec.EventDetached)
		return ev
	case typec.StateUnknown:
		ev.Add(typec.EventUnknown)
	}
	if prev.DeviceAttached() && !next.DeviceAttached() {
		ev.Add(typec.EventDeviceDetached)
	}
	if prev.ActiveCable() && !next.ActiveCable() {
		ev.Add(typec.EventCableDetached)
	}
	if !prev.DeviceAttached() && next.DeviceAttached() {
		ev.Add(typec.EventDeviceAttached)
	}
	if !prev.ActiveCable() && next.ActiveCable() {
		ev.Add(typec.EventCableAttached)
	}
	return ev
}

// setSwitches sets the SWITCHES0 and SWITCHES1 fields in the mirror. Pull-up
// and measurement go to the given pins. VCONN and the BMC transmitter go to
// vconn and tx when they are not OrientationUnknown.
func (f *FUSB302) setSwitches(pu1, pu2, meas1, meas2 bool, vconn, tx typec.Orientation) error {
	s := fieldSetter{m: &f.regs}
	s.flag(PUEn1, pu1)
	s.flag(PUEn2, pu2)
	s.flag(VConnCC1, vconn == typec.OrientationCC1)
	s.flag(VConnCC2, vconn == typec.OrientationCC2)
	s.flag(MeasCC1, meas1)
	s.flag(MeasCC2, meas2)
	s.flag(PDWN1, false)
	s.flag(PDWN2, false)
	s.flag(TxCC1, tx == typec.OrientationCC1)
	s.flag(TxCC2, tx == typec.OrientationCC2)
	return s.err
}

// configureState sets up the switches for state and clears the latched
// interrupts.
func (f *FUSB302) configureState(state typec.State, o typec.Orientation) error {
	settle := measureSettle
	switch state {
	case typec.StateAttachedDevice, typec.StateAttachedCable, typec.StateAttachedCableDevice:
		if o != typec.OrientationCC1 && o != typec.OrientationCC2 {
			return ErrInvalidOrientation
		}
		cc1 := o == typec.OrientationCC1
		vconn, tx := typec.OrientationUnknown, typec.OrientationUnknown
		if state.ActiveCable() {
			vconn, tx = o.Other(), o
			settle = vconnSettle
		}
		if err := f.setSwitches(cc1, !cc1, cc1, !cc1, vconn, tx); err != nil {
			return err
		}
	default:
		// Pull-ups are connected internally, both CC are watched through CC1.
		if err := f.setSwitches(true, true, true, false, typec.OrientationUnknown, typec.OrientationUnknown); err != nil {
			return err
		}
	}
	if err := f.WriteRange(RegSwitches0, 2); err != nil {
		return err
	}
	f.delay.Delay(settle)
	return f.ReadRegister(RegInterrupt)
}

// discoverAttachment measures CC1 then CC2 with the pull-up only on the
// measured pin and classifies the readings. The switch setup in place before
// the measurement is restored.
func (f *FUSB302) discoverAttachment() (typec.State, typec.Orientation, error) {
	saved, err := f.regs.Save(RegSwitches0, RegSwitches1)
	if err != nil {
		return 0, 0, err
	}

	u := typec.OrientationUnknown
	if err := f.setSwitches(true, false, true, false, u, u); err != nil {
		return 0, 0, err
	}
	if err := f.WriteRange(RegSwitches0, 2); err != nil {
		return 0, 0, err
	}
	cc1, err := f.measure()
	if err != nil {
		return 0, 0, err
	}

	if err := f.setSwitches(false, true, false, true, u, u); err != nil {
		return 0, 0, err
	}
	if err := f.WriteRegister(RegSwitches0); err != nil {
		return 0, 0, err
	}
	cc2, err := f.measure()
	if err != nil {
		return 0, 0, err
	}

	state, o := Classify(f.host.config.Current, cc1, cc2)
	f.log.Printf("fusb302: CC=%s state=%s (bc_lvl cc1=%d cc2=%d)", o, state, cc1, cc2)

	f.regs.Restore(saved)
	if err := f.WriteRange(RegSwitches0, 2); err != nil {
		return 0, 0, err
	}
	if err := f.ReadRegister(RegInterrupt); err != nil {
		return 0, 0, err
	}
	return state, o, nil
}

// measure waits for the comparator to settle and returns the BC_LVL bin of
// the measured CC pin.
func (f *FUSB302) measure() (uint8, error) {
	f.delay.Delay(measureSettle)
	if err := f.ReadRegister(RegStatus0); err != nil {
		return 0, err
	}
	return f.regs.Get(BCLvl)
}

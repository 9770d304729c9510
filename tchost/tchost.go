// Package tchost runs the monitoring loop of a USB Type-C host port. It polls
// the port at a fixed interval, or sooner when poked from an interrupt line,
// and delivers the resulting events to a handler.
package tchost

import (
	"context"
	"sync"
	"time"

	"github.com/jpillora/backoff"
	"github.com/oxplot/go-typec-host"
)

// DefaultInterval is the polling interval used when none is given.
const DefaultInterval = 100 * time.Millisecond

// maxErrorBackoff bounds how far polling slows down while updates keep
// failing, as a multiple of the interval.
const maxErrorBackoff = 16

// EventHandler is an interface that wraps the method HandleEvent.
type EventHandler interface {
	// HandleEvent is called once per event, highest priority first, with the
	// port status after the update that raised it.
	HandleEvent(typec.Event, typec.Status)
}

// EventHandlerFunc is an adapter to allow the use of ordinary functions as
// EventHandler.
type EventHandlerFunc func(typec.Event, typec.Status)

// HandleEvent implements EventHandler interface.
func (f EventHandlerFunc) HandleEvent(e typec.Event, s typec.Status) {
	f(e, s)
}

// ErrorHandler is an interface that wraps the method HandleError.
type ErrorHandler interface {
	// HandleError is called with the error of each failed update. The
	// monitor keeps polling after it returns.
	HandleError(error)
}

// ErrorHandlerFunc is an adapter to allow the use of ordinary functions as
// ErrorHandler.
type ErrorHandlerFunc func(error)

// HandleError implements ErrorHandler interface.
func (f ErrorHandlerFunc) HandleError(err error) {
	f(err)
}

// Monitor polls a host port and keeps its latest status.
type Monitor struct {
	port     typec.HostPort
	interval time.Duration
	poke     chan struct{}
	errWait  backoff.Backoff

	mu     sync.Mutex
	status typec.Status

	callbacks struct {
		mu           sync.Mutex
		eventHandler EventHandler
		errorHandler ErrorHandler
	}
}

// New creates a monitor for a port that is already set up. A non positive
// interval selects DefaultInterval.
func New(port typec.HostPort, interval time.Duration) *Monitor {
	if interval <= 0 {
		interval = DefaultInterval
	}
	return &Monitor{
		port:     port,
		interval: interval,
		poke:     make(chan struct{}, 1),
		errWait: backoff.Backoff{
			Min:    interval,
			Max:    maxErrorBackoff * interval,
			Factor: 2,
		},
		status: port.Status(),
	}
}

// SetEventHandler sets the event handler to send events to. Pass nil to remove
// the existing handler.
func (m *Monitor) SetEventHandler(h EventHandler) {
	m.callbacks.mu.Lock()
	m.callbacks.eventHandler = h
	m.callbacks.mu.Unlock()
}

// SetErrorHandler sets the handler of update errors. Pass nil to ignore
// errors.
func (m *Monitor) SetErrorHandler(h ErrorHandler) {
	m.callbacks.mu.Lock()
	m.callbacks.errorHandler = h
	m.callbacks.mu.Unlock()
}

// Status returns the port status after the last successful update.
// Status may be called concurrently from multiple goroutines.
func (m *Monitor) Status() typec.Status {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.status
}

// Poke makes the running loop update the port now instead of at the next
// tick. It never blocks and may be called from an interrupt handler
// goroutine.
func (m *Monitor) Poke() {
	select {
	case m.poke <- struct{}{}:
	default:
	}
}

// Run updates the port immediately and then on every tick or poke until ctx
// is done. After a failed update the next one is delayed with an exponential
// backoff. Only one call to Run must be in progress at any given time.
func (m *Monitor) Run(ctx context.Context) {
	t := time.NewTimer(0)
	defer t.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-t.C:
		case <-m.poke:
			if !t.Stop() {
				select {
				case <-t.C:
				default:
				}
			}
		}

		wait := m.interval
		if err := m.Step(); err != nil {
			wait = m.errWait.Duration()
		} else {
			m.errWait.Reset()
		}
		t.Reset(wait)
	}
}

// Step runs a single update, records the new status and delivers its events.
// It must not be called while Run is in progress.
func (m *Monitor) Step() error {
	ev, err := m.port.Update()
	if err != nil {
		m.notifyError(err)
		return err
	}
	s := m.port.Status()
	m.mu.Lock()
	m.status = s
	m.mu.Unlock()

	for ev != typec.EventNone {
		m.notifyEvent(ev.Pop(), s)
	}
	return nil
}

func (m *Monitor) notifyEvent(e typec.Event, s typec.Status) {
	m.callbacks.mu.Lock()
	defer m.callbacks.mu.Unlock()
	if m.callbacks.eventHandler != nil {
		m.callbacks.eventHandler.HandleEvent(e, s)
	}
}

func (m *Monitor) notifyError(err error) {
	m.callbacks.mu.Lock()
	defer m.callbacks.mu.Unlock()
	if m.callbacks.errorHandler != nil {
		m.callbacks.errorHandler.HandleError(err)
	}
}

// Package tcpcdriver defines interfaces and helper functions for implementing
// USB Type-C port controller drivers.
package tcpcdriver

import (
	"time"

	"github.com/jpillora/backoff"
	"tinygo.org/x/drivers"
)

// I2C is the minimum interface to I2C hardware with a single Tx method which
// allows a single driver implementation to work across many different
// µControllers and host platforms. It is implemented by TinyGo's machine.I2C
// and by periph.io buses.
//
// Tx performs a write and then a read transfer placing the result in r.
// Passing a nil value for w or r skips the corresponding transfer. Bounding
// the duration of a transfer is the responsibility of the bus.
type I2C = drivers.I2C

// Delayer blocks the caller for a short, fixed duration. Drivers use it for
// settling times between register writes and measurements.
type Delayer interface {
	Delay(time.Duration)
}

// DelayFunc is an adapter to allow the use of ordinary functions as Delayer.
type DelayFunc func(time.Duration)

// Delay implements Delayer interface.
func (f DelayFunc) Delay(d time.Duration) {
	f(d)
}

// Sleep is a Delayer backed by time.Sleep.
var Sleep Delayer = DelayFunc(time.Sleep)

// Logger is a best-effort sink for diagnostic messages. *log.Logger
// implements it.
type Logger interface {
	Printf(format string, args ...any)
}

// LoggerFunc is an adapter to allow the use of ordinary functions as Logger.
type LoggerFunc func(format string, args ...any)

// Printf implements Logger interface.
func (f LoggerFunc) Printf(format string, args ...any) {
	f(format, args...)
}

// Discard is a Logger that drops everything.
var Discard Logger = LoggerFunc(func(string, ...any) {})

// RetryPolicy bounds a polling loop: at most Attempts polls, each preceded by
// a delay starting at Interval. When MaxInterval is larger than Interval, the
// delay grows by Factor per attempt up to MaxInterval.
type RetryPolicy struct {
	Attempts    int
	Interval    time.Duration
	MaxInterval time.Duration
	Factor      float64
}

// DefaultResponsePolicy polls every 500µs for 10ms, which covers the worst
// case tReceive window of a cable plug answering a request.
var DefaultResponsePolicy = RetryPolicy{
	Attempts: 20,
	Interval: 500 * time.Microsecond,
}

// Delay returns the time to wait before the given attempt, counting from 0.
func (p RetryPolicy) Delay(attempt int) time.Duration {
	if p.Interval <= 0 {
		return 0
	}
	max := p.MaxInterval
	if max < p.Interval {
		max = p.Interval
	}
	b := backoff.Backoff{
		Min:    p.Interval,
		Max:    max,
		Factor: p.Factor,
	}
	return b.ForAttempt(float64(attempt))
}

// Total returns the longest time a loop following p can wait.
func (p RetryPolicy) Total() time.Duration {
	var t time.Duration
	for i := 0; i < p.Attempts; i++ {
		t += p.Delay(i)
	}
	return t
}

// IsZero returns true if p is the zero value.
func (p RetryPolicy) IsZero() bool {
	return p == RetryPolicy{}
}

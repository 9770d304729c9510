package tchost

import (
	"fmt"
	"io"

	"github.com/oxplot/go-typec-host"
)

// Logger is a passthrough event handler that writes a textual description of
// each event and the port status to a given io.Writer. It's mostly used for
// debugging purposes.
type Logger struct {
	w    io.Writer
	sep  string
	next EventHandler
}

// NewLogger creates a new logger which will write to the given writer and
// optionally passes the events on to next. Line separator is written to the
// writer after each line of output. Some common values are "\n", "\r",
// "\r\n".
func NewLogger(w io.Writer, lineSep string, next EventHandler) *Logger {
	return &Logger{
		w:    w,
		sep:  lineSep,
		next: next,
	}
}

// HandleEvent writes out the event and status and passes them down to the
// next handler.
func (l *Logger) HandleEvent(e typec.Event, s typec.Status) {
	fmt.Fprintf(l.w, "%s: state=%s cc=%s cable=%s current=%s%s", e, s.State, s.Orientation, s.Cable, s.Current, l.sep)
	if e == typec.EventIdentity && s.Identity != nil {
		id := s.Identity
		fmt.Fprintf(l.w, "  VID=%04X PID=%04X bcdDevice=%04X", id.VendorID, id.Product.ProductID(), id.Product.BCDDevice())
		if c, ok := id.Cable(); ok {
			fmt.Fprintf(l.w, " HW=%d FW=%d VBUS=%.1fA", c.HardwareVersion(), c.FirmwareVersion(), float32(c.MaxVBUSCurrent())/1000)
		}
		fmt.Fprint(l.w, l.sep)
	}
	if l.next != nil {
		l.next.HandleEvent(e, s)
	}
}

package dbg

import (
	"strconv"
	"strings"
	"time"
)

/*
A Debugger is the producer of debug lines for one namespace. It is bound to
the Registry it was created by (rules, sink, palette and clock) and decides
once, at creation, whether it is enabled.

Each enabled Log writes exactly one line to the sink:

	<namespace> <formatted message> +<elapsed>ms

where namespace and elapsed time are rendered in the namespace color and
elapsed is the time since the previous completed Log (0 for the first one).
*/

func newDebugger(r *Registry, namespace string) *Debugger {
	return &Debugger{
		registry:  r,
		namespace: namespace,
		color:     r.palette.For(namespace),
		enabled:   matchAny(r.rules, namespace),
	}
}

// Log formats the message and writes it to the registry sink. A disabled (or
// nil) debugger does nothing.
func (d *Debugger) Log(format string, args ...any) {
	if d == nil || !d.enabled {
		return
	}
	var diff int64
	if last := d.last.Load(); last != 0 {
		diff = max(d.registry.now().UnixNano()-last, 0) / int64(time.Millisecond)
	}
	msg := Format(format, args...)
	d.registry.sink.WriteDebug(d.color(d.namespace) + " " + msg + " " + d.color("+"+strconv.FormatInt(diff, 10)+"ms"))
	d.last.Store(d.registry.now().UnixNano())
}

// Namespace returns the namespace the debugger was created for.
func (d *Debugger) Namespace() string { return d.namespace }

// Enabled reports whether Log writes anything. It never changes.
func (d *Debugger) Enabled() bool { return d.enabled }

// Registry returns the registry the debugger was created by.
func (d *Debugger) Registry() *Registry { return d.registry }

// Color returns the color assigned to the namespace.
func (d *Debugger) Color() ColorFunc { return d.color }

// LastLog returns the time of the last completed Log (zero before the first).
func (d *Debugger) LastLog() time.Time {
	if last := d.last.Load(); last != 0 {
		return time.Unix(0, last)
	}
	return time.Time{}
}

/////////////////////////////////////////////////////////////////////////////////////////

// Log is the log operation of the handle (see Debugger.Log).
func (d Debug) Log(format string, args ...any) {
	d.self.Log(format, args...)
}

// Self returns the underlying Debugger.
func (d Debug) Self() *Debugger {
	return d.self
}

// Write implements io.Writer: p (without its trailing newline) is logged as
// the message, verbatim. It always reports len(p) written so the handle can
// back a log.Logger or be used with fmt.Fprintf:
//
//	fmt.Fprintf(dbg.New("app.db"), "pool size %d", n)
func (d Debug) Write(p []byte) (n int, err error) {
	if p == nil {
		return 0, nil
	}
	d.self.Log("%s", strings.TrimSuffix(string(p), "\n"))
	return len(p), nil
}

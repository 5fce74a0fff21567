package dbg

/*********************************************************************************
Synchronous sinks.

WriterSink writes every debug line, newline terminated, to an io.Writer. The
caller of Log never sees a failure: write errors and panics raised by the
writer are reported to the fallback writer instead. The line is assembled in a
single buffer and written with one Write call so lines from concurrent
debuggers do not interleave on writers that are safe for concurrent use.

SinkFunc adapts a plain function (e.g. a test spy) to the Sink interface.
*/

import (
	"errors"
	"io"
	"strconv"
	"sync"
)

// WriterSink writes debug lines to an io.Writer.
type WriterSink struct {
	out     OutType
	fallbck OutType
	fbckMtx sync.Mutex // serializes fallback writes
}

// NewWriterSink creates a sink writing to out. Failures are reported to
// fallback; nil fallback silently drops them (io.Discard).
func NewWriterSink(out, fallback OutType) *WriterSink {
	if fallback == nil {
		fallback = io.Discard
	}
	if out == nil {
		out = io.Discard
	}
	return &WriterSink{out: out, fallbck: fallback}
}

// WriteDebug implements Sink.
func (s *WriterSink) WriteDebug(line string) {
	if _, err := writeLine(s.out, line); err != nil {
		s.fbckMtx.Lock()
		defer s.fbckMtx.Unlock()
		s.fallbck.Write([]byte(err.Error() + "\n"))
	}
}

// Output returns the writer lines are sent to.
func (s *WriterSink) Output() OutType { return s.out }

// writeLine writes line+"\n" to output with a single Write. The deferred
// recover sets panicked and converts the panic into an error.
func writeLine(output OutType, line string) (panicked bool, err error) {
	defer func() {
		if r := recover(); r != nil {
			panicked = true
			err = errors.New("panic writing debug line to output" + panicDesc(r))
		}
	}()
	buf := make([]byte, 0, len(line)+1)
	buf = append(buf, line...)
	buf = append(buf, '\n')
	n, e := output.Write(buf)
	if e != nil {
		err = errors.New("error writing debug line to output (" + strconv.Itoa(n) + " bytes written): " + e.Error())
	}
	return
}

// SinkFunc adapts a function to the Sink interface.
type SinkFunc func(line string)

// WriteDebug implements Sink.
func (f SinkFunc) WriteDebug(line string) {
	f(line)
}

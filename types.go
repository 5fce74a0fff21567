package dbg

/*
Defines the core data types of the package:
  - Rule: one compiled enablement pattern
  - Registry: the state shared by a family of debuggers (rules, sink, palette)
  - Debugger: a namespace-bound producer of debug lines
  - Debug: the handle returned by New (log operation + underlying Debugger)
  - Sink: the narrow output interface every debug line goes through
  - queue types used by QueueSink
*/

import (
	"io"
	"sync"
	"sync/atomic"
	"time"

	"github.com/dlclark/regexp2"
)

type basetype byte // basetype is the underlying byte-sized representation used for enums

type sinkState basetype

type OutType io.Writer // Sink outputs (alias for io.Writer)

// outList maps output writers to their per-output context.
type outList map[OutType]*outContext

// ColorFunc renders a piece of text in a single color.
type ColorFunc func(s string) string

// Palette is the fixed ordered set of colors namespaces are assigned to.
type Palette []ColorFunc

// Rule is one enablement rule compiled from a single comma-separated token of
// the configuration string. A nil expression never matches.
type Rule struct {
	source string          // token after whitespace removal and '*' expansion
	expr   string          // anchored regular expression
	re     *regexp2.Regexp // compiled expression, nil if compilation failed
}

// Sink receives fully rendered debug lines, one call per enabled Log.
type Sink interface {
	WriteDebug(line string)
}

// Registry holds the compiled enablement rules and the debuggers created
// against them. Rules are fixed at construction: a new configuration means a
// new Registry.
type Registry struct {
	rules     []*Rule
	debuggers map[string]*Debugger // latest debugger per namespace
	dbgMtx    sync.RWMutex         // guards debuggers
	sink      Sink
	palette   Palette
	now       func() time.Time
}

// Debugger is a namespace-bound producer of debug lines. Its enabled flag is
// computed once from the registry rules and never changes afterwards.
type Debugger struct {
	registry  *Registry
	namespace string
	color     ColorFunc
	last      atomic.Int64 // unix nanoseconds of the last completed Log, 0 before the first one
	enabled   bool
}

// Debug is the handle returned by New. Log is the log operation itself (its
// method value can be passed around as a plain function) and Self exposes the
// underlying Debugger.
type Debug struct {
	self *Debugger
}

// outContext holds per-output settings of a QueueSink.
type outContext struct {
	enabled bool // false once the output panicked
}

// QueueSink hands debug lines to a background goroutine that writes them to
// every enabled output in arrival order.
type QueueSink struct {
	sync struct {
		statMtx sync.RWMutex   // guards state and channel checks
		fbckMtx sync.RWMutex   // guards access to fallback writer
		outsMtx sync.RWMutex   // guards outputs map
		waitEnd sync.WaitGroup // tracks background goroutine lifecycle
	}
	outputs outList // map of outputs and per-output contexts
	fallbck OutType // fallback writer used to report internal errors
	channel chan string
	state   sinkState
}

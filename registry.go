// Namespace-scoped debug logging. Every namespace gets its own Debugger which
// is enabled or suppressed once, at creation, by the patterns of its Registry
// (read from the DEBUG environment variable by default), and which renders its
// lines with a per-namespace color and the time elapsed since its previous line.
//
// Preferred usage example:
//
//	var log = dbg.New("app.db").Log
//
//	func open() {
//	    log("opening %s (pool %d)", dsn, size) // "app.db opening ... +0ms"
//	}
package dbg

import (
	"os"
	"slices"
	"sync"
	"time"
)

// Option customizes a Registry built by NewRegistry.
type Option func(*Registry)

// WithRules sets already compiled enablement rules.
func WithRules(rules ...*Rule) Option {
	return func(r *Registry) { r.rules = slices.Clone(rules) }
}

// WithPattern compiles a configuration string like "app.*,worker".
func WithPattern(config string) Option {
	return func(r *Registry) { r.rules = Compile(config) }
}

// WithSink sets the sink every debugger of the registry writes to. Nil keeps
// the default (stderr).
func WithSink(sink Sink) Option {
	return func(r *Registry) {
		if sink != nil {
			r.sink = sink
		}
	}
}

// WithPalette replaces the color palette (PlainPalette disables colors).
func WithPalette(p Palette) Option {
	return func(r *Registry) {
		if len(p) > 0 {
			r.palette = p
		}
	}
}

// WithClock replaces time.Now (used for elapsed time computation).
func WithClock(now func() time.Time) Option {
	return func(r *Registry) {
		if now != nil {
			r.now = now
		}
	}
}

// NewRegistry creates a registry. Without options nothing is enabled, lines go
// to stderr and are colored.
func NewRegistry(opts ...Option) *Registry {
	r := &Registry{
		debuggers: map[string]*Debugger{},
		sink:      NewWriterSink(os.Stderr, nil),
		palette:   ColorPalette,
		now:       time.Now,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// New creates a Debugger for the namespace. A new Debugger is built on every
// call; the registry keeps track of the latest one per namespace.
func (r *Registry) New(namespace string) Debug {
	d := newDebugger(r, namespace)
	r.sync(func() { r.debuggers[namespace] = d })
	return Debug{self: d}
}

// Enabled reports whether a debugger created now for the namespace would be
// enabled.
func (r *Registry) Enabled(namespace string) bool {
	return matchAny(r.rules, namespace)
}

// Rules returns a copy of the enablement rules.
func (r *Registry) Rules() []*Rule {
	return slices.Clone(r.rules)
}

// Lookup returns the latest Debugger created for the namespace.
func (r *Registry) Lookup(namespace string) (*Debugger, bool) {
	r.dbgMtx.RLock()
	defer r.dbgMtx.RUnlock()
	d, ok := r.debuggers[namespace]
	return d, ok
}

// Namespaces returns the sorted namespaces debuggers were created for.
func (r *Registry) Namespaces() []string {
	r.dbgMtx.RLock()
	defer r.dbgMtx.RUnlock()
	names := make([]string, 0, len(r.debuggers))
	for ns := range r.debuggers {
		names = append(names, ns)
	}
	slices.Sort(names)
	return names
}

// Sink returns the sink of the registry.
func (r *Registry) Sink() Sink {
	return r.sink
}

// Close stops a background sink (QueueSink) after its queued lines are
// written. Other sinks are left alone.
func (r *Registry) Close() {
	if s, ok := r.sink.(interface{ StopAndWait() }); ok {
		s.StopAndWait()
	}
}

// sync runs f with the debuggers lock held; the map is created on first use
// so a zero Registry (no rules: every debugger disabled) is usable.
func (r *Registry) sync(f func()) {
	r.dbgMtx.Lock()
	defer r.dbgMtx.Unlock()
	if r.debuggers == nil {
		r.debuggers = map[string]*Debugger{}
	}
	f()
}

/////////////////////////////////////////////////////////////////////////////////////////
/*
The package-wide registry. It is built lazily from the environment by the first
New call, or replaced explicitly by Reset/ResetWithRules (mainly for tests).
Debuggers keep the registry they were created with, so replacing it does not
affect them.
*/

var std struct {
	mtx sync.Mutex
	reg *Registry
}

// Default returns the package-wide registry, creating it from the DEBUG
// environment variable on first use.
func Default() *Registry {
	std.mtx.Lock()
	defer std.mtx.Unlock()
	if std.reg == nil {
		std.reg = NewRegistryFromConfig(ConfigFromEnv())
	}
	return std.reg
}

// New creates a Debugger for the namespace in the package-wide registry.
//
//	log := dbg.New("worker")
//	log.Log("job %s done", id)
func New(namespace string) Debug {
	return Default().New(namespace)
}

// Reset replaces the package-wide registry with one built from config
// without reading the environment. An empty config disables everything.
func Reset(config string, opts ...Option) *Registry {
	return replaceDefault(NewRegistry(append([]Option{WithPattern(config)}, opts...)...))
}

// ResetWithRules is Reset with already compiled rules.
func ResetWithRules(rules []*Rule, opts ...Option) *Registry {
	return replaceDefault(NewRegistry(append([]Option{WithRules(rules...)}, opts...)...))
}

// SetDefault installs r as the package-wide registry (nil drops it so the
// next New reads the environment again).
func SetDefault(r *Registry) {
	replaceDefault(r)
}

func replaceDefault(r *Registry) *Registry {
	std.mtx.Lock()
	defer std.mtx.Unlock()
	std.reg = r
	return r
}

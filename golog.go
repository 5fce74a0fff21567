package dbg

import (
	"github.com/kataras/golog"
)

// GologSink forwards debug lines to a kataras/golog logger at debug level, so
// they share its output, timestamps and level filtering.
type GologSink struct {
	logger *golog.Logger
}

var _ Sink = (*GologSink)(nil)

// NewGologSink wraps an existing golog.Logger. The logger level is left
// untouched: lines are dropped unless it is set to "debug".
func NewGologSink(logger *golog.Logger) *GologSink {
	if logger == nil {
		logger = golog.New()
	}
	return &GologSink{logger: logger}
}

// WriteDebug implements Sink.
func (s *GologSink) WriteDebug(line string) {
	s.logger.Debug(line)
}

// Logger returns the wrapped golog logger.
func (s *GologSink) Logger() *golog.Logger {
	return s.logger
}

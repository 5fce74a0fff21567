package dbg

import (
	"testing"

	"github.com/kataras/golog"
	"github.com/stretchr/testify/assert"
)

func TestGologSink(t *testing.T) {
	t.Run("debug_level", func(t *testing.T) {
		out := &FakeWriter{}
		glogger := golog.New()
		glogger.SetOutput(out)
		glogger.SetLevel("debug")

		r := NewRegistry(WithPattern("app.*"), WithSink(NewGologSink(glogger)), WithPalette(PlainPalette))
		r.New("app.db").Log("connected to %s", "primary")
		r.New("worker").Log("filtered by pattern")

		assert.Contains(t, out.String(), "app.db connected to primary +0ms")
		assert.NotContains(t, out.String(), "filtered by pattern")
	})
	t.Run("info_level_drops", func(t *testing.T) {
		out := &FakeWriter{}
		glogger := golog.New()
		glogger.SetOutput(out)

		s := NewGologSink(glogger)
		s.WriteDebug("dropped")
		assert.Empty(t, out.String())
		assert.Same(t, glogger, s.Logger())
	})
	t.Run("nil_logger", func(t *testing.T) {
		s := NewGologSink(nil)
		assert.NotNil(t, s.Logger())
	})
}

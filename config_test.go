package dbg

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseConfig(t *testing.T) {
	t.Run("full", func(t *testing.T) {
		cfg, err := ParseConfig([]byte(`
env    = "APP_DEBUG"
debug  = "app.*,worker"
color  = "never"
output = "stdout"
queue  = 64
`))
		require.NoError(t, err)
		assert.Equal(t, "APP_DEBUG", cfg.Env)
		require.NotNil(t, cfg.Debug)
		assert.Equal(t, "app.*,worker", *cfg.Debug)
		assert.Equal(t, COLOR_NEVER, cfg.Color)
		assert.Equal(t, OUTPUT_STDOUT, cfg.Output)
		assert.Equal(t, 64, cfg.Queue)
	})
	t.Run("defaults", func(t *testing.T) {
		cfg, err := ParseConfig(nil)
		require.NoError(t, err)
		assert.Equal(t, DefaultConfig(), cfg)
		assert.Nil(t, cfg.Debug)
	})
	t.Run("empty_debug_is_set", func(t *testing.T) {
		t.Setenv(DEFAULT_ENV, "*")
		cfg, err := ParseConfig([]byte(`debug = ""`))
		require.NoError(t, err)
		require.NotNil(t, cfg.Debug)
		assert.Equal(t, "", cfg.Pattern())
	})
	t.Run("syntax_error", func(t *testing.T) {
		_, err := ParseConfig([]byte("color = \"never\"\nqueue = = 3\n"))
		require.Error(t, err)
		assert.Contains(t, err.Error(), "parsing config at line 2")
	})
	t.Run("type_error", func(t *testing.T) {
		_, err := ParseConfig([]byte(`queue = "many"`))
		require.Error(t, err)
		assert.Contains(t, err.Error(), "parsing config")
	})
	tests := []struct {
		name  string // description of this test case
		data  string
		wants string
	}{
		{"bad_color", `color = "sometimes"`, `unknown color mode "sometimes"`},
		{"bad_output", `output = "syslog"`, `unknown output "syslog"`},
		{"negative_queue", `queue = -1`, "negative queue size -1"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseConfig([]byte(tt.data))
			require.Error(t, err)
			assert.Equal(t, tt.wants, err.Error())
		})
	}
}

func TestLoadConfig(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "dbg.toml")
	require.NoError(t, os.WriteFile(path, []byte(`debug = "worker"`), 0o600))

	cfg, err := LoadConfig(path)
	require.NoError(t, err)
	assert.Equal(t, "worker", cfg.Pattern())

	_, err = LoadConfig(filepath.Join(dir, "missing.toml"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "reading config file")
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestConfig_Pattern(t *testing.T) {
	t.Setenv(DEFAULT_ENV, "from-default-env")
	t.Setenv("APP_DEBUG", "from-app-env")

	cfg := DefaultConfig()
	assert.Equal(t, "from-default-env", cfg.Pattern())

	cfg.Env = "APP_DEBUG"
	assert.Equal(t, "from-app-env", cfg.Pattern())

	cfg.Env = ""
	assert.Equal(t, "from-default-env", cfg.Pattern())

	explicit := "explicit"
	cfg.Debug = &explicit
	assert.Equal(t, "explicit", cfg.Pattern())
}

func TestConfig_Validate(t *testing.T) {
	cfg := &Config{}
	require.NoError(t, cfg.Validate())
	assert.Equal(t, DefaultConfig(), cfg)
}

func TestConfig_Palette(t *testing.T) {
	t.Run("always", func(t *testing.T) {
		t.Setenv("NO_COLOR", "1")
		cfg := &Config{Color: COLOR_ALWAYS}
		assert.Equal(t, ColorPalette[0]("x"), cfg.Palette()[0]("x"))
	})
	t.Run("never", func(t *testing.T) {
		cfg := &Config{Color: COLOR_NEVER}
		assert.Equal(t, "x", cfg.Palette()[0]("x"))
	})
	t.Run("auto_no_color", func(t *testing.T) {
		t.Setenv("NO_COLOR", "1")
		cfg := &Config{Color: COLOR_AUTO}
		assert.Equal(t, "x", cfg.Palette()[0]("x"))
	})
	t.Run("auto_not_terminal", func(t *testing.T) {
		assert.False(t, colorEnabled(COLOR_AUTO, &FakeWriter{}))
		assert.False(t, isTerminal(&FakeWriter{}))
	})
}

func TestNewRegistryFromConfig(t *testing.T) {
	t.Run("debug_key", func(t *testing.T) {
		t.Setenv(DEFAULT_ENV, "")
		pattern := "app.*"
		spy := &SpySink{}
		r := NewRegistryFromConfig(&Config{Debug: &pattern, Color: COLOR_NEVER}, WithSink(spy))
		r.New("app.db").Log("x")
		r.New("worker").Log("y")
		require.Len(t, spy.Lines(), 1)
		assert.Regexp(t, `^app\.db x \+\d+ms$`, spy.Lines()[0])
	})
	t.Run("env", func(t *testing.T) {
		t.Setenv(DEFAULT_ENV, "worker")
		r := NewRegistryFromConfig(nil)
		assert.True(t, r.Enabled("worker"))
		assert.IsType(t, &WriterSink{}, r.Sink())
	})
	t.Run("queue", func(t *testing.T) {
		r := NewRegistryFromConfig(&Config{Queue: 4, Color: COLOR_NEVER})
		q, ok := r.Sink().(*QueueSink)
		require.True(t, ok)
		assert.True(t, q.IsActive())
		r.Close()
		assert.False(t, q.IsActive())
	})
	t.Run("writer_override", func(t *testing.T) {
		out := &FakeWriter{}
		pattern := "app.*"
		r := NewRegistryFromConfig(&Config{Debug: &pattern, Color: COLOR_AUTO, Out: out})
		r.New("app.db").Log("to %s", "buffer")
		assert.Equal(t, "app.db to buffer +0ms\n", out.String(), "non-terminal writer gets plain text")
	})
	t.Run("stdout", func(t *testing.T) {
		r := NewRegistryFromConfig(&Config{Output: OUTPUT_STDOUT, Color: COLOR_NEVER})
		s, ok := r.Sink().(*WriterSink)
		require.True(t, ok)
		assert.Equal(t, OutType(os.Stdout), s.Output())
	})
}

package dbg

import (
	stderrors "errors"
	"io"
	"os"

	"github.com/mattn/go-isatty"
	"github.com/pelletier/go-toml/v2"
	"github.com/pkg/errors"
)

// ColorMode selects when debug lines are colored.
type ColorMode string

const (
	COLOR_AUTO   ColorMode = "auto"   // only on terminals, unless NO_COLOR is set
	COLOR_ALWAYS ColorMode = "always" // always colored
	COLOR_NEVER  ColorMode = "never"  // plain text
)

const (
	OUTPUT_STDERR = "stderr"
	OUTPUT_STDOUT = "stdout"
)

// Config describes how a Registry is built. It can be decoded from TOML:
//
//	env    = "DEBUG"     # variable holding the pattern
//	debug  = "app.*"     # pattern used instead of the variable
//	color  = "auto"      # auto | always | never
//	output = "stderr"    # stderr | stdout
//	queue  = 64          # > 0 writes through a QueueSink with this buffer
type Config struct {
	Env    string    `toml:"env"`
	Debug  *string   `toml:"debug"`
	Color  ColorMode `toml:"color"`
	Output string    `toml:"output"`
	Queue  int       `toml:"queue"`

	// Out replaces the writer selected by Output (not read from files).
	Out io.Writer `toml:"-"`
}

// DefaultConfig returns the configuration used when nothing else is given.
func DefaultConfig() *Config {
	return &Config{
		Env:    DEFAULT_ENV,
		Color:  COLOR_AUTO,
		Output: OUTPUT_STDERR,
	}
}

// ConfigFromEnv is DefaultConfig: the pattern comes from $DEBUG when the
// registry is built.
func ConfigFromEnv() *Config {
	return DefaultConfig()
}

// LoadConfig reads a TOML configuration file. Missing keys keep their
// defaults.
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrap(err, "reading config file")
	}
	return ParseConfig(data)
}

// ParseConfig decodes a TOML configuration.
func ParseConfig(data []byte) (*Config, error) {
	cfg := DefaultConfig()
	if err := toml.Unmarshal(data, cfg); err != nil {
		var derr *toml.DecodeError
		if stderrors.As(err, &derr) {
			row, col := derr.Position()
			return nil, errors.Wrapf(err, "parsing config at line %d, column %d", row, col)
		}
		return nil, errors.Wrap(err, "parsing config")
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks enumerated values and fills empty ones with defaults.
func (c *Config) Validate() error {
	if c.Env == "" {
		c.Env = DEFAULT_ENV
	}
	switch c.Color {
	case "":
		c.Color = COLOR_AUTO
	case COLOR_AUTO, COLOR_ALWAYS, COLOR_NEVER:
	default:
		return errors.Errorf("unknown color mode %q", c.Color)
	}
	switch c.Output {
	case "":
		c.Output = OUTPUT_STDERR
	case OUTPUT_STDERR, OUTPUT_STDOUT:
	default:
		return errors.Errorf("unknown output %q", c.Output)
	}
	if c.Queue < 0 {
		return errors.Errorf("negative queue size %d", c.Queue)
	}
	return nil
}

// Pattern returns the enablement pattern: the debug key when set, otherwise
// the environment variable (read at call time).
func (c *Config) Pattern() string {
	if c.Debug != nil {
		return *c.Debug
	}
	env := c.Env
	if env == "" {
		env = DEFAULT_ENV
	}
	return os.Getenv(env)
}

// Options turns the configuration into registry options. A configured queue
// is started here; Registry.Close stops it.
func (c *Config) Options() []Option {
	out := c.writer()
	var sink Sink = NewWriterSink(out, os.Stderr)
	if c.Queue > 0 {
		q := NewQueueSink(os.Stderr, out)
		q.Start(c.Queue)
		sink = q
	}
	return []Option{WithPattern(c.Pattern()), WithSink(sink), WithPalette(c.Palette())}
}

// Palette returns the colored palette when the color mode enables colors for
// the configured output, the plain one otherwise.
func (c *Config) Palette() Palette {
	if colorEnabled(c.Color, c.writer()) {
		return ColorPalette
	}
	return PlainPalette
}

func (c *Config) writer() io.Writer {
	if c.Out != nil {
		return c.Out
	}
	if c.Output == OUTPUT_STDOUT {
		return os.Stdout
	}
	return os.Stderr
}

// NewRegistryFromConfig builds a registry from cfg (nil means defaults); opts
// are applied after the configuration ones.
func NewRegistryFromConfig(cfg *Config, opts ...Option) *Registry {
	if cfg == nil {
		cfg = DefaultConfig()
	}
	return NewRegistry(append(cfg.Options(), opts...)...)
}

func colorEnabled(mode ColorMode, out io.Writer) bool {
	switch mode {
	case COLOR_ALWAYS:
		return true
	case COLOR_NEVER:
		return false
	}
	if os.Getenv("NO_COLOR") != "" {
		return false
	}
	return isTerminal(out)
}

func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	if !ok {
		return false
	}
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}

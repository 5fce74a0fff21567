package dbg

import (
	"unicode/utf16"

	"github.com/fatih/color"
)

// Palette order matters: the namespace hash indexes into it.
var paletteAttrs = [...]color.Attribute{
	color.FgRed,
	color.FgGreen,
	color.FgYellow,
	color.FgBlue,
	color.FgMagenta,
	color.FgCyan,
}

// Palette color names in palette order (used by the CLI and tests).
var PaletteNames = [len(paletteAttrs)]string{
	"red",
	"green",
	"yellow",
	"blue",
	"magenta",
	"cyan",
}

const NUM_COLORS = len(paletteAttrs)

// Colored and plain palettes are immutable once built, so they are shared.
var (
	ColorPalette = NewPalette(true)
	PlainPalette = NewPalette(false)
)

// NewPalette builds the ordered palette. With enabled=false every entry
// returns its input unchanged, which keeps color assignment identical while
// producing plain text.
func NewPalette(enabled bool) Palette {
	p := make(Palette, 0, NUM_COLORS)
	for _, attr := range paletteAttrs {
		c := color.New(attr)
		if enabled {
			c.EnableColor()
		} else {
			c.DisableColor()
		}
		sprint := c.SprintFunc()
		p = append(p, func(s string) string { return sprint(s) })
	}
	return p
}

// For returns the color assigned to a namespace.
func (p Palette) For(namespace string) ColorFunc {
	if len(p) == 0 {
		return func(s string) string { return s }
	}
	return p[colorIndex(namespace, len(p))]
}

// hashCode walks the UTF-16 code units of s and computes h = h*31 + c with
// 32-bit signed wraparound at every step.
func hashCode(s string) int32 {
	var h int32
	for _, c := range utf16.Encode([]rune(s)) {
		h = (h << (NUM_COLORS - 1)) - h + int32(c)
	}
	return h
}

// ColorIndex maps a namespace to its position in the palette.
func ColorIndex(namespace string) int {
	return colorIndex(namespace, NUM_COLORS)
}

func colorIndex(namespace string, n int) int {
	// widen before negating: -MinInt32 does not fit in int32
	h := int64(hashCode(namespace))
	if h < 0 {
		h = -h
	}
	return int(h % int64(n))
}

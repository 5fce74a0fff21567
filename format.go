package dbg

/*
Printf-like formatting of debug messages.

Recognized directives are two characters long: '%' followed by one of
"sdjoO%". Each directive except "%%" consumes the next argument:

	%s  string conversion
	%d  numeric conversion ("NaN" when the argument is not a number)
	%o  structural dump on a single line
	%O  structural dump, multi-line
	%j  JSON ("[Circular]" when the argument cannot be encoded)
	%%  a literal '%'

A directive without an argument left is written as is. Arguments left over
after the format is processed are appended, each after a single space.
*/

import (
	"bytes"
	"encoding/json"
	"fmt"
	"math"
	"math/big"
	"reflect"
	"regexp"
	"strconv"
	"strings"
)

// Format renders format with args. It never fails and never modifies args.
func Format(format string, args ...any) string {
	var b strings.Builder
	b.Grow(len(format) + DEFAULT_OUT_BUFF)
	i := 0
	for pos := 0; pos < len(format); pos++ {
		c := format[pos]
		if c != '%' || pos+1 >= len(format) || !isDirective(format[pos+1]) {
			b.WriteByte(c)
			continue
		}
		pos++
		verb := format[pos]
		if verb == '%' {
			b.WriteByte('%')
			continue
		}
		if i >= len(args) {
			b.WriteByte('%')
			b.WriteByte(verb)
			continue
		}
		switch verb {
		case 's':
			b.WriteString(toString(args[i]))
			i++
		case 'd':
			b.WriteString(toNumberString(args[i]))
			i++
		case 'o':
			b.WriteString(Inspect(args[i], true))
			i++
		case 'O':
			b.WriteString(Inspect(args[i], false))
			i++
		case 'j':
			b.WriteString(toJSON(args[i]))
			i++
		default:
			b.WriteByte('%')
			b.WriteByte(verb)
		}
	}
	for _, arg := range args[i:] {
		b.WriteByte(' ')
		if isPrimitive(arg) {
			b.WriteString(toString(arg))
		} else {
			b.WriteString(Inspect(arg, false))
		}
	}
	return b.String()
}

func isDirective(c byte) bool {
	switch c {
	case 's', 'd', 'j', 'o', 'O', '%':
		return true
	}
	return false
}

// isPrimitive is true for nil, booleans, numbers and strings.
func isPrimitive(v any) bool {
	if v == nil {
		return true
	}
	switch reflect.ValueOf(v).Kind() {
	case reflect.Bool, reflect.String,
		reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr,
		reflect.Float32, reflect.Float64, reflect.Complex64, reflect.Complex128:
		return true
	}
	return false
}

// toString is the string conversion used by %s and by trailing primitives.
func toString(v any) string {
	switch x := v.(type) {
	case nil:
		return NULL_TEXT
	case string:
		return x
	case error:
		return callString(x.Error)
	case fmt.Stringer:
		return callString(x.String)
	}
	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Bool:
		return strconv.FormatBool(rv.Bool())
	case reflect.String:
		return rv.String()
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return strconv.FormatInt(rv.Int(), 10)
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr:
		return strconv.FormatUint(rv.Uint(), 10)
	case reflect.Float32:
		return formatNumber(rv.Float(), 32)
	case reflect.Float64:
		return formatNumber(rv.Float(), 64)
	}
	return fmt.Sprint(v)
}

// callString guards Error/String methods that panic (typically on a nil
// receiver).
func callString(f func() string) (s string) {
	defer func() {
		if r := recover(); r != nil {
			s = "<panic" + panicDesc(r) + ">"
		}
	}()
	return f()
}

// toNumberString is the numeric conversion used by %d. Integers are written
// exactly, everything else goes through float64 like a JavaScript Number.
func toNumberString(v any) string {
	if v == nil {
		return "0"
	}
	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return strconv.FormatInt(rv.Int(), 10)
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr:
		return strconv.FormatUint(rv.Uint(), 10)
	case reflect.Float32:
		return formatNumber(rv.Float(), 32)
	case reflect.Float64:
		return formatNumber(rv.Float(), 64)
	case reflect.Bool:
		if rv.Bool() {
			return "1"
		}
		return "0"
	case reflect.String:
		return formatNumber(parseNumber(rv.String()), 64)
	}
	return NAN_TEXT
}

// formatNumber writes f the way JavaScript's Number#toString does: shortest
// round-trip digits, exponent form outside [1e-6, 1e21).
func formatNumber(f float64, bitSize int) string {
	switch {
	case math.IsNaN(f):
		return NAN_TEXT
	case math.IsInf(f, 1):
		return "Infinity"
	case math.IsInf(f, -1):
		return "-Infinity"
	case f == 0:
		return "0"
	}
	if abs := math.Abs(f); abs >= 1e21 || abs < 1e-6 {
		mant, exp, _ := strings.Cut(strconv.FormatFloat(f, 'e', -1, bitSize), "e")
		digits := strings.TrimLeft(exp[1:], "0")
		if digits == "" {
			digits = "0"
		}
		return mant + "e" + exp[:1] + digits
	}
	return strconv.FormatFloat(f, 'f', -1, bitSize)
}

var decimalLiteral = regexp.MustCompile(`^[+-]?(?:\d+\.?\d*|\.\d+)(?:[eE][+-]?\d+)?$`)

// parseNumber converts a string the way JavaScript's Number() does.
func parseNumber(s string) float64 {
	s = strings.TrimSpace(s)
	switch s {
	case "":
		return 0
	case "Infinity", "+Infinity":
		return math.Inf(1)
	case "-Infinity":
		return math.Inf(-1)
	}
	if len(s) > 2 && s[0] == '0' {
		base := 0
		switch s[1] {
		case 'x', 'X':
			base = 16
		case 'o', 'O':
			base = 8
		case 'b', 'B':
			base = 2
		}
		if base != 0 {
			if s[2] == '+' || s[2] == '-' {
				return math.NaN()
			}
			n, ok := new(big.Int).SetString(s[2:], base)
			if !ok {
				return math.NaN()
			}
			f, _ := new(big.Float).SetInt(n).Float64()
			return f
		}
	}
	if !decimalLiteral.MatchString(s) {
		return math.NaN()
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil && !math.IsInf(f, 0) {
		return math.NaN()
	}
	return f
}

// toJSON is the %j conversion. A non-finite number is written as null. Any
// encoding failure (cycles, channels, functions, panicking marshalers,
// non-finite numbers nested in a value) yields CIRCULAR_TEXT.
func toJSON(v any) (s string) {
	defer func() {
		if r := recover(); r != nil {
			s = CIRCULAR_TEXT
		}
	}()
	if rv := reflect.ValueOf(v); rv.Kind() == reflect.Float32 || rv.Kind() == reflect.Float64 {
		if f := rv.Float(); math.IsNaN(f) || math.IsInf(f, 0) {
			return NULL_TEXT
		}
	}
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(v); err != nil {
		return CIRCULAR_TEXT
	}
	return strings.TrimSuffix(buf.String(), "\n")
}

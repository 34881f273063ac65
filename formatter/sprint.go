package formatter

import (
	"math"
	"reflect"
	"strconv"
	"strings"
)

// Sprint builds a log message from positional arguments.
//
// When the first argument is a string it is treated as a format. The
// verbs %s, %d, %i, %f, %j, %o, %O and %v each consume one argument and
// %% yields a literal percent sign. A verb without a matching argument is
// left in place. Arguments not consumed by the format are appended,
// separated by single spaces. When the first argument is not a string,
// every argument is rendered with ToString and joined by spaces.
func Sprint(args ...any) string {
	if len(args) == 0 {
		return ""
	}

	format, ok := args[0].(string)
	if !ok {
		return join(args)
	}

	var sb strings.Builder
	sb.Grow(len(format) + 16*len(args))

	rest := args[1:]
	next := 0
	for i := 0; i < len(format); i++ {
		c := format[i]
		if c != '%' || i+1 >= len(format) {
			sb.WriteByte(c)
			continue
		}

		verb := format[i+1]
		if verb == '%' {
			sb.WriteByte('%')
			i++
			continue
		}
		if !isVerb(verb) || next >= len(rest) {
			sb.WriteByte(c)
			continue
		}

		sb.WriteString(formatVerb(verb, rest[next]))
		next++
		i++
	}

	for _, a := range rest[next:] {
		sb.WriteByte(' ')
		sb.WriteString(ToString(a))
	}
	return sb.String()
}

func join(args []any) string {
	parts := make([]string, len(args))
	for i, a := range args {
		parts[i] = ToString(a)
	}
	return strings.Join(parts, " ")
}

func isVerb(c byte) bool {
	switch c {
	case 's', 'd', 'i', 'f', 'j', 'o', 'O', 'v':
		return true
	}
	return false
}

func formatVerb(verb byte, arg any) string {
	switch verb {
	case 'd':
		f, ok := toNumber(arg)
		if !ok {
			return "NaN"
		}
		return strconv.FormatFloat(f, 'f', -1, 64)
	case 'i':
		f, ok := toNumber(arg)
		if !ok {
			return "NaN"
		}
		return strconv.FormatFloat(math.Trunc(f), 'f', -1, 64)
	case 'f':
		f, ok := toNumber(arg)
		if !ok {
			return "NaN"
		}
		return strconv.FormatFloat(f, 'f', -1, 64)
	case 'j':
		s, _ := Stringify(arg)
		return s
	}
	return ToString(arg)
}

func toNumber(v any) (float64, bool) {
	if s, ok := v.(string); ok {
		f, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
		return f, err == nil
	}
	if b, ok := v.(bool); ok {
		if b {
			return 1, true
		}
		return 0, true
	}
	if v == nil {
		return 0, false
	}
	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return float64(rv.Int()), true
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr:
		return float64(rv.Uint()), true
	case reflect.Float32, reflect.Float64:
		return rv.Float(), true
	}
	return 0, false
}

package core

import (
	"math"
	"reflect"
	"strconv"
	"strings"
)

// Level is the numeric rank of a log severity. Higher is more severe.
type Level int

const (
	// TraceLevel for very detailed diagnostics
	TraceLevel Level = 10
	// DebugLevel for debugging information
	DebugLevel Level = 20
	// InfoLevel for general informational messages
	InfoLevel Level = 30
	// WarnLevel for warning messages
	WarnLevel Level = 40
	// ErrorLevel for error messages (default threshold)
	ErrorLevel Level = 50
	// FatalLevel for fatal messages. Logging at this level never exits.
	FatalLevel Level = 60
)

// MinLevel and MaxLevel bound every coerced rank.
const (
	MinLevel = TraceLevel
	MaxLevel = FatalLevel
)

// NumLevels is the number of named severities.
const NumLevels = 6

var levelNames = [NumLevels]string{"trace", "debug", "info", "warn", "error", "fatal"}

var levelsByName = map[string]Level{
	"trace": TraceLevel,
	"debug": DebugLevel,
	"info":  InfoLevel,
	"warn":  WarnLevel,
	"error": ErrorLevel,
	"fatal": FatalLevel,
}

// Levels returns the named severities in ascending order.
func Levels() [NumLevels]Level {
	return [NumLevels]Level{TraceLevel, DebugLevel, InfoLevel, WarnLevel, ErrorLevel, FatalLevel}
}

// Index returns the position of a named level in Levels, or -1 for
// ranks that fall between names.
func (l Level) Index() int {
	if l < MinLevel || l > MaxLevel || l%10 != 0 {
		return -1
	}
	return int(l/10) - 1
}

// String returns the lowercase name of the level, or its rank for
// unnamed levels.
func (l Level) String() string {
	if i := l.Index(); i >= 0 {
		return levelNames[i]
	}
	return strconv.Itoa(int(l))
}

// ParseLevel looks up a level by name, ignoring case and surrounding space.
func ParseLevel(s string) (Level, bool) {
	l, ok := levelsByName[strings.ToLower(strings.TrimSpace(s))]
	return l, ok
}

// Coerce converts an arbitrary value into a valid Level.
//
// Finite numbers, and strings that parse as finite numbers, are clamped
// into [MinLevel, MaxLevel] without snapping to a named rank. Other
// strings are looked up by name. Everything else resolves to ErrorLevel.
func Coerce(v any) Level {
	switch t := v.(type) {
	case nil:
		return ErrorLevel
	case Level:
		return clamp(float64(t))
	case string:
		if f, err := strconv.ParseFloat(strings.TrimSpace(t), 64); err == nil {
			return clamp(f)
		}
		if l, ok := ParseLevel(t); ok {
			return l
		}
		return ErrorLevel
	}

	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return clamp(float64(rv.Int()))
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr:
		return clamp(float64(rv.Uint()))
	case reflect.Float32, reflect.Float64:
		return clamp(rv.Float())
	case reflect.String:
		return Coerce(rv.String())
	}
	return ErrorLevel
}

func clamp(f float64) Level {
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return ErrorLevel
	}
	f = math.Max(float64(MinLevel), math.Min(float64(MaxLevel), f))
	return Level(math.Trunc(f))
}

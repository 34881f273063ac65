package formatter

import (
	"encoding/json"
	"fmt"
	"reflect"
	"strconv"

	"github.com/philipp01105/agentlog/core"
)

// Unparsable replaces an argument that could not be serialized.
const Unparsable = core.Unparsable

// Stringify serializes v as JSON. It never panics: cyclic values,
// unsupported kinds and misbehaving MarshalJSON methods all surface as
// an error together with the Unparsable placeholder.
func Stringify(v any) (s string, err error) {
	defer func() {
		if r := recover(); r != nil {
			s, err = Unparsable, fmt.Errorf("stringify: panic: %v", r)
		}
	}()

	b, err := json.Marshal(jsonSafe(v))
	if err != nil {
		return Unparsable, err
	}
	return string(b), nil
}

// jsonSafe replaces values whose JSON form loses information.
func jsonSafe(v any) any {
	if err, ok := v.(error); ok {
		if _, isMarshaler := v.(json.Marshaler); !isMarshaler {
			return err.Error()
		}
	}
	return v
}

// IsObject reports whether v is serialized as a structured value rather
// than printed as a scalar.
func IsObject(v any) bool {
	if v == nil {
		return false
	}
	if _, ok := v.(error); ok {
		return false
	}
	if _, ok := v.(fmt.Stringer); ok {
		return false
	}
	switch reflect.TypeOf(v).Kind() {
	case reflect.Map, reflect.Slice, reflect.Array, reflect.Struct:
		return true
	case reflect.Pointer:
		rv := reflect.ValueOf(v)
		if rv.IsNil() {
			return false
		}
		switch rv.Elem().Kind() {
		case reflect.Map, reflect.Slice, reflect.Array, reflect.Struct:
			return true
		}
	}
	return false
}

// Resolve returns the value behind a lazily evaluated argument. Functions
// of the form func() any and func() string are called; a panic inside
// them yields the Unparsable placeholder.
func Resolve(v any) (out any) {
	defer func() {
		if recover() != nil {
			out = Unparsable
		}
	}()

	switch f := v.(type) {
	case func() any:
		return f()
	case func() string:
		return f()
	}
	return v
}

// ToString renders a scalar the way it appears inside a message.
func ToString(v any) (s string) {
	defer func() {
		if recover() != nil {
			s = Unparsable
		}
	}()

	switch t := v.(type) {
	case nil:
		return "null"
	case string:
		return t
	case []byte:
		return string(t)
	case bool:
		return strconv.FormatBool(t)
	case int:
		return strconv.Itoa(t)
	case int64:
		return strconv.FormatInt(t, 10)
	case float64:
		return strconv.FormatFloat(t, 'f', -1, 64)
	case error:
		return t.Error()
	case fmt.Stringer:
		return t.String()
	}
	if IsObject(v) {
		s, _ := Stringify(v)
		return s
	}
	return fmt.Sprint(v)
}

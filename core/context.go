package core

import (
	"fmt"
	"reflect"
	"strings"
)

// Context is a set of key/value pairs merged into log entries. Loggers
// carry a static Context, and callers may pass one per call.
type Context map[string]any

// Merge returns a new Context holding the keys of every argument. Later
// arguments win on key collision. Nil arguments are skipped.
func Merge(ctxs ...Context) Context {
	n := 0
	for _, c := range ctxs {
		n += len(c)
	}
	out := make(Context, n)
	for _, c := range ctxs {
		for k, v := range c {
			out[k] = v
		}
	}
	return out
}

// ExtraFrom reports whether a leading log argument is per-call context and
// returns it in normalized form. Context values, plain string-keyed maps
// and errors qualify.
func ExtraFrom(arg any) (Context, bool) {
	switch t := arg.(type) {
	case Context:
		return expandNestedError(t), true
	case map[string]any:
		return expandNestedError(Context(t)), true
	case error:
		return ErrorContext(t), true
	}
	return nil, false
}

func expandNestedError(ctx Context) Context {
	err, ok := ctx["error"].(error)
	if !ok {
		return ctx
	}
	out := Merge(ctx)
	out["error"] = ErrorContext(err)
	return out
}

// Unparsable stands in for a value that could not be rendered.
const Unparsable = "[UNPARSABLE OBJECT]"

// ErrorContext flattens an error into a Context. The default JSON form
// of most error values is empty, so the message, any stack trace and the
// exported fields of the concrete error type are copied explicitly.
//
// A panic in Error or while reading fields never escapes: a nil pointer
// receiver yields the message "<nil>", any other failure Unparsable.
func ErrorContext(err error) (ctx Context) {
	ctx = Context{}
	if err == nil {
		return ctx
	}
	defer func() {
		if recover() != nil {
			ctx = Context{"message": Unparsable}
		}
	}()

	rv := reflect.ValueOf(err)
	for rv.Kind() == reflect.Pointer && !rv.IsNil() {
		rv = rv.Elem()
	}
	if rv.Kind() == reflect.Struct {
		rt := rv.Type()
		for i := 0; i < rt.NumField(); i++ {
			f := rt.Field(i)
			if !f.IsExported() {
				continue
			}
			name := f.Name
			if tag, _, _ := strings.Cut(f.Tag.Get("json"), ","); tag != "" {
				if tag == "-" {
					continue
				}
				name = tag
			}
			ctx[name] = rv.Field(i).Interface()
		}
	}

	ctx["message"] = messageOf(err, rv.Kind() == reflect.Pointer)
	if stack := stackOf(err); stack != "" {
		ctx["stack"] = stack
	}
	return ctx
}

// messageOf calls err.Error. nilReceiver marks a typed nil pointer.
func messageOf(err error, nilReceiver bool) (msg string) {
	defer func() {
		if recover() != nil {
			msg = Unparsable
			if nilReceiver {
				msg = "<nil>"
			}
		}
	}()
	return err.Error()
}

func stackOf(err error) (stack string) {
	defer func() {
		if recover() != nil {
			stack = ""
		}
	}()

	switch s := err.(type) {
	case interface{ Stack() []byte }:
		return string(s.Stack())
	case interface{ Stack() string }:
		return s.Stack()
	}

	// pkg/errors style values print their frames with %+v.
	if verbose := fmt.Sprintf("%+v", err); verbose != err.Error() && strings.Contains(verbose, "\n") {
		return verbose
	}
	return ""
}

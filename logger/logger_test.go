package logger

import (
	"bytes"
	"encoding/json"
	"errors"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"github.com/philipp01105/agentlog/core"
	"github.com/philipp01105/agentlog/formatter"
	"github.com/philipp01105/agentlog/internal/warning"
)

func newTestLogger(level any) *Logger {
	return NewBuilder().
		WithName("test").
		WithHostname("test-host").
		WithLevel(level).
		Build()
}

// records decodes everything the logger has buffered.
func records(t *testing.T, l *Logger) []map[string]any {
	t.Helper()
	return decodeLines(t, l.Buffered())
}

func decodeLines(t *testing.T, data []byte) []map[string]any {
	t.Helper()
	var out []map[string]any
	for _, line := range bytes.Split(bytes.TrimSuffix(data, []byte("\n")), []byte("\n")) {
		if len(line) == 0 {
			continue
		}
		var rec map[string]any
		if err := json.Unmarshal(line, &rec); err != nil {
			t.Fatalf("invalid JSON line %q: %v", line, err)
		}
		out = append(out, rec)
	}
	return out
}

func messages(recs []map[string]any) []string {
	out := make([]string, len(recs))
	for i, r := range recs {
		out[i], _ = r["msg"].(string)
	}
	return out
}

// recorder is a consumer that keeps every delivered chunk.
type recorder struct {
	mu     sync.Mutex
	chunks []string
	ready  bool
}

func (r *recorder) Deliver(p []byte) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.chunks = append(r.chunks, string(p))
	return r.ready
}

func (r *recorder) text() string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return strings.Join(r.chunks, "")
}

func TestLogger_LevelGate(t *testing.T) {
	l := newTestLogger(core.InfoLevel)

	if l.Debug("debug message") {
		t.Error("Debug returned true below the threshold")
	}
	if !l.Info("info message") {
		t.Error("Info returned false at the threshold")
	}
	if !l.Warn("warn message") {
		t.Error("Warn returned false above the threshold")
	}

	got := messages(records(t, l))
	want := []string{"info message", "warn message"}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("messages mismatch (-want +got):\n%s", diff)
	}
}

func TestLogger_EntryFields(t *testing.T) {
	l := newTestLogger("info")
	l.Info("hello %s", "world")

	recs := records(t, l)
	if len(recs) != 1 {
		t.Fatalf("got %d records, want 1", len(recs))
	}
	rec := recs[0]
	if rec["msg"] != "hello world" {
		t.Errorf("msg = %v", rec["msg"])
	}
	if rec["level"] != float64(30) {
		t.Errorf("level = %v, want 30", rec["level"])
	}
	if rec["v"] != float64(0) {
		t.Errorf("v = %v, want 0", rec["v"])
	}
	if rec["name"] != "test" || rec["hostname"] != "test-host" {
		t.Errorf("name/hostname = %v/%v", rec["name"], rec["hostname"])
	}
	if _, ok := rec["pid"].(float64); !ok {
		t.Errorf("pid missing: %v", rec)
	}
	ts, _ := rec["time"].(string)
	if _, err := time.Parse("2006-01-02T15:04:05.000Z", ts); err != nil {
		t.Errorf("time %q is not ISO-8601 UTC with milliseconds: %v", ts, err)
	}
}

func TestLogger_FieldOrder(t *testing.T) {
	l := newTestLogger("info")
	l.Info(core.Context{"zeta": 1, "alpha": "a"}, "ordered")

	line := string(l.Buffered())
	wantPrefix := `{"v":0,"level":30,"name":"test","hostname":"test-host","pid":`
	if !strings.HasPrefix(line, wantPrefix) {
		t.Errorf("line %q does not start with %q", line, wantPrefix)
	}
	if !strings.HasSuffix(line, `"msg":"ordered","alpha":"a","zeta":1}`+"\n") {
		t.Errorf("context not sorted after built-ins: %q", line)
	}
}

func TestLogger_ReservedKeysKept(t *testing.T) {
	l := newTestLogger("info")
	l.Info(core.Context{"msg": "spoofed", "level": 99, "pid": "x", "extra": true}, "real")

	rec := records(t, l)[0]
	if rec["msg"] != "real" {
		t.Errorf("msg = %v, want real", rec["msg"])
	}
	if rec["level"] != float64(30) {
		t.Errorf("level = %v, want 30", rec["level"])
	}
	if _, ok := rec["pid"].(float64); !ok {
		t.Errorf("pid overwritten: %v", rec["pid"])
	}
	if rec["extra"] != true {
		t.Errorf("extra = %v", rec["extra"])
	}
}

func TestLogger_LevelCoercion(t *testing.T) {
	tests := []struct {
		name  string
		level any
		want  core.Level
	}{
		{"name", "warn", core.WarnLevel},
		{"upper case", "DEBUG", core.DebugLevel},
		{"numeric string", "20", core.DebugLevel},
		{"between ranks", 35, core.Level(35)},
		{"too high", 1000, core.FatalLevel},
		{"too low", -3, core.TraceLevel},
		{"unknown", "verbose", core.ErrorLevel},
		{"nil", nil, core.ErrorLevel},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			l := newTestLogger(tt.level)
			if got := l.Level(); got != tt.want {
				t.Errorf("Level() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestLogger_RankBetweenNames(t *testing.T) {
	l := newTestLogger(35)
	if l.Info("info") {
		t.Error("info (30) passed a threshold of 35")
	}
	if !l.Warn("warn") {
		t.Error("warn (40) rejected by a threshold of 35")
	}
}

func TestLogger_Disabled(t *testing.T) {
	l := newTestLogger("trace")
	l.SetEnabled(false)

	if l.Error("nope") {
		t.Error("Error returned true while disabled")
	}
	if !l.ErrorEnabled() {
		t.Error("ErrorEnabled must only check the threshold")
	}
	if got := l.Buffered(); len(got) != 0 {
		t.Errorf("disabled logger produced %q", got)
	}

	l.SetEnabled(true)
	if !l.Error("yes") {
		t.Error("Error returned false after re-enabling")
	}
}

func TestLogger_EnabledMethods(t *testing.T) {
	l := newTestLogger("warn")
	checks := []struct {
		name string
		fn   func() bool
		want bool
	}{
		{"trace", l.TraceEnabled, false},
		{"debug", l.DebugEnabled, false},
		{"info", l.InfoEnabled, false},
		{"warn", l.WarnEnabled, true},
		{"error", l.ErrorEnabled, true},
		{"fatal", l.FatalEnabled, true},
	}
	for _, c := range checks {
		if got := c.fn(); got != c.want {
			t.Errorf("%sEnabled() = %v, want %v", c.name, got, c.want)
		}
	}
}

func TestLogger_QueueReplay(t *testing.T) {
	l := NewBuilder().WithHostname("h").Deferred().Build()

	for _, ok := range []bool{l.Info("a"), l.Warn("b"), l.Error("c")} {
		if ok {
			t.Error("log call returned true before configuration")
		}
	}
	if got := l.Stats().Queued; got != 3 {
		t.Errorf("Queued = %d, want 3", got)
	}
	if got := l.Buffered(); len(got) != 0 {
		t.Fatalf("output before configuration: %q", got)
	}

	l.Configure(Options{Level: "warn"})

	got := messages(records(t, l))
	want := []string{"b", "c"}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("replayed messages mismatch (-want +got):\n%s", diff)
	}
	if got := l.Stats().Queued; got != 0 {
		t.Errorf("Queued = %d after Configure, want 0", got)
	}
}

func TestLogger_QueueReplayKeepsOrigin(t *testing.T) {
	root := NewBuilder().WithHostname("h").Deferred().Build()
	child := root.Child(core.Context{"component": "db"})

	root.Info("from root")
	child.Info("from child")
	root.Configure(Options{Level: "info", Name: "agent"})

	recs := records(t, root)
	if len(recs) != 2 {
		t.Fatalf("got %d records, want 2", len(recs))
	}
	if _, ok := recs[0]["component"]; ok {
		t.Errorf("root entry carries child context: %v", recs[0])
	}
	if recs[1]["component"] != "db" {
		t.Errorf("child entry lost its context: %v", recs[1])
	}
	for _, r := range recs {
		if r["name"] != "agent" {
			t.Errorf("name = %v, want the configured name", r["name"])
		}
	}
}

func TestLogger_ConfigureTwice(t *testing.T) {
	l := NewBuilder().WithHostname("h").Deferred().Build()
	l.Configure(Options{Level: "info"})
	l.Configure(Options{Level: "error", Name: "renamed"})

	if l.Warn("below") {
		t.Error("second Configure did not update the level")
	}
	l.Error("kept")
	rec := records(t, l)[0]
	if rec["name"] != "renamed" {
		t.Errorf("name = %v, want renamed", rec["name"])
	}
}

func TestLogger_Once(t *testing.T) {
	l := newTestLogger("info")

	if !l.InfoOnce("k", "first") {
		t.Error("first InfoOnce returned false")
	}
	if l.InfoOnce("k", "second") {
		t.Error("repeated InfoOnce returned true")
	}
	if !l.InfoOnce("other", "third") {
		t.Error("InfoOnce with a new key returned false")
	}
	if !l.WarnOnce("k", "fourth") {
		t.Error("keys must be tracked per level")
	}

	got := messages(records(t, l))
	want := []string{"first", "third", "fourth"}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("messages mismatch (-want +got):\n%s", diff)
	}
}

func TestLogger_OncePerInstance(t *testing.T) {
	root := newTestLogger("info")
	child := root.Child(core.Context{"c": 1})

	root.InfoOnce("k", "root")
	if !child.InfoOnce("k", "child") {
		t.Error("child shares dedup state with its parent")
	}
}

func TestLogger_OnceRetriedAfterRejection(t *testing.T) {
	l := newTestLogger("warn")

	if l.InfoOnce("k", "filtered") {
		t.Fatal("InfoOnce below the threshold returned true")
	}
	l.SetLevel("info")
	if !l.InfoOnce("k", "accepted") {
		t.Error("a rejected call must not mark the key as seen")
	}
}

func TestLogger_OncePer(t *testing.T) {
	l := newTestLogger("info")
	defer l.Close()

	interval := 30 * time.Millisecond
	if !l.InfoOncePer("k", interval, "first") {
		t.Fatal("first InfoOncePer returned false")
	}
	if l.InfoOncePer("k", interval, "second") {
		t.Error("InfoOncePer inside the interval returned true")
	}

	time.Sleep(4 * interval)

	if !l.InfoOncePer("k", interval, "third") {
		t.Error("InfoOncePer after the interval returned false")
	}
}

func TestLogger_GenericOnce(t *testing.T) {
	l := newTestLogger("trace")
	if !l.Once(core.Level(35), "k", "between") {
		t.Fatal("Once returned false")
	}
	if l.Once(core.InfoLevel, "k", "again") {
		t.Error("ranks between names share the table of the level below")
	}
	rec := records(t, l)[0]
	if rec["level"] != float64(35) {
		t.Errorf("level = %v, want the requested rank 35", rec["level"])
	}
}

func TestLogger_EmptyKey(t *testing.T) {
	l := newTestLogger("trace")

	if l.InfoOnce("", "x") {
		t.Error("InfoOnce with empty key returned true")
	}
	if l.WarnOncePer("", time.Second, "y") {
		t.Error("WarnOncePer with empty key returned true")
	}

	recs := records(t, l)
	got := messages(recs)
	want := []string{"infoOnce requires a non-empty key", "warnOncePer requires a non-empty key"}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("diagnostics mismatch (-want +got):\n%s", diff)
	}
	for _, r := range recs {
		if r["level"] != float64(20) {
			t.Errorf("diagnostic level = %v, want 20", r["level"])
		}
	}
}

func TestLogger_ChildMerge(t *testing.T) {
	root := NewBuilder().
		WithHostname("h").
		WithLevel("info").
		WithContext(core.Context{"a": 1, "root": true}).
		Build()
	child := root.Child(core.Context{"a": 2, "b": 1})

	child.Info(core.Context{"a": 3}, "per call")
	child.Info("static")
	root.Info("root")

	recs := records(t, root)
	if len(recs) != 3 {
		t.Fatalf("got %d records, want 3", len(recs))
	}
	if recs[0]["a"] != float64(3) || recs[0]["b"] != float64(1) || recs[0]["root"] != true {
		t.Errorf("per-call extra must win: %v", recs[0])
	}
	if recs[1]["a"] != float64(2) {
		t.Errorf("child context must win over parent: %v", recs[1])
	}
	if recs[2]["a"] != float64(1) {
		t.Errorf("parent changed by child: %v", recs[2])
	}
	if _, ok := recs[2]["b"]; ok {
		t.Errorf("child key leaked into parent: %v", recs[2])
	}
}

func TestLogger_ChildSharesOptions(t *testing.T) {
	root := newTestLogger("info")
	child := root.Child(nil).Child(core.Context{"deep": true})

	child.SetLevel("error")
	if root.Warn("w") {
		t.Error("SetLevel on a child must change the shared threshold")
	}
	root.SetEnabled(false)
	if child.Error("e") {
		t.Error("SetEnabled on the root must disable children")
	}
}

type node struct {
	Name string
	Next *node
}

func TestLogger_CircularArgument(t *testing.T) {
	l := newTestLogger("debug")
	n := &node{Name: "loop"}
	n.Next = n

	if !l.Info("value", n) {
		t.Fatal("Info returned false for a circular argument")
	}

	got := messages(records(t, l))
	want := []string{"Failed to stringify object for log", "value [UNPARSABLE OBJECT]"}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("messages mismatch (-want +got):\n%s", diff)
	}
}

func TestLogger_ObjectArgument(t *testing.T) {
	l := newTestLogger("info")
	l.Info("payload %j", map[string]int{"n": 1})

	if got := messages(records(t, l))[0]; got != `payload {"n":1}` {
		t.Errorf("msg = %q", got)
	}
}

func TestLogger_LazyArgument(t *testing.T) {
	l := newTestLogger("info")
	calls := 0
	expensive := func() any { calls++; return "computed" }

	l.Debug("skipped %s", expensive)
	l.Info("value %s", expensive)

	if calls != 1 {
		t.Errorf("lazy argument evaluated %d times, want 1", calls)
	}
	if got := messages(records(t, l))[0]; got != "value computed" {
		t.Errorf("msg = %q", got)
	}
}

type codedError struct {
	Code int `json:"code"`
}

func (e *codedError) Error() string { return "coded failure" }

func TestLogger_ErrorExtra(t *testing.T) {
	l := newTestLogger("info")

	l.Error(&codedError{Code: 7}, "request failed")
	l.Error(core.Context{"error": errors.New("nested")}, "wrapped")

	recs := records(t, l)
	if recs[0]["message"] != "coded failure" || recs[0]["code"] != float64(7) {
		t.Errorf("error fields not merged: %v", recs[0])
	}
	if recs[0]["msg"] != "request failed" {
		t.Errorf("msg = %v", recs[0]["msg"])
	}
	nested, _ := recs[1]["error"].(map[string]any)
	if nested["message"] != "nested" {
		t.Errorf("nested error not expanded: %v", recs[1]["error"])
	}
}

type nilPtrError struct{ msg string }

func (e *nilPtrError) Error() string { return e.msg }

func TestLogger_TypedNilError(t *testing.T) {
	var err *nilPtrError
	l := newTestLogger("info")

	if !l.Error(err, "request failed") {
		t.Fatal("Error returned false for a typed nil error")
	}
	if !l.Error(core.Context{"error": err}, "wrapped") {
		t.Fatal("Error returned false for a nested typed nil error")
	}

	recs := records(t, l)
	if len(recs) != 2 {
		t.Fatalf("got %d records, want 2", len(recs))
	}
	if recs[0]["message"] != "<nil>" || recs[0]["msg"] != "request failed" {
		t.Errorf("typed nil error not rendered: %v", recs[0])
	}
	nested, _ := recs[1]["error"].(map[string]any)
	if nested["message"] != "<nil>" {
		t.Errorf("nested typed nil error not rendered: %v", recs[1]["error"])
	}
}

func TestLogger_TypedNilErrorReplayed(t *testing.T) {
	var err *nilPtrError
	l := NewBuilder().WithHostname("h").Deferred().Build()

	l.Error(err, "queued")
	l.Error(core.Context{"error": err}, "queued nested")
	l.Configure(Options{Level: "info"})

	got := messages(records(t, l))
	want := []string{"queued", "queued nested"}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("replayed messages mismatch (-want +got):\n%s", diff)
	}
	if !l.Info("after configure") {
		t.Error("logger unusable after replaying a typed nil error")
	}
	if got := l.Stats().Queued; got != 0 {
		t.Errorf("Queued = %d after Configure, want 0", got)
	}
}

// panickyFormatter panics on entries with the message "boom".
type panickyFormatter struct {
	formatter.Formatter
}

func (f panickyFormatter) FormatEntry(e *core.Entry, buf *bytes.Buffer) error {
	if e.Message == "boom" {
		panic("formatter bug")
	}
	return f.Formatter.FormatEntry(e, buf)
}

func TestLogger_ReplaySurvivesPanic(t *testing.T) {
	l := NewBuilder().
		WithHostname("h").
		WithFormatter(panickyFormatter{formatter.NewJSONFormatter(formatter.Config{})}).
		Deferred().
		Build()

	l.Info("before")
	l.Info("boom")
	l.Info("after")
	l.Configure(Options{Level: "info"})

	got := messages(records(t, l))
	want := []string{"before", "after"}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("replayed messages mismatch (-want +got):\n%s", diff)
	}
	if !l.Info("live") {
		t.Error("logger still replaying after Configure returned")
	}
}

func TestLogger_UnencodableContextValue(t *testing.T) {
	l := newTestLogger("trace")
	loop := map[string]any{}
	loop["self"] = loop

	if !l.Info(core.Context{"ch": make(chan int), "loop": loop, "ok": true}, "kept") {
		t.Fatal("Info returned false for an entry with an unencodable value")
	}

	recs := records(t, l)
	if len(recs) != 1 {
		t.Fatalf("got %d records, want 1", len(recs))
	}
	want := map[string]any{"ch": "[UNPARSABLE OBJECT]", "loop": "[UNPARSABLE OBJECT]", "ok": true, "msg": "kept"}
	for k, v := range want {
		if recs[0][k] != v {
			t.Errorf("%s = %v, want %v", k, recs[0][k], v)
		}
	}
}

type brokenFormatter struct{}

func (brokenFormatter) FormatEntry(_ *core.Entry, buf *bytes.Buffer) error {
	buf.WriteString(`{"partial":`)
	return errors.New("encoder failure")
}

func TestLogger_FormatErrorSkipsRecord(t *testing.T) {
	l := NewBuilder().WithHostname("h").WithLevel("trace").WithFormatter(brokenFormatter{}).Build()

	if l.Info("bad") {
		t.Error("Info returned true for a record that failed to format")
	}
	// The diagnostic is raised inside the write and therefore discarded.
	if got := l.Buffered(); len(got) != 0 {
		t.Errorf("unexpected output %q", got)
	}
	if got := l.Stats().Queued; got != 0 {
		t.Errorf("Queued = %d, want 0", got)
	}
}

func TestLogger_FatalDoesNotExit(t *testing.T) {
	l := newTestLogger("info")
	if !l.Fatal("still running") {
		t.Error("Fatal returned false")
	}
	if rec := records(t, l)[0]; rec["level"] != float64(60) {
		t.Errorf("level = %v, want 60", rec["level"])
	}
}

func TestLogger_PullDeliversBufferFirst(t *testing.T) {
	l := newTestLogger("info")
	l.Info("buffered")

	r := &recorder{ready: true}
	l.Pull(r)
	if got := l.Buffered(); len(got) != 0 {
		t.Errorf("buffer not cleared by Pull: %q", got)
	}

	l.Info("direct")
	got := messages(decodeLines(t, []byte(r.text())))
	want := []string{"buffered", "direct"}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("delivered mismatch (-want +got):\n%s", diff)
	}

	snap := l.Stats()
	if snap.Buffered != 1 || snap.Delivered != 1 {
		t.Errorf("stats = %+v, want 1 buffered and 1 delivered", snap)
	}
}

func TestLogger_ConsumerBackpressure(t *testing.T) {
	l := newTestLogger("info")
	r := &recorder{ready: false}
	l.Pull(r)

	if !l.Info("one") {
		t.Error("delivered write returned false")
	}
	if !l.Info("two") {
		t.Error("buffered write returned false")
	}

	if got := messages(decodeLines(t, []byte(r.text()))); !cmp.Equal(got, []string{"one"}) {
		t.Errorf("consumer received %v, want only the first line", got)
	}
	if got := messages(records(t, l)); !cmp.Equal(got, []string{"two"}) {
		t.Errorf("buffer holds %v, want the second line", got)
	}
}

func TestLogger_Cancel(t *testing.T) {
	l := newTestLogger("info")
	r := &recorder{ready: true}
	l.Pull(r)
	l.Cancel(r)

	l.Info("after cancel")
	if r.text() != "" {
		t.Errorf("cancelled consumer received %q", r.text())
	}
	if len(records(t, l)) != 1 {
		t.Error("line not buffered after Cancel")
	}
}

func TestLogger_Overflow(t *testing.T) {
	obs, logs := observer.New(zapcore.WarnLevel)
	defer warning.SetCore(obs)()

	l := newTestLogger("info")
	l.s.maxBuf = 400

	accepted, dropped := 0, 0
	for i := 0; i < 20; i++ {
		if l.Info("filling the buffer") {
			accepted++
		} else {
			dropped++
		}
	}

	if accepted == 0 || dropped == 0 {
		t.Fatalf("accepted=%d dropped=%d, want both non-zero", accepted, dropped)
	}
	if got := len(l.Buffered()); got >= 400 {
		t.Errorf("buffer grew to %d bytes, cap is 400", got)
	}
	snap := l.Stats()
	if snap.DroppedTotal[core.InfoLevel] != uint64(dropped) {
		t.Errorf("dropped info = %d, want %d", snap.DroppedTotal[core.InfoLevel], dropped)
	}
	if snap.DroppedBytes == 0 {
		t.Error("dropped bytes not counted")
	}

	warnings := logs.FilterField(zap.String("code", "AGENTLOG_BUFFER_OVERFLOW")).All()
	if len(warnings) != 1 {
		t.Errorf("got %d overflow warnings, want 1", len(warnings))
	}

	// Reading the buffer frees space again.
	l.Pull(&recorder{})
	if !l.Info("after drain") {
		t.Error("write rejected after the buffer was read")
	}
}

func TestLogger_OnceRetriedAfterOverflow(t *testing.T) {
	obs, logs := observer.New(zapcore.WarnLevel)
	defer warning.SetCore(obs)()

	l := newTestLogger("info")
	defer l.Close()
	l.s.maxBuf = 10

	if l.InfoOnce("k", "dropped") {
		t.Fatal("InfoOnce returned true for a dropped entry")
	}
	if l.InfoOncePer("p", time.Hour, "dropped") {
		t.Fatal("InfoOncePer returned true for a dropped entry")
	}
	if logs.Len() != 1 {
		t.Errorf("got %d overflow warnings, want 1", logs.Len())
	}

	l.s.mu.Lock()
	l.s.maxBuf = MaxLogBuffer
	l.s.mu.Unlock()

	if !l.InfoOnce("k", "retried") {
		t.Error("key still marked as seen after an overflow drop")
	}
	if !l.InfoOncePer("p", time.Hour, "retried") {
		t.Error("OncePer key still reserved after an overflow drop")
	}
	if l.InfoOnce("k", "again") {
		t.Error("InfoOnce returned true after a delivered entry")
	}

	got := messages(records(t, l))
	want := []string{"retried", "retried"}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("messages mismatch (-want +got):\n%s", diff)
	}
}

func TestLogger_Stream(t *testing.T) {
	var buf bytes.Buffer
	l := NewBuilder().WithHostname("h").WithLevel("info").WithStream(&buf).Build()

	l.Info("one")
	l.Child(core.Context{"c": true}).Warn("two")

	got := messages(decodeLines(t, buf.Bytes()))
	if diff := cmp.Diff([]string{"one", "two"}, got); diff != "" {
		t.Errorf("stream mismatch (-want +got):\n%s", diff)
	}
	if err := l.Close(); err != nil {
		t.Errorf("Close: %v", err)
	}

	l.Info("after close")
	if strings.Contains(buf.String(), "after close") {
		t.Error("stream still attached after Close")
	}
}

type failingWriter struct{}

func (failingWriter) Write([]byte) (int, error) { return 0, errors.New("disk full") }

func TestLogger_StreamWriteError(t *testing.T) {
	l := NewBuilder().WithHostname("h").WithLevel("info").WithStream(failingWriter{}).Build()

	l.Info("lost")
	if !l.Info("buffered") {
		t.Error("write after a stream failure must be buffered")
	}
	if err := l.Close(); err == nil || !strings.Contains(err.Error(), "disk full") {
		t.Errorf("Close error = %v, want the write error", err)
	}
}

func TestLogger_ConcurrentWrites(t *testing.T) {
	l := newTestLogger("info")
	child := l.Child(core.Context{"worker": true})

	var wg sync.WaitGroup
	for g := 0; g < 8; g++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := 0; i < 50; i++ {
				child.Info("line %d", i)
				child.InfoOnce("shared", "once")
			}
		}()
	}
	wg.Wait()

	recs := records(t, l)
	once := 0
	for _, r := range recs {
		if r["msg"] == "once" {
			once++
		}
	}
	if len(recs) != 8*50+1 || once != 1 {
		t.Errorf("got %d records with %d once-lines, want %d and 1", len(recs), once, 8*50+1)
	}
}

func TestLogger_ConfigureDuringConcurrentCalls(t *testing.T) {
	l := NewBuilder().WithHostname("h").Deferred().Build()

	var wg sync.WaitGroup
	for g := 0; g < 4; g++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := 0; i < 100; i++ {
				l.Info("x")
			}
		}()
	}
	l.Configure(Options{Level: "info"})
	wg.Wait()

	if got := len(records(t, l)); got != 400 {
		t.Errorf("got %d records, want 400", got)
	}
}

func BenchmarkLogger_LevelCheck(b *testing.B) {
	l := newTestLogger("warn")
	b.ReportAllocs()
	for i := 0; i < b.N; i++ {
		l.Debug("filtered")
	}
}

func BenchmarkLogger_Info(b *testing.B) {
	l := NewBuilder().WithHostname("h").WithLevel("info").WithStream(discard{}).Build()
	b.ReportAllocs()
	for i := 0; i < b.N; i++ {
		l.Info("request handled in %dms", 12)
	}
}

func BenchmarkLogger_InfoWithContext(b *testing.B) {
	l := NewBuilder().WithHostname("h").WithLevel("info").WithStream(discard{}).Build()
	ctx := core.Context{"route": "/users", "status": 200}
	b.ReportAllocs()
	for i := 0; i < b.N; i++ {
		l.Info(ctx, "handled")
	}
}

type discard struct{}

func (discard) Write(p []byte) (int, error) { return len(p), nil }

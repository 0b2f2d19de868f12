package trace

import (
	"bytes"
	"context"
	"encoding/json"
	"strings"
	"testing"
)

func TestParseLevel(t *testing.T) {
	for in, want := range map[string]Level{
		"off": LevelOff, "ERROR": LevelError, "phase": LevelPhase,
		"detail": LevelDetail, " debug ": LevelDebug, "": LevelOff,
	} {
		got, err := ParseLevel(in)
		if err != nil {
			t.Fatalf("ParseLevel(%q): %v", in, err)
		}
		if got != want {
			t.Errorf("ParseLevel(%q): expected %s, got %s", in, want, got)
		}
	}
	if _, err := ParseLevel("loud"); err == nil {
		t.Error("expected error for unknown level")
	}
}

func TestShouldEmit(t *testing.T) {
	tests := []struct {
		level Level
		scope Scope
		want  bool
	}{
		{LevelPhase, ScopePass, true},
		{LevelPhase, ScopeFile, false},
		{LevelDetail, ScopeFile, true},
		{LevelDetail, ScopeNode, false},
		{LevelDebug, ScopeNode, true},
		{LevelOff, ScopeDriver, false},
		{LevelError, ScopeDriver, false},
	}
	for _, tt := range tests {
		if got := tt.level.ShouldEmit(tt.scope); got != tt.want {
			t.Errorf("%s.ShouldEmit(%s): expected %v, got %v", tt.level, tt.scope, tt.want, got)
		}
	}
}

func TestStreamTracerText(t *testing.T) {
	var buf bytes.Buffer
	tr := NewStreamTracer(&buf, LevelDetail, FormatText)

	span := Begin(tr, ScopePass, "compile", 0)
	Point(tr, ScopeNode, "task", span.ID(), "filtered out")
	Point(tr, ScopeFile, "file", span.ID(), "index.html", "tasks", "3")
	span.WithExtra("bindings", "2").End("ok")

	out := buf.String()
	lines := strings.Split(strings.TrimSpace(out), "\n")
	if len(lines) != 3 {
		t.Fatalf("expected 3 lines, got %d:\n%s", len(lines), out)
	}
	if !strings.Contains(lines[0], "→ compile") {
		t.Errorf("unexpected begin line: %q", lines[0])
	}
	if !strings.Contains(lines[1], "• file (index.html) {tasks=3}") {
		t.Errorf("unexpected point line: %q", lines[1])
	}
	if !strings.Contains(lines[2], "← compile (ok) {bindings=2}") {
		t.Errorf("unexpected end line: %q", lines[2])
	}
}

func TestStreamTracerNDJSON(t *testing.T) {
	var buf bytes.Buffer
	tr := NewStreamTracer(&buf, LevelDebug, FormatNDJSON)
	Point(tr, ScopeNode, "dispatch", 0, "k-text", "node", "4")

	var got map[string]any
	if err := json.Unmarshal(buf.Bytes(), &got); err != nil {
		t.Fatalf("invalid json %q: %v", buf.String(), err)
	}
	if got["name"] != "dispatch" || got["scope"] != "node" || got["kind"] != "point" {
		t.Errorf("unexpected event: %v", got)
	}
}

func TestRingTracerWraps(t *testing.T) {
	r := NewRingTracer(3, LevelDebug)
	for i := 0; i < 5; i++ {
		Point(r, ScopeNode, string(rune('a'+i)), 0, "")
	}
	snap := r.Snapshot()
	if len(snap) != 3 {
		t.Fatalf("expected 3 events, got %d", len(snap))
	}
	var names []string
	for _, ev := range snap {
		names = append(names, ev.Name)
	}
	if strings.Join(names, "") != "cde" {
		t.Errorf("expected oldest events dropped, got %v", names)
	}

	var buf bytes.Buffer
	if err := r.Dump(&buf, FormatText); err != nil {
		t.Fatal(err)
	}
	if strings.Count(buf.String(), "\n") != 3 {
		t.Errorf("expected 3 dumped lines, got %q", buf.String())
	}
}

func TestRingAtErrorLevelKeepsEverything(t *testing.T) {
	r := NewRingTracer(8, LevelError)
	Point(r, ScopeNode, "n", 0, "")
	Begin(r, ScopePass, "p", 0).End("")
	if got := len(r.Snapshot()); got != 3 {
		t.Errorf("expected 3 events at error level, got %d", got)
	}
}

func TestWantsAtErrorLevel(t *testing.T) {
	var buf bytes.Buffer
	stream := NewStreamTracer(&buf, LevelError, FormatText)
	if Wants(stream, ScopeNode) || Wants(stream, ScopeDriver) {
		t.Error("stream tracer at error level should want nothing")
	}
	ring := NewRingTracer(4, LevelError)
	if !Wants(ring, ScopeNode) {
		t.Error("ring tracer at error level should keep node events")
	}
	if !Wants(NewMultiTracer(LevelError, stream, ring), ScopeNode) {
		t.Error("multi tracer with a ring should keep node events")
	}
	if Wants(NewMultiTracer(LevelError, stream), ScopeNode) {
		t.Error("multi tracer without a ring should want nothing")
	}
	Point(stream, ScopeNode, "n", 0, "")
	if buf.Len() != 0 {
		t.Errorf("expected no stream output, got %q", buf.String())
	}
}

func TestNewOffIsNop(t *testing.T) {
	tr, err := New(Config{Level: LevelOff})
	if err != nil {
		t.Fatal(err)
	}
	if tr.Enabled() {
		t.Error("expected disabled tracer")
	}
	span := Begin(tr, ScopeDriver, "x", 0)
	if span.ID() != 0 || span.End("") != 0 {
		t.Error("expected inert span from nop tracer")
	}
}

func TestNewBoth(t *testing.T) {
	var buf bytes.Buffer
	tr, err := New(Config{Level: LevelPhase, Mode: ModeBoth, Output: &buf})
	if err != nil {
		t.Fatal(err)
	}
	multi, ok := tr.(*MultiTracer)
	if !ok {
		t.Fatalf("expected *MultiTracer, got %T", tr)
	}
	Begin(tr, ScopeDriver, "run", 0).End("")
	ring, ok := multi.Ring()
	if !ok {
		t.Fatal("expected ring tracer inside multi tracer")
	}
	if len(ring.Snapshot()) != 2 || buf.Len() == 0 {
		t.Errorf("expected events in both sinks, ring=%d stream=%d bytes", len(ring.Snapshot()), buf.Len())
	}
}

func TestContextPropagation(t *testing.T) {
	if FromContext(context.Background()) != Nop {
		t.Error("expected Nop from empty context")
	}
	r := NewRingTracer(4, LevelDebug)
	ctx := WithTracer(context.Background(), r)
	if FromContext(ctx) != Tracer(r) {
		t.Error("expected tracer from context")
	}
	span := Begin(r, ScopePass, "p", 0)
	ctx = WithSpan(ctx, span)
	if CurrentSpan(ctx) != span.ID() {
		t.Errorf("expected span id %d, got %d", span.ID(), CurrentSpan(ctx))
	}
}

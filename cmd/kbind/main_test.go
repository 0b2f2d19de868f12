package main

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/google/go-cmp/cmp"

	"kbind/internal/diag"
	"kbind/internal/source"
)

func TestReadUIMode(t *testing.T) {
	for in, want := range map[string]uiMode{"": uiModeAuto, " ON ": uiModeOn, "off": uiModeOff} {
		got, err := readUIMode(in)
		if err != nil || got != want {
			t.Errorf("readUIMode(%q) = %q, %v", in, got, err)
		}
	}
	if _, err := readUIMode("sometimes"); err == nil {
		t.Errorf("expected an error for an invalid mode")
	}
}

func TestFilterWarnings(t *testing.T) {
	bag := diag.NewBag(0)
	bag.Add(diag.New(diag.SevWarning, diag.DirectiveUnknown, source.Span{}, "unknown"))
	bag.Add(diag.New(diag.SevInfo, diag.ObsTimings, source.Span{}, "timings"))

	if got := filterWarnings(bag, false, false); got != bag {
		t.Errorf("no-op filter must return the same bag")
	}
	if got := filterWarnings(bag, true, false); got.Len() != 1 || got.HasWarnings() {
		t.Errorf("warnings must be dropped, got %d items", got.Len())
	}
	promoted := filterWarnings(bag, false, true)
	if !promoted.HasErrors() {
		t.Errorf("warnings must become errors")
	}
	if bag.HasErrors() {
		t.Errorf("promotion must not mutate the input bag")
	}
}

func TestSplitJSON(t *testing.T) {
	var buf bytes.Buffer
	splitCmd.SetOut(&buf)
	t.Cleanup(func() {
		splitCmd.SetOut(nil)
		_ = splitCmd.Flags().Set("format", "text")
	})
	if err := splitCmd.Flags().Set("format", "json"); err != nil {
		t.Fatal(err)
	}
	if err := runSplit(splitCmd, []string{"Hi {{ name }}, {{{ html }}}!"}); err != nil {
		t.Fatalf("runSplit: %v", err)
	}

	var got splitOut
	if err := json.Unmarshal(buf.Bytes(), &got); err != nil {
		t.Fatalf("bad JSON %q: %v", buf.String(), err)
	}
	want := splitOut{
		Input: "Hi {{ name }}, {{{ html }}}!",
		Segments: []segmentOut{
			{Kind: "literal", Text: "Hi "},
			{Kind: "expr", Delim: "{{}}", Text: " name "},
			{Kind: "literal", Text: ", "},
			{Kind: "expr", Delim: "{{{}}}", Text: " html "},
			{Kind: "literal", Text: "!"},
		},
		Expression: "'Hi '+ name +', '+ html +'!'",
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("split mismatch (-want +got):\n%s", diff)
	}
}

func TestFilterSeverity(t *testing.T) {
	bag := diag.NewBag(0)
	bag.Add(diag.New(diag.SevInfo, diag.ObsTimings, source.Span{}, "timings"))
	bag.Add(diag.New(diag.SevWarning, diag.DirectiveUnknown, source.Span{}, "unknown"))
	bag.Add(diag.New(diag.SevError, diag.DirectiveEmptyName, source.Span{}, "empty"))

	if got := filterSeverity(bag, diag.SevWarning).Len(); got != 2 {
		t.Errorf("expected 2 diagnostics at warning and above, got %d", got)
	}
	if got := filterSeverity(bag, diag.SevError).Len(); got != 1 {
		t.Errorf("expected 1 error, got %d", got)
	}
}

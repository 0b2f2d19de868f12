package diag

import (
	"testing"

	"kbind/internal/source"
)

func sp(start, end uint32) source.Span {
	return source.Span{File: 0, Start: start, End: end}
}

func TestCodeID(t *testing.T) {
	cases := map[Code]string{
		MarkupStrayEndTag: "KB1001",
		DirectiveUnknown:  "KB2001",
		InterpUnbalanced:  "KB3001",
		IOLoadFileError:   "KB4001",
		ObsTimings:        "OBS6001",
		UnknownCode:       "KB0000",
	}
	for code, want := range cases {
		if got := code.ID(); got != want {
			t.Errorf("%d: expected %q, got %q", code, want, got)
		}
	}
	if got := Code(9999).Title(); got != "Unknown error" {
		t.Errorf("expected fallback title, got %q", got)
	}
	if got := DirectiveBadFor.String(); got != "[KB2005]: Malformed k-for expression" {
		t.Errorf("unexpected String(): %q", got)
	}
}

func TestBagLimitAndSeverity(t *testing.T) {
	b := NewBag(2)
	b.Add(New(SevWarning, DirectiveUnknown, sp(0, 1), "a"))
	b.Add(New(SevInfo, InterpEmpty, sp(2, 3), "b"))
	if ok := b.Add(New(SevError, DirectiveBadFor, sp(4, 5), "c")); ok {
		t.Fatal("expected third diagnostic to be dropped")
	}
	if b.Len() != 2 || b.Dropped() != 1 {
		t.Fatalf("expected 2 stored and 1 dropped, got %d/%d", b.Len(), b.Dropped())
	}
	if b.HasErrors() {
		t.Error("dropped error must not count")
	}
	if !b.HasWarnings() {
		t.Error("expected warnings")
	}
}

func TestBagSortAndDedup(t *testing.T) {
	b := NewBag(0)
	b.Add(New(SevWarning, DirectiveUnknown, sp(10, 12), "late"))
	b.Add(New(SevWarning, DirectiveUnknown, sp(0, 2), "early"))
	b.Add(New(SevError, DirectiveBadFor, sp(0, 2), "early error"))
	b.Add(New(SevWarning, DirectiveUnknown, sp(10, 12), "late"))

	b.Dedup()
	if b.Len() != 3 {
		t.Fatalf("expected 3 after dedup, got %d", b.Len())
	}
	b.Sort()
	got := []string{}
	for _, d := range b.Items() {
		got = append(got, d.Message)
	}
	want := []string{"early error", "early", "late"}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("expected order %v, got %v", want, got)
		}
	}
}

func TestBagMergeGrowsLimit(t *testing.T) {
	a := NewBag(1)
	a.Add(New(SevError, DirectiveBadFor, sp(0, 1), "a"))
	other := NewBag(0)
	other.Add(New(SevError, DirectiveBadFor, sp(1, 2), "b"))
	a.Merge(other)
	if a.Len() != 2 {
		t.Fatalf("expected 2 after merge, got %d", a.Len())
	}
}

func TestReportBuilderEmitsOnce(t *testing.T) {
	bag := NewBag(0)
	r := BagReporter{Bag: bag}
	b := ReportWarning(r, DirectiveUnknown, sp(0, 5), "unknown directive k-foo").
		WithNote(sp(0, 2), "registered directives: text")
	b.Emit()
	b.Emit()
	if bag.Len() != 1 {
		t.Fatalf("expected 1 diagnostic, got %d", bag.Len())
	}
	d := bag.Items()[0]
	if d.Severity != SevWarning || len(d.Notes) != 1 {
		t.Errorf("unexpected diagnostic: %+v", d)
	}
}

func TestDedupReporter(t *testing.T) {
	bag := NewBag(0)
	r := NewDedupReporter(BagReporter{Bag: bag})
	for i := 0; i < 3; i++ {
		ReportError(r, DirectiveBadFor, sp(3, 9), "bad").Emit()
	}
	ReportError(r, DirectiveBadFor, sp(3, 10), "bad").Emit()
	if bag.Len() != 2 {
		t.Errorf("expected 2 unique diagnostics, got %d", bag.Len())
	}
}

func TestFormatShort(t *testing.T) {
	fs := source.NewFileSet()
	id := fs.AddVirtual("page.html", []byte("<p>\n  <b k-foo=\"x\"></b>\n</p>\n"))
	at := func(start, end uint32) source.Span { return source.Span{File: id, Start: start, End: end} }

	diags := []*Diagnostic{
		New(SevError, MarkupUnclosedElement, at(0, 3), "element <p> is never closed"),
		New(SevWarning, DirectiveUnknown, at(9, 18), "unknown directive\nk-foo").
			WithNote(at(6, 8), "on this element"),
	}
	got := FormatShort(diags, fs, true)
	want := "error KB1002 page.html:1:1 element <p> is never closed\n" +
		"note KB2001 page.html:2:3 on this element\n" +
		"warning KB2001 page.html:2:6 unknown directive k-foo"
	if got != want {
		t.Errorf("unexpected output:\n%s\nwant:\n%s", got, want)
	}

	if FormatShort(nil, fs, false) != "" {
		t.Error("expected empty output for no diagnostics")
	}
}

func TestParseSeverity(t *testing.T) {
	cases := map[string]Severity{"": SevInfo, "INFO": SevInfo, "warn": SevWarning, " warning ": SevWarning, "Error": SevError}
	for in, want := range cases {
		got, err := ParseSeverity(in)
		if err != nil || got != want {
			t.Errorf("ParseSeverity(%q) = %v, %v; want %v", in, got, err, want)
		}
	}
	if _, err := ParseSeverity("fatal"); err == nil {
		t.Errorf("expected an error for an unknown severity")
	}
	if SevWarning.Label() != "warning" {
		t.Errorf("unexpected label %q", SevWarning.Label())
	}
}

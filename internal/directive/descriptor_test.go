package directive

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"

	"kbind/internal/dom"
	"kbind/internal/source"
)

func TestParse(t *testing.T) {
	tests := []struct {
		attr string
		want Descriptor
	}{
		{"k-text", Descriptor{Name: "text"}},
		{"k-on:click", Descriptor{Name: "on", Params: []string{"click"}}},
		{"k-on:keyup:enter", Descriptor{Name: "on", Params: []string{"keyup", "enter"}}},
		{"k-bind:", Descriptor{Name: "bind", Params: []string{""}}},
		{"k-", Descriptor{Name: ""}},
		{"k-:x", Descriptor{Name: "", Params: []string{"x"}}},
		{"data-k-show", Descriptor{Name: "data-k-show"}},
		{"data-link-html", Descriptor{Name: "data-link-html"}},
		{"mark-up:x", Descriptor{Name: "mark-up:x"}},
		{"k-model:a:b:c", Descriptor{Name: "model", Params: []string{"a", "b", "c"}}},
	}
	for _, tt := range tests {
		got := Parse(tt.attr, "expr")
		tt.want.Attr = tt.attr
		tt.want.Expression = "expr"
		if diff := cmp.Diff(tt.want, got); diff != "" {
			t.Errorf("Parse(%q) mismatch (-want +got):\n%s", tt.attr, diff)
		}
	}
}

func TestIsDirective(t *testing.T) {
	for name, want := range map[string]bool{
		"k-if":       true,
		"class":      false,
		"data-k-on":  true,
		"k":          false,
		"kk-":        true,
		"href":       false,
		"mark-up":    true,
		"K-TEXT":     false,
		"k-on:click": true,
	} {
		if got := IsDirective(name); got != want {
			t.Errorf("IsDirective(%q): expected %v, got %v", name, want, got)
		}
	}
}

func buildElement(attrs ...dom.Attr) (*dom.Tree, dom.NodeID) {
	tree := dom.NewTree()
	return tree, tree.NewElement("div", attrs, source.Span{})
}

func TestExtractOrderAndIdempotence(t *testing.T) {
	tree, el := buildElement(
		dom.Attr{Name: "class", Value: "box"},
		dom.Attr{Name: "k-show", Value: "visible"},
		dom.Attr{Name: "id", Value: "x"},
		dom.Attr{Name: "k-on:click", Value: "toggle()"},
		dom.Attr{Name: "k-unknown", Value: "whatever"},
	)

	first := Extract(tree, el)
	names := make([]string, 0, len(first))
	for _, d := range first {
		names = append(names, d.Name)
	}
	if diff := cmp.Diff([]string{"show", "on", "unknown"}, names); diff != "" {
		t.Errorf("descriptor order mismatch (-want +got):\n%s", diff)
	}
	if first[1].Expression != "toggle()" {
		t.Errorf("expected expression toggle(), got %q", first[1].Expression)
	}

	second := Extract(tree, el)
	if diff := cmp.Diff(first, second); diff != "" {
		t.Errorf("extraction is not idempotent:\n%s", diff)
	}
}

func TestExtractIgnoresNonElements(t *testing.T) {
	tree := dom.NewTree()
	txt := tree.NewText("{{ a }}", source.Span{})
	if got := Extract(tree, txt); got != nil {
		t.Errorf("expected nil for text node, got %v", got)
	}
	if got := Extract(tree, dom.NoNode); got != nil {
		t.Errorf("expected nil for missing node, got %v", got)
	}
}

func TestHasDirective(t *testing.T) {
	tree := dom.NewTree()
	withDir := tree.NewElement("p", []dom.Attr{{Name: "title", Value: "t"}, {Name: "k-text", Value: "msg"}}, source.Span{})
	plain := tree.NewElement("p", []dom.Attr{{Name: "title", Value: "t"}}, source.Span{})
	interpolated := tree.NewText("Hello {{ name }}", source.Span{})
	static := tree.NewText("Hello", source.Span{})
	comment := tree.NewComment("{{ x }}", source.Span{})

	tests := []struct {
		name string
		id   dom.NodeID
		want bool
	}{
		{"element with directive", withDir, true},
		{"plain element", plain, false},
		{"interpolated text", interpolated, true},
		{"static text", static, false},
		{"comment", comment, false},
		{"missing", dom.NoNode, false},
	}
	for _, tt := range tests {
		if got := HasDirective(tree, tt.id); got != tt.want {
			t.Errorf("%s: expected %v, got %v", tt.name, tt.want, got)
		}
	}
}

func TestIsLateCompile(t *testing.T) {
	tests := []struct {
		attr string
		want bool
	}{
		{"k-if", true},
		{"k-for", true},
		{"k-pre", true},
		{"k-show", false},
		{"k-for:x", false},
		{"data-k-if", false},
	}
	for _, tt := range tests {
		tree, el := buildElement(dom.Attr{Name: tt.attr, Value: "x"})
		if got := IsLateCompile(tree, el); got != tt.want {
			t.Errorf("IsLateCompile(%q): expected %v, got %v", tt.attr, tt.want, got)
		}
	}
}

func TestExtractKeepsSpans(t *testing.T) {
	span := source.Span{File: 3, Start: 5, End: 17}
	tree, el := buildElement(dom.Attr{Name: "k-text", Value: "msg", Span: span})
	got := Extract(tree, el)
	want := []Descriptor{{Name: "text", Expression: "msg", Attr: "k-text", Span: span}}
	if diff := cmp.Diff(want, got, cmpopts.EquateEmpty()); diff != "" {
		t.Errorf("descriptor mismatch (-want +got):\n%s", diff)
	}
}

package binding

import (
	"testing"

	"github.com/google/go-cmp/cmp"

	"kbind/internal/diag"
	"kbind/internal/markup"
	"kbind/internal/plan"
	"kbind/internal/source"
)

func compileSource(t *testing.T, src string, custom ...string) (*plan.Plan, *diag.Bag) {
	t.Helper()
	fs := source.NewFileSet()
	id := fs.AddVirtual("view.html", []byte(src))
	bag := diag.NewBag(0)
	rep := diag.BagReporter{Bag: bag}
	tree, root := markup.Parse(fs, id, markup.Options{}, rep)
	v, err := NewView(fs, tree, "view.html", Options{Custom: custom, Reporter: rep})
	if err != nil {
		t.Fatalf("NewView: %v", err)
	}
	p, _ := v.Compile(root)
	return p, bag
}

type row struct {
	Directive string
	Expr      string
	Scope     string
	Template  int
}

func rows(p *plan.Plan) []row {
	out := make([]row, 0, len(p.Bindings))
	for _, b := range p.Bindings {
		out = append(out, row{b.Directive, b.Expression, b.Scope, b.Template})
	}
	return out
}

const page = `<div k-show="ready">
  <ul>
    <li k-for="(item, i) in items" k-class="cls">{{ item.name }}<span k-if="item.done">done {{ i }}</span></li>
  </ul>
  <pre k-pre>{{ raw }}</pre>
  <button k-on:click="save()">Save</button>
</div>`

func TestCompilePage(t *testing.T) {
	p, bag := compileSource(t, page)
	if bag.Len() != 0 {
		t.Fatalf("expected no diagnostics, got %+v", bag.Items())
	}

	want := []row{
		{"show", "ready", "", 0},
		{"on", "save()", "", 0},
		{"pre", "", "", 0},
		{"for", "(item, i) in items", "", 0},
		{"if", "item.done", "item, i", 1},
		{"text", "'done '+ i +''", "item, i", 2},
		{"text", "''+ item.name +''", "item, i", 1},
		{"class", "cls", "", 0},
	}
	if diff := cmp.Diff(want, rows(p)); diff != "" {
		t.Errorf("plan mismatch (-want +got):\n%s", diff)
	}
	if p.Templates != 2 {
		t.Errorf("expected 2 materialized templates, got %d", p.Templates)
	}
	if p.Deferred != 3 {
		t.Errorf("expected 3 deferred subtrees, got %d", p.Deferred)
	}

	on := p.Bindings[1]
	if on.Tag != "button" || on.Line != 6 || on.Col != 3 {
		t.Errorf("unexpected position for k-on: %+v", on)
	}
	if diff := cmp.Diff([]string{"click"}, on.Params); diff != "" {
		t.Errorf("params mismatch (-want +got):\n%s", diff)
	}
}

func TestBadForReportsAndSkips(t *testing.T) {
	p, bag := compileSource(t, `<li k-for="items">{{ x }}</li>`)
	if len(p.Bindings) != 0 || p.Templates != 0 {
		t.Errorf("malformed k-for must not bind anything, got %+v", p.Bindings)
	}
	if bag.Len() != 1 || bag.Items()[0].Code != diag.DirectiveBadFor {
		t.Fatalf("expected one DirectiveBadFor, got %+v", bag.Items())
	}
	if sp := bag.Items()[0].Primary; sp.Start != 4 || sp.End != 9 {
		t.Errorf("expected the attribute span, got %v", sp)
	}
}

func TestParamAndExpressionChecks(t *testing.T) {
	p, bag := compileSource(t, `<a k-on="go()" k-show=" "></a>`)
	var codes []diag.Code
	for _, d := range bag.Items() {
		codes = append(codes, d.Code)
	}
	want := []diag.Code{diag.DirectiveMissingParam, diag.DirectiveEmptyExpression}
	if diff := cmp.Diff(want, codes); diff != "" {
		t.Errorf("codes mismatch (-want +got):\n%s", diff)
	}
	if len(p.Bindings) != 1 || p.Bindings[0].Directive != "show" {
		t.Errorf("expected only k-show to be recorded, got %+v", p.Bindings)
	}
}

func TestCustomDirectives(t *testing.T) {
	reg, err := NewRegistry("tooltip", "k-focus", "show")
	if err != nil {
		t.Fatal(err)
	}
	for _, name := range []string{"tooltip", "focus", "show", "text"} {
		if !reg.Has(name) {
			t.Errorf("expected %q to be registered", name)
		}
	}
	if reg.Len() != len(Builtins)+2 {
		t.Errorf("expected %d directives, got %d: %v", len(Builtins)+2, reg.Len(), reg.Names())
	}
	if diff := cmp.Diff(Builtins, builtinNames(reg.Names())); diff != "" {
		t.Errorf("Builtins out of sync with the registry (-want +got):\n%s", diff)
	}

	if _, err := NewRegistry(" "); err == nil {
		t.Error("expected error for an empty custom name")
	}

	p, _ := compileSource(t, `<b k-tooltip:top="hint" k-unknown="x"></b>`, "tooltip")
	want := []row{{"tooltip", "hint", "", 0}}
	if diff := cmp.Diff(want, rows(p)); diff != "" {
		t.Errorf("plan mismatch (-want +got):\n%s", diff)
	}
}

func builtinNames(names []string) []string {
	var out []string
	for _, n := range names {
		if n != "tooltip" && n != "focus" {
			out = append(out, n)
		}
	}
	return out
}

func TestParseFor(t *testing.T) {
	tests := []struct {
		in                   string
		alias, index, source string
		ok                   bool
	}{
		{"item in items", "item", "", "items", true},
		{"  (item, i) of list.slice(1) ", "item", "i", "list.slice(1)", true},
		{"(row) in rows", "row", "", "rows", true},
		{"$x in xs", "$x", "", "xs", true},
		{"items", "", "", "", false},
		{"in items", "", "", "", false},
		{"(a, b, c) in xs", "", "", "", false},
		{"item in ", "", "", "", false},
	}
	for _, tt := range tests {
		alias, index, src, err := ParseFor(tt.in)
		if (err == nil) != tt.ok {
			t.Errorf("ParseFor(%q): expected ok=%v, got err %v", tt.in, tt.ok, err)
			continue
		}
		if alias != tt.alias || index != tt.index || src != tt.source {
			t.Errorf("ParseFor(%q) = %q, %q, %q", tt.in, alias, index, src)
		}
	}
}

func TestNestedForScope(t *testing.T) {
	p, _ := compileSource(t, `<tr k-for="row in rows"><td k-for="(cell, j) in row.cells">{{ cell }}</td></tr>`)
	last := p.Bindings[len(p.Bindings)-1]
	if last.Directive != "text" || last.Scope != "row > cell, j" || last.Depth != 2 {
		t.Errorf("unexpected innermost binding: %+v", last)
	}
	s := &ForScope{Alias: "cell", Index: "j", Parent: &ForScope{Alias: "row"}}
	if diff := cmp.Diff([]string{"cell", "j", "row"}, s.Names()); diff != "" {
		t.Errorf("names mismatch (-want +got):\n%s", diff)
	}
}

func TestRecompileStartsFreshPlan(t *testing.T) {
	fs := source.NewFileSet()
	id := fs.AddVirtual("view.html", []byte(page))
	tree, root := markup.Parse(fs, id, markup.Options{}, diag.NopReporter{})
	v, err := NewView(fs, tree, "view.html", Options{})
	if err != nil {
		t.Fatalf("NewView: %v", err)
	}

	first, firstStats := v.Compile(root)
	firstRows, firstTemplates := rows(first), first.Templates

	second, secondStats := v.Compile(root)
	if diff := cmp.Diff(firstRows, rows(second)); diff != "" {
		t.Errorf("second compile mismatch (-first +second):\n%s", diff)
	}
	if second.Templates != firstTemplates || second.Deferred != first.Deferred {
		t.Errorf("expected %d templates and %d deferred, got %d and %d",
			firstTemplates, first.Deferred, second.Templates, second.Deferred)
	}
	if diff := cmp.Diff(firstRows, rows(first)); diff != "" {
		t.Errorf("earlier plan changed by recompile:\n%s", diff)
	}
	if firstStats.Directives != secondStats.Directives {
		t.Errorf("expected %d directives, got %d", firstStats.Directives, secondStats.Directives)
	}
	if second.Bindings[0].Seq != 1 {
		t.Errorf("expected sequence to restart at 1, got %d", second.Bindings[0].Seq)
	}
}

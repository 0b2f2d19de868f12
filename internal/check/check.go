// Package check lints templates for mistakes the compiler silently tolerates:
// unknown or empty directive names, late-compile nodes nobody will compile,
// repeated directives and interpolation markers that never close.
package check

import (
	"fmt"
	"sort"
	"strings"

	"github.com/agnivade/levenshtein"

	"kbind/internal/diag"
	"kbind/internal/directive"
	"kbind/internal/dom"
	"kbind/internal/interp"
	"kbind/internal/source"
)

// Summary counts what Diagnose looked at.
type Summary struct {
	Elements   int
	Directives int
	TextNodes  int
	Skipped    int // nodes under k-pre
}

type checker struct {
	tree  *dom.Tree
	known map[string]bool
	names []string
	rep   diag.Reporter
	sum   Summary
}

// Diagnose walks the subtree at root, including the children of late-compile
// nodes, and reports problems to r. known lists registered directive names.
func Diagnose(tree *dom.Tree, root dom.NodeID, known []string, r diag.Reporter) Summary {
	c := checker{
		tree:  tree,
		known: make(map[string]bool, len(known)),
		names: append([]string(nil), known...),
		rep:   r,
	}
	for _, name := range known {
		c.known[name] = true
	}
	sort.Strings(c.names)

	tree.Walk(root, func(id dom.NodeID, _ int) bool {
		switch tree.Kind(id) {
		case dom.KindElement, dom.KindFragment:
			c.sum.Elements++
			c.element(id)
			if _, pre := tree.Attr(id, directive.Prefix+directive.NamePre); pre {
				c.sum.Skipped += countDescendants(tree, id)
				return false
			}
		case dom.KindText:
			c.sum.TextNodes++
			c.text(id)
		}
		return true
	})
	return c.sum
}

func (c *checker) element(id dom.NodeID) {
	first := make(map[string]directive.Descriptor)
	for _, d := range directive.Extract(c.tree, id) {
		if !strings.HasPrefix(d.Attr, directive.Prefix) {
			// data-link-html и подобные: не директива, молча пропускаем
			continue
		}
		c.sum.Directives++
		if d.Name == "" {
			diag.ReportError(c.rep, diag.DirectiveEmptyName, d.Span,
				fmt.Sprintf("attribute %q has no directive name after %q", d.Attr, directive.Prefix)).Emit()
			continue
		}

		key := strings.Join(append([]string{d.Name}, d.Params...), ":")
		if prev, dup := first[key]; dup {
			diag.ReportWarning(c.rep, diag.DirectiveDuplicate, d.Span,
				fmt.Sprintf("directive %q repeated on <%s>", d.Attr, c.tree.Tag(id))).
				WithNote(prev.Span, "first used here").
				Emit()
		} else {
			first[key] = d
		}

		if c.known[d.Name] {
			continue
		}
		if directive.IsLateCompile(c.tree, id) && isLateName(d) {
			diag.ReportWarning(c.rep, diag.DirectiveLateCompileUnbound, d.Span,
				fmt.Sprintf("children of <%s> are deferred to %q, which is not registered", c.tree.Tag(id), d.Attr)).Emit()
			continue
		}
		b := diag.ReportWarning(c.rep, diag.DirectiveUnknown, d.Span,
			fmt.Sprintf("unknown directive %q", d.Name))
		if s := c.suggest(d.Name); s != "" {
			b.WithNote(d.Span, fmt.Sprintf("did you mean %q?", directive.Prefix+s))
		}
		b.Emit()
	}
}

func isLateName(d directive.Descriptor) bool {
	if d.Params != nil {
		return false
	}
	switch d.Name {
	case directive.NameIf, directive.NameFor, directive.NamePre:
		return d.Attr == directive.Prefix+d.Name
	}
	return false
}

// suggest returns the closest known name within two edits.
func (c *checker) suggest(name string) string {
	best, bestDist := "", 3
	for _, k := range c.names {
		if d := levenshtein.ComputeDistance(name, k); d < bestDist {
			best, bestDist = k, d
		}
	}
	return best
}

func (c *checker) text(id dom.NodeID) {
	text := c.tree.Text(id)
	if !strings.Contains(text, "{{") && !strings.Contains(text, "}}") {
		return
	}
	sp := c.tree.Span(id)
	exact := int(sp.Len()) == len(text)
	at := func(off, n int) source.Span {
		if !exact {
			return sp
		}
		return sp.Sub(uint32(off), uint32(off+n)) //nolint:gosec
	}

	off := 0
	for _, seg := range interp.Split(text) {
		src := seg.Source()
		if seg.IsExpr() {
			if strings.TrimSpace(seg.Text) == "" {
				diag.ReportWarning(c.rep, diag.InterpEmpty, at(off, len(src)), "interpolation has no expression").Emit()
			}
			off += len(src)
			continue
		}
		if i := emptyMarker(seg.Text); i >= 0 {
			diag.ReportWarning(c.rep, diag.InterpEmpty, at(off+i, 4), "interpolation has no expression").Emit()
		} else if i := unbalanced(seg.Text); i >= 0 {
			diag.ReportWarning(c.rep, diag.InterpUnbalanced, at(off+i, 2),
				"unbalanced interpolation delimiter; the text is rendered literally").Emit()
		}
		off += len(src)
	}
}

func emptyMarker(lit string) int {
	return strings.Index(lit, "{{}}")
}

func unbalanced(lit string) int {
	open, closing := strings.Index(lit, "{{"), strings.Index(lit, "}}")
	switch {
	case open < 0:
		return closing
	case closing < 0:
		return open
	default:
		return min(open, closing)
	}
}

func countDescendants(tree *dom.Tree, id dom.NodeID) int {
	n := -1
	tree.Walk(id, func(dom.NodeID, int) bool {
		n++
		return true
	})
	return n
}

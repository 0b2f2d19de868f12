package testkit

import (
	"strings"
	"testing"

	"kbind/internal/dom"
	"kbind/internal/source"
)

func TestCheckTreeInvariants(t *testing.T) {
	fs := source.NewFileSet()
	id := fs.AddVirtual("t.html", []byte("<p>hi</p>"))
	sp := func(a, b uint32) source.Span { return source.Span{File: id, Start: a, End: b} }

	tree := dom.NewTree()
	root := tree.NewFragment(sp(0, 9))
	p := tree.NewElement("p", nil, sp(0, 9))
	tree.Append(root, p)
	tree.Append(p, tree.NewText("hi", sp(3, 5)))
	if err := CheckTreeInvariants(tree, root, fs.Get(id)); err != nil {
		t.Fatalf("valid tree rejected: %v", err)
	}

	stray := tree.NewText("x", sp(2, 12))
	tree.Append(p, stray)
	err := CheckTreeInvariants(tree, root, fs.Get(id))
	if err == nil || !strings.Contains(err.Error(), "outside parent") {
		t.Fatalf("expected a containment error, got %v", err)
	}
}

package dom

import (
	"fmt"
	"slices"

	"kbind/internal/source"
)

// Tree is an arena-backed node tree. Nodes are never freed; Clone and
// Fragment append fresh copies so materialized sub-templates never alias the
// nodes they were copied from.
type Tree struct {
	nodes *Arena[Node]
}

// NewTree creates an empty tree.
func NewTree() *Tree {
	return &Tree{nodes: NewArena[Node](64)}
}

func (t *Tree) add(n Node) NodeID {
	return NodeID(t.nodes.Allocate(n))
}

// NewFragment allocates an empty fragment node.
func (t *Tree) NewFragment(span source.Span) NodeID {
	return t.add(Node{Kind: KindFragment, Span: span})
}

// NewElement allocates an element. attrs is retained as given.
func (t *Tree) NewElement(tag string, attrs []Attr, span source.Span) NodeID {
	return t.add(Node{Kind: KindElement, Tag: tag, Attrs: attrs, Span: span})
}

// NewText allocates a text node.
func (t *Tree) NewText(text string, span source.Span) NodeID {
	return t.add(Node{Kind: KindText, Text: text, Span: span})
}

// NewComment allocates a comment node.
func (t *Tree) NewComment(text string, span source.Span) NodeID {
	return t.add(Node{Kind: KindComment, Text: text, Span: span})
}

// Append makes child the last child of parent.
func (t *Tree) Append(parent, child NodeID) {
	p := t.nodes.Get(uint32(parent))
	if p == nil || !p.Kind.IsElementLike() {
		panic(fmt.Sprintf("dom: cannot append to node %d", parent))
	}
	c := t.nodes.Get(uint32(child))
	if c == nil {
		panic(fmt.Sprintf("dom: unknown child node %d", child))
	}
	c.Parent = parent
	p.Children = append(p.Children, child)
}

// Get returns the node record, or nil for unknown ids. The pointer is only
// valid until the next allocation.
func (t *Tree) Get(id NodeID) *Node {
	return t.nodes.Get(uint32(id))
}

// Len returns the number of allocated nodes.
func (t *Tree) Len() int {
	return int(t.nodes.Len())
}

func (t *Tree) Kind(id NodeID) Kind {
	if n := t.Get(id); n != nil {
		return n.Kind
	}
	return KindInvalid
}

func (t *Tree) Attrs(id NodeID) []Attr {
	if n := t.Get(id); n != nil {
		return n.Attrs
	}
	return nil
}

func (t *Tree) Children(id NodeID) []NodeID {
	if n := t.Get(id); n != nil {
		return n.Children
	}
	return nil
}

func (t *Tree) Text(id NodeID) string {
	if n := t.Get(id); n != nil {
		return n.Text
	}
	return ""
}

func (t *Tree) Tag(id NodeID) string {
	if n := t.Get(id); n != nil {
		return n.Tag
	}
	return ""
}

func (t *Tree) Span(id NodeID) source.Span {
	if n := t.Get(id); n != nil {
		return n.Span
	}
	return source.Span{}
}

func (t *Tree) Parent(id NodeID) NodeID {
	if n := t.Get(id); n != nil {
		return n.Parent
	}
	return NoNode
}

// HasChildren reports whether id has at least one child.
func (t *Tree) HasChildren(id NodeID) bool {
	return len(t.Children(id)) > 0
}

// Attr returns the value of the attribute with exactly this name.
func (t *Tree) Attr(id NodeID, name string) (string, bool) {
	return LookupAttr(t, id, name)
}

// HasAttr reports whether id carries an attribute with exactly this name.
func (t *Tree) HasAttr(id NodeID, name string) bool {
	_, ok := LookupAttr(t, id, name)
	return ok
}

// LookupAttr finds an attribute by exact name through any Reader.
func LookupAttr(r Reader, id NodeID, name string) (string, bool) {
	for _, a := range r.Attrs(id) {
		if a.Name == name {
			return a.Value, true
		}
	}
	return "", false
}

// Clone deep-copies the subtree rooted at id. The copy has no parent.
func (t *Tree) Clone(id NodeID) NodeID {
	src := t.Get(id)
	if src == nil {
		return NoNode
	}
	// copy before allocating: Allocate may move the backing array
	n := *src
	n.Parent = NoNode
	n.Attrs = slices.Clone(n.Attrs)
	children := n.Children
	n.Children = nil
	copyID := t.add(n)
	for _, child := range children {
		t.Append(copyID, t.Clone(child))
	}
	return copyID
}

// Fragment allocates a fragment whose children are clones of nodes.
func (t *Tree) Fragment(nodes ...NodeID) NodeID {
	var span source.Span
	for i, id := range nodes {
		if i == 0 {
			span = t.Span(id)
		} else {
			span = span.Cover(t.Span(id))
		}
	}
	frag := t.NewFragment(span)
	for _, id := range nodes {
		t.Append(frag, t.Clone(id))
	}
	return frag
}

// Walk visits the subtree rooted at id in document order. Returning false
// from fn skips the children of the visited node.
func (t *Tree) Walk(id NodeID, fn func(id NodeID, depth int) bool) {
	t.walk(id, 0, fn)
}

func (t *Tree) walk(id NodeID, depth int, fn func(NodeID, int) bool) {
	if t.Get(id) == nil {
		return
	}
	if !fn(id, depth) {
		return
	}
	for _, child := range t.Children(id) {
		t.walk(child, depth+1, fn)
	}
}

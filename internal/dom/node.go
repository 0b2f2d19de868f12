package dom

import "kbind/internal/source"

// NodeID addresses a node inside a Tree. Zero is NoNode.
type NodeID uint32

// NoNode is the zero NodeID.
const NoNode NodeID = 0

// Kind classifies a node.
type Kind uint8

const (
	KindInvalid Kind = iota
	// KindFragment is an attribute-less container, the root of parsed markup
	// and of materialized sub-templates.
	KindFragment
	KindElement
	KindText
	KindComment
)

func (k Kind) String() string {
	switch k {
	case KindFragment:
		return "fragment"
	case KindElement:
		return "element"
	case KindText:
		return "text"
	case KindComment:
		return "comment"
	default:
		return "invalid"
	}
}

// IsElementLike reports whether nodes of this kind carry attributes and children.
func (k Kind) IsElementLike() bool {
	return k == KindElement || k == KindFragment
}

// Attr is one attribute in source order.
type Attr struct {
	Name  string
	Value string
	Span  source.Span
}

// Node is the arena record behind a NodeID.
type Node struct {
	Kind     Kind
	Tag      string // elements only
	Attrs    []Attr // elements only
	Text     string // text and comment nodes
	Parent   NodeID
	Children []NodeID
	Span     source.Span
}

// Reader is the read-only view of a tree that the compiler walks.
type Reader interface {
	Kind(id NodeID) Kind
	Attrs(id NodeID) []Attr
	Children(id NodeID) []NodeID
	Text(id NodeID) string
}

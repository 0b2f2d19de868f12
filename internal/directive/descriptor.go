package directive

import (
	"strings"

	"kbind/internal/dom"
	"kbind/internal/interp"
	"kbind/internal/source"
)

// Prefix marks directive attributes.
const Prefix = "k-"

const paramSep = ":"

// Names of directives whose subtree is compiled by the directive instance
// instead of the current pass.
const (
	NameIf  = "if"
	NameFor = "for"
	NamePre = "pre"
	// NameText is the directive constructed for interpolated text nodes.
	NameText = "text"
)

var lateCompileAttrs = [...]string{Prefix + NameIf, Prefix + NameFor, Prefix + NamePre}

// Descriptor is one directive attribute split into its parts.
type Descriptor struct {
	Name       string
	Params     []string
	Expression string
	Attr       string      // attribute name as written
	Span       source.Span // attribute span, zero when unknown
}

// IsDirective reports whether an attribute name carries the directive prefix.
func IsDirective(attrName string) bool {
	return strings.Contains(attrName, Prefix)
}

// Parse splits a directive attribute name. Only a leading prefix is stripped;
// a name that merely contains it ("data-link-html") comes back whole, without
// params, so no registered directive matches it. An empty name is returned as is.
func Parse(attrName, value string) Descriptor {
	rest, ok := strings.CutPrefix(attrName, Prefix)
	if !ok {
		return Descriptor{Name: attrName, Expression: value, Attr: attrName}
	}
	name, params, hasParams := strings.Cut(rest, paramSep)
	d := Descriptor{
		Name:       name,
		Expression: value,
		Attr:       attrName,
	}
	if hasParams {
		d.Params = strings.Split(params, paramSep)
	}
	return d
}

// Extract returns the descriptors of every directive attribute on id, in
// attribute order. Nodes that are not element-like yield nil.
func Extract(tree dom.Reader, id dom.NodeID) []Descriptor {
	if !tree.Kind(id).IsElementLike() {
		return nil
	}
	var out []Descriptor
	for _, attr := range tree.Attrs(id) {
		if !IsDirective(attr.Name) {
			continue
		}
		d := Parse(attr.Name, attr.Value)
		d.Span = attr.Span
		out = append(out, d)
	}
	return out
}

// HasDirective reports whether id needs binding: an element-like node with at
// least one directive attribute, or a text node containing a marker.
func HasDirective(tree dom.Reader, id dom.NodeID) bool {
	switch kind := tree.Kind(id); {
	case kind.IsElementLike():
		attrs := tree.Attrs(id)
		for i := len(attrs) - 1; i >= 0; i-- {
			if IsDirective(attrs[i].Name) {
				return true
			}
		}
		return false
	case kind == dom.KindText:
		return interp.Has(tree.Text(id))
	default:
		return false
	}
}

// IsLateCompile reports whether id carries k-if, k-for or k-pre. Only exact
// attribute names count; "k-for:x" is not late-compile.
func IsLateCompile(tree dom.Reader, id dom.NodeID) bool {
	for _, name := range lateCompileAttrs {
		if _, ok := dom.LookupAttr(tree, id, name); ok {
			return true
		}
	}
	return false
}

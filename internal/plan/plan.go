// Package plan holds the binding plan: the record of every directive a compile
// pass constructed, in construction order.
package plan

import (
	"kbind/internal/source"
)

// Binding is one constructed directive.
type Binding struct {
	Seq        int         `json:"seq" yaml:"seq" msgpack:"seq"`
	Directive  string      `json:"directive" yaml:"directive" msgpack:"directive"`
	Node       uint32      `json:"node" yaml:"node" msgpack:"node"`
	Tag        string      `json:"tag,omitempty" yaml:"tag,omitempty" msgpack:"tag,omitempty"`
	Line       uint32      `json:"line" yaml:"line" msgpack:"line"`
	Col        uint32      `json:"col" yaml:"col" msgpack:"col"`
	Expression string      `json:"expression" yaml:"expression" msgpack:"expression"`
	Params     []string    `json:"params,omitempty" yaml:"params,omitempty" msgpack:"params,omitempty"`
	Scope      string      `json:"scope,omitempty" yaml:"scope,omitempty" msgpack:"scope,omitempty"`
	Template   int         `json:"template" yaml:"template" msgpack:"template"`
	Depth      int         `json:"depth,omitempty" yaml:"depth,omitempty" msgpack:"depth,omitempty"`
	Span       source.Span `json:"-" yaml:"-" msgpack:"span"`
}

// Plan is the compile result for one template file.
type Plan struct {
	File      string    `json:"file" yaml:"file" msgpack:"file"`
	Bindings  []Binding `json:"bindings" yaml:"bindings" msgpack:"bindings"`
	Templates int       `json:"templates" yaml:"templates" msgpack:"templates"` // materialized sub-templates
	Deferred  int       `json:"deferred" yaml:"deferred" msgpack:"deferred"`    // subtrees left to directives
}

// New returns an empty plan for file.
func New(file string) *Plan {
	return &Plan{File: file, Bindings: []Binding{}}
}

// Add appends b, assigning its sequence number.
func (p *Plan) Add(b Binding) {
	b.Seq = len(p.Bindings) + 1
	p.Bindings = append(p.Bindings, b)
}

// Count returns how many bindings use directive name.
func (p *Plan) Count(name string) int {
	n := 0
	for _, b := range p.Bindings {
		if b.Directive == name {
			n++
		}
	}
	return n
}

// ByTemplate returns the bindings recorded for template t, in order.
func (p *Plan) ByTemplate(t int) []Binding {
	var out []Binding
	for _, b := range p.Bindings {
		if b.Template == t {
			out = append(out, b)
		}
	}
	return out
}

package compiler

import (
	"strconv"

	"kbind/internal/directive"
	"kbind/internal/dom"
	"kbind/internal/trace"
)

// Task is one node scheduled for binding together with the scope it sees.
type Task struct {
	Node  dom.NodeID
	Scope directive.Scope
}

// Stats counts what a compile pass did.
type Stats struct {
	Tasks       int // scheduled nodes
	Directives  int // element directives constructed
	Unknown     int // descriptors with no registered factory
	TextNodes   int // text directives constructed
	Deferred    int // late-compile nodes whose children were skipped
	NestedCalls int // Compile calls made by directives during this pass
}

// Option configures a Compiler.
type Option func(*options)

type options struct {
	tracer trace.Tracer
}

// WithTracer makes the compiler emit pass and node events to t.
func WithTracer(t trace.Tracer) Option {
	return func(o *options) {
		if t != nil {
			o.tracer = t
		}
	}
}

// Compiler binds template trees for one view model.
type Compiler[V any] struct {
	vm     V
	tree   dom.Reader
	reg    *directive.Registry[V]
	tracer trace.Tracer

	traceNodes bool

	depth  int    // nesting of Compile calls
	span   uint64 // innermost running pass span
	last   Stats
	totals Stats
}

// New creates a compiler that reads tree and constructs directives from reg,
// handing vm to every factory.
func New[V any](vm V, tree dom.Reader, reg *directive.Registry[V], opts ...Option) *Compiler[V] {
	o := options{tracer: trace.Nop}
	for _, opt := range opts {
		opt(&o)
	}
	return &Compiler[V]{
		vm:     vm,
		tree:   tree,
		reg:    reg,
		tracer: o.tracer,

		traceNodes: trace.Wants(o.tracer, trace.ScopeNode),
	}
}

// Tree returns the tree the compiler reads.
func (c *Compiler[V]) Tree() dom.Reader {
	return c.tree
}

// Registry returns the directive registry.
func (c *Compiler[V]) Registry() *directive.Registry[V] {
	return c.reg
}

// Compile schedules root and dispatches the resulting tasks exactly once.
// The returned stats cover this call and every nested call it triggered.
func (c *Compiler[V]) Compile(root dom.NodeID, scope directive.Scope) Stats {
	if c.depth > 0 {
		c.totals.NestedCalls++
	}
	c.depth++
	parent := c.span
	span := trace.Begin(c.tracer, trace.ScopePass, "compile", parent)
	c.span = span.ID()
	before := c.totals

	tasks, deferred := c.schedule(root, scope)
	c.totals.Tasks += len(tasks)
	c.totals.Deferred += deferred
	c.dispatch(tasks)

	stats := c.totals
	stats.sub(before)

	span.WithExtra("tasks", strconv.Itoa(stats.Tasks)).
		WithExtra("directives", strconv.Itoa(stats.Directives)).
		WithExtra("unknown", strconv.Itoa(stats.Unknown)).
		WithExtra("text", strconv.Itoa(stats.TextNodes)).
		End("")
	c.span = parent
	c.depth--
	c.last = stats
	return stats
}

func (s *Stats) sub(o Stats) {
	s.Tasks -= o.Tasks
	s.Directives -= o.Directives
	s.Unknown -= o.Unknown
	s.TextNodes -= o.TextNodes
	s.Deferred -= o.Deferred
	s.NestedCalls -= o.NestedCalls
}

// LastStats returns the stats of the most recently finished Compile call.
func (c *Compiler[V]) LastStats() Stats {
	return c.last
}

// TotalStats returns counters accumulated over every pass.
func (c *Compiler[V]) TotalStats() Stats {
	return c.totals
}

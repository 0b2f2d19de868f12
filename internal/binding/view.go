package binding

import (
	"kbind/internal/compiler"
	"kbind/internal/diag"
	"kbind/internal/directive"
	"kbind/internal/dom"
	"kbind/internal/plan"
	"kbind/internal/source"
	"kbind/internal/trace"
)

// Options configures a View.
type Options struct {
	// Custom lists extra directive names recorded like the built-in ones.
	Custom   []string
	Reporter diag.Reporter
	Tracer   trace.Tracer
}

// View is the view model handed to every directive factory. It owns the tree
// being compiled and the plan being recorded.
type View struct {
	fs   *source.FileSet
	tree *dom.Tree
	comp *compiler.Compiler[*View]
	plan *plan.Plan
	rep  diag.Reporter

	template int // template currently being compiled, 0 is the file itself
	depth    int
}

// NewView prepares a view over tree. fs resolves node spans to positions and
// may be nil.
func NewView(fs *source.FileSet, tree *dom.Tree, file string, opts Options) (*View, error) {
	reg, err := NewRegistry(opts.Custom...)
	if err != nil {
		return nil, err
	}
	rep := opts.Reporter
	if rep == nil {
		rep = diag.NopReporter{}
	}
	v := &View{
		fs:   fs,
		tree: tree,
		plan: plan.New(file),
		rep:  diag.NewDedupReporter(rep),
	}
	var copts []compiler.Option
	if opts.Tracer != nil {
		copts = append(copts, compiler.WithTracer(opts.Tracer))
	}
	v.comp = compiler.New(v, tree, reg, copts...)
	return v, nil
}

// Compile binds the subtree at root and returns the recorded plan. Every call
// starts a fresh plan; plans returned earlier are left untouched.
func (v *View) Compile(root dom.NodeID) (*plan.Plan, compiler.Stats) {
	v.plan = plan.New(v.plan.File)
	v.template, v.depth = 0, 0
	stats := v.comp.Compile(root, nil)
	v.plan.Deferred = stats.Deferred
	return v.plan, stats
}

// Plan returns the plan recorded so far.
func (v *View) Plan() *plan.Plan {
	return v.plan
}

// Tree returns the tree the view compiles.
func (v *View) Tree() *dom.Tree {
	return v.tree
}

// compileTemplate materializes the children of node and compiles them as a
// new template with scope.
func (v *View) compileTemplate(node dom.NodeID, scope directive.Scope) {
	children := v.tree.Children(node)
	if len(children) == 0 {
		return
	}
	frag := v.tree.Fragment(children...)

	v.plan.Templates++
	prevTemplate, prevDepth := v.template, v.depth
	v.template, v.depth = v.plan.Templates, v.depth+1
	v.comp.Compile(frag, scope)
	v.template, v.depth = prevTemplate, prevDepth
}

func (v *View) record(name string, node dom.NodeID, scope directive.Scope, expr string, params []string) {
	b := plan.Binding{
		Directive:  name,
		Node:       uint32(node),
		Tag:        v.tree.Tag(node),
		Expression: expr,
		Params:     params,
		Scope:      describeScope(scope),
		Template:   v.template,
		Depth:      v.depth,
		Span:       v.tree.Span(node),
	}
	if v.fs != nil && v.fs.Len() > int(b.Span.File) {
		start, _ := v.fs.Resolve(b.Span)
		b.Line, b.Col = start.Line, start.Col
	}
	v.plan.Add(b)
}

// attrSpan returns the span of the directive attribute behind name on node,
// falling back to the node span.
func (v *View) attrSpan(node dom.NodeID, name string) source.Span {
	for _, a := range v.tree.Attrs(node) {
		if directive.IsDirective(a.Name) && directive.Parse(a.Name, "").Name == name {
			return a.Span
		}
	}
	return v.tree.Span(node)
}

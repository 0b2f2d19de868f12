package compiler

import (
	"strconv"

	"kbind/internal/directive"
	"kbind/internal/dom"
	"kbind/internal/interp"
	"kbind/internal/trace"
)

// Dispatch constructs directives for tasks in order.
func (c *Compiler[V]) Dispatch(tasks []Task) {
	c.dispatch(tasks)
}

func (c *Compiler[V]) dispatch(tasks []Task) {
	for _, task := range tasks {
		switch kind := c.tree.Kind(task.Node); {
		case kind.IsElementLike():
			c.bindElement(task)
		case kind == dom.KindText:
			c.bindText(task)
		}
	}
}

func (c *Compiler[V]) bindElement(task Task) {
	for _, d := range directive.Extract(c.tree, task.Node) {
		factory, ok := c.reg.Lookup(d.Name)
		if !ok {
			c.totals.Unknown++
			if c.traceNodes {
				trace.Point(c.tracer, trace.ScopeNode, "skip", c.span, d.Attr, "node", nodeLabel(task.Node))
			}
			continue
		}
		if c.traceNodes {
			trace.Point(c.tracer, trace.ScopeNode, "directive", c.span, d.Name,
				"node", nodeLabel(task.Node), "expr", d.Expression)
		}
		c.totals.Directives++
		factory(c.vm, task.Node, task.Scope, d.Expression, d.Params)
	}
}

func (c *Compiler[V]) bindText(task Task) {
	expr := interp.Expression(c.tree.Text(task.Node))
	if c.traceNodes {
		trace.Point(c.tracer, trace.ScopeNode, "text", c.span, expr, "node", nodeLabel(task.Node))
	}
	c.totals.TextNodes++
	c.reg.Text()(c.vm, task.Node, task.Scope, expr, nil)
}

func nodeLabel(id dom.NodeID) string {
	return "#" + strconv.FormatUint(uint64(id), 10)
}

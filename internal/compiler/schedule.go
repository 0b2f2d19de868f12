package compiler

import (
	"kbind/internal/directive"
	"kbind/internal/dom"
)

// Schedule returns the task list for root without dispatching it. Each call
// builds a fresh list.
func (c *Compiler[V]) Schedule(root dom.NodeID, scope directive.Scope) []Task {
	tasks, _ := c.schedule(root, scope)
	return tasks
}

func (c *Compiler[V]) schedule(root dom.NodeID, scope directive.Scope) ([]Task, int) {
	s := scheduler{tree: c.tree}
	if directive.HasDirective(c.tree, root) {
		s.tasks = append(s.tasks, Task{Node: root, Scope: scope})
	}
	s.visit(root, scope)
	return s.tasks, s.deferred
}

type scheduler struct {
	tree     dom.Reader
	tasks    []Task
	deferred int
}

// visit enqueues the children of id last to first. A child's subtree is
// visited right after the child itself and always with a nil scope.
func (s *scheduler) visit(id dom.NodeID, scope directive.Scope) {
	children := s.tree.Children(id)
	for i := len(children) - 1; i >= 0; i-- {
		child := children[i]
		if directive.HasDirective(s.tree, child) {
			s.tasks = append(s.tasks, Task{Node: child, Scope: scope})
		}
		if len(s.tree.Children(child)) == 0 {
			continue
		}
		if directive.IsLateCompile(s.tree, child) {
			s.deferred++
			continue
		}
		s.visit(child, nil)
	}
}

// Package testkit holds checks shared by tests and fuzz harnesses.
package testkit

import (
	"fmt"

	"fortio.org/safecast"

	"kbind/internal/dom"
	"kbind/internal/source"
)

// CheckTreeInvariants runs the span invariants every parsed tree must hold:
// 1) root span covers the whole file
// 2) every node span is well-formed, points at sf and lies within its parent
// 3) siblings appear in source order
// 4) Parent links agree with Children
func CheckTreeInvariants(tree *dom.Tree, root dom.NodeID, sf *source.File) error {
	if tree == nil || sf == nil {
		return fmt.Errorf("nil tree or file")
	}
	lenContent, err := safecast.Conv[uint32](len(sf.Content))
	if err != nil {
		return fmt.Errorf("len content overflow: %w", err)
	}

	rs := tree.Span(root)
	if rs.Start != 0 || rs.End != lenContent {
		return fmt.Errorf("root span %v does not cover file of %d bytes", rs, lenContent)
	}

	var check func(id dom.NodeID) error
	check = func(id dom.NodeID) error {
		ps := tree.Span(id)
		if ps.File != sf.ID {
			return fmt.Errorf("node %d span file mismatch: got=%d want=%d", id, ps.File, sf.ID)
		}
		if ps.End < ps.Start || ps.End > lenContent {
			return fmt.Errorf("node %d has malformed span %v", id, ps)
		}
		prevStart := ps.Start
		for _, child := range tree.Children(id) {
			if tree.Parent(child) != id {
				return fmt.Errorf("node %d lists child %d whose parent is %d", id, child, tree.Parent(child))
			}
			cs := tree.Span(child)
			// child inside parent
			if cs.Start < ps.Start || cs.End > ps.End {
				return fmt.Errorf("node %d span %v is outside parent %d span %v", child, cs, id, ps)
			}
			if cs.Start < prevStart {
				return fmt.Errorf("node %d starts at %d before its previous sibling at %d", child, cs.Start, prevStart)
			}
			prevStart = cs.Start
			if err := check(child); err != nil {
				return err
			}
		}
		return nil
	}
	return check(root)
}

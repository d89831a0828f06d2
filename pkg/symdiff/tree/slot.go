package tree

import "fmt"

// Side identifies which field of the parent holds a node.
type Side uint8

const (
	// SideNone marks a detached subtree: no parent and not the root.
	SideNone Side = iota
	// SideRoot marks the tree's root position.
	SideRoot
	// SideLeft marks the parent's left child field.
	SideLeft
	// SideRight marks the parent's right child field.
	SideRight
)

// String returns the side name.
func (s Side) String() string {
	switch s {
	case SideRoot:
		return "root"
	case SideLeft:
		return "left"
	case SideRight:
		return "right"
	default:
		return "none"
	}
}

// Slot identifies a position in a tree: the root, or a parent's left or right field.
type Slot struct {
	Parent NodeID
	Side   Side
}

// RootSlot returns the slot of the tree's root.
func RootSlot() Slot {
	return Slot{Parent: Nil, Side: SideRoot}
}

// LocateSlot returns the slot currently holding id.
func (t *Tree) LocateSlot(id NodeID) (Slot, error) {
	n, err := t.lookup(id)
	if err != nil {
		return Slot{}, err
	}
	if n.parent == Nil {
		if id == t.root {
			return RootSlot(), nil
		}
		return Slot{Parent: Nil, Side: SideNone}, nil
	}
	p := &t.nodes[n.parent]
	switch id {
	case p.left:
		return Slot{Parent: n.parent, Side: SideLeft}, nil
	case p.right:
		return Slot{Parent: n.parent, Side: SideRight}, nil
	}
	return Slot{}, fmt.Errorf("locate slot of %d: %w: parent %d does not hold it", id, ErrMalformedNode, n.parent)
}

// occupant returns the node held by the slot.
func (t *Tree) occupant(s Slot) (NodeID, error) {
	switch s.Side {
	case SideRoot:
		return t.root, nil
	case SideLeft, SideRight:
		p, err := t.lookup(s.Parent)
		if err != nil {
			return Nil, err
		}
		if p.kind != KindOperation {
			return Nil, fmt.Errorf("slot %s of %d: %w: parent is a %s", s.Side, s.Parent, ErrMalformedNode, p.kind)
		}
		if s.Side == SideLeft {
			return p.left, nil
		}
		return p.right, nil
	default:
		return Nil, fmt.Errorf("slot %s: %w", s.Side, ErrInvalidNode)
	}
}

// store writes id into the slot without touching the previous occupant.
func (t *Tree) store(s Slot, id NodeID) {
	switch s.Side {
	case SideRoot:
		t.root = id
	case SideLeft:
		t.nodes[s.Parent].left = id
	case SideRight:
		t.nodes[s.Parent].right = id
	}
	if id != Nil {
		t.nodes[id].parent = s.Parent
	}
}

// Replace puts the detached subtree repl into slot s and destroys whatever the
// slot held before. The splice happens before any node is freed, so a failure
// leaves the tree unchanged.
func (t *Tree) Replace(s Slot, repl NodeID) error {
	old, err := t.occupant(s)
	if err != nil {
		return err
	}
	if err := t.checkDetached(repl); err != nil {
		return fmt.Errorf("replace %s slot: %w", s.Side, err)
	}
	if s.Side != SideRoot {
		// The slot must not sit inside repl, or the splice would form a cycle.
		for p := s.Parent; p != Nil; p = t.nodes[p].parent {
			if p == repl {
				return fmt.Errorf("replace %s slot of %d: %w: replacement is an ancestor", s.Side, s.Parent, ErrMalformedNode)
			}
		}
	}

	t.store(s, repl)
	if old != Nil {
		t.nodes[old].parent = Nil
		t.destroy(old)
	}
	return nil
}

// Promote moves child into its parent's slot. The parent node and the
// child's sibling subtree are destroyed. If the parent is itself detached,
// child is left as a detached subtree.
func (t *Tree) Promote(child NodeID) error {
	c, err := t.lookup(child)
	if err != nil {
		return err
	}
	parent := c.parent
	if parent == Nil {
		return fmt.Errorf("promote %d: %w: node has no parent", child, ErrMalformedNode)
	}
	s, err := t.LocateSlot(parent)
	if err != nil {
		return err
	}
	if _, err := t.LocateSlot(child); err != nil {
		return err
	}

	if err := t.detach(child); err != nil {
		return err
	}
	t.store(s, child)
	t.nodes[parent].parent = Nil
	t.destroy(parent)
	return nil
}

// ReplaceWithNumber turns an operation node into a number literal in place,
// destroying its children first. The node keeps its id and slot.
func (t *Tree) ReplaceWithNumber(id NodeID, v float64) error {
	n, err := t.lookup(id)
	if err != nil {
		return err
	}
	left, right := n.left, n.right
	for _, child := range [...]NodeID{left, right} {
		if child != Nil {
			t.nodes[child].parent = Nil
			t.destroy(child)
		}
	}
	n = &t.nodes[id]
	n.kind = KindNumber
	n.number = v
	n.name = ""
	n.op = OpInvalid
	n.left, n.right = Nil, Nil
	return nil
}

// Detach removes id from the slot holding it. The subtree stays live and can
// be attached elsewhere with Operation, Replace or SetRoot.
func (t *Tree) Detach(id NodeID) error {
	if _, err := t.lookup(id); err != nil {
		return err
	}
	return t.detach(id)
}

func (t *Tree) detach(id NodeID) error {
	s, err := t.LocateSlot(id)
	if err != nil {
		return err
	}
	switch s.Side {
	case SideNone:
		return nil
	case SideRoot:
		t.root = Nil
	case SideLeft:
		t.nodes[s.Parent].left = Nil
	case SideRight:
		t.nodes[s.Parent].right = Nil
	}
	t.nodes[id].parent = Nil
	return nil
}

// Destroy frees the subtree rooted at id, children before parents. The slot
// that held id is cleared, so the parent never points at a freed node.
func (t *Tree) Destroy(id NodeID) error {
	if _, err := t.lookup(id); err != nil {
		return err
	}
	if err := t.detach(id); err != nil {
		return err
	}
	t.destroy(id)
	return nil
}

// destroy frees a detached subtree post-order.
func (t *Tree) destroy(id NodeID) {
	n := t.nodes[id]
	if n.left != Nil {
		t.destroy(n.left)
	}
	if n.right != Nil {
		t.destroy(n.right)
	}
	t.release(id)
}

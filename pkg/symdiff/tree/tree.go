package tree

import (
	"fmt"
)

// NodeID addresses a node inside its owning Tree.
type NodeID int32

// Nil is the NodeID of an absent child, parent or root.
const Nil NodeID = -1

// node is the arena slot. Exactly one payload field is meaningful per kind.
type node struct {
	kind   Kind
	number float64
	name   string
	op     Op

	left   NodeID
	right  NodeID
	parent NodeID
}

// Stats reports allocation accounting for a tree.
type Stats struct {
	// Allocated is the number of nodes ever created in the tree.
	Allocated int
	// Freed is the number of nodes destroyed.
	Freed int
	// Live is Allocated minus Freed.
	Live int
}

// Tree owns a set of expression nodes and the root that ties them together.
//
// A Tree is not safe for concurrent use. Each tree has a single owner at a time.
type Tree struct {
	nodes    []node
	free     []NodeID
	root     NodeID
	maxNodes int

	allocated int
	freed     int
}

// Option configures a Tree.
type Option func(*Tree)

// WithMaxNodes caps the number of live nodes. Allocations beyond the cap fail
// with ErrNodeLimit. Zero or negative means unlimited.
func WithMaxNodes(n int) Option {
	return func(t *Tree) {
		if n > 0 {
			t.maxNodes = n
		}
	}
}

// New creates an empty tree.
func New(opts ...Option) *Tree {
	t := &Tree{root: Nil}
	for _, opt := range opts {
		opt(t)
	}
	return t
}

// MaxNodes returns the configured live-node limit, or 0 when unlimited.
func (t *Tree) MaxNodes() int {
	return t.maxNodes
}

// Root returns the root node, or Nil for an empty tree.
func (t *Tree) Root() NodeID {
	return t.root
}

// SetRoot makes a detached node the root. The previous root, if any, is left
// detached; destroy it or attach it elsewhere.
func (t *Tree) SetRoot(id NodeID) error {
	if id == Nil {
		t.root = Nil
		return nil
	}
	n, err := t.lookup(id)
	if err != nil {
		return err
	}
	if n.parent != Nil {
		return fmt.Errorf("set root %d: %w", id, ErrAlreadyAttached)
	}
	t.root = id
	return nil
}

// Stats returns the allocation counters.
func (t *Tree) Stats() Stats {
	return Stats{
		Allocated: t.allocated,
		Freed:     t.freed,
		Live:      t.allocated - t.freed,
	}
}

// Len returns the number of live nodes, attached or not.
func (t *Tree) Len() int {
	return t.allocated - t.freed
}

// Valid reports whether id addresses a live node.
func (t *Tree) Valid(id NodeID) bool {
	return id >= 0 && int(id) < len(t.nodes) && t.nodes[id].kind != KindInvalid
}

// Kind returns the node's kind, or KindInvalid for Nil and freed nodes.
func (t *Tree) Kind(id NodeID) Kind {
	if !t.Valid(id) {
		return KindInvalid
	}
	return t.nodes[id].kind
}

// Value returns the literal held by a number node, or 0 for other kinds.
func (t *Tree) Value(id NodeID) float64 {
	if t.Kind(id) != KindNumber {
		return 0
	}
	return t.nodes[id].number
}

// Name returns the variable name held by a variable node, or "" for other kinds.
func (t *Tree) Name(id NodeID) string {
	if t.Kind(id) != KindVariable {
		return ""
	}
	return t.nodes[id].name
}

// Op returns the operator of an operation node, or OpInvalid for other kinds.
func (t *Tree) Op(id NodeID) Op {
	if t.Kind(id) != KindOperation {
		return OpInvalid
	}
	return t.nodes[id].op
}

// Left returns the left child, or Nil.
func (t *Tree) Left(id NodeID) NodeID {
	if !t.Valid(id) {
		return Nil
	}
	return t.nodes[id].left
}

// Right returns the right child, or Nil.
func (t *Tree) Right(id NodeID) NodeID {
	if !t.Valid(id) {
		return Nil
	}
	return t.nodes[id].right
}

// Parent returns the node holding id as a child, or Nil for the root and
// detached subtrees.
func (t *Tree) Parent(id NodeID) NodeID {
	if !t.Valid(id) {
		return Nil
	}
	return t.nodes[id].parent
}

// IsLiteral reports whether id is a number within tol of k.
func (t *Tree) IsLiteral(id NodeID, k, tol float64) bool {
	if t.Kind(id) != KindNumber {
		return false
	}
	d := t.nodes[id].number - k
	return d < tol && d > -tol
}

// Number creates a detached number node.
func (t *Tree) Number(v float64) (NodeID, error) {
	return t.alloc(node{kind: KindNumber, number: v})
}

// Variable creates a detached variable node. The name must be non-empty.
func (t *Tree) Variable(name string) (NodeID, error) {
	if name == "" {
		return Nil, fmt.Errorf("variable: %w: empty name", ErrMalformedNode)
	}
	return t.alloc(node{kind: KindVariable, name: name})
}

// Operation creates an operation node that takes ownership of left and right.
//
// Binary operators need both children. Unary operators need a right child and
// no left child. Children must be detached (no parent, not the root); the new
// node becomes their parent.
func (t *Tree) Operation(op Op, left, right NodeID) (NodeID, error) {
	if !op.Valid() {
		return Nil, &OperatorError{Op: op, Stage: "construct", Err: ErrUnknownOperator}
	}
	switch op.Arity() {
	case Binary:
		if left == Nil || right == Nil {
			return Nil, &OperatorError{Op: op, Stage: "construct", Err: fmt.Errorf("%w: binary operator needs two operands", ErrMalformedNode)}
		}
		if left == right {
			return Nil, &OperatorError{Op: op, Stage: "construct", Err: fmt.Errorf("%w: operands must be distinct", ErrAlreadyAttached)}
		}
	case Unary:
		if left != Nil || right == Nil {
			return Nil, &OperatorError{Op: op, Stage: "construct", Err: fmt.Errorf("%w: unary operator takes a right operand only", ErrMalformedNode)}
		}
	}
	for _, child := range [...]NodeID{left, right} {
		if child == Nil {
			continue
		}
		if err := t.checkDetached(child); err != nil {
			return Nil, &OperatorError{Op: op, Stage: "construct", Err: err}
		}
	}

	id, err := t.alloc(node{kind: KindOperation, op: op, left: left, right: right})
	if err != nil {
		return Nil, err
	}
	if left != Nil {
		t.nodes[left].parent = id
	}
	if right != Nil {
		t.nodes[right].parent = id
	}
	return id, nil
}

// checkDetached verifies id is live, parentless and not the root.
func (t *Tree) checkDetached(id NodeID) error {
	n, err := t.lookup(id)
	if err != nil {
		return err
	}
	if n.parent != Nil || id == t.root {
		return fmt.Errorf("node %d: %w", id, ErrAlreadyAttached)
	}
	return nil
}

// lookup returns the live node for id.
func (t *Tree) lookup(id NodeID) (*node, error) {
	if id < 0 || int(id) >= len(t.nodes) {
		return nil, fmt.Errorf("node %d: %w", id, ErrInvalidNode)
	}
	n := &t.nodes[id]
	if n.kind == KindInvalid {
		return nil, fmt.Errorf("node %d: %w", id, ErrFreedNode)
	}
	return n, nil
}

// alloc stores n in a free slot and returns its id.
func (t *Tree) alloc(n node) (NodeID, error) {
	if t.maxNodes > 0 && t.Len() >= t.maxNodes {
		return Nil, fmt.Errorf("allocate %s node: %w (%d)", n.kind, ErrNodeLimit, t.maxNodes)
	}
	if n.kind != KindOperation {
		n.left, n.right = Nil, Nil
	}
	n.parent = Nil

	var id NodeID
	if last := len(t.free) - 1; last >= 0 {
		id = t.free[last]
		t.free = t.free[:last]
		t.nodes[id] = n
	} else {
		id = NodeID(len(t.nodes))
		t.nodes = append(t.nodes, n)
	}
	t.allocated++
	return id, nil
}

// release frees a single node. Children must already be released or detached.
func (t *Tree) release(id NodeID) {
	t.nodes[id] = node{kind: KindInvalid, left: Nil, right: Nil, parent: Nil}
	t.free = append(t.free, id)
	t.freed++
}

package tree

import (
	"errors"
	"fmt"
	"math"

	"github.com/hashicorp/go-set/v2"
)

// Walk visits the subtree rooted at id in post-order. Returning an error from
// fn stops the walk and returns that error.
func (t *Tree) Walk(id NodeID, fn func(NodeID) error) error {
	if id == Nil {
		return nil
	}
	if _, err := t.lookup(id); err != nil {
		return err
	}
	return t.walk(id, fn)
}

func (t *Tree) walk(id NodeID, fn func(NodeID) error) error {
	n := &t.nodes[id]
	if n.left != Nil {
		if err := t.walk(n.left, fn); err != nil {
			return err
		}
	}
	if n.right != Nil {
		if err := t.walk(n.right, fn); err != nil {
			return err
		}
	}
	return fn(id)
}

// Size returns the number of nodes in the subtree rooted at id, or 0 for Nil
// and freed nodes.
func (t *Tree) Size(id NodeID) int {
	if !t.Valid(id) {
		return 0
	}
	size := 0
	_ = t.walk(id, func(NodeID) error {
		size++
		return nil
	})
	return size
}

// Depth returns the height of the subtree rooted at id. A leaf has depth 1.
func (t *Tree) Depth(id NodeID) int {
	if !t.Valid(id) {
		return 0
	}
	n := &t.nodes[id]
	return 1 + max(t.Depth(n.left), t.Depth(n.right))
}

// FreeVariables returns the names of every variable in the subtree rooted at id.
func (t *Tree) FreeVariables(id NodeID) *set.Set[string] {
	vars := set.New[string](0)
	if !t.Valid(id) {
		return vars
	}
	_ = t.walk(id, func(n NodeID) error {
		if t.nodes[n].kind == KindVariable {
			vars.Insert(t.nodes[n].name)
		}
		return nil
	})
	return vars
}

// Equal reports whether subtree ida of a and subtree idb of b have the same
// shape, operators and variable names, with numbers equal within tol.
// Two NaN literals are equal.
func Equal(a *Tree, ida NodeID, b *Tree, idb NodeID, tol float64) bool {
	if ida == Nil || idb == Nil {
		return ida == Nil && idb == Nil
	}
	if !a.Valid(ida) || !b.Valid(idb) {
		return false
	}
	na, nb := &a.nodes[ida], &b.nodes[idb]
	if na.kind != nb.kind {
		return false
	}
	switch na.kind {
	case KindNumber:
		if math.IsNaN(na.number) || math.IsNaN(nb.number) {
			return math.IsNaN(na.number) && math.IsNaN(nb.number)
		}
		if na.number == nb.number {
			return true
		}
		return math.Abs(na.number-nb.number) < tol
	case KindVariable:
		return na.name == nb.name
	case KindOperation:
		return na.op == nb.op &&
			Equal(a, na.left, b, nb.left, tol) &&
			Equal(a, na.right, b, nb.right, tol)
	}
	return false
}

// Verify walks the tree and checks its structural invariants: the root has
// no parent, every child's parent link names the node holding it, operation
// nodes match their operator's arity, and every live node is reachable from
// the root. All violations are joined into the returned error.
func (t *Tree) Verify() error {
	var errs []error
	reached := 0

	if t.root != Nil {
		root, err := t.lookup(t.root)
		if err != nil {
			return fmt.Errorf("verify root: %w", err)
		}
		if root.parent != Nil {
			errs = append(errs, fmt.Errorf("root %d: %w: parent is %d", t.root, ErrMalformedNode, root.parent))
		}
		visited := make(map[NodeID]bool)
		errs = t.verifyNode(t.root, visited, errs)
		reached = len(visited)
	}

	if live := t.Len(); reached != live {
		errs = append(errs, fmt.Errorf("%w: %d live nodes, %d reachable from root", ErrMalformedNode, live, reached))
	}
	return errors.Join(errs...)
}

func (t *Tree) verifyNode(id NodeID, visited map[NodeID]bool, errs []error) []error {
	if visited[id] {
		return append(errs, fmt.Errorf("node %d: %w: reached twice", id, ErrMalformedNode))
	}
	visited[id] = true
	n := &t.nodes[id]

	switch n.kind {
	case KindNumber, KindVariable:
		if n.left != Nil || n.right != Nil {
			errs = append(errs, fmt.Errorf("%s node %d: %w: leaf has children", n.kind, id, ErrMalformedNode))
		}
		if n.kind == KindVariable && n.name == "" {
			errs = append(errs, fmt.Errorf("variable node %d: %w: empty name", id, ErrMalformedNode))
		}
		return errs
	case KindOperation:
		switch n.op.Arity() {
		case Binary:
			if n.left == Nil || n.right == Nil {
				errs = append(errs, fmt.Errorf("%s node %d: %w: missing operand", n.op, id, ErrMalformedNode))
			}
		case Unary:
			if n.left != Nil || n.right == Nil {
				errs = append(errs, fmt.Errorf("%s node %d: %w: unary operand must be on the right", n.op, id, ErrMalformedNode))
			}
		default:
			errs = append(errs, &OperatorError{Op: n.op, Stage: "verify", Err: ErrUnknownOperator})
		}
	default:
		return append(errs, fmt.Errorf("node %d: %w", id, ErrFreedNode))
	}

	for _, child := range [...]NodeID{n.left, n.right} {
		if child == Nil {
			continue
		}
		c, err := t.lookup(child)
		if err != nil {
			errs = append(errs, fmt.Errorf("child of %d: %w", id, err))
			continue
		}
		if c.parent != id {
			errs = append(errs, fmt.Errorf("node %d: %w: parent is %d, held by %d", child, ErrMalformedNode, c.parent, id))
		}
		errs = t.verifyNode(child, visited, errs)
	}
	return errs
}

// Package simplify rewrites expression trees in place.
//
// Simplify walks a subtree post-order. Each operation node whose operands are
// both literals is folded into a single literal; otherwise a small set of
// identity rules drops neutral elements:
//
//	a + 0, 0 + a  -> a
//	a - 0         -> a
//	a * 0, 0 * a  -> 0
//	a * 1, 1 * a  -> a
//	0 / a         -> 0
//	a / 1         -> a
//	a ^ 0, 1 ^ a  -> 1
//	a ^ 1         -> a
//
// 0 - a is left alone. Nothing else is rewritten: there is no canonical
// ordering, no collection of like terms and no trigonometric identity.
//
// Discarded nodes are destroyed as part of each rewrite, so after Simplify the
// tree's live node count equals the size of its root subtree.
package simplify

import (
	"fmt"

	"github.com/randalmurphal/symdiff/pkg/symdiff/tree"
)

// Report counts the work done by Simplify or Fixpoint.
type Report struct {
	// Passes is the number of full passes Fixpoint ran.
	Passes int
	// Folds counts operation nodes replaced by their evaluated literal.
	Folds int
	// Rewrites counts identity rules applied.
	Rewrites int
	// Freed counts nodes destroyed.
	Freed int
}

// Changed reports whether any fold or rewrite happened.
func (r Report) Changed() bool {
	return r.Folds > 0 || r.Rewrites > 0
}

func (r *Report) add(o Report) {
	r.Passes += o.Passes
	r.Folds += o.Folds
	r.Rewrites += o.Rewrites
	r.Freed += o.Freed
}

// Simplify reduces the subtree rooted at id in place and returns the kind of
// the node that now occupies id's position. When the root is rewritten the
// tree's root is updated.
//
// id may also be the top of a detached subtree. A rewrite there can free id;
// use SimplifySubtree to learn which node took its place.
//
// A node whose operator is unknown stops the walk with an error wrapping
// tree.ErrUnknownOperator; that node is left unchanged.
func Simplify(t *tree.Tree, id tree.NodeID, opts ...Option) (tree.Kind, error) {
	_, kind, err := SimplifySubtree(t, id, opts...)
	return kind, err
}

// SimplifySubtree is Simplify that also returns the node now standing where
// id stood. It is id itself unless an identity rule promoted an operand.
func SimplifySubtree(t *tree.Tree, id tree.NodeID, opts ...Option) (tree.NodeID, tree.Kind, error) {
	cfg := defaultConfig()
	for _, opt := range opts {
		opt(&cfg)
	}

	s := &simplifier{t: t, tol: cfg.tolerance}
	freedBefore := t.Stats().Freed
	top, kind, err := s.node(id)
	s.rep.Freed = t.Stats().Freed - freedBefore
	if cfg.report != nil {
		cfg.report.add(s.rep)
	}
	return top, kind, err
}

// Fixpoint simplifies the whole tree repeatedly until a pass changes nothing
// or the pass limit is reached.
func Fixpoint(t *tree.Tree, opts ...Option) (Report, error) {
	cfg := defaultConfig()
	for _, opt := range opts {
		opt(&cfg)
	}

	var total Report
	for total.Passes < cfg.maxPasses && t.Root() != tree.Nil {
		var pass Report
		_, err := Simplify(t, t.Root(), WithTolerance(cfg.tolerance), WithReport(&pass))
		pass.Passes = 1
		total.add(pass)
		if err != nil {
			return finish(cfg, total), err
		}
		if !pass.Changed() {
			break
		}
	}
	return finish(cfg, total), nil
}

func finish(cfg config, r Report) Report {
	if cfg.report != nil {
		cfg.report.add(r)
	}
	return r
}

type simplifier struct {
	t   *tree.Tree
	tol float64
	rep Report
}

func (s *simplifier) node(id tree.NodeID) (tree.NodeID, tree.Kind, error) {
	t := s.t
	if !t.Valid(id) {
		return id, tree.KindInvalid, fmt.Errorf("simplify node %d: %w", id, tree.ErrInvalidNode)
	}
	if t.Kind(id) != tree.KindOperation {
		return id, t.Kind(id), nil
	}

	if l := t.Left(id); l != tree.Nil {
		if _, _, err := s.node(l); err != nil {
			return id, tree.KindOperation, err
		}
	}
	if r := t.Right(id); r != tree.Nil {
		if _, _, err := s.node(r); err != nil {
			return id, tree.KindOperation, err
		}
	}

	// Children may have been replaced; read them again.
	op := t.Op(id)
	l, r := t.Left(id), t.Right(id)

	// Log is the only non-foldable operator with two operands; a
	// literal-literal Log falls through to the identity rules.
	if t.Kind(l) == tree.KindNumber && t.Kind(r) == tree.KindNumber && (op.Foldable() || !op.Valid()) {
		v, err := tree.Eval(op, t.Value(l), t.Value(r))
		if err != nil {
			return id, tree.KindOperation, fmt.Errorf("simplify node %d: %w", id, err)
		}
		if err := t.ReplaceWithNumber(id, v); err != nil {
			return id, tree.KindOperation, err
		}
		s.rep.Folds++
		return id, tree.KindNumber, nil
	}

	return s.identity(id, op, l, r)
}

// identity applies the neutral-element rules to an operation node whose
// children are already simplified.
func (s *simplifier) identity(id tree.NodeID, op tree.Op, l, r tree.NodeID) (tree.NodeID, tree.Kind, error) {
	is := func(n tree.NodeID, k float64) bool { return s.t.IsLiteral(n, k, s.tol) }

	switch op {
	case tree.OpAdd:
		switch {
		case is(l, 0):
			return s.keep(id, r)
		case is(r, 0):
			return s.keep(id, l)
		}

	case tree.OpSub:
		if is(r, 0) {
			return s.keep(id, l)
		}

	case tree.OpMul:
		switch {
		case is(l, 0), is(r, 0):
			return s.literal(id, 0)
		case is(l, 1):
			return s.keep(id, r)
		case is(r, 1):
			return s.keep(id, l)
		}

	case tree.OpDiv:
		switch {
		case is(l, 0):
			return s.literal(id, 0)
		case is(r, 1):
			return s.keep(id, l)
		}

	case tree.OpPow:
		switch {
		case is(r, 0):
			return s.literal(id, 1)
		case is(l, 1):
			return s.literal(id, 1)
		case is(r, 1):
			return s.keep(id, l)
		}

	case tree.OpSqrt, tree.OpLn, tree.OpLog,
		tree.OpSin, tree.OpCos, tree.OpTan, tree.OpCot,
		tree.OpSinh, tree.OpCosh, tree.OpTanh, tree.OpCoth,
		tree.OpAsin, tree.OpAcos, tree.OpAtan, tree.OpAcot:
		// No identities.

	default:
		return id, tree.KindOperation, &tree.OperatorError{Op: op, Stage: "simplify", Err: tree.ErrUnknownOperator}
	}
	return id, tree.KindOperation, nil
}

// keep moves child into id's position, discarding id and the other operand.
func (s *simplifier) keep(id, child tree.NodeID) (tree.NodeID, tree.Kind, error) {
	if err := s.t.Promote(child); err != nil {
		return id, tree.KindOperation, err
	}
	s.rep.Rewrites++
	return child, s.t.Kind(child), nil
}

// literal turns id into the number k, discarding both operands.
func (s *simplifier) literal(id tree.NodeID, k float64) (tree.NodeID, tree.Kind, error) {
	if err := s.t.ReplaceWithNumber(id, k); err != nil {
		return id, tree.KindOperation, err
	}
	s.rep.Rewrites++
	return id, tree.KindNumber, nil
}

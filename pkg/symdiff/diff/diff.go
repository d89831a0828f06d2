// Package diff builds derivative trees.
//
// Differentiate never mutates its source. Every subtree of the source that
// reappears in the derivative (a product-rule cofactor, the argument of a
// chain-rule outer function) is deep-copied into the result tree, so the
// source and the derivative share no nodes.
//
// The result is not simplified. Pass it to the simplify package to fold
// constants and drop neutral elements:
//
//	d, err := diff.Differentiate(src, src.Root(), "x")
//	if err != nil {
//	    return err
//	}
//	_, err = simplify.Fixpoint(d)
package diff

import (
	"fmt"

	"github.com/randalmurphal/symdiff/pkg/symdiff/tree"
)

// config holds Differentiate settings.
type config struct {
	maxNodes int
}

// Option configures Differentiate.
type Option func(*config)

// WithMaxNodes caps the number of nodes in the derivative tree.
// Default: the source tree's limit.
//
// A derivative that would exceed the cap fails with tree.ErrNodeLimit.
func WithMaxNodes(n int) Option {
	return func(c *config) {
		if n > 0 {
			c.maxNodes = n
		}
	}
}

// Differentiate returns a new tree holding the derivative of the subtree
// rooted at id with respect to variable.
//
// Variables other than variable are treated as independent constants that
// survive as copies of themselves, so d(y)/dx is y rather than 0.
//
// It fails on malformed input (unknown operator, missing operand) with an
// error wrapping tree.ErrUnknownOperator or tree.ErrMalformedNode, and with
// tree.ErrNodeLimit when the result outgrows its cap. No partial tree is
// returned on failure.
func Differentiate(src *tree.Tree, id tree.NodeID, variable string, opts ...Option) (*tree.Tree, error) {
	if variable == "" {
		return nil, fmt.Errorf("differentiate: %w: empty variable name", tree.ErrMalformedNode)
	}
	if !src.Valid(id) {
		return nil, fmt.Errorf("differentiate node %d: %w", id, tree.ErrInvalidNode)
	}

	cfg := config{maxNodes: src.MaxNodes()}
	for _, opt := range opts {
		opt(&cfg)
	}

	b := &builder{
		src:      src,
		dst:      tree.New(tree.WithMaxNodes(cfg.maxNodes)),
		variable: variable,
	}
	root := b.d(id)
	if b.err != nil {
		return nil, b.err
	}
	if err := b.dst.SetRoot(root); err != nil {
		return nil, err
	}
	return b.dst, nil
}

// builder assembles the derivative in dst. The first error sticks: once err
// is set every constructor returns tree.Nil and the result is discarded.
type builder struct {
	src      *tree.Tree
	dst      *tree.Tree
	variable string
	err      error
}

func (b *builder) num(v float64) tree.NodeID {
	if b.err != nil {
		return tree.Nil
	}
	id, err := b.dst.Number(v)
	b.err = err
	return id
}

// c copies a source subtree into the result.
func (b *builder) c(id tree.NodeID) tree.NodeID {
	if b.err != nil {
		return tree.Nil
	}
	cp, err := tree.CopySubtree(b.dst, b.src, id)
	b.err = err
	return cp
}

func (b *builder) op(o tree.Op, left, right tree.NodeID) tree.NodeID {
	if b.err != nil {
		return tree.Nil
	}
	id, err := b.dst.Operation(o, left, right)
	b.err = err
	return id
}

func (b *builder) unary(o tree.Op, x tree.NodeID) tree.NodeID {
	return b.op(o, tree.Nil, x)
}

// square builds Pow(x, 2).
func (b *builder) square(x tree.NodeID) tree.NodeID {
	return b.op(tree.OpPow, x, b.num(2))
}

// negate builds Sub(0, x).
func (b *builder) negate(x tree.NodeID) tree.NodeID {
	return b.op(tree.OpSub, b.num(0), x)
}

func (b *builder) fail(o tree.Op, err error) tree.NodeID {
	if b.err == nil {
		b.err = &tree.OperatorError{Op: o, Stage: "differentiate", Err: err}
	}
	return tree.Nil
}

// d differentiates the source subtree rooted at id.
func (b *builder) d(id tree.NodeID) tree.NodeID {
	if b.err != nil {
		return tree.Nil
	}
	switch b.src.Kind(id) {
	case tree.KindNumber:
		return b.num(0)
	case tree.KindVariable:
		if b.src.Name(id) == b.variable {
			return b.num(1)
		}
		return b.c(id)
	case tree.KindOperation:
		return b.operation(id)
	case tree.KindInvalid:
		b.err = fmt.Errorf("differentiate node %d: %w", id, tree.ErrInvalidNode)
		return tree.Nil
	default:
		b.err = fmt.Errorf("differentiate node %d: %w: unknown kind", id, tree.ErrMalformedNode)
		return tree.Nil
	}
}

func (b *builder) operation(id tree.NodeID) tree.NodeID {
	o := b.src.Op(id)
	l, r := b.src.Left(id), b.src.Right(id)

	switch o.Arity() {
	case tree.Binary:
		if l == tree.Nil || r == tree.Nil {
			return b.fail(o, fmt.Errorf("%w: missing operand", tree.ErrMalformedNode))
		}
	case tree.Unary:
		if r == tree.Nil {
			return b.fail(o, fmt.Errorf("%w: missing operand", tree.ErrMalformedNode))
		}
	default:
		return b.fail(o, tree.ErrUnknownOperator)
	}

	switch o {
	case tree.OpAdd:
		return b.op(tree.OpAdd, b.d(l), b.d(r))

	case tree.OpSub:
		return b.op(tree.OpSub, b.d(l), b.d(r))

	case tree.OpMul:
		return b.op(tree.OpAdd,
			b.op(tree.OpMul, b.d(l), b.c(r)),
			b.op(tree.OpMul, b.c(l), b.d(r)))

	case tree.OpDiv:
		return b.op(tree.OpDiv,
			b.op(tree.OpSub,
				b.op(tree.OpMul, b.d(l), b.c(r)),
				b.op(tree.OpMul, b.c(l), b.d(r))),
			b.square(b.c(r)))

	case tree.OpPow:
		return b.power(l, r)

	case tree.OpSqrt:
		return b.op(tree.OpDiv, b.d(r), b.op(tree.OpMul, b.num(2), b.unary(tree.OpSqrt, b.c(r))))

	case tree.OpLn:
		return b.op(tree.OpDiv, b.d(r), b.c(r))

	case tree.OpLog:
		// Only the argument is differentiated; the base is taken as constant.
		return b.op(tree.OpDiv, b.d(r), b.op(tree.OpMul, b.c(r), b.unary(tree.OpLn, b.c(l))))

	case tree.OpSin:
		return b.chain(b.unary(tree.OpCos, b.c(r)), r)

	case tree.OpCos:
		return b.chain(b.negate(b.unary(tree.OpSin, b.c(r))), r)

	case tree.OpTan:
		return b.chain(b.op(tree.OpDiv, b.num(1), b.square(b.unary(tree.OpCos, b.c(r)))), r)

	case tree.OpCot:
		return b.chain(b.negate(b.op(tree.OpDiv, b.num(1), b.square(b.unary(tree.OpSin, b.c(r))))), r)

	case tree.OpSinh:
		return b.chain(b.unary(tree.OpCosh, b.c(r)), r)

	case tree.OpCosh:
		return b.chain(b.unary(tree.OpSinh, b.c(r)), r)

	case tree.OpTanh:
		return b.chain(b.op(tree.OpDiv, b.num(1), b.square(b.unary(tree.OpCosh, b.c(r)))), r)

	case tree.OpCoth:
		return b.chain(b.negate(b.op(tree.OpDiv, b.num(1), b.square(b.unary(tree.OpSinh, b.c(r))))), r)

	case tree.OpAsin:
		return b.op(tree.OpDiv, b.d(r), b.unary(tree.OpSqrt, b.op(tree.OpSub, b.num(1), b.square(b.c(r)))))

	case tree.OpAcos:
		return b.negate(b.op(tree.OpDiv, b.d(r), b.unary(tree.OpSqrt, b.op(tree.OpSub, b.num(1), b.square(b.c(r))))))

	case tree.OpAtan:
		return b.op(tree.OpDiv, b.d(r), b.op(tree.OpAdd, b.num(1), b.square(b.c(r))))

	case tree.OpAcot:
		return b.negate(b.op(tree.OpDiv, b.d(r), b.op(tree.OpAdd, b.num(1), b.square(b.c(r)))))

	case tree.OpInvalid:
		return b.fail(o, tree.ErrUnknownOperator)

	default:
		return b.fail(o, tree.ErrUnknownOperator)
	}
}

// chain builds Mul(outer, d(inner)).
func (b *builder) chain(outer, inner tree.NodeID) tree.NodeID {
	return b.op(tree.OpMul, outer, b.d(inner))
}

// power differentiates Pow(base, exp). A literal base is checked before a
// literal exponent, so Pow(2, 3) takes the exponential form.
func (b *builder) power(base, exp tree.NodeID) tree.NodeID {
	switch {
	case b.src.Kind(base) == tree.KindNumber:
		// a^u -> a^u * ln(a) * u'
		return b.op(tree.OpMul,
			b.op(tree.OpMul,
				b.op(tree.OpPow, b.c(base), b.c(exp)),
				b.unary(tree.OpLn, b.c(base))),
			b.d(exp))

	case b.src.Kind(exp) == tree.KindNumber:
		// u^n -> n * u^(n-1) * u'
		return b.op(tree.OpMul,
			b.op(tree.OpMul,
				b.c(exp),
				b.op(tree.OpPow, b.c(base), b.op(tree.OpSub, b.c(exp), b.num(1)))),
			b.d(base))

	default:
		// u^v -> u^v * (v' * ln(u) + v/u * u')
		return b.op(tree.OpMul,
			b.op(tree.OpPow, b.c(base), b.c(exp)),
			b.op(tree.OpAdd,
				b.op(tree.OpMul, b.d(exp), b.unary(tree.OpLn, b.c(base))),
				b.op(tree.OpMul, b.op(tree.OpDiv, b.c(exp), b.c(base)), b.d(base))))
	}
}

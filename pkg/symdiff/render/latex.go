// Package render turns expression trees into LaTeX and Graphviz DOT.
//
// Renderers only read trees through the tree package accessors.
package render

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/randalmurphal/symdiff/pkg/symdiff/tree"
)

// LaTeX renders the subtree rooted at id as a LaTeX math expression.
//
// Division becomes \frac, powers become {base}^{exp}, and functions wrap
// their argument in parentheses: \sin{(x)}. Sums and differences are
// parenthesised when they appear as a factor, as the base of a power or as
// the subtrahend.
func LaTeX(t *tree.Tree, id tree.NodeID) (string, error) {
	var sb strings.Builder
	if err := latex(&sb, t, id); err != nil {
		return "", err
	}
	return sb.String(), nil
}

func latex(sb *strings.Builder, t *tree.Tree, id tree.NodeID) error {
	switch t.Kind(id) {
	case tree.KindNumber:
		sb.WriteString(formatNumber(t.Value(id)))
		return nil
	case tree.KindVariable:
		sb.WriteString(t.Name(id))
		return nil
	case tree.KindOperation:
	default:
		return fmt.Errorf("render node %d: %w", id, tree.ErrInvalidNode)
	}

	op := t.Op(id)
	l, r := t.Left(id), t.Right(id)
	switch op {
	case tree.OpAdd, tree.OpSub, tree.OpMul:
		if err := operand(sb, t, id, l); err != nil {
			return err
		}
		if op == tree.OpMul {
			sb.WriteString(` \cdot `)
		} else {
			sb.WriteString(op.LaTeX())
		}
		return operand(sb, t, id, r)

	case tree.OpDiv:
		sb.WriteString(`\frac{`)
		if err := latex(sb, t, l); err != nil {
			return err
		}
		sb.WriteString(`}{`)
		if err := latex(sb, t, r); err != nil {
			return err
		}
		sb.WriteString(`}`)
		return nil

	case tree.OpPow:
		sb.WriteString(`{`)
		if err := operand(sb, t, id, l); err != nil {
			return err
		}
		sb.WriteString(`}^{`)
		if err := latex(sb, t, r); err != nil {
			return err
		}
		sb.WriteString(`}`)
		return nil

	case tree.OpSqrt:
		sb.WriteString(`\sqrt{`)
		if err := latex(sb, t, r); err != nil {
			return err
		}
		sb.WriteString(`}`)
		return nil

	case tree.OpLog:
		sb.WriteString(`\log_{`)
		if err := latex(sb, t, l); err != nil {
			return err
		}
		sb.WriteString(`}{(`)
		if err := latex(sb, t, r); err != nil {
			return err
		}
		sb.WriteString(`)}`)
		return nil

	case tree.OpLn,
		tree.OpSin, tree.OpCos, tree.OpTan, tree.OpCot,
		tree.OpSinh, tree.OpCosh, tree.OpTanh, tree.OpCoth,
		tree.OpAsin, tree.OpAcos, tree.OpAtan, tree.OpAcot:
		sb.WriteString(op.LaTeX())
		sb.WriteString(`{(`)
		if err := latex(sb, t, r); err != nil {
			return err
		}
		sb.WriteString(`)}`)
		return nil

	default:
		return &tree.OperatorError{Op: op, Stage: "render", Err: tree.ErrUnknownOperator}
	}
}

// operand renders child of parent, parenthesised if needed.
func operand(sb *strings.Builder, t *tree.Tree, parent, child tree.NodeID) error {
	if !needsParens(t, parent, child) {
		return latex(sb, t, child)
	}
	sb.WriteString(`(`)
	if err := latex(sb, t, child); err != nil {
		return err
	}
	sb.WriteString(`)`)
	return nil
}

func needsParens(t *tree.Tree, parent, child tree.NodeID) bool {
	c := t.Op(child)
	switch t.Op(parent) {
	case tree.OpMul:
		return c == tree.OpAdd || c == tree.OpSub
	case tree.OpSub:
		return t.Right(parent) == child && (c == tree.OpAdd || c == tree.OpSub)
	case tree.OpPow:
		if t.Left(parent) != child {
			return false
		}
		switch c {
		case tree.OpAdd, tree.OpSub, tree.OpMul, tree.OpDiv, tree.OpPow:
			return true
		}
		return t.Kind(child) == tree.KindNumber && t.Value(child) < 0
	}
	return false
}

func formatNumber(v float64) string {
	return strconv.FormatFloat(v, 'g', -1, 64)
}

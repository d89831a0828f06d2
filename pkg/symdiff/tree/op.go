package tree

import (
	"fmt"
	"math"
)

// Op identifies an operator.
type Op uint8

// Operators. The zero value is not a valid operator.
const (
	OpInvalid Op = iota
	OpAdd
	OpSub
	OpMul
	OpDiv
	OpPow
	OpSqrt
	OpLn
	OpLog
	OpSin
	OpCos
	OpTan
	OpCot
	OpSinh
	OpCosh
	OpTanh
	OpCoth
	OpAsin
	OpAcos
	OpAtan
	OpAcot
)

// Arity is the number of operands an operator takes.
type Arity uint8

const (
	// Unary operators keep their operand in the right slot.
	Unary Arity = 1
	// Binary operators use both slots.
	Binary Arity = 2
)

type opInfo struct {
	token string
	latex string
	arity Arity
	eval  func(a, b float64) float64
}

// opTable is read-only after package initialization.
var opTable = [...]opInfo{
	OpInvalid: {},
	OpAdd:     {token: "+", latex: "+", arity: Binary, eval: func(a, b float64) float64 { return a + b }},
	OpSub:     {token: "-", latex: "-", arity: Binary, eval: func(a, b float64) float64 { return a - b }},
	OpMul:     {token: "*", latex: `\cdot`, arity: Binary, eval: func(a, b float64) float64 { return a * b }},
	OpDiv:     {token: "/", latex: `\frac`, arity: Binary, eval: func(a, b float64) float64 { return a / b }},
	OpPow:     {token: "^", latex: "^", arity: Binary, eval: math.Pow},
	OpSqrt:    {token: "sqrt", latex: `\sqrt`, arity: Unary},
	OpLn:      {token: "ln", latex: `\ln`, arity: Unary},
	OpLog:     {token: "log", latex: `\log`, arity: Binary},
	OpSin:     {token: "sin", latex: `\sin`, arity: Unary},
	OpCos:     {token: "cos", latex: `\cos`, arity: Unary},
	OpTan:     {token: "tan", latex: `\tan`, arity: Unary},
	OpCot:     {token: "cot", latex: `\cot`, arity: Unary},
	OpSinh:    {token: "sinh", latex: `\sinh`, arity: Unary},
	OpCosh:    {token: "cosh", latex: `\cosh`, arity: Unary},
	OpTanh:    {token: "tanh", latex: `\tanh`, arity: Unary},
	OpCoth:    {token: "coth", latex: `\coth`, arity: Unary},
	OpAsin:    {token: "asin", latex: `\arcsin`, arity: Unary},
	OpAcos:    {token: "acos", latex: `\arccos`, arity: Unary},
	OpAtan:    {token: "atan", latex: `\arctan`, arity: Unary},
	OpAcot:    {token: "acot", latex: `\operatorname{arccot}`, arity: Unary},
}

// tokenAliases are accepted by LookupToken in addition to the canonical tokens.
var tokenAliases = map[string]Op{
	"arcsin": OpAsin,
	"arccos": OpAcos,
	"arctan": OpAtan,
	"arccot": OpAcot,
}

var tokenIndex = func() map[string]Op {
	m := make(map[string]Op, len(opTable)+len(tokenAliases))
	for op := OpAdd; op <= OpAcot; op++ {
		m[opTable[op].token] = op
	}
	for tok, op := range tokenAliases {
		if _, taken := m[tok]; !taken {
			m[tok] = op
		}
	}
	return m
}()

// Valid reports whether o is one of the defined operators.
func (o Op) Valid() bool {
	return o > OpInvalid && int(o) < len(opTable)
}

// String returns the operator's display token.
func (o Op) String() string {
	if !o.Valid() {
		return fmt.Sprintf("Op(%d)", uint8(o))
	}
	return opTable[o].token
}

// LaTeX returns the LaTeX command or symbol for the operator.
func (o Op) LaTeX() string {
	if !o.Valid() {
		return ""
	}
	return opTable[o].latex
}

// Arity returns the operator's arity, or 0 for an invalid operator.
func (o Op) Arity() Arity {
	if !o.Valid() {
		return 0
	}
	return opTable[o].arity
}

// Foldable reports whether Eval can compute the operator on two literals.
// Only Add, Sub, Mul, Div and Pow fold.
func (o Op) Foldable() bool {
	return o.Valid() && opTable[o].eval != nil
}

// Ops returns every valid operator in declaration order.
func Ops() []Op {
	ops := make([]Op, 0, len(opTable)-1)
	for op := OpAdd; op <= OpAcot; op++ {
		ops = append(ops, op)
	}
	return ops
}

// LookupToken resolves a display token (or accepted alias) to its operator.
func LookupToken(tok string) (Op, bool) {
	op, ok := tokenIndex[tok]
	return op, ok
}

// Eval applies a foldable binary operator to two literal values.
// Pow is evaluated with math.Pow; Div follows IEEE-754 (x/0 is ±Inf or NaN).
func Eval(op Op, a, b float64) (float64, error) {
	if !op.Valid() {
		return 0, &OperatorError{Op: op, Stage: "eval", Err: ErrUnknownOperator}
	}
	if !op.Foldable() {
		return 0, &OperatorError{Op: op, Stage: "eval", Err: ErrNotFoldable}
	}
	return opTable[op].eval(a, b), nil
}

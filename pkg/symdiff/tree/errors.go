package tree

import (
	"errors"
	"fmt"
)

// Sentinel errors for malformed input.
var (
	// ErrUnknownOperator indicates an operator tag outside the defined set.
	ErrUnknownOperator = errors.New("unknown operator")

	// ErrNotFoldable indicates Eval was asked to fold a non-arithmetic operator.
	ErrNotFoldable = errors.New("operator cannot be folded")

	// ErrMalformedNode indicates a node whose children do not match its kind or arity,
	// or whose parent link disagrees with the slot holding it.
	ErrMalformedNode = errors.New("malformed node")

	// ErrInvalidNode indicates a NodeID that does not address a node of this tree.
	ErrInvalidNode = errors.New("invalid node")
)

// Sentinel errors for ownership and resources.
var (
	// ErrNodeLimit indicates the tree reached its configured node limit.
	ErrNodeLimit = errors.New("node limit reached")

	// ErrAlreadyAttached indicates an attempt to give a node a second owner.
	ErrAlreadyAttached = errors.New("node already attached")

	// ErrFreedNode indicates an operation on a node that was already destroyed.
	ErrFreedNode = errors.New("node already freed")
)

// OperatorError wraps an error with the operator and stage that produced it.
type OperatorError struct {
	// Op is the operator being processed.
	Op Op
	// Stage names the operation that failed ("construct", "eval", "differentiate", "simplify").
	Stage string
	// Err is the underlying error.
	Err error
}

// Error implements the error interface.
func (e *OperatorError) Error() string {
	return fmt.Sprintf("%s %s: %v", e.Stage, e.Op, e.Err)
}

// Unwrap returns the underlying error for errors.Is/As support.
func (e *OperatorError) Unwrap() error {
	return e.Err
}

package symdiff

import (
	"context"
	"errors"
	"fmt"

	"github.com/randalmurphal/symdiff/pkg/symdiff/sexpr"
	"github.com/randalmurphal/symdiff/pkg/symdiff/store"
	"github.com/randalmurphal/symdiff/pkg/symdiff/tree"
)

// Sentinel errors for Engine calls.
var (
	// ErrNilTree indicates a nil source tree.
	ErrNilTree = errors.New("tree cannot be nil")

	// ErrInvalidOrder indicates DeriveN was asked for fewer than one derivative.
	ErrInvalidOrder = errors.New("order must be at least 1")
)

// DerivationError wraps an error with the variable and stage that produced it.
type DerivationError struct {
	// Variable is the variable being differentiated against. It is empty for
	// a standalone simplification.
	Variable string
	// Stage is "differentiate", "simplify" or "derive".
	Stage string
	// Err is the underlying error.
	Err error
}

// Error implements the error interface.
func (e *DerivationError) Error() string {
	if e.Variable == "" {
		return fmt.Sprintf("%s: %v", e.Stage, e.Err)
	}
	return fmt.Sprintf("%s d/d%s: %v", e.Stage, e.Variable, e.Err)
}

// Unwrap returns the underlying error for errors.Is/As support.
func (e *DerivationError) Unwrap() error {
	return e.Err
}

// Category represents what kind of failure an error is.
type Category int

const (
	// CategoryUnknown is anything not recognised below.
	CategoryUnknown Category = iota

	// CategoryMalformed indicates a tree that breaks its structural rules:
	// unknown operators, missing operands, stale or shared nodes.
	CategoryMalformed

	// CategoryResource indicates a configured limit was hit.
	CategoryResource

	// CategorySyntax indicates unparseable text input.
	CategorySyntax

	// CategoryStorage indicates a record store failure.
	CategoryStorage

	// CategoryCanceled indicates the context was canceled or timed out.
	CategoryCanceled
)

// String returns the category name.
func (c Category) String() string {
	switch c {
	case CategoryMalformed:
		return "malformed"
	case CategoryResource:
		return "resource"
	case CategorySyntax:
		return "syntax"
	case CategoryStorage:
		return "storage"
	case CategoryCanceled:
		return "canceled"
	default:
		return "unknown"
	}
}

// Categorize determines what kind of failure err is.
func Categorize(err error) Category {
	if err == nil {
		return CategoryUnknown
	}

	// Syntax errors may wrap a tree error; the syntax is the root cause.
	var syn *sexpr.SyntaxError
	if errors.As(err, &syn) {
		return CategorySyntax
	}

	switch {
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return CategoryCanceled
	case errors.Is(err, tree.ErrNodeLimit):
		return CategoryResource
	case errors.Is(err, tree.ErrUnknownOperator),
		errors.Is(err, tree.ErrMalformedNode),
		errors.Is(err, tree.ErrInvalidNode),
		errors.Is(err, tree.ErrFreedNode),
		errors.Is(err, tree.ErrAlreadyAttached),
		errors.Is(err, sexpr.ErrUnrepresentable),
		errors.Is(err, ErrNilTree),
		errors.Is(err, ErrInvalidOrder):
		return CategoryMalformed
	case errors.Is(err, store.ErrNotFound),
		errors.Is(err, store.ErrStoreClosed),
		errors.Is(err, store.ErrInvalidRecord):
		return CategoryStorage
	}
	return CategoryUnknown
}

package symdiff

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/randalmurphal/symdiff/pkg/symdiff/sexpr"
	"github.com/randalmurphal/symdiff/pkg/symdiff/store"
	"github.com/randalmurphal/symdiff/pkg/symdiff/tree"
)

func TestDerivationError(t *testing.T) {
	err := &DerivationError{Variable: "x", Stage: stageDifferentiate, Err: tree.ErrNodeLimit}
	assert.Equal(t, "differentiate d/dx: node limit reached", err.Error())
	assert.ErrorIs(t, err, tree.ErrNodeLimit)

	err = &DerivationError{Stage: stageSimplify, Err: tree.ErrUnknownOperator}
	assert.Equal(t, "simplify: unknown operator", err.Error())
}

func TestCategorize(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want Category
	}{
		{"nil", nil, CategoryUnknown},
		{"plain", errors.New("boom"), CategoryUnknown},
		{"node limit", fmt.Errorf("wrapped: %w", tree.ErrNodeLimit), CategoryResource},
		{"unknown operator", &tree.OperatorError{Op: tree.OpInvalid, Stage: "simplify", Err: tree.ErrUnknownOperator}, CategoryMalformed},
		{"malformed", tree.ErrMalformedNode, CategoryMalformed},
		{"freed", tree.ErrFreedNode, CategoryMalformed},
		{"unrepresentable", sexpr.ErrUnrepresentable, CategoryMalformed},
		{"syntax wrapping malformed", &sexpr.SyntaxError{Offset: 3, Msg: "leaf", Err: tree.ErrMalformedNode}, CategorySyntax},
		{"store", &DerivationError{Stage: stageDerive, Err: store.ErrNotFound}, CategoryStorage},
		{"closed store", store.ErrStoreClosed, CategoryStorage},
		{"canceled", &DerivationError{Variable: "x", Stage: stageDifferentiate, Err: context.Canceled}, CategoryCanceled},
		{"deadline", context.DeadlineExceeded, CategoryCanceled},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Categorize(tt.err))
		})
	}
}

func TestCategoryString(t *testing.T) {
	assert.Equal(t, "malformed", CategoryMalformed.String())
	assert.Equal(t, "resource", CategoryResource.String())
	assert.Equal(t, "syntax", CategorySyntax.String())
	assert.Equal(t, "storage", CategoryStorage.String())
	assert.Equal(t, "canceled", CategoryCanceled.String())
	assert.Equal(t, "unknown", Category(99).String())
}

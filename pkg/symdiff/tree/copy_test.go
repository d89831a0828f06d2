package tree

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCopySubtreeIntoOtherTree(t *testing.T) {
	src, ids := sample(t)
	dst := New()

	cp, err := CopySubtree(dst, src, ids["add"])
	require.NoError(t, err)

	assert.Equal(t, Nil, dst.Parent(cp), "copy is returned detached")
	assert.True(t, Equal(src, ids["add"], dst, cp, 0))
	assert.Equal(t, 3, dst.Len())
	assert.Equal(t, 6, src.Len(), "source untouched")

	// Mutating the copy leaves the source alone.
	require.NoError(t, dst.ReplaceWithNumber(cp, 9))
	assert.Equal(t, KindOperation, src.Kind(ids["add"]))
	assert.Equal(t, "x", src.Name(ids["x"]))
}

func TestCopySubtreeWithinTree(t *testing.T) {
	tr, ids := sample(t)

	cp, err := CopySubtree(tr, tr, ids["sin"])
	require.NoError(t, err)

	assert.NotEqual(t, ids["sin"], cp)
	assert.True(t, Equal(tr, ids["sin"], tr, cp, 0))
	assert.Equal(t, 8, tr.Len())

	// The copy can be attached under a new parent.
	two := num(t, tr, 2)
	parent := op(t, tr, OpPow, cp, two)
	assert.Equal(t, parent, tr.Parent(cp))
	assert.Equal(t, ids["mul"], tr.Parent(ids["sin"]))
}

func TestCopySubtreeCleansUpOnNodeLimit(t *testing.T) {
	src, ids := sample(t)
	dst := New(WithMaxNodes(4))

	_, err := CopySubtree(dst, src, ids["mul"])
	require.ErrorIs(t, err, ErrNodeLimit)

	stats := dst.Stats()
	assert.Equal(t, 0, stats.Live, "partial copy is freed")
	assert.Equal(t, stats.Allocated, stats.Freed)
}

func TestCopySubtreeInvalid(t *testing.T) {
	src := New()
	_, err := CopySubtree(New(), src, Nil)
	assert.ErrorIs(t, err, ErrInvalidNode)
}

func TestClone(t *testing.T) {
	tr, _ := sample(t)

	cp, err := tr.Clone()
	require.NoError(t, err)

	assert.True(t, Equal(tr, tr.Root(), cp, cp.Root(), 0))
	assert.Equal(t, tr.Len(), cp.Len())
	require.NoError(t, cp.Verify())

	require.NoError(t, cp.Destroy(cp.Root()))
	assert.Equal(t, 6, tr.Len())
	require.NoError(t, tr.Verify())
}

func TestCloneEmpty(t *testing.T) {
	cp, err := New(WithMaxNodes(5)).Clone()
	require.NoError(t, err)
	assert.Equal(t, Nil, cp.Root())
	assert.Equal(t, 5, cp.MaxNodes())
}

func TestExtract(t *testing.T) {
	tr, ids := sample(t)

	sub, err := tr.Extract(ids["sin"])
	require.NoError(t, err)

	assert.Equal(t, OpSin, sub.Op(sub.Root()))
	assert.Equal(t, "y", sub.Name(sub.Right(sub.Root())))
	assert.Equal(t, 2, sub.Len())
	require.NoError(t, sub.Verify())
}

package tree

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLocateSlot(t *testing.T) {
	tr, ids := sample(t)

	tests := []struct {
		name string
		id   NodeID
		want Slot
	}{
		{"root", ids["mul"], RootSlot()},
		{"left", ids["add"], Slot{Parent: ids["mul"], Side: SideLeft}},
		{"right", ids["sin"], Slot{Parent: ids["mul"], Side: SideRight}},
		{"unary operand", ids["y"], Slot{Parent: ids["sin"], Side: SideRight}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := tr.LocateSlot(tt.id)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}

	t.Run("detached", func(t *testing.T) {
		z := variable(t, tr, "z")
		got, err := tr.LocateSlot(z)
		require.NoError(t, err)
		assert.Equal(t, SideNone, got.Side)
	})

	t.Run("freed", func(t *testing.T) {
		z := variable(t, tr, "w")
		require.NoError(t, tr.Destroy(z))
		_, err := tr.LocateSlot(z)
		assert.ErrorIs(t, err, ErrFreedNode)
	})
}

func TestSideString(t *testing.T) {
	assert.Equal(t, "root", SideRoot.String())
	assert.Equal(t, "left", SideLeft.String())
	assert.Equal(t, "right", SideRight.String())
	assert.Equal(t, "none", SideNone.String())
}

func TestDestroyRootFreesEverything(t *testing.T) {
	tr, ids := sample(t)

	require.NoError(t, tr.Destroy(ids["mul"]))

	assert.Equal(t, Nil, tr.Root())
	assert.Equal(t, Stats{Allocated: 6, Freed: 6, Live: 0}, tr.Stats())
	for name, id := range ids {
		assert.False(t, tr.Valid(id), name)
	}
	require.NoError(t, tr.Verify())
}

func TestDestroyTwice(t *testing.T) {
	tr, ids := sample(t)
	require.NoError(t, tr.Destroy(ids["mul"]))

	err := tr.Destroy(ids["mul"])
	assert.ErrorIs(t, err, ErrFreedNode)
	assert.Equal(t, 6, tr.Stats().Freed, "no double free")
}

func TestDestroyClearsParentSlot(t *testing.T) {
	tr, ids := sample(t)

	require.NoError(t, tr.Destroy(ids["add"]))

	assert.Equal(t, Nil, tr.Left(ids["mul"]))
	assert.Equal(t, 3, tr.Stats().Freed)
	assert.Equal(t, 3, tr.Len())

	// The parent is now missing an operand, which Verify reports.
	assert.ErrorIs(t, tr.Verify(), ErrMalformedNode)
}

func TestDestroyInvalid(t *testing.T) {
	tr := New()
	assert.ErrorIs(t, tr.Destroy(Nil), ErrInvalidNode)
	assert.ErrorIs(t, tr.Destroy(NodeID(7)), ErrInvalidNode)
}

func TestReplaceRoot(t *testing.T) {
	tr, ids := sample(t)
	seven := num(t, tr, 7)

	require.NoError(t, tr.Replace(RootSlot(), seven))

	assert.Equal(t, seven, tr.Root())
	assert.Equal(t, Nil, tr.Parent(seven))
	assert.False(t, tr.Valid(ids["mul"]))
	assert.Equal(t, Stats{Allocated: 7, Freed: 6, Live: 1}, tr.Stats())
	require.NoError(t, tr.Verify())
}

func TestReplaceChild(t *testing.T) {
	tr, ids := sample(t)
	z := variable(t, tr, "z")

	slot, err := tr.LocateSlot(ids["add"])
	require.NoError(t, err)
	require.NoError(t, tr.Replace(slot, z))

	assert.Equal(t, z, tr.Left(ids["mul"]))
	assert.Equal(t, ids["mul"], tr.Parent(z))
	assert.False(t, tr.Valid(ids["x"]))
	assert.False(t, tr.Valid(ids["2"]))
	assert.Equal(t, 4, tr.Len())
	require.NoError(t, tr.Verify())
}

func TestReplaceFailuresLeaveTreeUnchanged(t *testing.T) {
	t.Run("attached replacement", func(t *testing.T) {
		tr, ids := sample(t)
		before := tr.Stats()
		slot, err := tr.LocateSlot(ids["sin"])
		require.NoError(t, err)

		err = tr.Replace(slot, ids["x"])
		assert.ErrorIs(t, err, ErrAlreadyAttached)
		assert.Equal(t, before, tr.Stats())
		require.NoError(t, tr.Verify())
	})

	t.Run("replacement is an ancestor", func(t *testing.T) {
		tr := New()
		x := variable(t, tr, "x")
		neg := op(t, tr, OpSin, Nil, x)

		err := tr.Replace(Slot{Parent: neg, Side: SideRight}, neg)
		assert.ErrorIs(t, err, ErrMalformedNode)
		assert.Equal(t, x, tr.Right(neg))
	})

	t.Run("parent is a leaf", func(t *testing.T) {
		tr := New()
		x := variable(t, tr, "x")
		y := variable(t, tr, "y")

		err := tr.Replace(Slot{Parent: x, Side: SideLeft}, y)
		assert.ErrorIs(t, err, ErrMalformedNode)
	})

	t.Run("detached slot", func(t *testing.T) {
		tr := New()
		y := variable(t, tr, "y")
		err := tr.Replace(Slot{Parent: Nil, Side: SideNone}, y)
		assert.ErrorIs(t, err, ErrInvalidNode)
	})
}

func TestReplaceEmptyRoot(t *testing.T) {
	tr := New()
	x := variable(t, tr, "x")

	require.NoError(t, tr.Replace(RootSlot(), x))
	assert.Equal(t, x, tr.Root())
	assert.Equal(t, 0, tr.Stats().Freed)
}

func TestPromote(t *testing.T) {
	t.Run("into root", func(t *testing.T) {
		tr, ids := sample(t)

		require.NoError(t, tr.Promote(ids["sin"]))

		assert.Equal(t, ids["sin"], tr.Root())
		assert.Equal(t, Nil, tr.Parent(ids["sin"]))
		assert.False(t, tr.Valid(ids["mul"]))
		assert.False(t, tr.Valid(ids["add"]))
		assert.False(t, tr.Valid(ids["x"]))
		assert.Equal(t, Stats{Allocated: 6, Freed: 4, Live: 2}, tr.Stats())
		require.NoError(t, tr.Verify())
	})

	t.Run("into child slot", func(t *testing.T) {
		tr, ids := sample(t)

		require.NoError(t, tr.Promote(ids["x"]))

		assert.Equal(t, ids["x"], tr.Left(ids["mul"]))
		assert.Equal(t, ids["mul"], tr.Parent(ids["x"]))
		assert.Equal(t, 4, tr.Len())
		require.NoError(t, tr.Verify())
	})

	t.Run("root has no parent", func(t *testing.T) {
		tr, ids := sample(t)
		assert.ErrorIs(t, tr.Promote(ids["mul"]), ErrMalformedNode)
	})

	t.Run("detached parent", func(t *testing.T) {
		tr := New()
		x := variable(t, tr, "x")
		ln := op(t, tr, OpLn, Nil, x)

		require.NoError(t, tr.Promote(x))

		assert.False(t, tr.Valid(ln))
		assert.True(t, tr.Valid(x))
		assert.Equal(t, Nil, tr.Parent(x))
		assert.Equal(t, Nil, tr.Root())
		slot, err := tr.LocateSlot(x)
		require.NoError(t, err)
		assert.Equal(t, SideNone, slot.Side)
	})
}

func TestReplaceWithNumber(t *testing.T) {
	tr, ids := sample(t)

	require.NoError(t, tr.ReplaceWithNumber(ids["add"], 0))

	assert.Equal(t, KindNumber, tr.Kind(ids["add"]))
	assert.Equal(t, 0.0, tr.Value(ids["add"]))
	assert.Equal(t, ids["add"], tr.Left(ids["mul"]))
	assert.Equal(t, ids["mul"], tr.Parent(ids["add"]))
	assert.Equal(t, Nil, tr.Left(ids["add"]))
	assert.Equal(t, Nil, tr.Right(ids["add"]))
	assert.Equal(t, Stats{Allocated: 6, Freed: 2, Live: 4}, tr.Stats())
	require.NoError(t, tr.Verify())
}

func TestDetach(t *testing.T) {
	tr, ids := sample(t)

	require.NoError(t, tr.Detach(ids["sin"]))
	assert.Equal(t, Nil, tr.Right(ids["mul"]))
	assert.Equal(t, Nil, tr.Parent(ids["sin"]))

	// Reattach through Replace.
	require.NoError(t, tr.Replace(Slot{Parent: ids["mul"], Side: SideRight}, ids["sin"]))
	require.NoError(t, tr.Verify())

	require.NoError(t, tr.Detach(ids["mul"]))
	assert.Equal(t, Nil, tr.Root())
}

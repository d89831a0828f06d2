/*
Package tree provides the expression-tree node model used by the
differentiation and simplification engines.

# Overview

A Tree is an arena that owns every node it contains. Nodes are addressed by
NodeID, an index into the arena; Nil marks an absent child or parent. Each
node is one of three kinds:

	KindNumber     a float64 literal
	KindVariable   a named variable
	KindOperation  an operator from the closed Op set

Binary operators (Add, Sub, Mul, Div, Pow, Log) populate both children.
Unary operators (Sqrt, Ln and the trigonometric, hyperbolic and inverse
trigonometric functions) populate only the right child. Log stores its base
on the left and its argument on the right.

# Ownership

Left and right links own their subtrees. Parent links are plain indices used
to find the slot a node occupies; they never own anything. Only the Tree can
free a node, and nodes are never shared between trees: reusing a piece of one
tree in another always goes through CopySubtree.

	t := tree.New()
	x, _ := t.Variable("x")
	two, _ := t.Number(2)
	mul, _ := t.Operation(tree.OpMul, two, x)
	_ = t.SetRoot(mul)

# Rewriting

Replace is the single path for changing what a slot holds. It splices a
detached subtree into the root, left or right slot, relinks the parent, and
only then destroys the previous occupant. Promote and ReplaceWithNumber are
the two rewrites the simplifier uses:

	// x * 1  ->  x
	_ = t.Promote(t.Left(mul))

	// 3 + 4  ->  7
	_ = t.ReplaceWithNumber(add, 7)

# Accounting

Stats reports how many nodes were allocated and freed over the life of the
tree. Destroy frees each node exactly once and refuses to free a node twice.
Verify walks the tree and checks parent links, operator arity and that every
live node is reachable from the root.
*/
package tree

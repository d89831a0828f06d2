package tree

// CopySubtree copies the subtree rooted at id in src into dst and returns the
// copy's root, detached. dst may be src itself. No node of the copy is shared
// with src. On error every node allocated for the partial copy is freed.
func CopySubtree(dst, src *Tree, id NodeID) (NodeID, error) {
	if _, err := src.lookup(id); err != nil {
		return Nil, err
	}
	return copyNode(dst, src, id)
}

func copyNode(dst, src *Tree, id NodeID) (NodeID, error) {
	n := src.nodes[id]
	switch n.kind {
	case KindNumber:
		return dst.Number(n.number)
	case KindVariable:
		return dst.Variable(n.name)
	}

	left, right := Nil, Nil
	if n.left != Nil {
		l, err := copyNode(dst, src, n.left)
		if err != nil {
			return Nil, err
		}
		left = l
	}
	if n.right != Nil {
		r, err := copyNode(dst, src, n.right)
		if err != nil {
			dst.discard(left)
			return Nil, err
		}
		right = r
	}
	op, err := dst.Operation(n.op, left, right)
	if err != nil {
		dst.discard(left)
		dst.discard(right)
		return Nil, err
	}
	return op, nil
}

// discard destroys a detached subtree, ignoring Nil.
func (t *Tree) discard(id NodeID) {
	if id != Nil && t.Valid(id) {
		t.destroy(id)
	}
}

// Clone returns an independent copy of the whole tree with the same node limit.
// The copy's node ids are unrelated to the receiver's.
func (t *Tree) Clone() (*Tree, error) {
	out := New(WithMaxNodes(t.maxNodes))
	if t.root == Nil {
		return out, nil
	}
	root, err := CopySubtree(out, t, t.root)
	if err != nil {
		return nil, err
	}
	out.root = root
	return out, nil
}

// Extract copies the subtree rooted at id into a new tree whose root is the copy.
func (t *Tree) Extract(id NodeID) (*Tree, error) {
	out := New(WithMaxNodes(t.maxNodes))
	root, err := CopySubtree(out, t, id)
	if err != nil {
		return nil, err
	}
	out.root = root
	return out, nil
}

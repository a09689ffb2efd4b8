package btree

import "bptreedb/pkg/record"

// Insert adds (key, value) to the tree. It returns ErrDuplicate, leaving
// the tree unmodified, if key is already present.
func (t *Tree) Insert(key record.Key, value record.Value) error {
	leafOffset, _, _, err := t.locate(key)
	if err != nil {
		return err
	}
	lf, err := t.readLeaf(leafOffset)
	if err != nil {
		return err
	}

	i := leafLowerBound(lf, key)
	if i < lf.N && lf.Entries[i].Key.Equal(key) {
		return ErrDuplicate
	}

	if lf.N < t.cfg.Order {
		insertLeafEntryNoSplit(lf, key, value)
		if err := t.writeLeaf(leafOffset, lf); err != nil {
			return err
		}
		return t.persistHeader()
	}

	if err := t.splitLeafAndInsert(leafOffset, lf, key, value); err != nil {
		return err
	}
	return t.persistHeader()
}

// Update overwrites the value stored for key, leaving the tree's structure
// unchanged. It returns ErrNotFound if key is absent.
func (t *Tree) Update(key record.Key, value record.Value) error {
	leafOffset, _, _, err := t.locate(key)
	if err != nil {
		return err
	}
	lf, err := t.readLeaf(leafOffset)
	if err != nil {
		return err
	}

	i := leafLowerBound(lf, key)
	if i >= lf.N || !lf.Entries[i].Key.Equal(key) {
		return ErrNotFound
	}
	lf.Entries[i].Value = value
	return t.writeLeaf(leafOffset, lf)
}

// insertLeafEntryNoSplit shift-inserts (key, value) at the first position
// whose key is strictly greater than key. Callers must have already
// verified lf has spare capacity.
func insertLeafEntryNoSplit(lf *leafNode, key record.Key, value record.Value) {
	i := 0
	for i < lf.N && !key.Less(lf.Entries[i].Key) {
		i++
	}
	for j := lf.N; j > i; j-- {
		lf.Entries[j] = lf.Entries[j-1]
	}
	lf.Entries[i] = leafEntry{Key: key, Value: value}
	lf.N++
}

// splitLeafAndInsert handles insertion into a full leaf: allocate a new
// leaf, splice it into the prev/next chain right after the overflowing
// one, move the upper half of entries across, insert the new record into
// whichever half it belongs, and promote the new leaf's minimum key into
// the parent.
func (t *Tree) splitLeafAndInsert(offset int64, lf *leafNode, key record.Key, value record.Value) error {
	n := lf.N
	point := n / 2
	placeRight := !key.Less(lf.Entries[point].Key)
	if placeRight {
		point++
	}

	right := newLeafNode(t.cfg)
	right.N = n - point
	copy(right.Entries[:right.N], lf.Entries[point:n])
	lf.N = point

	right.Parent = lf.Parent
	right.Prev = offset
	right.Next = lf.Next
	rightOffset := t.allocLeaf()

	if lf.Next != 0 {
		oldNext, err := t.readLeaf(lf.Next)
		if err != nil {
			return err
		}
		oldNext.Prev = rightOffset
		if err := t.writeLeaf(lf.Next, oldNext); err != nil {
			return err
		}
	}
	lf.Next = rightOffset

	if placeRight {
		insertLeafEntryNoSplit(right, key, value)
	} else {
		insertLeafEntryNoSplit(lf, key, value)
	}

	if err := t.writeLeaf(offset, lf); err != nil {
		return err
	}
	if err := t.writeLeaf(rightOffset, right); err != nil {
		return err
	}

	promoted := right.Entries[0].Key
	return t.insertKeyToIndex(lf.Parent, promoted, offset, rightOffset)
}

// insertKeyToIndex pushes a promoted separator into an internal node. When
// off is 0 the node being split had no parent — it was the root — so a
// fresh root is grown over old and after instead.
func (t *Tree) insertKeyToIndex(off int64, key record.Key, oldChild, afterChild int64) error {
	if off == 0 {
		return t.growRoot(key, oldChild, afterChild)
	}

	nd, err := t.readInternal(off)
	if err != nil {
		return err
	}

	if nd.N < t.cfg.Order {
		insertInternalEntryNoSplit(nd, key, oldChild, afterChild)
		return t.writeInternal(off, nd)
	}

	return t.splitInternalAndInsert(off, nd, key, oldChild, afterChild)
}

// growRoot creates a fresh internal root over old (left) and after
// (right), bumps height, and repoints both children's parent.
func (t *Tree) growRoot(key record.Key, oldChild, afterChild int64) error {
	newRootOffset := t.allocInternal()

	root := newInternalNode(t.cfg)
	root.N = 2
	root.Entries[0] = internalEntry{Key: key, Child: oldChild}
	root.Entries[1] = internalEntry{Child: afterChild}

	if err := t.writeInternal(newRootOffset, root); err != nil {
		return err
	}
	if err := setNodeParent(t.store, oldChild, newRootOffset); err != nil {
		return err
	}
	if err := setNodeParent(t.store, afterChild, newRootOffset); err != nil {
		return err
	}

	t.header.RootOffset = newRootOffset
	t.header.Height++
	return nil
}

// insertInternalEntryNoSplit appends one (key, child) pair to a
// not-yet-full internal node. The new separator key lands at the first
// position among the node's meaningful separators (indices [0, n-1)) that
// is strictly greater than key; the slot it displaces inherits the old
// child there, and that old child's former neighbor becomes afterChild.
func insertInternalEntryNoSplit(nd *internalNode, key record.Key, oldChild, afterChild int64) {
	n := nd.N
	pos := n - 1
	for i := 0; i < n-1; i++ {
		if key.Less(nd.Entries[i].Key) {
			pos = i
			break
		}
	}

	for i := n; i > pos; i-- {
		nd.Entries[i] = nd.Entries[i-1]
	}

	assertf(nd.Entries[pos+1].Child == oldChild, "internal no-split insert: position does not hold old child")
	nd.Entries[pos] = internalEntry{Key: key, Child: oldChild}
	nd.Entries[pos+1].Child = afterChild
	nd.N = n + 1
}

// splitInternalAndInsert handles insertion into a full internal node. The
// split point starts at (n-1)/2; if the new key sorts to the right of the
// separator there, the point shifts one entry right, and then backs off by
// one more if that overshot into the new key's own side. Comparing the new
// key directly against the candidate separator at each step (rather than
// only comparing index positions) is what keeps both halves within the
// occupancy bound no matter where the new key lands, including the cases
// where it falls in the middle of the node rather than at either edge.
func (t *Tree) splitInternalAndInsert(off int64, nd *internalNode, key record.Key, oldChild, afterChild int64) error {
	n := nd.N

	point := (n - 1) / 2
	placeRight := nd.Entries[point].Key.Less(key)
	if placeRight {
		point++
	}
	if placeRight && key.Less(nd.Entries[point].Key) {
		point--
	}

	right := newInternalNode(t.cfg)
	right.N = n - point - 1
	copy(right.Entries[:right.N], nd.Entries[point+1:n])
	right.Parent = nd.Parent

	promoted := nd.Entries[point].Key
	nd.N = point + 1

	rightOffset := t.allocInternal()

	if placeRight {
		insertInternalEntryNoSplit(right, key, oldChild, afterChild)
	} else {
		insertInternalEntryNoSplit(nd, key, oldChild, afterChild)
	}

	for i := 0; i < right.N; i++ {
		if err := setNodeParent(t.store, right.Entries[i].Child, rightOffset); err != nil {
			return err
		}
	}

	if err := t.writeInternal(off, nd); err != nil {
		return err
	}
	if err := t.writeInternal(rightOffset, right); err != nil {
		return err
	}

	parentOffset := nd.Parent
	if off == t.header.RootOffset {
		parentOffset = 0
	}
	return t.insertKeyToIndex(parentOffset, promoted, off, rightOffset)
}

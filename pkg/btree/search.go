package btree

import "bptreedb/pkg/record"

// upperBoundChild returns the child offset selected by the first separator
// strictly greater than key, or the last child slot if key is at least as
// large as every separator.
func upperBoundChild(nd *internalNode, key record.Key) int64 {
	for i := 0; i < nd.N-1; i++ {
		if key.Less(nd.Entries[i].Key) {
			return nd.Entries[i].Child
		}
	}
	return nd.Entries[nd.N-1].Child
}

// leafLowerBound returns the first index in [0, lf.N) whose key is >=
// key, or lf.N if every live entry sorts before key.
func leafLowerBound(lf *leafNode, key record.Key) int {
	i := 0
	for i < lf.N && lf.Entries[i].Key.Less(key) {
		i++
	}
	return i
}

// searchIndex walks from the root down height-1 internal levels and
// returns the offset of the internal node that is the immediate parent of
// the leaf that would contain key. For a height-1 tree (the common
// single-internal-level case) this is the root itself.
func (t *Tree) searchIndex(key record.Key) (int64, error) {
	offset := t.header.RootOffset
	for level := uint32(0); level+1 < t.header.Height; level++ {
		nd, err := t.readInternal(offset)
		if err != nil {
			return 0, err
		}
		offset = upperBoundChild(nd, key)
	}
	return offset, nil
}

// searchLeaf performs one descent step from an already-located internal
// node (typically the leaf's parent, from searchIndex) to the leaf that
// would contain key, returning both the leaf offset and the parent node
// read along the way.
func (t *Tree) searchLeaf(parentOffset int64, key record.Key) (leafOffset int64, parent *internalNode, err error) {
	parent, err = t.readInternal(parentOffset)
	if err != nil {
		return 0, nil, err
	}
	return upperBoundChild(parent, key), parent, nil
}

// locate is search_leaf(key) = search_leaf(search_index(key), key), bundled
// with the parent offset/node the insert and delete engines also need.
func (t *Tree) locate(key record.Key) (leafOffset, parentOffset int64, parent *internalNode, err error) {
	parentOffset, err = t.searchIndex(key)
	if err != nil {
		return 0, 0, nil, err
	}
	leafOffset, parent, err = t.searchLeaf(parentOffset, key)
	return leafOffset, parentOffset, parent, err
}

// Search performs a point lookup. It returns (value, true, nil) if key is
// present, (zero value, false, nil) if absent, or a non-nil error on I/O
// failure.
func (t *Tree) Search(key record.Key) (record.Value, bool, error) {
	leafOffset, _, _, err := t.locate(key)
	if err != nil {
		return record.Value{}, false, err
	}
	lf, err := t.readLeaf(leafOffset)
	if err != nil {
		return record.Value{}, false, err
	}
	i := leafLowerBound(lf, key)
	if i < lf.N && lf.Entries[i].Key.Equal(key) {
		return lf.Entries[i].Value, true, nil
	}
	return record.Value{}, false, nil
}

// SearchRange returns up to max values whose keys lie in [left, right],
// scanning forward via the leaf chain starting from left's lower bound. If
// the range holds more than max matching keys, the next unread key is
// returned as the resume key; otherwise the resume key is nil.
func (t *Tree) SearchRange(left, right record.Key, max int) ([]record.Value, *record.Key, error) {
	if right.Less(left) {
		return nil, nil, ErrInvalidRange
	}

	leafOffset, _, _, err := t.locate(left)
	if err != nil {
		return nil, nil, err
	}

	var out []record.Value
	first := true
	for leafOffset != 0 {
		lf, err := t.readLeaf(leafOffset)
		if err != nil {
			return nil, nil, err
		}

		start := 0
		if first {
			start = leafLowerBound(lf, left)
			first = false
		}

		for i := start; i < lf.N; i++ {
			e := lf.Entries[i]
			if right.Less(e.Key) {
				return out, nil, nil
			}
			if len(out) >= max {
				resume := e.Key
				return out, &resume, nil
			}
			out = append(out, e.Value)
		}

		leafOffset = lf.Next
	}

	return out, nil, nil
}

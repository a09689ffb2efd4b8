package btree

import "bptreedb/pkg/record"

// changeParentChild rewrites parentOffset's separator entry matching
// oldKey to newKey. A separator's value is, by invariant, the minimum key
// of the subtree immediately to its right, promoted upward — so if the
// rewritten entry is the parent's own last meaningful separator, the same
// key may also be an ancestor's separator, and the change must propagate
// one level up by the same rule.
func (t *Tree) changeParentChild(parentOffset int64, oldKey, newKey record.Key) error {
	if parentOffset == 0 {
		return nil
	}

	nd, err := t.readInternal(parentOffset)
	if err != nil {
		return err
	}

	pos := -1
	for i := 0; i < nd.N-1; i++ {
		if nd.Entries[i].Key.Equal(oldKey) {
			pos = i
			break
		}
	}
	if pos < 0 {
		return nil
	}

	nd.Entries[pos].Key = newKey
	if err := t.writeInternal(parentOffset, nd); err != nil {
		return err
	}

	if pos == nd.N-2 && parentOffset != t.header.RootOffset {
		return t.changeParentChild(nd.Parent, oldKey, newKey)
	}
	return nil
}

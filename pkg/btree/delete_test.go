package btree

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestRemoveMissingKeyFails verifies Remove reports ErrNotFound for an
// absent key without modifying the tree.
func TestRemoveMissingKeyFails(t *testing.T) {
	tr := newTestTree(t, 4)
	require.NoError(t, tr.Insert(k("a"), v("a", 1)))

	err := tr.Remove(k("ghost"))
	assert.ErrorIs(t, err, ErrNotFound)

	_, ok, err := tr.Search(k("a"))
	require.NoError(t, err)
	assert.True(t, ok)
}

// TestRemoveSingleKeyEmptiesTree verifies the single-leaf relaxation: a
// tree with exactly one leaf may shrink that leaf to n=0 on the last
// delete without a rebalance.
func TestRemoveSingleKeyEmptiesTree(t *testing.T) {
	tr := newTestTree(t, 4)
	require.NoError(t, tr.Insert(k("a"), v("a", 1)))
	require.NoError(t, tr.Remove(k("a")))

	meta := tr.Meta()
	assert.Equal(t, uint32(1), meta.Height)
	assert.Equal(t, uint32(1), meta.LeafNodeNum)

	_, ok, err := tr.Search(k("a"))
	require.NoError(t, err)
	assert.False(t, ok)

	verifyTreeInvariants(t, tr)
}

// TestRemoveTriggersBorrow drives a split, then deletes enough from one
// leaf to force a borrow from its sibling, and checks invariants hold.
func TestRemoveTriggersBorrow(t *testing.T) {
	tr := newTestTree(t, 4)

	keys := []string{"a", "b", "c", "d", "e", "f", "g"}
	for _, name := range keys {
		require.NoError(t, tr.Insert(k(name), v(name, 1)))
	}
	verifyTreeInvariants(t, tr)

	// The leaves are now [a b c] and [d e f g]. Removing "a" leaves the
	// left leaf at the ORDER/2 floor; removing "b" takes it below, so it
	// borrows "d" from its right sibling.
	require.NoError(t, tr.Remove(k("a")))
	verifyTreeInvariants(t, tr)
	require.NoError(t, tr.Remove(k("b")))
	verifyTreeInvariants(t, tr)

	for _, name := range []string{"c", "d", "e", "f", "g"} {
		_, ok, err := tr.Search(k(name))
		require.NoError(t, err)
		assert.True(t, ok, "key %q should survive", name)
	}
	for _, name := range []string{"a", "b"} {
		_, ok, err := tr.Search(k(name))
		require.NoError(t, err)
		assert.False(t, ok)
	}
}

// TestRemoveTriggersMergeAndHeightShrink drives a tree through enough
// growth to raise its height, then deletes almost everything back down,
// checking that merges cascade and the root eventually shrinks.
func TestRemoveTriggersMergeAndHeightShrink(t *testing.T) {
	tr := newTestTree(t, 4)

	const count = 60
	names := make([]string, count)
	for i := 0; i < count; i++ {
		names[i] = fmt.Sprintf("k%03d", i)
		require.NoError(t, tr.Insert(k(names[i]), v(names[i], int32(i))))
	}
	require.Greater(t, tr.Meta().Height, uint32(1))

	for i := 0; i < count-1; i++ {
		require.NoError(t, tr.Remove(k(names[i])))
		verifyTreeInvariants(t, tr)
	}

	_, ok, err := tr.Search(k(names[count-1]))
	require.NoError(t, err)
	assert.True(t, ok)

	for i := 0; i < count-1; i++ {
		_, ok, err := tr.Search(k(names[i]))
		require.NoError(t, err)
		assert.False(t, ok)
	}
}

// TestDeleteInvertsInsert is the delete-inverts-insert law: inserting a
// batch of keys and then deleting every one of them (in a different
// order) returns the tree to its initial empty state.
func TestDeleteInvertsInsert(t *testing.T) {
	tr := newTestTree(t, 4)

	insertOrder := []string{"m", "b", "x", "a", "q", "c", "z", "d", "f", "n"}
	deleteOrder := []string{"z", "a", "m", "d", "x", "b", "q", "f", "c", "n"}

	for _, name := range insertOrder {
		require.NoError(t, tr.Insert(k(name), v(name, 1)))
	}
	verifyTreeInvariants(t, tr)

	for _, name := range deleteOrder {
		require.NoError(t, tr.Remove(k(name)))
	}

	meta := tr.Meta()
	assert.Equal(t, uint32(1), meta.Height)
	assert.Equal(t, uint32(1), meta.LeafNodeNum)
	assert.Equal(t, uint32(1), meta.InternalNodeNum)

	for _, name := range insertOrder {
		_, ok, err := tr.Search(k(name))
		require.NoError(t, err)
		assert.False(t, ok)
	}

	verifyTreeInvariants(t, tr)
}

package btree

import (
	"testing"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"bptreedb/pkg/record"
)

func newTestTree(t *testing.T, order int) *Tree {
	t.Helper()
	fs := afero.NewMemMapFs()
	tree, err := Open(fs, "/test.db", Config{Order: order})
	require.NoError(t, err)
	return tree
}

func k(s string) record.Key { return record.NewKey(s) }

func v(name string, age int32) record.Value { return record.NewValue(name, age, name+"@example.com") }

// leafChainKeys walks the tree's leaf chain from leaf_offset via next and
// returns every live key, in the order found.
func leafChainKeys(t *testing.T, tr *Tree) []record.Key {
	t.Helper()
	var keys []record.Key
	offset := tr.header.LeafOffset
	visited := map[int64]bool{}
	for offset != 0 {
		require.False(t, visited[offset], "leaf chain cycle detected at offset %d", offset)
		visited[offset] = true
		lf, err := tr.readLeaf(offset)
		require.NoError(t, err)
		for i := 0; i < lf.N; i++ {
			keys = append(keys, lf.Entries[i].Key)
		}
		offset = lf.Next
	}
	return keys
}

// verifyOrderedLeafChain checks invariant: walking the leaf chain yields
// all keys in strictly ascending order.
func verifyOrderedLeafChain(t *testing.T, tr *Tree) {
	t.Helper()
	keys := leafChainKeys(t, tr)
	for i := 1; i < len(keys); i++ {
		assert.True(t, keys[i-1].Less(keys[i]), "leaf chain not ascending at index %d: %q then %q", i, keys[i-1].String(), keys[i].String())
	}
}

// subtreeCheck recursively walks the subtree rooted at offset (at
// levelsAboveLeaf internal levels above the leaf level) verifying
// occupancy bounds, parent back-pointers, and separator correctness. It
// returns the subtree's minimum and maximum live key, and increments the
// running internal/leaf node counts.
func subtreeCheck(t *testing.T, tr *Tree, offset int64, levelsAboveLeaf int, expectParent int64, isRoot bool, internalCount, leafCount *int) (min, max record.Key) {
	t.Helper()

	if levelsAboveLeaf == 0 {
		lf, err := tr.readLeaf(offset)
		require.NoError(t, err)
		*leafCount++
		assert.Equal(t, expectParent, lf.Parent, "leaf at %d: parent back-pointer mismatch", offset)

		minN := tr.cfg.Order / 2
		if tr.header.LeafNodeNum == 1 {
			minN = 0
		}
		assert.GreaterOrEqual(t, lf.N, minN, "leaf at %d underfull", offset)
		assert.LessOrEqual(t, lf.N, tr.cfg.Order, "leaf at %d overfull", offset)

		if lf.N == 0 {
			return min, max
		}
		return lf.Entries[0].Key, lf.Entries[lf.N-1].Key
	}

	nd, err := tr.readInternal(offset)
	require.NoError(t, err)
	*internalCount++
	if !isRoot {
		// A root left behind by a height shrink keeps its stale parent field.
		assert.Equal(t, expectParent, nd.Parent, "internal at %d: parent back-pointer mismatch", offset)
	}

	if isRoot {
		assert.GreaterOrEqual(t, nd.N, 1, "root has no children")
	} else {
		assert.GreaterOrEqual(t, nd.N, tr.cfg.Order/2, "internal at %d underfull", offset)
	}
	assert.LessOrEqual(t, nd.N, tr.cfg.Order, "internal at %d overfull", offset)

	childMins := make([]record.Key, nd.N)
	childMaxs := make([]record.Key, nd.N)
	for i := 0; i < nd.N; i++ {
		childMins[i], childMaxs[i] = subtreeCheck(t, tr, nd.Entries[i].Child, levelsAboveLeaf-1, offset, false, internalCount, leafCount)
	}

	for i := 0; i < nd.N-1; i++ {
		sep := nd.Entries[i].Key
		assert.True(t, childMaxs[i].Less(sep), "separator %q at internal %d entry %d is not greater than child max %q", sep.String(), offset, i, childMaxs[i].String())
		assert.False(t, childMins[i+1].Less(sep), "separator %q at internal %d entry %d is greater than next child min %q", sep.String(), offset, i, childMins[i+1].String())
	}

	return childMins[0], childMaxs[nd.N-1]
}

// verifyTreeInvariants checks occupancy bounds, parent back-pointers,
// separator correctness, and count accuracy across the whole tree, plus
// the ordered-leaf-chain invariant.
func verifyTreeInvariants(t *testing.T, tr *Tree) {
	t.Helper()
	verifyOrderedLeafChain(t, tr)

	var internalCount, leafCount int
	subtreeCheck(t, tr, tr.header.RootOffset, int(tr.header.Height), 0, true, &internalCount, &leafCount)

	assert.Equal(t, int(tr.header.InternalNodeNum), internalCount, "internal_node_num mismatch")
	assert.Equal(t, int(tr.header.LeafNodeNum), leafCount, "leaf_node_num mismatch")
}

package btree

import (
	"encoding/binary"

	"bptreedb/pkg/blockstore"
)

// setNodeParent overwrites just the parent field (the first 8 bytes) of
// the node block at offset. parent is always the first field of both node
// shapes, so this works whether offset holds an internal node or a leaf —
// the caller does not need to know which, which is exactly what lets
// fixups repoint a moved child without decoding it first.
func setNodeParent(store *blockstore.Store, offset, parent int64) error {
	buf := make([]byte, 8)
	binary.LittleEndian.PutUint64(buf, uint64(parent))
	return store.WriteAt(offset, buf)
}

// readHeader decodes the header block at offset 0.
func readHeader(store *blockstore.Store) (Header, error) {
	buf := make([]byte, headerSize)
	if err := store.ReadAt(0, buf); err != nil {
		return Header{}, err
	}
	return decodeHeader(buf)
}

// writeHeader rewrites the header block. Called whenever allocation
// counters, height, root offset, or the high-water mark change — always
// last, after every node write the operation performed.
func writeHeader(store *blockstore.Store, h Header) error {
	return store.WriteAt(0, h.encode())
}

func readInternal(store *blockstore.Store, cfg Config, offset int64) (*internalNode, error) {
	buf := make([]byte, internalNodeSize(cfg))
	if err := store.ReadAt(offset, buf); err != nil {
		return nil, err
	}
	return decodeInternalNode(cfg, buf), nil
}

func writeInternal(store *blockstore.Store, cfg Config, offset int64, nd *internalNode) error {
	return store.WriteAt(offset, nd.encode(cfg))
}

// writeInternalHeader rewrites only parent/next/prev/n, leaving the
// entries array on disk untouched.
func writeInternalHeader(store *blockstore.Store, offset int64, nd *internalNode) error {
	return store.WriteAt(offset, nd.encodeHeaderOnly())
}

func readLeaf(store *blockstore.Store, cfg Config, offset int64) (*leafNode, error) {
	buf := make([]byte, leafNodeSize(cfg))
	if err := store.ReadAt(offset, buf); err != nil {
		return nil, err
	}
	return decodeLeafNode(cfg, buf), nil
}

func writeLeaf(store *blockstore.Store, cfg Config, offset int64, lf *leafNode) error {
	return store.WriteAt(offset, lf.encode(cfg))
}

func writeLeafHeader(store *blockstore.Store, offset int64, lf *leafNode) error {
	return store.WriteAt(offset, lf.encodeHeaderOnly())
}

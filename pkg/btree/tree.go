// Package btree implements the on-disk B+ tree index: node layout, search,
// insert, delete, and the sibling/parent fixups that keep separators
// consistent across every structural change. It is the algorithmic core;
// pkg/blockstore only moves bytes, and pkg/record only defines the fixed
// key and value shapes it stores.
package btree

import (
	"fmt"

	"bptreedb/pkg/blockstore"
	"bptreedb/pkg/record"

	"github.com/spf13/afero"
)

// defaultOrder is used when a caller creates a fresh tree without naming an
// explicit Config.Order.
const defaultOrder = 50

// Tree is a handle onto one on-disk B+ tree file. It is not safe for
// concurrent use: callers serialize mutations externally.
type Tree struct {
	store  *blockstore.Store
	cfg    Config
	header Header
}

// Open opens the tree file at path, creating and initializing a fresh
// empty tree when the file is new (zero-length) or when cfg.ForceEmpty is
// set. A non-empty file too short to hold a header is reported as
// ErrCorruption, not silently reinitialized.
func Open(fs afero.Fs, path string, cfg Config) (*Tree, error) {
	store, err := blockstore.Open(fs, path)
	if err != nil {
		return nil, err
	}

	size, err := store.Size()
	if err != nil {
		return nil, err
	}

	if cfg.ForceEmpty || size == 0 {
		return initEmptyTree(store, cfg)
	}
	if size < headerSize {
		return nil, fmt.Errorf("btree: open %s: %w: file is %d bytes, header needs %d", path, ErrCorruption, size, headerSize)
	}

	header, err := readHeader(store)
	if err != nil {
		return nil, fmt.Errorf("btree: open %s: %w", path, err)
	}

	return &Tree{
		store: store,
		cfg:   Config{Order: int(header.Order)},
		header: header,
	}, nil
}

// initEmptyTree writes a fresh header, an empty internal root, and one
// empty leaf whose offset becomes both the root's sole child and the
// header's leaf_offset.
func initEmptyTree(store *blockstore.Store, cfg Config) (*Tree, error) {
	if cfg.Order <= 0 {
		cfg.Order = defaultOrder
	}

	rootOffset := int64(headerSize)
	leafOffset := rootOffset + int64(internalNodeSize(cfg))
	slot := leafOffset + int64(leafNodeSize(cfg))

	root := newInternalNode(cfg)
	root.N = 1
	root.Entries[0] = internalEntry{Child: leafOffset}

	leaf := newLeafNode(cfg)
	leaf.Parent = rootOffset

	if err := writeInternal(store, cfg, rootOffset, root); err != nil {
		return nil, err
	}
	if err := writeLeaf(store, cfg, leafOffset, leaf); err != nil {
		return nil, err
	}

	header := Header{
		Order:           uint32(cfg.Order),
		KeySize:         record.KeySize,
		ValueSize:       record.ValueSize,
		InternalNodeNum: 1,
		LeafNodeNum:     1,
		Height:          1,
		Slot:            slot,
		RootOffset:      rootOffset,
		LeafOffset:      leafOffset,
	}
	if err := writeHeader(store, header); err != nil {
		return nil, err
	}

	return &Tree{store: store, cfg: cfg, header: header}, nil
}

// Meta returns a value-copy snapshot of the tree's header, for tooling.
func (t *Tree) Meta() Header {
	return t.header
}

// allocInternal bumps the allocation watermark by one internal node's
// width and counts it as live. The caller must persist the header
// (persistHeader) once its operation finishes.
func (t *Tree) allocInternal() int64 {
	off := t.header.Slot
	t.header.Slot += int64(internalNodeSize(t.cfg))
	t.header.InternalNodeNum++
	return off
}

// allocLeaf is allocInternal's leaf-node counterpart.
func (t *Tree) allocLeaf() int64 {
	off := t.header.Slot
	t.header.Slot += int64(leafNodeSize(t.cfg))
	t.header.LeafNodeNum++
	return off
}

// freeInternal and freeLeaf decrement the live-node counters the header
// tracks. Neither reclaims the node's byte range: the file only grows.
func (t *Tree) freeInternal() { t.header.InternalNodeNum-- }
func (t *Tree) freeLeaf()     { t.header.LeafNodeNum-- }

// persistHeader rewrites the header block. Call this once at the end of
// any operation that changed allocation counters, height, root offset, or
// the high-water mark — after every node write the operation performed, so
// the header never claims space or structure that isn't already on disk.
func (t *Tree) persistHeader() error {
	return writeHeader(t.store, t.header)
}

func (t *Tree) readInternal(offset int64) (*internalNode, error) {
	return readInternal(t.store, t.cfg, offset)
}

func (t *Tree) readLeaf(offset int64) (*leafNode, error) {
	return readLeaf(t.store, t.cfg, offset)
}

func (t *Tree) writeInternal(offset int64, nd *internalNode) error {
	return writeInternal(t.store, t.cfg, offset, nd)
}

func (t *Tree) writeLeaf(offset int64, lf *leafNode) error {
	return writeLeaf(t.store, t.cfg, offset, lf)
}

func (t *Tree) writeInternalHeader(offset int64, nd *internalNode) error {
	return writeInternalHeader(t.store, offset, nd)
}

func (t *Tree) writeLeafHeader(offset int64, lf *leafNode) error {
	return writeLeafHeader(t.store, offset, lf)
}

// minOccupancy is the floor on a non-root node's entry count, relaxed to 0
// for leaves when the tree has exactly one leaf. Internal nodes never relax
// this floor, regardless of how few internal nodes exist — the relaxation
// exists only so the single remaining leaf may empty out without a
// rebalance it has no sibling to rebalance against.
func (t *Tree) minOccupancy(isLeaf bool) int {
	if isLeaf && t.header.LeafNodeNum == 1 {
		return 0
	}
	return t.cfg.Order / 2
}

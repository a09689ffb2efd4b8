package btree

import (
	"encoding/binary"

	"bptreedb/pkg/record"
)

// Config fixes a tree's fan-out for its entire lifetime. It is read back
// from the header on every Open, never overridden by a caller against an
// existing file: order is fixed at tree-creation time, not at compile time.
type Config struct {
	// Order is the maximum number of entries an internal or leaf node may
	// hold. Both the production default (50) and small values used in
	// tests exercising splits and merges are ordinary Config values, not
	// build tags.
	Order int

	// ForceEmpty, when true, makes Open discard any existing file content
	// and initialize a fresh empty tree.
	ForceEmpty bool
}

// nodeHeaderSize is the encoded width of the fields common to both node
// shapes: parent, next, prev (int64 offsets) and n (uint32 count). This is
// also the size of a "header-only" transfer (encodeHeaderOnly). A change to
// the parent pointer alone is written by setNodeParent, which covers only
// the first 8 bytes.
const nodeHeaderSize = 8*3 + 4

// internalEntrySize is the encoded width of one (key, child offset) pair.
const internalEntrySize = record.KeySize + 8

// leafEntrySize is the encoded width of one (key, value) pair.
const leafEntrySize = record.KeySize + record.ValueSize

func internalNodeSize(cfg Config) int {
	return nodeHeaderSize + cfg.Order*internalEntrySize
}

func leafNodeSize(cfg Config) int {
	return nodeHeaderSize + cfg.Order*leafEntrySize
}

// internalEntry is one (key, child) slot of an internal node. For the
// final occupied slot (index n-1), Key carries no meaning: that slot is
// the "greater than all separators" branch.
type internalEntry struct {
	Key   record.Key
	Child int64
}

// internalNode is the in-memory form of one internal block, re-read from
// the store on demand and re-written after each mutation. The tree keeps
// no persistent in-memory structure between calls.
type internalNode struct {
	Parent  int64
	Next    int64
	Prev    int64
	N       int
	Entries []internalEntry // always len == cfg.Order; only [0,N) are live
}

// leafEntry is one (key, value) slot of a leaf node.
type leafEntry struct {
	Key   record.Key
	Value record.Value
}

// leafNode is the in-memory form of one leaf block.
type leafNode struct {
	Parent  int64
	Next    int64
	Prev    int64
	N       int
	Entries []leafEntry // always len == cfg.Order; only [0,N) are live
}

func newInternalNode(cfg Config) *internalNode {
	return &internalNode{Entries: make([]internalEntry, cfg.Order)}
}

func newLeafNode(cfg Config) *leafNode {
	return &leafNode{Entries: make([]leafEntry, cfg.Order)}
}

func encodeNodeHeader(buf []byte, parent, next, prev int64, n int) {
	binary.LittleEndian.PutUint64(buf[0:8], uint64(parent))
	binary.LittleEndian.PutUint64(buf[8:16], uint64(next))
	binary.LittleEndian.PutUint64(buf[16:24], uint64(prev))
	binary.LittleEndian.PutUint32(buf[24:28], uint32(n))
}

func decodeNodeHeader(buf []byte) (parent, next, prev int64, n int) {
	parent = int64(binary.LittleEndian.Uint64(buf[0:8]))
	next = int64(binary.LittleEndian.Uint64(buf[8:16]))
	prev = int64(binary.LittleEndian.Uint64(buf[16:24]))
	n = int(binary.LittleEndian.Uint32(buf[24:28]))
	return
}

// encode serializes the full internal node block: header then Order
// (key, child) entries, zero-padded past N.
func (nd *internalNode) encode(cfg Config) []byte {
	buf := make([]byte, internalNodeSize(cfg))
	encodeNodeHeader(buf, nd.Parent, nd.Next, nd.Prev, nd.N)
	off := nodeHeaderSize
	for i := 0; i < cfg.Order; i++ {
		e := nd.Entries[i]
		copy(buf[off:off+record.KeySize], e.Key[:])
		binary.LittleEndian.PutUint64(buf[off+record.KeySize:off+internalEntrySize], uint64(e.Child))
		off += internalEntrySize
	}
	return buf
}

// encodeHeaderOnly serializes just the parent/next/prev/n fields, leaving
// the entries untouched on disk.
func (nd *internalNode) encodeHeaderOnly() []byte {
	buf := make([]byte, nodeHeaderSize)
	encodeNodeHeader(buf, nd.Parent, nd.Next, nd.Prev, nd.N)
	return buf
}

func decodeInternalNode(cfg Config, buf []byte) *internalNode {
	nd := newInternalNode(cfg)
	nd.Parent, nd.Next, nd.Prev, nd.N = decodeNodeHeader(buf)
	off := nodeHeaderSize
	for i := 0; i < cfg.Order; i++ {
		var k record.Key
		copy(k[:], buf[off:off+record.KeySize])
		child := int64(binary.LittleEndian.Uint64(buf[off+record.KeySize : off+internalEntrySize]))
		nd.Entries[i] = internalEntry{Key: k, Child: child}
		off += internalEntrySize
	}
	return nd
}

func (lf *leafNode) encode(cfg Config) []byte {
	buf := make([]byte, leafNodeSize(cfg))
	encodeNodeHeader(buf, lf.Parent, lf.Next, lf.Prev, lf.N)
	off := nodeHeaderSize
	for i := 0; i < cfg.Order; i++ {
		e := lf.Entries[i]
		copy(buf[off:off+record.KeySize], e.Key[:])
		copy(buf[off+record.KeySize:off+leafEntrySize], e.Value.Encode())
		off += leafEntrySize
	}
	return buf
}

func (lf *leafNode) encodeHeaderOnly() []byte {
	buf := make([]byte, nodeHeaderSize)
	encodeNodeHeader(buf, lf.Parent, lf.Next, lf.Prev, lf.N)
	return buf
}

func decodeLeafNode(cfg Config, buf []byte) *leafNode {
	lf := newLeafNode(cfg)
	lf.Parent, lf.Next, lf.Prev, lf.N = decodeNodeHeader(buf)
	off := nodeHeaderSize
	for i := 0; i < cfg.Order; i++ {
		var k record.Key
		copy(k[:], buf[off:off+record.KeySize])
		v := record.DecodeValue(buf[off+record.KeySize : off+leafEntrySize])
		lf.Entries[i] = leafEntry{Key: k, Value: v}
		off += leafEntrySize
	}
	return lf
}

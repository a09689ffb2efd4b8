package btree

import (
	"encoding/binary"
	"fmt"
)

// headerSize is the fixed on-disk width of Header: three uint32 counters
// plus three more uint32s plus three int64 offsets (6*4 + 3*8 bytes).
const headerSize = 6*4 + 3*8

// Header is the single fixed-offset-0 metadata block describing the tree
// file as a whole. It is cached in memory by Tree and rewritten to disk
// whenever any field it tracks changes (allocation counters, height, root
// offset, high-water mark).
type Header struct {
	Order           uint32 // fan-out M, fixed for the life of the file
	KeySize         uint32 // record.KeySize at creation; Open does not compare it on reopen
	ValueSize       uint32 // encoded size of record.Value
	InternalNodeNum uint32
	LeafNodeNum     uint32
	Height          uint32 // counted excluding the leaf level; empty tree has height 1
	Slot            int64  // next free byte offset for a new node
	RootOffset      int64  // offset of the root internal node
	LeafOffset      int64  // offset of the logically first leaf
}

func (h Header) encode() []byte {
	buf := make([]byte, headerSize)
	binary.LittleEndian.PutUint32(buf[0:4], h.Order)
	binary.LittleEndian.PutUint32(buf[4:8], h.KeySize)
	binary.LittleEndian.PutUint32(buf[8:12], h.ValueSize)
	binary.LittleEndian.PutUint32(buf[12:16], h.InternalNodeNum)
	binary.LittleEndian.PutUint32(buf[16:20], h.LeafNodeNum)
	binary.LittleEndian.PutUint32(buf[20:24], h.Height)
	binary.LittleEndian.PutUint64(buf[24:32], uint64(h.Slot))
	binary.LittleEndian.PutUint64(buf[32:40], uint64(h.RootOffset))
	binary.LittleEndian.PutUint64(buf[40:48], uint64(h.LeafOffset))
	return buf
}

func decodeHeader(buf []byte) (Header, error) {
	if len(buf) < headerSize {
		return Header{}, fmt.Errorf("%w: got %d bytes, want %d", ErrCorruption, len(buf), headerSize)
	}
	var h Header
	h.Order = binary.LittleEndian.Uint32(buf[0:4])
	h.KeySize = binary.LittleEndian.Uint32(buf[4:8])
	h.ValueSize = binary.LittleEndian.Uint32(buf[8:12])
	h.InternalNodeNum = binary.LittleEndian.Uint32(buf[12:16])
	h.LeafNodeNum = binary.LittleEndian.Uint32(buf[16:20])
	h.Height = binary.LittleEndian.Uint32(buf[20:24])
	h.Slot = int64(binary.LittleEndian.Uint64(buf[24:32]))
	h.RootOffset = int64(binary.LittleEndian.Uint64(buf[32:40]))
	h.LeafOffset = int64(binary.LittleEndian.Uint64(buf[40:48]))
	return h, nil
}

// Package record defines the fixed-width key and value types stored by the
// B+ tree index. A key is a short NUL-padded string; a value is an opaque
// fixed-layout record (name, age, email). Both are blittable: they encode to
// a constant number of bytes regardless of content, which is what lets the
// tree place them inside fixed-size node blocks.
package record

import "bytes"

// KeySize is the on-disk width of a Key, in bytes: up to 15 printable bytes
// plus a terminating NUL.
const KeySize = 16

// Key is a fixed-width, NUL-padded short string. The zero Key is the empty
// string.
type Key [KeySize]byte

// NewKey builds a Key from s, truncating to KeySize-1 bytes if s is longer.
// The remainder of the buffer is zero-filled, so short keys compare as if
// padded with NUL bytes.
func NewKey(s string) Key {
	var k Key
	copy(k[:KeySize-1], s)
	return k
}

// String returns the key's content up to its first NUL byte.
func (k Key) String() string {
	i := bytes.IndexByte(k[:], 0)
	if i < 0 {
		i = len(k)
	}
	return string(k[:i])
}

// len reports the key's string length (bytes before the first NUL).
func (k Key) len() int {
	i := bytes.IndexByte(k[:], 0)
	if i < 0 {
		return len(k)
	}
	return i
}

// Compare orders keys shorter-first, then lexicographically within equal
// lengths. This is NOT plain byte-lexicographic order: "10" sorts after "2"
// because it is longer, even though '1' < '2' byte-wise. The stored tree's
// separators depend on this exact rule; substituting bytes.Compare directly
// would silently reorder keys and corrupt every separator built against the
// old order.
func (k Key) Compare(other Key) int {
	la, lb := k.len(), other.len()
	if la != lb {
		if la < lb {
			return -1
		}
		return 1
	}
	return bytes.Compare(k[:la], other[:lb])
}

// Less reports whether k sorts strictly before other.
func (k Key) Less(other Key) bool { return k.Compare(other) < 0 }

// Equal reports whether k and other compare equal.
func (k Key) Equal(other Key) bool { return k.Compare(other) == 0 }

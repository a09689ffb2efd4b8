package record

import "encoding/binary"

// NameSize and EmailSize are the fixed on-disk widths of the Value's
// string fields: name[256], age, email[256].
const (
	NameSize  = 256
	EmailSize = 256

	// ValueSize is the encoded width of a Value: Name, a 4-byte Age, then
	// Email, with no padding between them.
	ValueSize = NameSize + 4 + EmailSize
)

// Value is the fixed-layout record a Key maps to. It is treated as opaque,
// blittable payload by the tree: the core never inspects Name/Age/Email,
// it only copies Value structs in and out of leaf entries.
type Value struct {
	Name  [NameSize]byte
	Age   int32
	Email [EmailSize]byte
}

// NewValue builds a Value from human-readable fields, truncating name/email
// to fit their fixed buffers.
func NewValue(name string, age int32, email string) Value {
	var v Value
	copy(v.Name[:], name)
	v.Age = age
	copy(v.Email[:], email)
	return v
}

// NameString returns Name up to its first NUL byte.
func (v Value) NameString() string { return cstr(v.Name[:]) }

// EmailString returns Email up to its first NUL byte.
func (v Value) EmailString() string { return cstr(v.Email[:]) }

// Encode writes v's fixed-layout wire form: Name, then Age as a
// little-endian int32, then Email.
func (v Value) Encode() []byte {
	buf := make([]byte, ValueSize)
	copy(buf[:NameSize], v.Name[:])
	binary.LittleEndian.PutUint32(buf[NameSize:NameSize+4], uint32(v.Age))
	copy(buf[NameSize+4:], v.Email[:])
	return buf
}

// DecodeValue reverses Encode. buf must be at least ValueSize bytes.
func DecodeValue(buf []byte) Value {
	var v Value
	copy(v.Name[:], buf[:NameSize])
	v.Age = int32(binary.LittleEndian.Uint32(buf[NameSize : NameSize+4]))
	copy(v.Email[:], buf[NameSize+4:NameSize+4+EmailSize])
	return v
}

func cstr(b []byte) string {
	for i, c := range b {
		if c == 0 {
			return string(b[:i])
		}
	}
	return string(b)
}

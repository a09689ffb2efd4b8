package record

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNewValueFields(t *testing.T) {
	v := NewValue("Ada Lovelace", 36, "ada@example.com")
	assert.Equal(t, "Ada Lovelace", v.NameString())
	assert.Equal(t, int32(36), v.Age)
	assert.Equal(t, "ada@example.com", v.EmailString())
}

func TestNewValueTruncatesOverlongFields(t *testing.T) {
	long := make([]byte, NameSize+50)
	for i := range long {
		long[i] = 'x'
	}
	v := NewValue(string(long), 1, "")
	assert.Len(t, v.NameString(), NameSize)
}

func TestValueIsComparableAsStruct(t *testing.T) {
	a := NewValue("a", 1, "a@x.com")
	b := NewValue("a", 1, "a@x.com")
	assert.Equal(t, a, b)
}

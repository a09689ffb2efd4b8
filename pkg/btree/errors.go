package btree

import "errors"

// Sentinel errors returned by Tree methods. Callers compare with errors.Is
// rather than type-switching.
var (
	// ErrNotFound is returned by Update and Remove when the key is absent
	// from the tree. Search reports an absent key through its bool result
	// instead, with a nil error.
	ErrNotFound = errors.New("btree: key not found")

	// ErrDuplicate is returned by Insert when the key already exists.
	ErrDuplicate = errors.New("btree: key already exists")

	// ErrInvalidRange is returned by SearchRange when left > right.
	ErrInvalidRange = errors.New("btree: invalid range")

	// ErrCorruption is returned by Open when the header cannot be decoded
	// from a non-empty file (a short or truncated read). It is not raised
	// from a checksum, since the on-disk format carries none.
	ErrCorruption = errors.New("btree: corrupt or truncated header")
)

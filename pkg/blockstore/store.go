// Package blockstore implements the single-file, offset-addressed storage
// layer underneath the B+ tree: absolute-offset reads and writes of
// fixed-size blocks, and a thin nesting counter that keeps the backing file
// open across a chain of nested calls instead of reopening it per read.
//
// The store has no notion of nodes, headers, or allocation policy — those
// belong to pkg/btree. It only knows how to move bytes to and from offsets
// in one file.
package blockstore

import (
	"errors"
	"fmt"
	"sync/atomic"

	"github.com/spf13/afero"
)

// ErrClosed is returned by ReadAt/WriteAt if called after the store's
// nesting counter has already returned to zero through mismatched
// Release calls.
var ErrClosed = errors.New("blockstore: store is not open")

// Store is a single regular file opened through an afero.Fs, so production
// code runs against afero.NewOsFs() while tests run against an
// afero.NewMemMapFs() without touching disk.
//
// Store is not safe for concurrent use: the tree above it is strictly
// single-threaded, so unlike a general-purpose file wrapper this one
// carries no mutex. Callers serialize externally.
type Store struct {
	fs   afero.Fs
	path string

	file  afero.File
	level int32 // nesting depth; file is open iff level > 0
}

// Open records the filesystem and path for later use and ensures the
// backing file exists, creating an empty one if necessary. It does not
// itself hold the file open — that happens on the first Acquire.
func Open(fs afero.Fs, path string) (*Store, error) {
	f, err := fs.OpenFile(path, osCreateFlags, 0o644)
	if err != nil {
		return nil, fmt.Errorf("blockstore: create %s: %w", path, err)
	}
	if err := f.Close(); err != nil {
		return nil, fmt.Errorf("blockstore: close %s after create: %w", path, err)
	}
	return &Store{fs: fs, path: path}, nil
}

// Size returns the current length of the backing file in bytes.
func (s *Store) Size() (int64, error) {
	fi, err := s.fs.Stat(s.path)
	if err != nil {
		return 0, fmt.Errorf("blockstore: stat %s: %w", s.path, err)
	}
	return fi.Size(), nil
}

// Acquire opens the backing file on the outermost call (nesting level
// 0 -> 1) and is a no-op on nested calls; every Acquire must be matched by
// a Release. ReadAt and WriteAt each take their own Acquire/Release pair,
// so a caller that wraps several of them in an outer Acquire/Release shares
// one file handle across them. pkg/btree takes no outer Acquire: each of
// its node reads and writes opens and closes the file.
func (s *Store) Acquire() error {
	if atomic.AddInt32(&s.level, 1) == 1 {
		f, err := s.fs.OpenFile(s.path, osReadWriteFlags, 0o644)
		if err != nil {
			atomic.AddInt32(&s.level, -1)
			return fmt.Errorf("blockstore: open %s: %w", s.path, err)
		}
		s.file = f
	}
	return nil
}

// Release undoes one Acquire, closing the file once the nesting level
// returns to zero.
func (s *Store) Release() error {
	if atomic.AddInt32(&s.level, -1) == 0 {
		f := s.file
		s.file = nil
		if f != nil {
			return f.Close()
		}
	}
	return nil
}

// ReadAt fills buf with size len(buf) bytes starting at the absolute
// offset off: one seek-equivalent positioned read.
func (s *Store) ReadAt(off int64, buf []byte) error {
	if err := s.Acquire(); err != nil {
		return err
	}
	defer s.Release()

	if s.file == nil {
		return ErrClosed
	}
	if _, err := s.file.ReadAt(buf, off); err != nil {
		return fmt.Errorf("blockstore: read %d bytes at %d: %w", len(buf), off, err)
	}
	return nil
}

// WriteAt writes buf to the absolute offset off.
func (s *Store) WriteAt(off int64, buf []byte) error {
	if err := s.Acquire(); err != nil {
		return err
	}
	defer s.Release()

	if s.file == nil {
		return ErrClosed
	}
	if _, err := s.file.WriteAt(buf, off); err != nil {
		return fmt.Errorf("blockstore: write %d bytes at %d: %w", len(buf), off, err)
	}
	return nil
}

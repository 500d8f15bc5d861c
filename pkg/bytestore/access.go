// Package bytestore implements the byte-addressable storage contract that
// the graph package treats as external: named regions of random-access
// bytes with a small fixed header area, growable in segments, backed
// either by plain heap memory or by a memory-mapped file.
package bytestore

import "errors"

// HeaderLength is the number of bytes reserved at the front of every
// region for header slots (int32 values addressed by byte offset).
// 32 slots is comfortably more than the 14 the graph package's three
// regions currently use (at most 8 in any one region), leaving room for
// future header fields without
// reshuffling the body offset.
const HeaderLength = 128

// ErrClosed is returned by any operation attempted on a closed DataAccess.
var ErrClosed = errors.New("bytestore: region is closed")

// ErrNotConfigured is returned by TrimTo when it is called before Create
// or LoadExisting has run, or after Close.
var ErrNotConfigured = errors.New("bytestore: region not configured")

// ErrDoubleConfigured is returned when Create or LoadExisting is called on
// an already-configured DataAccess.
var ErrDoubleConfigured = errors.New("bytestore: region already configured")

// DataAccess is one named, byte-addressable, growable region. Offsets
// passed to Get*/Set* are relative to the body, not the header.
type DataAccess interface {
	// Name reports the region's name, as passed to Directory.Find.
	Name() string

	// Create allocates a fresh region with at least bytesBody capacity.
	Create(bytesBody int64) error

	// LoadExisting attaches to a previously flushed region. It returns
	// false (with no error) if no persisted region exists yet.
	LoadExisting() (bool, error)

	// Flush commits in-memory state to the backing store, if any.
	Flush() error

	// Close releases resources. Uncommitted writes to a non-persistent
	// backing store are discarded.
	Close() error

	// Capacity reports the current body capacity in bytes.
	Capacity() int64

	// IncCapacity grows the region to at least bytesBody, if it isn't
	// already that large. It reports whether it actually grew.
	IncCapacity(bytesBody int64) bool

	// TrimTo shrinks the region's capacity down to bytesBody, rounded up
	// to the region's segment size.
	TrimTo(bytesBody int64) error

	// SetSegmentSize configures the growth granularity. Must be called
	// before Create/LoadExisting; ignored afterwards.
	SetSegmentSize(bytes int)

	GetInt(offset int64) int32
	SetInt(offset int64, value int32)
	GetBytes(offset int64, buf []byte)
	SetBytes(offset int64, buf []byte)

	GetHeader(slotOffset int64) int32
	SetHeader(slotOffset int64, value int32)

	// CopyTo copies this region's header and full body into other,
	// growing other as needed.
	CopyTo(other DataAccess) error
}

// Package nameindex implements the append-only string-interning
// dictionary the graph package treats as external: street/way names are
// stored once and referenced from edge records by a small integer id.
package nameindex

import (
	"encoding/binary"
	"fmt"

	"github.com/azybler/graphstore/pkg/bytestore"
)

// EmptyRef is the id reserved for the empty string. Put("") always
// returns EmptyRef without touching storage.
const EmptyRef int32 = 0

// Index is an append-only string dictionary backed by a DataAccess
// region. Layout: a length-prefixed UTF-8 byte run per entry. A ref is
// the entry's insertion ordinal; the in-memory offsets table maps it to
// the entry's starting byte offset.
type Index struct {
	da       bytestore.DataAccess
	writeOff int64
	offsets  []int32 // offsets[i] is the byte offset of the i-th entry; ref i -> offsets[i]
}

// New wraps a configured (Created or LoadExisting'd) DataAccess region.
func New(da bytestore.DataAccess) *Index {
	idx := &Index{da: da}
	idx.offsets = append(idx.offsets, EmptyRef) // ref 0 reserved, unused offset slot
	return idx
}

// Put interns s, returning its ref. Interning is not deduplicated beyond
// the empty string: callers that want deduplication must cache refs
// themselves, matching the append-only contract in §6.
func (idx *Index) Put(s string) int32 {
	if s == "" {
		return EmptyRef
	}
	ref := int32(len(idx.offsets))
	off := idx.writeOff

	need := off + 4 + int64(len(s))
	if need > idx.da.Capacity() {
		idx.da.IncCapacity(growCapacity(idx.da.Capacity(), need))
	}

	var lenBuf [4]byte
	binary.LittleEndian.PutUint32(lenBuf[:], uint32(len(s)))
	idx.da.SetBytes(off, lenBuf[:])
	idx.da.SetBytes(off+4, []byte(s))

	idx.offsets = append(idx.offsets, int32(off))
	idx.writeOff = off + 4 + int64(len(s))
	return ref
}

// Get returns the string referenced by ref, or an error if ref is out of
// range.
func (idx *Index) Get(ref int32) (string, error) {
	if ref == EmptyRef {
		return "", nil
	}
	if ref < 0 || int(ref) >= len(idx.offsets) {
		return "", fmt.Errorf("nameindex: ref %d out of range [0,%d)", ref, len(idx.offsets))
	}
	off := int64(idx.offsets[ref])
	var lenBuf [4]byte
	idx.da.GetBytes(off, lenBuf[:])
	n := binary.LittleEndian.Uint32(lenBuf[:])
	buf := make([]byte, n)
	idx.da.GetBytes(off+4, buf)
	return string(buf), nil
}

// growCapacity doubles current (starting from 4096 when empty) until it
// covers need.
func growCapacity(current, need int64) int64 {
	if current == 0 {
		current = 4096
	}
	for current < need {
		current *= 2
	}
	return current
}

// Count reports the number of interned strings, excluding the empty
// string.
func (idx *Index) Count() int { return len(idx.offsets) - 1 }

// WriteOffset reports the current write cursor. The graph package
// persists it as a properties entry so a reload knows where entries end.
func (idx *Index) WriteOffset() int64 { return idx.writeOff }

// Open reconstructs an Index from a previously flushed region by
// re-scanning its length-prefixed entries up to writeOff. The offsets
// slice, unlike the region's raw bytes, is not itself persisted — refs
// are dense small integers assigned in insertion order, so replaying the
// same append sequence recovers the same ref->offset mapping.
func Open(da bytestore.DataAccess, writeOff int64) *Index {
	idx := &Index{da: da}
	idx.offsets = append(idx.offsets, EmptyRef)
	var off int64
	for off < writeOff {
		var lenBuf [4]byte
		da.GetBytes(off, lenBuf[:])
		n := int64(binary.LittleEndian.Uint32(lenBuf[:]))
		idx.offsets = append(idx.offsets, int32(off))
		off += 4 + n
	}
	idx.writeOff = writeOff
	return idx
}

// Package bitset provides the node-removal set used by graph compaction:
// a sparse set of node ids that supports ascending iteration and
// cardinality queries.
package bitset

import bbb "github.com/bits-and-blooms/bitset"

// Set marks a collection of node ids as pending removal. The zero value
// is ready to use.
type Set struct {
	bits *bbb.BitSet
}

// New returns an empty Set.
func New() *Set {
	return &Set{bits: bbb.New(0)}
}

// Add marks id as removed.
func (s *Set) Add(id uint32) {
	if s.bits == nil {
		s.bits = bbb.New(0)
	}
	s.bits.Set(uint(id))
}

// Contains reports whether id has been marked removed.
func (s *Set) Contains(id uint32) bool {
	if s.bits == nil {
		return false
	}
	return s.bits.Test(uint(id))
}

// Len reports how many ids are marked removed.
func (s *Set) Len() int {
	if s.bits == nil {
		return 0
	}
	return int(s.bits.Count())
}

// Clear empties the set.
func (s *Set) Clear() {
	s.bits = bbb.New(0)
}

// Each calls fn once per marked id, in ascending order, stopping early if
// fn returns false. This ordering is required by compaction's tail-scan
// relabeling algorithm.
func (s *Set) Each(fn func(id uint32) bool) {
	if s.bits == nil {
		return
	}
	for i, ok := s.bits.NextSet(0); ok; i, ok = s.bits.NextSet(i + 1) {
		if !fn(uint32(i)) {
			return
		}
	}
}

package graph

import "github.com/azybler/graphstore/pkg/flagcodec"

// EdgeExplorer mints EdgeIterators over a chosen base node, reusing the
// same optional filter across every SetBaseNode call. Constructing one
// per traversal root (rather than one per edge) avoids reallocating the
// filter closure on every node visited.
type EdgeExplorer struct {
	s      *Storage
	filter func(edgeID int32) bool
}

// CreateEdgeExplorer returns an explorer that will only yield edges for
// which filter returns true, or every edge if filter is nil.
func (s *Storage) CreateEdgeExplorer(filter func(edgeID int32) bool) *EdgeExplorer {
	return &EdgeExplorer{s: s, filter: filter}
}

// SetBaseNode returns a fresh cursor over v's adjacency chain.
func (ex *EdgeExplorer) SetBaseNode(v int32) *EdgeIterator {
	return &EdgeIterator{
		s:        ex.s,
		base:     v,
		nextEdge: ex.s.nodeEdgeRef(v),
		filter:   ex.filter,
		edgeID:   NoEdge,
	}
}

// EdgeIterator walks one node's adjacency chain, or — when returned by
// Storage.EdgeProps — is pre-positioned at a single known edge.
type EdgeIterator struct {
	s        *Storage
	base     int32
	nextEdge int32
	filter   func(edgeID int32) bool

	edgeID   int32
	other    int32
	advanced bool

	err error
}

// Next advances the cursor to the next edge accepted by the filter,
// reporting whether one was found. A chain walk that exceeds MaxEdges
// iterations, or observes a link field pointing at itself, fails with
// ErrCorruptChain (retrievable via Err) and Next returns false.
func (it *EdgeIterator) Next() bool {
	iterations := 0
	for it.nextEdge != NoEdge {
		iterations++
		if iterations > MaxEdges {
			it.err = ErrCorruptChain
			return false
		}
		edgeID := it.nextEdge
		off := it.s.edgeOffset(edgeID)
		nodeA := it.s.edgesDA.GetInt(off + edgeFieldNodeA)
		nodeB := it.s.edgesDA.GetInt(off + edgeFieldNodeB)
		other := otherNode(nodeA, nodeB, it.base)
		next := it.s.edgesDA.GetInt(linkFieldOffset(off, it.base, other))
		if next == edgeID {
			it.err = ErrCorruptChain
			return false
		}
		it.edgeID = edgeID
		it.other = other
		it.nextEdge = next
		it.advanced = true
		if it.filter == nil || it.filter(edgeID) {
			return true
		}
	}
	return false
}

// Err returns the error, if any, that stopped the last Next call.
func (it *EdgeIterator) Err() error { return it.err }

// BaseNode returns the node this cursor was created from.
func (it *EdgeIterator) BaseNode() int32 { return it.base }

// EdgeID returns the current edge's id.
func (it *EdgeIterator) EdgeID() (int32, error) {
	if !it.advanced {
		return NoEdge, ErrDetachBeforeAdvance
	}
	return it.edgeID, nil
}

// AdjNode returns the current edge's endpoint other than BaseNode.
func (it *EdgeIterator) AdjNode() (int32, error) {
	if !it.advanced {
		return NoNode, ErrDetachBeforeAdvance
	}
	return it.other, nil
}

// Flags returns the current edge's flags oriented base->adj: the stored
// word verbatim when base occupies node_a, or its direction-swapped form
// when base occupies node_b.
func (it *EdgeIterator) Flags() (int32, error) {
	if !it.advanced {
		return 0, ErrDetachBeforeAdvance
	}
	stored := it.s.edgesDA.GetInt(it.s.edgeOffset(it.edgeID) + edgeFieldFlags)
	if it.base <= it.other {
		return stored, nil
	}
	return flagcodec.SwapDirection(stored), nil
}

// SetFlags re-invokes writeEdge with fl interpreted as the base->adj
// direction, restoring canonical orientation regardless of which side
// base occupies.
func (it *EdgeIterator) SetFlags(fl int32) error {
	if !it.advanced {
		return ErrDetachBeforeAdvance
	}
	off := it.s.edgeOffset(it.edgeID)
	linkForBase := it.s.edgesDA.GetInt(linkFieldOffset(off, it.base, it.other))
	linkForOther := it.s.edgesDA.GetInt(linkFieldOffset(off, it.other, it.base))
	distQ := it.s.edgesDA.GetInt(off + edgeFieldDist)
	it.s.writeEdge(it.edgeID, it.base, it.other, linkForBase, linkForOther, distQ, fl)
	return nil
}

// Distance returns the current edge's distance in meters.
func (it *EdgeIterator) Distance() (float64, error) {
	if !it.advanced {
		return 0, ErrDetachBeforeAdvance
	}
	return it.s.Distance(it.edgeID), nil
}

// Name returns the current edge's stored name.
func (it *EdgeIterator) Name() (string, error) {
	if !it.advanced {
		return "", ErrDetachBeforeAdvance
	}
	return it.s.Name(it.edgeID)
}

// EdgeProps probes a single known edge, returning a cursor already
// positioned at it (Next need not, and should not, be called) if one of
// its endpoints is expectedAdj. ok is false, with a nil error, if the
// edge exists but does not touch expectedAdj.
func (s *Storage) EdgeProps(edgeID, expectedAdj int32) (it *EdgeIterator, ok bool, err error) {
	if edgeID < 0 || edgeID >= s.edgeCount {
		return nil, false, ErrEdgeOutOfBounds
	}
	off := s.edgeOffset(edgeID)
	nodeA := s.edgesDA.GetInt(off + edgeFieldNodeA)
	if nodeA == NoNode {
		return nil, false, ErrEdgeAlreadyRemoved
	}
	nodeB := s.edgesDA.GetInt(off + edgeFieldNodeB)
	if expectedAdj != nodeA && expectedAdj != nodeB {
		return nil, false, nil
	}
	base := otherNode(nodeA, nodeB, expectedAdj)
	return &EdgeIterator{
		s:        s,
		base:     base,
		other:    expectedAdj,
		edgeID:   edgeID,
		nextEdge: NoEdge,
		advanced: true,
	}, true, nil
}

// AllEdgesIterator walks every non-tombstone edge in id order, exposing
// flags in stored (canonical) orientation without direction-swap support.
type AllEdgesIterator struct {
	s   *Storage
	cur int32
	max int32
}

// CreateAllEdgesIterator returns a fresh all-edges cursor.
func (s *Storage) CreateAllEdgesIterator() *AllEdgesIterator {
	return &AllEdgesIterator{s: s, cur: -1, max: s.edgeCount}
}

// Next advances to the next non-tombstone edge.
func (it *AllEdgesIterator) Next() bool {
	for {
		it.cur++
		if it.cur >= it.max {
			return false
		}
		if it.s.edgesDA.GetInt(it.s.edgeOffset(it.cur)+edgeFieldNodeA) != NoNode {
			return true
		}
	}
}

// EdgeID returns the current edge's id.
func (it *AllEdgesIterator) EdgeID() int32 { return it.cur }

// Endpoints returns the current edge's stored (node_a, node_b) pair.
func (it *AllEdgesIterator) Endpoints() (a, b int32) { return it.s.endpoints(it.cur) }

// Flags returns the current edge's flags exactly as stored, with no
// direction adjustment.
func (it *AllEdgesIterator) Flags() int32 {
	return it.s.edgesDA.GetInt(it.s.edgeOffset(it.cur) + edgeFieldFlags)
}

// Distance returns the current edge's distance in meters.
func (it *AllEdgesIterator) Distance() float64 { return it.s.Distance(it.cur) }

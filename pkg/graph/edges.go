package graph

import (
	"github.com/azybler/graphstore/pkg/flagcodec"
	"github.com/azybler/graphstore/pkg/geo"
	"github.com/azybler/graphstore/pkg/nameindex"
)

// writeEdge is the single choke point through which every edge record's
// endpoints, links, distance, and flags are written. It enforces the
// canonical-orientation invariant: if u > v, it swaps (u,v), swaps
// (nextU,nextV) to stay attached to the endpoint they belong to, and
// swaps the direction bits in flags, before writing.
func (s *Storage) writeEdge(e, u, v, nextU, nextV, distQ, flags int32) {
	if u > v {
		u, v = v, u
		nextU, nextV = nextV, nextU
		flags = flagcodec.SwapDirection(flags)
	}
	off := s.edgeOffset(e)
	s.edgesDA.SetInt(off+edgeFieldNodeA, u)
	s.edgesDA.SetInt(off+edgeFieldNodeB, v)
	s.edgesDA.SetInt(off+edgeFieldLinkA, nextU)
	s.edgesDA.SetInt(off+edgeFieldLinkB, nextV)
	s.edgesDA.SetInt(off+edgeFieldDist, distQ)
	s.edgesDA.SetInt(off+edgeFieldFlags, flags)
}

// linkFieldOffset picks the link field belonging to endpoint base on the
// edge at edgeOff, given the edge's other endpoint. This is purely
// structural — it never consults the stored flags or which physical side
// (node_a/node_b) base actually occupies.
func linkFieldOffset(edgeOff int64, base, other int32) int64 {
	if base <= other {
		return edgeOff + edgeFieldLinkA
	}
	return edgeOff + edgeFieldLinkB
}

// endpoints returns the stored (nodeA, nodeB) pair for edge e.
func (s *Storage) endpoints(e int32) (a, b int32) {
	off := s.edgeOffset(e)
	return s.edgesDA.GetInt(off + edgeFieldNodeA), s.edgesDA.GetInt(off + edgeFieldNodeB)
}

// otherNode returns the endpoint of e that is not base.
func otherNode(nodeA, nodeB, base int32) int32 {
	if base == nodeA {
		return nodeB
	}
	return nodeA
}

// spliceHead inserts edge e at the head of base's adjacency chain. other
// is e's opposite endpoint, needed to pick the correct link field.
func (s *Storage) spliceHead(e, base, other int32) {
	prevHead := s.nodeEdgeRef(base)
	if prevHead != NoEdge {
		s.edgesDA.SetInt(linkFieldOffset(s.edgeOffset(e), base, other), prevHead)
	}
	s.setNodeEdgeRef(base, e)
}

// AddEdge inserts a new edge between a and b with the given distance (in
// meters) and flags word, growing the node table as needed. Distance and
// flags are always stored relative to the a->b direction as passed here;
// AddEdge takes care of canonical reordering internally.
func (s *Storage) AddEdge(a, b int32, distMeters float64, flags int32) (int32, error) {
	if s.edgeCount == 1<<31-1 {
		return NoEdge, ErrTooManyEdges
	}
	hi := a
	if b > hi {
		hi = b
	}
	s.EnsureNodeIndex(hi)

	e := s.edgeCount
	s.edgeCount++
	s.edgesDA.IncCapacity(s.edgeOffset(s.edgeCount))

	distQ := geo.DistanceToInt(distMeters)
	s.writeEdge(e, a, b, NoEdge, NoEdge, distQ, flags)
	off := s.edgeOffset(e)
	s.edgesDA.SetInt(off+edgeFieldGeoRef, 0)
	s.edgesDA.SetInt(off+edgeFieldName, nameindex.EmptyRef)

	s.spliceHead(e, a, b)
	if a != b {
		s.spliceHead(e, b, a)
	}
	return e, nil
}

// SetDistance overwrites edge e's distance (in meters), leaving
// everything else about the record untouched.
func (s *Storage) SetDistance(e int32, distMeters float64) error {
	a, _ := s.endpoints(e)
	if a == NoNode {
		return ErrEdgeAlreadyRemoved
	}
	off := s.edgeOffset(e)
	s.edgesDA.SetInt(off+edgeFieldDist, geo.DistanceToInt(distMeters))
	return nil
}

// Distance returns edge e's stored distance in meters.
func (s *Storage) Distance(e int32) float64 {
	off := s.edgeOffset(e)
	return geo.IntToDistance(s.edgesDA.GetInt(off + edgeFieldDist))
}

// SetName interns name and stores its ref on edge e.
func (s *Storage) SetName(e int32, name string) {
	ref := s.names.Put(name)
	s.edgesDA.SetInt(s.edgeOffset(e)+edgeFieldName, ref)
}

// Name returns edge e's stored street/way name.
func (s *Storage) Name(e int32) (string, error) {
	ref := s.edgesDA.GetInt(s.edgeOffset(e) + edgeFieldName)
	return s.names.Get(ref)
}

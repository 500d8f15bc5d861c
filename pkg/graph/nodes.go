package graph

import "github.com/azybler/graphstore/pkg/geo"

// EnsureNodeIndex grows the visible node count to at least id+1,
// initializing every freshly revealed node's edgeRef field to NoEdge.
// Growth is tolerant of the byte store's amortized over-allocation: only
// the range [nodeCount, id+1) is initialized, regardless of how much
// capacity IncCapacity actually added.
func (s *Storage) EnsureNodeIndex(id int32) {
	if id < s.nodeCount {
		return
	}
	newCount := id + 1
	need := s.nodeOffset(newCount)
	s.nodesDA.IncCapacity(need)
	for i := s.nodeCount; i < newCount; i++ {
		s.nodesDA.SetInt(s.nodeOffset(i)+nodeFieldEdgeRef, NoEdge)
	}
	s.nodeCount = newCount
}

// SetNode stores lat/lon (in degrees) for node id, growing the table if
// necessary, and widens the bounding box.
func (s *Storage) SetNode(id int32, lat, lon float64) {
	s.EnsureNodeIndex(id)
	latQ := geo.DegreeToInt(lat)
	lonQ := geo.DegreeToInt(lon)
	off := s.nodeOffset(id)
	s.nodesDA.SetInt(off+nodeFieldLat, latQ)
	s.nodesDA.SetInt(off+nodeFieldLon, lonQ)
	s.bbox.Extend(latQ, lonQ)
}

// Latitude returns node id's latitude in degrees.
func (s *Storage) Latitude(id int32) float64 {
	off := s.nodeOffset(id)
	return geo.IntToDegree(s.nodesDA.GetInt(off + nodeFieldLat))
}

// Longitude returns node id's longitude in degrees.
func (s *Storage) Longitude(id int32) float64 {
	off := s.nodeOffset(id)
	return geo.IntToDegree(s.nodesDA.GetInt(off + nodeFieldLon))
}

// nodeEdgeRef returns the head of id's adjacency chain.
func (s *Storage) nodeEdgeRef(id int32) int32 {
	return s.nodesDA.GetInt(s.nodeOffset(id) + nodeFieldEdgeRef)
}

func (s *Storage) setNodeEdgeRef(id, edgeID int32) {
	s.nodesDA.SetInt(s.nodeOffset(id)+nodeFieldEdgeRef, edgeID)
}

// MarkNodeRemoved adds id to the pending-removal set, consumed by the
// next call to Optimize. It does not touch the node or edge tables.
func (s *Storage) MarkNodeRemoved(id int32) {
	s.removed.Add(uint32(id))
}

// IsNodeRemoved reports whether id is pending removal.
func (s *Storage) IsNodeRemoved(id int32) bool {
	return s.removed.Contains(uint32(id))
}

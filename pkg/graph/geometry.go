package graph

import "github.com/azybler/graphstore/pkg/geo"

// ModeIncludeBase and ModeIncludeAdj are the two bits of the mode
// parameter accepted by FetchWayGeometry.
const (
	ModeIncludeBase = 1 << 0
	ModeIncludeAdj  = 1 << 1
)

// NextGeoRef allocates a contiguous range of nPairs*2+1 words in the
// geometry heap (one length word plus nPairs quantized lat/lon pairs)
// and returns the word offset the caller should store as the edge's
// geo_ref. The heap only grows; nothing is ever reclaimed.
func (s *Storage) NextGeoRef(nPairs int32) int32 {
	ref := s.maxGeoRef
	words := nPairs*2 + 1
	need := int64(ref+words) * 4
	s.geoDA.IncCapacity(need)
	s.maxGeoRef += words
	return ref
}

// SetWayGeometry stores points (the pillar nodes only, excluding both
// endpoints) for edgeID, in canonical a->b order. reverse indicates the
// caller is iterating from the node_b side, so points must be flipped
// before they're written.
func (s *Storage) SetWayGeometry(points []geo.LatLon, edgeID int32, reverse bool) {
	off := s.edgeOffset(edgeID)
	if len(points) == 0 {
		s.edgesDA.SetInt(off+edgeFieldGeoRef, 0)
		return
	}
	ordered := points
	if reverse {
		ordered = reversedPoints(points)
	}
	ref := s.NextGeoRef(int32(len(ordered)))
	base := int64(ref) * 4
	s.geoDA.SetInt(base, int32(len(ordered)))
	for i, p := range ordered {
		s.geoDA.SetInt(base+4+int64(i)*8, geo.DegreeToInt(p.Lat))
		s.geoDA.SetInt(base+8+int64(i)*8, geo.DegreeToInt(p.Lon))
	}
	s.edgesDA.SetInt(off+edgeFieldGeoRef, ref)
}

// FetchWayGeometry returns edgeID's stored pillar geometry read from
// base towards adj, honoring mode's endpoint-inclusion bits. reverse
// indicates the stored (a->b) sequence must be walked back to front to
// read in base->adj order.
func (s *Storage) FetchWayGeometry(edgeID int32, reverse bool, mode int, base, adj int32) []geo.LatLon {
	geoRef := s.edgesDA.GetInt(s.edgeOffset(edgeID) + edgeFieldGeoRef)

	var pillars []geo.LatLon
	if geoRef != 0 {
		pillars = s.rawPillars(geoRef)
		if reverse {
			pillars = reversedPoints(pillars)
		}
	}

	includeBase := mode&ModeIncludeBase != 0
	includeAdj := mode&ModeIncludeAdj != 0
	result := make([]geo.LatLon, 0, len(pillars)+2)
	if includeBase {
		result = append(result, geo.LatLon{Lat: s.Latitude(base), Lon: s.Longitude(base)})
	}
	result = append(result, pillars...)
	if includeAdj {
		result = append(result, geo.LatLon{Lat: s.Latitude(adj), Lon: s.Longitude(adj)})
	}
	return result
}

// rawPillars reads the pillar sequence at geoRef in stored (a->b) order,
// with no endpoint inclusion and no reversal.
func (s *Storage) rawPillars(geoRef int32) []geo.LatLon {
	wordOff := int64(geoRef) * 4
	n := s.geoDA.GetInt(wordOff)
	pillars := make([]geo.LatLon, n)
	for i := int32(0); i < n; i++ {
		latQ := s.geoDA.GetInt(wordOff + 4 + int64(i)*8)
		lonQ := s.geoDA.GetInt(wordOff + 8 + int64(i)*8)
		pillars[i] = geo.LatLon{Lat: geo.IntToDegree(latQ), Lon: geo.IntToDegree(lonQ)}
	}
	return pillars
}

func reversedPoints(points []geo.LatLon) []geo.LatLon {
	out := make([]geo.LatLon, len(points))
	for i, p := range points {
		out[len(points)-1-i] = p
	}
	return out
}

// FetchWayGeometry is a convenience wrapper on EdgeIterator that derives
// reverse from whether the cursor is walking the edge from its node_b
// side.
func (it *EdgeIterator) FetchWayGeometry(mode int) ([]geo.LatLon, error) {
	if !it.advanced {
		return nil, ErrDetachBeforeAdvance
	}
	reverse := it.base > it.other
	return it.s.FetchWayGeometry(it.edgeID, reverse, mode, it.base, it.other), nil
}

// SetWayGeometry is the EdgeIterator-relative counterpart to
// Storage.SetWayGeometry, deriving reverse the same way.
func (it *EdgeIterator) SetWayGeometry(points []geo.LatLon) error {
	if !it.advanced {
		return ErrDetachBeforeAdvance
	}
	reverse := it.base > it.other
	it.s.SetWayGeometry(points, it.edgeID, reverse)
	return nil
}

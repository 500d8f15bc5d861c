package graph

import "github.com/azybler/graphstore/pkg/geo"

// BoundingBox tracks the smallest lat/lon rectangle enclosing every node
// ever passed to SetNode. Adapted from the teacher's OSM-importer BBox
// (which bounded raw float64 OSM coordinates); this variant tracks the
// quantized on-disk representation directly so the bounds it reports
// after a flush/load round trip are bit-identical to the bounds it
// reported before.
type BoundingBox struct {
	MinLatQ, MaxLatQ int32
	MinLonQ, MaxLonQ int32
	touched          bool
}

// newInvertedBBox returns a box inverted so that the first Extend call
// always tightens it in every direction.
func newInvertedBBox() BoundingBox {
	return BoundingBox{
		MinLatQ: 1<<31 - 1,
		MaxLatQ: -(1<<31 - 1),
		MinLonQ: 1<<31 - 1,
		MaxLonQ: -(1<<31 - 1),
	}
}

// Extend widens the box to include (latQ, lonQ).
func (b *BoundingBox) Extend(latQ, lonQ int32) {
	if !b.touched {
		b.MinLatQ, b.MaxLatQ = latQ, latQ
		b.MinLonQ, b.MaxLonQ = lonQ, lonQ
		b.touched = true
		return
	}
	if latQ < b.MinLatQ {
		b.MinLatQ = latQ
	}
	if latQ > b.MaxLatQ {
		b.MaxLatQ = latQ
	}
	if lonQ < b.MinLonQ {
		b.MinLonQ = lonQ
	}
	if lonQ > b.MaxLonQ {
		b.MaxLonQ = lonQ
	}
}

// IsZero reports whether the box has never been extended.
func (b *BoundingBox) IsZero() bool { return !b.touched }

// Degrees returns the box's corners as plain latitude/longitude degrees.
func (b *BoundingBox) Degrees() (minLat, maxLat, minLon, maxLon float64) {
	return geo.IntToDegree(b.MinLatQ), geo.IntToDegree(b.MaxLatQ),
		geo.IntToDegree(b.MinLonQ), geo.IntToDegree(b.MaxLonQ)
}

// Contains reports whether (latQ, lonQ) lies within the box, inclusive.
func (b *BoundingBox) Contains(latQ, lonQ int32) bool {
	return b.touched &&
		latQ >= b.MinLatQ && latQ <= b.MaxLatQ &&
		lonQ >= b.MinLonQ && lonQ <= b.MaxLonQ
}

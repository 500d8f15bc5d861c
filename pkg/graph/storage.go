// Package graph implements the packed-array graph storage engine: a
// fixed-stride node table, a fixed-stride edge table whose records double
// as the nodes of two singly-linked adjacency lists, a variable-length
// geometry heap, in-place node-removal compaction, and persistence
// against the pluggable byte-store contract in pkg/bytestore.
package graph

import (
	"github.com/azybler/graphstore/pkg/bitset"
	"github.com/azybler/graphstore/pkg/bytestore"
	"github.com/azybler/graphstore/pkg/flagcodec"
	"github.com/azybler/graphstore/pkg/nameindex"
	"github.com/azybler/graphstore/pkg/props"
)

// Sentinels, per §6.
const (
	NoEdge = int32(-1)
	NoNode = int32(-1)

	// MaxEdges bounds the length of any single adjacency chain; a walk
	// exceeding this is treated as a corrupt chain rather than a
	// legitimately large adjacency list.
	MaxEdges = 1000
)

// Record layout.
const (
	NodeEntryBytes = 12 // edgeRef, latQ, lonQ
	EdgeEntryBytes = 32 // nodeA, nodeB, linkA, linkB, distQ, flags, geoRef, nameRef
)

// Field byte offsets within a node record.
const (
	nodeFieldEdgeRef = 0
	nodeFieldLat     = 4
	nodeFieldLon     = 8
)

// Field byte offsets within an edge record.
const (
	edgeFieldNodeA  = 0
	edgeFieldNodeB  = 4
	edgeFieldLinkA  = 8
	edgeFieldLinkB  = 12
	edgeFieldDist   = 16
	edgeFieldFlags  = 20
	edgeFieldGeoRef = 24
	edgeFieldName   = 28
)

// Header slot byte offsets, per §4.5. Each region also carries a CRC32
// checksum slot covering exactly its logical (not over-allocated) body
// bytes, verified on LoadExisting the same way the teacher's binary.go
// guards graph.bin against silent truncation or bit-rot.
const (
	nodesHdrFingerprint = 0
	nodesHdrEntryBytes  = 4
	nodesHdrCount       = 8
	nodesHdrMinLon      = 12
	nodesHdrMaxLon      = 16
	nodesHdrMinLat      = 20
	nodesHdrMaxLat      = 24
	nodesHdrChecksum    = 28

	edgesHdrEntryBytes  = 0
	edgesHdrCount       = 4
	edgesHdrFingerprint = 8
	edgesHdrChecksum    = 12

	geoHdrMaxRef    = 0
	geoHdrChecksum  = 4
	namesHdrChecksum = 0
	propsHdrChecksum = 0
)

// classFingerprint distinguishes this module's record layout from any
// other on-disk format sharing the same region names.
const classFingerprint = int32(0x67735f31) // "gs_1"

// initialMaxGeoRef reserves word offset 0 as "no geometry" (§6); the
// heap's first real allocation begins at word 4.
const initialMaxGeoRef = int32(4)

// Storage is the graph storage engine. It owns three byte-store regions
// (nodes, edges, geometry) plus the external name index and properties
// store, and is not safe for concurrent mutation (§5).
type Storage struct {
	dir *bytestore.Directory

	nodesDA bytestore.DataAccess
	edgesDA bytestore.DataAccess
	geoDA   bytestore.DataAccess
	namesDA bytestore.DataAccess
	propsDA bytestore.DataAccess

	names      *nameindex.Index
	properties *props.Store

	nodeCount int32
	edgeCount int32
	maxGeoRef int32

	bbox    BoundingBox
	removed *bitset.Set

	configured bool
}

// NewStorage returns an unconfigured Storage backed by dir. Call Create
// or LoadExisting before using it.
func NewStorage(dir *bytestore.Directory) *Storage {
	return &Storage{dir: dir, removed: bitset.New()}
}

// Create initializes a fresh, empty graph.
func (s *Storage) Create() error {
	if s.configured {
		return ErrDoubleConfigured
	}
	s.nodesDA = s.dir.Find("nodes")
	s.edgesDA = s.dir.Find("edges")
	s.geoDA = s.dir.Find("geometry")
	s.namesDA = s.dir.Find("names")
	s.propsDA = s.dir.Find("properties")

	if err := s.nodesDA.Create(0); err != nil {
		return err
	}
	if err := s.edgesDA.Create(0); err != nil {
		return err
	}
	if err := s.geoDA.Create(int64(initialMaxGeoRef) * 4); err != nil {
		return err
	}
	if err := s.namesDA.Create(0); err != nil {
		return err
	}
	if err := s.propsDA.Create(0); err != nil {
		return err
	}

	s.names = nameindex.New(s.namesDA)
	s.properties = props.New()
	s.properties.PutCurrentVersions()

	s.nodeCount = 0
	s.edgeCount = 0
	s.maxGeoRef = initialMaxGeoRef
	s.bbox = newInvertedBBox()
	s.removed = bitset.New()

	s.nodesDA.SetHeader(nodesHdrFingerprint, classFingerprint)
	s.nodesDA.SetHeader(nodesHdrEntryBytes, NodeEntryBytes)
	s.edgesDA.SetHeader(edgesHdrEntryBytes, EdgeEntryBytes)
	s.edgesDA.SetHeader(edgesHdrFingerprint, flagcodec.Fingerprint())

	s.configured = true
	return nil
}

// NodeCount reports the number of node ids currently visible.
func (s *Storage) NodeCount() int32 { return s.nodeCount }

// EdgeCount reports the total number of edge slots ever allocated,
// including tombstones.
func (s *Storage) EdgeCount() int32 { return s.edgeCount }

// BBox reports the current bounding box over every node's coordinates.
func (s *Storage) BBox() BoundingBox { return s.bbox }

func (s *Storage) nodeOffset(id int32) int64 { return int64(id) * NodeEntryBytes }
func (s *Storage) edgeOffset(id int32) int64 { return int64(id) * EdgeEntryBytes }

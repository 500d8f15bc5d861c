package bytestore

import "path/filepath"

// DAType selects the storage backing a Directory hands out.
type DAType int

const (
	// RAM backs every region with heap memory; nothing survives Close
	// unless CopyTo'd into a persistent region first.
	RAM DAType = iota
	// MMap backs every region with a memory-mapped file under the
	// directory's base path.
	MMap
)

// Directory mints named DataAccess regions of a single backing type,
// mirroring the way the graph package asks for its "nodes", "edges", and
// "geometry" regions without caring how they're stored.
type Directory struct {
	basePath         string
	daType           DAType
	segmentSizeBytes int
	accesses         map[string]DataAccess
}

// NewDirectory constructs a Directory. basePath is only used by the MMap
// backing, as the parent directory for each region's file.
func NewDirectory(basePath string, daType DAType) *Directory {
	return &Directory{
		basePath:         basePath,
		daType:           daType,
		segmentSizeBytes: defaultSegmentSizeBytes,
		accesses:         make(map[string]DataAccess),
	}
}

// SetSegmentSize configures the RAM backing's growth granularity for
// regions minted after this call.
func (d *Directory) SetSegmentSize(bytes int) {
	d.segmentSizeBytes = bytes
}

// Find returns the named region, minting it (unconfigured — the caller
// must still call Create or LoadExisting) on first use.
func (d *Directory) Find(name string) DataAccess {
	if da, ok := d.accesses[name]; ok {
		return da
	}
	var da DataAccess
	switch d.daType {
	case MMap:
		da = NewMMap(name, filepath.Join(d.basePath, name+".gs"))
	default:
		ram := NewRAM(name)
		ram.SetSegmentSize(d.segmentSizeBytes)
		da = ram
	}
	d.accesses[name] = da
	return da
}

// Remove drops a region from the directory's cache without closing it;
// callers that want the backing storage released must Close it first.
func (d *Directory) Remove(name string) {
	delete(d.accesses, name)
}

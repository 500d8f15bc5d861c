package bytestore

import (
	"encoding/binary"
	"fmt"
)

const defaultSegmentSizeBytes = 1 << 20 // 1 MiB

// RAMDataAccess is a heap-resident DataAccess. Body bytes are held as a
// slice of fixed-size segments, grown segment-at-a-time, mirroring the
// segmented-array growth strategy the graph package's node/edge tables
// rely on to avoid large slice copies on every insert.
type RAMDataAccess struct {
	name             string
	header           [HeaderLength]byte
	segments         [][]byte
	segmentSizeBytes int
	configured       bool
	closed           bool
}

// NewRAM constructs an unconfigured RAM-backed region named name.
func NewRAM(name string) *RAMDataAccess {
	return &RAMDataAccess{name: name, segmentSizeBytes: defaultSegmentSizeBytes}
}

func (r *RAMDataAccess) Name() string { return r.name }

func (r *RAMDataAccess) SetSegmentSize(bytes int) {
	if !r.configured && bytes > 0 {
		r.segmentSizeBytes = bytes
	}
}

func (r *RAMDataAccess) Create(bytesBody int64) error {
	if r.configured {
		return ErrDoubleConfigured
	}
	r.configured = true
	r.segments = nil
	r.growTo(bytesBody)
	return nil
}

func (r *RAMDataAccess) LoadExisting() (bool, error) {
	// A pure in-memory region has nothing to reattach to; the caller is
	// expected to have flushed to a persistent DataAccess if reload
	// across process boundaries is required.
	return false, nil
}

func (r *RAMDataAccess) Flush() error {
	if r.closed {
		return ErrClosed
	}
	return nil
}

func (r *RAMDataAccess) Close() error {
	r.closed = true
	r.segments = nil
	return nil
}

func (r *RAMDataAccess) Capacity() int64 {
	return int64(len(r.segments)) * int64(r.segmentSizeBytes)
}

func (r *RAMDataAccess) numSegmentsFor(bytesBody int64) int {
	n := int(bytesBody) / r.segmentSizeBytes
	if int(bytesBody)%r.segmentSizeBytes != 0 {
		n++
	}
	return n
}

func (r *RAMDataAccess) growTo(bytesBody int64) {
	want := r.numSegmentsFor(bytesBody)
	for len(r.segments) < want {
		r.segments = append(r.segments, make([]byte, r.segmentSizeBytes))
	}
}

func (r *RAMDataAccess) IncCapacity(bytesBody int64) bool {
	if !r.configured || r.closed {
		return false
	}
	if bytesBody <= r.Capacity() {
		return false
	}
	r.growTo(bytesBody)
	return true
}

func (r *RAMDataAccess) TrimTo(bytesBody int64) error {
	if !r.configured || r.closed {
		return ErrNotConfigured
	}
	want := r.numSegmentsFor(bytesBody)
	if want < len(r.segments) {
		r.segments = r.segments[:want]
	}
	return nil
}

func (r *RAMDataAccess) segFor(offset int64) (seg []byte, pos int) {
	segIdx := int(offset) / r.segmentSizeBytes
	pos = int(offset) % r.segmentSizeBytes
	return r.segments[segIdx], pos
}

func (r *RAMDataAccess) GetInt(offset int64) int32 {
	seg, pos := r.segFor(offset)
	if pos+4 <= len(seg) {
		return int32(binary.LittleEndian.Uint32(seg[pos : pos+4]))
	}
	var buf [4]byte
	r.GetBytes(offset, buf[:])
	return int32(binary.LittleEndian.Uint32(buf[:]))
}

func (r *RAMDataAccess) SetInt(offset int64, value int32) {
	seg, pos := r.segFor(offset)
	if pos+4 <= len(seg) {
		binary.LittleEndian.PutUint32(seg[pos:pos+4], uint32(value))
		return
	}
	var buf [4]byte
	binary.LittleEndian.PutUint32(buf[:], uint32(value))
	r.SetBytes(offset, buf[:])
}

func (r *RAMDataAccess) GetBytes(offset int64, buf []byte) {
	remaining := buf
	off := offset
	for len(remaining) > 0 {
		seg, pos := r.segFor(off)
		n := copy(remaining, seg[pos:])
		remaining = remaining[n:]
		off += int64(n)
	}
}

func (r *RAMDataAccess) SetBytes(offset int64, buf []byte) {
	remaining := buf
	off := offset
	for len(remaining) > 0 {
		seg, pos := r.segFor(off)
		n := copy(seg[pos:], remaining)
		remaining = remaining[n:]
		off += int64(n)
	}
}

func (r *RAMDataAccess) GetHeader(slotOffset int64) int32 {
	return int32(binary.LittleEndian.Uint32(r.header[slotOffset : slotOffset+4]))
}

func (r *RAMDataAccess) SetHeader(slotOffset int64, value int32) {
	binary.LittleEndian.PutUint32(r.header[slotOffset:slotOffset+4], uint32(value))
}

func (r *RAMDataAccess) CopyTo(other DataAccess) error {
	if !other.IncCapacity(r.Capacity()) && other.Capacity() < r.Capacity() {
		return fmt.Errorf("bytestore: CopyTo %s: destination could not grow to %d bytes", r.name, r.Capacity())
	}
	other.SetBytes(0, snapshotBody(r))
	for slot := int64(0); slot < HeaderLength; slot += 4 {
		other.SetHeader(slot, r.GetHeader(slot))
	}
	return nil
}

// snapshotBody materializes the full body as one contiguous slice for a
// bulk copy; used only by CopyTo, which is not on any hot path.
func snapshotBody(r *RAMDataAccess) []byte {
	buf := make([]byte, r.Capacity())
	r.GetBytes(0, buf)
	return buf
}

package bytestore

import (
	"encoding/binary"
	"fmt"
	"io"
	"os"

	mmap "github.com/blevesearch/mmap-go"
)

// MMapDataAccess is a file-backed DataAccess. The header occupies the
// first HeaderLength bytes of the file; the body follows.
//
// Every mutation lands on a "<path>.tmp" working copy, never on path
// itself. Flush is the only operation that touches path: it syncs the
// working copy, renames it into place atomically, then re-stages a fresh
// working copy from the file it just committed. A process that dies
// mid-session — or mid-remap, or mid-Flush before the rename completes —
// leaves path holding either nothing or the last successfully committed
// snapshot, never a half-written one.
type MMapDataAccess struct {
	name       string
	path       string
	file       *os.File
	mm         mmap.MMap
	capacity   int64 // body capacity in bytes, excludes header
	configured bool
	closed     bool
}

// NewMMap constructs an unconfigured file-backed region at path.
func NewMMap(name, path string) *MMapDataAccess {
	return &MMapDataAccess{name: name, path: path}
}

func (m *MMapDataAccess) Name() string { return m.name }

// SetSegmentSize is accepted for interface parity with RAMDataAccess but
// has no effect: growth here truncates the file to exactly the requested
// size, not to fixed segments.
func (m *MMapDataAccess) SetSegmentSize(int) {}

func (m *MMapDataAccess) tmpPath() string { return m.path + ".tmp" }

func (m *MMapDataAccess) Create(bytesBody int64) error {
	if m.configured {
		return ErrDoubleConfigured
	}
	f, err := os.OpenFile(m.tmpPath(), os.O_RDWR|os.O_CREATE|os.O_TRUNC, 0o644)
	if err != nil {
		return fmt.Errorf("bytestore: create %s: %w", m.tmpPath(), err)
	}
	m.file = f
	m.configured = true
	if err := m.remap(bytesBody); err != nil {
		return err
	}
	return nil
}

// LoadExisting stages a working copy of the committed file and mmaps
// that copy, so nothing this session writes touches path until the next
// Flush.
func (m *MMapDataAccess) LoadExisting() (bool, error) {
	if m.configured {
		return false, ErrDoubleConfigured
	}
	if err := copyFile(m.path, m.tmpPath()); err != nil {
		if os.IsNotExist(err) {
			return false, nil
		}
		return false, fmt.Errorf("bytestore: stage %s: %w", m.path, err)
	}
	f, err := os.OpenFile(m.tmpPath(), os.O_RDWR, 0o644)
	if err != nil {
		return false, fmt.Errorf("bytestore: load %s: %w", m.tmpPath(), err)
	}
	info, err := f.Stat()
	if err != nil {
		f.Close()
		return false, fmt.Errorf("bytestore: stat %s: %w", m.tmpPath(), err)
	}
	if info.Size() < HeaderLength {
		f.Close()
		os.Remove(m.tmpPath())
		return false, nil
	}
	m.file = f
	m.configured = true
	m.capacity = info.Size() - HeaderLength
	mm, err := mmap.Map(f, mmap.RDWR, 0)
	if err != nil {
		f.Close()
		return false, fmt.Errorf("bytestore: mmap %s: %w", m.tmpPath(), err)
	}
	m.mm = mm
	return true, nil
}

// remap unmaps the current mapping (if any), truncates the working file
// to HeaderLength+bytesBody, and remaps.
func (m *MMapDataAccess) remap(bytesBody int64) error {
	if m.mm != nil {
		if err := m.mm.Unmap(); err != nil {
			return fmt.Errorf("bytestore: unmap %s: %w", m.tmpPath(), err)
		}
		m.mm = nil
	}
	total := HeaderLength + bytesBody
	if err := m.file.Truncate(total); err != nil {
		return fmt.Errorf("bytestore: truncate %s: %w", m.tmpPath(), err)
	}
	mm, err := mmap.Map(m.file, mmap.RDWR, 0)
	if err != nil {
		return fmt.Errorf("bytestore: mmap %s: %w", m.tmpPath(), err)
	}
	m.mm = mm
	m.capacity = bytesBody
	return nil
}

// Flush commits the working copy: sync it to disk, atomically rename it
// over path, then re-stage a fresh working copy from the file just
// committed so later mutation still never touches path directly.
func (m *MMapDataAccess) Flush() error {
	if m.closed {
		return ErrClosed
	}
	if err := m.mm.Flush(); err != nil {
		return fmt.Errorf("bytestore: flush %s: %w", m.tmpPath(), err)
	}
	if err := m.file.Sync(); err != nil {
		return fmt.Errorf("bytestore: sync %s: %w", m.tmpPath(), err)
	}
	if err := m.mm.Unmap(); err != nil {
		return fmt.Errorf("bytestore: unmap %s: %w", m.tmpPath(), err)
	}
	m.mm = nil
	if err := m.file.Close(); err != nil {
		return fmt.Errorf("bytestore: close %s: %w", m.tmpPath(), err)
	}
	if err := os.Rename(m.tmpPath(), m.path); err != nil {
		return fmt.Errorf("bytestore: commit %s: %w", m.path, err)
	}
	if err := copyFile(m.path, m.tmpPath()); err != nil {
		return fmt.Errorf("bytestore: re-stage %s: %w", m.path, err)
	}
	f, err := os.OpenFile(m.tmpPath(), os.O_RDWR, 0o644)
	if err != nil {
		return fmt.Errorf("bytestore: reopen %s: %w", m.tmpPath(), err)
	}
	mm, err := mmap.Map(f, mmap.RDWR, 0)
	if err != nil {
		f.Close()
		return fmt.Errorf("bytestore: remap %s: %w", m.tmpPath(), err)
	}
	m.file = f
	m.mm = mm
	return nil
}

// Close releases the working copy without committing it. Anything
// written since the last Flush is discarded, matching every other
// DataAccess implementation's Close contract.
func (m *MMapDataAccess) Close() error {
	if m.closed {
		return nil
	}
	m.closed = true
	if m.mm != nil {
		if err := m.mm.Unmap(); err != nil {
			return fmt.Errorf("bytestore: unmap %s: %w", m.tmpPath(), err)
		}
	}
	if m.file != nil {
		if err := m.file.Close(); err != nil {
			return err
		}
	}
	os.Remove(m.tmpPath())
	return nil
}

func (m *MMapDataAccess) Capacity() int64 { return m.capacity }

func (m *MMapDataAccess) IncCapacity(bytesBody int64) bool {
	if !m.configured || m.closed || bytesBody <= m.capacity {
		return false
	}
	if err := m.remap(bytesBody); err != nil {
		return false
	}
	return true
}

func (m *MMapDataAccess) TrimTo(bytesBody int64) error {
	if !m.configured || m.closed {
		return ErrNotConfigured
	}
	if bytesBody >= m.capacity {
		return nil
	}
	return m.remap(bytesBody)
}

func (m *MMapDataAccess) body(offset, n int64) []byte {
	start := HeaderLength + offset
	return m.mm[start : start+n]
}

func (m *MMapDataAccess) GetInt(offset int64) int32 {
	return int32(binary.LittleEndian.Uint32(m.body(offset, 4)))
}

func (m *MMapDataAccess) SetInt(offset int64, value int32) {
	binary.LittleEndian.PutUint32(m.body(offset, 4), uint32(value))
}

func (m *MMapDataAccess) GetBytes(offset int64, buf []byte) {
	copy(buf, m.body(offset, int64(len(buf))))
}

func (m *MMapDataAccess) SetBytes(offset int64, buf []byte) {
	copy(m.body(offset, int64(len(buf))), buf)
}

func (m *MMapDataAccess) GetHeader(slotOffset int64) int32 {
	return int32(binary.LittleEndian.Uint32(m.mm[slotOffset : slotOffset+4]))
}

func (m *MMapDataAccess) SetHeader(slotOffset int64, value int32) {
	binary.LittleEndian.PutUint32(m.mm[slotOffset:slotOffset+4], uint32(value))
}

func (m *MMapDataAccess) CopyTo(other DataAccess) error {
	if !other.IncCapacity(m.capacity) && other.Capacity() < m.capacity {
		return fmt.Errorf("bytestore: CopyTo %s: destination could not grow to %d bytes", m.name, m.capacity)
	}
	other.SetBytes(0, m.body(0, m.capacity))
	for slot := int64(0); slot < HeaderLength; slot += 4 {
		other.SetHeader(slot, m.GetHeader(slot))
	}
	return nil
}

// copyFile overwrites dst with a full copy of src.
func copyFile(src, dst string) error {
	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer in.Close()
	out, err := os.OpenFile(dst, os.O_RDWR|os.O_CREATE|os.O_TRUNC, 0o644)
	if err != nil {
		return err
	}
	defer out.Close()
	_, err = io.Copy(out, in)
	return err
}

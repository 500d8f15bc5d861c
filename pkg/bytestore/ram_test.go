package bytestore_test

import (
	"testing"

	"github.com/azybler/graphstore/pkg/bytestore"
)

func TestRAMGetSetInt(t *testing.T) {
	da := bytestore.NewRAM("nodes")
	if err := da.Create(64); err != nil {
		t.Fatalf("Create: %v", err)
	}
	da.SetInt(0, 42)
	da.SetInt(4, -7)
	if got := da.GetInt(0); got != 42 {
		t.Errorf("GetInt(0) = %d, want 42", got)
	}
	if got := da.GetInt(4); got != -7 {
		t.Errorf("GetInt(4) = %d, want -7", got)
	}
}

func TestRAMGrowsAcrossSegments(t *testing.T) {
	da := bytestore.NewRAM("edges")
	da.SetSegmentSize(16) // force many small segments
	if err := da.Create(8); err != nil {
		t.Fatalf("Create: %v", err)
	}
	// Write an int that straddles a segment boundary.
	da.IncCapacity(64)
	da.SetInt(14, 12345)
	if got := da.GetInt(14); got != 12345 {
		t.Errorf("straddling GetInt(14) = %d, want 12345", got)
	}

	buf := []byte{1, 2, 3, 4, 5, 6, 7, 8}
	da.SetBytes(12, buf)
	out := make([]byte, len(buf))
	da.GetBytes(12, out)
	for i := range buf {
		if out[i] != buf[i] {
			t.Errorf("GetBytes[%d] = %d, want %d", i, out[i], buf[i])
		}
	}
}

func TestRAMHeader(t *testing.T) {
	da := bytestore.NewRAM("nodes")
	da.Create(4)
	da.SetHeader(0, 99)
	da.SetHeader(4, -1)
	if got := da.GetHeader(0); got != 99 {
		t.Errorf("GetHeader(0) = %d, want 99", got)
	}
	if got := da.GetHeader(4); got != -1 {
		t.Errorf("GetHeader(4) = %d, want -1", got)
	}
}

func TestRAMIncCapacityReportsGrowth(t *testing.T) {
	da := bytestore.NewRAM("edges")
	da.Create(8)
	if da.IncCapacity(8) {
		t.Error("IncCapacity to same size should report no growth")
	}
	if !da.IncCapacity(1 << 21) {
		t.Error("IncCapacity to a larger size should report growth")
	}
}

func TestRAMCopyTo(t *testing.T) {
	src := bytestore.NewRAM("nodes")
	src.Create(32)
	src.SetInt(0, 111)
	src.SetInt(28, 222)
	src.SetHeader(0, 7)

	dst := bytestore.NewRAM("nodes-copy")
	dst.Create(0)
	if err := src.CopyTo(dst); err != nil {
		t.Fatalf("CopyTo: %v", err)
	}
	if got := dst.GetInt(0); got != 111 {
		t.Errorf("copied GetInt(0) = %d, want 111", got)
	}
	if got := dst.GetInt(28); got != 222 {
		t.Errorf("copied GetInt(28) = %d, want 222", got)
	}
	if got := dst.GetHeader(0); got != 7 {
		t.Errorf("copied GetHeader(0) = %d, want 7", got)
	}
}

package graph_test

import (
	"testing"

	"github.com/azybler/graphstore/pkg/bytestore"
	"github.com/azybler/graphstore/pkg/flagcodec"
	"github.com/azybler/graphstore/pkg/graph"
)

func TestBuildTriangleAndFlushLoadRoundTrip(t *testing.T) {
	path := t.TempDir()

	s := graph.NewStorage(bytestore.NewDirectory(path, bytestore.MMap))
	if err := s.Create(); err != nil {
		t.Fatalf("Create: %v", err)
	}
	s.SetNode(0, 0, 0)
	s.SetNode(1, 0, 1)
	s.SetNode(2, 1, 0)
	e0, _ := s.AddEdge(0, 1, 100, flagcodec.DefaultFlags(true))
	e1, _ := s.AddEdge(1, 2, 150, flagcodec.DefaultFlags(true))
	_, _ = s.AddEdge(2, 0, 200, flagcodec.DefaultFlags(false))
	s.SetName(e0, "First Ave")

	if err := s.Flush(); err != nil {
		t.Fatalf("Flush: %v", err)
	}
	if err := s.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}

	// A reload from a fresh process opens a new Directory over the same
	// path rather than reusing the live one.
	reloaded := graph.NewStorage(bytestore.NewDirectory(path, bytestore.MMap))
	ok, err := reloaded.LoadExisting()
	if err != nil {
		t.Fatalf("LoadExisting: %v", err)
	}
	if !ok {
		t.Fatal("LoadExisting reported no persisted graph")
	}

	if got := reloaded.NodeCount(); got != 3 {
		t.Errorf("NodeCount = %d, want 3", got)
	}
	if got := reloaded.EdgeCount(); got != 3 {
		t.Errorf("EdgeCount = %d, want 3", got)
	}

	name, err := reloaded.Name(e0)
	if err != nil || name != "First Ave" {
		t.Errorf("Name(e0) = %q, %v, want %q, nil", name, err, "First Ave")
	}
	if dist := reloaded.Distance(e1); dist < 149.999 || dist > 150.001 {
		t.Errorf("Distance(e1) = %v, want ~150", dist)
	}

	explorer := reloaded.CreateEdgeExplorer(nil)
	seen := map[int32]bool{}
	it := explorer.SetBaseNode(0)
	for it.Next() {
		adj, _ := it.AdjNode()
		seen[adj] = true
	}
	if !seen[1] || !seen[2] {
		t.Errorf("triangle adjacency from node 0 = %v, want both 1 and 2", seen)
	}
}

func TestLoadExistingOnEmptyDirectoryReturnsFalse(t *testing.T) {
	dir := bytestore.NewDirectory(t.TempDir(), bytestore.MMap)
	s := graph.NewStorage(dir)
	ok, err := s.LoadExisting()
	if err != nil {
		t.Fatalf("LoadExisting: %v", err)
	}
	if ok {
		t.Fatal("LoadExisting should report false on an empty directory")
	}
}

func TestCopyToClonesGraph(t *testing.T) {
	srcDir := bytestore.NewDirectory(t.TempDir(), bytestore.RAM)
	src := graph.NewStorage(srcDir)
	if err := src.Create(); err != nil {
		t.Fatalf("Create: %v", err)
	}
	src.SetNode(0, 10, 10)
	src.SetNode(1, 20, 20)
	e, _ := src.AddEdge(0, 1, 42, flagcodec.DefaultFlags(true))
	src.SetName(e, "Cloned Street")

	dstDir := bytestore.NewDirectory(t.TempDir(), bytestore.RAM)
	dst := graph.NewStorage(dstDir)
	if err := src.CopyTo(dst); err != nil {
		t.Fatalf("CopyTo: %v", err)
	}

	if got := dst.NodeCount(); got != 2 {
		t.Errorf("clone NodeCount = %d, want 2", got)
	}
	name, err := dst.Name(e)
	if err != nil || name != "Cloned Street" {
		t.Errorf("clone Name = %q, %v, want %q, nil", name, err, "Cloned Street")
	}
}

func TestLoadExistingRejectsCorruptFingerprint(t *testing.T) {
	path := t.TempDir()

	s := graph.NewStorage(bytestore.NewDirectory(path, bytestore.MMap))
	if err := s.Create(); err != nil {
		t.Fatalf("Create: %v", err)
	}
	s.SetNode(0, 0, 0)
	if err := s.Flush(); err != nil {
		t.Fatalf("Flush: %v", err)
	}
	if err := s.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}

	// Reopen just the nodes region directly and corrupt its class
	// fingerprint header slot, simulating a foreign or stale file.
	corruptor := bytestore.NewDirectory(path, bytestore.MMap)
	nodesDA := corruptor.Find("nodes")
	if _, err := nodesDA.LoadExisting(); err != nil {
		t.Fatalf("LoadExisting (corruptor): %v", err)
	}
	var corruptFingerprint uint32 = 0xdeadbeef
	nodesDA.SetHeader(0, int32(corruptFingerprint))
	if err := nodesDA.Flush(); err != nil {
		t.Fatalf("Flush (corruptor): %v", err)
	}
	if err := nodesDA.Close(); err != nil {
		t.Fatalf("Close (corruptor): %v", err)
	}

	reloaded := graph.NewStorage(bytestore.NewDirectory(path, bytestore.MMap))
	if _, err := reloaded.LoadExisting(); err == nil {
		t.Fatal("expected LoadExisting to reject a corrupted class fingerprint")
	}
}

func TestLoadExistingRejectsCorruptChecksum(t *testing.T) {
	path := t.TempDir()

	s := graph.NewStorage(bytestore.NewDirectory(path, bytestore.MMap))
	if err := s.Create(); err != nil {
		t.Fatalf("Create: %v", err)
	}
	s.SetNode(0, 12, 34)
	if err := s.Flush(); err != nil {
		t.Fatalf("Flush: %v", err)
	}
	if err := s.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}

	// Flip a body byte in the nodes region without touching its header
	// checksum slot, simulating bit-rot or a partial write that the
	// fingerprint/entry-size checks alone would not catch.
	corruptor := bytestore.NewDirectory(path, bytestore.MMap)
	nodesDA := corruptor.Find("nodes")
	if _, err := nodesDA.LoadExisting(); err != nil {
		t.Fatalf("LoadExisting (corruptor): %v", err)
	}
	nodesDA.SetInt(0, 999999)
	if err := nodesDA.Flush(); err != nil {
		t.Fatalf("Flush (corruptor): %v", err)
	}
	if err := nodesDA.Close(); err != nil {
		t.Fatalf("Close (corruptor): %v", err)
	}

	reloaded := graph.NewStorage(bytestore.NewDirectory(path, bytestore.MMap))
	if _, err := reloaded.LoadExisting(); err == nil {
		t.Fatal("expected LoadExisting to reject a corrupted nodes checksum")
	}
}

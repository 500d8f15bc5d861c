package nameindex_test

import (
	"testing"

	"github.com/azybler/graphstore/pkg/bytestore"
	"github.com/azybler/graphstore/pkg/nameindex"
)

func newIndex(t *testing.T) *nameindex.Index {
	t.Helper()
	da := bytestore.NewRAM("names")
	if err := da.Create(0); err != nil {
		t.Fatalf("Create: %v", err)
	}
	return nameindex.New(da)
}

func TestEmptyStringIsRefZero(t *testing.T) {
	idx := newIndex(t)
	if ref := idx.Put(""); ref != nameindex.EmptyRef {
		t.Errorf("Put(\"\") = %d, want %d", ref, nameindex.EmptyRef)
	}
	s, err := idx.Get(nameindex.EmptyRef)
	if err != nil {
		t.Fatalf("Get(EmptyRef): %v", err)
	}
	if s != "" {
		t.Errorf("Get(EmptyRef) = %q, want \"\"", s)
	}
}

func TestPutGetRoundTrip(t *testing.T) {
	idx := newIndex(t)
	ref1 := idx.Put("Orchard Road")
	ref2 := idx.Put("Bukit Timah Road")

	got1, err := idx.Get(ref1)
	if err != nil || got1 != "Orchard Road" {
		t.Errorf("Get(ref1) = %q, %v, want %q, nil", got1, err, "Orchard Road")
	}
	got2, err := idx.Get(ref2)
	if err != nil || got2 != "Bukit Timah Road" {
		t.Errorf("Get(ref2) = %q, %v, want %q, nil", got2, err, "Bukit Timah Road")
	}
}

func TestGetOutOfRange(t *testing.T) {
	idx := newIndex(t)
	if _, err := idx.Get(999); err == nil {
		t.Fatal("Get(999): want error for out-of-range ref")
	}
}

func TestOpenReconstructsRefs(t *testing.T) {
	da := bytestore.NewRAM("names")
	da.Create(0)
	idx := nameindex.New(da)
	idx.Put("Alpha")
	idx.Put("Beta")
	idx.Put("Gamma")

	reopened := nameindex.Open(da, idx.WriteOffset())
	for ref, want := range map[int32]string{1: "Alpha", 2: "Beta", 3: "Gamma"} {
		got, err := reopened.Get(ref)
		if err != nil || got != want {
			t.Errorf("reopened.Get(%d) = %q, %v, want %q, nil", ref, got, err, want)
		}
	}
}

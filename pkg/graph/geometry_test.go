package graph_test

import (
	"testing"

	"github.com/azybler/graphstore/pkg/geo"
	"github.com/azybler/graphstore/pkg/graph"
)

func TestWayGeometryRoundTrip(t *testing.T) {
	s := newTestStorage(t)
	s.SetNode(0, 0, 0)
	s.SetNode(1, 1, 1)
	e, _ := s.AddEdge(0, 1, 100, 0)

	pillars := []geo.LatLon{{Lat: 0.25, Lon: 0.25}, {Lat: 0.5, Lon: 0.5}, {Lat: 0.75, Lon: 0.75}}
	s.SetWayGeometry(pillars, e, false)

	got := s.FetchWayGeometry(e, false, 0, 0, 1)
	if len(got) != len(pillars) {
		t.Fatalf("got %d pillars, want %d", len(got), len(pillars))
	}
	for i := range pillars {
		if !closeEnough(got[i].Lat, pillars[i].Lat) || !closeEnough(got[i].Lon, pillars[i].Lon) {
			t.Errorf("pillar[%d] = %+v, want %+v", i, got[i], pillars[i])
		}
	}
}

func TestWayGeometryReversedWhenWalkedFromOtherSide(t *testing.T) {
	s := newTestStorage(t)
	s.SetNode(0, 0, 0)
	s.SetNode(1, 1, 1)
	e, _ := s.AddEdge(0, 1, 100, 0)

	pillars := []geo.LatLon{{Lat: 0.25, Lon: 0.25}, {Lat: 0.75, Lon: 0.75}}
	s.SetWayGeometry(pillars, e, false)

	// Walking base->adj from node 1's side must return the pillars in
	// reverse (b->a physical, i.e. 1's perspective).
	got := s.FetchWayGeometry(e, true, 0, 1, 0)
	if len(got) != 2 {
		t.Fatalf("got %d pillars, want 2", len(got))
	}
	if !closeEnough(got[0].Lat, pillars[1].Lat) || !closeEnough(got[1].Lat, pillars[0].Lat) {
		t.Errorf("got = %+v, want reversed %+v", got, pillars)
	}
}

func TestWayGeometryIncludesEndpoints(t *testing.T) {
	s := newTestStorage(t)
	s.SetNode(0, 10, 10)
	s.SetNode(1, 20, 20)
	e, _ := s.AddEdge(0, 1, 100, 0)
	s.SetWayGeometry([]geo.LatLon{{Lat: 15, Lon: 15}}, e, false)

	got := s.FetchWayGeometry(e, false, graph.ModeIncludeBase|graph.ModeIncludeAdj, 0, 1)
	if len(got) != 3 {
		t.Fatalf("got %d points, want 3 (base+pillar+adj)", len(got))
	}
	if !closeEnough(got[0].Lat, 10) || !closeEnough(got[2].Lat, 20) {
		t.Errorf("endpoints not in expected positions: %+v", got)
	}
}

func closeEnough(a, b float64) bool {
	d := a - b
	if d < 0 {
		d = -d
	}
	return d < 1e-6
}

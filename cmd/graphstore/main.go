package main

import (
	"flag"
	"fmt"
	"log"
	"math/rand"
	"os"
	"time"

	"github.com/azybler/graphstore/pkg/bytestore"
	"github.com/azybler/graphstore/pkg/flagcodec"
	"github.com/azybler/graphstore/pkg/geo"
	"github.com/azybler/graphstore/pkg/graph"
)

func main() {
	dir := flag.String("dir", "", "Directory to store the memory-mapped graph in")
	nodes := flag.Int("nodes", 1000, "Number of synthetic nodes to generate")
	removeFrac := flag.Float64("remove-frac", 0.1, "Fraction of nodes to mark removed before optimizing")
	debugNode := flag.Int("debug-node", 0, "Node id to print adjacency info for after loading")
	flag.Parse()

	if *dir == "" {
		fmt.Fprintln(os.Stderr, "Usage: graphstore --dir <path> [--nodes N] [--remove-frac F] [--debug-node ID]")
		os.Exit(1)
	}

	start := time.Now()

	log.Printf("Creating graph in %s...", *dir)
	d := bytestore.NewDirectory(*dir, bytestore.MMap)
	s := graph.NewStorage(d)
	if err := s.Create(); err != nil {
		log.Fatalf("Create: %v", err)
	}

	log.Printf("Generating %d synthetic nodes...", *nodes)
	rng := rand.New(rand.NewSource(1))
	for i := 0; i < *nodes; i++ {
		lat := rng.Float64()*10 - 5
		lon := rng.Float64()*10 - 5
		s.SetNode(int32(i), lat, lon)
	}

	log.Println("Connecting nodes in a ring plus random chords...")
	for i := 0; i < *nodes; i++ {
		a, b := int32(i), int32((i+1)%(*nodes))
		e, err := s.AddEdge(a, b, distanceHeuristic(s, a, b), flagcodec.DefaultFlags(true))
		if err != nil {
			log.Fatalf("AddEdge: %v", err)
		}
		s.SetName(e, fmt.Sprintf("Ring Segment %d", i))
	}
	extraChords := *nodes / 10
	for i := 0; i < extraChords; i++ {
		a := int32(rng.Intn(*nodes))
		b := int32(rng.Intn(*nodes))
		if a == b {
			continue
		}
		if _, err := s.AddEdge(a, b, distanceHeuristic(s, a, b), flagcodec.DefaultFlags(false)); err != nil {
			log.Fatalf("AddEdge: %v", err)
		}
	}
	log.Printf("Graph: %d nodes, %d edges", s.NodeCount(), s.EdgeCount())

	if *removeFrac > 0 {
		toRemove := int(float64(*nodes) * *removeFrac)
		log.Printf("Marking %d nodes for removal...", toRemove)
		for i := 0; i < toRemove; i++ {
			s.MarkNodeRemoved(int32(rng.Intn(*nodes)))
		}
		log.Println("Optimizing (compacting removed nodes)...")
		if err := s.Optimize(); err != nil {
			log.Fatalf("Optimize: %v", err)
		}
		log.Printf("Graph after optimize: %d nodes, %d edges", s.NodeCount(), s.EdgeCount())
	}

	log.Println("Flushing to disk...")
	if err := s.Flush(); err != nil {
		log.Fatalf("Flush: %v", err)
	}
	if err := s.Close(); err != nil {
		log.Fatalf("Close: %v", err)
	}

	log.Println("Reloading from disk...")
	reloaded := graph.NewStorage(bytestore.NewDirectory(*dir, bytestore.MMap))
	ok, err := reloaded.LoadExisting()
	if err != nil {
		log.Fatalf("LoadExisting: %v", err)
	}
	if !ok {
		log.Fatal("LoadExisting found nothing after flush")
	}
	log.Printf("Reloaded: %d nodes, %d edges", reloaded.NodeCount(), reloaded.EdgeCount())

	if *debugNode >= 0 && int32(*debugNode) < reloaded.NodeCount() {
		fmt.Print(reloaded.DebugString(int32(*debugNode), 5))
	}

	if err := reloaded.Close(); err != nil {
		log.Fatalf("Close: %v", err)
	}
	log.Printf("Done in %s.", time.Since(start).Round(time.Millisecond))
}

func distanceHeuristic(s *graph.Storage, a, b int32) float64 {
	d := geo.Haversine(s.Latitude(a), s.Longitude(a), s.Latitude(b), s.Longitude(b))
	if d == 0 {
		return 1 // AddEdge never rejects a zero-length edge, but keep synthetic demo edges non-degenerate
	}
	return d
}

package graph

import "fmt"

// DebugString reports summary counts, plus up to area of nodeID's edges,
// each with all of its pillar points, in the style of a quick sanity
// dump rather than a stable machine-readable format. Grounded on
// GraphHopperStorage's own getDebugInfo, which the original storage
// engine exposes for exactly this kind of ad hoc inspection.
func (s *Storage) DebugString(nodeID int32, area int) string {
	out := fmt.Sprintf("nodes: %d, edges: %d, removed: %d, maxGeoRef: %d\n",
		s.nodeCount, s.edgeCount, s.removed.Len(), s.maxGeoRef)

	if nodeID < 0 || nodeID >= s.nodeCount {
		return out
	}
	out += fmt.Sprintf("node %d: lat=%.7f lon=%.7f removed=%v\n",
		nodeID, s.Latitude(nodeID), s.Longitude(nodeID), s.IsNodeRemoved(nodeID))

	explorer := s.CreateEdgeExplorer(nil)
	it := explorer.SetBaseNode(nodeID)
	shown := 0
	for shown < area && it.Next() {
		edgeID, _ := it.EdgeID()
		adj, _ := it.AdjNode()
		dist, _ := it.Distance()
		flags, _ := it.Flags()
		name, _ := it.Name()
		out += fmt.Sprintf("  edge %d: -> node %d, dist=%.1fm, flags=%#x, name=%q\n",
			edgeID, adj, dist, flags, name)
		pillars, err := it.FetchWayGeometry(0)
		if err == nil && len(pillars) > 0 {
			out += fmt.Sprintf("    pillars: %v\n", pillars)
		}
		shown++
	}
	if err := it.Err(); err != nil {
		out += fmt.Sprintf("  chain error: %v\n", err)
	}
	return out
}

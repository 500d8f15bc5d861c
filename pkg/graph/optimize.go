package graph

// linkFieldForRemovedWalk picks the link field belonging to remNode on
// the edge described by (nodeA, nodeB), tolerating the case where nodeA
// has already been tombstoned by an earlier visit from remNode's
// removed neighbor. A tombstoned edge can only be one whose other
// endpoint is also removed (survivor-touching edges are never
// tombstoned until the survivor-side splice pass), so if remNode still
// occupies node_b, its field is link_b; otherwise remNode was node_a,
// whose field is always link_a since node_a <= node_b holds even after
// node_a's value is destroyed.
func linkFieldForRemovedWalk(off int64, remNode, nodeA, nodeB int32) int64 {
	if nodeA == NoNode {
		if nodeB == remNode {
			return off + edgeFieldLinkB
		}
		return off + edgeFieldLinkA
	}
	return linkFieldOffset(off, remNode, otherNode(nodeA, nodeB, remNode))
}

// discardDanglingLinks walks survivor v's adjacency chain and splices
// out every edge whose other endpoint is pending removal, tombstoning
// each one as it's unlinked.
func (s *Storage) discardDanglingLinks(v int32) error {
	cur := s.nodeEdgeRef(v)
	prevIsHead := true
	var prevLinkOff int64
	iterations := 0
	for cur != NoEdge {
		iterations++
		if iterations > MaxEdges {
			return ErrCorruptChain
		}
		off := s.edgeOffset(cur)
		nodeA := s.edgesDA.GetInt(off + edgeFieldNodeA)
		nodeB := s.edgesDA.GetInt(off + edgeFieldNodeB)
		other := otherNode(nodeA, nodeB, v)
		linkOff := linkFieldOffset(off, v, other)
		next := s.edgesDA.GetInt(linkOff)

		if s.removed.Contains(uint32(other)) {
			if prevIsHead {
				s.setNodeEdgeRef(v, next)
			} else {
				s.edgesDA.SetInt(prevLinkOff, next)
			}
			s.edgesDA.SetInt(off+edgeFieldNodeA, NoNode)
			cur = next
			continue
		}
		prevIsHead = false
		prevLinkOff = linkOff
		cur = next
	}
	return nil
}

// Optimize consumes the pending removal set, relabeling surviving high
// node ids into the freed low slots and rewriting every touched edge and
// adjacency chain to match (§4.4). It is a no-op if nothing is marked
// removed.
func (s *Storage) Optimize() error {
	if s.removed.Len() == 0 {
		return nil
	}

	var removedAsc []int32
	s.removed.Each(func(id uint32) bool {
		removedAsc = append(removedAsc, int32(id))
		return true
	})
	k := int32(len(removedAsc))

	// Step 1: build the relabel map (tail -> dest) via a descending
	// tail scan. The map's iteration order is not defined; step 5 does
	// not depend on it, since every dest is a removed id and no tail is.
	relabel := make(map[int32]int32, k)
	tail := s.nodeCount - 1
	for _, remNode := range removedAsc {
		for tail >= 0 && s.removed.Contains(uint32(tail)) {
			tail--
		}
		if tail <= remNode {
			break
		}
		relabel[tail] = remNode
		tail--
	}

	// Step 2: walk every removed node's own (still-intact) chain,
	// tombstoning removed-removed edges immediately and collecting every
	// surviving neighbor into the touch set T.
	T := make(map[int32]bool)
	for _, remNode := range removedAsc {
		cur := s.nodeEdgeRef(remNode)
		iterations := 0
		for cur != NoEdge {
			iterations++
			if iterations > MaxEdges {
				return ErrCorruptChain
			}
			off := s.edgeOffset(cur)
			nodeA := s.edgesDA.GetInt(off + edgeFieldNodeA)
			nodeB := s.edgesDA.GetInt(off + edgeFieldNodeB)
			next := s.edgesDA.GetInt(linkFieldForRemovedWalk(off, remNode, nodeA, nodeB))

			if nodeA != NoNode {
				other := otherNode(nodeA, nodeB, remNode)
				if s.removed.Contains(uint32(other)) {
					s.edgesDA.SetInt(off+edgeFieldNodeA, NoNode)
				} else {
					T[other] = true
				}
			}
			cur = next
		}
	}

	// Step 3: disconnect dangling links from every survivor touched by a
	// removed neighbor.
	for v := range T {
		if err := s.discardDanglingLinks(v); err != nil {
			return err
		}
	}

	// Step 5: relocate node records into the freed slots. edgeRef
	// travels with the node unchanged; only edge records reference stale
	// ids at this point.
	for tailID, dest := range relabel {
		srcOff := s.nodeOffset(tailID)
		dstOff := s.nodeOffset(dest)
		buf := make([]byte, NodeEntryBytes)
		s.nodesDA.GetBytes(srcOff, buf)
		s.nodesDA.SetBytes(dstOff, buf)
	}

	// Step 6 & 7: rewrite every edge touching a relocated id, reversing
	// stored geometry when the endpoint reorder flips orientation.
	getOrIdentity := func(id int32) int32 {
		if dest, ok := relabel[id]; ok {
			return dest
		}
		return id
	}
	all := s.CreateAllEdgesIterator()
	for all.Next() {
		e := all.EdgeID()
		off := s.edgeOffset(e)
		nodeA := s.edgesDA.GetInt(off + edgeFieldNodeA)
		nodeB := s.edgesDA.GetInt(off + edgeFieldNodeB)
		_, touchedA := relabel[nodeA]
		_, touchedB := relabel[nodeB]
		if !touchedA && !touchedB {
			continue
		}
		updatedA := getOrIdentity(nodeA)
		updatedB := getOrIdentity(nodeB)
		linkA := s.edgesDA.GetInt(off + edgeFieldLinkA)
		linkB := s.edgesDA.GetInt(off + edgeFieldLinkB)
		distQ := s.edgesDA.GetInt(off + edgeFieldDist)
		flags := s.edgesDA.GetInt(off + edgeFieldFlags)

		flip := (updatedA < updatedB) != (nodeA < nodeB)
		s.writeEdge(e, updatedA, updatedB, linkA, linkB, distQ, flags)

		if flip {
			geoRef := s.edgesDA.GetInt(off + edgeFieldGeoRef)
			if geoRef != 0 {
				pillars := s.rawPillars(geoRef)
				s.SetWayGeometry(reversedPoints(pillars), e, false)
			}
		}
	}

	// Step 8: finalize.
	s.nodeCount -= k
	s.removed.Clear()
	return nil
}

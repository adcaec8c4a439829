package manifold

// connectEdges is the one pass of §4.6: for every directed edge (u,v) of
// every ring, record (u,v) -> ringIndex. A directed edge is shared iff its
// reverse is also present in the map.
func (m *Manifold) connectEdges() {
	for ringIdx, ring := range m.rings {
		for i := 0; i < ring.Count; i++ {
			u, v := ring.Edge(i)
			m.edgeToRing[EdgeKey{U: u, V: v}] = int32(ringIdx)
		}
	}
}

// IsSharedEdge reports whether the directed edge (u,v) and its reverse (v,u)
// are both present in the connectivity index (§4.6, §6). Requires
// StateComplete, returning ErrNotReady otherwise (§5, §7).
func (m *Manifold) IsSharedEdge(u, v int32) (bool, error) {
	if err := m.requireComplete(); err != nil {
		return false, err
	}
	if _, ok := m.edgeToRing[EdgeKey{U: u, V: v}]; !ok {
		return false, nil
	}
	_, ok := m.edgeToRing[EdgeKey{U: v, V: u}]
	return ok, nil
}

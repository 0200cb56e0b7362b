package engine

import "fmt"

// ColonyMap is the spatial/logical map: nodes clustered into groups, an
// undirected adjacency graph over groups, and per-node occupation.
//
// Group node slices and GroupOrder fix every iteration the resolution
// algorithm depends on: ties between stockpiles and candidate scans resolve
// to the earliest node in its group slice, which scenario construction keeps
// in ascending node ID. This order is part of the engine's contract.
type ColonyMap struct {
	Nodes      []NodeID             `json:"nodes"`
	GroupOrder []GroupID            `json:"group_order"`
	Groups     map[GroupID][]NodeID `json:"groups"`
	Edges      [][2]GroupID         `json:"edges"`
	Positions  map[NodeID]Position  `json:"positions"`
	Occupation map[NodeID]*Occupant `json:"occupation"`
}

// Allocation is one record of AddResource's distribution: the node that
// received resource, its resulting amount, and the amount added.
type Allocation struct {
	Node   NodeID `json:"node"`
	Amount int    `json:"amount"`
	Delta  int    `json:"delta"`
}

// GroupOf returns the group containing node. Every node is assigned to
// exactly one group at construction time; an unassigned node is a caller
// bug and panics.
func (m *ColonyMap) GroupOf(node NodeID) GroupID {
	for _, gid := range m.GroupOrder {
		for _, nid := range m.Groups[gid] {
			if nid == node {
				return gid
			}
		}
	}
	panic(fmt.Sprintf("engine: node %d belongs to no group", node))
}

// Neighbors returns all groups connected to group by an edge. The edge set
// is undirected; both orientations are matched.
func (m *ColonyMap) Neighbors(group GroupID) []GroupID {
	var out []GroupID
	for _, edge := range m.Edges {
		if edge[0] == group {
			out = append(out, edge[1])
		} else if edge[1] == group {
			out = append(out, edge[0])
		}
	}
	return out
}

// IsNeighbor reports whether a and b share an edge.
func (m *ColonyMap) IsNeighbor(a, b GroupID) bool {
	for _, gid := range m.Neighbors(a) {
		if gid == b {
			return true
		}
	}
	return false
}

// Reachable reports whether to can be reached from from over the adjacency
// graph. A group is always reachable from itself.
func (m *ColonyMap) Reachable(from, to GroupID) bool {
	if from == to {
		return true
	}
	seen := map[GroupID]bool{from: true}
	queue := []GroupID{from}
	for len(queue) > 0 {
		current := queue[0]
		queue = queue[1:]
		for _, next := range m.Neighbors(current) {
			if next == to {
				return true
			}
			if !seen[next] {
				seen[next] = true
				queue = append(queue, next)
			}
		}
	}
	return false
}

// PooledBunch sums the stockpile occupants of every node in group into one
// bunch. Constructions contribute nothing.
func (m *ColonyMap) PooledBunch(group GroupID) Bunch {
	pooled := Bunch{}
	for _, nid := range m.Groups[group] {
		if occ := m.Occupation[nid]; occ.IsStockpile() {
			pooled = pooled.Add(Single(occ.Resource, occ.Amount))
		}
	}
	return pooled
}

// LowestStockpile returns the node in group holding the smallest stockpile
// of kind, ties broken by group node order. Callers must have confirmed the
// pooled bunch holds the kind; calling without one present is a bug and
// panics.
func (m *ColonyMap) LowestStockpile(group GroupID, kind ResourceKind) NodeID {
	found := false
	var lowest NodeID
	lowestAmount := 0
	for _, nid := range m.Groups[group] {
		occ := m.Occupation[nid]
		if !occ.IsStockpile() || occ.Resource != kind {
			continue
		}
		if !found || occ.Amount < lowestAmount {
			found = true
			lowest = nid
			lowestAmount = occ.Amount
		}
	}
	if !found {
		panic(fmt.Sprintf("engine: group %d has no stockpile of %s", group, kind))
	}
	return lowest
}

// SetOccupant overwrites the occupant at node. No validation is performed;
// callers are responsible for not double-placing. A nil occupant clears the
// node.
func (m *ColonyMap) SetOccupant(node NodeID, occ *Occupant) {
	if occ == nil {
		delete(m.Occupation, node)
		return
	}
	m.Occupation[node] = occ
}

// OccupantAt returns the occupant at node, nil when empty.
func (m *ColonyMap) OccupantAt(node NodeID) *Occupant {
	return m.Occupation[node]
}

// AddResource distributes amount of kind into group and returns the ordered
// allocation records.
//
// The policy is load-bearing for game balance: up to MaxAddPasses passes, top
// up the largest existing stockpile of the kind below MaxStockpile (ties to
// the earliest node in group order). When no such stockpile remains, place
// the entire remainder into the first empty node in one uncapped record.
// When the group has neither, the remainder is silently discarded.
func (m *ColonyMap) AddResource(group GroupID, kind ResourceKind, amount int) []Allocation {
	var allocations []Allocation
	left := amount
	for i := 0; i < MaxAddPasses; i++ {
		if left <= 0 {
			break
		}

		if nid, ok := m.highestFillableStockpile(group, kind); ok {
			occ := m.Occupation[nid]
			clamped := left
			if room := MaxStockpile - occ.Amount; clamped > room {
				clamped = room
			}
			occ.Amount += clamped
			left -= clamped
			allocations = append(allocations, Allocation{Node: nid, Amount: occ.Amount, Delta: clamped})
			continue
		}

		if nid, ok := m.firstEmptyNode(group); ok {
			// Overflow path: the whole remainder lands uncapped in one
			// record, exceeding MaxStockpile when left > 100.
			m.Occupation[nid] = NewStockpile(kind, left)
			allocations = append(allocations, Allocation{Node: nid, Amount: left, Delta: left})
		}
		// No stockpile with room and no empty node: the rest is lost.
		left = 0
	}
	return allocations
}

// highestFillableStockpile finds the node in group holding the largest
// stockpile of kind with room left, ties to the earliest node.
func (m *ColonyMap) highestFillableStockpile(group GroupID, kind ResourceKind) (NodeID, bool) {
	found := false
	var highest NodeID
	highestAmount := 0
	for _, nid := range m.Groups[group] {
		occ := m.Occupation[nid]
		if !occ.IsStockpile() || occ.Resource != kind || occ.Amount >= MaxStockpile {
			continue
		}
		if !found || occ.Amount > highestAmount {
			found = true
			highest = nid
			highestAmount = occ.Amount
		}
	}
	return highest, found
}

// firstEmptyNode finds the first unoccupied node in group order.
func (m *ColonyMap) firstEmptyNode(group GroupID) (NodeID, bool) {
	for _, nid := range m.Groups[group] {
		if m.Occupation[nid] == nil {
			return nid, true
		}
	}
	return 0, false
}

// Relocate rewires the adjacency graph so group is adjacent only to
// newNeighbor: all edges touching group are removed and one (group,
// newNeighbor) edge is added. The operation is total and idempotent.
func (m *ColonyMap) Relocate(group, newNeighbor GroupID) {
	kept := m.Edges[:0]
	for _, edge := range m.Edges {
		if edge[0] != group && edge[1] != group {
			kept = append(kept, edge)
		}
	}
	m.Edges = append(kept, [2]GroupID{group, newNeighbor})
}

// Clone returns a deep copy of the map.
func (m *ColonyMap) Clone() *ColonyMap {
	out := &ColonyMap{
		Nodes:      append([]NodeID(nil), m.Nodes...),
		GroupOrder: append([]GroupID(nil), m.GroupOrder...),
		Groups:     make(map[GroupID][]NodeID, len(m.Groups)),
		Edges:      append([][2]GroupID(nil), m.Edges...),
		Positions:  make(map[NodeID]Position, len(m.Positions)),
		Occupation: make(map[NodeID]*Occupant, len(m.Occupation)),
	}
	for gid, nodes := range m.Groups {
		out.Groups[gid] = append([]NodeID(nil), nodes...)
	}
	for nid, pos := range m.Positions {
		out.Positions[nid] = pos
	}
	for nid, occ := range m.Occupation {
		copied := *occ
		out.Occupation[nid] = &copied
	}
	return out
}

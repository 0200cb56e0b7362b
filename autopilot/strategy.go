package main

import (
	"log"
	"sort"
)

// Action is one queued request against the colony API.
type Action struct {
	Type   string // "build", "demolish", "transfer", "plan_travel"
	Node   int
	Kind   string
	From   int
	To     int
	Amount int
	Dest   int
}

var buildCosts = map[string]int{
	"solar_field":      5,
	"hydroponics_farm": 8,
	"material_mine":    10,
	"fuel_refinery":    12,
	"fusion_plant":     20,
}

// Strategy plans a full production chain in the home sector and ferries
// every outlying stockpile toward it.
type Strategy struct {
	// Build order for the home sector. Power first, then food so the
	// colony stops bleeding its starting rations, then the chain up to
	// fusion fuel. Later entries only happen once material piles up.
	wishlist []string

	lastLoggedTurn int
}

func NewStrategy() *Strategy {
	return &Strategy{
		wishlist: []string{
			"solar_field",
			"hydroponics_farm",
			"material_mine",
			"solar_field",
			"fuel_refinery",
			"solar_field",
			"material_mine",
			"fusion_plant",
		},
		lastLoggedTurn: -1,
	}
}

// PlanActions inspects the current state and returns the requests to fire
// before ending the turn. Builds are listed first so piles ferried home do
// not steal the empty nodes a construction needs.
func (s *Strategy) PlanActions(state *GameState) []Action {
	if state == nil || state.Map == nil {
		return nil
	}
	home := state.Ship.Home
	var actions []Action

	if build, ok := s.nextBuild(state, home); ok {
		actions = append(actions, build)
	}
	actions = append(actions, s.planFerries(state, home, len(actions))...)

	if state.Turn != s.lastLoggedTurn && len(actions) > 0 {
		s.lastLoggedTurn = state.Turn
		log.Printf("turn %d: planned %d actions (home pool %v)",
			state.Turn, len(actions), pooled(state.Map, home))
	}
	return actions
}

// nextBuild walks the wishlist past what already stands in the home sector
// and returns a build request once material covers the next entry.
func (s *Strategy) nextBuild(state *GameState, home int) (Action, bool) {
	counts := make(map[string]int)
	for _, node := range state.Map.Groups[home] {
		occ := state.Map.Occupation[node]
		if occ != nil && occ.Type == "construction" {
			counts[occ.Construction]++
		}
	}

	var want string
	for _, kind := range s.wishlist {
		if counts[kind] > 0 {
			counts[kind]--
			continue
		}
		want = kind
		break
	}
	if want == "" {
		return Action{}, false
	}

	pool := pooled(state.Map, home)
	if pool["material"] < buildCosts[want] {
		return Action{}, false
	}
	node, ok := firstEmptyNode(state.Map, home)
	if !ok {
		return Action{}, false
	}
	return Action{Type: "build", Node: node, Kind: want}, true
}

// planFerries moves outlying stockpiles into the home sector. Power stays
// where it is since the solar fields regenerate it every turn anyway.
// reservedEmpties keeps ferry targets off the nodes a planned build will use.
func (s *Strategy) planFerries(state *GameState, home int, reservedEmpties int) []Action {
	m := state.Map
	homeNodes := m.Groups[home]

	// Destination bookkeeping so several ferries this turn do not all aim
	// at the same node. Tracks projected fill per home node.
	fill := make(map[int]int)
	kindAt := make(map[int]string)
	var empties []int
	for _, node := range homeNodes {
		occ := m.Occupation[node]
		switch {
		case occ == nil:
			empties = append(empties, node)
		case occ.Type == "stockpile":
			fill[node] = occ.Amount
			kindAt[node] = occ.Resource
		}
	}
	sort.Ints(empties)
	if reservedEmpties > len(empties) {
		reservedEmpties = len(empties)
	}
	empties = empties[reservedEmpties:]

	var actions []Action
	for _, group := range m.GroupOrder {
		if group == home || !reachable(m, group, home) {
			continue
		}
		for _, node := range m.Groups[group] {
			occ := m.Occupation[node]
			if occ == nil || occ.Type != "stockpile" || occ.Resource == "power" {
				continue
			}
			dest, room := pickDest(occ.Resource, homeNodes, fill, kindAt, &empties)
			if dest < 0 {
				continue
			}
			amount := occ.Amount
			if amount > room {
				amount = room
			}
			fill[dest] += amount
			kindAt[dest] = occ.Resource
			actions = append(actions, Action{Type: "transfer", From: node, To: dest, Amount: amount})
		}
	}
	return actions
}

// pickDest prefers topping up an existing pile of the same kind, then
// claims an empty home node. Returns -1 when the home sector is full.
func pickDest(resource string, homeNodes []int, fill map[int]int, kindAt map[int]string, empties *[]int) (int, int) {
	for _, node := range homeNodes {
		if kindAt[node] == resource && fill[node] < maxStockpile {
			return node, maxStockpile - fill[node]
		}
	}
	if len(*empties) == 0 {
		return -1, 0
	}
	node := (*empties)[0]
	*empties = (*empties)[1:]
	return node, maxStockpile
}

const maxStockpile = 100

func firstEmptyNode(m *ColonyMap, group int) (int, bool) {
	for _, node := range m.Groups[group] {
		if m.Occupation[node] == nil {
			return node, true
		}
	}
	return 0, false
}

func reachable(m *ColonyMap, from, to int) bool {
	if from == to {
		return true
	}
	seen := map[int]bool{from: true}
	queue := []int{from}
	for len(queue) > 0 {
		current := queue[0]
		queue = queue[1:]
		for _, edge := range m.Edges {
			var next int
			switch current {
			case edge[0]:
				next = edge[1]
			case edge[1]:
				next = edge[0]
			default:
				continue
			}
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

// pooled sums stockpile amounts per resource across a sector's nodes.
func pooled(m *ColonyMap, group int) map[string]int {
	totals := make(map[string]int)
	for _, node := range m.Groups[group] {
		occ := m.Occupation[node]
		if occ != nil && occ.Type == "stockpile" {
			totals[occ.Resource] += occ.Amount
		}
	}
	return totals
}

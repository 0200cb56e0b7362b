package engine

import (
	"errors"
	"fmt"
)

var (
	// ErrPlaybackBusy signals that an end-turn was dropped because the
	// previous turn's action log has not been acknowledged as drained.
	ErrPlaybackBusy = errors.New("previous turn's action log not drained")

	// ErrGameOver signals that the run is in a terminal state and needs an
	// external reset.
	ErrGameOver = errors.New("run is in a terminal state")

	ErrNodeOccupied     = errors.New("node is already occupied")
	ErrNodeEmpty        = errors.New("node has no occupant")
	ErrNotStockpile     = errors.New("node does not hold a stockpile")
	ErrUnknownKind      = errors.New("unknown construction kind")
	ErrInsufficientCost = errors.New("group pool does not cover the build cost")
	ErrNotReachable     = errors.New("groups are not travel-reachable")
	ErrNotNeighbor      = errors.New("destination is not a neighbor group")
	ErrKindMismatch     = errors.New("destination stockpile holds a different resource")
)

// Engine owns the complete simulation state for one colony run: map, ship,
// turn counter, status, and the pending action log. All entry points take
// the engine by pointer; there is no ambient global state.
type Engine struct {
	cfg   *ScenarioConfig
	state *GameState
}

// NewEngine creates a new engine from a validated scenario.
func NewEngine(cfg *ScenarioConfig) (*Engine, error) {
	if err := ValidateScenario(cfg); err != nil {
		return nil, err
	}
	e := &Engine{cfg: cfg}
	e.state = e.initialState()
	return e, nil
}

// NewEngineWithDefaults creates an engine running the built-in scenario.
func NewEngineWithDefaults() *Engine {
	e, err := NewEngine(DefaultScenario())
	if err != nil {
		// The built-in scenario always validates.
		panic(err)
	}
	return e
}

func (e *Engine) initialState() *GameState {
	return &GameState{
		Turn: 0,
		Map:  buildMap(e.cfg),
		Ship: Ship{
			Current: e.cfg.ShipGroup,
			Home:    e.cfg.HomeGroup,
		},
		Status:       StatusPlaying,
		Message:      e.cfg.Messages.Welcome,
		PendingLog:   []ActionEntry{},
		TurnHistory:  []TurnSummary{},
		ScenarioName: e.cfg.Name,
	}
}

// State returns the current game state.
func (e *Engine) State() *GameState {
	return e.state
}

// Config returns the scenario the engine runs.
func (e *Engine) Config() *ScenarioConfig {
	return e.cfg
}

// Reset returns the engine to the scenario's initial state, clearing any
// terminal status. The cumulative turn history survives the reset.
func (e *Engine) Reset() *GameState {
	prevHistory := e.state.TurnHistory
	e.state = e.initialState()
	e.state.TurnHistory = prevHistory
	return e.state
}

// SetState replaces the engine's state wholesale. It restores a persisted
// run; the caller must pass a state produced under the same scenario.
func (e *Engine) SetState(state *GameState) error {
	if state == nil || state.Map == nil {
		return errors.New("state must carry a colony map")
	}
	if state.PendingLog == nil {
		state.PendingLog = []ActionEntry{}
	}
	if state.TurnHistory == nil {
		state.TurnHistory = []TurnSummary{}
	}
	e.state = state
	return nil
}

// Turn returns the current turn counter.
func (e *Engine) Turn() int {
	return e.state.Turn
}

// Status returns the run status.
func (e *Engine) Status() GameStatus {
	return e.state.Status
}

// ShipState returns the ship.
func (e *Engine) ShipState() Ship {
	return e.state.Ship
}

// PooledBunch returns the pooled bunch of group.
func (e *Engine) PooledBunch(group GroupID) Bunch {
	return e.state.Map.PooledBunch(group)
}

// OccupantAt returns the occupant at node, nil when empty.
func (e *Engine) OccupantAt(node NodeID) *Occupant {
	return e.state.Map.OccupantAt(node)
}

// GroupOf returns the group containing node.
func (e *Engine) GroupOf(node NodeID) GroupID {
	return e.state.Map.GroupOf(node)
}

// Neighbors returns the groups adjacent to group.
func (e *Engine) Neighbors(group GroupID) []GroupID {
	return e.state.Map.Neighbors(group)
}

// PlaybackPending reports whether the last turn's log awaits acknowledgment.
func (e *Engine) PlaybackPending() bool {
	return len(e.state.PendingLog) > 0
}

// PendingActions returns the unacknowledged action log.
func (e *Engine) PendingActions() []ActionEntry {
	return e.state.PendingLog
}

// AckPlayback marks the pending action log as drained, re-arming the
// end-turn gate. Playback never feeds back into simulation state.
func (e *Engine) AckPlayback() {
	e.state.PendingLog = []ActionEntry{}
}

// TurnHistoryEntries returns the cumulative turn history.
func (e *Engine) TurnHistoryEntries() []TurnSummary {
	return e.state.TurnHistory
}

// Build places a construction of kind at an empty node, consuming its build
// cost from the node's group under the same lowest-stockpile policy the
// resolution loop uses. The emitted consume entries are returned for
// immediate display; they do not enter the turn action log.
func (e *Engine) Build(node NodeID, kind ConstructionKind) ([]ActionEntry, error) {
	if e.state.Status != StatusPlaying {
		return nil, ErrGameOver
	}
	desc, ok := Describe(kind)
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownKind, kind)
	}
	if e.state.Map.OccupantAt(node) != nil {
		return nil, fmt.Errorf("%w: node %d", ErrNodeOccupied, node)
	}
	group := e.state.Map.GroupOf(node)
	if !e.state.Map.PooledBunch(group).Contains(desc.BuildCost) {
		return nil, fmt.Errorf("%w: %s at node %d", ErrInsufficientCost, kind, node)
	}

	log := e.consumeBunch(group, node, desc.BuildCost)
	e.state.Map.SetOccupant(node, NewConstruction(kind))
	return log, nil
}

// Demolish removes the occupant at node. The contents of a demolished
// stockpile are lost.
func (e *Engine) Demolish(node NodeID) error {
	if e.state.Status != StatusPlaying {
		return ErrGameOver
	}
	if e.state.Map.OccupantAt(node) == nil {
		return fmt.Errorf("%w: node %d", ErrNodeEmpty, node)
	}
	e.state.Map.SetOccupant(node, nil)
	return nil
}

// Transfer relocates up to amount units from the stockpile at from into to.
// The two nodes' groups must be travel-reachable. The destination must be
// empty or hold a stockpile of the same kind; it is capped at MaxStockpile,
// so the transfer splits when the full amount does not fit. Returns the
// consume/produce entry pair describing the committed move.
func (e *Engine) Transfer(from, to NodeID, amount int) ([]ActionEntry, error) {
	if e.state.Status != StatusPlaying {
		return nil, ErrGameOver
	}
	if amount <= 0 {
		return nil, fmt.Errorf("transfer amount must be positive, got %d", amount)
	}
	source := e.state.Map.OccupantAt(from)
	if !source.IsStockpile() {
		return nil, fmt.Errorf("%w: node %d", ErrNotStockpile, from)
	}
	fromGroup := e.state.Map.GroupOf(from)
	toGroup := e.state.Map.GroupOf(to)
	if !e.state.Map.Reachable(fromGroup, toGroup) {
		return nil, fmt.Errorf("%w: %d and %d", ErrNotReachable, fromGroup, toGroup)
	}

	dest := e.state.Map.OccupantAt(to)
	destAmount := 0
	switch {
	case dest == nil:
	case dest.IsStockpile() && dest.Resource == source.Resource:
		destAmount = dest.Amount
	case dest.IsStockpile():
		return nil, fmt.Errorf("%w: node %d holds %s", ErrKindMismatch, to, dest.Resource)
	default:
		return nil, fmt.Errorf("%w: node %d", ErrNodeOccupied, to)
	}

	moved := amount
	if moved > source.Amount {
		moved = source.Amount
	}
	if room := MaxStockpile - destAmount; moved > room {
		moved = room
	}
	if moved <= 0 {
		return nil, fmt.Errorf("destination node %d is full", to)
	}

	source.Amount -= moved
	sourceLeft := source.Amount
	if source.Amount == 0 {
		e.state.Map.SetOccupant(from, nil)
	}
	if dest == nil {
		e.state.Map.SetOccupant(to, NewStockpile(source.Resource, moved))
	} else {
		dest.Amount += moved
	}

	return []ActionEntry{
		{Type: ActionConsume, From: from, To: to, Resource: source.Resource, Amount: sourceLeft, Delta: -moved},
		{Type: ActionProduce, From: from, To: to, Resource: source.Resource, Amount: destAmount + moved, Delta: moved},
	}, nil
}

// PlanTravel sets the ship's planned destination. The destination must be a
// neighbor of the ship's current group. The plan is consumed (and cleared)
// by the next end-turn.
func (e *Engine) PlanTravel(dest GroupID) error {
	if e.state.Status != StatusPlaying {
		return ErrGameOver
	}
	if !e.state.Map.IsNeighbor(e.state.Ship.Current, dest) {
		return fmt.Errorf("%w: %d from %d", ErrNotNeighbor, dest, e.state.Ship.Current)
	}
	e.state.Ship.Planned = &dest
	return nil
}

// consumeBunch drains cost from group's stockpiles, lowest pile of each kind
// first, emitting one consume entry per drained pile. The entry's Amount is
// the post-subtraction amount at the source and Delta the full requested
// amount for the kind, matching the resolution loop's convention. Callers
// must have verified the pooled bunch contains cost.
func (e *Engine) consumeBunch(group GroupID, to NodeID, cost Bunch) []ActionEntry {
	var log []ActionEntry
	for _, kind := range ResourceKinds() {
		requested := cost.Get(kind)
		if requested == 0 {
			continue
		}
		left := requested
		for i := 0; i < MaxConsumeIters; i++ {
			if left == 0 {
				break
			}
			nid := e.state.Map.LowestStockpile(group, kind)
			occ := e.state.Map.OccupantAt(nid)
			clamped := left
			if clamped > occ.Amount {
				clamped = occ.Amount
			}
			occ.Amount -= clamped
			left -= clamped
			log = append(log, ActionEntry{
				Type:     ActionConsume,
				From:     nid,
				To:       to,
				Resource: kind,
				Amount:   occ.Amount,
				Delta:    requested,
			})
			if occ.Amount == 0 {
				e.state.Map.SetOccupant(nid, nil)
			}
		}
	}
	return log
}

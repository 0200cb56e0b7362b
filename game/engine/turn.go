package engine

import "time"

// TurnResult is the outcome of one resolved end-turn: the ordered action log
// and the resulting run status.
type TurnResult struct {
	Turn    int           `json:"turn"`
	Actions []ActionEntry `json:"actions"`
	Status  GameStatus    `json:"status"`
	Message string        `json:"message"`
}

// candidate is one construction eligible to run this turn.
type candidate struct {
	node NodeID
	kind ConstructionKind
}

// EndTurn resolves one turn. The signal is dropped with ErrPlaybackBusy
// while the previous turn's log is undrained and with ErrGameOver once the
// run is terminal. Resolution is synchronous and deterministic: cooldowns
// tick down, satisfiable constructions consume and produce under the
// stockpile-selection policy, the survival and victory conditions are
// evaluated, and the travel step runs exactly once. The accumulated action
// log becomes the pending log and is returned in commit order.
func (e *Engine) EndTurn() (*TurnResult, error) {
	if e.state.Status != StatusPlaying {
		return nil, ErrGameOver
	}
	if e.PlaybackPending() {
		return nil, ErrPlaybackBusy
	}

	e.state.Turn++
	var log []ActionEntry

	// Cooldowns tick before candidates are collected, so a construction
	// built with cooldown 1 runs on the next end-turn.
	for _, nid := range e.state.Map.Nodes {
		if occ := e.state.Map.Occupation[nid]; occ.IsConstruction() && occ.Cooldown > 0 {
			occ.Cooldown--
		}
	}

	// Candidate order is node order, ascending node ID per scenario
	// construction. This order is the documented tie-break for which of two
	// equally satisfiable constructions runs first.
	var candidates []candidate
	for _, nid := range e.state.Map.Nodes {
		if occ := e.state.Map.Occupation[nid]; occ.IsConstruction() && occ.Cooldown <= 0 {
			candidates = append(candidates, candidate{node: nid, kind: occ.Construction})
		}
	}

	log = append(log, e.resolveProduction(candidates)...)
	log = append(log, e.evaluateSurvival()...)
	if e.state.Status == StatusPlaying {
		log = append(log, e.travelStep()...)
	}
	// The plan is consumed every turn whether or not a move executed.
	e.state.Ship.Planned = nil

	e.state.PendingLog = append([]ActionEntry{}, log...)
	e.state.TurnHistory = append(e.state.TurnHistory, TurnSummary{
		Turn:      e.state.Turn,
		Actions:   len(log),
		Status:    e.state.Status,
		Timestamp: time.Now().Unix(),
	})

	return &TurnResult{
		Turn:    e.state.Turn,
		Actions: e.state.PendingLog,
		Status:  e.state.Status,
		Message: e.state.Message,
	}, nil
}

// resolveProduction runs the bounded resolution loop: repeatedly select the
// first candidate whose group pool contains its request bunch, reset its
// cooldown, consume its requests, distribute its produce, and retire it.
// When no candidate is satisfiable the rest are production-starved and the
// loop ends. Saturating the iteration bound truncates silently.
func (e *Engine) resolveProduction(candidates []candidate) []ActionEntry {
	var log []ActionEntry
	for i := 0; i < MaxTurnIters; i++ {
		selected := -1
		for idx, cand := range candidates {
			desc, ok := Describe(cand.kind)
			if !ok {
				continue
			}
			group := e.state.Map.GroupOf(cand.node)
			if e.state.Map.PooledBunch(group).Contains(desc.Requests) {
				selected = idx
				break
			}
		}
		if selected < 0 {
			break
		}

		cand := candidates[selected]
		desc, _ := Describe(cand.kind)
		group := e.state.Map.GroupOf(cand.node)

		if occ := e.state.Map.Occupation[cand.node]; occ.IsConstruction() {
			occ.Cooldown = desc.Cooldown
		}

		log = append(log, e.consumeBunch(group, cand.node, desc.Requests)...)

		for _, kind := range ResourceKinds() {
			produced := desc.Produces.Get(kind)
			if produced == 0 {
				continue
			}
			for _, alloc := range e.state.Map.AddResource(group, kind, produced) {
				log = append(log, ActionEntry{
					Type:     ActionProduce,
					From:     cand.node,
					To:       alloc.Node,
					Resource: kind,
					Amount:   alloc.Amount,
					Delta:    alloc.Delta,
				})
			}
		}

		candidates = append(candidates[:selected], candidates[selected+1:]...)
	}
	return log
}

// evaluateSurvival consumes one unit of the survival resource from the home
// group and checks the terminal conditions. A home group with no survival
// stockpile loses immediately; a home pool strictly exceeding every win
// threshold wins.
func (e *Engine) evaluateSurvival() []ActionEntry {
	home := e.state.Ship.Home
	pooled := e.state.Map.PooledBunch(home)

	if pooled.Get(e.cfg.SurvivalResource) < 1 {
		e.state.Status = StatusLost
		e.state.Message = e.cfg.Messages.Defeat
		return nil
	}

	nid := e.state.Map.LowestStockpile(home, e.cfg.SurvivalResource)
	occ := e.state.Map.OccupantAt(nid)
	occ.Amount--
	entry := ActionEntry{
		Type:     ActionConsume,
		From:     nid,
		To:       nid,
		Resource: e.cfg.SurvivalResource,
		Amount:   occ.Amount,
		Delta:    -1,
	}
	if occ.Amount == 0 {
		e.state.Map.SetOccupant(nid, nil)
	}

	pooled = e.state.Map.PooledBunch(home)
	won := true
	for kind, threshold := range e.cfg.WinThresholds {
		if pooled.Get(kind) <= threshold {
			won = false
			break
		}
	}
	if won {
		e.state.Status = StatusWon
		e.state.Message = e.cfg.Messages.Victory
	}

	return []ActionEntry{entry}
}

// travelStep executes a planned relocation when fuel allows: one unit of
// fuel is drained from the home group, the ship moves, and the home group's
// adjacency is rewritten to track the destination. Without a plan or fuel,
// nothing moves.
func (e *Engine) travelStep() []ActionEntry {
	ship := &e.state.Ship
	if ship.Planned == nil || *ship.Planned == ship.Current {
		return nil
	}
	dest := *ship.Planned

	home := ship.Home
	if e.state.Map.PooledBunch(home).Get(e.cfg.FuelResource) < 1 {
		return nil
	}

	nid := e.state.Map.LowestStockpile(home, e.cfg.FuelResource)
	occ := e.state.Map.OccupantAt(nid)
	occ.Amount--
	log := []ActionEntry{{
		Type:     ActionConsume,
		From:     nid,
		To:       nid,
		Resource: e.cfg.FuelResource,
		Amount:   occ.Amount,
		Delta:    -1,
	}}
	if occ.Amount == 0 {
		e.state.Map.SetOccupant(nid, nil)
	}

	log = append(log, ActionEntry{
		Type:      ActionShipMove,
		FromGroup: ship.Current,
		ToGroup:   dest,
	})
	ship.Current = dest
	e.state.Map.Relocate(home, dest)
	return log
}

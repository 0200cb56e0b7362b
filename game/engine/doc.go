// Package engine implements the colony economy and turn-resolution core.
//
// The engine package implements the simulation mechanics including:
//   - The resource bunch algebra (pointwise sums and containment)
//   - The static construction catalog (costs, cycles, cooldowns)
//   - The colony map: nodes, sector groups, adjacency edges, occupation
//   - Deterministic turn resolution with an ordered action log
//   - Ship travel with fuel consumption and adjacency rewiring
//   - The survival/victory evaluator
//
// Core Types:
//
// Engine owns all state for one run and is the only mutation surface.
// GameState is the observable state, ScenarioConfig the setup loaded from
// JSON or YAML scenario files, and ActionEntry one committed micro-mutation
// in the per-turn action log.
//
// Usage:
//
//	cfg, err := engine.LoadScenarioFile("configs/first_landing.json")
//	if err != nil {
//		log.Fatal(err)
//	}
//
//	eng, err := engine.NewEngine(cfg)
//	if err != nil {
//		log.Fatal(err)
//	}
//
//	result, err := eng.EndTurn()
//	// ... hand result.Actions to the display layer, then:
//	eng.AckPlayback()
//
// Determinism:
//
// Resolution is fully deterministic. Every selection among equals (candidate
// scan, lowest/highest stockpile, empty-slot placement) resolves to the
// earliest node in its group's node slice, which scenarios declare in
// ascending node ID. Request and produce bunches are walked in the fixed
// ResourceKinds order. The bounded loops (16 distribution passes, 10,000
// resolution and consumption iterations) are hard caps that truncate
// silently when saturated.
//
// Concurrency:
//
// The engine is single-threaded and turn-synchronous. The one scheduling
// concern is the playback gate: EndTurn drops the signal while the previous
// turn's action log has not been acknowledged via AckPlayback. Hosts that
// parallelize rendering or input must serialize all calls into the engine.
package engine

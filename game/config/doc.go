// Package config provides scenario management for the colony simulation.
//
// The config package handles:
//   - Loading scenario files from JSON and YAML
//   - Scenario validation and verification
//   - Default scenario selection
//   - Scenario discovery and listing
//
// Scenario Format:
//
// Scenarios are stored as .json, .yaml, or .yml files in the configs
// directory. Each scenario defines:
//   - Sectors (node groups) and the adjacency edges between them
//   - The home and ship starting sectors
//   - The survival and travel fuel resources
//   - Win thresholds per resource and starting occupants
//   - Messages surfaced on welcome, victory, and defeat
//
// Usage:
//
//	manager, err := config.NewManager("configs")
//	if err != nil {
//		log.Fatal(err)
//	}
//
//	// Load a specific scenario
//	scenario, err := manager.LoadScenario("first_landing")
//	if err != nil {
//		log.Fatal(err)
//	}
//
//	// Get the default scenario
//	defaultScenario := manager.GetDefault()
//
//	// List available scenarios
//	scenarios, err := manager.ListScenarios()
//
// Validation:
//
// All scenarios are validated for:
//   - Unique group and node identifiers
//   - Edges referencing declared groups only
//   - Known resource and construction kinds
//   - Starting stockpile amounts within the per-node cap
//   - Non-empty, positive win thresholds
package config

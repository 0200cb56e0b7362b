// Command validate provides a small CLI that validates scenario files in the
// ../configs directory. It checks:
//   - JSON/YAML structure and the engine's scenario rules (unique IDs, known
//     resources and constructions, sane edges and thresholds)
//   - Presence of the welcome, victory, and defeat messages
//   - Survival stock: the colony must start with the survival resource on hand
//   - Power budget: starting consumers must not outstrip starting solar output
//   - Trivial wins: no threshold may already be beaten by the starting stock
package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/jacopograndi/ld54/game/engine"
)

// ValidationResult captures the outcome of validating a single file.
// If Valid is true, Errors contains informational messages; otherwise it
// accumulates the validation errors that were found.
type ValidationResult struct {
	File   string
	Valid  bool
	Errors []string
}

// validateScenario loads and validates a single scenario file. The engine
// loader enforces the structural rules; the checks here catch authoring
// mistakes the engine tolerates but that make a scenario unplayable or
// trivially won.
func validateScenario(filePath string) ValidationResult {
	result := ValidationResult{
		File:   filepath.Base(filePath),
		Valid:  true,
		Errors: []string{},
	}

	cfg, err := engine.LoadScenarioFile(filePath)
	if err != nil {
		result.Valid = false
		result.Errors = append(result.Errors, err.Error())
		return result
	}

	// Validate messages
	if cfg.Messages.Welcome == "" {
		result.Valid = false
		result.Errors = append(result.Errors, "Missing required message: welcome")
	}
	if cfg.Messages.Victory == "" {
		result.Valid = false
		result.Errors = append(result.Errors, "Missing required message: victory")
	}
	if cfg.Messages.Defeat == "" {
		result.Valid = false
		result.Errors = append(result.Errors, "Missing required message: defeat")
	}

	// Aggregate the starting economy
	stock := engine.Bunch{}
	constructions := make(map[engine.ConstructionKind]int)
	for _, start := range cfg.Start {
		if start.Resource != "" {
			stock = stock.Add(engine.Single(start.Resource, start.Amount))
		}
		if start.Construction != "" {
			constructions[start.Construction]++
		}
	}

	// Survival stock: the upkeep on turn 1 needs something to consume
	if stock.Get(cfg.SurvivalResource) == 0 {
		result.Valid = false
		result.Errors = append(result.Errors, fmt.Sprintf("No starting %s: the colony is lost on turn 1", cfg.SurvivalResource))
	}

	// Power budget across starting constructions
	supply, demand := 0, 0
	for kind, count := range constructions {
		desc, ok := engine.Describe(kind)
		if !ok {
			continue
		}
		supply += desc.Produces.Get(engine.Power) * count
		demand += desc.Requests.Get(engine.Power) * count
	}
	if demand > supply {
		result.Valid = false
		result.Errors = append(result.Errors, fmt.Sprintf("Power demand %d exceeds starting supply %d", demand, supply))
	}

	// Trivial wins: winning requires strictly exceeding every threshold,
	// so a starting stock already past one leaves nothing to play for
	for kind, threshold := range cfg.WinThresholds {
		if stock.Get(kind) > threshold {
			result.Valid = false
			result.Errors = append(result.Errors, fmt.Sprintf("Starting %s (%d) already beats the win threshold (%d)", kind, stock.Get(kind), threshold))
		}
	}

	// Add informational data
	if result.Valid {
		nodeCount := 0
		for _, group := range cfg.Groups {
			nodeCount += len(group.Nodes)
		}
		result.Errors = append(result.Errors, fmt.Sprintf("✓ Name: %s", cfg.Name))
		result.Errors = append(result.Errors, fmt.Sprintf("✓ Sectors: %d, nodes: %d, links: %d", len(cfg.Groups), nodeCount, len(cfg.Edges)))
		result.Errors = append(result.Errors, fmt.Sprintf("✓ Home sector: %d, ship sector: %d", cfg.HomeGroup, cfg.ShipGroup))
		result.Errors = append(result.Errors, fmt.Sprintf("✓ Survival: %s x%d on hand", cfg.SurvivalResource, stock.Get(cfg.SurvivalResource)))
		result.Errors = append(result.Errors, fmt.Sprintf("✓ Power budget: %d supply / %d demand", supply, demand))
		result.Errors = append(result.Errors, fmt.Sprintf("✓ Win thresholds: %d", len(cfg.WinThresholds)))
	}

	return result
}

// main scans ../configs for scenario files and validates each one, printing a
// concise report and exiting with non-zero status if any are invalid.
func main() {
	configDir := "../configs"
	if len(os.Args) > 1 {
		configDir = os.Args[1]
	}

	var files []string
	for _, pattern := range []string{"*.json", "*.yaml", "*.yml"} {
		matches, err := filepath.Glob(filepath.Join(configDir, pattern))
		if err != nil {
			fmt.Printf("Error finding scenario files: %v\n", err)
			os.Exit(1)
		}
		files = append(files, matches...)
	}

	allValid := true
	for _, file := range files {
		result := validateScenario(file)

		fmt.Printf("\n%s %s\n", strings.Repeat("=", 20), result.File)

		if result.Valid {
			fmt.Println("✅ VALID")
			for _, info := range result.Errors {
				fmt.Println("  " + info)
			}
		} else {
			fmt.Println("❌ INVALID")
			allValid = false
			for _, err := range result.Errors {
				if !strings.HasPrefix(err, "✓") {
					fmt.Println("  ❌ " + err)
				}
			}
		}
	}

	fmt.Printf("\n%s\n", strings.Repeat("=", 40))
	if allValid {
		fmt.Println("✅ All scenarios are valid!")
	} else {
		fmt.Println("❌ Some scenarios have errors")
		os.Exit(1)
	}
}

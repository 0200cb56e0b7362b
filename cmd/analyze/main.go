// Command analyze prints quick, human-readable heuristics about scenario
// files in the project's configs directory. It summarizes sectors and links,
// starting stockpiles and constructions, the home sector's power budget, and
// how far the starting economy sits from each victory threshold.
package main

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/jacopograndi/ld54/game/engine"
)

func main() {
	dir := "configs"
	if len(os.Args) > 1 {
		dir = os.Args[1]
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		fmt.Printf("Error reading %s: %v\n", dir, err)
		os.Exit(1)
	}

	for _, entry := range entries {
		ext := filepath.Ext(entry.Name())
		if entry.IsDir() || (ext != ".json" && ext != ".yaml" && ext != ".yml") {
			continue
		}
		fmt.Printf("\n=== Analyzing %s ===\n", entry.Name())
		analyzeScenario(filepath.Join(dir, entry.Name()))
	}
}

func analyzeScenario(path string) {
	cfg, err := engine.LoadScenarioFile(path)
	if err != nil {
		fmt.Printf("Error loading scenario: %v\n", err)
		return
	}

	fmt.Printf("Name: %s\n", cfg.Name)
	fmt.Printf("Sectors: %d, Links: %d\n", len(cfg.Groups), len(cfg.Edges))
	nodeCount := 0
	for _, group := range cfg.Groups {
		nodeCount += len(group.Nodes)
	}
	fmt.Printf("Nodes: %d (home sector %d, ship at sector %d)\n", nodeCount, cfg.HomeGroup, cfg.ShipGroup)

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

	fmt.Printf("Starting stock: %s\n", formatBunch(stock))
	if len(constructions) > 0 {
		var parts []string
		for _, kind := range engine.Kinds() {
			if constructions[kind] > 0 {
				parts = append(parts, fmt.Sprintf("%s x%d", kind, constructions[kind]))
			}
		}
		fmt.Printf("Starting constructions: %s\n", strings.Join(parts, ", "))
	}

	// Power budget across all starting constructions. Every consumer wants
	// its full power request each turn once cooldowns line up.
	supply, demand := 0, 0
	for kind, count := range constructions {
		desc, ok := engine.Describe(kind)
		if !ok {
			continue
		}
		supply += desc.Produces.Get(engine.Power) * count
		demand += desc.Requests.Get(engine.Power) * count
	}
	if supply < demand {
		fmt.Printf("⚠️  WARNING: power demand %d exceeds supply %d, consumers will starve\n", demand, supply)
	} else {
		fmt.Printf("✅ Power budget: %d supply vs %d demand\n", supply, demand)
	}

	// Survival runway before any farm output.
	survival := stock.Get(cfg.SurvivalResource)
	fmt.Printf("Survival runway: %d turns of %s on hand\n", survival, cfg.SurvivalResource)
	if survival == 0 {
		fmt.Printf("⚠️  CRITICAL: no starting %s, the colony starves on turn 1\n", cfg.SurvivalResource)
	}

	// Victory distance from the starting stock.
	var kinds []engine.ResourceKind
	for kind := range cfg.WinThresholds {
		kinds = append(kinds, kind)
	}
	sort.Slice(kinds, func(i, j int) bool { return kinds[i] < kinds[j] })
	for _, kind := range kinds {
		threshold := cfg.WinThresholds[kind]
		have := stock.Get(kind)
		fmt.Printf("Win threshold: %s > %d (start %d, gap %d)\n", kind, threshold, have, threshold-have+1)
	}

	// Sector connectivity from the home sector. Unreachable sectors can
	// only contribute after the ship relocates and rewires the links.
	reach := map[engine.GroupID]bool{cfg.HomeGroup: true}
	queue := []engine.GroupID{cfg.HomeGroup}
	for len(queue) > 0 {
		current := queue[0]
		queue = queue[1:]
		for _, edge := range cfg.Edges {
			next := engine.GroupID(-1)
			if edge[0] == current {
				next = edge[1]
			} else if edge[1] == current {
				next = edge[0]
			}
			if next >= 0 && !reach[next] {
				reach[next] = true
				queue = append(queue, next)
			}
		}
	}
	var cutOff []engine.GroupID
	for _, group := range cfg.Groups {
		if !reach[group.ID] {
			cutOff = append(cutOff, group.ID)
		}
	}
	if len(cutOff) > 0 {
		fmt.Printf("⚠️  WARNING: %d sectors unreachable from home without relocating: %v\n", len(cutOff), cutOff)
	} else {
		fmt.Printf("✅ All sectors reachable from the home sector\n")
	}
}

func formatBunch(b engine.Bunch) string {
	if b.IsEmpty() {
		return "(nothing)"
	}
	var kinds []engine.ResourceKind
	for kind := range b {
		kinds = append(kinds, kind)
	}
	sort.Slice(kinds, func(i, j int) bool { return kinds[i] < kinds[j] })
	var parts []string
	for _, kind := range kinds {
		parts = append(parts, fmt.Sprintf("%s x%d", kind, b[kind]))
	}
	return strings.Join(parts, ", ")
}

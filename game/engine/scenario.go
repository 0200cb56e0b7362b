package engine

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// ScenarioMessages are the UI strings surfaced through GameState.Message.
type ScenarioMessages struct {
	Welcome string `json:"welcome" yaml:"welcome"`
	Victory string `json:"victory" yaml:"victory"`
	Defeat  string `json:"defeat" yaml:"defeat"`
}

// NodeSpec places one node inside a group.
type NodeSpec struct {
	ID NodeID  `json:"id" yaml:"id"`
	X  float64 `json:"x" yaml:"x"`
	Y  float64 `json:"y" yaml:"y"`
}

// GroupSpec declares one sector and its nodes. Node declaration order is the
// tie-break order used everywhere by the engine; scenarios keep it ascending
// by node ID.
type GroupSpec struct {
	ID    GroupID    `json:"id" yaml:"id"`
	Nodes []NodeSpec `json:"nodes" yaml:"nodes"`
}

// StartSpec places one starting occupant. Exactly one of Resource or
// Construction must be set.
type StartSpec struct {
	Node         NodeID           `json:"node" yaml:"node"`
	Resource     ResourceKind     `json:"resource,omitempty" yaml:"resource,omitempty"`
	Amount       int              `json:"amount,omitempty" yaml:"amount,omitempty"`
	Construction ConstructionKind `json:"construction,omitempty" yaml:"construction,omitempty"`
}

// ScenarioConfig describes one playable colony setup loaded from a scenario
// file.
type ScenarioConfig struct {
	Name        string       `json:"name" yaml:"name"`
	Description string       `json:"description" yaml:"description"`
	Groups      []GroupSpec  `json:"groups" yaml:"groups"`
	Edges       [][2]GroupID `json:"edges" yaml:"edges"`

	HomeGroup GroupID `json:"home_group" yaml:"home_group"`
	ShipGroup GroupID `json:"ship_group" yaml:"ship_group"`

	SurvivalResource ResourceKind         `json:"survival_resource" yaml:"survival_resource"`
	FuelResource     ResourceKind         `json:"fuel_resource" yaml:"fuel_resource"`
	WinThresholds    map[ResourceKind]int `json:"win_thresholds" yaml:"win_thresholds"`

	Start    []StartSpec      `json:"start" yaml:"start"`
	Messages ScenarioMessages `json:"messages" yaml:"messages"`
}

// knownKinds indexes the declared resource kinds for validation.
func knownKind(kind ResourceKind) bool {
	for _, k := range ResourceKinds() {
		if k == kind {
			return true
		}
	}
	return false
}

// ValidateScenario validates a scenario configuration for structural
// correctness and playability.
func ValidateScenario(cfg *ScenarioConfig) error {
	if cfg.Name == "" {
		return fmt.Errorf("scenario validation: name is required")
	}
	if len(cfg.Groups) == 0 {
		return fmt.Errorf("scenario validation: at least one group is required")
	}

	groupSeen := map[GroupID]bool{}
	nodeSeen := map[NodeID]bool{}
	for _, group := range cfg.Groups {
		if groupSeen[group.ID] {
			return fmt.Errorf("scenario validation: duplicate group %d", group.ID)
		}
		groupSeen[group.ID] = true
		if len(group.Nodes) == 0 {
			return fmt.Errorf("scenario validation: group %d has no nodes", group.ID)
		}
		for _, node := range group.Nodes {
			if nodeSeen[node.ID] {
				return fmt.Errorf("scenario validation: node %d assigned to more than one group", node.ID)
			}
			nodeSeen[node.ID] = true
		}
	}

	for _, edge := range cfg.Edges {
		if edge[0] == edge[1] {
			return fmt.Errorf("scenario validation: self-edge on group %d", edge[0])
		}
		for _, gid := range edge {
			if !groupSeen[gid] {
				return fmt.Errorf("scenario validation: edge references unknown group %d", gid)
			}
		}
	}

	if !groupSeen[cfg.HomeGroup] {
		return fmt.Errorf("scenario validation: home_group %d does not exist", cfg.HomeGroup)
	}
	if !groupSeen[cfg.ShipGroup] {
		return fmt.Errorf("scenario validation: ship_group %d does not exist", cfg.ShipGroup)
	}

	if !knownKind(cfg.SurvivalResource) {
		return fmt.Errorf("scenario validation: unknown survival_resource %q", cfg.SurvivalResource)
	}
	if !knownKind(cfg.FuelResource) {
		return fmt.Errorf("scenario validation: unknown fuel_resource %q", cfg.FuelResource)
	}
	if len(cfg.WinThresholds) == 0 {
		return fmt.Errorf("scenario validation: win_thresholds must not be empty")
	}
	for kind, threshold := range cfg.WinThresholds {
		if !knownKind(kind) {
			return fmt.Errorf("scenario validation: win threshold on unknown resource %q", kind)
		}
		if threshold <= 0 {
			return fmt.Errorf("scenario validation: win threshold for %s must be positive, got %d", kind, threshold)
		}
	}

	startSeen := map[NodeID]bool{}
	for _, start := range cfg.Start {
		if !nodeSeen[start.Node] {
			return fmt.Errorf("scenario validation: start occupant on unknown node %d", start.Node)
		}
		if startSeen[start.Node] {
			return fmt.Errorf("scenario validation: node %d has more than one start occupant", start.Node)
		}
		startSeen[start.Node] = true

		hasResource := start.Resource != ""
		hasConstruction := start.Construction != ""
		switch {
		case hasResource == hasConstruction:
			return fmt.Errorf("scenario validation: start occupant on node %d must be a stockpile or a construction", start.Node)
		case hasResource:
			if !knownKind(start.Resource) {
				return fmt.Errorf("scenario validation: unknown resource %q on node %d", start.Resource, start.Node)
			}
			if start.Amount < 1 || start.Amount > MaxStockpile {
				return fmt.Errorf("scenario validation: stockpile on node %d must hold 1..%d, got %d", start.Node, MaxStockpile, start.Amount)
			}
		case hasConstruction:
			if _, ok := Describe(start.Construction); !ok {
				return fmt.Errorf("scenario validation: unknown construction %q on node %d", start.Construction, start.Node)
			}
		}
	}

	return nil
}

// buildMap constructs the initial colony map from a validated scenario.
func buildMap(cfg *ScenarioConfig) *ColonyMap {
	m := &ColonyMap{
		Groups:     make(map[GroupID][]NodeID, len(cfg.Groups)),
		Positions:  make(map[NodeID]Position),
		Occupation: make(map[NodeID]*Occupant),
	}
	for _, group := range cfg.Groups {
		m.GroupOrder = append(m.GroupOrder, group.ID)
		for _, node := range group.Nodes {
			m.Nodes = append(m.Nodes, node.ID)
			m.Groups[group.ID] = append(m.Groups[group.ID], node.ID)
			m.Positions[node.ID] = Position{X: node.X, Y: node.Y}
		}
	}
	m.Edges = append(m.Edges, cfg.Edges...)

	for _, start := range cfg.Start {
		if start.Resource != "" {
			m.Occupation[start.Node] = NewStockpile(start.Resource, start.Amount)
		} else {
			m.Occupation[start.Node] = NewConstruction(start.Construction)
		}
	}
	return m
}

// LoadScenarioFile loads a scenario from a JSON or YAML file, picking the
// decoder by extension, and validates it.
func LoadScenarioFile(path string) (*ScenarioConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var cfg ScenarioConfig
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return nil, fmt.Errorf("failed to parse scenario %s: %w", path, err)
		}
	default:
		if err := json.Unmarshal(data, &cfg); err != nil {
			return nil, fmt.Errorf("failed to parse scenario %s: %w", path, err)
		}
	}

	if err := ValidateScenario(&cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// DefaultScenario is a minimal built-in setup: the landing sector with a
// solar field, a farm, and starting piles, plus one empty frontier sector.
func DefaultScenario() *ScenarioConfig {
	return &ScenarioConfig{
		Name:        "default",
		Description: "Minimal built-in scenario",
		Groups: []GroupSpec{
			{ID: 0, Nodes: []NodeSpec{
				{ID: 0, X: 0, Y: 0},
				{ID: 1, X: 64, Y: 0},
				{ID: 2, X: 128, Y: 0},
				{ID: 3, X: -64, Y: 0},
				{ID: 4, X: -128, Y: 0},
			}},
			{ID: 1, Nodes: []NodeSpec{
				{ID: 5, X: 0, Y: 192},
				{ID: 6, X: 64, Y: 192},
				{ID: 7, X: 128, Y: 192},
			}},
		},
		Edges:            [][2]GroupID{{0, 1}},
		HomeGroup:        0,
		ShipGroup:        0,
		SurvivalResource: Food,
		FuelResource:     RocketFuel,
		WinThresholds: map[ResourceKind]int{
			Material:   100,
			FusionFuel: 100,
		},
		Start: []StartSpec{
			{Node: 0, Construction: SolarField},
			{Node: 1, Construction: HydroponicsFarm},
			{Node: 2, Resource: Food, Amount: 10},
			{Node: 3, Resource: RocketFuel, Amount: 2},
		},
		Messages: ScenarioMessages{
			Welcome: "Colony established. End turns to run production.",
			Victory: "The colony thrives. Victory!",
			Defeat:  "The colony starved. Defeat.",
		},
	}
}

package engine

// ResourceKind identifies a resource that can sit in a stockpile or a bunch.
type ResourceKind string

const (
	Power      ResourceKind = "power"
	RocketFuel ResourceKind = "rocket_fuel"
	Food       ResourceKind = "food"
	Material   ResourceKind = "material"
	FusionFuel ResourceKind = "fusion_fuel"

	// Simulation constants
	MaxStockpile    = 100   // per-node stockpile cap on the top-up path
	MaxAddPasses    = 16    // distribution passes in AddResource
	MaxTurnIters    = 10000 // hard cap on the resolution loop
	MaxConsumeIters = 10000 // hard cap on per-kind consumption
)

// ResourceKinds lists every resource kind in a stable order.
func ResourceKinds() []ResourceKind {
	return []ResourceKind{Power, RocketFuel, Food, Material, FusionFuel}
}

// NodeID identifies a single occupiable slot on the map.
type NodeID int

// GroupID identifies a sector, a cluster of nodes sharing one pooled bunch.
type GroupID int

// Position is a display-only placement for a node. The engine never reads it;
// it is carried through for rendering clients.
type Position struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// OccupantType discriminates what a node currently holds.
type OccupantType string

const (
	OccupantStockpile    OccupantType = "stockpile"
	OccupantConstruction OccupantType = "construction"
)

// Occupant is what a node holds: a stockpile of one resource kind or a
// construction with a cooldown. A node with no occupant has no Occupant at
// all; a stockpile never persists at amount 0.
type Occupant struct {
	Type OccupantType `json:"type"`

	// Stockpile fields
	Resource ResourceKind `json:"resource,omitempty"`
	Amount   int          `json:"amount,omitempty"`

	// Construction fields
	Construction ConstructionKind `json:"construction,omitempty"`
	Cooldown     int              `json:"cooldown,omitempty"`
}

// NewStockpile builds a stockpile occupant.
func NewStockpile(kind ResourceKind, amount int) *Occupant {
	return &Occupant{Type: OccupantStockpile, Resource: kind, Amount: amount}
}

// NewConstruction builds a construction occupant with its catalog cooldown.
func NewConstruction(kind ConstructionKind) *Occupant {
	cooldown := 0
	if desc, ok := Describe(kind); ok {
		cooldown = desc.Cooldown
	}
	return &Occupant{Type: OccupantConstruction, Construction: kind, Cooldown: cooldown}
}

// IsStockpile reports whether the occupant is a stockpile.
func (o *Occupant) IsStockpile() bool {
	return o != nil && o.Type == OccupantStockpile
}

// IsConstruction reports whether the occupant is a construction.
func (o *Occupant) IsConstruction() bool {
	return o != nil && o.Type == OccupantConstruction
}

// ActionType identifies a committed micro-mutation in the action log.
type ActionType string

const (
	ActionConsume  ActionType = "consume"
	ActionProduce  ActionType = "produce"
	ActionShipMove ActionType = "ship_move"
)

// ActionEntry is one committed mutation from a resolution pass. Entries are
// ordered; display layers must replay them in order.
//
// For consume entries Amount is the post-subtraction amount at the source
// node and Delta is the full requested magnitude of the consumption, not the
// clamped transfer. For produce entries Amount is the resulting amount at the
// target node and Delta the allocated quantity. Ship moves carry groups only.
type ActionEntry struct {
	Type ActionType `json:"type"`

	From     NodeID       `json:"from,omitempty"`
	To       NodeID       `json:"to,omitempty"`
	Resource ResourceKind `json:"resource,omitempty"`
	Amount   int          `json:"amount,omitempty"`
	Delta    int          `json:"delta,omitempty"`

	FromGroup GroupID `json:"from_group,omitempty"`
	ToGroup   GroupID `json:"to_group,omitempty"`
}

// Ship is the single mobile unit. Its home group's adjacency is rewritten
// when it relocates.
type Ship struct {
	Current GroupID  `json:"current"`
	Home    GroupID  `json:"home"`
	Planned *GroupID `json:"planned,omitempty"`
}

// GameStatus is the run outcome state. Won and Lost are terminal until an
// external reset.
type GameStatus string

const (
	StatusPlaying GameStatus = "playing"
	StatusWon     GameStatus = "won"
	StatusLost    GameStatus = "lost"
)

// TurnSummary is one row of the cumulative turn history.
type TurnSummary struct {
	Turn      int        `json:"turn"`
	Actions   int        `json:"actions"`
	Status    GameStatus `json:"status"`
	Timestamp int64      `json:"timestamp"`
}

// GameState is the complete observable state of one colony run.
type GameState struct {
	Turn    int        `json:"turn"`
	Map     *ColonyMap `json:"map"`
	Ship    Ship       `json:"ship"`
	Status  GameStatus `json:"status"`
	Message string     `json:"message"`

	// PendingLog holds the action log of the last resolved turn until the
	// playback layer acknowledges it. While non-empty, EndTurn signals are
	// dropped.
	PendingLog []ActionEntry `json:"pending_log"`

	// TurnHistory is cumulative across resets of the pending log, one entry
	// per resolved turn.
	TurnHistory []TurnSummary `json:"turn_history"`

	ScenarioName string `json:"scenario_name"`
}

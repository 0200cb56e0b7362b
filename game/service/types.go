package service

import (
	"time"

	"github.com/jacopograndi/ld54/game/engine"
)

// SessionInfo provides information about a game session
type SessionInfo struct {
	ID             string            `json:"id"`
	ScenarioName   string            `json:"scenario_name"`
	CreatedAt      time.Time         `json:"created_at"`
	LastAccessedAt time.Time         `json:"last_accessed_at"`
	GameState      *engine.GameState `json:"game_state"`
}

// TurnOutcome contains the result of an end-turn operation
type TurnOutcome struct {
	Success bool                 `json:"success"`
	Turn    int                  `json:"turn"`
	Actions []engine.ActionEntry `json:"actions"`
	Status  engine.GameStatus    `json:"status"`
	Message string               `json:"message,omitempty"`

	// PlaybackPending is true until the action log is acknowledged; further
	// end-turn signals are dropped while it is set.
	PlaybackPending bool              `json:"playback_pending"`
	GameState       *engine.GameState `json:"game_state"`
}

// ActionOutcome contains the result of a direct colony action such as build,
// demolish, transfer, or travel planning
type ActionOutcome struct {
	Success   bool                 `json:"success"`
	Actions   []engine.ActionEntry `json:"actions,omitempty"`
	Message   string               `json:"message,omitempty"`
	GameState *engine.GameState    `json:"game_state"`
}

// HistoryOptions configures turn history retrieval
type HistoryOptions struct {
	Page  int    `json:"page"`
	Limit int    `json:"limit"`
	Order string `json:"order"` // "asc" or "desc"
}

// HistoryResponse contains paginated turn history
type HistoryResponse struct {
	Turns       []engine.TurnSummary `json:"turns"`
	TotalTurns  int                  `json:"total_turns"`
	Page        int                  `json:"page"`
	PageSize    int                  `json:"page_size"`
	TotalPages  int                  `json:"total_pages"`
	HasNext     bool                 `json:"has_next"`
	HasPrevious bool                 `json:"has_previous"`
}

// ScenarioInfo provides information about an available scenario
type ScenarioInfo struct {
	Filename    string `json:"filename"`
	ScenarioID  string `json:"scenario_id"` // The identifier to use for session creation
	Name        string `json:"name"`        // Display name
	Description string `json:"description"`
	Groups      int    `json:"groups"`
	Nodes       int    `json:"nodes"`
}

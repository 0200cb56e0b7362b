package service

import (
	"context"
	"time"

	"github.com/jacopograndi/ld54/game/engine"
)

// GameService defines all colony-simulation operations
type GameService interface {
	// Session Management
	CreateSession(ctx context.Context, scenarioName string) (*SessionInfo, error)
	GetSession(ctx context.Context, sessionID string) (*SessionInfo, error)
	ListSessions(ctx context.Context) ([]*SessionInfo, error)
	DeleteSession(ctx context.Context, sessionID string) error

	// Turn Operations
	EndTurn(ctx context.Context, sessionID string) (*TurnOutcome, error)
	AckPlayback(ctx context.Context, sessionID string) error
	Reset(ctx context.Context, sessionID string) (*engine.GameState, error)

	// Colony Operations
	Build(ctx context.Context, sessionID string, node engine.NodeID, kind engine.ConstructionKind) (*ActionOutcome, error)
	Demolish(ctx context.Context, sessionID string, node engine.NodeID) (*ActionOutcome, error)
	Transfer(ctx context.Context, sessionID string, from, to engine.NodeID, amount int) (*ActionOutcome, error)
	PlanTravel(ctx context.Context, sessionID string, dest engine.GroupID) (*ActionOutcome, error)

	// Game State
	GetGameState(ctx context.Context, sessionID string) (*engine.GameState, error)
	GetTurnHistory(ctx context.Context, sessionID string, opts HistoryOptions) (*HistoryResponse, error)

	// Scenarios
	ListScenarios(ctx context.Context) ([]*ScenarioInfo, error)
	LoadScenario(ctx context.Context, scenarioName string) (*engine.ScenarioConfig, error)
	SaveScenario(ctx context.Context, scenarioName string, cfg *engine.ScenarioConfig) error
}

// SessionManager defines session storage operations
type SessionManager interface {
	Create(id string, scenario *engine.ScenarioConfig) (*Session, error)
	Get(id string) (*Session, error)
	GetOrCreate(id string, scenario *engine.ScenarioConfig) (*Session, error)
	List() []*Session
	Delete(id string) error
	UpdateLastAccessed(id string) error
}

// ScenarioManager handles scenario loading
type ScenarioManager interface {
	LoadScenario(name string) (*engine.ScenarioConfig, error)
	ListScenarios() ([]*ScenarioInfo, error)
	GetDefault() *engine.ScenarioConfig
	SaveScenario(name string, cfg *engine.ScenarioConfig) error
}

// Session represents one active colony run
type Session struct {
	ID             string
	Engine         *engine.Engine
	Scenario       *engine.ScenarioConfig
	CreatedAt      time.Time
	LastAccessedAt time.Time
}

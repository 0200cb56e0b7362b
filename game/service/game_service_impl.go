package service

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/jacopograndi/ld54/game/engine"
)

// gameServiceImpl implements the GameService interface
type gameServiceImpl struct {
	sessions  SessionManager
	scenarios ScenarioManager
	mu        sync.RWMutex
}

// NewGameService creates a new game service instance
func NewGameService(sessions SessionManager, scenarios ScenarioManager) GameService {
	return &gameServiceImpl{
		sessions:  sessions,
		scenarios: scenarios,
	}
}

// getScenarioID returns the scenario_id for a given display name, used for
// consistent API responses
func (s *gameServiceImpl) getScenarioID(displayName string) string {
	available, err := s.scenarios.ListScenarios()
	if err == nil {
		for _, info := range available {
			if info.Name == displayName {
				return info.ScenarioID
			}
		}
	}
	if displayName == "" {
		return "default"
	}
	return displayName
}

func (s *gameServiceImpl) sessionInfo(sess *Session) *SessionInfo {
	return &SessionInfo{
		ID:             sess.ID,
		ScenarioName:   s.getScenarioID(sess.Scenario.Name),
		CreatedAt:      sess.CreatedAt,
		LastAccessedAt: sess.LastAccessedAt,
		GameState:      sess.Engine.State(),
	}
}

// CreateSession creates a new game session running the named scenario, or
// the default scenario when the name is empty
func (s *gameServiceImpl) CreateSession(ctx context.Context, scenarioName string) (*SessionInfo, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var scenario *engine.ScenarioConfig
	var err error
	if scenarioName != "" {
		scenario, err = s.scenarios.LoadScenario(scenarioName)
		if err != nil {
			available, listErr := s.scenarios.ListScenarios()
			if listErr == nil && len(available) > 0 {
				var ids []string
				for _, info := range available {
					ids = append(ids, info.ScenarioID)
				}
				return nil, fmt.Errorf("scenario '%s' not found. Available scenarios: %v", scenarioName, ids)
			}
			return nil, fmt.Errorf("failed to load scenario %s: %w", scenarioName, err)
		}
	} else {
		scenario = s.scenarios.GetDefault()
	}

	// Let the session manager generate a proper 4-character ID
	sess, err := s.sessions.Create("", scenario)
	if err != nil {
		return nil, fmt.Errorf("failed to create session: %w", err)
	}

	info := s.sessionInfo(sess)
	if scenarioName != "" {
		info.ScenarioName = scenarioName
	}
	return info, nil
}

// GetSession retrieves session information
func (s *gameServiceImpl) GetSession(ctx context.Context, sessionID string) (*SessionInfo, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	sess, err := s.sessions.Get(sessionID)
	if err != nil {
		return nil, fmt.Errorf("session not found: %w", err)
	}
	s.sessions.UpdateLastAccessed(sessionID)

	return s.sessionInfo(sess), nil
}

// ListSessions returns all active sessions
func (s *gameServiceImpl) ListSessions(ctx context.Context) ([]*SessionInfo, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	sessions := s.sessions.List()
	result := make([]*SessionInfo, 0, len(sessions))
	for _, sess := range sessions {
		result = append(result, s.sessionInfo(sess))
	}
	return result, nil
}

// DeleteSession removes a session
func (s *gameServiceImpl) DeleteSession(ctx context.Context, sessionID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.sessions.Delete(sessionID)
}

// EndTurn resolves one turn for a session. A signal arriving while the
// previous turn's log is still pending is reported as dropped, not failed.
func (s *gameServiceImpl) EndTurn(ctx context.Context, sessionID string) (*TurnOutcome, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	sess, err := s.sessions.Get(sessionID)
	if err != nil {
		return nil, fmt.Errorf("session not found: %w", err)
	}
	s.sessions.UpdateLastAccessed(sessionID)

	result, err := sess.Engine.EndTurn()
	if err != nil {
		if errors.Is(err, engine.ErrPlaybackBusy) {
			return &TurnOutcome{
				Success:         false,
				Turn:            sess.Engine.Turn(),
				Actions:         sess.Engine.PendingActions(),
				Status:          sess.Engine.Status(),
				Message:         "end-turn dropped: previous turn's playback not acknowledged",
				PlaybackPending: true,
				GameState:       sess.Engine.State(),
			}, nil
		}
		if errors.Is(err, engine.ErrGameOver) {
			return &TurnOutcome{
				Success:   false,
				Turn:      sess.Engine.Turn(),
				Status:    sess.Engine.Status(),
				Message:   sess.Engine.State().Message,
				GameState: sess.Engine.State(),
			}, nil
		}
		return nil, err
	}

	return &TurnOutcome{
		Success:         true,
		Turn:            result.Turn,
		Actions:         result.Actions,
		Status:          result.Status,
		Message:         result.Message,
		PlaybackPending: sess.Engine.PlaybackPending(),
		GameState:       sess.Engine.State(),
	}, nil
}

// AckPlayback marks a session's pending action log as drained
func (s *gameServiceImpl) AckPlayback(ctx context.Context, sessionID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	sess, err := s.sessions.Get(sessionID)
	if err != nil {
		return fmt.Errorf("session not found: %w", err)
	}
	s.sessions.UpdateLastAccessed(sessionID)

	sess.Engine.AckPlayback()
	return nil
}

// Reset restores a session's run to the scenario start
func (s *gameServiceImpl) Reset(ctx context.Context, sessionID string) (*engine.GameState, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	sess, err := s.sessions.Get(sessionID)
	if err != nil {
		return nil, fmt.Errorf("session not found: %w", err)
	}
	s.sessions.UpdateLastAccessed(sessionID)

	return sess.Engine.Reset(), nil
}

// Build places a construction at an empty node
func (s *gameServiceImpl) Build(ctx context.Context, sessionID string, node engine.NodeID, kind engine.ConstructionKind) (*ActionOutcome, error) {
	return s.runAction(sessionID, func(e *engine.Engine) ([]engine.ActionEntry, error) {
		return e.Build(node, kind)
	})
}

// Demolish clears the occupant at a node
func (s *gameServiceImpl) Demolish(ctx context.Context, sessionID string, node engine.NodeID) (*ActionOutcome, error) {
	return s.runAction(sessionID, func(e *engine.Engine) ([]engine.ActionEntry, error) {
		return nil, e.Demolish(node)
	})
}

// Transfer moves resource between two reachable nodes
func (s *gameServiceImpl) Transfer(ctx context.Context, sessionID string, from, to engine.NodeID, amount int) (*ActionOutcome, error) {
	return s.runAction(sessionID, func(e *engine.Engine) ([]engine.ActionEntry, error) {
		return e.Transfer(from, to, amount)
	})
}

// PlanTravel sets the ship's destination for the next end-turn
func (s *gameServiceImpl) PlanTravel(ctx context.Context, sessionID string, dest engine.GroupID) (*ActionOutcome, error) {
	return s.runAction(sessionID, func(e *engine.Engine) ([]engine.ActionEntry, error) {
		return nil, e.PlanTravel(dest)
	})
}

// runAction executes one direct colony action under the service lock. Engine
// rule violations come back as a failed outcome, not an error; only a missing
// session is an error.
func (s *gameServiceImpl) runAction(sessionID string, action func(*engine.Engine) ([]engine.ActionEntry, error)) (*ActionOutcome, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	sess, err := s.sessions.Get(sessionID)
	if err != nil {
		return nil, fmt.Errorf("session not found: %w", err)
	}
	s.sessions.UpdateLastAccessed(sessionID)

	entries, err := action(sess.Engine)
	if err != nil {
		return &ActionOutcome{
			Success:   false,
			Message:   err.Error(),
			GameState: sess.Engine.State(),
		}, nil
	}

	return &ActionOutcome{
		Success:   true,
		Actions:   entries,
		GameState: sess.Engine.State(),
	}, nil
}

// GetGameState returns the current state of a session
func (s *gameServiceImpl) GetGameState(ctx context.Context, sessionID string) (*engine.GameState, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	sess, err := s.sessions.Get(sessionID)
	if err != nil {
		return nil, fmt.Errorf("session not found: %w", err)
	}
	s.sessions.UpdateLastAccessed(sessionID)

	return sess.Engine.State(), nil
}

// GetTurnHistory returns the paginated turn history of a session
func (s *gameServiceImpl) GetTurnHistory(ctx context.Context, sessionID string, opts HistoryOptions) (*HistoryResponse, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	sess, err := s.sessions.Get(sessionID)
	if err != nil {
		return nil, fmt.Errorf("session not found: %w", err)
	}

	history := sess.Engine.TurnHistoryEntries()
	total := len(history)

	// Apply defaults
	if opts.Page < 1 {
		opts.Page = 1
	}
	if opts.Limit <= 0 {
		opts.Limit = 20
	}
	if opts.Limit > 100 {
		opts.Limit = 100
	}
	if opts.Order == "" {
		opts.Order = "desc"
	}

	totalPages := (total + opts.Limit - 1) / opts.Limit
	if totalPages == 0 {
		totalPages = 1
	}

	start := (opts.Page - 1) * opts.Limit
	end := start + opts.Limit
	if end > total {
		end = total
	}

	var turns []engine.TurnSummary
	if opts.Order == "desc" {
		// Most recent first
		for i := total - 1 - start; i >= 0 && i >= total-end; i-- {
			turns = append(turns, history[i])
		}
	} else {
		if start < total {
			turns = history[start:end]
		}
	}
	if turns == nil {
		turns = []engine.TurnSummary{}
	}

	return &HistoryResponse{
		Turns:       turns,
		TotalTurns:  total,
		Page:        opts.Page,
		PageSize:    opts.Limit,
		TotalPages:  totalPages,
		HasNext:     opts.Page < totalPages,
		HasPrevious: opts.Page > 1,
	}, nil
}

// ListScenarios returns all available scenarios
func (s *gameServiceImpl) ListScenarios(ctx context.Context) ([]*ScenarioInfo, error) {
	return s.scenarios.ListScenarios()
}

// LoadScenario loads a scenario by name
func (s *gameServiceImpl) LoadScenario(ctx context.Context, scenarioName string) (*engine.ScenarioConfig, error) {
	return s.scenarios.LoadScenario(scenarioName)
}

// SaveScenario saves a scenario to the scenario directory
func (s *gameServiceImpl) SaveScenario(ctx context.Context, scenarioName string, cfg *engine.ScenarioConfig) error {
	return s.scenarios.SaveScenario(scenarioName, cfg)
}

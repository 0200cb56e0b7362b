package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/jacopograndi/ld54/game/engine"
	"github.com/jacopograndi/ld54/game/service"
	"github.com/jacopograndi/ld54/transport/websocket"
)

// MockGameService implements service.GameService for testing
type MockGameService struct {
	// Session Management
	CreateSessionFunc func(ctx context.Context, scenarioName string) (*service.SessionInfo, error)
	GetSessionFunc    func(ctx context.Context, sessionID string) (*service.SessionInfo, error)
	ListSessionsFunc  func(ctx context.Context) ([]*service.SessionInfo, error)
	DeleteSessionFunc func(ctx context.Context, sessionID string) error

	// Turn Operations
	EndTurnFunc     func(ctx context.Context, sessionID string) (*service.TurnOutcome, error)
	AckPlaybackFunc func(ctx context.Context, sessionID string) error
	ResetFunc       func(ctx context.Context, sessionID string) (*engine.GameState, error)

	// Colony Operations
	BuildFunc      func(ctx context.Context, sessionID string, node engine.NodeID, kind engine.ConstructionKind) (*service.ActionOutcome, error)
	DemolishFunc   func(ctx context.Context, sessionID string, node engine.NodeID) (*service.ActionOutcome, error)
	TransferFunc   func(ctx context.Context, sessionID string, from, to engine.NodeID, amount int) (*service.ActionOutcome, error)
	PlanTravelFunc func(ctx context.Context, sessionID string, dest engine.GroupID) (*service.ActionOutcome, error)

	// Game State
	GetGameStateFunc   func(ctx context.Context, sessionID string) (*engine.GameState, error)
	GetTurnHistoryFunc func(ctx context.Context, sessionID string, opts service.HistoryOptions) (*service.HistoryResponse, error)

	// Scenarios
	ListScenariosFunc func(ctx context.Context) ([]*service.ScenarioInfo, error)
	LoadScenarioFunc  func(ctx context.Context, scenarioName string) (*engine.ScenarioConfig, error)
	SaveScenarioFunc  func(ctx context.Context, scenarioName string, cfg *engine.ScenarioConfig) error
}

// Session Management
func (m *MockGameService) CreateSession(ctx context.Context, scenarioName string) (*service.SessionInfo, error) {
	if m.CreateSessionFunc != nil {
		return m.CreateSessionFunc(ctx, scenarioName)
	}
	return &service.SessionInfo{
		ID:           "test-session",
		ScenarioName: scenarioName,
		CreatedAt:    time.Now(),
	}, nil
}

func (m *MockGameService) GetSession(ctx context.Context, sessionID string) (*service.SessionInfo, error) {
	if m.GetSessionFunc != nil {
		return m.GetSessionFunc(ctx, sessionID)
	}
	return &service.SessionInfo{
		ID:           sessionID,
		ScenarioName: "test-scenario",
		CreatedAt:    time.Now(),
	}, nil
}

func (m *MockGameService) ListSessions(ctx context.Context) ([]*service.SessionInfo, error) {
	if m.ListSessionsFunc != nil {
		return m.ListSessionsFunc(ctx)
	}
	return []*service.SessionInfo{}, nil
}

func (m *MockGameService) DeleteSession(ctx context.Context, sessionID string) error {
	if m.DeleteSessionFunc != nil {
		return m.DeleteSessionFunc(ctx, sessionID)
	}
	return nil
}

// Turn Operations
func (m *MockGameService) EndTurn(ctx context.Context, sessionID string) (*service.TurnOutcome, error) {
	if m.EndTurnFunc != nil {
		return m.EndTurnFunc(ctx, sessionID)
	}
	return &service.TurnOutcome{
		Success:   true,
		Turn:      1,
		Status:    engine.StatusPlaying,
		GameState: &engine.GameState{},
	}, nil
}

func (m *MockGameService) AckPlayback(ctx context.Context, sessionID string) error {
	if m.AckPlaybackFunc != nil {
		return m.AckPlaybackFunc(ctx, sessionID)
	}
	return nil
}

func (m *MockGameService) Reset(ctx context.Context, sessionID string) (*engine.GameState, error) {
	if m.ResetFunc != nil {
		return m.ResetFunc(ctx, sessionID)
	}
	return &engine.GameState{}, nil
}

// Colony Operations
func (m *MockGameService) Build(ctx context.Context, sessionID string, node engine.NodeID, kind engine.ConstructionKind) (*service.ActionOutcome, error) {
	if m.BuildFunc != nil {
		return m.BuildFunc(ctx, sessionID, node, kind)
	}
	return &service.ActionOutcome{Success: true, GameState: &engine.GameState{}}, nil
}

func (m *MockGameService) Demolish(ctx context.Context, sessionID string, node engine.NodeID) (*service.ActionOutcome, error) {
	if m.DemolishFunc != nil {
		return m.DemolishFunc(ctx, sessionID, node)
	}
	return &service.ActionOutcome{Success: true, GameState: &engine.GameState{}}, nil
}

func (m *MockGameService) Transfer(ctx context.Context, sessionID string, from, to engine.NodeID, amount int) (*service.ActionOutcome, error) {
	if m.TransferFunc != nil {
		return m.TransferFunc(ctx, sessionID, from, to, amount)
	}
	return &service.ActionOutcome{Success: true, GameState: &engine.GameState{}}, nil
}

func (m *MockGameService) PlanTravel(ctx context.Context, sessionID string, dest engine.GroupID) (*service.ActionOutcome, error) {
	if m.PlanTravelFunc != nil {
		return m.PlanTravelFunc(ctx, sessionID, dest)
	}
	return &service.ActionOutcome{Success: true, GameState: &engine.GameState{}}, nil
}

// Game State
func (m *MockGameService) GetGameState(ctx context.Context, sessionID string) (*engine.GameState, error) {
	if m.GetGameStateFunc != nil {
		return m.GetGameStateFunc(ctx, sessionID)
	}
	return &engine.GameState{}, nil
}

func (m *MockGameService) GetTurnHistory(ctx context.Context, sessionID string, opts service.HistoryOptions) (*service.HistoryResponse, error) {
	if m.GetTurnHistoryFunc != nil {
		return m.GetTurnHistoryFunc(ctx, sessionID, opts)
	}
	return &service.HistoryResponse{
		Turns:      []engine.TurnSummary{},
		TotalTurns: 0,
		Page:       opts.Page,
		PageSize:   opts.Limit,
		TotalPages: 1,
	}, nil
}

// Scenarios
func (m *MockGameService) ListScenarios(ctx context.Context) ([]*service.ScenarioInfo, error) {
	if m.ListScenariosFunc != nil {
		return m.ListScenariosFunc(ctx)
	}
	return []*service.ScenarioInfo{}, nil
}

func (m *MockGameService) LoadScenario(ctx context.Context, scenarioName string) (*engine.ScenarioConfig, error) {
	if m.LoadScenarioFunc != nil {
		return m.LoadScenarioFunc(ctx, scenarioName)
	}
	return &engine.ScenarioConfig{
		Name:        scenarioName,
		Description: "Test scenario",
	}, nil
}

func (m *MockGameService) SaveScenario(ctx context.Context, scenarioName string, cfg *engine.ScenarioConfig) error {
	if m.SaveScenarioFunc != nil {
		return m.SaveScenarioFunc(ctx, scenarioName, cfg)
	}
	return nil
}

// Test helpers
func setupTestServer(mockService *MockGameService) *Server {
	hub := websocket.NewHub()
	go hub.Run()
	return NewServer(mockService, hub)
}

func makeRequest(method, path string, body interface{}) *http.Request {
	var bodyBytes []byte
	if body != nil {
		bodyBytes, _ = json.Marshal(body)
	}
	req := httptest.NewRequest(method, path, bytes.NewBuffer(bodyBytes))
	req.Header.Set("Content-Type", "application/json")
	return req
}

func parseResponse(t *testing.T, w *httptest.ResponseRecorder, target interface{}) {
	if err := json.Unmarshal(w.Body.Bytes(), target); err != nil {
		t.Fatalf("Failed to parse response: %v", err)
	}
}

// Session Management Tests

func TestCreateSession(t *testing.T) {
	tests := []struct {
		name           string
		requestBody    map[string]string
		setupMock      func(*MockGameService)
		expectedStatus int
		validateResp   func(*testing.T, *httptest.ResponseRecorder)
	}{
		{
			name:        "Create session with default scenario",
			requestBody: nil,
			setupMock: func(m *MockGameService) {
				m.CreateSessionFunc = func(ctx context.Context, scenarioName string) (*service.SessionInfo, error) {
					return &service.SessionInfo{
						ID:             "ab12",
						ScenarioName:   "default",
						CreatedAt:      time.Now(),
						LastAccessedAt: time.Now(),
					}, nil
				}
			},
			expectedStatus: http.StatusCreated,
			validateResp: func(t *testing.T, w *httptest.ResponseRecorder) {
				var resp service.SessionInfo
				parseResponse(t, w, &resp)
				if resp.ID != "ab12" {
					t.Errorf("Expected session ID ab12, got %s", resp.ID)
				}
			},
		},
		{
			name:        "Create session with specific scenario",
			requestBody: map[string]string{"scenario_id": "first_landing"},
			setupMock: func(m *MockGameService) {
				m.CreateSessionFunc = func(ctx context.Context, scenarioName string) (*service.SessionInfo, error) {
					if scenarioName != "first_landing" {
						t.Errorf("Expected scenario 'first_landing', got %s", scenarioName)
					}
					return &service.SessionInfo{
						ID:           "cd34",
						ScenarioName: scenarioName,
						CreatedAt:    time.Now(),
					}, nil
				}
			},
			expectedStatus: http.StatusCreated,
			validateResp: func(t *testing.T, w *httptest.ResponseRecorder) {
				var resp service.SessionInfo
				parseResponse(t, w, &resp)
				if resp.ScenarioName != "first_landing" {
					t.Errorf("Expected scenario 'first_landing', got %s", resp.ScenarioName)
				}
			},
		},
		{
			name:        "Handle service error",
			requestBody: nil,
			setupMock: func(m *MockGameService) {
				m.CreateSessionFunc = func(ctx context.Context, scenarioName string) (*service.SessionInfo, error) {
					return nil, fmt.Errorf("service error")
				}
			},
			expectedStatus: http.StatusInternalServerError,
			validateResp: func(t *testing.T, w *httptest.ResponseRecorder) {
				var resp map[string]string
				parseResponse(t, w, &resp)
				if resp["error"] != "service error" {
					t.Errorf("Expected error message 'service error', got %s", resp["error"])
				}
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockService := &MockGameService{}
			if tt.setupMock != nil {
				tt.setupMock(mockService)
			}

			server := setupTestServer(mockService)
			w := httptest.NewRecorder()
			req := makeRequest("POST", "/api/sessions", tt.requestBody)

			server.ServeHTTP(w, req)

			if w.Code != tt.expectedStatus {
				t.Errorf("Expected status %d, got %d", tt.expectedStatus, w.Code)
			}

			if tt.validateResp != nil {
				tt.validateResp(t, w)
			}
		})
	}
}

func TestListSessions(t *testing.T) {
	tests := []struct {
		name           string
		path           string
		setupMock      func(*MockGameService)
		expectedStatus int
		validateResp   func(*testing.T, *httptest.ResponseRecorder)
	}{
		{
			name: "List multiple sessions",
			path: "/api/sessions",
			setupMock: func(m *MockGameService) {
				m.ListSessionsFunc = func(ctx context.Context) ([]*service.SessionInfo, error) {
					return []*service.SessionInfo{
						{ID: "ab12", ScenarioName: "default"},
						{ID: "cd34", ScenarioName: "supply_run"},
					}, nil
				}
			},
			expectedStatus: http.StatusOK,
			validateResp: func(t *testing.T, w *httptest.ResponseRecorder) {
				var resp map[string]interface{}
				parseResponse(t, w, &resp)
				if resp["count"].(float64) != 2 {
					t.Errorf("Expected count 2, got %v", resp["count"])
				}
				sessions := resp["sessions"].([]interface{})
				if len(sessions) != 2 {
					t.Errorf("Expected 2 sessions, got %d", len(sessions))
				}
			},
		},
		{
			name: "Limit and sort by creation time",
			path: "/api/sessions?sort=created&order=asc&limit=1",
			setupMock: func(m *MockGameService) {
				m.ListSessionsFunc = func(ctx context.Context) ([]*service.SessionInfo, error) {
					base := time.Now()
					return []*service.SessionInfo{
						{ID: "newer", CreatedAt: base.Add(time.Hour)},
						{ID: "older", CreatedAt: base},
					}, nil
				}
			},
			expectedStatus: http.StatusOK,
			validateResp: func(t *testing.T, w *httptest.ResponseRecorder) {
				var resp map[string]interface{}
				parseResponse(t, w, &resp)
				sessions := resp["sessions"].([]interface{})
				if len(sessions) != 1 {
					t.Fatalf("Expected 1 session after limit, got %d", len(sessions))
				}
				first := sessions[0].(map[string]interface{})
				if first["id"] != "older" {
					t.Errorf("Expected oldest session first, got %v", first["id"])
				}
			},
		},
		{
			name: "Handle empty session list",
			path: "/api/sessions",
			setupMock: func(m *MockGameService) {
				m.ListSessionsFunc = func(ctx context.Context) ([]*service.SessionInfo, error) {
					return []*service.SessionInfo{}, nil
				}
			},
			expectedStatus: http.StatusOK,
			validateResp: func(t *testing.T, w *httptest.ResponseRecorder) {
				var resp map[string]interface{}
				parseResponse(t, w, &resp)
				if resp["count"].(float64) != 0 {
					t.Errorf("Expected count 0, got %v", resp["count"])
				}
			},
		},
		{
			name: "Handle service error",
			path: "/api/sessions",
			setupMock: func(m *MockGameService) {
				m.ListSessionsFunc = func(ctx context.Context) ([]*service.SessionInfo, error) {
					return nil, fmt.Errorf("storage error")
				}
			},
			expectedStatus: http.StatusInternalServerError,
			validateResp: func(t *testing.T, w *httptest.ResponseRecorder) {
				var resp map[string]string
				parseResponse(t, w, &resp)
				if resp["error"] != "storage error" {
					t.Errorf("Expected error 'storage error', got %s", resp["error"])
				}
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockService := &MockGameService{}
			if tt.setupMock != nil {
				tt.setupMock(mockService)
			}

			server := setupTestServer(mockService)
			w := httptest.NewRecorder()
			req := makeRequest("GET", tt.path, nil)

			server.ServeHTTP(w, req)

			if w.Code != tt.expectedStatus {
				t.Errorf("Expected status %d, got %d", tt.expectedStatus, w.Code)
			}

			if tt.validateResp != nil {
				tt.validateResp(t, w)
			}
		})
	}
}

func TestGetSession(t *testing.T) {
	mockService := &MockGameService{
		GetSessionFunc: func(ctx context.Context, sessionID string) (*service.SessionInfo, error) {
			if sessionID != "ab12" {
				return nil, fmt.Errorf("session not found: %s", sessionID)
			}
			return &service.SessionInfo{
				ID:           sessionID,
				ScenarioName: "default",
				CreatedAt:    time.Now(),
			}, nil
		},
	}
	server := setupTestServer(mockService)

	t.Run("Get existing session", func(t *testing.T) {
		w := httptest.NewRecorder()
		server.ServeHTTP(w, makeRequest("GET", "/api/sessions/ab12", nil))

		if w.Code != http.StatusOK {
			t.Errorf("Expected status 200, got %d", w.Code)
		}

		var resp service.SessionInfo
		parseResponse(t, w, &resp)
		if resp.ID != "ab12" {
			t.Errorf("Expected session ID ab12, got %s", resp.ID)
		}
	})

	t.Run("Session not found", func(t *testing.T) {
		w := httptest.NewRecorder()
		server.ServeHTTP(w, makeRequest("GET", "/api/sessions/nope", nil))

		if w.Code != http.StatusNotFound {
			t.Errorf("Expected status 404, got %d", w.Code)
		}
	})
}

func TestDeleteSession(t *testing.T) {
	mockService := &MockGameService{
		DeleteSessionFunc: func(ctx context.Context, sessionID string) error {
			if sessionID != "ab12" {
				return fmt.Errorf("session not found: %s", sessionID)
			}
			return nil
		},
	}
	server := setupTestServer(mockService)

	t.Run("Delete existing session", func(t *testing.T) {
		w := httptest.NewRecorder()
		server.ServeHTTP(w, makeRequest("DELETE", "/api/sessions/ab12", nil))

		if w.Code != http.StatusOK {
			t.Errorf("Expected status 200, got %d", w.Code)
		}

		var resp map[string]string
		parseResponse(t, w, &resp)
		if resp["message"] != "Session ab12 deleted" {
			t.Errorf("Unexpected message: %s", resp["message"])
		}
	})

	t.Run("Delete missing session", func(t *testing.T) {
		w := httptest.NewRecorder()
		server.ServeHTTP(w, makeRequest("DELETE", "/api/sessions/nope", nil))

		if w.Code != http.StatusNotFound {
			t.Errorf("Expected status 404, got %d", w.Code)
		}
	})
}

// Turn Operation Tests

func TestEndTurn(t *testing.T) {
	tests := []struct {
		name           string
		sessionID      string
		setupMock      func(*MockGameService)
		expectedStatus int
		validateResp   func(*testing.T, *httptest.ResponseRecorder)
	}{
		{
			name:      "Resolve a turn",
			sessionID: "ab12",
			setupMock: func(m *MockGameService) {
				m.EndTurnFunc = func(ctx context.Context, sessionID string) (*service.TurnOutcome, error) {
					return &service.TurnOutcome{
						Success: true,
						Turn:    3,
						Actions: []engine.ActionEntry{
							{Type: engine.ActionProduce, From: 0, To: 1, Resource: engine.Power, Amount: 3, Delta: 3},
							{Type: engine.ActionConsume, From: 2, To: 2, Resource: engine.Food, Amount: 9, Delta: -1},
						},
						Status:          engine.StatusPlaying,
						PlaybackPending: true,
						GameState:       &engine.GameState{Turn: 3},
					}, nil
				}
			},
			expectedStatus: http.StatusOK,
			validateResp: func(t *testing.T, w *httptest.ResponseRecorder) {
				var resp service.TurnOutcome
				parseResponse(t, w, &resp)
				if !resp.Success {
					t.Error("Expected successful turn")
				}
				if resp.Turn != 3 {
					t.Errorf("Expected turn 3, got %d", resp.Turn)
				}
				if len(resp.Actions) != 2 {
					t.Errorf("Expected 2 action entries, got %d", len(resp.Actions))
				}
				if !resp.PlaybackPending {
					t.Error("Expected playback to be pending after a resolved turn")
				}
			},
		},
		{
			name:      "Signal dropped while playback pending",
			sessionID: "ab12",
			setupMock: func(m *MockGameService) {
				m.EndTurnFunc = func(ctx context.Context, sessionID string) (*service.TurnOutcome, error) {
					return &service.TurnOutcome{
						Success:         false,
						Turn:            3,
						Status:          engine.StatusPlaying,
						Message:         "end-turn dropped: previous turn's playback not acknowledged",
						PlaybackPending: true,
						GameState:       &engine.GameState{Turn: 3},
					}, nil
				}
			},
			expectedStatus: http.StatusOK,
			validateResp: func(t *testing.T, w *httptest.ResponseRecorder) {
				var resp service.TurnOutcome
				parseResponse(t, w, &resp)
				if resp.Success {
					t.Error("Dropped signal should not be successful")
				}
				if resp.Turn != 3 {
					t.Errorf("Turn should not advance on a dropped signal, got %d", resp.Turn)
				}
			},
		},
		{
			name:      "Session not found",
			sessionID: "nope",
			setupMock: func(m *MockGameService) {
				m.EndTurnFunc = func(ctx context.Context, sessionID string) (*service.TurnOutcome, error) {
					return nil, fmt.Errorf("session not found: %s", sessionID)
				}
			},
			expectedStatus: http.StatusNotFound,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockService := &MockGameService{}
			if tt.setupMock != nil {
				tt.setupMock(mockService)
			}

			server := setupTestServer(mockService)
			w := httptest.NewRecorder()
			req := makeRequest("POST", "/api/sessions/"+tt.sessionID+"/end-turn", nil)

			server.ServeHTTP(w, req)

			if w.Code != tt.expectedStatus {
				t.Errorf("Expected status %d, got %d", tt.expectedStatus, w.Code)
			}

			if tt.validateResp != nil {
				tt.validateResp(t, w)
			}
		})
	}
}

func TestAckPlayback(t *testing.T) {
	acked := false
	mockService := &MockGameService{
		AckPlaybackFunc: func(ctx context.Context, sessionID string) error {
			if sessionID != "ab12" {
				return fmt.Errorf("session not found: %s", sessionID)
			}
			acked = true
			return nil
		},
	}
	server := setupTestServer(mockService)

	w := httptest.NewRecorder()
	server.ServeHTTP(w, makeRequest("POST", "/api/sessions/ab12/ack", nil))

	if w.Code != http.StatusOK {
		t.Errorf("Expected status 200, got %d", w.Code)
	}
	if !acked {
		t.Error("AckPlayback was not called on the service")
	}

	w = httptest.NewRecorder()
	server.ServeHTTP(w, makeRequest("POST", "/api/sessions/nope/ack", nil))
	if w.Code != http.StatusNotFound {
		t.Errorf("Expected status 404 for missing session, got %d", w.Code)
	}
}

func TestReset(t *testing.T) {
	mockService := &MockGameService{
		ResetFunc: func(ctx context.Context, sessionID string) (*engine.GameState, error) {
			return &engine.GameState{
				Turn:   0,
				Status: engine.StatusPlaying,
			}, nil
		},
	}
	server := setupTestServer(mockService)

	w := httptest.NewRecorder()
	server.ServeHTTP(w, makeRequest("POST", "/api/sessions/ab12/reset", nil))

	if w.Code != http.StatusOK {
		t.Errorf("Expected status 200, got %d", w.Code)
	}

	var resp map[string]interface{}
	parseResponse(t, w, &resp)
	state := resp["state"].(map[string]interface{})
	if state["turn"].(float64) != 0 {
		t.Errorf("Expected turn 0 after reset, got %v", state["turn"])
	}
}

func TestGetGameState(t *testing.T) {
	mockService := &MockGameService{
		GetGameStateFunc: func(ctx context.Context, sessionID string) (*engine.GameState, error) {
			if sessionID != "ab12" {
				return nil, fmt.Errorf("session not found: %s", sessionID)
			}
			return &engine.GameState{
				Turn:         5,
				Status:       engine.StatusPlaying,
				ScenarioName: "default",
			}, nil
		},
	}
	server := setupTestServer(mockService)

	w := httptest.NewRecorder()
	server.ServeHTTP(w, makeRequest("GET", "/api/sessions/ab12/state", nil))

	if w.Code != http.StatusOK {
		t.Errorf("Expected status 200, got %d", w.Code)
	}

	var resp engine.GameState
	parseResponse(t, w, &resp)
	if resp.Turn != 5 {
		t.Errorf("Expected turn 5, got %d", resp.Turn)
	}
	if resp.ScenarioName != "default" {
		t.Errorf("Expected scenario 'default', got %s", resp.ScenarioName)
	}
}

func TestGetHistory(t *testing.T) {
	var captured service.HistoryOptions
	mockService := &MockGameService{
		GetTurnHistoryFunc: func(ctx context.Context, sessionID string, opts service.HistoryOptions) (*service.HistoryResponse, error) {
			captured = opts
			return &service.HistoryResponse{
				Turns: []engine.TurnSummary{
					{Turn: 2, Actions: 4, Status: engine.StatusPlaying},
					{Turn: 1, Actions: 3, Status: engine.StatusPlaying},
				},
				TotalTurns: 2,
				Page:       opts.Page,
				PageSize:   opts.Limit,
				TotalPages: 1,
			}, nil
		},
	}
	server := setupTestServer(mockService)

	t.Run("Defaults applied", func(t *testing.T) {
		w := httptest.NewRecorder()
		server.ServeHTTP(w, makeRequest("GET", "/api/sessions/ab12/history", nil))

		if w.Code != http.StatusOK {
			t.Errorf("Expected status 200, got %d", w.Code)
		}
		if captured.Page != 1 || captured.Limit != 20 || captured.Order != "desc" {
			t.Errorf("Expected defaults page=1 limit=20 order=desc, got %+v", captured)
		}
	})

	t.Run("Query parameters forwarded", func(t *testing.T) {
		w := httptest.NewRecorder()
		server.ServeHTTP(w, makeRequest("GET", "/api/sessions/ab12/history?page=3&limit=5&order=asc", nil))

		if w.Code != http.StatusOK {
			t.Errorf("Expected status 200, got %d", w.Code)
		}
		if captured.Page != 3 || captured.Limit != 5 || captured.Order != "asc" {
			t.Errorf("Expected page=3 limit=5 order=asc, got %+v", captured)
		}
	})

	t.Run("Invalid parameters fall back to defaults", func(t *testing.T) {
		w := httptest.NewRecorder()
		server.ServeHTTP(w, makeRequest("GET", "/api/sessions/ab12/history?page=-1&limit=zero&order=sideways", nil))

		if w.Code != http.StatusOK {
			t.Errorf("Expected status 200, got %d", w.Code)
		}
		if captured.Page != 1 || captured.Limit != 20 || captured.Order != "desc" {
			t.Errorf("Expected defaults on invalid params, got %+v", captured)
		}
	})
}

// Colony Operation Tests

func TestBuild(t *testing.T) {
	tests := []struct {
		name           string
		body           interface{}
		setupMock      func(*MockGameService)
		expectedStatus int
		validateResp   func(*testing.T, *httptest.ResponseRecorder)
	}{
		{
			name: "Build a construction",
			body: map[string]interface{}{"node": 4, "kind": "solar_field"},
			setupMock: func(m *MockGameService) {
				m.BuildFunc = func(ctx context.Context, sessionID string, node engine.NodeID, kind engine.ConstructionKind) (*service.ActionOutcome, error) {
					if node != 4 {
						t.Errorf("Expected node 4, got %d", node)
					}
					if kind != engine.SolarField {
						t.Errorf("Expected kind solar_field, got %s", kind)
					}
					return &service.ActionOutcome{
						Success: true,
						Actions: []engine.ActionEntry{
							{Type: engine.ActionConsume, From: 2, To: 4, Resource: engine.Material, Amount: 5, Delta: 5},
						},
						GameState: &engine.GameState{},
					}, nil
				}
			},
			expectedStatus: http.StatusOK,
			validateResp: func(t *testing.T, w *httptest.ResponseRecorder) {
				var resp service.ActionOutcome
				parseResponse(t, w, &resp)
				if !resp.Success {
					t.Error("Expected successful build")
				}
				if len(resp.Actions) != 1 {
					t.Errorf("Expected 1 consume entry, got %d", len(resp.Actions))
				}
			},
		},
		{
			name: "Rule violation reported in outcome",
			body: map[string]interface{}{"node": 0, "kind": "solar_field"},
			setupMock: func(m *MockGameService) {
				m.BuildFunc = func(ctx context.Context, sessionID string, node engine.NodeID, kind engine.ConstructionKind) (*service.ActionOutcome, error) {
					return &service.ActionOutcome{
						Success:   false,
						Message:   "node already occupied",
						GameState: &engine.GameState{},
					}, nil
				}
			},
			expectedStatus: http.StatusOK,
			validateResp: func(t *testing.T, w *httptest.ResponseRecorder) {
				var resp service.ActionOutcome
				parseResponse(t, w, &resp)
				if resp.Success {
					t.Error("Expected failed outcome")
				}
				if resp.Message != "node already occupied" {
					t.Errorf("Unexpected message: %s", resp.Message)
				}
			},
		},
		{
			name:           "Invalid request body",
			body:           "not an object",
			expectedStatus: http.StatusBadRequest,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockService := &MockGameService{}
			if tt.setupMock != nil {
				tt.setupMock(mockService)
			}

			server := setupTestServer(mockService)
			w := httptest.NewRecorder()
			req := makeRequest("POST", "/api/sessions/ab12/build", tt.body)

			server.ServeHTTP(w, req)

			if w.Code != tt.expectedStatus {
				t.Errorf("Expected status %d, got %d", tt.expectedStatus, w.Code)
			}

			if tt.validateResp != nil {
				tt.validateResp(t, w)
			}
		})
	}
}

func TestDemolish(t *testing.T) {
	mockService := &MockGameService{
		DemolishFunc: func(ctx context.Context, sessionID string, node engine.NodeID) (*service.ActionOutcome, error) {
			if node != 1 {
				t.Errorf("Expected node 1, got %d", node)
			}
			return &service.ActionOutcome{Success: true, GameState: &engine.GameState{}}, nil
		},
	}
	server := setupTestServer(mockService)

	w := httptest.NewRecorder()
	server.ServeHTTP(w, makeRequest("POST", "/api/sessions/ab12/demolish", map[string]int{"node": 1}))

	if w.Code != http.StatusOK {
		t.Errorf("Expected status 200, got %d", w.Code)
	}

	var resp service.ActionOutcome
	parseResponse(t, w, &resp)
	if !resp.Success {
		t.Error("Expected successful demolish")
	}
}

func TestTransfer(t *testing.T) {
	mockService := &MockGameService{
		TransferFunc: func(ctx context.Context, sessionID string, from, to engine.NodeID, amount int) (*service.ActionOutcome, error) {
			if from != 2 || to != 5 || amount != 7 {
				t.Errorf("Unexpected transfer args: from=%d to=%d amount=%d", from, to, amount)
			}
			return &service.ActionOutcome{
				Success: true,
				Actions: []engine.ActionEntry{
					{Type: engine.ActionConsume, From: 2, To: 5, Resource: engine.Food, Amount: 3, Delta: -7},
					{Type: engine.ActionProduce, From: 2, To: 5, Resource: engine.Food, Amount: 7, Delta: 7},
				},
				GameState: &engine.GameState{},
			}, nil
		},
	}
	server := setupTestServer(mockService)

	w := httptest.NewRecorder()
	server.ServeHTTP(w, makeRequest("POST", "/api/sessions/ab12/transfer",
		map[string]int{"from": 2, "to": 5, "amount": 7}))

	if w.Code != http.StatusOK {
		t.Errorf("Expected status 200, got %d", w.Code)
	}

	var resp service.ActionOutcome
	parseResponse(t, w, &resp)
	if !resp.Success {
		t.Error("Expected successful transfer")
	}
	if len(resp.Actions) != 2 {
		t.Errorf("Expected paired consume/produce entries, got %d", len(resp.Actions))
	}
}

func TestPlanTravel(t *testing.T) {
	mockService := &MockGameService{
		PlanTravelFunc: func(ctx context.Context, sessionID string, dest engine.GroupID) (*service.ActionOutcome, error) {
			if dest != 2 {
				t.Errorf("Expected destination 2, got %d", dest)
			}
			return &service.ActionOutcome{Success: true, GameState: &engine.GameState{}}, nil
		},
	}
	server := setupTestServer(mockService)

	w := httptest.NewRecorder()
	server.ServeHTTP(w, makeRequest("POST", "/api/sessions/ab12/plan-travel",
		map[string]int{"destination": 2}))

	if w.Code != http.StatusOK {
		t.Errorf("Expected status 200, got %d", w.Code)
	}
}

// Scenario Tests

func TestListScenarios(t *testing.T) {
	mockService := &MockGameService{
		ListScenariosFunc: func(ctx context.Context) ([]*service.ScenarioInfo, error) {
			return []*service.ScenarioInfo{
				{ScenarioID: "first_landing", Name: "First Landing", Groups: 4, Nodes: 12},
				{ScenarioID: "supply_run", Name: "Supply Run", Groups: 3, Nodes: 9},
			}, nil
		},
	}
	server := setupTestServer(mockService)

	w := httptest.NewRecorder()
	server.ServeHTTP(w, makeRequest("GET", "/api/scenarios", nil))

	if w.Code != http.StatusOK {
		t.Errorf("Expected status 200, got %d", w.Code)
	}

	var resp []*service.ScenarioInfo
	parseResponse(t, w, &resp)
	if len(resp) != 2 {
		t.Fatalf("Expected 2 scenarios, got %d", len(resp))
	}
	if resp[0].ScenarioID != "first_landing" {
		t.Errorf("Expected first_landing, got %s", resp[0].ScenarioID)
	}
}

func TestGetScenario(t *testing.T) {
	mockService := &MockGameService{
		LoadScenarioFunc: func(ctx context.Context, scenarioName string) (*engine.ScenarioConfig, error) {
			if scenarioName != "first_landing" {
				return nil, fmt.Errorf("scenario not found: %s", scenarioName)
			}
			return &engine.ScenarioConfig{Name: scenarioName}, nil
		},
	}
	server := setupTestServer(mockService)

	t.Run("Found with extension stripped", func(t *testing.T) {
		w := httptest.NewRecorder()
		server.ServeHTTP(w, makeRequest("GET", "/api/scenarios/first_landing.json", nil))

		if w.Code != http.StatusOK {
			t.Errorf("Expected status 200, got %d", w.Code)
		}

		var resp engine.ScenarioConfig
		parseResponse(t, w, &resp)
		if resp.Name != "first_landing" {
			t.Errorf("Expected first_landing, got %s", resp.Name)
		}
	})

	t.Run("Not found", func(t *testing.T) {
		w := httptest.NewRecorder()
		server.ServeHTTP(w, makeRequest("GET", "/api/scenarios/missing", nil))

		if w.Code != http.StatusNotFound {
			t.Errorf("Expected status 404, got %d", w.Code)
		}
	})
}

func TestCreateScenario(t *testing.T) {
	t.Run("Save valid scenario", func(t *testing.T) {
		saved := ""
		mockService := &MockGameService{
			SaveScenarioFunc: func(ctx context.Context, scenarioName string, cfg *engine.ScenarioConfig) error {
				saved = scenarioName
				return nil
			},
		}
		server := setupTestServer(mockService)

		w := httptest.NewRecorder()
		server.ServeHTTP(w, makeRequest("POST", "/api/scenarios", engine.DefaultScenario()))

		if w.Code != http.StatusCreated {
			t.Errorf("Expected status 201, got %d", w.Code)
		}
		if saved != "default" {
			t.Errorf("Expected scenario 'default' saved, got %q", saved)
		}
	})

	t.Run("Reject scenario without a name", func(t *testing.T) {
		server := setupTestServer(&MockGameService{})

		w := httptest.NewRecorder()
		server.ServeHTTP(w, makeRequest("POST", "/api/scenarios", map[string]string{"description": "nameless"}))

		if w.Code != http.StatusBadRequest {
			t.Errorf("Expected status 400, got %d", w.Code)
		}
	})
}

// Infrastructure Tests

func TestHealth(t *testing.T) {
	server := setupTestServer(&MockGameService{})

	w := httptest.NewRecorder()
	server.ServeHTTP(w, makeRequest("GET", "/api/health", nil))

	if w.Code != http.StatusOK {
		t.Errorf("Expected status 200, got %d", w.Code)
	}

	var resp map[string]string
	parseResponse(t, w, &resp)
	if resp["status"] != "healthy" {
		t.Errorf("Expected healthy status, got %s", resp["status"])
	}
}

func TestWebSocketEndpointValidation(t *testing.T) {
	mockService := &MockGameService{
		GetSessionFunc: func(ctx context.Context, sessionID string) (*service.SessionInfo, error) {
			return nil, fmt.Errorf("session not found: %s", sessionID)
		},
	}
	server := setupTestServer(mockService)

	t.Run("Missing session parameter", func(t *testing.T) {
		w := httptest.NewRecorder()
		server.ServeHTTP(w, makeRequest("GET", "/ws", nil))

		if w.Code != http.StatusBadRequest {
			t.Errorf("Expected status 400, got %d", w.Code)
		}
	})

	t.Run("Unknown session", func(t *testing.T) {
		w := httptest.NewRecorder()
		server.ServeHTTP(w, makeRequest("GET", "/ws?session=nope", nil))

		if w.Code != http.StatusNotFound {
			t.Errorf("Expected status 404, got %d", w.Code)
		}
	})
}

func TestUnknownRoute(t *testing.T) {
	server := setupTestServer(&MockGameService{})

	w := httptest.NewRecorder()
	server.ServeHTTP(w, makeRequest("GET", "/api/nonsense", nil))

	if w.Code != http.StatusNotFound {
		t.Errorf("Expected status 404 for unknown route, got %d", w.Code)
	}
}

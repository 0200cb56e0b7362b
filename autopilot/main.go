// Command autopilot plays the colony simulation against a running API
// server. It opens (or resumes) a session, then loops: plan colony actions,
// end the turn, acknowledge the playback, until the run is won or lost.
package main

import (
	"bytes"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"log"
	"net/http"
	"os"
	"time"
)

// Wire mirrors of the API's JSON shapes. The autopilot is a standalone
// module and talks to the server the same way any external client would.

type Occupant struct {
	Type         string `json:"type"`
	Resource     string `json:"resource,omitempty"`
	Amount       int    `json:"amount,omitempty"`
	Construction string `json:"construction,omitempty"`
	Cooldown     int    `json:"cooldown,omitempty"`
}

type ColonyMap struct {
	Nodes      []int             `json:"nodes"`
	GroupOrder []int             `json:"group_order"`
	Groups     map[int][]int     `json:"groups"`
	Edges      [][2]int          `json:"edges"`
	Occupation map[int]*Occupant `json:"occupation"`
}

type Ship struct {
	Current int  `json:"current"`
	Home    int  `json:"home"`
	Planned *int `json:"planned,omitempty"`
}

type GameState struct {
	Turn         int        `json:"turn"`
	Map          *ColonyMap `json:"map"`
	Ship         Ship       `json:"ship"`
	Status       string     `json:"status"`
	Message      string     `json:"message"`
	ScenarioName string     `json:"scenario_name"`
}

type SessionResponse struct {
	ID           string     `json:"id"`
	ScenarioName string     `json:"scenario_name"`
	GameState    *GameState `json:"game_state"`
}

type TurnOutcome struct {
	Success         bool       `json:"success"`
	Turn            int        `json:"turn"`
	Status          string     `json:"status"`
	Message         string     `json:"message"`
	PlaybackPending bool       `json:"playback_pending"`
	GameState       *GameState `json:"game_state"`
}

type ActionOutcome struct {
	Success   bool       `json:"success"`
	Message   string     `json:"message"`
	GameState *GameState `json:"game_state"`
}

type Client struct {
	baseURL   string
	sessionID string
	client    *http.Client
}

func NewClient(baseURL string) *Client {
	return &Client{
		baseURL: baseURL,
		client: &http.Client{
			Timeout: 10 * time.Second,
		},
	}
}

func (c *Client) CreateSession(scenarioID string) (*GameState, error) {
	var reqBody []byte
	var err error

	if scenarioID != "" {
		reqBody, err = json.Marshal(map[string]string{"scenario_id": scenarioID})
		if err != nil {
			return nil, fmt.Errorf("marshal request: %w", err)
		}
	}

	resp, err := c.client.Post(c.baseURL+"/api/sessions", "application/json", bytes.NewBuffer(reqBody))
	if err != nil {
		return nil, fmt.Errorf("create session: %w", err)
	}
	defer resp.Body.Close()

	body, _ := io.ReadAll(resp.Body)
	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusCreated {
		return nil, fmt.Errorf("create session failed: %s - %s", resp.Status, string(body))
	}

	var session SessionResponse
	if err := json.Unmarshal(body, &session); err != nil {
		return nil, fmt.Errorf("parse session response: %w", err)
	}

	c.sessionID = session.ID
	return session.GameState, nil
}

func (c *Client) GetState() (*GameState, error) {
	url := fmt.Sprintf("%s/api/sessions/%s/state", c.baseURL, c.sessionID)
	resp, err := c.client.Get(url)
	if err != nil {
		return nil, fmt.Errorf("get state: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("get state failed: %s - %s", resp.Status, string(body))
	}

	var state GameState
	if err := json.NewDecoder(resp.Body).Decode(&state); err != nil {
		return nil, fmt.Errorf("parse state: %w", err)
	}

	return &state, nil
}

func (c *Client) EndTurn() (*TurnOutcome, error) {
	url := fmt.Sprintf("%s/api/sessions/%s/end-turn", c.baseURL, c.sessionID)
	resp, err := c.client.Post(url, "application/json", nil)
	if err != nil {
		return nil, fmt.Errorf("end turn: %w", err)
	}
	defer resp.Body.Close()

	var outcome TurnOutcome
	if err := json.NewDecoder(resp.Body).Decode(&outcome); err != nil {
		return nil, fmt.Errorf("parse end-turn response: %w", err)
	}

	return &outcome, nil
}

func (c *Client) Ack() error {
	url := fmt.Sprintf("%s/api/sessions/%s/ack", c.baseURL, c.sessionID)
	resp, err := c.client.Post(url, "application/json", nil)
	if err != nil {
		return fmt.Errorf("ack playback: %w", err)
	}
	defer resp.Body.Close()
	return nil
}

type ResetResponse struct {
	Message string     `json:"message"`
	State   *GameState `json:"state"`
}

func (c *Client) Reset() (*GameState, error) {
	url := fmt.Sprintf("%s/api/sessions/%s/reset", c.baseURL, c.sessionID)
	resp, err := c.client.Post(url, "application/json", nil)
	if err != nil {
		return nil, fmt.Errorf("reset: %w", err)
	}
	defer resp.Body.Close()

	var resetResp ResetResponse
	if err := json.NewDecoder(resp.Body).Decode(&resetResp); err != nil {
		return nil, fmt.Errorf("parse reset response: %w", err)
	}

	return resetResp.State, nil
}

func (c *Client) Apply(action Action) (*ActionOutcome, error) {
	var path string
	var body interface{}

	switch action.Type {
	case "build":
		path = "build"
		body = map[string]interface{}{"node": action.Node, "kind": action.Kind}
	case "demolish":
		path = "demolish"
		body = map[string]interface{}{"node": action.Node}
	case "transfer":
		path = "transfer"
		body = map[string]interface{}{"from": action.From, "to": action.To, "amount": action.Amount}
	case "plan_travel":
		path = "plan-travel"
		body = map[string]interface{}{"destination": action.Dest}
	default:
		return nil, fmt.Errorf("unknown action type %q", action.Type)
	}

	data, err := json.Marshal(body)
	if err != nil {
		return nil, fmt.Errorf("marshal action: %w", err)
	}

	url := fmt.Sprintf("%s/api/sessions/%s/%s", c.baseURL, c.sessionID, path)
	resp, err := c.client.Post(url, "application/json", bytes.NewBuffer(data))
	if err != nil {
		return nil, fmt.Errorf("apply %s: %w", action.Type, err)
	}
	defer resp.Body.Close()

	var outcome ActionOutcome
	if err := json.NewDecoder(resp.Body).Decode(&outcome); err != nil {
		return nil, fmt.Errorf("parse %s response: %w", action.Type, err)
	}

	return &outcome, nil
}

func main() {
	serverURL := flag.String("url", "http://localhost:8080", "Game server URL")
	scenarioID := flag.String("scenario", "", "Scenario to play (empty = server default)")
	continueSession := flag.String("continue", "", "Resume playing an existing session by ID")
	maxTurns := flag.Int("max-turns", 500, "Maximum turns per attempt")
	maxAttempts := flag.Int("max-attempts", 20, "Maximum attempts before giving up")
	verbose := flag.Bool("v", false, "Verbose output")
	delayMs := flag.Int("delay", 0, "Delay between turns in milliseconds (0 = no delay)")
	flag.Parse()

	log.Printf("Connecting to game server at %s", *serverURL)
	client := NewClient(*serverURL)

	var state *GameState
	var err error

	// Check for saved session ID
	sessionFile := ".session"
	savedSessionID := ""

	if *continueSession != "" {
		savedSessionID = *continueSession
	} else {
		if data, err := os.ReadFile(sessionFile); err == nil {
			savedSessionID = string(bytes.TrimSpace(data))
		}
	}

	if savedSessionID != "" {
		client.sessionID = savedSessionID
		log.Printf("Resuming session: %s", client.sessionID)
		state, err = client.GetState()
		if err != nil {
			log.Printf("Failed to resume session (may be expired): %v", err)
			log.Printf("Creating new session...")
			savedSessionID = ""
		} else {
			log.Printf("Session resumed - Scenario: %s, Turn: %d, Status: %s",
				state.ScenarioName, state.Turn, state.Status)
		}
	}

	if savedSessionID == "" {
		state, err = client.CreateSession(*scenarioID)
		if err != nil {
			log.Fatalf("Failed to create session: %v", err)
		}
		log.Printf("Session created: %s (scenario %s)", client.sessionID, state.ScenarioName)

		if err := os.WriteFile(sessionFile, []byte(client.sessionID), 0644); err != nil {
			log.Printf("Warning: Failed to save session ID: %v", err)
		}
	}

	strategy := NewStrategy()

	attemptNum := 0
	for attemptNum < *maxAttempts {
		attemptNum++

		// Reset the game for this attempt
		state, err = client.Reset()
		if err != nil {
			log.Printf("Failed to reset: %v", err)
			break
		}

		log.Printf("\n=== Attempt %d/%d ===", attemptNum, *maxAttempts)

		turnCount := 0
		for state.Status == "playing" && turnCount < *maxTurns {
			// Plan and apply colony actions before resolving the turn
			actions := strategy.PlanActions(state)
			for _, action := range actions {
				outcome, err := client.Apply(action)
				if err != nil {
					log.Printf("Action %s failed: %v", action.Type, err)
					continue
				}
				if !outcome.Success && *verbose {
					log.Printf("Action %s rejected: %s", action.Type, outcome.Message)
				}
				if outcome.GameState != nil {
					state = outcome.GameState
				}
			}

			// Resolve the turn and drain the playback gate
			turnOutcome, err := client.EndTurn()
			if err != nil {
				log.Printf("End turn failed: %v", err)
				break
			}
			if !turnOutcome.Success {
				// Most likely a pending playback left over from a previous
				// client. Acknowledge and retry once.
				if err := client.Ack(); err != nil {
					log.Printf("Ack failed: %v", err)
					break
				}
				continue
			}

			state = turnOutcome.GameState
			turnCount++

			if err := client.Ack(); err != nil {
				log.Printf("Ack failed: %v", err)
				break
			}

			if *verbose && turnCount%25 == 0 {
				log.Printf("Turn %d: status=%s home pool=%v",
					state.Turn, state.Status, pooled(state.Map, state.Ship.Home))
			}

			if *delayMs > 0 {
				time.Sleep(time.Duration(*delayMs) * time.Millisecond)
			}
		}

		log.Printf("Attempt %d: turns=%d status=%s home pool=%v",
			attemptNum, turnCount, state.Status, pooled(state.Map, state.Ship.Home))

		if state.Status == "won" {
			log.Printf("\nVICTORY! Scenario %s won in attempt %d after %d turns",
				state.ScenarioName, attemptNum, turnCount)
			log.Printf("Session: %s", client.sessionID)
			os.Exit(0)
		}
	}

	log.Printf("\nFailed to win after %d attempts", attemptNum)
	log.Printf("Session: %s", client.sessionID)
	os.Exit(1)
}

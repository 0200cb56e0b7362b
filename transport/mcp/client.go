package mcp

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"sort"
	"strings"
	"time"

	"github.com/jacopograndi/ld54/game/engine"
	"github.com/jacopograndi/ld54/game/service"
	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
)

// Client is a thin MCP client that proxies to the REST API
type Client struct {
	baseURL    string
	httpClient *http.Client
	mcpServer  *server.MCPServer
}

// NewClient creates a new MCP client that calls the REST API
func NewClient(baseURL string) *Client {
	c := &Client{
		baseURL: baseURL,
		httpClient: &http.Client{
			Timeout: 10 * time.Second,
		},
	}

	c.initMCPServer()
	return c
}

// initMCPServer initializes the MCP server with all tools
func (c *Client) initMCPServer() {
	c.mcpServer = server.NewMCPServer(
		"Limited Space Colony",
		"1.0.0",
		server.WithToolCapabilities(true),
		server.WithInstructions(`Limited Space Colony - MCP Interface

This is a thin client that proxies all requests to the REST API server.

GAME OBJECTIVE:
Grow your colony's home sector until its pooled resources strictly exceed
every victory threshold, while keeping enough food to survive each turn.

CORE LOOP:
Each end-turn resolves deterministically: constructions off cooldown consume
their requested resources from the pooled sector stock and produce output,
one unit of the survival resource is consumed at the home sector, and the
ship carries out its planned travel (burning one unit of fuel). The resolved
turn's action log must be acknowledged (ack_playback) before the next
end-turn is accepted; unacknowledged end-turns are dropped, not queued.

AVAILABLE TOOLS:
- colony_state: Get current colony state
- end_turn: Resolve one turn - requires intent explanation
- ack_playback: Acknowledge the last turn's action log
- build: Place a construction on an empty node
- demolish: Remove a construction
- transfer: Move resources between stockpile nodes
- plan_travel: Plan the ship's move for the next turn
- reset_game: Reset to the scenario's initial state
- turn_history: View past turns
- create_session: Create new game session
- get_session: Get session details
- list_sessions: List all active sessions
- list_scenarios: List available scenarios
- game_instructions: Get comprehensive game instructions and rules

NOTE: The 'intent' parameter on end_turn serves as rubber duck debugging - explain your reasoning!`),
	)

	// Register all tools
	c.registerTools()
}

// registerTools registers all MCP tools
func (c *Client) registerTools() {
	// Session management
	c.mcpServer.AddTool(mcp.Tool{
		Name:        "create_session",
		Description: "Create a new game session with optional scenario selection",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"scenario_id": map[string]interface{}{
					"type":        "string",
					"description": "Identifier of the scenario to play (optional)",
				},
			},
		},
	}, c.handleCreateSession)

	c.mcpServer.AddTool(mcp.Tool{
		Name:        "list_sessions",
		Description: "List all active game sessions",
		InputSchema: mcp.ToolInputSchema{
			Type:       "object",
			Properties: map[string]interface{}{},
		},
	}, c.handleListSessions)

	c.mcpServer.AddTool(mcp.Tool{
		Name:        "get_session",
		Description: "Get details of a specific session",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"session_id": map[string]interface{}{
					"type":        "string",
					"description": "Session ID to retrieve",
				},
			},
			Required: []string{"session_id"},
		},
	}, c.handleGetSession)

	// Colony state and turn resolution
	c.mcpServer.AddTool(mcp.Tool{
		Name:        "colony_state",
		Description: "Get the current colony state: sectors, nodes, pooled resources, ship position",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"session_id": map[string]interface{}{
					"type":        "string",
					"description": "Session ID",
				},
			},
			Required: []string{"session_id"},
		},
	}, c.handleColonyState)

	c.mcpServer.AddTool(mcp.Tool{
		Name:        "end_turn",
		Description: "Resolve one turn: production, survival, and ship travel. Dropped while the previous turn's log is unacknowledged.",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"session_id": map[string]interface{}{
					"type":        "string",
					"description": "Session ID",
				},
				"intent": map[string]interface{}{
					"type":        "string",
					"description": "Brief explanation of the intent behind ending the turn (serves as a rubber duck to help explain your reasoning)",
				},
			},
			Required: []string{"session_id"},
		},
	}, c.handleEndTurn)

	c.mcpServer.AddTool(mcp.Tool{
		Name:        "ack_playback",
		Description: "Acknowledge the last resolved turn's action log, re-arming end_turn",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"session_id": map[string]interface{}{
					"type":        "string",
					"description": "Session ID",
				},
			},
			Required: []string{"session_id"},
		},
	}, c.handleAckPlayback)

	// Colony operations
	c.mcpServer.AddTool(mcp.Tool{
		Name:        "build",
		Description: "Place a construction on an empty node, paying its build cost from the sector's pooled stock",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"session_id": map[string]interface{}{
					"type":        "string",
					"description": "Session ID",
				},
				"node": map[string]interface{}{
					"type":        "integer",
					"description": "Empty node to build on",
				},
				"kind": map[string]interface{}{
					"type":        "string",
					"enum":        []string{"solar_field", "hydroponics_farm", "material_mine", "fuel_refinery", "fusion_plant"},
					"description": "Construction kind from the catalog",
				},
			},
			Required: []string{"session_id", "node", "kind"},
		},
	}, c.handleBuild)

	c.mcpServer.AddTool(mcp.Tool{
		Name:        "demolish",
		Description: "Remove a construction from a node, freeing the slot (no refund)",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"session_id": map[string]interface{}{
					"type":        "string",
					"description": "Session ID",
				},
				"node": map[string]interface{}{
					"type":        "integer",
					"description": "Node holding the construction",
				},
			},
			Required: []string{"session_id", "node"},
		},
	}, c.handleDemolish)

	c.mcpServer.AddTool(mcp.Tool{
		Name:        "transfer",
		Description: "Move resources from a stockpile node to another node in a reachable sector",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"session_id": map[string]interface{}{
					"type":        "string",
					"description": "Session ID",
				},
				"from": map[string]interface{}{
					"type":        "integer",
					"description": "Source stockpile node",
				},
				"to": map[string]interface{}{
					"type":        "integer",
					"description": "Destination node (empty or a stockpile of the same resource)",
				},
				"amount": map[string]interface{}{
					"type":        "integer",
					"description": "Units to move",
				},
			},
			Required: []string{"session_id", "from", "to", "amount"},
		},
	}, c.handleTransfer)

	c.mcpServer.AddTool(mcp.Tool{
		Name:        "plan_travel",
		Description: "Plan the ship's relocation to a neighboring sector; executes at the end of the next turn for one unit of fuel",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"session_id": map[string]interface{}{
					"type":        "string",
					"description": "Session ID",
				},
				"destination": map[string]interface{}{
					"type":        "integer",
					"description": "Neighboring sector to travel to",
				},
			},
			Required: []string{"session_id", "destination"},
		},
	}, c.handlePlanTravel)

	c.mcpServer.AddTool(mcp.Tool{
		Name:        "reset_game",
		Description: "Reset the run to the scenario's initial state (turn history is kept)",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"session_id": map[string]interface{}{
					"type":        "string",
					"description": "Session ID",
				},
			},
			Required: []string{"session_id"},
		},
	}, c.handleReset)

	c.mcpServer.AddTool(mcp.Tool{
		Name:        "turn_history",
		Description: "Get turn history for a session",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"session_id": map[string]interface{}{
					"type":        "string",
					"description": "Session ID",
				},
				"page": map[string]interface{}{
					"type":        "integer",
					"description": "Page number",
				},
				"limit": map[string]interface{}{
					"type":        "integer",
					"description": "Items per page",
				},
			},
			Required: []string{"session_id"},
		},
	}, c.handleTurnHistory)

	c.mcpServer.AddTool(mcp.Tool{
		Name:        "list_scenarios",
		Description: "List available scenarios",
		InputSchema: mcp.ToolInputSchema{
			Type:       "object",
			Properties: map[string]interface{}{},
		},
	}, c.handleListScenarios)

	c.mcpServer.AddTool(mcp.Tool{
		Name:        "game_instructions",
		Description: "Get comprehensive game instructions and rules",
		InputSchema: mcp.ToolInputSchema{
			Type:       "object",
			Properties: map[string]interface{}{},
		},
	}, c.handleGameInstructions)
}

// GetMCPServer returns the underlying MCP server for serving
func (c *Client) GetMCPServer() *server.MCPServer {
	return c.mcpServer
}

// Helper methods for API calls

func (c *Client) apiCall(method, path string, body interface{}, result interface{}) error {
	url := c.baseURL + path

	var reqBody io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return err
		}
		reqBody = bytes.NewBuffer(data)
	}

	req, err := http.NewRequest(method, url, reqBody)
	if err != nil {
		return err
	}

	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		var errResp map[string]string
		json.NewDecoder(resp.Body).Decode(&errResp)
		if msg, ok := errResp["error"]; ok {
			return fmt.Errorf("%s", msg)
		}
		return fmt.Errorf("API error: %d", resp.StatusCode)
	}

	if result != nil {
		return json.NewDecoder(resp.Body).Decode(result)
	}

	return nil
}

// Tool handlers

func (c *Client) handleCreateSession(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := request.Params.Arguments.(map[string]interface{})
	scenarioID, _ := args["scenario_id"].(string)

	body := map[string]string{}
	if scenarioID != "" {
		body["scenario_id"] = scenarioID
	}

	var session service.SessionInfo
	err := c.apiCall("POST", "/api/sessions", body, &session)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	result := fmt.Sprintf("Created session: %s\nScenario: %s\n", session.ID, session.ScenarioName)
	return mcp.NewToolResultText(result), nil
}

func (c *Client) handleListSessions(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	var response struct {
		Count    int                   `json:"count"`
		Sessions []service.SessionInfo `json:"sessions"`
	}

	err := c.apiCall("GET", "/api/sessions", nil, &response)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	result := fmt.Sprintf("Active Sessions (%d):\n\n", response.Count)
	for _, s := range response.Sessions {
		result += fmt.Sprintf("- %s (Scenario: %s, Created: %s)\n",
			s.ID, s.ScenarioName, s.CreatedAt.Format("15:04:05"))
	}

	return mcp.NewToolResultText(result), nil
}

func (c *Client) handleGetSession(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := request.Params.Arguments.(map[string]interface{})
	sessionID, _ := args["session_id"].(string)

	var session service.SessionInfo
	err := c.apiCall("GET", fmt.Sprintf("/api/sessions/%s", sessionID), nil, &session)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	result := formatSessionInfo(&session)
	return mcp.NewToolResultText(result), nil
}

func (c *Client) handleColonyState(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := request.Params.Arguments.(map[string]interface{})
	sessionID, _ := args["session_id"].(string)

	var state engine.GameState
	err := c.apiCall("GET", fmt.Sprintf("/api/sessions/%s/state", sessionID), nil, &state)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	result := formatGameState(&state)
	return mcp.NewToolResultText(result), nil
}

func (c *Client) handleEndTurn(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := request.Params.Arguments.(map[string]interface{})
	sessionID, _ := args["session_id"].(string)
	intent, _ := args["intent"].(string)

	// Intent parameter serves as rubber duck debugging - we don't need to process it further
	_ = intent

	var outcome service.TurnOutcome
	err := c.apiCall("POST", fmt.Sprintf("/api/sessions/%s/end-turn", sessionID), nil, &outcome)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	response := formatTurnOutcome(&outcome)
	return mcp.NewToolResultText(response), nil
}

func (c *Client) handleAckPlayback(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := request.Params.Arguments.(map[string]interface{})
	sessionID, _ := args["session_id"].(string)

	err := c.apiCall("POST", fmt.Sprintf("/api/sessions/%s/ack", sessionID), nil, nil)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	return mcp.NewToolResultText("Playback acknowledged. End-turn is re-armed."), nil
}

func (c *Client) handleBuild(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := request.Params.Arguments.(map[string]interface{})
	sessionID, _ := args["session_id"].(string)
	node, _ := args["node"].(float64)
	kind, _ := args["kind"].(string)

	body := map[string]interface{}{
		"node": int(node),
		"kind": kind,
	}

	var outcome service.ActionOutcome
	err := c.apiCall("POST", fmt.Sprintf("/api/sessions/%s/build", sessionID), body, &outcome)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	response := formatActionOutcome(fmt.Sprintf("Build %s on node %d", kind, int(node)), &outcome)
	return mcp.NewToolResultText(response), nil
}

func (c *Client) handleDemolish(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := request.Params.Arguments.(map[string]interface{})
	sessionID, _ := args["session_id"].(string)
	node, _ := args["node"].(float64)

	body := map[string]interface{}{
		"node": int(node),
	}

	var outcome service.ActionOutcome
	err := c.apiCall("POST", fmt.Sprintf("/api/sessions/%s/demolish", sessionID), body, &outcome)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	response := formatActionOutcome(fmt.Sprintf("Demolish node %d", int(node)), &outcome)
	return mcp.NewToolResultText(response), nil
}

func (c *Client) handleTransfer(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := request.Params.Arguments.(map[string]interface{})
	sessionID, _ := args["session_id"].(string)
	from, _ := args["from"].(float64)
	to, _ := args["to"].(float64)
	amount, _ := args["amount"].(float64)

	body := map[string]interface{}{
		"from":   int(from),
		"to":     int(to),
		"amount": int(amount),
	}

	var outcome service.ActionOutcome
	err := c.apiCall("POST", fmt.Sprintf("/api/sessions/%s/transfer", sessionID), body, &outcome)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	response := formatActionOutcome(
		fmt.Sprintf("Transfer %d units from node %d to node %d", int(amount), int(from), int(to)),
		&outcome)
	return mcp.NewToolResultText(response), nil
}

func (c *Client) handlePlanTravel(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := request.Params.Arguments.(map[string]interface{})
	sessionID, _ := args["session_id"].(string)
	destination, _ := args["destination"].(float64)

	body := map[string]interface{}{
		"destination": int(destination),
	}

	var outcome service.ActionOutcome
	err := c.apiCall("POST", fmt.Sprintf("/api/sessions/%s/plan-travel", sessionID), body, &outcome)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	response := formatActionOutcome(fmt.Sprintf("Plan travel to sector %d", int(destination)), &outcome)
	return mcp.NewToolResultText(response), nil
}

func (c *Client) handleReset(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := request.Params.Arguments.(map[string]interface{})
	sessionID, _ := args["session_id"].(string)

	var response struct {
		Message string            `json:"message"`
		State   *engine.GameState `json:"state"`
	}

	err := c.apiCall("POST", fmt.Sprintf("/api/sessions/%s/reset", sessionID), nil, &response)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	result := fmt.Sprintf("%s\n\n%s", response.Message, formatGameState(response.State))
	return mcp.NewToolResultText(result), nil
}

func (c *Client) handleTurnHistory(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := request.Params.Arguments.(map[string]interface{})
	sessionID, _ := args["session_id"].(string)

	params := "?"
	if page, ok := args["page"].(float64); ok {
		params += fmt.Sprintf("page=%d&", int(page))
	}
	if limit, ok := args["limit"].(float64); ok {
		params += fmt.Sprintf("limit=%d&", int(limit))
	}

	var history service.HistoryResponse
	err := c.apiCall("GET", fmt.Sprintf("/api/sessions/%s/history%s", sessionID, params), nil, &history)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	result := formatHistory(&history)
	return mcp.NewToolResultText(result), nil
}

func (c *Client) handleListScenarios(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	var scenarios []service.ScenarioInfo
	err := c.apiCall("GET", "/api/scenarios", nil, &scenarios)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	result := "Available Scenarios:\n\n"
	for _, sc := range scenarios {
		result += fmt.Sprintf("• %s (%s)\n  %s\n  Sectors: %d, Nodes: %d\n\n",
			sc.Name, sc.ScenarioID, sc.Description, sc.Groups, sc.Nodes)
	}

	return mcp.NewToolResultText(result), nil
}

func (c *Client) handleGameInstructions(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	instructions := `Limited Space Colony - Complete Instructions

GAME OBJECTIVE:
Build up your colony's home sector until its pooled resources strictly
exceed every victory threshold, while never running out of the survival
resource.

MAP MODEL:
• The map is a set of sectors (groups), each holding a handful of nodes.
• A node holds at most one occupant: a stockpile of one resource, or a
  construction. Space is the scarce good; every slot choice matters.
• Sectors are connected by edges. The ship's home sector defines which
  sectors your colony can reach.

RESOURCES:
• power       - produced by solar fields, consumed by most constructions
• food        - the survival resource; one unit is eaten per turn
• material    - the building resource, mined and spent on construction
• rocket_fuel - one unit is burned per ship relocation
• fusion_fuel - the late-game victory resource

CONSTRUCTION CATALOG:
• solar_field      (cost: 5 material)  -> 3 power, every turn
• hydroponics_farm (cost: 8 material)  -> 2 food, eats 2 power
• material_mine    (cost: 10 material) -> 2 material, eats 1 power
• fuel_refinery    (cost: 12 material) -> 2 rocket_fuel, eats 2 power + 1 material
• fusion_plant     (cost: 20 material) -> 1 fusion_fuel, eats 1 rocket_fuel + 2 material

TURN RESOLUTION (deterministic, in this order):
1. Construction cooldowns tick down.
2. Each construction off cooldown runs if its full request can be paid from
   its sector's pooled stock. Output is placed back into the sector:
   topping up the fullest stockpile first, spilling into empty nodes.
3. One unit of the survival resource is consumed at the home sector. If it
   cannot be paid, the colony is lost.
4. Victory check: the home sector's pooled stock must STRICTLY exceed every
   threshold ("more than", not "at least").
5. The ship executes its planned travel, if any, burning 1 fuel from the
   home sector. The plan is cleared every turn whether or not it executed.

PLAYBACK GATING:
After each resolved turn the ordered action log is pending until you call
ack_playback. While pending, end_turn signals are DROPPED, not queued. The
flow is always: end_turn -> inspect the log -> ack_playback -> repeat.

SHIP TRAVEL:
• plan_travel targets a sector adjacent to the ship's current sector.
• Travel happens at the END of the next resolved turn, not immediately.
• Relocating rewires the map: the home sector's edges follow the ship.
  Sectors only reachable through the old position fall out of reach.
• Without fuel in the home sector, the ship stays and the plan is wasted.

STRATEGY NOTES:
- Power is the bottleneck early; build a solar field before anything else.
- Keep the survival stock topped up before expanding. One missed food
  payment ends the run.
- Each sector has few nodes. Demolish obsolete constructions to free slots
  rather than hoarding them.
- Production output goes to the sector the construction sits in. Spread
  mines into resource sectors and ferry material home with transfers.
- Fusion plants chain off refineries; plan the power budget for both.

SESSION MANAGEMENT:
- Multiple game sessions can run simultaneously
- Each session has a unique 4-character ID
- Sessions maintain independent state and scenario
- Use session-specific tools for multi-game management

Remember: the resolution order is fixed and knowable. Read the action log
after every turn; it tells you exactly what ran, what starved, and why.`

	return mcp.NewToolResultText(instructions), nil
}

// Formatting helpers

func formatSessionInfo(session *service.SessionInfo) string {
	return fmt.Sprintf("Session: %s\nScenario: %s\nCreated: %s\n\n%s",
		session.ID, session.ScenarioName,
		session.CreatedAt.Format("2006-01-02 15:04:05"),
		formatGameState(session.GameState))
}

func formatGameState(state *engine.GameState) string {
	if state == nil {
		return "No game state available"
	}

	var result strings.Builder

	result.WriteString(fmt.Sprintf("Scenario: %s | Turn: %d | Status: %s\n",
		state.ScenarioName, state.Turn, state.Status))
	result.WriteString(fmt.Sprintf("Ship: sector %d (home %d)", state.Ship.Current, state.Ship.Home))
	if state.Ship.Planned != nil {
		result.WriteString(fmt.Sprintf(", travel planned to sector %d", *state.Ship.Planned))
	}
	result.WriteString("\n")

	if state.Map != nil {
		result.WriteString("\n")
		result.WriteString(formatColonyMap(state.Map, state.Ship))
	}

	if len(state.PendingLog) > 0 {
		result.WriteString(fmt.Sprintf("\nPending action log (%d entries, awaiting ack):\n", len(state.PendingLog)))
		result.WriteString(formatActionLog(state.PendingLog))
	}

	switch state.Status {
	case engine.StatusWon:
		result.WriteString("\nVICTORY!")
	case engine.StatusLost:
		result.WriteString("\nGAME OVER")
	}

	if state.Message != "" {
		result.WriteString(fmt.Sprintf("\nMessage: %s", state.Message))
	}

	return result.String()
}

func formatColonyMap(m *engine.ColonyMap, ship engine.Ship) string {
	var b strings.Builder

	for _, gid := range m.GroupOrder {
		marker := ""
		if gid == ship.Home {
			marker = " [SHIP]"
		}
		b.WriteString(fmt.Sprintf("Sector %d%s", gid, marker))

		neighbors := m.Neighbors(gid)
		if len(neighbors) > 0 {
			parts := make([]string, len(neighbors))
			for i, n := range neighbors {
				parts[i] = fmt.Sprintf("%d", n)
			}
			b.WriteString(fmt.Sprintf(" (linked: %s)", strings.Join(parts, ",")))
		}
		b.WriteString("\n")

		for _, nid := range m.Groups[gid] {
			occ := m.Occupation[nid]
			switch {
			case occ.IsStockpile():
				b.WriteString(fmt.Sprintf("  node %d: %s x%d\n", nid, occ.Resource, occ.Amount))
			case occ.IsConstruction():
				b.WriteString(fmt.Sprintf("  node %d: %s (cooldown %d)\n", nid, occ.Construction, occ.Cooldown))
			default:
				b.WriteString(fmt.Sprintf("  node %d: empty\n", nid))
			}
		}

		pool := m.PooledBunch(gid)
		if !pool.IsEmpty() {
			b.WriteString(fmt.Sprintf("  pooled: %s\n", formatBunch(pool)))
		}
	}

	return b.String()
}

func formatBunch(b engine.Bunch) string {
	kinds := make([]string, 0, len(b))
	for kind := range b {
		kinds = append(kinds, string(kind))
	}
	sort.Strings(kinds)

	parts := make([]string, 0, len(kinds))
	for _, kind := range kinds {
		parts = append(parts, fmt.Sprintf("%s x%d", kind, b[engine.ResourceKind(kind)]))
	}
	return strings.Join(parts, ", ")
}

func formatTurnOutcome(outcome *service.TurnOutcome) string {
	var b strings.Builder

	if outcome.Success {
		b.WriteString(fmt.Sprintf("Turn %d resolved (%d actions)\n", outcome.Turn, len(outcome.Actions)))
	} else {
		b.WriteString("End-turn dropped\n")
		if outcome.Message != "" {
			b.WriteString(fmt.Sprintf("Reason: %s\n", outcome.Message))
		}
	}

	if len(outcome.Actions) > 0 {
		b.WriteString("\nAction log (commit order):\n")
		b.WriteString(formatActionLog(outcome.Actions))
	}

	if outcome.Success && outcome.PlaybackPending {
		b.WriteString("\nCall ack_playback to re-arm end_turn.\n")
	}

	b.WriteString("\n")
	b.WriteString(formatGameState(outcome.GameState))
	return b.String()
}

func formatActionOutcome(action string, outcome *service.ActionOutcome) string {
	var b strings.Builder

	if outcome.Success {
		b.WriteString(fmt.Sprintf("OK: %s\n", action))
	} else {
		b.WriteString(fmt.Sprintf("REJECTED: %s\n", action))
		if outcome.Message != "" {
			b.WriteString(fmt.Sprintf("Reason: %s\n", outcome.Message))
		}
	}

	if len(outcome.Actions) > 0 {
		b.WriteString("\nCommitted entries:\n")
		b.WriteString(formatActionLog(outcome.Actions))
	}

	b.WriteString("\n")
	b.WriteString(formatGameState(outcome.GameState))
	return b.String()
}

func formatActionLog(entries []engine.ActionEntry) string {
	var b strings.Builder
	for i, entry := range entries {
		b.WriteString(fmt.Sprintf("%d. %s\n", i+1, formatActionEntry(entry)))
	}
	return b.String()
}

func formatActionEntry(entry engine.ActionEntry) string {
	switch entry.Type {
	case engine.ActionConsume:
		return fmt.Sprintf("consume %s at node %d for node %d (delta %d, %d left at source)",
			entry.Resource, entry.From, entry.To, entry.Delta, entry.Amount)
	case engine.ActionProduce:
		return fmt.Sprintf("produce %s from node %d into node %d (delta %+d, now %d)",
			entry.Resource, entry.From, entry.To, entry.Delta, entry.Amount)
	case engine.ActionShipMove:
		return fmt.Sprintf("ship moves from sector %d to sector %d", entry.FromGroup, entry.ToGroup)
	default:
		return fmt.Sprintf("unknown action %q", entry.Type)
	}
}

func formatHistory(history *service.HistoryResponse) string {
	result := fmt.Sprintf("Turn History (Page %d/%d) - Total turns: %d\n\n",
		history.Page, history.TotalPages, history.TotalTurns)

	for _, turn := range history.Turns {
		result += fmt.Sprintf("Turn %d: %d actions [%s]\n", turn.Turn, turn.Actions, turn.Status)
	}

	if history.HasNext {
		result += "\n(more pages available)"
	}

	return result
}

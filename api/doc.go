// Package api provides the HTTP REST surface for the colony simulation.
//
// The api package implements:
//   - RESTful endpoints for turn resolution and colony actions
//   - Session management endpoints
//   - Scenario listing, loading, and saving
//   - WebSocket upgrade handling for playback clients
//
// Endpoints:
//
// Session Management:
//   - POST /api/sessions - Create a new session (optional scenario_id)
//   - GET /api/sessions - List sessions (sort, order, limit query params)
//   - GET /api/sessions/{id} - Get a specific session
//   - DELETE /api/sessions/{id} - Delete a session
//
// Turn Operations:
//   - GET /api/sessions/{id}/state - Full game state
//   - POST /api/sessions/{id}/end-turn - Resolve one turn
//   - POST /api/sessions/{id}/ack - Acknowledge finished playback
//   - POST /api/sessions/{id}/reset - Reset the run, keeping turn history
//   - GET /api/sessions/{id}/history - Paginated turn history
//
// Colony Operations:
//   - POST /api/sessions/{id}/build - {node, kind}
//   - POST /api/sessions/{id}/demolish - {node}
//   - POST /api/sessions/{id}/transfer - {from, to, amount}
//   - POST /api/sessions/{id}/plan-travel - {destination}
//
// Scenarios:
//   - GET /api/scenarios - List available scenarios
//   - GET /api/scenarios/{name} - Fetch one scenario config
//   - POST /api/scenarios - Save a scenario config
//
// Turn Gating:
//
// End-turn is a dropped signal, not an error, while the previous turn's
// playback is unacknowledged or the run is over. The handler always answers
// 200 with a TurnOutcome; Success and PlaybackPending tell the client what
// happened. Only an unknown session yields a 404.
//
// Colony actions behave the same way: a rule violation (occupied node,
// unaffordable cost, unreachable destination) comes back as a failed
// ActionOutcome with the rule in Message, so clients can surface it without
// treating it as a transport failure.
//
// Request/Response Format:
//
// All endpoints accept and return JSON. Errors that are not rule
// violations are returned as JSON with appropriate HTTP status codes:
//
//	{
//	  "error": "error message"
//	}
//
// Usage:
//
//	hub := websocket.NewHub()
//	go hub.Run()
//	server := api.NewServer(gameService, hub)
//	http.ListenAndServe(":8080", server)
package api

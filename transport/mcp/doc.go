// Package mcp provides a Model Context Protocol surface for the colony
// simulation, proxying every tool call to the REST API.
//
// The mcp package implements:
//   - MCP server for AI agent integration
//   - Tool definitions for every colony operation
//   - Session-aware command execution
//   - Text rendering of the colony map and action logs
//
// MCP Tools:
//
// The package exposes the following tools for AI agents:
//   - colony_state: Get current state with a sector/node breakdown
//   - end_turn: Resolve one turn (dropped while playback is pending)
//   - ack_playback: Acknowledge the last turn's action log
//   - build: Place a construction, paying its cost from the pooled stock
//   - demolish: Remove a construction
//   - transfer: Move resources between stockpile nodes
//   - plan_travel: Plan the ship's relocation for the next turn
//   - reset_game: Reset to the scenario's initial state
//   - turn_history: Retrieve turn history with pagination
//   - create_session: Create a new session with scenario selection
//   - get_session: Get specific session details
//   - list_sessions: List all active sessions
//   - list_scenarios: List available scenarios
//   - game_instructions: Full rules and strategy notes
//
// Thin Client Design:
//
// The client holds no game state. Every tool call maps to one or two HTTP
// requests against the REST API, and the response is rendered as text an
// agent can reason over. Rule violations come back as tool errors with the
// offending rule, not as transport failures.
//
// Playback Gating:
//
// Agents must interleave end_turn and ack_playback. While a resolved
// turn's log is unacknowledged, further end_turn calls report a dropped
// signal. This mirrors the playback contract display clients follow and
// keeps the agent honest about reading the action log.
//
// Usage:
//
//	client := mcp.NewClient("http://localhost:8080")
//	server.ServeStdio(client.GetMCPServer())
//
// AI Integration:
//
// The MCP interface enables AI agents to:
//   - Autonomously run a colony
//   - Develop and test build orders
//   - Replay action logs to understand resolution order
//   - Manage multiple concurrent sessions
package mcp

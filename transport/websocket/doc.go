// Package websocket pushes colony simulation updates to playback clients.
//
// The websocket package implements:
//   - Session-aware WebSocket connections
//   - State broadcasting after each resolved turn
//   - Delivery of the ordered action log for animation playback
//   - Connection lifecycle management
//
// Architecture:
//
// The package uses a hub-and-spoke model where a central Hub manages all
// WebSocket connections. Each client connection is handled by a dedicated
// goroutine pair that manages reading, writing, and cleanup.
//
// Message Protocol:
//
// Messages are JSON-encoded and flow one way, from server to client:
//   - "state_update" carries the full GameState after a mutation
//   - "turn_resolved" additionally carries the turn's action log in commit
//     order, so display layers can replay production, consumption, transfer
//     and ship movement one entry at a time
//
// Incoming messages are drained but ignored. Playback feedback never
// mutates simulation state; acknowledging a finished playback happens over
// the HTTP API, which is what re-arms end-turn.
//
// Session Integration:
//
// WebSocket connections are session-aware. Clients specify their session ID
// via query parameter (?session=ab12) when establishing the connection.
// Updates are broadcast only to clients connected to the same session.
//
// Usage:
//
//	hub := websocket.NewHub()
//	go hub.Run()
//
//	http.HandleFunc("/ws", func(w http.ResponseWriter, r *http.Request) {
//		hub.ServeWS(w, r, r.URL.Query().Get("session"))
//	})
//
// Concurrency:
//
// The hub and client handlers are designed for concurrent operation.
// Multiple clients can connect, disconnect, and receive messages
// simultaneously without blocking each other.
package websocket

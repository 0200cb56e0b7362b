// Package session provides session management for the colony simulation.
//
// The session package implements:
//   - Thread-safe session storage and retrieval
//   - Unique session ID generation
//   - Session lifecycle management
//   - Concurrent access control
//   - Session cleanup and expiration
//   - Optional file-based persistence across restarts
//
// Core Types:
//
// Manager is the main session manager that handles all session operations.
// Each session wraps an independent simulation engine with metadata like
// creation time and last access time.
//
// Session Identifiers:
//
// Sessions use 4-character hex IDs for easy reference. IDs are generated
// with cryptographic randomness and matched case-insensitively.
//
// Concurrency:
//
// The session manager is thread-safe and supports concurrent operations.
// Multiple goroutines can safely create, retrieve, and modify different
// sessions simultaneously. Internal locking ensures data consistency.
//
// Usage:
//
//	manager := session.NewManager()
//
//	// Create a new session
//	sess, err := manager.Create("", scenario)
//	if err != nil {
//		log.Fatal(err)
//	}
//
//	// Retrieve existing session
//	sess, err = manager.Get(sessionID)
//	if err != nil {
//		log.Fatal(err)
//	}
//
//	// List all active sessions
//	sessions := manager.List()
//
// Persistence:
//
// NewManagerWithPersistence mirrors every session to a SessionPersistence
// backend. FilePersistence stores each session as a JSON file carrying the
// scenario and the full game state, so runs survive a server restart.
// Sessions are snapshotted on creation and on every access.
//
// Cleanup:
//
// Sessions can be explicitly deleted, and CleanupExpiredSessions removes
// runs that have been idle past a cutoff, including their persisted files.
package session

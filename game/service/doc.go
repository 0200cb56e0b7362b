// Package service provides the business logic layer for the colony
// simulation.
//
// The service package implements:
//   - Multi-session game management
//   - Scenario management and loading
//   - Turn resolution and direct colony actions
//   - Session lifecycle management
//   - Turn history tracking
//
// Core Interfaces:
//
// GameService is the main service interface providing high-level game
// operations. SessionManager handles session creation, retrieval, and
// lifecycle. ScenarioManager manages scenario loading and validation.
//
// Architecture:
//
// The service layer sits between the transport layer (HTTP/WebSocket/MCP)
// and the simulation engine, providing session isolation, scenario
// management, and business logic orchestration. Each session maintains its
// own engine instance with independent state.
//
// Usage:
//
//	sessionMgr := session.NewManager()
//	scenarioMgr, err := config.NewManager("configs")
//	if err != nil {
//		log.Fatal(err)
//	}
//	gameService := service.NewGameService(sessionMgr, scenarioMgr)
//
//	// Create a new session
//	sessionInfo, err := gameService.CreateSession(ctx, "first_landing")
//	if err != nil {
//		log.Fatal(err)
//	}
//
//	// Resolve a turn and acknowledge its playback
//	outcome, err := gameService.EndTurn(ctx, sessionInfo.ID)
//	err = gameService.AckPlayback(ctx, sessionInfo.ID)
//
// Session Management:
//
// Sessions are identified by unique 4-character IDs and maintain independent
// runs. Multiple sessions can run concurrently with different scenarios.
// Sessions track creation time, last access time, and turn history.
//
// Turn Gating:
//
// EndTurn reports a dropped signal (not an error) while a previous turn's
// action log is unacknowledged, and likewise once a run has reached a
// terminal won or lost state. Direct actions that violate engine rules come
// back as failed outcomes carrying the rule message.
package service

package main

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/jacopograndi/ld54/game/engine"
)

func TestConstants(t *testing.T) {
	if Version == "" {
		t.Error("Version should not be empty")
	}
	if AppName == "" {
		t.Error("AppName should not be empty")
	}
}

func TestRootCommand(t *testing.T) {
	cmd := newRootCommand()

	if cmd.Name != "ld54" {
		t.Errorf("Unexpected command name: %s", cmd.Name)
	}
	if cmd.Version != Version {
		t.Errorf("Expected version %s, got %s", Version, cmd.Version)
	}

	names := map[string]bool{}
	for _, sub := range cmd.Commands {
		names[sub.Name] = true
	}
	for _, want := range []string{"server", "mcp"} {
		if !names[want] {
			t.Errorf("Expected subcommand %q", want)
		}
	}
}

func TestGetScenarioDirDefault(t *testing.T) {
	t.Setenv("SCENARIO_DIR", "")
	if got := getScenarioDirDefault(); got != "configs" {
		t.Errorf("Expected default 'configs', got %s", got)
	}

	t.Setenv("SCENARIO_DIR", "/tmp/scenarios")
	if got := getScenarioDirDefault(); got != "/tmp/scenarios" {
		t.Errorf("Expected env override, got %s", got)
	}
}

func TestInitializeServices(t *testing.T) {
	dir := t.TempDir()

	cfg := engine.DefaultScenario()
	data, err := json.Marshal(cfg)
	if err != nil {
		t.Fatalf("Failed to marshal scenario: %v", err)
	}
	if err := os.WriteFile(filepath.Join(dir, "default.json"), data, 0o644); err != nil {
		t.Fatalf("Failed to write scenario file: %v", err)
	}
	t.Setenv("SESSIONS_DIR", t.TempDir())

	gameService, err := initializeServices(dir)
	if err != nil {
		t.Fatalf("Failed to initialize services: %v", err)
	}

	if gameService == nil {
		t.Fatal("Expected game service to be initialized")
	}
}

func TestInitializeServices_EmptyDir(t *testing.T) {
	// An empty scenario directory falls back to the built-in scenario.
	t.Setenv("SESSIONS_DIR", t.TempDir())
	gameService, err := initializeServices(t.TempDir())
	if err != nil {
		t.Fatalf("Failed to initialize services: %v", err)
	}
	if gameService == nil {
		t.Fatal("Expected game service to be initialized")
	}
}

func TestInitializeServices_InvalidScenarioDir(t *testing.T) {
	_, err := initializeServices("/non/existent/path")
	if err == nil {
		t.Error("Expected error for non-existent scenario directory")
	}
}

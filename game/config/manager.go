package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/jacopograndi/ld54/game/engine"
	"github.com/jacopograndi/ld54/game/service"
)

var (
	ErrScenarioNotFound = errors.New("scenario not found")
	ErrInvalidScenario  = errors.New("invalid scenario")
)

// scenarioExtensions are the recognized scenario file extensions, in lookup
// order.
var scenarioExtensions = []string{".json", ".yaml", ".yml"}

// Manager handles scenario loading and caching
type Manager struct {
	scenarioDir     string
	defaultScenario *engine.ScenarioConfig
	scenarios       map[string]*engine.ScenarioConfig
	mu              sync.RWMutex
}

// NewManager creates a new scenario manager rooted at scenarioDir
func NewManager(scenarioDir string) (*Manager, error) {
	if _, err := os.Stat(scenarioDir); os.IsNotExist(err) {
		return nil, fmt.Errorf("scenario directory does not exist: %s", scenarioDir)
	}

	m := &Manager{
		scenarioDir: scenarioDir,
		scenarios:   make(map[string]*engine.ScenarioConfig),
	}

	if err := m.loadDefaultScenario(); err != nil {
		return nil, fmt.Errorf("failed to load default scenario: %w", err)
	}

	return m, nil
}

// LoadScenario loads a scenario by name
func (m *Manager) LoadScenario(name string) (*engine.ScenarioConfig, error) {
	m.mu.RLock()
	// Check cache first
	if cfg, exists := m.scenarios[name]; exists {
		m.mu.RUnlock()
		return cfg, nil
	}
	m.mu.RUnlock()

	m.mu.Lock()
	defer m.mu.Unlock()

	// Double-check after acquiring write lock
	if cfg, exists := m.scenarios[name]; exists {
		return cfg, nil
	}

	path, err := m.resolvePath(name)
	if err != nil {
		return nil, err
	}

	cfg, err := engine.LoadScenarioFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, ErrScenarioNotFound
		}
		return nil, fmt.Errorf("%w: %v", ErrInvalidScenario, err)
	}

	m.scenarios[name] = cfg
	return cfg, nil
}

// resolvePath maps a scenario name to its file, trying each recognized
// extension when the name carries none.
func (m *Manager) resolvePath(name string) (string, error) {
	if ext := filepath.Ext(name); ext != "" {
		path := filepath.Join(m.scenarioDir, name)
		if _, err := os.Stat(path); err != nil {
			return "", ErrScenarioNotFound
		}
		return path, nil
	}
	for _, ext := range scenarioExtensions {
		path := filepath.Join(m.scenarioDir, name+ext)
		if _, err := os.Stat(path); err == nil {
			return path, nil
		}
	}
	return "", ErrScenarioNotFound
}

// ListScenarios returns information about all available scenarios
func (m *Manager) ListScenarios() ([]*service.ScenarioInfo, error) {
	entries, err := os.ReadDir(m.scenarioDir)
	if err != nil {
		return nil, fmt.Errorf("failed to read scenario directory: %w", err)
	}

	var infos []*service.ScenarioInfo

	for _, entry := range entries {
		if entry.IsDir() || !isScenarioFile(entry.Name()) {
			continue
		}

		name := strings.TrimSuffix(entry.Name(), filepath.Ext(entry.Name()))

		cfg, err := m.LoadScenario(name)
		if err != nil {
			// Skip invalid scenario files
			continue
		}

		nodes := 0
		for _, group := range cfg.Groups {
			nodes += len(group.Nodes)
		}

		infos = append(infos, &service.ScenarioInfo{
			Filename:    entry.Name(),
			ScenarioID:  name, // This is the identifier to use for session creation
			Name:        cfg.Name,
			Description: cfg.Description,
			Groups:      len(cfg.Groups),
			Nodes:       nodes,
		})
	}

	return infos, nil
}

// GetDefault returns the default scenario
func (m *Manager) GetDefault() *engine.ScenarioConfig {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.defaultScenario
}

// SetDefault sets the default scenario by name
func (m *Manager) SetDefault(name string) error {
	cfg, err := m.LoadScenario(name)
	if err != nil {
		return err
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	m.defaultScenario = cfg
	return nil
}

// RefreshCache reloads all cached scenarios from disk
func (m *Manager) RefreshCache() error {
	m.mu.Lock()
	m.scenarios = make(map[string]*engine.ScenarioConfig)
	m.mu.Unlock()

	return m.loadDefaultScenario()
}

// loadDefaultScenario picks first_landing when present, otherwise the first
// valid scenario on disk, otherwise the built-in one. Must not be called
// with the lock held; LoadScenario locks internally.
func (m *Manager) loadDefaultScenario() error {
	cfg, err := m.LoadScenario("first_landing")
	if err != nil {
		infos, listErr := m.ListScenarios()
		if listErr != nil || len(infos) == 0 {
			cfg = engine.DefaultScenario()
		} else if cfg, err = m.LoadScenario(infos[0].ScenarioID); err != nil {
			cfg = engine.DefaultScenario()
		}
	}

	m.mu.Lock()
	m.defaultScenario = cfg
	m.mu.Unlock()
	return nil
}

// SaveScenario saves a scenario to disk as JSON
func (m *Manager) SaveScenario(name string, cfg *engine.ScenarioConfig) error {
	if err := engine.ValidateScenario(cfg); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidScenario, err)
	}

	filename := name
	if filepath.Ext(filename) == "" {
		filename = name + ".json"
	}

	path := filepath.Join(m.scenarioDir, filename)

	data, err := json.MarshalIndent(cfg, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal scenario: %w", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write scenario file: %w", err)
	}

	m.mu.Lock()
	m.scenarios[strings.TrimSuffix(filename, filepath.Ext(filename))] = cfg
	m.mu.Unlock()

	return nil
}

func isScenarioFile(name string) bool {
	ext := strings.ToLower(filepath.Ext(name))
	for _, known := range scenarioExtensions {
		if ext == known {
			return true
		}
	}
	return false
}

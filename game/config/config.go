// Package config loads named server profiles from a directory of JSON
// files. A profile bundles the tunable knobs of the matchmaking server,
// most importantly the scramble length used at game start.
package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
)

var (
	ErrConfigNotFound = errors.New("configuration not found")
	ErrInvalidConfig  = errors.New("invalid configuration")
)

// Config is one server profile.
type Config struct {
	Name        string `json:"name"`
	Description string `json:"description"`

	// ScrambleLength is the number of moves in the scramble generated at
	// game start. The stock profiles ship 25 (full game) and 3 (quick).
	ScrambleLength int `json:"scramble_length"`

	// RoomCodeLength is the length of generated room tokens.
	RoomCodeLength int `json:"room_code_length"`
}

// Validate checks that a profile's values are usable.
func Validate(c *Config) error {
	if c == nil {
		return errors.New("config is nil")
	}
	if c.Name == "" {
		return errors.New("name is required")
	}
	if c.ScrambleLength < 1 {
		return fmt.Errorf("scramble_length must be at least 1, got %d", c.ScrambleLength)
	}
	if c.RoomCodeLength < 4 || c.RoomCodeLength > 12 {
		return fmt.Errorf("room_code_length must be between 4 and 12, got %d", c.RoomCodeLength)
	}
	return nil
}

// Default returns the built-in profile used when no config dir or profile is
// available.
func Default() *Config {
	return &Config{
		Name:           "default",
		Description:    "Full 25-move scramble duel",
		ScrambleLength: 25,
		RoomCodeLength: 6,
	}
}

// Manager loads and caches profiles from a config directory. A missing
// directory is not an error; the server is fully functional on the built-in
// default.
type Manager struct {
	configDir string
	configs   map[string]*Config
	mu        sync.RWMutex
}

// NewManager creates a configuration manager over the given directory.
func NewManager(configDir string) *Manager {
	return &Manager{
		configDir: configDir,
		configs:   make(map[string]*Config),
	}
}

// LoadConfig loads a profile by name, consulting the cache first.
func (m *Manager) LoadConfig(name string) (*Config, error) {
	m.mu.RLock()
	if config, exists := m.configs[name]; exists {
		m.mu.RUnlock()
		return config, nil
	}
	m.mu.RUnlock()

	m.mu.Lock()
	defer m.mu.Unlock()

	// Double-check after acquiring the write lock
	if config, exists := m.configs[name]; exists {
		return config, nil
	}

	filename := name
	if !strings.HasSuffix(filename, ".json") {
		filename = name + ".json"
	}

	data, err := os.ReadFile(filepath.Join(m.configDir, filename))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, ErrConfigNotFound
		}
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	var config Config
	if err := json.Unmarshal(data, &config); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	if err := Validate(&config); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidConfig, err)
	}

	m.configs[name] = &config
	return &config, nil
}

// Resolve returns the named profile, or the built-in default when name is
// empty or the profile cannot be found.
func (m *Manager) Resolve(name string) *Config {
	if name == "" {
		return Default()
	}
	config, err := m.LoadConfig(name)
	if err != nil {
		return Default()
	}
	return config
}

// ListConfigs returns every valid profile in the config directory.
func (m *Manager) ListConfigs() ([]*Config, error) {
	entries, err := os.ReadDir(m.configDir)
	if err != nil {
		if os.IsNotExist(err) {
			return []*Config{}, nil
		}
		return nil, fmt.Errorf("failed to read config directory: %w", err)
	}

	var configs []*Config
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), ".json") {
			continue
		}

		config, err := m.LoadConfig(strings.TrimSuffix(entry.Name(), ".json"))
		if err != nil {
			// Skip invalid configs
			continue
		}
		configs = append(configs, config)
	}

	return configs, nil
}

// SaveConfig writes a profile to disk and updates the cache.
func (m *Manager) SaveConfig(name string, config *Config) error {
	if err := Validate(config); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidConfig, err)
	}

	filename := name
	if !strings.HasSuffix(filename, ".json") {
		filename = name + ".json"
	}

	data, err := json.MarshalIndent(config, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if err := os.WriteFile(filepath.Join(m.configDir, filename), data, 0644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	m.mu.Lock()
	m.configs[name] = config
	m.mu.Unlock()

	return nil
}

package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/wricardo/mcp-training/roadroute/planner/atlas"
	"github.com/wricardo/mcp-training/roadroute/planner/service"
)

var (
	ErrMapNotFound = service.ErrMapNotFound
	ErrInvalidMap  = service.ErrInvalidMap
)

// builtinMapID names the map used when the maps directory has none
const builtinMapID = "default"

// Manager handles road map loading and caching
type Manager struct {
	mapsDir    string
	defaultID  string
	defaultMap *atlas.MapConfig
	maps       map[string]*atlas.MapConfig
	mu         sync.RWMutex
}

// NewManager creates a new map manager
func NewManager(mapsDir string) (*Manager, error) {
	// Ensure maps directory exists
	if _, err := os.Stat(mapsDir); os.IsNotExist(err) {
		return nil, fmt.Errorf("maps directory does not exist: %s", mapsDir)
	}

	m := &Manager{
		mapsDir: mapsDir,
		maps:    make(map[string]*atlas.MapConfig),
	}

	if err := m.loadDefaultMap(); err != nil {
		return nil, fmt.Errorf("failed to load default map: %w", err)
	}
	return m, nil
}

// LoadMap loads a map by name
func (m *Manager) LoadMap(name string) (*atlas.MapConfig, error) {
	name = strings.TrimSuffix(name, ".json")
	if err := checkMapName(name); err != nil {
		return nil, err
	}

	m.mu.RLock()
	// Check cache first
	if config, exists := m.maps[name]; exists {
		m.mu.RUnlock()
		return config, nil
	}
	m.mu.RUnlock()

	m.mu.Lock()
	defer m.mu.Unlock()

	// Double-check after acquiring write lock
	if config, exists := m.maps[name]; exists {
		return config, nil
	}

	data, err := os.ReadFile(m.mapPath(name))
	if err != nil {
		if os.IsNotExist(err) {
			if name == builtinMapID && m.defaultID == builtinMapID {
				return m.defaultMap, nil
			}
			return nil, ErrMapNotFound
		}
		return nil, fmt.Errorf("failed to read map file: %w", err)
	}

	var config atlas.MapConfig
	if err := json.Unmarshal(data, &config); err != nil {
		return nil, fmt.Errorf("%w: failed to parse map: %v", ErrInvalidMap, err)
	}
	if err := atlas.ValidateMapConfig(&config); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidMap, err)
	}

	m.maps[name] = &config
	return &config, nil
}

// ListMaps returns information about all available maps
func (m *Manager) ListMaps() ([]*service.MapInfo, error) {
	entries, err := os.ReadDir(m.mapsDir)
	if err != nil {
		return nil, fmt.Errorf("failed to read maps directory: %w", err)
	}

	var maps []*service.MapInfo
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), ".json") {
			continue
		}

		name := strings.TrimSuffix(entry.Name(), ".json")
		config, err := m.LoadMap(name)
		if err != nil {
			// Skip invalid maps
			continue
		}
		maps = append(maps, mapInfo(entry.Name(), name, config))
	}

	return maps, nil
}

func mapInfo(filename, id string, config *atlas.MapConfig) *service.MapInfo {
	heuristic, _ := config.RouteHeuristic()
	algorithm, _ := config.RouteAlgorithm()
	return &service.MapInfo{
		Filename:      filename,
		MapID:         id,
		Name:          config.Name,
		Description:   config.Description,
		Width:         config.Width(),
		Height:        config.Height(),
		AllDirections: config.AllDirections,
		Heuristic:     heuristic.String(),
		Algorithm:     algorithm.String(),
	}
}

// GetDefault returns the default map
func (m *Manager) GetDefault() *atlas.MapConfig {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.defaultMap
}

// DefaultID returns the identifier of the default map
func (m *Manager) DefaultID() string {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.defaultID
}

// SetDefault sets the default map by name
func (m *Manager) SetDefault(name string) error {
	config, err := m.LoadMap(name)
	if err != nil {
		return err
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	m.defaultID = strings.TrimSuffix(name, ".json")
	m.defaultMap = config
	return nil
}

// RefreshCache drops cached maps and reloads the default from disk
func (m *Manager) RefreshCache() error {
	m.mu.Lock()
	m.maps = make(map[string]*atlas.MapConfig)
	m.mu.Unlock()

	return m.loadDefaultMap()
}

// loadDefaultMap picks classic.json, then the first valid map, then the built-in map
func (m *Manager) loadDefaultMap() error {
	id := "classic"
	config, err := m.LoadMap(id)
	if err != nil {
		maps, listErr := m.ListMaps()
		if listErr != nil || len(maps) == 0 {
			m.setDefault(builtinMapID, atlas.DefaultMap())
			return nil
		}

		id = maps[0].MapID
		config, err = m.LoadMap(id)
		if err != nil {
			m.setDefault(builtinMapID, atlas.DefaultMap())
			return nil
		}
	}

	m.setDefault(id, config)
	return nil
}

func (m *Manager) setDefault(id string, config *atlas.MapConfig) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.defaultID = id
	m.defaultMap = config
}

// SaveMap saves a map to disk
func (m *Manager) SaveMap(name string, config *atlas.MapConfig) error {
	name = strings.TrimSuffix(name, ".json")
	if err := checkMapName(name); err != nil {
		return err
	}
	if err := atlas.ValidateMapConfig(config); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidMap, err)
	}

	data, err := json.MarshalIndent(config, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal map: %w", err)
	}
	if err := os.WriteFile(m.mapPath(name), data, 0644); err != nil {
		return fmt.Errorf("failed to write map file: %w", err)
	}

	m.mu.Lock()
	m.maps[name] = config
	m.mu.Unlock()

	return nil
}

func (m *Manager) mapPath(name string) string {
	return filepath.Join(m.mapsDir, name+".json")
}

// checkMapName rejects names that would escape the maps directory
func checkMapName(name string) error {
	if name == "" || strings.ContainsAny(name, `/\`) || strings.Contains(name, "..") {
		return fmt.Errorf("%w: bad map name %q", ErrInvalidMap, name)
	}
	return nil
}

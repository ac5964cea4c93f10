package service

import (
	"context"
	"sync"
	"time"

	"github.com/wricardo/mcp-training/roadroute/pathfind"
	"github.com/wricardo/mcp-training/roadroute/planner/atlas"
)

// RouteService defines all route planning operations
type RouteService interface {
	// Maps
	ListMaps(ctx context.Context) ([]*MapInfo, error)
	LoadMap(ctx context.Context, mapID string) (*atlas.MapConfig, error)
	SaveMap(ctx context.Context, mapID string, config *atlas.MapConfig) error
	ListHeuristics(ctx context.Context) []HeuristicInfo

	// Stateless queries
	FindRoute(ctx context.Context, mapID string, req RouteRequest) (*RouteResult, error)
	Nearest(ctx context.Context, mapID string, req NearestRequest) (*NearestResult, error)

	// Session Management
	CreateSession(ctx context.Context, opts SessionOptions) (*SessionInfo, error)
	GetSession(ctx context.Context, sessionID string) (*SessionInfo, error)
	ListSessions(ctx context.Context) ([]*SessionInfo, error)
	DeleteSession(ctx context.Context, sessionID string) error

	// Session queries
	SessionRoute(ctx context.Context, sessionID string, req RouteRequest) (*RouteResult, error)
	StopSearch(ctx context.Context, sessionID string) (bool, error)
	GetHistory(ctx context.Context, sessionID string, opts HistoryOptions) (*HistoryResponse, error)

	// Result cache
	CacheStats(ctx context.Context) pathfind.CacheStats
	ClearCache(ctx context.Context)
}

// SessionManager defines session storage operations
type SessionManager interface {
	Create(id, mapID string, config *atlas.MapConfig, settings Settings) (*Session, error)
	Get(id string) (*Session, error)
	List() []*Session
	Delete(id string) error
	UpdateLastAccessed(id string) error
	Save(id string) error
}

// MapManager handles road map loading
type MapManager interface {
	LoadMap(name string) (*atlas.MapConfig, error)
	ListMaps() ([]*MapInfo, error)
	GetDefault() *atlas.MapConfig
	DefaultID() string
	SaveMap(name string, config *atlas.MapConfig) error
}

// Settings are the engine options a session is created with
type Settings struct {
	Heuristic     string `json:"heuristic"`
	Algorithm     string `json:"algorithm"`
	AllDirections bool   `json:"all_directions"`
	Flying        bool   `json:"flying"`
	Overflow      int    `json:"overflow"`
}

// Session is a long-lived planner bound to one map. Its Finder is reused by
// every route the session computes.
type Session struct {
	ID             string
	MapID          string
	Map            *atlas.MapConfig
	Field          *pathfind.Field
	Finder         *pathfind.Finder
	Settings       Settings
	CreatedAt      time.Time
	LastAccessedAt time.Time

	mu      sync.Mutex
	history []RouteRecord
}

// AppendHistory records a computed route and returns its 1-based number
func (s *Session) AppendHistory(record RouteRecord) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	record.RouteNumber = len(s.history) + 1
	s.history = append(s.history, record)
	return record.RouteNumber
}

// History returns a copy of the recorded routes, oldest first
func (s *Session) History() []RouteRecord {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]RouteRecord, len(s.history))
	copy(out, s.history)
	return out
}

// SetHistory replaces the recorded routes
func (s *Session) SetHistory(records []RouteRecord) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.history = append([]RouteRecord{}, records...)
}

// RouteCount returns the number of recorded routes
func (s *Session) RouteCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.history)
}

package service

import (
	"time"

	"github.com/wricardo/mcp-training/roadroute/pathfind"
	"github.com/wricardo/mcp-training/roadroute/planner/atlas"
)

// MapInfo provides information about a road map
type MapInfo struct {
	Filename      string `json:"filename"`
	MapID         string `json:"map_id"` // The identifier to use for queries and session creation
	Name          string `json:"name"`   // Display name
	Description   string `json:"description"`
	Width         int    `json:"width"`
	Height        int    `json:"height"`
	AllDirections bool   `json:"all_directions"`
	Heuristic     string `json:"heuristic"`
	Algorithm     string `json:"algorithm"`
}

// HeuristicInfo describes a built-in heuristic
type HeuristicInfo struct {
	Name string `json:"name"`
	Tag  int    `json:"tag"`
}

// SessionOptions configures a new planner session. Empty fields fall back to
// the map's defaults.
type SessionOptions struct {
	SessionID     string `json:"session_id,omitempty"`
	MapID         string `json:"map_id,omitempty"`
	Heuristic     string `json:"heuristic,omitempty"`
	Algorithm     string `json:"algorithm,omitempty"`
	AllDirections *bool  `json:"all_directions,omitempty"`
	Flying        bool   `json:"flying,omitempty"`
	Overflow      int    `json:"overflow,omitempty"`
}

// SessionInfo provides information about a planner session
type SessionInfo struct {
	ID             string           `json:"id"`
	MapID          string           `json:"map_id"`
	MapName        string           `json:"map_name"`
	Settings       Settings         `json:"settings"`
	CreatedAt      time.Time        `json:"created_at"`
	LastAccessedAt time.Time        `json:"last_accessed_at"`
	RouteCount     int              `json:"route_count"`
	Searching      bool             `json:"searching"`
	LastOutcome    string           `json:"last_outcome,omitempty"`
	Map            *atlas.MapConfig `json:"map,omitempty"`
}

// RouteRequest asks for a route between two cells. Empty fields fall back to
// the map (stateless queries) or session (session queries) defaults.
type RouteRequest struct {
	From          pathfind.Coordinate `json:"from"`
	To            pathfind.Coordinate `json:"to"`
	Heuristic     string              `json:"heuristic,omitempty"`
	Algorithm     string              `json:"algorithm,omitempty"`
	AllDirections *bool               `json:"all_directions,omitempty"`
	Flying        bool                `json:"flying,omitempty"`
	Render        bool                `json:"render,omitempty"`
}

// RouteResult contains the result of a route query
type RouteResult struct {
	MapID          string                `json:"map_id"`
	SessionID      string                `json:"session_id,omitempty"`
	From           pathfind.Coordinate   `json:"from"`
	To             pathfind.Coordinate   `json:"to"`
	Found          bool                  `json:"found"`
	Outcome        string                `json:"outcome"` // Machine-friendly code: found|trivial|no_path|overflow|cancelled|closed
	Path           []pathfind.Coordinate `json:"path"`
	Steps          int                   `json:"steps"`
	Cached         bool                  `json:"cached"`
	Heuristic      string                `json:"heuristic"`
	Algorithm      string                `json:"algorithm"`
	AllDirections  bool                  `json:"all_directions"`
	DurationMicros int64                 `json:"duration_us"`
	RouteNumber    int                   `json:"route_number,omitempty"`
	Rendered       []string              `json:"rendered,omitempty"`
}

// NearestRequest asks for the closest reachable tile of a kind
type NearestRequest struct {
	From          pathfind.Coordinate `json:"from"`
	Tile          string              `json:"tile"`
	Heuristic     string              `json:"heuristic,omitempty"`
	AllDirections *bool               `json:"all_directions,omitempty"`
}

// NearestResult contains the closest reachable landmark, measured by route length
type NearestResult struct {
	MapID      string                `json:"map_id"`
	Tile       string                `json:"tile"`
	From       pathfind.Coordinate   `json:"from"`
	Found      bool                  `json:"found"`
	Target     *pathfind.Coordinate  `json:"target,omitempty"`
	Path       []pathfind.Coordinate `json:"path"`
	Steps      int                   `json:"steps"`
	Candidates int                   `json:"candidates"`
	Reachable  int                   `json:"reachable"`
}

// RouteRecord is a single computed route in a session history
type RouteRecord struct {
	RouteNumber    int                 `json:"route_number"`
	From           pathfind.Coordinate `json:"from"`
	To             pathfind.Coordinate `json:"to"`
	Heuristic      string              `json:"heuristic"`
	Outcome        string              `json:"outcome"`
	Steps          int                 `json:"steps"`
	Cached         bool                `json:"cached"`
	DurationMicros int64               `json:"duration_us"`
	Timestamp      int64               `json:"timestamp"`
}

// HistoryOptions configures route history retrieval
type HistoryOptions struct {
	Page  int    `json:"page"`
	Limit int    `json:"limit"`
	Order string `json:"order"` // "asc" or "desc"
}

// HistoryResponse contains paginated route history
type HistoryResponse struct {
	Routes      []RouteRecord `json:"routes"`
	TotalRoutes int           `json:"total_routes"`
	Page        int           `json:"page"`
	PageSize    int           `json:"page_size"`
	TotalPages  int           `json:"total_pages"`
	HasNext     bool          `json:"has_next"`
	HasPrevious bool          `json:"has_previous"`
}

// RouteEvent is published after every computed route
type RouteEvent struct {
	Type      string       `json:"type"` // "route_computed", "search_stopped"
	SessionID string       `json:"session_id,omitempty"`
	MapID     string       `json:"map_id"`
	Result    *RouteResult `json:"result,omitempty"`
	Timestamp time.Time    `json:"timestamp"`
}

// RouteObserver receives route events
type RouteObserver interface {
	OnRouteEvent(event RouteEvent)
}

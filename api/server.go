package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"net/http"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/wricardo/mcp-training/roadroute/planner/atlas"
	"github.com/wricardo/mcp-training/roadroute/planner/service"
	"github.com/wricardo/mcp-training/roadroute/transport/websocket"
)

// Server represents the REST API server
type Server struct {
	service service.RouteService
	hub     *websocket.Hub
	router  *mux.Router
}

// NewServer creates a new API server
func NewServer(routeService service.RouteService, hub *websocket.Hub) *Server {
	s := &Server{
		service: routeService,
		hub:     hub,
		router:  mux.NewRouter(),
	}

	s.setupRoutes()
	return s
}

// setupRoutes configures all API routes
func (s *Server) setupRoutes() {
	api := s.router.PathPrefix("/api").Subrouter()

	// Maps and stateless queries
	api.HandleFunc("/maps", s.handleListMaps).Methods("GET")
	api.HandleFunc("/maps", s.handleCreateMap).Methods("POST")
	api.HandleFunc("/maps/{name}", s.handleGetMap).Methods("GET")
	api.HandleFunc("/maps/{name}/route", s.handleFindRoute).Methods("POST")
	api.HandleFunc("/maps/{name}/nearest", s.handleNearest).Methods("POST")
	api.HandleFunc("/heuristics", s.handleListHeuristics).Methods("GET")

	// Result cache
	api.HandleFunc("/cache", s.handleCacheStats).Methods("GET")
	api.HandleFunc("/cache", s.handleClearCache).Methods("DELETE")

	// Session management
	api.HandleFunc("/sessions", s.handleCreateSession).Methods("POST")
	api.HandleFunc("/sessions", s.handleListSessions).Methods("GET")
	api.HandleFunc("/sessions/{id}", s.handleGetSession).Methods("GET")
	api.HandleFunc("/sessions/{id}", s.handleDeleteSession).Methods("DELETE")

	// Session queries
	api.HandleFunc("/sessions/{id}/route", s.handleSessionRoute).Methods("POST")
	api.HandleFunc("/sessions/{id}/stop", s.handleStopSearch).Methods("POST")
	api.HandleFunc("/sessions/{id}/history", s.handleGetHistory).Methods("GET")

	// WebSocket
	s.router.HandleFunc("/ws", s.handleWebSocket)

	// Operations
	s.router.Handle("/metrics", promhttp.Handler())
	s.router.HandleFunc("/health", s.handleHealth).Methods("GET")
}

// ServeHTTP implements http.Handler
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

// Response helpers
func respondJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

func respondError(w http.ResponseWriter, status int, message string) {
	respondJSON(w, status, map[string]string{"error": message})
}

// respondServiceError maps service errors to HTTP status codes
func respondServiceError(w http.ResponseWriter, err error) {
	respondError(w, statusFor(err), err.Error())
}

func statusFor(err error) int {
	switch {
	case errors.Is(err, service.ErrMapNotFound), errors.Is(err, service.ErrSessionNotFound):
		return http.StatusNotFound
	case errors.Is(err, service.ErrSessionAlreadyExists):
		return http.StatusConflict
	case errors.Is(err, service.ErrInvalidRequest),
		errors.Is(err, service.ErrInvalidCoordinate),
		errors.Is(err, service.ErrInvalidMap):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

// decodeBody decodes an optional JSON body into v
func decodeBody(r *http.Request, v interface{}) error {
	if r.Body == nil || r.ContentLength == 0 {
		return nil
	}
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		return fmt.Errorf("invalid request body: %w", err)
	}
	return nil
}

func logRoute(result *service.RouteResult) {
	scope := "map=" + result.MapID
	if result.SessionID != "" {
		scope = "session=" + result.SessionID
	}
	log.Printf("[ROUTE] %s %s->%s h=%s outcome=%s steps=%d cached=%v took=%dus",
		scope, result.From, result.To, result.Heuristic, result.Outcome, result.Steps, result.Cached, result.DurationMicros)
}

// Map Handlers

func (s *Server) handleListMaps(w http.ResponseWriter, r *http.Request) {
	maps, err := s.service.ListMaps(r.Context())
	if err != nil {
		respondServiceError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, maps)
}

func (s *Server) handleGetMap(w http.ResponseWriter, r *http.Request) {
	mapID := strings.TrimSuffix(mux.Vars(r)["name"], ".json")

	config, err := s.service.LoadMap(r.Context(), mapID)
	if err != nil {
		respondServiceError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, config)
}

// mapIDFromName turns a display name into a file-safe map ID
func mapIDFromName(name string) string {
	return strings.ToLower(strings.Join(strings.Fields(name), "_"))
}

func (s *Server) handleCreateMap(w http.ResponseWriter, r *http.Request) {
	var config atlas.MapConfig
	if err := json.NewDecoder(r.Body).Decode(&config); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	mapID := r.URL.Query().Get("id")
	if mapID == "" {
		mapID = mapIDFromName(config.Name)
	}
	if mapID == "" {
		respondError(w, http.StatusBadRequest, "Map name is required")
		return
	}

	if err := s.service.SaveMap(r.Context(), mapID, &config); err != nil {
		respondServiceError(w, err)
		return
	}

	respondJSON(w, http.StatusCreated, map[string]interface{}{
		"message": "Map saved successfully",
		"map_id":  mapID,
	})
}

func (s *Server) handleFindRoute(w http.ResponseWriter, r *http.Request) {
	mapID := mux.Vars(r)["name"]

	var req service.RouteRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	result, err := s.service.FindRoute(r.Context(), mapID, req)
	if err != nil {
		respondServiceError(w, err)
		return
	}

	logRoute(result)
	respondJSON(w, http.StatusOK, result)
}

func (s *Server) handleNearest(w http.ResponseWriter, r *http.Request) {
	mapID := mux.Vars(r)["name"]

	var req service.NearestRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	result, err := s.service.Nearest(r.Context(), mapID, req)
	if err != nil {
		respondServiceError(w, err)
		return
	}

	log.Printf("[NEAREST] map=%s from=%s tile=%s found=%v steps=%d reachable=%d/%d",
		result.MapID, result.From, result.Tile, result.Found, result.Steps, result.Reachable, result.Candidates)
	respondJSON(w, http.StatusOK, result)
}

func (s *Server) handleListHeuristics(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, s.service.ListHeuristics(r.Context()))
}

// Cache Handlers

func (s *Server) handleCacheStats(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, s.service.CacheStats(r.Context()))
}

func (s *Server) handleClearCache(w http.ResponseWriter, r *http.Request) {
	s.service.ClearCache(r.Context())
	respondJSON(w, http.StatusOK, map[string]string{
		"message": "Route cache cleared",
	})
}

// Session Handlers

func (s *Server) handleCreateSession(w http.ResponseWriter, r *http.Request) {
	var opts service.SessionOptions
	if err := decodeBody(r, &opts); err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}

	session, err := s.service.CreateSession(r.Context(), opts)
	if err != nil {
		respondServiceError(w, err)
		return
	}

	respondJSON(w, http.StatusCreated, session)
}

func (s *Server) handleListSessions(w http.ResponseWriter, r *http.Request) {
	sessions, err := s.service.ListSessions(r.Context())
	if err != nil {
		respondServiceError(w, err)
		return
	}

	// Parse query parameters
	query := r.URL.Query()
	sortBy := query.Get("sort")    // "created", "accessed" (default)
	order := query.Get("order")    // "asc", "desc" (default: "desc")
	limitStr := query.Get("limit") // number of sessions to return
	mapID := query.Get("map")      // only sessions on this map

	// Set defaults
	if sortBy == "" {
		sortBy = "accessed"
	}
	if order == "" {
		order = "desc"
	}

	if mapID != "" {
		filtered := sessions[:0]
		for _, session := range sessions {
			if session.MapID == mapID {
				filtered = append(filtered, session)
			}
		}
		sessions = filtered
	}
	total := len(sessions)

	// Sort sessions
	sort.Slice(sessions, func(i, j int) bool {
		var ti, tj time.Time
		if sortBy == "created" {
			ti, tj = sessions[i].CreatedAt, sessions[j].CreatedAt
		} else { // "accessed"
			ti, tj = sessions[i].LastAccessedAt, sessions[j].LastAccessedAt
		}

		if order == "asc" {
			return ti.Before(tj)
		}
		return ti.After(tj) // desc
	})

	// Apply limit if specified
	limit := len(sessions)
	if limitStr != "" {
		if l, err := strconv.Atoi(limitStr); err == nil && l > 0 && l < len(sessions) {
			limit = l
		}
	}
	sessions = sessions[:limit]

	respondJSON(w, http.StatusOK, map[string]interface{}{
		"count":    len(sessions),
		"total":    total,
		"sessions": sessions,
		"sort":     sortBy,
		"order":    order,
	})
}

func (s *Server) handleGetSession(w http.ResponseWriter, r *http.Request) {
	sessionID := mux.Vars(r)["id"]

	session, err := s.service.GetSession(r.Context(), sessionID)
	if err != nil {
		respondServiceError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, session)
}

func (s *Server) handleDeleteSession(w http.ResponseWriter, r *http.Request) {
	sessionID := mux.Vars(r)["id"]

	if err := s.service.DeleteSession(r.Context(), sessionID); err != nil {
		respondServiceError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, map[string]string{
		"message": fmt.Sprintf("Session %s deleted", sessionID),
	})
}

func (s *Server) handleSessionRoute(w http.ResponseWriter, r *http.Request) {
	sessionID := mux.Vars(r)["id"]

	var req service.RouteRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	result, err := s.service.SessionRoute(r.Context(), sessionID, req)
	if err != nil {
		respondServiceError(w, err)
		return
	}

	logRoute(result)
	respondJSON(w, http.StatusOK, result)
}

func (s *Server) handleStopSearch(w http.ResponseWriter, r *http.Request) {
	sessionID := mux.Vars(r)["id"]

	stopped, err := s.service.StopSearch(r.Context(), sessionID)
	if err != nil {
		respondServiceError(w, err)
		return
	}

	if stopped {
		log.Printf("[STOP] session=%s search stopped", sessionID)
	}
	respondJSON(w, http.StatusOK, map[string]interface{}{
		"session_id": sessionID,
		"stopped":    stopped,
	})
}

func (s *Server) handleGetHistory(w http.ResponseWriter, r *http.Request) {
	sessionID := mux.Vars(r)["id"]

	// Parse query parameters
	opts := service.HistoryOptions{
		Page:  1,
		Limit: 20,
		Order: "desc",
	}

	query := r.URL.Query()
	if pageStr := query.Get("page"); pageStr != "" {
		if p, err := strconv.Atoi(pageStr); err == nil && p > 0 {
			opts.Page = p
		}
	}

	if limitStr := query.Get("limit"); limitStr != "" {
		if l, err := strconv.Atoi(limitStr); err == nil && l > 0 {
			opts.Limit = l
		}
	}

	if order := query.Get("order"); order == "asc" || order == "desc" {
		opts.Order = order
	}

	history, err := s.service.GetHistory(r.Context(), sessionID, opts)
	if err != nil {
		respondServiceError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, history)
}

// WebSocket Handler

func (s *Server) handleWebSocket(w http.ResponseWriter, r *http.Request) {
	if s.hub == nil {
		http.Error(w, "websocket disabled", http.StatusServiceUnavailable)
		return
	}

	query := r.URL.Query()
	if sessionID := query.Get("session"); sessionID != "" {
		// Verify session exists
		if _, err := s.service.GetSession(r.Context(), sessionID); err != nil {
			http.Error(w, "Invalid session", http.StatusNotFound)
			return
		}
		s.hub.ServeWS(w, r, sessionID)
		return
	}

	if mapID := query.Get("map"); mapID != "" {
		if _, err := s.service.LoadMap(r.Context(), mapID); err != nil {
			http.Error(w, "Invalid map", http.StatusNotFound)
			return
		}
		s.hub.ServeWS(w, r, websocket.MapTopic(mapID))
		return
	}

	http.Error(w, "session or map parameter required", http.StatusBadRequest)
}

// Health check
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, map[string]string{
		"status": "healthy",
	})
}

package main

import (
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/wricardo/mcp-training/roadroute/pathfind"
	"github.com/wricardo/mcp-training/roadroute/planner/service"
	"github.com/wricardo/mcp-training/roadroute/transport/mcp"
)

const testMapJSON = `{
  "name": "Test Map",
  "description": "Small map for tests",
  "layout": ["BBBBB", "BRHPB", "BRWRB", "BPRSB", "BBBBB"],
  "heuristic": "manhattan",
  "algorithm": "astar"
}`

// withTestDirs points the directory flags at fresh temp dirs for one test
func withTestDirs(t *testing.T) (string, string) {
	t.Helper()
	maps := t.TempDir()
	sessions := filepath.Join(t.TempDir(), "sessions")
	if err := os.WriteFile(filepath.Join(maps, "classic.json"), []byte(testMapJSON), 0644); err != nil {
		t.Fatalf("Failed to write map: %v", err)
	}

	originalMaps, originalSessions := *mapsDir, *sessionsDir
	*mapsDir, *sessionsDir = maps, sessions
	t.Cleanup(func() { *mapsDir, *sessionsDir = originalMaps, originalSessions })
	return maps, sessions
}

func TestConstants(t *testing.T) {
	if Version == "" {
		t.Error("Version should not be empty")
	}
	if AppName != "Road Route Planner" {
		t.Errorf("Unexpected app name %s", AppName)
	}
}

func TestFlagDefaults(t *testing.T) {
	if *port <= 0 || *port > 65535 {
		t.Errorf("Invalid default port: %d", *port)
	}
	if *host == "" {
		t.Error("Host should have a default value")
	}
	if *mapsDir == "" || *sessionsDir == "" {
		t.Error("Directories should have default values")
	}
	if *cacheSize <= 0 {
		t.Errorf("Invalid default cache size: %d", *cacheSize)
	}
	if *overflow != pathfind.DefaultOverflow {
		t.Errorf("Expected default overflow %d, got %d", pathfind.DefaultOverflow, *overflow)
	}
}

func TestEnvDefault(t *testing.T) {
	t.Setenv("ROADROUTE_TEST_DIR", "custom")
	if got := envDefault("ROADROUTE_TEST_DIR", "fallback"); got != "custom" {
		t.Errorf("Expected env value, got %s", got)
	}
	if got := envDefault("ROADROUTE_TEST_UNSET", "fallback"); got != "fallback" {
		t.Errorf("Expected fallback, got %s", got)
	}
}

func TestEnvInt(t *testing.T) {
	tests := []struct {
		name  string
		value string
		want  int
	}{
		{"number", "250", 250},
		{"empty", "", 42},
		{"garbage", "lots", 42},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv("ROADROUTE_TEST_INT", tt.value)
			if got := envInt("ROADROUTE_TEST_INT", 42); got != tt.want {
				t.Errorf("envInt() = %d, want %d", got, tt.want)
			}
		})
	}
}

func TestInitializeServices(t *testing.T) {
	_, sessionsPath := withTestDirs(t)

	svc, err := initializeServices()
	if err != nil {
		t.Fatalf("Failed to initialize services: %v", err)
	}
	go svc.hub.Run()

	ctx := context.Background()
	result, err := svc.routes.FindRoute(ctx, "classic", service.RouteRequest{
		From: pathfind.Coordinate{X: 1, Y: 1},
		To:   pathfind.Coordinate{X: 3, Y: 3},
	})
	if err != nil {
		t.Fatalf("FindRoute failed: %v", err)
	}
	if !result.Found || result.Steps != 4 {
		t.Errorf("Expected a 4-step route, got %+v", result)
	}

	info, err := svc.routes.CreateSession(ctx, service.SessionOptions{SessionID: "keep"})
	if err != nil {
		t.Fatalf("CreateSession failed: %v", err)
	}
	if info.MapID != "classic" {
		t.Errorf("Expected default map classic, got %s", info.MapID)
	}

	svc.shutdown()

	if _, err := os.Stat(filepath.Join(sessionsPath, "keep.json")); err != nil {
		t.Errorf("Expected session file after shutdown: %v", err)
	}
}

func TestInitializeServices_InvalidMapsDir(t *testing.T) {
	withTestDirs(t)
	*mapsDir = "/non/existent/path"

	if _, err := initializeServices(); err == nil {
		t.Error("Expected error for non-existent maps directory")
	}
}

func TestInitializeServices_InvalidCacheSize(t *testing.T) {
	withTestDirs(t)
	original := *cacheSize
	*cacheSize = 0
	defer func() { *cacheSize = original }()

	if _, err := initializeServices(); err == nil {
		t.Error("Expected error for zero cache size")
	}
}

func TestMCPHandler(t *testing.T) {
	handler := newMCPHandler(mcp.NewClient("http://127.0.0.1:1"))

	t.Run("rejects GET", func(t *testing.T) {
		w := httptest.NewRecorder()
		handler(w, httptest.NewRequest("GET", "/mcp", nil))
		if w.Code != http.StatusMethodNotAllowed {
			t.Errorf("Expected 405, got %d", w.Code)
		}
	})

	t.Run("lists tools", func(t *testing.T) {
		body := `{"jsonrpc":"2.0","id":1,"method":"tools/list"}`
		w := httptest.NewRecorder()
		handler(w, httptest.NewRequest("POST", "/mcp", strings.NewReader(body)))
		if w.Code != http.StatusOK {
			t.Fatalf("Expected 200, got %d", w.Code)
		}
		for _, tool := range []string{"find_route", "nearest", "stop_search"} {
			if !strings.Contains(w.Body.String(), tool) {
				t.Errorf("Expected tool %s in response: %s", tool, w.Body.String())
			}
		}
	})
}

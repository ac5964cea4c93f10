package session

import (
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/wricardo/mcp-training/roadroute/pathfind"
	"github.com/wricardo/mcp-training/roadroute/planner/atlas"
	"github.com/wricardo/mcp-training/roadroute/planner/service"
)

func createTestMap() *atlas.MapConfig {
	return &atlas.MapConfig{
		Name:        "Test Map",
		Description: "Test road map",
		Layout: []string{
			"BBBBB",
			"BRHPB",
			"BRWRB",
			"BPRSB",
			"BBBBB",
		},
	}
}

func testSettings() service.Settings {
	return service.Settings{Heuristic: "manhattan", Algorithm: "astar"}
}

func TestManager_Create(t *testing.T) {
	manager := NewManager()
	config := createTestMap()

	t.Run("create with custom ID", func(t *testing.T) {
		session, err := manager.Create("test-session", "test", config, testSettings())
		if err != nil {
			t.Fatalf("Failed to create session: %v", err)
		}
		if session.ID != "test-session" {
			t.Errorf("Expected session ID 'test-session', got '%s'", session.ID)
		}
		if session.Finder == nil {
			t.Error("Expected finder to be initialized")
		}
		if session.Field == nil {
			t.Error("Expected field to be initialized")
		}
		if session.Finder.Overflow() != pathfind.DefaultOverflow {
			t.Errorf("Expected default overflow %d, got %d", pathfind.DefaultOverflow, session.Finder.Overflow())
		}
	})

	t.Run("create with auto-generated ID", func(t *testing.T) {
		session, err := manager.Create("", "test", config, testSettings())
		if err != nil {
			t.Fatalf("Failed to create session: %v", err)
		}
		if len(session.ID) != 4 {
			t.Errorf("Expected 4-character session ID, got %d characters", len(session.ID))
		}
	})

	t.Run("duplicate session ID", func(t *testing.T) {
		_, err := manager.Create("test-session", "test", config, testSettings())
		if err != ErrSessionAlreadyExists {
			t.Errorf("Expected ErrSessionAlreadyExists, got %v", err)
		}
	})

	t.Run("case-insensitive duplicate check", func(t *testing.T) {
		_, err := manager.Create("TEST-SESSION", "test", config, testSettings())
		if err != ErrSessionAlreadyExists {
			t.Errorf("Expected ErrSessionAlreadyExists for case variant, got %v", err)
		}
	})

	t.Run("invalid session ID", func(t *testing.T) {
		for _, id := range []string{"../escape", "a/b", "a.b", `a\b`} {
			if _, err := manager.Create(id, "test", config, testSettings()); err != ErrInvalidSessionID {
				t.Errorf("Create(%q): expected ErrInvalidSessionID, got %v", id, err)
			}
		}
	})

	t.Run("invalid settings", func(t *testing.T) {
		settings := testSettings()
		settings.Heuristic = "teleport"
		if _, err := manager.Create("bad-settings", "test", config, settings); err == nil {
			t.Error("Expected error for unknown heuristic")
		}
	})

	t.Run("missing map", func(t *testing.T) {
		if _, err := manager.Create("no-map", "test", nil, testSettings()); err == nil {
			t.Error("Expected error for nil map")
		}
	})
}

func TestManager_Get(t *testing.T) {
	manager := NewManager()
	created, _ := manager.Create("get-test", "test", createTestMap(), testSettings())

	t.Run("get existing session", func(t *testing.T) {
		session, err := manager.Get("get-test")
		if err != nil {
			t.Fatalf("Failed to get session: %v", err)
		}
		if session != created {
			t.Error("Expected the same session instance")
		}
	})

	t.Run("case-insensitive get", func(t *testing.T) {
		session, err := manager.Get("GET-TEST")
		if err != nil {
			t.Fatalf("Failed to get session with different case: %v", err)
		}
		if session.ID != "get-test" {
			t.Errorf("Expected session ID 'get-test', got '%s'", session.ID)
		}
	})

	t.Run("get non-existent session", func(t *testing.T) {
		_, err := manager.Get("non-existent")
		if err != ErrSessionNotFound {
			t.Errorf("Expected ErrSessionNotFound, got %v", err)
		}
	})
}

func TestManager_ListAndCount(t *testing.T) {
	manager := NewManager()
	if len(manager.List()) != 0 {
		t.Error("Expected empty list initially")
	}

	for _, id := range []string{"one", "two", "three"} {
		if _, err := manager.Create(id, "test", createTestMap(), testSettings()); err != nil {
			t.Fatalf("Failed to create session %s: %v", id, err)
		}
	}

	if got := len(manager.List()); got != 3 {
		t.Errorf("Expected 3 sessions, got %d", got)
	}
	if manager.Count() != 3 {
		t.Errorf("Expected count 3, got %d", manager.Count())
	}
}

func TestManager_Delete(t *testing.T) {
	manager := NewManager()
	session, _ := manager.Create("delete-test", "test", createTestMap(), testSettings())

	if err := manager.Delete("DELETE-TEST"); err != nil {
		t.Fatalf("Failed to delete session: %v", err)
	}
	if !session.Finder.IsClosed() {
		t.Error("Expected finder to be closed after delete")
	}
	if _, err := manager.Get("delete-test"); err != ErrSessionNotFound {
		t.Errorf("Expected ErrSessionNotFound after delete, got %v", err)
	}
	if err := manager.Delete("delete-test"); err != ErrSessionNotFound {
		t.Errorf("Expected ErrSessionNotFound on second delete, got %v", err)
	}
}

func TestManager_UpdateLastAccessed(t *testing.T) {
	manager := NewManager()
	session, _ := manager.Create("access-test", "test", createTestMap(), testSettings())
	before := session.LastAccessedAt

	time.Sleep(5 * time.Millisecond)
	if err := manager.UpdateLastAccessed("access-test"); err != nil {
		t.Fatalf("Failed to update last accessed: %v", err)
	}
	if !session.LastAccessedAt.After(before) {
		t.Error("Expected LastAccessedAt to advance")
	}

	if err := manager.UpdateLastAccessed("missing"); err != ErrSessionNotFound {
		t.Errorf("Expected ErrSessionNotFound, got %v", err)
	}
}

func TestManager_CleanupExpiredSessions(t *testing.T) {
	manager := NewManager()
	old, _ := manager.Create("old", "test", createTestMap(), testSettings())
	manager.Create("fresh", "test", createTestMap(), testSettings())

	old.LastAccessedAt = time.Now().Add(-2 * time.Hour)

	removed := manager.CleanupExpiredSessions(time.Hour)
	if removed != 1 {
		t.Errorf("Expected 1 removed session, got %d", removed)
	}
	if !old.Finder.IsClosed() {
		t.Error("Expected expired session finder to be closed")
	}
	if _, err := manager.Get("fresh"); err != nil {
		t.Errorf("Expected fresh session to survive, got %v", err)
	}
}

func TestManager_SessionFinderRoutes(t *testing.T) {
	manager := NewManager()
	session, _ := manager.Create("route-test", "test", createTestMap(), testSettings())

	path := session.Finder.ComputeRoute(session.Field, 1, 1, 3, 3, false)
	if len(path) != 5 {
		t.Fatalf("Expected a 5 cell route, got %v", path)
	}
	if path[0] != (pathfind.Coordinate{X: 1, Y: 1}) || path[len(path)-1] != (pathfind.Coordinate{X: 3, Y: 3}) {
		t.Errorf("Route does not connect start and goal: %v", path)
	}
}

func TestManager_ConcurrentAccess(t *testing.T) {
	manager := NewManager()
	config := createTestMap()

	var wg sync.WaitGroup
	errs := make(chan error, 20)
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			session, err := manager.Create("", "test", config, testSettings())
			if err != nil {
				errs <- err
				return
			}
			if _, err := manager.Get(session.ID); err != nil {
				errs <- err
			}
		}()
	}
	wg.Wait()
	close(errs)

	for err := range errs {
		if !strings.Contains(err.Error(), "already exists") {
			t.Errorf("Unexpected error: %v", err)
		}
	}
}

func TestManager_Close(t *testing.T) {
	manager := NewManager()
	a, _ := manager.Create("a", "test", createTestMap(), testSettings())
	b, _ := manager.Create("b", "test", createTestMap(), testSettings())

	manager.Close()
	if !a.Finder.IsClosed() || !b.Finder.IsClosed() {
		t.Error("Expected every finder to be closed")
	}
}

package statusclient_test

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"pixelpet.ai/internal/game"
	"pixelpet.ai/internal/statusclient"
	"pixelpet.ai/internal/transport/bridge"
)

func startStack(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "pet.sock")
	engine := game.New(game.Config{TickRateHz: 50, DayTicks: 100}, game.NewState(), nil)

	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)
	go func() { _ = engine.Run(ctx) }()

	srv := bridge.NewServer(path, nil)
	srv.OnQuery(func(ctx context.Context, query string) (any, error) {
		return engine.Query(ctx, query)
	})
	srv.OnAction(func(ctx context.Context, action string, data map[string]any) (any, error) {
		return engine.Do(ctx, action, data)
	})
	go func() { _ = srv.Serve(ctx) }()

	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if _, err := os.Stat(path); err == nil {
			return path
		}
		time.Sleep(5 * time.Millisecond)
	}
	t.Fatalf("socket %s never appeared", path)
	return ""
}

func TestClient_StatusQuery(t *testing.T) {
	c := &statusclient.Client{SocketPath: startStack(t)}
	got, err := c.Query("status")
	if err != nil {
		t.Fatal(err)
	}
	if got["level"] != float64(1) {
		t.Fatalf("level=%v want 1", got["level"])
	}
	if got["activity"] != "idle" {
		t.Fatalf("activity=%v want idle", got["activity"])
	}
}

func TestClient_SkillsAndAchievements(t *testing.T) {
	c := &statusclient.Client{SocketPath: startStack(t)}

	skills, err := c.Query("skills")
	if err != nil {
		t.Fatal(err)
	}
	if _, ok := skills["skills"].(map[string]any); !ok {
		t.Fatalf("skills payload malformed: %+v", skills)
	}

	ach, err := c.Query("achievements")
	if err != nil {
		t.Fatal(err)
	}
	if _, ok := ach["total"]; !ok {
		t.Fatalf("achievements payload malformed: %+v", ach)
	}
}

func TestClient_UpgradeAction(t *testing.T) {
	c := &statusclient.Client{SocketPath: startStack(t)}
	got, err := c.Do("upgrade", map[string]any{"skill": "focus"})
	if err != nil {
		t.Fatal(err)
	}
	if ok, _ := got["success"].(bool); ok {
		t.Fatal("upgrade with zero tokens should fail")
	}
}

func TestClient_NotRunning(t *testing.T) {
	c := &statusclient.Client{SocketPath: filepath.Join(t.TempDir(), "nope.sock")}
	if _, err := c.Query("status"); !errors.Is(err, statusclient.ErrNotRunning) {
		t.Fatalf("want ErrNotRunning, got %v", err)
	}
}

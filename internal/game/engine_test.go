package game

import (
	"context"
	"testing"
	"time"

	"pixelpet.ai/internal/protocol"
)

func newTestEngine(t *testing.T) *Engine {
	t.Helper()
	e := New(Config{TickRateHz: 20, DayTicks: 100, IdleRestAfter: time.Minute}, NewState(), nil)
	e.now = func() time.Time { return time.Unix(1726000000, 0) }
	return e
}

func TestEngine_ToolStartThenCompleteEndsIdle(t *testing.T) {
	e := newTestEngine(t)

	e.handleDispatch(claudeEvent(protocol.EventToolStart, map[string]any{"tool_name": "Read"}))
	if got := e.st.MainAgent.Activity; got != ActivityReading {
		t.Fatalf("after tool start: activity=%s want reading", got)
	}
	if e.st.MainAgent.CurrentLocation != "library" {
		t.Fatalf("Read should move the pet to the library, got %s", e.st.MainAgent.CurrentLocation)
	}
	if e.st.MainAgent.LastTool != "Read" || e.st.MainAgent.LastToolTime.IsZero() {
		t.Fatal("tool start must record last tool and time")
	}

	e.handleDispatch(claudeEvent(protocol.EventToolComplete, map[string]any{"tool_name": "Read"}))
	if got := e.st.MainAgent.Activity; got != ActivityIdle {
		t.Fatalf("after tool complete: activity=%s want idle", got)
	}
	if e.st.MainAgent.CurrentLocation != "center" {
		t.Fatalf("idle should reset location to center, got %s", e.st.MainAgent.CurrentLocation)
	}
	if e.st.Progression.TotalToolsUsed != 1 {
		t.Fatalf("tools_used=%d want 1", e.st.Progression.TotalToolsUsed)
	}
	if e.st.Progression.ToolUsage["Read"] != 1 {
		t.Fatalf("tool breakdown for Read=%d want 1", e.st.Progression.ToolUsage["Read"])
	}
	if e.st.Progression.Experience <= 0 && e.st.Progression.Level == 1 {
		t.Fatal("tool completion must award experience")
	}
}

func TestEngine_LevelUpArithmetic(t *testing.T) {
	e := newTestEngine(t)

	e.applyEvent(GameEvent{Kind: EvAwardResources, Data: map[string]any{"xp": 150}})
	p := e.st.Progression
	if p.Level != 2 || p.Experience != 50 || p.ExperienceToNext != 150 {
		t.Fatalf("after 150xp: level=%d exp=%d to_next=%d, want 2/50/150",
			p.Level, p.Experience, p.ExperienceToNext)
	}
}

func TestEngine_SingleAwardGainsAtMostOneLevel(t *testing.T) {
	e := newTestEngine(t)

	// 400 xp crosses the 100 and the 150 thresholds, but one award only
	// levels once; the rest carries over.
	e.applyEvent(GameEvent{Kind: EvAwardResources, Data: map[string]any{"xp": 400}})
	p := e.st.Progression
	if p.Level != 2 || p.Experience != 300 || p.ExperienceToNext != 150 {
		t.Fatalf("after 400xp: level=%d exp=%d to_next=%d, want 2/300/150",
			p.Level, p.Experience, p.ExperienceToNext)
	}
}

func TestEngine_AgentLifecycle(t *testing.T) {
	e := newTestEngine(t)

	e.applyEvent(GameEvent{Kind: EvSpawnAgent, Data: map[string]any{
		"agent_id": "a1", "agent_type": "general-purpose",
	}})
	if _, ok := e.st.Entities["a1"]; !ok {
		t.Fatal("spawn should create entity a1")
	}
	if e.st.Progression.TotalSubagentsSpawned != 1 {
		t.Fatalf("spawned=%d want 1", e.st.Progression.TotalSubagentsSpawned)
	}

	e.applyEvent(GameEvent{Kind: EvRemoveAgent, Data: map[string]any{"agent_id": "a1"}})
	if _, ok := e.st.Entities["a1"]; ok {
		t.Fatal("remove should delete entity a1")
	}

	// Removing again is a no-op, not an error.
	e.applyEvent(GameEvent{Kind: EvRemoveAgent, Data: map[string]any{"agent_id": "a1"}})
	if len(e.st.Entities) != 0 {
		t.Fatalf("entities=%d want 0", len(e.st.Entities))
	}
	if e.st.Progression.TotalSubagentsSpawned != 1 {
		t.Fatalf("spawned=%d want 1 after removals", e.st.Progression.TotalSubagentsSpawned)
	}
}

func TestEngine_DuplicateSpawnLastWriteWins(t *testing.T) {
	e := newTestEngine(t)

	e.applyEvent(GameEvent{Kind: EvSpawnAgent, Data: map[string]any{
		"agent_id": "a1", "agent_type": "general-purpose",
	}})
	e.applyEvent(GameEvent{Kind: EvSpawnAgent, Data: map[string]any{
		"agent_id": "a1", "agent_type": "code-reviewer",
	}})
	if got := e.st.Entities["a1"].AgentType; got != "code-reviewer" {
		t.Fatalf("duplicate spawn should overwrite, got type %s", got)
	}
	if e.st.Progression.TotalSubagentsSpawned != 2 {
		t.Fatalf("spawned=%d want 2", e.st.Progression.TotalSubagentsSpawned)
	}
}

func TestEngine_MainAgentIDNeverEntersEntityMap(t *testing.T) {
	e := newTestEngine(t)
	e.applyEvent(GameEvent{Kind: EvSpawnAgent, Data: map[string]any{
		"agent_id": mainAgentID, "agent_type": "general-purpose",
	}})
	if _, ok := e.st.Entities[mainAgentID]; ok {
		t.Fatal("reserved main agent id must not appear as a sub-agent")
	}
}

func TestEngine_SessionFlags(t *testing.T) {
	e := newTestEngine(t)

	e.applyEvent(GameEvent{Kind: EvSessionStart, Data: map[string]any{"source": "startup"}})
	if !e.st.SessionActive || e.st.SessionSource != "startup" {
		t.Fatalf("session not active after start: %+v", e.st.SessionActive)
	}
	e.applyEvent(GameEvent{Kind: EvSessionEnd, Data: map[string]any{}})
	if e.st.SessionActive {
		t.Fatal("session still active after end")
	}
}

func TestEngine_APIUsageAccumulates(t *testing.T) {
	e := newTestEngine(t)

	e.applyEvent(GameEvent{Kind: EvAPIUsage, Data: map[string]any{
		"input_tokens": 1000, "output_tokens": 500, "cache_read_tokens": 200,
	}})
	e.applyEvent(GameEvent{Kind: EvAPIUsage, Data: map[string]any{
		"input_tokens": 1000,
	}})
	c := e.st.Resources.APICosts
	if c.InputTokens != 2000 || c.OutputTokens != 500 || c.CacheReadTokens != 200 {
		t.Fatalf("unexpected accumulator: %+v", c)
	}
	if c.CostUSD <= 0 {
		t.Fatal("cost should be positive after usage")
	}
}

func TestEngine_StatusQuery(t *testing.T) {
	e := newTestEngine(t)

	e.handleDispatch(claudeEvent(protocol.EventToolStart, map[string]any{"tool_name": "Bash"}))
	e.handleDispatch(claudeEvent(protocol.EventToolComplete, map[string]any{"tool_name": "Bash"}))

	got := e.handleQuery("status")
	if got["level"] != 1 || got["tools_used"] != 1 {
		t.Fatalf("unexpected status: %+v", got)
	}
	if got["activity"] != string(ActivityIdle) {
		t.Fatalf("status activity=%v want idle", got["activity"])
	}
	if got["tokens"] != 2 {
		t.Fatalf("Bash completion should award 2 tokens, got %v", got["tokens"])
	}
}

func TestEngine_UnknownQuery(t *testing.T) {
	e := newTestEngine(t)
	got := e.handleQuery("weather")
	if _, ok := got["error"]; !ok {
		t.Fatalf("unknown query should report an error, got %+v", got)
	}
}

func TestEngine_UpgradeSkill(t *testing.T) {
	e := newTestEngine(t)

	res := e.handleAction("upgrade", map[string]any{"skill": "focus"})
	if res.Success {
		t.Fatal("upgrade with zero tokens should fail")
	}
	if e.st.Skills["focus"] != 1 {
		t.Fatal("failed upgrade must not change the skill")
	}

	e.st.Resources.Tokens = 120
	res = e.handleAction("upgrade", map[string]any{"skill": "focus"})
	if !res.Success {
		t.Fatalf("upgrade should succeed with 120 tokens: %s", res.Message)
	}
	if e.st.Skills["focus"] != 2 {
		t.Fatalf("focus level=%d want 2", e.st.Skills["focus"])
	}
	if e.st.Resources.Tokens != 70 {
		t.Fatalf("tokens=%d want 70 after a 50-token upgrade", e.st.Resources.Tokens)
	}

	res = e.handleAction("upgrade", map[string]any{"skill": "flight"})
	if res.Success {
		t.Fatal("unknown skill must not upgrade")
	}
}

func TestEngine_DispatchThroughRunLoop(t *testing.T) {
	e := New(Config{TickRateHz: 50, DayTicks: 100}, NewState(), nil)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go func() { _ = e.Run(ctx) }()

	callCtx, callCancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer callCancel()

	if err := e.DispatchClaudeEvent(callCtx, claudeEvent(protocol.EventToolStart, map[string]any{
		"tool_name": "Grep",
	})); err != nil {
		t.Fatalf("dispatch: %v", err)
	}

	got, err := e.Query(callCtx, "status")
	if err != nil {
		t.Fatalf("query: %v", err)
	}
	if got["activity"] != string(ActivitySearching) {
		t.Fatalf("activity=%v want searching", got["activity"])
	}

	snap, err := e.CurrentSnapshot(callCtx)
	if err != nil {
		t.Fatalf("snapshot: %v", err)
	}
	if snap.MainAgent.Activity != string(ActivitySearching) {
		t.Fatalf("snapshot activity=%s want searching", snap.MainAgent.Activity)
	}
	if len(snap.Particles) == 0 {
		t.Fatal("tool start should leave a particle in the snapshot")
	}
}

func TestEngine_IdleDecaysToResting(t *testing.T) {
	e := newTestEngine(t)
	e.cfg.IdleRestAfter = 10 * time.Second

	base := time.Unix(1726000000, 0)
	e.now = func() time.Time { return base }
	e.handleDispatch(claudeEvent(protocol.EventToolStart, map[string]any{"tool_name": "Read"}))
	e.handleDispatch(claudeEvent(protocol.EventToolComplete, map[string]any{"tool_name": "Read"}))

	e.now = func() time.Time { return base.Add(11 * time.Second) }
	e.update(50 * time.Millisecond)
	if e.st.MainAgent.Activity != ActivityResting {
		t.Fatalf("activity=%s want resting after idle window", e.st.MainAgent.Activity)
	}
}

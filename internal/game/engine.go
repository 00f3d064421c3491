package game

import (
	"context"
	"log"
	"math"
	"time"

	"pixelpet.ai/internal/protocol"
)

type Config struct {
	TickRateHz    int
	DayTicks      int
	IdleRestAfter time.Duration
}

// JournalEntry is one applied game event as written to the event journal.
type JournalEntry struct {
	At    time.Time      `json:"at"`
	Kind  GameEventKind  `json:"kind"`
	Data  map[string]any `json:"data,omitempty"`
	Level int            `json:"level"`
}

// Journal receives every applied game event. Implemented in
// internal/persistence/journal; may be nil.
type Journal interface {
	WriteEvent(entry JournalEntry) error
}

// StatsIndex receives read-model rows for the session stats database.
// Implemented in internal/persistence/indexdb; may be nil.
type StatsIndex interface {
	RecordToolUse(tool string, xp int)
	RecordSession(active bool, source string)
}

type dispatchReq struct {
	ev   protocol.ClaudeEvent
	done chan struct{}
}

type queryReq struct {
	name string
	resp chan map[string]any
}

type actionReq struct {
	name string
	data map[string]any
	resp chan protocol.ActionResult
}

// Engine owns the canonical game state. All state access happens on the
// goroutine running Run; external callers go through the request channels.
type Engine struct {
	cfg Config
	st  *State
	log *log.Logger

	journal Journal
	stats   StatsIndex

	dispatch chan dispatchReq
	queries  chan queryReq
	actions  chan actionReq
	snaps    chan chan Snapshot
	stop     chan struct{}

	now func() time.Time
}

// New wires an engine around an injected state so tests can run several
// instances side by side.
func New(cfg Config, st *State, logger *log.Logger) *Engine {
	if cfg.TickRateHz <= 0 {
		cfg.TickRateHz = 10
	}
	if cfg.DayTicks <= 0 {
		cfg.DayTicks = 6000
	}
	if cfg.IdleRestAfter <= 0 {
		cfg.IdleRestAfter = 45 * time.Second
	}
	return &Engine{
		cfg:      cfg,
		st:       st,
		log:      logger,
		dispatch: make(chan dispatchReq),
		queries:  make(chan queryReq),
		actions:  make(chan actionReq),
		snaps:    make(chan chan Snapshot),
		stop:     make(chan struct{}),
		now:      time.Now,
	}
}

func (e *Engine) SetJournal(j Journal)       { e.journal = j }
func (e *Engine) SetStatsIndex(s StatsIndex) { e.stats = s }

// Run drives the engine until the context is cancelled or Stop is called.
func (e *Engine) Run(ctx context.Context) error {
	interval := time.Second / time.Duration(e.cfg.TickRateHz)
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	last := e.now()
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-e.stop:
			return nil
		case req := <-e.dispatch:
			e.handleDispatch(req.ev)
			close(req.done)
		case req := <-e.queries:
			req.resp <- e.handleQuery(req.name)
		case req := <-e.actions:
			req.resp <- e.handleAction(req.name, req.data)
		case resp := <-e.snaps:
			resp <- e.snapshot()
		case <-ticker.C:
			now := e.now()
			e.update(now.Sub(last))
			last = now
		}
	}
}

func (e *Engine) Stop() { close(e.stop) }

// DispatchClaudeEvent maps a wire event and applies the resulting game
// events in order on the engine goroutine. It returns only after every
// event is applied, so the bridge acks strictly after the mutation.
func (e *Engine) DispatchClaudeEvent(ctx context.Context, ev protocol.ClaudeEvent) error {
	req := dispatchReq{ev: ev, done: make(chan struct{})}
	select {
	case e.dispatch <- req:
	case <-ctx.Done():
		return ctx.Err()
	}
	select {
	case <-req.done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Query answers a status-client query on the engine goroutine.
func (e *Engine) Query(ctx context.Context, name string) (map[string]any, error) {
	req := queryReq{name: name, resp: make(chan map[string]any, 1)}
	select {
	case e.queries <- req:
	case <-ctx.Done():
		return nil, ctx.Err()
	}
	select {
	case r := <-req.resp:
		return r, nil
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

// Do executes a status-client action on the engine goroutine.
func (e *Engine) Do(ctx context.Context, name string, data map[string]any) (protocol.ActionResult, error) {
	req := actionReq{name: name, data: data, resp: make(chan protocol.ActionResult, 1)}
	select {
	case e.actions <- req:
	case <-ctx.Done():
		return protocol.ActionResult{}, ctx.Err()
	}
	select {
	case r := <-req.resp:
		return r, nil
	case <-ctx.Done():
		return protocol.ActionResult{}, ctx.Err()
	}
}

// CurrentSnapshot returns a copy of the renderable state.
func (e *Engine) CurrentSnapshot(ctx context.Context) (Snapshot, error) {
	resp := make(chan Snapshot, 1)
	select {
	case e.snaps <- resp:
	case <-ctx.Done():
		return Snapshot{}, ctx.Err()
	}
	select {
	case s := <-resp:
		return s, nil
	case <-ctx.Done():
		return Snapshot{}, ctx.Err()
	}
}

func (e *Engine) handleDispatch(ev protocol.ClaudeEvent) {
	for _, ge := range MapClaudeEvent(ev) {
		e.applyEvent(ge)
		e.record(ge)
	}
}

func (e *Engine) record(ge GameEvent) {
	if e.journal != nil {
		if err := e.journal.WriteEvent(JournalEntry{
			At:    e.now(),
			Kind:  ge.Kind,
			Data:  ge.Data,
			Level: e.st.Progression.Level,
		}); err != nil && e.log != nil {
			e.log.Printf("journal: write event: %v", err)
		}
	}
	if e.stats == nil {
		return
	}
	switch ge.Kind {
	case EvAwardResources:
		if tool, ok := strField(ge.Data, "tool_name"); ok && tool != "" {
			xp, _ := intField(ge.Data, "xp")
			e.stats.RecordToolUse(tool, xp)
		}
	case EvSessionStart:
		source, _ := strField(ge.Data, "source")
		e.stats.RecordSession(true, source)
	case EvSessionEnd:
		e.stats.RecordSession(false, "")
	}
}

const walkSpeed = 14.0 // cells per second

// update advances the simulation one tick: day cycle, walking, particle
// expiry, idle decay into resting.
func (e *Engine) update(dt time.Duration) {
	st := e.st
	now := e.now()

	st.dayTick++
	if st.dayTick >= uint64(e.cfg.DayTicks) {
		st.dayTick = 0
	}

	if st.MainAgent.Walking {
		step := walkSpeed * dt.Seconds()
		st.MainAgent.Pos = stepToward(st.MainAgent.Pos, st.MainAgent.Target, step)
		if st.MainAgent.Pos == st.MainAgent.Target {
			st.MainAgent.Walking = false
		}
	}

	if st.MainAgent.Activity == ActivityCelebrating && now.After(st.MainAgent.celebrateUntil) {
		st.MainAgent.Activity = ActivityIdle
	}

	if st.MainAgent.Activity == ActivityIdle &&
		!st.MainAgent.LastToolTime.IsZero() &&
		now.Sub(st.MainAgent.LastToolTime) > e.cfg.IdleRestAfter {
		st.MainAgent.Activity = ActivityResting
	}

	live := st.particles[:0]
	for _, p := range st.particles {
		if now.Before(p.Expires) {
			live = append(live, p)
		}
	}
	st.particles = live

	e.checkAchievements()
}

func stepToward(pos, target Vec2, step float64) Vec2 {
	dx := target.X - pos.X
	dy := target.Y - pos.Y
	dist := math.Hypot(dx, dy)
	if dist <= step {
		return target
	}
	scale := step / dist
	return Vec2{X: pos.X + dx*scale, Y: pos.Y + dy*scale}
}

// timeOfDay is the day-cycle phase in [0,1).
func (e *Engine) timeOfDay() float64 {
	return float64(e.st.dayTick) / float64(e.cfg.DayTicks)
}

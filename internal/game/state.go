package game

import "time"

// Activity is what the main pet is visibly doing.
type Activity string

const (
	ActivityIdle          Activity = "idle"
	ActivityThinking      Activity = "thinking"
	ActivityReading       Activity = "reading"
	ActivityWriting       Activity = "writing"
	ActivitySearching     Activity = "searching"
	ActivityBuilding      Activity = "building"
	ActivityExploring     Activity = "exploring"
	ActivityCommunicating Activity = "communicating"
	ActivityResting       Activity = "resting"
	ActivityCelebrating   Activity = "celebrating"
)

type Vec2 struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// MainAgent is the pet itself. Position and walking are consumed by the
// renderer; the engine only moves the agent between named waypoints.
type MainAgent struct {
	Activity        Activity
	CurrentTool     string
	LastTool        string
	LastToolTime    time.Time
	Pos             Vec2
	Target          Vec2
	Walking         bool
	CurrentLocation string

	celebrateUntil time.Time
}

// SubAgent is a spawned helper creature, keyed by agent id in State.Entities.
type SubAgent struct {
	Activity    Activity
	AgentType   string
	Description string
	Pos         Vec2
}

// APICosts accumulates token counts reported via API_USAGE events.
type APICosts struct {
	InputTokens         int64
	OutputTokens        int64
	CacheReadTokens     int64
	CacheCreationTokens int64
	CostUSD             float64
}

// Rough per-million-token pricing used only for the on-screen cost readout.
const (
	inputCostPerMTok  = 3.0
	outputCostPerMTok = 15.0
	cacheCostPerMTok  = 0.3
)

func (c *APICosts) Add(in, out, cacheRead, cacheCreate int64) {
	c.InputTokens += in
	c.OutputTokens += out
	c.CacheReadTokens += cacheRead
	c.CacheCreationTokens += cacheCreate
	c.CostUSD += float64(in)*inputCostPerMTok/1e6 +
		float64(out)*outputCostPerMTok/1e6 +
		float64(cacheRead+cacheCreate)*cacheCostPerMTok/1e6
}

type Resources struct {
	Tokens      int
	Connections int
	APICosts    APICosts
}

type Progression struct {
	Level                 int
	Experience            int
	ExperienceToNext      int
	TotalToolsUsed        int
	TotalSubagentsSpawned int
	ToolUsage             map[string]int
}

// Particle is a transient effect for the renderer; expired entries are
// dropped by the engine tick.
type Particle struct {
	Effect  string
	Pos     Vec2
	Expires time.Time
}

// State is the canonical game state. It is created once per process and owned
// by a single Engine; nothing outside the engine goroutine may touch it.
type State struct {
	MainAgent   MainAgent
	Entities    map[string]*SubAgent
	Resources   Resources
	Progression Progression
	Skills      map[string]int

	SessionActive bool
	SessionSource string

	unlocked      map[string]bool
	unlockedOrder []string

	particles []Particle

	dayTick uint64
}

const mainAgentID = "main_agent"

func NewState() *State {
	return &State{
		MainAgent: MainAgent{
			Activity:        ActivityIdle,
			Pos:             waypoints["center"],
			Target:          waypoints["center"],
			CurrentLocation: "center",
		},
		Entities: make(map[string]*SubAgent),
		Progression: Progression{
			Level:            1,
			ExperienceToNext: baseExperienceToNext,
			ToolUsage:        make(map[string]int),
		},
		Skills:   defaultSkills(),
		unlocked: make(map[string]bool),
	}
}

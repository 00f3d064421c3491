package game

// Snapshot is a copy of the renderable state, safe to hand off the engine
// goroutine. The observer stream serializes it as-is.
type Snapshot struct {
	TimeOfDay     float64                   `json:"time_of_day"`
	SessionActive bool                      `json:"session_active"`
	MainAgent     SnapshotAgent             `json:"main_agent"`
	Entities      map[string]SnapshotEntity `json:"entities"`
	Particles     []SnapshotParticle        `json:"particles"`
	Level         int                       `json:"level"`
	Experience    int                       `json:"experience"`
	XPToNext      int                       `json:"xp_to_next"`
	Tokens        int                       `json:"tokens"`
	Connections   int                       `json:"connections"`
	CostUSD       float64                   `json:"cost_usd"`
}

type SnapshotAgent struct {
	Activity    string `json:"activity"`
	CurrentTool string `json:"current_tool,omitempty"`
	Location    string `json:"location"`
	Pos         Vec2   `json:"pos"`
	Target      Vec2   `json:"target"`
	Walking     bool   `json:"walking"`
}

type SnapshotEntity struct {
	Activity    string `json:"activity"`
	AgentType   string `json:"agent_type"`
	Description string `json:"description,omitempty"`
	Pos         Vec2   `json:"pos"`
}

type SnapshotParticle struct {
	Effect string `json:"effect"`
	Pos    Vec2   `json:"pos"`
}

func (e *Engine) snapshot() Snapshot {
	st := e.st
	snap := Snapshot{
		TimeOfDay:     e.timeOfDay(),
		SessionActive: st.SessionActive,
		MainAgent: SnapshotAgent{
			Activity:    string(st.MainAgent.Activity),
			CurrentTool: st.MainAgent.CurrentTool,
			Location:    st.MainAgent.CurrentLocation,
			Pos:         st.MainAgent.Pos,
			Target:      st.MainAgent.Target,
			Walking:     st.MainAgent.Walking,
		},
		Entities:    make(map[string]SnapshotEntity, len(st.Entities)),
		Level:       st.Progression.Level,
		Experience:  st.Progression.Experience,
		XPToNext:    st.Progression.ExperienceToNext,
		Tokens:      st.Resources.Tokens,
		Connections: st.Resources.Connections,
		CostUSD:     st.Resources.APICosts.CostUSD,
	}
	for id, ent := range st.Entities {
		snap.Entities[id] = SnapshotEntity{
			Activity:    string(ent.Activity),
			AgentType:   ent.AgentType,
			Description: ent.Description,
			Pos:         ent.Pos,
		}
	}
	for _, p := range st.particles {
		snap.Particles = append(snap.Particles, SnapshotParticle{Effect: p.Effect, Pos: p.Pos})
	}
	return snap
}

package game

import "time"

const (
	particleLifetime = 2 * time.Second
	celebrateFor     = 3 * time.Second
)

// applyEvent mutates state for one game event. It runs only on the engine
// goroutine and never blocks, so no other task can observe a half-applied
// event.
func (e *Engine) applyEvent(ev GameEvent) {
	st := e.st
	now := e.now()

	switch ev.Kind {
	case EvChangeActivity:
		activity, _ := strField(ev.Data, "activity")
		st.MainAgent.Activity = Activity(activity)
		if tool, ok := strField(ev.Data, "tool_name"); ok && tool != "" {
			st.MainAgent.CurrentTool = tool
			st.MainAgent.LastTool = tool
			st.MainAgent.LastToolTime = now
			e.moveMainAgent(LocationForTool(tool))
		}
		if st.MainAgent.Activity == ActivityIdle {
			st.MainAgent.CurrentTool = ""
			e.moveMainAgent("center")
		}

	case EvSpawnParticles:
		effect, _ := strField(ev.Data, "effect")
		if effect == "" {
			effect = defaultEffect
		}
		st.particles = append(st.particles, Particle{
			Effect:  effect,
			Pos:     st.MainAgent.Pos,
			Expires: now.Add(particleLifetime),
		})

	case EvSpawnAgent:
		agentID, _ := strField(ev.Data, "agent_id")
		if agentID == mainAgentID {
			// The reserved main-agent id never appears in the entity map.
			return
		}
		agentType, _ := strField(ev.Data, "agent_type")
		description, _ := strField(ev.Data, "description")
		// Duplicate ids overwrite the previous entity; spawning is counted
		// either way.
		st.Entities[agentID] = &SubAgent{
			Activity:    ActivityExploring,
			AgentType:   agentType,
			Description: description,
			Pos:         e.spawnPos(),
		}
		st.Progression.TotalSubagentsSpawned++

	case EvRemoveAgent:
		agentID, _ := strField(ev.Data, "agent_id")
		delete(st.Entities, agentID)

	case EvAwardResources:
		if xp, ok := intField(ev.Data, "xp"); ok {
			e.awardExperience(xp)
		}
		if tokens, ok := intField(ev.Data, "tokens"); ok {
			st.Resources.Tokens += tokens
		}
		if conns, ok := intField(ev.Data, "connections"); ok {
			st.Resources.Connections += conns
		}
		if tool, ok := strField(ev.Data, "tool_name"); ok && tool != "" {
			st.Progression.TotalToolsUsed++
			st.Progression.ToolUsage[tool]++
		}

	case EvSessionStart:
		st.SessionActive = true
		st.SessionSource, _ = strField(ev.Data, "source")

	case EvSessionEnd:
		st.SessionActive = false

	case EvAPIUsage:
		in, _ := intField(ev.Data, "input_tokens")
		out, _ := intField(ev.Data, "output_tokens")
		cacheRead, _ := intField(ev.Data, "cache_read_tokens")
		cacheCreate, _ := intField(ev.Data, "cache_creation_tokens")
		st.Resources.APICosts.Add(int64(in), int64(out), int64(cacheRead), int64(cacheCreate))
	}
}

// awardExperience applies XP and at most one level-up per award. A single
// award large enough to cross two thresholds still gains one level; the
// remainder carries over into the next award.
func (e *Engine) awardExperience(xp int) {
	p := &e.st.Progression
	p.Experience += xp
	if p.Experience >= p.ExperienceToNext {
		p.Level++
		p.Experience -= p.ExperienceToNext
		p.ExperienceToNext = p.ExperienceToNext * 3 / 2
		e.st.MainAgent.Activity = ActivityCelebrating
		e.st.MainAgent.celebrateUntil = e.now().Add(celebrateFor)
		if e.log != nil {
			e.log.Printf("level up: level=%d xp_to_next=%d", p.Level, p.ExperienceToNext)
		}
	}
	e.checkAchievements()
}

func (e *Engine) moveMainAgent(location string) {
	st := e.st
	target, ok := waypoints[location]
	if !ok {
		target = waypoints["center"]
		location = "center"
	}
	st.MainAgent.CurrentLocation = location
	st.MainAgent.Target = target
	st.MainAgent.Walking = st.MainAgent.Pos != target
}

// spawnPos scatters new sub-agents around the main agent so they do not
// stack on one tile.
func (e *Engine) spawnPos() Vec2 {
	n := len(e.st.Entities)
	base := e.st.MainAgent.Pos
	return Vec2{
		X: base.X + float64(3+2*(n%4)),
		Y: base.Y + float64(n%3) - 1,
	}
}

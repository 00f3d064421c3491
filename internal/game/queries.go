package game

import "fmt"

// handleQuery answers the status-client query surface. Runs on the engine
// goroutine.
func (e *Engine) handleQuery(name string) map[string]any {
	st := e.st
	switch name {
	case "status":
		return map[string]any{
			"level":          st.Progression.Level,
			"experience":     st.Progression.Experience,
			"xp_to_next":     st.Progression.ExperienceToNext,
			"tokens":         st.Resources.Tokens,
			"connections":    st.Resources.Connections,
			"activity":       string(st.MainAgent.Activity),
			"tools_used":     st.Progression.TotalToolsUsed,
			"agents_spawned": st.Progression.TotalSubagentsSpawned,
			"time_of_day":    e.timeOfDay(),
		}
	case "skills":
		skills := make(map[string]any, len(st.Skills))
		for skill, level := range st.Skills {
			skills[skill] = level
		}
		return map[string]any{
			"skills": skills,
			"tokens": st.Resources.Tokens,
		}
	case "achievements":
		unlocked := make([]any, 0, len(st.unlockedOrder))
		for _, id := range st.unlockedOrder {
			unlocked = append(unlocked, id)
		}
		return map[string]any{
			"unlocked":       unlocked,
			"unlocked_count": len(st.unlockedOrder),
			"total":          len(milestones),
			"tools_used":     st.Progression.TotalToolsUsed,
			"agents_spawned": st.Progression.TotalSubagentsSpawned,
		}
	default:
		return map[string]any{"error": fmt.Sprintf("unknown query: %s", name)}
	}
}

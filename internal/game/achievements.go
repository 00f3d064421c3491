package game

// milestones back the achievements query. The renderer owns presentation
// (names, artwork); the engine only tracks which ids have unlocked.
var milestones = []struct {
	ID    string
	Check func(*State) bool
}{
	{"first_tool", func(st *State) bool { return st.Progression.TotalToolsUsed >= 1 }},
	{"ten_tools", func(st *State) bool { return st.Progression.TotalToolsUsed >= 10 }},
	{"hundred_tools", func(st *State) bool { return st.Progression.TotalToolsUsed >= 100 }},
	{"level_5", func(st *State) bool { return st.Progression.Level >= 5 }},
	{"level_10", func(st *State) bool { return st.Progression.Level >= 10 }},
	{"first_friend", func(st *State) bool { return st.Progression.TotalSubagentsSpawned >= 1 }},
	{"busy_colony", func(st *State) bool { return st.Progression.TotalSubagentsSpawned >= 10 }},
	{"token_hoard", func(st *State) bool { return st.Resources.Tokens >= 1000 }},
	{"well_connected", func(st *State) bool { return st.Resources.Connections >= 25 }},
}

func (e *Engine) checkAchievements() {
	st := e.st
	for _, m := range milestones {
		if st.unlocked[m.ID] || !m.Check(st) {
			continue
		}
		st.unlocked[m.ID] = true
		st.unlockedOrder = append(st.unlockedOrder, m.ID)
		if e.log != nil {
			e.log.Printf("achievement unlocked: %s", m.ID)
		}
	}
}

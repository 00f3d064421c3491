package game

// GameEventKind enumerates the only mutation commands the engine accepts.
// They are produced exclusively by MapClaudeEvent and never travel the wire.
type GameEventKind string

const (
	EvChangeActivity GameEventKind = "CHANGE_ACTIVITY"
	EvSpawnParticles GameEventKind = "SPAWN_PARTICLES"
	EvSpawnAgent     GameEventKind = "SPAWN_AGENT"
	EvRemoveAgent    GameEventKind = "REMOVE_AGENT"
	EvAwardResources GameEventKind = "AWARD_RESOURCES"
	EvSessionStart   GameEventKind = "SESSION_START"
	EvSessionEnd     GameEventKind = "SESSION_END"
	EvAPIUsage       GameEventKind = "API_USAGE"
)

type GameEvent struct {
	Kind GameEventKind  `json:"type"`
	Data map[string]any `json:"data"`
}

func strField(data map[string]any, key string) (string, bool) {
	v, ok := data[key]
	if !ok {
		return "", false
	}
	s, ok := v.(string)
	return s, ok
}

// intField accepts both int and float64 so data decoded from JSON and data
// built in-process behave the same.
func intField(data map[string]any, key string) (int, bool) {
	switch v := data[key].(type) {
	case int:
		return v, true
	case int64:
		return int(v), true
	case float64:
		return int(v), true
	default:
		return 0, false
	}
}

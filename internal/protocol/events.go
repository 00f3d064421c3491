package protocol

// ClaudeEventType classifies events produced by hook clients.
type ClaudeEventType string

const (
	EventSessionStart  ClaudeEventType = "SESSION_START"
	EventSessionEnd    ClaudeEventType = "SESSION_END"
	EventToolStart     ClaudeEventType = "TOOL_START"
	EventToolComplete  ClaudeEventType = "TOOL_COMPLETE"
	EventAgentSpawn    ClaudeEventType = "AGENT_SPAWN"
	EventAgentComplete ClaudeEventType = "AGENT_COMPLETE"
	EventUserPrompt    ClaudeEventType = "USER_PROMPT"
	EventAgentThinking ClaudeEventType = "AGENT_THINKING"
	EventAgentIdle     ClaudeEventType = "AGENT_IDLE"
	EventNotification  ClaudeEventType = "NOTIFICATION"
)

var knownEventTypes = map[ClaudeEventType]struct{}{
	EventSessionStart:  {},
	EventSessionEnd:    {},
	EventToolStart:     {},
	EventToolComplete:  {},
	EventAgentSpawn:    {},
	EventAgentComplete: {},
	EventUserPrompt:    {},
	EventAgentThinking: {},
	EventAgentIdle:     {},
	EventNotification:  {},
}

// NormalizeEventType maps unknown or malformed type strings to NOTIFICATION.
func NormalizeEventType(s string) ClaudeEventType {
	t := ClaudeEventType(s)
	if _, ok := knownEventTypes[t]; ok {
		return t
	}
	return EventNotification
}

// ClaudeEvent is the wire event a hook client sends once per hook firing.
// Any message that is neither a QUERY nor an ACTION is decoded as one.
type ClaudeEvent struct {
	Type      ClaudeEventType `json:"type"`
	Timestamp float64         `json:"timestamp"`
	Payload   map[string]any  `json:"payload"`
}

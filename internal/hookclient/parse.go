package hookclient

import (
	"encoding/json"
	"fmt"
	"time"

	"pixelpet.ai/internal/protocol"
)

// hookEventTypes maps the host CLI's hook names to wire event types. An
// unrecognized hook name is a caller bug and the only condition under which
// the hook binary exits non-zero.
var hookEventTypes = map[string]protocol.ClaudeEventType{
	"PreToolUse":       protocol.EventToolStart,
	"PostToolUse":      protocol.EventToolComplete,
	"UserPromptSubmit": protocol.EventUserPrompt,
	"SessionStart":     protocol.EventSessionStart,
	"SessionEnd":       protocol.EventSessionEnd,
	"Stop":             protocol.EventAgentIdle,
	"SubagentStop":     protocol.EventAgentComplete,
	"Notification":     protocol.EventNotification,
	"PreCompact":       protocol.EventNotification,
}

// ParseHookPayload turns one hook invocation into exactly one wire event.
// The mapping is deterministic and total over recognized hook types; the raw
// payload rides along so the mapper can pick out tool names and inputs.
func ParseHookPayload(hookType string, raw []byte) (protocol.ClaudeEvent, error) {
	evType, ok := hookEventTypes[hookType]
	if !ok {
		return protocol.ClaudeEvent{}, fmt.Errorf("unknown hook type: %q", hookType)
	}

	// A malformed payload is absorbed, not fatal: only the hook type itself
	// is a caller contract. The event still fires with an empty payload.
	payload := map[string]any{}
	if len(raw) > 0 {
		if err := json.Unmarshal(raw, &payload); err != nil {
			payload = map[string]any{}
		}
	}

	if hookType == "SubagentStop" {
		// The stop payload carries no tool_use_id; fall back to the session
		// id so REMOVE_AGENT still targets something stable.
		if _, ok := payload["agent_id"]; !ok {
			if sid, ok := payload["session_id"].(string); ok {
				payload["agent_id"] = sid
			}
		}
		if _, ok := payload["success"]; !ok {
			payload["success"] = true
		}
	}

	return protocol.ClaudeEvent{
		Type:      evType,
		Timestamp: float64(time.Now().UnixNano()) / 1e9,
		Payload:   payload,
	}, nil
}

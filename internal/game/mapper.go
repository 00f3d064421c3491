package game

import "pixelpet.ai/internal/protocol"

// MapClaudeEvent translates one wire event into the game events it implies.
// It is pure and total: the same input always yields the same slice, and
// unknown event types yield an empty slice rather than an error.
func MapClaudeEvent(ev protocol.ClaudeEvent) []GameEvent {
	payload := ev.Payload
	if payload == nil {
		payload = map[string]any{}
	}

	switch ev.Type {
	case protocol.EventToolStart:
		tool, _ := strField(payload, "tool_name")
		events := []GameEvent{
			{Kind: EvChangeActivity, Data: map[string]any{
				"activity":  string(ActivityForTool(tool)),
				"tool_name": tool,
			}},
			{Kind: EvSpawnParticles, Data: map[string]any{
				"effect": EffectForTool(tool),
			}},
		}
		if tool == "Task" {
			events = append(events, spawnAgentEvent(payload))
		}
		return events

	case protocol.EventToolComplete:
		tool, _ := strField(payload, "tool_name")
		xp := XPForTool(tool)
		return []GameEvent{
			{Kind: EvAwardResources, Data: map[string]any{
				"xp":        xp,
				"tokens":    xp,
				"tool_name": tool,
			}},
			{Kind: EvChangeActivity, Data: map[string]any{
				"activity": string(ActivityIdle),
			}},
		}

	case protocol.EventAgentSpawn:
		return []GameEvent{spawnAgentEvent(payload)}

	case protocol.EventAgentComplete:
		agentID, _ := strField(payload, "agent_id")
		success := true
		if v, ok := payload["success"].(bool); ok {
			success = v
		}
		return []GameEvent{
			{Kind: EvRemoveAgent, Data: map[string]any{
				"agent_id": agentID,
				"success":  success,
			}},
			{Kind: EvAwardResources, Data: map[string]any{
				"connections": 1,
			}},
		}

	case protocol.EventAgentIdle:
		return []GameEvent{
			{Kind: EvChangeActivity, Data: map[string]any{
				"activity": string(ActivityIdle),
			}},
		}

	case protocol.EventSessionStart:
		source, _ := strField(payload, "source")
		return []GameEvent{
			{Kind: EvSessionStart, Data: map[string]any{"source": source}},
		}

	case protocol.EventSessionEnd:
		return []GameEvent{
			{Kind: EvSessionEnd, Data: map[string]any{}},
		}

	case protocol.EventUserPrompt:
		return []GameEvent{
			{Kind: EvChangeActivity, Data: map[string]any{
				"activity": string(ActivityThinking),
			}},
		}
	}

	return nil
}

// spawnAgentEvent builds SPAWN_AGENT data from either a Task tool_start
// payload (agent id in tool_use_id) or an explicit agent_spawn payload.
func spawnAgentEvent(payload map[string]any) GameEvent {
	agentID, ok := strField(payload, "agent_id")
	if !ok || agentID == "" {
		agentID, _ = strField(payload, "tool_use_id")
	}

	agentType := "general-purpose"
	description := ""
	if input, ok := payload["tool_input"].(map[string]any); ok {
		if s, ok := strField(input, "subagent_type"); ok && s != "" {
			agentType = s
		}
		description, _ = strField(input, "description")
	}
	if s, ok := strField(payload, "agent_type"); ok && s != "" {
		agentType = s
	}
	if s, ok := strField(payload, "description"); ok && s != "" {
		description = s
	}

	return GameEvent{Kind: EvSpawnAgent, Data: map[string]any{
		"agent_id":    agentID,
		"agent_type":  agentType,
		"description": description,
	}}
}

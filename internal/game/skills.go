package game

import (
	"fmt"

	"pixelpet.ai/internal/protocol"
)

// skillUpgradeCost is multiplied by the current skill level to price the
// next upgrade.
const skillUpgradeCost = 50

func defaultSkills() map[string]int {
	return map[string]int{
		"focus":     1,
		"vigor":     1,
		"curiosity": 1,
		"harmony":   1,
	}
}

// handleAction executes the status-client action surface. Runs on the
// engine goroutine. Unknown actions fail softly; they are a caller mistake,
// not an engine fault.
func (e *Engine) handleAction(name string, data map[string]any) protocol.ActionResult {
	switch name {
	case "upgrade":
		skill, _ := strField(data, "skill")
		return e.upgradeSkill(skill)
	default:
		return protocol.ActionResult{
			Success: false,
			Message: fmt.Sprintf("unknown action: %s", name),
		}
	}
}

func (e *Engine) upgradeSkill(skill string) protocol.ActionResult {
	st := e.st
	level, ok := st.Skills[skill]
	if !ok {
		return protocol.ActionResult{
			Success: false,
			Message: fmt.Sprintf("unknown skill: %s", skill),
		}
	}
	cost := level * skillUpgradeCost
	if st.Resources.Tokens < cost {
		return protocol.ActionResult{
			Success: false,
			Message: fmt.Sprintf("need %d tokens to upgrade %s (have %d)", cost, skill, st.Resources.Tokens),
		}
	}
	st.Resources.Tokens -= cost
	st.Skills[skill] = level + 1
	return protocol.ActionResult{
		Success: true,
		Message: fmt.Sprintf("%s upgraded to level %d (-%d tokens)", skill, level+1, cost),
	}
}

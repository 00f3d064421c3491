package game

// Fixed lookup tables mapping tool names to engine behavior. Tools absent
// from a table use the stated default, never an error.

const (
	defaultActivity = ActivityBuilding
	defaultXP       = 1
	defaultEffect   = "sparkle"
	defaultLocation = "workshop"

	baseExperienceToNext = 100
)

var toolActivity = map[string]Activity{
	"Read":      ActivityReading,
	"Write":     ActivityWriting,
	"Edit":      ActivityWriting,
	"Grep":      ActivitySearching,
	"Glob":      ActivitySearching,
	"Bash":      ActivityBuilding,
	"Task":      ActivityExploring,
	"WebFetch":  ActivityCommunicating,
	"WebSearch": ActivityCommunicating,
}

var toolXP = map[string]int{
	"Read":      1,
	"Write":     3,
	"Edit":      2,
	"Grep":      1,
	"Glob":      1,
	"Bash":      2,
	"Task":      5,
	"WebFetch":  2,
	"WebSearch": 2,
}

var toolEffect = map[string]string{
	"Read":      "pages",
	"Write":     "ink",
	"Edit":      "ink",
	"Grep":      "magnifier",
	"Glob":      "magnifier",
	"Bash":      "gears",
	"Task":      "portal",
	"WebFetch":  "signal",
	"WebSearch": "signal",
}

var toolLocation = map[string]string{
	"Read":      "library",
	"Write":     "desk",
	"Edit":      "desk",
	"Grep":      "archive",
	"Glob":      "archive",
	"Bash":      "workshop",
	"Task":      "portal",
	"WebFetch":  "antenna",
	"WebSearch": "antenna",
}

// Named waypoints the pet walks between. The actual pathing and scenery are
// the renderer's business; the engine only tracks location names and targets.
var waypoints = map[string]Vec2{
	"center":   {X: 40, Y: 12},
	"library":  {X: 12, Y: 6},
	"desk":     {X: 62, Y: 7},
	"archive":  {X: 14, Y: 18},
	"workshop": {X: 58, Y: 18},
	"portal":   {X: 72, Y: 12},
	"antenna":  {X: 28, Y: 4},
}

func ActivityForTool(tool string) Activity {
	if a, ok := toolActivity[tool]; ok {
		return a
	}
	return defaultActivity
}

func XPForTool(tool string) int {
	if xp, ok := toolXP[tool]; ok {
		return xp
	}
	return defaultXP
}

func EffectForTool(tool string) string {
	if e, ok := toolEffect[tool]; ok {
		return e
	}
	return defaultEffect
}

func LocationForTool(tool string) string {
	if l, ok := toolLocation[tool]; ok {
		return l
	}
	return defaultLocation
}

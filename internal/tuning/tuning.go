package tuning

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

type Tuning struct {
	TickRateHz int `yaml:"tick_rate_hz"`
	DayTicks   int `yaml:"day_ticks"`

	IdleRestAfterSec int `yaml:"idle_rest_after_sec"`

	SocketPath   string `yaml:"socket_path"`
	ObserverAddr string `yaml:"observer_addr"`
}

func Defaults() Tuning {
	return Tuning{
		TickRateHz:       10,
		DayTicks:         6000,
		IdleRestAfterSec: 45,
		SocketPath:       DefaultSocketPath(),
		ObserverAddr:     "127.0.0.1:8765",
	}
}

// DefaultSocketPath is the well-known rendezvous point between the daemon
// and its ephemeral hook/status clients.
func DefaultSocketPath() string {
	return filepath.Join(os.TempDir(), "claude_world.sock")
}

// Load reads tuning.yaml; unset fields fall back to defaults.
func Load(path string) (Tuning, error) {
	t := Defaults()
	raw, err := os.ReadFile(path)
	if err != nil {
		return t, err
	}
	if err := yaml.Unmarshal(raw, &t); err != nil {
		return t, fmt.Errorf("tuning.yaml: %w", err)
	}
	if t.TickRateHz <= 0 {
		t.TickRateHz = Defaults().TickRateHz
	}
	if t.DayTicks <= 0 {
		t.DayTicks = Defaults().DayTicks
	}
	if t.SocketPath == "" {
		t.SocketPath = DefaultSocketPath()
	}
	return t, nil
}

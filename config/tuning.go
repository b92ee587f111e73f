package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"horde/game"
)

// Tuning holds the match numbers that can be overridden from a YAML file.
// Fields left out of the file keep their defaults.
type Tuning struct {
	TickInterval   time.Duration `yaml:"tickInterval"`
	WaveDuration   int           `yaml:"waveDurationSeconds"`
	ShopDuration   int           `yaml:"shopDurationSeconds"`
	RoomCapacity   int           `yaml:"roomCapacity"`
	StartThreshold int           `yaml:"startThreshold"`
	ZombieBase     int           `yaml:"zombieBase"`
	ResourceNodes  int           `yaml:"resourceNodes"`
	ResourceAmount int           `yaml:"resourceAmount"`
}

const (
	DefaultRoomCapacity   = 4
	DefaultStartThreshold = 1
)

func DefaultTuning() Tuning {
	r := game.DefaultRules()
	return Tuning{
		TickInterval:   time.Second,
		WaveDuration:   r.WaveDuration,
		ShopDuration:   r.ShopDuration,
		RoomCapacity:   DefaultRoomCapacity,
		StartThreshold: DefaultStartThreshold,
		ZombieBase:     r.ZombieBase,
		ResourceNodes:  r.ResourceNodes,
		ResourceAmount: r.ResourceAmount,
	}
}

// LoadTuning reads overrides from path. An empty path returns the defaults.
func LoadTuning(path string) (Tuning, error) {
	t := DefaultTuning()
	if path == "" {
		return t, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return Tuning{}, fmt.Errorf("failed to read tuning file: %w", err)
	}
	if err := yaml.Unmarshal(data, &t); err != nil {
		return Tuning{}, fmt.Errorf("failed to parse tuning YAML: %w", err)
	}
	if err := t.Validate(); err != nil {
		return Tuning{}, fmt.Errorf("invalid tuning in %s: %w", path, err)
	}
	return t, nil
}

func (t Tuning) Validate() error {
	// Every tick advances the wave and shop clocks by one second.
	if t.TickInterval != time.Second {
		return fmt.Errorf("tickInterval must be 1s, got %s", t.TickInterval)
	}
	if t.WaveDuration < 1 {
		return fmt.Errorf("waveDurationSeconds must be >= 1, got %d", t.WaveDuration)
	}
	if t.ShopDuration < 1 {
		return fmt.Errorf("shopDurationSeconds must be >= 1, got %d", t.ShopDuration)
	}
	if t.RoomCapacity < 1 {
		return fmt.Errorf("roomCapacity must be >= 1, got %d", t.RoomCapacity)
	}
	if t.StartThreshold < 1 || t.StartThreshold > t.RoomCapacity {
		return fmt.Errorf("startThreshold must be between 1 and roomCapacity (%d), got %d", t.RoomCapacity, t.StartThreshold)
	}
	if t.ZombieBase < 0 {
		return fmt.Errorf("zombieBase cannot be negative, got %d", t.ZombieBase)
	}
	if t.ResourceNodes < 0 || t.ResourceAmount < 0 {
		return fmt.Errorf("resource nodes and amount cannot be negative")
	}
	return nil
}

func (t Tuning) Rules() game.Rules {
	return game.Rules{
		WaveDuration:   t.WaveDuration,
		ShopDuration:   t.ShopDuration,
		ZombieBase:     t.ZombieBase,
		ResourceNodes:  t.ResourceNodes,
		ResourceAmount: t.ResourceAmount,
	}
}

package tuning

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Tuning holds the world constants shared by every run. Per-run parameters
// (turn count, seed, ark, roster) live in the scenario instead.
type Tuning struct {
	GridWidth  int `yaml:"grid_width"`
	GridHeight int `yaml:"grid_height"`

	SightRadiusKM float64 `yaml:"sight_radius_km"`
	MaxMoveKM     float64 `yaml:"max_move_km"`
	MaxFlockSize  int     `yaml:"max_flock_size"`

	RainLeadTurns int `yaml:"rain_lead_turns"`

	AnimalMoveProbability float64 `yaml:"animal_move_probability"`
}

func Defaults() Tuning {
	return Tuning{
		GridWidth:             50,
		GridHeight:            50,
		SightRadiusKM:         5,
		MaxMoveKM:             2,
		MaxFlockSize:          4,
		RainLeadTurns:         50,
		AnimalMoveProbability: 0.1,
	}
}

func Load(path string) (Tuning, error) {
	var t Tuning
	raw, err := os.ReadFile(path)
	if err != nil {
		return t, err
	}
	if err := yaml.Unmarshal(raw, &t); err != nil {
		return t, fmt.Errorf("tuning.yaml: %w", err)
	}
	if err := t.Validate(); err != nil {
		return t, fmt.Errorf("tuning.yaml: %w", err)
	}
	return t, nil
}

func (t Tuning) Validate() error {
	if t.GridWidth <= 0 || t.GridHeight <= 0 {
		return fmt.Errorf("grid dimensions must be positive, got %dx%d", t.GridWidth, t.GridHeight)
	}
	if t.SightRadiusKM <= 0 {
		return fmt.Errorf("sight_radius_km must be positive, got %v", t.SightRadiusKM)
	}
	if t.MaxMoveKM <= 0 {
		return fmt.Errorf("max_move_km must be positive, got %v", t.MaxMoveKM)
	}
	if t.MaxFlockSize <= 0 {
		return fmt.Errorf("max_flock_size must be positive, got %d", t.MaxFlockSize)
	}
	if t.RainLeadTurns < 0 {
		return fmt.Errorf("rain_lead_turns must not be negative, got %d", t.RainLeadTurns)
	}
	if t.AnimalMoveProbability < 0 || t.AnimalMoveProbability > 1 {
		return fmt.Errorf("animal_move_probability must be in [0,1], got %v", t.AnimalMoveProbability)
	}
	return nil
}

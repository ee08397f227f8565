// Package players holds the strategies shipped with the simulator. They are
// replaceable policy: the engine only sees the world.Strategy interface, and
// nothing here may touch world state directly. Cross-helper coordination
// happens strictly through the one-byte messages the engine routes.
package players

import (
	"fmt"

	"arklift/internal/protocol"
	"arklift/internal/sim/world"
)

// Config is everything a strategy learns at construction time, mirroring
// what the run setup knows: its own id and role, the ark, the board, the
// roster size, and the wild populations.
type Config struct {
	ID   int
	Kind protocol.Kind

	ArkX, ArkY int

	GridWidth  int
	GridHeight int

	NumHelpers int
	TotalTurns int

	MaxMoveKM    float64
	MaxFlockSize int

	Populations map[int]int // species id -> population
}

// One-byte signal layout shared by the shipped strategies.
// bit 7: coordinator "species still needed" broadcast
// bit 6: scout "species found here" broadcast
// bits 0-5: species id (mod 64)
const (
	sigNone        = 0
	sigNeedBit     = 0x80
	sigFoundBit    = 0x40
	sigSpeciesMask = 0x3f
)

// New builds a strategy by name. Names are what scenarios reference.
func New(name string, cfg Config) (world.Strategy, error) {
	switch name {
	case "random":
		return NewRandom(cfg), nil
	case "coordinator":
		return NewCoordinator(cfg), nil
	case "sweeper":
		return NewSweeper(cfg), nil
	default:
		return nil, fmt.Errorf("unknown strategy %q", name)
	}
}

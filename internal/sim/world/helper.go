package world

import (
	"math"
	"sort"

	"arklift/internal/protocol"
)

// Strategy is the pluggable decision boundary consumed by the engine,
// invoked exactly twice per turn per helper. Calls are synchronous and must
// not block; strategies only request signals and actions, the engine is the
// sole writer of world state.
type Strategy interface {
	// CheckSurroundings must return a value in [0, protocol.OneByte).
	CheckSurroundings(snap protocol.Snapshot) int

	// GetAction receives the helper's full inbox for the turn. A nil
	// return means no action.
	GetAction(inbox []protocol.Message) protocol.Action
}

// Helper is a positioned agent with a bounded-capacity flock. Position is
// mutated only via accepted Move actions, the flock only via accepted
// Obtain/Release.
type Helper struct {
	ID   int
	Kind protocol.Kind

	X, Y float64

	flock     map[protocol.AnimalID]*Animal
	capacity  int
	maxMoveKM float64

	grid     *Grid
	ark      *Ark
	strategy Strategy
}

func newHelper(id int, kind protocol.Kind, x, y float64, capacity int, maxMoveKM float64, grid *Grid, ark *Ark, strategy Strategy) *Helper {
	if kind == protocol.KindCoordinator {
		// Coordinators only signal: no flock, no movement.
		capacity = 0
		maxMoveKM = 0
	}
	return &Helper{
		ID:        id,
		Kind:      kind,
		X:         x,
		Y:         y,
		flock:     map[protocol.AnimalID]*Animal{},
		capacity:  capacity,
		maxMoveKM: maxMoveKM,
		grid:      grid,
		ark:       ark,
		strategy:  strategy,
	}
}

// CanMoveTo is the helper's movement envelope: the engine delegates the
// whole distance/speed/bounds check here and does not re-derive geometry.
func (h *Helper) CanMoveTo(x, y float64) bool {
	if h.Kind == protocol.KindCoordinator {
		return false
	}
	if !h.grid.InBounds(x, y) {
		return false
	}
	return math.Hypot(x-h.X, y-h.Y) <= h.maxMoveKM
}

// IsInArk reports whether the helper's truncated position is the ark cell.
func (h *Helper) IsInArk() bool {
	cx, cy := h.CellXY()
	return cx == h.ark.X && cy == h.ark.Y
}

// DistanceTo returns the Euclidean distance to another helper.
func (h *Helper) DistanceTo(other *Helper) float64 {
	return math.Hypot(h.X-other.X, h.Y-other.Y)
}

// CellXY returns the helper's position truncated to integer cell
// coordinates.
func (h *Helper) CellXY() (int, int) {
	return int(h.X), int(h.Y)
}

func (h *Helper) FlockSize() int { return len(h.flock) }
func (h *Helper) Capacity() int  { return h.capacity }

// Flock returns the helper's animals in ascending id order.
func (h *Helper) Flock() []*Animal {
	out := make([]*Animal, 0, len(h.flock))
	for _, a := range h.flock {
		out = append(out, a)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

// View returns an immutable copy of the helper's public state. With
// redactGenders set the flock genders read as unknown, as they do from a
// distance.
func (h *Helper) View(redactGenders bool) protocol.HelperView {
	flock := make([]protocol.AnimalView, 0, len(h.flock))
	for _, a := range h.Flock() {
		flock = append(flock, a.View(redactGenders))
	}
	return protocol.HelperView{ID: h.ID, Kind: h.Kind, X: h.X, Y: h.Y, Flock: flock}
}

package world

import (
	"fmt"
	"math/rand"
	"sort"

	"arklift/internal/protocol"
)

// Config carries every constant the engine needs for one run. The seed is
// the sole source of run-to-run variance: equal config plus equal strategies
// means byte-identical runs.
type Config struct {
	GridWidth  int
	GridHeight int

	ArkX int
	ArkY int

	TotalTurns int
	Seed       int64

	// SightRadiusKM bounds both cell perception and helper-to-helper
	// message range.
	SightRadiusKM float64
	MaxMoveKM     float64
	MaxFlockSize  int

	// RainLeadTurns: raining reads true once remaining turns drop to this.
	RainLeadTurns int

	AnimalMoveProbability float64
}

func (c Config) validate() error {
	if c.GridWidth <= 0 || c.GridHeight <= 0 {
		return fmt.Errorf("grid dimensions must be positive, got %dx%d", c.GridWidth, c.GridHeight)
	}
	if c.ArkX < 0 || c.ArkX >= c.GridWidth || c.ArkY < 0 || c.ArkY >= c.GridHeight {
		return fmt.Errorf("ark (%d,%d) outside %dx%d grid", c.ArkX, c.ArkY, c.GridWidth, c.GridHeight)
	}
	if c.TotalTurns <= 0 {
		return fmt.Errorf("total turns must be positive, got %d", c.TotalTurns)
	}
	if c.SightRadiusKM <= 0 {
		return fmt.Errorf("sight radius must be positive, got %v", c.SightRadiusKM)
	}
	if c.MaxFlockSize < 0 {
		return fmt.Errorf("flock size must not be negative, got %d", c.MaxFlockSize)
	}
	if c.AnimalMoveProbability < 0 || c.AnimalMoveProbability > 1 {
		return fmt.Errorf("animal move probability must be in [0,1], got %v", c.AnimalMoveProbability)
	}
	return nil
}

// HelperSpec declares one helper to be spawned at the ark.
type HelperSpec struct {
	Kind     protocol.Kind
	Strategy Strategy
}

// Run states. A fatal error anywhere leaves the engine completed; there is
// no resume or rollback.
type RunState int

const (
	StateIdle RunState = iota
	StateRunning
	StateCompleted
)

// TurnLogger receives one entry per completed turn. Implementations live in
// internal/persistence; a nil logger disables telemetry. Write failures do
// not abort the run.
type TurnLogger interface {
	WriteTurn(entry TurnLogEntry) error
}

type TurnLogEntry struct {
	Turn       int              `json:"turn"`
	Raining    bool             `json:"raining"`
	Actions    []RecordedAction `json:"actions,omitempty"`
	Messages   int              `json:"messages"`
	Migrations int              `json:"migrations"`
	Delivered  int              `json:"delivered"`
	Digest     string           `json:"digest"`
}

type RecordedAction struct {
	Helper int               `json:"helper"`
	Op     string            `json:"op"` // "RELEASE", "OBTAIN", "MOVE"
	Animal protocol.AnimalID `json:"animal,omitempty"`
	X      float64           `json:"x,omitempty"`
	Y      float64           `json:"y,omitempty"`
}

// Engine is the single-threaded authoritative simulation. It is the sole
// writer of cells, the free-animal index, flocks, and positions; strategies
// only request signals and actions.
type Engine struct {
	cfg Config

	grid    *Grid
	ark     *Ark
	helpers []*Helper

	// free maps each free animal to its current cell, kept in lock-step
	// with the cells' own animal sets.
	free map[protocol.AnimalID]*Cell

	rng *rand.Rand

	state  RunState
	inTurn bool

	logger TurnLogger
	stats  RunStats
}

// New builds an idle engine. Helpers spawn on the ark cell in spec order;
// their ids are the spec indices.
func New(cfg Config, specs []HelperSpec) (*Engine, error) {
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	if len(specs) == 0 {
		return nil, fmt.Errorf("at least one helper required")
	}

	grid, err := NewGrid(cfg.GridWidth, cfg.GridHeight)
	if err != nil {
		return nil, err
	}
	ark := NewArk(cfg.ArkX, cfg.ArkY)

	e := &Engine{
		cfg:  cfg,
		grid: grid,
		ark:  ark,
		free: map[protocol.AnimalID]*Cell{},
		rng:  rand.New(rand.NewSource(cfg.Seed)),
	}
	for i, spec := range specs {
		if spec.Strategy == nil {
			return nil, fmt.Errorf("helper %d has no strategy", i)
		}
		h := newHelper(i, spec.Kind, float64(cfg.ArkX), float64(cfg.ArkY),
			cfg.MaxFlockSize, cfg.MaxMoveKM, grid, ark, spec.Strategy)
		e.helpers = append(e.helpers, h)
	}
	return e, nil
}

func (e *Engine) SetTurnLogger(l TurnLogger) { e.logger = l }

// Read-only accessors for observation and visualization. Callers must never
// mutate through them.

func (e *Engine) Grid() *Grid        { return e.grid }
func (e *Engine) Ark() *Ark          { return e.ark }
func (e *Engine) Helpers() []*Helper { return e.helpers }
func (e *Engine) Stats() RunStats    { return e.stats }
func (e *Engine) FreeCount() int     { return len(e.free) }

// FreeAnimalCell returns the cell currently hosting a free animal.
func (e *Engine) FreeAnimalCell(id protocol.AnimalID) (*Cell, bool) {
	c, ok := e.free[id]
	return c, ok
}

// FreeAnimalIDs returns every free animal id in ascending order.
func (e *Engine) FreeAnimalIDs() []protocol.AnimalID {
	ids := make([]protocol.AnimalID, 0, len(e.free))
	for id := range e.free {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	return ids
}

// PlaceAnimal puts an animal on a cell before the run starts. Used by setup
// and tests; never valid once the simulation is running.
func (e *Engine) PlaceAnimal(a *Animal, x, y int) error {
	if e.state != StateIdle {
		return fmt.Errorf("cannot place animals after the run started")
	}
	cell, ok := e.grid.CellAt(x, y)
	if !ok {
		return fmt.Errorf("cell (%d,%d) outside %dx%d grid", x, y, e.grid.Width(), e.grid.Height())
	}
	if _, dup := e.free[a.ID]; dup {
		return fmt.Errorf("animal %s already placed", a.ID)
	}
	cell.addAnimal(a)
	e.free[a.ID] = cell
	return nil
}

// ScatterAnimals creates and places the given populations (species id to
// count) uniformly over the grid using the run's seeded RNG. Genders
// alternate within a species so every population can in principle be paired.
func (e *Engine) ScatterAnimals(populations map[int]int) error {
	species := make([]int, 0, len(populations))
	for s := range populations {
		species = append(species, s)
	}
	sort.Ints(species)

	seq := 0
	for _, s := range species {
		for i := 0; i < populations[s]; i++ {
			gender := protocol.Male
			if i%2 == 1 {
				gender = protocol.Female
			}
			a := &Animal{
				ID:      protocol.AnimalID(fmt.Sprintf("N%04d", seq)),
				Species: s,
				Gender:  gender,
			}
			seq++
			x := e.rng.Intn(e.grid.Width())
			y := e.rng.Intn(e.grid.Height())
			if err := e.PlaceAnimal(a, x, y); err != nil {
				return err
			}
		}
	}
	return nil
}

// RunSimulation executes every turn in [0, TotalTurns) strictly
// sequentially. Any fatal error aborts the remainder of the run.
func (e *Engine) RunSimulation() error {
	if e.state != StateIdle {
		return fmt.Errorf("simulation already started")
	}
	e.state = StateRunning
	for t := 0; t < e.cfg.TotalTurns; t++ {
		if err := e.RunTurn(t); err != nil {
			e.state = StateCompleted
			return err
		}
	}
	e.state = StateCompleted
	return nil
}

// RunTurn executes one full turn: signal pass, message routing, action
// resolution, free-animal migration, in that order. It must not be
// re-entered for the same turn.
func (e *Engine) RunTurn(turn int) error {
	if e.inTurn {
		return fmt.Errorf("turn %d re-entered", turn)
	}
	e.inTurn = true
	defer func() { e.inTurn = false }()

	raining := turn >= e.cfg.TotalTurns-e.cfg.RainLeadTurns

	// Perception is frozen here, before any helper acts: every helper sees
	// the same simultaneous world state regardless of action order later in
	// the turn. The ark view in particular predates any unloading this turn.
	arkView := e.ark.View()
	occupants := e.helperOccupancy()
	neighbors := e.visibilityGraph()

	// Signal pass + routing pass.
	inbox := make([][]protocol.Message, len(e.helpers))
	routed := 0
	for i, h := range e.helpers {
		sight := buildSight(e.grid, h.X, h.Y, e.cfg.SightRadiusKM, occupants)

		snap := protocol.Snapshot{
			Turn:    turn,
			Raining: raining,
			X:       h.X,
			Y:       h.Y,
			Flock:   h.View(false).Flock,
			Sight:   sight,
		}
		if h.IsInArk() {
			snap.Ark = &arkView
		}

		signal := h.strategy.CheckSurroundings(snap)
		if signal < 0 || signal >= protocol.OneByte {
			return protocolViolationf("helper %d signaled %d, outside [0,%d)", h.ID, signal, protocol.OneByte)
		}

		hx, hy := h.CellXY()
		for _, j := range neighbors[i] {
			recv := e.helpers[j]
			rx, ry := recv.CellXY()
			// Flock genders travel only between helpers on the same cell.
			redact := !(hx == rx && hy == ry)
			inbox[j] = append(inbox[j], protocol.Message{From: h.View(redact), Contents: byte(signal)})
			routed++
		}
	}

	// Action pass. Helper order is an implementation detail: under
	// contention for the same animal or cell the outcome depends on it.
	var recorded []RecordedAction
	for i, h := range e.helpers {
		action := h.strategy.GetAction(inbox[i])
		rec, err := e.applyAction(h, action)
		if err != nil {
			return err
		}
		if rec != nil {
			recorded = append(recorded, *rec)
		}
	}

	migrated, err := e.migrateFreeAnimals()
	if err != nil {
		return err
	}

	e.stats.Turns++
	e.stats.MessagesRouted += routed
	e.stats.Migrations += migrated

	if e.logger != nil {
		_ = e.logger.WriteTurn(TurnLogEntry{
			Turn:       turn,
			Raining:    raining,
			Actions:    recorded,
			Messages:   routed,
			Migrations: migrated,
			Delivered:  e.ark.DeliveredCount(),
			Digest:     e.StateDigest(turn),
		})
	}
	return nil
}

// visibilityGraph computes the mutual-visibility relation over helpers:
// symmetric, irreflexive, O(n²) once per turn.
func (e *Engine) visibilityGraph() [][]int {
	adj := make([][]int, len(e.helpers))
	for i := range e.helpers {
		for j := i + 1; j < len(e.helpers); j++ {
			if e.helpers[i].DistanceTo(e.helpers[j]) <= e.cfg.SightRadiusKM {
				adj[i] = append(adj[i], j)
				adj[j] = append(adj[j], i)
			}
		}
	}
	return adj
}

func (e *Engine) helperOccupancy() map[[2]int][]*Helper {
	occ := map[[2]int][]*Helper{}
	for _, h := range e.helpers {
		x, y := h.CellXY()
		occ[[2]int{x, y}] = append(occ[[2]int{x, y}], h)
	}
	return occ
}

// applyAction validates and applies a single requested action. Every
// violated precondition is fatal: a strategy that requests an impossible
// action disqualifies the run.
func (e *Engine) applyAction(h *Helper, action protocol.Action) (*RecordedAction, error) {
	switch a := action.(type) {
	case nil:
		return nil, nil

	case protocol.Release:
		animal, ok := h.flock[a.Animal]
		if !ok {
			return nil, illegalActionf("helper %d released %s, not in its flock", h.ID, a.Animal)
		}
		cx, cy := h.CellXY()
		cell, _ := e.grid.CellAt(cx, cy)
		delete(h.flock, a.Animal)
		if cx == e.ark.X && cy == e.ark.Y {
			// Unload on the ark cell: the animal is delivered, not freed.
			e.ark.Receive(animal)
			e.stats.Deliveries++
		} else {
			cell.addAnimal(animal)
			e.free[animal.ID] = cell
		}
		e.stats.Releases++
		return &RecordedAction{Helper: h.ID, Op: "RELEASE", Animal: a.Animal}, nil

	case protocol.Obtain:
		if len(h.flock) >= h.capacity {
			return nil, illegalActionf("helper %d obtained %s with a full flock (%d/%d)", h.ID, a.Animal, len(h.flock), h.capacity)
		}
		cx, cy := h.CellXY()
		cell, _ := e.grid.CellAt(cx, cy)
		animal, ok := cell.animal(a.Animal)
		if !ok {
			return nil, illegalActionf("helper %d obtained %s, not on cell (%d,%d)", h.ID, a.Animal, cx, cy)
		}
		cell.removeAnimal(animal)
		delete(e.free, animal.ID)
		h.flock[animal.ID] = animal
		e.stats.Obtains++
		return &RecordedAction{Helper: h.ID, Op: "OBTAIN", Animal: a.Animal}, nil

	case protocol.Move:
		if !h.CanMoveTo(a.X, a.Y) {
			return nil, illegalActionf("helper %d cannot move from (%v,%v) to (%v,%v)", h.ID, h.X, h.Y, a.X, a.Y)
		}
		h.X, h.Y = a.X, a.Y
		e.stats.Moves++
		return &RecordedAction{Helper: h.ID, Op: "MOVE", X: a.X, Y: a.Y}, nil

	default:
		return nil, illegalActionf("helper %d requested unknown action %T", h.ID, action)
	}
}

// migrateFreeAnimals runs the post-action migration phase. Each free animal
// independently moves with the configured probability to a uniformly chosen
// emptiest neighbor of its cell. Animals are visited in ascending id order
// so the RNG stream, and therefore the run, stays deterministic.
func (e *Engine) migrateFreeAnimals() (int, error) {
	migrated := 0
	for _, id := range e.FreeAnimalIDs() {
		if e.rng.Float64() >= e.cfg.AnimalMoveProbability {
			continue
		}
		cell := e.free[id]
		animal, ok := cell.animal(id)
		if !ok {
			return migrated, structuralf("free-animal index disagrees with cell (%d,%d) about %s", cell.X, cell.Y, id)
		}
		targets, err := cell.EmptiestNeighbors()
		if err != nil {
			return migrated, err
		}
		dst := targets[e.rng.Intn(len(targets))]
		cell.removeAnimal(animal)
		dst.addAnimal(animal)
		e.free[id] = dst
		migrated++
	}
	return migrated, nil
}

package players

import (
	"errors"
	"math"
	"testing"

	"arklift/internal/protocol"
	"arklift/internal/sim/world"
)

func testPlayerConfig(id int, kind protocol.Kind) Config {
	return Config{
		ID:           id,
		Kind:         kind,
		ArkX:         10,
		ArkY:         10,
		GridWidth:    20,
		GridHeight:   20,
		NumHelpers:   3,
		TotalTurns:   200,
		MaxMoveKM:    2,
		MaxFlockSize: 4,
		Populations:  map[int]int{0: 4, 1: 2},
	}
}

func TestNew_KnownAndUnknownNames(t *testing.T) {
	for _, name := range []string{"random", "coordinator", "sweeper"} {
		if _, err := New(name, testPlayerConfig(0, protocol.KindMover)); err != nil {
			t.Fatalf("%s: %v", name, err)
		}
	}
	if _, err := New("chess", testPlayerConfig(0, protocol.KindMover)); err == nil {
		t.Fatalf("unknown strategy accepted")
	}
}

func TestCoordinator_BroadcastsLowestMissingSpecies(t *testing.T) {
	c := NewCoordinator(testPlayerConfig(0, protocol.KindCoordinator))

	ark := &protocol.ArkView{X: 10, Y: 10}
	sig := c.CheckSurroundings(protocol.Snapshot{Turn: 0, Ark: ark})
	if sig != sigNeedBit|0 {
		t.Fatalf("empty ark: signal %#x, want need(0)", sig)
	}

	// Species 0 fully paired; species 1 still open.
	ark.Animals = []protocol.AnimalView{
		{ID: "a", Species: 0, Gender: protocol.Male},
		{ID: "b", Species: 0, Gender: protocol.Female},
	}
	sig = c.CheckSurroundings(protocol.Snapshot{Turn: 1, Ark: ark})
	if sig != sigNeedBit|1 {
		t.Fatalf("signal %#x, want need(1)", sig)
	}

	ark.Animals = append(ark.Animals,
		protocol.AnimalView{ID: "c", Species: 1, Gender: protocol.Male},
		protocol.AnimalView{ID: "d", Species: 1, Gender: protocol.Female},
	)
	sig = c.CheckSurroundings(protocol.Snapshot{Turn: 2, Ark: ark})
	if sig != sigNone {
		t.Fatalf("all pairs done: signal %#x, want none", sig)
	}

	if act := c.GetAction(nil); act != nil {
		t.Fatalf("coordinator acted: %#v", act)
	}
}

func TestSweeper_ObtainsNeededAnimalOnOwnCell(t *testing.T) {
	s := NewSweeper(testPlayerConfig(1, protocol.KindMover))

	cell := protocol.CellView{X: 5, Y: 5, Animals: []protocol.AnimalView{
		{ID: "dup", Species: 0, Gender: protocol.Male},
		{ID: "new", Species: 1, Gender: protocol.Female},
	}}
	snap := protocol.Snapshot{
		Turn:  10,
		X:     5.4,
		Y:     5.2,
		Flock: []protocol.AnimalView{{ID: "held", Species: 0, Gender: protocol.Male}},
		Sight: protocol.NewSight([]protocol.CellView{cell}),
	}
	sig := s.CheckSurroundings(snap)
	if sig != sigFoundBit|1 {
		t.Fatalf("signal %#x, want found(1)", sig)
	}

	act := s.GetAction(nil)
	ob, ok := act.(protocol.Obtain)
	if !ok {
		t.Fatalf("action %#v, want Obtain", act)
	}
	if ob.Animal != "new" {
		t.Fatalf("obtained %s, want the unheld gender/species", ob.Animal)
	}
}

func TestSweeper_ReleasesOnArk(t *testing.T) {
	s := NewSweeper(testPlayerConfig(1, protocol.KindMover))
	snap := protocol.Snapshot{
		Turn:  10,
		X:     10.3,
		Y:     10.9,
		Flock: []protocol.AnimalView{{ID: "held", Species: 0, Gender: protocol.Male}},
		Sight: protocol.NewSight(nil),
		Ark:   &protocol.ArkView{X: 10, Y: 10},
	}
	_ = s.CheckSurroundings(snap)
	act := s.GetAction(nil)
	rel, ok := act.(protocol.Release)
	if !ok {
		t.Fatalf("action %#v, want Release", act)
	}
	if rel.Animal != "held" {
		t.Fatalf("released %s, want held", rel.Animal)
	}
}

func TestSweeper_HeadsHomeWhenFull(t *testing.T) {
	cfg := testPlayerConfig(1, protocol.KindMover)
	cfg.MaxFlockSize = 1
	s := NewSweeper(cfg)
	snap := protocol.Snapshot{
		Turn:  10,
		X:     2,
		Y:     2,
		Flock: []protocol.AnimalView{{ID: "held", Species: 0, Gender: protocol.Male}},
		Sight: protocol.NewSight(nil),
	}
	_ = s.CheckSurroundings(snap)
	act := s.GetAction(nil)
	mv, ok := act.(protocol.Move)
	if !ok {
		t.Fatalf("action %#v, want Move", act)
	}
	before := dist(2, 2, 10, 10)
	after := dist(mv.X, mv.Y, 10, 10)
	if after >= before {
		t.Fatalf("full sweeper moved away from the ark: %v -> %v", before, after)
	}
	if step := dist(2, 2, mv.X, mv.Y); step > cfg.MaxMoveKM {
		t.Fatalf("step %v exceeds envelope %v", step, cfg.MaxMoveKM)
	}
}

// Full roster against the real engine. Animals start on the ark cell and
// never migrate, so the lowest-id sweeper must shuttle every one of them
// into the ark within a handful of turns while the others patrol, with no
// fatal anywhere in the run.
func TestRoster_EndToEnd(t *testing.T) {
	wcfg := world.Config{
		GridWidth:     12,
		GridHeight:    12,
		ArkX:          6,
		ArkY:          6,
		TotalTurns:    40,
		Seed:          11,
		SightRadiusKM: 5,
		MaxMoveKM:     2,
		MaxFlockSize:  4,
		RainLeadTurns: 5,
	}

	var specs []world.HelperSpec
	roster := []struct {
		kind protocol.Kind
		name string
	}{
		{protocol.KindCoordinator, "coordinator"},
		{protocol.KindMover, "sweeper"},
		{protocol.KindMover, "sweeper"},
		{protocol.KindMover, "sweeper"},
	}
	pops := map[int]int{0: 2, 1: 2}
	for i, r := range roster {
		cfg := Config{
			ID:           i,
			Kind:         r.kind,
			ArkX:         wcfg.ArkX,
			ArkY:         wcfg.ArkY,
			GridWidth:    wcfg.GridWidth,
			GridHeight:   wcfg.GridHeight,
			NumHelpers:   len(roster),
			TotalTurns:   wcfg.TotalTurns,
			MaxMoveKM:    wcfg.MaxMoveKM,
			MaxFlockSize: wcfg.MaxFlockSize,
			Populations:  pops,
		}
		strat, err := New(r.name, cfg)
		if err != nil {
			t.Fatalf("strategy %d: %v", i, err)
		}
		specs = append(specs, world.HelperSpec{Kind: r.kind, Strategy: strat})
	}

	e, err := world.New(wcfg, specs)
	if err != nil {
		t.Fatalf("engine: %v", err)
	}
	for _, a := range []*world.Animal{
		{ID: "m0", Species: 0, Gender: protocol.Male},
		{ID: "f0", Species: 0, Gender: protocol.Female},
		{ID: "m1", Species: 1, Gender: protocol.Male},
		{ID: "f1", Species: 1, Gender: protocol.Female},
	} {
		if err := e.PlaceAnimal(a, wcfg.ArkX, wcfg.ArkY); err != nil {
			t.Fatalf("place %s: %v", a.ID, err)
		}
	}

	if err := e.RunSimulation(); err != nil {
		if errors.Is(err, world.ErrIllegalAction) || errors.Is(err, world.ErrProtocolViolation) {
			t.Fatalf("shipped roster tripped a fatal: %v", err)
		}
		t.Fatalf("run: %v", err)
	}
	if got := e.Ark().DeliveredCount(); got != 4 {
		t.Fatalf("delivered %d of 4 animals starting on the ark cell", got)
	}
	if got := e.Ark().CompletePairs(); got != 2 {
		t.Fatalf("complete pairs = %d, want 2", got)
	}
}

func dist(x1, y1, x2, y2 float64) float64 {
	return math.Hypot(x2-x1, y2-y1)
}

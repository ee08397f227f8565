package players

import (
	"math"

	"arklift/internal/protocol"
)

// Sweeper is the workhorse mover: it patrols outward from the ark along a
// per-helper bearing, picks up animals its flock and the ark still need,
// and turns home when it fills up or the rain gets close. All of its state
// is instance-owned; what it learns about the ark travels only through
// snapshots and routed messages.
type Sweeper struct {
	cfg Config

	bearing float64
	snap    protocol.Snapshot

	delivered map[int]map[protocol.Gender]bool
	wanted    map[int]bool
}

func NewSweeper(cfg Config) *Sweeper {
	n := cfg.NumHelpers
	if n < 1 {
		n = 1
	}
	return &Sweeper{
		cfg:       cfg,
		bearing:   2 * math.Pi * float64(cfg.ID) / float64(n),
		delivered: map[int]map[protocol.Gender]bool{},
		wanted:    map[int]bool{},
	}
}

func (s *Sweeper) CheckSurroundings(snap protocol.Snapshot) int {
	s.snap = snap

	if snap.Ark != nil {
		for _, a := range snap.Ark.Animals {
			if s.delivered[a.Species] == nil {
				s.delivered[a.Species] = map[protocol.Gender]bool{}
			}
			s.delivered[a.Species][a.Gender] = true
		}
	}

	if a := s.pickOnOwnCell(); a != nil {
		return sigFoundBit | (a.Species & sigSpeciesMask)
	}
	return sigNone
}

func (s *Sweeper) GetAction(inbox []protocol.Message) protocol.Action {
	for _, m := range inbox {
		if m.Contents&sigNeedBit != 0 {
			s.wanted[int(m.Contents&sigSpeciesMask)] = true
		}
	}

	atArk := int(s.snap.X) == s.cfg.ArkX && int(s.snap.Y) == s.cfg.ArkY

	// Unload one animal per turn while standing on the ark.
	if atArk && len(s.snap.Flock) > 0 {
		return protocol.Release{Animal: s.snap.Flock[0].ID}
	}

	if s.shouldHeadHome() {
		return s.moveToward(float64(s.cfg.ArkX), float64(s.cfg.ArkY))
	}

	if len(s.snap.Flock) < s.cfg.MaxFlockSize {
		if a := s.pickOnOwnCell(); a != nil {
			return protocol.Obtain{Animal: a.ID}
		}
	}

	return s.patrol()
}

// pickOnOwnCell returns an animal on the current cell worth obtaining, or
// nil. Genders on the own cell are always known, so duplicates of what the
// flock or the ark already covers can be skipped outright.
func (s *Sweeper) pickOnOwnCell() *protocol.AnimalView {
	if len(s.snap.Flock) >= s.cfg.MaxFlockSize {
		return nil
	}
	cx, cy := int(s.snap.X), int(s.snap.Y)
	cell, ok := s.snap.Sight.CellAt(cx, cy)
	if !ok {
		return nil
	}

	// Snapshots are simultaneous but actions resolve in id order, so two
	// movers obtaining off the same cell would race and the loser's obtain
	// is fatal. Only the lowest-id mover on a cell picks anything up.
	for _, h := range cell.Helpers {
		if h.Kind == protocol.KindMover && h.ID < s.cfg.ID {
			return nil
		}
	}

	have := map[int]map[protocol.Gender]bool{}
	note := func(v protocol.AnimalView) {
		if have[v.Species] == nil {
			have[v.Species] = map[protocol.Gender]bool{}
		}
		have[v.Species][v.Gender] = true
	}
	for _, v := range s.snap.Flock {
		note(v)
	}

	var fallback *protocol.AnimalView
	for i, v := range cell.Animals {
		if v.Gender == protocol.GenderUnknown {
			continue
		}
		if have[v.Species] != nil && have[v.Species][v.Gender] {
			continue
		}
		if d := s.delivered[v.Species]; d != nil && d[v.Gender] {
			continue
		}
		// Species the coordinator is asking for jump the queue.
		if s.wanted[v.Species] {
			return &cell.Animals[i]
		}
		if fallback == nil {
			fallback = &cell.Animals[i]
		}
	}
	return fallback
}

func (s *Sweeper) shouldHeadHome() bool {
	if len(s.snap.Flock) >= s.cfg.MaxFlockSize {
		return true
	}
	if len(s.snap.Flock) == 0 && !s.snap.Raining {
		return false
	}

	dx := float64(s.cfg.ArkX) - s.snap.X
	dy := float64(s.cfg.ArkY) - s.snap.Y
	turnsToArk := int(math.Ceil(math.Hypot(dx, dy) / s.cfg.MaxMoveKM))
	turnsLeft := s.cfg.TotalTurns - s.snap.Turn

	margin := 3
	if len(s.snap.Flock) > 0 {
		margin = 10
	}
	return turnsToArk+margin >= turnsLeft
}

// moveToward steps the full envelope toward a target, landing exactly on it
// when close enough. The step is scaled slightly under the envelope so
// float error can never push it outside.
func (s *Sweeper) moveToward(tx, ty float64) protocol.Action {
	dx := tx - s.snap.X
	dy := ty - s.snap.Y
	dist := math.Hypot(dx, dy)
	if dist <= s.cfg.MaxMoveKM {
		return protocol.Move{X: tx, Y: ty}
	}
	scale := s.cfg.MaxMoveKM * 0.999 / dist
	return protocol.Move{X: s.snap.X + dx*scale, Y: s.snap.Y + dy*scale}
}

// patrol walks the bearing outward, bouncing to a new bearing when the
// board edge pins it down.
func (s *Sweeper) patrol() protocol.Action {
	step := s.cfg.MaxMoveKM * 0.9
	tx := s.clampX(s.snap.X + math.Cos(s.bearing)*step)
	ty := s.clampY(s.snap.Y + math.Sin(s.bearing)*step)

	if math.Hypot(tx-s.snap.X, ty-s.snap.Y) < step*0.25 {
		// Pinned against the edge: pick the next bearing and wait a turn.
		s.bearing = math.Mod(s.bearing+2.399963, 2*math.Pi)
		return nil
	}
	return protocol.Move{X: tx, Y: ty}
}

func (s *Sweeper) clampX(v float64) float64 {
	return math.Max(0, math.Min(float64(s.cfg.GridWidth-1), v))
}

func (s *Sweeper) clampY(v float64) float64 {
	return math.Max(0, math.Min(float64(s.cfg.GridHeight-1), v))
}

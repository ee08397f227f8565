package players

import (
	"sort"

	"arklift/internal/protocol"
)

// Coordinator is the stationary role at the ark. It never moves, obtains,
// or releases; it watches the ark fill up and keeps broadcasting the lowest
// species id still missing a complete pair so nearby movers can reprioritize.
type Coordinator struct {
	cfg Config

	delivered map[int]map[protocol.Gender]bool
}

func NewCoordinator(cfg Config) *Coordinator {
	return &Coordinator{cfg: cfg, delivered: map[int]map[protocol.Gender]bool{}}
}

func (c *Coordinator) CheckSurroundings(snap protocol.Snapshot) int {
	if snap.Ark != nil {
		for _, a := range snap.Ark.Animals {
			if c.delivered[a.Species] == nil {
				c.delivered[a.Species] = map[protocol.Gender]bool{}
			}
			c.delivered[a.Species][a.Gender] = true
		}
	}

	species := make([]int, 0, len(c.cfg.Populations))
	for s := range c.cfg.Populations {
		species = append(species, s)
	}
	sort.Ints(species)
	for _, s := range species {
		got := c.delivered[s]
		if got == nil || !got[protocol.Male] || !got[protocol.Female] {
			return sigNeedBit | (s & sigSpeciesMask)
		}
	}
	return sigNone
}

func (c *Coordinator) GetAction(inbox []protocol.Message) protocol.Action {
	return nil
}

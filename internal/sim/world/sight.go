package world

import (
	"math"

	"arklift/internal/protocol"
)

// buildSight freezes the cells within sightRadius of (x, y) into an
// immutable snapshot. Genders read as unknown everywhere except the viewer's
// own cell. occupants maps cell coordinates to the helpers standing there at
// the start of the turn.
func buildSight(g *Grid, x, y, sightRadius float64, occupants map[[2]int][]*Helper) protocol.Sight {
	ownX, ownY := int(x), int(y)

	minX := int(math.Ceil(x - sightRadius))
	maxX := int(math.Floor(x + sightRadius))
	minY := int(math.Ceil(y - sightRadius))
	maxY := int(math.Floor(y + sightRadius))

	var cells []protocol.CellView
	for cy := minY; cy <= maxY; cy++ {
		for cx := minX; cx <= maxX; cx++ {
			cell, ok := g.CellAt(cx, cy)
			if !ok {
				continue
			}
			if math.Hypot(float64(cx)-x, float64(cy)-y) > sightRadius {
				continue
			}
			redact := !(cx == ownX && cy == ownY)

			var helpers []protocol.HelperView
			for _, h := range occupants[[2]int{cx, cy}] {
				helpers = append(helpers, h.View(redact))
			}
			cells = append(cells, cell.View(redact, helpers))
		}
	}
	return protocol.NewSight(cells)
}

package world

import "fmt"

// Grid is the static 2D lattice of cells. Topology is built once; only cell
// contents change afterwards.
type Grid struct {
	width, height int
	cells         [][]*Cell // indexed [y][x]
}

func NewGrid(width, height int) (*Grid, error) {
	if width <= 0 || height <= 0 {
		return nil, fmt.Errorf("grid dimensions must be positive, got %dx%d", width, height)
	}

	g := &Grid{width: width, height: height, cells: make([][]*Cell, height)}
	for y := 0; y < height; y++ {
		g.cells[y] = make([]*Cell, width)
		for x := 0; x < width; x++ {
			g.cells[y][x] = newCell(x, y)
		}
	}

	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			c := g.cells[y][x]
			if y > 0 {
				c.Up = g.cells[y-1][x]
			}
			if y < height-1 {
				c.Down = g.cells[y+1][x]
			}
			if x > 0 {
				c.Left = g.cells[y][x-1]
			}
			if x < width-1 {
				c.Right = g.cells[y][x+1]
			}
		}
	}
	return g, nil
}

func (g *Grid) Width() int  { return g.width }
func (g *Grid) Height() int { return g.height }

func (g *Grid) CellAt(x, y int) (*Cell, bool) {
	if x < 0 || x >= g.width || y < 0 || y >= g.height {
		return nil, false
	}
	return g.cells[y][x], true
}

// InBounds reports whether a continuous position is on the lattice. The
// valid range is [0, width-1] x [0, height-1] so that truncation always
// lands on an existing cell.
func (g *Grid) InBounds(x, y float64) bool {
	return x >= 0 && x <= float64(g.width-1) && y >= 0 && y <= float64(g.height-1)
}

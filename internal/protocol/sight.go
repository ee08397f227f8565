package protocol

// Sight is a per-helper, per-turn snapshot of every cell within the sight
// radius of the helper's position, frozen before any helper acts this turn.
// It is never mutated after construction.
type Sight struct {
	cells   map[[2]int]CellView
	ordered []CellView
}

// NewSight builds a sight from cell views in a fixed order. The order is
// preserved by Cells.
func NewSight(cells []CellView) Sight {
	s := Sight{
		cells:   make(map[[2]int]CellView, len(cells)),
		ordered: cells,
	}
	for _, cv := range cells {
		s.cells[[2]int{cv.X, cv.Y}] = cv
	}
	return s
}

// Contains reports whether the cell at (x, y) is within sight.
func (s Sight) Contains(x, y int) bool {
	_, ok := s.cells[[2]int{x, y}]
	return ok
}

// CellAt returns the view of the cell at (x, y), if visible.
func (s Sight) CellAt(x, y int) (CellView, bool) {
	cv, ok := s.cells[[2]int{x, y}]
	return cv, ok
}

// Cells returns every visible cell view in row-major order.
func (s Sight) Cells() []CellView {
	return s.ordered
}

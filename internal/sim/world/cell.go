package world

import (
	"sort"

	"arklift/internal/protocol"
)

// Cell is a fixed lattice point. Neighbor links are set once at grid
// construction and never change; the free-animal set is mutated only by the
// engine.
type Cell struct {
	X, Y int

	Up, Down, Left, Right *Cell

	animals map[protocol.AnimalID]*Animal
}

func newCell(x, y int) *Cell {
	return &Cell{X: x, Y: y, animals: map[protocol.AnimalID]*Animal{}}
}

func (c *Cell) addAnimal(a *Animal)    { c.animals[a.ID] = a }
func (c *Cell) removeAnimal(a *Animal) { delete(c.animals, a.ID) }

func (c *Cell) animal(id protocol.AnimalID) (*Animal, bool) {
	a, ok := c.animals[id]
	return a, ok
}

// AnimalCount returns the number of free animals on the cell.
func (c *Cell) AnimalCount() int { return len(c.animals) }

// Animals returns the cell's free animals in ascending id order.
func (c *Cell) Animals() []*Animal {
	out := make([]*Animal, 0, len(c.animals))
	for _, a := range c.animals {
		out = append(out, a)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

// View returns an immutable copy of the cell for perception: its animals
// (genders optionally redacted) and the helpers standing on it.
func (c *Cell) View(redactGender bool, helpers []protocol.HelperView) protocol.CellView {
	animals := make([]protocol.AnimalView, 0, len(c.animals))
	for _, a := range c.Animals() {
		animals = append(animals, a.View(redactGender))
	}
	return protocol.CellView{X: c.X, Y: c.Y, Animals: animals, Helpers: helpers}
}

// EmptiestNeighbors returns every linked neighbor tied for the minimum free
// animal count. A cell with zero linked neighbors is a structural error: the
// caller must not ask it to host a migration.
func (c *Cell) EmptiestNeighbors() ([]*Cell, error) {
	var linked []*Cell
	for _, n := range []*Cell{c.Up, c.Down, c.Left, c.Right} {
		if n != nil {
			linked = append(linked, n)
		}
	}
	if len(linked) == 0 {
		return nil, structuralf("cell (%d,%d) has no linked neighbors", c.X, c.Y)
	}

	min := linked[0].AnimalCount()
	for _, n := range linked[1:] {
		if n.AnimalCount() < min {
			min = n.AnimalCount()
		}
	}
	out := linked[:0]
	for _, n := range linked {
		if n.AnimalCount() == min {
			out = append(out, n)
		}
	}
	return out, nil
}

package world

import (
	"errors"
	"testing"

	"arklift/internal/protocol"
)

func TestEmptiestNeighbors_TiesAndMinimum(t *testing.T) {
	g, err := NewGrid(3, 3)
	if err != nil {
		t.Fatalf("grid: %v", err)
	}
	center, _ := g.CellAt(1, 1)

	load := func(x, y, n int) {
		c, _ := g.CellAt(x, y)
		for i := 0; i < n; i++ {
			c.addAnimal(&Animal{ID: protocol.AnimalID(string(rune('a'+x)) + string(rune('a'+y)) + string(rune('0'+i)))})
		}
	}
	load(1, 0, 2) // up
	load(1, 2, 1) // down
	load(0, 1, 1) // left
	load(2, 1, 3) // right

	got, err := center.EmptiestNeighbors()
	if err != nil {
		t.Fatalf("emptiest: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("got %d candidates, want 2", len(got))
	}
	for _, c := range got {
		if c.AnimalCount() != 1 {
			t.Fatalf("candidate (%d,%d) holds %d animals, want 1", c.X, c.Y, c.AnimalCount())
		}
	}
}

func TestEmptiestNeighbors_NoNeighborsIsStructural(t *testing.T) {
	g, err := NewGrid(1, 1)
	if err != nil {
		t.Fatalf("grid: %v", err)
	}
	only, _ := g.CellAt(0, 0)
	if _, err := only.EmptiestNeighbors(); !errors.Is(err, ErrStructural) {
		t.Fatalf("want ErrStructural, got %v", err)
	}
}

func TestGrid_NeighborLinks(t *testing.T) {
	g, err := NewGrid(4, 3)
	if err != nil {
		t.Fatalf("grid: %v", err)
	}
	corner, _ := g.CellAt(0, 0)
	if corner.Up != nil || corner.Left != nil {
		t.Fatalf("corner has links off the grid")
	}
	if corner.Right == nil || corner.Right.X != 1 || corner.Down == nil || corner.Down.Y != 1 {
		t.Fatalf("corner is missing in-grid links")
	}
	mid, _ := g.CellAt(2, 1)
	if mid.Up == nil || mid.Down == nil || mid.Left == nil || mid.Right == nil {
		t.Fatalf("interior cell is missing links")
	}
	if mid.Up.Y != 0 || mid.Down.Y != 2 || mid.Left.X != 1 || mid.Right.X != 3 {
		t.Fatalf("interior links point at the wrong cells")
	}
}

func TestCellView_CopiesAreDetached(t *testing.T) {
	g, _ := NewGrid(2, 2)
	c, _ := g.CellAt(0, 0)
	c.addAnimal(&Animal{ID: "A", Species: 2, Gender: protocol.Male})

	view := c.View(false, nil)
	if len(view.Animals) != 1 || view.Animals[0].Gender != protocol.Male {
		t.Fatalf("view = %+v", view.Animals)
	}
	// Mutating the cell afterwards must not show up in the taken view.
	c.addAnimal(&Animal{ID: "B", Species: 2, Gender: protocol.Female})
	if len(view.Animals) != 1 {
		t.Fatalf("view grew after cell mutation")
	}
}

package world

import (
	"sort"

	"arklift/internal/protocol"
)

// Ark is the fixed delivery point. Its delivered set grows monotonically as
// helpers unload and never shrinks; delivered animals are out of the free
// world and never migrate.
type Ark struct {
	X, Y int

	delivered map[protocol.AnimalID]*Animal
}

func NewArk(x, y int) *Ark {
	return &Ark{X: x, Y: y, delivered: map[protocol.AnimalID]*Animal{}}
}

// Receive takes ownership of an animal unloaded on the ark's cell.
func (k *Ark) Receive(a *Animal) { k.delivered[a.ID] = a }

// DeliveredCount returns the number of delivered animals.
func (k *Ark) DeliveredCount() int { return len(k.delivered) }

// Delivered returns the delivered animals in ascending id order.
func (k *Ark) Delivered() []*Animal {
	out := make([]*Animal, 0, len(k.delivered))
	for _, a := range k.delivered {
		out = append(out, a)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

// View returns a read-only copy of the delivered set. Genders are shown:
// every delivered animal has been handled up close.
func (k *Ark) View() protocol.ArkView {
	animals := make([]protocol.AnimalView, 0, len(k.delivered))
	for _, a := range k.Delivered() {
		animals = append(animals, a.View(false))
	}
	return protocol.ArkView{X: k.X, Y: k.Y, Animals: animals}
}

// CompletePairs counts the species with at least one delivered male and one
// delivered female.
func (k *Ark) CompletePairs() int {
	males := map[int]bool{}
	females := map[int]bool{}
	for _, a := range k.delivered {
		switch a.Gender {
		case protocol.Male:
			males[a.Species] = true
		case protocol.Female:
			females[a.Species] = true
		}
	}
	pairs := 0
	for s := range males {
		if females[s] {
			pairs++
		}
	}
	return pairs
}

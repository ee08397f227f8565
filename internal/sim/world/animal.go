package world

import "arklift/internal/protocol"

// Animal is an identity-bearing entity with a species and a gender. At any
// instant it is owned by exactly one container: a cell's free set, a
// helper's flock, or the ark's delivered set. Animals are never destroyed
// during a run.
type Animal struct {
	ID      protocol.AnimalID
	Species int
	Gender  protocol.Gender
}

// View returns an immutable copy for perception. With redactGender set the
// copy reports GenderUnknown: gender can only be told up close.
func (a *Animal) View(redactGender bool) protocol.AnimalView {
	g := a.Gender
	if redactGender {
		g = protocol.GenderUnknown
	}
	return protocol.AnimalView{ID: a.ID, Species: a.Species, Gender: g}
}

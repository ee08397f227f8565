package protocol

// Action is the closed set of requests a strategy may make per turn:
// Release, Obtain, or Move. A nil Action means no action. The resolver
// matches all three variants exhaustively and treats any other
// implementation as a fatal boundary error.
type Action interface {
	isAction()
}

// Release drops an animal from the helper's flock onto its current cell.
type Release struct {
	Animal AnimalID
}

// Obtain picks a free animal up from the helper's current cell.
type Obtain struct {
	Animal AnimalID
}

// Move repositions the helper, subject to its own movement envelope.
type Move struct {
	X float64
	Y float64
}

func (Release) isAction() {}
func (Obtain) isAction()  {}
func (Move) isAction()    {}

package protocol

// AnimalID is the opaque identity of an animal. It is stable for the whole
// run and is the only handle strategies may use to name an animal in an
// action.
type AnimalID string

type Gender string

const (
	Male          Gender = "MALE"
	Female        Gender = "FEMALE"
	GenderUnknown Gender = "UNKNOWN"
)

// Helper roles.
type Kind string

const (
	KindCoordinator Kind = "COORDINATOR" // stationary, signals only
	KindMover       Kind = "MOVER"
)

// AnimalView is an immutable copy of an animal as perceived by a helper.
// Gender is GenderUnknown unless the animal is on the viewer's own cell.
type AnimalView struct {
	ID      AnimalID `json:"id"`
	Species int      `json:"species_id"`
	Gender  Gender   `json:"gender"`
}

// HelperView is an immutable copy of a helper's public state: position and
// flock. Flock genders follow the same redaction rule as animal views.
type HelperView struct {
	ID    int          `json:"id"`
	Kind  Kind         `json:"kind"`
	X     float64      `json:"x"`
	Y     float64      `json:"y"`
	Flock []AnimalView `json:"flock"`
}

// CellView is an immutable copy of one cell: its free animals and the
// helpers standing on it at the start of the turn.
type CellView struct {
	X       int          `json:"x"`
	Y       int          `json:"y"`
	Animals []AnimalView `json:"animals"`
	Helpers []HelperView `json:"helpers"`
}

// ArkView is a read-only copy of the ark's delivered animals. Genders are
// never redacted: a delivered animal has been handled up close.
type ArkView struct {
	X       int          `json:"x"`
	Y       int          `json:"y"`
	Animals []AnimalView `json:"animals"`
}

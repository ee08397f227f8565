package protocol

// OneByte bounds the signal value a strategy may return from
// CheckSurroundings: the valid range is [0, OneByte).
const OneByte = 256

// Snapshot is the perception bundle handed to a strategy at signal time.
// Everything in it reflects world state at the start of the turn; in
// particular Ark, when present, is captured before any unloading that
// happens later in the same turn.
type Snapshot struct {
	Turn    int
	Raining bool

	X float64
	Y float64

	// Flock is the helper's own flock, genders included.
	Flock []AnimalView

	Sight Sight

	// Ark is non-nil only when the helper currently occupies the ark's cell.
	Ark *ArkView
}

// Message is a one-byte signal routed from a helper to one of its visible
// neighbors. It is constructed by the engine, immutable, and consumed once.
type Message struct {
	From     HelperView
	Contents byte
}

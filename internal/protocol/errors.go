package protocol

// Fatal error codes. Any of these aborts the whole run: shared world state
// cannot be trusted once an invariant is broken.
const (
	// Signal byte outside [0, OneByte).
	CodeProtocolViolation = "E_PROTOCOL_VIOLATION"

	// Release without possession, Obtain at capacity or of an absent
	// animal, Move rejected by the helper's movement envelope.
	CodeIllegalAction = "E_ILLEGAL_ACTION"

	// Migration attempted from a cell with no linked neighbors.
	CodeStructural = "E_STRUCTURAL"
)

var knownCodes = map[string]struct{}{
	CodeProtocolViolation: {},
	CodeIllegalAction:     {},
	CodeStructural:        {},
}

func IsKnownCode(code string) bool {
	_, ok := knownCodes[code]
	return ok
}

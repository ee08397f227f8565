package world

// RunStats are plain per-run counters, accumulated by the engine and read by
// telemetry and the CLI summary. They do not feed back into simulation
// state.
type RunStats struct {
	Turns          int
	MessagesRouted int
	Releases       int
	Obtains        int
	Moves          int
	Migrations     int
	Deliveries     int
}

// State reports where the engine is in Idle -> Running -> Completed.
func (e *Engine) State() RunState { return e.state }

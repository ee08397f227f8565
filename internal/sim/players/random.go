package players

import "arklift/internal/protocol"

// Random is the reference do-nothing-useful strategy: it signals a rolling
// byte and stands its ground. Handy as a protocol smoke test and as an inert
// roster filler.
type Random struct {
	cfg  Config
	x, y float64
}

func NewRandom(cfg Config) *Random {
	return &Random{cfg: cfg, x: float64(cfg.ArkX), y: float64(cfg.ArkY)}
}

func (r *Random) CheckSurroundings(snap protocol.Snapshot) int {
	r.x, r.y = snap.X, snap.Y
	return (snap.Turn + r.cfg.ID) % protocol.OneByte
}

func (r *Random) GetAction(inbox []protocol.Message) protocol.Action {
	if r.cfg.Kind == protocol.KindCoordinator {
		return nil
	}
	// A zero-length move: always within the envelope.
	return protocol.Move{X: r.x, Y: r.y}
}

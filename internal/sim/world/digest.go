package world

import (
	"crypto/sha256"
	"encoding/binary"
	"encoding/hex"
	"math"
)

// StateDigest hashes the canonical world state after a turn: helper
// positions and flocks, free-animal placements, and the delivered set, all
// in fixed order. Two runs with equal seed, config, and strategies must
// produce equal digests every turn.
func (e *Engine) StateDigest(turn int) string {
	h := sha256.New()
	writeU64 := func(v uint64) {
		var b [8]byte
		binary.BigEndian.PutUint64(b[:], v)
		h.Write(b[:])
	}
	writeStr := func(s string) {
		writeU64(uint64(len(s)))
		h.Write([]byte(s))
	}

	writeU64(uint64(turn))

	writeU64(uint64(len(e.helpers)))
	for _, hp := range e.helpers {
		writeU64(uint64(hp.ID))
		writeStr(string(hp.Kind))
		writeU64(math.Float64bits(hp.X))
		writeU64(math.Float64bits(hp.Y))
		flock := hp.Flock()
		writeU64(uint64(len(flock)))
		for _, a := range flock {
			writeStr(string(a.ID))
			writeU64(uint64(a.Species))
			writeStr(string(a.Gender))
		}
	}

	ids := e.FreeAnimalIDs()
	writeU64(uint64(len(ids)))
	for _, id := range ids {
		cell := e.free[id]
		writeStr(string(id))
		writeU64(uint64(cell.X))
		writeU64(uint64(cell.Y))
	}

	delivered := e.ark.Delivered()
	writeU64(uint64(len(delivered)))
	for _, a := range delivered {
		writeStr(string(a.ID))
	}

	return hex.EncodeToString(h.Sum(nil))
}

// Package log persists per-turn telemetry as zstd-compressed JSONL. One run
// writes one file; the engine never reads these back, they exist for replay
// and offline analysis.
package log

import (
	"bufio"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/klauspost/compress/zstd"

	"arklift/internal/sim/world"
)

type JSONLZstdWriter struct {
	path string

	mu  sync.Mutex
	f   *os.File
	enc *zstd.Encoder
	w   *bufio.Writer
}

// NewJSONLZstdWriter opens (truncating) the target file immediately so a bad
// data directory fails the run up front, not on the first turn.
func NewJSONLZstdWriter(path string) (*JSONLZstdWriter, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, err
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0o644)
	if err != nil {
		return nil, err
	}
	enc, err := zstd.NewWriter(f, zstd.WithEncoderLevel(zstd.SpeedFastest))
	if err != nil {
		_ = f.Close()
		return nil, err
	}
	return &JSONLZstdWriter{
		path: path,
		f:    f,
		enc:  enc,
		w:    bufio.NewWriterSize(enc, 128*1024),
	}, nil
}

func (w *JSONLZstdWriter) Write(v any) error {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.w == nil {
		return fmt.Errorf("write to closed log %s", w.path)
	}
	b, err := json.Marshal(v)
	if err != nil {
		return err
	}
	if _, err := w.w.Write(b); err != nil {
		return err
	}
	if err := w.w.WriteByte('\n'); err != nil {
		return err
	}
	return w.w.Flush()
}

func (w *JSONLZstdWriter) Close() error {
	w.mu.Lock()
	defer w.mu.Unlock()

	var err error
	if w.w != nil {
		_ = w.w.Flush()
		w.w = nil
	}
	if w.enc != nil {
		err = w.enc.Close()
		w.enc = nil
	}
	if w.f != nil {
		if cerr := w.f.Close(); err == nil {
			err = cerr
		}
		w.f = nil
	}
	return err
}

// TurnLogger writes one compressed JSONL entry per completed turn. It
// satisfies world.TurnLogger.
type TurnLogger struct{ w *JSONLZstdWriter }

// NewTurnLogger writes the run's turn log under dataDir/turns/<runID>.jsonl.zst.
func NewTurnLogger(dataDir, runID string) (*TurnLogger, error) {
	w, err := NewJSONLZstdWriter(filepath.Join(dataDir, "turns", runID+".jsonl.zst"))
	if err != nil {
		return nil, err
	}
	return &TurnLogger{w: w}, nil
}

func (l *TurnLogger) WriteTurn(entry world.TurnLogEntry) error { return l.w.Write(entry) }
func (l *TurnLogger) Close() error                             { return l.w.Close() }

package world

import (
	"encoding/binary"
	"math"

	"github.com/cespare/xxhash/v2"
	"github.com/go-gl/mathgl/mgl64"
	"go.uber.org/zap"
)

// Stats describes the most recent frame.
type Stats struct {
	Frame      uint64 `json:"frame"`
	Bodies     int    `json:"bodies"`
	Awake      int    `json:"awake"`
	Contacts   int    `json:"contacts"`
	Iterations int    `json:"iterations"`
	Pairs      int    `json:"pairs"`
	Truncated  bool   `json:"truncated"`
}

func (s Stats) fields() []zap.Field {
	return []zap.Field{
		zap.Uint64("frame", s.Frame),
		zap.Int("bodies", s.Bodies),
		zap.Int("awake", s.Awake),
		zap.Int("contacts", s.Contacts),
		zap.Int("iterations", s.Iterations),
		zap.Int("pairs", s.Pairs),
		zap.Bool("truncated", s.Truncated),
	}
}

func logFrame(logger *zap.Logger, s Stats) {
	if ce := logger.Check(zap.DebugLevel, "frame"); ce != nil {
		ce.Write(s.fields()...)
	}
}

// hasher folds IEEE bits of kinematic state into an xxhash digest.
type hasher struct {
	d   *xxhash.Digest
	buf []byte
}

func newHasher() *hasher {
	return &hasher{d: xxhash.New(), buf: make([]byte, 0, 8*16)}
}

func (h *hasher) float(f float64) {
	h.buf = binary.LittleEndian.AppendUint64(h.buf, math.Float64bits(f))
}

func (h *hasher) vec(v mgl64.Vec3) {
	h.float(v[0])
	h.float(v[1])
	h.float(v[2])
}

func (h *hasher) flush() {
	_, _ = h.d.Write(h.buf)
	h.buf = h.buf[:0]
}

func (h *hasher) sum() uint64 {
	h.flush()
	return h.d.Sum64()
}

func orNop(logger *zap.Logger) *zap.Logger {
	if logger == nil {
		return zap.NewNop()
	}
	return logger
}

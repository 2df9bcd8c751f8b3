// Package edge implements the console-side process: audio metering,
// telemetry publishing and command relaying.
package edge

import (
	"math"
	"sync"

	"go.uber.org/zap"

	"github.com/soundcrew/x32-automix/internal/config"
	"github.com/soundcrew/x32-automix/pkg/fader"
)

// int32 full scale; the X-USB card delivers 32-bit fixed point.
const fullScale = 2147483648.0

// rmsEpsilon keeps the dB conversion finite on all-zero blocks.
const rmsEpsilon = 1e-9

// Meter computes per-channel RMS loudness from interleaved sample
// blocks. Process runs on the audio callback thread; Snapshot runs on
// the telemetry thread. The writer builds each snapshot off to the
// side and swaps it in under the lock, so readers may see a stale
// vector but never a torn one.
type Meter struct {
	channels int
	logger   *zap.Logger

	mu       sync.RWMutex
	snapshot []float64
}

// NewMeter creates a meter for the configured channel count, with
// every channel initialized to the silence floor.
func NewMeter(cfg *config.Config, logger *zap.Logger) *Meter {
	snapshot := make([]float64, cfg.Audio.Channels)
	for i := range snapshot {
		snapshot[i] = fader.SilenceFloorDB
	}
	return &Meter{
		channels: cfg.Audio.Channels,
		logger:   logger,
		snapshot: snapshot,
	}
}

// Process meters one block of interleaved samples. A block whose
// length is not divisible by the channel count is dropped and the
// previous snapshot stays valid. No I/O and no unbounded lock hold:
// this must return before the driver delivers the next block.
func (m *Meter) Process(block []int32) {
	if len(block) == 0 || len(block)%m.channels != 0 {
		m.logger.Error("audio block size mismatch, dropping block",
			zap.Int("samples", len(block)),
			zap.Int("channels", m.channels))
		return
	}

	frames := len(block) / m.channels
	sums := make([]float64, m.channels)
	for i, s := range block {
		v := float64(s) / fullScale
		sums[i%m.channels] += v * v
	}

	levels := make([]float64, m.channels)
	for ch := range levels {
		rms := math.Sqrt(sums[ch] / float64(frames))
		levels[ch] = 20.0 * math.Log10(rms+rmsEpsilon)
	}

	m.mu.Lock()
	m.snapshot = levels
	m.mu.Unlock()
}

// Snapshot returns a copy of the latest complete loudness vector,
// one dBFS value per channel.
func (m *Meter) Snapshot() []float64 {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]float64, len(m.snapshot))
	copy(out, m.snapshot)
	return out
}

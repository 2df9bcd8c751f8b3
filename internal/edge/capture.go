package edge

import (
	"fmt"

	"github.com/gordonklaus/portaudio"
	"go.uber.org/zap"

	"github.com/soundcrew/x32-automix/internal/config"
)

// Capture owns the PortAudio input stream and feeds interleaved blocks
// to the meter. A stream-open failure is fatal at startup; the edge
// module registers Start after the bus client's hook so fx rollback
// releases the already-connected bus on failure.
type Capture struct {
	cfg    *config.Config
	meter  *Meter
	logger *zap.Logger
	stream *portaudio.Stream
}

// NewCapture creates the capture component without touching the device.
func NewCapture(cfg *config.Config, meter *Meter, logger *zap.Logger) *Capture {
	return &Capture{cfg: cfg, meter: meter, logger: logger}
}

// Start initializes PortAudio and opens the default input stream. The
// callback only meters the block; it never blocks on I/O.
func (c *Capture) Start() error {
	if err := portaudio.Initialize(); err != nil {
		return fmt.Errorf("initialize portaudio: %w", err)
	}

	stream, err := portaudio.OpenDefaultStream(
		c.cfg.Audio.Channels,
		0,
		float64(c.cfg.Audio.SampleRate),
		c.cfg.Audio.BlockSize,
		func(in []int32) {
			c.meter.Process(in)
		},
	)
	if err != nil {
		_ = portaudio.Terminate()
		return fmt.Errorf("open audio stream: %w", err)
	}

	if err := stream.Start(); err != nil {
		_ = stream.Close()
		_ = portaudio.Terminate()
		return fmt.Errorf("start audio stream: %w", err)
	}

	c.stream = stream
	c.logger.Info("audio stream started",
		zap.Int("channels", c.cfg.Audio.Channels),
		zap.Int("sample_rate", c.cfg.Audio.SampleRate),
		zap.Int("block_size", c.cfg.Audio.BlockSize))
	return nil
}

// Stop halts and closes the stream before anything else tears down, so
// no callback fires against released state.
func (c *Capture) Stop() error {
	if c.stream == nil {
		return nil
	}
	if err := c.stream.Stop(); err != nil {
		c.logger.Warn("audio stream stop failed", zap.Error(err))
	}
	if err := c.stream.Close(); err != nil {
		c.logger.Warn("audio stream close failed", zap.Error(err))
	}
	c.stream = nil
	return portaudio.Terminate()
}

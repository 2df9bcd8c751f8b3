package edge

import (
	"encoding/json"
	"fmt"
	"strconv"
	"time"

	"go.uber.org/zap"

	"github.com/soundcrew/x32-automix/internal/bus"
	"github.com/soundcrew/x32-automix/internal/config"
)

// TelemetryPublisher samples the meter snapshot on a fixed wall-clock
// interval, decoupled from the audio block rate, and publishes it on
// the telemetry topic.
type TelemetryPublisher struct {
	meter    *Meter
	bus      bus.Publisher
	interval time.Duration
	logger   *zap.Logger

	stop chan struct{}
	done chan struct{}
}

// NewTelemetryPublisher creates the publisher; the edge module starts it.
func NewTelemetryPublisher(cfg *config.Config, meter *Meter, publisher bus.Publisher, logger *zap.Logger) *TelemetryPublisher {
	return &TelemetryPublisher{
		meter:    meter,
		bus:      publisher,
		interval: time.Duration(cfg.Telemetry.IntervalMs) * time.Millisecond,
		logger:   logger,
	}
}

// Start launches the publishing loop.
func (p *TelemetryPublisher) Start() {
	p.stop = make(chan struct{})
	p.done = make(chan struct{})
	go p.run()
}

// Stop terminates the loop and waits for it to exit.
func (p *TelemetryPublisher) Stop() {
	close(p.stop)
	<-p.done
}

func (p *TelemetryPublisher) run() {
	defer close(p.done)

	ticker := time.NewTicker(p.interval)
	defer ticker.Stop()

	for {
		select {
		case <-p.stop:
			return
		case <-ticker.C:
			if err := p.PublishOnce(); err != nil {
				// Logged, not escalated; the next tick retries.
				p.logger.Warn("telemetry publish failed", zap.Error(err))
			}
		}
	}
}

// PublishOnce reads the latest snapshot and publishes one telemetry
// message keyed by 1-based channel id.
func (p *TelemetryPublisher) PublishOnce() error {
	snapshot := p.meter.Snapshot()

	msg := make(bus.Telemetry, len(snapshot))
	for i, db := range snapshot {
		msg[strconv.Itoa(i+1)] = db
	}

	payload, err := json.Marshal(msg)
	if err != nil {
		return fmt.Errorf("encode telemetry: %w", err)
	}

	if err := p.bus.Publish(bus.TopicTelemetry, payload); err != nil {
		return err
	}

	p.logger.Debug("telemetry published",
		zap.Time("at", time.Now()),
		zap.Int("channels", len(msg)))
	return nil
}

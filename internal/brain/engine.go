package brain

import (
	"encoding/json"
	"fmt"
	"math"
	"time"

	"go.uber.org/zap"

	"github.com/soundcrew/x32-automix/internal/bus"
	"github.com/soundcrew/x32-automix/internal/config"
	"github.com/soundcrew/x32-automix/pkg/fader"
)

// Decision tuning.
const (
	// duckThresholdDB opens the ducking gate when any speech channel
	// exceeds it. Strictly greater: a reading of exactly -35 stays shut.
	duckThresholdDB = -35.0
	// duckOffsetDB is applied to the whole music bed while the gate is open.
	duckOffsetDB = -4.0
	// vocalSetpointDB is the auto-level target for vocal channels.
	vocalSetpointDB = -18.0
	// vocalDeadbandDB suppresses correction chatter around the setpoint.
	vocalDeadbandDB = 2.0
)

// Engine turns telemetry into fader commands. Decision passes are
// serialized by the bus client's ordered delivery; the engine itself
// holds no lock.
type Engine struct {
	model      *Model
	dispatcher *Dispatcher
	targetBus  []int
	logger     *zap.Logger
}

// NewEngine creates the decision engine.
func NewEngine(cfg *config.Config, model *Model, dispatcher *Dispatcher, logger *zap.Logger) *Engine {
	return &Engine{
		model:      model,
		dispatcher: dispatcher,
		targetBus:  cfg.Mixer.TargetBus,
		logger:     logger,
	}
}

// HandleTelemetry decodes one telemetry message and runs a decision
// pass. A malformed message is logged and dropped.
func (e *Engine) HandleTelemetry(payload []byte) {
	var levels bus.Telemetry
	if err := json.Unmarshal(payload, &levels); err != nil {
		e.logger.Warn("malformed telemetry message, dropping", zap.Error(err))
		return
	}
	e.Process(levels, time.Now())
}

// HandleStatus receives console status feedback. Reserved for manual
// fader-move tracking; nothing consumes it yet.
func (e *Engine) HandleStatus(topic string, payload []byte) {
	e.logger.Debug("status message", zap.String("topic", topic))
}

// Process runs one full decision cycle: update the model from the
// telemetry map, compute the ducking gate, apply one group policy per
// channel and dispatch the resulting commands.
//
// The gate only sees speech readings present in this message: the
// loudest one must exceed the threshold, strictly. An unreported or
// absent speech channel leaves the maximum at the silence floor, so
// the gate shuts as soon as speech stops being metered.
func (e *Engine) Process(levels bus.Telemetry, now time.Time) {
	maxSpeechDB := fader.SilenceFloorDB
	for id, db := range levels {
		if strip, ok := e.model.Strip(id); ok {
			strip.CurrentDBFS = db
			if strip.Group == GroupSpeech && db > maxSpeechDB {
				maxSpeechDB = db
			}
		}
		// Unknown ids are silently ignored.
	}

	gate := maxSpeechDB > duckThresholdDB

	var commands []bus.Command
	for _, strip := range e.model.Strips() {
		if strip.Overridden {
			if !now.After(strip.OverrideEnd) {
				continue
			}
			strip.Overridden = false
			e.logger.Info("manual override expired, resuming automation",
				zap.String("channel", strip.Name))
		}

		targetDB, act := e.policy(strip, gate)
		if !act {
			continue
		}

		level := fader.ToFader(targetDB)
		strip.TargetFaderLevel = level

		for _, busIdx := range e.targetBus {
			commands = append(commands, bus.Command{
				Address: fmt.Sprintf("/ch/%02d/mix/%d/level", strip.ID, busIdx),
				Args:    []float64{level},
			})
		}
	}

	e.dispatcher.Dispatch(commands)
}

// policy returns the dB target for one channel, or act=false when the
// channel emits no command this cycle.
func (e *Engine) policy(strip *ChannelStrip, gate bool) (targetDB float64, act bool) {
	switch strip.Group {
	case GroupDrums, GroupBand:
		// Music bed sits at unity and ducks uniformly under speech.
		if gate {
			return duckOffsetDB, true
		}
		return 0.0, true

	case GroupVocals:
		// Bounded auto-level: inside the deadband do nothing; outside
		// it, fall back to a fixed safe unity target. No integrated
		// gain state is tracked, so closed-loop correction is not
		// attempted.
		levelErr := vocalSetpointDB - strip.CurrentDBFS
		if math.Abs(levelErr) < vocalDeadbandDB {
			return 0, false
		}
		return 0.0, true

	case GroupSpeech:
		return 0.0, true

	case GroupIgnore:
		return 0, false

	default:
		return 0, false
	}
}

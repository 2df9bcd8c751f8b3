package brain

import (
	"encoding/json"
	"math"

	lru "github.com/hashicorp/golang-lru/v2"
	"go.uber.org/zap"

	"github.com/soundcrew/x32-automix/internal/bus"
	"github.com/soundcrew/x32-automix/internal/config"
)

// lastSentCacheSize covers every channel × bus pair with room to spare.
const lastSentCacheSize = 512

// suppressionTolerance is the fader-value delta below which a repeated
// command is considered unchanged.
const suppressionTolerance = 1e-4

// Dispatcher publishes decision-cycle commands on the command topic,
// one message per command. By default every applicable channel emits
// every cycle; the optional suppress_unchanged switch consults a cache
// of last-sent values and skips repeats.
type Dispatcher struct {
	bus      bus.Publisher
	suppress bool
	lastSent *lru.Cache[string, float64]
	logger   *zap.Logger
}

// NewDispatcher creates the dispatcher.
func NewDispatcher(cfg *config.Config, publisher bus.Publisher, logger *zap.Logger) (*Dispatcher, error) {
	lastSent, err := lru.New[string, float64](lastSentCacheSize)
	if err != nil {
		return nil, err
	}
	return &Dispatcher{
		bus:      publisher,
		suppress: cfg.Mixer.SuppressUnchanged,
		lastSent: lastSent,
		logger:   logger,
	}, nil
}

// Dispatch publishes each command individually. A publish failure is
// logged and the remaining commands still go out; the next cycle
// re-emits everything anyway.
func (d *Dispatcher) Dispatch(commands []bus.Command) {
	for _, cmd := range commands {
		if d.suppress && d.unchanged(cmd) {
			continue
		}

		payload, err := json.Marshal(cmd)
		if err != nil {
			d.logger.Error("encode command failed", zap.String("address", cmd.Address), zap.Error(err))
			continue
		}

		if err := d.bus.Publish(bus.TopicCommands, payload); err != nil {
			d.logger.Warn("command publish failed", zap.String("address", cmd.Address), zap.Error(err))
			continue
		}

		if d.suppress && len(cmd.Args) == 1 {
			d.lastSent.Add(cmd.Address, cmd.Args[0])
		}
	}
}

func (d *Dispatcher) unchanged(cmd bus.Command) bool {
	if len(cmd.Args) != 1 {
		return false
	}
	prev, ok := d.lastSent.Get(cmd.Address)
	return ok && math.Abs(prev-cmd.Args[0]) < suppressionTolerance
}

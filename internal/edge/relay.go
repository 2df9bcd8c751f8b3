package edge

import (
	"encoding/json"

	"go.uber.org/zap"

	"github.com/soundcrew/x32-automix/internal/bus"
	"github.com/soundcrew/x32-automix/internal/console"
)

// Relay forwards command messages from the bus to the console verbatim.
type Relay struct {
	sender console.Sender
	logger *zap.Logger
}

// NewRelay creates the relay; the edge module subscribes it on start.
func NewRelay(sender console.Sender, logger *zap.Logger) *Relay {
	return &Relay{sender: sender, logger: logger}
}

// HandleCommand decodes one command message and sends it to the
// console. Malformed messages are logged and dropped; subsequent
// messages are unaffected.
func (r *Relay) HandleCommand(payload []byte) {
	var cmd bus.Command
	if err := json.Unmarshal(payload, &cmd); err != nil {
		r.logger.Warn("malformed command message, dropping",
			zap.Error(err),
			zap.ByteString("payload", payload))
		return
	}
	if cmd.Address == "" {
		r.logger.Warn("command message missing address, dropping",
			zap.ByteString("payload", payload))
		return
	}

	args := make([]float32, len(cmd.Args))
	for i, a := range cmd.Args {
		args[i] = float32(a)
	}

	r.logger.Debug("forwarding command",
		zap.String("address", cmd.Address),
		zap.Float64s("args", cmd.Args))

	if err := r.sender.Send(cmd.Address, args); err != nil {
		r.logger.Warn("command send failed", zap.String("address", cmd.Address), zap.Error(err))
	}
}

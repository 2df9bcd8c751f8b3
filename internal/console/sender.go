// Package console talks OSC to the mixing desk. The rest of the system
// only sees the Sender primitive; addressing and argument semantics
// stay with the callers.
package console

import (
	"fmt"

	"github.com/hypebeast/go-osc/osc"

	"github.com/soundcrew/x32-automix/internal/config"
)

// KeepAliveAddress re-arms the console's push-telemetry subscription.
// The console drops the subscription 10 s after the last one.
const KeepAliveAddress = "/xremote"

// Sender is the single control primitive the console exposes.
type Sender interface {
	Send(address string, args []float32) error
}

// OSCSender sends messages to the console over UDP.
type OSCSender struct {
	client *osc.Client
}

// NewOSCSender creates a Sender for the configured console endpoint.
// OSC is fire-and-forget UDP, so there is no connection to manage.
func NewOSCSender(cfg *config.Config) *OSCSender {
	return &OSCSender{
		client: osc.NewClient(cfg.Console.Host, cfg.Console.Port),
	}
}

// Send forwards one OSC message to the console.
func (s *OSCSender) Send(address string, args []float32) error {
	msg := osc.NewMessage(address)
	for _, arg := range args {
		msg.Append(arg)
	}
	if err := s.client.Send(msg); err != nil {
		return fmt.Errorf("send osc %s: %w", address, err)
	}
	return nil
}

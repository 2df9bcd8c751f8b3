package console

import (
	"time"

	"go.uber.org/zap"

	"github.com/soundcrew/x32-automix/internal/config"
)

// KeepAlive periodically re-arms the console's push-telemetry
// subscription. The interval must stay below the console's 10 s
// subscription TTL; the default leaves a 1 s margin.
type KeepAlive struct {
	sender   Sender
	interval time.Duration
	logger   *zap.Logger

	stop chan struct{}
	done chan struct{}
}

// NewKeepAlive creates the keepalive loop. It does not start it; see
// the edge module's lifecycle registration.
func NewKeepAlive(cfg *config.Config, sender Sender, logger *zap.Logger) *KeepAlive {
	return &KeepAlive{
		sender:   sender,
		interval: time.Duration(cfg.Console.KeepaliveIntervalMs) * time.Millisecond,
		logger:   logger,
	}
}

// Start launches the keepalive loop and sends the first message
// immediately so the subscription is live before the first tick.
func (k *KeepAlive) Start() {
	k.stop = make(chan struct{})
	k.done = make(chan struct{})
	go k.run()
}

// Stop terminates the loop and waits for it to exit.
func (k *KeepAlive) Stop() {
	close(k.stop)
	<-k.done
}

func (k *KeepAlive) run() {
	defer close(k.done)

	k.SendOnce()

	ticker := time.NewTicker(k.interval)
	defer ticker.Stop()

	for {
		select {
		case <-k.stop:
			return
		case <-ticker.C:
			k.SendOnce()
		}
	}
}

// SendOnce sends a single keepalive. Failure is logged, never fatal;
// the next tick retries.
func (k *KeepAlive) SendOnce() {
	if err := k.sender.Send(KeepAliveAddress, nil); err != nil {
		k.logger.Warn("keepalive send failed", zap.Error(err))
	}
}

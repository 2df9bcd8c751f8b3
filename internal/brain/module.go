// Package brain provides decision-engine services and Fx modules.
package brain

import (
	"context"

	"go.uber.org/fx"

	"github.com/soundcrew/x32-automix/internal/bus"
)

// Module provides the brain-side decision pipeline.
var Module = fx.Module("brain",
	fx.Provide(
		NewModel,
		NewDispatcher,
		NewEngine,
	),
	fx.Invoke(registerSubscriptions),
)

type registerSubscriptionsParams struct {
	fx.In
	LC     fx.Lifecycle
	Bus    *bus.Client
	Engine *Engine
}

// registerSubscriptions attaches the engine to the bus once the broker
// connection is up. Paho delivers callbacks in order per subscription,
// so decision passes never run concurrently.
func registerSubscriptions(params registerSubscriptionsParams) {
	params.LC.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			if err := params.Bus.Subscribe(bus.TopicTelemetry, func(_ string, payload []byte) {
				params.Engine.HandleTelemetry(payload)
			}); err != nil {
				return err
			}
			return params.Bus.Subscribe(bus.TopicStatus, params.Engine.HandleStatus)
		},
	})
}

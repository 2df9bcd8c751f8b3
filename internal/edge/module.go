// Package edge provides edge-process services and Fx modules.
package edge

import (
	"context"

	"go.uber.org/fx"

	"github.com/soundcrew/x32-automix/internal/bus"
	"github.com/soundcrew/x32-automix/internal/console"
)

// Module provides the edge-side pipeline.
var Module = fx.Module("edge",
	fx.Provide(
		NewMeter,
		NewCapture,
		NewTelemetryPublisher,
		NewRelay,
	),
	fx.Invoke(registerLifecycle),
)

// registerLifecycleParams holds everything the edge process runs.
type registerLifecycleParams struct {
	fx.In
	LC        fx.Lifecycle
	Bus       *bus.Client
	Capture   *Capture
	Telemetry *TelemetryPublisher
	Relay     *Relay
	KeepAlive *console.KeepAlive
}

// registerLifecycle wires the edge components into the application
// lifecycle. The bus client's connect hook was appended during
// construction, so everything here starts after the broker connection
// and stops before it goes away; in particular the audio stream is
// closed before the bus disconnects.
func registerLifecycle(params registerLifecycleParams) {
	params.LC.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			if err := params.Bus.Subscribe(bus.TopicCommands, func(_ string, payload []byte) {
				params.Relay.HandleCommand(payload)
			}); err != nil {
				return err
			}

			if err := params.Capture.Start(); err != nil {
				return err
			}

			params.Telemetry.Start()
			params.KeepAlive.Start()
			return nil
		},
		OnStop: func(ctx context.Context) error {
			params.KeepAlive.Stop()
			params.Telemetry.Stop()
			return params.Capture.Stop()
		},
	})
}

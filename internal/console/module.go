// Package console provides console-protocol infrastructure and Fx modules.
package console

import (
	"go.uber.org/fx"
)

// Module provides the console sender and keepalive loop.
var Module = fx.Module("console",
	fx.Provide(
		NewOSCSender,
		func(s *OSCSender) Sender { return s },
		NewKeepAlive,
	),
)

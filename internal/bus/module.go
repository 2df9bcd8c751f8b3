// Package bus provides message-bus infrastructure and Fx modules.
package bus

import (
	"go.uber.org/fx"
)

// Module provides the shared bus client.
var Module = fx.Module("bus",
	fx.Provide(
		NewClient,
		func(c *Client) Publisher { return c },
	),
)

package bus

// Topics joining the edge and brain processes.
const (
	// TopicTelemetry carries per-channel loudness maps, edge to brain.
	TopicTelemetry = "x32/telemetry"
	// TopicCommands carries fader commands, brain to edge.
	TopicCommands = "x32/commands"
	// TopicStatus is a wildcard the brain subscribes for console status
	// feedback (manual fader moves). Nothing consumes it yet.
	TopicStatus = "x32/status/#"
)

// Telemetry maps a 1-based channel id string to a dBFS reading. Keys
// need not cover every channel; receivers ignore ids they don't know.
type Telemetry map[string]float64

// Command is one fader move for the console, forwarded verbatim to the
// OSC client by the edge relay.
type Command struct {
	Address string    `json:"address"`
	Args    []float64 `json:"args"`
}

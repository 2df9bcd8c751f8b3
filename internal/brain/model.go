// Package brain implements the decision side of the control loop: the
// per-channel mixing model, the policy engine and command dispatch.
package brain

import (
	"fmt"
	"sort"
	"strconv"
	"time"

	"go.uber.org/zap"

	"github.com/soundcrew/x32-automix/internal/config"
	"github.com/soundcrew/x32-automix/pkg/fader"
)

// Group selects the decision policy applied to a channel. The set is
// closed; config strings that don't match a known group behave as
// GroupIgnore.
type Group int

// Channel groups.
const (
	GroupIgnore Group = iota
	GroupSpeech
	GroupDrums
	GroupBand
	GroupVocals
)

// ParseGroup maps a config string to a Group. Unrecognized or absent
// values are ignored channels, not errors.
func ParseGroup(s string) Group {
	switch s {
	case "speech":
		return GroupSpeech
	case "drums":
		return GroupDrums
	case "band":
		return GroupBand
	case "vocals":
		return GroupVocals
	default:
		return GroupIgnore
	}
}

func (g Group) String() string {
	switch g {
	case GroupSpeech:
		return "speech"
	case GroupDrums:
		return "drums"
	case GroupBand:
		return "band"
	case GroupVocals:
		return "vocals"
	default:
		return "ignore"
	}
}

// DefaultTargetFader is unity gain on the send fader.
const DefaultTargetFader = 0.75

// MaxChannelID bounds valid console input channel ids.
const MaxChannelID = 32

// ChannelStrip is the mixing state for one console input channel.
// CurrentDBFS normally stays at or below 0 but out-of-range readings
// are stored as-is; the policies tolerate them.
type ChannelStrip struct {
	ID       int
	Name     string
	Group    Group
	Priority string

	CurrentDBFS       float64
	CurrentFaderLevel float64
	TargetFaderLevel  float64

	Overridden  bool
	OverrideEnd time.Time
}

// Model is the process-wide table of channel strips, built once from
// configuration. Membership never changes at runtime; only the decision
// pass mutates strip state, and bus delivery serializes those passes.
type Model struct {
	strips map[string]*ChannelStrip
	order  []string // id keys sorted numerically, for stable iteration
}

// NewModel builds the channel table. Entries with unparseable or
// out-of-range ids are logged and skipped.
func NewModel(cfg *config.Config, logger *zap.Logger) *Model {
	m := &Model{strips: make(map[string]*ChannelStrip, len(cfg.Mixer.Channels))}

	for idStr, ch := range cfg.Mixer.Channels {
		id, err := strconv.Atoi(idStr)
		if err != nil || id < 1 || id > MaxChannelID {
			logger.Warn("skipping channel with invalid id", zap.String("id", idStr))
			continue
		}

		name := ch.Name
		if name == "" {
			name = fmt.Sprintf("Ch %d", id)
		}

		m.strips[idStr] = &ChannelStrip{
			ID:               id,
			Name:             name,
			Group:            ParseGroup(ch.Group),
			Priority:         ch.Priority,
			CurrentDBFS:      fader.SilenceFloorDB,
			TargetFaderLevel: DefaultTargetFader,
		}
		m.order = append(m.order, idStr)
	}

	sort.Slice(m.order, func(i, j int) bool {
		return m.strips[m.order[i]].ID < m.strips[m.order[j]].ID
	})

	if len(m.strips) == 0 {
		logger.Warn("channel map is empty, automation is disabled")
	} else {
		logger.Info("channel model built", zap.Int("channels", len(m.strips)))
	}

	return m
}

// Strip returns the strip for a channel id string, if configured.
func (m *Model) Strip(id string) (*ChannelStrip, bool) {
	s, ok := m.strips[id]
	return s, ok
}

// Strips returns all strips in channel-id order.
func (m *Model) Strips() []*ChannelStrip {
	out := make([]*ChannelStrip, 0, len(m.order))
	for _, id := range m.order {
		out = append(out, m.strips[id])
	}
	return out
}

// Len reports the number of configured channels.
func (m *Model) Len() int {
	return len(m.strips)
}

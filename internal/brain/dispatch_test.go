package brain_test

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/soundcrew/x32-automix/internal/brain"
	"github.com/soundcrew/x32-automix/internal/bus"
	"github.com/soundcrew/x32-automix/internal/config"
)

func TestDispatchPublishesEveryCommand(t *testing.T) {
	pub := &fakePublisher{}
	d, err := brain.NewDispatcher(config.Defaults(), pub, zap.NewNop())
	require.NoError(t, err)

	commands := []bus.Command{
		{Address: "/ch/01/mix/11/level", Args: []float64{0.75}},
		{Address: "/ch/02/mix/11/level", Args: []float64{0.65}},
	}

	d.Dispatch(commands)
	assert.Len(t, pub.all(), 2)

	// Baseline behavior: repeats are re-emitted every cycle.
	d.Dispatch(commands)
	assert.Len(t, pub.all(), 4)
}

func TestDispatchSuppressUnchanged(t *testing.T) {
	cfg := config.Defaults()
	cfg.Mixer.SuppressUnchanged = true

	pub := &fakePublisher{}
	d, err := brain.NewDispatcher(cfg, pub, zap.NewNop())
	require.NoError(t, err)

	cmd := bus.Command{Address: "/ch/01/mix/11/level", Args: []float64{0.75}}

	d.Dispatch([]bus.Command{cmd})
	d.Dispatch([]bus.Command{cmd})
	assert.Len(t, pub.all(), 1, "unchanged repeat should be suppressed")

	// A meaningful change goes through.
	d.Dispatch([]bus.Command{{Address: "/ch/01/mix/11/level", Args: []float64{0.65}}})
	assert.Len(t, pub.all(), 2)
}

func TestDispatchContinuesAfterPublishFailure(t *testing.T) {
	pub := &fakePublisher{err: errors.New("broker gone")}
	d, err := brain.NewDispatcher(config.Defaults(), pub, zap.NewNop())
	require.NoError(t, err)

	d.Dispatch([]bus.Command{
		{Address: "/ch/01/mix/11/level", Args: []float64{0.75}},
	})
	assert.Empty(t, pub.all())

	// Broker returns; the next cycle emits normally.
	pub.err = nil
	d.Dispatch([]bus.Command{
		{Address: "/ch/01/mix/11/level", Args: []float64{0.75}},
	})
	assert.Len(t, pub.all(), 1)
}

func TestDispatchSuppressionNotPoisonedByFailedPublish(t *testing.T) {
	cfg := config.Defaults()
	cfg.Mixer.SuppressUnchanged = true

	pub := &fakePublisher{err: errors.New("broker gone")}
	d, err := brain.NewDispatcher(cfg, pub, zap.NewNop())
	require.NoError(t, err)

	cmd := bus.Command{Address: "/ch/01/mix/11/level", Args: []float64{0.75}}

	// Failed publish must not record the value as sent.
	d.Dispatch([]bus.Command{cmd})
	pub.err = nil
	d.Dispatch([]bus.Command{cmd})

	assert.Len(t, pub.all(), 1)
}

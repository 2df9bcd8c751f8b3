package edge_test

import (
	"encoding/json"
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/soundcrew/x32-automix/internal/bus"
	"github.com/soundcrew/x32-automix/internal/config"
	"github.com/soundcrew/x32-automix/internal/edge"
)

type fakePublisher struct {
	mu       sync.Mutex
	messages []publishedMessage
	err      error
}

type publishedMessage struct {
	topic   string
	payload []byte
}

func (f *fakePublisher) Publish(topic string, payload []byte) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return f.err
	}
	f.messages = append(f.messages, publishedMessage{topic: topic, payload: payload})
	return nil
}

func (f *fakePublisher) published() []publishedMessage {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]publishedMessage(nil), f.messages...)
}

func TestTelemetryPublishOnce(t *testing.T) {
	cfg := config.Defaults()
	cfg.Audio.Channels = 2
	meter := edge.NewMeter(cfg, zap.NewNop())
	meter.Process(interleave(64, []int32{1 << 30, 0}))

	pub := &fakePublisher{}
	p := edge.NewTelemetryPublisher(cfg, meter, pub, zap.NewNop())

	require.NoError(t, p.PublishOnce())

	messages := pub.published()
	require.Len(t, messages, 1)
	assert.Equal(t, bus.TopicTelemetry, messages[0].topic)

	var msg bus.Telemetry
	require.NoError(t, json.Unmarshal(messages[0].payload, &msg))
	require.Len(t, msg, 2)
	assert.InDelta(t, -6.0206, msg["1"], 0.001)
	assert.Contains(t, msg, "2")
	assert.NotContains(t, msg, "0", "channel ids are 1-based")
}

func TestTelemetryPublishFailureIsReturnedNotFatal(t *testing.T) {
	cfg := config.Defaults()
	cfg.Audio.Channels = 2
	meter := edge.NewMeter(cfg, zap.NewNop())

	pub := &fakePublisher{err: errors.New("broker gone")}
	p := edge.NewTelemetryPublisher(cfg, meter, pub, zap.NewNop())

	assert.Error(t, p.PublishOnce())

	// Broker returns; next attempt succeeds.
	pub.err = nil
	assert.NoError(t, p.PublishOnce())
	assert.Len(t, pub.published(), 1)
}

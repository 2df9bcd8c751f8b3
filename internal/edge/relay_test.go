package edge_test

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/soundcrew/x32-automix/internal/edge"
)

type fakeSender struct {
	mu   sync.Mutex
	sent []sentMessage
}

type sentMessage struct {
	address string
	args    []float32
}

func (f *fakeSender) Send(address string, args []float32) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.sent = append(f.sent, sentMessage{address: address, args: args})
	return nil
}

func (f *fakeSender) messages() []sentMessage {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]sentMessage(nil), f.sent...)
}

func TestRelayForwardsCommand(t *testing.T) {
	sender := &fakeSender{}
	r := edge.NewRelay(sender, zap.NewNop())

	r.HandleCommand([]byte(`{"address":"/ch/02/mix/11/level","args":[0.65]}`))

	messages := sender.messages()
	require.Len(t, messages, 1)
	assert.Equal(t, "/ch/02/mix/11/level", messages[0].address)
	require.Len(t, messages[0].args, 1)
	assert.InDelta(t, 0.65, messages[0].args[0], 1e-6)
}

func TestRelayDropsMalformedJSON(t *testing.T) {
	sender := &fakeSender{}
	r := edge.NewRelay(sender, zap.NewNop())

	r.HandleCommand([]byte(`{not json`))

	assert.Empty(t, sender.messages())
}

func TestRelayDropsMissingAddress(t *testing.T) {
	sender := &fakeSender{}
	r := edge.NewRelay(sender, zap.NewNop())

	r.HandleCommand([]byte(`{"args":[0.5]}`))

	assert.Empty(t, sender.messages())
}

func TestRelayKeepsServingAfterBadMessage(t *testing.T) {
	sender := &fakeSender{}
	r := edge.NewRelay(sender, zap.NewNop())

	r.HandleCommand([]byte(`garbage`))
	r.HandleCommand([]byte(`{"address":"/ch/01/mix/11/level","args":[0.75]}`))

	messages := sender.messages()
	require.Len(t, messages, 1)
	assert.Equal(t, "/ch/01/mix/11/level", messages[0].address)
}

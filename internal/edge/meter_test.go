package edge_test

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/soundcrew/x32-automix/internal/config"
	"github.com/soundcrew/x32-automix/internal/edge"
	"github.com/soundcrew/x32-automix/pkg/fader"
)

func newTestMeter(channels int) *edge.Meter {
	cfg := config.Defaults()
	cfg.Audio.Channels = channels
	return edge.NewMeter(cfg, zap.NewNop())
}

// interleave builds a block of frames where every channel holds a
// constant sample value.
func interleave(frames int, perChannel []int32) []int32 {
	block := make([]int32, 0, frames*len(perChannel))
	for f := 0; f < frames; f++ {
		block = append(block, perChannel...)
	}
	return block
}

func TestMeterInitializedToSilenceFloor(t *testing.T) {
	m := newTestMeter(4)

	snapshot := m.Snapshot()

	require.Len(t, snapshot, 4)
	for _, db := range snapshot {
		assert.Equal(t, fader.SilenceFloorDB, db)
	}
}

func TestMeterComputesPerChannelRMS(t *testing.T) {
	m := newTestMeter(2)

	// Channel 0 at half of full scale, channel 1 silent. A constant
	// signal's RMS equals its amplitude: 20*log10(0.5) ≈ -6.02 dBFS.
	halfScale := int32(1 << 30)
	m.Process(interleave(256, []int32{halfScale, 0}))

	snapshot := m.Snapshot()
	require.Len(t, snapshot, 2)
	assert.InDelta(t, -6.0206, snapshot[0], 0.001)
	assert.Less(t, snapshot[1], -170.0, "silent channel should bottom out near the epsilon floor")
}

func TestMeterDropsMalformedBlock(t *testing.T) {
	m := newTestMeter(2)
	m.Process(interleave(16, []int32{1 << 30, 1 << 30}))
	before := m.Snapshot()

	// 33 samples cannot be reshaped into 2 channels.
	m.Process(make([]int32, 33))

	assert.Equal(t, before, m.Snapshot(), "previous snapshot must survive a dropped block")
}

func TestMeterDropsEmptyBlock(t *testing.T) {
	m := newTestMeter(2)
	before := m.Snapshot()

	m.Process(nil)

	assert.Equal(t, before, m.Snapshot())
}

func TestMeterSnapshotNeverTears(t *testing.T) {
	m := newTestMeter(8)

	// Writers alternate between two uniform blocks; every complete
	// snapshot must therefore be uniform across channels.
	blocks := [][]int32{
		interleave(64, []int32{1 << 28, 1 << 28, 1 << 28, 1 << 28, 1 << 28, 1 << 28, 1 << 28, 1 << 28}),
		interleave(64, []int32{1 << 30, 1 << 30, 1 << 30, 1 << 30, 1 << 30, 1 << 30, 1 << 30, 1 << 30}),
	}

	var wg sync.WaitGroup
	stop := make(chan struct{})

	wg.Add(1)
	go func() {
		defer wg.Done()
		for i := 0; ; i++ {
			select {
			case <-stop:
				return
			default:
				m.Process(blocks[i%2])
			}
		}
	}()

	for i := 0; i < 1000; i++ {
		snapshot := m.Snapshot()
		require.Len(t, snapshot, 8)
		for ch := 1; ch < len(snapshot); ch++ {
			require.Equal(t, snapshot[0], snapshot[ch], "torn snapshot observed")
		}
	}

	close(stop)
	wg.Wait()
}

func TestMeterSnapshotReturnsCopy(t *testing.T) {
	m := newTestMeter(2)

	snapshot := m.Snapshot()
	snapshot[0] = 42.0

	assert.Equal(t, fader.SilenceFloorDB, m.Snapshot()[0])
}

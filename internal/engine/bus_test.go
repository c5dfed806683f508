package engine

import (
	"sync"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSubscribePublish(t *testing.T) {
	b := NewBus()
	var got []string
	Subscribe(b, func(ev ConnectEvent) { got = append(got, "connect:"+ev.Player.Username) })
	Subscribe(b, func(ev DisconnectEvent) { got = append(got, "disconnect:"+ev.Player.Username) })

	assert.Equal(t, 1, b.Publish(ConnectEvent{Player: PlayerRef{Username: "alice"}}))
	assert.Equal(t, 1, b.Publish(DisconnectEvent{Player: PlayerRef{Username: "alice"}}))
	assert.Equal(t, 0, b.Publish(BootEvent{}))
	assert.Equal(t, 0, b.Publish(nil))

	assert.Equal(t, []string{"connect:alice", "disconnect:alice"}, got)
}

func TestPanicIsContained(t *testing.T) {
	b := NewBus()
	var after atomic.Bool
	Subscribe(b, func(BootEvent) { panic("boom") })
	Subscribe(b, func(BootEvent) { after.Store(true) })

	require.NotPanics(t, func() { b.Publish(BootEvent{}) })
	assert.True(t, after.Load(), "later handlers still run")
}

// Подписка из обработчика не влияет на текущую рассылку.
func TestSubscribeDuringPublish(t *testing.T) {
	b := NewBus()
	var calls atomic.Int32
	Subscribe(b, func(StartEvent) {
		calls.Add(1)
		Subscribe(b, func(StartEvent) { calls.Add(1) })
	})

	assert.Equal(t, 1, b.Publish(StartEvent{}))
	assert.Equal(t, int32(1), calls.Load())

	assert.Equal(t, 2, b.Publish(StartEvent{}))
	assert.Equal(t, int32(3), calls.Load())
}

func TestConcurrentPublish(t *testing.T) {
	b := NewBus()
	var n atomic.Int64
	Subscribe(b, func(ChatEvent) { n.Add(1) })

	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 50; j++ {
				b.Publish(ChatEvent{Content: "x"})
			}
		}()
	}
	wg.Wait()
	assert.Equal(t, int64(1000), n.Load())
}

func TestWorldLabel(t *testing.T) {
	assert.Equal(t, "Orbis", World{Name: "default", DisplayName: "Orbis"}.Label())
	assert.Equal(t, "default", World{Name: "default", DisplayName: " "}.Label())
}

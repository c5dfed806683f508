package presence

import (
	"fmt"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEnterTransitions(t *testing.T) {
	tr := New()

	got := tr.Enter("alice", "Zone1")
	assert.Equal(t, Transition{Kind: Enter, To: "Zone1"}, got)

	got = tr.Enter("alice", "Zone1")
	assert.Equal(t, None, got.Kind, "same world emits nothing")

	got = tr.Enter("alice", "Zone2")
	assert.Equal(t, Transition{Kind: Change, From: "Zone1", To: "Zone2"}, got)
}

func TestDrainThenEnterIsChange(t *testing.T) {
	tr := New()
	tr.Enter("bob", "Lobby")

	// уход из мира только обновляет запись
	tr.Put("bob", "Lobby")
	got := tr.Enter("bob", "Arena")
	assert.Equal(t, Change, got.Kind)
	assert.Equal(t, "Lobby", got.From)
}

func TestRemoveOnce(t *testing.T) {
	tr := New()
	tr.Enter("carol", "Zone1")

	w, ok := tr.Remove("carol")
	require.True(t, ok)
	assert.Equal(t, "Zone1", w)

	_, ok = tr.Remove("carol")
	assert.False(t, ok)

	got := tr.Enter("carol", "Zone1")
	assert.Equal(t, Enter, got.Kind, "presence is cleared on disconnect")
}

func TestConcurrentAccess(t *testing.T) {
	tr := New()
	var wg sync.WaitGroup
	enters := make([]int, 50)

	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			id := fmt.Sprintf("p%d", i)
			for j := 0; j < 100; j++ {
				if tr.Enter(id, fmt.Sprintf("w%d", j%3)).Kind == Enter {
					enters[i]++
				}
				tr.Get(id)
			}
		}(i)
	}
	wg.Wait()

	assert.Equal(t, 50, tr.Len())
	for i, n := range enters {
		assert.Equal(t, 1, n, "player %d", i)
	}
}

func TestKindString(t *testing.T) {
	assert.Equal(t, "enter", Enter.String())
	assert.Equal(t, "change", Change.String())
	assert.Equal(t, "none", None.String())
}

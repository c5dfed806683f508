package discord

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFutureThenBeforeResolve(t *testing.T) {
	f := NewFuture()
	var ok, failed int
	f.Then(func() { ok++ }, func(error) { failed++ })

	assert.False(t, f.Resolved())
	require.True(t, f.Resolve(nil))
	assert.False(t, f.Resolve(errors.New("late")), "second resolve is ignored")

	assert.Equal(t, 1, ok)
	assert.Equal(t, 0, failed)
	assert.True(t, f.Succeeded())
	assert.NoError(t, f.Err())
}

func TestFutureThenAfterResolve(t *testing.T) {
	f := NewFuture()
	boom := errors.New("auth failed")
	f.Resolve(boom)

	var got error
	f.Then(func() { t.Fatal("must not succeed") }, func(err error) { got = err })
	assert.Equal(t, boom, got)
	assert.False(t, f.Succeeded())
	f.Then(nil, nil)
}

func TestFutureWait(t *testing.T) {
	f := NewFuture()
	go func() {
		time.Sleep(10 * time.Millisecond)
		f.Resolve(nil)
	}()
	require.NoError(t, f.Wait(context.Background()))
	<-f.Done()

	pending := NewFuture()
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
	defer cancel()
	assert.ErrorIs(t, pending.Wait(ctx), context.DeadlineExceeded)
}

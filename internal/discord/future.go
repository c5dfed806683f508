package discord

import (
	"context"
	"sync"
)

// Future - одноразовый результат (nil или ошибка) с продолжениями.
// Продолжения вызываются в горутине, которая разрешила Future, или сразу
// в вызывающей, если результат уже есть.
type Future struct {
	done chan struct{}

	mu        sync.Mutex
	resolved  bool
	err       error
	callbacks []func(error)
}

func NewFuture() *Future {
	return &Future{done: make(chan struct{})}
}

// Resolve фиксирует результат. Повторные вызовы игнорируются (возвращают false).
func (f *Future) Resolve(err error) bool {
	f.mu.Lock()
	if f.resolved {
		f.mu.Unlock()
		return false
	}
	f.resolved = true
	f.err = err
	cbs := f.callbacks
	f.callbacks = nil
	close(f.done)
	f.mu.Unlock()

	for _, cb := range cbs {
		cb(err)
	}
	return true
}

func (f *Future) Done() <-chan struct{} { return f.done }

// Resolved - есть ли уже результат.
func (f *Future) Resolved() bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.resolved
}

// Err - ошибка результата; nil, пока Future не разрешён или если он успешен.
func (f *Future) Err() error {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.err
}

// Succeeded - разрешён без ошибки.
func (f *Future) Succeeded() bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.resolved && f.err == nil
}

// Then подписывает продолжения на успех и на ошибку; любое может быть nil.
func (f *Future) Then(onOK func(), onErr func(error)) {
	cb := func(err error) {
		switch {
		case err == nil && onOK != nil:
			onOK()
		case err != nil && onErr != nil:
			onErr(err)
		}
	}

	f.mu.Lock()
	if !f.resolved {
		f.callbacks = append(f.callbacks, cb)
		f.mu.Unlock()
		return
	}
	err := f.err
	f.mu.Unlock()
	cb(err)
}

// Wait блокируется до результата или отмены ctx.
func (f *Future) Wait(ctx context.Context) error {
	select {
	case <-f.done:
		return f.Err()
	case <-ctx.Done():
		return ctx.Err()
	}
}

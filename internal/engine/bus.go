// Package engine - граница с игровым движком: типизированные события, шина
// подписок и исходящий вызов "разослать сообщение всем игрокам".
//
// Обработчики могут вызываться из разных потоков движка одновременно.
// Паника в обработчике логируется и не доходит до движка.
package engine

import (
	"reflect"
	"slices"
	"sync"

	"github.com/rs/zerolog/log"

	"github.com/EgorLis/discordbridge/internal/render"
)

// Host - то, что мост получает от движка.
type Host interface {
	Bus() *Bus
	Broadcast(segments []render.Segment) error
}

type Bus struct {
	mu       sync.RWMutex
	handlers map[reflect.Type][]func(any)
}

func NewBus() *Bus {
	return &Bus{handlers: make(map[reflect.Type][]func(any))}
}

// Subscribe регистрирует обработчик событий типа E.
func Subscribe[E any](b *Bus, h func(E)) {
	t := reflect.TypeOf((*E)(nil)).Elem()
	b.mu.Lock()
	defer b.mu.Unlock()
	b.handlers[t] = append(b.handlers[t], func(ev any) { h(ev.(E)) })
}

// Publish вызывает обработчики синхронно в вызывающей горутине.
// Возвращает число вызванных обработчиков.
func (b *Bus) Publish(ev any) int {
	if ev == nil {
		return 0
	}
	t := reflect.TypeOf(ev)
	b.mu.RLock()
	hs := slices.Clone(b.handlers[t])
	b.mu.RUnlock()

	for _, h := range hs {
		b.call(t, h, ev)
	}
	return len(hs)
}

func (b *Bus) call(t reflect.Type, h func(any), ev any) {
	defer func() {
		if r := recover(); r != nil {
			log.Error().Str("event", t.String()).Interface("panic", r).Msg("event handler panicked")
		}
	}()
	h(ev)
}

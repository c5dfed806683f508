// Package presence хранит, в каком мире сейчас находится каждый игрок, и
// вычисляет переходы enter/change для уведомлений.
//
// Tracker безопасен для конкурентного использования: движок зовёт обработчики
// из разных потоков. Запись удаляется при дисконнекте, поэтому после
// переподключения игрок снова получит "enter".
package presence

import "sync"

type Kind int

const (
	None Kind = iota
	Enter
	Change
)

func (k Kind) String() string {
	switch k {
	case Enter:
		return "enter"
	case Change:
		return "change"
	default:
		return "none"
	}
}

// Transition - что произошло после Enter.
type Transition struct {
	Kind Kind
	From string
	To   string
}

type Tracker struct {
	mu     sync.RWMutex
	worlds map[string]string
}

func New() *Tracker {
	return &Tracker{worlds: make(map[string]string)}
}

func (t *Tracker) Get(player string) (string, bool) {
	t.mu.RLock()
	defer t.mu.RUnlock()
	w, ok := t.worlds[player]
	return w, ok
}

// Put записывает мир и возвращает предыдущий.
func (t *Tracker) Put(player, world string) (string, bool) {
	t.mu.Lock()
	defer t.mu.Unlock()
	prev, ok := t.worlds[player]
	t.worlds[player] = world
	return prev, ok
}

// Remove удаляет запись; второй вызов для того же игрока вернёт false.
func (t *Tracker) Remove(player string) (string, bool) {
	t.mu.Lock()
	defer t.mu.Unlock()
	w, ok := t.worlds[player]
	if ok {
		delete(t.worlds, player)
	}
	return w, ok
}

// Enter фиксирует вход игрока в мир и решает, какое уведомление нужно.
func (t *Tracker) Enter(player, world string) Transition {
	prev, existed := t.Put(player, world)
	switch {
	case !existed:
		return Transition{Kind: Enter, To: world}
	case prev != world:
		return Transition{Kind: Change, From: prev, To: world}
	default:
		return Transition{Kind: None, From: prev, To: world}
	}
}

func (t *Tracker) Len() int {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return len(t.worlds)
}

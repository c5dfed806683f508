// Package gate - одноразовое действие, которое срабатывает, когда наступили
// оба условия: "сервер загрузился" (OnConditionMet) и "бот подключён" (OnReady).
//
// Первое из событий только ставит флаг; действие выполняется на втором и
// ровно один раз за цикл. Reset() начинает новый цикл (реконнект/рестарт).
// Методы можно звать из разных горутин.
package gate

import "sync"

type Gate struct {
	mu    sync.Mutex
	ready func() bool // внешняя проверка готовности, может быть nil
	run   func()

	conditionMet bool
	readySeen    bool
	sent         bool
}

// New создаёт gate. ready (опционально) позволяет считать подключение готовым,
// даже если OnReady ещё не дошёл.
func New(ready func() bool, action func()) *Gate {
	return &Gate{ready: ready, run: action}
}

func (g *Gate) OnConditionMet() {
	g.mu.Lock()
	g.conditionMet = true
	fire := g.claimLocked()
	g.mu.Unlock()

	if fire {
		g.run()
	}
}

func (g *Gate) OnReady() {
	g.mu.Lock()
	g.readySeen = true
	fire := g.claimLocked()
	g.mu.Unlock()

	if fire {
		g.run()
	}
}

// Reset сбрасывает оба флага - следующий цикл снова отправит действие один раз.
func (g *Gate) Reset() {
	g.mu.Lock()
	g.conditionMet = false
	g.readySeen = false
	g.sent = false
	g.mu.Unlock()
}

// Sent - было ли действие выполнено в текущем цикле.
func (g *Gate) Sent() bool {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.sent
}

func (g *Gate) claimLocked() bool {
	if g.sent || !g.conditionMet {
		return false
	}
	if !g.readySeen && (g.ready == nil || !g.ready()) {
		return false
	}
	g.sent = true
	return g.run != nil
}

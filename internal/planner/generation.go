package planner

import (
	"context"
	"errors"
	"sync"
)

// ErrSuperseded - результат запроса пришёл после того, как стартовал более новый
var ErrSuperseded = errors.New("planner: request superseded by a newer one")

// generation выдаёт токен на каждый запрос одного вида. Новый запрос
// отменяет контекст предыдущего; устаревший результат не применяется.
type generation struct {
	mu      sync.Mutex
	current uint64
	cancel  context.CancelFunc
}

type ticket struct {
	g   *generation
	id  uint64
	ctx context.Context
}

func (g *generation) begin(parent context.Context) ticket {
	g.mu.Lock()
	defer g.mu.Unlock()

	if g.cancel != nil {
		g.cancel()
	}
	ctx, cancel := context.WithCancel(parent)
	g.current++
	g.cancel = cancel
	return ticket{g: g, id: g.current, ctx: ctx}
}

// commit выполняет apply, только если токен всё ещё актуален.
// Проверка и применение идут под одной блокировкой.
func (t ticket) commit(apply func()) bool {
	t.g.mu.Lock()
	defer t.g.mu.Unlock()

	if t.id != t.g.current {
		return false
	}
	apply()
	return true
}

// done освобождает контекст запроса
func (t ticket) done() {
	t.g.mu.Lock()
	defer t.g.mu.Unlock()

	if t.id == t.g.current && t.g.cancel != nil {
		t.g.cancel()
		t.g.cancel = nil
	}
}

func (t ticket) current() bool {
	t.g.mu.Lock()
	defer t.g.mu.Unlock()
	return t.id == t.g.current
}

// Package observe даёт хранилищам подписку на изменения вместо глобальных синглтонов.
// Последнее опубликованное значение живёт в атоме flux, общая область создаётся в app.Init.
package observe

import (
	"context"
	"studyMate/internal/logger"
	"sync/atomic"

	"github.com/pumped-fn/flux"
	"go.uber.org/zap"
)

// Hub хранит последнее событие хранилища. Подписчики вызываются из цепочки
// инвалидации flux, поэтому быстрые публикации подряд могут схлопнуться в одну
type Hub[E any] struct {
	scope flux.Scope
	atom  *flux.Atom[E]
	ctrl  *flux.Controller[E]
	subs  atomic.Int64
}

// NewScope создаёт область для хабов; закрывать через Dispose
func NewScope(ctx context.Context) flux.Scope {
	return flux.NewScope(ctx)
}

// NewHub разрешает keep-alive атом с начальным значением initial
func NewHub[E any](scope flux.Scope, name string, initial E) (*Hub[E], error) {
	atom := flux.NewAtom(func(*flux.ResolveContext) (E, error) {
		return initial, nil
	}, flux.WithAtomName(name), flux.WithKeepAlive())

	ctrl, err := flux.GetControllerResolved(scope, atom)
	if err != nil {
		return nil, err
	}
	return &Hub[E]{scope: scope, atom: atom, ctrl: ctrl}, nil
}

// MustHub для конструкторов сервисов: атом без зависимостей разрешается всегда
func MustHub[E any](scope flux.Scope, name string, initial E) *Hub[E] {
	h, err := NewHub(scope, name, initial)
	if err != nil {
		panic(err)
	}
	return h
}

// Subscribe регистрирует обработчик и возвращает функцию отписки
func (h *Hub[E]) Subscribe(fn func(E)) func() {
	unsub := h.ctrl.On(flux.EventResolved, func() {
		v, err := h.ctrl.Get()
		if err != nil {
			return
		}
		fn(v)
	})
	h.subs.Add(1)

	var done atomic.Bool
	return func() {
		if done.Swap(true) {
			return
		}
		unsub()
		h.subs.Add(-1)
	}
}

// Publish вызывается после фиксации изменения и снятия блокировки хранилища
func (h *Hub[E]) Publish(event E) {
	if err := h.ctrl.Set(event); err != nil {
		logger.Warn("Observe: публикация не удалась",
			zap.String("hub", h.atom.Name()),
			zap.Error(err),
		)
	}
}

// Latest - последнее зафиксированное событие
func (h *Hub[E]) Latest() E {
	v, _ := h.ctrl.Get()
	return v
}

// Flush ждёт, пока подписчики получат всё опубликованное
func (h *Hub[E]) Flush() error {
	return h.scope.Flush()
}

func (h *Hub[E]) Len() int {
	return int(h.subs.Load())
}

// Select подписывает на производное значение: fn вызывается только когда оно меняется
func Select[E any, S comparable](h *Hub[E], selector func(E) S, fn func(S)) func() {
	handle := flux.Select(h.scope, h.atom, selector)
	unsub := handle.Subscribe(func() { fn(handle.Get()) })
	return func() { unsub() }
}

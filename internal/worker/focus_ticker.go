package worker

import (
	"context"
	"studyMate/internal/logger"
	"studyMate/internal/models/focus"
	"studyMate/internal/models/settings"
	"studyMate/internal/notify"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

type FocusTimer interface {
	Countdown() (focus.State, bool)
	LogSession(ctx context.Context, session focus.Session) focus.State
}

type ActiveTaskPointer interface {
	ActiveTaskID() *uuid.UUID
}

type SettingsReader interface {
	Get() settings.Settings
}

// FocusTicker раз в секунду двигает таймер фокуса. По истечении пишет
// сессию с номинальной длительностью режима и подаёт сигнал.
type FocusTicker struct {
	timer    FocusTimer
	tasks    ActiveTaskPointer
	settings SettingsReader
	chime    notify.Chime
	interval time.Duration
	now      func() time.Time
}

func NewFocusTicker(timer FocusTimer, tasks ActiveTaskPointer, settings SettingsReader, chime notify.Chime, interval time.Duration) *FocusTicker {
	if interval <= 0 {
		interval = time.Second
	}
	if chime == nil {
		chime = notify.Nop{}
	}
	return &FocusTicker{
		timer:    timer,
		tasks:    tasks,
		settings: settings,
		chime:    chime,
		interval: interval,
		now:      time.Now,
	}
}

func (w *FocusTicker) Start(ctx context.Context) {
	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			w.Tick(ctx)
		case <-ctx.Done():
			logger.Info("Worker: Таймер фокуса останавливается")
			return
		}
	}
}

// Tick возвращает true, если на этом шаге сессия завершилась
func (w *FocusTicker) Tick(ctx context.Context) bool {
	state, expired := w.timer.Countdown()
	if !expired {
		return false
	}

	session := focus.Session{
		ID:        uuid.New(),
		TaskID:    w.tasks.ActiveTaskID(),
		StartTime: w.now(),
		Duration:  state.Mode.Minutes(),
		Mode:      state.Mode,
		Completed: true,
	}
	w.timer.LogSession(ctx, session)

	logger.Info("Worker: Таймер истёк",
		zap.String("mode", string(state.Mode)),
		zap.Int("duration", session.Duration),
	)

	if state.Muted || !w.settings.Get().SoundEnabled {
		return true
	}
	if err := w.chime.Ring(); err != nil {
		logger.Warn("Worker: Не удалось подать сигнал", zap.Error(err))
	}
	return true
}

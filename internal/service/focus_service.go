package service

import (
	"context"
	"studyMate/internal/logger"
	"studyMate/internal/models/focus"
	"studyMate/internal/models/task"
	"studyMate/internal/observe"
	"sync"

	"github.com/google/uuid"
	"github.com/pumped-fn/flux"
	"go.uber.org/zap"
)

const DefaultDailyGoal = 240

type FocusEventKind string

const (
	FocusModeChanged   FocusEventKind = "mode_changed"
	FocusActiveChanged FocusEventKind = "active_changed"
	FocusTick          FocusEventKind = "tick"
	FocusReset         FocusEventKind = "reset"
	FocusMuteChanged   FocusEventKind = "mute_changed"
	FocusSessionLogged FocusEventKind = "session_logged"
)

type FocusEvent struct {
	Kind  FocusEventKind
	State focus.State
}

// FocusService - автомат таймера {mode, timeLeft, isActive} и журнал сессий.
// Обратный отсчёт ведёт внешний вызывающий раз в секунду через SetTimeLeft.
type FocusService struct {
	sessions SessionRepository
	events   *observe.Hub[FocusEvent]
	now      Clock

	mtx   sync.RWMutex
	state focus.State
}

func NewFocusService(scope flux.Scope, sessions SessionRepository, dailyGoal int, clock Clock) *FocusService {
	if dailyGoal <= 0 {
		dailyGoal = DefaultDailyGoal
	}
	initial := focus.State{
		Mode:      focus.ModeFocus,
		TimeLeft:  focus.ModeFocus.Seconds(),
		DailyGoal: dailyGoal,
	}
	return &FocusService{
		sessions: sessions,
		events:   observe.MustHub(scope, "focus", FocusEvent{State: initial}),
		now:      orNow(clock),
		state:    initial,
	}
}

func (s *FocusService) Subscribe(fn func(FocusEvent)) func() {
	return s.events.Subscribe(fn)
}

func (s *FocusService) Events() *observe.Hub[FocusEvent] {
	return s.events
}

func (s *FocusService) State() focus.State {
	s.mtx.RLock()
	defer s.mtx.RUnlock()
	return s.state
}

// update меняет состояние под блокировкой и уведомляет уже после неё
func (s *FocusService) update(kind FocusEventKind, fn func(*focus.State)) focus.State {
	s.mtx.Lock()
	fn(&s.state)
	snapshot := s.state
	s.mtx.Unlock()

	s.events.Publish(FocusEvent{Kind: kind, State: snapshot})
	return snapshot
}

// SetMode сбрасывает время на полную длительность режима и ставит паузу
func (s *FocusService) SetMode(mode focus.Mode) focus.State {
	logger.Debug("Service: Смена режима таймера", zap.String("mode", string(mode)))
	return s.update(FocusModeChanged, func(st *focus.State) {
		st.Mode = mode
		st.TimeLeft = mode.Seconds()
		st.IsActive = false
	})
}

// SetIsActive запускает или приостанавливает таймер, не трогая остаток времени
func (s *FocusService) SetIsActive(active bool) focus.State {
	return s.update(FocusActiveChanged, func(st *focus.State) {
		st.IsActive = active
	})
}

func (s *FocusService) SetTimeLeft(seconds int) focus.State {
	if seconds < 0 {
		seconds = 0
	}
	return s.update(FocusTick, func(st *focus.State) {
		st.TimeLeft = seconds
	})
}

// Countdown - один шаг обратного отсчёта, чтение и запись под одной блокировкой.
// Когда активный таймер доходит до нуля, он останавливается и expired=true.
func (s *FocusService) Countdown() (focus.State, bool) {
	s.mtx.Lock()
	if !s.state.IsActive {
		snapshot := s.state
		s.mtx.Unlock()
		return snapshot, false
	}
	if s.state.TimeLeft > 0 {
		s.state.TimeLeft--
	}
	expired := s.state.TimeLeft == 0
	if expired {
		s.state.IsActive = false
	}
	snapshot := s.state
	s.mtx.Unlock()

	s.events.Publish(FocusEvent{Kind: FocusTick, State: snapshot})
	return snapshot, expired
}

// Reset ставит паузу и возвращает полную длительность текущего режима
func (s *FocusService) Reset() focus.State {
	return s.update(FocusReset, func(st *focus.State) {
		st.IsActive = false
		st.TimeLeft = st.Mode.Seconds()
	})
}

func (s *FocusService) SetMuted(muted bool) focus.State {
	return s.update(FocusMuteChanged, func(st *focus.State) {
		st.Muted = muted
	})
}

// LogSession добавляет сессию в журнал. Streak - заглушка: становится 1
// при первой записанной сессии и больше не меняется. Реальная серия дней
// считается в analytics.DayStreak.
func (s *FocusService) LogSession(ctx context.Context, session focus.Session) focus.State {
	if session.ID == uuid.Nil {
		session.ID = uuid.New()
	}

	s.mtx.Lock()
	before, err := s.sessions.Append(ctx, session)
	if err != nil {
		s.mtx.Unlock()
		logger.Error("Service: Не удалось записать сессию", err)
		return s.State()
	}
	if before == 0 {
		s.state.Streak = 1
	}
	snapshot := s.state
	s.mtx.Unlock()

	logger.Info("Service: Сессия записана",
		zap.String("session_id", session.ID.String()),
		zap.String("mode", string(session.Mode)),
		zap.Int("duration", session.Duration),
	)
	s.events.Publish(FocusEvent{Kind: FocusSessionLogged, State: snapshot})
	return snapshot
}

func (s *FocusService) Sessions(ctx context.Context) []focus.Session {
	sessions, err := s.sessions.List(ctx)
	if err != nil {
		logger.Error("Service: Не удалось получить сессии", err)
		return []focus.Session{}
	}
	return sessions
}

// TotalFocusTimeToday - сумма минут фокус-сессий, начатых сегодня
func (s *FocusService) TotalFocusTimeToday(ctx context.Context) int {
	today := task.StartOfDay(s.now().Local())
	sessions, err := s.sessions.Between(ctx, today, today.AddDate(0, 0, 1))
	if err != nil {
		logger.Error("Service: Не удалось получить сессии за сегодня", err)
		return 0
	}

	total := 0
	for _, session := range sessions {
		if session.Mode == focus.ModeFocus {
			total += session.Duration
		}
	}
	return total
}

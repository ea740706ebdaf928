package focus

import (
	"time"

	"github.com/google/uuid"
)

type Mode string

const ModeFocus Mode = "focus"
const ModeShortBreak Mode = "shortBreak"
const ModeLongBreak Mode = "longBreak"

// Длительности режимов в секундах
const (
	FocusSeconds      = 25 * 60
	ShortBreakSeconds = 5 * 60
	LongBreakSeconds  = 15 * 60
)

var modeSeconds = map[Mode]int{
	ModeFocus:      FocusSeconds,
	ModeShortBreak: ShortBreakSeconds,
	ModeLongBreak:  LongBreakSeconds,
}

func (m Mode) Valid() bool {
	_, ok := modeSeconds[m]
	return ok
}

// Seconds - полная длительность режима; неизвестный режим считается фокусом
func (m Mode) Seconds() int {
	if s, ok := modeSeconds[m]; ok {
		return s
	}
	return FocusSeconds
}

// Minutes - номинальная длительность, которая пишется в историю
func (m Mode) Minutes() int {
	return m.Seconds() / 60
}

type Session struct {
	ID        uuid.UUID  `json:"id"`
	TaskID    *uuid.UUID `json:"task_id,omitempty"`
	StartTime time.Time  `json:"start_time"`
	Duration  int        `json:"duration"` // минуты
	Mode      Mode       `json:"mode"`
	Completed bool       `json:"completed"`
}

type Phase string

const PhaseIdle Phase = "idle"
const PhaseRunning Phase = "running"
const PhaseExpired Phase = "expired"

type State struct {
	Mode      Mode `json:"mode"`
	TimeLeft  int  `json:"time_left"` // секунды
	IsActive  bool `json:"is_active"`
	Muted     bool `json:"muted"`
	DailyGoal int  `json:"daily_goal"` // минуты
	Streak    int  `json:"streak"`
}

func (s State) Phase() Phase {
	switch {
	case s.TimeLeft <= 0:
		return PhaseExpired
	case s.IsActive:
		return PhaseRunning
	default:
		return PhaseIdle
	}
}

package handlers

import (
	"context"
	"studyMate/internal/gemini"
	"studyMate/internal/models/focus"
	"studyMate/internal/models/settings"
	"studyMate/internal/models/task"
	"studyMate/internal/planner"

	"github.com/google/uuid"
)

type TaskService interface {
	HealthCheck(ctx context.Context) error
	AddTask(ctx context.Context, draft task.Draft) *task.Task
	GetTask(ctx context.Context, id uuid.UUID) (*task.Task, bool)
	ListTasks(ctx context.Context) []*task.Task
	UpdateTask(ctx context.Context, id uuid.UUID, options ...task.TaskOption) (*task.Task, bool)
	DeleteTask(ctx context.Context, id uuid.UUID) bool
	ToggleTaskStatus(ctx context.Context, id uuid.UUID) (*task.Task, bool)
	SetActiveTask(ctx context.Context, id *uuid.UUID)
	ActiveTask(ctx context.Context) *task.Task
	StartTask(ctx context.Context, id uuid.UUID) (*task.Task, bool)
	RescheduleOverdue(ctx context.Context) int
	MockGenerateSchedule(ctx context.Context) []*task.Task
}

type FocusService interface {
	State() focus.State
	SetMode(mode focus.Mode) focus.State
	SetIsActive(active bool) focus.State
	Reset() focus.State
	SetMuted(muted bool) focus.State
	LogSession(ctx context.Context, session focus.Session) focus.State
	Sessions(ctx context.Context) []focus.Session
	TotalFocusTimeToday(ctx context.Context) int
}

type SettingsService interface {
	Get() settings.Settings
	SetTheme(theme settings.Theme) settings.Settings
	UpdateProfile(patch settings.ProfilePatch) settings.Settings
	ToggleNotifications() settings.Settings
	ToggleSound() settings.Settings
}

type Planner interface {
	AutoArrange(ctx context.Context, preferences string) (planner.Arrangement, error)
	GenerateTasks(ctx context.Context, goal string) ([]*task.Task, error)
	Chat(ctx context.Context, message string, history []gemini.Turn) (string, error)
	Conversation() []gemini.Turn
	ResetConversation()
}

package service

import (
	"context"
	"studyMate/internal/models/focus"
	"studyMate/internal/models/task"
	"time"

	"github.com/google/uuid"
)

type TaskRepository interface {
	HealthCheck(context.Context) error
	Create(context.Context, *task.Task) error
	Modify(context.Context, uuid.UUID, func(*task.Task)) (*task.Task, error)
	ModifyAll(context.Context, func(*task.Task) bool) ([]uuid.UUID, error)
	GetByID(context.Context, uuid.UUID) (*task.Task, error)
	Delete(context.Context, uuid.UUID) (bool, error)
	List(context.Context) ([]*task.Task, error)
	ReplaceAll(context.Context, []*task.Task) error
}

type SessionRepository interface {
	Append(context.Context, focus.Session) (int, error)
	List(context.Context) ([]focus.Session, error)
	Between(ctx context.Context, from, to time.Time) ([]focus.Session, error)
}

// Clock отдаёт текущее время; в тестах подменяется
type Clock func() time.Time

func orNow(c Clock) Clock {
	if c == nil {
		return time.Now
	}
	return c
}

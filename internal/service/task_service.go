package service

import (
	"context"
	"errors"
	"studyMate/internal/logger"
	"studyMate/internal/models/task"
	"studyMate/internal/observe"
	rep "studyMate/internal/repository"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/pumped-fn/flux"
	"go.uber.org/zap"
)

type TaskEventKind string

const (
	TaskAdded        TaskEventKind = "added"
	TaskUpdated      TaskEventKind = "updated"
	TaskDeleted      TaskEventKind = "deleted"
	TaskToggled      TaskEventKind = "toggled"
	TaskStarted      TaskEventKind = "started"
	ActiveChanged    TaskEventKind = "active_changed"
	TasksRescheduled TaskEventKind = "rescheduled"
	TasksReplaced    TaskEventKind = "replaced"
)

// TaskEvent - уведомление подписчикам после изменения списка задач.
// Для массовых операций TaskID пустой, а Count - число затронутых задач.
type TaskEvent struct {
	Kind   TaskEventKind
	TaskID uuid.UUID
	Count  int
}

// TaskService владеет списком задач и указателем на активную задачу.
// Все операции тотальны: неизвестный id не ошибка, а false/nil.
type TaskService struct {
	repo   TaskRepository
	events *observe.Hub[TaskEvent]
	now    Clock

	mtx      sync.RWMutex
	activeID *uuid.UUID
}

// NewTaskService публикует события в атом "tasks" переданной области
func NewTaskService(scope flux.Scope, repo TaskRepository, clock Clock) *TaskService {
	return &TaskService{
		repo:   repo,
		events: observe.MustHub(scope, "tasks", TaskEvent{}),
		now:    orNow(clock),
	}
}

func (s *TaskService) Subscribe(fn func(TaskEvent)) func() {
	return s.events.Subscribe(fn)
}

// Events - хаб событий для производных подписок (observe.Select) и Flush в тестах
func (s *TaskService) Events() *observe.Hub[TaskEvent] {
	return s.events
}

func (s *TaskService) HealthCheck(ctx context.Context) error {
	return s.repo.HealthCheck(ctx)
}

// AddTask создаёт задачу; статус всегда pending независимо от входа
func (s *TaskService) AddTask(ctx context.Context, draft task.Draft) *task.Task {
	date := draft.Date
	if date.IsZero() {
		date = s.now()
	}

	newTask := &task.Task{
		UUID:      uuid.New(),
		Title:     draft.Title,
		Duration:  draft.Duration,
		Type:      draft.Type,
		Status:    task.StatusPending,
		Priority:  draft.Priority,
		Category:  draft.Category,
		Date:      task.StartOfDay(date),
		StartTime: draft.StartTime,
	}

	if err := s.repo.Create(ctx, newTask); err != nil {
		logger.Error("Service: Не удалось сохранить задачу", err)
		return nil
	}

	logger.Info("Service: Задача добавлена", zap.String("task_id", newTask.UUID.String()))
	s.events.Publish(TaskEvent{Kind: TaskAdded, TaskID: newTask.UUID, Count: 1})
	return newTask
}

func (s *TaskService) GetTask(ctx context.Context, id uuid.UUID) (*task.Task, bool) {
	found, err := s.repo.GetByID(ctx, id)
	if err != nil {
		s.logLookup(err, id)
		return nil, false
	}
	return found, true
}

// ListTasks отдаёт задачи в порядке добавления
func (s *TaskService) ListTasks(ctx context.Context) []*task.Task {
	tasks, err := s.repo.List(ctx)
	if err != nil {
		logger.Error("Service: Не удалось получить задачи", err)
		return []*task.Task{}
	}
	return tasks
}

// UpdateTask сливает поля в задачу. Статус, выставленный здесь,
// не синхронизирует CompletedAt: это делает только ToggleTaskStatus.
func (s *TaskService) UpdateTask(ctx context.Context, id uuid.UUID, options ...task.TaskOption) (*task.Task, bool) {
	updated, err := s.repo.Modify(ctx, id, func(t *task.Task) {
		task.Apply(t, options...)
	})
	if err != nil {
		s.logLookup(err, id)
		return nil, false
	}

	s.events.Publish(TaskEvent{Kind: TaskUpdated, TaskID: id, Count: 1})
	return updated, true
}

// DeleteTask идемпотентен; указатель на активную задачу не трогается
func (s *TaskService) DeleteTask(ctx context.Context, id uuid.UUID) bool {
	deleted, err := s.repo.Delete(ctx, id)
	if err != nil {
		logger.Error("Service: Не удалось удалить задачу", err, zap.String("task_id", id.String()))
		return false
	}
	if !deleted {
		return false
	}

	logger.Info("Service: Задача удалена", zap.String("task_id", id.String()))
	s.events.Publish(TaskEvent{Kind: TaskDeleted, TaskID: id, Count: 1})
	return true
}

// ToggleTaskStatus переключает completed <-> pending. Активная задача
// становится completed, а обратное переключение даёт pending.
func (s *TaskService) ToggleTaskStatus(ctx context.Context, id uuid.UUID) (*task.Task, bool) {
	now := s.now()
	toggled, err := s.repo.Modify(ctx, id, func(t *task.Task) {
		if t.Status == task.StatusCompleted {
			t.Status = task.StatusPending
			t.CompletedAt = nil
			return
		}
		t.Status = task.StatusCompleted
		t.CompletedAt = &now
	})
	if err != nil {
		s.logLookup(err, id)
		return nil, false
	}

	logger.Info("Service: Статус задачи переключён",
		zap.String("task_id", id.String()),
		zap.String("status", string(toggled.Status)),
	)
	s.events.Publish(TaskEvent{Kind: TaskToggled, TaskID: id, Count: 1})
	return toggled, true
}

// SetActiveTask меняет указатель без проверки существования задачи
func (s *TaskService) SetActiveTask(ctx context.Context, id *uuid.UUID) {
	s.mtx.Lock()
	if id == nil {
		s.activeID = nil
	} else {
		copied := *id
		s.activeID = &copied
	}
	s.mtx.Unlock()

	var target uuid.UUID
	if id != nil {
		target = *id
	}
	s.events.Publish(TaskEvent{Kind: ActiveChanged, TaskID: target})
}

func (s *TaskService) ActiveTaskID() *uuid.UUID {
	s.mtx.RLock()
	defer s.mtx.RUnlock()

	if s.activeID == nil {
		return nil
	}
	copied := *s.activeID
	return &copied
}

// ActiveTask разрешает указатель; висячий указатель означает "нет активной задачи"
func (s *TaskService) ActiveTask(ctx context.Context) *task.Task {
	id := s.ActiveTaskID()
	if id == nil {
		return nil
	}
	active, err := s.repo.GetByID(ctx, *id)
	if err != nil {
		return nil
	}
	return active
}

// StartTask - явный переход в active. Предыдущая активная задача
// возвращается в pending, указатель переводится на новую.
func (s *TaskService) StartTask(ctx context.Context, id uuid.UUID) (*task.Task, bool) {
	s.mtx.Lock()
	started, err := s.repo.Modify(ctx, id, func(t *task.Task) {
		t.Status = task.StatusActive
		t.CompletedAt = nil
	})
	if err != nil {
		s.mtx.Unlock()
		s.logLookup(err, id)
		return nil, false
	}

	demoted, err := s.repo.ModifyAll(ctx, func(t *task.Task) bool {
		if t.UUID == id || t.Status != task.StatusActive {
			return false
		}
		t.Status = task.StatusPending
		return true
	})
	if err != nil {
		logger.Warn("Service: Не удалось снять активность с других задач", zap.Error(err))
	}

	activeID := id
	s.activeID = &activeID
	s.mtx.Unlock()

	logger.Info("Service: Задача начата",
		zap.String("task_id", id.String()),
		zap.Int("demoted", len(demoted)),
	)
	s.events.Publish(TaskEvent{Kind: TaskStarted, TaskID: id, Count: 1 + len(demoted)})
	return started, true
}

// RescheduleOverdue переносит незавершённые задачи с прошедших дней на сегодня
func (s *TaskService) RescheduleOverdue(ctx context.Context) int {
	today := task.StartOfDay(s.now())

	moved, err := s.repo.ModifyAll(ctx, func(t *task.Task) bool {
		if t.Status == task.StatusCompleted || !t.Date.Before(today) {
			return false
		}
		t.Date = today
		return true
	})
	if err != nil {
		logger.Error("Service: Не удалось перенести просроченные задачи", err)
		return 0
	}

	if len(moved) > 0 {
		logger.Info("Service: Просроченные задачи перенесены на сегодня", zap.Int("moved", len(moved)))
		s.events.Publish(TaskEvent{Kind: TasksRescheduled, Count: len(moved)})
	}
	return len(moved)
}

// MockGenerateSchedule заменяет весь список демо-расписанием на сегодня
func (s *TaskService) MockGenerateSchedule(ctx context.Context) []*task.Task {
	now := s.now()
	demo := DemoTasks(now)

	if err := s.repo.ReplaceAll(ctx, demo); err != nil {
		logger.Error("Service: Не удалось загрузить демо-расписание", err)
		return nil
	}

	logger.Info("Service: Загружено демо-расписание", zap.Int("tasks", len(demo)))
	s.events.Publish(TaskEvent{Kind: TasksReplaced, Count: len(demo)})
	return demo
}

// DemoTasks - фиксированный набор задач, привязанный к дню now
func DemoTasks(now time.Time) []*task.Task {
	today := task.StartOfDay(now)
	completedAt := now

	return []*task.Task{
		{
			UUID: uuid.New(), Title: "Deep Work: Linear Algebra", Duration: 120,
			Type: task.TypeFocus, Status: task.StatusCompleted, Category: "Math",
			Priority: task.PriorityHigh, Date: today, StartTime: "09:00", CompletedAt: &completedAt,
		},
		{
			UUID: uuid.New(), Title: "Review: History Essay", Duration: 75,
			Type: task.TypeStudy, Status: task.StatusActive, Category: "History",
			Priority: task.PriorityMedium, Date: today, StartTime: "11:15",
		},
		{
			UUID: uuid.New(), Title: "Lunch Break", Duration: 60,
			Type: task.TypeBreak, Status: task.StatusPending, Category: "Personal",
			Priority: task.PriorityLow, Date: today, StartTime: "12:30",
		},
		{
			UUID: uuid.New(), Title: "Project: CS Algorithm Implementation", Duration: 120,
			Type: task.TypeFocus, Status: task.StatusPending, Category: "CS",
			Priority: task.PriorityHigh, Date: today, StartTime: "13:30",
		},
	}
}

func (s *TaskService) logLookup(err error, id uuid.UUID) {
	if errors.Is(err, rep.ErrNotFound) {
		logger.Debug("Service: Задача не найдена", zap.String("target_id", id.String()))
		return
	}
	logger.Error("Service: Ошибка хранилища задач", err, zap.String("target_id", id.String()))
}

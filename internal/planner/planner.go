// Package planner связывает AI-клиент с хранилищем задач: применяет
// предложенное расписание, добавляет сгенерированные задачи и ведёт чат.
package planner

import (
	"context"
	"fmt"
	"strings"
	"studyMate/internal/gemini"
	"studyMate/internal/logger"
	"studyMate/internal/models/task"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

const (
	placeholderStartTime = "09:00"
	fallbackDuration     = 60
	fallbackCategory     = "General"
)

type Generator interface {
	GenerateSchedule(ctx context.Context, tasks []*task.Task, preferences string) ([]gemini.ScheduleSlot, error)
	GenerateTasksFromInput(ctx context.Context, goal string) ([]gemini.TaskSuggestion, error)
	ChatWithTutor(ctx context.Context, message string, history []gemini.Turn) (string, error)
}

// TaskStore - публичные операции хранилища, других путей записи у планировщика нет
type TaskStore interface {
	ListTasks(ctx context.Context) []*task.Task
	AddTask(ctx context.Context, draft task.Draft) *task.Task
	UpdateTask(ctx context.Context, id uuid.UUID, options ...task.TaskOption) (*task.Task, bool)
}

type Planner struct {
	ai           Generator
	tasks        TaskStore
	now          func() time.Time
	conversation *Conversation

	arrange  generation
	generate generation
	chat     generation
}

func New(ai Generator, tasks TaskStore, now func() time.Time) *Planner {
	if now == nil {
		now = time.Now
	}
	return &Planner{
		ai:           ai,
		tasks:        tasks,
		now:          now,
		conversation: NewConversation(defaultMaxTurns),
	}
}

type AppliedSlot struct {
	TaskID    uuid.UUID `json:"task_id"`
	StartTime string    `json:"start_time"`
	Reason    string    `json:"reason,omitempty"`
}

// Arrangement - итог применения расписания: что встало и что отброшено
type Arrangement struct {
	Applied []AppliedSlot         `json:"applied"`
	Skipped []gemini.ScheduleSlot `json:"skipped"`
}

// AutoArrange отправляет снимок задач модели и ставит задачам startTime.
// Слоты с неизвестным id или некорректным временем пропускаются.
func (p *Planner) AutoArrange(ctx context.Context, preferences string) (Arrangement, error) {
	t := p.arrange.begin(ctx)
	defer t.done()

	snapshot := p.tasks.ListTasks(t.ctx)
	known := make(map[uuid.UUID]struct{}, len(snapshot))
	for _, tk := range snapshot {
		known[tk.UUID] = struct{}{}
	}

	slots, err := p.ai.GenerateSchedule(t.ctx, snapshot, preferences)
	if !t.current() {
		logger.Info("AI: Результат расстановки устарел и отброшен")
		return Arrangement{}, ErrSuperseded
	}
	if err != nil {
		return Arrangement{}, fmt.Errorf("генерация расписания: %w", err)
	}

	result := Arrangement{Applied: []AppliedSlot{}, Skipped: []gemini.ScheduleSlot{}}
	applied := t.commit(func() {
		for _, slot := range slots {
			id, err := uuid.Parse(strings.TrimSpace(slot.TaskID))
			if err != nil {
				result.Skipped = append(result.Skipped, slot)
				continue
			}
			if _, ok := known[id]; !ok {
				result.Skipped = append(result.Skipped, slot)
				continue
			}
			if task.ValidateStartTime(slot.StartTime) != nil {
				result.Skipped = append(result.Skipped, slot)
				continue
			}
			if _, ok := p.tasks.UpdateTask(t.ctx, id, task.WithStartTime(slot.StartTime)); !ok {
				result.Skipped = append(result.Skipped, slot)
				continue
			}
			result.Applied = append(result.Applied, AppliedSlot{TaskID: id, StartTime: slot.StartTime, Reason: slot.Reason})
		}
	})
	if !applied {
		return Arrangement{}, ErrSuperseded
	}

	logger.Info("AI: Расписание применено",
		zap.Int("applied", len(result.Applied)),
		zap.Int("skipped", len(result.Skipped)),
	)
	return result, nil
}

// GenerateTasks разбивает цель на задачи и добавляет их на сегодня.
// Время начала - заглушка, дальше задачи расставляет AutoArrange.
func (p *Planner) GenerateTasks(ctx context.Context, goal string) ([]*task.Task, error) {
	t := p.generate.begin(ctx)
	defer t.done()

	suggestions, err := p.ai.GenerateTasksFromInput(t.ctx, goal)
	if !t.current() {
		logger.Info("AI: Результат генерации задач устарел и отброшен")
		return nil, ErrSuperseded
	}
	if err != nil {
		return nil, fmt.Errorf("генерация задач: %w", err)
	}

	today := task.StartOfDay(p.now())
	created := []*task.Task{}
	applied := t.commit(func() {
		for _, s := range suggestions {
			if added := p.tasks.AddTask(t.ctx, draftFromSuggestion(s, today)); added != nil {
				created = append(created, added)
			}
		}
	})
	if !applied {
		return nil, ErrSuperseded
	}

	logger.Info("AI: Задачи сгенерированы", zap.Int("created", len(created)))
	return created, nil
}

func draftFromSuggestion(s gemini.TaskSuggestion, today time.Time) task.Draft {
	duration := int(s.Duration)
	if duration <= 0 {
		duration = fallbackDuration
	}
	category := strings.TrimSpace(s.Category)
	if category == "" {
		category = fallbackCategory
	}
	priority := task.Priority(strings.ToLower(strings.TrimSpace(s.Priority)))
	if !priority.Valid() {
		priority = task.PriorityMedium
	}

	return task.Draft{
		Title:     strings.TrimSpace(s.Title),
		Duration:  duration,
		Type:      task.TypeStudy,
		Priority:  priority,
		Category:  category,
		Date:      today,
		StartTime: placeholderStartTime,
	}
}

// Chat отвечает на сообщение. С явной историей разговор на сервере не
// трогается; без неё используется и пополняется серверная история.
func (p *Planner) Chat(ctx context.Context, message string, history []gemini.Turn) (string, error) {
	t := p.chat.begin(ctx)
	defer t.done()

	serverSide := history == nil
	if serverSide {
		history = p.conversation.Turns()
	}

	answer, err := p.ai.ChatWithTutor(t.ctx, message, history)
	if !t.current() {
		return "", ErrSuperseded
	}
	if err != nil {
		return "", fmt.Errorf("чат с тутором: %w", err)
	}

	if serverSide {
		t.commit(func() {
			p.conversation.Add(
				gemini.Turn{Role: gemini.RoleUser, Text: message},
				gemini.Turn{Role: gemini.RoleModel, Text: answer},
			)
		})
	}
	return answer, nil
}

func (p *Planner) Conversation() []gemini.Turn {
	return p.conversation.Turns()
}

func (p *Planner) ResetConversation() {
	p.conversation.Reset()
	logger.Debug("AI: История чата очищена")
}

package task

import (
	"time"
)

// TaskOption - частичное обновление задачи; nil-опции пропускаются
type TaskOption func(*Task)

func Apply(t *Task, options ...TaskOption) {
	for _, opt := range options {
		if opt != nil {
			opt(t)
		}
	}
}

func WithTitle(title string) TaskOption {
	return func(task *Task) {
		task.Title = title
	}
}

func WithDuration(duration int) TaskOption {
	return func(task *Task) {
		task.Duration = duration
	}
}

func WithType(taskType Type) TaskOption {
	if taskType == "" {
		return nil
	}
	return func(task *Task) {
		task.Type = taskType
	}
}

// WithStatus не трогает CompletedAt: для этого есть переключение статуса
func WithStatus(status Status) TaskOption {
	if status == "" {
		return nil
	}
	return func(task *Task) {
		task.Status = status
	}
}

func WithPriority(priority Priority) TaskOption {
	if priority == "" {
		return nil
	}
	return func(task *Task) {
		task.Priority = priority
	}
}

func WithCategory(category string) TaskOption {
	return func(task *Task) {
		task.Category = category
	}
}

func WithDate(date time.Time) TaskOption {
	if date.IsZero() {
		return nil
	}
	return func(task *Task) {
		task.Date = date
	}
}

// WithStartTime с пустой строкой снимает задачу с сетки
func WithStartTime(startTime string) TaskOption {
	return func(task *Task) {
		task.StartTime = startTime
	}
}

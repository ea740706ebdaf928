// Package classifier превращает свободный текст в черновик задачи.
package classifier

import (
	"context"
	"strings"
	"studyMate/internal/models/task"
)

// Suggestion - то, что классификатор смог вывести из текста
type Suggestion struct {
	Title    string        `json:"title"`
	Duration int           `json:"duration"`
	Type     task.Type     `json:"type"`
	Category string        `json:"category"`
	Priority task.Priority `json:"priority"`
}

// Draft дополняет подсказку датой; время начала не выставляется
func (s Suggestion) Draft() task.Draft {
	return task.Draft{
		Title:    s.Title,
		Duration: s.Duration,
		Type:     s.Type,
		Priority: s.Priority,
		Category: s.Category,
	}
}

type Classifier interface {
	Classify(ctx context.Context, input string) (Suggestion, error)
}

type rule[T any] struct {
	keywords []string
	value    T
}

func match[T any](text string, rules []rule[T], fallback T) T {
	for _, r := range rules {
		for _, kw := range r.keywords {
			if strings.Contains(text, kw) {
				return r.value
			}
		}
	}
	return fallback
}

// Keyword - словарный классификатор: первое совпавшее правило побеждает
type Keyword struct {
	durations  []rule[int]
	types      []rule[task.Type]
	categories []rule[string]
	priorities []rule[task.Priority]
}

func NewKeyword() *Keyword {
	return &Keyword{
		durations: []rule[int]{
			{[]string{"30 min"}, 30},
			{[]string{"15 min"}, 15},
			{[]string{"2 hours", "2h"}, 120},
			{[]string{"hour", "1h"}, 60},
		},
		types: []rule[task.Type]{
			{[]string{"focus", "deep work"}, task.TypeFocus},
			{[]string{"break", "lunch"}, task.TypeBreak},
			{[]string{"meet", "class"}, task.TypeEvent},
		},
		categories: []rule[string]{
			{[]string{"math", "algebra", "calc"}, "Math"},
			{[]string{"history", "essay"}, "History"},
			{[]string{"code", "cs", "project"}, "CS"},
		},
		priorities: []rule[task.Priority]{
			{[]string{"important", "urgent", "exam"}, task.PriorityHigh},
			{[]string{"maybe", "later"}, task.PriorityLow},
		},
	}
}

func (k *Keyword) Classify(ctx context.Context, input string) (Suggestion, error) {
	lower := strings.ToLower(input)

	s := Suggestion{
		Title:    input,
		Duration: match(lower, k.durations, 60),
		Type:     match(lower, k.types, task.TypeStudy),
		Category: match(lower, k.categories, "General"),
		Priority: match(lower, k.priorities, task.PriorityMedium),
	}
	// глубокая работа всегда важна
	if s.Type == task.TypeFocus {
		s.Priority = task.PriorityHigh
	}
	return s, nil
}

package task

import (
	"fmt"
	"regexp"
	"strconv"
	"time"

	"github.com/google/uuid"
)

type Task struct {
	UUID        uuid.UUID  `json:"id"`
	Title       string     `json:"title"`
	Duration    int        `json:"duration"` // минуты
	Type        Type       `json:"type"`
	Status      Status     `json:"status"`
	Priority    Priority   `json:"priority"`
	Category    string     `json:"category"`
	Date        time.Time  `json:"date"`
	StartTime   string     `json:"start_time,omitempty"` // "HH:MM", пусто - "в любое время"
	CompletedAt *time.Time `json:"completed_at,omitempty"`
}

// Draft - поля новой задачи без id и статуса
type Draft struct {
	Title     string
	Duration  int
	Type      Type
	Priority  Priority
	Category  string
	Date      time.Time
	StartTime string
}

type Type string
type Status string
type Priority string

const TypeFocus Type = "focus"
const TypeStudy Type = "study"
const TypeBreak Type = "break"
const TypeEvent Type = "event"

const StatusPending Status = "pending"
const StatusActive Status = "active"
const StatusCompleted Status = "completed"

const PriorityLow Priority = "low"
const PriorityMedium Priority = "medium"
const PriorityHigh Priority = "high"

func (t Type) Valid() bool {
	switch t {
	case TypeFocus, TypeStudy, TypeBreak, TypeEvent:
		return true
	}
	return false
}

func (s Status) Valid() bool {
	switch s {
	case StatusPending, StatusActive, StatusCompleted:
		return true
	}
	return false
}

func (p Priority) Valid() bool {
	switch p {
	case PriorityLow, PriorityMedium, PriorityHigh:
		return true
	}
	return false
}

// Clone возвращает копию, которую можно отдавать наружу из хранилища
func (t *Task) Clone() *Task {
	c := *t
	if t.CompletedAt != nil {
		at := *t.CompletedAt
		c.CompletedAt = &at
	}
	return &c
}

// Draft - поля задачи, из которых можно создать её копию
func (t *Task) Draft() Draft {
	return Draft{
		Title:     t.Title,
		Duration:  t.Duration,
		Type:      t.Type,
		Priority:  t.Priority,
		Category:  t.Category,
		Date:      t.Date,
		StartTime: t.StartTime,
	}
}

func (t *Task) Scheduled() bool {
	return t.StartTime != ""
}

var startTimePattern = regexp.MustCompile(`^\d{2}:\d{2}$`)

// ParseStartTime разбирает "HH:MM" в часы и минуты
func ParseStartTime(s string) (int, int, error) {
	if !startTimePattern.MatchString(s) {
		return 0, 0, fmt.Errorf("время %q не в формате HH:MM", s)
	}
	h, _ := strconv.Atoi(s[:2])
	m, _ := strconv.Atoi(s[3:])
	if h > 23 {
		return 0, 0, fmt.Errorf("час %d вне диапазона 0-23", h)
	}
	if m > 59 {
		return 0, 0, fmt.Errorf("минута %d вне диапазона 0-59", m)
	}
	return h, m, nil
}

func ValidateStartTime(s string) error {
	_, _, err := ParseStartTime(s)
	return err
}

// StartOfDay обрезает момент времени до начала календарного дня в его локации
func StartOfDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}

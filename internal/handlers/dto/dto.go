package dto

import (
	"studyMate/internal/analytics"
	"studyMate/internal/gemini"
	"studyMate/internal/models/focus"
	"studyMate/internal/models/settings"
	"studyMate/internal/models/task"
	"studyMate/internal/schedule"
	"time"

	"github.com/google/uuid"
)

const dateLayout = "2006-01-02"

type CreateTaskRequest struct {
	Title     string        `json:"title"`
	Duration  int           `json:"duration"`
	Type      task.Type     `json:"type"`
	Priority  task.Priority `json:"priority"`
	Category  string        `json:"category"`
	Date      string        `json:"date"` // YYYY-MM-DD, пусто - сегодня
	StartTime string        `json:"start_time"`
}

type QuickTaskRequest struct {
	Input string `json:"input"`
}

type UpdateTaskRequest struct {
	Title     *string        `json:"title,omitempty"`
	Duration  *int           `json:"duration,omitempty"`
	Type      *task.Type     `json:"type,omitempty"`
	Status    *task.Status   `json:"status,omitempty"`
	Priority  *task.Priority `json:"priority,omitempty"`
	Category  *string        `json:"category,omitempty"`
	Date      *string        `json:"date,omitempty"`
	StartTime *string        `json:"start_time,omitempty"`
}

type SetActiveRequest struct {
	TaskID *uuid.UUID `json:"task_id"`
}

type TaskResponse struct {
	UUID        uuid.UUID     `json:"id"`
	Title       string        `json:"title"`
	Duration    int           `json:"duration"`
	Type        task.Type     `json:"type"`
	Status      task.Status   `json:"status"`
	Priority    task.Priority `json:"priority"`
	Category    string        `json:"category"`
	Date        string        `json:"date"`
	StartTime   string        `json:"start_time,omitempty"`
	CompletedAt *time.Time    `json:"completed_at,omitempty"`
}

func FromTask(t *task.Task) TaskResponse {
	return TaskResponse{
		UUID:        t.UUID,
		Title:       t.Title,
		Duration:    t.Duration,
		Type:        t.Type,
		Status:      t.Status,
		Priority:    t.Priority,
		Category:    t.Category,
		Date:        t.Date.Format(dateLayout),
		StartTime:   t.StartTime,
		CompletedAt: t.CompletedAt,
	}
}

func FromTaskList(tasks []*task.Task) []TaskResponse {
	result := make([]TaskResponse, len(tasks))
	for i, t := range tasks {
		result[i] = FromTask(t)
	}
	return result
}

type PlacementResponse struct {
	Task   TaskResponse `json:"task"`
	Top    float64      `json:"top"`
	Height float64      `json:"height"`
}

type DayResponse struct {
	Date        string              `json:"date"`
	IsToday     bool                `json:"is_today"`
	Placements  []PlacementResponse `json:"placements"`
	Unscheduled []TaskResponse      `json:"unscheduled"`
	NowOffset   *float64            `json:"now_offset,omitempty"`
}

func FromDayGrid(g schedule.DayGrid) DayResponse {
	placements := make([]PlacementResponse, len(g.Placements))
	for i, p := range g.Placements {
		placements[i] = PlacementResponse{Task: FromTask(p.Task), Top: p.Top, Height: p.Height}
	}
	return DayResponse{
		Date:        g.Date.Format(dateLayout),
		IsToday:     g.IsToday,
		Placements:  placements,
		Unscheduled: FromTaskList(g.Unscheduled),
		NowOffset:   g.NowOffset,
	}
}

type ModeRequest struct {
	Mode focus.Mode `json:"mode"`
}

type MuteRequest struct {
	Muted bool `json:"muted"`
}

type SessionRequest struct {
	TaskID    *uuid.UUID `json:"task_id,omitempty"`
	StartTime time.Time  `json:"start_time"`
	Duration  int        `json:"duration"`
	Mode      focus.Mode `json:"mode"`
	Completed bool       `json:"completed"`
}

func (s SessionRequest) Session() focus.Session {
	return focus.Session{
		TaskID:    s.TaskID,
		StartTime: s.StartTime,
		Duration:  s.Duration,
		Mode:      s.Mode,
		Completed: s.Completed,
	}
}

type FocusStateResponse struct {
	focus.State
	Phase focus.Phase `json:"phase"`
}

func FromFocusState(s focus.State) FocusStateResponse {
	return FocusStateResponse{State: s, Phase: s.Phase()}
}

type FocusStatsResponse struct {
	TotalFocusToday int               `json:"total_focus_today"`
	DailyGoal       int               `json:"daily_goal"`
	Streak          int               `json:"streak"`
	Summary         analytics.Summary `json:"summary"`
}

type ThemeRequest struct {
	Theme settings.Theme `json:"theme"`
}

type ScheduleRequest struct {
	Preferences string `json:"preferences"`
}

type GenerateTasksRequest struct {
	Input string `json:"input"`
}

type ChatRequest struct {
	Message string        `json:"message"`
	History []gemini.Turn `json:"history,omitempty"`
}

type ChatResponse struct {
	Reply   string        `json:"reply"`
	History []gemini.Turn `json:"history,omitempty"`
}

type DashboardResponse struct {
	Greeting       string              `json:"greeting"`
	Name           string              `json:"name"`
	Quote          analytics.Quote     `json:"quote"`
	CompletedTasks int                 `json:"completed_tasks"`
	TotalTasks     int                 `json:"total_tasks"`
	FocusMinutes   int                 `json:"focus_minutes_today"`
	DailyGoal      int                 `json:"daily_goal"`
	Streak         int                 `json:"streak"`
	DayStreak      int                 `json:"day_streak"`
	History        []analytics.DayItem `json:"history"`
	ActiveTask     *TaskResponse       `json:"active_task,omitempty"`
}

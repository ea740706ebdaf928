package handlers

import (
	"net/http"
	"studyMate/internal/analytics"
	"studyMate/internal/handlers/dto"
	"studyMate/internal/logger"
	"studyMate/internal/models/task"
	"time"

	"github.com/go-chi/chi/v5"
)

// DashboardHandler собирает сводку главной страницы из трёх хранилищ
type DashboardHandler struct {
	Tasks    TaskService
	Focus    FocusService
	Settings SettingsService
	now      func() time.Time
}

func NewDashboardHandler(tasks TaskService, focusService FocusService, settingsService SettingsService, now func() time.Time) *DashboardHandler {
	if now == nil {
		now = time.Now
	}
	return &DashboardHandler{
		Tasks:    tasks,
		Focus:    focusService,
		Settings: settingsService,
		now:      now,
	}
}

func (h *DashboardHandler) Register(r chi.Router) {
	r.Get("/dashboard", h.Get)
}

func (h *DashboardHandler) Get(w http.ResponseWriter, r *http.Request) {
	logger.HttpRequestInfo(r, "HTTP_IN:")

	now := h.now()
	ctx := r.Context()

	tasks := h.Tasks.ListTasks(ctx)
	completed := 0
	for _, t := range tasks {
		if t.Status == task.StatusCompleted {
			completed++
		}
	}

	state := h.Focus.State()
	sessions := h.Focus.Sessions(ctx)

	response := dto.DashboardResponse{
		Greeting:       analytics.Greeting(now),
		Name:           h.Settings.Get().Profile.Name,
		Quote:          analytics.DailyQuote(now),
		CompletedTasks: completed,
		TotalTasks:     len(tasks),
		FocusMinutes:   h.Focus.TotalFocusTimeToday(ctx),
		DailyGoal:      state.DailyGoal,
		Streak:         state.Streak,
		DayStreak:      analytics.DayStreak(sessions, now),
		History:        analytics.FocusHistory(sessions, now, historyDays),
	}
	if active := h.Tasks.ActiveTask(ctx); active != nil {
		resp := dto.FromTask(active)
		response.ActiveTask = &resp
	}

	writeJSON(w, http.StatusOK, response)
}

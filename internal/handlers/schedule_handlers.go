package handlers

import (
	"net/http"
	"studyMate/internal/handlers/dto"
	"studyMate/internal/logger"
	"studyMate/internal/schedule"
	"time"

	"github.com/go-chi/chi/v5"
)

// ScheduleHandler отдаёт раскладку задач по временной сетке
type ScheduleHandler struct {
	TaskService TaskService
	now         func() time.Time
}

func NewScheduleHandler(taskService TaskService, now func() time.Time) *ScheduleHandler {
	if now == nil {
		now = time.Now
	}
	return &ScheduleHandler{TaskService: taskService, now: now}
}

func (h *ScheduleHandler) Register(r chi.Router) {
	r.Route("/schedule", func(r chi.Router) {
		r.Get("/day", h.Day)
		r.Get("/week", h.Week)
	})
}

func (h *ScheduleHandler) Day(w http.ResponseWriter, r *http.Request) {
	logger.HttpRequestInfo(r, "HTTP_IN:")

	now := h.now()
	day, err := queryDate(r, now)
	if err != nil {
		responseWithServiceError(w, r, err, "schedule_day")
		return
	}

	grid := schedule.BuildDay(h.TaskService.ListTasks(r.Context()), day, now)
	writeJSON(w, http.StatusOK, dto.FromDayGrid(grid))
}

func (h *ScheduleHandler) Week(w http.ResponseWriter, r *http.Request) {
	logger.HttpRequestInfo(r, "HTTP_IN:")

	now := h.now()
	anchor, err := queryDate(r, now)
	if err != nil {
		responseWithServiceError(w, r, err, "schedule_week")
		return
	}

	grids := schedule.BuildWeek(h.TaskService.ListTasks(r.Context()), anchor, now)
	days := make([]dto.DayResponse, len(grids))
	for i, g := range grids {
		days[i] = dto.FromDayGrid(g)
	}
	writeJSON(w, http.StatusOK, days)
}

package handlers

import (
	"fmt"
	"net/http"
	"studyMate/internal/analytics"
	"studyMate/internal/handlers/dto"
	"studyMate/internal/logger"
	"studyMate/internal/service"
	"time"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

const historyDays = 7

type FocusHandler struct {
	FocusService FocusService
	now          func() time.Time
}

func NewFocusHandler(focusService FocusService, now func() time.Time) *FocusHandler {
	if now == nil {
		now = time.Now
	}
	return &FocusHandler{FocusService: focusService, now: now}
}

func (h *FocusHandler) Register(r chi.Router) {
	r.Route("/focus", func(r chi.Router) {
		r.Get("/", h.GetState)
		r.Put("/mode", h.SetMode)
		r.Post("/start", h.Start)
		r.Post("/pause", h.Pause)
		r.Post("/reset", h.Reset)
		r.Put("/mute", h.SetMuted)
		r.Get("/sessions", h.ListSessions)
		r.Post("/sessions", h.LogSession)
		r.Get("/stats", h.Stats)
	})
}

func (h *FocusHandler) GetState(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, dto.FromFocusState(h.FocusService.State()))
}

// SetMode переключает режим и сбрасывает таймер на его длительность
func (h *FocusHandler) SetMode(w http.ResponseWriter, r *http.Request) {
	logger.HttpRequestInfo(r, "HTTP_IN:")

	var request dto.ModeRequest
	if !decodeJSON(w, r, &request) {
		return
	}
	if !request.Mode.Valid() {
		responseWithServiceError(w, r,
			service.NewValidationError("mode", fmt.Sprintf("неизвестный режим %q", request.Mode)), "set_mode")
		return
	}

	writeJSON(w, http.StatusOK, dto.FromFocusState(h.FocusService.SetMode(request.Mode)))
}

func (h *FocusHandler) Start(w http.ResponseWriter, r *http.Request) {
	logger.HttpRequestInfo(r, "HTTP_IN:")

	if h.FocusService.State().TimeLeft <= 0 {
		// истёкший таймер нужно сначала сбросить
		h.FocusService.Reset()
	}
	state := h.FocusService.SetIsActive(true)

	logger.Info("HTTP_OUT: Таймер запущен",
		zap.String("mode", string(state.Mode)),
		zap.Int("time_left", state.TimeLeft))

	writeJSON(w, http.StatusOK, dto.FromFocusState(state))
}

func (h *FocusHandler) Pause(w http.ResponseWriter, r *http.Request) {
	logger.HttpRequestInfo(r, "HTTP_IN:")
	writeJSON(w, http.StatusOK, dto.FromFocusState(h.FocusService.SetIsActive(false)))
}

func (h *FocusHandler) Reset(w http.ResponseWriter, r *http.Request) {
	logger.HttpRequestInfo(r, "HTTP_IN:")
	writeJSON(w, http.StatusOK, dto.FromFocusState(h.FocusService.Reset()))
}

func (h *FocusHandler) SetMuted(w http.ResponseWriter, r *http.Request) {
	logger.HttpRequestInfo(r, "HTTP_IN:")

	var request dto.MuteRequest
	if !decodeJSON(w, r, &request) {
		return
	}
	writeJSON(w, http.StatusOK, dto.FromFocusState(h.FocusService.SetMuted(request.Muted)))
}

func (h *FocusHandler) ListSessions(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.FocusService.Sessions(r.Context()))
}

func (h *FocusHandler) LogSession(w http.ResponseWriter, r *http.Request) {
	logger.HttpRequestInfo(r, "HTTP_IN:")

	var request dto.SessionRequest
	if !decodeJSON(w, r, &request) {
		return
	}

	err := validateDuration(request.Duration)
	if err == nil && !request.Mode.Valid() {
		err = service.NewValidationError("mode", fmt.Sprintf("неизвестный режим %q", request.Mode))
	}
	if err != nil {
		responseWithServiceError(w, r, err, "log_session")
		return
	}

	if request.StartTime.IsZero() {
		request.StartTime = h.now()
	}

	state := h.FocusService.LogSession(r.Context(), request.Session())
	writeJSON(w, http.StatusCreated, dto.FromFocusState(state))
}

func (h *FocusHandler) Stats(w http.ResponseWriter, r *http.Request) {
	logger.HttpRequestInfo(r, "HTTP_IN:")

	state := h.FocusService.State()
	sessions := h.FocusService.Sessions(r.Context())

	writeJSON(w, http.StatusOK, dto.FocusStatsResponse{
		TotalFocusToday: h.FocusService.TotalFocusTimeToday(r.Context()),
		DailyGoal:       state.DailyGoal,
		Streak:          state.Streak,
		Summary:         analytics.Summarize(sessions, h.now(), historyDays),
	})
}

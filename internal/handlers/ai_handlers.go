package handlers

import (
	"net/http"
	"strings"
	"studyMate/internal/handlers/dto"
	"studyMate/internal/logger"
	"studyMate/internal/service"
	"time"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

// AIHandler - запросы к модели через планировщик. Эти маршруты живут без
// дедлайна из middleware.Timeout, ограничение задаёт клиент модели.
type AIHandler struct {
	Planner Planner
}

func NewAIHandler(p Planner) *AIHandler {
	return &AIHandler{Planner: p}
}

func (h *AIHandler) Register(r chi.Router) {
	r.Route("/ai", func(r chi.Router) {
		r.Post("/schedule", h.AutoArrange)
		r.Post("/tasks", h.GenerateTasks)
		r.Post("/chat", h.Chat)
		r.Get("/chat", h.Conversation)
		r.Delete("/chat", h.ResetConversation)
	})
}

func (h *AIHandler) fail(w http.ResponseWriter, err error, operation string, start time.Time) {
	logger.Warn("HTTP: Ошибка AI",
		zap.String("operation", operation),
		zap.Error(err),
		zap.Duration("ms", time.Since(start)))

	handleBusinessError(w, aiBusinessError(err))
}

// AutoArrange просит модель расставить время задачам. Тело можно не передавать.
func (h *AIHandler) AutoArrange(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	logger.HttpRequestInfo(r, "HTTP_IN:")

	var request dto.ScheduleRequest
	if r.ContentLength != 0 && !decodeJSON(w, r, &request) {
		return
	}

	arrangement, err := h.Planner.AutoArrange(r.Context(), request.Preferences)
	if err != nil {
		h.fail(w, err, "auto_arrange", start)
		return
	}

	logger.Info("HTTP_OUT: Расписание применено",
		zap.Int("applied", len(arrangement.Applied)),
		zap.Int("skipped", len(arrangement.Skipped)),
		zap.Duration("ms", time.Since(start)))

	writeJSON(w, http.StatusOK, arrangement)
}

func (h *AIHandler) GenerateTasks(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	logger.HttpRequestInfo(r, "HTTP_IN:")

	var request dto.GenerateTasksRequest
	if !decodeJSON(w, r, &request) {
		return
	}
	goal := strings.TrimSpace(request.Input)
	if goal == "" {
		responseWithServiceError(w, r, service.NewValidationError("input", "цель не может быть пустой"), "generate_tasks")
		return
	}

	created, err := h.Planner.GenerateTasks(r.Context(), goal)
	if err != nil {
		h.fail(w, err, "generate_tasks", start)
		return
	}

	logger.Info("HTTP_OUT: Задачи сгенерированы",
		zap.Int("count", len(created)),
		zap.Duration("ms", time.Since(start)))

	writeJSON(w, http.StatusCreated, dto.FromTaskList(created))
}

// Chat без history в теле продолжает серверную историю разговора
func (h *AIHandler) Chat(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	logger.HttpRequestInfo(r, "HTTP_IN:")

	var request dto.ChatRequest
	if !decodeJSON(w, r, &request) {
		return
	}
	message := strings.TrimSpace(request.Message)
	if message == "" {
		responseWithServiceError(w, r, service.NewValidationError("message", "сообщение не может быть пустым"), "chat")
		return
	}

	reply, err := h.Planner.Chat(r.Context(), message, request.History)
	if err != nil {
		h.fail(w, err, "chat", start)
		return
	}

	response := dto.ChatResponse{Reply: reply}
	if request.History == nil {
		response.History = h.Planner.Conversation()
	}
	writeJSON(w, http.StatusOK, response)
}

func (h *AIHandler) Conversation(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, dto.ChatResponse{History: h.Planner.Conversation()})
}

func (h *AIHandler) ResetConversation(w http.ResponseWriter, r *http.Request) {
	logger.HttpRequestInfo(r, "HTTP_IN:")
	h.Planner.ResetConversation()
	w.WriteHeader(http.StatusNoContent)
}

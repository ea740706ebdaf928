package handlers

import (
	"errors"
	"net/http"
	"strings"
	"studyMate/internal/classifier"
	"studyMate/internal/handlers/dto"
	"studyMate/internal/logger"
	"studyMate/internal/models/task"
	"studyMate/internal/schedule"
	"studyMate/internal/service"
	"time"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

// AddTask отдаёт nil, когда хранилище отказало
var errTaskNotStored = errors.New("задача не сохранена в хранилище")

type TaskHandler struct {
	TaskService TaskService
	Classifier  classifier.Classifier
	now         func() time.Time
}

func NewTaskHandler(taskService TaskService, cls classifier.Classifier, now func() time.Time) *TaskHandler {
	if now == nil {
		now = time.Now
	}
	return &TaskHandler{
		TaskService: taskService,
		Classifier:  cls,
		now:         now,
	}
}

func (h *TaskHandler) Register(r chi.Router) {
	r.Get("/health", h.HealthCheck)

	r.Route("/tasks", func(r chi.Router) {
		r.Get("/", h.ListTasks)
		r.Post("/", h.CreateTask)
		r.Post("/quick", h.QuickAdd)
		r.Post("/reschedule-overdue", h.RescheduleOverdue)
		r.Post("/demo", h.GenerateDemo)
		r.Get("/active", h.GetActiveTask)
		r.Put("/active", h.SetActiveTask)

		r.Get("/{id}", h.GetTaskByID)
		r.Patch("/{id}", h.UpdateTaskByID)
		r.Delete("/{id}", h.DeleteTaskByID)
		r.Post("/{id}/toggle", h.ToggleTask)
		r.Post("/{id}/start", h.StartTask)
	})
}

func (h *TaskHandler) HealthCheck(w http.ResponseWriter, r *http.Request) {
	logger.HttpRequestInfo(r, "HTTP: Health check")

	if err := h.TaskService.HealthCheck(r.Context()); err != nil {
		logger.Error("HTTP: Health check не пройден", err)
		responseWithJSON(w, http.StatusServiceUnavailable,
			toPayload("status", "unavailable"),
			toPayload("error", err.Error()))
		return
	}

	responseWithJSON(w, http.StatusOK,
		toPayload("status", "ok"),
		toPayload("time", h.now().Format(time.RFC3339)))
}

// ListTasks отдаёт задачи в порядке списка; ?date ограничивает одним днём
func (h *TaskHandler) ListTasks(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	logger.HttpRequestInfo(r, "HTTP_IN:")

	tasks := h.TaskService.ListTasks(r.Context())

	if r.URL.Query().Has("date") {
		day, err := queryDate(r, h.now())
		if err != nil {
			responseWithServiceError(w, r, err, "list_tasks")
			return
		}
		tasks = schedule.TasksForDay(tasks, day)
	}

	logger.Info("HTTP_OUT: Задачи получены",
		zap.Int("count", len(tasks)),
		zap.Duration("ms", time.Since(start)),
		zap.Int("http_status", http.StatusOK))

	writeJSON(w, http.StatusOK, dto.FromTaskList(schedule.SortForList(tasks)))
}

func (h *TaskHandler) CreateTask(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	logger.HttpRequestInfo(r, "HTTP_IN:")

	var request dto.CreateTaskRequest
	if !decodeJSON(w, r, &request) {
		return
	}

	if request.Type == "" {
		request.Type = task.TypeStudy
	}
	if request.Priority == "" {
		request.Priority = task.PriorityMedium
	}

	err := firstError(
		validateTitle(request.Title),
		validateDuration(request.Duration),
		validateType(request.Type),
		validatePriority(request.Priority),
		validateStartTime(request.StartTime),
	)
	if err != nil {
		logger.Warn("HTTP: Ошибка валидации", zap.Error(err), zap.String("client_ip", r.RemoteAddr))
		responseWithServiceError(w, r, err, "create_task")
		return
	}

	date := h.now()
	if request.Date != "" {
		date, err = time.ParseInLocation(dateLayout, request.Date, time.Local)
		if err != nil {
			responseWithServiceError(w, r, service.NewValidationError("date", "ожидается формат YYYY-MM-DD"), "create_task")
			return
		}
	}

	logger.Info("HTTP: Вызов сервиса создания задачи")
	created := h.TaskService.AddTask(r.Context(), task.Draft{
		Title:     request.Title,
		Duration:  request.Duration,
		Type:      request.Type,
		Priority:  request.Priority,
		Category:  request.Category,
		Date:      date,
		StartTime: request.StartTime,
	})
	if created == nil {
		responseWithServiceError(w, r, errTaskNotStored, "create_task")
		return
	}

	logger.Info("HTTP_OUT: Задача создана",
		zap.String("task_id", created.UUID.String()),
		zap.Duration("ms", time.Since(start)),
		zap.Int("http_status", http.StatusCreated))

	writeJSON(w, http.StatusCreated, dto.FromTask(created))
}

// QuickAdd создаёт задачу на сегодня из свободного текста
func (h *TaskHandler) QuickAdd(w http.ResponseWriter, r *http.Request) {
	logger.HttpRequestInfo(r, "HTTP_IN:")

	var request dto.QuickTaskRequest
	if !decodeJSON(w, r, &request) {
		return
	}

	suggestion, err := h.Classifier.Classify(r.Context(), strings.TrimSpace(request.Input))
	if err == nil {
		err = validateTitle(suggestion.Title)
	}
	if err != nil {
		responseWithServiceError(w, r, err, "quick_add")
		return
	}

	draft := suggestion.Draft()
	draft.Date = h.now()
	created := h.TaskService.AddTask(r.Context(), draft)
	if created == nil {
		responseWithServiceError(w, r, errTaskNotStored, "quick_add")
		return
	}

	logger.Info("HTTP_OUT: Задача создана из текста",
		zap.String("task_id", created.UUID.String()),
		zap.String("type", string(created.Type)))

	writeJSON(w, http.StatusCreated, dto.FromTask(created))
}

func (h *TaskHandler) RescheduleOverdue(w http.ResponseWriter, r *http.Request) {
	logger.HttpRequestInfo(r, "HTTP_IN:")

	moved := h.TaskService.RescheduleOverdue(r.Context())

	responseWithJSON(w, http.StatusOK, toPayload("moved", moved))
}

func (h *TaskHandler) GenerateDemo(w http.ResponseWriter, r *http.Request) {
	logger.HttpRequestInfo(r, "HTTP_IN:")

	tasks := h.TaskService.MockGenerateSchedule(r.Context())

	writeJSON(w, http.StatusCreated, dto.FromTaskList(tasks))
}

func (h *TaskHandler) GetActiveTask(w http.ResponseWriter, r *http.Request) {
	logger.HttpRequestInfo(r, "HTTP_IN:")

	active := h.TaskService.ActiveTask(r.Context())
	if active == nil {
		responseWithJSON(w, http.StatusOK, toPayload("task", nil))
		return
	}
	responseWithJSON(w, http.StatusOK, toPayload("task", dto.FromTask(active)))
}

// SetActiveTask меняет указатель активной задачи; null снимает его
func (h *TaskHandler) SetActiveTask(w http.ResponseWriter, r *http.Request) {
	logger.HttpRequestInfo(r, "HTTP_IN:")

	var request dto.SetActiveRequest
	if !decodeJSON(w, r, &request) {
		return
	}

	if request.TaskID != nil {
		if _, ok := h.TaskService.GetTask(r.Context(), *request.TaskID); !ok {
			responseWithServiceError(w, r, service.NewNotFound("задача", request.TaskID.String()), "set_active")
			return
		}
	}

	h.TaskService.SetActiveTask(r.Context(), request.TaskID)
	h.GetActiveTask(w, r)
}

func (h *TaskHandler) GetTaskByID(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	logger.HttpRequestInfo(r, "HTTP_IN:")

	id, ok := pathID(w, r)
	if !ok {
		return
	}

	found, ok := h.TaskService.GetTask(r.Context(), id)
	if !ok {
		responseWithServiceError(w, r, service.NewNotFound("задача", id.String()), "get_task")
		return
	}

	logger.Info("HTTP_OUT: Задача получена",
		zap.String("task_id", id.String()),
		zap.Duration("ms", time.Since(start)),
		zap.Int("http_status", http.StatusOK))

	writeJSON(w, http.StatusOK, dto.FromTask(found))
}

func (h *TaskHandler) UpdateTaskByID(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	logger.HttpRequestInfo(r, "HTTP_IN:")

	id, ok := pathID(w, r)
	if !ok {
		return
	}

	var request dto.UpdateTaskRequest
	if !decodeJSON(w, r, &request) {
		return
	}

	options, err := h.updateOptions(request)
	if err != nil {
		logger.Warn("HTTP: Ошибка валидации", zap.Error(err), zap.String("client_ip", r.RemoteAddr))
		responseWithServiceError(w, r, err, "update_task")
		return
	}

	logger.Info("HTTP: Запрос к сервису обновления задачи", zap.Int("fields", len(options)))

	updated, ok := h.TaskService.UpdateTask(r.Context(), id, options...)
	if !ok {
		responseWithServiceError(w, r, service.NewNotFound("задача", id.String()), "update_task")
		return
	}

	logger.Info("HTTP_OUT: Задача обновлена",
		zap.String("task_id", id.String()),
		zap.Duration("ms", time.Since(start)),
		zap.Int("http_status", http.StatusOK))

	writeJSON(w, http.StatusOK, dto.FromTask(updated))
}

func (h *TaskHandler) updateOptions(request dto.UpdateTaskRequest) ([]task.TaskOption, error) {
	var options []task.TaskOption

	if request.Title != nil {
		if err := validateTitle(*request.Title); err != nil {
			return nil, err
		}
		options = append(options, task.WithTitle(*request.Title))
	}
	if request.Duration != nil {
		if err := validateDuration(*request.Duration); err != nil {
			return nil, err
		}
		options = append(options, task.WithDuration(*request.Duration))
	}
	if request.Type != nil {
		if err := validateType(*request.Type); err != nil {
			return nil, err
		}
		options = append(options, task.WithType(*request.Type))
	}
	if request.Status != nil {
		if err := validateStatus(*request.Status); err != nil {
			return nil, err
		}
		options = append(options, task.WithStatus(*request.Status))
	}
	if request.Priority != nil {
		if err := validatePriority(*request.Priority); err != nil {
			return nil, err
		}
		options = append(options, task.WithPriority(*request.Priority))
	}
	if request.Category != nil {
		options = append(options, task.WithCategory(*request.Category))
	}
	if request.Date != nil {
		date, err := time.ParseInLocation(dateLayout, *request.Date, time.Local)
		if err != nil {
			return nil, service.NewValidationError("date", "ожидается формат YYYY-MM-DD")
		}
		options = append(options, task.WithDate(date))
	}
	if request.StartTime != nil {
		if err := validateStartTime(*request.StartTime); err != nil {
			return nil, err
		}
		options = append(options, task.WithStartTime(*request.StartTime))
	}

	return options, nil
}

// DeleteTaskByID идемпотентен: повторное удаление тоже 204
func (h *TaskHandler) DeleteTaskByID(w http.ResponseWriter, r *http.Request) {
	logger.HttpRequestInfo(r, "HTTP_IN:")

	id, ok := pathID(w, r)
	if !ok {
		return
	}

	existed := h.TaskService.DeleteTask(r.Context(), id)

	logger.Info("HTTP_OUT: Задача удалена",
		zap.String("task_id", id.String()),
		zap.Bool("existed", existed),
		zap.Int("http_status", http.StatusNoContent))

	w.WriteHeader(http.StatusNoContent)
}

func (h *TaskHandler) ToggleTask(w http.ResponseWriter, r *http.Request) {
	logger.HttpRequestInfo(r, "HTTP_IN:")

	id, ok := pathID(w, r)
	if !ok {
		return
	}

	toggled, ok := h.TaskService.ToggleTaskStatus(r.Context(), id)
	if !ok {
		responseWithServiceError(w, r, service.NewNotFound("задача", id.String()), "toggle_task")
		return
	}

	writeJSON(w, http.StatusOK, dto.FromTask(toggled))
}

func (h *TaskHandler) StartTask(w http.ResponseWriter, r *http.Request) {
	logger.HttpRequestInfo(r, "HTTP_IN:")

	id, ok := pathID(w, r)
	if !ok {
		return
	}

	started, ok := h.TaskService.StartTask(r.Context(), id)
	if !ok {
		responseWithServiceError(w, r, service.NewNotFound("задача", id.String()), "start_task")
		return
	}

	writeJSON(w, http.StatusOK, dto.FromTask(started))
}

package handlers

import (
	"encoding/json"
	"fmt"
	"mime"
	"net/http"
	"studyMate/internal/logger"
	"studyMate/internal/models/task"
	"studyMate/internal/service"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

const dateLayout = "2006-01-02"

const maxBodyBytes = 1 << 20

func checkContentType(r *http.Request, target string) bool {
	contentType := r.Header.Get("Content-Type")
	if contentType == "" {
		return false
	}

	mediaType, _, err := mime.ParseMediaType(contentType)
	if err != nil {
		return false
	}

	return mediaType == target
}

// decodeJSON проверяет Content-Type и читает тело; при ошибке ответ уже записан
func decodeJSON(w http.ResponseWriter, r *http.Request, dst any) bool {
	if !checkContentType(r, "application/json") {
		logger.Warn("HTTP: Неверный тип контента",
			zap.String("expected", "application/json"),
			zap.String("received", r.Header.Get("Content-Type")),
			zap.String("client_ip", r.RemoteAddr))

		responseWithError(w, http.StatusUnsupportedMediaType, "Content-Type должен быть application/json")
		return false
	}

	defer r.Body.Close()
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes)).Decode(dst); err != nil {
		logger.Warn("HTTP: Ошибка чтения JSON",
			zap.Error(err),
			zap.String("client_ip", r.RemoteAddr))

		responseWithError(w, http.StatusBadRequest, "неверное тело запроса: "+err.Error())
		return false
	}
	return true
}

// pathID достаёт uuid из параметра маршрута {id}
func pathID(w http.ResponseWriter, r *http.Request) (uuid.UUID, bool) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		logger.Warn("HTTP: Не удалось получить id",
			zap.Error(err),
			zap.String("client_ip", r.RemoteAddr))

		responseWithError(w, http.StatusBadRequest, "не удалось получить id: "+err.Error())
		return uuid.Nil, false
	}

	if id == uuid.Nil {
		logger.Warn("HTTP: Неверное значение id",
			zap.String("error", "nil id"),
			zap.String("client_ip", r.RemoteAddr))

		responseWithError(w, http.StatusBadRequest, "id не может быть пустым")
		return uuid.Nil, false
	}
	return id, true
}

// queryDate читает ?date=YYYY-MM-DD в локальной зоне, без параметра - fallback
func queryDate(r *http.Request, fallback time.Time) (time.Time, error) {
	raw := r.URL.Query().Get("date")
	if raw == "" {
		return fallback, nil
	}
	d, err := time.ParseInLocation(dateLayout, raw, time.Local)
	if err != nil {
		return time.Time{}, service.NewValidationError("date", "ожидается формат YYYY-MM-DD")
	}
	return d, nil
}

func validateTitle(title string) error {
	if title == "" {
		return service.NewValidationError("title", "название не может быть пустым")
	}
	return nil
}

func validateDuration(duration int) error {
	if duration <= 0 {
		return service.NewValidationError("duration", "длительность должна быть больше нуля")
	}
	return nil
}

func validateType(t task.Type) error {
	if !t.Valid() {
		return service.NewValidationError("type", fmt.Sprintf("неизвестный тип %q", t))
	}
	return nil
}

func validatePriority(p task.Priority) error {
	if !p.Valid() {
		return service.NewValidationError("priority", fmt.Sprintf("неизвестный приоритет %q", p))
	}
	return nil
}

func validateStatus(s task.Status) error {
	if !s.Valid() {
		return service.NewValidationError("status", fmt.Sprintf("неизвестный статус %q", s))
	}
	return nil
}

// validateStartTime пропускает пустую строку: задача без времени допустима
func validateStartTime(s string) error {
	if s == "" {
		return nil
	}
	if err := task.ValidateStartTime(s); err != nil {
		return service.NewValidationError("start_time", err.Error())
	}
	return nil
}

func firstError(errs ...error) error {
	for _, err := range errs {
		if err != nil {
			return err
		}
	}
	return nil
}

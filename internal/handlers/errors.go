package handlers

import (
	"errors"
	"net/http"
	"studyMate/internal/gemini"
	"studyMate/internal/logger"
	"studyMate/internal/planner"
	"studyMate/internal/service"

	"go.uber.org/zap"
)

func handleBusinessError(w http.ResponseWriter, err error) bool {
	var businessErr *service.BusinessError
	if !errors.As(err, &businessErr) {
		return false
	}

	statusCode := mapBusinessErrorToHTTP(businessErr.Code)

	logger.Warn("HTTP: Бизнес-ошибка",
		zap.String("error_code", businessErr.Code),
		zap.Int("http_status", statusCode))

	responseWithJSON(w, statusCode,
		toPayload("error", businessErr.Code),
		toPayload("message", businessErr.Message),
		toPayload("details", businessErr.Details),
	)
	return true
}

func mapBusinessErrorToHTTP(code string) int {
	switch code {
	case service.CodeNotFound:
		return http.StatusNotFound
	case service.CodeValidation:
		return http.StatusBadRequest
	case service.CodeAISuperseded:
		return http.StatusConflict
	case service.CodeAIUnavailable:
		return http.StatusServiceUnavailable
	case service.CodeAIError:
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}

// aiBusinessError переводит ошибку планировщика или клиента модели в бизнес-ошибку
func aiBusinessError(err error) *service.BusinessError {
	var (
		external  *gemini.ExternalServiceError
		empty     *gemini.EmptyResponseError
		malformed *gemini.MalformedResponseError
	)

	switch {
	case errors.Is(err, planner.ErrSuperseded):
		return service.NewBusinessError(service.CodeAISuperseded,
			"Запрос заменён более новым, результат не применён").Wrap(err)
	case errors.Is(err, gemini.ErrNoAPIKey):
		return service.NewBusinessError(service.CodeAIUnavailable,
			"API-ключ модели не настроен").Wrap(err)
	case errors.As(err, &external):
		return service.NewBusinessError(service.CodeAIError, external.Message,
			service.ToDetail("upstream_status", external.StatusCode)).Wrap(err)
	case errors.As(err, &empty):
		return service.NewBusinessError(service.CodeAIError, empty.Error()).Wrap(err)
	case errors.As(err, &malformed):
		return service.NewBusinessError(service.CodeAIError,
			"Модель вернула некорректный JSON",
			service.ToDetail("raw", malformed.Text)).Wrap(err)
	default:
		return service.NewBusinessError(service.CodeAIUnavailable,
			"Сервис модели недоступен").Wrap(err)
	}
}

// responseWithServiceError отдаёт бизнес-ошибку по её коду, остальное - 500
func responseWithServiceError(w http.ResponseWriter, r *http.Request, err error, operation string) {
	if handleBusinessError(w, err) {
		return
	}

	logger.Error("HTTP: Ошибка Service", err,
		zap.String("operation", operation),
		zap.String("client_ip", r.RemoteAddr))

	responseWithError(w, http.StatusInternalServerError, "внутренняя ошибка сервера")
}

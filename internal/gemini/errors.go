package gemini

import (
	"errors"
	"fmt"
)

// ErrNoAPIKey - клиент сконфигурирован без ключа, запрос не отправляется
var ErrNoAPIKey = errors.New("gemini: API key is not configured")

const defaultServiceMessage = "Gemini API Error"

// ExternalServiceError - сервис вернул полезную нагрузку ошибки.
// Сообщение сервиса отдаётся как есть.
type ExternalServiceError struct {
	StatusCode int
	Status     string
	Message    string
	Err        error
}

func (e *ExternalServiceError) Error() string {
	return e.Message
}

func (e *ExternalServiceError) Unwrap() error {
	return e.Err
}

// EmptyResponseError - в ответе нет текста
type EmptyResponseError struct{}

func (e *EmptyResponseError) Error() string {
	return "No response from Gemini"
}

// MalformedResponseError - из текста ответа не удалось достать JSON-массив
type MalformedResponseError struct {
	Text string
	Err  error
}

func (e *MalformedResponseError) Error() string {
	return fmt.Sprintf("malformed JSON in Gemini response: %v", e.Err)
}

func (e *MalformedResponseError) Unwrap() error {
	return e.Err
}

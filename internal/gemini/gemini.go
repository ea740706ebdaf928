// Package gemini - клиент генеративной модели: расписание, разбиение цели
// на задачи и чат с тутором. Одна попытка на запрос, без повторов.
package gemini

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"math"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"studyMate/internal/logger"
	"studyMate/internal/models/task"
	"time"

	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
	"go.uber.org/zap"
)

const (
	DefaultBaseURL = "https://generativelanguage.googleapis.com/v1beta"
	DefaultModel   = "gemini-pro"
)

type Config struct {
	BaseURL string
	Model   string
	APIKey  string
	// 0 - без таймаута, запрос живёт пока жив ctx
	Timeout time.Duration
}

type Client struct {
	baseURL    string
	model      string
	apiKey     string
	httpClient *http.Client
}

func New(cfg Config) *Client {
	baseURL := strings.TrimRight(cfg.BaseURL, "/")
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	model := cfg.Model
	if model == "" {
		model = DefaultModel
	}

	return &Client{
		baseURL: baseURL,
		model:   model,
		apiKey:  cfg.APIKey,
		httpClient: &http.Client{
			Transport: otelhttp.NewTransport(http.DefaultTransport),
			Timeout:   cfg.Timeout,
		},
	}
}

// Configured сообщает, есть ли у клиента ключ
func (c *Client) Configured() bool {
	return c.apiKey != ""
}

// ScheduleSlot - предложение модели поставить задачу на время
type ScheduleSlot struct {
	TaskID    string `json:"taskId"`
	StartTime string `json:"startTime"`
	Reason    string `json:"reason"`
}

// TaskSuggestion - задача, предложенная моделью по цели пользователя
type TaskSuggestion struct {
	Title    string  `json:"title"`
	Duration Minutes `json:"duration"`
	Category string  `json:"category"`
	Priority string  `json:"priority"`
}

// Minutes принимает длительность числом или строкой с числом
type Minutes int

func (m *Minutes) UnmarshalJSON(data []byte) error {
	raw := strings.Trim(strings.TrimSpace(string(data)), `"`)
	if raw == "" || raw == "null" {
		*m = 0
		return nil
	}
	f, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return fmt.Errorf("длительность %q: %w", raw, err)
	}
	*m = Minutes(math.Round(f))
	return nil
}

type Role string

const (
	RoleUser  Role = "user"
	RoleModel Role = "model"
)

// Turn - одна реплика в истории чата
type Turn struct {
	Role Role   `json:"role"`
	Text string `json:"text"`
}

// normalize оставляет только роли, которые понимает сервис
func (r Role) normalize() Role {
	if r == RoleUser {
		return RoleUser
	}
	return RoleModel
}

type part struct {
	Text string `json:"text"`
}

type content struct {
	Role  Role   `json:"role,omitempty"`
	Parts []part `json:"parts"`
}

type generateRequest struct {
	Contents []content `json:"contents"`
}

type generateResponse struct {
	Candidates []struct {
		Content content `json:"content"`
	} `json:"candidates"`
	Error *struct {
		Code    int    `json:"code"`
		Message string `json:"message"`
		Status  string `json:"status"`
	} `json:"error"`
}

func (r *generateResponse) text() string {
	if len(r.Candidates) == 0 || len(r.Candidates[0].Content.Parts) == 0 {
		return ""
	}
	return r.Candidates[0].Content.Parts[0].Text
}

// GenerateSchedule просит модель расставить задачи по времени.
// Применять результат - забота вызывающего.
func (c *Client) GenerateSchedule(ctx context.Context, tasks []*task.Task, preferences string) ([]ScheduleSlot, error) {
	prompt, err := buildSchedulePrompt(tasks, preferences)
	if err != nil {
		return nil, err
	}

	text, err := c.generate(ctx, []content{{Parts: []part{{Text: prompt}}}})
	if err != nil {
		return nil, err
	}
	logger.Debug("AI: Ответ на запрос расписания", zap.String("raw", text))

	return decodeArray[ScheduleSlot](text)
}

// GenerateTasksFromInput разбивает цель пользователя на задачи
func (c *Client) GenerateTasksFromInput(ctx context.Context, goal string) ([]TaskSuggestion, error) {
	text, err := c.generate(ctx, []content{{Parts: []part{{Text: buildTasksPrompt(goal)}}}})
	if err != nil {
		return nil, err
	}
	logger.Debug("AI: Ответ на запрос задач", zap.String("raw", text))

	return decodeArray[TaskSuggestion](text)
}

// ChatWithTutor отправляет системную инструкцию, историю и новое сообщение.
// Ответ возвращается как есть, без разбора.
func (c *Client) ChatWithTutor(ctx context.Context, message string, history []Turn) (string, error) {
	contents := make([]content, 0, len(history)+2)
	contents = append(contents, content{Role: RoleUser, Parts: []part{{Text: tutorInstruction}}})
	for _, turn := range history {
		contents = append(contents, content{Role: turn.Role.normalize(), Parts: []part{{Text: turn.Text}}})
	}
	contents = append(contents, content{Role: RoleUser, Parts: []part{{Text: message}}})

	text, err := c.generate(ctx, contents)
	if err != nil {
		return "", err
	}
	logger.Debug("AI: Ответ тутора", zap.Int("chars", len(text)))
	return text, nil
}

func (c *Client) endpoint() string {
	return fmt.Sprintf("%s/models/%s:generateContent?key=%s", c.baseURL, c.model, url.QueryEscape(c.apiKey))
}

// generate выполняет один POST и достаёт текст первого кандидата
func (c *Client) generate(ctx context.Context, contents []content) (string, error) {
	if !c.Configured() {
		return "", ErrNoAPIKey
	}

	body, err := json.Marshal(generateRequest{Contents: contents})
	if err != nil {
		return "", fmt.Errorf("сериализация запроса: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint(), bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("создание запроса: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("запрос к Gemini: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("чтение ответа Gemini: %w", err)
	}

	logger.Debug("AI: Ответ получен",
		zap.Int("status", resp.StatusCode),
		zap.Duration("took", time.Since(start)),
	)

	var decoded generateResponse
	if err := json.Unmarshal(respBody, &decoded); err != nil {
		return "", &ExternalServiceError{
			StatusCode: resp.StatusCode,
			Message:    defaultServiceMessage,
			Err:        err,
		}
	}

	if decoded.Error != nil {
		msg := decoded.Error.Message
		if msg == "" {
			msg = defaultServiceMessage
		}
		logger.Warn("AI: Сервис вернул ошибку",
			zap.Int("status", resp.StatusCode),
			zap.String("message", msg),
		)
		return "", &ExternalServiceError{
			StatusCode: resp.StatusCode,
			Status:     decoded.Error.Status,
			Message:    msg,
		}
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return "", &ExternalServiceError{
			StatusCode: resp.StatusCode,
			Message:    fmt.Sprintf("unexpected status %d from Gemini", resp.StatusCode),
		}
	}

	text := decoded.text()
	if text == "" {
		return "", &EmptyResponseError{}
	}
	return text, nil
}

package handlers_test

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"studyMate/internal/gemini"
	"studyMate/internal/handlers"
	"studyMate/internal/handlers/dto"
	"studyMate/internal/models/focus"
	"studyMate/internal/models/settings"
	"studyMate/internal/models/task"
	"studyMate/internal/observe"
	"studyMate/internal/planner"
	sessionrepo "studyMate/internal/repository/session/inmemory"
	taskrepo "studyMate/internal/repository/task/inmemory"
	"studyMate/internal/service"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type MockPlanner struct {
	mock.Mock
}

func (m *MockPlanner) AutoArrange(ctx context.Context, preferences string) (planner.Arrangement, error) {
	args := m.Called(ctx, preferences)
	return args.Get(0).(planner.Arrangement), args.Error(1)
}

func (m *MockPlanner) GenerateTasks(ctx context.Context, goal string) ([]*task.Task, error) {
	args := m.Called(ctx, goal)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*task.Task), args.Error(1)
}

func (m *MockPlanner) Chat(ctx context.Context, message string, history []gemini.Turn) (string, error) {
	args := m.Called(ctx, message, history)
	return args.String(0), args.Error(1)
}

func (m *MockPlanner) Conversation() []gemini.Turn {
	args := m.Called()
	return args.Get(0).([]gemini.Turn)
}

func (m *MockPlanner) ResetConversation() {
	m.Called()
}

var testScope = observe.NewScope(context.Background())

func newFocusRouter() (http.Handler, *service.FocusService) {
	focusService := service.NewFocusService(testScope, sessionrepo.NewSessionLog(), service.DefaultDailyGoal, clock)
	r := chi.NewRouter()
	handlers.NewFocusHandler(focusService, clock).Register(r)
	return r, focusService
}

func TestFocus_StartPauseReset(t *testing.T) {
	router, focusService := newFocusRouter()

	w := doJSON(t, router, http.MethodGet, "/focus", nil)
	require.Equal(t, http.StatusOK, w.Code)
	state := decode[dto.FocusStateResponse](t, w)
	assert.Equal(t, focus.ModeFocus, state.Mode)
	assert.Equal(t, 1500, state.TimeLeft)
	assert.Equal(t, focus.PhaseIdle, state.Phase)

	w = doJSON(t, router, http.MethodPost, "/focus/start", nil)
	state = decode[dto.FocusStateResponse](t, w)
	assert.True(t, state.IsActive)
	assert.Equal(t, focus.PhaseRunning, state.Phase)

	focusService.Countdown()
	w = doJSON(t, router, http.MethodPost, "/focus/pause", nil)
	state = decode[dto.FocusStateResponse](t, w)
	assert.False(t, state.IsActive)
	assert.Equal(t, 1499, state.TimeLeft)

	w = doJSON(t, router, http.MethodPost, "/focus/reset", nil)
	state = decode[dto.FocusStateResponse](t, w)
	assert.Equal(t, 1500, state.TimeLeft)
}

func TestFocus_StartAfterExpiryResets(t *testing.T) {
	router, focusService := newFocusRouter()
	focusService.SetTimeLeft(0)

	w := doJSON(t, router, http.MethodPost, "/focus/start", nil)
	state := decode[dto.FocusStateResponse](t, w)
	assert.True(t, state.IsActive)
	assert.Equal(t, focus.FocusSeconds, state.TimeLeft)
}

func TestFocus_SetMode(t *testing.T) {
	router, _ := newFocusRouter()

	w := doJSON(t, router, http.MethodPut, "/focus/mode", dto.ModeRequest{Mode: focus.ModeShortBreak})
	require.Equal(t, http.StatusOK, w.Code)
	state := decode[dto.FocusStateResponse](t, w)
	assert.Equal(t, 300, state.TimeLeft)
	assert.False(t, state.IsActive)

	w = doJSON(t, router, http.MethodPut, "/focus/mode", dto.ModeRequest{Mode: "nap"})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestFocus_Mute(t *testing.T) {
	router, _ := newFocusRouter()

	w := doJSON(t, router, http.MethodPut, "/focus/mute", dto.MuteRequest{Muted: true})
	require.Equal(t, http.StatusOK, w.Code)
	assert.True(t, decode[dto.FocusStateResponse](t, w).Muted)
}

func TestFocus_SessionsAndStats(t *testing.T) {
	router, _ := newFocusRouter()

	w := doJSON(t, router, http.MethodPost, "/focus/sessions",
		dto.SessionRequest{Duration: 25, Mode: focus.ModeFocus, Completed: true})
	require.Equal(t, http.StatusCreated, w.Code)
	assert.Equal(t, 1, decode[dto.FocusStateResponse](t, w).Streak)

	w = doJSON(t, router, http.MethodPost, "/focus/sessions",
		dto.SessionRequest{Duration: 5, Mode: focus.ModeShortBreak, Completed: true})
	require.Equal(t, http.StatusCreated, w.Code)

	w = doJSON(t, router, http.MethodPost, "/focus/sessions", dto.SessionRequest{Duration: 0, Mode: focus.ModeFocus})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = doJSON(t, router, http.MethodGet, "/focus/sessions", nil)
	assert.Len(t, decode[[]focus.Session](t, w), 2)

	w = doJSON(t, router, http.MethodGet, "/focus/stats", nil)
	require.Equal(t, http.StatusOK, w.Code)
	stats := decode[dto.FocusStatsResponse](t, w)
	assert.Equal(t, 25, stats.TotalFocusToday)
	assert.Equal(t, 240, stats.DailyGoal)
	assert.Equal(t, 1, stats.Summary.StreakDays)
	assert.Len(t, stats.Summary.Trend, 7)
}

func TestSettings(t *testing.T) {
	r := chi.NewRouter()
	handlers.NewSettingsHandler(service.NewSettingsService(testScope, settings.Profile{Name: "Alex"})).Register(r)

	w := doJSON(t, r, http.MethodGet, "/settings", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, settings.ThemeSystem, decode[settings.Settings](t, w).Theme)

	w = doJSON(t, r, http.MethodPut, "/settings/theme", dto.ThemeRequest{Theme: settings.ThemeDark})
	assert.Equal(t, settings.ThemeDark, decode[settings.Settings](t, w).Theme)

	w = doJSON(t, r, http.MethodPut, "/settings/theme", dto.ThemeRequest{Theme: "neon"})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = doJSON(t, r, http.MethodPatch, "/settings/profile", `{"email": "a@b.c"}`)
	got := decode[settings.Settings](t, w)
	assert.Equal(t, "Alex", got.Profile.Name)
	assert.Equal(t, "a@b.c", got.Profile.Email)

	w = doJSON(t, r, http.MethodPatch, "/settings/profile", `{"name": ""}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = doJSON(t, r, http.MethodPost, "/settings/sound/toggle", nil)
	assert.False(t, decode[settings.Settings](t, w).SoundEnabled)

	w = doJSON(t, r, http.MethodPost, "/settings/notifications/toggle", nil)
	assert.False(t, decode[settings.Settings](t, w).NotificationsEnabled)
}

func newAIRouter(p handlers.Planner) http.Handler {
	r := chi.NewRouter()
	handlers.NewAIHandler(p).Register(r)
	return r
}

func TestAI_ErrorMapping(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		wantStatus int
		wantCode   string
	}{
		{"заменён новым", planner.ErrSuperseded, http.StatusConflict, service.CodeAISuperseded},
		{"нет ключа", fmt.Errorf("расписание: %w", gemini.ErrNoAPIKey), http.StatusServiceUnavailable, service.CodeAIUnavailable},
		{"ошибка сервиса", &gemini.ExternalServiceError{StatusCode: 400, Message: "API key not valid"}, http.StatusBadGateway, service.CodeAIError},
		{"пустой ответ", &gemini.EmptyResponseError{}, http.StatusBadGateway, service.CodeAIError},
		{"битый JSON", &gemini.MalformedResponseError{Text: "oops", Err: errors.New("bad")}, http.StatusBadGateway, service.CodeAIError},
		{"сеть", errors.New("dial tcp: connection refused"), http.StatusServiceUnavailable, service.CodeAIUnavailable},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := new(MockPlanner)
			p.On("AutoArrange", mock.Anything, "").Return(planner.Arrangement{}, tt.err)

			w := doJSON(t, newAIRouter(p), http.MethodPost, "/ai/schedule", nil)
			assert.Equal(t, tt.wantStatus, w.Code)
			assert.Equal(t, tt.wantCode, decode[map[string]any](t, w)["error"])
		})
	}
}

func TestAI_ExternalMessagePassedThrough(t *testing.T) {
	p := new(MockPlanner)
	p.On("GenerateTasks", mock.Anything, "pass calculus").
		Return(nil, &gemini.ExternalServiceError{StatusCode: 429, Message: "Quota exceeded"})

	w := doJSON(t, newAIRouter(p), http.MethodPost, "/ai/tasks", dto.GenerateTasksRequest{Input: " pass calculus "})
	require.Equal(t, http.StatusBadGateway, w.Code)
	assert.Equal(t, "Quota exceeded", decode[map[string]any](t, w)["message"])
}

func TestAI_AutoArrange(t *testing.T) {
	p := new(MockPlanner)
	want := planner.Arrangement{
		Applied: []planner.AppliedSlot{{TaskID: sampleTask("a", "").UUID, StartTime: "09:00"}},
		Skipped: []gemini.ScheduleSlot{{TaskID: "1", StartTime: "10:00"}},
	}
	p.On("AutoArrange", mock.Anything, "evenings").Return(want, nil).Once()

	w := doJSON(t, newAIRouter(p), http.MethodPost, "/ai/schedule", dto.ScheduleRequest{Preferences: "evenings"})
	require.Equal(t, http.StatusOK, w.Code)

	got := decode[planner.Arrangement](t, w)
	assert.Equal(t, want.Applied, got.Applied)
	assert.Len(t, got.Skipped, 1)
	p.AssertExpectations(t)
}

func TestAI_GenerateTasks(t *testing.T) {
	p := new(MockPlanner)
	p.On("GenerateTasks", mock.Anything, "pass calculus").
		Return([]*task.Task{sampleTask("Review limits", "09:00")}, nil).Once()
	router := newAIRouter(p)

	w := doJSON(t, router, http.MethodPost, "/ai/tasks", dto.GenerateTasksRequest{Input: "pass calculus"})
	require.Equal(t, http.StatusCreated, w.Code)
	assert.Len(t, decode[[]dto.TaskResponse](t, w), 1)

	w = doJSON(t, router, http.MethodPost, "/ai/tasks", dto.GenerateTasksRequest{Input: "  "})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	p.AssertExpectations(t)
}

func TestAI_Chat(t *testing.T) {
	t.Run("серверная история", func(t *testing.T) {
		p := new(MockPlanner)
		history := []gemini.Turn{
			{Role: gemini.RoleUser, Text: "What is a derivative?"},
			{Role: gemini.RoleModel, Text: "A rate of change."},
		}
		p.On("Chat", mock.Anything, "What is a derivative?", ([]gemini.Turn)(nil)).Return("A rate of change.", nil).Once()
		p.On("Conversation").Return(history)

		w := doJSON(t, newAIRouter(p), http.MethodPost, "/ai/chat", dto.ChatRequest{Message: "What is a derivative?"})
		require.Equal(t, http.StatusOK, w.Code)

		got := decode[dto.ChatResponse](t, w)
		assert.Equal(t, "A rate of change.", got.Reply)
		assert.Equal(t, history, got.History)
		p.AssertExpectations(t)
	})

	t.Run("история от клиента", func(t *testing.T) {
		p := new(MockPlanner)
		history := []gemini.Turn{{Role: gemini.RoleUser, Text: "hi"}}
		p.On("Chat", mock.Anything, "next", history).Return("ok", nil).Once()

		w := doJSON(t, newAIRouter(p), http.MethodPost, "/ai/chat", dto.ChatRequest{Message: "next", History: history})
		require.Equal(t, http.StatusOK, w.Code)
		assert.Empty(t, decode[dto.ChatResponse](t, w).History)
		p.AssertNotCalled(t, "Conversation")
	})

	t.Run("пустое сообщение", func(t *testing.T) {
		p := new(MockPlanner)
		w := doJSON(t, newAIRouter(p), http.MethodPost, "/ai/chat", dto.ChatRequest{Message: " "})
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("сброс", func(t *testing.T) {
		p := new(MockPlanner)
		p.On("ResetConversation").Return().Once()

		w := doJSON(t, newAIRouter(p), http.MethodDelete, "/ai/chat", nil)
		assert.Equal(t, http.StatusNoContent, w.Code)
		p.AssertExpectations(t)
	})
}

func TestSchedule(t *testing.T) {
	svc := new(MockTaskService)
	svc.On("ListTasks", mock.Anything).Return([]*task.Task{
		sampleTask("morning", "09:30"),
		sampleTask("anytime", ""),
	})
	r := chi.NewRouter()
	handlers.NewScheduleHandler(svc, clock).Register(r)

	w := doJSON(t, r, http.MethodGet, "/schedule/day", nil)
	require.Equal(t, http.StatusOK, w.Code)
	day := decode[dto.DayResponse](t, w)
	assert.True(t, day.IsToday)
	require.Len(t, day.Placements, 1)
	assert.InDelta(t, 950.0, day.Placements[0].Top, 1e-9)
	assert.InDelta(t, 100.0, day.Placements[0].Height, 1e-9)
	assert.Len(t, day.Unscheduled, 1)
	require.NotNil(t, day.NowOffset)
	assert.InDelta(t, 1050.0, *day.NowOffset, 1e-9)

	w = doJSON(t, r, http.MethodGet, "/schedule/week?date=2024-03-14", nil)
	require.Equal(t, http.StatusOK, w.Code)
	week := decode[[]dto.DayResponse](t, w)
	require.Len(t, week, 7)
	assert.Equal(t, "2024-03-11", week[0].Date)
	assert.Len(t, week[1].Placements, 1)
	assert.Empty(t, week[0].Placements)

	w = doJSON(t, r, http.MethodGet, "/schedule/day?date=x", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestDashboard(t *testing.T) {
	ctx := context.Background()
	tasks := service.NewTaskService(testScope, taskrepo.NewTaskStorage(), clock)
	focusService := service.NewFocusService(testScope, sessionrepo.NewSessionLog(), service.DefaultDailyGoal, clock)
	settingsService := service.NewSettingsService(testScope, settings.Profile{Name: "Alex"})

	done := tasks.AddTask(ctx, sampleTask("done", "08:00").Draft())
	tasks.ToggleTaskStatus(ctx, done.UUID)
	tasks.AddTask(ctx, sampleTask("open", "11:00").Draft())
	focusService.LogSession(ctx, focus.Session{StartTime: fixedNow.Add(-time.Hour), Duration: 25, Mode: focus.ModeFocus, Completed: true})

	r := chi.NewRouter()
	handlers.NewDashboardHandler(tasks, focusService, settingsService, clock).Register(r)

	req := httptest.NewRequest(http.MethodGet, "/dashboard", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	require.Equal(t, http.StatusOK, w.Code)

	got := decode[dto.DashboardResponse](t, w)
	assert.Equal(t, "Good morning", got.Greeting)
	assert.Equal(t, "Alex", got.Name)
	assert.NotEmpty(t, got.Quote.Text)
	assert.Equal(t, 1, got.CompletedTasks)
	assert.Equal(t, 2, got.TotalTasks)
	assert.Equal(t, 25, got.FocusMinutes)
	assert.Equal(t, 240, got.DailyGoal)
	assert.Equal(t, 1, got.Streak)
	assert.Equal(t, 1, got.DayStreak)
	assert.Len(t, got.History, 7)
	assert.Nil(t, got.ActiveTask)
}

package app

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"studyMate/internal/classifier"
	"studyMate/internal/config"
	"studyMate/internal/gemini"
	"studyMate/internal/handlers"
	"studyMate/internal/logger"
	"studyMate/internal/middleware"
	"studyMate/internal/models/focus"
	"studyMate/internal/notify"
	"studyMate/internal/observe"
	"studyMate/internal/planner"
	sessionrepo "studyMate/internal/repository/session/inmemory"
	taskrepo "studyMate/internal/repository/task/inmemory"
	"studyMate/internal/service"
	"studyMate/internal/worker"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/pumped-fn/flux"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// Маршруты модели отвечают долго, общий дедлайн запроса к ним не применяется
const aiRoutePrefix = "/ai"

type App struct {
	config    *config.Config
	server    *http.Server
	router    *chi.Mux
	scope     flux.Scope // общая область атомов событий хранилищ
	tasks     *service.TaskService
	focus     *service.FocusService
	settings  *service.SettingsService
	planner   *planner.Planner
	overdue   *worker.OverdueWorker
	ticker    *worker.FocusTicker
	chime     notify.Chime
	now       func() time.Time
	shutdowns []func() // функции для graceful shutdown
}

type Option func(*App)

// WithChime подменяет звуковой сигнал окончания сессии
func WithChime(c notify.Chime) Option {
	return func(a *App) { a.chime = c }
}

func WithClock(now func() time.Time) Option {
	return func(a *App) { a.now = now }
}

func New(cfg *config.Config, opts ...Option) *App {
	a := &App{
		config:    cfg,
		chime:     notify.NewBell(os.Stdout),
		now:       time.Now,
		shutdowns: make([]func(), 0),
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

func (a *App) Init(ctx context.Context) (*App, error) {
	if err := logger.Init(a.config.Logging.Development); err != nil {
		return nil, fmt.Errorf("инициализация логгера: %w", err)
	}

	a.shutdowns = append(a.shutdowns, func() {
		logger.Info("Завершение работы логгирования...")
		logger.Sync()
	})

	a.scope = observe.NewScope(ctx)
	a.shutdowns = append(a.shutdowns, func() {
		if err := a.scope.Dispose(); err != nil {
			logger.Error("Ошибка при закрытии области событий", err)
		}
	})

	a.tasks = service.NewTaskService(a.scope, taskrepo.NewTaskStorage(), a.now)
	a.focus = service.NewFocusService(a.scope, sessionrepo.NewSessionLog(), a.config.Focus.DailyGoalMinutes, a.now)
	a.settings = service.NewSettingsService(a.scope, a.config.Profile)

	if err := a.tasks.HealthCheck(ctx); err != nil {
		return nil, fmt.Errorf("хранилище задач недоступно: %w", err)
	}

	ai := gemini.New(gemini.Config{
		BaseURL: a.config.AI.BaseURL,
		Model:   a.config.AI.Model,
		APIKey:  a.config.AI.APIKey,
		Timeout: a.config.AI.Timeout,
	})
	if !ai.Configured() {
		logger.Warn("AI: API-ключ не задан, запросы к модели будут отклоняться")
	}
	a.planner = planner.New(ai, a.tasks, a.now)

	overdueInterval := a.config.Worker.OverdueInterval
	a.overdue = worker.NewOverdueWorker(a.tasks, &overdueInterval)
	a.ticker = worker.NewFocusTicker(a.focus, a.tasks, a.settings, a.chime, a.config.Focus.TickInterval)

	a.subscribe()
	a.initRouter()

	a.server = &http.Server{
		Addr:              a.config.GetServerAddr(),
		Handler:           a.router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	logger.Info("Приложение инициализировано",
		zap.String("addr", a.server.Addr),
		zap.Bool("ai_configured", ai.Configured()))
	return a, nil
}

// subscribe пишет события хранилищ в debug-лог
func (a *App) subscribe() {
	unsubscribe := []func(){
		a.tasks.Subscribe(func(e service.TaskEvent) {
			logger.Debug("Service: Событие задач",
				zap.String("kind", string(e.Kind)),
				zap.Stringer("task_id", e.TaskID),
				zap.Int("count", e.Count))
		}),
		a.focus.Subscribe(func(e service.FocusEvent) {
			if e.Kind == service.FocusTick {
				return
			}
			logger.Debug("Service: Событие таймера",
				zap.String("kind", string(e.Kind)),
				zap.String("phase", string(e.State.Phase())))
		}),
		a.settings.Subscribe(func(e service.SettingsEvent) {
			logger.Debug("Service: Настройки изменены", zap.String("theme", string(e.Settings.Theme)))
		}),
		observe.Select(a.focus.Events(), func(e service.FocusEvent) focus.Phase {
			return e.State.Phase()
		}, func(p focus.Phase) {
			logger.Info("Service: Фаза таймера", zap.String("phase", string(p)))
		}),
	}

	a.shutdowns = append(a.shutdowns, func() {
		for _, fn := range unsubscribe {
			fn()
		}
	})
}

func (a *App) initRouter() {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.Logging)
	r.Use(chimw.Recoverer)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: a.config.Server.CORSOrigins,
		AllowedMethods: []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Content-Type", middleware.RequestIdHeader},
		ExposedHeaders: []string{middleware.RequestIdHeader, "Retry-After"},
		MaxAge:         300,
	}))
	r.Use(middleware.RateLimit(a.config.Server.RateLimitRPM))
	r.Use(middleware.Timeout(a.config.Server.RequestTimeout, aiRoutePrefix))

	handlers.NewTaskHandler(a.tasks, classifier.NewKeyword(), a.now).Register(r)
	handlers.NewScheduleHandler(a.tasks, a.now).Register(r)
	handlers.NewFocusHandler(a.focus, a.now).Register(r)
	handlers.NewSettingsHandler(a.settings).Register(r)
	handlers.NewAIHandler(a.planner).Register(r)
	handlers.NewDashboardHandler(a.tasks, a.focus, a.settings, a.now).Register(r)

	a.router = r
}

func (a *App) Handler() http.Handler {
	return a.router
}

// Run держит сервер и фоновые задачи, пока не отменён ctx или сервер не упал
func (a *App) Run(ctx context.Context) error {
	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		logger.Info("HTTP: Сервер запущен", zap.String("addr", a.server.Addr))
		if err := a.server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("http сервер: %w", err)
		}
		return nil
	})

	g.Go(func() error {
		a.overdue.Start(gctx)
		return nil
	})

	g.Go(func() error {
		a.ticker.Start(gctx)
		return nil
	})

	g.Go(func() error {
		<-gctx.Done()
		logger.Info("HTTP: Остановка сервера")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), a.config.Server.ShutdownTimeout)
		defer cancel()
		if err := a.server.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("остановка сервера: %w", err)
		}
		return nil
	})

	return g.Wait()
}

// Shutdown выполняет зарегистрированные функции в обратном порядке, логгер последним
func (a *App) Shutdown() {
	for i := len(a.shutdowns) - 1; i >= 0; i-- {
		a.shutdowns[i]()
	}
	a.shutdowns = nil
}

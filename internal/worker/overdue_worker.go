package worker

import (
	"context"
	"studyMate/internal/logger"
	"time"

	"go.uber.org/zap"
)

type OverdueRescheduler interface {
	RescheduleOverdue(ctx context.Context) int
}

// OverdueWorker переносит просроченные задачи на сегодня: сразу при
// старте приложения и затем раз в interval
type OverdueWorker struct {
	tasks    OverdueRescheduler
	interval time.Duration
}

func NewOverdueWorker(tasks OverdueRescheduler, interval *time.Duration) *OverdueWorker {
	var intervalToSet time.Duration
	if interval == nil || *interval <= 0 {
		intervalToSet = 5 * time.Minute
	} else {
		intervalToSet = *interval
	}

	return &OverdueWorker{
		tasks:    tasks,
		interval: intervalToSet,
	}
}

func (w *OverdueWorker) Start(ctx context.Context) {
	w.Check(ctx)

	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			logger.Debug("Worker: Фоновая проверка просроченных задач", zap.Time("started_at", time.Now()))
			w.Check(ctx)
		case <-ctx.Done():
			logger.Info("Worker: Фоновая проверка останавливается")
			return
		}
	}
}

func (w *OverdueWorker) Check(ctx context.Context) int {
	start := time.Now()
	moved := w.tasks.RescheduleOverdue(ctx)

	logger.Info(
		"Worker: Завершение проверки задач",
		zap.Duration("took", time.Since(start)),
		zap.Int("moved", moved),
	)
	return moved
}

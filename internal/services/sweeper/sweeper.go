// Package services содержит фоновую очистку мягко удалённых задач.
package services

import (
	"context"
	"log/slog"
	"time"

	"github.com/magabrotheeeer/task-tracker/internal/lib/sl"
	"github.com/magabrotheeeer/task-tracker/internal/metrics"
)

// TaskCleanupRepository определяет метод окончательного удаления устаревших задач.
type TaskCleanupRepository interface {
	// DeleteExpiredTasks удаляет мягко удалённые задачи старше deadline
	// и возвращает число удалённых строк.
	DeleteExpiredTasks(ctx context.Context, deadline time.Time) (int, error)
}

// SweeperService периодически удаляет задачи, помеченные удалёнными
// и не обновлявшиеся дольше окна хранения. Операция идемпотентна и
// безопасна при одновременной работе пользовательских обработчиков:
// затрагиваются только записи, уже исключённые из чтения.
type SweeperService struct {
	repo      TaskCleanupRepository
	log       *slog.Logger
	retention time.Duration
}

// NewSweeperService создает новый экземпляр SweeperService.
func NewSweeperService(repo TaskCleanupRepository, log *slog.Logger, retention time.Duration) *SweeperService {
	return &SweeperService{
		repo:      repo,
		log:       log,
		retention: retention,
	}
}

// Sweep выполняет один проход очистки относительно момента now
// и возвращает число удалённых задач.
func (s *SweeperService) Sweep(ctx context.Context, now time.Time) (int, error) {
	count, err := s.repo.DeleteExpiredTasks(ctx, now.Add(-s.retention))
	if err != nil {
		return 0, err
	}
	if count > 0 {
		s.log.Info("cleaned up deleted tasks", slog.Int("count", count))
		metrics.TasksSwept.Add(float64(count))
	}
	return count, nil
}

// Run запускает периодическую очистку: один проход сразу, далее по тикеру
// до отмены контекста.
func (s *SweeperService) Run(ctx context.Context, interval time.Duration) {
	s.runSweep(ctx)

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			s.runSweep(ctx)
		}
	}
}

func (s *SweeperService) runSweep(ctx context.Context) {
	s.log.Info("starting sweep of stale deleted tasks")
	if _, err := s.Sweep(ctx, time.Now().UTC()); err != nil {
		s.log.Error("sweep failed", sl.Err(err))
	}
}

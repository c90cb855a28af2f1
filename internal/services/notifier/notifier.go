// Package services содержит публикацию напоминаний о задачах,
// срок которых наступает в ближайшие сутки.
package services

import (
	"context"
	"log/slog"
	"time"

	"github.com/streadway/amqp"

	"github.com/magabrotheeeer/task-tracker/internal/lib/rabbitmq"
	"github.com/magabrotheeeer/task-tracker/internal/lib/sl"
	"github.com/magabrotheeeer/task-tracker/internal/models"
)

// DueTaskRepository определяет поиск невыполненных задач с приближающимся сроком.
type DueTaskRepository interface {
	FindTasksDueSoon(ctx context.Context, from, to time.Time) ([]*models.Task, error)
}

// NotifierService публикует напоминания о задачах в RabbitMQ.
type NotifierService struct {
	repo DueTaskRepository
	log  *slog.Logger
}

// NewNotifierService создает новый экземпляр NotifierService.
func NewNotifierService(repo DueTaskRepository, log *slog.Logger) *NotifierService {
	return &NotifierService{
		repo: repo,
		log:  log,
	}
}

// Run запускает периодическую публикацию напоминаний до отмены контекста.
func (s *NotifierService) Run(ctx context.Context, channel *amqp.Channel, interval time.Duration) {
	s.runNotifyUpcoming(ctx, channel)

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			s.runNotifyUpcoming(ctx, channel)
		}
	}
}

// runNotifyUpcoming находит невыполненные задачи со сроком до начала
// завтрашних суток и публикует по сообщению на задачу.
func (s *NotifierService) runNotifyUpcoming(ctx context.Context, channel *amqp.Channel) {
	s.log.Info("starting service to find tasks due soon")

	now := time.Now().UTC()
	tomorrow := now.Truncate(24 * time.Hour).AddDate(0, 0, 1)

	tasks, err := s.repo.FindTasksDueSoon(ctx, now, tomorrow)
	if err != nil {
		s.log.Error("failed to find tasks due soon", sl.Err(err))
		return
	}
	if len(tasks) == 0 {
		s.log.Info("no tasks due soon found")
		return
	}
	s.log.Info("found tasks due soon", "count", len(tasks))
	for _, task := range tasks {
		err = rabbitmq.PublishMessage(channel, rabbitmq.NotificationsExchange,
			rabbitmq.UpcomingRoutingKey, task)
		if err != nil {
			s.log.Error("failed to publish message", sl.Err(err))
		}
	}
}

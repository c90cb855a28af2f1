// Package services содержит бизнес-логику для управления задачами пользователей.
// Все операции неявно ограничены задачами действующего принципала:
// чужая задача неотличима от несуществующей.
package services

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/magabrotheeeer/task-tracker/internal/models"
)

// TaskRepository определяет методы для работы с задачами в хранилище.
type TaskRepository interface {
	// CreateTask добавляет новую задачу.
	CreateTask(ctx context.Context, task models.Task) error
	// GetTask возвращает задачу владельца по ID.
	GetTask(ctx context.Context, userUID, taskID string) (*models.Task, error)
	// ListTasks возвращает задачи владельца с опциональным фильтром по статусу.
	ListTasks(ctx context.Context, userUID, statusFilter string) ([]*models.Task, error)
	// UpdateTask обновляет поля задачи владельца.
	UpdateTask(ctx context.Context, task models.Task) error
	// UpdateTaskStatus изменяет статус задачи владельца.
	UpdateTaskStatus(ctx context.Context, userUID, taskID, status string) error
}

// TaskService реализует операции над задачами действующего принципала.
type TaskService struct {
	repo TaskRepository
	log  *slog.Logger
}

// NewTaskService создает новый экземпляр TaskService.
func NewTaskService(repo TaskRepository, log *slog.Logger) *TaskService {
	return &TaskService{
		repo: repo,
		log:  log,
	}
}

// List возвращает задачи владельца, новые первыми. Фильтр принимает только
// pending и completed, любое другое значение трактуется как «все».
func (s *TaskService) List(ctx context.Context, userUID, statusFilter string) ([]*models.Task, error) {
	if statusFilter != models.StatusPending && statusFilter != models.StatusCompleted {
		statusFilter = ""
	}
	return s.repo.ListTasks(ctx, userUID, statusFilter)
}

// Get возвращает задачу владельца по ID.
func (s *TaskService) Get(ctx context.Context, userUID, taskID string) (*models.Task, error) {
	return s.repo.GetTask(ctx, userUID, taskID)
}

// Create создает новую задачу в статусе pending и возвращает её.
func (s *TaskService) Create(ctx context.Context, userUID string, req models.TaskForm) (*models.Task, error) {
	dueDate, err := parseDueDate(req.DueDate)
	if err != nil {
		return nil, err
	}

	task := models.Task{
		ID:          uuid.NewString(),
		UserUID:     userUID,
		Title:       req.Title,
		Description: req.Description,
		Status:      models.StatusPending,
		DueDate:     dueDate,
	}
	if err := s.repo.CreateTask(ctx, task); err != nil {
		return nil, err
	}

	s.log.Info("created new task", slog.String("id", task.ID), slog.String("user_uid", userUID))
	return &task, nil
}

// Update обновляет заголовок, описание, срок и статус задачи владельца.
func (s *TaskService) Update(ctx context.Context, userUID, taskID string, req models.TaskForm) error {
	dueDate, err := parseDueDate(req.DueDate)
	if err != nil {
		return err
	}

	status := req.Status
	if status == "" {
		status = models.StatusPending
	}
	task := models.Task{
		ID:          taskID,
		UserUID:     userUID,
		Title:       req.Title,
		Description: req.Description,
		Status:      status,
		DueDate:     dueDate,
	}
	if err := s.repo.UpdateTask(ctx, task); err != nil {
		return err
	}

	s.log.Info("updated task", slog.String("id", taskID), slog.String("user_uid", userUID))
	return nil
}

// UpdateStatus переводит задачу владельца в статус pending или completed.
func (s *TaskService) UpdateStatus(ctx context.Context, userUID, taskID, status string) error {
	if err := s.repo.UpdateTaskStatus(ctx, userUID, taskID, status); err != nil {
		return err
	}
	s.log.Info("updated task status",
		slog.String("id", taskID), slog.String("status", status))
	return nil
}

// SoftDelete помечает задачу владельца удалённой, запись остается
// в хранилище до фоновой очистки.
func (s *TaskService) SoftDelete(ctx context.Context, userUID, taskID string) error {
	if err := s.repo.UpdateTaskStatus(ctx, userUID, taskID, models.StatusDeleted); err != nil {
		return err
	}
	s.log.Info("soft-deleted task", slog.String("id", taskID), slog.String("user_uid", userUID))
	return nil
}

func parseDueDate(raw string) (*time.Time, error) {
	if raw == "" {
		return nil, nil
	}
	dueDate, err := time.Parse("2006-01-02", raw)
	if err != nil {
		return nil, fmt.Errorf("invalid due date: %w", err)
	}
	return &dueDate, nil
}

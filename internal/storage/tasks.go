package storage

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/magabrotheeeer/task-tracker/internal/models"
)

// CreateTask вставляет новую задачу.
func (s *Storage) CreateTask(ctx context.Context, task models.Task) error {
	const op = "storage.CreateTask"
	select {
	case <-ctx.Done():
		return fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `INSERT INTO tasks (id, user_uid, title, description, status, due_date)
			  VALUES ($1, $2, $3, $4, $5, $6)`
	_, err := s.DB.ExecContext(ctx, query,
		task.ID, task.UserUID, task.Title, task.Description, task.Status, task.DueDate)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}

// GetTask возвращает задачу по ID в пределах задач владельца.
// Чужая или отсутствующая задача неразличимы: в обоих случаях ErrTaskNotFound.
func (s *Storage) GetTask(ctx context.Context, userUID, taskID string) (*models.Task, error) {
	const op = "storage.GetTask"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `SELECT id, user_uid, title, description, status, due_date, created_at, updated_at
			  FROM tasks
			  WHERE id = $1 AND user_uid = $2 AND status <> 'deleted'`
	row := s.DB.QueryRowContext(ctx, query, taskID, userUID)

	var task models.Task
	var dueDate sql.NullTime
	if err := row.Scan(&task.ID, &task.UserUID, &task.Title, &task.Description,
		&task.Status, &dueDate, &task.CreatedAt, &task.UpdatedAt); err != nil {
		if err == sql.ErrNoRows {
			return nil, fmt.Errorf("%s: %w", op, ErrTaskNotFound)
		}
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	if dueDate.Valid {
		task.DueDate = &dueDate.Time
	}
	return &task, nil
}

// ListTasks возвращает задачи владельца, отсортированные по дате создания по убыванию.
// Мягко удалённые задачи не попадают в выдачу ни при каком фильтре;
// statusFilter — пустая строка, pending или completed.
func (s *Storage) ListTasks(ctx context.Context, userUID, statusFilter string) ([]*models.Task, error) {
	const op = "storage.ListTasks"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `SELECT id, user_uid, title, description, status, due_date, created_at, updated_at
			  FROM tasks
			  WHERE user_uid = $1
			  	AND status <> 'deleted'
			  	AND ($2::text = '' OR status = $2)
			  ORDER BY created_at DESC`
	rows, err := s.DB.QueryContext(ctx, query, userUID, statusFilter)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer func() {
		_ = rows.Close()
	}()

	var result []*models.Task
	for rows.Next() {
		var task models.Task
		var dueDate sql.NullTime
		if err := rows.Scan(&task.ID, &task.UserUID, &task.Title, &task.Description,
			&task.Status, &dueDate, &task.CreatedAt, &task.UpdatedAt); err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		if dueDate.Valid {
			task.DueDate = &dueDate.Time
		}
		result = append(result, &task)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return result, nil
}

// UpdateTask обновляет поля задачи владельца. Ноль затронутых строк — ErrTaskNotFound.
func (s *Storage) UpdateTask(ctx context.Context, task models.Task) error {
	const op = "storage.UpdateTask"
	select {
	case <-ctx.Done():
		return fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `UPDATE tasks
			  SET title = $1, description = $2, status = $3, due_date = $4, updated_at = now()
			  WHERE id = $5 AND user_uid = $6 AND status <> 'deleted'`
	result, err := s.DB.ExecContext(ctx, query,
		task.Title, task.Description, task.Status, task.DueDate, task.ID, task.UserUID)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	if rowsAffected == 0 {
		return fmt.Errorf("%s: %w", op, ErrTaskNotFound)
	}
	return nil
}

// UpdateTaskStatus изменяет статус задачи владельца.
func (s *Storage) UpdateTaskStatus(ctx context.Context, userUID, taskID, status string) error {
	const op = "storage.UpdateTaskStatus"
	select {
	case <-ctx.Done():
		return fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `UPDATE tasks
			  SET status = $1, updated_at = now()
			  WHERE id = $2 AND user_uid = $3 AND status <> 'deleted'`
	result, err := s.DB.ExecContext(ctx, query, status, taskID, userUID)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	if rowsAffected == 0 {
		return fmt.Errorf("%s: %w", op, ErrTaskNotFound)
	}
	return nil
}

// DeleteExpiredTasks окончательно удаляет мягко удалённые задачи,
// не обновлявшиеся с момента deadline, и возвращает число удалённых строк.
func (s *Storage) DeleteExpiredTasks(ctx context.Context, deadline time.Time) (int, error) {
	const op = "storage.DeleteExpiredTasks"
	select {
	case <-ctx.Done():
		return 0, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `DELETE FROM tasks
			  WHERE status = 'deleted' AND updated_at < $1`
	result, err := s.DB.ExecContext(ctx, query, deadline)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	return int(rowsAffected), nil
}

// FindTasksDueSoon возвращает невыполненные задачи со сроком в интервале [from, to).
func (s *Storage) FindTasksDueSoon(ctx context.Context, from, to time.Time) ([]*models.Task, error) {
	const op = "storage.FindTasksDueSoon"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `SELECT id, user_uid, title, description, status, due_date, created_at, updated_at
			  FROM tasks
			  WHERE status = 'pending' AND due_date >= $1 AND due_date < $2`
	rows, err := s.DB.QueryContext(ctx, query, from, to)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer func() {
		_ = rows.Close()
	}()

	var result []*models.Task
	for rows.Next() {
		var task models.Task
		var dueDate sql.NullTime
		if err := rows.Scan(&task.ID, &task.UserUID, &task.Title, &task.Description,
			&task.Status, &dueDate, &task.CreatedAt, &task.UpdatedAt); err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		if dueDate.Valid {
			task.DueDate = &dueDate.Time
		}
		result = append(result, &task)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return result, nil
}

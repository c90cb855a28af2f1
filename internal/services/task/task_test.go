package services_test

import (
	"context"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/magabrotheeeer/task-tracker/internal/models"
	services "github.com/magabrotheeeer/task-tracker/internal/services/task"
	"github.com/magabrotheeeer/task-tracker/internal/storage"
)

// Мок для TaskRepository
type TaskRepoMock struct {
	mock.Mock
}

func (m *TaskRepoMock) CreateTask(ctx context.Context, task models.Task) error {
	args := m.Called(ctx, task)
	return args.Error(0)
}

func (m *TaskRepoMock) GetTask(ctx context.Context, userUID, taskID string) (*models.Task, error) {
	args := m.Called(ctx, userUID, taskID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Task), args.Error(1)
}

func (m *TaskRepoMock) ListTasks(ctx context.Context, userUID, statusFilter string) ([]*models.Task, error) {
	args := m.Called(ctx, userUID, statusFilter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.Task), args.Error(1)
}

func (m *TaskRepoMock) UpdateTask(ctx context.Context, task models.Task) error {
	args := m.Called(ctx, task)
	return args.Error(0)
}

func (m *TaskRepoMock) UpdateTaskStatus(ctx context.Context, userUID, taskID, status string) error {
	args := m.Called(ctx, userUID, taskID, status)
	return args.Error(0)
}

func newNoopLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, &slog.HandlerOptions{}))
}

func TestTaskService_List_FilterSanitization(t *testing.T) {
	tests := []struct {
		name       string
		filter     string
		wantFilter string
	}{
		{name: "pending passes through", filter: "pending", wantFilter: "pending"},
		{name: "completed passes through", filter: "completed", wantFilter: "completed"},
		{name: "empty means all", filter: "", wantFilter: ""},
		{name: "deleted is not selectable", filter: "deleted", wantFilter: ""},
		{name: "garbage means all", filter: "banana", wantFilter: ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := new(TaskRepoMock)
			repo.On("ListTasks", mock.Anything, "user-1", tt.wantFilter).
				Return([]*models.Task{}, nil).Once()

			svc := services.NewTaskService(repo, newNoopLogger())

			_, err := svc.List(context.Background(), "user-1", tt.filter)
			assert.NoError(t, err)

			repo.AssertExpectations(t)
		})
	}
}

func TestTaskService_Create(t *testing.T) {
	repo := new(TaskRepoMock)
	repo.On("CreateTask", mock.Anything, mock.MatchedBy(func(task models.Task) bool {
		return task.UserUID == "user-1" &&
			task.Title == "Buy milk" &&
			task.Status == models.StatusPending &&
			task.DueDate != nil &&
			task.DueDate.Format("2006-01-02") == "2026-09-15" &&
			uuid.Validate(task.ID) == nil
	})).Return(nil).Once()

	svc := services.NewTaskService(repo, newNoopLogger())

	task, err := svc.Create(context.Background(), "user-1", models.TaskForm{
		Title:       "Buy milk",
		Description: "2 liters",
		DueDate:     "2026-09-15",
	})
	assert.NoError(t, err)
	assert.Equal(t, models.StatusPending, task.Status)
	assert.NotEmpty(t, task.ID)

	repo.AssertExpectations(t)
}

func TestTaskService_Create_InvalidDueDate(t *testing.T) {
	repo := new(TaskRepoMock)
	svc := services.NewTaskService(repo, newNoopLogger())

	_, err := svc.Create(context.Background(), "user-1", models.TaskForm{
		Title:   "Buy milk",
		DueDate: "15/09/2026",
	})
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "invalid due date")

	repo.AssertNotCalled(t, "CreateTask")
}

func TestTaskService_Create_EmptyDueDate(t *testing.T) {
	repo := new(TaskRepoMock)
	repo.On("CreateTask", mock.Anything, mock.MatchedBy(func(task models.Task) bool {
		return task.DueDate == nil
	})).Return(nil).Once()

	svc := services.NewTaskService(repo, newNoopLogger())

	task, err := svc.Create(context.Background(), "user-1", models.TaskForm{Title: "No deadline"})
	assert.NoError(t, err)
	assert.Nil(t, task.DueDate)

	repo.AssertExpectations(t)
}

func TestTaskService_Update(t *testing.T) {
	dueDate := time.Date(2026, 9, 15, 0, 0, 0, 0, time.UTC)

	tests := []struct {
		name     string
		form     models.TaskForm
		wantTask models.Task
		repoErr  error
		wantErr  error
	}{
		{
			name: "full update",
			form: models.TaskForm{Title: "New title", Description: "New desc", DueDate: "2026-09-15", Status: "completed"},
			wantTask: models.Task{
				ID: "task-1", UserUID: "user-1",
				Title: "New title", Description: "New desc",
				Status: "completed", DueDate: &dueDate,
			},
		},
		{
			name: "empty status defaults to pending",
			form: models.TaskForm{Title: "New title"},
			wantTask: models.Task{
				ID: "task-1", UserUID: "user-1",
				Title: "New title", Status: models.StatusPending,
			},
		},
		{
			name:     "foreign task is not found",
			form:     models.TaskForm{Title: "New title"},
			wantTask: models.Task{ID: "task-1", UserUID: "user-1", Title: "New title", Status: models.StatusPending},
			repoErr:  storage.ErrTaskNotFound,
			wantErr:  storage.ErrTaskNotFound,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := new(TaskRepoMock)
			repo.On("UpdateTask", mock.Anything, tt.wantTask).Return(tt.repoErr).Once()

			svc := services.NewTaskService(repo, newNoopLogger())

			err := svc.Update(context.Background(), "user-1", "task-1", tt.form)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
			} else {
				assert.NoError(t, err)
			}

			repo.AssertExpectations(t)
		})
	}
}

func TestTaskService_SoftDelete(t *testing.T) {
	repo := new(TaskRepoMock)
	repo.On("UpdateTaskStatus", mock.Anything, "user-1", "task-1", models.StatusDeleted).
		Return(nil).Once()

	svc := services.NewTaskService(repo, newNoopLogger())

	err := svc.SoftDelete(context.Background(), "user-1", "task-1")
	assert.NoError(t, err)

	repo.AssertExpectations(t)
}

func TestTaskService_Get_NotFoundPassthrough(t *testing.T) {
	repo := new(TaskRepoMock)
	repo.On("GetTask", mock.Anything, "user-1", "task-1").
		Return(nil, storage.ErrTaskNotFound).Once()

	svc := services.NewTaskService(repo, newNoopLogger())

	task, err := svc.Get(context.Background(), "user-1", "task-1")
	assert.ErrorIs(t, err, storage.ErrTaskNotFound)
	assert.Nil(t, task)

	repo.AssertExpectations(t)
}

package models

import "time"

// Статусы задачи.
const (
	StatusPending   = "pending"
	StatusCompleted = "completed"
	StatusDeleted   = "deleted"
)

// TaskForm — входные данные форм создания и редактирования задачи.
// Срок передается строкой в формате 2006-01-02, пустая строка — без срока.
type TaskForm struct {
	Title       string `validate:"required,max=100"`
	Description string `validate:"max=500"`
	DueDate     string `validate:"omitempty,datetime=2006-01-02"`
	Status      string `validate:"omitempty,oneof=pending completed"`
}

// Task представляет задачу пользователя.
type Task struct {
	ID          string     // Уникальный идентификатор задачи
	UserUID     string     // Идентификатор владельца
	Title       string     // Заголовок, обязателен, не более 100 символов
	Description string     // Описание, не более 500 символов
	Status      string     // pending, completed или deleted
	DueDate     *time.Time // Срок выполнения, опционален
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

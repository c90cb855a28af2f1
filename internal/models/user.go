// Package models содержит доменные модели приложения: пользователей,
// задачи и аутентифицированного принципала запроса.
package models

import "time"

// User представляет зарегистрированного пользователя системы.
type User struct {
	UID          string    // Уникальный идентификатор пользователя
	Email        string    // Электронная почта, нормализованная к нижнему регистру
	Name         string    // Отображаемое имя
	PasswordHash string    // Хэш пароля, не покидает границу хранилища и аутентификации
	CreatedAt    time.Time // Дата регистрации
}

// Principal — аутентифицированная личность, привязанная к одному запросу.
// Не содержит парольного материала и не сохраняется отдельно от сессии.
type Principal struct {
	UID   string
	Email string
	Name  string
}

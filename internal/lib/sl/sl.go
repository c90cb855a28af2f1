// Package sl содержит помощники для структурированных атрибутов slog,
// общие для обработчиков и сервисов приложения.
package sl

import "log/slog"

// Err оборачивает ошибку в атрибут лога с ключом "error",
// чтобы записи об ошибках выглядели единообразно во всех пакетах.
func Err(err error) slog.Attr {
	return slog.Attr{
		Key:   "error",
		Value: slog.StringValue(err.Error()),
	}
}

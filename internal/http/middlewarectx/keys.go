// Package middlewarectx содержит HTTP middleware приложения: восстановление
// принципала из сессионной cookie, охрану маршрутов, подмену метода для HTML-форм
// и ограничение частоты запросов.
package middlewarectx

import (
	"context"

	"github.com/magabrotheeeer/task-tracker/internal/models"
)

// Key тип для ключей контекста HTTP-запроса.
type Key string

const (
	// PrincipalKey — ключ для аутентифицированного принципала в контексте.
	PrincipalKey Key = "principal"
	// TokenKey — ключ для токена сессии в контексте.
	TokenKey Key = "session_token"
)

// Principal возвращает принципала текущего запроса или nil.
func Principal(ctx context.Context) *models.Principal {
	principal, _ := ctx.Value(PrincipalKey).(*models.Principal)
	return principal
}

// Token возвращает токен сессии текущего запроса или пустую строку.
func Token(ctx context.Context) string {
	token, _ := ctx.Value(TokenKey).(string)
	return token
}

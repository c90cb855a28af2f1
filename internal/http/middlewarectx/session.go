package middlewarectx

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/magabrotheeeer/task-tracker/internal/lib/sl"
	"github.com/magabrotheeeer/task-tracker/internal/models"
)

// SessionResolver описывает интерфейс менеджера сессий для восстановления принципала.
type SessionResolver interface {
	// TokenFrom извлекает токен сессии из cookie запроса.
	TokenFrom(r *http.Request) (string, bool)
	// Resolve возвращает принципала по токену или nil, если сессии нет.
	Resolve(ctx context.Context, token string) (*models.Principal, error)
}

// SessionMiddleware возвращает middleware, которое восстанавливает принципала
// по сессионной cookie и кладёт его вместе с токеном в контекст запроса.
// Отсутствующая или истёкшая сессия не ошибка: запрос продолжается анонимно.
func SessionMiddleware(sessions SessionResolver, log *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token, ok := sessions.TokenFrom(r)
			if !ok {
				next.ServeHTTP(w, r)
				return
			}

			ctx := context.WithValue(r.Context(), TokenKey, token)
			principal, err := sessions.Resolve(ctx, token)
			if err != nil {
				log.Error("failed to resolve session", sl.Err(err))
			}
			if principal != nil {
				ctx = context.WithValue(ctx, PrincipalKey, principal)
			}
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

package middlewarectx

import (
	"net/http"
)

// Flasher добавляет одноразовое уведомление к сессии текущего запроса.
type Flasher interface {
	Flash(w http.ResponseWriter, r *http.Request, kind, message string)
}

// RequireAuth пропускает запрос только при наличии принципала,
// иначе перенаправляет на страницу входа с уведомлением.
// Состояние сессии и пользователя при этом не меняется.
func RequireAuth(sessions Flasher) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if Principal(r.Context()) == nil {
				sessions.Flash(w, r, "error", "Please log in to view that resource")
				http.Redirect(w, r, "/auth/login", http.StatusSeeOther)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

// RedirectIfAuth уводит аутентифицированного пользователя со страниц
// входа и регистрации на список задач.
func RedirectIfAuth() func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if Principal(r.Context()) != nil {
				http.Redirect(w, r, "/tasks", http.StatusSeeOther)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

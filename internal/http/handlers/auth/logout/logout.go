// Package logout реализует HTTP-обработчик выхода пользователя:
// уничтожение серверной сессии и очистку cookie.
package logout

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/middleware"

	"github.com/magabrotheeeer/task-tracker/internal/http/middlewarectx"
	"github.com/magabrotheeeer/task-tracker/internal/lib/sl"
)

// Sessions описывает интерфейс менеджера сессий, нужный при выходе.
type Sessions interface {
	Destroy(ctx context.Context, token string) error
	ClearCookie(w http.ResponseWriter)
	Flash(w http.ResponseWriter, r *http.Request, kind, message string)
}

// Handler обрабатывает HTTP-запросы на выход.
type Handler struct {
	log      *slog.Logger
	sessions Sessions
}

// New создает новый Handler с переданными зависимостями.
func New(log *slog.Logger, sessions Sessions) *Handler {
	return &Handler{
		log:      log,
		sessions: sessions,
	}
}

func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.auth.logout"
	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	if token := middlewarectx.Token(r.Context()); token != "" {
		if err := h.sessions.Destroy(r.Context(), token); err != nil {
			log.Error("failed to destroy session", sl.Err(err))
		}
	}
	h.sessions.ClearCookie(w)

	h.sessions.Flash(w, r, "success", "You are logged out")
	http.Redirect(w, r, "/", http.StatusSeeOther)
}

// Package remove реализует HTTP-обработчик мягкого удаления задачи.
// Запись помечается удалённой и исчезает из списков; окончательное
// удаление выполняет фоновая очистка по истечении окна хранения.
package remove

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi"
	"github.com/go-chi/chi/middleware"

	"github.com/magabrotheeeer/task-tracker/internal/http/middlewarectx"
	"github.com/magabrotheeeer/task-tracker/internal/http/views"
	"github.com/magabrotheeeer/task-tracker/internal/lib/sl"
	"github.com/magabrotheeeer/task-tracker/internal/storage"
)

// Service описывает интерфейс бизнес-логики удаления задачи.
type Service interface {
	SoftDelete(ctx context.Context, userUID, taskID string) error
}

// Sessions описывает интерфейс менеджера сессий для flash-уведомлений.
type Sessions interface {
	Flash(w http.ResponseWriter, r *http.Request, kind, message string)
}

// Handler обрабатывает HTTP-запросы на удаление задач.
type Handler struct {
	log      *slog.Logger
	service  Service
	sessions Sessions
	views    *views.View
}

// New создает новый Handler с переданными зависимостями.
func New(log *slog.Logger, service Service, sessions Sessions, v *views.View) *Handler {
	return &Handler{
		log:      log,
		service:  service,
		sessions: sessions,
		views:    v,
	}
}

func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.task.remove"
	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	principal := middlewarectx.Principal(r.Context())
	taskID := chi.URLParam(r, "id")

	if err := h.service.SoftDelete(r.Context(), principal.UID, taskID); err != nil {
		if errors.Is(err, storage.ErrTaskNotFound) {
			h.sessions.Flash(w, r, "error", "Task not found")
			http.Redirect(w, r, "/tasks", http.StatusSeeOther)
			return
		}
		log.Error("failed to delete task", sl.Err(err))
		h.views.RenderError(w, r)
		return
	}

	log.Info("task soft-deleted", slog.String("id", taskID))
	h.sessions.Flash(w, r, "success", "Task deleted successfully")
	http.Redirect(w, r, "/tasks", http.StatusSeeOther)
}

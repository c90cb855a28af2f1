// Package editform реализует HTTP-обработчик отображения формы редактирования задачи.
package editform

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
	"github.com/magabrotheeeer/task-tracker/internal/models"
	"github.com/magabrotheeeer/task-tracker/internal/storage"
)

// Service описывает интерфейс получения задачи владельца.
type Service interface {
	Get(ctx context.Context, userUID, taskID string) (*models.Task, error)
}

// Sessions описывает интерфейс менеджера сессий для flash-уведомлений.
type Sessions interface {
	Flash(w http.ResponseWriter, r *http.Request, kind, message string)
}

// Handler отдаёт страницу редактирования задачи.
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
	const op = "handlers.task.editform"
	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	principal := middlewarectx.Principal(r.Context())
	taskID := chi.URLParam(r, "id")

	task, err := h.service.Get(r.Context(), principal.UID, taskID)
	if err != nil {
		if errors.Is(err, storage.ErrTaskNotFound) {
			h.sessions.Flash(w, r, "error", "Task not found")
			http.Redirect(w, r, "/tasks", http.StatusSeeOther)
			return
		}
		log.Error("failed to fetch task", sl.Err(err))
		h.views.RenderError(w, r)
		return
	}

	h.views.Render(w, r, views.PageTasksEdit, http.StatusOK, task)
}

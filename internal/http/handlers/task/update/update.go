// Package update реализует HTTP-обработчик редактирования задачи.
//
// Несуществующая и чужая задача дают одинаковый ответ «Task not found»,
// чтобы не подтверждать существование чужих записей.
package update

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi"
	"github.com/go-chi/chi/middleware"
	"github.com/go-playground/validator/v10"

	"github.com/magabrotheeeer/task-tracker/internal/http/middlewarectx"
	"github.com/magabrotheeeer/task-tracker/internal/http/response"
	"github.com/magabrotheeeer/task-tracker/internal/http/views"
	"github.com/magabrotheeeer/task-tracker/internal/lib/sl"
	"github.com/magabrotheeeer/task-tracker/internal/models"
	"github.com/magabrotheeeer/task-tracker/internal/storage"
)

// Service описывает интерфейс бизнес-логики редактирования задачи.
type Service interface {
	Update(ctx context.Context, userUID, taskID string, req models.TaskForm) error
}

// Sessions описывает интерфейс менеджера сессий для flash-уведомлений.
type Sessions interface {
	Flash(w http.ResponseWriter, r *http.Request, kind, message string)
}

// Handler обрабатывает HTTP-запросы на редактирование задач.
type Handler struct {
	log      *slog.Logger
	service  Service
	sessions Sessions
	views    *views.View
	validate *validator.Validate
}

// New создает новый Handler с переданными зависимостями.
func New(log *slog.Logger, service Service, sessions Sessions, v *views.View) *Handler {
	return &Handler{
		log:      log,
		service:  service,
		sessions: sessions,
		views:    v,
		validate: validator.New(),
	}
}

func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.task.update"
	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	taskID := chi.URLParam(r, "id")

	if err := r.ParseForm(); err != nil {
		log.Error("failed to parse form", sl.Err(err))
		h.sessions.Flash(w, r, "error", "invalid request")
		http.Redirect(w, r, "/tasks/"+taskID+"/edit", http.StatusSeeOther)
		return
	}

	req := models.TaskForm{
		Title:       r.PostFormValue("title"),
		Description: r.PostFormValue("description"),
		DueDate:     r.PostFormValue("due_date"),
		Status:      r.PostFormValue("status"),
	}
	if err := h.validate.Struct(req); err != nil {
		log.Error("validation failed", sl.Err(err))
		h.sessions.Flash(w, r, "error", response.ValidationMessage(err.(validator.ValidationErrors)))
		http.Redirect(w, r, "/tasks/"+taskID+"/edit", http.StatusSeeOther)
		return
	}

	principal := middlewarectx.Principal(r.Context())
	if err := h.service.Update(r.Context(), principal.UID, taskID, req); err != nil {
		if errors.Is(err, storage.ErrTaskNotFound) {
			h.sessions.Flash(w, r, "error", "Task not found")
			http.Redirect(w, r, "/tasks", http.StatusSeeOther)
			return
		}
		log.Error("failed to update task", sl.Err(err))
		h.views.RenderError(w, r)
		return
	}

	log.Info("task updated", slog.String("id", taskID))
	h.sessions.Flash(w, r, "success", "Task updated successfully")
	http.Redirect(w, r, "/tasks", http.StatusSeeOther)
}

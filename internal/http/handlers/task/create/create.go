// Package create реализует HTTP-обработчик создания новой задачи.
//
// Handler принимает данные формы, валидирует их и вызывает бизнес-логику
// создания задачи для текущего принципала. Ошибки валидации возвращают
// пользователя на форму с уведомлением.
package create

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/middleware"
	"github.com/go-playground/validator/v10"

	"github.com/magabrotheeeer/task-tracker/internal/http/middlewarectx"
	"github.com/magabrotheeeer/task-tracker/internal/http/response"
	"github.com/magabrotheeeer/task-tracker/internal/http/views"
	"github.com/magabrotheeeer/task-tracker/internal/lib/sl"
	"github.com/magabrotheeeer/task-tracker/internal/models"
)

// Service описывает интерфейс бизнес-логики создания задачи.
type Service interface {
	Create(ctx context.Context, userUID string, req models.TaskForm) (*models.Task, error)
}

// Sessions описывает интерфейс менеджера сессий для flash-уведомлений.
type Sessions interface {
	Flash(w http.ResponseWriter, r *http.Request, kind, message string)
}

// Handler обрабатывает HTTP-запросы на создание задач.
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
	const op = "handlers.task.create"
	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	if err := r.ParseForm(); err != nil {
		log.Error("failed to parse form", sl.Err(err))
		h.sessions.Flash(w, r, "error", "invalid request")
		http.Redirect(w, r, "/tasks/new", http.StatusSeeOther)
		return
	}

	req := models.TaskForm{
		Title:       r.PostFormValue("title"),
		Description: r.PostFormValue("description"),
		DueDate:     r.PostFormValue("due_date"),
	}
	if err := h.validate.Struct(req); err != nil {
		log.Error("validation failed", sl.Err(err))
		h.sessions.Flash(w, r, "error", response.ValidationMessage(err.(validator.ValidationErrors)))
		http.Redirect(w, r, "/tasks/new", http.StatusSeeOther)
		return
	}

	principal := middlewarectx.Principal(r.Context())
	task, err := h.service.Create(r.Context(), principal.UID, req)
	if err != nil {
		log.Error("failed to create task", sl.Err(err))
		h.views.RenderError(w, r)
		return
	}

	log.Info("task created", slog.String("id", task.ID))
	h.sessions.Flash(w, r, "success", "Task created successfully")
	http.Redirect(w, r, "/tasks", http.StatusSeeOther)
}

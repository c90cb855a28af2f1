// Package status реализует HTTP-обработчик смены статуса задачи
// между pending и completed.
package status

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
	"github.com/magabrotheeeer/task-tracker/internal/storage"
)

// Request — структура входных данных формы смены статуса.
type Request struct {
	Status string `validate:"required,oneof=pending completed"`
}

// Service описывает интерфейс бизнес-логики смены статуса задачи.
type Service interface {
	UpdateStatus(ctx context.Context, userUID, taskID, status string) error
}

// Sessions описывает интерфейс менеджера сессий для flash-уведомлений.
type Sessions interface {
	Flash(w http.ResponseWriter, r *http.Request, kind, message string)
}

// Handler обрабатывает HTTP-запросы на смену статуса задач.
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
	const op = "handlers.task.status"
	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	taskID := chi.URLParam(r, "id")

	if err := r.ParseForm(); err != nil {
		log.Error("failed to parse form", sl.Err(err))
		h.sessions.Flash(w, r, "error", "invalid request")
		http.Redirect(w, r, backTo(r), http.StatusSeeOther)
		return
	}

	req := Request{Status: r.PostFormValue("status")}
	if err := h.validate.Struct(req); err != nil {
		log.Error("validation failed", sl.Err(err))
		h.sessions.Flash(w, r, "error", response.ValidationMessage(err.(validator.ValidationErrors)))
		http.Redirect(w, r, backTo(r), http.StatusSeeOther)
		return
	}

	principal := middlewarectx.Principal(r.Context())
	if err := h.service.UpdateStatus(r.Context(), principal.UID, taskID, req.Status); err != nil {
		if errors.Is(err, storage.ErrTaskNotFound) {
			h.sessions.Flash(w, r, "error", "Task not found")
			http.Redirect(w, r, "/tasks", http.StatusSeeOther)
			return
		}
		log.Error("failed to update task status", sl.Err(err))
		h.views.RenderError(w, r)
		return
	}

	log.Info("task status updated", slog.String("id", taskID), slog.String("status", req.Status))
	h.sessions.Flash(w, r, "success", "Task status updated")
	http.Redirect(w, r, "/tasks", http.StatusSeeOther)
}

// backTo возвращает страницу, с которой пришла форма, чтобы показать
// сообщение об ошибке там же; по умолчанию — список задач.
func backTo(r *http.Request) string {
	if ref := r.Referer(); ref != "" {
		return ref
	}
	return "/tasks"
}

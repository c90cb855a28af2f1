// Package list реализует HTTP-обработчик списка задач текущего пользователя
// с необязательным фильтром по статусу.
package list

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/middleware"

	"github.com/magabrotheeeer/task-tracker/internal/http/middlewarectx"
	"github.com/magabrotheeeer/task-tracker/internal/http/views"
	"github.com/magabrotheeeer/task-tracker/internal/lib/sl"
	"github.com/magabrotheeeer/task-tracker/internal/models"
)

// Service описывает интерфейс бизнес-логики списка задач.
type Service interface {
	List(ctx context.Context, userUID, statusFilter string) ([]*models.Task, error)
}

// Page — данные страницы списка задач.
type Page struct {
	Tasks        []*models.Task
	StatusFilter string
}

// Handler обрабатывает HTTP-запросы на получение списка задач.
type Handler struct {
	log     *slog.Logger
	service Service
	views   *views.View
}

// New создает новый Handler с переданными зависимостями.
func New(log *slog.Logger, service Service, v *views.View) *Handler {
	return &Handler{
		log:     log,
		service: service,
		views:   v,
	}
}

func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.task.list"
	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	principal := middlewarectx.Principal(r.Context())
	statusFilter := r.URL.Query().Get("status")

	tasks, err := h.service.List(r.Context(), principal.UID, statusFilter)
	if err != nil {
		log.Error("failed to list tasks", sl.Err(err))
		h.views.RenderError(w, r)
		return
	}

	h.views.Render(w, r, views.PageTasksIndex, http.StatusOK, Page{
		Tasks:        tasks,
		StatusFilter: statusFilter,
	})
}

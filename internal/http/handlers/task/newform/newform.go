// Package newform реализует HTTP-обработчик отображения формы создания задачи.
package newform

import (
	"net/http"

	"github.com/magabrotheeeer/task-tracker/internal/http/views"
)

// Handler отдаёт страницу создания задачи.
type Handler struct {
	views *views.View
}

// New создает новый Handler с переданным рендерером страниц.
func New(v *views.View) *Handler {
	return &Handler{views: v}
}

func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	h.views.Render(w, r, views.PageTasksNew, http.StatusOK, nil)
}

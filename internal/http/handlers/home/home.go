// Package home реализует HTTP-обработчик корневой страницы: аутентифицированный
// пользователь попадает на список задач, гость — на форму входа.
package home

import (
	"net/http"

	"github.com/magabrotheeeer/task-tracker/internal/http/middlewarectx"
)

// Handler перенаправляет с корневой страницы.
type Handler struct{}

// New создает новый Handler.
func New() *Handler {
	return &Handler{}
}

func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if middlewarectx.Principal(r.Context()) != nil {
		http.Redirect(w, r, "/tasks", http.StatusSeeOther)
		return
	}
	http.Redirect(w, r, "/auth/login", http.StatusSeeOther)
}

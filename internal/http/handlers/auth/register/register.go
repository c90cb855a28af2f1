// Package register реализует HTTP-обработчик регистрации пользователя.
//
// Обработчик валидирует данные формы, создаёт пользователя через сервис
// аутентификации и перенаправляет на форму входа. Конфликт email
// превращается в redirect обратно на форму регистрации с уведомлением.
package register

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/middleware"
	"github.com/go-playground/validator/v10"

	"github.com/magabrotheeeer/task-tracker/internal/http/response"
	"github.com/magabrotheeeer/task-tracker/internal/http/views"
	"github.com/magabrotheeeer/task-tracker/internal/lib/sl"
	"github.com/magabrotheeeer/task-tracker/internal/storage"
)

// Request — структура входных данных формы регистрации.
type Request struct {
	Name     string `validate:"required,min=2"`
	Email    string `validate:"required,email"`
	Password string `validate:"required,min=6"`
}

// Service описывает интерфейс бизнес-логики регистрации.
type Service interface {
	Register(ctx context.Context, email, name, rawPassword string) (string, error)
}

// Sessions описывает интерфейс менеджера сессий для flash-уведомлений.
type Sessions interface {
	Flash(w http.ResponseWriter, r *http.Request, kind, message string)
}

// Handler обрабатывает HTTP-запросы на регистрацию.
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
	const op = "handlers.auth.register"
	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	if err := r.ParseForm(); err != nil {
		log.Error("failed to parse form", sl.Err(err))
		h.sessions.Flash(w, r, "error", "invalid request")
		http.Redirect(w, r, "/auth/register", http.StatusSeeOther)
		return
	}

	req := Request{
		Name:     r.PostFormValue("name"),
		Email:    r.PostFormValue("email"),
		Password: r.PostFormValue("password"),
	}
	if err := h.validate.Struct(req); err != nil {
		log.Error("validation failed", sl.Err(err))
		h.sessions.Flash(w, r, "error", response.ValidationMessage(err.(validator.ValidationErrors)))
		http.Redirect(w, r, "/auth/register", http.StatusSeeOther)
		return
	}

	if _, err := h.service.Register(r.Context(), req.Email, req.Name, req.Password); err != nil {
		if errors.Is(err, storage.ErrEmailTaken) {
			h.sessions.Flash(w, r, "error", "Email already exists")
			http.Redirect(w, r, "/auth/register", http.StatusSeeOther)
			return
		}
		log.Error("registration failed", sl.Err(err))
		h.views.RenderError(w, r)
		return
	}

	h.sessions.Flash(w, r, "success", "You are now registered and can log in")
	http.Redirect(w, r, "/auth/login", http.StatusSeeOther)
}

// Package login реализует HTTP-обработчик входа пользователя.
//
// Обработчик принимает данные формы, валидирует их, проверяет учётные
// данные через сервис аутентификации и при успехе создаёт серверную сессию,
// выставляя её токен в cookie. Любой отказ превращается в redirect на форму
// входа с одноразовым уведомлением; причина отказа не раскрывает,
// существует ли учётная запись.
package login

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/middleware"
	"github.com/go-playground/validator/v10"

	"github.com/magabrotheeeer/task-tracker/internal/http/middlewarectx"
	"github.com/magabrotheeeer/task-tracker/internal/http/response"
	"github.com/magabrotheeeer/task-tracker/internal/http/views"
	"github.com/magabrotheeeer/task-tracker/internal/lib/sl"
	"github.com/magabrotheeeer/task-tracker/internal/models"
	authservice "github.com/magabrotheeeer/task-tracker/internal/services/auth"
)

// Request — структура входных данных формы входа.
type Request struct {
	Email    string `validate:"required,email"`
	Password string `validate:"required"`
}

// Service описывает интерфейс бизнес-логики аутентификации.
type Service interface {
	Authenticate(ctx context.Context, email, rawPassword string) (*models.Principal, error)
}

// Sessions описывает интерфейс менеджера сессий, нужный при входе.
type Sessions interface {
	Create(ctx context.Context, principal *models.Principal) (string, error)
	Destroy(ctx context.Context, token string) error
	AddFlash(ctx context.Context, token, kind, message string) error
	SetCookie(w http.ResponseWriter, token string)
	Flash(w http.ResponseWriter, r *http.Request, kind, message string)
}

// Handler обрабатывает HTTP-запросы на вход.
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
	const op = "handlers.auth.login"
	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	if err := r.ParseForm(); err != nil {
		log.Error("failed to parse form", sl.Err(err))
		h.sessions.Flash(w, r, "error", "invalid request")
		http.Redirect(w, r, "/auth/login", http.StatusSeeOther)
		return
	}

	req := Request{
		Email:    r.PostFormValue("email"),
		Password: r.PostFormValue("password"),
	}
	if err := h.validate.Struct(req); err != nil {
		log.Error("validation failed", sl.Err(err))
		h.sessions.Flash(w, r, "error", response.ValidationMessage(err.(validator.ValidationErrors)))
		http.Redirect(w, r, "/auth/login", http.StatusSeeOther)
		return
	}

	principal, err := h.service.Authenticate(r.Context(), req.Email, req.Password)
	if err != nil {
		if errors.Is(err, authservice.ErrInvalidCredentials) {
			h.sessions.Flash(w, r, "error", "Invalid email or password")
			http.Redirect(w, r, "/auth/login", http.StatusSeeOther)
			return
		}
		log.Error("login failed", sl.Err(err))
		h.views.RenderError(w, r)
		return
	}

	// Старая сессия уничтожается, токен меняется при каждом входе.
	if oldToken := middlewarectx.Token(r.Context()); oldToken != "" {
		if err := h.sessions.Destroy(r.Context(), oldToken); err != nil {
			log.Warn("failed to destroy previous session", sl.Err(err))
		}
	}

	token, err := h.sessions.Create(r.Context(), principal)
	if err != nil {
		log.Error("failed to create session", sl.Err(err))
		h.views.RenderError(w, r)
		return
	}
	if err := h.sessions.AddFlash(r.Context(), token, "success", "Welcome back!"); err != nil {
		log.Warn("failed to add flash", sl.Err(err))
	}
	h.sessions.SetCookie(w, token)

	log.Info("login success", slog.String("email", principal.Email))
	http.Redirect(w, r, "/tasks", http.StatusSeeOther)
}

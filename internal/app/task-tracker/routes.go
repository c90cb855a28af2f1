// Package tasktracker предоставляет маршруты для основного приложения.
package tasktracker

import (
	"log/slog"

	"github.com/go-chi/chi"
	"github.com/go-chi/chi/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/magabrotheeeer/task-tracker/internal/http/handlers/auth/login"
	"github.com/magabrotheeeer/task-tracker/internal/http/handlers/auth/loginform"
	"github.com/magabrotheeeer/task-tracker/internal/http/handlers/auth/logout"
	"github.com/magabrotheeeer/task-tracker/internal/http/handlers/auth/register"
	"github.com/magabrotheeeer/task-tracker/internal/http/handlers/auth/registerform"
	"github.com/magabrotheeeer/task-tracker/internal/http/handlers/health"
	"github.com/magabrotheeeer/task-tracker/internal/http/handlers/home"
	"github.com/magabrotheeeer/task-tracker/internal/http/handlers/task/create"
	"github.com/magabrotheeeer/task-tracker/internal/http/handlers/task/editform"
	"github.com/magabrotheeeer/task-tracker/internal/http/handlers/task/list"
	"github.com/magabrotheeeer/task-tracker/internal/http/handlers/task/newform"
	"github.com/magabrotheeeer/task-tracker/internal/http/handlers/task/remove"
	"github.com/magabrotheeeer/task-tracker/internal/http/handlers/task/status"
	"github.com/magabrotheeeer/task-tracker/internal/http/handlers/task/update"
	"github.com/magabrotheeeer/task-tracker/internal/http/middlewarectx"
	"github.com/magabrotheeeer/task-tracker/internal/http/views"
	authservice "github.com/magabrotheeeer/task-tracker/internal/services/auth"
	taskservice "github.com/magabrotheeeer/task-tracker/internal/services/task"
	"github.com/magabrotheeeer/task-tracker/internal/session"
)

// RegisterRoutes регистрирует все маршруты приложения.
func RegisterRoutes(r chi.Router, logger *slog.Logger, sessions *session.Manager,
	v *views.View, authService *authservice.AuthService, taskService *taskservice.TaskService) {
	// Глобальные middleware
	r.Use(
		middleware.RequestID,
		middleware.Logger,
		middleware.Recoverer,
		middleware.URLFormat,
	)
	r.Use(middlewarectx.RateLimitMiddleware(logger))
	r.Use(middlewarectx.MethodOverride)
	r.Use(middlewarectx.SessionMiddleware(sessions, logger))

	r.Get("/", home.New().ServeHTTP)

	r.Route("/auth", func(r chi.Router) {
		// Аутентифицированный пользователь попадает сразу в список задач
		r.Group(func(r chi.Router) {
			r.Use(middlewarectx.RedirectIfAuth())
			r.Get("/login", loginform.New(v).ServeHTTP)
			r.Post("/login", login.New(logger, authService, sessions, v).ServeHTTP)
			r.Get("/register", registerform.New(v).ServeHTTP)
			r.Post("/register", register.New(logger, authService, sessions, v).ServeHTTP)
		})

		r.Get("/logout", logout.New(logger, sessions).ServeHTTP)
	})

	// Группа с обязательной сессией
	r.Route("/tasks", func(r chi.Router) {
		r.Use(middlewarectx.RequireAuth(sessions))
		r.Get("/", list.New(logger, taskService, v).ServeHTTP)
		r.Post("/", create.New(logger, taskService, sessions, v).ServeHTTP)
		r.Get("/new", newform.New(v).ServeHTTP)
		r.Get("/{id}/edit", editform.New(logger, taskService, sessions, v).ServeHTTP)
		r.Put("/{id}", update.New(logger, taskService, sessions, v).ServeHTTP)
		r.Put("/{id}/status", status.New(logger, taskService, sessions, v).ServeHTTP)
		r.Delete("/{id}", remove.New(logger, taskService, sessions, v).ServeHTTP)
	})

	r.Get("/healthz", health.New(logger).ServeHTTP)
	r.Handle("/metrics", promhttp.Handler())

	r.NotFound(v.RenderNotFound)
}

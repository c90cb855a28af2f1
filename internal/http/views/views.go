// Package views отвечает за серверный рендеринг HTML-страниц.
// Шаблоны встраиваются в бинарник; каждая страница собирается из общего
// макета и собственного блока содержимого. При рендере в макет передаются
// текущий принципал и одноразовые flash-уведомления сессии.
package views

import (
	"bytes"
	"context"
	"embed"
	"html/template"
	"log/slog"
	"net/http"
	"time"

	"github.com/magabrotheeeer/task-tracker/internal/http/middlewarectx"
	"github.com/magabrotheeeer/task-tracker/internal/lib/sl"
	"github.com/magabrotheeeer/task-tracker/internal/models"
	"github.com/magabrotheeeer/task-tracker/internal/session"
)

//go:embed templates/*.html
var files embed.FS

// Страницы приложения.
const (
	PageLogin      = "login"
	PageRegister   = "register"
	PageTasksIndex = "tasks_index"
	PageTasksNew   = "tasks_new"
	PageTasksEdit  = "tasks_edit"
	PageNotFound   = "404"
	PageError      = "500"
)

var pages = []string{
	PageLogin, PageRegister, PageTasksIndex, PageTasksNew, PageTasksEdit,
	PageNotFound, PageError,
}

// FlashSource описывает интерфейс менеджера сессий для выборки flash-уведомлений.
type FlashSource interface {
	TokenFrom(r *http.Request) (string, bool)
	PopFlashes(ctx context.Context, token string) ([]session.Flash, error)
}

// View рендерит страницы приложения.
type View struct {
	templates map[string]*template.Template
	sessions  FlashSource
	log       *slog.Logger
}

// Data — контекст рендера, доступный макету и странице.
type Data struct {
	User    *models.Principal
	Flashes []session.Flash
	Payload any
}

var funcs = template.FuncMap{
	"date": func(t *time.Time) string {
		if t == nil {
			return ""
		}
		return t.Format("02 Jan 2006")
	},
	"datevalue": func(t *time.Time) string {
		if t == nil {
			return ""
		}
		return t.Format("2006-01-02")
	},
}

// New разбирает встроенные шаблоны и возвращает готовый View.
func New(sessions FlashSource, log *slog.Logger) (*View, error) {
	templates := make(map[string]*template.Template, len(pages))
	for _, page := range pages {
		tmpl, err := template.New("layout.html").Funcs(funcs).ParseFS(files,
			"templates/layout.html", "templates/"+page+".html")
		if err != nil {
			return nil, err
		}
		templates[page] = tmpl
	}
	return &View{
		templates: templates,
		sessions:  sessions,
		log:       log,
	}, nil
}

// Render отдаёт страницу с указанным статусом. Принципал берётся из контекста
// запроса, flash-уведомления забираются из сессии и показываются один раз.
// Ошибка рендера не раскрывается клиенту.
func (v *View) Render(w http.ResponseWriter, r *http.Request, page string, status int, payload any) {
	data := Data{
		User:    middlewarectx.Principal(r.Context()),
		Payload: payload,
	}
	if token, ok := v.sessions.TokenFrom(r); ok {
		flashes, err := v.sessions.PopFlashes(r.Context(), token)
		if err != nil {
			v.log.Warn("failed to pop flashes", sl.Err(err))
		}
		data.Flashes = flashes
	}

	tmpl, ok := v.templates[page]
	if !ok {
		v.log.Error("unknown page", slog.String("page", page))
		http.Error(w, "internal server error", http.StatusInternalServerError)
		return
	}

	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, data); err != nil {
		v.log.Error("failed to render page", slog.String("page", page), sl.Err(err))
		http.Error(w, "internal server error", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	_, _ = buf.WriteTo(w)
}

// RenderError отдаёт общую страницу ошибки, не раскрывая деталей сбоя.
func (v *View) RenderError(w http.ResponseWriter, r *http.Request) {
	v.Render(w, r, PageError, http.StatusInternalServerError, nil)
}

// RenderNotFound отдаёт страницу 404.
func (v *View) RenderNotFound(w http.ResponseWriter, r *http.Request) {
	v.Render(w, r, PageNotFound, http.StatusNotFound, nil)
}

package tasktracker

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/go-chi/chi"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/magabrotheeeer/task-tracker/internal/config"
	"github.com/magabrotheeeer/task-tracker/internal/http/views"
	"github.com/magabrotheeeer/task-tracker/internal/models"
	authservice "github.com/magabrotheeeer/task-tracker/internal/services/auth"
	taskservice "github.com/magabrotheeeer/task-tracker/internal/services/task"
	"github.com/magabrotheeeer/task-tracker/internal/session"
)

// memoryStore — хранилище сессий в памяти для маршрутных тестов.
type memoryStore struct {
	mu     sync.Mutex
	values map[string][]byte
}

func newMemoryStore() *memoryStore {
	return &memoryStore{values: make(map[string][]byte)}
}

func (s *memoryStore) Get(_ context.Context, key string, result any) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	data, ok := s.values[key]
	if !ok {
		return false, nil
	}
	return true, json.Unmarshal(data, result)
}

func (s *memoryStore) Set(_ context.Context, key string, value any, _ time.Duration) error {
	data, err := json.Marshal(value)
	if err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.values[key] = data
	return nil
}

func (s *memoryStore) Del(_ context.Context, key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.values, key)
	return nil
}

func newTestRouter(t *testing.T) (chi.Router, *session.Manager) {
	t.Helper()

	logger := slog.New(slog.NewTextHandler(io.Discard, &slog.HandlerOptions{}))
	sessions := session.NewManager(newMemoryStore(), logger, config.Session{
		CookieName:    "session_id",
		TTL:           336 * time.Hour,
		TouchInterval: 24 * time.Hour,
	}, false)

	v, err := views.New(sessions, logger)
	require.NoError(t, err)

	router := chi.NewRouter()
	RegisterRoutes(router, logger, sessions, v,
		authservice.NewAuthService(nil, logger),
		taskservice.NewTaskService(nil, logger))
	return router, sessions
}

func TestRoutes_LogoutTerminatesSession(t *testing.T) {
	router, sessions := newTestRouter(t)

	token, err := sessions.Create(context.Background(),
		&models.Principal{UID: "uid-1", Email: "user@example.com", Name: "User"})
	require.NoError(t, err)

	// ссылка Logout в навигации выполняет обычный GET
	req := httptest.NewRequest(http.MethodGet, "/auth/logout", nil)
	req.AddCookie(&http.Cookie{Name: "session_id", Value: token})

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusSeeOther, rec.Code)
	assert.Equal(t, "/", rec.Header().Get("Location"))

	principal, err := sessions.Resolve(context.Background(), token)
	require.NoError(t, err)
	assert.Nil(t, principal, "session must be destroyed after logout")
}

func TestRoutes_TasksRequireSessionAfterLogout(t *testing.T) {
	router, sessions := newTestRouter(t)

	token, err := sessions.Create(context.Background(),
		&models.Principal{UID: "uid-1", Email: "user@example.com", Name: "User"})
	require.NoError(t, err)

	logoutReq := httptest.NewRequest(http.MethodGet, "/auth/logout", nil)
	logoutReq.AddCookie(&http.Cookie{Name: "session_id", Value: token})
	router.ServeHTTP(httptest.NewRecorder(), logoutReq)

	tasksReq := httptest.NewRequest(http.MethodGet, "/tasks", nil)
	tasksReq.AddCookie(&http.Cookie{Name: "session_id", Value: token})

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, tasksReq)

	assert.Equal(t, http.StatusSeeOther, rec.Code)
	assert.Equal(t, "/auth/login", rec.Header().Get("Location"))
}

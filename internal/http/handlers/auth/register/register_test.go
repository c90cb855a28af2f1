package register

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/go-chi/chi/middleware"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/magabrotheeeer/task-tracker/internal/http/views"
	"github.com/magabrotheeeer/task-tracker/internal/session"
	"github.com/magabrotheeeer/task-tracker/internal/storage"
)

type ServiceMock struct {
	mock.Mock
}

func (m *ServiceMock) Register(ctx context.Context, email, name, rawPassword string) (string, error) {
	args := m.Called(ctx, email, name, rawPassword)
	return args.String(0), args.Error(1)
}

type SessionsMock struct {
	mock.Mock
}

func (m *SessionsMock) Flash(w http.ResponseWriter, r *http.Request, kind, message string) {
	m.Called(w, r, kind, message)
}

type flashSourceStub struct{}

func (flashSourceStub) TokenFrom(*http.Request) (string, bool) { return "", false }

func (flashSourceStub) PopFlashes(context.Context, string) ([]session.Flash, error) {
	return nil, nil
}

func newNoopLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, &slog.HandlerOptions{}))
}

func newTestViews(t *testing.T) *views.View {
	t.Helper()
	v, err := views.New(flashSourceStub{}, newNoopLogger())
	require.NoError(t, err)
	return v
}

func newFormRequest(form url.Values) *http.Request {
	req := httptest.NewRequest(http.MethodPost, "/auth/register", strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	return req.WithContext(context.WithValue(req.Context(), middleware.RequestIDKey, "reqid123"))
}

func TestRegisterHandler_ServeHTTP(t *testing.T) {
	validForm := url.Values{
		"name":     {"Alice"},
		"email":    {"alice@example.com"},
		"password": {"password123"},
	}

	tests := []struct {
		name         string
		form         url.Values
		setupMocks   func(svc *ServiceMock, sessions *SessionsMock)
		wantLocation string
	}{
		{
			name: "successful registration",
			form: validForm,
			setupMocks: func(svc *ServiceMock, sessions *SessionsMock) {
				svc.On("Register", mock.Anything, "alice@example.com", "Alice", "password123").
					Return("uid-1", nil).Once()
				sessions.On("Flash", mock.Anything, mock.Anything,
					"success", "You are now registered and can log in").Once()
			},
			wantLocation: "/auth/login",
		},
		{
			name: "email already taken",
			form: validForm,
			setupMocks: func(svc *ServiceMock, sessions *SessionsMock) {
				svc.On("Register", mock.Anything, "alice@example.com", "Alice", "password123").
					Return("", storage.ErrEmailTaken).Once()
				sessions.On("Flash", mock.Anything, mock.Anything,
					"error", "Email already exists").Once()
			},
			wantLocation: "/auth/register",
		},
		{
			name: "password too short",
			form: url.Values{
				"name":     {"Alice"},
				"email":    {"alice@example.com"},
				"password": {"123"},
			},
			setupMocks: func(_ *ServiceMock, sessions *SessionsMock) {
				sessions.On("Flash", mock.Anything, mock.Anything,
					"error", "field Password must be at least 6 characters").Once()
			},
			wantLocation: "/auth/register",
		},
		{
			name: "missing name",
			form: url.Values{
				"email":    {"alice@example.com"},
				"password": {"password123"},
			},
			setupMocks: func(_ *ServiceMock, sessions *SessionsMock) {
				sessions.On("Flash", mock.Anything, mock.Anything,
					"error", "field Name is a required field").Once()
			},
			wantLocation: "/auth/register",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := new(ServiceMock)
			sessions := new(SessionsMock)
			tt.setupMocks(svc, sessions)

			handler := New(newNoopLogger(), svc, sessions, newTestViews(t))

			rec := httptest.NewRecorder()
			handler.ServeHTTP(rec, newFormRequest(tt.form))

			assert.Equal(t, http.StatusSeeOther, rec.Code)
			assert.Equal(t, tt.wantLocation, rec.Header().Get("Location"))

			svc.AssertExpectations(t)
			sessions.AssertExpectations(t)
		})
	}
}

func TestRegisterHandler_ServiceError(t *testing.T) {
	svc := new(ServiceMock)
	svc.On("Register", mock.Anything, "alice@example.com", "Alice", "password123").
		Return("", errors.New("db error")).Once()

	sessions := new(SessionsMock)

	handler := New(newNoopLogger(), svc, sessions, newTestViews(t))

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, newFormRequest(url.Values{
		"name":     {"Alice"},
		"email":    {"alice@example.com"},
		"password": {"password123"},
	}))

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	svc.AssertExpectations(t)
	sessions.AssertNotCalled(t, "Flash")
}

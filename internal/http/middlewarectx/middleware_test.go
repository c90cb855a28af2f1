package middlewarectx_test

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

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/magabrotheeeer/task-tracker/internal/http/middlewarectx"
	"github.com/magabrotheeeer/task-tracker/internal/models"
)

type SessionResolverMock struct {
	mock.Mock
}

func (m *SessionResolverMock) TokenFrom(r *http.Request) (string, bool) {
	args := m.Called(r)
	return args.String(0), args.Bool(1)
}

func (m *SessionResolverMock) Resolve(ctx context.Context, token string) (*models.Principal, error) {
	args := m.Called(ctx, token)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Principal), args.Error(1)
}

type FlasherMock struct {
	mock.Mock
}

func (m *FlasherMock) Flash(w http.ResponseWriter, r *http.Request, kind, message string) {
	m.Called(w, r, kind, message)
}

func newNoopLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, &slog.HandlerOptions{}))
}

func TestSessionMiddleware_ResolvesPrincipal(t *testing.T) {
	principal := &models.Principal{UID: "uid-1", Email: "a@b.com"}

	sessions := new(SessionResolverMock)
	sessions.On("TokenFrom", mock.Anything).Return("token-123", true).Once()
	sessions.On("Resolve", mock.Anything, "token-123").Return(principal, nil).Once()

	var gotPrincipal *models.Principal
	var gotToken string
	next := http.HandlerFunc(func(_ http.ResponseWriter, r *http.Request) {
		gotPrincipal = middlewarectx.Principal(r.Context())
		gotToken = middlewarectx.Token(r.Context())
	})

	handler := middlewarectx.SessionMiddleware(sessions, newNoopLogger())(next)
	handler.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/tasks", nil))

	assert.Equal(t, principal, gotPrincipal)
	assert.Equal(t, "token-123", gotToken)
	sessions.AssertExpectations(t)
}

func TestSessionMiddleware_NoCookiePassesThroughAnonymously(t *testing.T) {
	sessions := new(SessionResolverMock)
	sessions.On("TokenFrom", mock.Anything).Return("", false).Once()

	called := false
	next := http.HandlerFunc(func(_ http.ResponseWriter, r *http.Request) {
		called = true
		assert.Nil(t, middlewarectx.Principal(r.Context()))
		assert.Empty(t, middlewarectx.Token(r.Context()))
	})

	handler := middlewarectx.SessionMiddleware(sessions, newNoopLogger())(next)
	handler.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/", nil))

	assert.True(t, called)
	sessions.AssertNotCalled(t, "Resolve")
}

func TestSessionMiddleware_ResolveErrorContinuesAnonymously(t *testing.T) {
	sessions := new(SessionResolverMock)
	sessions.On("TokenFrom", mock.Anything).Return("token-123", true).Once()
	sessions.On("Resolve", mock.Anything, "token-123").
		Return(nil, errors.New("redis down")).Once()

	called := false
	next := http.HandlerFunc(func(_ http.ResponseWriter, r *http.Request) {
		called = true
		assert.Nil(t, middlewarectx.Principal(r.Context()))
	})

	handler := middlewarectx.SessionMiddleware(sessions, newNoopLogger())(next)
	handler.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/tasks", nil))

	assert.True(t, called)
	sessions.AssertExpectations(t)
}

func TestRequireAuth_RedirectsGuestToLogin(t *testing.T) {
	flasher := new(FlasherMock)
	flasher.On("Flash", mock.Anything, mock.Anything, "error", "Please log in to view that resource").Once()

	next := http.HandlerFunc(func(_ http.ResponseWriter, _ *http.Request) {
		t.Fatal("next handler must not be called for guests")
	})

	rec := httptest.NewRecorder()
	handler := middlewarectx.RequireAuth(flasher)(next)
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/tasks", nil))

	assert.Equal(t, http.StatusSeeOther, rec.Code)
	assert.Equal(t, "/auth/login", rec.Header().Get("Location"))
	flasher.AssertExpectations(t)
}

func TestRequireAuth_PassesAuthenticated(t *testing.T) {
	flasher := new(FlasherMock)

	called := false
	next := http.HandlerFunc(func(_ http.ResponseWriter, _ *http.Request) { called = true })

	req := httptest.NewRequest(http.MethodGet, "/tasks", nil)
	ctx := context.WithValue(req.Context(), middlewarectx.PrincipalKey, &models.Principal{UID: "uid-1"})

	handler := middlewarectx.RequireAuth(flasher)(next)
	handler.ServeHTTP(httptest.NewRecorder(), req.WithContext(ctx))

	assert.True(t, called)
	flasher.AssertNotCalled(t, "Flash")
}

func TestRedirectIfAuth(t *testing.T) {
	next := http.HandlerFunc(func(_ http.ResponseWriter, _ *http.Request) {
		t.Fatal("next handler must not be called for authenticated users")
	})

	req := httptest.NewRequest(http.MethodGet, "/auth/login", nil)
	ctx := context.WithValue(req.Context(), middlewarectx.PrincipalKey, &models.Principal{UID: "uid-1"})

	rec := httptest.NewRecorder()
	handler := middlewarectx.RedirectIfAuth()(next)
	handler.ServeHTTP(rec, req.WithContext(ctx))

	assert.Equal(t, http.StatusSeeOther, rec.Code)
	assert.Equal(t, "/tasks", rec.Header().Get("Location"))
}

func TestRedirectIfAuth_GuestPassesThrough(t *testing.T) {
	called := false
	next := http.HandlerFunc(func(_ http.ResponseWriter, _ *http.Request) { called = true })

	handler := middlewarectx.RedirectIfAuth()(next)
	handler.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/auth/login", nil))

	assert.True(t, called)
}

func TestMethodOverride(t *testing.T) {
	tests := []struct {
		name       string
		method     string
		form       url.Values
		wantMethod string
	}{
		{
			name:       "post with _method=PUT",
			method:     http.MethodPost,
			form:       url.Values{"_method": {"PUT"}, "title": {"x"}},
			wantMethod: http.MethodPut,
		},
		{
			name:       "post with _method=DELETE",
			method:     http.MethodPost,
			form:       url.Values{"_method": {"DELETE"}},
			wantMethod: http.MethodDelete,
		},
		{
			name:       "post without _method",
			method:     http.MethodPost,
			form:       url.Values{"title": {"x"}},
			wantMethod: http.MethodPost,
		},
		{
			name:       "unknown override is ignored",
			method:     http.MethodPost,
			form:       url.Values{"_method": {"PATCH"}},
			wantMethod: http.MethodPost,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var gotMethod string
			next := http.HandlerFunc(func(_ http.ResponseWriter, r *http.Request) {
				gotMethod = r.Method
			})

			req := httptest.NewRequest(tt.method, "/tasks/1", strings.NewReader(tt.form.Encode()))
			req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

			middlewarectx.MethodOverride(next).ServeHTTP(httptest.NewRecorder(), req)

			assert.Equal(t, tt.wantMethod, gotMethod)
		})
	}
}

package session

import (
	"context"
	"crypto/rand"
	"encoding/base64"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/magabrotheeeer/task-tracker/internal/config"
	"github.com/magabrotheeeer/task-tracker/internal/lib/sl"
	"github.com/magabrotheeeer/task-tracker/internal/models"
)

const tokenBytes = 32

// Flash — одноразовое уведомление, показываемое при следующем рендере страницы.
type Flash struct {
	Kind    string `json:"kind"` // success или error
	Message string `json:"message"`
}

// record — сериализуемое состояние сессии. Пустой UserUID означает
// гостевую сессию, которая существует только ради flash-уведомлений.
type record struct {
	UserUID   string    `json:"user_uid,omitempty"`
	Email     string    `json:"email,omitempty"`
	Name      string    `json:"name,omitempty"`
	Flashes   []Flash   `json:"flashes,omitempty"`
	CreatedAt time.Time `json:"created_at"`
	LastTouch time.Time `json:"last_touch"`
}

// Manager управляет жизненным циклом сессий: создание, разрешение токена
// в принципала, скользящее продление TTL, уничтожение и flash-уведомления.
type Manager struct {
	store  Store
	log    *slog.Logger
	cfg    config.Session
	secure bool
	now    func() time.Time
}

// NewManager создает новый Manager поверх переданного Store.
// secure управляет флагом Secure у cookie и включается вне локальной среды.
func NewManager(store Store, log *slog.Logger, cfg config.Session, secure bool) *Manager {
	return &Manager{
		store:  store,
		log:    log,
		cfg:    cfg,
		secure: secure,
		now:    time.Now,
	}
}

// newToken возвращает криптографически стойкий непрозрачный токен сессии.
func newToken() (string, error) {
	const op = "session.newToken"
	buf := make([]byte, tokenBytes)
	if _, err := rand.Read(buf); err != nil {
		return "", fmt.Errorf("%s: %w", op, err)
	}
	return base64.RawURLEncoding.EncodeToString(buf), nil
}

func sessionKey(token string) string {
	return "session:" + token
}

// Create создает новую сессию и возвращает её токен.
// principal может быть nil — тогда создается гостевая сессия.
func (m *Manager) Create(ctx context.Context, principal *models.Principal) (string, error) {
	const op = "session.Create"
	token, err := newToken()
	if err != nil {
		return "", err
	}

	now := m.now().UTC()
	rec := record{
		CreatedAt: now,
		LastTouch: now,
	}
	if principal != nil {
		rec.UserUID = principal.UID
		rec.Email = principal.Email
		rec.Name = principal.Name
	}
	if err := m.store.Set(ctx, sessionKey(token), rec, m.cfg.TTL); err != nil {
		return "", fmt.Errorf("%s: %w", op, err)
	}
	return token, nil
}

// Resolve возвращает принципала по токену сессии. Неизвестный, истёкший
// или гостевой токен дают nil без ошибки — вызывающий код трактует
// «нет сессии» единообразно. Успешное разрешение продлевает TTL,
// но не чаще, чем раз в TouchInterval, чтобы ограничить записи.
func (m *Manager) Resolve(ctx context.Context, token string) (*models.Principal, error) {
	const op = "session.Resolve"
	var rec record
	found, err := m.store.Get(ctx, sessionKey(token), &rec)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	if !found || rec.UserUID == "" {
		return nil, nil
	}

	if err := m.touch(ctx, token, &rec); err != nil {
		m.log.Warn("failed to touch session", sl.Err(err))
	}

	return &models.Principal{
		UID:   rec.UserUID,
		Email: rec.Email,
		Name:  rec.Name,
	}, nil
}

// touch продлевает TTL сессии от текущего момента, если с последнего
// продления прошло не меньше TouchInterval.
func (m *Manager) touch(ctx context.Context, token string, rec *record) error {
	now := m.now().UTC()
	if now.Sub(rec.LastTouch) < m.cfg.TouchInterval {
		return nil
	}
	rec.LastTouch = now
	return m.store.Set(ctx, sessionKey(token), *rec, m.cfg.TTL)
}

// Destroy уничтожает сессию. Уничтожение отсутствующей сессии не ошибка.
func (m *Manager) Destroy(ctx context.Context, token string) error {
	const op = "session.Destroy"
	if err := m.store.Del(ctx, sessionKey(token)); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}

// AddFlash добавляет одноразовое уведомление в сессию.
func (m *Manager) AddFlash(ctx context.Context, token, kind, message string) error {
	const op = "session.AddFlash"
	var rec record
	found, err := m.store.Get(ctx, sessionKey(token), &rec)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	if !found {
		return fmt.Errorf("%s: session does not exist", op)
	}
	rec.Flashes = append(rec.Flashes, Flash{Kind: kind, Message: message})
	if err := m.store.Set(ctx, sessionKey(token), rec, m.cfg.TTL); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}

// PopFlashes забирает накопленные уведомления и очищает их в сессии.
// Уведомления читаются ровно один раз.
func (m *Manager) PopFlashes(ctx context.Context, token string) ([]Flash, error) {
	const op = "session.PopFlashes"
	var rec record
	found, err := m.store.Get(ctx, sessionKey(token), &rec)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	if !found || len(rec.Flashes) == 0 {
		return nil, nil
	}
	flashes := rec.Flashes
	rec.Flashes = nil
	if err := m.store.Set(ctx, sessionKey(token), rec, m.cfg.TTL); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return flashes, nil
}

// TokenFrom извлекает токен сессии из cookie запроса.
func (m *Manager) TokenFrom(r *http.Request) (string, bool) {
	cookie, err := r.Cookie(m.cfg.CookieName)
	if err != nil || cookie.Value == "" {
		return "", false
	}
	return cookie.Value, true
}

// SetCookie записывает cookie сессии: HttpOnly, SameSite=Lax,
// Secure вне локальной среды, срок жизни равен TTL сессии.
func (m *Manager) SetCookie(w http.ResponseWriter, token string) {
	http.SetCookie(w, &http.Cookie{
		Name:     m.cfg.CookieName,
		Value:    token,
		Path:     "/",
		MaxAge:   int(m.cfg.TTL.Seconds()),
		HttpOnly: true,
		Secure:   m.secure,
		SameSite: http.SameSiteLaxMode,
	})
}

// ClearCookie стирает cookie сессии у клиента.
func (m *Manager) ClearCookie(w http.ResponseWriter) {
	http.SetCookie(w, &http.Cookie{
		Name:     m.cfg.CookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   m.secure,
		SameSite: http.SameSiteLaxMode,
	})
}

// Flash добавляет уведомление к текущей сессии запроса, при необходимости
// создавая гостевую сессию и выставляя cookie. Ошибки только логируются:
// потерянное уведомление не должно ломать редирект.
func (m *Manager) Flash(w http.ResponseWriter, r *http.Request, kind, message string) {
	ctx := r.Context()
	token, ok := m.TokenFrom(r)
	if ok {
		if err := m.AddFlash(ctx, token, kind, message); err == nil {
			return
		}
	}
	token, err := m.Create(ctx, nil)
	if err != nil {
		m.log.Warn("failed to create guest session for flash", sl.Err(err))
		return
	}
	if err := m.AddFlash(ctx, token, kind, message); err != nil {
		m.log.Warn("failed to add flash", sl.Err(err))
		return
	}
	m.SetCookie(w, token)
}

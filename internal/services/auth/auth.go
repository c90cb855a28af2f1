// Package services содержит логику бизнес-уровня для регистрации и аутентификации пользователей.
package services

import (
	"context"
	"errors"
	"log/slog"
	"strings"

	"github.com/magabrotheeeer/task-tracker/internal/lib/password"
	"github.com/magabrotheeeer/task-tracker/internal/metrics"
	"github.com/magabrotheeeer/task-tracker/internal/models"
	"github.com/magabrotheeeer/task-tracker/internal/storage"
)

// ErrInvalidCredentials возвращается и для неизвестного email, и для неверного
// пароля: ответ не должен раскрывать существование учётной записи.
var ErrInvalidCredentials = errors.New("invalid credentials")

// UserRepository описывает контракт для работы с пользователями в базе данных.
type UserRepository interface {
	// CreateUser сохраняет нового пользователя и возвращает его UID.
	CreateUser(ctx context.Context, user models.User) (string, error)

	// GetUserByEmail возвращает пользователя по email или ошибку, если не найден.
	GetUserByEmail(ctx context.Context, email string) (*models.User, error)
}

// AuthService отвечает за регистрацию и проверку учётных данных.
type AuthService struct {
	users UserRepository
	log   *slog.Logger
}

// NewAuthService создает новый экземпляр AuthService.
func NewAuthService(users UserRepository, log *slog.Logger) *AuthService {
	return &AuthService{
		users: users,
		log:   log,
	}
}

// NormalizeEmail приводит идентификатор пользователя к канонической форме.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// Register создает нового пользователя с хэшированием пароля.
// Занятый email транслируется как storage.ErrEmailTaken.
func (s *AuthService) Register(ctx context.Context, email, name, rawPassword string) (string, error) {
	email = NormalizeEmail(email)
	hashed, err := password.GetHash(rawPassword)
	if err != nil {
		return "", err
	}
	user := models.User{
		Email:        email,
		Name:         name,
		PasswordHash: hashed,
	}
	uid, err := s.users.CreateUser(ctx, user)
	if err != nil {
		if errors.Is(err, storage.ErrEmailTaken) {
			s.log.Warn("registration rejected: email already taken", slog.String("email", email))
		}
		return "", err
	}
	s.log.Info("new user registered", slog.String("email", email), slog.String("uid", uid))
	return uid, nil
}

// Authenticate проверяет учётные данные и возвращает принципала.
// Причина отказа пишется в аудит-лог, но наружу уходит единая
// ErrInvalidCredentials без парольного материала.
func (s *AuthService) Authenticate(ctx context.Context, email, rawPassword string) (*models.Principal, error) {
	email = NormalizeEmail(email)

	user, err := s.users.GetUserByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, storage.ErrUserNotFound) {
			s.log.Warn("authentication failed",
				slog.String("email", email), slog.String("reason", "unknown email"))
			metrics.LoginAttempts.WithLabelValues("failure").Inc()
			return nil, ErrInvalidCredentials
		}
		return nil, err
	}
	if err := password.CompareHash(user.PasswordHash, rawPassword); err != nil {
		s.log.Warn("authentication failed",
			slog.String("email", email), slog.String("reason", "wrong password"))
		metrics.LoginAttempts.WithLabelValues("failure").Inc()
		return nil, ErrInvalidCredentials
	}

	s.log.Info("authentication success", slog.String("email", email))
	metrics.LoginAttempts.WithLabelValues("success").Inc()
	return &models.Principal{
		UID:   user.UID,
		Email: user.Email,
		Name:  user.Name,
	}, nil
}

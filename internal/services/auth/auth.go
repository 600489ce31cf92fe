// Package services содержит логику бизнес-уровня для регистрации и аутентификации.
package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/magabrotheeeer/subtrack/internal/lib/jwt"
	"github.com/magabrotheeeer/subtrack/internal/lib/password"
	"github.com/magabrotheeeer/subtrack/internal/models"
)

// ErrInvalidPassword возвращается при несовпадении пароля с хэшем.
// Сообщение отличается от "user not found", но обе ошибки отдаются
// клиенту с одинаковым статусом.
var ErrInvalidPassword = errors.New("invalid password")

// UserRepository описывает контракт для работы с пользователями в базе данных.
type UserRepository interface {
	// RegisterUser сохраняет нового пользователя в одной транзакции
	// и возвращает его вместе с присвоенным uid.
	RegisterUser(ctx context.Context, user models.User) (*models.User, error)

	// GetUserByEmail возвращает пользователя по email или ошибку, если не найден.
	GetUserByEmail(ctx context.Context, email string) (*models.User, error)
}

// AuthService отвечает за регистрацию и авторизацию пользователей.
type AuthService struct {
	users    UserRepository
	jwtMaker jwt.Maker
}

// NewAuthService создает новый экземпляр AuthService.
func NewAuthService(users UserRepository, jwtMaker jwt.Maker) *AuthService {
	return &AuthService{
		users:    users,
		jwtMaker: jwtMaker,
	}
}

// Register создает нового пользователя с хэшированием пароля и выдаёт токен.
// Дубликат email приводит к storage.ErrUserExists без побочных эффектов:
// проверка существования и вставка выполняются в одной транзакции хранилища.
func (s *AuthService) Register(ctx context.Context, name, email, rawPassword string) (*models.User, string, error) {
	const op = "services.auth.Register"

	hashed, err := password.GetHash(rawPassword)
	if err != nil {
		return nil, "", fmt.Errorf("%s: %w", op, err)
	}

	user := models.User{
		Name:         name,
		Email:        strings.ToLower(email),
		PasswordHash: hashed,
	}
	created, err := s.users.RegisterUser(ctx, user)
	if err != nil {
		return nil, "", fmt.Errorf("%s: %w", op, err)
	}

	token, err := s.jwtMaker.GenerateToken(created.UID, created.Name)
	if err != nil {
		return nil, "", fmt.Errorf("%s: %w", op, err)
	}
	return created.Public(), token, nil
}

// Login проверяет пароль пользователя и генерирует JWT.
// Любая ошибка всегда возвращается вызывающему: запрос не может
// остаться без ответа.
func (s *AuthService) Login(ctx context.Context, email, rawPassword string) (*models.User, string, error) {
	const op = "services.auth.Login"

	user, err := s.users.GetUserByEmail(ctx, email)
	if err != nil {
		return nil, "", fmt.Errorf("%s: %w", op, err)
	}
	if err = password.CompareHash(user.PasswordHash, rawPassword); err != nil {
		return nil, "", fmt.Errorf("%s: %w", op, ErrInvalidPassword)
	}

	token, err := s.jwtMaker.GenerateToken(user.UID, user.Name)
	if err != nil {
		return nil, "", fmt.Errorf("%s: %w", op, err)
	}
	return user.Public(), token, nil
}

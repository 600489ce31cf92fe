// Package middlewarectx содержит HTTP middleware для проверки JWT токенов.
//
// JWTMiddleware проверяет наличие и валидность JWT токена в заголовке
// Authorization, находит владельца токена в хранилище и в случае успеха
// добавляет в контекст идентификатор и имя пользователя для дальнейшего
// использования в обработчиках.
//
// Любая ошибка проверки возвращает HTTP 401 Unauthorized: истёкший или
// повреждённый токен внешне неотличим от отсутствующего.
package middlewarectx

import (
	"context"
	"log/slog"
	"net/http"
	"strings"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"

	"github.com/magabrotheeeer/subtrack/internal/http/response"
	"github.com/magabrotheeeer/subtrack/internal/lib/jwt"
	"github.com/magabrotheeeer/subtrack/internal/lib/sl"
	"github.com/magabrotheeeer/subtrack/internal/models"
)

// Key тип для ключей контекста HTTP-запроса.
type Key string

const (
	// UserUID — ключ для идентификатора пользователя в контексте.
	UserUID Key = "user_uid"
	// Username — ключ для имени пользователя в контексте.
	Username Key = "username"
)

// TokenParser описывает интерфейс проверки JWT токена.
type TokenParser interface {
	ParseToken(tokenStr string) (*jwt.CustomClaims, error)
}

// UserProvider возвращает пользователя по идентификатору из claims.
type UserProvider interface {
	GetUser(ctx context.Context, userUID string) (*models.User, error)
}

// JWTMiddleware возвращает HTTP middleware, который проверяет JWT в заголовке
// Authorization и существование владельца токена.
//
// Если токен валиден и пользователь существует, в контекст запроса
// добавляются его идентификатор и имя, иначе возвращается 401 Unauthorized.
// Middleware не имеет разделяемого изменяемого состояния и безопасен
// для параллельных запросов.
func JWTMiddleware(log *slog.Logger, parser TokenParser, users UserProvider) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			const op = "middlewarectx.JWTMiddleware"
			authHeader := r.Header.Get("Authorization")

			log := log.With(
				slog.String("op", op),
				slog.String("request_id", middleware.GetReqID(r.Context())),
			)

			if !strings.HasPrefix(authHeader, "Bearer ") {
				log.Error("missing or invalid authorization header")
				render.Status(r, http.StatusUnauthorized)
				render.JSON(w, r, response.Error("missing or invalid authorization header"))
				return
			}
			tokenStr := strings.TrimPrefix(authHeader, "Bearer ")

			claims, err := parser.ParseToken(tokenStr)
			if err != nil {
				log.Error("invalid or expired token", sl.Err(err))
				render.Status(r, http.StatusUnauthorized)
				render.JSON(w, r, response.Error("invalid or expired token"))
				return
			}

			user, err := users.GetUser(r.Context(), claims.UserUID)
			if err != nil {
				log.Error("token subject not found", sl.Err(err))
				render.Status(r, http.StatusUnauthorized)
				render.JSON(w, r, response.Error("user for this token no longer exists"))
				return
			}

			ctx := context.WithValue(r.Context(), UserUID, user.UID)
			ctx = context.WithValue(ctx, Username, user.Name)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

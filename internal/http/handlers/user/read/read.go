// Package read реализует HTTP-обработчик получения публичного профиля
// пользователя по его идентификатору.
package read

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi"
	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"
	"github.com/google/uuid"

	"github.com/magabrotheeeer/subtrack/internal/http/response"
	"github.com/magabrotheeeer/subtrack/internal/lib/sl"
	"github.com/magabrotheeeer/subtrack/internal/models"
	"github.com/magabrotheeeer/subtrack/internal/storage"
)

// UserProvider возвращает пользователя по идентификатору.
type UserProvider interface {
	GetUser(ctx context.Context, userUID string) (*models.User, error)
}

// Handler управляет HTTP-запросами на чтение чужого профиля.
type Handler struct {
	log   *slog.Logger
	users UserProvider
}

// New создает новый Handler с переданными логгером и провайдером пользователей.
func New(log *slog.Logger, users UserProvider) *Handler {
	return &Handler{log: log, users: users}
}

// ServeHTTP godoc
// @Summary Публичный профиль пользователя
// @Tags Users
// @Produce json
// @Security BearerAuth
// @Param id path string true "UID пользователя"
// @Success 200 {object} response.Response "Профиль пользователя без хэша пароля"
// @Failure 404 {object} response.ErrorResponse "Некорректный UID или пользователь не найден"
// @Router /users/{id} [get]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.user.read"
	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	rawUID := chi.URLParam(r, "id")
	if _, err := uuid.Parse(rawUID); err != nil {
		log.Error("invalid user uid", sl.Err(err))
		w.WriteHeader(http.StatusNotFound)
		render.JSON(w, r, response.Error("user not found"))
		return
	}

	user, err := h.users.GetUser(r.Context(), rawUID)
	if err != nil {
		if errors.Is(err, storage.ErrUserNotFound) {
			log.Error("user not found", sl.Err(err))
			w.WriteHeader(http.StatusNotFound)
			render.JSON(w, r, response.Error("user not found"))
			return
		}
		log.Error("failed to get user", sl.Err(err))
		w.WriteHeader(http.StatusInternalServerError)
		render.JSON(w, r, response.Error("failed to get user"))
		return
	}

	render.JSON(w, r, response.OKWithData("", user.Public()))
}

// Package logout реализует HTTP-обработчик выхода пользователя.
//
// Схема токенов не хранит состояние на сервере, поэтому выход сводится
// к удалению токена на клиенте. Сервер всегда отвечает успехом.
package logout

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"

	"github.com/magabrotheeeer/subtrack/internal/http/response"
)

// Handler управляет HTTP-запросами на выход.
type Handler struct {
	log *slog.Logger
}

// New создает новый Handler с переданным логгером.
func New(log *slog.Logger) *Handler {
	return &Handler{log: log}
}

// ServeHTTP godoc
// @Summary Выход пользователя
// @Description Токены без серверного состояния: клиент просто удаляет токен.
// @Tags Auth
// @Produce json
// @Success 200 {object} response.Response "Успешный выход"
// @Router /auth/sign-out [post]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.auth.logout"
	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	log.Info("user signed out")
	render.JSON(w, r, response.OK("user signed out successfully"))
}

// Package listbyuser реализует HTTP-обработчик списка подписок по ID пользователя.
//
// Запрашивать можно только собственные подписки: несовпадение идентификатора
// в пути с владельцем токена считается попыткой чужого доступа.
package listbyuser

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi"
	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"

	"github.com/magabrotheeeer/subtrack/internal/http/middlewarectx"
	"github.com/magabrotheeeer/subtrack/internal/http/response"
	"github.com/magabrotheeeer/subtrack/internal/lib/sl"
	"github.com/magabrotheeeer/subtrack/internal/models"
)

// Service описывает интерфейс бизнес-логики списка подписок.
type Service interface {
	List(ctx context.Context, userUID string) ([]*models.Subscription, error)
}

// Handler управляет HTTP-запросами на список подписок пользователя.
type Handler struct {
	log     *slog.Logger
	service Service
}

// New создает новый Handler с переданными логгером и сервисом.
func New(log *slog.Logger, service Service) *Handler {
	return &Handler{log: log, service: service}
}

// ServeHTTP godoc
// @Summary Список подписок пользователя
// @Description Доступен только владельцу: ID в пути должен совпадать с токеном.
// @Tags Subscriptions
// @Produce json
// @Security BearerAuth
// @Param id path string true "UID пользователя"
// @Success 200 {object} response.Response "Список подписок"
// @Failure 401 {object} response.ErrorResponse "Чужой идентификатор пользователя"
// @Failure 500 {object} response.ErrorResponse "Ошибка сервера"
// @Router /subscriptions/user/{id} [get]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.subscription.listbyuser"
	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	userUID, ok := r.Context().Value(middlewarectx.UserUID).(string)
	if !ok || userUID == "" {
		log.Error("user identification missing")
		w.WriteHeader(http.StatusUnauthorized)
		render.JSON(w, r, response.Error("unauthorized"))
		return
	}

	if requested := chi.URLParam(r, "id"); requested != userUID {
		log.Error("attempt to list subscriptions of another user",
			slog.String("requested", requested))
		w.WriteHeader(http.StatusUnauthorized)
		render.JSON(w, r, response.Error("you are not the owner of this account"))
		return
	}

	subs, err := h.service.List(r.Context(), userUID)
	if err != nil {
		log.Error("failed to list subscriptions", sl.Err(err))
		w.WriteHeader(http.StatusInternalServerError)
		render.JSON(w, r, response.Error("could not list subscriptions"))
		return
	}

	render.JSON(w, r, response.OKWithData("", subs))
}

package listbyuser

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/magabrotheeeer/subtrack/internal/http/middlewarectx"
	"github.com/magabrotheeeer/subtrack/internal/http/response"
	"github.com/magabrotheeeer/subtrack/internal/models"
)

type ServiceMock struct{ mock.Mock }

func (m *ServiceMock) List(ctx context.Context, userUID string) ([]*models.Subscription, error) {
	args := m.Called(ctx, userUID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.Subscription), args.Error(1)
}

func newNoopLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, &slog.HandlerOptions{}))
}

const userUID = "550e8400-e29b-41d4-a716-446655440000"

func newRequest(pathUID string, withUser bool) *http.Request {
	req := httptest.NewRequest(http.MethodGet, "/api/v1/subscriptions/user/"+pathUID, nil)

	rctx := chi.NewRouteContext()
	rctx.URLParams.Add("id", pathUID)
	ctx := context.WithValue(req.Context(), chi.RouteCtxKey, rctx)
	if withUser {
		ctx = context.WithValue(ctx, middlewarectx.UserUID, userUID)
	}
	return req.WithContext(ctx)
}

func TestListByUserHandler(t *testing.T) {
	t.Run("owner lists own subscriptions", func(t *testing.T) {
		service := new(ServiceMock)
		service.On("List", mock.Anything, userUID).
			Return([]*models.Subscription{{ID: 1, UserUID: userUID}}, nil).Once()
		handler := New(newNoopLogger(), service)

		rr := httptest.NewRecorder()
		handler.ServeHTTP(rr, newRequest(userUID, true))

		require.Equal(t, http.StatusOK, rr.Code)

		var resp response.Response
		require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &resp))
		assert.True(t, resp.Success)

		service.AssertExpectations(t)
	})

	t.Run("foreign account is rejected", func(t *testing.T) {
		service := new(ServiceMock)
		handler := New(newNoopLogger(), service)

		rr := httptest.NewRecorder()
		handler.ServeHTTP(rr, newRequest("11111111-2222-3333-4444-555555555555", true))

		require.Equal(t, http.StatusUnauthorized, rr.Code)
		assert.Contains(t, rr.Body.String(), "you are not the owner of this account")

		service.AssertExpectations(t)
	})

	t.Run("no user in context", func(t *testing.T) {
		service := new(ServiceMock)
		handler := New(newNoopLogger(), service)

		rr := httptest.NewRecorder()
		handler.ServeHTTP(rr, newRequest(userUID, false))

		require.Equal(t, http.StatusUnauthorized, rr.Code)

		service.AssertExpectations(t)
	})
}

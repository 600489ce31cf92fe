package read

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
	"github.com/magabrotheeeer/subtrack/internal/storage"
)

type ServiceMock struct{ mock.Mock }

func (m *ServiceMock) Read(ctx context.Context, userUID string, id int) (*models.Subscription, error) {
	args := m.Called(ctx, userUID, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Subscription), args.Error(1)
}

func newNoopLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, &slog.HandlerOptions{}))
}

const userUID = "550e8400-e29b-41d4-a716-446655440000"

func newRequest(id string, withUser bool) *http.Request {
	req := httptest.NewRequest(http.MethodGet, "/api/v1/subscriptions/"+id, nil)

	rctx := chi.NewRouteContext()
	rctx.URLParams.Add("id", id)
	ctx := context.WithValue(req.Context(), chi.RouteCtxKey, rctx)
	if withUser {
		ctx = context.WithValue(ctx, middlewarectx.UserUID, userUID)
	}
	return req.WithContext(ctx)
}

func TestReadHandler(t *testing.T) {
	t.Run("success", func(t *testing.T) {
		service := new(ServiceMock)
		service.On("Read", mock.Anything, userUID, 1).
			Return(&models.Subscription{ID: 1, UserUID: userUID, Name: "Netflix"}, nil).Once()
		handler := New(newNoopLogger(), service)

		rr := httptest.NewRecorder()
		handler.ServeHTTP(rr, newRequest("1", true))

		require.Equal(t, http.StatusOK, rr.Code)

		var resp response.Response
		require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &resp))
		assert.True(t, resp.Success)
		data, ok := resp.Data.(map[string]any)
		require.True(t, ok)
		assert.Equal(t, "Netflix", data["name"])

		service.AssertExpectations(t)
	})

	t.Run("not found", func(t *testing.T) {
		service := new(ServiceMock)
		service.On("Read", mock.Anything, userUID, 99).
			Return(nil, storage.ErrSubscriptionNotFound).Once()
		handler := New(newNoopLogger(), service)

		rr := httptest.NewRecorder()
		handler.ServeHTTP(rr, newRequest("99", true))

		require.Equal(t, http.StatusNotFound, rr.Code)
		assert.Contains(t, rr.Body.String(), "subscription not found")

		service.AssertExpectations(t)
	})

	t.Run("malformed id", func(t *testing.T) {
		service := new(ServiceMock)
		handler := New(newNoopLogger(), service)

		rr := httptest.NewRecorder()
		handler.ServeHTTP(rr, newRequest("abc", true))

		require.Equal(t, http.StatusNotFound, rr.Code)
		assert.Contains(t, rr.Body.String(), "subscription not found")

		service.AssertExpectations(t)
	})

	t.Run("no user in context", func(t *testing.T) {
		service := new(ServiceMock)
		handler := New(newNoopLogger(), service)

		rr := httptest.NewRecorder()
		handler.ServeHTTP(rr, newRequest("1", false))

		require.Equal(t, http.StatusUnauthorized, rr.Code)

		service.AssertExpectations(t)
	})
}

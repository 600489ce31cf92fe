package list

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

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

func newRequest(withUser bool) *http.Request {
	req := httptest.NewRequest(http.MethodGet, "/api/v1/subscriptions/", nil)
	if withUser {
		req = req.WithContext(context.WithValue(req.Context(), middlewarectx.UserUID, userUID))
	}
	return req
}

func TestListHandler(t *testing.T) {
	t.Run("success", func(t *testing.T) {
		service := new(ServiceMock)
		service.On("List", mock.Anything, userUID).
			Return([]*models.Subscription{
				{ID: 1, UserUID: userUID, Name: "Netflix"},
				{ID: 2, UserUID: userUID, Name: "Spotify"},
			}, nil).Once()
		handler := New(newNoopLogger(), service)

		rr := httptest.NewRecorder()
		handler.ServeHTTP(rr, newRequest(true))

		require.Equal(t, http.StatusOK, rr.Code)

		var resp response.Response
		require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &resp))
		assert.True(t, resp.Success)
		data, ok := resp.Data.([]any)
		require.True(t, ok)
		assert.Len(t, data, 2)

		service.AssertExpectations(t)
	})

	t.Run("storage error", func(t *testing.T) {
		service := new(ServiceMock)
		service.On("List", mock.Anything, userUID).
			Return(nil, errors.New("connection refused")).Once()
		handler := New(newNoopLogger(), service)

		rr := httptest.NewRecorder()
		handler.ServeHTTP(rr, newRequest(true))

		require.Equal(t, http.StatusInternalServerError, rr.Code)
		assert.Contains(t, rr.Body.String(), "could not list subscriptions")

		service.AssertExpectations(t)
	})

	t.Run("no user in context", func(t *testing.T) {
		service := new(ServiceMock)
		handler := New(newNoopLogger(), service)

		rr := httptest.NewRecorder()
		handler.ServeHTTP(rr, newRequest(false))

		require.Equal(t, http.StatusUnauthorized, rr.Code)

		service.AssertExpectations(t)
	})
}

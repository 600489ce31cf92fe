package login

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/magabrotheeeer/subtrack/internal/http/response"
	"github.com/magabrotheeeer/subtrack/internal/models"
	authservice "github.com/magabrotheeeer/subtrack/internal/services/auth"
	"github.com/magabrotheeeer/subtrack/internal/storage"
)

type ServiceMock struct{ mock.Mock }

func (m *ServiceMock) Login(ctx context.Context, email, rawPassword string) (*models.User, string, error) {
	args := m.Called(ctx, email, rawPassword)
	if args.Get(0) == nil {
		return nil, "", args.Error(2)
	}
	return args.Get(0).(*models.User), args.String(1), args.Error(2)
}

func newNoopLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, &slog.HandlerOptions{}))
}

func TestLoginHandler(t *testing.T) {
	tests := []struct {
		name        string
		body        string
		setupMock   func(s *ServiceMock)
		wantStatus  int
		wantMessage string
	}{
		{
			name: "success",
			body: `{"email": "test@example.com", "password": "secret123"}`,
			setupMock: func(s *ServiceMock) {
				s.On("Login", mock.Anything, "test@example.com", "secret123").
					Return(&models.User{
						UID:   "550e8400-e29b-41d4-a716-446655440000",
						Name:  "testuser",
						Email: "test@example.com",
					}, "jwt.token.value", nil).Once()
			},
			wantStatus:  http.StatusOK,
			wantMessage: "user signed in successfully",
		},
		{
			name: "unknown email",
			body: `{"email": "ghost@example.com", "password": "secret123"}`,
			setupMock: func(s *ServiceMock) {
				s.On("Login", mock.Anything, "ghost@example.com", "secret123").
					Return(nil, "", storage.ErrUserNotFound).Once()
			},
			wantStatus:  http.StatusBadRequest,
			wantMessage: "user not found",
		},
		{
			name: "wrong password",
			body: `{"email": "test@example.com", "password": "wrongpass"}`,
			setupMock: func(s *ServiceMock) {
				s.On("Login", mock.Anything, "test@example.com", "wrongpass").
					Return(nil, "", authservice.ErrInvalidPassword).Once()
			},
			wantStatus:  http.StatusBadRequest,
			wantMessage: "invalid password",
		},
		{
			name:        "invalid json",
			body:        `{"email": `,
			setupMock:   func(_ *ServiceMock) {},
			wantStatus:  http.StatusBadRequest,
			wantMessage: "invalid request body",
		},
		{
			name:        "missing password",
			body:        `{"email": "test@example.com"}`,
			setupMock:   func(_ *ServiceMock) {},
			wantStatus:  http.StatusBadRequest,
			wantMessage: "field Password is a required field",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			service := new(ServiceMock)
			tt.setupMock(service)
			handler := New(newNoopLogger(), service)

			req := httptest.NewRequest(http.MethodPost, "/api/v1/auth/sign-in",
				bytes.NewBufferString(tt.body))
			req.Header.Set("Content-Type", "application/json")
			rr := httptest.NewRecorder()
			handler.ServeHTTP(rr, req)

			require.Equal(t, tt.wantStatus, rr.Code)

			var resp response.Response
			require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &resp))
			assert.Equal(t, tt.wantStatus == http.StatusOK, resp.Success)
			assert.Contains(t, resp.Message, tt.wantMessage)

			service.AssertExpectations(t)
		})
	}
}

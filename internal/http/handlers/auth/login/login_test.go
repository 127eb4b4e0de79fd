package login

import (
	"bytes"
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

	"github.com/minexcloud/mining-backend/internal/services/auth"
)

type AuthServiceMock struct {
	mock.Mock
}

func (m *AuthServiceMock) Login(ctx context.Context, email, password string) (string, error) {
	args := m.Called(ctx, email, password)
	return args.String(0), args.Error(1)
}

func newNoopLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, &slog.HandlerOptions{}))
}

func TestLoginHandler_ServeHTTP(t *testing.T) {
	tests := []struct {
		name           string
		requestBody    any
		setupMocks     func(s *AuthServiceMock)
		wantStatusCode int
		wantToken      string
		wantError      string
	}{
		{
			name:        "valid login",
			requestBody: Request{Email: "user@example.com", Password: "password123"},
			setupMocks: func(s *AuthServiceMock) {
				s.On("Login", mock.Anything, "user@example.com", "password123").
					Return("signed-token", nil).Once()
			},
			wantStatusCode: http.StatusOK,
			wantToken:      "signed-token",
		},
		{
			name:           "invalid json body",
			requestBody:    "not a json",
			setupMocks:     func(_ *AuthServiceMock) {},
			wantStatusCode: http.StatusBadRequest,
			wantError:      "invalid request body",
		},
		{
			name:           "validation error - missing password",
			requestBody:    Request{Email: "user@example.com"},
			setupMocks:     func(_ *AuthServiceMock) {},
			wantStatusCode: http.StatusUnprocessableEntity,
			wantError:      "field Password is a required field",
		},
		{
			name:        "wrong password",
			requestBody: Request{Email: "user@example.com", Password: "wrongpass"},
			setupMocks: func(s *AuthServiceMock) {
				s.On("Login", mock.Anything, "user@example.com", "wrongpass").
					Return("", auth.ErrInvalidCredentials).Once()
			},
			wantStatusCode: http.StatusUnauthorized,
			wantError:      "invalid credentials",
		},
		{
			name:        "store failure",
			requestBody: Request{Email: "user@example.com", Password: "password123"},
			setupMocks: func(s *AuthServiceMock) {
				s.On("Login", mock.Anything, "user@example.com", "password123").
					Return("", errors.New("connection reset")).Once()
			},
			wantStatusCode: http.StatusInternalServerError,
			wantError:      "internal error",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			authMock := new(AuthServiceMock)
			tt.setupMocks(authMock)

			handler := New(newNoopLogger(), authMock)

			var bodyBytes []byte
			switch v := tt.requestBody.(type) {
			case string:
				bodyBytes = []byte(v)
			default:
				var err error
				bodyBytes, err = json.Marshal(tt.requestBody)
				require.NoError(t, err)
			}

			req := httptest.NewRequest(http.MethodPost, "/login", bytes.NewReader(bodyBytes))
			rec := httptest.NewRecorder()

			handler.ServeHTTP(rec, req)

			assert.Equal(t, tt.wantStatusCode, rec.Code)
			if tt.wantToken != "" {
				var resp map[string]any
				require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
				assert.Equal(t, tt.wantToken, resp["token"])
			} else {
				assert.Contains(t, rec.Body.String(), tt.wantError)
			}
			authMock.AssertExpectations(t)
		})
	}
}

package register

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

	"github.com/minexcloud/mining-backend/internal/storage/repository"
)

type AuthServiceMock struct {
	mock.Mock
}

func (m *AuthServiceMock) Register(ctx context.Context, email, password string) (string, error) {
	args := m.Called(ctx, email, password)
	return args.String(0), args.Error(1)
}

func newNoopLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, &slog.HandlerOptions{}))
}

func TestRegisterHandler_ServeHTTP(t *testing.T) {
	tests := []struct {
		name           string
		requestBody    any
		setupMocks     func(s *AuthServiceMock)
		wantStatusCode int
		wantBody       string
	}{
		{
			name:        "successful registration",
			requestBody: Request{Email: "user@example.com", Password: "password123"},
			setupMocks: func(s *AuthServiceMock) {
				s.On("Register", mock.Anything, "user@example.com", "password123").
					Return("uid-1", nil).Once()
			},
			wantStatusCode: http.StatusCreated,
			wantBody:       "user registered successfully",
		},
		{
			name:           "invalid json body",
			requestBody:    "not a json",
			setupMocks:     func(_ *AuthServiceMock) {},
			wantStatusCode: http.StatusBadRequest,
			wantBody:       "invalid request body",
		},
		{
			name:           "missing password",
			requestBody:    Request{Email: "user@example.com"},
			setupMocks:     func(_ *AuthServiceMock) {},
			wantStatusCode: http.StatusUnprocessableEntity,
			wantBody:       "field Password is a required field",
		},
		{
			name:           "invalid email",
			requestBody:    Request{Email: "not-an-email", Password: "password123"},
			setupMocks:     func(_ *AuthServiceMock) {},
			wantStatusCode: http.StatusUnprocessableEntity,
			wantBody:       "field Email must be a valid email",
		},
		{
			name:        "email already taken",
			requestBody: Request{Email: "dup@example.com", Password: "password123"},
			setupMocks: func(s *AuthServiceMock) {
				s.On("Register", mock.Anything, "dup@example.com", "password123").
					Return("", repository.ErrEmailTaken).Once()
			},
			wantStatusCode: http.StatusConflict,
			wantBody:       "email already taken",
		},
		{
			name:        "store failure",
			requestBody: Request{Email: "user@example.com", Password: "password123"},
			setupMocks: func(s *AuthServiceMock) {
				s.On("Register", mock.Anything, "user@example.com", "password123").
					Return("", errors.New("connection reset")).Once()
			},
			wantStatusCode: http.StatusInternalServerError,
			wantBody:       "failed to register user",
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

			req := httptest.NewRequest(http.MethodPost, "/registro", bytes.NewReader(bodyBytes))
			rec := httptest.NewRecorder()

			handler.ServeHTTP(rec, req)

			assert.Equal(t, tt.wantStatusCode, rec.Code)
			assert.Contains(t, rec.Body.String(), tt.wantBody)
			authMock.AssertExpectations(t)
		})
	}
}

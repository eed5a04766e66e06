package remove

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"testing"

	"github.com/go-chi/chi"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/magabrotheeeer/account-lifecycle/internal/http/middlewarectx"
	"github.com/magabrotheeeer/account-lifecycle/internal/models"
	services "github.com/magabrotheeeer/account-lifecycle/internal/services/lifecycle"
)

// MockService реализует интерфейс remove.Service
type MockService struct {
	mock.Mock
}

func (m *MockService) DeleteNow(ctx context.Context, actor string, accountID uuid.UUID, reason string, notify bool) (*models.Account, error) {
	args := m.Called(ctx, actor, accountID, reason, notify)
	if res := args.Get(0); res != nil {
		return res.(*models.Account), args.Error(1)
	}
	return nil, args.Error(1)
}

func TestRemoveHandler(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelDebug}))
	accountID := uuid.New()

	tests := []struct {
		name           string
		urlID          string
		body           string
		actor          string
		setupMock      func(*MockService)
		expectedStatus int
		expectedBody   string
	}{
		{
			name:  "успешное удаление аккаунта",
			urlID: accountID.String(),
			body:  `{"reason":"violated terms of service","notify":false}`,
			actor: "admin",
			setupMock: func(m *MockService) {
				acc := &models.Account{
					ID:            accountID,
					Username:      "testuser",
					Status:        models.StatusDeleted,
					DeletionCount: 1,
				}
				m.On("DeleteNow", mock.Anything, "admin", accountID, "violated terms of service", false).Return(acc, nil)
			},
			expectedStatus: http.StatusOK,
			expectedBody:   `"status":"deleted"`,
		},
		{
			name:           "некорректный id в URL",
			urlID:          "not-a-uuid",
			body:           `{"reason":"violated terms of service"}`,
			actor:          "admin",
			setupMock:      func(_ *MockService) {},
			expectedStatus: http.StatusBadRequest,
			expectedBody:   `"error":"invalid account id"`,
		},
		{
			name:           "некорректный JSON",
			urlID:          accountID.String(),
			body:           `{not json`,
			actor:          "admin",
			setupMock:      func(_ *MockService) {},
			expectedStatus: http.StatusBadRequest,
			expectedBody:   `"error":"invalid request body"`,
		},
		{
			name:           "слишком короткая причина",
			urlID:          accountID.String(),
			body:           `{"reason":"short"}`,
			actor:          "admin",
			setupMock:      func(_ *MockService) {},
			expectedStatus: http.StatusUnprocessableEntity,
			expectedBody:   `field Reason is shorter than the minimum length`,
		},
		{
			name:  "аккаунт уже удалён",
			urlID: accountID.String(),
			body:  `{"reason":"violated terms of service"}`,
			actor: "admin",
			setupMock: func(m *MockService) {
				m.On("DeleteNow", mock.Anything, "admin", accountID, "violated terms of service", false).
					Return(nil, services.ErrAlreadyDeleted)
			},
			expectedStatus: http.StatusConflict,
			expectedBody:   `"error":"account is already deleted"`,
		},
		{
			name:  "аккаунт не найден",
			urlID: accountID.String(),
			body:  `{"reason":"violated terms of service"}`,
			actor: "admin",
			setupMock: func(m *MockService) {
				m.On("DeleteNow", mock.Anything, "admin", accountID, "violated terms of service", false).
					Return(nil, services.ErrAccountNotFound)
			},
			expectedStatus: http.StatusNotFound,
			expectedBody:   `"error":"account not found"`,
		},
		{
			name:  "ошибка хранилища",
			urlID: accountID.String(),
			body:  `{"reason":"violated terms of service"}`,
			actor: "admin",
			setupMock: func(m *MockService) {
				m.On("DeleteNow", mock.Anything, "admin", accountID, "violated terms of service", false).
					Return(nil, errors.New("db error"))
			},
			expectedStatus: http.StatusInternalServerError,
			expectedBody:   `"error":"internal server error"`,
		},
		{
			name:           "отсутствует администратор в контексте",
			urlID:          accountID.String(),
			body:           `{"reason":"violated terms of service"}`,
			actor:          "",
			setupMock:      func(_ *MockService) {},
			expectedStatus: http.StatusUnauthorized,
			expectedBody:   `"error":"unauthorized"`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockService := new(MockService)
			tt.setupMock(mockService)

			handler := New(logger, mockService)

			req := httptest.NewRequest(http.MethodDelete, "/accounts/"+tt.urlID, strings.NewReader(tt.body))
			rctx := chi.NewRouteContext()
			rctx.URLParams.Add("id", tt.urlID)
			ctx := context.WithValue(req.Context(), chi.RouteCtxKey, rctx)
			if tt.actor != "" {
				ctx = context.WithValue(ctx, middlewarectx.User, tt.actor)
			}
			req = req.WithContext(ctx)

			w := httptest.NewRecorder()
			handler.ServeHTTP(w, req)

			assert.Equal(t, tt.expectedStatus, w.Code)
			assert.True(t, strings.Contains(w.Body.String(), tt.expectedBody),
				"response body should contain %s, got %s", tt.expectedBody, w.Body.String())

			mockService.AssertExpectations(t)
		})
	}
}

package restore

import (
	"context"
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

// MockService реализует интерфейс restore.Service
type MockService struct {
	mock.Mock
}

func (m *MockService) Restore(ctx context.Context, actor string, accountID uuid.UUID, reason string) (*models.Account, error) {
	args := m.Called(ctx, actor, accountID, reason)
	if res := args.Get(0); res != nil {
		return res.(*models.Account), args.Error(1)
	}
	return nil, args.Error(1)
}

func TestRestoreHandler(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelDebug}))
	accountID := uuid.New()

	tests := []struct {
		name           string
		urlID          string
		body           string
		setupMock      func(*MockService)
		expectedStatus int
		expectedBody   string
	}{
		{
			name:  "успешное восстановление аккаунта",
			urlID: accountID.String(),
			body:  `{"reason":"appeal approved"}`,
			setupMock: func(m *MockService) {
				acc := &models.Account{
					ID:            accountID,
					Username:      "testuser",
					Status:        models.StatusActive,
					DeletionCount: 1,
				}
				m.On("Restore", mock.Anything, "admin", accountID, "appeal approved").Return(acc, nil)
			},
			expectedStatus: http.StatusOK,
			expectedBody:   `"status":"active"`,
		},
		{
			name:  "лимит восстановлений исчерпан",
			urlID: accountID.String(),
			body:  `{"reason":"appeal approved"}`,
			setupMock: func(m *MockService) {
				m.On("Restore", mock.Anything, "admin", accountID, "appeal approved").
					Return(nil, &services.RestorationLimitError{Max: 3, Used: 3})
			},
			expectedStatus: http.StatusConflict,
			expectedBody:   `maximum restoration limit of 3 reached (used 3)`,
		},
		{
			name:  "аккаунт не удалён",
			urlID: accountID.String(),
			body:  `{"reason":"appeal approved"}`,
			setupMock: func(m *MockService) {
				m.On("Restore", mock.Anything, "admin", accountID, "appeal approved").
					Return(nil, services.ErrNotDeleted)
			},
			expectedStatus: http.StatusConflict,
			expectedBody:   `"error":"account is not deleted"`,
		},
		{
			name:           "слишком короткая причина",
			urlID:          accountID.String(),
			body:           `{"reason":"ok"}`,
			setupMock:      func(_ *MockService) {},
			expectedStatus: http.StatusUnprocessableEntity,
			expectedBody:   `field Reason is shorter than the minimum length`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockService := new(MockService)
			tt.setupMock(mockService)

			handler := New(logger, mockService)

			req := httptest.NewRequest(http.MethodPost, "/accounts/"+tt.urlID+"/restore", strings.NewReader(tt.body))
			rctx := chi.NewRouteContext()
			rctx.URLParams.Add("id", tt.urlID)
			ctx := context.WithValue(req.Context(), chi.RouteCtxKey, rctx)
			ctx = context.WithValue(ctx, middlewarectx.User, "admin")
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

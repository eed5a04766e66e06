package read

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

	"github.com/magabrotheeeer/account-lifecycle/internal/models"
	services "github.com/magabrotheeeer/account-lifecycle/internal/services/lifecycle"
)

// MockService реализует интерфейс read.Service
type MockService struct {
	mock.Mock
}

func (m *MockService) GetAccount(ctx context.Context, accountID uuid.UUID) (*models.Account, error) {
	args := m.Called(ctx, accountID)
	if res := args.Get(0); res != nil {
		return res.(*models.Account), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockService) EvaluateRestoration(ctx context.Context, accountID uuid.UUID) (services.RestorationEvaluation, error) {
	args := m.Called(ctx, accountID)
	return args.Get(0).(services.RestorationEvaluation), args.Error(1)
}

func TestReadHandler(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelDebug}))
	accountID := uuid.New()

	tests := []struct {
		name           string
		urlID          string
		setupMock      func(*MockService)
		expectedStatus int
		expectedBody   string
	}{
		{
			name:  "успешное чтение аккаунта",
			urlID: accountID.String(),
			setupMock: func(m *MockService) {
				acc := &models.Account{
					ID:       accountID,
					Email:    "user@example.com",
					Username: "testuser",
					Status:   models.StatusActive,
				}
				m.On("GetAccount", mock.Anything, accountID).Return(acc, nil)
				m.On("EvaluateRestoration", mock.Anything, accountID).
					Return(services.RestorationEvaluation{MaxRestorations: 3, CanRestore: true, Remaining: 3}, nil)
			},
			expectedStatus: http.StatusOK,
			expectedBody:   `"can_restore":true`,
		},
		{
			name:  "аккаунт не найден",
			urlID: accountID.String(),
			setupMock: func(m *MockService) {
				m.On("GetAccount", mock.Anything, accountID).Return(nil, services.ErrAccountNotFound)
			},
			expectedStatus: http.StatusNotFound,
			expectedBody:   `"error":"account not found"`,
		},
		{
			name:           "некорректный id в URL",
			urlID:          "abc",
			setupMock:      func(_ *MockService) {},
			expectedStatus: http.StatusBadRequest,
			expectedBody:   `"error":"invalid account id"`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockService := new(MockService)
			tt.setupMock(mockService)

			handler := New(logger, mockService)

			req := httptest.NewRequest(http.MethodGet, "/accounts/"+tt.urlID, nil)
			rctx := chi.NewRouteContext()
			rctx.URLParams.Add("id", tt.urlID)
			req = req.WithContext(context.WithValue(req.Context(), chi.RouteCtxKey, rctx))

			w := httptest.NewRecorder()
			handler.ServeHTTP(w, req)

			assert.Equal(t, tt.expectedStatus, w.Code)
			assert.True(t, strings.Contains(w.Body.String(), tt.expectedBody),
				"response body should contain %s, got %s", tt.expectedBody, w.Body.String())

			mockService.AssertExpectations(t)
		})
	}
}

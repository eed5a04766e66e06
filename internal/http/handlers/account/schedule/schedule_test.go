package schedule

import (
	"context"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"testing"
	"time"

	"github.com/go-chi/chi"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/magabrotheeeer/account-lifecycle/internal/http/middlewarectx"
	"github.com/magabrotheeeer/account-lifecycle/internal/models"
	services "github.com/magabrotheeeer/account-lifecycle/internal/services/lifecycle"
)

// MockService реализует интерфейс schedule.Service
type MockService struct {
	mock.Mock
}

func (m *MockService) ScheduleDeletion(ctx context.Context, actor string, accountID uuid.UUID, reason string, at time.Time, notify bool) (*models.Account, error) {
	args := m.Called(ctx, actor, accountID, reason, at, notify)
	if res := args.Get(0); res != nil {
		return res.(*models.Account), args.Error(1)
	}
	return nil, args.Error(1)
}

func TestScheduleHandler(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelDebug}))
	accountID := uuid.New()
	scheduledFor := time.Now().UTC().Add(72 * time.Hour).Truncate(time.Second)

	tests := []struct {
		name           string
		urlID          string
		body           string
		setupMock      func(*MockService)
		expectedStatus int
		expectedBody   string
	}{
		{
			name:  "успешное планирование удаления",
			urlID: accountID.String(),
			body:  `{"reason":"inactivity cleanup batch","scheduled_for":"` + scheduledFor.Format(time.RFC3339) + `","notify":true}`,
			setupMock: func(m *MockService) {
				acc := &models.Account{
					ID:                  accountID,
					Username:            "testuser",
					Status:              models.StatusScheduledForDeletion,
					ScheduledDeletionAt: &scheduledFor,
				}
				m.On("ScheduleDeletion", mock.Anything, "admin", accountID, "inactivity cleanup batch",
					mock.MatchedBy(func(at time.Time) bool { return at.Equal(scheduledFor) }), true).Return(acc, nil)
			},
			expectedStatus: http.StatusOK,
			expectedBody:   `"status":"scheduled_for_deletion"`,
		},
		{
			name:           "некорректный формат даты",
			urlID:          accountID.String(),
			body:           `{"reason":"inactivity cleanup batch","scheduled_for":"tomorrow"}`,
			setupMock:      func(_ *MockService) {},
			expectedStatus: http.StatusBadRequest,
			expectedBody:   `scheduled_for must be a date in RFC3339 format`,
		},
		{
			name:  "дата в прошлом",
			urlID: accountID.String(),
			body:  `{"reason":"inactivity cleanup batch","scheduled_for":"2020-01-01T00:00:00Z"}`,
			setupMock: func(m *MockService) {
				m.On("ScheduleDeletion", mock.Anything, "admin", accountID, "inactivity cleanup batch", mock.Anything, false).
					Return(nil, &services.InvalidScheduleError{Message: "scheduled deletion date must be in the future"})
			},
			expectedStatus: http.StatusBadRequest,
			expectedBody:   `scheduled deletion date must be in the future`,
		},
		{
			name:  "аккаунт не активен",
			urlID: accountID.String(),
			body:  `{"reason":"inactivity cleanup batch","scheduled_for":"` + scheduledFor.Format(time.RFC3339) + `"}`,
			setupMock: func(m *MockService) {
				m.On("ScheduleDeletion", mock.Anything, "admin", accountID, "inactivity cleanup batch", mock.Anything, false).
					Return(nil, services.ErrNotActive)
			},
			expectedStatus: http.StatusConflict,
			expectedBody:   `"error":"account is not active"`,
		},
		{
			name:           "отсутствует дата",
			urlID:          accountID.String(),
			body:           `{"reason":"inactivity cleanup batch"}`,
			setupMock:      func(_ *MockService) {},
			expectedStatus: http.StatusUnprocessableEntity,
			expectedBody:   `field ScheduledFor is a required field`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockService := new(MockService)
			tt.setupMock(mockService)

			handler := New(logger, mockService)

			req := httptest.NewRequest(http.MethodPost, "/accounts/"+tt.urlID+"/schedule", strings.NewReader(tt.body))
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

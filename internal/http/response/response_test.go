package response

import (
	"errors"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	services "github.com/magabrotheeeer/account-lifecycle/internal/services/lifecycle"
)

func TestOKWithData(t *testing.T) {
	resp := OKWithData(map[string]any{"key": "value"})
	assert.Equal(t, StatusOK, resp.Status)
	assert.Empty(t, resp.Error)
	assert.NotNil(t, resp.Data)
}

func TestError(t *testing.T) {
	resp := Error("something went wrong")
	assert.Equal(t, StatusError, resp.Status)
	assert.Equal(t, "something went wrong", resp.Error)
}

func TestLifecycleError(t *testing.T) {
	tests := []struct {
		name           string
		err            error
		expectedStatus int
		expectedMsg    string
	}{
		{
			name:           "аккаунт не найден",
			err:            services.ErrAccountNotFound,
			expectedStatus: http.StatusNotFound,
			expectedMsg:    "account not found",
		},
		{
			name:           "аккаунт уже удалён",
			err:            services.ErrAlreadyDeleted,
			expectedStatus: http.StatusConflict,
			expectedMsg:    "account is already deleted",
		},
		{
			name:           "нет запланированного удаления",
			err:            services.ErrNoScheduleToCancel,
			expectedStatus: http.StatusConflict,
			expectedMsg:    "account has no scheduled deletion to cancel",
		},
		{
			name:           "лимит восстановлений",
			err:            &services.RestorationLimitError{Max: 3, Used: 3},
			expectedStatus: http.StatusConflict,
			expectedMsg:    "maximum restoration limit of 3 reached (used 3)",
		},
		{
			name:           "некорректная длина причины",
			err:            &services.InvalidReasonError{Min: 10, Max: 500, Got: 5},
			expectedStatus: http.StatusUnprocessableEntity,
			expectedMsg:    "reason length must be between 10 and 500 characters, got 5",
		},
		{
			name:           "некорректная дата планирования",
			err:            &services.InvalidScheduleError{At: time.Now(), Message: "scheduled deletion date must be in the future"},
			expectedStatus: http.StatusBadRequest,
			expectedMsg:    "scheduled deletion date must be in the future",
		},
		{
			name:           "превышение времени операции",
			err:            services.ErrTimeout,
			expectedStatus: http.StatusGatewayTimeout,
			expectedMsg:    "operation timed out",
		},
		{
			name:           "инфраструктурная ошибка не детализируется",
			err:            errors.New("pq: connection refused"),
			expectedStatus: http.StatusInternalServerError,
			expectedMsg:    "internal server error",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			status, body := LifecycleError(tt.err)
			assert.Equal(t, tt.expectedStatus, status)
			assert.Equal(t, StatusError, body.Status)
			assert.Equal(t, tt.expectedMsg, body.Error)
		})
	}
}

func TestLifecycleError_WrappedErrors(t *testing.T) {
	wrapped := errors.Join(errors.New("services.lifecycle.DeleteNow"), services.ErrAlreadyDeleted)
	status, _ := LifecycleError(wrapped)
	assert.Equal(t, http.StatusConflict, status)
}

package response

import (
	"errors"
	"net/http"

	services "github.com/magabrotheeeer/account-lifecycle/internal/services/lifecycle"
)

// LifecycleError транслирует ошибку движка жизненного цикла в HTTP-статус
// и тело ответа. Инфраструктурные ошибки наружу не детализируются.
func LifecycleError(err error) (int, ErrorResponse) {
	var reasonErr *services.InvalidReasonError
	var scheduleErr *services.InvalidScheduleError
	var limitErr *services.RestorationLimitError

	switch {
	case errors.Is(err, services.ErrAccountNotFound):
		return http.StatusNotFound, Error("account not found")
	case errors.Is(err, services.ErrAlreadyDeleted),
		errors.Is(err, services.ErrNotActive),
		errors.Is(err, services.ErrNotDeleted),
		errors.Is(err, services.ErrNoScheduleToCancel),
		errors.Is(err, services.ErrNotScheduled):
		return http.StatusConflict, Error(err.Error())
	case errors.As(err, &limitErr):
		return http.StatusConflict, Error(limitErr.Error())
	case errors.As(err, &reasonErr):
		return http.StatusUnprocessableEntity, Error(reasonErr.Error())
	case errors.As(err, &scheduleErr):
		return http.StatusBadRequest, Error(scheduleErr.Error())
	case errors.Is(err, services.ErrTimeout):
		return http.StatusGatewayTimeout, Error("operation timed out")
	default:
		return http.StatusInternalServerError, Error("internal server error")
	}
}

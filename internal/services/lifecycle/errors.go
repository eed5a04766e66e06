package services

import (
	"errors"
	"fmt"
	"time"
)

// Ошибки бизнес-логики жизненного цикла. Обработчики транслируют их
// в конкретные HTTP-статусы и сообщения; ошибки инфраструктуры
// оборачиваются с контекстом операции и наружу не детализируются.
var (
	// ErrAlreadyDeleted — попытка удалить уже удалённый аккаунт.
	ErrAlreadyDeleted = errors.New("account is already deleted")
	// ErrNotActive — отложенное удаление возможно только для активного аккаунта.
	ErrNotActive = errors.New("account is not active")
	// ErrNotDeleted — восстановить можно только удалённый аккаунт.
	ErrNotDeleted = errors.New("account is not deleted")
	// ErrNoScheduleToCancel — у аккаунта нет запланированного удаления.
	ErrNoScheduleToCancel = errors.New("account has no scheduled deletion to cancel")
	// ErrNotScheduled — исполнение возможно только для запланированного удаления.
	ErrNotScheduled = errors.New("account is not scheduled for deletion")
	// ErrTimeout — операция не уложилась в отведённый предел времени.
	ErrTimeout = errors.New("operation timed out")
)

// InvalidReasonError возвращается при нарушении ограничений длины причины.
type InvalidReasonError struct {
	Min, Max, Got int
}

func (e *InvalidReasonError) Error() string {
	return fmt.Sprintf("reason length must be between %d and %d characters, got %d", e.Min, e.Max, e.Got)
}

// InvalidScheduleError возвращается, когда дата удаления в прошлом
// или выходит за максимальный горизонт планирования.
type InvalidScheduleError struct {
	At      time.Time
	Message string
}

func (e *InvalidScheduleError) Error() string {
	return e.Message
}

// RestorationLimitError возвращается при исчерпании лимита восстановлений.
// Несёт максимум и фактическое число удалений для отображения в UI.
type RestorationLimitError struct {
	Max  int
	Used int
}

func (e *RestorationLimitError) Error() string {
	return fmt.Sprintf("maximum restoration limit of %d reached (used %d)", e.Max, e.Used)
}

package models

import (
	"time"

	"github.com/google/uuid"
)

// HistoryAction описывает тип перехода, зафиксированный в журнале удалений.
type HistoryAction string

const (
	// ActionDeleted — немедленное удаление аккаунта администратором.
	ActionDeleted HistoryAction = "deleted"
	// ActionScheduled — удаление запланировано на будущую дату.
	ActionScheduled HistoryAction = "scheduled"
	// ActionCancelledSchedule — запланированное удаление отменено.
	ActionCancelledSchedule HistoryAction = "cancelled_schedule"
	// ActionRestored — удалённый аккаунт восстановлен.
	ActionRestored HistoryAction = "restored"
	// ActionExecuted — запланированное удаление исполнено фоновым процессом.
	ActionExecuted HistoryAction = "executed"
)

// DeletionHistoryEntry представляет собой запись журнала переходов жизненного цикла.
// Записи создаются один раз на переход и никогда не изменяются и не удаляются;
// единственное исключение — флаг NotificationSent, который проставляется один раз
// после попытки отправки уведомления (фиксируется попытка, а не доставка).
type DeletionHistoryEntry struct {
	ID                  uuid.UUID     `json:"id"`
	AccountID           uuid.UUID     `json:"account_id"`
	Action              HistoryAction `json:"action"`
	Actor               string        `json:"actor"`
	Reason              string        `json:"reason"`
	OccurredAt          time.Time     `json:"occurred_at"`
	ScheduledFor        *time.Time    `json:"scheduled_for,omitempty"`
	NotificationSent    bool          `json:"notification_sent"`
	RestorationSequence *int          `json:"restoration_sequence,omitempty"`
}

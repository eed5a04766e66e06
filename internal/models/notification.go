package models

import (
	"time"

	"github.com/google/uuid"
)

// NotificationKind определяет тип уведомления жизненного цикла
// и одновременно служит ключом маршрутизации в RabbitMQ.
type NotificationKind string

const (
	// NotificationDeleted — уведомление об удалении аккаунта.
	NotificationDeleted NotificationKind = "deleted"
	// NotificationScheduled — предупреждение о запланированном удалении.
	NotificationScheduled NotificationKind = "scheduled"
	// NotificationReminder — напоминание о приближающемся удалении.
	NotificationReminder NotificationKind = "reminder"
	// NotificationRestored — подтверждение восстановления аккаунта.
	NotificationRestored NotificationKind = "restored"
)

// NotificationMessage — сообщение для очереди уведомлений.
// Публикуется движком жизненного цикла после фиксации транзакции
// и потребляется сервисом отправки писем.
type NotificationMessage struct {
	Kind          NotificationKind `json:"kind"`
	AccountID     uuid.UUID        `json:"account_id"`
	Email         string           `json:"email"`
	Username      string           `json:"username"`
	Reason        string           `json:"reason,omitempty"`
	ScheduledFor  *time.Time       `json:"scheduled_for,omitempty"`
	DeletionCount int              `json:"deletion_count"`
	OccurredAt    time.Time        `json:"occurred_at"`
}

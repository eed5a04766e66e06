// Package models содержит доменные структуры жизненного цикла аккаунта,
// а также вспомогательные типы для приёма данных из внешних источников
// (например, JSON-запросы административного API).
package models

import (
	"time"

	"github.com/google/uuid"
)

// AccountStatus описывает текущее состояние аккаунта в жизненном цикле.
type AccountStatus string

const (
	// StatusActive — аккаунт активен и доступен пользователю.
	StatusActive AccountStatus = "active"
	// StatusScheduledForDeletion — удаление аккаунта запланировано на будущую дату.
	StatusScheduledForDeletion AccountStatus = "scheduled_for_deletion"
	// StatusDeleted — аккаунт удалён (мягкое удаление, строка сохраняется).
	StatusDeleted AccountStatus = "deleted"
)

// Account представляет собой основную модель аккаунта,
// используемую в бизнес-логике и хранилище.
// Поле ScheduledDeletionAt заполнено только в статусе scheduled_for_deletion.
// Поле DeletionCount никогда не уменьшается, в том числе после восстановления.
// Поле Version используется для оптимистической блокировки при записи.
type Account struct {
	ID                  uuid.UUID      `json:"id"`
	Email               string         `json:"email"`
	Username            string         `json:"username"`
	Status              AccountStatus  `json:"status"`
	DeletionCount       int            `json:"deletion_count"`
	ScheduledDeletionAt *time.Time     `json:"scheduled_deletion_at,omitempty"`
	ReminderSentAt      *time.Time     `json:"reminder_sent_at,omitempty"`
	LastDeletedAt       *time.Time     `json:"last_deleted_at,omitempty"`
	LastRestoredAt      *time.Time     `json:"last_restored_at,omitempty"`
	Version             int64          `json:"-"`
	CreatedAt           time.Time      `json:"created_at"`
	UpdatedAt           time.Time      `json:"updated_at"`
}

// DeleteAccountRequest используется для приёма данных запроса немедленного удаления.
type DeleteAccountRequest struct {
	Reason string `json:"reason" validate:"required,min=10,max=500"` // Причина удаления
	Notify bool   `json:"notify"`                                    // Отправлять ли уведомление
}

// ScheduleDeletionRequest используется для приёма данных запроса отложенного удаления.
// Дата приходит строкой в формате RFC3339, чтобы её можно было валидировать и парсить вручную.
type ScheduleDeletionRequest struct {
	Reason       string `json:"reason" validate:"required,min=10,max=500"` // Причина удаления
	ScheduledFor string `json:"scheduled_for" validate:"required"`         // Дата исполнения в формате RFC3339
	Notify       bool   `json:"notify"`                                    // Отправлять ли уведомление
}

// RestoreAccountRequest используется для приёма данных запроса восстановления.
type RestoreAccountRequest struct {
	Reason string `json:"reason" validate:"required,min=5,max=300"` // Причина восстановления
}

package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/magabrotheeeer/account-lifecycle/internal/models"
)

const accountColumns = `id, email, username, status, deletion_count, scheduled_deletion_at,
	reminder_sent_at, last_deleted_at, last_restored_at, version, created_at, updated_at`

func scanAccount(row interface{ Scan(...any) error }) (*models.Account, error) {
	var acc models.Account
	err := row.Scan(&acc.ID, &acc.Email, &acc.Username, &acc.Status, &acc.DeletionCount,
		&acc.ScheduledDeletionAt, &acc.ReminderSentAt, &acc.LastDeletedAt, &acc.LastRestoredAt,
		&acc.Version, &acc.CreatedAt, &acc.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &acc, nil
}

// GetAccount возвращает аккаунт по его ID.
func (s *Storage) GetAccount(ctx context.Context, id uuid.UUID) (*models.Account, error) {
	const op = "storage.GetAccount"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `SELECT ` + accountColumns + ` FROM accounts WHERE id = $1`
	acc, err := scanAccount(s.DB.QueryRowContext(ctx, query, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%s: %w", op, ErrAccountNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return acc, nil
}

// ApplyTransition атомарно записывает новое состояние аккаунта и запись журнала
// в одной транзакции. Запись аккаунта защищена проверкой версии: если версия
// успела измениться, транзакция откатывается и возвращается ErrVersionConflict.
// При успехе acc.Version инкрементируется в памяти вслед за базой.
func (s *Storage) ApplyTransition(ctx context.Context, acc *models.Account, entry *models.DeletionHistoryEntry) error {
	const op = "storage.ApplyTransition"
	select {
	case <-ctx.Done():
		return fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	tx, err := s.DB.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	defer func() { _ = tx.Rollback() }()

	query := `UPDATE accounts
			  SET status = $1, deletion_count = $2, scheduled_deletion_at = $3,
			      reminder_sent_at = $4, last_deleted_at = $5, last_restored_at = $6,
			      version = version + 1, updated_at = now()
			  WHERE id = $7 AND version = $8`
	result, err := tx.ExecContext(ctx, query,
		acc.Status, acc.DeletionCount, acc.ScheduledDeletionAt,
		acc.ReminderSentAt, acc.LastDeletedAt, acc.LastRestoredAt,
		acc.ID, acc.Version)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	if rowsAffected == 0 {
		var exists bool
		if err := tx.QueryRowContext(ctx,
			`SELECT EXISTS (SELECT 1 FROM accounts WHERE id = $1)`, acc.ID).Scan(&exists); err != nil {
			return fmt.Errorf("%s: %w", op, err)
		}
		if !exists {
			return fmt.Errorf("%s: %w", op, ErrAccountNotFound)
		}
		return fmt.Errorf("%s: %w", op, ErrVersionConflict)
	}

	query = `INSERT INTO deletion_history (id, account_id, action, actor, reason,
			     occurred_at, scheduled_for, notification_sent, restoration_sequence)
			 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`
	_, err = tx.ExecContext(ctx, query,
		entry.ID, entry.AccountID, entry.Action, entry.Actor, entry.Reason,
		entry.OccurredAt, entry.ScheduledFor, entry.NotificationSent, entry.RestorationSequence)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	acc.Version++
	return nil
}

// ListDueForExecution возвращает аккаунты, запланированное удаление которых наступило.
func (s *Storage) ListDueForExecution(ctx context.Context, now time.Time) ([]*models.Account, error) {
	const op = "storage.ListDueForExecution"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `SELECT ` + accountColumns + `
			  FROM accounts
			  WHERE status = $1 AND scheduled_deletion_at <= $2
			  ORDER BY scheduled_deletion_at`
	rows, err := s.DB.QueryContext(ctx, query, models.StatusScheduledForDeletion, now)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer func() { _ = rows.Close() }()

	var result []*models.Account
	for rows.Next() {
		acc, err := scanAccount(rows)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		result = append(result, acc)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return result, nil
}

// ListDueForReminder возвращает аккаунты, удаление которых попадает в окно
// напоминания и которым напоминание ещё не отправлялось.
func (s *Storage) ListDueForReminder(ctx context.Context, now time.Time, window time.Duration) ([]*models.Account, error) {
	const op = "storage.ListDueForReminder"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `SELECT ` + accountColumns + `
			  FROM accounts
			  WHERE status = $1 AND reminder_sent_at IS NULL
			    AND scheduled_deletion_at > $2 AND scheduled_deletion_at <= $3
			  ORDER BY scheduled_deletion_at`
	rows, err := s.DB.QueryContext(ctx, query, models.StatusScheduledForDeletion, now, now.Add(window))
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer func() { _ = rows.Close() }()

	var result []*models.Account
	for rows.Next() {
		acc, err := scanAccount(rows)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		result = append(result, acc)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return result, nil
}

// MarkReminderSent помечает напоминание отправленным и возвращает число
// изменённых строк. Ноль означает, что пометка уже стояла: напоминание
// отправляется не более одного раза на запланированное удаление.
func (s *Storage) MarkReminderSent(ctx context.Context, accountID uuid.UUID, at time.Time) (int, error) {
	const op = "storage.MarkReminderSent"
	select {
	case <-ctx.Done():
		return 0, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `UPDATE accounts
			  SET reminder_sent_at = $2, updated_at = now()
			  WHERE id = $1 AND reminder_sent_at IS NULL AND status = $3`
	result, err := s.DB.ExecContext(ctx, query, accountID, at, models.StatusScheduledForDeletion)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	return int(rowsAffected), nil
}

package repository

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/magabrotheeeer/account-lifecycle/internal/models"
)

// ListHistory возвращает записи журнала удалений аккаунта, новые первыми.
func (s *Storage) ListHistory(ctx context.Context, accountID uuid.UUID) ([]*models.DeletionHistoryEntry, error) {
	const op = "storage.ListHistory"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `SELECT id, account_id, action, actor, reason, occurred_at,
			      scheduled_for, notification_sent, restoration_sequence
			  FROM deletion_history
			  WHERE account_id = $1
			  ORDER BY occurred_at DESC, id DESC`
	rows, err := s.DB.QueryContext(ctx, query, accountID)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer func() { _ = rows.Close() }()

	var result []*models.DeletionHistoryEntry
	for rows.Next() {
		var item models.DeletionHistoryEntry
		if err := rows.Scan(&item.ID, &item.AccountID, &item.Action, &item.Actor, &item.Reason,
			&item.OccurredAt, &item.ScheduledFor, &item.NotificationSent, &item.RestorationSequence); err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		result = append(result, &item)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return result, nil
}

// CountDeletions подсчитывает завершённые удаления аккаунта по журналу.
// Журнал — источник истины для политики восстановления: кэшированный счётчик
// deletion_count на строке аккаунта в расчётах не участвует.
func (s *Storage) CountDeletions(ctx context.Context, accountID uuid.UUID) (int, error) {
	const op = "storage.CountDeletions"
	select {
	case <-ctx.Done():
		return 0, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `SELECT COUNT(*) FROM deletion_history
			  WHERE account_id = $1 AND action IN ($2, $3)`
	var count int
	err := s.DB.QueryRowContext(ctx, query, accountID, models.ActionDeleted, models.ActionExecuted).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	return count, nil
}

// MarkNotificationSent проставляет флаг попытки отправки уведомления на записи журнала.
// Единственное разрешённое изменение уже созданной записи.
func (s *Storage) MarkNotificationSent(ctx context.Context, entryID uuid.UUID) error {
	const op = "storage.MarkNotificationSent"
	select {
	case <-ctx.Done():
		return fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `UPDATE deletion_history SET notification_sent = true WHERE id = $1`
	_, err := s.DB.ExecContext(ctx, query, entryID)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}

// Package services содержит бизнес-логику жизненного цикла аккаунта:
// удаление, отложенное удаление, отмену и восстановление.
//
// Движок — единственный компонент, которому разрешено менять статус аккаунта.
// Каждый переход записывается вместе с записью журнала в одной транзакции;
// уведомления публикуются строго после фиксации и никогда не влияют
// на результат операции.
package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"

	"github.com/magabrotheeeer/account-lifecycle/internal/config"
	"github.com/magabrotheeeer/account-lifecycle/internal/lib/sl"
	"github.com/magabrotheeeer/account-lifecycle/internal/metrics"
	"github.com/magabrotheeeer/account-lifecycle/internal/models"
	"github.com/magabrotheeeer/account-lifecycle/internal/storage/repository"
)

// Ограничения длины причин, символов.
const (
	deletionReasonMin    = 10
	deletionReasonMax    = 500
	restorationReasonMin = 5
	restorationReasonMax = 300
)

// SchedulerActor — имя действующего лица для переходов, выполненных фоновым обходом.
const SchedulerActor = "deletion-scheduler"

// ErrAccountNotFound — реэкспорт ошибки хранилища, чтобы обработчики
// не зависели от пакета репозитория напрямую.
var ErrAccountNotFound = repository.ErrAccountNotFound

// executedReason — причина, записываемая в журнал при исполнении запланированного удаления.
const executedReason = "scheduled deletion executed"

// AccountRepository определяет методы для работы с аккаунтами в хранилище.
type AccountRepository interface {
	// GetAccount возвращает аккаунт по ID.
	GetAccount(ctx context.Context, id uuid.UUID) (*models.Account, error)
	// ApplyTransition атомарно записывает новое состояние и запись журнала.
	ApplyTransition(ctx context.Context, acc *models.Account, entry *models.DeletionHistoryEntry) error
	// ListHistory возвращает журнал удалений аккаунта, новые первыми.
	ListHistory(ctx context.Context, accountID uuid.UUID) ([]*models.DeletionHistoryEntry, error)
	// CountDeletions подсчитывает завершённые удаления по журналу.
	CountDeletions(ctx context.Context, accountID uuid.UUID) (int, error)
	// MarkNotificationSent проставляет флаг попытки отправки уведомления.
	MarkNotificationSent(ctx context.Context, entryID uuid.UUID) error
}

// Notifier описывает публикацию уведомлений жизненного цикла.
// Реализация обязана быть безопасной для вызова после фиксации транзакции:
// ошибка отправки логируется и никогда не откатывает переход.
type Notifier interface {
	Send(kind models.NotificationKind, msg models.NotificationMessage) error
}

// Cache описывает методы для кэширования данных.
type Cache interface {
	// Get пытается получить значение из кеша по ключу.
	Get(key string, result any) (bool, error)
	// Set сохраняет значение в кеш с временем жизни.
	Set(key string, value any, expiration time.Duration) error
	// Invalidate удаляет значение из кеша по ключу.
	Invalidate(key string) error
}

// LifecycleEngine реализует операции жизненного цикла аккаунта.
type LifecycleEngine struct {
	repo     AccountRepository
	notifier Notifier
	cache    Cache
	cfg      config.Lifecycle
	log      *slog.Logger
}

// NewLifecycleEngine создает новый экземпляр LifecycleEngine.
func NewLifecycleEngine(repo AccountRepository, notifier Notifier, cache Cache, cfg config.Lifecycle, log *slog.Logger) *LifecycleEngine {
	return &LifecycleEngine{
		repo:     repo,
		notifier: notifier,
		cache:    cache,
		cfg:      cfg,
		log:      log,
	}
}

// DeleteNow немедленно удаляет аккаунт (мягкое удаление).
func (e *LifecycleEngine) DeleteNow(ctx context.Context, actor string, accountID uuid.UUID, reason string, notify bool) (*models.Account, error) {
	const op = "services.lifecycle.DeleteNow"
	ctx, cancel := context.WithTimeout(ctx, e.cfg.OperationTimeout)
	defer cancel()

	if err := validateReason(reason, deletionReasonMin, deletionReasonMax); err != nil {
		metrics.TransitionsTotal.WithLabelValues(string(models.ActionDeleted), "rejected").Inc()
		return nil, err
	}

	acc, entry, err := e.applyChecked(ctx, accountID,
		func(acc *models.Account) error {
			if acc.Status == models.StatusDeleted {
				return ErrAlreadyDeleted
			}
			return nil
		},
		func(acc *models.Account, now time.Time) *models.DeletionHistoryEntry {
			acc.Status = models.StatusDeleted
			acc.DeletionCount++
			acc.ScheduledDeletionAt = nil
			acc.ReminderSentAt = nil
			acc.LastDeletedAt = &now
			return &models.DeletionHistoryEntry{
				ID:         uuid.New(),
				AccountID:  acc.ID,
				Action:     models.ActionDeleted,
				Actor:      actor,
				Reason:     reason,
				OccurredAt: now,
			}
		})
	if err != nil {
		metrics.TransitionsTotal.WithLabelValues(string(models.ActionDeleted), outcomeLabel(err)).Inc()
		return nil, e.wrapErr(op, err)
	}

	e.log.Info("account deleted",
		slog.String("account_id", accountID.String()),
		slog.String("actor", actor),
		slog.Int("deletion_count", acc.DeletionCount))
	metrics.TransitionsTotal.WithLabelValues(string(models.ActionDeleted), "success").Inc()
	e.invalidateCache(accountID)

	if notify {
		e.dispatch(ctx, models.NotificationDeleted, acc, entry)
	}
	return acc, nil
}

// ScheduleDeletion планирует удаление аккаунта на будущую дату.
// Дата должна быть строго в будущем и не дальше настроенного горизонта.
func (e *LifecycleEngine) ScheduleDeletion(ctx context.Context, actor string, accountID uuid.UUID, reason string, at time.Time, notify bool) (*models.Account, error) {
	const op = "services.lifecycle.ScheduleDeletion"
	ctx, cancel := context.WithTimeout(ctx, e.cfg.OperationTimeout)
	defer cancel()

	if err := validateReason(reason, deletionReasonMin, deletionReasonMax); err != nil {
		metrics.TransitionsTotal.WithLabelValues(string(models.ActionScheduled), "rejected").Inc()
		return nil, err
	}
	now := time.Now().UTC()
	if !at.After(now) {
		metrics.TransitionsTotal.WithLabelValues(string(models.ActionScheduled), "rejected").Inc()
		return nil, &InvalidScheduleError{At: at, Message: "scheduled deletion date must be in the future"}
	}
	horizon := now.AddDate(0, 0, e.cfg.MaxScheduleHorizonDays)
	if at.After(horizon) {
		metrics.TransitionsTotal.WithLabelValues(string(models.ActionScheduled), "rejected").Inc()
		return nil, &InvalidScheduleError{At: at, Message: fmt.Sprintf(
			"scheduled deletion date exceeds the maximum horizon of %d days", e.cfg.MaxScheduleHorizonDays)}
	}

	scheduledFor := at.UTC()
	acc, entry, err := e.applyChecked(ctx, accountID,
		func(acc *models.Account) error {
			if acc.Status != models.StatusActive {
				return ErrNotActive
			}
			return nil
		},
		func(acc *models.Account, now time.Time) *models.DeletionHistoryEntry {
			acc.Status = models.StatusScheduledForDeletion
			acc.ScheduledDeletionAt = &scheduledFor
			acc.ReminderSentAt = nil
			return &models.DeletionHistoryEntry{
				ID:           uuid.New(),
				AccountID:    acc.ID,
				Action:       models.ActionScheduled,
				Actor:        actor,
				Reason:       reason,
				OccurredAt:   now,
				ScheduledFor: &scheduledFor,
			}
		})
	if err != nil {
		metrics.TransitionsTotal.WithLabelValues(string(models.ActionScheduled), outcomeLabel(err)).Inc()
		return nil, e.wrapErr(op, err)
	}

	e.log.Info("account deletion scheduled",
		slog.String("account_id", accountID.String()),
		slog.String("actor", actor),
		slog.Time("scheduled_for", scheduledFor))
	metrics.TransitionsTotal.WithLabelValues(string(models.ActionScheduled), "success").Inc()
	e.invalidateCache(accountID)

	if notify {
		e.dispatch(ctx, models.NotificationScheduled, acc, entry)
	}
	return acc, nil
}

// CancelScheduledDeletion отменяет запланированное удаление и возвращает аккаунт в активный статус.
func (e *LifecycleEngine) CancelScheduledDeletion(ctx context.Context, actor string, accountID uuid.UUID) (*models.Account, error) {
	const op = "services.lifecycle.CancelScheduledDeletion"
	ctx, cancel := context.WithTimeout(ctx, e.cfg.OperationTimeout)
	defer cancel()

	acc, _, err := e.applyChecked(ctx, accountID,
		func(acc *models.Account) error {
			if acc.Status != models.StatusScheduledForDeletion {
				return ErrNoScheduleToCancel
			}
			return nil
		},
		func(acc *models.Account, now time.Time) *models.DeletionHistoryEntry {
			scheduledFor := acc.ScheduledDeletionAt
			acc.Status = models.StatusActive
			acc.ScheduledDeletionAt = nil
			// Сбрасываем пометку, чтобы повторное планирование получило своё напоминание.
			acc.ReminderSentAt = nil
			return &models.DeletionHistoryEntry{
				ID:           uuid.New(),
				AccountID:    acc.ID,
				Action:       models.ActionCancelledSchedule,
				Actor:        actor,
				Reason:       "scheduled deletion cancelled",
				OccurredAt:   now,
				ScheduledFor: scheduledFor,
			}
		})
	if err != nil {
		metrics.TransitionsTotal.WithLabelValues(string(models.ActionCancelledSchedule), outcomeLabel(err)).Inc()
		return nil, e.wrapErr(op, err)
	}

	e.log.Info("scheduled deletion cancelled",
		slog.String("account_id", accountID.String()),
		slog.String("actor", actor))
	metrics.TransitionsTotal.WithLabelValues(string(models.ActionCancelledSchedule), "success").Inc()
	e.invalidateCache(accountID)
	return acc, nil
}

// Restore восстанавливает удалённый аккаунт, если лимит восстановлений не исчерпан.
func (e *LifecycleEngine) Restore(ctx context.Context, actor string, accountID uuid.UUID, reason string) (*models.Account, error) {
	const op = "services.lifecycle.Restore"
	ctx, cancel := context.WithTimeout(ctx, e.cfg.OperationTimeout)
	defer cancel()

	if err := validateReason(reason, restorationReasonMin, restorationReasonMax); err != nil {
		metrics.TransitionsTotal.WithLabelValues(string(models.ActionRestored), "rejected").Inc()
		return nil, err
	}

	// Статус проверяется раньше лимита: активный аккаунт с исчерпанным
	// лимитом получает ErrNotDeleted, а не ошибку лимита.
	var deletionCount int
	acc, entry, err := e.applyChecked(ctx, accountID,
		func(acc *models.Account) error {
			if acc.Status != models.StatusDeleted {
				return ErrNotDeleted
			}
			count, err := e.repo.CountDeletions(ctx, accountID)
			if err != nil {
				return err
			}
			evaluation := EvaluateRestorationPolicy(count, e.cfg.MaxRestorations)
			if !evaluation.CanRestore {
				return &RestorationLimitError{Max: evaluation.MaxRestorations, Used: evaluation.DeletionCount}
			}
			deletionCount = count
			return nil
		},
		func(acc *models.Account, now time.Time) *models.DeletionHistoryEntry {
			acc.Status = models.StatusActive
			acc.LastRestoredAt = &now
			sequence := deletionCount
			return &models.DeletionHistoryEntry{
				ID:                  uuid.New(),
				AccountID:           acc.ID,
				Action:              models.ActionRestored,
				Actor:               actor,
				Reason:              reason,
				OccurredAt:          now,
				RestorationSequence: &sequence,
			}
		})
	if err != nil {
		metrics.TransitionsTotal.WithLabelValues(string(models.ActionRestored), outcomeLabel(err)).Inc()
		return nil, e.wrapErr(op, err)
	}

	e.log.Info("account restored",
		slog.String("account_id", accountID.String()),
		slog.String("actor", actor),
		slog.Int("restoration_sequence", deletionCount))
	metrics.TransitionsTotal.WithLabelValues(string(models.ActionRestored), "success").Inc()
	e.invalidateCache(accountID)

	e.dispatch(ctx, models.NotificationRestored, acc, entry)
	return acc, nil
}

// ExecuteScheduled исполняет наступившее запланированное удаление.
// Путь записи тот же, что у DeleteNow: отмена, выигравшая гонку у обхода,
// детерминированно оставляет ровно одного победителя.
func (e *LifecycleEngine) ExecuteScheduled(ctx context.Context, accountID uuid.UUID) (*models.Account, error) {
	const op = "services.lifecycle.ExecuteScheduled"
	ctx, cancel := context.WithTimeout(ctx, e.cfg.OperationTimeout)
	defer cancel()

	acc, entry, err := e.applyChecked(ctx, accountID,
		func(acc *models.Account) error {
			if acc.Status != models.StatusScheduledForDeletion {
				return ErrNotScheduled
			}
			return nil
		},
		func(acc *models.Account, now time.Time) *models.DeletionHistoryEntry {
			scheduledFor := acc.ScheduledDeletionAt
			acc.Status = models.StatusDeleted
			acc.DeletionCount++
			acc.ScheduledDeletionAt = nil
			acc.LastDeletedAt = &now
			return &models.DeletionHistoryEntry{
				ID:           uuid.New(),
				AccountID:    acc.ID,
				Action:       models.ActionExecuted,
				Actor:        SchedulerActor,
				Reason:       executedReason,
				OccurredAt:   now,
				ScheduledFor: scheduledFor,
			}
		})
	if err != nil {
		metrics.TransitionsTotal.WithLabelValues(string(models.ActionExecuted), outcomeLabel(err)).Inc()
		return nil, e.wrapErr(op, err)
	}

	e.log.Info("scheduled deletion executed",
		slog.String("account_id", accountID.String()),
		slog.Int("deletion_count", acc.DeletionCount))
	metrics.TransitionsTotal.WithLabelValues(string(models.ActionExecuted), "success").Inc()
	e.invalidateCache(accountID)

	e.dispatch(ctx, models.NotificationDeleted, acc, entry)
	return acc, nil
}

// GetAccount возвращает аккаунт по ID, используя кеш или репозиторий.
func (e *LifecycleEngine) GetAccount(ctx context.Context, accountID uuid.UUID) (*models.Account, error) {
	const op = "services.lifecycle.GetAccount"

	cacheKey := accountCacheKey(accountID)
	var cached models.Account
	found, err := e.cache.Get(cacheKey, &cached)
	if err != nil {
		e.log.Warn("failed to read account from cache", slog.String("key", cacheKey), sl.Err(err))
	}
	if found {
		return &cached, nil
	}

	acc, err := e.repo.GetAccount(ctx, accountID)
	if err != nil {
		return nil, e.wrapErr(op, err)
	}
	if err := e.cache.Set(cacheKey, acc, time.Hour); err != nil {
		e.log.Warn("failed to cache account", slog.String("key", cacheKey), sl.Err(err))
	}
	return acc, nil
}

// GetHistory возвращает журнал удалений аккаунта, новые записи первыми.
func (e *LifecycleEngine) GetHistory(ctx context.Context, accountID uuid.UUID) ([]*models.DeletionHistoryEntry, error) {
	const op = "services.lifecycle.GetHistory"

	if _, err := e.repo.GetAccount(ctx, accountID); err != nil {
		return nil, e.wrapErr(op, err)
	}
	entries, err := e.repo.ListHistory(ctx, accountID)
	if err != nil {
		return nil, e.wrapErr(op, err)
	}
	return entries, nil
}

// EvaluateRestoration возвращает оценку политики восстановления для аккаунта.
func (e *LifecycleEngine) EvaluateRestoration(ctx context.Context, accountID uuid.UUID) (RestorationEvaluation, error) {
	const op = "services.lifecycle.EvaluateRestoration"

	deletionCount, err := e.repo.CountDeletions(ctx, accountID)
	if err != nil {
		return RestorationEvaluation{}, e.wrapErr(op, err)
	}
	return EvaluateRestorationPolicy(deletionCount, e.cfg.MaxRestorations), nil
}

// applyChecked выполняет переход по схеме: чтение, проверка предусловия,
// транзакционная запись с проверкой версии. Проигранная гонка версий
// обрабатывается одним повторным чтением: если предусловие к этому моменту
// нарушено, проигравший получает бизнес-ошибку, а не порчу состояния.
func (e *LifecycleEngine) applyChecked(ctx context.Context, accountID uuid.UUID,
	check func(*models.Account) error,
	mutate func(*models.Account, time.Time) *models.DeletionHistoryEntry,
) (*models.Account, *models.DeletionHistoryEntry, error) {
	acc, err := e.repo.GetAccount(ctx, accountID)
	if err != nil {
		return nil, nil, err
	}

	for attempt := 0; ; attempt++ {
		if err := check(acc); err != nil {
			return nil, nil, err
		}
		upd := *acc
		now := time.Now().UTC()
		entry := mutate(&upd, now)

		err := e.repo.ApplyTransition(ctx, &upd, entry)
		if err == nil {
			return &upd, entry, nil
		}
		if errors.Is(err, repository.ErrVersionConflict) && attempt == 0 {
			acc, err = e.repo.GetAccount(ctx, accountID)
			if err != nil {
				return nil, nil, err
			}
			continue
		}
		return nil, nil, err
	}
}

// dispatch публикует уведомление после фиксации перехода и помечает попытку
// на записи журнала. Любая ошибка здесь логируется и не влияет на результат.
func (e *LifecycleEngine) dispatch(ctx context.Context, kind models.NotificationKind, acc *models.Account, entry *models.DeletionHistoryEntry) {
	msg := models.NotificationMessage{
		Kind:          kind,
		AccountID:     acc.ID,
		Email:         acc.Email,
		Username:      acc.Username,
		Reason:        entry.Reason,
		ScheduledFor:  entry.ScheduledFor,
		DeletionCount: acc.DeletionCount,
		OccurredAt:    entry.OccurredAt,
	}
	if err := e.notifier.Send(kind, msg); err != nil {
		e.log.Error("failed to publish notification",
			slog.String("kind", string(kind)),
			slog.String("account_id", acc.ID.String()),
			sl.Err(err))
		return
	}
	if err := e.repo.MarkNotificationSent(ctx, entry.ID); err != nil {
		e.log.Error("failed to mark notification sent",
			slog.String("entry_id", entry.ID.String()),
			sl.Err(err))
	}
}

func (e *LifecycleEngine) invalidateCache(accountID uuid.UUID) {
	cacheKey := accountCacheKey(accountID)
	if err := e.cache.Invalidate(cacheKey); err != nil {
		e.log.Warn("failed to invalidate account cache", slog.String("key", cacheKey), sl.Err(err))
	}
}

// wrapErr добавляет контекст операции к инфраструктурным ошибкам.
// Бизнес-ошибки возвращаются как есть, чтобы обработчики могли их распознать.
func (e *LifecycleEngine) wrapErr(op string, err error) error {
	if isBusinessError(err) {
		return err
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return fmt.Errorf("%s: %w", op, ErrTimeout)
	}
	return fmt.Errorf("%s: %w", op, err)
}

func isBusinessError(err error) bool {
	var reasonErr *InvalidReasonError
	var scheduleErr *InvalidScheduleError
	var limitErr *RestorationLimitError
	return errors.Is(err, ErrAlreadyDeleted) ||
		errors.Is(err, ErrNotActive) ||
		errors.Is(err, ErrNotDeleted) ||
		errors.Is(err, ErrNoScheduleToCancel) ||
		errors.Is(err, ErrNotScheduled) ||
		errors.Is(err, repository.ErrAccountNotFound) ||
		errors.As(err, &reasonErr) ||
		errors.As(err, &scheduleErr) ||
		errors.As(err, &limitErr)
}

func outcomeLabel(err error) string {
	if isBusinessError(err) {
		return "rejected"
	}
	return "error"
}

func validateReason(reason string, minLen, maxLen int) error {
	// Границы заданы в символах, не в байтах: кириллическая причина
	// не должна отвергаться на половине допустимой длины.
	length := utf8.RuneCountInString(reason)
	if length < minLen || length > maxLen {
		return &InvalidReasonError{Min: minLen, Max: maxLen, Got: length}
	}
	return nil
}

func accountCacheKey(accountID uuid.UUID) string {
	return fmt.Sprintf("account:%s", accountID)
}

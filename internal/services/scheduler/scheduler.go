// Package services реализует фоновый обход запланированных удалений.
//
// Обход периодически исполняет наступившие удаления через движок жизненного
// цикла и публикует напоминания о приближающихся. Ошибка по одному аккаунту
// логируется и не прерывает обход остальных: неисполненный аккаунт остаётся
// в статусе scheduled_for_deletion и будет подобран следующим тиком.
package services

import (
	"context"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/magabrotheeeer/account-lifecycle/internal/config"
	"github.com/magabrotheeeer/account-lifecycle/internal/lib/sl"
	"github.com/magabrotheeeer/account-lifecycle/internal/metrics"
	"github.com/magabrotheeeer/account-lifecycle/internal/models"
)

// AccountRepository определяет выборки хранилища, нужные фоновому обходу.
type AccountRepository interface {
	// ListDueForExecution возвращает аккаунты с наступившим удалением.
	ListDueForExecution(ctx context.Context, now time.Time) ([]*models.Account, error)
	// ListDueForReminder возвращает аккаунты в окне напоминания без отправленного напоминания.
	ListDueForReminder(ctx context.Context, now time.Time, window time.Duration) ([]*models.Account, error)
	// MarkReminderSent помечает напоминание отправленным; 0 строк — пометка уже стояла.
	MarkReminderSent(ctx context.Context, accountID uuid.UUID, at time.Time) (int, error)
}

// LifecycleEngine описывает путь исполнения запланированного удаления.
// Обход использует тот же атомарный путь записи, что и немедленное удаление,
// поэтому гонка с отменой даёт ровно одного победителя.
type LifecycleEngine interface {
	ExecuteScheduled(ctx context.Context, accountID uuid.UUID) (*models.Account, error)
}

// Notifier описывает публикацию напоминаний.
type Notifier interface {
	Send(kind models.NotificationKind, msg models.NotificationMessage) error
}

// SchedulerService запускает периодический обход запланированных удалений.
type SchedulerService struct {
	repo     AccountRepository
	engine   LifecycleEngine
	notifier Notifier
	cfg      config.Lifecycle
	log      *slog.Logger
}

// NewSchedulerService создает новый экземпляр SchedulerService.
func NewSchedulerService(repo AccountRepository, engine LifecycleEngine, notifier Notifier, cfg config.Lifecycle, log *slog.Logger) *SchedulerService {
	return &SchedulerService{
		repo:     repo,
		engine:   engine,
		notifier: notifier,
		cfg:      cfg,
		log:      log,
	}
}

// Run выполняет обход сразу и далее по тикеру, до отмены контекста.
// Начатый обход завершается, новый после отмены не стартует.
func (s *SchedulerService) Run(ctx context.Context) {
	s.runSweep(ctx)

	ticker := time.NewTicker(s.cfg.SweepInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			s.runSweep(ctx)
		case <-ctx.Done():
			s.log.Info("deletion scheduler stopped")
			return
		}
	}
}

func (s *SchedulerService) runSweep(ctx context.Context) {
	s.executeDue(ctx)
	s.remindUpcoming(ctx)
}

func (s *SchedulerService) executeDue(ctx context.Context) {
	now := time.Now().UTC()
	accounts, err := s.repo.ListDueForExecution(ctx, now)
	if err != nil {
		s.log.Error("failed to list accounts due for execution", sl.Err(err))
		return
	}
	if len(accounts) == 0 {
		return
	}
	s.log.Info("found accounts due for scheduled deletion", slog.Int("count", len(accounts)))
	for _, acc := range accounts {
		if _, err := s.engine.ExecuteScheduled(ctx, acc.ID); err != nil {
			metrics.SweepFailuresTotal.Inc()
			s.log.Error("failed to execute scheduled deletion",
				slog.String("account_id", acc.ID.String()), sl.Err(err))
			continue
		}
		metrics.SweepExecutionsTotal.Inc()
	}
}

func (s *SchedulerService) remindUpcoming(ctx context.Context) {
	now := time.Now().UTC()
	accounts, err := s.repo.ListDueForReminder(ctx, now, s.cfg.ReminderLeadTime)
	if err != nil {
		s.log.Error("failed to list accounts due for reminder", sl.Err(err))
		return
	}
	if len(accounts) == 0 {
		return
	}
	s.log.Info("found accounts due for deletion reminder", slog.Int("count", len(accounts)))
	for _, acc := range accounts {
		// Сначала помечаем, потом публикуем: гарантия — не более одного
		// напоминания на запланированное удаление.
		marked, err := s.repo.MarkReminderSent(ctx, acc.ID, now)
		if err != nil {
			s.log.Error("failed to mark reminder sent",
				slog.String("account_id", acc.ID.String()), sl.Err(err))
			continue
		}
		if marked == 0 {
			continue
		}
		msg := models.NotificationMessage{
			Kind:          models.NotificationReminder,
			AccountID:     acc.ID,
			Email:         acc.Email,
			Username:      acc.Username,
			ScheduledFor:  acc.ScheduledDeletionAt,
			DeletionCount: acc.DeletionCount,
			OccurredAt:    now,
		}
		if err := s.notifier.Send(models.NotificationReminder, msg); err != nil {
			s.log.Error("failed to publish reminder",
				slog.String("account_id", acc.ID.String()), sl.Err(err))
			continue
		}
		metrics.RemindersSentTotal.Inc()
	}
}

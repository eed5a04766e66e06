package repository

import (
	"context"
	"database/sql"
	"path/filepath"
	"testing"
	"time"

	"github.com/docker/go-connections/nat"
	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"

	"github.com/magabrotheeeer/account-lifecycle/internal/migrations"
	"github.com/magabrotheeeer/account-lifecycle/internal/models"
)

func setupTestStorage(t *testing.T) (*Storage, func()) {
	t.Helper()
	ctx := context.Background()

	pgContainer, err := postgres.Run(ctx,
		"postgres:15-alpine",
		postgres.WithDatabase("testdb"),
		postgres.WithUsername("user"),
		postgres.WithPassword("password"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(5*time.Second),
			wait.ForListeningPort(nat.Port("5432/tcp")),
		),
	)
	require.NoError(t, err)

	dsn, err := pgContainer.ConnectionString(ctx)
	require.NoError(t, err)

	db, err := sql.Open("pgx", dsn)
	require.NoError(t, err)

	projectRoot, err := filepath.Abs("../../..")
	require.NoError(t, err)
	err = migrations.Run(db, filepath.Join(projectRoot, "migrations"))
	require.NoError(t, err)

	cleanup := func() {
		db.Close()
		if err := pgContainer.Terminate(ctx); err != nil {
			t.Logf("failed to terminate container: %s", err)
		}
	}

	return &Storage{DB: db}, cleanup
}

func createTestAccount(t *testing.T, s *Storage, status models.AccountStatus, scheduledFor *time.Time) *models.Account {
	t.Helper()

	acc := &models.Account{
		ID:       uuid.New(),
		Email:    "user@example.com",
		Username: "testuser",
		Status:   status,
	}
	_, err := s.DB.Exec(`INSERT INTO accounts (id, email, username, status, scheduled_deletion_at)
		VALUES ($1, $2, $3, $4, $5)`,
		acc.ID, acc.Email, acc.Username, acc.Status, scheduledFor)
	require.NoError(t, err)

	stored, err := s.GetAccount(context.Background(), acc.ID)
	require.NoError(t, err)
	return stored
}

func createTestHistoryEntry(t *testing.T, s *Storage, accountID uuid.UUID, action models.HistoryAction, occurredAt time.Time) *models.DeletionHistoryEntry {
	t.Helper()

	entry := &models.DeletionHistoryEntry{
		ID:         uuid.New(),
		AccountID:  accountID,
		Action:     action,
		Actor:      "admin",
		Reason:     "test reason for history entry",
		OccurredAt: occurredAt,
	}
	_, err := s.DB.Exec(`INSERT INTO deletion_history (id, account_id, action, actor, reason, occurred_at)
		VALUES ($1, $2, $3, $4, $5, $6)`,
		entry.ID, entry.AccountID, entry.Action, entry.Actor, entry.Reason, entry.OccurredAt)
	require.NoError(t, err)
	return entry
}

package storage

import (
	"context"
	"testing"
	"time"

	"github.com/gofrs/uuid/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	tcpostgres "github.com/testcontainers/testcontainers-go/modules/postgres"

	"github.com/carson-networks/budget-recurring/internal/config"
	"github.com/carson-networks/budget-recurring/internal/logging"
	"github.com/carson-networks/budget-recurring/internal/recurrence"
	"github.com/carson-networks/budget-recurring/internal/storage/sqlconfig"
)

func newPostgresStorage(t *testing.T) *Storage {
	t.Helper()
	if testing.Short() {
		t.Skip("skipping postgres integration test in short mode")
	}

	ctx := context.Background()
	ctr, err := tcpostgres.Run(ctx, "postgres:16-alpine",
		tcpostgres.WithDatabase("budget"),
		tcpostgres.WithUsername("budget"),
		tcpostgres.WithPassword("budget"),
		tcpostgres.BasicWaitStrategies(),
	)
	testcontainers.CleanupContainer(t, ctr)
	require.NoError(t, err)

	host, err := ctr.Host(ctx)
	require.NoError(t, err)
	port, err := ctr.MappedPort(ctx, "5432/tcp")
	require.NoError(t, err)

	logger := logging.SetupLogging("error")
	store, err := NewStorage(ctx, &config.Config{
		PostgresAddress:  host,
		PostgresPort:     port.Port(),
		PostgresDB:       "budget",
		PostgresUsername: "budget",
		PostgresPassword: "budget",
		ConnectRetries:   5,
	}, logger)
	require.NoError(t, err)
	t.Cleanup(func() { _ = store.Close() })

	require.NoError(t, store.Migrate(logger))
	return store
}

func TestPostgres_TransactionLifecycle(t *testing.T) {
	store := newPostgresStorage(t)
	ctx := context.Background()

	anchorCreate := testCreate()
	anchorCreate.IsRecurring = true
	anchorCreate.RecurrenceType = recurrence.TypeMonthly
	next := time.Date(2025, 2, 25, 0, 0, 0, 0, time.UTC)
	anchorCreate.NextOccurrence = &next

	writer, err := store.Write(ctx)
	require.NoError(t, err)
	anchor, err := writer.Transactions.Insert(ctx, anchorCreate)
	require.NoError(t, err)
	childCreate := testCreate()
	childCreate.TransactionDate = next
	childCreate.ParentTransactionID = &anchor.ID
	child, err := writer.Transactions.Insert(ctx, childCreate)
	require.NoError(t, err)
	require.NoError(t, writer.Commit())

	assert.Equal(t, int64(1), anchor.Version)
	assert.Equal(t, recurrence.TypeMonthly, anchor.RecurrenceType)
	assert.Equal(t, next, *anchor.NextOccurrence)
	assert.Nil(t, anchor.RecurrenceEndDate)
	assert.True(t, anchor.Amount.Equal(anchorCreate.Amount))

	recurring := true
	due, err := store.Transactions.List(ctx, &sqlconfig.TransactionFilter{
		IsRecurring:   &recurring,
		DueOnOrBefore: &next,
		Order:         sqlconfig.OrderByNextOccurrence,
	})
	require.NoError(t, err)
	require.Len(t, due, 1)
	assert.Equal(t, anchor.ID, due[0].ID)

	stale := *anchor
	anchor.NextOccurrence = nil
	anchor.IsRecurring = false
	saved, err := store.Transactions.Save(ctx, anchor)
	require.NoError(t, err)
	assert.Equal(t, int64(2), saved.Version)
	assert.Nil(t, saved.NextOccurrence)

	_, err = store.Transactions.Save(ctx, &stale)
	assert.ErrorIs(t, err, sqlconfig.ErrStaleRecord)

	require.NoError(t, store.Transactions.Delete(ctx, anchor.ID))
	detached, err := store.Transactions.FindByID(ctx, child.ID)
	require.NoError(t, err)
	assert.Nil(t, detached.ParentTransactionID)

	_, err = store.Transactions.FindByID(ctx, uuid.Must(uuid.NewV4()))
	assert.ErrorIs(t, err, sqlconfig.ErrNotFound)
	assert.ErrorIs(t, store.Transactions.Delete(ctx, anchor.ID), sqlconfig.ErrNotFound)
}

func TestPostgres_WriterRollback(t *testing.T) {
	store := newPostgresStorage(t)
	ctx := context.Background()

	writer, err := store.Write(ctx)
	require.NoError(t, err)
	created, err := writer.Transactions.Insert(ctx, testCreate())
	require.NoError(t, err)
	require.NoError(t, writer.Rollback())

	_, err = store.Transactions.FindByID(ctx, created.ID)
	assert.ErrorIs(t, err, sqlconfig.ErrNotFound)
}

package storage

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/cenkalti/backoff/v4"
	_ "github.com/lib/pq"
	"github.com/sirupsen/logrus"
	"github.com/stephenafamo/bob"

	"github.com/carson-networks/budget-recurring/internal/config"
	"github.com/carson-networks/budget-recurring/internal/storage/memory"
	"github.com/carson-networks/budget-recurring/internal/storage/sqlconfig"
)

// BeginFunc opens a write transaction.
type BeginFunc func(ctx context.Context) (*Writer, error)

// Storage is the persistence collaborator. Transactions serves
// non-transactional reads; Write opens a transaction for mutations.
type Storage struct {
	DB           *sql.DB
	Transactions sqlconfig.ITransactionTable
	begin        BeginFunc
}

// New assembles a Storage from a table and a transaction opener.
func New(table sqlconfig.ITransactionTable, begin BeginFunc) *Storage {
	return &Storage{
		Transactions: table,
		begin:        begin,
	}
}

// Open builds the storage selected by env.StorageDriver.
func Open(ctx context.Context, env *config.Config, logger *logrus.Logger) (*Storage, error) {
	if env.StorageDriver == config.StorageDriverMemory {
		logger.Warn("Storage.Open.memory driver selected, data is not persisted")
		return NewMemoryStorage(), nil
	}
	return NewStorage(ctx, env, logger)
}

// NewStorage connects to PostgreSQL, retrying the initial ping with
// exponential backoff.
func NewStorage(ctx context.Context, env *config.Config, logger *logrus.Logger) (*Storage, error) {
	db, err := sql.Open("postgres", env.PostgresURL())
	if err != nil {
		return nil, fmt.Errorf("sql.Open: %w", err)
	}

	policy := backoff.WithContext(
		backoff.WithMaxRetries(backoff.NewExponentialBackOff(), env.ConnectRetries),
		ctx,
	)
	err = backoff.RetryNotify(
		func() error { return db.PingContext(ctx) },
		policy,
		func(err error, wait time.Duration) {
			logger.WithError(err).WithField("retryIn", wait.String()).Warn("Storage.Connect.Retry")
		},
	)
	if err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ping postgres: %w", err)
	}

	bobDB := bob.NewDB(db)
	s := New(sqlconfig.NewTransactionsTable(db), func(ctx context.Context) (*Writer, error) {
		tx, err := bobDB.BeginTx(ctx, nil)
		if err != nil {
			return nil, err
		}
		return NewWriter(tx, sqlconfig.NewTransactionsTableWithExecutor(tx)), nil
	})
	s.DB = db
	return s, nil
}

// NewMemoryStorage returns a Storage backed by an in-process store.
func NewMemoryStorage() *Storage {
	store := memory.New()
	return New(store, func(ctx context.Context) (*Writer, error) {
		tx := store.Begin()
		return NewWriter(tx, tx), nil
	})
}

// Write opens a transaction. The caller must Commit or Rollback the writer.
func (s *Storage) Write(ctx context.Context) (*Writer, error) {
	return s.begin(ctx)
}

func (s *Storage) Close() error {
	if s.DB == nil {
		return nil
	}
	return s.DB.Close()
}

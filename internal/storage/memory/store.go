// Package memory is an in-process implementation of the transaction table,
// used by tests and by the memory storage driver.
package memory

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/gofrs/uuid/v5"

	"github.com/carson-networks/budget-recurring/internal/recurrence"
	"github.com/carson-networks/budget-recurring/internal/storage/sqlconfig"
)

var (
	_ sqlconfig.ITransactionTable = (*Store)(nil)
	_ sqlconfig.ITransactionTable = (*Tx)(nil)
)

var errTxDone = errors.New("memory: transaction already committed or rolled back")

// Store implements sqlconfig.ITransactionTable using in-memory maps.
// Writers are serialized: a Tx holds the write lock until it commits or
// rolls back, and direct writes wait for it.
type Store struct {
	writeMu sync.Mutex
	mu      sync.RWMutex
	state   *state
	now     func() time.Time
}

// New creates a new in-memory store.
func New() *Store {
	return &Store{
		state: newState(),
		now:   time.Now,
	}
}

func (s *Store) FindByID(ctx context.Context, id uuid.UUID) (*sqlconfig.Transaction, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.state.findByID(id)
}

func (s *Store) List(ctx context.Context, filter *sqlconfig.TransactionFilter) ([]*sqlconfig.Transaction, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.state.list(filter), nil
}

func (s *Store) Insert(ctx context.Context, create *sqlconfig.TransactionCreate) (*sqlconfig.Transaction, error) {
	s.writeMu.Lock()
	defer s.writeMu.Unlock()
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state.insert(create, s.now())
}

func (s *Store) Save(ctx context.Context, txn *sqlconfig.Transaction) (*sqlconfig.Transaction, error) {
	s.writeMu.Lock()
	defer s.writeMu.Unlock()
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state.save(txn)
}

func (s *Store) Delete(ctx context.Context, id uuid.UUID) error {
	s.writeMu.Lock()
	defer s.writeMu.Unlock()
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state.delete(id)
}

// Begin starts a transaction working on a private copy of the store.
func (s *Store) Begin() *Tx {
	s.writeMu.Lock()
	s.mu.RLock()
	snapshot := s.state.clone()
	s.mu.RUnlock()
	return &Tx{store: s, state: snapshot}
}

// Tx is a serialized transaction over a Store.
type Tx struct {
	store *Store
	state *state
	done  bool
}

func (tx *Tx) FindByID(ctx context.Context, id uuid.UUID) (*sqlconfig.Transaction, error) {
	if tx.done {
		return nil, errTxDone
	}
	return tx.state.findByID(id)
}

func (tx *Tx) List(ctx context.Context, filter *sqlconfig.TransactionFilter) ([]*sqlconfig.Transaction, error) {
	if tx.done {
		return nil, errTxDone
	}
	return tx.state.list(filter), nil
}

func (tx *Tx) Insert(ctx context.Context, create *sqlconfig.TransactionCreate) (*sqlconfig.Transaction, error) {
	if tx.done {
		return nil, errTxDone
	}
	return tx.state.insert(create, tx.store.now())
}

func (tx *Tx) Save(ctx context.Context, txn *sqlconfig.Transaction) (*sqlconfig.Transaction, error) {
	if tx.done {
		return nil, errTxDone
	}
	return tx.state.save(txn)
}

func (tx *Tx) Delete(ctx context.Context, id uuid.UUID) error {
	if tx.done {
		return errTxDone
	}
	return tx.state.delete(id)
}

// Commit publishes the transaction's changes.
func (tx *Tx) Commit(ctx context.Context) error {
	if tx.done {
		return errTxDone
	}
	tx.done = true
	tx.store.mu.Lock()
	tx.store.state = tx.state
	tx.store.mu.Unlock()
	tx.store.writeMu.Unlock()
	return nil
}

// Rollback discards the transaction's changes. Calling it after Commit is a no-op.
func (tx *Tx) Rollback(ctx context.Context) error {
	if tx.done {
		return nil
	}
	tx.done = true
	tx.store.writeMu.Unlock()
	return nil
}

type state struct {
	rows    map[uuid.UUID]*sqlconfig.Transaction
	seq     map[uuid.UUID]int64
	nextSeq int64
}

func newState() *state {
	return &state{
		rows: make(map[uuid.UUID]*sqlconfig.Transaction),
		seq:  make(map[uuid.UUID]int64),
	}
}

func (st *state) clone() *state {
	c := &state{
		rows:    make(map[uuid.UUID]*sqlconfig.Transaction, len(st.rows)),
		seq:     make(map[uuid.UUID]int64, len(st.seq)),
		nextSeq: st.nextSeq,
	}
	for id, row := range st.rows {
		c.rows[id] = copyTransaction(row)
	}
	for id, n := range st.seq {
		c.seq[id] = n
	}
	return c
}

func (st *state) findByID(id uuid.UUID) (*sqlconfig.Transaction, error) {
	row, ok := st.rows[id]
	if !ok {
		return nil, sqlconfig.ErrNotFound
	}
	return copyTransaction(row), nil
}

func (st *state) insert(create *sqlconfig.TransactionCreate, now time.Time) (*sqlconfig.Transaction, error) {
	id, err := uuid.NewV4()
	if err != nil {
		return nil, fmt.Errorf("generate id: %w", err)
	}
	if create.ParentTransactionID != nil {
		if _, ok := st.rows[*create.ParentTransactionID]; !ok {
			return nil, fmt.Errorf("parent %s: %w", create.ParentTransactionID, sqlconfig.ErrNotFound)
		}
	}

	row := &sqlconfig.Transaction{
		ID:                  id,
		Type:                create.Type,
		Amount:              create.Amount,
		Description:         create.Description,
		TransactionDate:     recurrence.Day(create.TransactionDate),
		CategoryID:          create.CategoryID,
		UserID:              create.UserID,
		IsRecurring:         create.IsRecurring,
		RecurrenceType:      create.RecurrenceType,
		RecurrenceEndDate:   dayPtr(create.RecurrenceEndDate),
		NextOccurrence:      dayPtr(create.NextOccurrence),
		ParentTransactionID: uuidPtr(create.ParentTransactionID),
		Version:             1,
		CreatedAt:           now,
	}
	st.nextSeq++
	st.rows[id] = row
	st.seq[id] = st.nextSeq
	return copyTransaction(row), nil
}

func (st *state) save(txn *sqlconfig.Transaction) (*sqlconfig.Transaction, error) {
	current, ok := st.rows[txn.ID]
	if !ok {
		return nil, sqlconfig.ErrNotFound
	}
	if current.Version != txn.Version {
		return nil, sqlconfig.ErrStaleRecord
	}

	updated := copyTransaction(txn)
	updated.TransactionDate = recurrence.Day(updated.TransactionDate)
	updated.RecurrenceEndDate = dayPtr(updated.RecurrenceEndDate)
	updated.NextOccurrence = dayPtr(updated.NextOccurrence)
	updated.Version = current.Version + 1
	updated.CreatedAt = current.CreatedAt
	st.rows[txn.ID] = updated
	return copyTransaction(updated), nil
}

func (st *state) delete(id uuid.UUID) error {
	if _, ok := st.rows[id]; !ok {
		return sqlconfig.ErrNotFound
	}
	delete(st.rows, id)
	delete(st.seq, id)

	// ON DELETE SET NULL
	for _, row := range st.rows {
		if row.ParentTransactionID != nil && *row.ParentTransactionID == id {
			row.ParentTransactionID = nil
		}
	}
	return nil
}

func (st *state) list(filter *sqlconfig.TransactionFilter) []*sqlconfig.Transaction {
	if filter == nil {
		filter = &sqlconfig.TransactionFilter{}
	}

	var matched []*sqlconfig.Transaction
	for _, row := range st.rows {
		if matches(row, filter) {
			matched = append(matched, row)
		}
	}

	sort.Slice(matched, func(i, j int) bool {
		a, b := matched[i], matched[j]
		switch filter.Order {
		case sqlconfig.OrderByDate:
			if !a.TransactionDate.Equal(b.TransactionDate) {
				return a.TransactionDate.Before(b.TransactionDate)
			}
			return st.seq[a.ID] < st.seq[b.ID]
		case sqlconfig.OrderByNextOccurrence:
			an, bn := a.NextOccurrence, b.NextOccurrence
			if an != nil && bn != nil && !an.Equal(*bn) {
				return an.Before(*bn)
			}
			if (an == nil) != (bn == nil) {
				return an != nil
			}
			return st.seq[a.ID] < st.seq[b.ID]
		default:
			return st.seq[a.ID] > st.seq[b.ID]
		}
	})

	if filter.Offset > 0 {
		if filter.Offset >= len(matched) {
			matched = nil
		} else {
			matched = matched[filter.Offset:]
		}
	}
	if filter.Limit > 0 && len(matched) > filter.Limit+1 {
		matched = matched[:filter.Limit+1]
	}

	result := make([]*sqlconfig.Transaction, len(matched))
	for i, row := range matched {
		result[i] = copyTransaction(row)
	}
	return result
}

func matches(row *sqlconfig.Transaction, f *sqlconfig.TransactionFilter) bool {
	if f.UserID != nil && row.UserID != *f.UserID {
		return false
	}
	if f.ParentID != nil && (row.ParentTransactionID == nil || *row.ParentTransactionID != *f.ParentID) {
		return false
	}
	if f.IsRecurring != nil && row.IsRecurring != *f.IsRecurring {
		return false
	}
	if f.DueOnOrBefore != nil && (row.NextOccurrence == nil || row.NextOccurrence.After(recurrence.Day(*f.DueOnOrBefore))) {
		return false
	}
	if f.MaxCreationTime != nil && row.CreatedAt.After(*f.MaxCreationTime) {
		return false
	}
	return true
}

func copyTransaction(t *sqlconfig.Transaction) *sqlconfig.Transaction {
	c := *t
	c.RecurrenceEndDate = timePtr(t.RecurrenceEndDate)
	c.NextOccurrence = timePtr(t.NextOccurrence)
	c.ParentTransactionID = uuidPtr(t.ParentTransactionID)
	return &c
}

func timePtr(t *time.Time) *time.Time {
	if t == nil {
		return nil
	}
	v := *t
	return &v
}

func dayPtr(t *time.Time) *time.Time {
	if t == nil {
		return nil
	}
	v := recurrence.Day(*t)
	return &v
}

func uuidPtr(id *uuid.UUID) *uuid.UUID {
	if id == nil {
		return nil
	}
	v := *id
	return &v
}

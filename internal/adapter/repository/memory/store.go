// Package memory is an in-process storage driver. A write transaction holds
// the store's exclusive lock until it commits or rolls back, so every
// mutation is serialized and readers only ever see committed state.
package memory

import (
	"context"
	"errors"
	"sort"
	"sync"

	"github.com/iho/trustbook/internal/domain"
	"github.com/iho/trustbook/internal/usecase"
)

var (
	ErrTxDone     = errors.New("memory: transaction has already been committed or rolled back")
	ErrReadOnlyTx = errors.New("memory: write in read-only transaction")
	ErrForeignTx  = errors.New("memory: transaction does not belong to this store")
)

// Store holds accounts and entries.
type Store struct {
	mu        sync.RWMutex
	accounts  map[string]*domain.Account
	entries   map[string]*domain.Entry
	byAccount map[string][]*domain.Entry
	seq       int64
}

// NewStore creates an empty Store.
func NewStore() *Store {
	return &Store{
		accounts:  make(map[string]*domain.Account),
		entries:   make(map[string]*domain.Entry),
		byAccount: make(map[string][]*domain.Entry),
	}
}

// TxManager implements usecase.TransactionManager.
type TxManager struct {
	store *Store
}

// NewTxManager creates a new TxManager.
func NewTxManager(store *Store) *TxManager {
	return &TxManager{store: store}
}

// Begin starts a write transaction.
func (m *TxManager) Begin(ctx context.Context) (usecase.Transaction, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	m.store.mu.Lock()

	return &Tx{store: m.store, writable: true}, nil
}

// BeginReadOnly starts a read-only transaction.
func (m *TxManager) BeginReadOnly(ctx context.Context) (usecase.Transaction, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	m.store.mu.RLock()

	return &Tx{store: m.store}, nil
}

// Tx is a memory transaction. Writes apply in place and record an undo
// step, so Rollback restores the state seen at Begin.
type Tx struct {
	store    *Store
	undo     []func()
	writable bool
	done     bool
}

// Commit releases the store lock and keeps every write.
func (t *Tx) Commit(_ context.Context) error {
	if t.done {
		return ErrTxDone
	}

	t.undo = nil
	t.release()

	return nil
}

// Rollback reverts every write. It is a no-op after Commit.
func (t *Tx) Rollback(_ context.Context) error {
	if t.done {
		return nil
	}

	for i := len(t.undo) - 1; i >= 0; i-- {
		t.undo[i]()
	}
	t.undo = nil
	t.release()

	return nil
}

func (t *Tx) release() {
	t.done = true
	if t.writable {
		t.store.mu.Unlock()
	} else {
		t.store.mu.RUnlock()
	}
}

func (t *Tx) onRollback(fn func()) {
	t.undo = append(t.undo, fn)
}

func (s *Store) reader(tx usecase.Transaction) (*Tx, error) {
	t, ok := tx.(*Tx)
	if !ok || t.store != s {
		return nil, ErrForeignTx
	}
	if t.done {
		return nil, ErrTxDone
	}
	return t, nil
}

func (s *Store) writer(tx usecase.Transaction) (*Tx, error) {
	t, err := s.reader(tx)
	if err != nil {
		return nil, err
	}
	if !t.writable {
		return nil, ErrReadOnlyTx
	}
	return t, nil
}

// insertEntry places e at its canonical position within its account.
func (s *Store) insertEntry(e *domain.Entry) {
	list := s.byAccount[e.AccountID]
	pos := e.Position()

	i := sort.Search(len(list), func(i int) bool {
		return pos.Before(list[i].Position())
	})

	list = append(list, nil)
	copy(list[i+1:], list[i:])
	list[i] = e

	s.byAccount[e.AccountID] = list
	s.entries[e.ID] = e
}

func (s *Store) removeEntry(e *domain.Entry) {
	list := s.byAccount[e.AccountID]
	for i, candidate := range list {
		if candidate.ID == e.ID {
			s.byAccount[e.AccountID] = append(list[:i:i], list[i+1:]...)
			break
		}
	}
	if len(s.byAccount[e.AccountID]) == 0 {
		delete(s.byAccount, e.AccountID)
	}
	delete(s.entries, e.ID)
}

func cloneAccount(a *domain.Account) *domain.Account {
	c := *a
	if a.LinkedUserID != nil {
		linked := *a.LinkedUserID
		c.LinkedUserID = &linked
	}
	return &c
}

func cloneEntry(e *domain.Entry) *domain.Entry {
	c := *e
	return &c
}

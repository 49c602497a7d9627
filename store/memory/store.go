// Package memory provides an in-memory Store, used in tests and examples.
//
// The atomic unit is implemented as copy-on-write under a single writer
// lock: the callback runs against a deep copy of the data, which replaces
// the live data only when the callback succeeds. A failed unit therefore
// never leaves partial state behind.
package memory

import (
	"context"
	"slices"
	"sync"

	wallet "github.com/xraph/wallet"
	"github.com/xraph/wallet/account"
	"github.com/xraph/wallet/id"
	"github.com/xraph/wallet/store"
	"github.com/xraph/wallet/transaction"
	"github.com/xraph/wallet/types"
)

// compile-time interface check
var _ store.Store = (*Store)(nil)

type Store struct {
	mu     sync.RWMutex
	inUnit bool // set on the view handed to Atomic callbacks
	closed bool

	accounts     map[string]*account.Account
	transactions map[string]*transaction.Transaction
	order        []string // transaction insertion order, oldest first
}

func New() *Store {
	return &Store{
		accounts:     make(map[string]*account.Account),
		transactions: make(map[string]*transaction.Transaction),
	}
}

// lock acquires the write lock unless this store is an atomic-unit view,
// which already runs under the root's lock.
func (s *Store) lock() func() {
	if s.inUnit {
		return func() {}
	}
	s.mu.Lock()
	return s.mu.Unlock
}

func (s *Store) rlock() func() {
	if s.inUnit {
		return func() {}
	}
	s.mu.RLock()
	return s.mu.RUnlock
}

func cloneAccount(a *account.Account) *account.Account {
	cp := *a
	cp.Metadata = a.Metadata.Clone()
	return &cp
}

func cloneTransaction(t *transaction.Transaction) *transaction.Transaction {
	cp := *t
	if t.ConfirmedAt != nil {
		at := *t.ConfirmedAt
		cp.ConfirmedAt = &at
	}
	cp.Metadata = t.Metadata.Clone()
	return &cp
}

// Account methods

func (s *Store) CreateAccount(_ context.Context, a *account.Account) error {
	defer s.lock()()
	if s.closed {
		return wallet.ErrStoreClosed
	}

	if _, exists := s.accounts[a.ID.String()]; exists {
		return wallet.ErrAlreadyExists
	}
	s.accounts[a.ID.String()] = cloneAccount(a)
	return nil
}

func (s *Store) GetAccount(_ context.Context, accountID id.AccountID) (*account.Account, error) {
	defer s.rlock()()
	if s.closed {
		return nil, wallet.ErrStoreClosed
	}

	if a, ok := s.accounts[accountID.String()]; ok {
		return cloneAccount(a), nil
	}
	return nil, wallet.ErrNotFound
}

func (s *Store) GetAccountForUpdate(ctx context.Context, accountID id.AccountID) (*account.Account, error) {
	// The whole unit runs under the root's writer lock, which is already
	// exclusive per store, so a locked read is a plain read here.
	return s.GetAccount(ctx, accountID)
}

func (s *Store) UpdateAccount(_ context.Context, a *account.Account) error {
	defer s.lock()()
	if s.closed {
		return wallet.ErrStoreClosed
	}

	if _, ok := s.accounts[a.ID.String()]; !ok {
		return wallet.ErrNotFound
	}
	s.accounts[a.ID.String()] = cloneAccount(a)
	return nil
}

// Transaction methods

func (s *Store) CreateTransaction(_ context.Context, t *transaction.Transaction) error {
	defer s.lock()()
	if s.closed {
		return wallet.ErrStoreClosed
	}

	if _, exists := s.transactions[t.ID.String()]; exists {
		return wallet.ErrAlreadyExists
	}
	s.transactions[t.ID.String()] = cloneTransaction(t)
	s.order = append(s.order, t.ID.String())
	return nil
}

func (s *Store) GetTransaction(_ context.Context, txID id.TransactionID) (*transaction.Transaction, error) {
	defer s.rlock()()
	if s.closed {
		return nil, wallet.ErrStoreClosed
	}

	if t, ok := s.transactions[txID.String()]; ok {
		return cloneTransaction(t), nil
	}
	return nil, wallet.ErrNotFound
}

func (s *Store) GetTransactionForUpdate(ctx context.Context, txID id.TransactionID) (*transaction.Transaction, error) {
	// Atomic units are globally exclusive here, so no extra lock is needed.
	return s.GetTransaction(ctx, txID)
}

func (s *Store) UpdateTransaction(_ context.Context, t *transaction.Transaction) error {
	defer s.lock()()
	if s.closed {
		return wallet.ErrStoreClosed
	}

	if _, ok := s.transactions[t.ID.String()]; !ok {
		return wallet.ErrNotFound
	}
	s.transactions[t.ID.String()] = cloneTransaction(t)
	return nil
}

func (s *Store) ListTransactionsByParty(_ context.Context, ref types.Ref, dir transaction.Direction) ([]*transaction.Transaction, error) {
	defer s.rlock()()
	if s.closed {
		return nil, wallet.ErrStoreClosed
	}

	result := make([]*transaction.Transaction, 0)
	// newest first
	for i := len(s.order) - 1; i >= 0; i-- {
		t := s.transactions[s.order[i]]
		sent := t.From.Equal(ref)
		received := t.To.Equal(ref)

		match := false
		switch dir {
		case transaction.DirectionSent:
			match = sent
		case transaction.DirectionReceived:
			match = received
		case transaction.DirectionBoth:
			match = sent || received
		}
		if match {
			result = append(result, cloneTransaction(t))
		}
	}
	return result, nil
}

// Atomic runs fn against a deep copy of the store under the writer lock.
// The copy becomes the live data only when fn succeeds. Nested calls join
// the enclosing unit.
func (s *Store) Atomic(ctx context.Context, fn func(ctx context.Context, s store.Store) error) error {
	if s.inUnit {
		return fn(ctx, s)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return wallet.ErrStoreClosed
	}

	view := &Store{
		inUnit:       true,
		accounts:     make(map[string]*account.Account, len(s.accounts)),
		transactions: make(map[string]*transaction.Transaction, len(s.transactions)),
		order:        slices.Clone(s.order),
	}
	for k, a := range s.accounts {
		view.accounts[k] = cloneAccount(a)
	}
	for k, t := range s.transactions {
		view.transactions[k] = cloneTransaction(t)
	}

	if err := fn(ctx, view); err != nil {
		return err
	}

	s.accounts = view.accounts
	s.transactions = view.transactions
	s.order = view.order
	return nil
}

// Core methods

func (s *Store) Migrate(_ context.Context) error { return nil }

func (s *Store) Ping(_ context.Context) error {
	defer s.rlock()()
	if s.closed {
		return wallet.ErrStoreClosed
	}
	return nil
}

func (s *Store) Close() error {
	defer s.lock()()
	s.closed = true
	return nil
}

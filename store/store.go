// Package store defines the unified persistence contract for the wallet
// engine and the atomic-unit boundary every balance mutation runs inside.
package store

import (
	"context"

	"github.com/xraph/wallet/account"
	"github.com/xraph/wallet/id"
	"github.com/xraph/wallet/transaction"
	"github.com/xraph/wallet/types"
)

// Store is the unified storage interface for all Wallet entities.
// Instead of embedding the sub-interfaces, we explicitly declare all methods
// to avoid naming conflicts.
type Store interface {
	// Account methods
	CreateAccount(ctx context.Context, a *account.Account) error
	GetAccount(ctx context.Context, accountID id.AccountID) (*account.Account, error)
	// GetAccountForUpdate loads an account under the store's exclusive
	// per-account lock. Only valid inside Atomic; the lock is held until
	// the unit commits or rolls back.
	GetAccountForUpdate(ctx context.Context, accountID id.AccountID) (*account.Account, error)
	UpdateAccount(ctx context.Context, a *account.Account) error

	// Transaction methods
	CreateTransaction(ctx context.Context, t *transaction.Transaction) error
	GetTransaction(ctx context.Context, txID id.TransactionID) (*transaction.Transaction, error)
	// GetTransactionForUpdate loads a transaction under an exclusive lock
	// so two concurrent confirmations of the same transaction serialize.
	// Only valid inside Atomic.
	GetTransactionForUpdate(ctx context.Context, txID id.TransactionID) (*transaction.Transaction, error)
	UpdateTransaction(ctx context.Context, t *transaction.Transaction) error
	ListTransactionsByParty(ctx context.Context, ref types.Ref, dir transaction.Direction) ([]*transaction.Transaction, error)

	// Atomic runs fn inside one atomic unit: either every write made
	// through the passed store is persisted, or none is. Implementations
	// must make GetAccountForUpdate exclusive within the unit so two
	// concurrent withdrawals can never both pass a balance check against a
	// stale balance.
	Atomic(ctx context.Context, fn func(ctx context.Context, s Store) error) error

	// Core methods
	Migrate(ctx context.Context) error
	Ping(ctx context.Context) error
	Close() error
}

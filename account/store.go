package account

import (
	"context"

	"github.com/xraph/wallet/id"
)

// Store is the per-entity persistence contract for accounts.
type Store interface {
	Create(ctx context.Context, a *Account) error
	Get(ctx context.Context, accountID id.AccountID) (*Account, error)

	// GetForUpdate loads an account under the store's exclusive per-account
	// lock. It is only valid inside an atomic unit; the lock is held until
	// the unit commits or rolls back.
	GetForUpdate(ctx context.Context, accountID id.AccountID) (*Account, error)

	Update(ctx context.Context, a *Account) error
}

package transaction

import (
	"context"

	"github.com/xraph/wallet/id"
	"github.com/xraph/wallet/types"
)

// Direction selects which side of the ledger a party query matches.
type Direction string

const (
	DirectionSent     Direction = "sent"     // party is the from side
	DirectionReceived Direction = "received" // party is the to side
	DirectionBoth     Direction = "both"     // sent union received
)

// Store is the per-entity persistence contract for transactions.
type Store interface {
	Create(ctx context.Context, t *Transaction) error
	Get(ctx context.Context, txID id.TransactionID) (*Transaction, error)
	// GetForUpdate loads a transaction under an exclusive lock held until
	// the surrounding atomic unit ends.
	GetForUpdate(ctx context.Context, txID id.TransactionID) (*Transaction, error)
	Update(ctx context.Context, t *Transaction) error

	// ListByParty returns transactions where ref appears on the requested
	// side, newest first.
	ListByParty(ctx context.Context, ref types.Ref, dir Direction) ([]*Transaction, error)
}

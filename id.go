package wallet

import "github.com/xraph/wallet/id"

// ID is the primary identifier type for all Wallet entities.
type ID = id.ID

// Prefix identifies the entity type encoded in a TypeID.
type Prefix = id.Prefix

// Typed aliases, re-exported for callers that keep IDs in their own models.
type (
	AccountID     = id.AccountID
	TransactionID = id.TransactionID
)

// Re-export ID constructors
var (
	NewAccountID     = id.NewAccountID
	NewTransactionID = id.NewTransactionID
	ParseID          = id.Parse
)

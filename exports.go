package wallet

import (
	"github.com/xraph/wallet/transaction"
	"github.com/xraph/wallet/types"
)

// Re-export common types for convenience so users don't have to import the
// sub-packages.

// Entity is re-exported from the types package.
type Entity = types.Entity

// Ref is re-exported from the types package.
type Ref = types.Ref

// Metadata is re-exported from the types package.
type Metadata = types.Metadata

// Re-export types constructors
var (
	NewEntity = types.NewEntity
	NewRef    = types.NewRef
)

// Party capabilities, re-exported from the transaction package.
type (
	Party          = transaction.Party
	Customer       = transaction.Customer
	Product        = transaction.Product
	Taxable        = transaction.Taxable
	MinimalTaxable = transaction.MinimalTaxable
	Discountable   = transaction.Discountable
)

// Transaction is re-exported from the transaction package.
type Transaction = transaction.Transaction

// Transaction types
const (
	TypeDeposit  = transaction.TypeDeposit
	TypeWithdraw = transaction.TypeWithdraw
	TypeTransfer = transaction.TypeTransfer
	TypePayment  = transaction.TypePayment
	TypeRefund   = transaction.TypeRefund
)

// History directions
const (
	DirectionSent     = transaction.DirectionSent
	DirectionReceived = transaction.DirectionReceived
	DirectionBoth     = transaction.DirectionBoth
)

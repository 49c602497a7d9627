// Package transaction defines the immutable ledger record of a
// balance-affecting event, the builder that assembles it, and the rules that
// apply its balance effect to accounts.
package transaction

import (
	"time"

	"github.com/xraph/wallet/bigmath"
	"github.com/xraph/wallet/id"
	"github.com/xraph/wallet/types"
)

// Type classifies a transaction's balance effect.
type Type string

const (
	TypeWithdraw Type = "withdraw"
	TypeDeposit  Type = "deposit"
	TypeTransfer Type = "transfer"
	TypePayment  Type = "payment"
	TypeRefund   Type = "refund"
)

// Valid reports whether t is one of the known transaction types.
func (t Type) Valid() bool {
	switch t {
	case TypeWithdraw, TypeDeposit, TypeTransfer, TypePayment, TypeRefund:
		return true
	}
	return false
}

// Transaction is the immutable record of one balance-affecting event.
// Amount, Fee and Discount are wide-scale decimal strings and are never
// negative. After creation only Confirmed, ConfirmedAt and Refunded may
// change; type, parties and amounts are fixed.
type Transaction struct {
	types.Entity
	ID          id.TransactionID `json:"id"`
	From        types.Ref        `json:"from,omitempty"` // zero for pure deposits
	To          types.Ref        `json:"to,omitempty"`   // zero for pure withdrawals
	Type        Type             `json:"type"`
	Amount      string           `json:"amount"`
	Fee         string           `json:"fee"`
	Discount    string           `json:"discount"`
	Confirmed   bool             `json:"confirmed"`
	ConfirmedAt *time.Time       `json:"confirmed_at,omitempty"` // non-nil iff Confirmed
	Refunded    bool             `json:"refunded"`
	Metadata    types.Metadata   `json:"metadata,omitempty"`
}

// Due returns the net amount the transaction moves: amount + fee - discount.
func (t *Transaction) Due() string {
	return bigmath.Sub(bigmath.Add(t.Amount, t.Fee), t.Discount)
}

// RefundDue returns the amount a refund returns: amount - discount.
// A refund never returns the fee.
func (t *Transaction) RefundDue() string {
	return bigmath.Sub(t.Amount, t.Discount)
}

// IsParty reports whether ref is one of the transaction's declared parties.
func (t *Transaction) IsParty(ref types.Ref) bool {
	return (!t.From.IsZero() && t.From.Equal(ref)) ||
		(!t.To.IsZero() && t.To.Equal(ref))
}

// SetConfirmed flips the confirmation state, keeping the Confirmed /
// ConfirmedAt invariant: the timestamp is non-nil exactly when confirmed.
func (t *Transaction) SetConfirmed(confirmed bool, now time.Time) {
	if confirmed {
		t.Confirmed = true
		t.ConfirmedAt = &now
	} else {
		t.Confirmed = false
		t.ConfirmedAt = nil
	}
	t.Touch(now)
}

// Package account defines the balance-holding account entity.
//
// An account's balance is a running decimal value kept consistent with the
// confirmed-transaction history: it is mutated only by the balance
// application rules in the transaction package, never by caller arithmetic.
package account

import (
	"github.com/xraph/wallet/bigmath"
	"github.com/xraph/wallet/id"
	"github.com/xraph/wallet/types"
)

// Kind is the party-reference discriminator for accounts.
const Kind = "account"

// Account holds a monetary balance on behalf of an arbitrary holder entity.
type Account struct {
	types.Entity
	ID        id.AccountID   `json:"id"`
	Holder    types.Ref      `json:"holder,omitempty"`
	Name      string         `json:"name"`
	Balance   string         `json:"balance"`
	Precision int            `json:"precision"`
	Metadata  types.Metadata `json:"metadata,omitempty"`
}

// Ref returns the account's polymorphic party reference.
func (a *Account) Ref() types.Ref {
	return types.NewRef(Kind, a.ID.String())
}

// FormattedBalance renders the running balance at the account's display
// precision, rounded half-up with fixed decimals. All internal math stays at
// the wide scale; this is the only place the display precision applies.
func (a *Account) FormattedBalance() string {
	return bigmath.Fixed(a.Balance, a.Precision)
}

// CanWithdraw reports whether the balance covers the given amount: strictly
// greater, or exactly equal when allowZero is set.
func (a *Account) CanWithdraw(amount string, allowZero bool) bool {
	return bigmath.IsHigherThan(a.Balance, amount) ||
		(allowZero && bigmath.IsEqual(a.Balance, amount))
}

// Credit adds due to the running balance.
func (a *Account) Credit(due string) {
	a.Balance = bigmath.Add(a.Balance, due)
}

// Debit subtracts due from the running balance.
func (a *Account) Debit(due string) {
	a.Balance = bigmath.Sub(a.Balance, due)
}

package transaction

import (
	"errors"
	"fmt"

	"github.com/xraph/wallet/account"
)

// ErrMissingAccount is returned by Apply when the account a transaction type
// requires was not provided.
var ErrMissingAccount = errors.New("transaction: required account not provided")

// rule describes how one transaction type moves its due amount.
// Keeping the per-type behavior in one table makes the refund fee exclusion
// and the transfer identity guards explicit rather than scattered.
type rule struct {
	debitSender    bool
	creditReceiver bool
	feeExcluded    bool // refund: due = amount - discount, the fee is kept
	skipRefunded   bool // refund: a record already marked refunded is inert
	identityGuard  bool // transfer: touch a side only if the account matches
}

var rules = map[Type]rule{
	TypeDeposit:  {creditReceiver: true},
	TypeRefund:   {creditReceiver: true, feeExcluded: true, skipRefunded: true},
	TypeWithdraw: {debitSender: true},
	TypePayment:  {debitSender: true},
	TypeTransfer: {debitSender: true, creditReceiver: true, identityGuard: true},
}

// Apply applies a confirmed transaction's balance effect to the provided
// account(s) in memory. Pending transactions are a no-op. The caller owns
// persistence: both the transaction and the mutated accounts must be written
// inside one atomic unit.
//
// For transfers either side may be absent; each provided account is touched
// only when its identity matches the corresponding declared party, because a
// transfer may be applied from whichever side is locally held.
func Apply(tx *Transaction, sender, receiver *account.Account) error {
	if !tx.Confirmed {
		return nil
	}

	r, ok := rules[tx.Type]
	if !ok {
		return fmt.Errorf("transaction: unknown type %q", tx.Type)
	}

	if r.skipRefunded && tx.Refunded {
		return nil
	}

	due := tx.Due()
	if r.feeExcluded {
		due = tx.RefundDue()
	}

	if r.debitSender {
		switch {
		case r.identityGuard:
			if sender != nil && tx.From.Equal(sender.Ref()) {
				sender.Debit(due)
			}
		case sender == nil:
			return fmt.Errorf("%w: sender for %s", ErrMissingAccount, tx.Type)
		default:
			sender.Debit(due)
		}
	}

	if r.creditReceiver {
		switch {
		case r.identityGuard:
			if receiver != nil && tx.To.Equal(receiver.Ref()) {
				receiver.Credit(due)
			}
		case receiver == nil:
			return fmt.Errorf("%w: receiver for %s", ErrMissingAccount, tx.Type)
		default:
			receiver.Credit(due)
		}
	}

	return nil
}

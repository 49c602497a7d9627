package wallet

import (
	"context"
	"errors"

	"github.com/xraph/wallet/account"
	"github.com/xraph/wallet/id"
	"github.com/xraph/wallet/store"
	"github.com/xraph/wallet/transaction"
	"github.com/xraph/wallet/types"
)

// ──────────────────────────────────────────────────
// Confirmation
// ──────────────────────────────────────────────────

// Confirm settles a pending transaction on behalf of an acting account. The
// actor must be a party to the transaction; confirming an already confirmed
// transaction fails with ErrTransactionAlreadyConfirmed. The balance effect
// is applied to every account side of the transaction inside one atomic
// unit.
func (e *Engine) Confirm(ctx context.Context, actorID id.AccountID, txID id.TransactionID) (*transaction.Transaction, error) {
	var (
		tx    *transaction.Transaction
		actor *account.Account
		other *account.Account
	)
	err := e.store.Atomic(ctx, func(ctx context.Context, s store.Store) error {
		var err error
		tx, err = s.GetTransactionForUpdate(ctx, txID)
		if err != nil {
			return err
		}
		if tx.Confirmed {
			return ErrTransactionAlreadyConfirmed
		}

		var sender, receiver *account.Account
		actor, sender, receiver, other, err = lockParties(ctx, s, actorID, tx)
		if err != nil {
			return err
		}

		tx.SetConfirmed(true, e.now())
		if err := transaction.Apply(tx, sender, receiver); err != nil {
			return err
		}
		if tx.Type == transaction.TypeRefund {
			// The credit has been applied; close the refund so a later
			// reset-then-confirm replay stays inert.
			tx.Refunded = true
		}

		if err := s.UpdateTransaction(ctx, tx); err != nil {
			return err
		}
		for _, acct := range []*account.Account{sender, receiver} {
			if acct == nil {
				continue
			}
			acct.Touch(e.now())
			if err := s.UpdateAccount(ctx, acct); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	e.plugins.EmitTransactionConfirmed(ctx, actor, tx)
	for _, acct := range []*account.Account{actor, other} {
		if acct != nil {
			e.plugins.EmitBalanceApplied(ctx, acct, tx)
		}
	}
	e.logger.Debug("transaction confirmed", "transaction_id", tx.ID, "actor_id", actor.ID)

	return tx, nil
}

// SafeConfirm is Confirm returning false instead of an error on a domain
// refusal: already confirmed, unresolvable actor, or an actor that is not a
// party to the transaction.
func (e *Engine) SafeConfirm(ctx context.Context, actorID id.AccountID, txID id.TransactionID) (bool, error) {
	_, err := e.Confirm(ctx, actorID, txID)
	if confirmRefused(err) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}

// ResetConfirm returns a confirmed transaction to the pending state without
// reversing its balance effect. Resetting a transaction that is already
// pending is a no-op. The actor must be a party to the transaction.
func (e *Engine) ResetConfirm(ctx context.Context, actorID id.AccountID, txID id.TransactionID) (*transaction.Transaction, error) {
	var (
		tx    *transaction.Transaction
		actor *account.Account
	)
	err := e.store.Atomic(ctx, func(ctx context.Context, s store.Store) error {
		var err error
		tx, err = s.GetTransactionForUpdate(ctx, txID)
		if err != nil {
			return err
		}
		if !tx.Confirmed {
			return nil
		}

		actor, err = e.resolveActor(ctx, s, actorID, tx)
		if err != nil {
			return err
		}

		tx.SetConfirmed(false, e.now())
		return s.UpdateTransaction(ctx, tx)
	})
	if err != nil {
		return nil, err
	}

	if actor != nil {
		e.plugins.EmitConfirmationReset(ctx, actor, tx)
		e.logger.Debug("confirmation reset", "transaction_id", tx.ID, "actor_id", actor.ID)
	}
	return tx, nil
}

// SafeResetConfirm is ResetConfirm returning false instead of an error on
// the same domain refusals SafeConfirm absorbs.
func (e *Engine) SafeResetConfirm(ctx context.Context, actorID id.AccountID, txID id.TransactionID) (bool, error) {
	_, err := e.ResetConfirm(ctx, actorID, txID)
	if confirmRefused(err) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}

// confirmRefused reports whether a confirmation failure is a domain refusal
// rather than an infrastructure error.
func confirmRefused(err error) bool {
	return errors.Is(err, ErrTransactionAlreadyConfirmed) ||
		errors.Is(err, ErrInvalidAccount) ||
		errors.Is(err, ErrInvalidAccountOwner)
}

// resolveActor loads the acting account and verifies it is a party to the
// transaction.
func (e *Engine) resolveActor(ctx context.Context, s store.Store, actorID id.AccountID, tx *transaction.Transaction) (*account.Account, error) {
	actor, err := resolveAccount(ctx, s, actorID)
	if err != nil {
		return nil, err
	}
	if !tx.IsParty(actor.Ref()) {
		return nil, ErrInvalidAccountOwner
	}
	return actor, nil
}

// lockParties locks every account side of the transaction and maps them onto
// the sender/receiver slots Apply expects. Non-account parties such as
// products stay nil; the rule table never requires them. A transfer moves
// both sides, so the counterpart account is locked and applied in the same
// unit — accounts are locked in ID order so two opposing transfer
// confirmations cannot deadlock.
func lockParties(ctx context.Context, s store.Store, actorID id.AccountID, tx *transaction.Transaction) (actor, sender, receiver, other *account.Account, err error) {
	actorRef := types.NewRef(account.Kind, actorID.String())

	ids := []id.AccountID{actorID}
	var counterpartKey string
	if tx.Type == transaction.TypeTransfer && tx.IsParty(actorRef) {
		counterpart := tx.From
		if counterpart.Equal(actorRef) {
			counterpart = tx.To
		}
		if counterpart.Kind == account.Kind {
			cid, perr := id.ParseAccountID(counterpart.Key)
			if perr != nil {
				return nil, nil, nil, nil, ErrInvalidAccount
			}
			counterpartKey = cid.String()
			ids = append(ids, cid)
			if ids[1].String() < ids[0].String() {
				ids[0], ids[1] = ids[1], ids[0]
			}
		}
	}

	locked := make(map[string]*account.Account, len(ids))
	for _, aid := range ids {
		acct, gerr := resolveAccount(ctx, s, aid)
		if gerr != nil {
			return nil, nil, nil, nil, gerr
		}
		locked[aid.String()] = acct
	}

	actor = locked[actorID.String()]
	if !tx.IsParty(actor.Ref()) {
		return nil, nil, nil, nil, ErrInvalidAccountOwner
	}

	if tx.From.Equal(actor.Ref()) {
		sender = actor
	}
	if tx.To.Equal(actor.Ref()) {
		receiver = actor
	}
	if acct := locked[counterpartKey]; acct != nil && acct != actor {
		other = acct
		if sender == nil {
			sender = acct
		} else {
			receiver = acct
		}
	}
	return actor, sender, receiver, other, nil
}

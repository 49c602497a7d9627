package wallet

import (
	"context"
	"fmt"

	"github.com/xraph/wallet/account"
	"github.com/xraph/wallet/bigmath"
	"github.com/xraph/wallet/id"
	"github.com/xraph/wallet/store"
	"github.com/xraph/wallet/transaction"
	"github.com/xraph/wallet/types"
)

// ──────────────────────────────────────────────────
// Deposits and Withdrawals
// ──────────────────────────────────────────────────

// Deposit credits an account with amount. A confirmed deposit settles
// immediately; a pending one records the transaction without moving the
// balance until Confirm.
func (e *Engine) Deposit(ctx context.Context, accountID id.AccountID, amount string, meta types.Metadata, confirmed bool) (*transaction.Transaction, error) {
	if err := validAmount(amount); err != nil {
		return nil, err
	}

	var (
		tx   *transaction.Transaction
		acct *account.Account
	)
	err := e.store.Atomic(ctx, func(ctx context.Context, s store.Store) error {
		var err error
		acct, err = resolveAccount(ctx, s, accountID)
		if err != nil {
			return err
		}

		tx, err = e.builder().
			To(acct).
			WithType(transaction.TypeDeposit).
			WithAmount(amount).
			WithMetadata(meta).
			Confirmed(confirmed).
			Build(false)
		if err != nil {
			return err
		}

		return e.settle(ctx, s, tx, nil, acct)
	})
	if err != nil {
		return nil, err
	}

	e.recorded(ctx, tx, acct)
	return tx, nil
}

// Withdraw debits an account by amount after a balance check. It fails with
// ErrCannotWithdraw when the balance would go negative.
func (e *Engine) Withdraw(ctx context.Context, accountID id.AccountID, amount string, meta types.Metadata, confirmed bool) (*transaction.Transaction, error) {
	return e.withdraw(ctx, accountID, amount, meta, confirmed, true)
}

// ForceWithdraw debits an account by amount without a balance check,
// allowing the balance to go negative. Used for penalties and corrections.
func (e *Engine) ForceWithdraw(ctx context.Context, accountID id.AccountID, amount string, meta types.Metadata, confirmed bool) (*transaction.Transaction, error) {
	return e.withdraw(ctx, accountID, amount, meta, confirmed, false)
}

func (e *Engine) withdraw(ctx context.Context, accountID id.AccountID, amount string, meta types.Metadata, confirmed, checkBalance bool) (*transaction.Transaction, error) {
	if err := validAmount(amount); err != nil {
		return nil, err
	}

	var (
		tx   *transaction.Transaction
		acct *account.Account
	)
	err := e.store.Atomic(ctx, func(ctx context.Context, s store.Store) error {
		var err error
		acct, err = resolveAccount(ctx, s, accountID)
		if err != nil {
			return err
		}

		if checkBalance && !acct.CanWithdraw(amount, true) {
			return ErrCannotWithdraw
		}

		tx, err = e.builder().
			From(acct).
			WithType(transaction.TypeWithdraw).
			WithAmount(amount).
			WithMetadata(meta).
			Confirmed(confirmed).
			Build(false)
		if err != nil {
			return err
		}

		return e.settle(ctx, s, tx, acct, nil)
	})
	if err != nil {
		return nil, err
	}

	e.recorded(ctx, tx, acct)
	return tx, nil
}

// CanWithdraw reports whether an account's balance covers amount. A balance
// exactly equal to amount is covered.
func (e *Engine) CanWithdraw(ctx context.Context, accountID id.AccountID, amount string) (bool, error) {
	if err := validAmount(amount); err != nil {
		return false, err
	}

	acct, err := e.store.GetAccount(ctx, accountID)
	if err != nil {
		return false, err
	}
	return acct.CanWithdraw(amount, true), nil
}

// ──────────────────────────────────────────────────
// Transfers
// ──────────────────────────────────────────────────

// Transfer moves amount from one account to another as a single atomic
// transaction. It fails with ErrCannotTransfer when the sender's balance
// does not cover amount.
func (e *Engine) Transfer(ctx context.Context, fromID, toID id.AccountID, amount string, meta types.Metadata, confirmed bool) (*transaction.Transaction, error) {
	return e.transfer(ctx, fromID, toID, amount, meta, confirmed, true)
}

// SafeTransfer is Transfer returning nil instead of an error when the
// sender's balance does not cover amount.
func (e *Engine) SafeTransfer(ctx context.Context, fromID, toID id.AccountID, amount string, meta types.Metadata, confirmed bool) (*transaction.Transaction, error) {
	tx, err := e.transfer(ctx, fromID, toID, amount, meta, confirmed, true)
	if IsBalanceError(err) {
		return nil, nil
	}
	return tx, err
}

// ForceTransfer moves amount without checking the sender's balance.
func (e *Engine) ForceTransfer(ctx context.Context, fromID, toID id.AccountID, amount string, meta types.Metadata, confirmed bool) (*transaction.Transaction, error) {
	return e.transfer(ctx, fromID, toID, amount, meta, confirmed, false)
}

func (e *Engine) transfer(ctx context.Context, fromID, toID id.AccountID, amount string, meta types.Metadata, confirmed, checkBalance bool) (*transaction.Transaction, error) {
	if err := validAmount(amount); err != nil {
		return nil, err
	}
	if fromID.String() == toID.String() {
		return nil, fmt.Errorf("%w: transfer to self", ErrInvalidInput)
	}

	var (
		tx                *transaction.Transaction
		sender, recipient *account.Account
	)
	err := e.store.Atomic(ctx, func(ctx context.Context, s store.Store) error {
		// Lock in ID order so two opposing transfers cannot deadlock.
		first, second := fromID, toID
		if second.String() < first.String() {
			first, second = second, first
		}

		locked := map[string]*account.Account{}
		for _, aid := range []id.AccountID{first, second} {
			acct, err := resolveAccount(ctx, s, aid)
			if err != nil {
				return err
			}
			locked[aid.String()] = acct
		}
		sender, recipient = locked[fromID.String()], locked[toID.String()]

		if checkBalance && !sender.CanWithdraw(amount, true) {
			return ErrCannotTransfer
		}

		var err error
		tx, err = e.builder().
			From(sender).
			To(recipient).
			WithType(transaction.TypeTransfer).
			WithAmount(amount).
			WithMetadata(meta).
			Confirmed(confirmed).
			Build(false)
		if err != nil {
			return err
		}

		return e.settle(ctx, s, tx, sender, recipient)
	})
	if err != nil {
		return nil, err
	}

	e.recorded(ctx, tx, sender, recipient)
	return tx, nil
}

// ──────────────────────────────────────────────────
// History
// ──────────────────────────────────────────────────

// Transactions returns every transaction the account participates in,
// newest first.
func (e *Engine) Transactions(ctx context.Context, accountID id.AccountID) ([]*transaction.Transaction, error) {
	return e.listByAccount(ctx, accountID, transaction.DirectionBoth)
}

// SentTransactions returns the transactions the account is the from side
// of, newest first.
func (e *Engine) SentTransactions(ctx context.Context, accountID id.AccountID) ([]*transaction.Transaction, error) {
	return e.listByAccount(ctx, accountID, transaction.DirectionSent)
}

// ReceivedTransactions returns the transactions the account is the to side
// of, newest first.
func (e *Engine) ReceivedTransactions(ctx context.Context, accountID id.AccountID) ([]*transaction.Transaction, error) {
	return e.listByAccount(ctx, accountID, transaction.DirectionReceived)
}

// Transaction retrieves a transaction by ID.
func (e *Engine) Transaction(ctx context.Context, txID id.TransactionID) (*transaction.Transaction, error) {
	return e.store.GetTransaction(ctx, txID)
}

func (e *Engine) listByAccount(ctx context.Context, accountID id.AccountID, dir transaction.Direction) ([]*transaction.Transaction, error) {
	acct, err := e.store.GetAccount(ctx, accountID)
	if err != nil {
		return nil, err
	}
	return e.store.ListTransactionsByParty(ctx, acct.Ref(), dir)
}

// ──────────────────────────────────────────────────
// Shared settlement path
// ──────────────────────────────────────────────────

// settle persists the transaction, applies its balance effect to the
// provided accounts and writes them back. Pending transactions persist
// without a balance effect.
func (e *Engine) settle(ctx context.Context, s store.Store, tx *transaction.Transaction, sender, receiver *account.Account) error {
	if err := s.CreateTransaction(ctx, tx); err != nil {
		return err
	}

	if err := transaction.Apply(tx, sender, receiver); err != nil {
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
}

// recorded emits the post-commit hooks for a freshly persisted transaction.
// For a confirmed transaction the balance-applied hook fires once per
// affected account.
func (e *Engine) recorded(ctx context.Context, tx *transaction.Transaction, accts ...*account.Account) {
	e.plugins.EmitTransactionRecorded(ctx, tx)
	if tx.Confirmed {
		for _, acct := range accts {
			if acct != nil {
				e.plugins.EmitBalanceApplied(ctx, acct, tx)
			}
		}
	}

	e.logger.Debug("transaction recorded",
		"transaction_id", tx.ID,
		"type", tx.Type,
		"amount", tx.Amount,
		"confirmed", tx.Confirmed,
	)
}

// validAmount rejects malformed and negative amounts before any store work.
func validAmount(amount string) error {
	if !bigmath.Valid(amount) {
		return fmt.Errorf("%w: malformed amount %q", ErrInvalidInput, amount)
	}
	if bigmath.IsLowerThan(amount, "0") {
		return fmt.Errorf("%w: negative amount %q", ErrInvalidInput, amount)
	}
	return nil
}

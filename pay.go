package wallet

import (
	"context"
	"errors"

	"github.com/xraph/wallet/account"
	"github.com/xraph/wallet/id"
	"github.com/xraph/wallet/store"
	"github.com/xraph/wallet/transaction"
)

// ──────────────────────────────────────────────────
// Payments
// ──────────────────────────────────────────────────

// Pay purchases a product: the cost, fee and discount are resolved from the
// product for the paying account and settle immediately as one payment
// transaction. It fails with ErrCannotBuyProduct when the product refuses
// the sale and with ErrCannotPay when the balance does not cover the cost.
func (e *Engine) Pay(ctx context.Context, accountID id.AccountID, product transaction.Product) (*transaction.Transaction, error) {
	return e.pay(ctx, accountID, product, false, true)
}

// ForcePay purchases a product without a balance check, allowing the
// balance to go negative. The product is still consulted, with the force
// flag set.
func (e *Engine) ForcePay(ctx context.Context, accountID id.AccountID, product transaction.Product) (*transaction.Transaction, error) {
	return e.pay(ctx, accountID, product, true, false)
}

// SafePay is Pay returning nil instead of an error when the product refuses
// the sale or the balance does not cover the cost.
func (e *Engine) SafePay(ctx context.Context, accountID id.AccountID, product transaction.Product) (*transaction.Transaction, error) {
	tx, err := e.pay(ctx, accountID, product, false, true)
	if IsBalanceError(err) || errors.Is(err, ErrCannotBuyProduct) {
		return nil, nil
	}
	return tx, err
}

// PayFree records a zero-amount payment for a product, a gift or a promo
// redemption. The product is still asked whether the sale is allowed.
func (e *Engine) PayFree(ctx context.Context, accountID id.AccountID, product transaction.Product) (*transaction.Transaction, error) {
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

		if !product.CanBuy(acct, 1, false) {
			return ErrCannotBuyProduct
		}

		// Build(false) keeps the zero amount instead of pricing from the
		// product, and a zero amount zeroes the fee and discount too.
		tx, err = e.builder().
			From(acct).
			To(product).
			WithType(transaction.TypePayment).
			SyncWithProductMetadata().
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

func (e *Engine) pay(ctx context.Context, accountID id.AccountID, product transaction.Product, force, checkBalance bool) (*transaction.Transaction, error) {
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

		if !product.CanBuy(acct, 1, force) {
			return ErrCannotBuyProduct
		}

		tx, err = e.builder().
			From(acct).
			To(product).
			WithType(transaction.TypePayment).
			SyncWithProductMetadata().
			Build(true)
		if err != nil {
			return err
		}

		// The balance must cover the full due, cost plus fee minus
		// discount, not just the list cost.
		if checkBalance && !acct.CanWithdraw(tx.Due(), true) {
			return ErrCannotPay
		}

		return e.settle(ctx, s, tx, acct, nil)
	})
	if err != nil {
		return nil, err
	}

	e.recorded(ctx, tx, acct)
	return tx, nil
}

// ──────────────────────────────────────────────────
// Refunds
// ──────────────────────────────────────────────────

// Refund reverses the most recent open payment for a product: the account
// is credited with amount minus discount, keeping the fee, and the payment
// is closed so it cannot be refunded twice. It fails with
// ErrCannotRefundUnpaidProduct when no open payment exists.
func (e *Engine) Refund(ctx context.Context, accountID id.AccountID, product transaction.Product) (*transaction.Transaction, error) {
	return e.refund(ctx, accountID, product, false)
}

// SafeRefund is Refund returning nil instead of an error when no open
// payment exists.
func (e *Engine) SafeRefund(ctx context.Context, accountID id.AccountID, product transaction.Product) (*transaction.Transaction, error) {
	tx, err := e.refund(ctx, accountID, product, false)
	if errors.Is(err, ErrCannotRefundUnpaidProduct) {
		return nil, nil
	}
	return tx, err
}

// ForceRefund credits the account for the product even when no open payment
// exists. If one does exist it is closed as usual.
func (e *Engine) ForceRefund(ctx context.Context, accountID id.AccountID, product transaction.Product) (*transaction.Transaction, error) {
	return e.refund(ctx, accountID, product, true)
}

func (e *Engine) refund(ctx context.Context, accountID id.AccountID, product transaction.Product, force bool) (*transaction.Transaction, error) {
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

		payment, err := openPayment(ctx, s, acct, product)
		if err != nil {
			return err
		}
		if payment == nil && !force {
			return ErrCannotRefundUnpaidProduct
		}

		tx, err = e.builder().
			From(product).
			To(acct).
			WithType(transaction.TypeRefund).
			SyncWithProductMetadata().
			Build(true)
		if err != nil {
			return err
		}

		if err := e.settle(ctx, s, tx, nil, acct); err != nil {
			return err
		}

		// Mark the refund itself as applied so a reset-then-confirm replay
		// cannot credit the account a second time.
		tx.Refunded = true
		tx.Touch(e.now())
		if err := s.UpdateTransaction(ctx, tx); err != nil {
			return err
		}

		if payment != nil {
			payment.Refunded = true
			payment.Touch(e.now())
			if err := s.UpdateTransaction(ctx, payment); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	e.recorded(ctx, tx, acct)
	return tx, nil
}

// Payment returns the most recent open payment the account made for the
// product, or ErrNotFound when none exists. Refunded payments are closed
// and do not count.
func (e *Engine) Payment(ctx context.Context, accountID id.AccountID, product transaction.Product) (*transaction.Transaction, error) {
	acct, err := e.store.GetAccount(ctx, accountID)
	if err != nil {
		return nil, err
	}

	payment, err := openPayment(ctx, e.store, acct, product)
	if err != nil {
		return nil, err
	}
	if payment == nil {
		return nil, ErrNotFound
	}
	return payment, nil
}

// Paid reports whether the account holds an open payment for the product.
func (e *Engine) Paid(ctx context.Context, accountID id.AccountID, product transaction.Product) (bool, error) {
	_, err := e.Payment(ctx, accountID, product)
	if errors.Is(err, ErrNotFound) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}

// openPayment finds the newest confirmed, not yet refunded payment from the
// account to the product, or nil.
func openPayment(ctx context.Context, s store.Store, acct *account.Account, product transaction.Product) (*transaction.Transaction, error) {
	sent, err := s.ListTransactionsByParty(ctx, acct.Ref(), transaction.DirectionSent)
	if err != nil {
		return nil, err
	}

	productRef := product.Ref()
	for _, t := range sent {
		if t.Type == transaction.TypePayment && t.To.Equal(productRef) && t.Confirmed && !t.Refunded {
			return t, nil
		}
	}
	return nil, nil
}

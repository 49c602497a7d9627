package wallet

import (
	"errors"

	"github.com/xraph/wallet/bigmath"
	"github.com/xraph/wallet/transaction"
)

// Sentinel errors for common failure scenarios.
var (
	// General errors
	ErrNotFound      = errors.New("wallet: not found")
	ErrAlreadyExists = errors.New("wallet: already exists")
	ErrInvalidInput  = errors.New("wallet: invalid input")

	// Account resolution errors
	ErrInvalidAccount      = errors.New("wallet: invalid model provided, expected account")
	ErrInvalidAccountOwner = errors.New("wallet: invalid account owner, operation not allowed")

	// Confirmation state machine errors
	ErrTransactionAlreadyConfirmed = errors.New("wallet: transaction already confirmed")

	// Balance errors
	ErrCannotWithdraw = errors.New("wallet: balance does not cover the withdrawal")
	ErrCannotTransfer = errors.New("wallet: balance does not cover the transfer")
	ErrCannotPay      = errors.New("wallet: balance does not cover the product cost")

	// Purchase errors
	ErrCannotBuyProduct          = errors.New("wallet: cannot buy the provided product")
	ErrCannotRefundUnpaidProduct = errors.New("wallet: cannot refund a product that was never paid")

	// Store errors
	ErrStoreClosed = errors.New("wallet: store is closed")
)

// Re-exported domain sentinels, so callers can match every failure of the
// engine through this package.
var (
	// ErrDivisionByZero is returned by the decimal math layer.
	ErrDivisionByZero = bigmath.ErrDivisionByZero

	// ErrNoProduct is returned when a product-derived cost is requested
	// without a product party.
	ErrNoProduct = transaction.ErrNoProduct
)

// Stable numeric codes for external presentation. Codes are part of the
// public surface and must never be renumbered.
var errorCodes = map[error]int{
	ErrTransactionAlreadyConfirmed: 1000,
	ErrInvalidAccount:              1001,
	ErrInvalidAccountOwner:         1002,
	ErrCannotBuyProduct:            1003,
	ErrCannotWithdraw:              1004,
	ErrCannotTransfer:              1005,
	ErrCannotPay:                   1006,
	ErrCannotRefundUnpaidProduct:   1007,
	ErrDivisionByZero:              1008,
	ErrNoProduct:                   1009,
}

// Code returns the stable numeric code for a wallet error, or 0 when the
// error carries no code.
func Code(err error) int {
	for sentinel, code := range errorCodes {
		if errors.Is(err, sentinel) {
			return code
		}
	}
	return 0
}

// Message returns the human-readable message for a wallet error, or the
// error's own text when it carries no catalog entry.
func Message(err error) string {
	if err == nil {
		return ""
	}
	for sentinel := range errorCodes {
		if errors.Is(err, sentinel) {
			return sentinel.Error()
		}
	}
	return err.Error()
}

// IsBalanceError returns true if the error reports an insufficient balance.
func IsBalanceError(err error) bool {
	return errors.Is(err, ErrCannotWithdraw) ||
		errors.Is(err, ErrCannotTransfer) ||
		errors.Is(err, ErrCannotPay)
}

// IsOwnershipError returns true if the error reports a party resolution or
// ownership failure.
func IsOwnershipError(err error) bool {
	return errors.Is(err, ErrInvalidAccount) ||
		errors.Is(err, ErrInvalidAccountOwner)
}

// IsNotFound returns true if the error is a not found error.
func IsNotFound(err error) bool {
	return errors.Is(err, ErrNotFound)
}

package wallet

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCode(t *testing.T) {
	tests := []struct {
		err  error
		want int
	}{
		{ErrTransactionAlreadyConfirmed, 1000},
		{ErrInvalidAccount, 1001},
		{ErrInvalidAccountOwner, 1002},
		{ErrCannotBuyProduct, 1003},
		{ErrCannotWithdraw, 1004},
		{ErrCannotTransfer, 1005},
		{ErrCannotPay, 1006},
		{ErrCannotRefundUnpaidProduct, 1007},
		{ErrDivisionByZero, 1008},
		{ErrNoProduct, 1009},
		{ErrNotFound, 0},
		{errors.New("unrelated"), 0},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, Code(tt.err), tt.err.Error())
	}
}

func TestCodeSeesWrappedErrors(t *testing.T) {
	wrapped := fmt.Errorf("confirm: %w", ErrTransactionAlreadyConfirmed)
	assert.Equal(t, 1000, Code(wrapped))
}

func TestMessage(t *testing.T) {
	assert.Equal(t, "", Message(nil))
	assert.Equal(t, ErrCannotPay.Error(), Message(fmt.Errorf("pay: %w", ErrCannotPay)))
	assert.Equal(t, "plain", Message(errors.New("plain")))
}

func TestClassifiers(t *testing.T) {
	assert.True(t, IsBalanceError(ErrCannotWithdraw))
	assert.True(t, IsBalanceError(ErrCannotTransfer))
	assert.True(t, IsBalanceError(ErrCannotPay))
	assert.False(t, IsBalanceError(ErrCannotBuyProduct))

	assert.True(t, IsOwnershipError(ErrInvalidAccount))
	assert.True(t, IsOwnershipError(ErrInvalidAccountOwner))
	assert.False(t, IsOwnershipError(ErrCannotPay))

	assert.True(t, IsNotFound(fmt.Errorf("lookup: %w", ErrNotFound)))
	assert.False(t, IsNotFound(ErrInvalidAccount))
}

package transaction

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/xraph/wallet/account"
	"github.com/xraph/wallet/id"
	"github.com/xraph/wallet/types"
)

func applyAccount(balance string) *account.Account {
	return &account.Account{
		Entity:    types.NewEntity(),
		ID:        id.NewAccountID(),
		Balance:   balance,
		Precision: 2,
	}
}

func confirmed(typ Type, from, to types.Ref, amount, fee, discount string) *Transaction {
	now := fixedClock()()
	return &Transaction{
		Entity:      types.NewEntityAt(now),
		ID:          id.NewTransactionID(),
		From:        from,
		To:          to,
		Type:        typ,
		Amount:      amount,
		Fee:         fee,
		Discount:    discount,
		Confirmed:   true,
		ConfirmedAt: &now,
	}
}

func TestApplyPendingIsNoop(t *testing.T) {
	acct := applyAccount("100")
	tx := confirmed(TypeDeposit, types.Ref{}, acct.Ref(), "10", "0", "0")
	tx.SetConfirmed(false, fixedClock()())

	require.NoError(t, Apply(tx, nil, acct))
	assert.Equal(t, "100", acct.Balance)
}

func TestApplyDeposit(t *testing.T) {
	acct := applyAccount("100")
	tx := confirmed(TypeDeposit, types.Ref{}, acct.Ref(), "10", "0", "0")

	require.NoError(t, Apply(tx, nil, acct))
	assert.Equal(t, "110", acct.Balance)
}

func TestApplyWithdrawDebitsDue(t *testing.T) {
	acct := applyAccount("100")
	tx := confirmed(TypeWithdraw, acct.Ref(), types.Ref{}, "10", "1", "0")

	require.NoError(t, Apply(tx, acct, nil))
	assert.Equal(t, "89", acct.Balance)
}

func TestApplyPaymentDebitsDue(t *testing.T) {
	acct := applyAccount("1500")
	tx := confirmed(TypePayment, acct.Ref(), types.NewRef("product", "premium"), "1000", "75", "102")

	require.NoError(t, Apply(tx, acct, nil))
	assert.Equal(t, "527", acct.Balance)
}

func TestApplyRefundExcludesFee(t *testing.T) {
	acct := applyAccount("0")
	tx := confirmed(TypeRefund, types.NewRef("product", "premium"), acct.Ref(), "1000", "75", "102")

	require.NoError(t, Apply(tx, nil, acct))
	// amount - discount; the fee stays with the house
	assert.Equal(t, "898", acct.Balance)
}

func TestApplyRefundedRefundIsInert(t *testing.T) {
	acct := applyAccount("0")
	tx := confirmed(TypeRefund, types.NewRef("product", "premium"), acct.Ref(), "1000", "0", "0")
	tx.Refunded = true

	require.NoError(t, Apply(tx, nil, acct))
	assert.Equal(t, "0", acct.Balance)
}

func TestApplyTransferBothSides(t *testing.T) {
	sender := applyAccount("10")
	receiver := applyAccount("0")
	tx := confirmed(TypeTransfer, sender.Ref(), receiver.Ref(), "1", "0", "0")

	require.NoError(t, Apply(tx, sender, receiver))
	assert.Equal(t, "9", sender.Balance)
	assert.Equal(t, "1", receiver.Balance)
}

func TestApplyTransferSingleSide(t *testing.T) {
	sender := applyAccount("10")
	receiver := applyAccount("0")
	tx := confirmed(TypeTransfer, sender.Ref(), receiver.Ref(), "1", "0", "0")

	// Only the sender side is held locally; the receiver is untouched.
	require.NoError(t, Apply(tx, sender, nil))
	assert.Equal(t, "9", sender.Balance)
	assert.Equal(t, "0", receiver.Balance)
}

func TestApplyTransferIdentityGuard(t *testing.T) {
	sender := applyAccount("10")
	receiver := applyAccount("0")
	stranger := applyAccount("100")
	tx := confirmed(TypeTransfer, sender.Ref(), receiver.Ref(), "1", "0", "0")

	// An account that is not the declared party is never touched.
	require.NoError(t, Apply(tx, stranger, receiver))
	assert.Equal(t, "100", stranger.Balance)
	assert.Equal(t, "1", receiver.Balance)
}

func TestApplyMissingAccount(t *testing.T) {
	acct := applyAccount("100")

	tx := confirmed(TypeWithdraw, acct.Ref(), types.Ref{}, "10", "0", "0")
	assert.ErrorIs(t, Apply(tx, nil, nil), ErrMissingAccount)

	tx = confirmed(TypeDeposit, types.Ref{}, acct.Ref(), "10", "0", "0")
	assert.ErrorIs(t, Apply(tx, nil, nil), ErrMissingAccount)
}

func TestApplyUnknownType(t *testing.T) {
	acct := applyAccount("100")
	tx := confirmed(Type("loan"), acct.Ref(), types.Ref{}, "10", "0", "0")
	assert.Error(t, Apply(tx, acct, nil))
}

package wallet_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	wallet "github.com/xraph/wallet"
)

func TestPay(t *testing.T) {
	ctx := context.Background()
	e := newTestEngine(t)
	acctID := createAccount(t, e)
	_, err := e.Deposit(ctx, acctID, "1500", nil, true)
	require.NoError(t, err)

	product := &premiumItem{allow: true}
	tx, err := e.Pay(ctx, acctID, product)
	require.NoError(t, err)

	assert.Equal(t, wallet.TypePayment, tx.Type)
	assert.Equal(t, "1000", tx.Amount)
	assert.Equal(t, "75", tx.Fee)
	assert.Equal(t, "102", tx.Discount)
	assert.Equal(t, "Premium Item", tx.Metadata["title"])

	// 1500 - (1000 + 75 - 102)
	formatted, err := e.FormattedBalance(ctx, acctID)
	require.NoError(t, err)
	assert.Equal(t, "527.00", formatted)
}

func TestPayInsufficientFunds(t *testing.T) {
	ctx := context.Background()
	e := newTestEngine(t)
	acctID := createAccount(t, e)
	_, err := e.Deposit(ctx, acctID, "900", nil, true)
	require.NoError(t, err)

	_, err = e.Pay(ctx, acctID, &premiumItem{allow: true})
	assert.ErrorIs(t, err, wallet.ErrCannotPay)
	assert.Equal(t, 1006, wallet.Code(err))

	balance, err := e.Balance(ctx, acctID)
	require.NoError(t, err)
	assert.Equal(t, "900", balance)
}

func TestPayCoversDueNotListCost(t *testing.T) {
	ctx := context.Background()
	e := newTestEngine(t)
	acctID := createAccount(t, e)
	// Below the list cost of 1000 but above the due of 973.
	_, err := e.Deposit(ctx, acctID, "973", nil, true)
	require.NoError(t, err)

	_, err = e.Pay(ctx, acctID, &premiumItem{allow: true})
	require.NoError(t, err)

	balance, err := e.Balance(ctx, acctID)
	require.NoError(t, err)
	assert.Equal(t, "0", balance)
}

func TestPayProductRefusesSale(t *testing.T) {
	ctx := context.Background()
	e := newTestEngine(t)
	acctID := createAccount(t, e)
	_, err := e.Deposit(ctx, acctID, "1500", nil, true)
	require.NoError(t, err)

	_, err = e.Pay(ctx, acctID, &premiumItem{allow: false})
	assert.ErrorIs(t, err, wallet.ErrCannotBuyProduct)
	assert.Equal(t, 1003, wallet.Code(err))
}

func TestSafePay(t *testing.T) {
	ctx := context.Background()
	e := newTestEngine(t)
	acctID := createAccount(t, e)

	tx, err := e.SafePay(ctx, acctID, &premiumItem{allow: true})
	require.NoError(t, err)
	assert.Nil(t, tx)

	tx, err = e.SafePay(ctx, acctID, &premiumItem{allow: false})
	require.NoError(t, err)
	assert.Nil(t, tx)
}

func TestForcePay(t *testing.T) {
	ctx := context.Background()
	e := newTestEngine(t)
	acctID := createAccount(t, e)

	// No funds and the product refuses plain sales: force overrides both.
	_, err := e.ForcePay(ctx, acctID, &premiumItem{allow: false})
	require.NoError(t, err)

	balance, err := e.Balance(ctx, acctID)
	require.NoError(t, err)
	assert.Equal(t, "-973", balance)
}

func TestPayFree(t *testing.T) {
	ctx := context.Background()
	e := newTestEngine(t)
	acctID := createAccount(t, e)

	product := &premiumItem{allow: true}
	tx, err := e.PayFree(ctx, acctID, product)
	require.NoError(t, err)

	assert.Equal(t, "0", tx.Amount)
	assert.Equal(t, "0", tx.Fee)
	assert.Equal(t, "0", tx.Discount)

	balance, err := e.Balance(ctx, acctID)
	require.NoError(t, err)
	assert.Equal(t, "0", balance)

	paid, err := e.Paid(ctx, acctID, product)
	require.NoError(t, err)
	assert.True(t, paid)
}

func TestPaymentAndPaid(t *testing.T) {
	ctx := context.Background()
	e := newTestEngine(t)
	acctID := createAccount(t, e)
	product := &premiumItem{allow: true}

	paid, err := e.Paid(ctx, acctID, product)
	require.NoError(t, err)
	assert.False(t, paid)

	_, err = e.Payment(ctx, acctID, product)
	assert.ErrorIs(t, err, wallet.ErrNotFound)

	_, err = e.Deposit(ctx, acctID, "1500", nil, true)
	require.NoError(t, err)
	payTx, err := e.Pay(ctx, acctID, product)
	require.NoError(t, err)

	payment, err := e.Payment(ctx, acctID, product)
	require.NoError(t, err)
	assert.Equal(t, payTx.ID, payment.ID)
}

func TestRefund(t *testing.T) {
	ctx := context.Background()
	e := newTestEngine(t)
	acctID := createAccount(t, e)
	product := &premiumItem{allow: true}

	_, err := e.Deposit(ctx, acctID, "1500", nil, true)
	require.NoError(t, err)
	_, err = e.Pay(ctx, acctID, product)
	require.NoError(t, err)

	refund, err := e.Refund(ctx, acctID, product)
	require.NoError(t, err)
	assert.Equal(t, wallet.TypeRefund, refund.Type)
	assert.True(t, refund.Refunded)

	// 527 + (1000 - 102); the fee of 75 stays with the house
	formatted, err := e.FormattedBalance(ctx, acctID)
	require.NoError(t, err)
	assert.Equal(t, "1425.00", formatted)

	// the payment is closed
	paid, err := e.Paid(ctx, acctID, product)
	require.NoError(t, err)
	assert.False(t, paid)
}

func TestRefundWithoutPayment(t *testing.T) {
	ctx := context.Background()
	e := newTestEngine(t)
	acctID := createAccount(t, e)
	product := &premiumItem{allow: true}

	_, err := e.Refund(ctx, acctID, product)
	assert.ErrorIs(t, err, wallet.ErrCannotRefundUnpaidProduct)
	assert.Equal(t, 1007, wallet.Code(err))
}

func TestRefundTwiceFails(t *testing.T) {
	ctx := context.Background()
	e := newTestEngine(t)
	acctID := createAccount(t, e)
	product := &premiumItem{allow: true}

	_, err := e.Deposit(ctx, acctID, "1500", nil, true)
	require.NoError(t, err)
	_, err = e.Pay(ctx, acctID, product)
	require.NoError(t, err)

	_, err = e.Refund(ctx, acctID, product)
	require.NoError(t, err)

	_, err = e.Refund(ctx, acctID, product)
	assert.ErrorIs(t, err, wallet.ErrCannotRefundUnpaidProduct)
}

func TestRefundReplayCannotDoubleCredit(t *testing.T) {
	ctx := context.Background()
	e := newTestEngine(t)
	acctID := createAccount(t, e)
	product := &premiumItem{allow: true}

	_, err := e.Deposit(ctx, acctID, "1500", nil, true)
	require.NoError(t, err)
	_, err = e.Pay(ctx, acctID, product)
	require.NoError(t, err)
	refund, err := e.Refund(ctx, acctID, product)
	require.NoError(t, err)

	// Reset the refund's confirmation and confirm it again: the refund is
	// already marked applied, so the replay must not credit a second time.
	_, err = e.ResetConfirm(ctx, acctID, refund.ID)
	require.NoError(t, err)
	_, err = e.Confirm(ctx, acctID, refund.ID)
	require.NoError(t, err)

	formatted, err := e.FormattedBalance(ctx, acctID)
	require.NoError(t, err)
	assert.Equal(t, "1425.00", formatted)
}

func TestSafeRefund(t *testing.T) {
	ctx := context.Background()
	e := newTestEngine(t)
	acctID := createAccount(t, e)

	tx, err := e.SafeRefund(ctx, acctID, &premiumItem{allow: true})
	require.NoError(t, err)
	assert.Nil(t, tx)
}

func TestForceRefundWithoutPayment(t *testing.T) {
	ctx := context.Background()
	e := newTestEngine(t)
	acctID := createAccount(t, e)

	_, err := e.ForceRefund(ctx, acctID, &premiumItem{allow: true})
	require.NoError(t, err)

	// credited amount - discount with no matching payment
	balance, err := e.Balance(ctx, acctID)
	require.NoError(t, err)
	assert.Equal(t, "898", balance)
}

func TestRefundEachPaymentOnce(t *testing.T) {
	ctx := context.Background()
	e := newTestEngine(t)
	acctID := createAccount(t, e)
	product := &premiumItem{allow: true}

	_, err := e.Deposit(ctx, acctID, "2000", nil, true)
	require.NoError(t, err)

	// two purchases, two refunds, a third fails
	_, err = e.Pay(ctx, acctID, product)
	require.NoError(t, err)
	_, err = e.Pay(ctx, acctID, product)
	require.NoError(t, err)

	_, err = e.Refund(ctx, acctID, product)
	require.NoError(t, err)
	_, err = e.Refund(ctx, acctID, product)
	require.NoError(t, err)
	_, err = e.Refund(ctx, acctID, product)
	assert.ErrorIs(t, err, wallet.ErrCannotRefundUnpaidProduct)
}

package memory

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	wallet "github.com/xraph/wallet"
	"github.com/xraph/wallet/account"
	"github.com/xraph/wallet/id"
	"github.com/xraph/wallet/store"
	"github.com/xraph/wallet/transaction"
	"github.com/xraph/wallet/types"
)

func testAccount() *account.Account {
	return &account.Account{
		Entity:    types.NewEntity(),
		ID:        id.NewAccountID(),
		Holder:    types.NewRef("user", "1"),
		Name:      "main",
		Balance:   "0",
		Precision: 2,
		Metadata:  types.Metadata{"k": "v"},
	}
}

func testTransaction(from, to types.Ref) *transaction.Transaction {
	return &transaction.Transaction{
		Entity:   types.NewEntity(),
		ID:       id.NewTransactionID(),
		From:     from,
		To:       to,
		Type:     transaction.TypeTransfer,
		Amount:   "1",
		Fee:      "0",
		Discount: "0",
	}
}

func TestAccountCRUD(t *testing.T) {
	ctx := context.Background()
	s := New()
	a := testAccount()

	require.NoError(t, s.CreateAccount(ctx, a))
	assert.ErrorIs(t, s.CreateAccount(ctx, a), wallet.ErrAlreadyExists)

	got, err := s.GetAccount(ctx, a.ID)
	require.NoError(t, err)
	assert.Equal(t, a.ID, got.ID)
	assert.Equal(t, "0", got.Balance)

	got.Balance = "50"
	require.NoError(t, s.UpdateAccount(ctx, got))

	got2, err := s.GetAccount(ctx, a.ID)
	require.NoError(t, err)
	assert.Equal(t, "50", got2.Balance)

	_, err = s.GetAccount(ctx, id.NewAccountID())
	assert.ErrorIs(t, err, wallet.ErrNotFound)

	assert.ErrorIs(t, s.UpdateAccount(ctx, testAccount()), wallet.ErrNotFound)
}

func TestReturnsClones(t *testing.T) {
	ctx := context.Background()
	s := New()
	a := testAccount()
	require.NoError(t, s.CreateAccount(ctx, a))

	// Mutating a read result must not leak into the store.
	got, err := s.GetAccount(ctx, a.ID)
	require.NoError(t, err)
	got.Balance = "999"
	got.Metadata["k"] = "changed"

	fresh, err := s.GetAccount(ctx, a.ID)
	require.NoError(t, err)
	assert.Equal(t, "0", fresh.Balance)
	assert.Equal(t, "v", fresh.Metadata["k"])
}

func TestTransactionCRUD(t *testing.T) {
	ctx := context.Background()
	s := New()
	tx := testTransaction(types.NewRef("account", "a"), types.NewRef("account", "b"))

	require.NoError(t, s.CreateTransaction(ctx, tx))
	assert.ErrorIs(t, s.CreateTransaction(ctx, tx), wallet.ErrAlreadyExists)

	got, err := s.GetTransaction(ctx, tx.ID)
	require.NoError(t, err)
	assert.Equal(t, tx.ID, got.ID)

	got.Confirmed = true
	require.NoError(t, s.UpdateTransaction(ctx, got))

	got2, err := s.GetTransaction(ctx, tx.ID)
	require.NoError(t, err)
	assert.True(t, got2.Confirmed)

	_, err = s.GetTransaction(ctx, id.NewTransactionID())
	assert.ErrorIs(t, err, wallet.ErrNotFound)
}

func TestListTransactionsByParty(t *testing.T) {
	ctx := context.Background()
	s := New()

	a := types.NewRef("account", "a")
	b := types.NewRef("account", "b")
	c := types.NewRef("account", "c")

	first := testTransaction(a, b)
	second := testTransaction(b, a)
	third := testTransaction(b, c)
	for _, tx := range []*transaction.Transaction{first, second, third} {
		require.NoError(t, s.CreateTransaction(ctx, tx))
	}

	sent, err := s.ListTransactionsByParty(ctx, a, transaction.DirectionSent)
	require.NoError(t, err)
	require.Len(t, sent, 1)
	assert.Equal(t, first.ID, sent[0].ID)

	received, err := s.ListTransactionsByParty(ctx, a, transaction.DirectionReceived)
	require.NoError(t, err)
	require.Len(t, received, 1)
	assert.Equal(t, second.ID, received[0].ID)

	// newest first
	both, err := s.ListTransactionsByParty(ctx, b, transaction.DirectionBoth)
	require.NoError(t, err)
	require.Len(t, both, 3)
	assert.Equal(t, third.ID, both[0].ID)
	assert.Equal(t, second.ID, both[1].ID)
	assert.Equal(t, first.ID, both[2].ID)
}

func TestAtomicCommit(t *testing.T) {
	ctx := context.Background()
	s := New()
	a := testAccount()
	require.NoError(t, s.CreateAccount(ctx, a))

	err := s.Atomic(ctx, func(ctx context.Context, unit store.Store) error {
		acct, err := unit.GetAccountForUpdate(ctx, a.ID)
		if err != nil {
			return err
		}
		acct.Balance = "100"
		return unit.UpdateAccount(ctx, acct)
	})
	require.NoError(t, err)

	got, err := s.GetAccount(ctx, a.ID)
	require.NoError(t, err)
	assert.Equal(t, "100", got.Balance)
}

func TestAtomicRollback(t *testing.T) {
	ctx := context.Background()
	s := New()
	a := testAccount()
	require.NoError(t, s.CreateAccount(ctx, a))

	boom := errors.New("boom")
	err := s.Atomic(ctx, func(ctx context.Context, unit store.Store) error {
		acct, err := unit.GetAccountForUpdate(ctx, a.ID)
		if err != nil {
			return err
		}
		acct.Balance = "100"
		if err := unit.UpdateAccount(ctx, acct); err != nil {
			return err
		}
		if err := unit.CreateTransaction(ctx, testTransaction(a.Ref(), types.Ref{})); err != nil {
			return err
		}
		return boom
	})
	assert.ErrorIs(t, err, boom)

	// Nothing from the failed unit is visible.
	got, err := s.GetAccount(ctx, a.ID)
	require.NoError(t, err)
	assert.Equal(t, "0", got.Balance)

	list, err := s.ListTransactionsByParty(ctx, a.Ref(), transaction.DirectionBoth)
	require.NoError(t, err)
	assert.Empty(t, list)
}

func TestAtomicNestedJoins(t *testing.T) {
	ctx := context.Background()
	s := New()
	a := testAccount()
	require.NoError(t, s.CreateAccount(ctx, a))

	err := s.Atomic(ctx, func(ctx context.Context, unit store.Store) error {
		return unit.Atomic(ctx, func(ctx context.Context, inner store.Store) error {
			acct, err := inner.GetAccountForUpdate(ctx, a.ID)
			if err != nil {
				return err
			}
			acct.Balance = "7"
			return inner.UpdateAccount(ctx, acct)
		})
	})
	require.NoError(t, err)

	got, err := s.GetAccount(ctx, a.ID)
	require.NoError(t, err)
	assert.Equal(t, "7", got.Balance)
}

func TestClosedStore(t *testing.T) {
	ctx := context.Background()
	s := New()
	require.NoError(t, s.Close())

	assert.ErrorIs(t, s.Ping(ctx), wallet.ErrStoreClosed)
	assert.ErrorIs(t, s.CreateAccount(ctx, testAccount()), wallet.ErrStoreClosed)
	_, err := s.GetAccount(ctx, id.NewAccountID())
	assert.ErrorIs(t, err, wallet.ErrStoreClosed)
	err = s.Atomic(ctx, func(ctx context.Context, unit store.Store) error { return nil })
	assert.ErrorIs(t, err, wallet.ErrStoreClosed)
}

package postgres

import (
	"encoding/json"
	"time"

	wallet "github.com/xraph/wallet"
	"github.com/xraph/wallet/account"
	"github.com/xraph/wallet/id"
	"github.com/xraph/wallet/transaction"
	"github.com/xraph/wallet/types"
)

// Balances and amounts are stored as TEXT: they are exact wide-scale
// decimal strings and all arithmetic happens in the engine, never in SQL.

const accountColumns = `id, holder_kind, holder_key, name, balance, display_precision, metadata, created_at, updated_at`

const transactionColumns = `id, from_kind, from_key, to_kind, to_key, type, amount, fee, discount, confirmed, confirmed_at, refunded, metadata, created_at, updated_at`

// row is satisfied by both pgx.Row and pgx.Rows.
type row interface {
	Scan(dest ...any) error
}

func scanAccount(r row) (*account.Account, error) {
	var (
		rawID   string
		a       account.Account
		rawMeta []byte
	)
	err := r.Scan(
		&rawID,
		&a.Holder.Kind, &a.Holder.Key,
		&a.Name,
		&a.Balance,
		&a.Precision,
		&rawMeta,
		&a.CreatedAt, &a.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	if a.ID, err = id.ParseAccountID(rawID); err != nil {
		return nil, err
	}
	if err := unmarshalMeta(rawMeta, &a.Metadata); err != nil {
		return nil, err
	}
	return &a, nil
}

func accountArgs(a *account.Account) ([]any, error) {
	meta, err := marshalMeta(a.Metadata)
	if err != nil {
		return nil, err
	}
	return []any{
		a.ID.String(),
		a.Holder.Kind, a.Holder.Key,
		a.Name,
		a.Balance,
		a.Precision,
		meta,
		a.CreatedAt, a.UpdatedAt,
	}, nil
}

func scanTransaction(r row) (*transaction.Transaction, error) {
	var (
		rawID       string
		t           transaction.Transaction
		confirmedAt *time.Time
		rawMeta     []byte
	)
	err := r.Scan(
		&rawID,
		&t.From.Kind, &t.From.Key,
		&t.To.Kind, &t.To.Key,
		&t.Type,
		&t.Amount, &t.Fee, &t.Discount,
		&t.Confirmed, &confirmedAt,
		&t.Refunded,
		&rawMeta,
		&t.CreatedAt, &t.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	if t.ID, err = id.ParseTransactionID(rawID); err != nil {
		return nil, err
	}
	t.ConfirmedAt = confirmedAt
	if err := unmarshalMeta(rawMeta, &t.Metadata); err != nil {
		return nil, err
	}
	return &t, nil
}

func transactionArgs(t *transaction.Transaction) ([]any, error) {
	meta, err := marshalMeta(t.Metadata)
	if err != nil {
		return nil, err
	}
	return []any{
		t.ID.String(),
		t.From.Kind, t.From.Key,
		t.To.Kind, t.To.Key,
		t.Type,
		t.Amount, t.Fee, t.Discount,
		t.Confirmed, t.ConfirmedAt,
		t.Refunded,
		meta,
		t.CreatedAt, t.UpdatedAt,
	}, nil
}

func marshalMeta(m types.Metadata) ([]byte, error) {
	if m == nil {
		return []byte(`{}`), nil
	}
	raw, err := json.Marshal(m)
	if err != nil {
		return nil, wallet.ErrInvalidInput
	}
	return raw, nil
}

func unmarshalMeta(raw []byte, m *types.Metadata) error {
	if len(raw) == 0 {
		*m = nil
		return nil
	}
	var out types.Metadata
	if err := json.Unmarshal(raw, &out); err != nil {
		return err
	}
	if len(out) == 0 {
		out = nil
	}
	*m = out
	return nil
}

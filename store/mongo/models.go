package mongo

import (
	"time"

	"github.com/xraph/wallet/account"
	"github.com/xraph/wallet/id"
	"github.com/xraph/wallet/transaction"
	"github.com/xraph/wallet/types"
)

// ==================== Account models ====================

type accountModel struct {
	ID         string         `bson:"_id"`
	HolderKind string         `bson:"holder_kind"`
	HolderKey  string         `bson:"holder_key"`
	Name       string         `bson:"name"`
	Balance    string         `bson:"balance"`
	Precision  int            `bson:"precision"`
	Metadata   map[string]any `bson:"metadata,omitempty"`
	CreatedAt  time.Time      `bson:"created_at"`
	UpdatedAt  time.Time      `bson:"updated_at"`

	// Lock is bumped by GetAccountForUpdate so concurrent units touching
	// the same account conflict and retry instead of racing.
	Lock int64 `bson:"lock"`
}

func toAccountModel(a *account.Account) *accountModel {
	return &accountModel{
		ID:         a.ID.String(),
		HolderKind: a.Holder.Kind,
		HolderKey:  a.Holder.Key,
		Name:       a.Name,
		Balance:    a.Balance,
		Precision:  a.Precision,
		Metadata:   a.Metadata,
		CreatedAt:  a.CreatedAt,
		UpdatedAt:  a.UpdatedAt,
	}
}

func fromAccountModel(m *accountModel) (*account.Account, error) {
	accountID, err := id.ParseAccountID(m.ID)
	if err != nil {
		return nil, err
	}
	return &account.Account{
		Entity: types.Entity{
			CreatedAt: m.CreatedAt,
			UpdatedAt: m.UpdatedAt,
		},
		ID:        accountID,
		Holder:    types.Ref{Kind: m.HolderKind, Key: m.HolderKey},
		Name:      m.Name,
		Balance:   m.Balance,
		Precision: m.Precision,
		Metadata:  types.Metadata(m.Metadata),
	}, nil
}

// ==================== Transaction models ====================

type transactionModel struct {
	ID          string         `bson:"_id"`
	Seq         int64          `bson:"seq"`
	FromKind    string         `bson:"from_kind"`
	FromKey     string         `bson:"from_key"`
	ToKind      string         `bson:"to_kind"`
	ToKey       string         `bson:"to_key"`
	Type        string         `bson:"type"`
	Amount      string         `bson:"amount"`
	Fee         string         `bson:"fee"`
	Discount    string         `bson:"discount"`
	Confirmed   bool           `bson:"confirmed"`
	ConfirmedAt *time.Time     `bson:"confirmed_at,omitempty"`
	Refunded    bool           `bson:"refunded"`
	Metadata    map[string]any `bson:"metadata,omitempty"`
	CreatedAt   time.Time      `bson:"created_at"`
	UpdatedAt   time.Time      `bson:"updated_at"`
}

func toTransactionModel(t *transaction.Transaction, seq int64) *transactionModel {
	return &transactionModel{
		ID:          t.ID.String(),
		Seq:         seq,
		FromKind:    t.From.Kind,
		FromKey:     t.From.Key,
		ToKind:      t.To.Kind,
		ToKey:       t.To.Key,
		Type:        string(t.Type),
		Amount:      t.Amount,
		Fee:         t.Fee,
		Discount:    t.Discount,
		Confirmed:   t.Confirmed,
		ConfirmedAt: t.ConfirmedAt,
		Refunded:    t.Refunded,
		Metadata:    t.Metadata,
		CreatedAt:   t.CreatedAt,
		UpdatedAt:   t.UpdatedAt,
	}
}

func fromTransactionModel(m *transactionModel) (*transaction.Transaction, error) {
	txID, err := id.ParseTransactionID(m.ID)
	if err != nil {
		return nil, err
	}
	return &transaction.Transaction{
		Entity: types.Entity{
			CreatedAt: m.CreatedAt,
			UpdatedAt: m.UpdatedAt,
		},
		ID:          txID,
		From:        types.Ref{Kind: m.FromKind, Key: m.FromKey},
		To:          types.Ref{Kind: m.ToKind, Key: m.ToKey},
		Type:        transaction.Type(m.Type),
		Amount:      m.Amount,
		Fee:         m.Fee,
		Discount:    m.Discount,
		Confirmed:   m.Confirmed,
		ConfirmedAt: m.ConfirmedAt,
		Refunded:    m.Refunded,
		Metadata:    types.Metadata(m.Metadata),
	}, nil
}

// Package postgres provides a PostgreSQL-backed Store on pgx.
//
// The atomic unit maps to a database transaction; GetAccountForUpdate and
// GetTransactionForUpdate take row-level locks with SELECT ... FOR UPDATE,
// which serializes concurrent units touching the same account.
package postgres

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	wallet "github.com/xraph/wallet"
	"github.com/xraph/wallet/account"
	"github.com/xraph/wallet/id"
	"github.com/xraph/wallet/store"
	"github.com/xraph/wallet/transaction"
	"github.com/xraph/wallet/types"
)

// compile-time interface check
var _ store.Store = (*Store)(nil)

// querier is satisfied by both *pgxpool.Pool and pgx.Tx, so the same query
// methods serve plain calls and calls inside an atomic unit.
type querier interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

type Store struct {
	pool   *pgxpool.Pool
	q      querier // pool normally, the open tx inside Atomic
	logger *slog.Logger
}

// Option configures a Store.
type Option func(*Store)

// WithLogger sets the logger.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Store) {
		s.logger = logger
	}
}

// New connects to PostgreSQL and returns a Store.
func New(ctx context.Context, dsn string, opts ...Option) (*Store, error) {
	cfg, err := pgxpool.ParseConfig(dsn)
	if err != nil {
		return nil, fmt.Errorf("postgres: parse dsn: %w", err)
	}
	cfg.MaxConnLifetime = time.Hour
	cfg.MaxConnIdleTime = 30 * time.Minute

	pool, err := pgxpool.NewWithConfig(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("postgres: connect: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("postgres: ping: %w", err)
	}

	s := &Store{
		pool:   pool,
		logger: slog.Default(),
	}
	s.q = pool
	for _, opt := range opts {
		opt(s)
	}
	return s, nil
}

// NewFromPool wraps an existing pool, which stays owned by the caller.
func NewFromPool(pool *pgxpool.Pool, opts ...Option) *Store {
	s := &Store{
		pool:   pool,
		q:      pool,
		logger: slog.Default(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// mapErr translates driver errors into the wallet error taxonomy.
func mapErr(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, pgx.ErrNoRows) {
		return wallet.ErrNotFound
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == "23505" {
		return wallet.ErrAlreadyExists
	}
	return err
}

// ──────────────────────────────────────────────────
// Account methods
// ──────────────────────────────────────────────────

func (s *Store) CreateAccount(ctx context.Context, a *account.Account) error {
	args, err := accountArgs(a)
	if err != nil {
		return err
	}
	_, err = s.q.Exec(ctx, `
INSERT INTO wallet_accounts (`+accountColumns+`)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`, args...)
	return mapErr(err)
}

func (s *Store) GetAccount(ctx context.Context, accountID id.AccountID) (*account.Account, error) {
	a, err := scanAccount(s.q.QueryRow(ctx, `
SELECT `+accountColumns+` FROM wallet_accounts WHERE id = $1`, accountID.String()))
	if err != nil {
		return nil, mapErr(err)
	}
	return a, nil
}

func (s *Store) GetAccountForUpdate(ctx context.Context, accountID id.AccountID) (*account.Account, error) {
	a, err := scanAccount(s.q.QueryRow(ctx, `
SELECT `+accountColumns+` FROM wallet_accounts WHERE id = $1 FOR UPDATE`, accountID.String()))
	if err != nil {
		return nil, mapErr(err)
	}
	return a, nil
}

func (s *Store) UpdateAccount(ctx context.Context, a *account.Account) error {
	args, err := accountArgs(a)
	if err != nil {
		return err
	}
	tag, err := s.q.Exec(ctx, `
UPDATE wallet_accounts SET
    holder_kind = $2, holder_key = $3,
    name = $4,
    balance = $5,
    display_precision = $6,
    metadata = $7,
    created_at = $8, updated_at = $9
WHERE id = $1`, args...)
	if err != nil {
		return mapErr(err)
	}
	if tag.RowsAffected() == 0 {
		return wallet.ErrNotFound
	}
	return nil
}

// ──────────────────────────────────────────────────
// Transaction methods
// ──────────────────────────────────────────────────

func (s *Store) CreateTransaction(ctx context.Context, t *transaction.Transaction) error {
	args, err := transactionArgs(t)
	if err != nil {
		return err
	}
	_, err = s.q.Exec(ctx, `
INSERT INTO wallet_transactions (`+transactionColumns+`)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15)`, args...)
	return mapErr(err)
}

func (s *Store) GetTransaction(ctx context.Context, txID id.TransactionID) (*transaction.Transaction, error) {
	t, err := scanTransaction(s.q.QueryRow(ctx, `
SELECT `+transactionColumns+` FROM wallet_transactions WHERE id = $1`, txID.String()))
	if err != nil {
		return nil, mapErr(err)
	}
	return t, nil
}

func (s *Store) GetTransactionForUpdate(ctx context.Context, txID id.TransactionID) (*transaction.Transaction, error) {
	t, err := scanTransaction(s.q.QueryRow(ctx, `
SELECT `+transactionColumns+` FROM wallet_transactions WHERE id = $1 FOR UPDATE`, txID.String()))
	if err != nil {
		return nil, mapErr(err)
	}
	return t, nil
}

func (s *Store) UpdateTransaction(ctx context.Context, t *transaction.Transaction) error {
	args, err := transactionArgs(t)
	if err != nil {
		return err
	}
	tag, err := s.q.Exec(ctx, `
UPDATE wallet_transactions SET
    from_kind = $2, from_key = $3,
    to_kind = $4, to_key = $5,
    type = $6,
    amount = $7, fee = $8, discount = $9,
    confirmed = $10, confirmed_at = $11,
    refunded = $12,
    metadata = $13,
    created_at = $14, updated_at = $15
WHERE id = $1`, args...)
	if err != nil {
		return mapErr(err)
	}
	if tag.RowsAffected() == 0 {
		return wallet.ErrNotFound
	}
	return nil
}

func (s *Store) ListTransactionsByParty(ctx context.Context, ref types.Ref, dir transaction.Direction) ([]*transaction.Transaction, error) {
	var where string
	switch dir {
	case transaction.DirectionSent:
		where = `from_kind = $1 AND from_key = $2`
	case transaction.DirectionReceived:
		where = `to_kind = $1 AND to_key = $2`
	default:
		where = `(from_kind = $1 AND from_key = $2) OR (to_kind = $1 AND to_key = $2)`
	}

	rows, err := s.q.Query(ctx, `
SELECT `+transactionColumns+` FROM wallet_transactions
WHERE `+where+`
ORDER BY seq DESC`, ref.Kind, ref.Key)
	if err != nil {
		return nil, mapErr(err)
	}
	defer rows.Close()

	result := make([]*transaction.Transaction, 0)
	for rows.Next() {
		t, err := scanTransaction(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, t)
	}
	return result, rows.Err()
}

// ──────────────────────────────────────────────────
// Atomic unit
// ──────────────────────────────────────────────────

// Atomic runs fn inside one database transaction. Nested calls join the
// enclosing transaction.
func (s *Store) Atomic(ctx context.Context, fn func(ctx context.Context, st store.Store) error) error {
	if _, nested := s.q.(pgx.Tx); nested {
		return fn(ctx, s)
	}

	return pgx.BeginFunc(ctx, s.pool, func(tx pgx.Tx) error {
		unit := &Store{
			pool:   s.pool,
			q:      tx,
			logger: s.logger,
		}
		return fn(ctx, unit)
	})
}

// ──────────────────────────────────────────────────
// Core methods
// ──────────────────────────────────────────────────

func (s *Store) Ping(ctx context.Context) error {
	return s.pool.Ping(ctx)
}

func (s *Store) Close() error {
	s.pool.Close()
	return nil
}

package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
)

// migration is one named, ordered schema step. Steps already recorded in
// wallet_migrations are skipped, so Migrate is safe to run on every start.
type migration struct {
	name string
	up   string
}

var migrations = []migration{
	{
		name: "create_wallet_accounts",
		up: `
CREATE TABLE IF NOT EXISTS wallet_accounts (
    id                TEXT PRIMARY KEY,
    holder_kind       TEXT NOT NULL DEFAULT '',
    holder_key        TEXT NOT NULL DEFAULT '',
    name              TEXT NOT NULL DEFAULT '',
    balance           TEXT NOT NULL DEFAULT '0',
    display_precision INT NOT NULL DEFAULT 2,
    metadata          JSONB NOT NULL DEFAULT '{}',
    created_at        TIMESTAMPTZ NOT NULL DEFAULT NOW(),
    updated_at        TIMESTAMPTZ NOT NULL DEFAULT NOW()
);

CREATE INDEX IF NOT EXISTS idx_wallet_accounts_holder ON wallet_accounts (holder_kind, holder_key);
`,
	},
	{
		name: "create_wallet_transactions",
		up: `
CREATE TABLE IF NOT EXISTS wallet_transactions (
    id           TEXT PRIMARY KEY,
    seq          BIGINT GENERATED ALWAYS AS IDENTITY,
    from_kind    TEXT NOT NULL DEFAULT '',
    from_key     TEXT NOT NULL DEFAULT '',
    to_kind      TEXT NOT NULL DEFAULT '',
    to_key       TEXT NOT NULL DEFAULT '',
    type         TEXT NOT NULL,
    amount       TEXT NOT NULL DEFAULT '0',
    fee          TEXT NOT NULL DEFAULT '0',
    discount     TEXT NOT NULL DEFAULT '0',
    confirmed    BOOLEAN NOT NULL DEFAULT FALSE,
    confirmed_at TIMESTAMPTZ,
    refunded     BOOLEAN NOT NULL DEFAULT FALSE,
    metadata     JSONB NOT NULL DEFAULT '{}',
    created_at   TIMESTAMPTZ NOT NULL DEFAULT NOW(),
    updated_at   TIMESTAMPTZ NOT NULL DEFAULT NOW()
);

CREATE INDEX IF NOT EXISTS idx_wallet_tx_from ON wallet_transactions (from_kind, from_key, seq DESC);
CREATE INDEX IF NOT EXISTS idx_wallet_tx_to ON wallet_transactions (to_kind, to_key, seq DESC);
`,
	},
}

// Migrate applies pending schema steps in order, each inside its own
// transaction.
func (s *Store) Migrate(ctx context.Context) error {
	_, err := s.pool.Exec(ctx, `
CREATE TABLE IF NOT EXISTS wallet_migrations (
    name       TEXT PRIMARY KEY,
    applied_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
)`)
	if err != nil {
		return fmt.Errorf("postgres: init migrations table: %w", err)
	}

	for _, m := range migrations {
		err := pgx.BeginFunc(ctx, s.pool, func(tx pgx.Tx) error {
			var applied bool
			err := tx.QueryRow(ctx,
				`SELECT EXISTS (SELECT 1 FROM wallet_migrations WHERE name = $1)`, m.name,
			).Scan(&applied)
			if err != nil {
				return err
			}
			if applied {
				return nil
			}

			if _, err := tx.Exec(ctx, m.up); err != nil {
				return err
			}
			_, err = tx.Exec(ctx, `INSERT INTO wallet_migrations (name) VALUES ($1)`, m.name)
			return err
		})
		if err != nil {
			return fmt.Errorf("postgres: migration %s: %w", m.name, err)
		}

		s.logger.Debug("migration ensured", "name", m.name)
	}
	return nil
}

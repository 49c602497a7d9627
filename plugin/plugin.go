// Package plugin provides an extensible plugin system for Wallet.
// Plugins can hook into various lifecycle events to extend functionality.
package plugin

import (
	"context"

	"github.com/xraph/wallet/account"
	"github.com/xraph/wallet/transaction"
)

// Plugin is the base interface that all plugins must implement.
type Plugin interface {
	Name() string
}

// ──────────────────────────────────────────────────
// Lifecycle hooks
// ──────────────────────────────────────────────────

// OnInit is called when the plugin is initialized. The engine is passed as
// interface{} to avoid an import cycle with the root package.
type OnInit interface {
	Plugin
	OnInit(ctx context.Context, engine interface{}) error
}

// OnShutdown is called when the plugin is shutting down.
type OnShutdown interface {
	Plugin
	OnShutdown(ctx context.Context) error
}

// ──────────────────────────────────────────────────
// Account lifecycle hooks
// ──────────────────────────────────────────────────

// OnAccountCreated is called when a new account is created.
type OnAccountCreated interface {
	Plugin
	OnAccountCreated(ctx context.Context, acct *account.Account) error
}

// ──────────────────────────────────────────────────
// Transaction lifecycle hooks
// ──────────────────────────────────────────────────

// OnTransactionRecorded is called after a transaction is persisted,
// regardless of its confirmation state.
type OnTransactionRecorded interface {
	Plugin
	OnTransactionRecorded(ctx context.Context, tx *transaction.Transaction) error
}

// OnTransactionConfirmed is called when a pending transaction is confirmed
// and its balance effect has been applied. acct is the account that acted.
type OnTransactionConfirmed interface {
	Plugin
	OnTransactionConfirmed(ctx context.Context, acct *account.Account, tx *transaction.Transaction) error
}

// OnConfirmationReset is called when a confirmed transaction is reset back
// to pending. acct is the account that acted.
type OnConfirmationReset interface {
	Plugin
	OnConfirmationReset(ctx context.Context, acct *account.Account, tx *transaction.Transaction) error
}

// OnBalanceApplied is called each time a transaction's due amount is applied
// to an account balance.
type OnBalanceApplied interface {
	Plugin
	OnBalanceApplied(ctx context.Context, acct *account.Account, tx *transaction.Transaction) error
}

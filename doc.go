// Package wallet provides a composable double-entry wallet engine for Go
// applications.
//
// Wallet is designed as a library, not a service. Import it directly into
// your Go application. It provides:
//
//   - Exact decimal balances with no float drift, at any magnitude
//   - Deposits, withdrawals and atomic account-to-account transfers
//   - Product purchases with product-derived cost, fee and discount
//   - A confirm / reset-confirm settlement state machine
//   - Refunds that keep the fee and cannot double-credit
//   - Pluggable persistence (in-memory, Postgres, MongoDB)
//   - Plugin hooks for auditing and notifications
//
// # Quick Start
//
// Create an engine with your preferred store:
//
//	import (
//	    "github.com/xraph/wallet"
//	    "github.com/xraph/wallet/store/postgres"
//	)
//
//	// Initialize store
//	store, err := postgres.New(ctx, databaseURL)
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	// Create the engine
//	w := wallet.New(store)
//
//	// Start it (runs migrations, initializes plugins)
//	if err := w.Start(ctx); err != nil {
//	    log.Fatal(err)
//	}
//	defer w.Stop()
//
// # Core Concepts
//
// Accounts hold a balance on behalf of a holder, which can be any external
// identity:
//
//	acct, err := w.CreateAccount(ctx, wallet.NewRef("user", "42"), "main", wallet.CreateAccountOpts{})
//
// Every balance change is a transaction. A confirmed transaction settles
// immediately; a pending one waits for Confirm:
//
//	tx, err := w.Deposit(ctx, acct.ID, "100", nil, true)
//	tx, err = w.Transfer(ctx, acct.ID, other.ID, "10", nil, false)
//	_, err = w.Confirm(ctx, other.ID, tx.ID)
//
// Products price themselves per customer by implementing the Product
// capability, optionally with Taxable, MinimalTaxable and Discountable:
//
//	tx, err := w.Pay(ctx, acct.ID, product)
//	tx, err = w.Refund(ctx, acct.ID, product)
//
// # Exactness
//
// All monetary values cross the API as decimal strings and are carried
// internally at a wide fixed scale, so balances stay exact far past the
// range of float64 or int64 minor units.
//
// # Concurrency
//
// Every balance-affecting operation runs inside one atomic store unit and
// loads accounts under an exclusive per-account lock, so two concurrent
// withdrawals can never both pass a balance check against a stale balance.
package wallet

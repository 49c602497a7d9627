package plugin

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/xraph/wallet/account"
	"github.com/xraph/wallet/transaction"
)

// Registry manages all registered plugins and provides efficient dispatch.
// It uses type-cached discovery for O(1) dispatch performance.
type Registry struct {
	mu      sync.RWMutex
	plugins []Plugin
	logger  *slog.Logger

	// Type-cached plugin lists for efficient dispatch
	onInit                 []OnInit
	onShutdown             []OnShutdown
	onAccountCreated       []OnAccountCreated
	onTransactionRecorded  []OnTransactionRecorded
	onTransactionConfirmed []OnTransactionConfirmed
	onConfirmationReset    []OnConfirmationReset
	onBalanceApplied       []OnBalanceApplied
}

// NewRegistry creates a new plugin registry.
func NewRegistry() *Registry {
	return &Registry{
		logger: slog.Default(),
	}
}

// WithLogger sets the logger for the registry.
func (r *Registry) WithLogger(logger *slog.Logger) *Registry {
	r.logger = logger
	return r
}

// Register adds a plugin to the registry and caches its interfaces.
func (r *Registry) Register(p Plugin) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	// Check for duplicate
	for _, existing := range r.plugins {
		if existing.Name() == p.Name() {
			return fmt.Errorf("plugin: duplicate registration: %s", p.Name())
		}
	}

	r.plugins = append(r.plugins, p)

	// Type-switch to cache interfaces
	if v, ok := p.(OnInit); ok {
		r.onInit = append(r.onInit, v)
	}
	if v, ok := p.(OnShutdown); ok {
		r.onShutdown = append(r.onShutdown, v)
	}
	if v, ok := p.(OnAccountCreated); ok {
		r.onAccountCreated = append(r.onAccountCreated, v)
	}
	if v, ok := p.(OnTransactionRecorded); ok {
		r.onTransactionRecorded = append(r.onTransactionRecorded, v)
	}
	if v, ok := p.(OnTransactionConfirmed); ok {
		r.onTransactionConfirmed = append(r.onTransactionConfirmed, v)
	}
	if v, ok := p.(OnConfirmationReset); ok {
		r.onConfirmationReset = append(r.onConfirmationReset, v)
	}
	if v, ok := p.(OnBalanceApplied); ok {
		r.onBalanceApplied = append(r.onBalanceApplied, v)
	}

	r.logger.Info("plugin registered", "name", p.Name())

	return nil
}

// Get returns a plugin by name.
func (r *Registry) Get(name string) Plugin {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, p := range r.plugins {
		if p.Name() == name {
			return p
		}
	}
	return nil
}

// List returns all registered plugins.
func (r *Registry) List() []Plugin {
	r.mu.RLock()
	defer r.mu.RUnlock()

	result := make([]Plugin, len(r.plugins))
	copy(result, r.plugins)
	return result
}

// Count returns the number of registered plugins.
func (r *Registry) Count() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.plugins)
}

// ──────────────────────────────────────────────────
// Event emission methods
// ──────────────────────────────────────────────────

// EmitInit calls OnInit for all plugins that implement it.
func (r *Registry) EmitInit(ctx context.Context, engine interface{}) {
	r.mu.RLock()
	plugins := r.onInit
	r.mu.RUnlock()

	for _, p := range plugins {
		if err := r.callWithTimeout(ctx, p.Name(), func() error {
			return p.OnInit(ctx, engine)
		}); err != nil {
			r.logger.Warn("plugin OnInit failed",
				"plugin", p.Name(),
				"error", err,
			)
		}
	}
}

// EmitShutdown calls OnShutdown for all plugins that implement it.
func (r *Registry) EmitShutdown(ctx context.Context) {
	r.mu.RLock()
	plugins := r.onShutdown
	r.mu.RUnlock()

	for _, p := range plugins {
		if err := r.callWithTimeout(ctx, p.Name(), func() error {
			return p.OnShutdown(ctx)
		}); err != nil {
			r.logger.Warn("plugin OnShutdown failed",
				"plugin", p.Name(),
				"error", err,
			)
		}
	}
}

// EmitAccountCreated emits an account created event.
func (r *Registry) EmitAccountCreated(ctx context.Context, acct *account.Account) {
	r.mu.RLock()
	plugins := r.onAccountCreated
	r.mu.RUnlock()

	for _, p := range plugins {
		if err := r.callWithTimeout(ctx, p.Name(), func() error {
			return p.OnAccountCreated(ctx, acct)
		}); err != nil {
			r.logger.Warn("plugin OnAccountCreated failed",
				"plugin", p.Name(),
				"error", err,
			)
		}
	}
}

// EmitTransactionRecorded emits a transaction recorded event.
func (r *Registry) EmitTransactionRecorded(ctx context.Context, tx *transaction.Transaction) {
	r.mu.RLock()
	plugins := r.onTransactionRecorded
	r.mu.RUnlock()

	for _, p := range plugins {
		if err := r.callWithTimeout(ctx, p.Name(), func() error {
			return p.OnTransactionRecorded(ctx, tx)
		}); err != nil {
			r.logger.Warn("plugin OnTransactionRecorded failed",
				"plugin", p.Name(),
				"error", err,
			)
		}
	}
}

// EmitTransactionConfirmed emits a transaction confirmed event.
func (r *Registry) EmitTransactionConfirmed(ctx context.Context, acct *account.Account, tx *transaction.Transaction) {
	r.mu.RLock()
	plugins := r.onTransactionConfirmed
	r.mu.RUnlock()

	for _, p := range plugins {
		if err := r.callWithTimeout(ctx, p.Name(), func() error {
			return p.OnTransactionConfirmed(ctx, acct, tx)
		}); err != nil {
			r.logger.Warn("plugin OnTransactionConfirmed failed",
				"plugin", p.Name(),
				"error", err,
			)
		}
	}
}

// EmitConfirmationReset emits a confirmation reset event.
func (r *Registry) EmitConfirmationReset(ctx context.Context, acct *account.Account, tx *transaction.Transaction) {
	r.mu.RLock()
	plugins := r.onConfirmationReset
	r.mu.RUnlock()

	for _, p := range plugins {
		if err := r.callWithTimeout(ctx, p.Name(), func() error {
			return p.OnConfirmationReset(ctx, acct, tx)
		}); err != nil {
			r.logger.Warn("plugin OnConfirmationReset failed",
				"plugin", p.Name(),
				"error", err,
			)
		}
	}
}

// EmitBalanceApplied emits a balance applied event.
func (r *Registry) EmitBalanceApplied(ctx context.Context, acct *account.Account, tx *transaction.Transaction) {
	r.mu.RLock()
	plugins := r.onBalanceApplied
	r.mu.RUnlock()

	for _, p := range plugins {
		if err := r.callWithTimeout(ctx, p.Name(), func() error {
			return p.OnBalanceApplied(ctx, acct, tx)
		}); err != nil {
			r.logger.Warn("plugin OnBalanceApplied failed",
				"plugin", p.Name(),
				"error", err,
			)
		}
	}
}

// callWithTimeout calls a plugin function with a timeout.
// Plugins should never block the ledger pipeline.
func (r *Registry) callWithTimeout(ctx context.Context, pluginName string, fn func() error) error {
	done := make(chan error, 1)

	go func() {
		done <- fn()
	}()

	select {
	case err := <-done:
		return err
	case <-time.After(5 * time.Second):
		return fmt.Errorf("plugin timeout: %s", pluginName)
	case <-ctx.Done():
		return ctx.Err()
	}
}

package wallet

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/xraph/wallet/account"
	"github.com/xraph/wallet/id"
	"github.com/xraph/wallet/plugin"
	"github.com/xraph/wallet/store"
	"github.com/xraph/wallet/transaction"
	"github.com/xraph/wallet/types"
)

// DefaultPrecision is the display precision for new accounts.
const DefaultPrecision = 2

// Engine is the wallet ledger engine. It is synchronous from the caller's
// point of view: every balance-affecting operation runs inside one atomic
// store unit that persists the transaction, applies the balance delta under
// a per-account exclusive lock, and persists the mutated account(s).
type Engine struct {
	store   store.Store
	plugins *plugin.Registry
	logger  *slog.Logger

	// now stamps confirmed_at and entity timestamps; injectable for tests.
	now func() time.Time

	// Configuration
	precision int
}

// New creates a new Engine instance.
func New(s store.Store, opts ...Option) *Engine {
	e := &Engine{
		store:     s,
		plugins:   plugin.NewRegistry(),
		logger:    slog.Default(),
		now:       func() time.Time { return time.Now().UTC() },
		precision: DefaultPrecision,
	}

	for _, opt := range opts {
		opt(e)
	}

	return e
}

// Option configures an Engine instance.
type Option func(*Engine)

// WithLogger sets the logger.
func WithLogger(logger *slog.Logger) Option {
	return func(e *Engine) {
		e.logger = logger
		e.plugins.WithLogger(logger)
	}
}

// WithPlugin registers a plugin.
func WithPlugin(p plugin.Plugin) Option {
	return func(e *Engine) {
		_ = e.plugins.Register(p) //nolint:errcheck // best-effort plugin registration during init
	}
}

// WithClock sets the time source used for confirmed_at and entity
// timestamps.
func WithClock(now func() time.Time) Option {
	return func(e *Engine) {
		e.now = now
	}
}

// WithDefaultPrecision sets the display precision assigned to new accounts.
func WithDefaultPrecision(precision int) Option {
	return func(e *Engine) {
		e.precision = precision
	}
}

// Start migrates the store and initializes plugins.
func (e *Engine) Start(ctx context.Context) error {
	if err := e.store.Migrate(ctx); err != nil {
		return err
	}

	e.plugins.EmitInit(ctx, e)

	e.logger.Info("wallet engine started", "default_precision", e.precision)

	return nil
}

// Stop shuts down the Engine.
func (e *Engine) Stop() error {
	e.plugins.EmitShutdown(context.Background())

	return e.store.Close()
}

// ──────────────────────────────────────────────────
// Account Management
// ──────────────────────────────────────────────────

// CreateAccountOpts carries the optional fields of a new account.
type CreateAccountOpts struct {
	Precision *int // display precision override
	Metadata  types.Metadata
}

// CreateAccount creates a new account for the given holder with a zero
// balance.
func (e *Engine) CreateAccount(ctx context.Context, holder types.Ref, name string, opts CreateAccountOpts) (*account.Account, error) {
	precision := e.precision
	if opts.Precision != nil {
		precision = *opts.Precision
	}
	if precision < 0 {
		return nil, ErrInvalidInput
	}

	acct := &account.Account{
		Entity:    types.NewEntityAt(e.now()),
		ID:        id.NewAccountID(),
		Holder:    holder,
		Name:      name,
		Balance:   "0",
		Precision: precision,
		Metadata:  opts.Metadata.Clone(),
	}

	if err := e.store.CreateAccount(ctx, acct); err != nil {
		return nil, err
	}

	e.plugins.EmitAccountCreated(ctx, acct)
	return acct, nil
}

// Account retrieves an account by ID.
func (e *Engine) Account(ctx context.Context, accountID id.AccountID) (*account.Account, error) {
	return e.store.GetAccount(ctx, accountID)
}

// Balance returns the raw wide-scale balance of an account.
func (e *Engine) Balance(ctx context.Context, accountID id.AccountID) (string, error) {
	acct, err := e.store.GetAccount(ctx, accountID)
	if err != nil {
		return "", err
	}
	return acct.Balance, nil
}

// FormattedBalance returns the balance rendered at the account's display
// precision, rounded half-up.
func (e *Engine) FormattedBalance(ctx context.Context, accountID id.AccountID) (string, error) {
	acct, err := e.store.GetAccount(ctx, accountID)
	if err != nil {
		return "", err
	}
	return acct.FormattedBalance(), nil
}

// ──────────────────────────────────────────────────
// Helpers
// ──────────────────────────────────────────────────

// resolveAccount loads an account under the unit's exclusive lock, mapping a
// missing row to ErrInvalidAccount: an operation that names an account which
// cannot be resolved is a caller contract violation, not a lookup miss.
func resolveAccount(ctx context.Context, s store.Store, accountID id.AccountID) (*account.Account, error) {
	acct, err := s.GetAccountForUpdate(ctx, accountID)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return nil, ErrInvalidAccount
		}
		return nil, err
	}
	return acct, nil
}

// builder returns a transaction builder stamped by the engine clock.
func (e *Engine) builder() *transaction.Builder {
	return transaction.NewBuilder(e.now)
}

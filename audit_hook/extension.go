// Package audithook bridges wallet lifecycle events to an audit trail
// backend.
//
// It defines a local Recorder interface so the package does not depend on a
// concrete audit system. Callers inject a RecorderFunc adapter that bridges
// to their backend at wiring time.
package audithook

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/xraph/wallet/account"
	"github.com/xraph/wallet/plugin"
	"github.com/xraph/wallet/transaction"
)

// Compile-time interface checks.
var (
	_ plugin.Plugin                 = (*Extension)(nil)
	_ plugin.OnAccountCreated       = (*Extension)(nil)
	_ plugin.OnTransactionRecorded  = (*Extension)(nil)
	_ plugin.OnTransactionConfirmed = (*Extension)(nil)
	_ plugin.OnConfirmationReset    = (*Extension)(nil)
	_ plugin.OnBalanceApplied       = (*Extension)(nil)
)

// Recorder is the interface that audit backends must implement. It is
// defined locally so this package carries no backend dependency; callers
// inject the concrete recorder at wiring time.
type Recorder interface {
	Record(ctx context.Context, event *AuditEvent) error
}

// AuditEvent is a local representation of an audit event.
type AuditEvent struct {
	Action     string         `json:"action"`
	Resource   string         `json:"resource"`
	Category   string         `json:"category"`
	ResourceID string         `json:"resource_id,omitempty"`
	Metadata   map[string]any `json:"metadata,omitempty"`
	Outcome    string         `json:"outcome"`
	Severity   string         `json:"severity"`
}

// RecorderFunc is an adapter to use a plain function as a Recorder.
type RecorderFunc func(ctx context.Context, event *AuditEvent) error

// Record implements Recorder.
func (f RecorderFunc) Record(ctx context.Context, event *AuditEvent) error {
	return f(ctx, event)
}

// Extension bridges wallet lifecycle events to an audit trail backend.
type Extension struct {
	recorder Recorder
	enabled  map[string]bool // nil = all enabled
	logger   *slog.Logger
}

// New creates an Extension that emits audit events through the provided Recorder.
func New(r Recorder, opts ...Option) *Extension {
	e := &Extension{
		recorder: r,
		logger:   slog.Default(),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Name implements plugin.Plugin.
func (e *Extension) Name() string { return "audit-hook" }

// ──────────────────────────────────────────────────
// Account lifecycle hooks
// ──────────────────────────────────────────────────

// OnAccountCreated implements plugin.OnAccountCreated.
func (e *Extension) OnAccountCreated(ctx context.Context, acct *account.Account) error {
	return e.record(ctx, ActionAccountCreated, SeverityInfo, OutcomeSuccess,
		ResourceAccount, acct.ID.String(), CategoryAccount,
		"holder", acct.Holder.String(),
		"name", acct.Name,
		"precision", acct.Precision,
	)
}

// ──────────────────────────────────────────────────
// Transaction lifecycle hooks
// ──────────────────────────────────────────────────

// OnTransactionRecorded implements plugin.OnTransactionRecorded.
func (e *Extension) OnTransactionRecorded(ctx context.Context, tx *transaction.Transaction) error {
	return e.record(ctx, ActionTransactionRecorded, SeverityInfo, OutcomeSuccess,
		ResourceTransaction, tx.ID.String(), CategoryMovement,
		"type", string(tx.Type),
		"amount", tx.Amount,
		"fee", tx.Fee,
		"discount", tx.Discount,
		"confirmed", tx.Confirmed,
	)
}

// OnTransactionConfirmed implements plugin.OnTransactionConfirmed.
func (e *Extension) OnTransactionConfirmed(ctx context.Context, acct *account.Account, tx *transaction.Transaction) error {
	return e.record(ctx, ActionTransactionConfirmed, SeverityInfo, OutcomeSuccess,
		ResourceTransaction, tx.ID.String(), CategorySettlement,
		"actor_id", acct.ID.String(),
		"type", string(tx.Type),
	)
}

// OnConfirmationReset implements plugin.OnConfirmationReset.
func (e *Extension) OnConfirmationReset(ctx context.Context, acct *account.Account, tx *transaction.Transaction) error {
	// A reset keeps the balance effect in place, which deserves a louder
	// severity than routine settlement traffic.
	return e.record(ctx, ActionConfirmationReset, SeverityWarning, OutcomeSuccess,
		ResourceTransaction, tx.ID.String(), CategorySettlement,
		"actor_id", acct.ID.String(),
		"type", string(tx.Type),
	)
}

// OnBalanceApplied implements plugin.OnBalanceApplied.
func (e *Extension) OnBalanceApplied(ctx context.Context, acct *account.Account, tx *transaction.Transaction) error {
	return e.record(ctx, ActionBalanceApplied, SeverityInfo, OutcomeSuccess,
		ResourceAccount, acct.ID.String(), CategorySettlement,
		"transaction_id", tx.ID.String(),
		"type", string(tx.Type),
		"balance", acct.Balance,
	)
}

// ──────────────────────────────────────────────────
// Internal helpers
// ──────────────────────────────────────────────────

// record builds and sends an audit event if the action is enabled.
func (e *Extension) record(
	ctx context.Context,
	action, severity, outcome string,
	resource, resourceID, category string,
	kvPairs ...any,
) error {
	if e.enabled != nil && !e.enabled[action] {
		return nil
	}

	meta := make(map[string]any, len(kvPairs)/2)
	for i := 0; i+1 < len(kvPairs); i += 2 {
		key, ok := kvPairs[i].(string)
		if !ok {
			key = fmt.Sprintf("%v", kvPairs[i])
		}
		meta[key] = kvPairs[i+1]
	}

	evt := &AuditEvent{
		Action:     action,
		Resource:   resource,
		Category:   category,
		ResourceID: resourceID,
		Metadata:   meta,
		Outcome:    outcome,
		Severity:   severity,
	}

	if recErr := e.recorder.Record(ctx, evt); recErr != nil {
		e.logger.Warn("audit_hook: failed to record audit event",
			"action", action,
			"resource_id", resourceID,
			"error", recErr,
		)
	}
	return nil
}

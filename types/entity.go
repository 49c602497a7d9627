// Package types provides common types used across Wallet.
package types

import "time"

// Entity is the base type for all Wallet entities with timestamps.
// Embed this in your domain types to get automatic timestamp handling.
type Entity struct {
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// NewEntity creates a new Entity with current timestamps.
func NewEntity() Entity {
	return NewEntityAt(time.Now().UTC())
}

// NewEntityAt creates a new Entity stamped with the given time. The engine
// uses this with its injected clock so tests get deterministic timestamps.
func NewEntityAt(now time.Time) Entity {
	return Entity{
		CreatedAt: now,
		UpdatedAt: now,
	}
}

// Touch updates the UpdatedAt timestamp.
func (e *Entity) Touch(now time.Time) {
	e.UpdatedAt = now
}

// Age returns how long ago the entity was created.
func (e Entity) Age() time.Duration {
	return time.Since(e.CreatedAt)
}

// LastModified returns how long ago the entity was last updated.
func (e Entity) LastModified() time.Duration {
	return time.Since(e.UpdatedAt)
}

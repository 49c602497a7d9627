package types

import "fmt"

// Ref is a polymorphic party reference: the identity of whatever occupies a
// transaction's from/to slot. Kind is an explicit type discriminator
// ("account", "product", or an application-defined tag) and Key is the
// party's opaque identity within that kind. A zero Ref means the slot is
// empty, as in a pure deposit's from side.
type Ref struct {
	Kind string `json:"kind"`
	Key  string `json:"key"`
}

// NewRef builds a party reference from a kind discriminator and a key.
func NewRef(kind, key string) Ref {
	return Ref{Kind: kind, Key: key}
}

// IsZero reports whether the reference is empty.
func (r Ref) IsZero() bool {
	return r.Kind == "" && r.Key == ""
}

// Equal reports whether two references identify the same party.
func (r Ref) Equal(other Ref) bool {
	return r.Kind == other.Kind && r.Key == other.Key
}

// String returns "kind:key", or "" for the zero reference.
func (r Ref) String() string {
	if r.IsZero() {
		return ""
	}
	return fmt.Sprintf("%s:%s", r.Kind, r.Key)
}

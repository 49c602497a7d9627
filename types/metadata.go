package types

// Metadata is an opaque key-value bag attached to accounts and transactions.
// The engine never interprets its contents.
type Metadata map[string]any

// Clone returns a shallow copy, so stored records never alias caller maps.
func (m Metadata) Clone() Metadata {
	if m == nil {
		return nil
	}
	out := make(Metadata, len(m))
	for k, v := range m {
		out[k] = v
	}
	return out
}

package store

import "context"

// DefaultKey is the slot the dashboard collection lives under.
const DefaultKey = "dashboard-state"

// Slot reads and writes one serialized value per key. Read reports ok=false
// when nothing has been written under key yet.
type Slot interface {
	Read(ctx context.Context, key string) (value []byte, ok bool, err error)
	Write(ctx context.Context, key string, value []byte) error
}

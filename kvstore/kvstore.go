// Package kvstore abstracts the key-value medium carts are persisted on so
// the backing store (memory, redis, postgres) is swappable without touching
// cart logic.
package kvstore

import "context"

// Store is the persistence contract used by the cart store. Get reports
// whether the key existed; a missing key is not an error.
type Store interface {
	Get(ctx context.Context, key string) ([]byte, bool, error)
	Set(ctx context.Context, key string, value []byte) error
	Remove(ctx context.Context, key string) error
}

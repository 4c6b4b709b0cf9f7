package credstore

import "context"

// Store is the key-value contract the session manager persists through.
// Get reports presence explicitly: a missing key is (_, false, nil), never
// an error. Implementations must be safe for concurrent use.
type Store interface {
	Get(ctx context.Context, key string) (value string, ok bool, err error)
	Set(ctx context.Context, key, value string) error
	Delete(ctx context.Context, key string) error
}

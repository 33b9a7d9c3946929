package repository

import "context"

// CacheRepository is a capability-bounded key-value store. Entries carry
// their own expiry, so stores only keep bytes; Set failures are expected to
// be tolerated by callers.
type CacheRepository interface {
	Get(ctx context.Context, key string) ([]byte, bool)
	Set(ctx context.Context, key string, value []byte) error
	Has(ctx context.Context, key string) bool
	Delete(ctx context.Context, key string) error
}

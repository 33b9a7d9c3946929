package service

import (
	"context"
	"encoding/json"
	"time"

	"github.com/rs/zerolog"
	"github.com/vmihailenco/msgpack/v5"

	"loan-aggregator/domain"
	"loan-aggregator/repository"
)

// CanonicalKey serializes the set fields of criteria with keys in sorted
// order, so equal criteria always produce the same key no matter how they
// were assembled.
func CanonicalKey(c domain.FilterCriteria) string {
	fields := make(map[string]any, 8)
	if c.MinIncome != nil {
		fields["minIncome"] = *c.MinIncome
	}
	if c.EmploymentType != "" {
		fields["employmentType"] = c.EmploymentType
	}
	if c.MaxInterest != nil {
		fields["maxInterest"] = *c.MaxInterest
	}
	if c.MinLoanAmount != nil {
		fields["minLoanAmount"] = *c.MinLoanAmount
	}
	if c.MaxLoanAmount != nil {
		fields["maxLoanAmount"] = *c.MaxLoanAmount
	}
	if c.LoanType != "" {
		fields["loanType"] = string(c.LoanType)
	}
	if c.City != "" {
		fields["city"] = c.City
	}
	if c.SortBy != domain.SortNone {
		fields["sortBy"] = string(c.SortBy)
	}
	if len(fields) == 0 {
		return lenderCacheKeyPrefix + lenderCacheDefaultKey
	}
	// encoding/json writes map keys sorted.
	b, _ := json.Marshal(fields)
	return lenderCacheKeyPrefix + string(b)
}

// cachedLenders is the stored form of one lender list.
type cachedLenders struct {
	Lenders   []domain.LenderTerms `msgpack:"lenders"`
	ExpiresAt int64                `msgpack:"expiresAt"` // unix millis
}

// LenderCache is the session-scoped, time-expiring lender list cache. Entries
// expire lazily: an expired entry is removed when it is next read. Writes are
// best-effort and never surface errors.
type LenderCache struct {
	store repository.CacheRepository
	ttl   time.Duration
	now   func() time.Time
	log   zerolog.Logger
}

type LenderCacheOption func(*LenderCache)

// WithTTL overrides the default ten minute lifetime.
func WithTTL(ttl time.Duration) LenderCacheOption {
	return func(c *LenderCache) {
		if ttl > 0 {
			c.ttl = ttl
		}
	}
}

// WithClock replaces time.Now, for tests.
func WithClock(now func() time.Time) LenderCacheOption {
	return func(c *LenderCache) {
		c.now = now
	}
}

func NewLenderCache(store repository.CacheRepository, log zerolog.Logger, options ...LenderCacheOption) *LenderCache {
	c := &LenderCache{
		store: store,
		ttl:   DefaultLenderCacheTTL,
		now:   time.Now,
		log:   log.With().Str("component", "lender_cache").Logger(),
	}
	for _, option := range options {
		option(c)
	}
	return c
}

func (c *LenderCache) key(session string, criteria domain.FilterCriteria) string {
	return "session:" + session + ":" + CanonicalKey(criteria)
}

// Get returns the stored list while it is fresh.
func (c *LenderCache) Get(ctx context.Context, session string, criteria domain.FilterCriteria) ([]domain.LenderTerms, bool) {
	key := c.key(session, criteria)
	raw, ok := c.store.Get(ctx, key)
	if !ok {
		return nil, false
	}

	var entry cachedLenders
	if err := msgpack.Unmarshal(raw, &entry); err != nil {
		c.log.Warn().Err(err).Str("key", key).Msg("Dropping undecodable cache entry")
		c.remove(ctx, key)
		return nil, false
	}
	if c.now().UnixMilli() >= entry.ExpiresAt {
		c.remove(ctx, key)
		return nil, false
	}
	if entry.Lenders == nil {
		entry.Lenders = []domain.LenderTerms{}
	}
	return entry.Lenders, true
}

// Put stores lenders until now + TTL. Store failures (full, unavailable)
// are logged and dropped.
func (c *LenderCache) Put(ctx context.Context, session string, criteria domain.FilterCriteria, lenders []domain.LenderTerms) {
	key := c.key(session, criteria)
	raw, err := msgpack.Marshal(cachedLenders{
		Lenders:   lenders,
		ExpiresAt: c.now().Add(c.ttl).UnixMilli(),
	})
	if err != nil {
		c.log.Warn().Err(err).Str("key", key).Msg("Failed to encode cache entry")
		return
	}
	if err := c.store.Set(ctx, key, raw); err != nil {
		c.log.Debug().Err(err).Str("key", key).Msg("Cache write dropped")
	}
}

func (c *LenderCache) remove(ctx context.Context, key string) {
	if err := c.store.Delete(ctx, key); err != nil {
		c.log.Debug().Err(err).Str("key", key).Msg("Failed to remove cache entry")
	}
}

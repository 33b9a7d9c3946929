package repository

import (
	"context"
	"time"

	"github.com/rs/zerolog"
)

const sqliteCleanupTimeout = time.Minute

// SQLiteCleanupJob prunes cache rows of sessions that stopped coming back.
// Logical expiry is still decided on read; this only bounds the table.
type SQLiteCleanupJob struct {
	cache  *SQLiteCache
	maxAge time.Duration
	log    zerolog.Logger
}

func NewSQLiteCleanupJob(cache *SQLiteCache, maxAge time.Duration, log zerolog.Logger) *SQLiteCleanupJob {
	return &SQLiteCleanupJob{
		cache:  cache,
		maxAge: maxAge,
		log:    log.With().Str("job", "lender_cache_cleanup").Logger(),
	}
}

func (j *SQLiteCleanupJob) Run() error {
	ctx, cancel := context.WithTimeout(context.Background(), sqliteCleanupTimeout)
	defer cancel()

	deleted, err := j.cache.DeleteStale(ctx, j.maxAge)
	if err != nil {
		j.log.Error().Err(err).Msg("Failed to prune lender cache")
		return err
	}
	if deleted > 0 {
		j.log.Info().Int64("deleted", deleted).Msg("Pruned stale lender cache rows")
	}
	return nil
}

func (j *SQLiteCleanupJob) Name() string {
	return "lender_cache_cleanup"
}

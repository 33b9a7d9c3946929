package repository

import (
	"context"
	"sync"

	"loan-aggregator/domain"
)

// QuoteRepositoryMemory is an in-memory implementation of QuoteRepository
// that keeps the most recent capacity records.
type QuoteRepositoryMemory struct {
	mu       sync.Mutex
	data     []domain.QuoteRecord
	capacity int
}

// NewQuoteRepositoryMemory creates a new in-memory quote repository.
func NewQuoteRepositoryMemory(capacity int) *QuoteRepositoryMemory {
	if capacity <= 0 {
		capacity = 500
	}
	return &QuoteRepositoryMemory{
		data:     make([]domain.QuoteRecord, 0, capacity),
		capacity: capacity,
	}
}

// Save stores the quote, evicting the oldest one when full.
func (r *QuoteRepositoryMemory) Save(_ context.Context, record domain.QuoteRecord) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if len(r.data) == r.capacity {
		copy(r.data, r.data[1:])
		r.data = r.data[:len(r.data)-1]
	}
	r.data = append(r.data, record)
	return nil
}

// Recent returns up to limit records, newest first.
func (r *QuoteRepositoryMemory) Recent(_ context.Context, limit int) ([]domain.QuoteRecord, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if limit <= 0 || limit > len(r.data) {
		limit = len(r.data)
	}
	out := make([]domain.QuoteRecord, 0, limit)
	for i := len(r.data) - 1; i >= 0 && len(out) < limit; i-- {
		out = append(out, r.data[i])
	}
	return out, nil
}

package repository

import (
	"context"

	"loan-aggregator/domain"
)

type QuoteRepository interface {
	Save(ctx context.Context, record domain.QuoteRecord) error
	Recent(ctx context.Context, limit int) ([]domain.QuoteRecord, error)
}

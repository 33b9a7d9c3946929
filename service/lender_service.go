package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/rs/zerolog"

	"loan-aggregator/domain"
)

// LenderSource fetches the lender list from the remote backend. Criteria are
// forwarded as query parameters; the result is filtered locally regardless.
type LenderSource interface {
	FetchLenders(ctx context.Context, criteria domain.FilterCriteria) ([]domain.LenderTerms, error)
}

type LenderService struct {
	source LenderSource
	cache  *LenderCache
	log    zerolog.Logger
}

func NewLenderService(source LenderSource, cache *LenderCache, log zerolog.Logger) *LenderService {
	return &LenderService{
		source: source,
		cache:  cache,
		log:    log.With().Str("component", "lender_service").Logger(),
	}
}

// Lenders returns the filtered, sorted lender list for criteria. An empty
// list is a valid answer; only fetch failures are errors and they match
// domain.ErrNetworkFailure.
func (s *LenderService) Lenders(ctx context.Context, session string, criteria domain.FilterCriteria) ([]domain.LenderTerms, error) {
	if err := ValidateCriteria(criteria); err != nil {
		return nil, err
	}

	if cached, ok := s.cache.Get(ctx, session, criteria); ok {
		s.log.Debug().Str("session", session).Int("count", len(cached)).Msg("Cache hit")
		return cached, nil
	}

	fetched, err := s.source.FetchLenders(ctx, criteria)
	if err != nil {
		if !errors.Is(err, domain.ErrNetworkFailure) {
			err = fmt.Errorf("%w: %w", domain.ErrNetworkFailure, err)
		}
		s.log.Error().Err(err).Str("session", session).Msg("Failed to fetch lenders")
		return nil, err
	}

	result := FilterAndSort(fetched, criteria)
	s.cache.Put(ctx, session, criteria, result)

	s.log.Debug().
		Str("session", session).
		Int("fetched", len(fetched)).
		Int("matched", len(result)).
		Msg("Fetched lenders")

	return result, nil
}

// LenderBySlug finds one lender product among those offering loanType
// (personal when empty). Slugs carry a loan-type suffix, so "hdfc-bank-car"
// also finds "hdfc-bank-personal" when asked for personal loans.
func (s *LenderService) LenderBySlug(ctx context.Context, session, slug string, loanType domain.LoanType) (domain.LenderTerms, error) {
	if strings.TrimSpace(slug) == "" {
		return domain.LenderTerms{}, domain.Invalid("slug", "is required")
	}
	if loanType == "" {
		loanType = domain.LoanTypePersonal
	}

	lenders, err := s.Lenders(ctx, session, domain.FilterCriteria{LoanType: loanType})
	if err != nil {
		return domain.LenderTerms{}, err
	}

	base := baseSlug(slug)
	for _, l := range lenders {
		if l.Slug == slug || (base != "" && baseSlug(l.Slug) == base) {
			return l, nil
		}
	}
	return domain.LenderTerms{}, fmt.Errorf("lender %q: %w", slug, domain.ErrNotFound)
}

// baseSlug drops the trailing loan-type segment: "hdfc-bank-personal"
// becomes "hdfc-bank". A slug without one has no base.
func baseSlug(slug string) string {
	i := strings.LastIndex(slug, "-")
	if i < 0 {
		return ""
	}
	return slug[:i]
}

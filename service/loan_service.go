package service

import (
	"context"
	"fmt"
	"math"
	"time"

	"github.com/rs/zerolog"

	"loan-aggregator/domain"
	"loan-aggregator/repository"
)

// roundHalfUp rounds to the nearest whole currency unit, halves away from zero.
func roundHalfUp(value float64) float64 {
	if value < 0 {
		return -math.Floor(-value + 0.5)
	}
	return math.Floor(value + 0.5)
}

func finite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}

// validateQuote rejects inputs the amortization formula cannot handle.
func validateQuote(req domain.LoanQuoteRequest) error {
	if !finite(req.Principal) || req.Principal <= 0 {
		return domain.Invalid("principal", "must be greater than zero")
	}
	if req.Principal > MaxLoanAmount {
		return domain.Invalid("principal", fmt.Sprintf("exceeds the maximum of %.0f", MaxLoanAmount))
	}
	if !finite(req.AnnualRate) || req.AnnualRate < 0 {
		return domain.Invalid("annualRate", "must not be negative")
	}
	if req.AnnualRate > MaxInterestRate {
		return domain.Invalid("annualRate", fmt.Sprintf("exceeds the maximum of %.2f%%", MaxInterestRate))
	}
	if req.TenureMonths < MinTenureMonths {
		return domain.Invalid("tenureMonths", "must be at least 1 month")
	}
	if req.TenureMonths > MaxTenureMonths {
		return domain.Invalid("tenureMonths", fmt.Sprintf("exceeds the maximum of %d months", MaxTenureMonths))
	}
	if !finite(req.ExtraPayment) || req.ExtraPayment < 0 {
		return domain.Invalid("extraPayment", "must not be negative")
	}
	if req.ExtraPayment >= req.Principal {
		return domain.Invalid("extraPayment", "must be less than the principal")
	}
	return nil
}

// Amortize computes the fixed monthly installment for a loan. The extra
// payment reduces the principal up front and is added back to the total
// payable, not spread over the schedule.
func Amortize(req domain.LoanQuoteRequest) (domain.LoanQuoteResult, error) {
	if err := validateQuote(req); err != nil {
		return domain.LoanQuoteResult{}, err
	}

	base := req.Principal - req.ExtraPayment
	n := float64(req.TenureMonths)
	monthlyRate := req.AnnualRate / 12 / 100

	var installment float64
	if monthlyRate == 0 {
		installment = base / n
	} else {
		growth := math.Pow(1+monthlyRate, n)
		installment = base * monthlyRate * growth / (growth - 1)
	}

	installment = roundHalfUp(installment)
	total := roundHalfUp(installment*n + req.ExtraPayment)

	return domain.LoanQuoteResult{
		MonthlyInstallment: installment,
		TotalInterest:      roundHalfUp(total - req.Principal),
		TotalAmount:        total,
	}, nil
}

type LoanService struct {
	repo  repository.QuoteRepository
	log   zerolog.Logger
	clock func() time.Time
}

// NewLoanService creates a LoanService that records every quote in repo.
func NewLoanService(repo repository.QuoteRepository, log zerolog.Logger) *LoanService {
	return &LoanService{
		repo:  repo,
		log:   log.With().Str("component", "loan_service").Logger(),
		clock: time.Now,
	}
}

// Quote runs the amortization engine and records the result.
func (s *LoanService) Quote(
	ctx context.Context,
	sessionID string,
	req domain.LoanQuoteRequest,
) (domain.LoanQuoteResult, error) {
	result, err := Amortize(req)
	if err != nil {
		return domain.LoanQuoteResult{}, err
	}

	// History is informational; a failed save never fails the quote.
	record := domain.QuoteRecord{
		Request:   req,
		Result:    result,
		SessionID: sessionID,
		CreatedAt: s.clock().UnixMilli(),
	}
	if err := s.repo.Save(ctx, record); err != nil {
		s.log.Warn().Err(err).Msg("Failed to save loan quote")
	}

	return result, nil
}

// RecentQuotes returns up to limit quotes, newest first.
func (s *LoanService) RecentQuotes(ctx context.Context, limit int) ([]domain.QuoteRecord, error) {
	return s.repo.Recent(ctx, limit)
}

package service

import (
	"fmt"
	"math"
	"sort"

	"github.com/rs/zerolog"

	"loan-aggregator/domain"
)

const (
	PreferenceMinimizeInterest = "minimize_interest"
	PreferenceMinimizePayment  = "minimize_payment"
	PreferenceBalanced         = "balanced"
)

type TermRecommendationService struct {
	log zerolog.Logger
}

func NewTermRecommendationService(log zerolog.Logger) *TermRecommendationService {
	return &TermRecommendationService{
		log: log.With().Str("component", "term_recommendation").Logger(),
	}
}

func roundTo2Decimals(value float64) float64 {
	return math.Round(value*100) / 100
}

func validateTermInput(input domain.TermRecommendationInput) error {
	var errs domain.ValidationErrors
	add := func(field, message string) {
		errs = append(errs, &domain.ValidationError{Field: field, Message: message})
	}

	switch {
	case !finite(input.Principal) || input.Principal <= 0:
		add("principal", "must be greater than zero")
	case input.Principal > MaxLoanAmount:
		add("principal", fmt.Sprintf("exceeds the maximum of %.0f", MaxLoanAmount))
	}
	switch {
	case !finite(input.AnnualRate) || input.AnnualRate < 0:
		add("annualRate", "must not be negative")
	case input.AnnualRate > MaxInterestRate:
		add("annualRate", fmt.Sprintf("exceeds the maximum of %.2f%%", MaxInterestRate))
	}
	switch {
	case input.MinTenureMonths < MinTenureMonths || input.MaxTenureMonths < MinTenureMonths:
		add("tenure", "both bounds must be at least 1 month")
	case input.MinTenureMonths > input.MaxTenureMonths:
		add("tenure", "minimum exceeds maximum")
	case input.MaxTenureMonths > MaxTenureMonths:
		add("maxTenureMonths", fmt.Sprintf("exceeds the maximum of %d months", MaxTenureMonths))
	case input.MaxTenureMonths-input.MinTenureMonths > MaxTenureRangeMonths:
		add("tenure", fmt.Sprintf("range exceeds %d months", MaxTenureRangeMonths))
	}
	if !finite(input.MaxMonthlyInstallment) || input.MaxMonthlyInstallment <= 0 {
		add("maxMonthlyInstallment", "must be greater than zero")
	}
	switch input.Preference {
	case PreferenceMinimizeInterest, PreferenceMinimizePayment, PreferenceBalanced:
	default:
		add("preference", "must be minimize_interest, minimize_payment or balanced")
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}

// RecommendTerm scans every tenure in the requested range, keeps those whose
// installment fits the budget and ranks them by preference.
func (s *TermRecommendationService) RecommendTerm(
	input domain.TermRecommendationInput,
) (domain.TermRecommendationResult, error) {
	if err := validateTermInput(input); err != nil {
		return domain.TermRecommendationResult{}, err
	}

	recommendations := []domain.TermRecommendation{}
	for tenure := input.MinTenureMonths; tenure <= input.MaxTenureMonths; tenure++ {
		result, err := Amortize(domain.LoanQuoteRequest{
			Principal:    input.Principal,
			AnnualRate:   input.AnnualRate,
			TenureMonths: tenure,
		})
		if err != nil {
			s.log.Warn().Err(err).Int("tenure", tenure).Msg("Skipping tenure")
			continue
		}
		if result.MonthlyInstallment > input.MaxMonthlyInstallment {
			continue
		}

		recommendations = append(recommendations, domain.TermRecommendation{
			TenureMonths:       tenure,
			MonthlyInstallment: result.MonthlyInstallment,
			TotalInterest:      result.TotalInterest,
			Score:              s.calculateScore(result, input, tenure),
		})
	}

	if len(recommendations) == 0 {
		return domain.TermRecommendationResult{}, domain.Invalid(
			"maxMonthlyInstallment", "no tenure in range fits this monthly budget")
	}

	// Ties keep the shorter tenure first.
	sort.SliceStable(recommendations, func(i, j int) bool {
		return recommendations[i].Score > recommendations[j].Score
	})

	best := recommendations[0].TenureMonths
	for i := range recommendations {
		recommendations[i].Reason = s.generateReason(recommendations[i], input, i == 0)
	}

	return domain.TermRecommendationResult{
		RecommendedTenure: best,
		Recommendations:   recommendations,
	}, nil
}

// calculateScore rates a tenure from 0 to 10 on interest, installment and
// length, then weights the three by preference.
func (s *TermRecommendationService) calculateScore(
	result domain.LoanQuoteResult,
	input domain.TermRecommendationInput,
	tenure int,
) float64 {
	maxPossibleInterest := input.Principal * (input.AnnualRate / 100) * float64(input.MaxTenureMonths) / 12
	minPossibleInterest := input.Principal * (input.AnnualRate / 100) * float64(input.MinTenureMonths) / 12
	interestRange := maxPossibleInterest - minPossibleInterest

	floorInstallment := input.Principal / float64(input.MaxTenureMonths)
	paymentRange := input.MaxMonthlyInstallment - floorInstallment

	var interestScore, paymentScore float64
	termScore := 10.0
	if interestRange > 0 {
		interestScore = 10.0 * (1.0 - (result.TotalInterest-minPossibleInterest)/interestRange)
	}
	if paymentRange > 0 {
		paymentScore = 10.0 * (1.0 - (result.MonthlyInstallment-floorInstallment)/paymentRange)
	}
	if span := input.MaxTenureMonths - input.MinTenureMonths; span > 0 {
		termScore = 10.0 * (1.0 - float64(tenure-input.MinTenureMonths)/float64(span))
	}

	var score float64
	switch input.Preference {
	case PreferenceMinimizeInterest:
		score = 0.6*interestScore + 0.2*paymentScore + 0.2*termScore
	case PreferenceMinimizePayment:
		score = 0.2*interestScore + 0.6*paymentScore + 0.2*termScore
	case PreferenceBalanced:
		score = 0.4*interestScore + 0.4*paymentScore + 0.2*termScore
	}

	return roundTo2Decimals(score)
}

func (s *TermRecommendationService) generateReason(
	rec domain.TermRecommendation,
	input domain.TermRecommendationInput,
	top bool,
) string {
	var focus string
	switch input.Preference {
	case PreferenceMinimizeInterest:
		focus = "keeps total interest low"
	case PreferenceMinimizePayment:
		focus = "keeps the monthly installment low"
	default:
		focus = "balances the monthly installment against total interest"
	}
	if top {
		return fmt.Sprintf("Best fit: %d months %s at %.0f per month, %.0f interest overall",
			rec.TenureMonths, focus, rec.MonthlyInstallment, rec.TotalInterest)
	}
	return fmt.Sprintf("%d months at %.0f per month, %.0f interest overall",
		rec.TenureMonths, rec.MonthlyInstallment, rec.TotalInterest)
}

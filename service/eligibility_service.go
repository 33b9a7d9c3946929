package service

import (
	"context"
	"strings"

	"github.com/rs/zerolog"

	"loan-aggregator/domain"
)

type EligibilityService struct {
	lenders LenderLister
	log     zerolog.Logger
}

func NewEligibilityService(lenders LenderLister, log zerolog.Logger) *EligibilityService {
	return &EligibilityService{
		lenders: lenders,
		log:     log.With().Str("component", "eligibility").Logger(),
	}
}

func validateEligibility(req domain.EligibilityRequest) error {
	var errs domain.ValidationErrors
	if !finite(req.MonthlyIncome) || req.MonthlyIncome <= 0 {
		errs = append(errs, &domain.ValidationError{Field: "monthlyIncome", Message: "must be greater than zero"})
	}
	if strings.TrimSpace(req.City) == "" {
		errs = append(errs, &domain.ValidationError{Field: "city", Message: "is required"})
	}
	if strings.TrimSpace(req.EmploymentType) == "" {
		errs = append(errs, &domain.ValidationError{Field: "employmentType", Message: "is required"})
	}
	if !finite(req.LoanAmount) || req.LoanAmount <= 0 {
		errs = append(errs, &domain.ValidationError{Field: "loanAmount", Message: "must be greater than zero"})
	}
	if len(errs) > 0 {
		return errs
	}
	return nil
}

// Check counts the lenders that would consider this applicant and previews
// the first few. A lender lookup failure reads as "no eligible lenders".
func (s *EligibilityService) Check(
	ctx context.Context,
	session string,
	req domain.EligibilityRequest,
) (domain.EligibilityResult, error) {
	if err := validateEligibility(req); err != nil {
		return domain.EligibilityResult{}, err
	}

	income := req.MonthlyIncome
	amount := req.LoanAmount
	criteria := domain.FilterCriteria{
		MinIncome:      &income,
		EmploymentType: strings.TrimSpace(req.EmploymentType),
		City:           strings.TrimSpace(req.City),
		MinLoanAmount:  &amount,
		MaxLoanAmount:  &amount,
	}

	result := domain.EligibilityResult{EligibleBanks: []domain.EligibleLender{}}

	lenders, err := s.lenders.Lenders(ctx, session, criteria)
	if err != nil {
		s.log.Warn().Err(err).Msg("Eligibility lookup failed, reporting no lenders")
		return result, nil
	}

	result.EligibleCount = len(lenders)
	for i, l := range lenders {
		if i == EligibilityPreviewSize {
			break
		}
		result.EligibleBanks = append(result.EligibleBanks, domain.EligibleLender{
			ID:   l.ID,
			Name: l.Name,
			Slug: l.Slug,
		})
	}
	return result, nil
}

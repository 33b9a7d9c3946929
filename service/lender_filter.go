package service

import (
	"math"
	"sort"
	"strings"

	"loan-aggregator/domain"
)

// FilterLenders returns the lenders that satisfy every constraint set in
// criteria, in their original order. The input slice is never modified and
// the result is never nil.
func FilterLenders(lenders []domain.LenderTerms, criteria domain.FilterCriteria) []domain.LenderTerms {
	out := make([]domain.LenderTerms, 0, len(lenders))
	for _, l := range lenders {
		if matches(l, criteria) {
			out = append(out, l)
		}
	}
	return out
}

func matches(l domain.LenderTerms, c domain.FilterCriteria) bool {
	// The applicant's income must clear the lender's floor.
	if c.MinIncome != nil && *c.MinIncome < l.MinIncome {
		return false
	}
	if c.EmploymentType != "" && !containsFold(l.EmploymentTypes, c.EmploymentType) {
		return false
	}
	// Best case: the lender's lowest rate is within the user's ceiling.
	if c.MaxInterest != nil && l.InterestMin > *c.MaxInterest {
		return false
	}
	if c.MinLoanAmount != nil || c.MaxLoanAmount != nil {
		wantMin, wantMax := 0.0, math.Inf(1)
		if c.MinLoanAmount != nil {
			wantMin = *c.MinLoanAmount
		}
		if c.MaxLoanAmount != nil {
			wantMax = *c.MaxLoanAmount
		}
		lenderMax := l.MaxLoanAmount
		if lenderMax == 0 {
			lenderMax = math.Inf(1)
		}
		if l.MinLoanAmount > wantMax || lenderMax < wantMin {
			return false
		}
	}
	if c.LoanType != "" && l.LoanType != c.LoanType {
		return false
	}
	return true
}

func containsFold(values []string, want string) bool {
	for _, v := range values {
		if strings.EqualFold(v, want) {
			return true
		}
	}
	return false
}

// processingFeeKey orders by percentage, falling back to the fixed fee.
// Lenders that publish neither sort last.
func processingFeeKey(l domain.LenderTerms) float64 {
	if l.ProcessingFeePercent != nil {
		return *l.ProcessingFeePercent
	}
	if l.ProcessingFeeFixed != nil {
		return *l.ProcessingFeeFixed
	}
	return math.Inf(1)
}

// SortLenders returns a copy of lenders ordered by key. Equal keys keep their
// relative order; SortNone keeps the upstream order.
func SortLenders(lenders []domain.LenderTerms, key domain.SortKey) []domain.LenderTerms {
	out := make([]domain.LenderTerms, len(lenders))
	copy(out, lenders)

	switch key {
	case domain.SortByInterest:
		sort.SliceStable(out, func(i, j int) bool {
			return out[i].InterestMin < out[j].InterestMin
		})
	case domain.SortByProcessing:
		sort.SliceStable(out, func(i, j int) bool {
			return processingFeeKey(out[i]) < processingFeeKey(out[j])
		})
	}
	return out
}

// FilterAndSort applies criteria and its sort key in one pass.
func FilterAndSort(lenders []domain.LenderTerms, criteria domain.FilterCriteria) []domain.LenderTerms {
	return SortLenders(FilterLenders(lenders, criteria), criteria.SortBy)
}

// ValidateCriteria rejects values a lender query cannot mean.
func ValidateCriteria(c domain.FilterCriteria) error {
	for field, v := range map[string]*float64{
		"minIncome":     c.MinIncome,
		"maxInterest":   c.MaxInterest,
		"minLoanAmount": c.MinLoanAmount,
		"maxLoanAmount": c.MaxLoanAmount,
	} {
		if v != nil && (!finite(*v) || *v < 0) {
			return domain.Invalid(field, "must be a non-negative number")
		}
	}
	if c.MinLoanAmount != nil && c.MaxLoanAmount != nil && *c.MinLoanAmount > *c.MaxLoanAmount {
		return domain.Invalid("minLoanAmount", "must not exceed maxLoanAmount")
	}
	if c.LoanType != "" && !c.LoanType.Valid() {
		return domain.Invalid("loanType", "unknown loan type")
	}
	if !c.SortBy.Valid() {
		return domain.Invalid("sortBy", "must be interest or processingFee")
	}
	return nil
}

package service

import "time"

const (
	MaxLoanAmount   = 1_000_000_000.0 // 100 crore
	MaxInterestRate = 1000.0          // 1000% per year
	MaxTenureMonths = 600             // 50 years
	MinTenureMonths = 1

	// Tenure recommendation limits
	MaxTenureRangeMonths = 120 // widest tenure range scanned (10 years)

	// Lender list cache
	DefaultLenderCacheTTL = 10 * time.Minute
	lenderCacheKeyPrefix  = "lenders:"
	lenderCacheDefaultKey = "_default"

	// Filter edits collapse into one fetch after this quiet period
	DefaultDebounceWindow = 400 * time.Millisecond

	// Eligibility preview size
	EligibilityPreviewSize = 5
)

package domain

type TermRecommendationInput struct {
	Principal             float64 `json:"principal"`
	AnnualRate            float64 `json:"annualRate"`
	MinTenureMonths       int     `json:"minTenureMonths"`
	MaxTenureMonths       int     `json:"maxTenureMonths"`
	MaxMonthlyInstallment float64 `json:"maxMonthlyInstallment"`
	Preference            string  `json:"preference"` // "minimize_interest", "minimize_payment", "balanced"
}

type TermRecommendation struct {
	TenureMonths       int     `json:"tenureMonths"`
	MonthlyInstallment float64 `json:"emi"`
	TotalInterest      float64 `json:"totalInterest"`
	Score              float64 `json:"score"`
	Reason             string  `json:"reason"`
}

type TermRecommendationResult struct {
	RecommendedTenure int                  `json:"recommendedTenure"`
	Recommendations   []TermRecommendation `json:"recommendations"`
}

package domain

type LoanQuoteRequest struct {
	Principal    float64 `json:"principal"`
	AnnualRate   float64 `json:"annualRate"`
	TenureMonths int     `json:"tenureMonths"`
	ExtraPayment float64 `json:"extraPayment,omitempty"` // lump sum applied at origination
}

type LoanQuoteResult struct {
	MonthlyInstallment float64 `json:"emi"`
	TotalInterest      float64 `json:"totalInterest"`
	TotalAmount        float64 `json:"totalAmount"`
}

// QuoteRecord is one computed quote kept in the quote history.
type QuoteRecord struct {
	Request   LoanQuoteRequest `json:"request"`
	Result    LoanQuoteResult  `json:"result"`
	SessionID string           `json:"sessionId,omitempty"`
	CreatedAt int64            `json:"createdAt"` // unix millis
}

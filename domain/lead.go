package domain

type LeadRequest struct {
	FullName       string  `json:"fullName"`
	Phone          string  `json:"phone"`
	Email          string  `json:"email"`
	City           string  `json:"city"`
	MonthlyIncome  float64 `json:"monthlyIncome"`
	EmploymentType string  `json:"employmentType"`
	LoanAmount     float64 `json:"loanAmount"`
	SourcePage     string  `json:"sourcePage"`
	Consent        bool    `json:"consent"`
	LenderID       string  `json:"lenderId,omitempty"`
	LenderName     string  `json:"lenderName,omitempty"`
}

type LeadReceipt struct {
	LeadID string `json:"leadId"`
}

type AffiliateRedirect struct {
	RedirectURL string `json:"redirectUrl"`
	PartnerName string `json:"partnerName"`
}

type LeadSubmission struct {
	LeadID      string `json:"leadId"`
	RedirectURL string `json:"redirectUrl"`
	PartnerName string `json:"partnerName"`
}

package domain

type LoanType string

const (
	LoanTypePersonal  LoanType = "personal"
	LoanTypeCar       LoanType = "car"
	LoanTypeBike      LoanType = "bike"
	LoanTypeHome      LoanType = "home"
	LoanTypeBusiness  LoanType = "business"
	LoanTypeEducation LoanType = "education"
)

var LoanTypes = []LoanType{
	LoanTypePersonal,
	LoanTypeCar,
	LoanTypeBike,
	LoanTypeHome,
	LoanTypeBusiness,
	LoanTypeEducation,
}

func (t LoanType) Valid() bool {
	for _, lt := range LoanTypes {
		if t == lt {
			return true
		}
	}
	return false
}

type SortKey string

const (
	SortNone         SortKey = ""
	SortByInterest   SortKey = "interest"
	SortByProcessing SortKey = "processingFee"
)

func (k SortKey) Valid() bool {
	return k == SortNone || k == SortByInterest || k == SortByProcessing
}

const (
	EmploymentSalaried     = "salaried"
	EmploymentSelfEmployed = "self-employed"
)

// LenderTerms is one bank product as the backend publishes it. A bank that
// offers several loan types appears once per type, each with its own slug
// ("hdfc-bank-personal", "hdfc-bank-car").
type LenderTerms struct {
	ID                        string   `json:"id" msgpack:"id"`
	Name                      string   `json:"name" msgpack:"name"`
	Slug                      string   `json:"slug,omitempty" msgpack:"slug,omitempty"`
	LoanType                  LoanType `json:"loanType,omitempty" msgpack:"loanType,omitempty"`
	InterestMin               float64  `json:"interestMin" msgpack:"interestMin"`
	InterestMax               float64  `json:"interestMax" msgpack:"interestMax"`
	RateType                  string   `json:"rateType,omitempty" msgpack:"rateType,omitempty"`
	ProcessingFeePercent      *float64 `json:"processingFeePercent,omitempty" msgpack:"processingFeePercent,omitempty"`
	ProcessingFeeFixed        *float64 `json:"processingFeeFixed,omitempty" msgpack:"processingFeeFixed,omitempty"`
	MinIncome                 float64  `json:"minIncome" msgpack:"minIncome"`
	EmploymentTypes           []string `json:"employmentTypes" msgpack:"employmentTypes"`
	MinLoanAmount             float64  `json:"minLoanAmount" msgpack:"minLoanAmount"`
	MaxLoanAmount             float64  `json:"maxLoanAmount" msgpack:"maxLoanAmount"` // 0 = no upper bound
	TenureMin                 int      `json:"tenureMin,omitempty" msgpack:"tenureMin,omitempty"`
	TenureMax                 int      `json:"tenureMax,omitempty" msgpack:"tenureMax,omitempty"`
	CitiesSupported           []string `json:"citiesSupported,omitempty" msgpack:"citiesSupported,omitempty"`
	LogoURL                   string   `json:"logoUrl,omitempty" msgpack:"logoUrl,omitempty"`
	EstimatedApprovalTimeDays int      `json:"estimatedApprovalTimeDays,omitempty" msgpack:"estimatedApprovalTimeDays,omitempty"`
	Rating                    float64  `json:"rating,omitempty" msgpack:"rating,omitempty"`
	Featured                  bool     `json:"featured,omitempty" msgpack:"featured,omitempty"`
	Description               string   `json:"description,omitempty" msgpack:"description,omitempty"`
}

// FilterCriteria narrows a lender list. Nil pointers and empty strings mean
// "no constraint on this dimension".
type FilterCriteria struct {
	MinIncome      *float64 `json:"minIncome,omitempty"` // the applicant's monthly income
	EmploymentType string   `json:"employmentType,omitempty"`
	MaxInterest    *float64 `json:"maxInterest,omitempty"`
	MinLoanAmount  *float64 `json:"minLoanAmount,omitempty"`
	MaxLoanAmount  *float64 `json:"maxLoanAmount,omitempty"`
	LoanType       LoanType `json:"loanType,omitempty"`
	City           string   `json:"city,omitempty"` // forwarded upstream only
	SortBy         SortKey  `json:"sortBy,omitempty"`
}

type EligibilityRequest struct {
	MonthlyIncome  float64 `json:"monthlyIncome"`
	City           string  `json:"city"`
	EmploymentType string  `json:"employmentType"`
	LoanAmount     float64 `json:"loanAmount"`
}

type EligibleLender struct {
	ID   string `json:"id"`
	Name string `json:"name"`
	Slug string `json:"slug,omitempty"`
}

type EligibilityResult struct {
	EligibleCount int              `json:"eligibleCount"`
	EligibleBanks []EligibleLender `json:"eligibleBanks"`
}

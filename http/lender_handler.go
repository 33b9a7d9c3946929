package http

import (
	"errors"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"

	"loan-aggregator/domain"
	"loan-aggregator/service"
)

const (
	StatusOK          = "ok"
	StatusEmpty       = "empty"
	StatusUnavailable = "unavailable"

	emptyLendersMessage       = "No lenders found matching your criteria"
	unavailableLendersMessage = "Unable to load lenders right now, please try again"
)

// lenderListResponse separates "nothing matched" from "could not load".
type lenderListResponse struct {
	Status  string               `json:"status"`
	Count   int                  `json:"count"`
	Lenders []domain.LenderTerms `json:"lenders"`
	Message string               `json:"message,omitempty"`
}

func newLenderListResponse(lenders []domain.LenderTerms, err error) lenderListResponse {
	switch {
	case err != nil:
		return lenderListResponse{Status: StatusUnavailable, Lenders: []domain.LenderTerms{}, Message: unavailableLendersMessage}
	case len(lenders) == 0:
		return lenderListResponse{Status: StatusEmpty, Lenders: []domain.LenderTerms{}, Message: emptyLendersMessage}
	default:
		return lenderListResponse{Status: StatusOK, Count: len(lenders), Lenders: lenders}
	}
}

type LenderHandler struct {
	service *service.LenderService
	log     zerolog.Logger
}

func NewLenderHandler(service *service.LenderService, log zerolog.Logger) *LenderHandler {
	return &LenderHandler{
		service: service,
		log:     log.With().Str("handler", "lender").Logger(),
	}
}

// List answers with the filtered lender list. A backend outage still
// answers 200 so the page can render a retry prompt instead of failing.
func (h *LenderHandler) List(w http.ResponseWriter, r *http.Request) {
	criteria, err := criteriaFromQuery(r.URL.Query())
	if err != nil {
		writeError(w, h.log, err)
		return
	}

	lenders, err := h.service.Lenders(r.Context(), SessionID(r.Context()), criteria)
	if err != nil && errors.Is(err, domain.ErrInvalidInput) {
		writeError(w, h.log, err)
		return
	}

	writeJSON(w, http.StatusOK, newLenderListResponse(lenders, err))
}

// Get answers with one lender product, looked up by slug.
func (h *LenderHandler) Get(w http.ResponseWriter, r *http.Request) {
	slug := chi.URLParam(r, "slug")
	loanType := domain.LoanType(strings.TrimSpace(r.URL.Query().Get("loanType")))

	lender, err := h.service.LenderBySlug(r.Context(), SessionID(r.Context()), slug, loanType)
	if err != nil {
		writeError(w, h.log, err)
		return
	}
	writeJSON(w, http.StatusOK, lender)
}

func criteriaFromQuery(q url.Values) (domain.FilterCriteria, error) {
	var errs domain.ValidationErrors
	number := func(key string) *float64 {
		raw := strings.TrimSpace(q.Get(key))
		if raw == "" {
			return nil
		}
		v, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			errs = append(errs, &domain.ValidationError{Field: key, Message: "must be a number"})
			return nil
		}
		return &v
	}

	criteria := domain.FilterCriteria{
		MinIncome:      number("minIncome"),
		EmploymentType: strings.TrimSpace(q.Get("employmentType")),
		MaxInterest:    number("maxInterest"),
		MinLoanAmount:  number("minLoanAmount"),
		MaxLoanAmount:  number("maxLoanAmount"),
		LoanType:       domain.LoanType(strings.TrimSpace(q.Get("loanType"))),
		City:           strings.TrimSpace(q.Get("city")),
		SortBy:         domain.SortKey(strings.TrimSpace(q.Get("sortBy"))),
	}
	if len(errs) > 0 {
		return domain.FilterCriteria{}, errs
	}
	return criteria, nil
}

package http

import (
	"net/http"

	"github.com/rs/zerolog"

	"loan-aggregator/domain"
	"loan-aggregator/service"
)

type LoanHandler struct {
	service *service.LoanService
	log     zerolog.Logger
}

func NewLoanHandler(service *service.LoanService, log zerolog.Logger) *LoanHandler {
	return &LoanHandler{
		service: service,
		log:     log.With().Str("handler", "loan").Logger(),
	}
}

// Quote runs the EMI calculator.
func (h *LoanHandler) Quote(w http.ResponseWriter, r *http.Request) {
	var req domain.LoanQuoteRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeDecodeError(w, err)
		return
	}

	result, err := h.service.Quote(r.Context(), SessionID(r.Context()), req)
	if err != nil {
		writeError(w, h.log, err)
		return
	}

	writeJSON(w, http.StatusOK, result)
}

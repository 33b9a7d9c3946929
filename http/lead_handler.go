package http

import (
	"errors"
	"net/http"

	"github.com/rs/zerolog"

	"loan-aggregator/domain"
	"loan-aggregator/service"
)

type LeadHandler struct {
	service *service.LeadService
	log     zerolog.Logger
}

func NewLeadHandler(service *service.LeadService, log zerolog.Logger) *LeadHandler {
	return &LeadHandler{
		service: service,
		log:     log.With().Str("handler", "lead").Logger(),
	}
}

// Submit stores the lead and answers with the partner redirect.
func (h *LeadHandler) Submit(w http.ResponseWriter, r *http.Request) {
	var lead domain.LeadRequest
	if err := decodeJSON(w, r, &lead); err != nil {
		writeDecodeError(w, err)
		return
	}

	submission, err := h.service.Submit(r.Context(), lead)
	switch {
	case err == nil:
		writeJSON(w, http.StatusCreated, submission)
	case errors.Is(err, domain.ErrInvalidInput):
		writeError(w, h.log, err)
	default:
		h.log.Warn().Err(err).Msg("Lead submission failed")
		writeJSON(w, http.StatusBadGateway, errorResponse{Error: service.FailureMessage(err)})
	}
}

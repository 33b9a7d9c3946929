package http

import (
	"net/http"

	"github.com/rs/zerolog"

	"loan-aggregator/domain"
	"loan-aggregator/service"
)

type EligibilityHandler struct {
	service *service.EligibilityService
	log     zerolog.Logger
}

func NewEligibilityHandler(service *service.EligibilityService, log zerolog.Logger) *EligibilityHandler {
	return &EligibilityHandler{
		service: service,
		log:     log.With().Str("handler", "eligibility").Logger(),
	}
}

func (h *EligibilityHandler) Check(w http.ResponseWriter, r *http.Request) {
	var req domain.EligibilityRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeDecodeError(w, err)
		return
	}

	result, err := h.service.Check(r.Context(), SessionID(r.Context()), req)
	if err != nil {
		writeError(w, h.log, err)
		return
	}

	writeJSON(w, http.StatusOK, result)
}

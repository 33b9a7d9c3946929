package http

import (
	"net/http"

	"github.com/rs/zerolog"

	"loan-aggregator/domain"
	"loan-aggregator/service"
)

type TermRecommendationHandler struct {
	service *service.TermRecommendationService
	log     zerolog.Logger
}

func NewTermRecommendationHandler(service *service.TermRecommendationService, log zerolog.Logger) *TermRecommendationHandler {
	return &TermRecommendationHandler{
		service: service,
		log:     log.With().Str("handler", "term_recommendation").Logger(),
	}
}

func (h *TermRecommendationHandler) RecommendTerm(w http.ResponseWriter, r *http.Request) {
	var input domain.TermRecommendationInput
	if err := decodeJSON(w, r, &input); err != nil {
		h.log.Debug().Err(err).Msg("Rejected tenure recommendation body")
		writeDecodeError(w, err)
		return
	}

	result, err := h.service.RecommendTerm(input)
	if err != nil {
		writeError(w, h.log, err)
		return
	}

	writeJSON(w, http.StatusOK, result)
}

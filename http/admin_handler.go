package http

import (
	"context"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"

	"loan-aggregator/domain"
	"loan-aggregator/service"
)

const (
	defaultLeadPageSize = 20
	maxLeadPageSize     = 100

	defaultQuoteLimit = 50
	maxQuoteLimit     = 500
)

// AdminBackend serves the admin reports.
type AdminBackend interface {
	Dashboard(ctx context.Context) (domain.DashboardSummary, error)
	Leads(ctx context.Context, page, limit int) (domain.LeadPage, error)
	User(ctx context.Context, userID string) (domain.User, error)
}

type AdminHandler struct {
	backend AdminBackend
	quotes  *service.LoanService
	log     zerolog.Logger
}

func NewAdminHandler(backend AdminBackend, quotes *service.LoanService, log zerolog.Logger) *AdminHandler {
	return &AdminHandler{
		backend: backend,
		quotes:  quotes,
		log:     log.With().Str("handler", "admin").Logger(),
	}
}

func (h *AdminHandler) Dashboard(w http.ResponseWriter, r *http.Request) {
	summary, err := h.backend.Dashboard(r.Context())
	if err != nil {
		writeError(w, h.log, err)
		return
	}
	writeJSON(w, http.StatusOK, summary)
}

func (h *AdminHandler) Leads(w http.ResponseWriter, r *http.Request) {
	page, err := intParam(r, "page", 1, 1, 0)
	if err != nil {
		writeError(w, h.log, err)
		return
	}
	limit, err := intParam(r, "limit", defaultLeadPageSize, 1, maxLeadPageSize)
	if err != nil {
		writeError(w, h.log, err)
		return
	}

	leads, err := h.backend.Leads(r.Context(), page, limit)
	if err != nil {
		writeError(w, h.log, err)
		return
	}
	writeJSON(w, http.StatusOK, leads)
}

// User looks up one synced user profile.
func (h *AdminHandler) User(w http.ResponseWriter, r *http.Request) {
	user, err := h.backend.User(r.Context(), chi.URLParam(r, "userID"))
	if err != nil {
		writeError(w, h.log, err)
		return
	}
	writeJSON(w, http.StatusOK, user)
}

// Quotes lists recent EMI calculations made on this instance.
func (h *AdminHandler) Quotes(w http.ResponseWriter, r *http.Request) {
	limit, err := intParam(r, "limit", defaultQuoteLimit, 1, maxQuoteLimit)
	if err != nil {
		writeError(w, h.log, err)
		return
	}

	quotes, err := h.quotes.RecentQuotes(r.Context(), limit)
	if err != nil {
		writeError(w, h.log, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"quotes": quotes, "count": len(quotes)})
}

// intParam reads an optional integer query parameter within [lo, hi]; hi of
// 0 means unbounded.
func intParam(r *http.Request, key string, def, lo, hi int) (int, error) {
	raw := r.URL.Query().Get(key)
	if raw == "" {
		return def, nil
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return 0, domain.Invalid(key, "must be an integer")
	}
	if v < lo || (hi > 0 && v > hi) {
		if hi > 0 {
			return 0, domain.Invalid(key, "must be between "+strconv.Itoa(lo)+" and "+strconv.Itoa(hi))
		}
		return 0, domain.Invalid(key, "must be at least "+strconv.Itoa(lo))
	}
	return v, nil
}

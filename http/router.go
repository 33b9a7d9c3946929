package http

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/rs/zerolog"
)

const defaultRequestTimeout = 30 * time.Second

type RouterConfig struct {
	CORSOrigins    []string
	AdminJWTSecret string // admin routes are not mounted without one
	RequestTimeout time.Duration
}

// Handlers groups every endpoint handler. Nil handlers are not routed.
type Handlers struct {
	Loan        *LoanHandler
	Term        *TermRecommendationHandler
	Lender      *LenderHandler
	Live        *LiveHandler
	Eligibility *EligibilityHandler
	Lead        *LeadHandler
	Auth        *AuthHandler
	Admin       *AdminHandler
}

func NewRouter(cfg RouterConfig, h Handlers, limiter *RateLimiter, log zerolog.Logger) http.Handler {
	log = log.With().Str("component", "http").Logger()
	if cfg.RequestTimeout <= 0 {
		cfg.RequestTimeout = defaultRequestTimeout
	}

	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(loggingMiddleware(log))
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   cfg.CORSOrigins,
		AllowedMethods:   []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", SessionHeader},
		ExposedHeaders:   []string{SessionHeader},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	r.Get("/health", handleHealth)

	r.Route("/api", func(r chi.Router) {
		r.Use(SessionMiddleware)
		if limiter != nil {
			r.Use(RateLimit(limiter))
		}

		// Long-lived; kept outside the request timeout.
		if h.Live != nil {
			r.Get("/loan/lenders/live", h.Live.Serve)
		}

		r.Group(func(r chi.Router) {
			r.Use(middleware.Timeout(cfg.RequestTimeout))

			if h.Loan != nil {
				r.Post("/loan/quote", h.Loan.Quote)
			}
			if h.Term != nil {
				r.Post("/loan/recommend-tenure", h.Term.RecommendTerm)
			}
			if h.Lender != nil {
				r.Get("/loan/lenders", h.Lender.List)
				r.Get("/loan/lenders/{slug}", h.Lender.Get)
			}
			if h.Eligibility != nil {
				r.Post("/eligibility", h.Eligibility.Check)
			}
			if h.Lead != nil {
				r.Post("/leads", h.Lead.Submit)
			}
			if h.Auth != nil {
				r.Post("/auth/sync", h.Auth.Sync)
			}

			if h.Admin != nil && cfg.AdminJWTSecret != "" {
				r.Route("/admin", func(r chi.Router) {
					r.Use(AdminAuth(cfg.AdminJWTSecret, log))
					r.Get("/dashboard", h.Admin.Dashboard)
					r.Get("/leads", h.Admin.Leads)
					r.Get("/leads/export", h.Admin.ExportLeads)
					r.Get("/quotes", h.Admin.Quotes)
					r.Get("/users/{userID}", h.Admin.User)
				})
			}
		})
	})

	return r
}

func handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// loggingMiddleware logs HTTP requests
func loggingMiddleware(log zerolog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()

			ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
			next.ServeHTTP(ww, r)

			log.Info().
				Str("method", r.Method).
				Str("path", r.URL.Path).
				Int("status", ww.Status()).
				Int("bytes", ww.BytesWritten()).
				Dur("duration_ms", time.Since(start)).
				Str("request_id", middleware.GetReqID(r.Context())).
				Msg("HTTP request")
		})
	}
}

package http

import (
	"bytes"
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"loan-aggregator/domain"
	"loan-aggregator/repository"
	"loan-aggregator/service"
)

const testSecret = "test-secret"

var testLog = zerolog.New(nil).Level(zerolog.Disabled)

func f64(v float64) *float64 { return &v }

type fakeSource struct {
	mu      sync.Mutex
	lenders []domain.LenderTerms
	err     error
	calls   int
}

func (f *fakeSource) FetchLenders(context.Context, domain.FilterCriteria) ([]domain.LenderTerms, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls++
	return f.lenders, f.err
}

func (f *fakeSource) Calls() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls
}

type fakeBackend struct {
	leadErr   error
	summary   domain.DashboardSummary
	leads     []domain.AdminLead
	adminErr  error
	user      domain.User
	pageCalls []int
}

func (f *fakeBackend) CreateLead(context.Context, domain.LeadRequest) (domain.LeadReceipt, error) {
	if f.leadErr != nil {
		return domain.LeadReceipt{}, f.leadErr
	}
	return domain.LeadReceipt{LeadID: "lead-1"}, nil
}

func (f *fakeBackend) AffiliateRedirect(context.Context, string) (domain.AffiliateRedirect, error) {
	return domain.AffiliateRedirect{RedirectURL: "https://partner.example/go", PartnerName: "Partner"}, nil
}

func (f *fakeBackend) Dashboard(context.Context) (domain.DashboardSummary, error) {
	return f.summary, f.adminErr
}

func (f *fakeBackend) Leads(_ context.Context, page, limit int) (domain.LeadPage, error) {
	f.pageCalls = append(f.pageCalls, page)
	if f.adminErr != nil {
		return domain.LeadPage{}, f.adminErr
	}
	start := (page - 1) * limit
	if start > len(f.leads) {
		start = len(f.leads)
	}
	end := start + limit
	if end > len(f.leads) {
		end = len(f.leads)
	}
	return domain.LeadPage{Leads: f.leads[start:end], Page: page, Limit: limit, Total: len(f.leads)}, nil
}

func (f *fakeBackend) User(_ context.Context, userID string) (domain.User, error) {
	if f.user.ID != userID {
		return domain.User{}, fmt.Errorf("user %s: %w", userID, domain.ErrNotFound)
	}
	return f.user, nil
}

func (f *fakeBackend) SyncUser(_ context.Context, profile domain.UserSyncRequest) (domain.User, error) {
	u := f.user
	u.Email = profile.Email
	return u, nil
}

type testEnv struct {
	router  http.Handler
	source  *fakeSource
	backend *fakeBackend
	quotes  *repository.QuoteRepositoryMemory
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	env := &testEnv{
		source: &fakeSource{lenders: []domain.LenderTerms{
			{ID: "hdfc", Name: "HDFC Bank", InterestMin: 10.5, MinIncome: 25000, EmploymentTypes: []string{"salaried"}},
			{ID: "sbi", Name: "SBI", InterestMin: 9.6, MinIncome: 15000, EmploymentTypes: []string{"salaried", "self-employed"}},
		}},
		backend: &fakeBackend{},
		quotes:  repository.NewQuoteRepositoryMemory(10),
	}

	loanService := service.NewLoanService(env.quotes, testLog)
	lenderService := service.NewLenderService(env.source,
		service.NewLenderCache(repository.NewMemoryCache(0), testLog), testLog)

	handlers := Handlers{
		Loan:        NewLoanHandler(loanService, testLog),
		Term:        NewTermRecommendationHandler(service.NewTermRecommendationService(testLog), testLog),
		Lender:      NewLenderHandler(lenderService, testLog),
		Live:        NewLiveHandler(lenderService, 10*time.Millisecond, nil, testLog),
		Eligibility: NewEligibilityHandler(service.NewEligibilityService(lenderService, testLog), testLog),
		Lead:        NewLeadHandler(service.NewLeadService(env.backend, testLog), testLog),
		Auth:        NewAuthHandler(env.backend, testLog),
		Admin:       NewAdminHandler(env.backend, loanService, testLog),
	}

	env.router = NewRouter(RouterConfig{
		CORSOrigins:    []string{"http://localhost:3000"},
		AdminJWTSecret: testSecret,
	}, handlers, nil, testLog)
	return env
}

func (e *testEnv) do(method, target, body string, headers ...string) *httptest.ResponseRecorder {
	var req *http.Request
	if body != "" {
		req = httptest.NewRequest(method, target, bytes.NewBufferString(body))
		req.Header.Set("Content-Type", "application/json")
	} else {
		req = httptest.NewRequest(method, target, nil)
	}
	for i := 0; i+1 < len(headers); i += 2 {
		req.Header.Set(headers[i], headers[i+1])
	}
	w := httptest.NewRecorder()
	e.router.ServeHTTP(w, req)
	return w
}

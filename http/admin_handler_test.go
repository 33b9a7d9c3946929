package http

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"loan-aggregator/domain"
)

func adminToken(t *testing.T) string {
	t.Helper()
	token, err := GenerateAdminToken(testSecret, "ops@example.com", time.Hour)
	require.NoError(t, err)
	return "Bearer " + token
}

func TestAdminAuth_Rejections(t *testing.T) {
	env := newTestEnv(t)

	w := env.do(http.MethodGet, "/api/admin/dashboard", "")
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w = env.do(http.MethodGet, "/api/admin/dashboard", "", "Authorization", "Bearer garbage")
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	wrongKey, err := GenerateAdminToken("other-secret", "x", time.Hour)
	require.NoError(t, err)
	w = env.do(http.MethodGet, "/api/admin/dashboard", "", "Authorization", "Bearer "+wrongKey)
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	expired, err := GenerateAdminToken(testSecret, "x", -time.Minute)
	require.NoError(t, err)
	w = env.do(http.MethodGet, "/api/admin/dashboard", "", "Authorization", "Bearer "+expired)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Contains(t, w.Body.String(), "token expired")
}

func TestAdminAuth_RequiresAdminRole(t *testing.T) {
	env := newTestEnv(t)

	claims := AdminClaims{
		Role: "user",
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		},
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(testSecret))
	require.NoError(t, err)

	w := env.do(http.MethodGet, "/api/admin/dashboard", "", "Authorization", "Bearer "+token)
	assert.Equal(t, http.StatusForbidden, w.Code)
}

func TestAdminDashboard(t *testing.T) {
	env := newTestEnv(t)
	env.backend.summary = domain.DashboardSummary{TotalLeads: 40, ConversionRate: 0.1, TotalVisits: 400}

	w := env.do(http.MethodGet, "/api/admin/dashboard", "", "Authorization", adminToken(t))
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"totalLeads":40,"conversionRate":0.1,"totalVisits":400}`, w.Body.String())
}

func TestAdminDashboard_UpstreamFailure(t *testing.T) {
	env := newTestEnv(t)
	env.backend.adminErr = fmt.Errorf("%w: boom", domain.ErrNetworkFailure)

	w := env.do(http.MethodGet, "/api/admin/dashboard", "", "Authorization", adminToken(t))
	assert.Equal(t, http.StatusBadGateway, w.Code)
}

func TestAdminLeads_Pagination(t *testing.T) {
	env := newTestEnv(t)
	env.backend.leads = make([]domain.AdminLead, 25)

	w := env.do(http.MethodGet, "/api/admin/leads?page=2&limit=20", "", "Authorization", adminToken(t))
	require.Equal(t, http.StatusOK, w.Code)

	var page domain.LeadPage
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &page))
	assert.Len(t, page.Leads, 5)
	assert.Equal(t, 25, page.Total)

	w = env.do(http.MethodGet, "/api/admin/leads?limit=1000", "", "Authorization", adminToken(t))
	assert.Equal(t, http.StatusBadRequest, w.Code)
	w = env.do(http.MethodGet, "/api/admin/leads?page=0", "", "Authorization", adminToken(t))
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestAdminExportLeads(t *testing.T) {
	env := newTestEnv(t)
	created := time.Date(2025, 2, 3, 4, 5, 6, 0, time.UTC)
	for i := 0; i < 150; i++ {
		env.backend.leads = append(env.backend.leads, domain.AdminLead{
			ID: fmt.Sprintf("l%03d", i), FullName: "Lead", City: "Pune", LoanAmount: 100000, CreatedAt: created,
		})
	}

	w := env.do(http.MethodGet, "/api/admin/leads/export", "", "Authorization", adminToken(t))
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Header().Get("Content-Disposition"), ".xlsx")
	assert.Equal(t, []int{1, 2}, env.backend.pageCalls)

	f, err := excelize.OpenReader(bytes.NewReader(w.Body.Bytes()))
	require.NoError(t, err)
	defer f.Close()

	rows, err := f.GetRows(exportSheet)
	require.NoError(t, err)
	require.Len(t, rows, 151)
	assert.Equal(t, "ID", rows[0][0])
	assert.Equal(t, "l000", rows[1][0])
	assert.Equal(t, "2025-02-03T04:05:06Z", rows[1][1])
	assert.Equal(t, "Pune", rows[1][5])
	assert.Equal(t, "l149", rows[150][0])
}

func TestAdminQuotes(t *testing.T) {
	env := newTestEnv(t)
	env.do(http.MethodPost, "/api/loan/quote", `{"principal":1200,"annualRate":0,"tenureMonths":12}`)
	env.do(http.MethodPost, "/api/loan/quote", `{"principal":2400,"annualRate":0,"tenureMonths":12}`)

	w := env.do(http.MethodGet, "/api/admin/quotes?limit=1", "", "Authorization", adminToken(t))
	require.Equal(t, http.StatusOK, w.Code)

	var body struct {
		Quotes []domain.QuoteRecord `json:"quotes"`
		Count  int                  `json:"count"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, 1, body.Count)
	assert.Equal(t, 2400.0, body.Quotes[0].Request.Principal)
}

func TestAdminRoutesDisabledWithoutSecret(t *testing.T) {
	env := newTestEnv(t)
	router := NewRouter(RouterConfig{}, Handlers{Admin: NewAdminHandler(env.backend, nil, testLog)}, nil, testLog)

	w := env.do(http.MethodGet, "/api/admin/dashboard", "")
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	env.router = router
	w = env.do(http.MethodGet, "/api/admin/dashboard", "")
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestAdminUser(t *testing.T) {
	env := newTestEnv(t)
	env.backend.user = domain.User{ID: "u1", Email: "a@example.com", Role: "user"}

	w := env.do(http.MethodGet, "/api/admin/users/u1", "", "Authorization", adminToken(t))
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"id":"u1","email":"a@example.com","role":"user"}`, w.Body.String())

	w = env.do(http.MethodGet, "/api/admin/users/u2", "", "Authorization", adminToken(t))
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = env.do(http.MethodGet, "/api/admin/users/u1", "")
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

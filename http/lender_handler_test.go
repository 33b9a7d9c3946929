package http

import (
	"encoding/json"
	"errors"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"loan-aggregator/domain"
)

func decodeLenderList(t *testing.T, body []byte) lenderListResponse {
	t.Helper()
	var resp lenderListResponse
	require.NoError(t, json.Unmarshal(body, &resp))
	return resp
}

func TestLenderHandler_OK(t *testing.T) {
	env := newTestEnv(t)

	w := env.do(http.MethodGet, "/api/loan/lenders?minIncome=30000&employmentType=salaried&sortBy=interest", "")
	require.Equal(t, http.StatusOK, w.Code)

	resp := decodeLenderList(t, w.Body.Bytes())
	assert.Equal(t, StatusOK, resp.Status)
	assert.Equal(t, 2, resp.Count)
	assert.Equal(t, "sbi", resp.Lenders[0].ID)
	assert.Equal(t, "hdfc", resp.Lenders[1].ID)
}

func TestLenderHandler_Empty(t *testing.T) {
	env := newTestEnv(t)

	w := env.do(http.MethodGet, "/api/loan/lenders?minIncome=1000", "")
	require.Equal(t, http.StatusOK, w.Code)

	resp := decodeLenderList(t, w.Body.Bytes())
	assert.Equal(t, StatusEmpty, resp.Status)
	assert.Empty(t, resp.Lenders)
	assert.Equal(t, "No lenders found matching your criteria", resp.Message)
}

func TestLenderHandler_UnavailableDegrades(t *testing.T) {
	env := newTestEnv(t)
	env.source.err = errors.New("backend down")

	w := env.do(http.MethodGet, "/api/loan/lenders", "")
	require.Equal(t, http.StatusOK, w.Code)

	resp := decodeLenderList(t, w.Body.Bytes())
	assert.Equal(t, StatusUnavailable, resp.Status)
	assert.NotNil(t, resp.Lenders)
	assert.Empty(t, resp.Lenders)
	assert.Contains(t, resp.Message, "please try again")
}

func TestLenderHandler_InvalidQuery(t *testing.T) {
	env := newTestEnv(t)

	for _, q := range []string{"minIncome=lots", "sortBy=rating", "loanType=yacht", "minLoanAmount=9&maxLoanAmount=1"} {
		w := env.do(http.MethodGet, "/api/loan/lenders?"+q, "")
		assert.Equal(t, http.StatusBadRequest, w.Code, q)
	}
	assert.Zero(t, env.source.Calls())
}

func TestLenderHandler_CachedPerSession(t *testing.T) {
	env := newTestEnv(t)
	first := "11111111-1111-4111-8111-111111111111"
	second := "22222222-2222-4222-8222-222222222222"

	env.do(http.MethodGet, "/api/loan/lenders?sortBy=interest", "", SessionHeader, first)
	env.do(http.MethodGet, "/api/loan/lenders?sortBy=interest", "", SessionHeader, first)
	assert.Equal(t, 1, env.source.Calls())

	env.do(http.MethodGet, "/api/loan/lenders?sortBy=interest", "", SessionHeader, second)
	assert.Equal(t, 2, env.source.Calls())
}

func TestCriteriaFromQuery(t *testing.T) {
	q := map[string][]string{
		"minIncome":      {"30000"},
		"maxInterest":    {"12.5"},
		"employmentType": {" salaried "},
		"loanType":       {"car"},
		"city":           {"Delhi"},
	}
	c, err := criteriaFromQuery(q)
	require.NoError(t, err)

	assert.Equal(t, 30000.0, *c.MinIncome)
	assert.Equal(t, 12.5, *c.MaxInterest)
	assert.Nil(t, c.MinLoanAmount)
	assert.Equal(t, "salaried", c.EmploymentType)
	assert.Equal(t, domain.LoanTypeCar, c.LoanType)
	assert.Equal(t, "Delhi", c.City)
	assert.Equal(t, domain.SortNone, c.SortBy)
}

func TestLenderHandler_GetBySlug(t *testing.T) {
	env := newTestEnv(t)
	env.source.lenders = []domain.LenderTerms{
		{ID: "1", Slug: "hdfc-bank-personal", Name: "HDFC Bank", LoanType: domain.LoanTypePersonal},
		{ID: "2", Slug: "hdfc-bank-car", Name: "HDFC Bank", LoanType: domain.LoanTypeCar},
	}

	w := env.do(http.MethodGet, "/api/loan/lenders/hdfc-bank-car?loanType=car", "")
	require.Equal(t, http.StatusOK, w.Code)
	var lender domain.LenderTerms
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &lender))
	assert.Equal(t, "2", lender.ID)

	w = env.do(http.MethodGet, "/api/loan/lenders/axis-bank-personal", "")
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = env.do(http.MethodGet, "/api/loan/lenders/hdfc-bank-car?loanType=yacht", "")
	assert.Equal(t, http.StatusBadRequest, w.Code)

	env.source.err = domain.ErrNetworkFailure
	w = env.do(http.MethodGet, "/api/loan/lenders/hdfc-bank-personal?loanType=home", "")
	assert.Equal(t, http.StatusBadGateway, w.Code)
}

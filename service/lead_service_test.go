package service

import (
	"context"
	"errors"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"loan-aggregator/domain"
)

type fakeLeadBackend struct {
	leadID      string
	createErr   error
	redirect    domain.AffiliateRedirect
	redirectErr error

	created    []domain.LeadRequest
	redirected []string
}

func (f *fakeLeadBackend) CreateLead(_ context.Context, lead domain.LeadRequest) (domain.LeadReceipt, error) {
	f.created = append(f.created, lead)
	if f.createErr != nil {
		return domain.LeadReceipt{}, f.createErr
	}
	return domain.LeadReceipt{LeadID: f.leadID}, nil
}

func (f *fakeLeadBackend) AffiliateRedirect(_ context.Context, leadID string) (domain.AffiliateRedirect, error) {
	f.redirected = append(f.redirected, leadID)
	if f.redirectErr != nil {
		return domain.AffiliateRedirect{}, f.redirectErr
	}
	return f.redirect, nil
}

// messageError stands in for a backend error that carries its own text.
type messageError struct{ msg string }

func (e *messageError) Error() string       { return "backend rejected: " + e.msg }
func (e *messageError) UserMessage() string { return e.msg }

func validLead() domain.LeadRequest {
	return domain.LeadRequest{
		FullName:       "Asha Verma",
		Phone:          "9876543210",
		Email:          "asha@example.com",
		City:           "Pune",
		MonthlyIncome:  55000,
		EmploymentType: "salaried",
		LoanAmount:     400000,
		SourcePage:     "/apply",
		Consent:        true,
	}
}

func TestLeadService_Submit(t *testing.T) {
	backend := &fakeLeadBackend{
		leadID:   "lead-42",
		redirect: domain.AffiliateRedirect{RedirectURL: "https://partner.example/apply?ref=42", PartnerName: "Partner"},
	}
	svc := NewLeadService(backend, zerolog.Nop())

	got, err := svc.Submit(context.Background(), validLead())
	require.NoError(t, err)

	assert.Equal(t, domain.LeadSubmission{
		LeadID:      "lead-42",
		RedirectURL: "https://partner.example/apply?ref=42",
		PartnerName: "Partner",
	}, got)
	assert.Equal(t, []string{"lead-42"}, backend.redirected)
}

func TestValidateLead_Rules(t *testing.T) {
	cases := map[string]struct {
		mutate func(*domain.LeadRequest)
		field  string
	}{
		"short name":      {func(l *domain.LeadRequest) { l.FullName = "A" }, "fullName"},
		"phone too short": {func(l *domain.LeadRequest) { l.Phone = "98765" }, "phone"},
		"phone bad start": {func(l *domain.LeadRequest) { l.Phone = "5876543210" }, "phone"},
		"phone letters":   {func(l *domain.LeadRequest) { l.Phone = "98765abcde" }, "phone"},
		"phone +91":       {func(l *domain.LeadRequest) { l.Phone = "+919876543210" }, "phone"},
		"bad email":       {func(l *domain.LeadRequest) { l.Email = "asha.example.com" }, "email"},
		"named email":     {func(l *domain.LeadRequest) { l.Email = "Asha <asha@example.com>" }, "email"},
		"short city":      {func(l *domain.LeadRequest) { l.City = "P" }, "city"},
		"zero income":     {func(l *domain.LeadRequest) { l.MonthlyIncome = 0 }, "monthlyIncome"},
		"no employment":   {func(l *domain.LeadRequest) { l.EmploymentType = "" }, "employmentType"},
		"negative amount": {func(l *domain.LeadRequest) { l.LoanAmount = -5 }, "loanAmount"},
		"no consent":      {func(l *domain.LeadRequest) { l.Consent = false }, "consent"},
	}

	for name, tc := range cases {
		t.Run(name, func(t *testing.T) {
			lead := validLead()
			tc.mutate(&lead)

			err := ValidateLead(lead)
			require.ErrorIs(t, err, domain.ErrInvalidInput)

			var verrs domain.ValidationErrors
			require.ErrorAs(t, err, &verrs)
			assert.Equal(t, []string{tc.field}, fieldNames(verrs))
		})
	}
}

func TestValidateLead_ReportsAllFields(t *testing.T) {
	err := ValidateLead(domain.LeadRequest{})

	var verrs domain.ValidationErrors
	require.ErrorAs(t, err, &verrs)
	assert.Len(t, verrs, 8)
}

func TestLeadService_InvalidLeadNeverReachesBackend(t *testing.T) {
	backend := &fakeLeadBackend{leadID: "x"}
	svc := NewLeadService(backend, zerolog.Nop())

	lead := validLead()
	lead.Consent = false
	_, err := svc.Submit(context.Background(), lead)

	assert.ErrorIs(t, err, domain.ErrInvalidInput)
	assert.Empty(t, backend.created)
}

func TestLeadService_CreateFailureSkipsRedirect(t *testing.T) {
	backend := &fakeLeadBackend{createErr: &messageError{msg: "Duplicate lead for this phone"}}
	svc := NewLeadService(backend, zerolog.Nop())

	_, err := svc.Submit(context.Background(), validLead())
	require.Error(t, err)

	assert.Empty(t, backend.redirected)
	assert.Equal(t, "Duplicate lead for this phone", FailureMessage(err))
}

func TestLeadService_RedirectFailure(t *testing.T) {
	backend := &fakeLeadBackend{leadID: "lead-1", redirectErr: errors.New("no partner")}
	svc := NewLeadService(backend, zerolog.Nop())

	_, err := svc.Submit(context.Background(), validLead())
	require.Error(t, err)
	assert.Equal(t, "Error submitting form. Please try again.", FailureMessage(err))
}

func TestLeadService_EmptyLeadID(t *testing.T) {
	svc := NewLeadService(&fakeLeadBackend{}, zerolog.Nop())

	_, err := svc.Submit(context.Background(), validLead())
	assert.ErrorIs(t, err, domain.ErrNetworkFailure)
}

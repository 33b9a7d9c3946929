package service

import (
	"context"
	"errors"
	"fmt"
	"net/mail"
	"regexp"
	"strings"

	"github.com/rs/zerolog"

	"loan-aggregator/domain"
)

const leadFailureMessage = "Error submitting form. Please try again."

// Ten digit Indian mobile number.
var phonePattern = regexp.MustCompile(`^[6-9]\d{9}$`)

// LeadBackend persists leads and resolves the partner each lead is sent to.
type LeadBackend interface {
	CreateLead(ctx context.Context, lead domain.LeadRequest) (domain.LeadReceipt, error)
	AffiliateRedirect(ctx context.Context, leadID string) (domain.AffiliateRedirect, error)
}

type LeadService struct {
	backend LeadBackend
	log     zerolog.Logger
}

func NewLeadService(backend LeadBackend, log zerolog.Logger) *LeadService {
	return &LeadService{
		backend: backend,
		log:     log.With().Str("component", "lead_service").Logger(),
	}
}

// ValidateLead checks every field and reports all failures at once.
func ValidateLead(lead domain.LeadRequest) error {
	var errs domain.ValidationErrors
	add := func(field, message string) {
		errs = append(errs, &domain.ValidationError{Field: field, Message: message})
	}

	if len(strings.TrimSpace(lead.FullName)) < 2 {
		add("fullName", "Name must be at least 2 characters")
	}
	if !phonePattern.MatchString(lead.Phone) {
		add("phone", "Invalid Indian phone number")
	}
	if addr, err := mail.ParseAddress(lead.Email); err != nil || addr.Address != lead.Email {
		add("email", "Invalid email address")
	}
	if len(strings.TrimSpace(lead.City)) < 2 {
		add("city", "City is required")
	}
	if !finite(lead.MonthlyIncome) || lead.MonthlyIncome <= 0 {
		add("monthlyIncome", "Monthly income must be positive")
	}
	if strings.TrimSpace(lead.EmploymentType) == "" {
		add("employmentType", "Employment type is required")
	}
	if !finite(lead.LoanAmount) || lead.LoanAmount <= 0 {
		add("loanAmount", "Loan amount must be positive")
	}
	if !lead.Consent {
		add("consent", "You must agree to the terms")
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}

// Submit validates the lead, stores it upstream and returns where the
// applicant should be redirected.
func (s *LeadService) Submit(ctx context.Context, lead domain.LeadRequest) (domain.LeadSubmission, error) {
	if err := ValidateLead(lead); err != nil {
		return domain.LeadSubmission{}, err
	}

	receipt, err := s.backend.CreateLead(ctx, lead)
	if err != nil {
		s.log.Error().Err(err).Str("city", lead.City).Msg("Failed to create lead")
		return domain.LeadSubmission{}, fmt.Errorf("create lead: %w", err)
	}
	if receipt.LeadID == "" {
		return domain.LeadSubmission{}, fmt.Errorf("create lead: %w: empty lead id", domain.ErrNetworkFailure)
	}

	redirect, err := s.backend.AffiliateRedirect(ctx, receipt.LeadID)
	if err != nil {
		s.log.Error().Err(err).Str("lead_id", receipt.LeadID).Msg("Failed to resolve affiliate redirect")
		return domain.LeadSubmission{}, fmt.Errorf("affiliate redirect: %w", err)
	}

	s.log.Info().
		Str("lead_id", receipt.LeadID).
		Str("partner", redirect.PartnerName).
		Msg("Lead submitted")

	return domain.LeadSubmission{
		LeadID:      receipt.LeadID,
		RedirectURL: redirect.RedirectURL,
		PartnerName: redirect.PartnerName,
	}, nil
}

// FailureMessage is the text shown to the applicant when Submit fails: the
// backend's own message when it sent one, a generic retry prompt otherwise.
func FailureMessage(err error) string {
	var carrier interface{ UserMessage() string }
	if errors.As(err, &carrier) {
		if msg := carrier.UserMessage(); msg != "" {
			return msg
		}
	}
	return leadFailureMessage
}

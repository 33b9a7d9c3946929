// Package backend talks to the remote loan backend. Every response must use
// the canonical {success, message, data} envelope; anything else is treated
// as a network failure.
package backend

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"loan-aggregator/domain"
)

const (
	DefaultTimeout = 15 * time.Second

	// Upper bound on a response body we are willing to read.
	maxBodyBytes = 8 << 20
)

// APIError describes a call the backend rejected or answered in a shape we
// do not accept. It matches domain.ErrNetworkFailure.
type APIError struct {
	StatusCode int
	Message    string // backend-provided, may be empty
	Reason     string
}

func (e *APIError) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("backend: %s (status %d): %s", e.Reason, e.StatusCode, e.Message)
	}
	return fmt.Sprintf("backend: %s (status %d)", e.Reason, e.StatusCode)
}

func (e *APIError) Unwrap() error { return domain.ErrNetworkFailure }

// UserMessage is the backend's own explanation, suitable for display.
func (e *APIError) UserMessage() string { return e.Message }

// envelope is the canonical response shape.
type envelope struct {
	Success *bool           `json:"success"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
}

type Client struct {
	baseURL    string
	httpClient *http.Client
	log        zerolog.Logger
}

type Option func(*Client)

func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		if hc != nil {
			c.httpClient = hc
		}
	}
}

func WithTimeout(timeout time.Duration) Option {
	return func(c *Client) {
		if timeout > 0 {
			c.httpClient.Timeout = timeout
		}
	}
}

func NewClient(baseURL string, log zerolog.Logger, opts ...Option) *Client {
	c := &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{Timeout: DefaultTimeout},
		log:        log.With().Str("client", "backend").Logger(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// FetchLenders lists lenders, forwarding the set criteria as query
// parameters. The list must be present at data.banks.
func (c *Client) FetchLenders(ctx context.Context, criteria domain.FilterCriteria) ([]domain.LenderTerms, error) {
	var data struct {
		Banks *[]domain.LenderTerms `json:"banks"`
	}
	if err := c.do(ctx, http.MethodGet, "/api/loan/banks", lenderQuery(criteria), nil, &data); err != nil {
		return nil, err
	}
	if data.Banks == nil {
		return nil, &APIError{StatusCode: http.StatusOK, Reason: "response has no data.banks"}
	}
	if *data.Banks == nil {
		return []domain.LenderTerms{}, nil
	}
	return *data.Banks, nil
}

func (c *Client) CreateLead(ctx context.Context, lead domain.LeadRequest) (domain.LeadReceipt, error) {
	var receipt domain.LeadReceipt
	err := c.do(ctx, http.MethodPost, "/api/leads", nil, lead, &receipt)
	return receipt, err
}

func (c *Client) AffiliateRedirect(ctx context.Context, leadID string) (domain.AffiliateRedirect, error) {
	var redirect domain.AffiliateRedirect
	body := map[string]string{"leadId": leadID}
	err := c.do(ctx, http.MethodPost, "/api/affiliate/redirect", nil, body, &redirect)
	return redirect, err
}

func (c *Client) Dashboard(ctx context.Context) (domain.DashboardSummary, error) {
	var summary domain.DashboardSummary
	err := c.do(ctx, http.MethodGet, "/api/admin/dashboard", nil, nil, &summary)
	return summary, err
}

func (c *Client) Leads(ctx context.Context, page, limit int) (domain.LeadPage, error) {
	query := url.Values{}
	query.Set("page", strconv.Itoa(page))
	query.Set("limit", strconv.Itoa(limit))

	var leads domain.LeadPage
	if err := c.do(ctx, http.MethodGet, "/api/admin/leads", query, nil, &leads); err != nil {
		return domain.LeadPage{}, err
	}
	if leads.Leads == nil {
		leads.Leads = []domain.AdminLead{}
	}
	return leads, nil
}

func (c *Client) SyncUser(ctx context.Context, profile domain.UserSyncRequest) (domain.User, error) {
	var user domain.User
	err := c.do(ctx, http.MethodPost, "/api/auth/sync", nil, profile, &user)
	return user, err
}

// User looks up one synced user. A 404 from the backend is reported as
// domain.ErrNotFound rather than a network failure.
func (c *Client) User(ctx context.Context, userID string) (domain.User, error) {
	var user domain.User
	err := c.do(ctx, http.MethodGet, "/api/auth/user/"+url.PathEscape(userID), nil, nil, &user)
	var apiErr *APIError
	if errors.As(err, &apiErr) && apiErr.StatusCode == http.StatusNotFound {
		return domain.User{}, fmt.Errorf("user %s: %w", userID, domain.ErrNotFound)
	}
	return user, err
}

func lenderQuery(c domain.FilterCriteria) url.Values {
	q := url.Values{}
	setFloat := func(key string, v *float64) {
		if v != nil {
			q.Set(key, strconv.FormatFloat(*v, 'f', -1, 64))
		}
	}
	setFloat("minIncome", c.MinIncome)
	setFloat("maxInterest", c.MaxInterest)
	setFloat("minLoanAmount", c.MinLoanAmount)
	setFloat("maxLoanAmount", c.MaxLoanAmount)
	if c.EmploymentType != "" {
		q.Set("employmentType", c.EmploymentType)
	}
	if c.LoanType != "" {
		q.Set("loanType", string(c.LoanType))
	}
	if c.City != "" {
		q.Set("city", c.City)
	}
	if c.SortBy != domain.SortNone {
		q.Set("sortBy", string(c.SortBy))
	}
	return q
}

// do sends one request and decodes the envelope's data into out.
func (c *Client) do(ctx context.Context, method, path string, query url.Values, in, out any) error {
	endpoint := c.baseURL + path
	if len(query) > 0 {
		endpoint += "?" + query.Encode()
	}

	var body io.Reader
	if in != nil {
		payload, err := json.Marshal(in)
		if err != nil {
			return fmt.Errorf("encode %s request: %w", path, err)
		}
		body = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, endpoint, body)
	if err != nil {
		return fmt.Errorf("build %s request: %w", path, err)
	}
	req.Header.Set("Accept", "application/json")
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.log.Warn().Err(err).Str("method", method).Str("path", path).Msg("Backend request failed")
		return fmt.Errorf("%w: %s %s: %w", domain.ErrNetworkFailure, method, path, err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		return fmt.Errorf("%w: read %s response: %w", domain.ErrNetworkFailure, path, err)
	}

	c.log.Debug().
		Str("method", method).
		Str("path", path).
		Int("status", resp.StatusCode).
		Dur("duration", time.Since(start)).
		Msg("Backend response")

	return decodeEnvelope(resp.StatusCode, raw, out)
}

func decodeEnvelope(status int, raw []byte, out any) error {
	var env envelope
	decodeErr := json.Unmarshal(raw, &env)

	if status < 200 || status >= 300 {
		apiErr := &APIError{StatusCode: status, Reason: "unexpected status"}
		if decodeErr == nil {
			apiErr.Message = env.Message
		}
		return apiErr
	}
	if decodeErr != nil {
		return &APIError{StatusCode: status, Reason: "undecodable body: " + decodeErr.Error()}
	}
	if env.Success == nil {
		return &APIError{StatusCode: status, Reason: "response has no success flag"}
	}
	if !*env.Success {
		return &APIError{StatusCode: status, Message: env.Message, Reason: "request unsuccessful"}
	}
	if len(env.Data) == 0 || bytes.Equal(bytes.TrimSpace(env.Data), []byte("null")) {
		return &APIError{StatusCode: status, Message: env.Message, Reason: "response has no data"}
	}
	if err := json.Unmarshal(env.Data, out); err != nil {
		return &APIError{StatusCode: status, Reason: "undecodable data: " + err.Error()}
	}
	return nil
}

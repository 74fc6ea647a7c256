package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"plateview/internal/audit"
	"plateview/internal/review"
)

// HTTPDoer describes the HTTP client used by the API client.
type HTTPDoer interface {
	Do(req *http.Request) (*http.Response, error)
}

// Options configure the client.
type Options struct {
	BaseURL string
	Token   string
	Timeout time.Duration
	Client  HTTPDoer
}

// Client talks to the enforcement review API.
type Client struct {
	baseURL string
	token   string
	client  HTTPDoer
}

// New constructs a client. A nil Options.Client falls back to a plain
// http.Client with the configured timeout.
func New(opts Options) *Client {
	doer := opts.Client
	if doer == nil {
		timeout := opts.Timeout
		if timeout <= 0 {
			timeout = 30 * time.Second
		}
		doer = &http.Client{Timeout: timeout}
	}
	return &Client{
		baseURL: strings.TrimRight(strings.TrimSpace(opts.BaseURL), "/"),
		token:   strings.TrimSpace(opts.Token),
		client:  doer,
	}
}

// ListQueue fetches one page of reviewable items for the filter.
func (c *Client) ListQueue(ctx context.Context, filter review.Filter, limit int) (review.Page, error) {
	query := url.Values{}
	query.Set("surface", string(filter.Surface))
	if len(filter.SiteIDs) > 0 {
		query.Set("siteIds", strings.Join(filter.SiteIDs, ","))
	}
	if !filter.DateFrom.IsZero() {
		query.Set("dateFrom", filter.DateFrom.Format(dateFormat))
	}
	if !filter.DateTo.IsZero() {
		query.Set("dateTo", filter.DateTo.Format(dateFormat))
	}
	if filter.Status != "" {
		query.Set("status", filter.Status)
	}
	if filter.Validation != "" {
		query.Set("validation", filter.Validation)
	}
	if limit > 0 {
		query.Set("limit", strconv.Itoa(limit))
	}

	var dto queuePageDTO
	if err := c.getJSON(ctx, "/api/review/queue", query, &dto); err != nil {
		return review.Page{}, err
	}
	return toPage(dto), nil
}

// SubmitDecision applies a single-item action.
func (c *Client) SubmitDecision(ctx context.Context, id string, action review.Action, opts review.DecisionOptions) error {
	body := decisionRequest{
		Action:       string(action),
		Notes:        opts.Notes,
		CorrectedVRM: opts.CorrectedVRM,
	}
	return c.postJSON(ctx, "/api/review/decisions/"+url.PathEscape(id), body)
}

// SubmitBulk applies a batch action. The server's atomicity contract is
// assumed: a non-2xx response means no item in the batch was applied.
func (c *Client) SubmitBulk(ctx context.Context, action review.Action, ids []string, reason string) error {
	body := bulkRequest{Action: string(action), IDs: ids, Reason: reason}
	return c.postJSON(ctx, "/api/review/bulk", body)
}

// VehicleAudit searches audit records for a plate at a site within a window.
func (c *Client) VehicleAudit(ctx context.Context, vrm, siteID string, from, to time.Time, limit int) ([]audit.Entry, error) {
	query := url.Values{}
	query.Set("vrm", vrm)
	query.Set("siteId", siteID)
	if !from.IsZero() {
		query.Set("startDate", from.UTC().Format(time.RFC3339))
	}
	if !to.IsZero() {
		query.Set("endDate", to.UTC().Format(time.RFC3339))
	}
	if limit > 0 {
		query.Set("limit", strconv.Itoa(limit))
	}

	var dtos []auditEntryDTO
	if err := c.getJSON(ctx, "/api/audit/vehicle", query, &dtos); err != nil {
		return nil, err
	}
	return toEntries(dtos), nil
}

// SessionAudit fetches the audit trail of one parking session.
func (c *Client) SessionAudit(ctx context.Context, sessionID string) ([]audit.Entry, error) {
	var dtos []auditEntryDTO
	if err := c.getJSON(ctx, "/api/audit/session/"+url.PathEscape(sessionID), nil, &dtos); err != nil {
		return nil, err
	}
	return toEntries(dtos), nil
}

// DecisionAudit fetches the audit trail of one enforcement decision.
func (c *Client) DecisionAudit(ctx context.Context, decisionID string) ([]audit.Entry, error) {
	var dtos []auditEntryDTO
	if err := c.getJSON(ctx, "/api/audit/decision/"+url.PathEscape(decisionID), nil, &dtos); err != nil {
		return nil, err
	}
	return toEntries(dtos), nil
}

func (c *Client) getJSON(ctx context.Context, path string, query url.Values, out any) error {
	endpoint := c.baseURL + path
	if len(query) > 0 {
		endpoint += "?" + query.Encode()
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return fmt.Errorf("build request %s: %w", path, err)
	}
	return c.do(req, out)
}

func (c *Client) postJSON(ctx context.Context, path string, body any) error {
	payload, err := json.Marshal(body)
	if err != nil {
		return fmt.Errorf("marshal request %s: %w", path, err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewReader(payload))
	if err != nil {
		return fmt.Errorf("build request %s: %w", path, err)
	}
	req.Header.Set("Content-Type", "application/json")
	return c.do(req, nil)
}

func (c *Client) do(req *http.Request, out any) error {
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		// Unwrap so context cancellation is recognizable upstream.
		return unwrapURLError(err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		return decodeError(resp)
	}
	if out == nil {
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}

func decodeError(resp *http.Response) error {
	apiErr := &Error{Status: resp.StatusCode}
	raw, err := io.ReadAll(io.LimitReader(resp.Body, 1<<16))
	if err == nil && len(raw) > 0 {
		var body errorBody
		if json.Unmarshal(raw, &body) == nil {
			apiErr.Message = strings.TrimSpace(body.Message)
		}
	}
	return apiErr
}

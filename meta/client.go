// Package meta is a thin client for the Graph API endpoints used by the
// statistics pipeline: page discovery after authorization and the insights
// endpoint that supplies metric values.
package meta

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"
)

// DefaultGraphBaseURL is the Graph API root used when none is configured.
const DefaultGraphBaseURL = "https://graph.facebook.com/v18.0"

// Client calls the Graph API. The zero Client is not usable; construct with NewClient.
type Client struct {
	baseURL string
	http    *http.Client
}

// NewClient returns a client for the given Graph API base URL, e.g.
// "https://graph.facebook.com/v18.0". An empty base falls back to the default.
func NewClient(baseURL string) *Client {
	if baseURL == "" {
		baseURL = DefaultGraphBaseURL
	}
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{Timeout: 15 * time.Second},
	}
}

// Insight is one metric entry of an insights response. Raw keeps the entry
// exactly as the provider returned it.
type Insight struct {
	Name   string          `json:"name"`
	Period string          `json:"period"`
	Values []InsightValue  `json:"values"`
	Raw    json.RawMessage `json:"-"`
}

// InsightValue is a single reported value inside an insight entry.
type InsightValue struct {
	Value float64 `json:"value"`
}

// FirstValue returns the first reported value, or 0 when the provider
// returned no values element. Every requested metric therefore yields a
// number, never a gap.
func (in Insight) FirstValue() float64 {
	if len(in.Values) == 0 {
		return 0
	}
	return in.Values[0].Value
}

// Page is one Facebook page reachable through the user's authorization,
// optionally with its linked Instagram business account.
type Page struct {
	ID          string            `json:"id"`
	Name        string            `json:"name"`
	AccessToken string            `json:"access_token"`
	Instagram   *InstagramAccount `json:"instagram_business_account,omitempty"`
}

// InstagramAccount identifies an Instagram business account linked to a page.
type InstagramAccount struct {
	ID       string `json:"id"`
	Username string `json:"username"`
}

// APIError is a provider-reported error payload.
type APIError struct {
	Message string `json:"message"`
	Type    string `json:"type"`
	Code    int    `json:"code"`
}

func (e *APIError) Error() string {
	return fmt.Sprintf("graph api error: %s", e.Message)
}

type errEnvelope struct {
	Error *APIError `json:"error"`
}

// FetchInsights requests the given metrics for one scope (a page id or an
// Instagram account id) over a day-granularity window. Metrics are coalesced
// into a single request; the provider supports batching so one call per scope
// is enough.
func (c *Client) FetchInsights(ctx context.Context, scopeID string, metricIDs []string, since, until time.Time, accessToken string) ([]Insight, error) {
	q := url.Values{}
	q.Set("metric", strings.Join(metricIDs, ","))
	q.Set("period", "day")
	q.Set("since", strconv.FormatInt(since.Unix(), 10))
	q.Set("until", strconv.FormatInt(until.Unix(), 10))
	q.Set("access_token", accessToken)

	body, err := c.get(ctx, fmt.Sprintf("%s/%s/insights?%s", c.baseURL, url.PathEscape(scopeID), q.Encode()))
	if err != nil {
		return nil, err
	}

	var payload struct {
		Data []json.RawMessage `json:"data"`
	}
	if err := json.Unmarshal(body, &payload); err != nil {
		return nil, fmt.Errorf("decode insights response: %w", err)
	}

	insights := make([]Insight, 0, len(payload.Data))
	for _, raw := range payload.Data {
		var in Insight
		if err := json.Unmarshal(raw, &in); err != nil {
			return nil, fmt.Errorf("decode insight entry: %w", err)
		}
		in.Raw = raw
		insights = append(insights, in)
	}
	return insights, nil
}

// FetchPages lists the Facebook pages granted by the user token, each with
// its page access token and any linked Instagram business account.
func (c *Client) FetchPages(ctx context.Context, userToken string) ([]Page, error) {
	q := url.Values{}
	q.Set("fields", "id,name,access_token,instagram_business_account{id,username}")
	q.Set("access_token", userToken)

	body, err := c.get(ctx, fmt.Sprintf("%s/me/accounts?%s", c.baseURL, q.Encode()))
	if err != nil {
		return nil, err
	}

	var payload struct {
		Data []Page `json:"data"`
	}
	if err := json.Unmarshal(body, &payload); err != nil {
		return nil, fmt.Errorf("decode accounts response: %w", err)
	}
	return payload.Data, nil
}

// get performs the request and surfaces provider-reported errors, which the
// Graph API returns with a JSON error object on both 200 and non-200 statuses.
func (c *Client) get(ctx context.Context, rawURL string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return nil, err
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	buf, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, err
	}

	var envelope errEnvelope
	if err := json.Unmarshal(buf, &envelope); err == nil && envelope.Error != nil {
		return nil, envelope.Error
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("graph api request failed: %s", resp.Status)
	}
	return buf, nil
}

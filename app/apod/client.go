package apod

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/apodworks/apod-pipeline/app/pipeline"
)

// DefaultEndpoint is the NASA APOD metadata endpoint.
const DefaultEndpoint = "https://api.nasa.gov/planetary/apod"

// Client fetches APOD entries from the NASA API.
type Client struct {
	endpoint   string
	apiKey     string
	userAgent  string
	timeout    time.Duration
	httpClient *http.Client
}

func NewClient(endpoint, apiKey, userAgent string, timeout time.Duration) *Client {
	return &Client{
		endpoint:   endpoint,
		apiKey:     apiKey,
		userAgent:  userAgent,
		timeout:    timeout,
		httpClient: &http.Client{},
	}
}

// FetchRange retrieves all entries published in [start, end], inclusive.
// The API returns a JSON array for a date range but a single object for a
// one-day range; scalar responses are normalized to a one-element slice.
// thumbs=true asks for thumbnail URLs on video entries.
func (c *Client) FetchRange(ctx context.Context, start, end time.Time) ([]Entry, error) {
	timeoutCtx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	params := url.Values{}
	params.Set("api_key", c.apiKey)
	params.Set("start_date", start.Format("2006-01-02"))
	params.Set("end_date", end.Format("2006-01-02"))
	params.Set("thumbs", "true")

	req, err := http.NewRequestWithContext(timeoutCtx, "GET", c.endpoint+"?"+params.Encode(), nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	req.Header.Set("User-Agent", c.userAgent)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: request failed: %v", pipeline.ErrRemote, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("%w: HTTP %d %s", pipeline.ErrRemote, resp.StatusCode, resp.Status)
	}

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to read response body: %v", pipeline.ErrRemote, err)
	}

	entries, err := DecodeEntries(data)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", pipeline.ErrRemote, err)
	}

	return entries, nil
}

// DecodeEntries parses an API payload that may be either a JSON array or a
// single JSON object.
func DecodeEntries(data []byte) ([]Entry, error) {
	var entries []Entry
	if err := json.Unmarshal(data, &entries); err == nil {
		return entries, nil
	}

	var single Entry
	if err := json.Unmarshal(data, &single); err != nil {
		return nil, fmt.Errorf("failed to decode APOD response: %w", err)
	}
	return []Entry{single}, nil
}

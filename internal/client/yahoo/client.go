package yahoo

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"
)

type Client struct {
	host       string
	userAgent  string
	httpClient *http.Client
}

type APIError struct {
	Status int
	Body   string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("API error (%d): %s", e.Status, e.Body)
}

func NewClient(httpClient *http.Client, host, userAgent string) *Client {
	if host == "" {
		host = "https://query1.finance.yahoo.com"
	}
	host = strings.TrimRight(host, "/")
	return &Client{
		host:       host,
		userAgent:  userAgent,
		httpClient: httpClient,
	}
}

func (c *Client) doRequest(ctx context.Context, path string, query url.Values) ([]byte, error) {
	fullURL := c.host + path
	if len(query) > 0 {
		fullURL = fullURL + "?" + query.Encode()
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, fullURL, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if c.userAgent != "" {
		req.Header.Set("User-Agent", c.userAgent)
	}
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, &APIError{Status: resp.StatusCode, Body: string(body)}
	}
	return body, nil
}

// GetDailyBars fetches daily OHLCV history for a ticker over [start, end].
// The raw response body is returned alongside the parsed bars so callers
// can persist it for auditing.
func (c *Client) GetDailyBars(ctx context.Context, ticker string, start, end time.Time) ([]Bar, []byte, error) {
	if ticker == "" {
		return nil, nil, fmt.Errorf("ticker is required")
	}
	query := url.Values{}
	query.Set("period1", fmt.Sprintf("%d", start.Unix()))
	query.Set("period2", fmt.Sprintf("%d", end.Unix()))
	query.Set("interval", "1d")
	query.Set("events", "history")
	body, err := c.doRequest(ctx, "/v8/finance/chart/"+url.PathEscape(ticker), query)
	if err != nil {
		return nil, nil, err
	}
	bars, err := parseChart(body)
	if err != nil {
		return nil, body, err
	}
	return bars, body, nil
}

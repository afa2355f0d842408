package votesim

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/okian/flagrank/internal/domain/types"
)

// Header names understood by POST /response.
const (
	headerMatchID = "Match-ID"
	headerOutcome = "Outcome"
)

// HTTPClient talks to a running flagrank server.
type HTTPClient struct {
	client  *http.Client
	baseURL string
}

// newHTTPClient creates a new HTTP client with timeout.
func newHTTPClient(baseURL string, timeout time.Duration) *HTTPClient {
	return &HTTPClient{
		client:  &http.Client{Timeout: timeout},
		baseURL: baseURL,
	}
}

func (c *HTTPClient) do(ctx context.Context, method, path string, header http.Header) (*http.Response, error) {
	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	for k, vs := range header {
		for _, v := range vs {
			req.Header.Add(k, v)
		}
	}
	return c.client.Do(req)
}

// getJSON performs a GET and decodes a 200 response into v.
func (c *HTTPClient) getJSON(ctx context.Context, path string, v any) error {
	resp, err := c.do(ctx, http.MethodGet, path, nil)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return fmt.Errorf("%w: GET %s: %d %s", ErrUnexpected, path, resp.StatusCode, body)
	}
	if err := json.NewDecoder(resp.Body).Decode(v); err != nil {
		return fmt.Errorf("%w: GET %s: %w", ErrUnexpected, path, err)
	}
	return nil
}

// Health checks that GET /healthz answers 200.
func (c *HTTPClient) Health(ctx context.Context) error {
	resp, err := c.do(ctx, http.MethodGet, "/healthz", nil)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrUnhealthy, err)
	}
	defer resp.Body.Close()
	_, _ = io.Copy(io.Discard, resp.Body)

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("%w: status %d", ErrUnhealthy, resp.StatusCode)
	}
	return nil
}

func (c *HTTPClient) stats(ctx context.Context) (serviceStats, error) {
	var s serviceStats
	err := c.getJSON(ctx, "/stats", &s)
	return s, err
}

// Match requests a new comparison.
func (c *HTTPClient) Match(ctx context.Context) (types.MatchView, error) {
	var m types.MatchView
	err := c.getJSON(ctx, "/match", &m)
	return m, err
}

// Respond submits an outcome through the header form of POST /response and
// returns the status code.
func (c *HTTPClient) Respond(ctx context.Context, matchID, outcome string) (int, error) {
	h := http.Header{}
	h.Set(headerMatchID, matchID)
	h.Set(headerOutcome, outcome)

	resp, err := c.do(ctx, http.MethodPost, "/response", h)
	if err != nil {
		return 0, err
	}
	defer resp.Body.Close()
	_, _ = io.Copy(io.Discard, resp.Body)
	return resp.StatusCode, nil
}

// Leaderboards fetches every board.
func (c *HTTPClient) Leaderboards(ctx context.Context, limit int) (map[string][]types.LeaderboardEntry, error) {
	q := url.Values{}
	if limit > 0 {
		q.Set("limit", strconv.Itoa(limit))
	}
	path := "/leaderboards"
	if len(q) > 0 {
		path += "?" + q.Encode()
	}

	var boards map[string][]types.LeaderboardEntry
	err := c.getJSON(ctx, path, &boards)
	return boards, err
}

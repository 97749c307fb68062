package api

import (
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

	"github.com/ront3t/beers-table/internal/types"
)

// ErrServer is returned when the proxy answers with a non-2xx status.
var ErrServer = errors.New("server error")

// Client talks to the beer pagination proxy
type Client struct {
	baseURL string
	http    *http.Client
}

// NewClient creates a new proxy client
func NewClient(baseURL string, timeout time.Duration) *Client {
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{Timeout: timeout},
	}
}

// FetchPage fetches one window of a category
func (c *Client) FetchPage(ctx context.Context, category string, limit, offset int) ([]types.Beer, error) {
	q := url.Values{}
	q.Set("limit", strconv.Itoa(limit))
	q.Set("offset", strconv.Itoa(offset))
	endpoint := fmt.Sprintf("%s/beers/%s?%s", c.baseURL, url.PathEscape(category), q.Encode())

	output, err := c.apiCall(ctx, endpoint)
	if err != nil {
		return nil, err
	}

	var response types.BeersResponse
	if err := json.Unmarshal(output, &response); err != nil {
		return nil, fmt.Errorf("failed to parse response: %w", err)
	}
	if response.Beers == nil {
		return []types.Beer{}, nil
	}
	return response.Beers, nil
}

// apiCall makes a GET call against the proxy
func (c *Client) apiCall(ctx context.Context, endpoint string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("request %s: %w", endpoint, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read response: %w", err)
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		var e types.ErrorResponse
		if json.Unmarshal(body, &e) == nil && e.Message != "" {
			return nil, fmt.Errorf("%w: %s: %s", ErrServer, resp.Status, e.Message)
		}
		return nil, fmt.Errorf("%w: %s", ErrServer, resp.Status)
	}
	return body, nil
}

// TruncateString truncates a string to a maximum number of runes
func TruncateString(s string, maxLen int) string {
	r := []rune(s)
	if len(r) <= maxLen {
		return s
	}
	if maxLen <= 3 {
		return string(r[:max(0, maxLen)])
	}
	return string(r[:maxLen-3]) + "..."
}

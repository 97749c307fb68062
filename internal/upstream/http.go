package upstream

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"
)

// DefaultBaseURL is the public sample API the proxy fronts.
const DefaultBaseURL = "https://api.sampleapis.com"

// HTTPSource reads whole collections from the upstream REST API, which has
// no native pagination.
type HTTPSource struct {
	baseURL string
	client  *http.Client
}

// NewHTTPSource creates a source for baseURL. A nil client uses one with
// the given timeout.
func NewHTTPSource(baseURL string, client *http.Client, timeout time.Duration) *HTTPSource {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	if client == nil {
		client = &http.Client{Timeout: timeout}
	}
	return &HTTPSource{
		baseURL: strings.TrimRight(baseURL, "/"),
		client:  client,
	}
}

// Collection fetches GET <base>/beers/<category>.
func (s *HTTPSource) Collection(ctx context.Context, category string) ([]json.RawMessage, error) {
	endpoint := fmt.Sprintf("%s/beers/%s", s.baseURL, url.PathEscape(category))
	body, err := s.get(ctx, endpoint)
	if err != nil {
		return nil, err
	}
	return decodeCollection(body)
}

// Window fetches the full collection and slices it.
func (s *HTTPSource) Window(ctx context.Context, category string, w Window) ([]json.RawMessage, error) {
	return FromCollector(s).Window(ctx, category, w)
}

func (s *HTTPSource) get(ctx context.Context, endpoint string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("build upstream request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := s.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("upstream request %s: %w", endpoint, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, fmt.Errorf("%w: %s", ErrUpstreamStatus, resp.Status)
	}
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read upstream body: %w", err)
	}
	return body, nil
}

// decodeCollection requires the body to be a JSON array and returns its
// elements undecoded.
func decodeCollection(body []byte) ([]json.RawMessage, error) {
	var raw []json.RawMessage
	if err := json.Unmarshal(body, &raw); err != nil || raw == nil {
		return nil, ErrUpstreamFormat
	}
	return raw, nil
}

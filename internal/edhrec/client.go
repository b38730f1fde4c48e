package edhrec

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"regexp"
	"strings"
	"time"

	"github.com/goccy/go-json"
	"github.com/rs/zerolog/log"
	"golang.org/x/time/rate"

	"github.com/manascope/manascope/pkg/models"
)

const (
	requestTimeout = 30 * time.Second

	// defaultUserAgent identifies the service politely on the first try.
	defaultUserAgent = "manascope/1.0 (+https://github.com/manascope/manascope)"

	// browserUserAgent is the alternate transport profile used only after
	// the upstream rejects the default client as automated traffic.
	browserUserAgent = "Mozilla/5.0 (Macintosh; Intel Mac OS X 10_15_7) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/124.0.0.0 Safari/537.36"
)

// keyStripRegex removes everything that is not a letter, digit, space, or
// dash before key normalization.
var keyStripRegex = regexp.MustCompile(`[^a-z0-9 -]`)

// NormalizeKey converts a card name into the upstream's URL key form:
// lowercased, symbols stripped, spaces collapsed to single dashes.
func NormalizeKey(name string) string {
	key := strings.ToLower(strings.TrimSpace(name))
	// Split cards use only the front face name.
	if idx := strings.Index(key, "//"); idx >= 0 {
		key = strings.TrimSpace(key[:idx])
	}
	key = keyStripRegex.ReplaceAllString(key, "")
	key = strings.Join(strings.Fields(key), "-")
	return key
}

// Client fetches commander deck statistics from the upstream source.
// A rate limiter paces all requests; fetches for distinct commanders
// proceed independently (coalescing per key is the cache gateway's job).
type Client struct {
	baseURL string
	client  *http.Client
	limiter *rate.Limiter
}

// Options configures the upstream client.
type Options struct {
	BaseURL string
	// MinInterval is the minimum delay between requests (default: 2s).
	MinInterval time.Duration
	// HTTPClient allows a custom transport, used by tests.
	HTTPClient *http.Client
}

// NewClient creates an upstream recommendation client.
func NewClient(opts Options) *Client {
	if opts.MinInterval <= 0 {
		opts.MinInterval = 2 * time.Second
	}
	httpClient := opts.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{Timeout: requestTimeout}
	}
	return &Client{
		baseURL: strings.TrimRight(opts.BaseURL, "/"),
		client:  httpClient,
		limiter: rate.NewLimiter(rate.Every(opts.MinInterval), 1),
	}
}

// FetchCommander retrieves and normalizes deck statistics for a commander
// name. Two-tier transport: the default profile first, and one retry with
// a browser profile when the upstream rejects the request as automated
// traffic. Both failing is an ordinary fetch failure.
func (c *Client) FetchCommander(ctx context.Context, name string) (*models.UpstreamRecs, error) {
	key := NormalizeKey(name)
	if key == "" {
		return nil, fmt.Errorf("commander name normalizes to an empty key")
	}
	url := fmt.Sprintf("%s/commanders/%s.json", c.baseURL, key)

	if err := c.limiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("rate limit wait: %w", err)
	}

	body, err := c.fetch(ctx, url, defaultUserAgent)
	if err != nil {
		var blocked *blockedError
		if !errors.As(err, &blocked) {
			return nil, err
		}
		log.Debug().
			Str("key", key).
			Int("status", blocked.status).
			Msg("Upstream rejected default client, retrying with browser profile")

		if err := c.limiter.Wait(ctx); err != nil {
			return nil, fmt.Errorf("rate limit wait: %w", err)
		}
		body, err = c.fetch(ctx, url, browserUserAgent)
		if err != nil {
			return nil, fmt.Errorf("upstream fetch for %s: %w", key, err)
		}
	}

	var raw map[string]any
	if err := json.Unmarshal(body, &raw); err != nil {
		return nil, fmt.Errorf("decode upstream payload for %s: %w", key, err)
	}

	recs, err := NormalizePayload(name, raw)
	if err != nil {
		return nil, fmt.Errorf("normalize upstream payload for %s: %w", key, err)
	}
	return recs, nil
}

// blockedError marks a response that looks like an anti-automation
// rejection rather than a genuine failure.
type blockedError struct {
	status int
}

func (e *blockedError) Error() string {
	return fmt.Sprintf("upstream blocked request (status=%d)", e.status)
}

// fetch performs one GET with the given user agent and returns the body.
func (c *Client) fetch(ctx context.Context, url, userAgent string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("create upstream request: %w", err)
	}
	req.Header.Set("User-Agent", userAgent)
	req.Header.Set("Accept", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("send upstream request: %w", err)
	}
	defer resp.Body.Close()

	// 403 and 429 are the upstream's anti-automation responses; an HTML
	// body on a JSON endpoint is a challenge page in disguise.
	if resp.StatusCode == http.StatusForbidden || resp.StatusCode == http.StatusTooManyRequests {
		return nil, &blockedError{status: resp.StatusCode}
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		bodySnippet, _ := io.ReadAll(io.LimitReader(resp.Body, 256))
		return nil, fmt.Errorf("upstream error (status=%d): %s",
			resp.StatusCode, strings.TrimSpace(string(bodySnippet)))
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, 8<<20))
	if err != nil {
		return nil, fmt.Errorf("read upstream body: %w", err)
	}
	if ct := resp.Header.Get("Content-Type"); strings.Contains(ct, "text/html") {
		return nil, &blockedError{status: resp.StatusCode}
	}
	return body, nil
}

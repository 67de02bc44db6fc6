// Copyright (c) 2025 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

// Package twitter fetches single posts and users from the v1.1 REST API. It is
// the remote Source behind the hydrator.
package twitter

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/apex/log"
	"github.com/hashicorp/go-cleanhttp"
	"github.com/hashicorp/go-retryablehttp"
	"golang.org/x/time/rate"

	"github.com/staranto/confdoc/internal/store"
)

// DefaultBaseURL is the API root used when Options.BaseURL is empty.
const DefaultBaseURL = "https://api.twitter.com"

// DefaultRPS keeps sequential lookups under the 900 requests per 15 minute
// window of the show endpoints.
const DefaultRPS = 0.9

// ErrNoCredentials is returned when neither a bearer token nor a consumer
// key and secret are configured.
var ErrNoCredentials = errors.New("no bearer token or consumer key/secret configured")

// APIError is a non-2xx answer from the API.
type APIError struct {
	StatusCode int
	URL        string
	Body       string
}

func (e *APIError) Error() string {
	body := strings.TrimSpace(e.Body)
	if len(body) > 200 {
		body = body[:200] + "..."
	}
	return fmt.Sprintf("%s: HTTP %d: %s", e.URL, e.StatusCode, body)
}

// Options configures a Client.
type Options struct {
	BaseURL        string
	BearerToken    string
	ConsumerKey    string
	ConsumerSecret string
	RPS            float64
	RetryMax       int
	// HTTPClient replaces the pooled cleanhttp client, mostly for tests.
	HTTPClient *http.Client
}

// Client implements hydrate.Source against the REST API.
type Client struct {
	base    *url.URL
	http    *retryablehttp.Client
	limiter *rate.Limiter

	consumerKey    string
	consumerSecret string

	mu    sync.Mutex
	token string
}

// New returns a Client. It does not contact the API; a bearer token is
// exchanged from the consumer credentials on first use.
func New(opts Options) (*Client, error) {
	if opts.BearerToken == "" && (opts.ConsumerKey == "" || opts.ConsumerSecret == "") {
		return nil, ErrNoCredentials
	}

	raw := opts.BaseURL
	if raw == "" {
		raw = DefaultBaseURL
	}
	base, err := url.Parse(raw)
	if err != nil {
		return nil, fmt.Errorf("invalid base url %q: %w", raw, err)
	}

	rps := opts.RPS
	if rps <= 0 {
		rps = DefaultRPS
	}

	rc := retryablehttp.NewClient()
	rc.HTTPClient = opts.HTTPClient
	if rc.HTTPClient == nil {
		rc.HTTPClient = cleanhttp.DefaultPooledClient()
	}
	rc.Logger = leveledLogger{}
	rc.Backoff = rateLimitBackoff
	rc.ErrorHandler = retryablehttp.PassthroughErrorHandler
	if opts.RetryMax > 0 {
		rc.RetryMax = opts.RetryMax
	}

	return &Client{
		base:           base,
		http:           rc,
		limiter:        rate.NewLimiter(rate.Limit(rps), 1),
		consumerKey:    opts.ConsumerKey,
		consumerSecret: opts.ConsumerSecret,
		token:          opts.BearerToken,
	}, nil
}

// FetchPost returns the extended-mode status payload for id.
func (c *Client) FetchPost(ctx context.Context, id store.ID) (store.Raw, error) {
	q := url.Values{}
	q.Set("id", id.String())
	q.Set("tweet_mode", "extended")
	return c.getObject(ctx, "/1.1/statuses/show.json", q)
}

// FetchAuthor returns the user payload for id.
func (c *Client) FetchAuthor(ctx context.Context, id store.ID) (store.Raw, error) {
	q := url.Values{}
	q.Set("user_id", id.String())
	return c.getObject(ctx, "/1.1/users/show.json", q)
}

func (c *Client) getObject(ctx context.Context, path string, q url.Values) (store.Raw, error) {
	token, err := c.bearer(ctx)
	if err != nil {
		return nil, err
	}

	u := c.base.JoinPath(path)
	u.RawQuery = q.Encode()

	if err := c.limiter.Wait(ctx); err != nil {
		return nil, err
	}

	req, err := retryablehttp.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+token)
	req.Header.Set("Accept", "application/json")

	body, err := c.do(req)
	if err != nil {
		return nil, err
	}

	raw, err := store.ParseRaw(body)
	if err != nil {
		return nil, fmt.Errorf("unexpected payload from %s: %w", path, err)
	}
	return raw, nil
}

func (c *Client) do(req *retryablehttp.Request) ([]byte, error) {
	resp, err := c.http.Do(req)
	if err != nil {
		if resp != nil && resp.Body != nil {
			drain(resp.Body)
		}
		return nil, fmt.Errorf("failed to execute request: %w", err)
	}
	defer resp.Body.Close()

	var doc bytes.Buffer
	if _, err := doc.ReadFrom(resp.Body); err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, &APIError{
			StatusCode: resp.StatusCode,
			URL:        redact(req.URL),
			Body:       doc.String(),
		}
	}
	return doc.Bytes(), nil
}

// rateLimitBackoff waits for the advertised window reset on HTTP 429 and
// falls back to the library's exponential backoff otherwise.
func rateLimitBackoff(minWait, maxWait time.Duration, attempt int, resp *http.Response) time.Duration {
	if resp != nil && resp.StatusCode == http.StatusTooManyRequests {
		if d, ok := untilReset(resp.Header.Get("x-rate-limit-reset"), time.Now()); ok {
			log.Warnf("rate limited; waiting %s", d.Round(time.Second))
			return d
		}
	}
	return retryablehttp.DefaultBackoff(minWait, maxWait, attempt, resp)
}

// untilReset converts an epoch-seconds reset header into a wait duration.
func untilReset(header string, now time.Time) (time.Duration, bool) {
	if header == "" {
		return 0, false
	}
	epoch, err := strconv.ParseInt(header, 10, 64)
	if err != nil {
		return 0, false
	}
	d := time.Unix(epoch, 0).Sub(now) + time.Second
	if d < time.Second {
		d = time.Second
	}
	return d, true
}

func redact(u *url.URL) string {
	c := *u
	c.RawQuery = ""
	return c.String()
}

// drain discards what is left of a body so the connection can be reused.
func drain(r io.ReadCloser) {
	_, _ = io.Copy(io.Discard, r)
	_ = r.Close()
}

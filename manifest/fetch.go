package manifest

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/vidscout/vidscout/constant"
	"golang.org/x/time/rate"
)

// FetcherOptions bound a Fetcher.
type FetcherOptions struct {
	Client  *http.Client
	Timeout time.Duration
	// MaxBody truncates longer playlists; a truncated master still yields the
	// variants declared before the cut.
	MaxBody int64
	// PerSecond caps fetches across all callers. Zero disables the limit.
	PerSecond float64
}

// Fetcher downloads playlist bodies. It never retries: a later observation of
// the same manifest triggers a new fetch.
type Fetcher struct {
	client  *http.Client
	timeout time.Duration
	maxBody int64
	limiter *rate.Limiter
}

// NewFetcher returns a Fetcher with opts applied.
func NewFetcher(opts FetcherOptions) *Fetcher {
	f := &Fetcher{
		client:  opts.Client,
		timeout: opts.Timeout,
		maxBody: opts.MaxBody,
		limiter: rate.NewLimiter(rate.Inf, 0),
	}

	if f.client == nil {
		f.client = http.DefaultClient
	}
	if f.maxBody <= 0 {
		f.maxBody = 2 << 20
	}
	if opts.PerSecond > 0 {
		f.limiter = rate.NewLimiter(rate.Limit(opts.PerSecond), int(opts.PerSecond)+1)
	}

	return f
}

// Fetch returns the body of the playlist at manifestURL. headers are applied on
// top of the default User-Agent.
func (f *Fetcher) Fetch(ctx context.Context, manifestURL string, headers map[string]string) (string, error) {
	if f.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, f.timeout)
		defer cancel()
	}

	if err := f.limiter.Wait(ctx); err != nil {
		return "", fmt.Errorf("rate limit: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, manifestURL, nil)
	if err != nil {
		return "", fmt.Errorf("create request: %w", err)
	}

	req.Header.Set("User-Agent", constant.UserAgent)
	req.Header.Set("Accept", "application/vnd.apple.mpegurl, application/x-mpegurl, */*;q=0.8")
	for k, v := range headers {
		req.Header.Set(k, v)
	}

	resp, err := f.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("fetch manifest: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return "", fmt.Errorf("fetch manifest: unexpected status %s", resp.Status)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, f.maxBody))
	if err != nil {
		return "", fmt.Errorf("read manifest: %w", err)
	}

	return string(body), nil
}

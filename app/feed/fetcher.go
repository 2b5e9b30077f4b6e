package feed

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"golang.org/x/time/rate"
)

const maxResponseSize = 10 << 20

var ErrResponseTooLarge = errors.New("response exceeds 10MB")

type Response struct {
	Body        []byte
	ContentType string
}

// Fetcher performs outbound GET requests. All requests made through one
// Fetcher share its rate limit.
type Fetcher struct {
	httpClient *http.Client
	userAgent  string
	limiter    *rate.Limiter
	maxBody    int64
}

// NewFetcher creates a fetcher allowing requestsPerSecond requests on
// average. Zero or less disables the limit.
func NewFetcher(httpClient *http.Client, userAgent string, requestsPerSecond float64) *Fetcher {
	limit := rate.Inf
	if requestsPerSecond > 0 {
		limit = rate.Limit(requestsPerSecond)
	}

	return &Fetcher{
		httpClient: httpClient,
		userAgent:  userAgent,
		limiter:    rate.NewLimiter(limit, 1),
		maxBody:    maxResponseSize,
	}
}

func (f *Fetcher) Fetch(ctx context.Context, url string, timeout time.Duration) (*Response, error) {
	timeoutCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	if err := f.limiter.Wait(timeoutCtx); err != nil {
		return nil, fmt.Errorf("failed waiting for rate limiter: %w", err)
	}

	req, err := http.NewRequestWithContext(timeoutCtx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	req.Header.Set("User-Agent", f.userAgent)

	resp, err := f.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch URL: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("HTTP error: %d %s", resp.StatusCode, resp.Status)
	}

	data, err := io.ReadAll(io.LimitReader(resp.Body, f.maxBody+1))
	if err != nil {
		return nil, fmt.Errorf("failed to read response body: %w", err)
	}
	if int64(len(data)) > f.maxBody {
		return nil, ErrResponseTooLarge
	}

	return &Response{
		Body:        data,
		ContentType: resp.Header.Get("Content-Type"),
	}, nil
}

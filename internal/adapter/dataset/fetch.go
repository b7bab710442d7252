package dataset

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/cenkalti/backoff/v4"
)

const (
	defaultRetryInterval = 500 * time.Millisecond
	defaultMaxRetries    = 5
)

// Fetcher downloads a dataset over HTTP(S), retrying transient failures.
type Fetcher struct {
	httpClient    *http.Client
	logger        *slog.Logger
	retryInterval time.Duration
	maxRetries    uint64
}

// NewFetcher creates a Fetcher whose requests each time out after timeout.
func NewFetcher(timeout time.Duration, logger *slog.Logger) *Fetcher {
	return &Fetcher{
		httpClient:    &http.Client{Timeout: timeout},
		logger:        logger,
		retryInterval: defaultRetryInterval,
		maxRetries:    defaultMaxRetries,
	}
}

// Fetch returns the body served at url. Network errors and 5xx responses are
// retried; other non-200 statuses fail immediately.
func (f *Fetcher) Fetch(ctx context.Context, url string) ([]byte, error) {
	var body []byte
	attempt := 0
	op := func() error {
		attempt++
		data, err := f.get(ctx, url)
		if err != nil {
			f.logger.Warn("dataset fetch failed", "url", url, "attempt", attempt, "error", err)
			return err
		}
		body = data
		return nil
	}

	policy := backoff.WithContext(
		backoff.WithMaxRetries(backoff.NewConstantBackOff(f.retryInterval), f.maxRetries),
		ctx,
	)
	if err := backoff.Retry(op, policy); err != nil {
		return nil, fmt.Errorf("fetch %s: %w", url, err)
	}
	return body, nil
}

func (f *Fetcher) get(ctx context.Context, url string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, backoff.Permanent(fmt.Errorf("create request: %w", err))
	}

	resp, err := f.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		snippet, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		err := fmt.Errorf("status %d: %s", resp.StatusCode, snippet)
		if resp.StatusCode < http.StatusInternalServerError {
			return nil, backoff.Permanent(err)
		}
		return nil, err
	}

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read body: %w", err)
	}
	return data, nil
}

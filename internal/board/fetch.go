package board

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"
)

// DefaultUserAgent mimics a desktop browser; the bulletin board rejects
// obvious bot agents.
const DefaultUserAgent = "Mozilla/5.0 (X11; Linux x86_64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/130.0.0.0 Safari/537.36"

// ErrStatus is returned for non-2xx responses.
var ErrStatus = errors.New("unexpected http status")

// FetchConfig controls timeouts and the retry policy.
type FetchConfig struct {
	UserAgent    string
	Timeout      time.Duration // page requests
	ImageTimeout time.Duration // image downloads
	MaxAttempts  int
	RetryDelay   time.Duration // multiplied by the attempt number
}

// DefaultFetchConfig returns the production retry policy.
func DefaultFetchConfig() FetchConfig {
	return FetchConfig{
		UserAgent:    DefaultUserAgent,
		Timeout:      20 * time.Second,
		ImageTimeout: 40 * time.Second,
		MaxAttempts:  3,
		RetryDelay:   1500 * time.Millisecond,
	}
}

// Fetcher performs GET requests with linear-backoff retries.
type Fetcher struct {
	client *http.Client
	cfg    FetchConfig
	logger *slog.Logger
}

// NewFetcher creates a Fetcher. A nil client uses a fresh http.Client.
func NewFetcher(client *http.Client, cfg FetchConfig, logger *slog.Logger) *Fetcher {
	if client == nil {
		client = &http.Client{}
	}
	if logger == nil {
		logger = slog.Default()
	}
	def := DefaultFetchConfig()
	if cfg.UserAgent == "" {
		cfg.UserAgent = def.UserAgent
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = def.Timeout
	}
	if cfg.ImageTimeout <= 0 {
		cfg.ImageTimeout = def.ImageTimeout
	}
	if cfg.MaxAttempts < 1 {
		cfg.MaxAttempts = def.MaxAttempts
	}
	if cfg.RetryDelay < 0 {
		cfg.RetryDelay = 0
	}
	return &Fetcher{client: client, cfg: cfg, logger: logger}
}

// Page fetches an HTML page.
func (f *Fetcher) Page(ctx context.Context, url string) ([]byte, error) {
	return f.get(ctx, url, f.cfg.Timeout)
}

// Image fetches image bytes using the longer image timeout.
func (f *Fetcher) Image(ctx context.Context, url string) ([]byte, error) {
	return f.get(ctx, url, f.cfg.ImageTimeout)
}

// get retries transport failures and 5xx responses. Other non-2xx statuses
// fail immediately.
func (f *Fetcher) get(ctx context.Context, url string, timeout time.Duration) ([]byte, error) {
	var lastErr error
	for attempt := 1; attempt <= f.cfg.MaxAttempts; attempt++ {
		body, retry, err := f.once(ctx, url, timeout)
		if err == nil {
			return body, nil
		}
		lastErr = err
		if !retry || attempt == f.cfg.MaxAttempts {
			break
		}

		delay := f.cfg.RetryDelay * time.Duration(attempt)
		f.logger.Warn("fetch failed, retrying", "url", url, "attempt", attempt, "delay", delay, "error", err)
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-time.After(delay):
		}
	}
	return nil, fmt.Errorf("fetch %s: %w", url, lastErr)
}

func (f *Fetcher) once(ctx context.Context, url string, timeout time.Duration) ([]byte, bool, error) {
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, false, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("User-Agent", f.cfg.UserAgent)

	resp, err := f.client.Do(req)
	if err != nil {
		return nil, true, err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, resp.StatusCode >= 500, fmt.Errorf("%w: %d", ErrStatus, resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, true, fmt.Errorf("read body: %w", err)
	}
	return body, false, nil
}

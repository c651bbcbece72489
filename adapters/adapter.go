// Package adapters wraps each external data source behind a normalized,
// fault-tolerant client. Every adapter returns its typed partial plus an
// error; on any failure the partial carries sentinel values and the caller
// decides how loudly to complain. Nothing in this package panics.
package adapters

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/apex/log"

	"github.com/kaitlin-del/SiteSheets/cache"
	"github.com/kaitlin-del/SiteSheets/config"
	"github.com/kaitlin-del/SiteSheets/utils"
)

// maxBodyBytes bounds how much of an upstream response we will read.
const maxBodyBytes = 4 << 20

// Client is the shared HTTP plumbing for all adapters: a bounded-timeout
// http.Client, response memoization keyed by URL, and retry for flaky GETs.
type Client struct {
	httpClient *http.Client
	cache      cache.Cache
	logger     log.Interface
	userAgent  string
	retry      *utils.RetryConfig
}

// NewClient builds the shared adapter client.
func NewClient(cfg *config.Config, store cache.Cache, logger log.Interface) *Client {
	return &Client{
		httpClient: &http.Client{
			Timeout: time.Duration(cfg.HTTPTimeoutSec) * time.Second,
		},
		cache:     store,
		logger:    logger,
		userAgent: cfg.UserAgent,
		retry: &utils.RetryConfig{
			MaxAttempts: cfg.MaxRetries,
			BaseDelay:   500 * time.Millisecond,
			Logger:      logger,
		},
	}
}

// getJSON fetches url, decoding the response into out. Responses are
// memoized by URL for the process lifetime, so re-analyzing a coordinate
// does not re-issue upstream calls.
func (c *Client) getJSON(ctx context.Context, name, url string, headers map[string]string, out any) error {
	if body, ok := c.cache.Get(url); ok {
		return json.Unmarshal(body, out)
	}

	var body []byte
	err := c.retry.Do(name, func() error {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
		if err != nil {
			return fmt.Errorf("%s: build request: %w", name, err)
		}
		req.Header.Set("User-Agent", c.userAgent)
		for k, v := range headers {
			req.Header.Set(k, v)
		}

		resp, err := c.httpClient.Do(req)
		if err != nil {
			return fmt.Errorf("%s: request: %w", name, err)
		}
		defer resp.Body.Close()

		if resp.StatusCode != http.StatusOK {
			return fmt.Errorf("%s: unexpected status %d", name, resp.StatusCode)
		}

		body, err = io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
		if err != nil {
			return fmt.Errorf("%s: read body: %w", name, err)
		}
		return nil
	})
	if err != nil {
		return err
	}

	if err := json.Unmarshal(body, out); err != nil {
		return fmt.Errorf("%s: decode response: %w", name, err)
	}

	c.cache.Put(url, body)
	return nil
}

package resolver

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/erraggy/json2ts"
)

func isURL(s string) bool {
	return strings.HasPrefix(s, "http://") || strings.HasPrefix(s, "https://")
}

// NewHTTPFetcher returns a Fetcher backed by client. A nil client gets a
// 30s timeout and an empty userAgent gets json2ts.UserAgent(). Bodies larger than
// limit are cut at limit+1 bytes so the caller can report the overflow.
func NewHTTPFetcher(client *http.Client, userAgent string, limit int64) Fetcher {
	if client == nil {
		client = &http.Client{Timeout: 30 * time.Second}
	}
	if userAgent == "" {
		userAgent = json2ts.UserAgent()
	}
	return func(ctx context.Context, urlStr string) ([]byte, error) {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, urlStr, nil)
		if err != nil {
			return nil, fmt.Errorf("resolver: failed to create request: %w", err)
		}
		req.Header.Set("User-Agent", userAgent)
		req.Header.Set("Accept", "application/schema+json, application/json, application/yaml;q=0.9, */*;q=0.5")

		resp, err := client.Do(req) //nolint:gosec // URL comes from the schema being compiled
		if err != nil {
			return nil, fmt.Errorf("resolver: failed to fetch URL: %w", err)
		}
		defer func() {
			_ = resp.Body.Close()
		}()

		if resp.StatusCode != http.StatusOK {
			return nil, fmt.Errorf("resolver: HTTP %d: %s", resp.StatusCode, resp.Status)
		}

		data, err := io.ReadAll(io.LimitReader(resp.Body, limit+1))
		if err != nil {
			return nil, fmt.Errorf("resolver: failed to read response body: %w", err)
		}
		return data, nil
	}
}

// Package upstream is the outbound HTTP edge of the gateway. Every carrier
// call goes through Client so timeouts, status classification, and envelope
// decoding stay in one place.
package upstream

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	dErrors "github.com/codyjhsieh/axlepolicy/pkg/domain-errors"
)

// Error is a non-2xx carrier response. The retry layer classifies on Status;
// RetryAfter carries the server-directed backoff for 429 responses.
type Error struct {
	Status     int
	RetryAfter time.Duration
	URL        string
}

func (e *Error) Error() string {
	return fmt.Sprintf("carrier call %s returned status %d", e.URL, e.Status)
}

// Envelope is the {"data": ...} wrapper every carrier response uses.
type Envelope[T any] struct {
	Data T `json:"data"`
}

// Client posts JSON to carrier endpoints with a real per-call timeout.
type Client struct {
	http    *http.Client
	timeout time.Duration
	logger  *slog.Logger
}

// NewClient builds a Client. The timeout applies per call, derived from the
// request context so caller cancellation still wins.
func NewClient(timeout time.Duration, logger *slog.Logger) *Client {
	return &Client{
		http:    &http.Client{},
		timeout: timeout,
		logger:  logger,
	}
}

// PostJSON sends body as JSON to url with the extra headers attached and
// decodes the response body into out. Non-2xx responses come back as *Error.
func (c *Client) PostJSON(ctx context.Context, url string, body any, headers map[string]string, out any) error {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	payload, err := json.Marshal(body)
	if err != nil {
		return fmt.Errorf("encode request body: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(payload))
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	for k, v := range headers {
		req.Header.Set(k, v)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("carrier call %s: %w", url, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		// Drain so the connection can be reused.
		_, _ = io.Copy(io.Discard, resp.Body)
		return &Error{
			Status:     resp.StatusCode,
			RetryAfter: parseRetryAfter(resp.Header.Get("Retry-After")),
			URL:        url,
		}
	}

	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		c.logger.WarnContext(ctx, "undecodable carrier response",
			"url", url,
			"error", err.Error(),
		)
		return dErrors.Wrap(err, dErrors.CodeMalformedResponse, "carrier response is not valid JSON")
	}
	return nil
}

func parseRetryAfter(header string) time.Duration {
	if header == "" {
		return 0
	}
	seconds, err := strconv.Atoi(header)
	if err != nil || seconds < 0 {
		return 0
	}
	return time.Duration(seconds) * time.Second
}

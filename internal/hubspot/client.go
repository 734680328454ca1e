package hubspot

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/mockexam/booking-backend/internal/config"
	"github.com/mockexam/booking-backend/internal/metrics"
	"github.com/sethvargo/go-retry"
)

const maxErrorBody = 64 << 10

// Client talks to the HubSpot REST API with a private-app bearer token.
// 429 responses are retried with exponential backoff; nothing else is.
type Client struct {
	httpClient *http.Client
	baseURL    string
	token      string
	maxRetries int
	retryBase  time.Duration
}

func NewClient(cfg config.HubSpotConfig) *Client {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	retryBase := cfg.RetryBaseDelay
	if retryBase <= 0 {
		retryBase = time.Second
	}
	maxRetries := cfg.MaxRetries
	if maxRetries < 0 {
		maxRetries = 0
	}
	return &Client{
		httpClient: &http.Client{Timeout: timeout},
		baseURL:    strings.TrimRight(cfg.BaseURL, "/"),
		token:      cfg.AccessToken,
		maxRetries: maxRetries,
		retryBase:  retryBase,
	}
}

func (c *Client) do(ctx context.Context, method, path string, body, out any) error {
	var payload []byte
	if body != nil {
		var err error
		payload, err = json.Marshal(body)
		if err != nil {
			return fmt.Errorf("encode %s %s: %w", method, path, err)
		}
	}

	backoff := retry.WithMaxRetries(uint64(c.maxRetries), retry.NewExponential(c.retryBase))
	attempt := 0

	return retry.Do(ctx, backoff, func(ctx context.Context) error {
		attempt++
		err := c.send(ctx, method, path, payload, out)
		if IsRateLimited(err) && attempt <= c.maxRetries {
			metrics.HubSpotRateLimitRetries.Inc()
			log.Printf("[HUBSPOT] Rate limited on %s %s, retrying in %v (attempt %d/%d)",
				method, path, c.retryBase<<(attempt-1), attempt, c.maxRetries)
			return retry.RetryableError(err)
		}
		return err
	})
}

func (c *Client) send(ctx context.Context, method, path string, payload []byte, out any) error {
	var reader io.Reader
	if payload != nil {
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return fmt.Errorf("build %s %s: %w", method, path, err)
	}
	req.Header.Set("Authorization", "Bearer "+c.token)
	req.Header.Set("Accept", "application/json")
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("%s %s: %w", method, path, err)
	}
	defer resp.Body.Close()

	metrics.HubSpotRequests.WithLabelValues(method, strconv.Itoa(resp.StatusCode)).Inc()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return decodeRemoteError(resp)
	}

	if out == nil || resp.StatusCode == http.StatusNoContent {
		io.Copy(io.Discard, resp.Body)
		return nil
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil && !errors.Is(err, io.EOF) {
		return fmt.Errorf("decode %s %s: %w", method, path, err)
	}
	return nil
}

func decodeRemoteError(resp *http.Response) error {
	remoteErr := &RemoteError{Status: resp.StatusCode}
	data, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
	if len(data) > 0 {
		var body RemoteError
		if json.Unmarshal(data, &body) == nil {
			remoteErr.Message = body.Message
			remoteErr.Category = body.Category
			remoteErr.CorrelationID = body.CorrelationID
		} else {
			remoteErr.Message = strings.TrimSpace(string(data))
		}
	}
	if remoteErr.Message == "" {
		remoteErr.Message = http.StatusText(resp.StatusCode)
	}
	return remoteErr
}

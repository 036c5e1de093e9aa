// Package remote talks to the shared key-value namespace used to synchronise
// report collections between devices.
package remote

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"
)

var (
	// ErrNotFound is returned when nothing has been stored under a sync id yet.
	ErrNotFound = errors.New("remote: namespace not found")
	// ErrUnexpectedStatus wraps any other non-2xx response.
	ErrUnexpectedStatus = errors.New("remote: unexpected status")
)

// Client reads and overwrites whole values under GET/POST {base}/{syncID}.
type Client struct {
	baseURL    string
	httpClient *http.Client
}

// NewClient creates a client for the namespace store at baseURL.
func NewClient(baseURL string, timeout time.Duration) *Client {
	return &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{Timeout: timeout},
	}
}

func (c *Client) url(syncID string) string {
	return c.baseURL + "/" + url.PathEscape(syncID)
}

// Fetch returns the raw value stored under syncID.
func (c *Client) Fetch(ctx context.Context, syncID string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.url(syncID), nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch %s: %w", syncID, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response body: %w", err)
	}

	if resp.StatusCode == http.StatusNotFound {
		return nil, ErrNotFound
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, fmt.Errorf("%w %d: %s", ErrUnexpectedStatus, resp.StatusCode, string(body))
	}
	return body, nil
}

// Store overwrites the value under syncID with payload.
func (c *Client) Store(ctx context.Context, syncID string, payload []byte) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.url(syncID), bytes.NewReader(payload))
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("failed to store %s: %w", syncID, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		body, _ := io.ReadAll(resp.Body)
		return fmt.Errorf("%w %d: %s", ErrUnexpectedStatus, resp.StatusCode, string(body))
	}
	return nil
}

// Package catalog provides access to the live product catalog service.
// Records are fetched fresh on every call; prices change between requests, so
// nothing here is ever cached.
package catalog

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

// ErrNotConfigured indicates the catalog endpoint or credential is missing.
var ErrNotConfigured = errors.New("catalog service not configured")

// Record is one sellable product as reported by the catalog service.
type Record struct {
	Name     string  `json:"name"`
	Category string  `json:"category"`
	Price    float64 `json:"price"`
	SKU      string  `json:"sku,omitempty"`
	Status   string  `json:"status,omitempty"`
	Color    string  `json:"color,omitempty"`
}

// Client reads the remote catalog over its REST interface.
type Client struct {
	httpClient *http.Client
	baseURL    string
	apiKey     string
}

// Config holds catalog client configuration.
type Config struct {
	URL     string
	APIKey  string
	Timeout time.Duration
}

// availableFilter restricts the listing to items currently in the store.
const availableFilter = "select=*&status=eq.In%20Store"

// NewClient creates a catalog client. A nil client is returned together with
// ErrNotConfigured when the endpoint or credential is absent; callers treat
// that as "no live catalog".
func NewClient(cfg Config) (*Client, error) {
	if cfg.URL == "" || cfg.APIKey == "" {
		return nil, ErrNotConfigured
	}

	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 10 * time.Second
	}

	return &Client{
		httpClient: &http.Client{Timeout: timeout},
		baseURL:    strings.TrimRight(cfg.URL, "/"),
		apiKey:     cfg.APIKey,
	}, nil
}

// FetchAvailable returns the catalog records currently available for sale.
func (c *Client) FetchAvailable(ctx context.Context) ([]Record, error) {
	url := fmt.Sprintf("%s/rest/v1/products?%s", c.baseURL, availableFilter)

	req, err := http.NewRequestWithContext(ctx, "GET", url, nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}

	req.Header.Set("apikey", c.apiKey)
	req.Header.Set("Authorization", "Bearer "+c.apiKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("send request: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("catalog service: status %d, body: %s", resp.StatusCode, string(body))
	}

	var records []Record
	if err := json.Unmarshal(body, &records); err != nil {
		return nil, fmt.Errorf("unmarshal records: %w", err)
	}

	return records, nil
}

// Package zerion fetches on-chain portfolio snapshots for a wallet from the
// Zerion API.
package zerion

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"
)

// ErrDisabled is returned when no API key was configured.
var ErrDisabled = errors.New("on-chain data provider is not configured")

// DefaultURL is the base url of the public Zerion API.
const DefaultURL = "https://api.zerion.io"

// Client fetches data from Zerion.
type Client struct {
	baseURL string
	apiKey  string
	http    *http.Client
}

// New constructs a client for the Zerion API.
func New(baseURL string, apiKey string, timeout time.Duration) *Client {
	return &Client{
		baseURL: baseURL,
		apiKey:  apiKey,
		http: &http.Client{
			Timeout: timeout,
		},
	}
}

// Portfolio returns the portfolio snapshot of the wallet as the raw JSON
// document Zerion reports under "data".
func (c *Client) Portfolio(ctx context.Context, address string) (json.RawMessage, error) {
	if c.apiKey == "" {
		return nil, ErrDisabled
	}

	endpoint := fmt.Sprintf("%s/v1/wallets/%s/portfolio?currency=usd", c.baseURL, url.PathEscape(address))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("new request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	req.SetBasicAuth(c.apiKey, "")

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("do: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return nil, fmt.Errorf("zerion status %d: %s", resp.StatusCode, body)
	}

	var doc struct {
		Data json.RawMessage `json:"data"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&doc); err != nil {
		return nil, fmt.Errorf("decode: %w", err)
	}

	if len(doc.Data) == 0 {
		return nil, errors.New("zerion response has no data")
	}

	return doc.Data, nil
}

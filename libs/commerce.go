package libs

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

// CommerceClient talks to the upstream commerce API that owns products,
// server-side carts and checkout. The storefront edge never owns that data;
// it only reads and mutates it on behalf of the browser session.
type CommerceClient struct {
	baseURL    string
	httpClient *http.Client
}

func NewCommerceClient(baseURL string, timeout time.Duration) *CommerceClient {
	if timeout == 0 {
		timeout = 15 * time.Second
	}
	return &CommerceClient{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{Timeout: timeout},
	}
}

type apiError struct {
	Message string `json:"message"`
	Error   string `json:"error"`
}

func (c *CommerceClient) do(ctx context.Context, method, path, token string, body interface{}, out interface{}) error {
	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("commerce api: encode %s %s: %w", method, path, err)
		}
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return fmt.Errorf("commerce api: build %s %s: %w", method, path, err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("commerce api: %s %s: %w", method, path, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		var apiErr apiError
		if decodeErr := json.NewDecoder(resp.Body).Decode(&apiErr); decodeErr == nil && apiErr.Message != "" {
			return fmt.Errorf("commerce api: %s %s: %s", method, path, apiErr.Message)
		}
		return fmt.Errorf("commerce api: %s %s: %s", method, path, resp.Status)
	}

	if out != nil {
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			return fmt.Errorf("commerce api: decode %s %s: %w", method, path, err)
		}
	}

	return nil
}

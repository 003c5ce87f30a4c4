// Package drugapi is the client for the remote drug-data endpoints: pill
// search by visual criteria, drug details, alphabetic index, autocomplete
// and disease summaries. Endpoint paths and parameter names are fixed by
// the existing backend and must not change.
package drugapi

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"
)

// ErrNotFound is returned when the server reports no record for a lookup.
var ErrNotFound = errors.New("not found")

// DefaultTimeout applies to every request unless overridden; expiry is
// treated as a network failure.
const DefaultTimeout = 15 * time.Second

// PageSize is the fixed page size of the visual-criteria search.
const PageSize = 20

// Client issues requests against the drug and disease endpoint families.
// It is stateless per call; callers track pagination themselves.
type Client struct {
	drugBase    string
	diseaseBase string
	httpClient  *http.Client
}

// New constructs a client. drugBase is the root of the drug-fda API family
// and diseaseBase the root of the disease summary API. A zero timeout
// selects DefaultTimeout.
func New(drugBase, diseaseBase string, timeout time.Duration) *Client {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	return &Client{
		drugBase:    strings.TrimRight(drugBase, "/"),
		diseaseBase: strings.TrimRight(diseaseBase, "/"),
		httpClient:  &http.Client{Timeout: timeout},
	}
}

// getJSON issues a GET and decodes the JSON response into out.
func (c *Client) getJSON(ctx context.Context, rawURL string, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	return c.do(req, out)
}

// postForm issues a form-encoded POST and decodes the JSON response into out.
func (c *Client) postForm(ctx context.Context, rawURL string, form url.Values, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, rawURL,
		strings.NewReader(form.Encode()))
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	return c.do(req, out)
}

func (c *Client) do(req *http.Request, out any) error {
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("request %s: %w", req.URL.Path, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		io.Copy(io.Discard, resp.Body)
		return fmt.Errorf("request %s: unexpected status %d", req.URL.Path, resp.StatusCode)
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode %s response: %w", req.URL.Path, err)
	}
	return nil
}

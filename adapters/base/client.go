// Package base holds the HTTP plumbing shared by the platform adapters: a
// JSON GET client that applies the rate throttle before every call.
package base

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/localmart/catalog-sync/throttle"
)

const userAgent = "Mozilla/5.0 (Macintosh; Intel Mac OS X 10_15_7) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36"

// Client fetches JSON documents from a storefront API. Every request first
// waits on the configured throttle; a nil throttle disables the delay.
type Client struct {
	HTTP     *http.Client
	Throttle *throttle.Throttle
}

// NewClient builds a client with the given throttle and sane timeouts.
func NewClient(t *throttle.Throttle) *Client {
	return &Client{
		HTTP: &http.Client{
			Timeout: 30 * time.Second,
			Transport: &http.Transport{
				MaxIdleConns:          100,
				IdleConnTimeout:       90 * time.Second,
				TLSHandshakeTimeout:   10 * time.Second,
				ExpectContinueTimeout: 1 * time.Second,
			},
		},
		Throttle: t,
	}
}

// GetJSON performs a throttled GET and decodes the body into out. The
// returned status is zero when the request never reached the server.
// Decoding is attempted only on 200 responses; any other status returns a
// nil error so callers can treat it as catalog exhaustion.
func (c *Client) GetJSON(ctx context.Context, rawURL string, query url.Values, out any) (int, error) {
	c.Throttle.Wait()

	u, err := url.Parse(rawURL)
	if err != nil {
		return 0, fmt.Errorf("parse url %q: %w", rawURL, err)
	}
	if query != nil {
		q := u.Query()
		for k, vs := range query {
			for _, v := range vs {
				q.Set(k, v)
			}
		}
		u.RawQuery = q.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
	if err != nil {
		return 0, err
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", userAgent)

	res, err := c.HTTP.Do(req)
	if err != nil {
		return 0, err
	}
	defer res.Body.Close()

	if res.StatusCode != http.StatusOK {
		io.Copy(io.Discard, res.Body)
		return res.StatusCode, nil
	}
	if err := json.NewDecoder(res.Body).Decode(out); err != nil {
		return res.StatusCode, fmt.Errorf("decode %s: %w", u.Host, err)
	}
	return res.StatusCode, nil
}

// Package identity exchanges an external OAuth session id for the profile
// the provider attached to it.
package identity

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"strings"
	"time"
)

var (
	// ErrInvalidSession means the provider rejected the session id.
	ErrInvalidSession = errors.New("identity: invalid external session")
	// ErrUnavailable covers transport failures and unusable responses.
	ErrUnavailable = errors.New("identity: provider unavailable")
)

// Profile is the subset of provider data FleetEase uses.
type Profile struct {
	ID      string `json:"id"`
	Email   string `json:"email"`
	Name    string `json:"name"`
	Picture string `json:"picture"`
}

// Client calls the provider's session-data endpoint.
type Client struct {
	url  string
	http *http.Client
}

// NewClient returns a client for the given endpoint with a bounded timeout.
func NewClient(url string, timeout time.Duration) *Client {
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &Client{
		url: url,
		http: &http.Client{
			Timeout: timeout,
			Transport: &http.Transport{
				DialContext: (&net.Dialer{
					Timeout:   5 * time.Second,
					KeepAlive: 30 * time.Second,
				}).DialContext,
				MaxIdleConns:        20,
				MaxIdleConnsPerHost: 10,
				IdleConnTimeout:     90 * time.Second,
			},
		},
	}
}

// NewClientWithHTTP lets tests inject an httptest client.
func NewClientWithHTTP(url string, hc *http.Client) *Client {
	return &Client{url: url, http: hc}
}

// FetchSession sends the id in the X-Session-ID header. A non-200 answer is
// ErrInvalidSession; anything else that goes wrong wraps ErrUnavailable.
func (c *Client) FetchSession(ctx context.Context, sessionID string) (Profile, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.url, nil)
	if err != nil {
		return Profile{}, fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	req.Header.Set("X-Session-ID", sessionID)
	req.Header.Set("Accept", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return Profile{}, fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, 4096))
		return Profile{}, fmt.Errorf("%w: status %d", ErrInvalidSession, resp.StatusCode)
	}

	var p Profile
	if err := json.NewDecoder(io.LimitReader(resp.Body, 1<<20)).Decode(&p); err != nil {
		return Profile{}, fmt.Errorf("%w: decode: %v", ErrUnavailable, err)
	}
	p.Email = strings.TrimSpace(p.Email)
	if p.Email == "" {
		return Profile{}, fmt.Errorf("%w: profile without email", ErrUnavailable)
	}
	return p, nil
}

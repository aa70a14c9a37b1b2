// internal/lyrics/client.go
package lyrics

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"context"
)

// ErrNotFound means the provider definitively has no lyrics for the
// artist/title pair, as opposed to a transport failure.
var ErrNotFound = errors.New("lyrics not found")

// Fetcher retrieves the lyrics text for one artist/title pair.
type Fetcher interface {
	Lyrics(ctx context.Context, artist, title string) (string, error)
}

// Client talks to a lyrics.ovh-compatible API:
// GET {base}/v1/{artist}/{title} -> {"lyrics": "..."}; 404 when unknown.
// The provider is treated as unreliable, rate-limited and latency-variable;
// callers bound each request with a context deadline.
type Client struct {
	BaseURL    string
	HTTPClient *http.Client
}

const DefaultBaseURL = "https://api.lyrics.ovh"

// NewClient returns a Client for the given base URL ("" uses the public
// lyrics.ovh endpoint).
func NewClient(baseURL string) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	return &Client{
		BaseURL:    strings.TrimSuffix(baseURL, "/"),
		HTTPClient: &http.Client{},
	}
}

func (c *Client) Lyrics(ctx context.Context, artist, title string) (string, error) {
	endpoint := fmt.Sprintf("%s/v1/%s/%s", c.BaseURL, url.PathEscape(artist), url.PathEscape(title))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return "", err
	}
	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusNotFound:
		return "", ErrNotFound
	case resp.StatusCode != http.StatusOK:
		return "", fmt.Errorf("lyrics api returned status %d", resp.StatusCode)
	}

	var body struct {
		Lyrics string `json:"lyrics"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return "", fmt.Errorf("decoding lyrics response: %w", err)
	}
	if strings.TrimSpace(body.Lyrics) == "" {
		return "", ErrNotFound
	}
	return body.Lyrics, nil
}

// Package geocode wraps the Nominatim reverse-geocoding service. Both lookup
// forms are best-effort: callers degrade on failure, nothing here retries.
package geocode

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"time"

	"github.com/mr1hm/go-emergency-services/internal/models"
)

// DefaultCountryCode is returned whenever country resolution fails.
const DefaultCountryCode = "us"

const defaultUserAgent = "go-emergency-services/1.0 (contact@example.com)"

type Client struct {
	baseURL   string
	userAgent string
	client    *http.Client
}

func NewClient(baseURL, userAgent string, timeout time.Duration) *Client {
	if userAgent == "" {
		userAgent = defaultUserAgent
	}
	return &Client{
		baseURL:   baseURL,
		userAgent: userAgent,
		client: &http.Client{
			Timeout: timeout,
		},
	}
}

type reverseResponse struct {
	DisplayName string `json:"display_name"`
	Address     struct {
		CountryCode string `json:"country_code"`
	} `json:"address"`
}

// CountryCode resolves a coordinate to an ISO 3166-1 alpha-2 country code
// using a country-level zoom lookup. Any failure (transport, status, decode,
// missing field) falls back to DefaultCountryCode. Never returns an error.
func (c *Client) CountryCode(ctx context.Context, coord models.Coordinate) string {
	q := url.Values{}
	q.Set("format", "json")
	q.Set("lat", fmt.Sprintf("%f", coord.Latitude))
	q.Set("lon", fmt.Sprintf("%f", coord.Longitude))
	q.Set("zoom", "3")

	var data reverseResponse
	if err := c.reverse(ctx, q, &data); err != nil {
		slog.Warn("country lookup failed, using default", "error", err, "default", DefaultCountryCode)
		return DefaultCountryCode
	}
	if data.Address.CountryCode == "" {
		slog.Warn("country lookup returned no country_code, using default", "default", DefaultCountryCode)
		return DefaultCountryCode
	}
	return data.Address.CountryCode
}

// Details performs the addressdetails lookup and returns the display name for
// a coordinate. Unlike CountryCode, failures surface as errors so the caller
// can skip enrichment for a single result.
func (c *Client) Details(ctx context.Context, coord models.Coordinate) (string, error) {
	q := url.Values{}
	q.Set("format", "json")
	q.Set("lat", fmt.Sprintf("%f", coord.Latitude))
	q.Set("lon", fmt.Sprintf("%f", coord.Longitude))
	q.Set("addressdetails", "1")

	var data reverseResponse
	if err := c.reverse(ctx, q, &data); err != nil {
		return "", err
	}
	return data.DisplayName, nil
}

func (c *Client) reverse(ctx context.Context, query url.Values, out *reverseResponse) error {
	reqURL := fmt.Sprintf("%s/reverse?%s", c.baseURL, query.Encode())

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return fmt.Errorf("error creating request: %w", err)
	}
	req.Header.Set("User-Agent", c.userAgent)

	resp, err := c.client.Do(req)
	if err != nil {
		return fmt.Errorf("error while doing request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("unexpected status code: %d - status: %s", resp.StatusCode, resp.Status)
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("error decoding resp.Body: %w", err)
	}
	return nil
}

// Package overpass is a minimal client for the Overpass API interpreter
// endpoint, covering only the around-radius node queries the resolution
// pipeline needs.
package overpass

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"
)

const defaultUserAgent = "go-emergency-services/1.0 (contact@example.com)"

// Element is a raw POI record as returned by the interpreter. Consumed
// entirely inside the category fetcher and never exposed outward.
type Element struct {
	Type string            `json:"type"`
	ID   int64             `json:"id"`
	Lat  float64           `json:"lat"`
	Lon  float64           `json:"lon"`
	Tags map[string]string `json:"tags"`
}

type interpreterResponse struct {
	Elements []Element `json:"elements"`
}

type Client struct {
	url       string
	userAgent string
	client    *http.Client
}

func NewClient(interpreterURL, userAgent string, timeout time.Duration) *Client {
	if userAgent == "" {
		userAgent = defaultUserAgent
	}
	return &Client{
		url:       interpreterURL,
		userAgent: userAgent,
		client: &http.Client{
			Timeout: timeout,
		},
	}
}

// Query runs a disjunctive around-query: the union of nodes matching any of
// the given tag filters within radiusMeters of (lat, lon). Results come back
// in provider-native order.
func (c *Client) Query(ctx context.Context, tags []string, radiusMeters int, lat, lon float64) ([]Element, error) {
	var b strings.Builder
	b.WriteString("[out:json];(")
	for _, tag := range tags {
		fmt.Fprintf(&b, "node[%s](around:%d,%f,%f);", tag, radiusMeters, lat, lon)
	}
	b.WriteString(");out body;")

	form := url.Values{}
	form.Set("data", b.String())

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.url, strings.NewReader(form.Encode()))
	if err != nil {
		return nil, fmt.Errorf("error creating request: %w", err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.Header.Set("User-Agent", c.userAgent)

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("error while doing request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("unexpected status code: %d - status: %s", resp.StatusCode, resp.Status)
	}

	var data interpreterResponse
	if err := json.NewDecoder(resp.Body).Decode(&data); err != nil {
		return nil, fmt.Errorf("error decoding resp.Body: %w", err)
	}

	return data.Elements, nil
}

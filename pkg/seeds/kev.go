package seeds

import (
	"context"
	"encoding/json"
	"fmt"
	"math/rand"
	"net/http"
	"time"

	"siemtrainer/pkg/types"
)

// DefaultKEVFeedURL is the CISA Known Exploited Vulnerabilities feed.
const DefaultKEVFeedURL = "https://www.cisa.gov/sites/default/files/feeds/known_exploited_vulnerabilities.json"

// DefaultKEVTimeout bounds a single feed fetch.
const DefaultKEVTimeout = 6 * time.Second

// KEVClient fetches the KEV feed and samples vulnerability seeds from it.
type KEVClient struct {
	feedURL string
	client  *http.Client
}

// NewKEVClient creates a KEV seed client. An empty feedURL selects the
// CISA feed, a zero timeout selects the 6s default.
func NewKEVClient(feedURL string, timeout time.Duration) *KEVClient {
	if feedURL == "" {
		feedURL = DefaultKEVFeedURL
	}
	if timeout <= 0 {
		timeout = DefaultKEVTimeout
	}
	return &KEVClient{
		feedURL: feedURL,
		client:  &http.Client{Timeout: timeout},
	}
}

type kevFeed struct {
	Count           int `json:"count"`
	Vulnerabilities []struct {
		CVEID             string `json:"cveID"`
		VendorProject     string `json:"vendorProject"`
		Product           string `json:"product"`
		VulnerabilityName string `json:"vulnerabilityName"`
		DateAdded         string `json:"dateAdded"`
		ShortDescription  string `json:"shortDescription"`
		Description       string `json:"description"`
		RequiredAction    string `json:"requiredAction"`
		Notes             string `json:"notes"`
	} `json:"vulnerabilities"`
}

// RandomVulnerability fetches the feed and picks one entry uniformly at
// random. Any failure (network, non-2xx, empty list) is returned as an
// error; callers are expected to continue without a vulnerability seed.
func (c *KEVClient) RandomVulnerability(ctx context.Context) (*types.VulnerabilitySeed, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.feedURL, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create KEV request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch KEV feed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, fmt.Errorf("KEV feed returned status %d", resp.StatusCode)
	}

	var feed kevFeed
	if err := json.NewDecoder(resp.Body).Decode(&feed); err != nil {
		return nil, fmt.Errorf("failed to decode KEV feed: %w", err)
	}
	if len(feed.Vulnerabilities) == 0 {
		return nil, fmt.Errorf("KEV feed contained no vulnerabilities")
	}

	v := feed.Vulnerabilities[rand.Intn(len(feed.Vulnerabilities))]

	desc := v.ShortDescription
	if desc == "" {
		desc = v.Description
	}

	return &types.VulnerabilitySeed{
		CVEID:             v.CVEID,
		VendorProject:     v.VendorProject,
		Product:           v.Product,
		VulnerabilityName: v.VulnerabilityName,
		DateAdded:         v.DateAdded,
		ShortDescription:  desc,
		RequiredAction:    v.RequiredAction,
		Notes:             v.Notes,
	}, nil
}

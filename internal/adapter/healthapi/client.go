// Package healthapi queries a remote health-data service for quantity samples.
package healthapi

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"biometrics/internal/domain"

	"golang.org/x/oauth2/clientcredentials"
)

// Config describes the remote endpoint and its client-credentials grant.
// Credentials are optional; without them requests are sent unauthenticated.
type Config struct {
	BaseURL      string
	TokenURL     string
	ClientID     string
	ClientSecret string
	Scopes       []string
	Timeout      time.Duration
}

// Client implements domain.HealthProvider over HTTP.
type Client struct {
	base *url.URL
	http *http.Client
}

var _ domain.HealthProvider = (*Client)(nil)

type sampleResponse struct {
	Value *float64 `json:"value"`
	Found bool     `json:"found"`
}

// New builds a client. ctx is used for token fetches.
func New(ctx context.Context, cfg Config) (*Client, error) {
	if cfg.BaseURL == "" {
		return nil, fmt.Errorf("health api: base url is required")
	}
	base, err := url.Parse(strings.TrimSuffix(cfg.BaseURL, "/"))
	if err != nil {
		return nil, fmt.Errorf("health api: parse base url: %w", err)
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = 10 * time.Second
	}

	hc := &http.Client{Timeout: cfg.Timeout}
	if cfg.ClientID != "" {
		cc := clientcredentials.Config{
			ClientID:     cfg.ClientID,
			ClientSecret: cfg.ClientSecret,
			TokenURL:     cfg.TokenURL,
			Scopes:       cfg.Scopes,
		}
		hc = cc.Client(ctx)
		hc.Timeout = cfg.Timeout
	}
	return &Client{base: base, http: hc}, nil
}

// Sample fetches one reading. A 404 or found=false means no data.
func (c *Client) Sample(ctx context.Context, q domain.QuantityType, mode domain.QueryMode, at time.Time) (float64, bool, error) {
	u := *c.base
	u.Path = u.Path + "/v1/samples/" + url.PathEscape(string(q))
	u.RawQuery = url.Values{
		"mode": {string(mode)},
		"at":   {at.UTC().Format(time.RFC3339)},
	}.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
	if err != nil {
		return 0, false, fmt.Errorf("%w: %w", domain.ErrProviderQuery, err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return 0, false, fmt.Errorf("%w: %w", domain.ErrProviderQuery, err)
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusNotFound:
		return 0, false, nil
	case resp.StatusCode < 200 || resp.StatusCode > 299:
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return 0, false, fmt.Errorf("%w: %s %s: %s", domain.ErrProviderQuery, q, resp.Status, strings.TrimSpace(string(body)))
	}

	var sr sampleResponse
	if err := json.NewDecoder(resp.Body).Decode(&sr); err != nil {
		return 0, false, fmt.Errorf("%w: decode %s: %w", domain.ErrProviderQuery, q, err)
	}
	if !sr.Found || sr.Value == nil {
		return 0, false, nil
	}
	return *sr.Value, true, nil
}

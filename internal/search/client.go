// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package search

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/pdiddy/biblioscope/internal/httputil"
	"github.com/pdiddy/biblioscope/internal/logger"
	"github.com/pdiddy/biblioscope/pkg/types"
)

// DefaultEndpoint is the Scopus search API.
const DefaultEndpoint = "https://api.elsevier.com/content/search/scopus"

// DefaultTimeout bounds a whole search request.
const DefaultTimeout = 30 * time.Second

// RawResponse is the decoded Scopus response body. Only the fields read by
// Normalize matter; everything else is ignored.
type RawResponse map[string]any

// NetworkError reports a search request that did not produce a usable
// response: transport failure, timeout, non-2xx status or undecodable body.
type NetworkError struct {
	Err error
}

func (e *NetworkError) Error() string {
	return fmt.Sprintf("Scopus request failed: %v", e.Err)
}

func (e *NetworkError) Unwrap() error { return e.Err }

// Client sends expressions to the Scopus search endpoint.
type Client struct {
	cfg  types.ClientConfig
	http *http.Client
}

// NewClient returns a Client for cfg. A zero Endpoint or Timeout falls back
// to DefaultEndpoint and DefaultTimeout.
func NewClient(cfg types.ClientConfig) *Client {
	if cfg.Endpoint == "" {
		cfg.Endpoint = DefaultEndpoint
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = DefaultTimeout
	}
	return &Client{
		cfg:  cfg,
		http: &http.Client{Timeout: cfg.Timeout},
	}
}

// Search issues a single GET for expression, asking for count results
// (clamped to [1, MaxCount]). Every failure is returned as *NetworkError.
func (c *Client) Search(ctx context.Context, expression string, count int) (RawResponse, error) {
	count = ClampCount(count)

	params := url.Values{
		"query": {expression},
		"count": {strconv.Itoa(count)},
	}
	reqURL := c.cfg.Endpoint + "?" + params.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return nil, &NetworkError{Err: fmt.Errorf("creating request: %w", err)}
	}
	req.Header.Set("X-ELS-APIKey", c.cfg.APIKey)
	req.Header.Set("Accept", "application/json")
	if c.cfg.UserAgent != "" {
		req.Header.Set("User-Agent", c.cfg.UserAgent)
	}

	ctx = logger.WithQuery(ctx, expression)
	logger.For(ctx).WithField("count", count).Debug("sending Scopus search request")
	defer logger.Track(ctx, "Scopus search")()

	var raw RawResponse
	if err := httputil.GetJSON(c.http, req, &raw); err != nil {
		return nil, &NetworkError{Err: err}
	}
	return raw, nil
}

// Package brand looks up company logos so credentials can be shown with an
// icon. Lookups are best effort, nothing in the vault depends on them.
package brand

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/pkg/errors"
	"github.com/rs/zerolog"
	"golang.org/x/time/rate"
)

const (
	// DefaultBaseURL is the brandfetch v2 api
	DefaultBaseURL = "https://api.brandfetch.io/v2"

	defaultTimeout = 10 * time.Second
	// responses bigger than this are not search results
	maxBody = 1 << 20
)

// ErrNoClientID is returned when searching without a client id
var ErrNoClientID = errors.New("brandfetch client id is not set")

// Brand is a single search result
type Brand struct {
	BrandID string `json:"brandId"`
	Claimed bool   `json:"claimed"`
	Domain  string `json:"domain"`
	// Icon is a url
	Icon string `json:"icon"`
	Name string `json:"name"`
}

// StatusError is returned when the api responds with anything but 200
type StatusError struct {
	Code int
}

// Error interface
func (s *StatusError) Error() string {
	return fmt.Sprintf("brand search failed with status %d", s.Code)
}

// Option configures a Client
type Option func(*Client)

// WithBaseURL points the client somewhere other than DefaultBaseURL
func WithBaseURL(base string) Option {
	return func(c *Client) {
		c.baseURL = strings.TrimSuffix(base, "/")
	}
}

// WithHTTPClient replaces the default http client
func WithHTTPClient(h *http.Client) Option {
	return func(c *Client) {
		c.http = h
	}
}

// WithLogger sets the logger used to report failed icon lookups
func WithLogger(log zerolog.Logger) Option {
	return func(c *Client) {
		c.log = log
	}
}

// WithLimit changes how fast requests may be made, the default is one per
// second with a burst of 5.
func WithLimit(limit rate.Limit, burst int) Option {
	return func(c *Client) {
		c.limiter = rate.NewLimiter(limit, burst)
	}
}

// Client searches brandfetch
type Client struct {
	clientID string
	baseURL  string

	http    *http.Client
	limiter *rate.Limiter
	log     zerolog.Logger
}

// New creates a client. clientID is the brandfetch client id, an empty one
// makes every search fail with ErrNoClientID.
func New(clientID string, opts ...Option) *Client {
	c := &Client{
		clientID: clientID,
		baseURL:  DefaultBaseURL,
		http:     &http.Client{Timeout: defaultTimeout},
		limiter:  rate.NewLimiter(rate.Every(time.Second), 5),
		log:      zerolog.Nop(),
	}

	for _, o := range opts {
		o(c)
	}

	return c
}

// Search for brands matching name
func (c *Client) Search(ctx context.Context, name string) ([]Brand, error) {
	if len(c.clientID) == 0 {
		return nil, ErrNoClientID
	}

	if err := c.limiter.Wait(ctx); err != nil {
		return nil, errors.Wrap(err, "brand search was throttled")
	}

	uri := c.baseURL + "/search/" + url.PathEscape(name) + "?c=" + url.QueryEscape(c.clientID)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, uri, nil)
	if err != nil {
		return nil, errors.Wrap(err, "failed to create brand search request")
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to search brands for %q", name)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, maxBody))
		return nil, &StatusError{Code: resp.StatusCode}
	}

	var brands []Brand
	if err = json.NewDecoder(io.LimitReader(resp.Body, maxBody)).Decode(&brands); err != nil {
		return nil, errors.Wrap(err, "failed to decode brand search response")
	}

	return brands, nil
}

// Icon returns the icon of the first brand found for issuer. Failures are
// logged and result in an empty string.
func (c *Client) Icon(ctx context.Context, issuer string) string {
	issuer = strings.TrimSpace(issuer)
	if len(issuer) == 0 {
		return ""
	}

	brands, err := c.Search(ctx, issuer)
	if err != nil {
		c.log.Warn().Err(err).Str("issuer", issuer).Msg("icon lookup failed")
		return ""
	}
	if len(brands) == 0 {
		c.log.Debug().Str("issuer", issuer).Msg("no brand found")
		return ""
	}

	return brands[0].Icon
}

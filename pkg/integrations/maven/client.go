// Package maven fetches POM documents from Maven repositories.
package maven

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/Alen-lv/dependency-management-plugin/pkg/cache"
	"github.com/Alen-lv/dependency-management-plugin/pkg/coords"
	dmerrors "github.com/Alen-lv/dependency-management-plugin/pkg/errors"
	"github.com/Alen-lv/dependency-management-plugin/pkg/integrations"
)

// DefaultRepository is Maven Central.
const DefaultRepository = "https://repo.maven.apache.org/maven2"

// Client downloads POMs from one repository using the standard layout:
//
//	<base>/<group with dots as slashes>/<artifact>/<version>/<artifact>-<version>.pom
//
// Responses are cached by repository URL and coordinate.
// All methods are safe for concurrent use.
type Client struct {
	*integrations.Client
	baseURL string
	keyer   cache.Keyer
	refresh bool
}

// Option configures a Client.
type Option func(*Client)

// WithKeyer sets the cache keyer. The default is [cache.DefaultKeyer].
func WithKeyer(k cache.Keyer) Option {
	return func(c *Client) { c.keyer = k }
}

// WithRefresh bypasses cached responses, while still storing fresh ones.
func WithRefresh(refresh bool) Option {
	return func(c *Client) { c.refresh = refresh }
}

// WithOffline serves cached POMs only.
func WithOffline(offline bool) Option {
	return func(c *Client) { c.SetOffline(offline) }
}

// NewClient creates a client for the repository at baseURL.
// An empty baseURL means [DefaultRepository]. A nil cache disables caching.
func NewClient(c cache.Cache, baseURL string, ttl time.Duration, opts ...Option) (*Client, error) {
	if baseURL == "" {
		baseURL = DefaultRepository
	}
	if err := dmerrors.ValidateURL(baseURL); err != nil {
		return nil, err
	}
	client := &Client{
		Client:  integrations.NewClient(c, "pom", ttl, nil),
		baseURL: strings.TrimRight(baseURL, "/"),
		keyer:   cache.NewDefaultKeyer(),
	}
	for _, opt := range opts {
		opt(client)
	}
	return client, nil
}

// URL returns the repository base URL.
func (c *Client) URL() string { return c.baseURL }

// PomPath returns the repository-relative path of the POM for coord.
func PomPath(coord coords.Coordinate) string {
	return strings.ReplaceAll(coord.Group, ".", "/") + "/" + coord.Name + "/" + coord.Version +
		"/" + coord.Name + "-" + coord.Version + ".pom"
}

// PomURL returns the absolute URL of the POM for coord.
func (c *Client) PomURL(coord coords.Coordinate) string {
	return integrations.JoinURL(c.baseURL, PomPath(coord))
}

// FetchPOM downloads the raw POM for coord.
//
// Errors carry [dmerrors.ErrCodeNotFound] when the repository does not have
// the POM (or the client is offline and it is not cached), and
// [dmerrors.ErrCodeNetwork] for transport failures. The transport sentinel
// stays reachable through errors.Is.
func (c *Client) FetchPOM(ctx context.Context, coord coords.Coordinate) ([]byte, error) {
	if !coord.IsComplete() {
		return nil, dmerrors.New(dmerrors.ErrCodeMalformedCoordinate,
			"Bom coordinates '%s' must be of the form groupId:artifactId:version", coord)
	}

	url := c.PomURL(coord)
	data, err := c.Cached(ctx, c.keyer.PomKey(c.baseURL, coord), c.refresh, func() ([]byte, error) {
		return c.GetBytes(ctx, url)
	})
	switch {
	case err == nil:
		return data, nil
	case errors.Is(err, integrations.ErrNotFound), errors.Is(err, integrations.ErrOffline):
		return nil, dmerrors.Wrap(dmerrors.ErrCodeNotFound, err, "POM %s not found at %s", coord, c.baseURL)
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return nil, err
	default:
		return nil, dmerrors.Wrap(dmerrors.ErrCodeNetwork, err, "fetching %s", url)
	}
}

// Package geo fetches India state boundaries as GeoJSON and joins
// state-level equity rollups into the feature properties, producing a
// file any choropleth front end can render directly.
package geo

import (
	"context"
	"io"
	"math"
	"math/rand"
	"net/http"
	"os"
	"time"

	"github.com/rotisserie/eris"
	"github.com/twpayne/go-geom/encoding/geojson"
	"go.uber.org/zap"
	"golang.org/x/time/rate"
)

// DefaultStatesURL is the public India state boundary set keyed by the
// ST_NM property.
const DefaultStatesURL = "https://gist.githubusercontent.com/jbrobst/56c13bbbf9d97d187fea01ca62ea5112/raw/e388c4cae20aa53cb5090210a42ebb9b765c0a36/india_states.geojson"

// stateNameKey is the feature property holding the state name.
const stateNameKey = "ST_NM"

// ClientOptions configures the boundary fetcher.
type ClientOptions struct {
	UserAgent  string
	Timeout    time.Duration
	MaxRetries int
	Limiter    *rate.Limiter
}

// Client downloads GeoJSON boundary files with retry and rate limiting.
type Client struct {
	http    *http.Client
	opts    ClientOptions
	limiter *rate.Limiter
}

// NewClient creates a boundary fetcher with the given options.
func NewClient(opts ClientOptions) *Client {
	if opts.Timeout == 0 {
		opts.Timeout = 60 * time.Second
	}
	if opts.MaxRetries == 0 {
		opts.MaxRetries = 3
	}
	if opts.UserAgent == "" {
		opts.UserAgent = "nexus-cli/1.0"
	}
	limiter := opts.Limiter
	if limiter == nil {
		limiter = rate.NewLimiter(2, 2)
	}
	return &Client{
		http:    &http.Client{Timeout: opts.Timeout},
		opts:    opts,
		limiter: limiter,
	}
}

// FetchStates downloads and parses the state boundary collection.
func (c *Client) FetchStates(ctx context.Context, rawURL string) (*geojson.FeatureCollection, error) {
	if rawURL == "" {
		rawURL = DefaultStatesURL
	}

	body, err := c.download(ctx, rawURL)
	if err != nil {
		return nil, err
	}
	defer body.Close() //nolint:errcheck

	data, err := io.ReadAll(body)
	if err != nil {
		return nil, eris.Wrap(err, "geo: read boundary body")
	}

	var fc geojson.FeatureCollection
	if err := fc.UnmarshalJSON(data); err != nil {
		return nil, eris.Wrap(err, "geo: parse boundary geojson")
	}
	if len(fc.Features) == 0 {
		return nil, eris.Errorf("geo: boundary file %s has no features", rawURL)
	}
	return &fc, nil
}

func (c *Client) download(ctx context.Context, rawURL string) (io.ReadCloser, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return nil, eris.Wrap(err, "geo: create request")
	}
	req.Header.Set("User-Agent", c.opts.UserAgent)

	var lastErr error
	for attempt := 0; attempt < c.opts.MaxRetries; attempt++ {
		if err := c.limiter.Wait(ctx); err != nil {
			return nil, eris.Wrap(err, "geo: rate limiter wait")
		}

		resp, err := c.http.Do(req.Clone(ctx))
		if err != nil {
			lastErr = err
			zap.L().Warn("geo: boundary request failed, retrying",
				zap.String("url", rawURL),
				zap.Int("attempt", attempt+1),
				zap.Error(err),
			)
			c.backoff(ctx, attempt)
			continue
		}

		if resp.StatusCode == http.StatusTooManyRequests || resp.StatusCode >= 500 {
			_ = resp.Body.Close()
			lastErr = eris.Errorf("geo: http %d from %s", resp.StatusCode, rawURL)
			zap.L().Warn("geo: retryable status, backing off",
				zap.String("url", rawURL),
				zap.Int("status", resp.StatusCode),
				zap.Int("attempt", attempt+1),
			)
			c.backoff(ctx, attempt)
			continue
		}

		if resp.StatusCode != http.StatusOK {
			_ = resp.Body.Close()
			return nil, eris.Errorf("geo: unexpected status %d from %s", resp.StatusCode, rawURL)
		}

		return resp.Body, nil
	}

	return nil, eris.Wrap(lastErr, "geo: all retries exhausted")
}

func (c *Client) backoff(ctx context.Context, attempt int) {
	d := time.Duration(float64(time.Second) * math.Pow(2, float64(attempt)))
	if d > 15*time.Second {
		d = 15 * time.Second
	}
	d += time.Duration(rand.Int63n(int64(d) / 2))

	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
	case <-t.C:
	}
}

// LoadStates parses a boundary collection from a local file.
func LoadStates(path string) (*geojson.FeatureCollection, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, eris.Wrapf(err, "geo: read boundary file %s", path)
	}
	var fc geojson.FeatureCollection
	if err := fc.UnmarshalJSON(data); err != nil {
		return nil, eris.Wrapf(err, "geo: parse boundary file %s", path)
	}
	return &fc, nil
}

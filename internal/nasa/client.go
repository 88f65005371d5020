package nasa

import (
	"context"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"regexp"
	"strconv"
	"strings"
	"time"

	"go.uber.org/zap"
	"golang.org/x/crypto/blake2b"

	"github.com/ayush/exploring-space/internal/httpx"
	"github.com/ayush/exploring-space/internal/metrics"
	"github.com/ayush/exploring-space/internal/models"
)

// UserAgent is sent on every upstream request.
const UserAgent = "ExploringSpace/1.0"

// ErrInvalidEndpoint is returned for endpoint names outside [a-z0-9-].
var ErrInvalidEndpoint = errors.New("invalid endpoint")

var endpointRe = regexp.MustCompile(`^[a-z0-9-]+$`)

// Cache stores raw upstream bodies. Implemented by store.RedisCache.
type Cache interface {
	Get(ctx context.Context, key string) ([]byte, bool, error)
	Set(ctx context.Context, key string, val []byte, ttl time.Duration) error
}

// Query describes one proxied request.
type Query struct {
	Endpoint string // apod (default), mars-photos, images, or a planetary name
	Date     string
	Count    string
	Q        string // image search term, images only
	Params   map[string]string
}

// Client talks to api.nasa.gov and images-api.nasa.gov.
type Client struct {
	apiURL     string
	imagesURL  string
	apiKey     string
	httpClient *http.Client
	cache      Cache
	cacheTTL   time.Duration
	metrics    *metrics.Metrics
	logger     *zap.Logger
}

type Option func(*Client)

func WithHTTPClient(hc *http.Client) Option { return func(c *Client) { c.httpClient = hc } }

func WithCache(cache Cache, ttl time.Duration) Option {
	return func(c *Client) {
		c.cache = cache
		c.cacheTTL = ttl
	}
}

func WithMetrics(m *metrics.Metrics) Option { return func(c *Client) { c.metrics = m } }

func WithLogger(l *zap.Logger) Option { return func(c *Client) { c.logger = l } }

func NewClient(apiURL, imagesURL, apiKey string, opts ...Option) *Client {
	c := &Client{
		apiURL:     strings.TrimRight(apiURL, "/"),
		imagesURL:  strings.TrimRight(imagesURL, "/"),
		apiKey:     apiKey,
		httpClient: &http.Client{},
		logger:     zap.NewNop(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// BuildURL resolves q into the upstream URL.
func (c *Client) BuildURL(q Query) (string, error) {
	endpoint := q.Endpoint
	if endpoint == "" {
		endpoint = "apod"
	}
	if !endpointRe.MatchString(endpoint) {
		return "", fmt.Errorf("%w: %q", ErrInvalidEndpoint, endpoint)
	}

	vals := url.Values{}
	var base string
	switch endpoint {
	case "images":
		term := q.Q
		if term == "" {
			term = "space"
		}
		base = c.imagesURL + "/search"
		vals.Set("q", term)
		vals.Set("media_type", "image")
	case "mars-photos":
		base = c.apiURL + "/mars-photos/api/v1/rovers/curiosity/photos"
		vals.Set("api_key", c.apiKey)
	default:
		base = c.apiURL + "/planetary/" + endpoint
		vals.Set("api_key", c.apiKey)
	}

	if q.Date != "" {
		vals.Set("date", q.Date)
	}
	if q.Count != "" {
		vals.Set("count", q.Count)
	}
	for k, v := range q.Params {
		vals.Set(k, v)
	}
	// APOD rejects count together with date.
	if endpoint == "apod" && !vals.Has("count") && !vals.Has("date") {
		vals.Set("count", "6")
	}
	return base + "?" + vals.Encode(), nil
}

// Fetch returns the raw JSON body for q, served from the cache when present.
func (c *Client) Fetch(ctx context.Context, q Query) ([]byte, error) {
	u, err := c.BuildURL(q)
	if err != nil {
		return nil, err
	}
	name := q.Endpoint
	if name == "" {
		name = "apod"
	}

	key := cacheKey(u)
	if c.cache != nil {
		body, ok, err := c.cache.Get(ctx, key)
		if err != nil {
			c.logger.Warn("nasa cache get failed", zap.String("endpoint", name), zap.Error(err))
		} else if ok {
			c.metrics.Cache(true)
			return body, nil
		}
		c.metrics.Cache(false)
	}

	body, err := c.get(ctx, name, u)
	c.metrics.Upstream("nasa", err)
	if err != nil {
		return nil, err
	}

	if c.cache != nil {
		if err := c.cache.Set(ctx, key, body, c.cacheTTL); err != nil {
			c.logger.Warn("nasa cache set failed", zap.String("endpoint", name), zap.Error(err))
		}
	}
	return body, nil
}

// SearchImages queries the image library for term.
func (c *Client) SearchImages(ctx context.Context, term string) (*models.ImageCollection, error) {
	body, err := c.Fetch(ctx, Query{Endpoint: "images", Q: term})
	if err != nil {
		return nil, err
	}
	var coll models.ImageCollection
	if err := json.Unmarshal(body, &coll); err != nil {
		return nil, fmt.Errorf("nasa images: decode: %w", err)
	}
	return &coll, nil
}

// Apod returns count random Astronomy Pictures of the Day.
func (c *Client) Apod(ctx context.Context, count int) ([]models.ApodItem, error) {
	body, err := c.Fetch(ctx, Query{Endpoint: "apod", Count: strconv.Itoa(count)})
	if err != nil {
		return nil, err
	}
	var items []models.ApodItem
	if err := json.Unmarshal(body, &items); err != nil {
		return nil, fmt.Errorf("nasa apod: decode: %w", err)
	}
	return items, nil
}

func (c *Client) get(ctx context.Context, name, u string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, fmt.Errorf("nasa %s: %w", name, err)
	}
	req.Header.Set("User-Agent", UserAgent)
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		// url.Error carries the full URL, api_key included.
		var uerr *url.Error
		if errors.As(err, &uerr) {
			err = uerr.Err
		}
		return nil, fmt.Errorf("nasa %s: %w", name, err)
	}
	defer resp.Body.Close()

	if err := httpx.CheckResp(resp, "nasa", name); err != nil {
		return nil, err
	}
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("nasa %s: read: %w", name, err)
	}
	if !json.Valid(body) {
		return nil, fmt.Errorf("nasa %s: malformed JSON response", name)
	}
	return body, nil
}

// cacheKey hashes the upstream URL so keys never carry the api key.
func cacheKey(u string) string {
	sum := blake2b.Sum256([]byte(u))
	return "nasa:" + hex.EncodeToString(sum[:])
}

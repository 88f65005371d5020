package nasa

import (
	"context"
	"net/http"
	"net/http/httptest"
	"net/url"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ayush/exploring-space/internal/metrics"
)

type memCache struct {
	mu   sync.Mutex
	data map[string][]byte
}

func newMemCache() *memCache { return &memCache{data: map[string][]byte{}} }

func (c *memCache) Get(_ context.Context, key string) ([]byte, bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	v, ok := c.data[key]
	return v, ok, nil
}

func (c *memCache) Set(_ context.Context, key string, val []byte, _ time.Duration) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.data[key] = val
	return nil
}

func TestBuildURL(t *testing.T) {
	c := NewClient("https://api.nasa.gov/", "https://images-api.nasa.gov", "KEY")

	tests := []struct {
		name  string
		query Query
		path  string
		want  url.Values
	}{
		{
			name:  "default apod adds count",
			query: Query{},
			path:  "https://api.nasa.gov/planetary/apod",
			want:  url.Values{"api_key": {"KEY"}, "count": {"6"}},
		},
		{
			name:  "apod with date has no count",
			query: Query{Endpoint: "apod", Date: "2024-01-15"},
			path:  "https://api.nasa.gov/planetary/apod",
			want:  url.Values{"api_key": {"KEY"}, "date": {"2024-01-15"}},
		},
		{
			name:  "apod explicit count",
			query: Query{Endpoint: "apod", Count: "3"},
			path:  "https://api.nasa.gov/planetary/apod",
			want:  url.Values{"api_key": {"KEY"}, "count": {"3"}},
		},
		{
			name:  "mars photos with params",
			query: Query{Endpoint: "mars-photos", Params: map[string]string{"sol": "1000", "camera": "fhaz"}},
			path:  "https://api.nasa.gov/mars-photos/api/v1/rovers/curiosity/photos",
			want:  url.Values{"api_key": {"KEY"}, "sol": {"1000"}, "camera": {"fhaz"}},
		},
		{
			name:  "images search",
			query: Query{Endpoint: "images", Q: "black hole"},
			path:  "https://images-api.nasa.gov/search",
			want:  url.Values{"q": {"black hole"}, "media_type": {"image"}},
		},
		{
			name:  "images default term",
			query: Query{Endpoint: "images"},
			path:  "https://images-api.nasa.gov/search",
			want:  url.Values{"q": {"space"}, "media_type": {"image"}},
		},
		{
			name:  "planetary passthrough",
			query: Query{Endpoint: "earth", Date: "2020-01-01"},
			path:  "https://api.nasa.gov/planetary/earth",
			want:  url.Values{"api_key": {"KEY"}, "date": {"2020-01-01"}},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			raw, err := c.BuildURL(tt.query)
			require.NoError(t, err)
			u, err := url.Parse(raw)
			require.NoError(t, err)
			assert.Equal(t, tt.path, u.Scheme+"://"+u.Host+u.Path)
			assert.Equal(t, tt.want, u.Query())
		})
	}
}

func TestBuildURLRejectsBadEndpoint(t *testing.T) {
	c := NewClient("https://api.nasa.gov", "https://images-api.nasa.gov", "KEY")
	for _, ep := range []string{"../secrets", "APOD", "a/b", "x?y"} {
		_, err := c.BuildURL(Query{Endpoint: ep})
		assert.ErrorIs(t, err, ErrInvalidEndpoint, ep)
	}
}

func TestSearchImages(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/search", r.URL.Path)
		assert.Equal(t, "mars", r.URL.Query().Get("q"))
		assert.Equal(t, UserAgent, r.Header.Get("User-Agent"))
		w.Write([]byte(`{"collection":{"items":[{"links":[{"href":"https://img/1.jpg"}],"data":[{"title":"Mars","description":"Red"}]}]}}`))
	}))
	defer srv.Close()

	c := NewClient(srv.URL, srv.URL, "KEY")
	coll, err := c.SearchImages(context.Background(), "mars")
	require.NoError(t, err)
	require.Len(t, coll.Items(), 1)
	assert.Equal(t, "https://img/1.jpg", coll.Items()[0].Links[0].Href)
	assert.Equal(t, "Mars", coll.Items()[0].Data[0].Title)
}

func TestApod(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/planetary/apod", r.URL.Path)
		assert.Equal(t, "6", r.URL.Query().Get("count"))
		w.Write([]byte(`[{"url":"https://apod/1.jpg","title":"One"},{"hdurl":"https://apod/2hd.jpg"}]`))
	}))
	defer srv.Close()

	c := NewClient(srv.URL, srv.URL, "KEY")
	items, err := c.Apod(context.Background(), 6)
	require.NoError(t, err)
	require.Len(t, items, 2)
	assert.Equal(t, "https://apod/2hd.jpg", items[1].HDURL)
}

func TestFetchErrors(t *testing.T) {
	t.Run("non 2xx", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			http.Error(w, "over quota", http.StatusServiceUnavailable)
		}))
		defer srv.Close()

		_, err := NewClient(srv.URL, srv.URL, "KEY").Fetch(context.Background(), Query{})
		require.Error(t, err)
		assert.Contains(t, err.Error(), "returned 503")
	})

	t.Run("malformed json", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Write([]byte(`<html>oops</html>`))
		}))
		defer srv.Close()

		_, err := NewClient(srv.URL, srv.URL, "KEY").Fetch(context.Background(), Query{})
		require.Error(t, err)
		assert.Contains(t, err.Error(), "malformed JSON")
	})

	t.Run("transport error hides api key", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
		srv.Close()

		_, err := NewClient(srv.URL, srv.URL, "SECRET").Fetch(context.Background(), Query{})
		require.Error(t, err)
		assert.NotContains(t, err.Error(), "SECRET")
	})
}

func TestFetchUsesCache(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.Write([]byte(`[]`))
	}))
	defer srv.Close()

	m := metrics.New(prometheus.NewRegistry())
	cache := newMemCache()
	c := NewClient(srv.URL, srv.URL, "KEY", WithCache(cache, time.Hour), WithMetrics(m))

	for i := 0; i < 3; i++ {
		body, err := c.Fetch(context.Background(), Query{Endpoint: "apod"})
		require.NoError(t, err)
		assert.Equal(t, "[]", string(body))
	}

	assert.EqualValues(t, 1, calls.Load())
	assert.Equal(t, 2.0, testutil.ToFloat64(m.CacheTotal.WithLabelValues("hit")))
	for key := range cache.data {
		assert.NotContains(t, key, "KEY")
	}
}

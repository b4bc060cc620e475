package marketcheck

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/cartribe/backend/internal/domain"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestClient(t *testing.T, baseURL string, cfg ClientConfig) *Client {
	t.Helper()
	cfg.APIKey = "test-api-key"
	cfg.BaseURL = baseURL
	client, err := NewClient(cfg, zerolog.Nop(), WithRetryWait(time.Millisecond, 5*time.Millisecond))
	require.NoError(t, err)
	return client
}

func writeListings(t *testing.T, w http.ResponseWriter, listings ...domain.MarketCheckListing) {
	t.Helper()
	w.Header().Set("Content-Type", "application/json")
	err := json.NewEncoder(w).Encode(domain.MarketCheckSearchResponse{
		NumFound: len(listings),
		Listings: listings,
	})
	require.NoError(t, err)
}

func TestNewClient(t *testing.T) {
	t.Run("requires API key", func(t *testing.T) {
		client, err := NewClient(ClientConfig{}, zerolog.Nop())
		assert.Nil(t, client)
		assert.ErrorIs(t, err, domain.ErrMissingAPIKey)
	})

	t.Run("applies defaults", func(t *testing.T) {
		client, err := NewClient(ClientConfig{APIKey: "k"}, zerolog.Nop())
		require.NoError(t, err)
		assert.Equal(t, DefaultBaseURL, client.baseURL)
		assert.Equal(t, 15*time.Second, client.timeout)
		assert.Equal(t, 40, client.rows)
		assert.Equal(t, "10523", client.defaultPostalCode)
		assert.Equal(t, 25, client.defaultRadius)
		assert.Equal(t, 0, client.http.RetryMax)
		assert.NotNil(t, client.rateLimiter)
	})
}

func TestSearchActive_RequestParams(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/search/car/active", r.URL.Path)
		q := r.URL.Query()
		assert.Equal(t, "test-api-key", q.Get("api_key"))
		assert.Equal(t, "used", q.Get("car_type"))
		assert.Equal(t, "40", q.Get("rows"))
		assert.Equal(t, "2019 toyota supra", q.Get("year_make_model"))
		assert.Equal(t, "90210", q.Get("zip"))
		assert.Equal(t, "50", q.Get("radius"))
		assert.Equal(t, "distance", q.Get("sort_by"))

		writeListings(t, w, domain.MarketCheckListing{ID: "a", VIN: "JTDZZZ"})
	}))
	defer server.Close()

	client := newTestClient(t, server.URL, ClientConfig{})
	result, err := client.SearchActive(context.Background(), domain.SearchQuery{
		Text:        "2019 toyota supra",
		PostalCode:  "90210",
		RadiusMiles: 50,
	})

	require.NoError(t, err)
	assert.Len(t, result.Listings, 1)
	assert.Equal(t, "JTDZZZ", result.Listings[0].VIN)
}

func TestSearchActive_DefaultLocation(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		assert.Equal(t, "10523", q.Get("zip"))
		assert.Equal(t, "25", q.Get("radius"))
		assert.Equal(t, "", q.Get("year_make_model"))
		writeListings(t, w)
	}))
	defer server.Close()

	client := newTestClient(t, server.URL, ClientConfig{})
	result, err := client.SearchActive(context.Background(), domain.SearchQuery{})

	require.NoError(t, err)
	assert.Empty(t, result.Listings)
}

func TestSearchActive_ServerError_Retries(t *testing.T) {
	var attempts atomic.Int32

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if attempts.Add(1) < 3 {
			w.WriteHeader(http.StatusInternalServerError)
			return
		}
		writeListings(t, w, domain.MarketCheckListing{ID: "after-retry"})
	}))
	defer server.Close()

	client := newTestClient(t, server.URL, ClientConfig{RetryMax: 2})
	result, err := client.SearchActive(context.Background(), domain.SearchQuery{})

	require.NoError(t, err)
	assert.Len(t, result.Listings, 1)
	assert.Equal(t, int32(3), attempts.Load())
}

func TestSearchActive_ServerError_GivesUp(t *testing.T) {
	var attempts atomic.Int32

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		attempts.Add(1)
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer server.Close()

	client := newTestClient(t, server.URL, ClientConfig{RetryMax: 2})
	result, err := client.SearchActive(context.Background(), domain.SearchQuery{})

	assert.Nil(t, result)
	assert.ErrorIs(t, err, domain.ErrUpstreamFailure)
	assert.Equal(t, int32(3), attempts.Load())
}

func TestSearchActive_ClientError_NoRetry(t *testing.T) {
	var attempts atomic.Int32

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		attempts.Add(1)
		w.WriteHeader(http.StatusBadRequest)
	}))
	defer server.Close()

	client := newTestClient(t, server.URL, ClientConfig{RetryMax: 2})
	result, err := client.SearchActive(context.Background(), domain.SearchQuery{})

	assert.Nil(t, result)
	assert.ErrorIs(t, err, domain.ErrUpstreamFailure)
	assert.Equal(t, int32(1), attempts.Load())
}

func TestSearchActive_Timeout(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-time.After(2 * time.Second):
		case <-r.Context().Done():
		}
	}))
	defer server.Close()

	client := newTestClient(t, server.URL, ClientConfig{Timeout: 50 * time.Millisecond})

	start := time.Now()
	result, err := client.SearchActive(context.Background(), domain.SearchQuery{})

	assert.Nil(t, result)
	assert.ErrorIs(t, err, domain.ErrUpstreamFailure)
	assert.Less(t, time.Since(start), time.Second)
}

func TestSearchActive_MalformedJSON(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"listings": [`))
	}))
	defer server.Close()

	client := newTestClient(t, server.URL, ClientConfig{})
	_, err := client.SearchActive(context.Background(), domain.SearchQuery{})

	assert.ErrorIs(t, err, domain.ErrUpstreamFailure)
}

func TestSearchActive_TransportErrorRedactsKey(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	baseURL := server.URL
	server.Close()

	client := newTestClient(t, baseURL, ClientConfig{})
	_, err := client.SearchActive(context.Background(), domain.SearchQuery{})

	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrUpstreamFailure)
	assert.NotContains(t, err.Error(), "test-api-key")
}

func TestSearchByVIN(t *testing.T) {
	t.Run("returns the single match", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			q := r.URL.Query()
			assert.Equal(t, "WBA3A5C51CF256651", q.Get("vin"))
			assert.Equal(t, "1", q.Get("rows"))
			assert.Empty(t, q.Get("year_make_model"))
			writeListings(t, w, domain.MarketCheckListing{ID: "WBA3A5C51CF256651-abc", VIN: "WBA3A5C51CF256651"})
		}))
		defer server.Close()

		client := newTestClient(t, server.URL, ClientConfig{})
		item, err := client.SearchByVIN(context.Background(), "WBA3A5C51CF256651")

		require.NoError(t, err)
		assert.Equal(t, "WBA3A5C51CF256651-abc", item.ID)
	})

	t.Run("no records is not found", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			writeListings(t, w)
		}))
		defer server.Close()

		client := newTestClient(t, server.URL, ClientConfig{})
		item, err := client.SearchByVIN(context.Background(), "WBA3A5C51CF256651")

		assert.Nil(t, item)
		assert.ErrorIs(t, err, domain.ErrListingNotFound)
	})

	t.Run("404 is not found", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusNotFound)
		}))
		defer server.Close()

		client := newTestClient(t, server.URL, ClientConfig{})
		_, err := client.SearchByVIN(context.Background(), "WBA3A5C51CF256651")

		assert.ErrorIs(t, err, domain.ErrListingNotFound)
	})

	t.Run("empty VIN is rejected without a request", func(t *testing.T) {
		var attempts atomic.Int32
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			attempts.Add(1)
		}))
		defer server.Close()

		client := newTestClient(t, server.URL, ClientConfig{})
		_, err := client.SearchByVIN(context.Background(), "")

		assert.ErrorIs(t, err, domain.ErrInvalidRequest)
		assert.Equal(t, int32(0), attempts.Load())
	})
}

func TestPing(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "1", r.URL.Query().Get("rows"))
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"num_found": 123456, "listings": []}`))
	}))
	defer server.Close()

	client := newTestClient(t, server.URL, ClientConfig{})
	count, err := client.Ping(context.Background())

	require.NoError(t, err)
	assert.Equal(t, 123456, count)
}

func TestRedact(t *testing.T) {
	client := newTestClient(t, "http://example.test", ClientConfig{})
	got := client.redact(`Get "http://example.test/search/car/active?api_key=test-api-key&rows=1": EOF`)
	assert.NotContains(t, got, "test-api-key")
	assert.Contains(t, got, "api_key=REDACTED")
}

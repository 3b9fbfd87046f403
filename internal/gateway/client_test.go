package gateway

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"golang.org/x/time/rate"
	"trading-journal-go/internal/config"
	"trading-journal-go/internal/models"
)

// setupTestServer creates a new test server and a Client configured to use it.
func setupTestServer(handler http.Handler) (*Client, *httptest.Server) {
	server := httptest.NewServer(handler)

	c := &Client{
		client:     resty.New().SetBaseURL(server.URL),
		logger:     zap.NewNop(),
		limiter:    rate.NewLimiter(rate.Inf, 1), // Allow all requests in tests
		maxRetries: 3,
		backoff:    time.Millisecond,
	}

	return c, server
}

func TestFetchTrades(t *testing.T) {
	t.Run("Success", func(t *testing.T) {
		handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, http.MethodGet, r.Method)
			assert.Equal(t, "/trades", r.URL.Path)
			w.Header().Set("Content-Type", "application/json")
			_, _ = w.Write([]byte(`[{"id":"1","date":"2026-10-01","pair":"es","type":"Long","pnl":450,"fee":12}]`))
		})
		c, server := setupTestServer(handler)
		defer server.Close()

		trades, err := c.FetchTrades(context.Background())

		require.NoError(t, err)
		require.Len(t, trades, 1)
		assert.Equal(t, "ES", trades[0].Pair)
		assert.Equal(t, 438.0, trades[0].NetPnL())
	})

	t.Run("DoubleEncoded", func(t *testing.T) {
		handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			_, _ = w.Write([]byte(`"[{\"id\":\"1\",\"date\":\"2026-10-01\",\"pair\":\"ES\",\"type\":\"Short\",\"pnl\":-5}]"`))
		})
		c, server := setupTestServer(handler)
		defer server.Close()

		trades, err := c.FetchTrades(context.Background())

		require.NoError(t, err)
		require.Len(t, trades, 1)
		assert.Equal(t, models.SideShort, trades[0].Type)
	})

	t.Run("EmptyStore", func(t *testing.T) {
		handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			_, _ = w.Write([]byte(`[]`))
		})
		c, server := setupTestServer(handler)
		defer server.Close()

		trades, err := c.FetchTrades(context.Background())

		require.NoError(t, err)
		assert.Empty(t, trades)
	})

	t.Run("RetriesServerErrors", func(t *testing.T) {
		var calls int32
		handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if atomic.AddInt32(&calls, 1) < 3 {
				w.WriteHeader(http.StatusServiceUnavailable)
				return
			}
			_, _ = w.Write([]byte(`[]`))
		})
		c, server := setupTestServer(handler)
		defer server.Close()

		_, err := c.FetchTrades(context.Background())

		assert.NoError(t, err)
		assert.Equal(t, int32(3), atomic.LoadInt32(&calls))
	})

	t.Run("ClientErrorNotRetried", func(t *testing.T) {
		var calls int32
		handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			atomic.AddInt32(&calls, 1)
			w.WriteHeader(http.StatusUnauthorized)
		})
		c, server := setupTestServer(handler)
		defer server.Close()

		_, err := c.FetchTrades(context.Background())

		assert.Error(t, err)
		assert.Contains(t, err.Error(), "failed to fetch trades")
		assert.Equal(t, int32(1), atomic.LoadInt32(&calls))
	})

	t.Run("CorruptPayload", func(t *testing.T) {
		handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			_, _ = w.Write([]byte(`{"oops":`))
		})
		c, server := setupTestServer(handler)
		defer server.Close()

		_, err := c.FetchTrades(context.Background())

		assert.Error(t, err)
	})
}

func TestSaveTrades(t *testing.T) {
	t.Run("SendsFullList", func(t *testing.T) {
		var received []models.Trade
		handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, http.MethodPost, r.Method)
			assert.Equal(t, "/trades", r.URL.Path)
			assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
			assert.NoError(t, json.NewDecoder(r.Body).Decode(&received))
			w.WriteHeader(http.StatusOK)
		})
		c, server := setupTestServer(handler)
		defer server.Close()

		trades := []models.Trade{
			{ID: "1", Date: "2026-10-01", Pair: "ES", Type: models.SideLong, PnL: 10},
			{ID: "2", Date: "2026-10-02", Pair: "NQ", Type: models.SideShort, PnL: -3},
		}
		err := c.SaveTrades(context.Background(), trades)

		require.NoError(t, err)
		assert.Equal(t, trades, received)
	})

	t.Run("NilSendsEmptyArray", func(t *testing.T) {
		var body string
		handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			data, _ := io.ReadAll(r.Body)
			body = string(data)
		})
		c, server := setupTestServer(handler)
		defer server.Close()

		require.NoError(t, c.SaveTrades(context.Background(), nil))
		assert.Equal(t, "[]", body)
	})

	t.Run("FailureIsSingleAttempt", func(t *testing.T) {
		var calls int32
		handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			atomic.AddInt32(&calls, 1)
			w.WriteHeader(http.StatusInternalServerError)
		})
		c, server := setupTestServer(handler)
		defer server.Close()

		err := c.SaveTrades(context.Background(), nil)

		assert.Error(t, err)
		assert.Equal(t, int32(1), atomic.LoadInt32(&calls))
	})
}

func TestUpload(t *testing.T) {
	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/upload", r.URL.Path)
		assert.Equal(t, "chart.png", r.URL.Query().Get("filename"))
		data, _ := io.ReadAll(r.Body)
		assert.Equal(t, []byte{0x89, 0x50, 0x4e, 0x47}, data)
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"url":"http://blobs.local/files/abc/chart.png"}`))
	})
	c, server := setupTestServer(handler)
	defer server.Close()

	url, err := c.Upload(context.Background(), "chart.png", []byte{0x89, 0x50, 0x4e, 0x47})

	require.NoError(t, err)
	assert.Equal(t, "http://blobs.local/files/abc/chart.png", url)

	_, err = c.Upload(context.Background(), "", nil)
	assert.Error(t, err)
}

func TestNewClient(t *testing.T) {
	cfg := &config.Gateway{BaseURL: "http://localhost:1", Token: "tkn", RateLimit: 5, RateLimitBurst: 1, TimeoutSeconds: 2}

	c := NewClient(cfg, zap.NewNop())

	assert.NotNil(t, c)
	assert.Equal(t, 1, c.maxRetries, "max retries is at least one attempt")
	assert.Equal(t, "tkn", c.client.Token)
}

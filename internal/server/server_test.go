package server

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"grindgears/internal/config"
	"grindgears/internal/gearsapi"
	"grindgears/internal/repository"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func testConfig(baseURL string) *config.Config {
	return &config.Config{
		Server:   config.ServerConfig{Port: "0", Env: "development"},
		GearsAPI: config.GearsAPIConfig{BaseURL: baseURL, Timeout: 5 * time.Second, Port: "0", Storage: "memory"},
		Checkout: config.CheckoutConfig{ClearDelay: time.Millisecond},
		RateLimit: config.RateLimitConfig{
			Enabled:  true,
			Requests: 3,
			Window:   time.Minute,
		},
	}
}

func startGearsAPI(t *testing.T) (*httptest.Server, *repository.Repositories) {
	t.Helper()
	repos := repository.NewMemory()
	require.NoError(t, gearsapi.Seed(context.Background(), repos, zap.NewNop()))

	api := NewGearsAPI(testConfig(""), zap.NewNop(), repos, nil)
	t.Cleanup(func() { api.Close() })

	backend := httptest.NewServer(api.Handler)
	t.Cleanup(backend.Close)
	return backend, repos
}

func TestGearsAPIHealthReportsMemoryStorage(t *testing.T) {
	backend, _ := startGearsAPI(t)

	resp, err := http.Get(backend.URL + "/health")
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	var health map[string]string
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&health))
	assert.Equal(t, "memory", health["storage"])
}

func TestStorefrontPreloadsFromBackend(t *testing.T) {
	backend, repos := startGearsAPI(t)
	gears, err := repos.Gears.List(context.Background())
	require.NoError(t, err)
	require.NoError(t, repos.Cart.Add(context.Background(), gears[0].Product.ID, 2))

	cfg := testConfig(backend.URL + "/api/v1")
	cfg.RateLimit.Enabled = false
	srv := NewStorefront(cfg, zap.NewNop(), nil)
	t.Cleanup(func() { srv.Close() })

	srv.Preload(context.Background())
	assert.Len(t, srv.catalog.Products(), len(gears))
	assert.Equal(t, 1, srv.store.Count())

	rec := httptest.NewRecorder()
	srv.Handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/cart", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), gears[0].Product.ID)
}

func TestPreloadSeedsCartWhenCatalogFails(t *testing.T) {
	backend, repos := startGearsAPI(t)
	gears, err := repos.Gears.List(context.Background())
	require.NoError(t, err)
	require.NoError(t, repos.Cart.Add(context.Background(), gears[0].Product.ID, 1))

	proxy := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch {
		case r.URL.Path == "/api/v1/gears":
			w.WriteHeader(http.StatusInternalServerError)
			return
		case strings.HasPrefix(r.URL.Path, "/api/v1/cart"):
			time.Sleep(50 * time.Millisecond)
		}
		resp, err := http.Get(backend.URL + r.URL.RequestURI())
		if err != nil {
			w.WriteHeader(http.StatusBadGateway)
			return
		}
		defer resp.Body.Close()
		w.Header().Set("Content-Type", resp.Header.Get("Content-Type"))
		w.WriteHeader(resp.StatusCode)
		_, _ = io.Copy(w, resp.Body)
	}))
	t.Cleanup(proxy.Close)

	cfg := testConfig(proxy.URL + "/api/v1")
	cfg.RateLimit.Enabled = false
	srv := NewStorefront(cfg, zap.NewNop(), nil)
	t.Cleanup(func() { srv.Close() })

	srv.Preload(context.Background())
	assert.Empty(t, srv.catalog.Products())
	assert.Equal(t, 1, srv.store.Count())
}

func TestStorefrontRateLimitsWithRedis(t *testing.T) {
	mr, err := miniredis.Run()
	require.NoError(t, err)
	t.Cleanup(mr.Close)

	srv := NewStorefront(testConfig("http://127.0.0.1:1/api/v1"), zap.NewNop(), redis.NewClient(&redis.Options{Addr: mr.Addr()}))
	t.Cleanup(func() { srv.Close() })

	codes := make([]int, 0, 4)
	for i := 0; i < 4; i++ {
		rec := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/health", nil)
		req.RemoteAddr = "203.0.113.7:5555"
		srv.Handler.ServeHTTP(rec, req)
		codes = append(codes, rec.Code)
	}
	assert.Equal(t, []int{200, 200, 200, 429}, codes)
}

func TestStorefrontWithoutRedisIsNotLimited(t *testing.T) {
	srv := NewStorefront(testConfig("http://127.0.0.1:1/api/v1"), zap.NewNop(), nil)
	t.Cleanup(func() { srv.Close() })

	for i := 0; i < 5; i++ {
		rec := httptest.NewRecorder()
		srv.Handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/health", nil))
		require.Equal(t, http.StatusOK, rec.Code)
	}
}

package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/labstack/echo/v4"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aks-110/quickstay/internal/config"
)

func cacheTestConfig() config.CacheConfig {
	return config.CacheConfig{
		Enabled:      true,
		Methods:      map[string]bool{"GET": true},
		TTL:          time.Minute,
		KeyStrategy:  "route_query",
		Prefix:       "cache",
		MaxBodyBytes: 1 << 20,
	}
}

func TestRedisCacheServesSecondRequestFromCache(t *testing.T) {
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})

	hits := 0
	e := echo.New()
	e.GET("/v1/rooms", func(c echo.Context) error {
		hits++
		return c.JSON(http.StatusOK, echo.Map{"success": true, "rooms": []string{"Double Bed"}})
	}, NewRedisCache(cacheTestConfig(), rdb))

	first := httptest.NewRecorder()
	e.ServeHTTP(first, httptest.NewRequest(http.MethodGet, "/v1/rooms", nil))
	require.Equal(t, http.StatusOK, first.Code)
	assert.Equal(t, "MISS", first.Header().Get("X-Cache"))

	second := httptest.NewRecorder()
	e.ServeHTTP(second, httptest.NewRequest(http.MethodGet, "/v1/rooms", nil))
	require.Equal(t, http.StatusOK, second.Code)
	assert.Equal(t, "HIT", second.Header().Get("X-Cache"))
	assert.Equal(t, first.Body.String(), second.Body.String())
	assert.Equal(t, 1, hits, "handler runs once; the second response comes from Redis")
}

func TestRedisCacheVariesOnQuery(t *testing.T) {
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})

	hits := 0
	e := echo.New()
	e.GET("/v1/rooms", func(c echo.Context) error {
		hits++
		return c.JSON(http.StatusOK, echo.Map{"city": c.QueryParam("city")})
	}, NewRedisCache(cacheTestConfig(), rdb))

	for _, target := range []string{"/v1/rooms?city=Brighton", "/v1/rooms?city=Leeds"} {
		rec := httptest.NewRecorder()
		e.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, target, nil))
		require.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, "MISS", rec.Header().Get("X-Cache"))
	}
	assert.Equal(t, 2, hits)
}

func TestRedisCacheDisabledWithoutClient(t *testing.T) {
	hits := 0
	e := echo.New()
	e.GET("/v1/rooms", func(c echo.Context) error {
		hits++
		return c.String(http.StatusOK, "ok")
	}, NewRedisCache(cacheTestConfig(), nil))

	for i := 0; i < 2; i++ {
		rec := httptest.NewRecorder()
		e.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/v1/rooms", nil))
		require.Equal(t, http.StatusOK, rec.Code)
	}
	assert.Equal(t, 2, hits, "without Redis every request reaches the handler")
}

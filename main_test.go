package main

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/require"
	"github.com/wordcollab/wordcollab/internal/config"
	"github.com/wordcollab/wordcollab/internal/word/repository"
	"github.com/wordcollab/wordcollab/internal/word/service"
	"github.com/wordcollab/wordcollab/pkg/middleware"
)

type fakePinger struct{ err error }

func (f fakePinger) Ping(context.Context) error { return f.err }

func testApp(p pinger) *app {
	gin.SetMode(gin.TestMode)
	return &app{
		cfg:   &config.Config{},
		words: service.NewStore(repository.NewMemoryRepo()),
		mongo: p,
	}
}

func serve(r *gin.Engine, method, path, body string) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, path, nil)
	} else {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	}
	r.ServeHTTP(w, req)
	return w
}

func TestHealth(t *testing.T) {
	r := newRouter(testApp(fakePinger{}))
	w := serve(r, http.MethodGet, "/health", "")
	require.Equal(t, http.StatusOK, w.Code)
	require.Equal(t, "healthy", w.Body.String())
	require.NotEmpty(t, w.Header().Get(middleware.RequestIDHeader))
}

func TestReady(t *testing.T) {
	w := serve(newRouter(testApp(fakePinger{})), http.MethodGet, "/ready", "")
	require.Equal(t, http.StatusOK, w.Code)

	w = serve(newRouter(testApp(fakePinger{err: errors.New("no reachable servers")})), http.MethodGet, "/ready", "")
	require.Equal(t, http.StatusServiceUnavailable, w.Code)
	var body struct {
		Status string          `json:"status"`
		Deps   map[string]bool `json:"deps"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	require.Equal(t, "not_ready", body.Status)
	require.False(t, body.Deps["mongo"])
}

func TestReady_RedisConfiguredButDown(t *testing.T) {
	a := testApp(fakePinger{})
	a.cfg.Redis = config.RedisConfig{Host: "127.0.0.1", Port: "6379"}
	w := serve(newRouter(a), http.MethodGet, "/ready", "")
	require.Equal(t, http.StatusServiceUnavailable, w.Code)

	mr := miniredis.RunT(t)
	a.redis = redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = a.redis.Close() })
	w = serve(newRouter(a), http.MethodGet, "/ready", "")
	require.Equal(t, http.StatusOK, w.Code)
}

func TestWordRoutesMounted(t *testing.T) {
	r := newRouter(testApp(fakePinger{}))

	w := serve(r, http.MethodPost, "/api/words", `{"word":"hello"}`)
	require.Equal(t, http.StatusOK, w.Code)

	for _, path := range []string{"/words", "/api/words"} {
		w = serve(r, http.MethodGet, path, "")
		require.Equal(t, http.StatusOK, w.Code)
		require.Contains(t, w.Body.String(), `"text":"hello"`)
	}

	// export is not mounted without object storage
	w = serve(r, http.MethodPost, "/export", "")
	require.Equal(t, http.StatusNotFound, w.Code)
}

func TestRateLimitApplied(t *testing.T) {
	a := testApp(fakePinger{})
	a.cfg.RateLimit = config.RateLimitConfig{Enabled: true, RPS: 0.001, Burst: 1}
	r := newRouter(a)

	require.Equal(t, http.StatusOK, serve(r, http.MethodGet, "/health", "").Code)
	require.Equal(t, http.StatusTooManyRequests, serve(r, http.MethodGet, "/health", "").Code)
}

func TestMetricsEndpoint(t *testing.T) {
	w := serve(newRouter(testApp(fakePinger{})), http.MethodGet, "/metrics", "")
	require.Equal(t, http.StatusOK, w.Code)
	require.Contains(t, w.Body.String(), "go_goroutines")
}

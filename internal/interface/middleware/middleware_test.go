package middleware

import (
	"bytes"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"

	"github.com/oksasatya/user-cache-api/internal/metrics"
)

func newRedis(t *testing.T) (*miniredis.Miniredis, *redis.Client) {
	t.Helper()
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = rdb.Close() })
	return mr, rdb
}

func serve(r http.Handler, method, target string, headers map[string]string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, target, nil)
	for k, v := range headers {
		req.Header.Set(k, v)
	}
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	return rec
}

func TestRateLimit_BlocksAfterLimit(t *testing.T) {
	gin.SetMode(gin.TestMode)
	_, rdb := newRedis(t)

	r := gin.New()
	r.Use(RealIP())
	r.POST("/users", RateLimit(rdb, 2, time.Minute, KeyByIPAndPath(), nil), func(c *gin.Context) {
		c.Status(http.StatusCreated)
	})

	for i := 0; i < 2; i++ {
		rec := serve(r, http.MethodPost, "/users", nil)
		if rec.Code != http.StatusCreated {
			t.Fatalf("request %d: expected 201, got %d", i+1, rec.Code)
		}
	}
	rec := serve(r, http.MethodPost, "/users", nil)
	if rec.Code != http.StatusTooManyRequests {
		t.Fatalf("expected 429, got %d", rec.Code)
	}
	if rec.Header().Get("Retry-After") == "" {
		t.Fatalf("expected Retry-After header")
	}
	if got := rec.Header().Get("X-RateLimit-Remaining"); got != "0" {
		t.Fatalf("expected remaining 0, got %q", got)
	}

	// A different client has its own budget.
	rec = serve(r, http.MethodPost, "/users", map[string]string{"X-Forwarded-For": "203.0.113.9"})
	if rec.Code != http.StatusCreated {
		t.Fatalf("expected other client to pass, got %d", rec.Code)
	}
}

func TestRateLimit_WindowExpires(t *testing.T) {
	gin.SetMode(gin.TestMode)
	mr, rdb := newRedis(t)

	r := gin.New()
	r.GET("/x", RateLimit(rdb, 1, time.Second, KeyByIP(), nil), func(c *gin.Context) { c.Status(http.StatusOK) })

	if rec := serve(r, http.MethodGet, "/x", nil); rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if rec := serve(r, http.MethodGet, "/x", nil); rec.Code != http.StatusTooManyRequests {
		t.Fatalf("expected 429, got %d", rec.Code)
	}
	mr.FastForward(2 * time.Second)
	if rec := serve(r, http.MethodGet, "/x", nil); rec.Code != http.StatusOK {
		t.Fatalf("expected 200 after window, got %d", rec.Code)
	}
}

func TestRateLimit_FailsOpenAndBypasses(t *testing.T) {
	gin.SetMode(gin.TestMode)
	mr, err := miniredis.Run()
	if err != nil {
		t.Fatalf("start miniredis: %v", err)
	}
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr(), MaxRetries: -1})
	t.Cleanup(func() { _ = rdb.Close() })

	r := gin.New()
	r.GET("/open", RateLimit(rdb, 1, time.Minute, KeyByIP(), nil), func(c *gin.Context) { c.Status(http.StatusOK) })
	r.GET("/private", RateLimit(rdb, 1, time.Minute, KeyByIP(), AllowPrivateIP()), func(c *gin.Context) { c.Status(http.StatusOK) })
	r.GET("/nil", RateLimit(nil, 1, time.Minute, KeyByIP(), nil), func(c *gin.Context) { c.Status(http.StatusOK) })

	// httptest requests come from 192.0.2.1, which is not private.
	serve(r, http.MethodGet, "/private", nil)
	if rec := serve(r, http.MethodGet, "/private", nil); rec.Code != http.StatusTooManyRequests {
		t.Fatalf("expected public client to be limited, got %d", rec.Code)
	}

	for i := 0; i < 3; i++ {
		if rec := serve(r, http.MethodGet, "/nil", nil); rec.Code != http.StatusOK {
			t.Fatalf("expected nil client to disable limiting, got %d", rec.Code)
		}
	}

	mr.Close()
	for i := 0; i < 3; i++ {
		if rec := serve(r, http.MethodGet, "/open", nil); rec.Code != http.StatusOK {
			t.Fatalf("expected fail-open when redis is down, got %d", rec.Code)
		}
	}
}

func TestAllowPrivateIP(t *testing.T) {
	gin.SetMode(gin.TestMode)
	allow := AllowPrivateIP()
	cases := map[string]bool{
		"127.0.0.1":   true,
		"10.1.2.3":    true,
		"192.168.1.1": true,
		"8.8.8.8":     false,
		"garbage":     false,
	}
	for ip, want := range cases {
		c, _ := gin.CreateTestContext(httptest.NewRecorder())
		c.Request = httptest.NewRequest(http.MethodGet, "/", nil)
		c.Set("real_ip", ip)
		if got := allow(c); got != want {
			t.Fatalf("%s: expected %v, got %v", ip, want, got)
		}
	}
}

func TestRealIP_HeaderPriority(t *testing.T) {
	gin.SetMode(gin.TestMode)
	var seen string
	r := gin.New()
	r.Use(RealIP())
	r.GET("/", func(c *gin.Context) { seen = c.GetString("real_ip") })

	serve(r, http.MethodGet, "/", map[string]string{
		"X-Forwarded-For":  "198.51.100.1, 10.0.0.1",
		"CF-Connecting-IP": "203.0.113.5",
	})
	if seen != "203.0.113.5" {
		t.Fatalf("expected cloudflare ip, got %q", seen)
	}

	serve(r, http.MethodGet, "/", map[string]string{"X-Forwarded-For": "198.51.100.1, 10.0.0.1"})
	if seen != "198.51.100.1" {
		t.Fatalf("expected left-most forwarded ip, got %q", seen)
	}
}

func TestRequestID(t *testing.T) {
	gin.SetMode(gin.TestMode)
	var seen string
	r := gin.New()
	r.Use(RequestIDMiddleware())
	r.GET("/", func(c *gin.Context) { seen = c.GetString("request_id") })

	rec := serve(r, http.MethodGet, "/", nil)
	if _, err := uuid.Parse(seen); err != nil {
		t.Fatalf("expected generated uuid, got %q", seen)
	}
	if rec.Header().Get(HeaderRequestID) != seen {
		t.Fatalf("expected header to echo request id")
	}

	incoming := uuid.NewString()
	serve(r, http.MethodGet, "/", map[string]string{HeaderRequestID: incoming})
	if seen != incoming {
		t.Fatalf("expected incoming id %q, got %q", incoming, seen)
	}

	serve(r, http.MethodGet, "/", map[string]string{HeaderRequestID: "not-a-uuid"})
	if seen == "not-a-uuid" {
		t.Fatalf("expected malformed id to be replaced")
	}
}

func TestAccessLog(t *testing.T) {
	gin.SetMode(gin.TestMode)
	var buf bytes.Buffer
	logger := logrus.New()
	logger.SetOutput(&buf)
	logger.SetFormatter(&logrus.JSONFormatter{})

	r := gin.New()
	r.Use(RequestIDMiddleware(), AccessLog(logger))
	r.GET("/users/:id", func(c *gin.Context) { c.Status(http.StatusNotFound) })

	serve(r, http.MethodGet, "/users/42", nil)

	line := buf.String()
	for _, want := range []string{`"route":"/users/:id"`, `"status":404`, `"level":"warning"`, `"request_id"`} {
		if !strings.Contains(line, want) {
			t.Fatalf("expected %s in log line %s", want, line)
		}
	}
}

func TestMetrics_CountsByRoute(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(Metrics())
	r.GET("/users/:id", func(c *gin.Context) { c.Status(http.StatusOK) })

	counter := metrics.HTTPRequestsTotal.WithLabelValues(http.MethodGet, "/users/:id", "200")
	before := testutil.ToFloat64(counter)
	serve(r, http.MethodGet, "/users/1", nil)
	serve(r, http.MethodGet, "/users/2", nil)
	if got := testutil.ToFloat64(counter) - before; got != 2 {
		t.Fatalf("expected 2 requests counted, got %v", got)
	}

	unmatched := metrics.HTTPRequestsTotal.WithLabelValues(http.MethodGet, "unmatched", "404")
	before = testutil.ToFloat64(unmatched)
	serve(r, http.MethodGet, "/nope", nil)
	if got := testutil.ToFloat64(unmatched) - before; got != 1 {
		t.Fatalf("expected unmatched request counted, got %v", got)
	}
}

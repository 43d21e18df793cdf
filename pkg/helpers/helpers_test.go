package helpers

import (
	"bytes"
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/sirupsen/logrus"
	"golang.org/x/crypto/bcrypt"
)

func TestHashPassword_RoundTrip(t *testing.T) {
	PasswordCost = bcrypt.MinCost
	t.Cleanup(func() { PasswordCost = bcrypt.DefaultCost })

	hash, err := HashPassword("password123")
	if err != nil {
		t.Fatalf("HashPassword returned error: %v", err)
	}
	if hash == "password123" {
		t.Fatalf("expected hashed password")
	}
	if !CompareHashAndPassword(hash, "password123") {
		t.Fatalf("expected password to match its hash")
	}
	if CompareHashAndPassword(hash, "password124") {
		t.Fatalf("expected wrong password to be rejected")
	}
}

func TestLogError_AttachesError(t *testing.T) {
	var buf bytes.Buffer
	logger := logrus.New()
	logger.SetOutput(&buf)
	logger.SetFormatter(&logrus.JSONFormatter{})

	LogError(logger, "request failed", errors.New("boom"), logrus.Fields{"request_id": "r1"})

	out := buf.String()
	for _, want := range []string{`"error":"boom"`, `"request_id":"r1"`, `"msg":"request failed"`} {
		if !strings.Contains(out, want) {
			t.Fatalf("expected %s in %s", want, out)
		}
	}
}

func TestRedisJSONHelpers(t *testing.T) {
	mr := miniredis.RunT(t)
	rdb := NewRedisClient(mr.Addr(), "", 0)
	t.Cleanup(func() { _ = rdb.Close() })
	ctx := context.Background()

	if err := PingRedis(ctx, rdb); err != nil {
		t.Fatalf("PingRedis returned error: %v", err)
	}

	type payload struct{ N int }
	var got payload
	hit, err := RedisGetJSON(ctx, rdb, "missing", &got)
	if err != nil || hit {
		t.Fatalf("expected clean miss, got hit=%v err=%v", hit, err)
	}

	if err := RedisSetJSON(ctx, rdb, "k", payload{N: 7}, 0); err != nil {
		t.Fatalf("RedisSetJSON returned error: %v", err)
	}
	hit, err = RedisGetJSON(ctx, rdb, "k", &got)
	if err != nil || !hit || got.N != 7 {
		t.Fatalf("expected hit with 7, got hit=%v n=%d err=%v", hit, got.N, err)
	}

	if err := RedisDel(ctx, rdb); err != nil {
		t.Fatalf("RedisDel with no keys returned error: %v", err)
	}
	if err := RedisDel(ctx, rdb, "k"); err != nil {
		t.Fatalf("RedisDel returned error: %v", err)
	}
	if mr.Exists("k") {
		t.Fatalf("expected key deleted")
	}
}

func TestPingES(t *testing.T) {
	var status atomic.Int32
	status.Store(http.StatusOK)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("X-Elastic-Product", "Elasticsearch")
		w.WriteHeader(int(status.Load()))
	}))
	t.Cleanup(srv.Close)

	es, err := NewESClient([]string{srv.URL}, "", "")
	if err != nil {
		t.Fatalf("NewESClient returned error: %v", err)
	}
	if err := PingES(context.Background(), es); err != nil {
		t.Fatalf("expected healthy ping, got %v", err)
	}

	status.Store(http.StatusServiceUnavailable)
	if err := PingES(context.Background(), es); err == nil {
		t.Fatalf("expected error for unavailable cluster")
	}
}

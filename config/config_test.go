package config

import (
	"testing"
	"time"
)

func TestLoad_Defaults(t *testing.T) {
	cfg := Load()

	if cfg.CacheTTL != 300*time.Second {
		t.Fatalf("expected 300s cache ttl, got %v", cfg.CacheTTL)
	}
	if cfg.CacheBackend != CacheBackendRedis {
		t.Fatalf("expected redis backend, got %q", cfg.CacheBackend)
	}
	if cfg.CacheListStrategy != ListStrategySweep {
		t.Fatalf("expected sweep strategy, got %q", cfg.CacheListStrategy)
	}
	if len(cfg.ESAddrs()) != 0 {
		t.Fatalf("expected elasticsearch disabled by default, got %v", cfg.ESAddrs())
	}
}

func TestLoad_Overrides(t *testing.T) {
	t.Setenv("CACHE_BACKEND", "MEMORY")
	t.Setenv("CACHE_TTL", "90s")
	t.Setenv("CACHE_LIST_STRATEGY", "generation")
	t.Setenv("DB_MAX_CONNS", "25")
	t.Setenv("ELASTICSEARCH_ADDRS", "http://es1:9200, ,http://es2:9200")

	cfg := Load()

	if cfg.CacheBackend != CacheBackendMemory {
		t.Fatalf("expected memory backend, got %q", cfg.CacheBackend)
	}
	if cfg.CacheTTL != 90*time.Second {
		t.Fatalf("expected 90s ttl, got %v", cfg.CacheTTL)
	}
	if cfg.CacheListStrategy != ListStrategyGeneration {
		t.Fatalf("expected generation strategy, got %q", cfg.CacheListStrategy)
	}
	if cfg.DBMaxConns != 25 {
		t.Fatalf("expected 25 max conns, got %d", cfg.DBMaxConns)
	}
	addrs := cfg.ESAddrs()
	if len(addrs) != 2 || addrs[0] != "http://es1:9200" || addrs[1] != "http://es2:9200" {
		t.Fatalf("unexpected es addrs: %v", addrs)
	}
}

func TestLoad_InvalidValuesFallBack(t *testing.T) {
	t.Setenv("CACHE_BACKEND", "memcached")
	t.Setenv("CACHE_TTL", "five minutes")
	t.Setenv("METRICS_ENABLED", "maybe")

	cfg := Load()

	if cfg.CacheBackend != CacheBackendRedis {
		t.Fatalf("expected fallback to redis, got %q", cfg.CacheBackend)
	}
	if cfg.CacheTTL != 300*time.Second {
		t.Fatalf("expected fallback ttl, got %v", cfg.CacheTTL)
	}
	if !cfg.MetricsEnabled {
		t.Fatalf("expected metrics fallback to enabled")
	}
}

func TestPostgresDSN(t *testing.T) {
	c := &Config{DBUser: "u", DBPassword: "p", DBHost: "h", DBPort: "5432", DBName: "d", DBSSLMode: "disable"}
	if got, want := c.PostgresDSN(), "postgres://u:p@h:5432/d?sslmode=disable"; got != want {
		t.Fatalf("expected %q, got %q", want, got)
	}
}

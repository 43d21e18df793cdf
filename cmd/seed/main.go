package main

import (
	"context"
	"errors"
	"fmt"
	"log"

	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"

	"github.com/oksasatya/user-cache-api/config"
	"github.com/oksasatya/user-cache-api/internal/application"
	"github.com/oksasatya/user-cache-api/internal/domain/entity"
	"github.com/oksasatya/user-cache-api/internal/infrastructure/cache"
	pginfra "github.com/oksasatya/user-cache-api/internal/infrastructure/postgres"
	"github.com/oksasatya/user-cache-api/pkg/helpers"
)

const demoPassword = "password123"

var demoUsers = []struct{ name, email string }{
	{"Alice Johnson", "alice.johnson@example.com"},
	{"Bruno Silva", "bruno.silva@example.com"},
	{"Chen Wei", "chen.wei@example.com"},
	{"Dewi Lestari", "dewi.lestari@example.com"},
	{"Emeka Obi", "emeka.obi@example.com"},
	{"Fatima Zahra", "fatima.zahra@example.com"},
	{"Gabriel Costa", "gabriel.costa@example.com"},
	{"Hana Sato", "hana.sato@example.com"},
	{"Ivan Petrov", "ivan.petrov@example.com"},
	{"Julia Novak", "julia.novak@example.com"},
}

func main() {
	_ = godotenv.Load()
	cfg := config.Load()
	logger := helpers.NewLogger(cfg.AppName+"-seed", cfg.Env)
	ctx := context.Background()

	pool, err := pginfra.NewPool(ctx, pginfra.PoolConfig{DSN: cfg.PostgresDSN(), MaxConns: 2, MinConns: 1})
	if err != nil {
		log.Fatalf("failed to connect to postgres: %v", err)
	}
	defer pool.Close()

	// Seed through the service so cached lists are invalidated.
	var store application.CacheStore = cache.NewMemoryStore(cache.DefaultMemorySize)
	if cfg.CacheBackend == config.CacheBackendRedis {
		rdb := helpers.NewRedisClient(cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB)
		defer func() { _ = rdb.Close() }()
		if err := helpers.PingRedis(ctx, rdb); err == nil {
			store = cache.NewRedisStore(rdb)
		}
	}
	svc := application.NewService(pginfra.NewUserRepository(pool), store, logger)

	created, skipped := 0, 0
	for _, d := range demoUsers {
		u, err := svc.Create(ctx, application.CreateUserInput{Name: d.name, Email: d.email, Password: demoPassword})
		switch {
		case errors.Is(err, entity.ErrEmailAlreadyExists):
			skipped++
			continue
		case err != nil:
			log.Fatalf("failed to seed %s: %v", d.email, err)
		}
		created++
		helpers.LogInfo(logger, "seeded user", logrus.Fields{"id": u.ID, "email": u.Email, "name": u.Name})
	}
	fmt.Printf("seed done: created=%d skipped=%d password=%s\n", created, skipped, demoPassword)
}

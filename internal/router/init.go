package router

import (
	"context"

	"github.com/oksasatya/user-cache-api/config"
	appuser "github.com/oksasatya/user-cache-api/internal/application"
	"github.com/oksasatya/user-cache-api/internal/container"
	repouser "github.com/oksasatya/user-cache-api/internal/domain/repository"
	pginfra "github.com/oksasatya/user-cache-api/internal/infrastructure/postgres"
	"github.com/oksasatya/user-cache-api/internal/infrastructure/search"
	handlers "github.com/oksasatya/user-cache-api/internal/interface/http"
	"github.com/oksasatya/user-cache-api/internal/router/modules"
	"github.com/oksasatya/user-cache-api/pkg/helpers"
)

type UserModuleDeps struct {
	Repo    repouser.UserRepository
	Service *appuser.Service
	Handler *handlers.UserHandler
}

// ListPolicyFor picks the list-cache policy named by CACHE_LIST_STRATEGY.
func ListPolicyFor(strategy string, store appuser.CacheStore) appuser.ListCachePolicy {
	if strategy == config.ListStrategyGeneration {
		return appuser.NewGenerationPolicy(store)
	}
	return appuser.NewSweepPolicy(store)
}

func buildUserDeps() UserModuleDeps {
	cfg := container.GetConfig()
	store := container.GetCache()
	repo := pginfra.NewUserRepository(container.GetPGPool())

	opts := []appuser.Option{
		appuser.WithTTL(cfg.CacheTTL),
		appuser.WithListPolicy(ListPolicyFor(cfg.CacheListStrategy, store)),
	}
	if es := container.GetES(); es != nil {
		opts = append(opts, appuser.WithIndexer(search.NewUserIndex(es, cfg.ESUsersIndex)))
	}
	if pub := container.GetRabbitPub(); pub != nil {
		opts = append(opts, appuser.WithEvents(pub))
	}

	service := appuser.NewService(repo, store, container.GetLogger(), opts...)
	handler := handlers.NewUserHandler(service, container.GetLogger())

	return UserModuleDeps{
		Repo:    repo,
		Service: service,
		Handler: handler,
	}
}

func buildHealthChecks() map[string]handlers.Check {
	checks := map[string]handlers.Check{
		"postgres": func(ctx context.Context) error { return container.GetPGPool().Ping(ctx) },
	}
	if rdb := container.GetRedis(); rdb != nil {
		checks["redis"] = func(ctx context.Context) error { return helpers.PingRedis(ctx, rdb) }
	}
	return checks
}

// InitModules initializes all application modules and registers them with the router registry
// This function should be called once during application startup to wire up all modules
func InitModules(r *Registry) {
	cfg := container.GetConfig()
	rdb := container.GetRedis()

	userDeps := buildUserDeps()
	r.Add(modules.NewUserModule(userDeps.Handler, rdb, cfg.RateLimitMax, cfg.RateLimitWindow))
	r.Add(modules.NewHealthModule(handlers.NewHealthHandler(buildHealthChecks())))
	if cfg.MetricsEnabled {
		r.AddRoot(modules.NewMetricsModule(rdb))
	}
}

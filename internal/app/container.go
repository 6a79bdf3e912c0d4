package app

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/dig"

	"service-delivery/internal/cache"
	"service-delivery/internal/config"
	"service-delivery/internal/http/handlers"
	"service-delivery/internal/http/router"
	"service-delivery/internal/logx"
	"service-delivery/internal/metrics"
	"service-delivery/internal/repository"
	"service-delivery/internal/service/assignment"
	"service-delivery/internal/service/matching"
	"service-delivery/internal/service/partner"
	"service-delivery/internal/service/pricing"
	"service-delivery/internal/service/stats"
)

// ContainerBuilder is a dig container builder.
type ContainerBuilder struct {
	dbConnect func(context.Context, string, int, time.Duration) (*pgxpool.Pool, error)
	logFatalf func(string, ...interface{})
	worker    bool
}

// NewContainerBuilder returns a new dig container builder.
func NewContainerBuilder() *ContainerBuilder {
	return &ContainerBuilder{
		dbConnect: connectDbWithRetry,
		logFatalf: log.Fatalf,
	}
}

// WithDBConnect sets the database connection function.
func (b *ContainerBuilder) WithDBConnect(
	fn func(context.Context, string, int, time.Duration) (*pgxpool.Pool, error),
) *ContainerBuilder {
	if fn != nil {
		b.dbConnect = fn
	}
	return b
}

// WithLogFatalf sets the log.Fatalf function.
func (b *ContainerBuilder) WithLogFatalf(fn func(string, ...interface{})) *ContainerBuilder {
	if fn != nil {
		b.logFatalf = fn
	}
	return b
}

// ForWorker switches the builder to the worker wiring (kafka consumer and
// request sweeper instead of the HTTP surface).
func (b *ContainerBuilder) ForWorker() *ContainerBuilder {
	b.worker = true
	return b
}

// MustBuild builds and returns a new dig container.
func (b *ContainerBuilder) MustBuild(ctx context.Context) *dig.Container {
	container, err := b.build(ctx)
	if err != nil {
		b.logFatalf("failed to build container: %v", err)
	}
	return container
}

func (b *ContainerBuilder) build(ctx context.Context) (*dig.Container, error) {
	container := dig.New()

	if err := registerCore(container, ctx); err != nil {
		return nil, fmt.Errorf("core: %w", err)
	}
	if err := registerDb(container, b.dbConnect); err != nil {
		return nil, fmt.Errorf("DB: %w", err)
	}
	if err := registerMetrics(container); err != nil {
		return nil, fmt.Errorf("metrics: %w", err)
	}
	if err := registerService(container); err != nil {
		return nil, fmt.Errorf("service: %w", err)
	}
	if b.worker {
		if err := registerWorker(container); err != nil {
			return nil, fmt.Errorf("worker: %w", err)
		}
		return container, nil
	}
	if err := registerHTTP(container); err != nil {
		return nil, fmt.Errorf("http: %w", err)
	}
	return container, nil
}

// MustBuildContainer builds the API container.
func MustBuildContainer(ctx context.Context) *dig.Container {
	return NewContainerBuilder().MustBuild(ctx)
}

// MustBuildWorkerContainer builds the worker container.
func MustBuildWorkerContainer(ctx context.Context) *dig.Container {
	return NewContainerBuilder().ForWorker().MustBuild(ctx)
}

func provideAll(container *dig.Container, providers ...any) error {
	for _, provider := range providers {
		if err := container.Provide(provider); err != nil {
			return fmt.Errorf("provide %T: %w", provider, err)
		}
	}
	return nil
}

func registerCore(container *dig.Container, ctx context.Context) error {
	return provideAll(container,
		func() context.Context { return ctx },
		NewLogger,
		config.Load,
		func() time.Duration { return 3 * time.Second },
	)
}

func registerDb(
	container *dig.Container,
	dbConnect func(context.Context, string, int, time.Duration) (*pgxpool.Pool, error),
) error {
	providerDB := func(ctx context.Context, cfg *config.Config) (*pgxpool.Pool, error) {
		return dbConnect(ctx, cfg.DB.DSN(), 10, time.Second)
	}
	return provideAll(container, providerDB)
}

func registerMetrics(container *dig.Container) error {
	rlProvider := func() (prometheus.Counter, error) {
		c := metrics.NewRateLimitExceededTotal()
		if err := prometheus.Register(c); err != nil {
			return nil, fmt.Errorf("register rate_limit_exceeded_total: %w", err)
		}
		return c, nil
	}
	if err := container.Provide(rlProvider, dig.Name("rate_limit_exceeded_total")); err != nil {
		return fmt.Errorf("provide %T: %w", rlProvider, err)
	}

	retriesProvider := func() (prometheus.Counter, error) {
		c := metrics.NewGatewayRetriesTotal()
		if err := prometheus.Register(c); err != nil {
			return nil, fmt.Errorf("register gateway_retries_total: %w", err)
		}
		return c, nil
	}
	if err := container.Provide(retriesProvider, dig.Name("gateway_retries_total")); err != nil {
		return fmt.Errorf("provide %T: %w", retriesProvider, err)
	}

	return provideAll(container, func() (assignment.Metrics, error) {
		m := assignment.Metrics{
			Transitions:      metrics.NewAssignmentTransitionsTotal(),
			CapacityRejected: metrics.NewCapacityRejectedTotal(),
		}
		if err := prometheus.Register(m.Transitions); err != nil {
			return assignment.Metrics{}, fmt.Errorf("register assignment_transitions_total: %w", err)
		}
		if err := prometheus.Register(m.CapacityRejected); err != nil {
			return assignment.Metrics{}, fmt.Errorf("register capacity_rejected_total: %w", err)
		}
		return m, nil
	})
}

func registerService(container *dig.Container) error {
	return provideAll(container,
		repository.NewPartnerRepo,
		repository.NewOrderRepo,
		repository.NewAssignmentRepo,
		repository.NewRequestRepo,
		repository.NewStatsRepo,
		func(cfg *config.Config) *pricing.Calculator {
			return pricing.NewCalculator(cfg.Delivery.MaxFeeDeviationPct)
		},
		newNotifier,
		func(repo *repository.PartnerRepo, timeout time.Duration) *partner.Service {
			return partner.NewService(repo, timeout)
		},
		func(
			orders *repository.OrderRepo,
			partners *repository.PartnerRepo,
			cfg *config.Config,
			timeout time.Duration,
			logger logx.Logger,
		) *matching.Service {
			return matching.NewService(orders, partners, matching.Config{
				OpenOrderStatuses: cfg.Delivery.OpenOrderStatuses,
				MaxMatches:        cfg.Delivery.MaxMatches,
			}, timeout, logger)
		},
		func(cfg *config.Config) stats.Cache {
			if cfg.Redis.Addr == "" {
				return nil
			}
			return cache.NewRedis(cfg.Redis.Addr)
		},
		func(
			aggregates *repository.StatsRepo,
			partners *repository.PartnerRepo,
			statsCache stats.Cache,
			cfg *config.Config,
			timeout time.Duration,
			logger logx.Logger,
		) *stats.Service {
			return stats.NewService(aggregates, partners, statsCache, cfg.Redis.StatsTTL, timeout, logger)
		},
		func(
			repo *repository.AssignmentRepo,
			calc *pricing.Calculator,
			notifier assignment.Notifier,
			m assignment.Metrics,
			cfg *config.Config,
			timeout time.Duration,
			logger logx.Logger,
		) *assignment.Service {
			return assignment.NewService(repo, calc, notifier, m, cfg.Delivery.RequestTTL, timeout, logger)
		},
	)
}

func registerHTTP(container *dig.Container) error {
	serverProvider := func(cfg *config.Config, mux http.Handler) *http.Server {
		return &http.Server{
			Addr:              fmt.Sprintf(":%d", cfg.Port),
			Handler:           mux,
			ReadHeaderTimeout: 5 * time.Second,
			ReadTimeout:       15 * time.Second,
			WriteTimeout:      15 * time.Second,
			IdleTimeout:       60 * time.Second,
		}
	}
	return provideAll(container,
		newRateLimitClock,
		newRateLimiter,
		newRateLimitMiddleware,
		handlers.New,
		handlers.NewPartnerUsecase,
		handlers.NewMatchingUsecase,
		handlers.NewStatsUsecase,
		handlers.NewAssignmentUsecase,
		handlers.NewAssignmentReader,
		handlers.NewRequestReader,
		handlers.NewPartnerHandler,
		handlers.NewAssignmentHandler,
		handlers.NewRequestHandler,
		router.New,
		serverProvider,
	)
}

package app

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/dig"
	"golang.org/x/sync/errgroup"

	"service-delivery/internal/config"
	"service-delivery/internal/logx"
	"service-delivery/internal/repository"
	"service-delivery/internal/transport/kafka"
)

// WorkerRunner runs the background worker: the order-events consumer and the
// expired-request sweeper.
type WorkerRunner struct {
	runFn func(*dig.Container) error
}

// NewWorkerRunner returns a new WorkerRunner.
func NewWorkerRunner() *WorkerRunner {
	return &WorkerRunner{runFn: runWorker}
}

// MustRun starts the worker using the provided DI container.
func (r *WorkerRunner) MustRun(container *dig.Container) {
	err := r.runFn(container)
	if err == nil || errors.Is(err, context.Canceled) {
		return
	}
	panic(err)
}

func runWorker(container *dig.Container) error {
	return container.Invoke(workerRun)
}

func workerRun(
	ctx context.Context,
	pool *pgxpool.Pool,
	logger logx.Logger,
	consumer *kafka.Consumer,
	requests *repository.RequestRepo,
	cfg *config.Config,
) error {
	defer closeWorker(pool, logger, consumer)

	logger.Info("service-delivery-worker started")

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return runSweeper(gctx, requests, cfg.Delivery.SweepInterval, logger)
	})
	if consumer != nil {
		g.Go(func() error {
			return consumer.Run(gctx)
		})
	}
	return g.Wait()
}

// runSweeper retires pending delivery requests whose deadline has passed.
// Expiry is otherwise only checked lazily at accept time.
func runSweeper(ctx context.Context, requests *repository.RequestRepo, interval time.Duration, logger logx.Logger) error {
	if interval <= 0 {
		interval = time.Minute
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			n, err := requests.ExpirePending(ctx, time.Now().UTC())
			if err != nil {
				logger.Error("request sweep failed", logx.Err(err))
				continue
			}
			if n > 0 {
				logger.Info("expired delivery requests", logx.Int64("count", n))
			}
		}
	}
}

func closeWorker(pool *pgxpool.Pool, logger logx.Logger, kafkaConsumer *kafka.Consumer) {
	if kafkaConsumer != nil {
		if err := kafkaConsumer.Close(); err != nil {
			logger.Error("kafka close error", logx.Err(err))
		}
	}
	if pool != nil {
		pool.Close()
	}
}

package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/sirupsen/logrus"

	"github.com/unclebandit/collabhub-backend/internal/config"
	"github.com/unclebandit/collabhub-backend/internal/db"
	"github.com/unclebandit/collabhub-backend/internal/engine"
	"github.com/unclebandit/collabhub-backend/internal/logger"
	"github.com/unclebandit/collabhub-backend/internal/model"
	"github.com/unclebandit/collabhub-backend/internal/queue"
	"github.com/unclebandit/collabhub-backend/internal/repository"
	"github.com/unclebandit/collabhub-backend/internal/service"
	"github.com/unclebandit/collabhub-backend/internal/valuation"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		logrus.WithError(err).Fatal("invalid configuration")
	}
	log := logger.Init(cfg.LogLevel, cfg.LogFormat)
	if cfg.AMQPURL == "" {
		log.Fatal("AMQP_URL is required for the worker")
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	policy, err := valuation.Load(cfg.ValuationPolicyPath)
	if err != nil {
		log.WithError(err).Fatal("failed to load valuation policy")
	}

	source, closeSource, err := openSource(ctx, cfg)
	if err != nil {
		log.WithError(err).Fatal("failed to open request store")
	}
	defer closeSource()

	q, err := queue.DialAMQP(cfg.AMQPURL)
	if err != nil {
		log.WithError(err).Fatal("failed to connect to RabbitMQ")
	}
	defer q.Close()

	events := make(chan model.ReviewEvent, 64)
	if err := queue.StartReviewSubscriber(ctx, q, cfg.ReviewQueue, events); err != nil {
		log.WithError(err).Fatal("failed to register consumer")
	}

	svc := service.NewCollaborationService(source, engine.New(), policy)
	worker := service.NewEMVWorker(svc, events, service.PublishSink(q, queue.TopicEMVUpdated), cfg.Location)

	log.WithField("queue", cfg.ReviewQueue).Info("worker running, waiting for review events")
	worker.Start(ctx)
	log.Info("worker stopped")
}

func openSource(ctx context.Context, cfg config.Config) (repository.SnapshotSource, func(), error) {
	if cfg.StoreBackend == config.BackendRedis {
		client, err := repository.Connect(ctx, cfg.RedisURL)
		if err != nil {
			return nil, nil, err
		}
		return repository.NewBlobStore(client, cfg.RedisRequestsKey, cfg.RedisCampaignsKey), func() { client.Close() }, nil
	}
	conn, err := db.Open(ctx, cfg.DatabaseURL)
	if err != nil {
		return nil, nil, err
	}
	return repository.NewPostgresStore(conn), func() { conn.Close() }, nil
}

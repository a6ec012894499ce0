// cmd/server/main.go
package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/sirupsen/logrus"

	"github.com/unclebandit/collabhub-backend/internal/config"
	"github.com/unclebandit/collabhub-backend/internal/controller"
	"github.com/unclebandit/collabhub-backend/internal/db"
	"github.com/unclebandit/collabhub-backend/internal/engine"
	"github.com/unclebandit/collabhub-backend/internal/handler"
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

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	policy, err := valuation.Load(cfg.ValuationPolicyPath)
	if err != nil {
		log.WithError(err).Fatal("failed to load valuation policy")
	}

	reviews := &service.ReviewService{Topic: cfg.ReviewQueue}
	var source repository.SnapshotSource

	switch cfg.StoreBackend {
	case config.BackendRedis:
		client, err := repository.Connect(ctx, cfg.RedisURL)
		if err != nil {
			log.WithError(err).Fatal("failed to connect to redis")
		}
		defer client.Close()
		source = repository.NewBlobStore(client, cfg.RedisRequestsKey, cfg.RedisCampaignsKey)
	default:
		conn, err := db.Open(ctx, cfg.DatabaseURL)
		if err != nil {
			log.WithError(err).Fatal("failed to connect to database")
		}
		defer conn.Close()
		store := repository.NewPostgresStore(conn)
		source = store
		reviews.Store = store
		reviews.Campaigns = store.Campaigns
	}

	collaborations := service.NewCollaborationService(source, engine.New(), policy)
	latest := service.NewLatestEMV()

	if cfg.AMQPURL != "" {
		q, err := queue.DialAMQP(cfg.AMQPURL)
		if err != nil {
			log.WithError(err).Fatal("failed to connect to RabbitMQ")
		}
		defer q.Close()
		// cmd/worker recomputes; this process only records its announcements
		if err := queue.StartEMVSubscriber(q, queue.TopicEMVUpdated, latest.Record); err != nil {
			log.WithError(err).Fatal("failed to subscribe to EMV updates")
		}
		reviews.Queue = q
	} else {
		q := queue.NewInMemoryQueue()
		if err := startInProcessRecompute(ctx, q, cfg, collaborations, latest); err != nil {
			log.WithError(err).Fatal("failed to start in-process recompute")
		}
		reviews.Queue = q
	}

	dashboard := handler.NewDashboardHandler(collaborations, cfg.Location)
	dashboard.Latest = latest
	reviewController := &controller.ReviewController{ReviewService: reviews}

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)
	r.Use(logger.Middleware)

	r.Get("/healthz", handler.Healthz)
	dashboard.Routes(r)
	reviewController.Routes(r)

	srv := &http.Server{
		Addr:              cfg.HTTPAddr,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			log.WithError(err).Error("server shutdown failed")
		}
	}()

	log.WithFields(logrus.Fields{
		"addr":    cfg.HTTPAddr,
		"backend": cfg.StoreBackend,
	}).Info("server running")
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		log.WithError(err).Fatal("server stopped")
	}
}

// startInProcessRecompute runs the review -> recompute -> announce loop on an
// in-memory queue when no broker is configured. Announced results land in
// latest.
func startInProcessRecompute(ctx context.Context, q *queue.InMemoryQueue, cfg config.Config, svc service.EMVComputer, latest *service.LatestEMV) error {
	if err := queue.StartEMVSubscriber(q, queue.TopicEMVUpdated, latest.Record); err != nil {
		return err
	}
	events := make(chan model.ReviewEvent, 64)
	if err := queue.StartReviewSubscriber(ctx, q, cfg.ReviewQueue, events); err != nil {
		return err
	}
	worker := service.NewEMVWorker(svc, events, service.PublishSink(q, queue.TopicEMVUpdated), cfg.Location)
	go worker.Start(ctx)
	return nil
}

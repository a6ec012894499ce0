//cmd/seeder/main.go
package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/sirupsen/logrus"

	"github.com/unclebandit/collabhub-backend/internal/config"
	"github.com/unclebandit/collabhub-backend/internal/db"
	"github.com/unclebandit/collabhub-backend/internal/logger"
	"github.com/unclebandit/collabhub-backend/internal/model"
	"github.com/unclebandit/collabhub-backend/internal/repository"
)

const (
	migrationFile = "migrations/001_init.sql"
	fixtureFile   = "seed/collaborations.json"
)

type fixture struct {
	Campaigns json.RawMessage `json:"campaigns"`
	Requests  json.RawMessage `json:"requests"`
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		logrus.WithError(err).Fatal("invalid configuration")
	}
	log := logger.Init(cfg.LogLevel, cfg.LogFormat)
	ctx := context.Background()

	content, err := os.ReadFile(fixtureFile)
	if err != nil {
		log.WithError(err).Fatalf("failed to read %s", fixtureFile)
	}
	var fx fixture
	if err := json.Unmarshal(content, &fx); err != nil {
		log.WithError(err).Fatalf("failed to parse %s", fixtureFile)
	}

	if cfg.StoreBackend == config.BackendRedis {
		err = seedRedis(ctx, cfg, fx)
	} else {
		err = seedPostgres(ctx, cfg, fx)
	}
	if err != nil {
		log.WithError(err).Fatal("seeding failed")
	}
	log.WithField("backend", cfg.StoreBackend).Info("seeding completed successfully")
}

// seedRedis writes the two blobs verbatim, the way the mobile app stores them.
func seedRedis(ctx context.Context, cfg config.Config, fx fixture) error {
	client, err := repository.Connect(ctx, cfg.RedisURL)
	if err != nil {
		return err
	}
	defer client.Close()

	if err := client.Set(ctx, cfg.RedisCampaignsKey, []byte(fx.Campaigns), 0).Err(); err != nil {
		return fmt.Errorf("write %s: %w", cfg.RedisCampaignsKey, err)
	}
	if err := client.Set(ctx, cfg.RedisRequestsKey, []byte(fx.Requests), 0).Err(); err != nil {
		return fmt.Errorf("write %s: %w", cfg.RedisRequestsKey, err)
	}
	logger.GetAppLogger().WithFields(logrus.Fields{
		"campaigns_key": cfg.RedisCampaignsKey,
		"requests_key":  cfg.RedisRequestsKey,
	}).Info("seeded redis")
	return nil
}

// seedPostgres applies the schema and imports the fixture as stored, so the
// postgres backend holds the same statuses the redis blobs do.
func seedPostgres(ctx context.Context, cfg config.Config, fx fixture) error {
	conn, err := db.Open(ctx, cfg.DatabaseURL)
	if err != nil {
		return err
	}
	defer conn.Close()

	schema, err := os.ReadFile(migrationFile)
	if err != nil {
		return fmt.Errorf("read %s: %w", migrationFile, err)
	}
	if _, err := conn.ExecContext(ctx, string(schema)); err != nil {
		return fmt.Errorf("apply %s: %w", migrationFile, err)
	}

	var (
		campaigns []model.Campaign
		requests  []model.Request
	)
	if err := json.Unmarshal(fx.Campaigns, &campaigns); err != nil {
		return fmt.Errorf("decode campaigns: %w", err)
	}
	if err := json.Unmarshal(fx.Requests, &requests); err != nil {
		return fmt.Errorf("decode requests: %w", err)
	}

	store := repository.NewPostgresStore(conn)
	for i := range campaigns {
		if err := store.Campaigns.Create(ctx, &campaigns[i]); err != nil {
			return fmt.Errorf("insert campaign %s: %w", campaigns[i].ID, err)
		}
	}
	for i := range requests {
		if err := store.Requests.Import(ctx, &requests[i]); err != nil {
			return fmt.Errorf("insert request %s: %w", requests[i].ID, err)
		}
	}

	logger.GetAppLogger().WithFields(logrus.Fields{
		"campaigns": len(campaigns),
		"requests":  len(requests),
	}).Info("seeded postgres")
	return nil
}

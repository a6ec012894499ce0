package repository

import (
	"context"
	"database/sql"
	"time"

	"github.com/unclebandit/collabhub-backend/internal/engine"
	"github.com/unclebandit/collabhub-backend/internal/model"
)

// SnapshotSource hands out one consistent read of requests and campaigns.
type SnapshotSource interface {
	Snapshot(ctx context.Context) (engine.Snapshot, error)
}

// RequestReviewer is implemented by stores that accept admin reviews.
type RequestReviewer interface {
	GetRequest(ctx context.Context, id string) (*model.Request, error)
	ReviewRequest(ctx context.Context, id string, status model.RequestStatus, notes string, reviewedAt time.Time) (*model.Request, error)
}

// querier is satisfied by both *sql.DB and *sql.Tx.
type querier interface {
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
}

// PostgresStore reads both tables inside one read-only repeatable-read
// transaction so a concurrent review cannot tear the snapshot.
type PostgresStore struct {
	DB        *sql.DB
	Requests  *RequestRepository
	Campaigns *CampaignRepository
}

func NewPostgresStore(db *sql.DB) *PostgresStore {
	return &PostgresStore{
		DB:        db,
		Requests:  &RequestRepository{DB: db},
		Campaigns: &CampaignRepository{DB: db},
	}
}

func (s *PostgresStore) Snapshot(ctx context.Context) (engine.Snapshot, error) {
	tx, err := s.DB.BeginTx(ctx, &sql.TxOptions{Isolation: sql.LevelRepeatableRead, ReadOnly: true})
	if err != nil {
		return engine.Snapshot{}, err
	}
	defer tx.Rollback()

	requests, err := listRequests(ctx, tx)
	if err != nil {
		return engine.Snapshot{}, err
	}
	campaigns, err := listCampaigns(ctx, tx)
	if err != nil {
		return engine.Snapshot{}, err
	}
	if err := tx.Commit(); err != nil {
		return engine.Snapshot{}, err
	}
	return engine.Snapshot{Requests: requests, Campaigns: campaigns}, nil
}

func (s *PostgresStore) GetRequest(ctx context.Context, id string) (*model.Request, error) {
	return s.Requests.GetByID(ctx, id)
}

func (s *PostgresStore) ReviewRequest(ctx context.Context, id string, status model.RequestStatus, notes string, reviewedAt time.Time) (*model.Request, error) {
	return s.Requests.Review(ctx, id, status, notes, reviewedAt)
}

var (
	_ SnapshotSource  = (*PostgresStore)(nil)
	_ RequestReviewer = (*PostgresStore)(nil)
)

package repository

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/redis/go-redis/v9"

	"github.com/unclebandit/collabhub-backend/internal/engine"
	"github.com/unclebandit/collabhub-backend/internal/model"
)

// Connect initializes a Redis client from URL or host:port input.
func Connect(_ context.Context, redisURL string) (*redis.Client, error) {
	if strings.HasPrefix(redisURL, "redis://") || strings.HasPrefix(redisURL, "rediss://") {
		opt, err := redis.ParseURL(redisURL)
		if err != nil {
			return nil, fmt.Errorf("parse redis url: %w", err)
		}
		return redis.NewClient(opt), nil
	}
	return redis.NewClient(&redis.Options{Addr: redisURL}), nil
}

type blobReader interface {
	MGet(ctx context.Context, keys ...string) *redis.SliceCmd
}

// BlobStore reads the key-value blobs the mobile app persists: one JSON
// array of requests and one of campaigns. It never writes.
type BlobStore struct {
	client       blobReader
	requestsKey  string
	campaignsKey string
}

func NewBlobStore(client blobReader, requestsKey, campaignsKey string) *BlobStore {
	return &BlobStore{client: client, requestsKey: requestsKey, campaignsKey: campaignsKey}
}

// Snapshot fetches both blobs with a single MGET, so they come from the
// same moment. A missing key reads as an empty list.
func (s *BlobStore) Snapshot(ctx context.Context) (engine.Snapshot, error) {
	vals, err := s.client.MGet(ctx, s.requestsKey, s.campaignsKey).Result()
	if err != nil {
		return engine.Snapshot{}, fmt.Errorf("read blobs: %w", err)
	}
	if len(vals) != 2 {
		return engine.Snapshot{}, fmt.Errorf("read blobs: expected 2 values, got %d", len(vals))
	}

	snap := engine.Snapshot{Requests: []model.Request{}, Campaigns: []model.Campaign{}}
	if err := decodeBlob(vals[0], &snap.Requests); err != nil {
		return engine.Snapshot{}, fmt.Errorf("decode %s: %w", s.requestsKey, err)
	}
	if err := decodeBlob(vals[1], &snap.Campaigns); err != nil {
		return engine.Snapshot{}, fmt.Errorf("decode %s: %w", s.campaignsKey, err)
	}
	return snap, nil
}

func decodeBlob(val any, dst any) error {
	var raw string
	switch v := val.(type) {
	case nil:
		return nil
	case string:
		raw = v
	case []byte:
		raw = string(v)
	default:
		return fmt.Errorf("unexpected value type %T", val)
	}
	if strings.TrimSpace(raw) == "" || strings.TrimSpace(raw) == "null" {
		return nil
	}
	return json.Unmarshal([]byte(raw), dst)
}

var _ SnapshotSource = (*BlobStore)(nil)

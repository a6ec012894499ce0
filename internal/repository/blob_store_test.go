package repository

import (
	"context"
	"errors"
	"testing"

	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/unclebandit/collabhub-backend/internal/model"
)

type fakeRedis struct {
	vals []any
	err  error
	keys []string
}

func (f *fakeRedis) MGet(_ context.Context, keys ...string) *redis.SliceCmd {
	f.keys = keys
	return redis.NewSliceResult(f.vals, f.err)
}

func TestBlobStoreSnapshot(t *testing.T) {
	fake := &fakeRedis{vals: []any{
		`[{"id":"r1","collaborationId":1717000000000,"influencer":{"name":"Ana","followerCount":"12,500"},
		   "selectedDate":"2024-06-01","status":"approved","submittedAt":"2024-05-01T10:00:00Z"}]`,
		`[{"id":1717000000000,"title":"Brunch","business":"Acme","minFollowers":1000}]`,
	}}
	store := NewBlobStore(fake, "collaborationRequests", "collaborations")

	snap, err := store.Snapshot(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []string{"collaborationRequests", "collaborations"}, fake.keys)

	require.Len(t, snap.Requests, 1)
	assert.Equal(t, model.FlexID("1717000000000"), snap.Requests[0].CollaborationID)
	assert.Equal(t, model.FollowerCount(12500), snap.Requests[0].Influencer.FollowerCount)
	assert.Equal(t, "2024-06-01", snap.Requests[0].SelectedDate.String())
	require.Len(t, snap.Campaigns, 1)
	assert.Equal(t, snap.Requests[0].CollaborationID, snap.Campaigns[0].ID)
}

func TestBlobStoreMissingKeysAreEmpty(t *testing.T) {
	store := NewBlobStore(&fakeRedis{vals: []any{nil, nil}}, "a", "b")
	snap, err := store.Snapshot(context.Background())
	require.NoError(t, err)
	assert.NotNil(t, snap.Requests)
	assert.Empty(t, snap.Requests)
	assert.Empty(t, snap.Campaigns)
}

func TestBlobStoreErrors(t *testing.T) {
	_, err := NewBlobStore(&fakeRedis{err: errors.New("down")}, "a", "b").Snapshot(context.Background())
	assert.ErrorContains(t, err, "down")

	_, err = NewBlobStore(&fakeRedis{vals: []any{"{not json", nil}}, "a", "b").Snapshot(context.Background())
	assert.ErrorContains(t, err, "decode a")
}

func TestConnectAcceptsURLAndAddr(t *testing.T) {
	c, err := Connect(context.Background(), "redis://:pw@cache:6380/2")
	require.NoError(t, err)
	assert.Equal(t, "cache:6380", c.Options().Addr)
	assert.Equal(t, 2, c.Options().DB)

	c, err = Connect(context.Background(), "localhost:6379")
	require.NoError(t, err)
	assert.Equal(t, "localhost:6379", c.Options().Addr)

	_, err = Connect(context.Background(), "redis://cache:6379/notanumber")
	assert.Error(t, err)
}

package service_test

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/unclebandit/collabhub-backend/internal/engine"
	appErrors "github.com/unclebandit/collabhub-backend/internal/errors"
	"github.com/unclebandit/collabhub-backend/internal/model"
	"github.com/unclebandit/collabhub-backend/internal/service"
	"github.com/unclebandit/collabhub-backend/internal/valuation"
)

var asOf = time.Date(2024, 6, 10, 12, 0, 0, 0, time.UTC)

// --- Mock store ---

type MockStore struct {
	mu       sync.Mutex
	snap     engine.Snapshot
	err      error
	reviewed map[string]model.RequestStatus
}

func (m *MockStore) Snapshot(ctx context.Context) (engine.Snapshot, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.snap, m.err
}

func (m *MockStore) GetRequest(ctx context.Context, id string) (*model.Request, error) {
	for _, r := range m.snap.Requests {
		if r.ID.String() == id {
			r := r
			return &r, nil
		}
	}
	return nil, nil
}

func (m *MockStore) ReviewRequest(ctx context.Context, id string, status model.RequestStatus, notes string, reviewedAt time.Time) (*model.Request, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for i, r := range m.snap.Requests {
		if r.ID.String() != id {
			continue
		}
		if r.Status != model.StatusPending {
			return nil, appErrors.NewRequestAlreadyReviewed(id, string(r.Status))
		}
		r.Status = status
		r.AdminNotes = notes
		r.ReviewedAt = &reviewedAt
		m.snap.Requests[i] = r
		if m.reviewed == nil {
			m.reviewed = map[string]model.RequestStatus{}
		}
		m.reviewed[id] = status
		return &r, nil
	}
	return nil, appErrors.NewRequestNotFound(id)
}

type MockCampaigns struct {
	campaigns []model.Campaign
}

func (m *MockCampaigns) GetByID(ctx context.Context, id string) (*model.Campaign, error) {
	for _, c := range m.campaigns {
		if c.ID.String() == id {
			c := c
			return &c, nil
		}
	}
	return nil, nil
}

type MockQueue struct {
	mu        sync.Mutex
	published []any
	err       error
}

func (m *MockQueue) Publish(topic string, payload any) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.published = append(m.published, payload)
	return m.err
}

func (m *MockQueue) Subscribe(topic string, handler func(payload any) error) error { return nil }

func newStore() *MockStore {
	d := model.NewDay(2024, 6, 1)
	return &MockStore{snap: engine.Snapshot{
		Requests: []model.Request{
			{ID: "r1", CollaborationID: "1", Status: model.StatusApproved, SelectedDate: &d,
				Influencer: model.Influencer{Name: "Ana", InstagramHandle: "@ana", FollowerCount: 15000}},
			{ID: "r2", CollaborationID: "1", Status: model.StatusPending, SelectedDate: &d,
				Influencer: model.Influencer{Name: "Ben", FollowerCount: 500}},
			{ID: "r3", CollaborationID: "1", Status: model.StatusApproved,
				ReviewedAt: func() *time.Time { t := asOf.Add(-time.Hour); return &t }()},
		},
		Campaigns: []model.Campaign{{ID: "1", Title: "Brunch", Business: "Acme"}},
	}}
}

func policy(t *testing.T) *valuation.Table {
	table, err := valuation.NewTable([]valuation.Tier{
		{Name: "nano", MinFollowers: 0, ValuePerStory: 10},
		{Name: "micro", MinFollowers: 10000, ValuePerStory: 50},
	})
	require.NoError(t, err)
	return table
}

// --- Tests ---

func TestClassifyRequestsForCompany(t *testing.T) {
	svc := service.NewCollaborationService(newStore(), nil, policy(t))

	buckets, err := svc.ClassifyRequestsForCompany(context.Background(), "Acme", asOf)
	require.NoError(t, err)
	assert.Len(t, buckets.Past, 2)
	assert.Empty(t, buckets.Upcoming)
	require.Len(t, buckets.Unclassified, 1)
	assert.Equal(t, model.FlexID("r3"), buckets.Unclassified[0].ID)
}

func TestClassifyRequiresCompany(t *testing.T) {
	svc := service.NewCollaborationService(newStore(), nil, policy(t))
	_, err := svc.ClassifyRequestsForCompany(context.Background(), "  ", asOf)
	assert.ErrorIs(t, err, appErrors.ErrCompanyRequired)
}

func TestSnapshotErrorPropagates(t *testing.T) {
	store := newStore()
	store.err = errors.New("db down")
	svc := service.NewCollaborationService(store, nil, policy(t))
	_, err := svc.ComputeCompanyEMV(context.Background(), "Acme", asOf)
	assert.ErrorContains(t, err, "db down")
}

func TestComputeCompanyEMV(t *testing.T) {
	svc := service.NewCollaborationService(newStore(), nil, policy(t))

	res, err := svc.ComputeCompanyEMV(context.Background(), "Acme", asOf)
	require.NoError(t, err)
	assert.Equal(t, 1, res.TotalCollaborations)
	assert.Equal(t, 100.0, res.TotalEMV)
	assert.Equal(t, "micro", res.Entries[0].FollowerTier)
}

func TestComputeCompanyEMVConfigurationError(t *testing.T) {
	table, err := valuation.NewTable([]valuation.Tier{{Name: "big", MinFollowers: 100000, ValuePerStory: 1}})
	require.NoError(t, err)
	svc := service.NewCollaborationService(newStore(), nil, table)

	_, err = svc.ComputeCompanyEMV(context.Background(), "Acme", asOf)
	assert.True(t, appErrors.IsConfiguration(err))
}

func TestReviewPublishesEvent(t *testing.T) {
	store := newStore()
	q := &MockQueue{}
	reviewedAt := time.Date(2024, 6, 10, 9, 0, 0, 0, time.UTC)
	svc := &service.ReviewService{
		Store:     store,
		Campaigns: &MockCampaigns{campaigns: store.snap.Campaigns},
		Queue:     q,
		Now:       func() time.Time { return reviewedAt },
	}

	req, err := svc.Review(context.Background(), "r2", model.StatusApproved, "  welcome ")
	require.NoError(t, err)
	assert.Equal(t, model.StatusApproved, req.Status)
	assert.Equal(t, "welcome", req.AdminNotes)

	require.Len(t, q.published, 1)
	ev := q.published[0].(model.ReviewEvent)
	assert.Equal(t, "r2", ev.RequestID)
	assert.Equal(t, "Acme", ev.CompanyName)
	assert.Equal(t, reviewedAt, ev.ReviewedAt)
	assert.NotEmpty(t, ev.EventID)
}

func TestReviewValidation(t *testing.T) {
	store := newStore()
	svc := &service.ReviewService{Store: store}

	_, err := svc.Review(context.Background(), "r2", model.StatusPending, "")
	assert.ErrorIs(t, err, appErrors.ErrInvalidReviewStatus)

	_, err = svc.Review(context.Background(), "r1", model.StatusRejected, "")
	assert.True(t, appErrors.IsAlreadyReviewed(err))

	_, err = (&service.ReviewService{}).Review(context.Background(), "r2", model.StatusApproved, "")
	assert.ErrorIs(t, err, appErrors.ErrReadOnlyStore)
}

func TestReviewSurvivesPublishFailure(t *testing.T) {
	store := newStore()
	svc := &service.ReviewService{Store: store, Queue: &MockQueue{err: errors.New("broker down")}}

	_, err := svc.Review(context.Background(), "r2", model.StatusRejected, "")
	require.NoError(t, err)
	assert.Equal(t, model.StatusRejected, store.reviewed["r2"])
}

type stubComputer struct {
	mu        sync.Mutex
	companies []string
	err       error
}

func (s *stubComputer) ComputeCompanyEMV(ctx context.Context, company string, asOf time.Time) (model.EMVResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.companies = append(s.companies, company)
	return model.EMVResult{CompanyName: company, TotalEMV: 42}, s.err
}

func TestEMVWorkerRecomputesPerEvent(t *testing.T) {
	events := make(chan model.ReviewEvent, 2)
	var results []model.EMVResult
	comp := &stubComputer{}
	w := service.NewEMVWorker(comp, events, func(r model.EMVResult) { results = append(results, r) }, time.UTC)

	events <- model.ReviewEvent{CompanyName: "Acme"}
	events <- model.ReviewEvent{CompanyName: "Globex"}
	close(events)
	w.Start(context.Background())

	assert.Equal(t, []string{"Acme", "Globex"}, comp.companies)
	require.Len(t, results, 2)
	assert.Equal(t, 42.0, results[0].TotalEMV)
}

func TestEMVWorkerSkipsSinkOnError(t *testing.T) {
	events := make(chan model.ReviewEvent, 1)
	called := false
	w := service.NewEMVWorker(&stubComputer{err: errors.New("policy")}, events, func(model.EMVResult) { called = true }, nil)

	events <- model.ReviewEvent{CompanyName: "Acme"}
	close(events)
	w.Start(context.Background())
	assert.False(t, called)
}

func TestEMVWorkerStopsOnCancel(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	w := service.NewEMVWorker(&stubComputer{}, make(chan model.ReviewEvent), nil, nil)

	done := make(chan struct{})
	go func() {
		w.Start(ctx)
		close(done)
	}()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("worker did not stop")
	}
}

func TestEMVWorkerAgreesWithDashboardAcrossMidnight(t *testing.T) {
	la, err := time.LoadLocation("America/Los_Angeles")
	require.NoError(t, err)

	// 03:00 UTC on the 10th is still the evening of the 9th in Los Angeles,
	// so a collaboration dated the 9th has not finished there yet.
	instant := time.Date(2024, 6, 10, 3, 0, 0, 0, time.UTC)
	d := model.NewDay(2024, 6, 9)
	store := &MockStore{snap: engine.Snapshot{
		Requests: []model.Request{{ID: "r1", CollaborationID: "1", Status: model.StatusApproved, SelectedDate: &d,
			Influencer: model.Influencer{Name: "Ana", FollowerCount: 15000}}},
		Campaigns: []model.Campaign{{ID: "1", Business: "Acme"}},
	}}
	svc := service.NewCollaborationService(store, nil, policy(t))

	dashboard, err := svc.ComputeCompanyEMV(context.Background(), "Acme", instant.In(la))
	require.NoError(t, err)

	events := make(chan model.ReviewEvent, 1)
	var published []model.EMVResult
	w := service.NewEMVWorker(svc, events, func(r model.EMVResult) { published = append(published, r) }, la)
	w.Now = func() time.Time { return instant }

	events <- model.ReviewEvent{CompanyName: "Acme"}
	close(events)
	w.Start(context.Background())

	require.Len(t, published, 1)
	assert.Equal(t, 0, dashboard.TotalCollaborations)
	assert.Equal(t, dashboard.TotalCollaborations, published[0].TotalCollaborations)
	assert.Equal(t, dashboard.TotalEMV, published[0].TotalEMV)
}

func TestLatestEMV(t *testing.T) {
	latest := service.NewLatestEMV()
	_, ok := latest.Get("Acme")
	assert.False(t, ok)

	latest.Record(model.EMVResult{CompanyName: "Acme", TotalEMV: 100})
	latest.Record(model.EMVResult{CompanyName: "Acme", TotalEMV: 260})

	res, ok := latest.Get(" Acme ")
	require.True(t, ok)
	assert.Equal(t, 260.0, res.TotalEMV)
}

func TestPublishSink(t *testing.T) {
	q := &MockQueue{}
	service.PublishSink(q, "company_emv_updated")(model.EMVResult{CompanyName: "Acme", TotalEMV: 42})

	require.Len(t, q.published, 1)
	assert.Equal(t, "Acme", q.published[0].(model.EMVResult).CompanyName)

	// a failing broker is logged, not fatal
	service.PublishSink(&MockQueue{err: errors.New("down")}, "company_emv_updated")(model.EMVResult{})
}

// Package engine resolves collaboration requests to the campaigns and
// companies they belong to, derives their lifecycle view at a given time and
// aggregates finished collaborations into earned media value.
//
// Everything here is a pure function of its inputs. Callers hand in a
// consistent snapshot of the store and the current time; nothing is read
// from a clock, cached or persisted.
package engine

import (
	"time"

	"github.com/unclebandit/collabhub-backend/internal/model"
)

// Snapshot is one consistent read of the request store and the campaign
// directory.
type Snapshot struct {
	Requests  []model.Request
	Campaigns []model.Campaign
}

type Engine struct {
	matcher OwnershipMatcher
}

type Option func(*Engine)

func WithOwnershipMatcher(m OwnershipMatcher) Option {
	return func(e *Engine) {
		if m != nil {
			e.matcher = m
		}
	}
}

func New(opts ...Option) *Engine {
	e := &Engine{matcher: ExactTrimMatcher}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// ClassifyRequestsForCompany resolves every request in the snapshot, keeps
// the ones whose campaign belongs to companyName and groups them by bucket.
// Requests with no campaign are dropped; requests no rule can place end up
// in Unclassified and in no bucket.
func (e *Engine) ClassifyRequestsForCompany(snap Snapshot, companyName string, asOf time.Time) model.CompanyBuckets {
	out := model.CompanyBuckets{
		Upcoming:     []model.ClassifiedRequest{},
		Past:         []model.ClassifiedRequest{},
		Cancelled:    []model.ClassifiedRequest{},
		Unclassified: []model.ClassifiedRequest{},
	}

	idx := indexCampaigns(snap.Campaigns)
	for _, req := range snap.Requests {
		campaign, ok := idx.resolve(req)
		if !ok || !e.matcher.Owns(campaign, companyName) {
			continue
		}

		cr, ok := ClassifyRequest(req, campaign, asOf)
		if !ok {
			out.Unclassified = append(out.Unclassified, cr)
			continue
		}
		switch cr.Bucket {
		case model.BucketUpcoming:
			out.Upcoming = append(out.Upcoming, cr)
		case model.BucketPast:
			out.Past = append(out.Past, cr)
		case model.BucketCancelled:
			out.Cancelled = append(out.Cancelled, cr)
		}
	}
	return out
}

// ComputeCompanyEMV values the company's past, finished collaborations.
func (e *Engine) ComputeCompanyEMV(snap Snapshot, companyName string, asOf time.Time, valuation Valuation) (model.EMVResult, error) {
	buckets := e.ClassifyRequestsForCompany(snap, companyName, asOf)

	finished := make([]model.ClassifiedRequest, 0, len(buckets.Past))
	for _, cr := range buckets.Past {
		if cr.EffectiveStatus == model.EffectiveFinished {
			finished = append(finished, cr)
		}
	}
	return ComputeEMV(companyName, finished, valuation)
}

package engine

import (
	"fmt"

	appErrors "github.com/unclebandit/collabhub-backend/internal/errors"
	"github.com/unclebandit/collabhub-backend/internal/model"
)

// StoriesPerCollaboration is the number of Instagram stories every finished
// collaboration is counted as having produced.
const StoriesPerCollaboration = 2

// Valuation maps a follower count to a tier and a tier to a monetary value.
// The pricing table behind it is business policy supplied as configuration.
type Valuation interface {
	TierOf(followers int) (string, error)
	EMVFor(tier string, stories int) (float64, error)
}

// ComputeEMV aggregates earned media value over one company's finished
// collaborations. Entries are per request, in input order; an influencer
// with two finished collaborations gets two entries. Requests that are not
// finished are ignored.
func ComputeEMV(companyName string, finished []model.ClassifiedRequest, valuation Valuation) (model.EMVResult, error) {
	result := model.EMVResult{
		CompanyName: companyName,
		Entries:     []model.EMVEntry{},
	}
	if valuation == nil {
		return result, fmt.Errorf("%w: no valuation configured", appErrors.ErrInvalidPolicy)
	}

	for _, req := range finished {
		if req.EffectiveStatus != model.EffectiveFinished {
			continue
		}
		followers := int(req.Influencer.FollowerCount)
		tier, err := valuation.TierOf(followers)
		if err != nil {
			return model.EMVResult{}, fmt.Errorf("request %s: %w", req.ID, err)
		}
		emv, err := valuation.EMVFor(tier, StoriesPerCollaboration)
		if err != nil {
			return model.EMVResult{}, fmt.Errorf("request %s: %w", req.ID, err)
		}

		result.Entries = append(result.Entries, model.EMVEntry{
			InfluencerName:      req.Influencer.Name,
			InfluencerInstagram: req.Influencer.InstagramHandle,
			FollowerCount:       followers,
			FollowerTier:        tier,
			StoriesCounted:      StoriesPerCollaboration,
			EMV:                 emv,
		})
		result.TotalEMV += emv
		result.TotalStories += StoriesPerCollaboration
		result.TotalCollaborations++
	}
	return result, nil
}

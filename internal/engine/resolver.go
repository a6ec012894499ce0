package engine

import (
	"strings"

	"github.com/unclebandit/collabhub-backend/internal/model"
)

// OwnershipMatcher decides whether a campaign belongs to a company. The
// default compares display names; a stricter identity can be swapped in
// without touching classification or aggregation.
type OwnershipMatcher interface {
	Owns(campaign model.Campaign, companyName string) bool
}

type OwnershipFunc func(campaign model.Campaign, companyName string) bool

func (f OwnershipFunc) Owns(campaign model.Campaign, companyName string) bool {
	return f(campaign, companyName)
}

// ExactTrimMatcher is the default ownership rule, see BelongsToCompany.
var ExactTrimMatcher OwnershipMatcher = OwnershipFunc(BelongsToCompany)

// BelongsToCompany reports whether the campaign's business name equals
// companyName once surrounding whitespace is trimmed. Case, inner spacing
// and diacritics are significant.
func BelongsToCompany(campaign model.Campaign, companyName string) bool {
	return strings.TrimSpace(campaign.Business) == strings.TrimSpace(companyName)
}

// ResolveCampaign finds the campaign a request was submitted for. A request
// whose campaign was deleted resolves to false; that is expected data, not
// an error. An empty id never matches, on either side.
func ResolveCampaign(req model.Request, campaigns []model.Campaign) (model.Campaign, bool) {
	if req.CollaborationID == "" {
		return model.Campaign{}, false
	}
	for _, c := range campaigns {
		if c.ID.String() == req.CollaborationID.String() {
			return c, true
		}
	}
	return model.Campaign{}, false
}

// campaignIndex is ResolveCampaign over a prebuilt map, for batch passes.
type campaignIndex map[string]model.Campaign

func indexCampaigns(campaigns []model.Campaign) campaignIndex {
	idx := make(campaignIndex, len(campaigns))
	for _, c := range campaigns {
		if c.ID == "" {
			continue
		}
		// first campaign with an id wins, as in a linear scan
		if _, seen := idx[c.ID.String()]; !seen {
			idx[c.ID.String()] = c
		}
	}
	return idx
}

func (idx campaignIndex) resolve(req model.Request) (model.Campaign, bool) {
	if req.CollaborationID == "" {
		return model.Campaign{}, false
	}
	c, ok := idx[req.CollaborationID.String()]
	return c, ok
}

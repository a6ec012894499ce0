// internal/model/campaign.go
package model

// Campaign is an offer a company publishes for influencers to request.
// Business is the free-text display name of the owning company and the
// only link back to it.
type Campaign struct {
	ID           FlexID `db:"id" json:"id"`
	Title        string `db:"title" json:"title"`
	Business     string `db:"business" json:"business"`
	Category     string `db:"category" json:"category"`
	Description  string `db:"description" json:"description"`
	MinFollowers int    `db:"min_followers" json:"minFollowers"`
}

// CompanyIdentity names the company whose dashboard is being computed.
type CompanyIdentity struct {
	CompanyName string `json:"companyName"`
	CompanyID   string `json:"companyId,omitempty"`
}

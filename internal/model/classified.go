// internal/model/classified.go
package model

type EffectiveStatus string

const (
	EffectivePending  EffectiveStatus = "pending"
	EffectiveApproved EffectiveStatus = "approved"
	EffectiveRejected EffectiveStatus = "rejected"
	EffectiveFinished EffectiveStatus = "finished"
)

type Bucket string

const (
	BucketUpcoming  Bucket = "upcoming"
	BucketPast      Bucket = "past"
	BucketCancelled Bucket = "cancelled"
)

// ClassifiedRequest is a request joined with its campaign and its derived
// lifecycle view. It is recomputed on every query.
type ClassifiedRequest struct {
	Request
	CampaignTitle   string          `json:"campaignTitle"`
	BusinessName    string          `json:"businessName"`
	Category        string          `json:"category"`
	EffectiveStatus EffectiveStatus `json:"effectiveStatus"`
	Bucket          Bucket          `json:"bucket,omitempty"`
}

// CompanyBuckets groups one company's requests by bucket. Unclassified holds
// requests no rule could place; they belong to no bucket.
type CompanyBuckets struct {
	Upcoming     []ClassifiedRequest `json:"upcoming"`
	Past         []ClassifiedRequest `json:"past"`
	Cancelled    []ClassifiedRequest `json:"cancelled"`
	Unclassified []ClassifiedRequest `json:"unclassified"`
}

type EMVEntry struct {
	InfluencerName      string  `json:"influencerName"`
	InfluencerInstagram string  `json:"influencerInstagram"`
	FollowerCount       int     `json:"followerCount"`
	FollowerTier        string  `json:"followerTier"`
	StoriesCounted      int     `json:"storiesCounted"`
	EMV                 float64 `json:"emv"`
}

type EMVResult struct {
	CompanyName         string     `json:"companyName"`
	TotalEMV            float64    `json:"totalEMV"`
	TotalCollaborations int        `json:"totalCollaborations"`
	TotalStories        int        `json:"totalStories"`
	Entries             []EMVEntry `json:"entries"`
}

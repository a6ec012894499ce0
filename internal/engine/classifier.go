package engine

import (
	"time"

	"github.com/unclebandit/collabhub-backend/internal/model"
)

// ReviewFallbackWindow is how long after approval an undated request is
// assumed to have taken place.
const ReviewFallbackWindow = 7 * 24 * time.Hour

// Classification is the derived view of a request at a point in time.
// Classified is false when no rule places the request in a bucket.
type Classification struct {
	Bucket          model.Bucket
	EffectiveStatus model.EffectiveStatus
	Classified      bool
}

func classified(b model.Bucket, s model.EffectiveStatus) Classification {
	return Classification{Bucket: b, EffectiveStatus: s, Classified: true}
}

func unclassified(s model.EffectiveStatus) Classification {
	return Classification{EffectiveStatus: s}
}

// Classify derives a request's bucket and effective status from its stored
// status, its collaboration date and asOf. Dates compare at calendar-day
// granularity in asOf's location; a collaboration dated today is upcoming.
func Classify(req model.Request, asOf time.Time) Classification {
	status := model.EffectiveStatus(req.Status)
	if !req.Status.Valid() {
		return unclassified(status)
	}
	if req.Status == model.StatusRejected {
		return classified(model.BucketCancelled, model.EffectiveRejected)
	}

	if req.HasSelectedDate() {
		today := startOfDay(asOf)
		day := req.SelectedDate.Midnight(asOf.Location())
		if day.Before(today) {
			if req.Status == model.StatusApproved {
				return classified(model.BucketPast, model.EffectiveFinished)
			}
			return classified(model.BucketPast, status)
		}
		return classified(model.BucketUpcoming, status)
	}

	// Undated requests predate date capture. An approval older than the
	// fallback window stands in for the collaboration having happened; a
	// fresher approval is left unclassified.
	if req.Status == model.StatusApproved && req.ReviewedAt != nil {
		if asOf.Sub(*req.ReviewedAt) > ReviewFallbackWindow {
			return classified(model.BucketPast, model.EffectiveFinished)
		}
		return unclassified(status)
	}
	return classified(model.BucketUpcoming, status)
}

// ClassifyRequest joins a request with its resolved campaign and its
// classification.
func ClassifyRequest(req model.Request, campaign model.Campaign, asOf time.Time) (model.ClassifiedRequest, bool) {
	c := Classify(req, asOf)
	return model.ClassifiedRequest{
		Request:         req,
		CampaignTitle:   campaign.Title,
		BusinessName:    campaign.Business,
		Category:        campaign.Category,
		EffectiveStatus: c.EffectiveStatus,
		Bucket:          c.Bucket,
	}, c.Classified
}

func startOfDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}

// internal/service/review_service.go
package service

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	appErrors "github.com/unclebandit/collabhub-backend/internal/errors"
	"github.com/unclebandit/collabhub-backend/internal/logger"
	"github.com/unclebandit/collabhub-backend/internal/model"
	"github.com/unclebandit/collabhub-backend/internal/queue"
	"github.com/unclebandit/collabhub-backend/internal/repository"
)

type CampaignFinder interface {
	GetByID(ctx context.Context, id string) (*model.Campaign, error)
}

// ReviewService performs the admin approve/reject action and announces it
// so dashboards can be recomputed.
type ReviewService struct {
	Store     repository.RequestReviewer
	Campaigns CampaignFinder
	Queue     queue.Queue
	Topic     string
	Now       func() time.Time
}

func (s *ReviewService) now() time.Time {
	if s.Now != nil {
		return s.Now()
	}
	return time.Now().UTC()
}

func (s *ReviewService) Review(ctx context.Context, requestID string, status model.RequestStatus, notes string) (*model.Request, error) {
	if s.Store == nil {
		return nil, appErrors.ErrReadOnlyStore
	}
	if status != model.StatusApproved && status != model.StatusRejected {
		return nil, appErrors.ErrInvalidReviewStatus
	}

	reviewedAt := s.now()
	req, err := s.Store.ReviewRequest(ctx, requestID, status, strings.TrimSpace(notes), reviewedAt)
	if err != nil {
		return nil, err
	}

	log := logger.WithContext(ctx).WithFields(logrus.Fields{
		"request_id": requestID,
		"status":     status,
	})
	log.Info("collaboration request reviewed")

	if s.Queue == nil {
		return req, nil
	}

	company := ""
	if s.Campaigns != nil {
		campaign, err := s.Campaigns.GetByID(ctx, req.CollaborationID.String())
		if err != nil {
			log.WithError(err).Warn("failed to look up campaign for review event")
		} else if campaign != nil {
			company = campaign.Business
		}
	}

	ev := model.ReviewEvent{
		EventID:     uuid.NewString(),
		RequestID:   requestID,
		CompanyName: company,
		Status:      status,
		ReviewedAt:  reviewedAt,
	}
	if err := s.Queue.Publish(s.topic(), ev); err != nil {
		// the review itself is stored; a missed event only delays a refresh
		log.WithError(err).Warn("failed to publish review event")
	}
	return req, nil
}

func (s *ReviewService) topic() string {
	if s.Topic != "" {
		return s.Topic
	}
	return queue.TopicRequestReviewed
}

// internal/service/collaboration_service.go
package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/unclebandit/collabhub-backend/internal/engine"
	appErrors "github.com/unclebandit/collabhub-backend/internal/errors"
	"github.com/unclebandit/collabhub-backend/internal/logger"
	"github.com/unclebandit/collabhub-backend/internal/model"
	"github.com/unclebandit/collabhub-backend/internal/repository"
)

// CollaborationService answers dashboard queries. Each call takes a fresh
// snapshot from the store and runs it through the engine.
type CollaborationService struct {
	Source    repository.SnapshotSource
	Engine    *engine.Engine
	Valuation engine.Valuation
}

func NewCollaborationService(source repository.SnapshotSource, eng *engine.Engine, valuation engine.Valuation) *CollaborationService {
	if eng == nil {
		eng = engine.New()
	}
	return &CollaborationService{Source: source, Engine: eng, Valuation: valuation}
}

func (s *CollaborationService) snapshot(ctx context.Context, company string) (engine.Snapshot, error) {
	if strings.TrimSpace(company) == "" {
		return engine.Snapshot{}, appErrors.ErrCompanyRequired
	}
	snap, err := s.Source.Snapshot(ctx)
	if err != nil {
		return engine.Snapshot{}, fmt.Errorf("load snapshot: %w", err)
	}
	return snap, nil
}

func (s *CollaborationService) ClassifyRequestsForCompany(ctx context.Context, company string, asOf time.Time) (model.CompanyBuckets, error) {
	snap, err := s.snapshot(ctx, company)
	if err != nil {
		return model.CompanyBuckets{}, err
	}

	buckets := s.Engine.ClassifyRequestsForCompany(snap, company, asOf)
	logUnclassified(ctx, company, buckets.Unclassified)
	return buckets, nil
}

func (s *CollaborationService) ComputeCompanyEMV(ctx context.Context, company string, asOf time.Time) (model.EMVResult, error) {
	snap, err := s.snapshot(ctx, company)
	if err != nil {
		return model.EMVResult{}, err
	}

	res, err := s.Engine.ComputeCompanyEMV(snap, company, asOf, s.Valuation)
	if err != nil {
		if appErrors.IsConfiguration(err) {
			logger.WithContext(ctx).WithError(err).WithField("company", company).Error("valuation policy does not cover a finished collaboration")
		}
		return model.EMVResult{}, err
	}
	return res, nil
}

func logUnclassified(ctx context.Context, company string, list []model.ClassifiedRequest) {
	if len(list) == 0 {
		return
	}
	ids := make([]string, 0, len(list))
	for _, cr := range list {
		ids = append(ids, cr.ID.String())
	}
	logger.WithContext(ctx).WithFields(logrus.Fields{
		"company":     company,
		"request_ids": ids,
	}).Warn("requests without a date or an aged approval left out of every bucket")
}

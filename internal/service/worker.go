package service

import (
	"context"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/unclebandit/collabhub-backend/internal/logger"
	"github.com/unclebandit/collabhub-backend/internal/model"
	"github.com/unclebandit/collabhub-backend/internal/queue"
)

// EMVComputer is the part of CollaborationService the worker needs
type EMVComputer interface {
	ComputeCompanyEMV(ctx context.Context, company string, asOf time.Time) (model.EMVResult, error)
}

// EMVWorker recomputes a company's EMV whenever one of its requests is
// reviewed and hands the fresh result to Sink. The current time is viewed
// in Location, the same location the dashboard resolves as_of in, so both
// agree on which day it is.
type EMVWorker struct {
	Service  EMVComputer
	Events   <-chan model.ReviewEvent
	Sink     func(model.EMVResult)
	Location *time.Location
	Now      func() time.Time
}

func NewEMVWorker(svc EMVComputer, events <-chan model.ReviewEvent, sink func(model.EMVResult), loc *time.Location) *EMVWorker {
	if loc == nil {
		loc = time.UTC
	}
	return &EMVWorker{
		Service:  svc,
		Events:   events,
		Sink:     sink,
		Location: loc,
		Now:      time.Now,
	}
}

func (w *EMVWorker) asOf() time.Time {
	now := time.Now
	if w.Now != nil {
		now = w.Now
	}
	loc := w.Location
	if loc == nil {
		loc = time.UTC
	}
	return now().In(loc)
}

// Start processes events until ctx is done or Events is closed.
func (w *EMVWorker) Start(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			return
		case ev, ok := <-w.Events:
			if !ok {
				return
			}
			w.process(ctx, ev)
		}
	}
}

func (w *EMVWorker) process(ctx context.Context, ev model.ReviewEvent) {
	ctx = logger.WithCompany(ctx, ev.CompanyName)
	res, err := w.Service.ComputeCompanyEMV(ctx, ev.CompanyName, w.asOf())
	if err != nil {
		logger.WithContext(ctx).WithError(err).WithField("event_id", ev.EventID).Error("failed to recompute EMV")
		return
	}

	logger.WithContext(ctx).WithFields(logrus.Fields{
		"event_id":             ev.EventID,
		"total_emv":            res.TotalEMV,
		"total_collaborations": res.TotalCollaborations,
	}).Info("EMV recomputed")
	if w.Sink != nil {
		w.Sink(res)
	}
}

// PublishSink announces each recomputed result on topic. A failed publish
// is logged; the next review of the company recomputes it again.
func PublishSink(q queue.Queue, topic string) func(model.EMVResult) {
	return func(res model.EMVResult) {
		if err := q.Publish(topic, res); err != nil {
			logger.GetAppLogger().WithError(err).WithField("company", res.CompanyName).Warn("failed to publish EMV update")
		}
	}
}

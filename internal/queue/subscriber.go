package queue

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/unclebandit/collabhub-backend/internal/logger"
	"github.com/unclebandit/collabhub-backend/internal/model"
)

// DecodeReviewEvent accepts an event value as published in-process or the
// JSON body delivered by a broker.
func DecodeReviewEvent(payload any) (model.ReviewEvent, error) {
	switch v := payload.(type) {
	case model.ReviewEvent:
		return v, nil
	case *model.ReviewEvent:
		if v == nil {
			return model.ReviewEvent{}, fmt.Errorf("nil review event")
		}
		return *v, nil
	case []byte:
		var ev model.ReviewEvent
		if err := json.Unmarshal(v, &ev); err != nil {
			return model.ReviewEvent{}, fmt.Errorf("decode review event: %w", err)
		}
		return ev, nil
	}
	return model.ReviewEvent{}, fmt.Errorf("unexpected review event payload %T", payload)
}

// DecodeEMVResult is DecodeReviewEvent for company_emv_updated messages.
func DecodeEMVResult(payload any) (model.EMVResult, error) {
	switch v := payload.(type) {
	case model.EMVResult:
		return v, nil
	case *model.EMVResult:
		if v == nil {
			return model.EMVResult{}, fmt.Errorf("nil EMV result")
		}
		return *v, nil
	case []byte:
		var res model.EMVResult
		if err := json.Unmarshal(v, &res); err != nil {
			return model.EMVResult{}, fmt.Errorf("decode EMV result: %w", err)
		}
		return res, nil
	}
	return model.EMVResult{}, fmt.Errorf("unexpected EMV result payload %T", payload)
}

// StartReviewSubscriber forwards every review event on topic to events.
// Undecodable payloads are logged and acknowledged; retrying them cannot
// help. Once ctx is done the handler stops waiting on events and fails the
// delivery, so a broker keeps the message for the next consumer.
func StartReviewSubscriber(ctx context.Context, q Queue, topic string, events chan<- model.ReviewEvent) error {
	return q.Subscribe(topic, func(payload any) error {
		ev, err := DecodeReviewEvent(payload)
		if err != nil {
			logger.GetAppLogger().WithError(err).Warn("dropping invalid review event")
			return nil
		}
		if ev.CompanyName == "" {
			logger.GetAppLogger().WithField("request_id", ev.RequestID).Warn("review event without company, skipped")
			return nil
		}
		select {
		case events <- ev:
			return nil
		case <-ctx.Done():
			return fmt.Errorf("review event %s not handed off: %w", ev.EventID, ctx.Err())
		}
	})
}

// StartEMVSubscriber hands every recomputed result on topic to record.
func StartEMVSubscriber(q Queue, topic string, record func(model.EMVResult)) error {
	return q.Subscribe(topic, func(payload any) error {
		res, err := DecodeEMVResult(payload)
		if err != nil {
			logger.GetAppLogger().WithError(err).Warn("dropping invalid EMV update")
			return nil
		}
		record(res)
		return nil
	})
}

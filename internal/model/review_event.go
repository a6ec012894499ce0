// internal/model/review_event.go
package model

import "time"

// ReviewEvent is published after an admin approves or rejects a request.
type ReviewEvent struct {
	EventID     string        `json:"event_id"`
	RequestID   string        `json:"request_id"`
	CompanyName string        `json:"company_name"`
	Status      RequestStatus `json:"status"`
	ReviewedAt  time.Time     `json:"reviewed_at"`
}

// internal/model/request.go
package model

import "time"

type RequestStatus string

const (
	StatusPending  RequestStatus = "pending"
	StatusApproved RequestStatus = "approved"
	StatusRejected RequestStatus = "rejected"
)

func (s RequestStatus) Valid() bool {
	switch s {
	case StatusPending, StatusApproved, StatusRejected:
		return true
	}
	return false
}

// Request is one influencer's submission for one campaign. Status starts
// as pending and is changed at most once, by an admin review.
type Request struct {
	ID              FlexID        `db:"id" json:"id"`
	CollaborationID FlexID        `db:"collaboration_id" json:"collaborationId"`
	Influencer      Influencer    `json:"influencer"`
	SelectedDate    *Day          `db:"selected_date" json:"selectedDate,omitempty"`
	SelectedTime    string        `db:"selected_time" json:"selectedTime,omitempty"`
	Status          RequestStatus `db:"status" json:"status"`
	SubmittedAt     time.Time     `db:"submitted_at" json:"submittedAt"`
	ReviewedAt      *time.Time    `db:"reviewed_at" json:"reviewedAt,omitempty"`
	AdminNotes      string        `db:"admin_notes" json:"adminNotes,omitempty"`
	Message         string        `db:"message" json:"message,omitempty"`
}

func (r Request) HasSelectedDate() bool {
	return r.SelectedDate != nil && !r.SelectedDate.IsZero()
}

package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	appErrors "github.com/unclebandit/collabhub-backend/internal/errors"
	"github.com/unclebandit/collabhub-backend/internal/model"
)

type RequestRepositoryInterface interface {
	ListRequests(ctx context.Context) ([]model.Request, error)
	GetByID(ctx context.Context, id string) (*model.Request, error)
	Create(ctx context.Context, req *model.Request) error
	Import(ctx context.Context, req *model.Request) error
	Review(ctx context.Context, id string, status model.RequestStatus, notes string, reviewedAt time.Time) (*model.Request, error)
}

type RequestRepository struct {
	DB *sql.DB
}

const requestColumns = `id, collaboration_id, influencer_name, instagram_handle, follower_count, city, email, phone,
        selected_date, selected_time, status, submitted_at, reviewed_at, admin_notes, message`

// Create stores a new submission. Every request starts out pending.
func (r *RequestRepository) Create(ctx context.Context, req *model.Request) error {
	req.Status = model.StatusPending
	req.ReviewedAt = nil
	req.AdminNotes = ""
	if req.SubmittedAt.IsZero() {
		req.SubmittedAt = time.Now().UTC()
	}
	return r.insert(ctx, req)
}

// Import stores a request exactly as another store holds it: status,
// reviewed_at and admin notes are kept, including approved or rejected
// records that never got a reviewed_at. It is for migrations and seeding,
// not for the admin review transition.
func (r *RequestRepository) Import(ctx context.Context, req *model.Request) error {
	if !req.Status.Valid() {
		return fmt.Errorf("import request %s: unknown status %q", req.ID, req.Status)
	}
	if req.SubmittedAt.IsZero() {
		req.SubmittedAt = time.Now().UTC()
	}
	return r.insert(ctx, req)
}

func (r *RequestRepository) insert(ctx context.Context, req *model.Request) error {
	var selected *time.Time
	if req.HasSelectedDate() {
		d := req.SelectedDate.Midnight(time.UTC)
		selected = &d
	}

	query := `
        INSERT INTO collaboration_requests
        (id, collaboration_id, influencer_name, instagram_handle, follower_count, city, email, phone,
         selected_date, selected_time, status, submitted_at, reviewed_at, admin_notes, message)
        VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15)
    `
	_, err := r.DB.ExecContext(ctx, query,
		req.ID.String(),
		req.CollaborationID.String(),
		req.Influencer.Name,
		req.Influencer.InstagramHandle,
		int(req.Influencer.FollowerCount),
		nullString(req.Influencer.City),
		nullString(req.Influencer.Email),
		nullString(req.Influencer.Phone),
		selected,
		nullString(req.SelectedTime),
		string(req.Status),
		req.SubmittedAt,
		req.ReviewedAt,
		nullString(req.AdminNotes),
		nullString(req.Message),
	)
	return err
}

func (r *RequestRepository) GetByID(ctx context.Context, id string) (*model.Request, error) {
	query := `SELECT ` + requestColumns + ` FROM collaboration_requests WHERE id=$1`
	req, err := scanRequest(r.DB.QueryRowContext(ctx, query, id))
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, err
	}
	return req, nil
}

func (r *RequestRepository) ListRequests(ctx context.Context) ([]model.Request, error) {
	return listRequests(ctx, r.DB)
}

// Review moves a pending request to approved or rejected. The status guard
// in the UPDATE makes the transition happen at most once.
func (r *RequestRepository) Review(ctx context.Context, id string, status model.RequestStatus, notes string, reviewedAt time.Time) (*model.Request, error) {
	if status != model.StatusApproved && status != model.StatusRejected {
		return nil, appErrors.ErrInvalidReviewStatus
	}

	query := `
        UPDATE collaboration_requests
        SET status=$1, reviewed_at=$2, admin_notes=$3
        WHERE id=$4 AND status='pending'
    `
	res, err := r.DB.ExecContext(ctx, query, string(status), reviewedAt, nullString(notes), id)
	if err != nil {
		return nil, err
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return nil, err
	}

	current, err := r.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if current == nil {
		return nil, appErrors.NewRequestNotFound(id)
	}
	if affected == 0 {
		return nil, appErrors.NewRequestAlreadyReviewed(id, string(current.Status))
	}
	return current, nil
}

func listRequests(ctx context.Context, q querier) ([]model.Request, error) {
	rows, err := q.QueryContext(ctx, `SELECT `+requestColumns+` FROM collaboration_requests ORDER BY submitted_at, id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	requests := []model.Request{}
	for rows.Next() {
		req, err := scanRequest(rows)
		if err != nil {
			return nil, err
		}
		requests = append(requests, *req)
	}
	return requests, rows.Err()
}

func scanRequest(row rowScanner) (*model.Request, error) {
	var (
		req          model.Request
		id, collabID string
		followers    int
		city         sql.NullString
		email        sql.NullString
		phone        sql.NullString
		selectedDate sql.NullTime
		selectedTime sql.NullString
		status       string
		reviewedAt   sql.NullTime
		adminNotes   sql.NullString
		message      sql.NullString
	)
	err := row.Scan(
		&id, &collabID, &req.Influencer.Name, &req.Influencer.InstagramHandle, &followers,
		&city, &email, &phone,
		&selectedDate, &selectedTime, &status, &req.SubmittedAt, &reviewedAt, &adminNotes, &message,
	)
	if err != nil {
		return nil, err
	}

	req.ID = model.FlexID(id)
	req.CollaborationID = model.FlexID(collabID)
	req.Influencer.FollowerCount = model.FollowerCount(followers)
	req.Influencer.City = city.String
	req.Influencer.Email = email.String
	req.Influencer.Phone = phone.String
	if selectedDate.Valid {
		// DATE columns come back as UTC midnight
		d := model.NewDay(selectedDate.Time.Year(), selectedDate.Time.Month(), selectedDate.Time.Day())
		req.SelectedDate = &d
	}
	req.SelectedTime = selectedTime.String
	req.Status = model.RequestStatus(status)
	if reviewedAt.Valid {
		t := reviewedAt.Time
		req.ReviewedAt = &t
	}
	req.AdminNotes = adminNotes.String
	req.Message = message.String
	return &req, nil
}

func nullString(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}

var _ RequestRepositoryInterface = (*RequestRepository)(nil)

// internal/errors/errors.go
package appErrors

import (
	"errors"
	"fmt"
)

// ConfigurationError reports a valuation policy that has no tier for a
// follower count. It points at a policy defect, not at bad request data.
type ConfigurationError struct {
	FollowerCount int
}

func (e *ConfigurationError) Error() string {
	return fmt.Sprintf("valuation policy has no tier for follower count %d", e.FollowerCount)
}

func NewConfigurationError(followers int) error {
	return &ConfigurationError{FollowerCount: followers}
}

// ErrRequestNotFound is returned when a request id is unknown to the store
type ErrRequestNotFound struct {
	RequestID string
}

func (e *ErrRequestNotFound) Error() string {
	return fmt.Sprintf("collaboration request %s not found", e.RequestID)
}

func NewRequestNotFound(id string) error {
	return &ErrRequestNotFound{RequestID: id}
}

// ErrRequestAlreadyReviewed guards the single pending -> approved/rejected
// transition.
type ErrRequestAlreadyReviewed struct {
	RequestID string
	Status    string
}

func (e *ErrRequestAlreadyReviewed) Error() string {
	return fmt.Sprintf("collaboration request %s was already reviewed (status %s)", e.RequestID, e.Status)
}

func NewRequestAlreadyReviewed(id, status string) error {
	return &ErrRequestAlreadyReviewed{RequestID: id, Status: status}
}

var (
	ErrInvalidReviewStatus = errors.New("review status must be approved or rejected")
	ErrInvalidPolicy       = errors.New("invalid valuation policy")
	ErrCompanyRequired     = errors.New("company name is required")
	ErrReadOnlyStore       = errors.New("store does not support reviews")
)

func IsConfiguration(err error) bool {
	var ce *ConfigurationError
	return errors.As(err, &ce)
}

func IsNotFound(err error) bool {
	var nf *ErrRequestNotFound
	return errors.As(err, &nf)
}

func IsAlreadyReviewed(err error) bool {
	var ar *ErrRequestAlreadyReviewed
	return errors.As(err, &ar)
}

// internal/controller/review_controller.go
package controller

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/unclebandit/collabhub-backend/internal/handler"
	"github.com/unclebandit/collabhub-backend/internal/model"
)

type Reviewer interface {
	Review(ctx context.Context, requestID string, status model.RequestStatus, notes string) (*model.Request, error)
}

// ReviewController exposes the admin approve/reject action.
type ReviewController struct {
	ReviewService Reviewer
}

func (c *ReviewController) Routes(r chi.Router) {
	r.Post("/requests/{id}/review", c.ReviewRequest)
}

func (c *ReviewController) ReviewRequest(w http.ResponseWriter, r *http.Request) {
	id := strings.TrimSpace(chi.URLParam(r, "id"))
	if id == "" {
		http.Error(w, "request id is required", http.StatusBadRequest)
		return
	}

	var body struct {
		Status     string `json:"status"`
		AdminNotes string `json:"admin_notes"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		http.Error(w, "invalid body", http.StatusBadRequest)
		return
	}

	status := model.RequestStatus(strings.ToLower(strings.TrimSpace(body.Status)))
	req, err := c.ReviewService.Review(r.Context(), id, status, body.AdminNotes)
	if err != nil {
		handler.WriteError(w, r, err)
		return
	}

	handler.WriteJSON(w, http.StatusOK, req)
}

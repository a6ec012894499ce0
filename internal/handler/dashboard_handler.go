// internal/handler/dashboard_handler.go
package handler

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"

	appErrors "github.com/unclebandit/collabhub-backend/internal/errors"
	"github.com/unclebandit/collabhub-backend/internal/logger"
	"github.com/unclebandit/collabhub-backend/internal/model"
)

// DashboardService is what the company dashboard reads from
type DashboardService interface {
	ClassifyRequestsForCompany(ctx context.Context, company string, asOf time.Time) (model.CompanyBuckets, error)
	ComputeCompanyEMV(ctx context.Context, company string, asOf time.Time) (model.EMVResult, error)
}

// LatestEMVReader returns the last EMV announced for a company
type LatestEMVReader interface {
	Get(company string) (model.EMVResult, bool)
}

// DashboardHandler serves a company's classified requests and its EMV.
type DashboardHandler struct {
	Service  DashboardService
	Latest   LatestEMVReader
	Location *time.Location
	Now      func() time.Time
}

func NewDashboardHandler(svc DashboardService, loc *time.Location) *DashboardHandler {
	if loc == nil {
		loc = time.UTC
	}
	return &DashboardHandler{Service: svc, Location: loc, Now: time.Now}
}

// Routes mounts the dashboard endpoints on r
func (h *DashboardHandler) Routes(r chi.Router) {
	r.Get("/companies/{company}/requests", h.ListRequestsHandler)
	r.Get("/companies/{company}/emv", h.EMVHandler)
	if h.Latest != nil {
		r.Get("/companies/{company}/emv/latest", h.LatestEMVHandler)
	}
}

// ListRequestsHandler returns the upcoming, past and cancelled requests of a company
func (h *DashboardHandler) ListRequestsHandler(w http.ResponseWriter, r *http.Request) {
	company, asOf, ok := h.parseQuery(w, r)
	if !ok {
		return
	}

	buckets, err := h.Service.ClassifyRequestsForCompany(r.Context(), company, asOf)
	if err != nil {
		WriteError(w, r, err)
		return
	}
	WriteJSON(w, http.StatusOK, buckets)
}

// EMVHandler returns the earned media value of a company's finished collaborations
func (h *DashboardHandler) EMVHandler(w http.ResponseWriter, r *http.Request) {
	company, asOf, ok := h.parseQuery(w, r)
	if !ok {
		return
	}

	result, err := h.Service.ComputeCompanyEMV(r.Context(), company, asOf)
	if err != nil {
		WriteError(w, r, err)
		return
	}
	WriteJSON(w, http.StatusOK, result)
}

// LatestEMVHandler returns the result last recomputed after a review, without
// reading the store.
func (h *DashboardHandler) LatestEMVHandler(w http.ResponseWriter, r *http.Request) {
	company := strings.TrimSpace(chi.URLParam(r, "company"))
	if company == "" {
		http.Error(w, appErrors.ErrCompanyRequired.Error(), http.StatusBadRequest)
		return
	}

	result, ok := h.Latest.Get(company)
	if !ok {
		http.Error(w, "no EMV recomputed yet for "+company, http.StatusNotFound)
		return
	}
	WriteJSON(w, http.StatusOK, result)
}

func (h *DashboardHandler) parseQuery(w http.ResponseWriter, r *http.Request) (string, time.Time, bool) {
	company := strings.TrimSpace(chi.URLParam(r, "company"))
	if company == "" {
		http.Error(w, appErrors.ErrCompanyRequired.Error(), http.StatusBadRequest)
		return "", time.Time{}, false
	}

	asOf, err := h.asOf(r.URL.Query().Get("as_of"))
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return "", time.Time{}, false
	}
	return company, asOf, true
}

// asOf resolves the as_of query value. A bare date is the start of that day
// in the configured location; an empty value is the current time there.
func (h *DashboardHandler) asOf(raw string) (time.Time, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		now := time.Now
		if h.Now != nil {
			now = h.Now
		}
		return now().In(h.Location), nil
	}
	if t, err := time.ParseInLocation("2006-01-02", raw, h.Location); err == nil {
		return t, nil
	}
	t, err := time.Parse(time.RFC3339, raw)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid as_of %q: want YYYY-MM-DD or RFC 3339", raw)
	}
	return t, nil
}

// Healthz reports liveness
func Healthz(w http.ResponseWriter, r *http.Request) {
	WriteJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func WriteJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(body)
}

// WriteError maps service errors onto HTTP status codes.
func WriteError(w http.ResponseWriter, r *http.Request, err error) {
	status := http.StatusInternalServerError
	switch {
	case errors.Is(err, appErrors.ErrCompanyRequired), errors.Is(err, appErrors.ErrInvalidReviewStatus):
		status = http.StatusBadRequest
	case appErrors.IsNotFound(err):
		status = http.StatusNotFound
	case appErrors.IsAlreadyReviewed(err):
		status = http.StatusConflict
	case errors.Is(err, appErrors.ErrReadOnlyStore):
		status = http.StatusMethodNotAllowed
	}

	if status == http.StatusInternalServerError {
		logger.WithContext(r.Context()).WithError(err).Error("request failed")
		http.Error(w, "internal error", status)
		return
	}
	http.Error(w, err.Error(), status)
}

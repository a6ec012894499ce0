package service

import (
	"strings"
	"sync"

	"github.com/unclebandit/collabhub-backend/internal/model"
)

// LatestEMV keeps the most recent recomputed EMV per company, as announced
// on the company_emv_updated topic. It is a read model for the last
// announcement, not a cache in front of the engine: live dashboard reads
// still recompute from a fresh snapshot.
type LatestEMV struct {
	mu        sync.RWMutex
	byCompany map[string]model.EMVResult
}

func NewLatestEMV() *LatestEMV {
	return &LatestEMV{byCompany: make(map[string]model.EMVResult)}
}

func (l *LatestEMV) Record(res model.EMVResult) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.byCompany[strings.TrimSpace(res.CompanyName)] = res
}

func (l *LatestEMV) Get(company string) (model.EMVResult, bool) {
	l.mu.RLock()
	defer l.mu.RUnlock()
	res, ok := l.byCompany[strings.TrimSpace(company)]
	return res, ok
}

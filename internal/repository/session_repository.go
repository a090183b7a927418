package repository

import (
	"sync"

	"github.com/andresuchdata/fullstock/internal/domain"
	"github.com/google/uuid"
)

// SessionRepository holds the processed record collection of each company for
// the lifetime of the process. Collections are replaced wholesale and read
// through copies, so callers never observe a partially updated company.
type SessionRepository interface {
	Known() []domain.Company
	IsKnown(company domain.Company) bool
	Replace(company domain.Company, records []domain.SkuFact) uint64
	Get(company domain.Company) ([]domain.SkuFact, bool)
	Delete(company domain.Company) bool
	Reset()
	Snapshot() domain.SessionSnapshot
}

type sessionRepository struct {
	mu        sync.RWMutex
	known     []domain.Company
	sessionID string
	records   map[domain.Company][]domain.SkuFact
	revisions map[domain.Company]uint64
	counter   uint64
}

func NewSessionRepository(known []domain.Company) SessionRepository {
	if len(known) == 0 {
		known = domain.DefaultCompanies
	}
	return &sessionRepository{
		known:     append([]domain.Company{}, known...),
		sessionID: uuid.NewString(),
		records:   make(map[domain.Company][]domain.SkuFact),
		revisions: make(map[domain.Company]uint64),
	}
}

func (r *sessionRepository) Known() []domain.Company {
	return append([]domain.Company{}, r.known...)
}

func (r *sessionRepository) IsKnown(company domain.Company) bool {
	for _, c := range r.known {
		if c == company {
			return true
		}
	}
	return false
}

// Replace stores a copy of records as the company's collection and returns
// its new revision. Revisions never repeat within a process.
func (r *sessionRepository) Replace(company domain.Company, records []domain.SkuFact) uint64 {
	stored := append(make([]domain.SkuFact, 0, len(records)), records...)

	r.mu.Lock()
	defer r.mu.Unlock()
	r.counter++
	r.records[company] = stored
	r.revisions[company] = r.counter
	return r.counter
}

func (r *sessionRepository) Get(company domain.Company) ([]domain.SkuFact, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	records, ok := r.records[company]
	if !ok {
		return nil, false
	}
	return append(make([]domain.SkuFact, 0, len(records)), records...), true
}

func (r *sessionRepository) Delete(company domain.Company) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.records[company]; !ok {
		return false
	}
	delete(r.records, company)
	delete(r.revisions, company)
	return true
}

// Reset drops every collection and starts a new session id.
func (r *sessionRepository) Reset() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.records = make(map[domain.Company][]domain.SkuFact)
	r.revisions = make(map[domain.Company]uint64)
	r.sessionID = uuid.NewString()
}

// Snapshot returns an isolated view of all collections. Collections are stored
// immutably, so only the maps are copied; record slices are shared read-only.
func (r *sessionRepository) Snapshot() domain.SessionSnapshot {
	r.mu.RLock()
	defer r.mu.RUnlock()

	records := make(map[domain.Company][]domain.SkuFact, len(r.records))
	for c, rs := range r.records {
		records[c] = rs[:len(rs):len(rs)]
	}
	revisions := make(map[domain.Company]uint64, len(r.revisions))
	for c, rev := range r.revisions {
		revisions[c] = rev
	}

	return domain.SessionSnapshot{
		SessionID: r.sessionID,
		Known:     r.Known(),
		Records:   records,
		Revisions: revisions,
	}
}

package check

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/proof-of-corn/corncheck/internal/agronomy"
	"github.com/proof-of-corn/corncheck/internal/journal"
	"github.com/proof-of-corn/corncheck/internal/weather"
)

// Service runs a single check: fetch conditions, evaluate the planting
// rules, persist the record. Strictly sequential, one pass per call.
type Service struct {
	provider weather.Provider
	journal  *journal.Journal
	location weather.Location
	params   agronomy.Params

	// now is replaceable in tests.
	now func() time.Time
}

// NewService creates a Service.
func NewService(provider weather.Provider, j *journal.Journal, loc weather.Location, params agronomy.Params) *Service {
	return &Service{
		provider: provider,
		journal:  j,
		location: loc,
		params:   params,
		now:      time.Now,
	}
}

// Params returns the agronomic parameters the service evaluates with.
func (s *Service) Params() agronomy.Params {
	return s.params
}

// Journal exposes the underlying journal for read-only consumers.
func (s *Service) Journal() *journal.Journal {
	return s.journal
}

// RunOnce performs one full check. A fetch failure aborts before any
// analysis or write: nothing is logged for a failed run. On success it
// returns the record and the per-day log file path.
func (s *Service) RunOnce(ctx context.Context) (agronomy.Record, string, error) {
	snap, err := s.provider.Fetch(ctx, s.location)
	if err != nil {
		return agronomy.Record{}, "", fmt.Errorf("fetch weather from %s: %w", s.provider.Name(), err)
	}

	rec := agronomy.Analyze(s.now(), snap, s.params)

	logPath, err := s.journal.Write(rec)
	if err != nil {
		return agronomy.Record{}, "", fmt.Errorf("persist check: %w", err)
	}

	log.Printf("check complete: %s (%s)", rec.Decision.Action, rec.Decision.Rationale)
	return rec, logPath, nil
}

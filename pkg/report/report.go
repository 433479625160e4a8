// Package report provides optional persistence of completed compliance
// checks. The check pipeline itself is stateless; a Store is an opt-in
// side channel the server writes to after responding, so operators can
// audit past checks.
//
// Two implementations exist: [MemoryStore] for tests and single-process
// setups, and [MongoStore] for durable history in server deployments.
package report

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/matzehuels/licensegate/pkg/checker"
)

// Report is one completed compliance check.
type Report struct {
	ID        string           `bson:"_id" json:"id"`
	Source    string           `bson:"source" json:"source"`   // uploaded filename or repository reference
	Policy    string           `bson:"policy" json:"policy"`   // policy name the check ran under
	Records   []checker.Record `bson:"records" json:"records"` // per-dependency verdicts
	CreatedAt time.Time        `bson:"created_at" json:"created_at"`
}

// New builds a Report with a fresh ID and the current timestamp.
func New(source, policyName string, records []checker.Record) *Report {
	return &Report{
		ID:        uuid.NewString(),
		Source:    source,
		Policy:    policyName,
		Records:   records,
		CreatedAt: time.Now().UTC(),
	}
}

// Summary counts records by status.
func (r *Report) Summary() map[string]int {
	counts := make(map[string]int, 3)
	for _, rec := range r.Records {
		counts[string(rec.Status)]++
	}
	return counts
}

// Store persists completed reports.
type Store interface {
	// Save stores a report.
	Save(ctx context.Context, r *Report) error

	// List returns the most recent reports, newest first, up to limit.
	List(ctx context.Context, limit int) ([]*Report, error)

	// Close releases any resources held by the store.
	Close(ctx context.Context) error
}

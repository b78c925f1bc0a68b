// Package history persists completed runs as JSON records so they can be
// listed, re-rendered and compared later. Records are written by fit --save
// and the API server, and read back by the runs and show commands.
package history

import (
	"context"
	"time"

	"github.com/ckski/Evolution-Tutorials/pkg/poly"
)

// Record is one completed search run.
type Record struct {
	ID        string    `json:"id"`
	CreatedAt time.Time `json:"created_at"`

	Target  string `json:"target"`
	Width   int    `json:"width"`
	Height  int    `json:"height"`
	Points  int    `json:"points"`
	Backend string `json:"backend"`

	Strategy string `json:"strategy"`
	Seed     uint64 `json:"seed"`
	Workers  int    `json:"workers"`

	// Solution is the winning candidate in "x,y x,y ..." notation.
	Solution string        `json:"solution"`
	Score    float64       `json:"score"`
	Trials   int           `json:"trials"`
	Steps    int           `json:"steps"`
	Evals    int64         `json:"evals"`
	Elapsed  time.Duration `json:"elapsed"`
}

// Polygon parses the stored solution.
func (r *Record) Polygon() (poly.Polygon, error) {
	return poly.Parse(r.Solution)
}

// Store persists run records.
type Store interface {
	// Save writes a record. An existing record with the same ID is
	// overwritten.
	Save(ctx context.Context, rec *Record) error

	// Get retrieves a record by run ID. A missing record is an
	// ErrCodeRunNotFound error.
	Get(ctx context.Context, id string) (*Record, error)

	// List returns all records, newest first.
	List(ctx context.Context) ([]*Record, error)

	// Delete removes a record. Deleting a missing record is not an error.
	Delete(ctx context.Context, id string) error

	// Prune deletes all but the keep newest records and reports how many
	// were removed.
	Prune(ctx context.Context, keep int) (int, error)
}

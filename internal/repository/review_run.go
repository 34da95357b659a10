package repository

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"

	"github.com/joseph-ayodele/docreview/constants"
	"github.com/joseph-ayodele/docreview/internal/common"
)

// ReviewRun is one persisted review. ResultJSON only ever holds a masked
// result.
type ReviewRun struct {
	ID         uuid.UUID           `json:"id"`
	CreatedAt  time.Time           `json:"created_at"`
	UpdatedAt  time.Time           `json:"updated_at"`
	NameA      string              `json:"name_a"`
	NameB      string              `json:"name_b"`
	Status     constants.RunStatus `json:"status"`
	HighCount  int                 `json:"high_count"`
	Error      string              `json:"error,omitempty"`
	ResultJSON []byte              `json:"result,omitempty"`
}

// ReviewStore persists review runs.
type ReviewStore interface {
	// Save inserts or replaces run by ID.
	Save(ctx context.Context, run *ReviewRun) error
	Get(ctx context.Context, id uuid.UUID) (*ReviewRun, error)
	// List returns the newest runs first.
	List(ctx context.Context, limit int) ([]ReviewRun, error)
	Close() error
}

// NewRun returns a queued run with a fresh id.
func NewRun(nameA, nameB string) *ReviewRun {
	now := time.Now().UTC()
	return &ReviewRun{
		ID:        uuid.New(),
		CreatedAt: now,
		UpdatedAt: now,
		NameA:     nameA,
		NameB:     nameB,
		Status:    constants.RunStatusQueued,
	}
}

const defaultListLimit = 50

func listLimit(limit int) int {
	if limit <= 0 || limit > 1000 {
		return defaultListLimit
	}
	return limit
}

func notFound(id uuid.UUID) error {
	return common.NewAppError("NOT_FOUND", "review run "+id.String(), common.ErrNotFound)
}

// IsNotFound reports whether err means the run does not exist.
func IsNotFound(err error) bool {
	return errors.Is(err, common.ErrNotFound)
}

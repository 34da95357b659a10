package async

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/joseph-ayodele/docreview/internal/pipeline"
)

// Job is one queued review. The run row is created before enqueueing.
type Job struct {
	RunID       uuid.UUID
	Request     pipeline.Request
	SubmittedAt time.Time
	TraceID     string
}

type Queue interface {
	Enqueue(ctx context.Context, job Job) error
	Shutdown(ctx context.Context)
}

// Reviewer is the part of pipeline.Session the workers use.
type Reviewer interface {
	Review(ctx context.Context, req pipeline.Request) (*pipeline.Result, error)
}

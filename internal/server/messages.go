package server

import (
	"encoding/json"
	"time"

	"github.com/joseph-ayodele/docreview/constants"
	"github.com/joseph-ayodele/docreview/internal/pipeline"
	"github.com/joseph-ayodele/docreview/internal/repository"
)

// ReviewRequest names up to two documents. Paths are read on the server.
type ReviewRequest struct {
	A *pipeline.Input `json:"a,omitempty"`
	B *pipeline.Input `json:"b,omitempty"`
}

func (r *ReviewRequest) pipeline() pipeline.Request {
	return pipeline.Request{A: r.A, B: r.B}
}

// ReviewResponse always carries a masked result.
type ReviewResponse struct {
	RunID  string           `json:"run_id,omitempty"`
	Result *pipeline.Result `json:"result"`
}

type SubmitResponse struct {
	RunID  string              `json:"run_id"`
	Status constants.RunStatus `json:"status"`
}

type GetRunRequest struct {
	RunID string `json:"run_id"`
}

type GetRunResponse struct {
	Run *Run `json:"run"`
}

type ListRunsRequest struct {
	Limit int `json:"limit,omitempty"`
}

type ListRunsResponse struct {
	Runs []*Run `json:"runs"`
}

// Run is the wire form of a stored review run.
type Run struct {
	ID        string              `json:"id"`
	Status    constants.RunStatus `json:"status"`
	NameA     string              `json:"name_a,omitempty"`
	NameB     string              `json:"name_b,omitempty"`
	HighCount int                 `json:"high_count"`
	Error     string              `json:"error,omitempty"`
	CreatedAt string              `json:"created_at"`
	UpdatedAt string              `json:"updated_at"`
	Result    json.RawMessage     `json:"result,omitempty"`
}

func toRun(r *repository.ReviewRun, withResult bool) *Run {
	out := &Run{
		ID:        r.ID.String(),
		Status:    r.Status,
		NameA:     r.NameA,
		NameB:     r.NameB,
		HighCount: r.HighCount,
		Error:     r.Error,
		CreatedAt: r.CreatedAt.Format(time.RFC3339Nano),
		UpdatedAt: r.UpdatedAt.Format(time.RFC3339Nano),
	}
	if withResult && len(r.ResultJSON) > 0 {
		out.Result = json.RawMessage(r.ResultJSON)
	}
	return out
}

package server

import (
	"context"
	"encoding/json"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/joseph-ayodele/docreview/constants"
	"github.com/joseph-ayodele/docreview/internal/async"
	"github.com/joseph-ayodele/docreview/internal/common"
	"github.com/joseph-ayodele/docreview/internal/pipeline"
	"github.com/joseph-ayodele/docreview/internal/repository"
)

// Submitter queues a review and returns its run row.
type Submitter interface {
	Submit(ctx context.Context, req pipeline.Request) (*repository.ReviewRun, error)
}

// ReviewService implements ReviewServiceServer. Every result leaving the
// service is masked.
type ReviewService struct {
	reviewer async.Reviewer
	queue    Submitter
	store    repository.ReviewStore
	logger   *slog.Logger
}

func NewReviewService(reviewer async.Reviewer, queue Submitter, store repository.ReviewStore, logger *slog.Logger) *ReviewService {
	if logger == nil {
		logger = slog.Default()
	}
	return &ReviewService{reviewer: reviewer, queue: queue, store: store, logger: logger}
}

func (s *ReviewService) Review(ctx context.Context, req *ReviewRequest) (*ReviewResponse, error) {
	if err := validateRequest(req); err != nil {
		s.logger.Warn("rpc.review.invalid", "error", err)
		return nil, common.ToStatus(err)
	}
	res, err := s.reviewer.Review(ctx, req.pipeline())
	if err != nil {
		s.logger.Error("rpc.review.failed", "error", err)
		return nil, common.ToStatus(err)
	}
	masked := res.Masked()
	out := &ReviewResponse{Result: masked}

	if s.store != nil {
		if id, err := s.record(ctx, masked, res.HighCount()); err != nil {
			s.logger.Warn("rpc.review.store_failed", "error", err)
		} else {
			out.RunID = id
		}
	}
	return out, nil
}

func (s *ReviewService) record(ctx context.Context, masked *pipeline.Result, high int) (string, error) {
	run := repository.NewRun("", "")
	if masked.A != nil {
		run.NameA = masked.A.Name
	}
	if masked.B != nil {
		run.NameB = masked.B.Name
	}
	b, err := json.Marshal(masked)
	if err != nil {
		return "", err
	}
	run.Status = constants.RunStatusDone
	run.HighCount = high
	run.ResultJSON = b
	run.UpdatedAt = time.Now().UTC()
	if err := s.store.Save(ctx, run); err != nil {
		return "", err
	}
	return run.ID.String(), nil
}

func (s *ReviewService) Submit(ctx context.Context, req *ReviewRequest) (*SubmitResponse, error) {
	if s.queue == nil {
		return nil, common.FailedPreconditionError("review queue is not configured")
	}
	if err := validateRequest(req); err != nil {
		return nil, common.ToStatus(err)
	}
	run, err := s.queue.Submit(ctx, req.pipeline())
	if err != nil {
		s.logger.Error("rpc.submit.failed", "error", err)
		return nil, common.ToStatus(err)
	}
	return &SubmitResponse{RunID: run.ID.String(), Status: run.Status}, nil
}

func (s *ReviewService) GetRun(ctx context.Context, req *GetRunRequest) (*GetRunResponse, error) {
	if s.store == nil {
		return nil, common.FailedPreconditionError("review store is not configured")
	}
	v := common.NewValidator().Field("run_id", req.RunID, common.Required, common.UUID)
	if err := common.ValidateAndReturnError(v); err != nil {
		return nil, err
	}
	run, err := s.store.Get(ctx, uuid.MustParse(req.RunID))
	if err != nil {
		return nil, common.ToStatus(err)
	}
	return &GetRunResponse{Run: toRun(run, true)}, nil
}

func (s *ReviewService) ListRuns(ctx context.Context, req *ListRunsRequest) (*ListRunsResponse, error) {
	if req.Limit < 0 {
		return nil, common.InvalidArgumentErrorf("limit must not be negative, got %d", req.Limit)
	}
	if s.store == nil {
		return nil, common.FailedPreconditionError("review store is not configured")
	}
	runs, err := s.store.List(ctx, req.Limit)
	if err != nil {
		s.logger.Error("rpc.list_runs.failed", "error", err)
		return nil, common.InternalErrorf("list runs: %v", err)
	}
	out := make([]*Run, 0, len(runs))
	for i := range runs {
		out = append(out, toRun(&runs[i], false))
	}
	return &ListRunsResponse{Runs: out}, nil
}

func validateRequest(req *ReviewRequest) error {
	for _, in := range []*pipeline.Input{req.A, req.B} {
		if in == nil {
			continue
		}
		if in.Path == "" && in.Text == "" {
			return common.NewAppError("INVALID_ARGUMENT", "document needs a path or text", common.ErrInvalidInput)
		}
		o := in.Options
		if err := common.ValidateReviewOptions(o.OCRMode, o.Strategy, in.DocType); err != nil {
			return err
		}
	}
	return nil
}

var _ ReviewServiceServer = (*ReviewService)(nil)

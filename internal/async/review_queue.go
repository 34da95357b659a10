package async

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"path/filepath"
	"sync"
	"time"

	"github.com/joseph-ayodele/docreview/constants"
	"github.com/joseph-ayodele/docreview/internal/common"
	"github.com/joseph-ayodele/docreview/internal/pipeline"
	"github.com/joseph-ayodele/docreview/internal/repository"
)

// ErrQueueClosed is returned by Enqueue after Shutdown.
var ErrQueueClosed = errors.New("queue is shutting down")

// ReviewQueue runs reviews on a fixed worker pool and records every state
// change in the store. Only masked results are persisted.
type ReviewQueue struct {
	reviewer Reviewer
	store    repository.ReviewStore
	logger   *slog.Logger
	workers  int
	timeout  time.Duration

	ch   chan Job
	wg   sync.WaitGroup
	once sync.Once

	mu     sync.Mutex
	closed bool
}

type Option func(*ReviewQueue)

func WithWorkers(n int) Option {
	return func(q *ReviewQueue) {
		if n > 0 {
			q.workers = n
		}
	}
}

func WithQueueSize(n int) Option {
	return func(q *ReviewQueue) {
		if n > 0 {
			q.ch = make(chan Job, n)
		}
	}
}

func WithProcessTimeout(d time.Duration) Option {
	return func(q *ReviewQueue) {
		if d > 0 {
			q.timeout = d
		}
	}
}

func NewReviewQueue(r Reviewer, store repository.ReviewStore, logger *slog.Logger, opts ...Option) *ReviewQueue {
	if logger == nil {
		logger = slog.Default()
	}
	q := &ReviewQueue{
		reviewer: r,
		store:    store,
		logger:   logger,
		workers:  2,
		timeout:  5 * time.Minute,
		ch:       make(chan Job, 64),
	}
	for _, o := range opts {
		o(q)
	}
	q.start()
	return q
}

func (q *ReviewQueue) start() {
	q.once.Do(func() {
		for i := 0; i < q.workers; i++ {
			q.wg.Add(1)
			go func(workerID int) {
				defer q.wg.Done()
				q.logger.Info("review.worker.started", "worker_id", workerID)
				for job := range q.ch {
					q.process(workerID, job)
				}
				q.logger.Info("review.worker.stopped", "worker_id", workerID)
			}(i + 1)
		}
	})
}

// Submit records a queued run for req and enqueues it.
func (q *ReviewQueue) Submit(ctx context.Context, req pipeline.Request) (*repository.ReviewRun, error) {
	run := repository.NewRun(inputName(req.A), inputName(req.B))
	if err := q.store.Save(ctx, run); err != nil {
		return nil, common.NewAppError("STORE_ERROR", "record queued run", errors.Join(common.ErrDatabase, err))
	}
	job := Job{RunID: run.ID, Request: req, SubmittedAt: run.CreatedAt, TraceID: common.RequestIDFromContext(ctx)}
	if err := q.Enqueue(ctx, job); err != nil {
		run.Status = constants.RunStatusFailed
		run.Error = err.Error()
		run.UpdatedAt = time.Now().UTC()
		_ = q.store.Save(ctx, run)
		return nil, err
	}
	return run, nil
}

func (q *ReviewQueue) Enqueue(ctx context.Context, job Job) error {
	q.mu.Lock()
	defer q.mu.Unlock()
	if q.closed {
		q.logger.Warn("review.queue.closed", "run_id", job.RunID)
		return ErrQueueClosed
	}
	select {
	case q.ch <- job:
		q.logger.Info("review.queue.enqueued", "run_id", job.RunID)
	default:
		q.logger.Warn("review.queue.full", "run_id", job.RunID)
		select {
		case q.ch <- job:
		case <-ctx.Done():
			return ctx.Err()
		}
	}
	return nil
}

func (q *ReviewQueue) Shutdown(ctx context.Context) {
	q.mu.Lock()
	if q.closed {
		q.mu.Unlock()
		return
	}
	q.closed = true
	close(q.ch)
	q.mu.Unlock()

	done := make(chan struct{})
	go func() { defer close(done); q.wg.Wait() }()

	select {
	case <-ctx.Done():
		q.logger.Warn("review.queue.shutdown_interrupted")
	case <-done:
		q.logger.Info("review.queue.drained")
	}
}

func (q *ReviewQueue) process(workerID int, job Job) {
	start := time.Now()
	ctx, cancel := context.WithTimeout(context.Background(), q.timeout)
	defer cancel()
	ctx = common.WithRunID(ctx, job.RunID.String())
	if job.TraceID != "" {
		ctx = common.WithRequestID(ctx, job.TraceID)
	}
	log := q.logger.With("worker_id", workerID, "run_id", job.RunID)

	run, err := q.store.Get(ctx, job.RunID)
	if err != nil {
		log.Error("review.run.lookup_failed", "error", err)
		return
	}
	q.update(ctx, run, constants.RunStatusRunning, "", nil, 0)

	res, err := q.reviewer.Review(ctx, job.Request)
	if err != nil {
		log.Error("review.run.failed", "error", err, "elapsed_ms", time.Since(start).Milliseconds())
		q.update(ctx, run, constants.RunStatusFailed, err.Error(), nil, 0)
		return
	}

	masked := res.Masked()
	b, err := json.Marshal(masked)
	if err != nil {
		q.update(ctx, run, constants.RunStatusFailed, err.Error(), nil, 0)
		return
	}
	if masked.A != nil {
		run.NameA = masked.A.Name
	}
	if masked.B != nil {
		run.NameB = masked.B.Name
	}
	q.update(ctx, run, constants.RunStatusDone, "", b, res.HighCount())
	log.Info("review.run.ok", "high", res.HighCount(), "elapsed_ms", time.Since(start).Milliseconds())
}

func (q *ReviewQueue) update(ctx context.Context, run *repository.ReviewRun, status constants.RunStatus, msg string, result []byte, high int) {
	run.Status = status
	run.Error = msg
	run.ResultJSON = result
	run.HighCount = high
	run.UpdatedAt = time.Now().UTC()
	// the review deadline must not stop the final status write
	if err := q.store.Save(context.WithoutCancel(ctx), run); err != nil {
		q.logger.Error("review.run.save_failed", "run_id", run.ID, "status", status, "error", err)
	}
}

func inputName(in *pipeline.Input) string {
	switch {
	case in == nil:
		return ""
	case in.Name != "":
		return in.Name
	}
	return filepath.Base(in.Path)
}

var _ Queue = (*ReviewQueue)(nil)

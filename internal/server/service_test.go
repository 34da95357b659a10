package server

import (
	"context"
	"errors"
	"log/slog"
	"net"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/credentials/insecure"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"
	"google.golang.org/grpc/status"
	"google.golang.org/grpc/test/bufconn"

	"github.com/joseph-ayodele/docreview/constants"
	"github.com/joseph-ayodele/docreview/internal/async"
	"github.com/joseph-ayodele/docreview/internal/common"
	"github.com/joseph-ayodele/docreview/internal/loader"
	"github.com/joseph-ayodele/docreview/internal/pipeline"
	"github.com/joseph-ayodele/docreview/internal/repository"
)

var quiet = slog.New(slog.DiscardHandler)

type harness struct {
	client *ReviewServiceClient
	conn   *grpc.ClientConn
	store  repository.ReviewStore
	queue  *async.ReviewQueue
}

func start(t *testing.T, withQueue bool) *harness {
	t.Helper()
	store, err := repository.OpenSQLite(context.Background(), ":memory:", quiet)
	require.NoError(t, err)

	session := pipeline.NewSession(loader.New(loader.Config{}, quiet), quiet)
	h := &harness{store: store}
	var sub Submitter
	if withQueue {
		h.queue = async.NewReviewQueue(session, store, quiet, async.WithWorkers(1))
		sub = h.queue
	}

	gs, _ := New(NewReviewService(session, sub, store, quiet), quiet)
	lis := bufconn.Listen(1 << 20)
	go func() { _ = gs.Serve(lis) }()

	conn, err := grpc.NewClient("passthrough:///bufnet",
		grpc.WithContextDialer(func(ctx context.Context, _ string) (net.Conn, error) { return lis.DialContext(ctx) }),
		grpc.WithTransportCredentials(insecure.NewCredentials()),
	)
	require.NoError(t, err)
	h.conn = conn
	h.client = NewReviewServiceClient(conn)

	t.Cleanup(func() {
		_ = conn.Close()
		gs.Stop()
		if h.queue != nil {
			ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			h.queue.Shutdown(ctx)
			cancel()
		}
		_ = store.Close()
	})
	return h
}

func pair() *ReviewRequest {
	return &ReviewRequest{
		A: &pipeline.Input{Name: "termsheet", Text: "회사명: 주식회사 가나다\n투자금액: 5억원"},
		B: &pipeline.Input{Name: "agreement", Text: "회사명: 주식회사 가나다\n투자금액: 6억원"},
	}
}

func TestReviewReturnsMaskedResult(t *testing.T) {
	h := start(t, false)
	resp, err := h.client.Review(context.Background(), pair())
	require.NoError(t, err)
	require.NotNil(t, resp.Result)

	res := resp.Result
	assert.True(t, res.IsMasked)
	require.Len(t, res.Opinion.Items, 1)
	assert.Equal(t, constants.SeverityHigh, res.Opinion.Items[0].Severity)
	assert.Equal(t, "[AMOUNT_1]", res.A.Fields["investment_amount"].Value)
	assert.Equal(t, "[COMPANY_1]", res.Comparisons[0].ValueA)

	require.NotEmpty(t, resp.RunID)
	got, err := h.client.GetRun(context.Background(), &GetRunRequest{RunID: resp.RunID})
	require.NoError(t, err)
	assert.Equal(t, constants.RunStatusDone, got.Run.Status)
	assert.Equal(t, 1, got.Run.HighCount)
	assert.NotContains(t, string(got.Run.Result), "가나다")
}

func TestReviewInvalidOptions(t *testing.T) {
	h := start(t, false)
	req := pair()
	req.A.Options = loader.Options{OCRMode: "sometimes"}
	_, err := h.client.Review(context.Background(), req)
	require.Error(t, err)
	assert.Equal(t, codes.InvalidArgument, status.Code(err))

	_, err = h.client.Review(context.Background(), &ReviewRequest{A: &pipeline.Input{}})
	assert.Equal(t, codes.InvalidArgument, status.Code(err))

	// a non-positive budget asks for every page
	req = pair()
	req.A.Options = loader.Options{Budget: loader.Budget(-1)}
	_, err = h.client.Review(context.Background(), req)
	assert.NoError(t, err)
}

func TestReviewUnsupportedFormat(t *testing.T) {
	h := start(t, false)
	_, err := h.client.Review(context.Background(), &ReviewRequest{
		A: &pipeline.Input{Path: "/nonexistent/a.xyz"},
		B: &pipeline.Input{Path: "/nonexistent/b.xyz"},
	})
	require.Error(t, err)
	assert.Equal(t, codes.InvalidArgument, status.Code(err))
}

func TestSubmitAndGetRun(t *testing.T) {
	h := start(t, true)
	sub, err := h.client.Submit(context.Background(), pair())
	require.NoError(t, err)
	assert.Equal(t, constants.RunStatusQueued, sub.Status)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	h.queue.Shutdown(ctx)

	got, err := h.client.GetRun(context.Background(), &GetRunRequest{RunID: sub.RunID})
	require.NoError(t, err)
	assert.Equal(t, constants.RunStatusDone, got.Run.Status)
	assert.NotEmpty(t, got.Run.Result)

	list, err := h.client.ListRuns(context.Background(), &ListRunsRequest{})
	require.NoError(t, err)
	require.Len(t, list.Runs, 1)
	assert.Empty(t, list.Runs[0].Result)

	_, err = h.client.ListRuns(context.Background(), &ListRunsRequest{Limit: -1})
	assert.Equal(t, codes.InvalidArgument, status.Code(err))
}

func TestSubmitWithoutQueue(t *testing.T) {
	h := start(t, false)
	_, err := h.client.Submit(context.Background(), pair())
	assert.Equal(t, codes.FailedPrecondition, status.Code(err))
}

func TestGetRunErrors(t *testing.T) {
	h := start(t, false)
	_, err := h.client.GetRun(context.Background(), &GetRunRequest{RunID: "nope"})
	assert.Equal(t, codes.InvalidArgument, status.Code(err))

	_, err = h.client.GetRun(context.Background(), &GetRunRequest{RunID: "6f1c3c1e-7a43-4c55-9a3e-2a4b1d8f0c11"})
	assert.Equal(t, codes.NotFound, status.Code(err))
}

func TestHealth(t *testing.T) {
	h := start(t, false)
	resp, err := healthpb.NewHealthClient(h.conn).Check(context.Background(), &healthpb.HealthCheckRequest{Service: serviceName})
	require.NoError(t, err)
	assert.Equal(t, healthpb.HealthCheckResponse_SERVING, resp.GetStatus())
}

type failingReviewer struct{ err error }

func (f failingReviewer) Review(context.Context, pipeline.Request) (*pipeline.Result, error) {
	return nil, f.err
}

func TestErrorMapping(t *testing.T) {
	cases := []struct {
		name string
		err  error
		code codes.Code
	}{
		{"capability", common.NewAppError("CONFIG_ERROR", "no tesseract", common.ErrCapabilityUnavailable), codes.FailedPrecondition},
		{"internal", errors.New("boom"), codes.Internal},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			svc := NewReviewService(failingReviewer{tc.err}, nil, nil, quiet)
			_, err := svc.Review(context.Background(), pair())
			assert.Equal(t, tc.code, status.Code(err))
		})
	}
}

package common

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

func TestContextIDs(t *testing.T) {
	ctx := context.Background()
	assert.Empty(t, RequestIDFromContext(ctx))
	assert.Nil(t, LogArgs(ctx))

	ctx = WithRunID(WithRequestID(ctx, "req-1"), "run-1")
	assert.Equal(t, "req-1", RequestIDFromContext(ctx))
	assert.Equal(t, "run-1", RunIDFromContext(ctx))
	assert.Equal(t, []any{"request_id", "req-1", "run_id", "run-1"}, LogArgs(ctx))
}

func TestToStatusPassesThroughStatus(t *testing.T) {
	in := status.Error(codes.FailedPrecondition, "no queue")
	assert.Equal(t, in, ToStatus(in))
}

func TestValidatorCollects(t *testing.T) {
	v := NewValidator().
		Field("run_id", "", Required, UUID).
		Field("budget", -1, NonNegative)
	assert.True(t, v.HasErrors())
	assert.ErrorIs(t, v.Error(), ErrValidation)
	assert.Contains(t, v.ErrorMessage(), "must be a valid UUID")
	assert.Equal(t, codes.InvalidArgument, status.Code(ValidateAndReturnError(v)))
	assert.NoError(t, NewValidator().Field("run_id", "6f1c6d3e-3b1a-4f0e-9b8e-2d7f1b0c9a11", Required, UUID).Error())
}

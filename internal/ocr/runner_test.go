package ocr

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTruncateKeepsRunes(t *testing.T) {
	s := "가나다라"
	out := truncate(s, 4)
	assert.Equal(t, "가...(truncated)", out)
	assert.Equal(t, s, truncate(s, 64))
}

func TestToolRunnerEnv(t *testing.T) {
	assert.Empty(t, toolRunner(Config{Concurrency: 1}).Env)
	assert.Equal(t, []string{"OMP_THREAD_LIMIT=1"}, toolRunner(Config{Concurrency: 4}).Env)
}

func TestExecRunnerMissingBinary(t *testing.T) {
	_, _, err := ExecRunner{}.Run(context.Background(), "docreview-no-such-tool", quietLogger())
	require.Error(t, err)
	assert.True(t, strings.Contains(err.Error(), "docreview-no-such-tool"))
}

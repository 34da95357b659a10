package ocr

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"os"
	"os/exec"
	"time"
	"unicode/utf8"
)

// Runner executes an external tool (pdftoppm, tesseract) and hands back its
// captured output. Tests substitute a fake.
type Runner interface {
	Run(ctx context.Context, name string, logger *slog.Logger, args ...string) (stdout, stderr []byte, err error)
}

// ExecRunner runs tools through os/exec. Env entries are appended to the
// inherited environment, e.g. "OMP_THREAD_LIMIT=1" to keep tesseract from
// fanning out across cores when pages already run in parallel.
type ExecRunner struct {
	Env []string
}

const stderrLogCap = 4 << 10

func (r ExecRunner) Run(ctx context.Context, name string, logger *slog.Logger, args ...string) ([]byte, []byte, error) {
	if logger == nil {
		logger = slog.Default()
	}
	cmd := exec.CommandContext(ctx, name, args...)
	if len(r.Env) > 0 {
		cmd.Env = append(os.Environ(), r.Env...)
	}
	var stdout, stderr bytes.Buffer
	cmd.Stdout, cmd.Stderr = &stdout, &stderr

	start := time.Now()
	err := cmd.Run()
	elapsed := time.Since(start).Milliseconds()

	if err == nil {
		logger.Debug("ocr.tool.ok", "tool", name, "argc", len(args), "elapsed_ms", elapsed, "stdout_bytes", stdout.Len())
		return stdout.Bytes(), stderr.Bytes(), nil
	}

	code := -1
	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) {
		code = exitErr.ExitCode()
	}
	if ctx.Err() != nil {
		err = errors.Join(err, ctx.Err())
	}
	logger.Warn("ocr.tool.failed", "tool", name, "exit_code", code, "elapsed_ms", elapsed,
		"stderr", truncate(stderr.String(), stderrLogCap), "error", err)
	return stdout.Bytes(), stderr.Bytes(), err
}

// truncate cuts s to at most max bytes without splitting a UTF-8 sequence.
func truncate(s string, max int) string {
	if len(s) <= max {
		return s
	}
	cut := max
	for cut > 0 && !utf8.RuneStart(s[cut]) {
		cut--
	}
	return s[:cut] + "...(truncated)"
}

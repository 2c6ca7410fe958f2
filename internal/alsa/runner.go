package alsa

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os/exec"
	"strings"
	"syscall"
	"time"

	"github.com/smazurov/audionode/internal/logging"
)

// DefaultCommandTimeout bounds a single external command invocation.
// amixer and aplay return in well under a second on healthy systems; the
// generous limit covers slow USB device probes.
const DefaultCommandTimeout = 5 * time.Second

// Result holds the captured output of a completed external command.
type Result struct {
	Stdout   string
	Stderr   string
	ExitCode int
}

// Runner executes external audio utilities. It is the sole point of
// subprocess creation for this package; everything else depends on this
// contract so tests can substitute scripted transcripts.
type Runner interface {
	Run(ctx context.Context, name string, args ...string) (Result, error)
}

// ExecRunner runs commands via os/exec with a per-call timeout.
type ExecRunner struct {
	// Timeout applies when the caller's context carries no deadline.
	Timeout time.Duration

	logger *slog.Logger
}

// NewRunner returns an ExecRunner with the default timeout.
func NewRunner() *ExecRunner {
	return &ExecRunner{
		Timeout: DefaultCommandTimeout,
		logger:  logging.GetLogger("runner"),
	}
}

// Run executes name with args and captures its output. The command is
// resolved via PATH. On timeout the entire process group is killed so
// helpers spawned by the tool cannot be orphaned.
func (r *ExecRunner) Run(ctx context.Context, name string, args ...string) (Result, error) {
	if _, err := exec.LookPath(name); err != nil {
		return Result{}, fmt.Errorf("%w: %s", ErrNotFound, name)
	}

	timeout := r.Timeout
	if timeout <= 0 {
		timeout = DefaultCommandTimeout
	}
	if _, hasDeadline := ctx.Deadline(); !hasDeadline {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, timeout)
		defer cancel()
	}

	cmd := exec.CommandContext(ctx, name, args...)
	cmd.SysProcAttr = &syscall.SysProcAttr{Setpgid: true}
	cmd.Cancel = func() error {
		if cmd.Process == nil {
			return nil
		}
		// Negative pid targets the process group created by Setpgid.
		return syscall.Kill(-cmd.Process.Pid, syscall.SIGKILL)
	}
	cmd.WaitDelay = 2 * time.Second

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	start := time.Now()
	runErr := cmd.Run()
	res := Result{
		Stdout: stdout.String(),
		Stderr: stderr.String(),
	}

	if ctxErr := ctx.Err(); errors.Is(ctxErr, context.DeadlineExceeded) {
		r.logger.Warn("Command timed out", "command", name, "args", args, "timeout", timeout)
		return res, fmt.Errorf("%w: %s after %s", ErrTimeout, name, timeout)
	}

	if runErr != nil {
		var exitErr *exec.ExitError
		if errors.As(runErr, &exitErr) {
			res.ExitCode = exitErr.ExitCode()
			r.logger.Debug("Command failed", "command", name, "args", args,
				"exit_code", res.ExitCode, "stderr", res.Stderr)
			return res, &ExecError{
				Command:  name,
				Args:     args,
				ExitCode: res.ExitCode,
				Stderr:   strings.TrimSpace(res.Stderr),
			}
		}
		return res, fmt.Errorf("running %s: %w", name, runErr)
	}

	r.logger.Debug("Command completed", "command", name, "args", args,
		"duration", time.Since(start))
	return res, nil
}

package alsa

import (
	"errors"
	"fmt"
)

// Sentinel errors for the failure taxonomy. Callers classify failures with
// errors.Is and convert them to structured results at the operation boundary.
var (
	// ErrNotFound indicates the external executable could not be located on PATH.
	ErrNotFound = errors.New("executable not found")

	// ErrTimeout indicates the external command exceeded its time limit and
	// was killed.
	ErrTimeout = errors.New("command timed out")

	// ErrParse indicates the external tool produced output in an unexpected shape.
	ErrParse = errors.New("unexpected output")

	// ErrNoWorkingControl indicates the resolution cascade exhausted every
	// heuristic without finding a usable mixer control.
	ErrNoWorkingControl = errors.New("no working mixer control")

	// ErrInvalidInput indicates a caller-supplied value was rejected before
	// any external command ran.
	ErrInvalidInput = errors.New("invalid input")
)

// ExecError reports a non-zero exit from an external tool, carrying the
// captured stderr verbatim for diagnosis.
type ExecError struct {
	Command  string
	Args     []string
	ExitCode int
	Stderr   string
}

func (e *ExecError) Error() string {
	if e.Stderr != "" {
		return fmt.Sprintf("%s exited with code %d: %s", e.Command, e.ExitCode, e.Stderr)
	}
	return fmt.Sprintf("%s exited with code %d", e.Command, e.ExitCode)
}

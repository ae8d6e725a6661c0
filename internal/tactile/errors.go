package tactile

import (
	"errors"
	"fmt"
	"strings"
)

// ToolchainError reports a failing external toolchain step (compiler,
// archiver, resource embedding). It is always fatal to the run.
type ToolchainError struct {
	// Step names the build step, e.g. "compile windows" or "resource-embed".
	Step string
	// Command is the command line that failed, if any.
	Command string
	// ExitCode is the child exit code, or 0 when the process never ran.
	ExitCode int
	// Output is the captured child output.
	Output string
	Err    error
}

func (e *ToolchainError) Error() string {
	var b strings.Builder
	fmt.Fprintf(&b, "toolchain error: %s", e.Step)
	if e.Command != "" {
		fmt.Fprintf(&b, " (%s)", e.Command)
	}
	if e.Err != nil {
		fmt.Fprintf(&b, ": %v", e.Err)
	}
	if out := strings.TrimSpace(e.Output); out != "" {
		fmt.Fprintf(&b, "\n%s", out)
	}
	return b.String()
}

func (e *ToolchainError) Unwrap() error {
	return e.Err
}

func failureReason(r *ExecutionResult) error {
	switch {
	case r.Killed:
		return errors.New(r.KillReason)
	case r.Error != "":
		return errors.New(r.Error)
	default:
		return fmt.Errorf("exit status %d", r.ExitCode)
	}
}

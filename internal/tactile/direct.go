package tactile

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/exec"
	"time"

	"prebuild/internal/buildenv"
	"prebuild/internal/logging"
)

// DirectExecutor runs commands on the host with os/exec.
type DirectExecutor struct {
	config ExecutorConfig
}

// NewDirectExecutor creates an executor with DefaultExecutorConfig.
func NewDirectExecutor() *DirectExecutor {
	return NewDirectExecutorWithConfig(DefaultExecutorConfig())
}

// NewDirectExecutorWithConfig creates an executor with config.
func NewDirectExecutorWithConfig(config ExecutorConfig) *DirectExecutor {
	logging.ToolchainDebug("DirectExecutor: timeout=%s max_output=%d", config.Timeout, config.MaxOutputBytes)
	return &DirectExecutor{config: config}
}

// Execute runs cmd to completion. Only a missing binary name is returned as
// an error; everything else is described by the result.
func (e *DirectExecutor) Execute(ctx context.Context, cmd Command) (*ExecutionResult, error) {
	if cmd.Binary == "" {
		return nil, errors.New("binary is required")
	}
	cmd = e.config.Merge(cmd)

	timer := logging.StartTimer(logging.CategoryToolchain, cmd.Binary)
	defer timer.Stop()
	logging.ToolchainDebug("exec %s (dir=%s timeout=%s tags=%v)", cmd.CommandString(), cmd.Dir, cmd.Timeout, cmd.Tags)

	runCtx, cancel := context.WithTimeout(ctx, cmd.Timeout)
	defer cancel()

	child := exec.CommandContext(runCtx, cmd.Binary, cmd.Arguments...)
	child.Dir = cmd.Dir
	child.Env = e.environment(cmd.Env)
	setupProcessGroup(child)
	child.Cancel = func() error { return killProcessGroup(child) }
	child.WaitDelay = 5 * time.Second

	var stdout, stderr bytes.Buffer
	outW := &limitedWriter{w: &stdout, max: e.config.MaxOutputBytes}
	errW := &limitedWriter{w: &stderr, max: e.config.MaxOutputBytes}
	child.Stdout, child.Stderr = outW, errW

	start := time.Now()
	err := child.Run()

	result := &ExecutionResult{
		Success:  true,
		ExitCode: 0,
		Stdout:   stdout.String(),
		Stderr:   stderr.String(),
		Duration: time.Since(start),
	}
	if outW.truncated || errW.truncated {
		result.Truncated = true
		logging.ToolchainWarn("%s: output truncated, %d bytes discarded", cmd.Binary, outW.discarded+errW.discarded)
	}

	if err != nil {
		classify(result, err, runCtx.Err(), cmd)
	}

	logging.Toolchain("%s -> exit=%d in %s", cmd.Binary, result.ExitCode, result.Duration)
	return result, nil
}

// classify records why the child did not exit cleanly.
func classify(result *ExecutionResult, err, ctxErr error, cmd Command) {
	var exitErr *exec.ExitError
	switch {
	case errors.Is(ctxErr, context.DeadlineExceeded):
		result.ExitCode = -1
		result.Killed = true
		result.KillReason = fmt.Sprintf("timeout after %s", cmd.Timeout)
		logging.ToolchainWarn("%s killed: %s", cmd.Binary, result.KillReason)
	case errors.Is(ctxErr, context.Canceled):
		result.ExitCode = -1
		result.Killed = true
		result.KillReason = "context canceled"
		logging.ToolchainDebug("%s canceled", cmd.Binary)
	case errors.As(err, &exitErr):
		result.ExitCode = exitErr.ExitCode()
		logging.ToolchainDebug("%s exited %d", cmd.Binary, result.ExitCode)
	default:
		result.Success = false
		result.ExitCode = -1
		result.Error = err.Error()
		logging.ToolchainWarn("%s failed to start: %v", cmd.Binary, err)
	}
}

// environment builds the child environment from the configured base (or
// the pass-through list) plus cmdEnv.
func (e *DirectExecutor) environment(cmdEnv []string) []string {
	if e.config.Env != nil {
		return buildenv.MergeEnv(e.config.Env, cmdEnv...)
	}

	base := make([]string, 0, len(e.config.PassEnv))
	for _, key := range e.config.PassEnv {
		if val, ok := os.LookupEnv(key); ok {
			base = append(base, key+"="+val)
		}
	}
	return buildenv.MergeEnv(base, cmdEnv...)
}

// limitedWriter keeps the first max bytes and silently drops the rest.
type limitedWriter struct {
	w         io.Writer
	max       int64
	written   int64
	truncated bool
	discarded int64
}

func (lw *limitedWriter) Write(p []byte) (int, error) {
	n := len(p)
	if lw.max <= 0 {
		written, err := lw.w.Write(p)
		lw.written += int64(written)
		return written, err
	}

	remaining := lw.max - lw.written
	if remaining <= 0 {
		lw.truncated = true
		lw.discarded += int64(n)
		return n, nil
	}
	if int64(n) > remaining {
		if _, err := lw.w.Write(p[:remaining]); err != nil {
			return 0, err
		}
		lw.written = lw.max
		lw.truncated = true
		lw.discarded += int64(n) - remaining
		return n, nil
	}

	written, err := lw.w.Write(p)
	lw.written += int64(written)
	return written, err
}

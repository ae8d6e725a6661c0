package tactile

import (
	"bytes"
	"context"
	"errors"
	"runtime"
	"strings"
	"testing"
	"time"
)

func echoCommand(text string) Command {
	if runtime.GOOS == "windows" {
		return Command{Binary: "cmd", Arguments: []string{"/c", "echo", text}}
	}
	return Command{Binary: "echo", Arguments: []string{text}}
}

func TestDirectExecutor_Execute(t *testing.T) {
	executor := NewDirectExecutor()

	result, err := executor.Execute(context.Background(), echoCommand("hello"))
	if err != nil {
		t.Fatalf("Execute failed: %v", err)
	}
	if !result.Success {
		t.Errorf("Expected success, got failure: %s", result.Error)
	}
	if result.ExitCode != 0 {
		t.Errorf("Expected exit code 0, got %d", result.ExitCode)
	}
	if !strings.Contains(result.Output(), "hello") {
		t.Errorf("Expected output to contain 'hello', got: %s", result.Output())
	}
}

func TestDirectExecutor_RequiresBinary(t *testing.T) {
	if _, err := NewDirectExecutor().Execute(context.Background(), Command{}); err == nil {
		t.Fatal("expected error for empty binary")
	}
}

func TestDirectExecutor_NonZeroExit(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("uses sh")
	}

	result, err := NewDirectExecutor().Execute(context.Background(), Command{
		Binary:    "sh",
		Arguments: []string{"-c", "echo boom >&2; exit 3"},
	})
	if err != nil {
		t.Fatalf("Execute failed: %v", err)
	}
	if !result.IsNonZeroExit() || result.ExitCode != 3 {
		t.Fatalf("expected exit 3, got %d (success=%v)", result.ExitCode, result.Success)
	}
	if !strings.Contains(result.Stderr, "boom") {
		t.Errorf("stderr = %q", result.Stderr)
	}
}

func TestDirectExecutor_Timeout(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("uses sleep")
	}

	start := time.Now()
	result, err := NewDirectExecutor().Execute(context.Background(), Command{
		Binary:    "sleep",
		Arguments: []string{"10"},
		Timeout:   300 * time.Millisecond,
	})
	if err != nil {
		t.Fatalf("Execute failed: %v", err)
	}
	if !result.Killed || !strings.Contains(result.KillReason, "timeout") {
		t.Errorf("expected timeout kill, got killed=%v reason=%q", result.Killed, result.KillReason)
	}
	if elapsed := time.Since(start); elapsed > 5*time.Second {
		t.Errorf("timeout took too long: %v", elapsed)
	}
}

func TestDirectExecutor_TimeoutKillsChildren(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("uses sh")
	}

	start := time.Now()
	result, err := NewDirectExecutor().Execute(context.Background(), Command{
		Binary:    "sh",
		Arguments: []string{"-c", "sleep 30 & sleep 30; wait"},
		Timeout:   300 * time.Millisecond,
	})
	if err != nil {
		t.Fatalf("Execute failed: %v", err)
	}
	if !result.Killed {
		t.Errorf("expected kill, got exit=%d", result.ExitCode)
	}
	if elapsed := time.Since(start); elapsed > 5*time.Second {
		t.Errorf("process group not killed promptly: %v", elapsed)
	}
}

func TestDirectExecutor_SnapshotEnvironment(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("uses sh")
	}

	cfg := DefaultExecutorConfig()
	cfg.Env = []string{"PATH=/usr/bin:/bin", "PREBUILD_PROBE=base"}
	executor := NewDirectExecutorWithConfig(cfg)

	result, err := executor.Execute(context.Background(), Command{
		Binary:    "sh",
		Arguments: []string{"-c", "echo $PREBUILD_PROBE-$EXTRA"},
		Env:       []string{"EXTRA=cmd"},
	})
	if err != nil {
		t.Fatalf("Execute failed: %v", err)
	}
	if got := strings.TrimSpace(result.Stdout); got != "base-cmd" {
		t.Errorf("stdout = %q, want base-cmd", got)
	}
}

func TestRun_ConvertsFailures(t *testing.T) {
	fake := &fakeExecutor{result: &ExecutionResult{Success: true, ExitCode: 1, Stderr: "error: no such file"}}

	_, err := Run(context.Background(), fake, "compile windows", Command{Binary: "c++", Arguments: []string{"-c", "x.cc"}})

	var tcErr *ToolchainError
	if !errors.As(err, &tcErr) {
		t.Fatalf("expected *ToolchainError, got %v", err)
	}
	if tcErr.Step != "compile windows" || tcErr.ExitCode != 1 {
		t.Errorf("unexpected error fields: %+v", tcErr)
	}
	if !strings.Contains(err.Error(), "c++ -c x.cc") || !strings.Contains(err.Error(), "no such file") {
		t.Errorf("error message missing detail: %v", err)
	}
}

func TestRun_SpawnError(t *testing.T) {
	spawn := errors.New("exec: not found")
	fake := &fakeExecutor{err: spawn}

	_, err := Run(context.Background(), fake, "archive", Command{Binary: "ar"})
	if !errors.Is(err, spawn) {
		t.Fatalf("expected wrapped spawn error, got %v", err)
	}
}

func TestRun_Success(t *testing.T) {
	fake := &fakeExecutor{result: &ExecutionResult{Success: true, Stdout: "ok"}}
	result, err := Run(context.Background(), fake, "probe", Command{Binary: "sw_vers"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result.Stdout != "ok" {
		t.Errorf("stdout = %q", result.Stdout)
	}
}

func TestExecutorConfig_Merge(t *testing.T) {
	cfg := DefaultExecutorConfig()
	cfg.Timeout = time.Second
	cfg.MaxTimeout = 2 * time.Second

	merged := cfg.Merge(Command{Binary: "x"})
	if merged.Dir != "." || merged.Timeout != time.Second {
		t.Errorf("unexpected defaults: %+v", merged)
	}

	capped := cfg.Merge(Command{Binary: "x", Timeout: time.Minute})
	if capped.Timeout != 2*time.Second {
		t.Errorf("timeout not capped: %s", capped.Timeout)
	}
}

func TestLimitedWriter(t *testing.T) {
	var buf bytes.Buffer
	lw := &limitedWriter{w: &buf, max: 4}

	n, err := lw.Write([]byte("abcdef"))
	if err != nil || n != 6 {
		t.Fatalf("Write = %d, %v", n, err)
	}
	if buf.String() != "abcd" || !lw.truncated || lw.discarded != 2 {
		t.Errorf("buf=%q truncated=%v discarded=%d", buf.String(), lw.truncated, lw.discarded)
	}
}

func TestCommandString(t *testing.T) {
	cmd := Command{Binary: "ar", Arguments: []string{"crs", "libmacos.a", "macos.o"}}
	if got := cmd.CommandString(); got != "ar crs libmacos.a macos.o" {
		t.Errorf("CommandString() = %q", got)
	}

	spaced := Command{Binary: "c++", Arguments: []string{"-c", "My Sources/shim.cc"}}
	if got := spaced.CommandString(); got != `c++ -c "My Sources/shim.cc"` {
		t.Errorf("CommandString() = %q", got)
	}
}

type fakeExecutor struct {
	result *ExecutionResult
	err    error
}

func (f *fakeExecutor) Execute(ctx context.Context, cmd Command) (*ExecutionResult, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.result, nil
}

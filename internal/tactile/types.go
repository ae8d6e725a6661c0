// Package tactile runs the host toolchain (compilers, archivers, probe
// commands) as child processes and reports what happened.
package tactile

import (
	"strings"
	"time"
)

// Command is one toolchain invocation.
type Command struct {
	Binary    string   `json:"binary"`
	Arguments []string `json:"arguments"`
	// Dir defaults to the executor's working directory.
	Dir string `json:"dir,omitempty"`
	// Env entries (KEY=VALUE) override the executor environment.
	Env []string `json:"env,omitempty"`
	// Timeout of zero uses the executor default.
	Timeout time.Duration `json:"timeout,omitempty"`
	// Tags annotate log lines (library, unit).
	Tags map[string]string `json:"tags,omitempty"`
}

// CommandString renders the command line for logs and errors. Arguments
// containing whitespace are quoted.
func (c Command) CommandString() string {
	parts := make([]string, 0, len(c.Arguments)+1)
	parts = append(parts, c.Binary)
	for _, arg := range c.Arguments {
		if arg == "" || strings.ContainsAny(arg, " \t\n") {
			arg = `"` + arg + `"`
		}
		parts = append(parts, arg)
	}
	return strings.Join(parts, " ")
}

// ExecutionResult describes a finished (or failed to start) child process.
type ExecutionResult struct {
	// Success is false only when the process could not be started.
	// A non-zero exit still has Success=true.
	Success  bool          `json:"success"`
	ExitCode int           `json:"exit_code"` // -1 when unknown
	Stdout   string        `json:"stdout"`
	Stderr   string        `json:"stderr"`
	Duration time.Duration `json:"duration"`

	Killed     bool   `json:"killed"`
	KillReason string `json:"kill_reason,omitempty"`
	Truncated  bool   `json:"truncated"`
	Error      string `json:"error,omitempty"`
}

// IsError reports a process that never ran.
func (r *ExecutionResult) IsError() bool {
	return !r.Success || r.Error != ""
}

// IsNonZeroExit reports a process that ran and exited non-zero.
func (r *ExecutionResult) IsNonZeroExit() bool {
	return r.Success && r.ExitCode != 0
}

// Failed reports whether the step did not complete with exit code 0.
func (r *ExecutionResult) Failed() bool {
	return r.IsError() || r.Killed || r.ExitCode != 0
}

// Output joins stdout and stderr, compiler diagnostics usually being on
// the latter.
func (r *ExecutionResult) Output() string {
	switch {
	case r.Stderr == "":
		return r.Stdout
	case r.Stdout == "":
		return r.Stderr
	default:
		return r.Stdout + "\n" + r.Stderr
	}
}

// ExecutorConfig configures a DirectExecutor.
type ExecutorConfig struct {
	WorkDir    string        `json:"work_dir"`
	Timeout    time.Duration `json:"timeout"`
	MaxTimeout time.Duration `json:"max_timeout"`
	// Env is the environment every child starts from, normally the run's
	// snapshot. When nil only PassEnv is taken from the process.
	Env     []string `json:"-"`
	PassEnv []string `json:"pass_env"`
	// MaxOutputBytes caps capture per stream.
	MaxOutputBytes int64 `json:"max_output_bytes"`
}

// DefaultExecutorConfig returns defaults suited to compiler invocations.
func DefaultExecutorConfig() ExecutorConfig {
	return ExecutorConfig{
		WorkDir:        ".",
		Timeout:        10 * time.Minute,
		MaxTimeout:     time.Hour,
		MaxOutputBytes: 10 << 20,
		PassEnv: []string{
			"PATH", "HOME", "TMPDIR", "TEMP", "TMP",
			"SDKROOT", "DEVELOPER_DIR", "MACOSX_DEPLOYMENT_TARGET",
			"LANG", "LC_ALL",
		},
	}
}

// Merge fills the unset fields of cmd from c and caps its timeout.
func (c ExecutorConfig) Merge(cmd Command) Command {
	if cmd.Dir == "" {
		cmd.Dir = c.WorkDir
	}
	if cmd.Timeout <= 0 {
		cmd.Timeout = c.Timeout
	}
	if c.MaxTimeout > 0 && cmd.Timeout > c.MaxTimeout {
		cmd.Timeout = c.MaxTimeout
	}
	return cmd
}

package tactile

import (
	"context"
)

// Executor is the interface for command execution.
// All executor implementations must satisfy this interface.
type Executor interface {
	// Execute runs a command and returns a comprehensive result.
	// A non-zero exit is reported in the result, not as an error.
	Execute(ctx context.Context, cmd Command) (*ExecutionResult, error)
}

// Run executes cmd as the named build step and converts every kind of
// failure (spawn error, timeout, non-zero exit) into a *ToolchainError.
func Run(ctx context.Context, exec Executor, step string, cmd Command) (*ExecutionResult, error) {
	result, err := exec.Execute(ctx, cmd)
	if err != nil {
		return result, &ToolchainError{Step: step, Command: cmd.CommandString(), Err: err}
	}
	if result.Failed() {
		return result, &ToolchainError{
			Step:     step,
			Command:  cmd.CommandString(),
			ExitCode: result.ExitCode,
			Output:   result.Output(),
			Err:      failureReason(result),
		}
	}
	return result, nil
}

package buildenv

import "fmt"

// ConfigurationError reports a required environment variable that is absent
// (or unusable). It is always fatal to the run.
type ConfigurationError struct {
	Variable string
	Reason   string
}

func (e *ConfigurationError) Error() string {
	if e.Reason != "" {
		return fmt.Sprintf("configuration error: %s: %s", e.Variable, e.Reason)
	}
	return fmt.Sprintf("configuration error: required environment variable %s is not set", e.Variable)
}

package prebuild

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"prebuild/internal/buildenv"
	"prebuild/internal/config"
	"prebuild/internal/directive"
	"prebuild/internal/logging"
)

// BuildDateLayout is the format of the BUILD_DATE constant.
const BuildDateLayout = "2006-01-02 15:04"

// versionStamp emits VERSION and BUILD_DATE constants when a version is
// configured. Nothing is emitted otherwise.
func versionStamp(cfg config.VersionConfig, s buildenv.Settings, now func() time.Time) ([]directive.Directive, error) {
	if cfg.Value == "" && cfg.File == "" {
		return nil, nil
	}

	var ds []directive.Directive
	version := cfg.Value
	if version == "" {
		data, err := os.ReadFile(cfg.File)
		if err != nil {
			return nil, fmt.Errorf("failed to read version file: %w", err)
		}
		version = strings.TrimSpace(string(data))
		ds = append(ds, directive.RerunIfChanged(cfg.File))
	}

	date, err := buildDate(s, now)
	if err != nil {
		return nil, err
	}

	logging.Build("Version stamp: %s (%s)", version, date)
	ds = append(ds,
		directive.Constant("VERSION", version),
		directive.Constant("BUILD_DATE", date),
	)
	return ds, nil
}

// buildDate honors SOURCE_DATE_EPOCH so identical inputs stamp identical
// dates.
func buildDate(s buildenv.Settings, now func() time.Time) (string, error) {
	if raw, ok := s.Var(SourceDateEpoch).Get(); ok && raw != "" {
		secs, err := strconv.ParseInt(strings.TrimSpace(raw), 10, 64)
		if err != nil {
			return "", &buildenv.ConfigurationError{
				Variable: SourceDateEpoch,
				Reason:   fmt.Sprintf("not a unix timestamp: %q", raw),
			}
		}
		return time.Unix(secs, 0).UTC().Format(BuildDateLayout), nil
	}
	return now().Format(BuildDateLayout), nil
}

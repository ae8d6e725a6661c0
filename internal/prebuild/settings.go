// Package prebuild runs the pre-compilation pipeline: it resolves the
// target, compiles platform shims, plans linking, embeds resources and
// propagates constants, producing a Plan of directives.
package prebuild

import (
	"prebuild/internal/buildenv"
	"prebuild/internal/config"
	"prebuild/internal/secrets"
)

// SourceDateEpoch is the reproducible-builds timestamp variable.
const SourceDateEpoch = "SOURCE_DATE_EPOCH"

// Names maps the env section of cfg to variable names, falling back to the
// defaults for empty entries.
func Names(cfg *config.Config) buildenv.Names {
	n := buildenv.DefaultNames()
	e := cfg.Env
	pick := func(dst *string, v string) {
		if v != "" {
			*dst = v
		}
	}
	pick(&n.TargetOS, e.TargetOS)
	pick(&n.TargetArch, e.TargetArch)
	pick(&n.Profile, e.Profile)
	pick(&n.Features, e.Features)
	pick(&n.PackageRoot, e.PackageRoot)
	pick(&n.InstalledRoot, e.InstalledRoot)
	return n
}

// LoadSettings reads every variable a run consults from env.
func LoadSettings(cfg *config.Config, env buildenv.Env) (buildenv.Settings, error) {
	extra := append(secrets.Names(), SourceDateEpoch)
	return buildenv.Load(env, Names(cfg), extra...)
}

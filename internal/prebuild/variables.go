package prebuild

import (
	"prebuild/internal/buildenv"
	"prebuild/internal/config"
	"prebuild/internal/secrets"
)

// Variable describes one environment variable the tool reads.
type Variable struct {
	Name     string
	Purpose  string
	Required string
	Value    string
	Set      bool
	Secret   bool
}

// Variables lists every variable a run may consult, with its current state
// in env. Secret values are masked.
func Variables(cfg *config.Config, env buildenv.Env) []Variable {
	n := Names(cfg)
	vars := []Variable{
		{Name: n.TargetOS, Purpose: "target platform", Required: "always"},
		{Name: n.TargetArch, Purpose: "target architecture", Required: "android"},
		{Name: n.Profile, Purpose: "build profile", Required: "windows + inline"},
		{Name: n.Features, Purpose: "enabled features", Required: "no"},
		{Name: n.PackageRoot, Purpose: "dependency package root", Required: "android"},
		{Name: n.InstalledRoot, Purpose: "installed-root override", Required: "no"},
	}
	for _, name := range secrets.AllowList {
		vars = append(vars, Variable{Name: name, Purpose: "compile-time constant", Required: "no", Secret: true})
	}
	vars = append(vars,
		Variable{Name: SourceDateEpoch, Purpose: "reproducible build date", Required: "no"},
		Variable{Name: "CXX", Purpose: "C++ compiler", Required: "no"},
		Variable{Name: "AR", Purpose: "archiver", Required: "no"},
	)

	for i := range vars {
		v, ok := env.Lookup(vars[i].Name)
		vars[i].Set = ok
		if vars[i].Secret {
			v = secrets.Mask(vars[i].Name, v)
		}
		vars[i].Value = v
	}
	return vars
}

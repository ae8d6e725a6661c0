package prebuild

import (
	"context"
	"fmt"
	"path/filepath"
	"runtime"
	"strings"
	"time"

	"prebuild/internal/buildenv"
	"prebuild/internal/config"
	"prebuild/internal/directive"
	"prebuild/internal/logging"
	"prebuild/internal/native"
	"prebuild/internal/platform"
	"prebuild/internal/resource"
	"prebuild/internal/secrets"
	"prebuild/internal/tactile"
)

// Options supply the collaborators of a Runner. Nil fields get the host
// implementations.
type Options struct {
	Executor tactile.Executor
	Compiler native.Compiler
	Embedder resource.Embedder
	Versions native.VersionDetector
	DryRun   bool
	Now      func() time.Time
	// HostOS is the GOOS of the machine running the toolchain. Shims are
	// compiled only when it matches the target (or cross_compile is set).
	HostOS string
}

// Runner executes the pipeline for one configuration.
type Runner struct {
	cfg  *config.Config
	opts Options
}

// NewRunner wires a Runner. env is the environment snapshot that external
// tools inherit.
func NewRunner(cfg *config.Config, env buildenv.Env, opts Options) *Runner {
	if opts.Executor == nil {
		execCfg := tactile.DefaultExecutorConfig()
		execCfg.Timeout = cfg.GetToolchainTimeout()
		if execCfg.MaxTimeout < execCfg.Timeout {
			execCfg.MaxTimeout = execCfg.Timeout
		}
		execCfg.Env = env.Environ()
		opts.Executor = tactile.NewDirectExecutorWithConfig(execCfg)
	}
	if opts.Compiler == nil {
		opts.Compiler = &native.CCompiler{
			Exec:       opts.Executor,
			CXX:        cfg.Native.Compiler,
			AR:         cfg.Native.Archiver,
			OutDir:     cfg.Native.OutDir,
			ExtraFlags: cfg.Native.ExtraFlags,
		}
	}
	if opts.Embedder == nil {
		opts.Embedder = resource.WinresEmbedder{}
	}
	if opts.Versions == nil {
		opts.Versions = &native.HostVersionDetector{Exec: opts.Executor}
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}
	if opts.HostOS == "" {
		opts.HostOS = runtime.GOOS
	}
	return &Runner{cfg: cfg, opts: opts}
}

// Run executes every step in order against s. The first fatal error aborts
// the run and no plan is returned.
func (r *Runner) Run(ctx context.Context, s buildenv.Settings) (*Plan, error) {
	timer := logging.StartTimer(logging.CategoryBuild, "prebuild run")
	defer timer.Stop()

	plan := newPlan(r.opts.Now(), r.opts.DryRun)
	logging.Build("Run %s started (dry_run=%v)", plan.RunID, plan.DryRun)

	stamp, err := versionStamp(r.cfg.Version, s, r.opts.Now)
	if err != nil {
		return nil, err
	}
	plan.add(stamp...)

	target, err := platform.Resolve(s)
	if err != nil {
		return nil, err
	}
	plan.Target = target

	handler := platform.HandlerFor(target, platform.HandlerConfig{
		WindowsSources: r.cfg.Native.WindowsSources,
		MacOSSources:   r.cfg.Native.MacOSSources,
		Versions:       r.opts.Versions,
	})

	libs, err := handler.Libraries(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to select %s sources: %w", target.Platform, err)
	}

	if err := r.compileShims(ctx, target, libs, plan); err != nil {
		return nil, err
	}

	links, err := handler.Links(s, target)
	if err != nil {
		return nil, err
	}
	plan.add(links...)

	if err := r.embedResources(ctx, s, target, plan); err != nil {
		return nil, err
	}

	plan.add(secrets.Directives(secrets.Collect(s))...)

	for _, name := range s.ReadVars() {
		plan.add(directive.RerunIfEnvChanged(name))
	}
	if path := r.cfg.Path(); path != "" {
		plan.add(directive.RerunIfChanged(path))
	}

	logging.Build("Run %s finished: %d directives", plan.RunID, len(plan.Directives))
	return plan, nil
}

// compileShims builds libs when the host can. A foreign host only gets a
// warning per library; the link directives that follow are unaffected.
func (r *Runner) compileShims(ctx context.Context, target platform.Target, libs []native.Library, plan *Plan) error {
	if len(libs) == 0 {
		return nil
	}

	host := platform.ParseOS(r.opts.HostOS)
	if host != target.Platform && !r.cfg.Native.CrossCompile {
		for _, lib := range libs {
			logging.Native("Skipping %s shims on %s host", lib.Name, r.opts.HostOS)
			plan.add(directive.Warning(fmt.Sprintf("%s shims not compiled on %s host: %s",
				lib.Name, r.opts.HostOS, strings.Join(lib.Sources(), ", "))))
		}
		return nil
	}

	dispatcher := &native.Dispatcher{
		Compiler: r.opts.Compiler,
		OutDir:   r.cfg.Native.OutDir,
		DryRun:   r.opts.DryRun,
	}
	compiled, artifacts, err := dispatcher.Compile(ctx, libs)
	if err != nil {
		return err
	}
	plan.add(compiled...)
	plan.Libraries = artifacts
	return nil
}

func (r *Runner) embedResources(ctx context.Context, s buildenv.Settings, target platform.Target, plan *Plan) error {
	embed, err := resource.ShouldEmbed(target, s)
	if err != nil {
		return err
	}
	if !embed {
		logging.ResourceDebug("Resource embedding not required for %s", target.Platform)
		return nil
	}

	goarch := platform.GoArch(target.Arch)
	if goarch == "" {
		goarch = runtime.GOARCH
		logging.ResourceDebug("Target arch not set, using host arch %s for resources", goarch)
	}

	bundle := resource.NewBundle(goarch).
		SetIcon(r.cfg.Resource.Icon).
		SetLanguage(resource.LangEnglishUS).
		SetManifestFile(r.cfg.Resource.Manifest).
		SetOutput(filepath.Join(r.cfg.Resource.PackageDir, resource.ObjectName(goarch)))

	triggers, err := resource.Embed(ctx, r.opts.Embedder, bundle, r.opts.DryRun)
	if err != nil {
		return err
	}
	plan.add(triggers...)
	plan.Resources = append(plan.Resources, bundle.Output)
	return nil
}

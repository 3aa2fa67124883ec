// Package app wires configuration, recipes and the phase engine into build
// attempts.
package app

import (
	"context"
	"fmt"
	"io"

	"github.com/google/uuid"

	"github.com/felixgeelhaar/ebuild/internal/adapters/command"
	"github.com/felixgeelhaar/ebuild/internal/adapters/filesystem"
	"github.com/felixgeelhaar/ebuild/internal/domain/builtin"
	"github.com/felixgeelhaar/ebuild/internal/domain/config"
	"github.com/felixgeelhaar/ebuild/internal/domain/environment"
	"github.com/felixgeelhaar/ebuild/internal/domain/execution"
	"github.com/felixgeelhaar/ebuild/internal/domain/fsguard"
	"github.com/felixgeelhaar/ebuild/internal/domain/jobs"
	"github.com/felixgeelhaar/ebuild/internal/domain/phase"
	"github.com/felixgeelhaar/ebuild/internal/domain/recipe"
	"github.com/felixgeelhaar/ebuild/internal/ports"
	"github.com/felixgeelhaar/ebuild/internal/validation"
)

// Request describes a single build attempt.
type Request struct {
	// RecipePath is the recipe manifest to build.
	RecipePath string
	// ConfigPath names an explicit make.conf. Empty searches the config
	// directories and falls back to defaults.
	ConfigPath string
	// RootDir overrides the build root. Empty derives it from the package
	// name under PORTAGE_TMPDIR.
	RootDir string
	// Use holds USE tokens with the highest priority.
	Use []string
	// MakeOpts overrides MAKEOPTS from make.conf when non-empty.
	MakeOpts string
	// Jobs overrides the resolved job count when positive.
	Jobs int
	// SearchPath is the caller's inherited PATH. PATH in make.conf takes
	// precedence; when both are empty the engine fallback applies.
	SearchPath string
}

// Attempt is a fully prepared build: every input resolved, nothing run yet.
type Attempt struct {
	ID         string
	ConfigPath string
	Settings   config.Settings
	Recipe     *recipe.Recipe
	Chain      []*recipe.BuildClass
	Env        *environment.Context
	Plan       *phase.Plan
	Jobs       int
}

// Builder prepares and runs build attempts.
type Builder struct {
	runner     ports.CommandRunner
	fs         ports.FileSystem
	checker    fsguard.Checker
	logger     ports.Logger
	stdout     io.Writer
	stderr     io.Writer
	configDirs []string
	newID      func() string
}

// New creates a Builder backed by the real runner, filesystem and mount
// table, streaming phase output to out and errOut.
func New(out, errOut io.Writer) *Builder {
	return NewBuilder(command.NewRealRunner(), filesystem.NewRealFileSystem(), fsguard.NewPlatformChecker()).
		WithOutput(out, errOut)
}

// NewBuilder creates a Builder from its collaborators.
func NewBuilder(runner ports.CommandRunner, fs ports.FileSystem, checker fsguard.Checker) *Builder {
	if checker == nil {
		checker = fsguard.NoopChecker{}
	}
	return &Builder{
		runner:     runner,
		fs:         fs,
		checker:    checker,
		logger:     ports.Discard,
		configDirs: config.ConfigSearchPaths(),
		newID:      func() string { return uuid.NewString() },
	}
}

// WithLogger returns a Builder that logs to logger.
func (b *Builder) WithLogger(logger ports.Logger) *Builder {
	c := *b
	if logger == nil {
		logger = ports.Discard
	}
	c.logger = logger
	return &c
}

// WithOutput returns a Builder that streams phase output to stdout and
// stderr.
func (b *Builder) WithOutput(stdout, stderr io.Writer) *Builder {
	c := *b
	c.stdout = stdout
	c.stderr = stderr
	return &c
}

// WithConfigDirs returns a Builder searching dirs for make.conf.
func (b *Builder) WithConfigDirs(dirs []string) *Builder {
	c := *b
	c.configDirs = dirs
	return &c
}

// Checker returns the filesystem safety checker.
func (b *Builder) Checker() fsguard.Checker {
	return b.checker
}

// LoadSettings returns the engine settings and the make.conf they came
// from. An explicit path must exist; otherwise the first make.conf found in
// the config directories is used, and defaults apply when there is none.
func (b *Builder) LoadSettings(path string) (config.Settings, string, error) {
	loader := config.NewLoader(b.fs)
	base := config.DefaultSettings()

	if path == "" {
		found, ok := loader.Find(b.configDirs)
		if !ok {
			return base, "", nil
		}
		path = found
	}

	s, err := loader.Load(path, base)
	if err != nil {
		return base, path, err
	}
	return s, path, nil
}

// Prepare resolves everything a build needs without running any phase.
func (b *Builder) Prepare(ctx context.Context, req Request) (*Attempt, error) {
	settings, confPath, err := b.LoadSettings(req.ConfigPath)
	if err != nil {
		return nil, fmt.Errorf("failed to load settings: %w", err)
	}
	if req.MakeOpts != "" {
		settings.MakeOpts = req.MakeOpts
	}

	if err := validateUse(settings.Use, req.Use); err != nil {
		return nil, err
	}

	loader := recipe.NewLoader(b.fs, settings.EclassDir)
	rcp, err := loader.LoadRecipe(req.RecipePath)
	if err != nil {
		return nil, fmt.Errorf("failed to load recipe: %w", err)
	}
	chain, err := loader.LoadChain(rcp)
	if err != nil {
		return nil, fmt.Errorf("failed to load build classes: %w", err)
	}

	root := req.RootDir
	if root == "" {
		root = settings.BuildRoot(rcp.Name)
	}

	env, err := environment.New(environment.Options{
		RootDir:    root,
		UseFlags:   config.ResolveUseFlags(rcp.DefaultUseFlags(), settings.FeatureUse(), settings.Use, req.Use),
		SearchPath: searchPath(settings, req),
		EAPI:       rcp.EAPI,
		MakeOpts:   settings.MakeOpts,
	})
	if err != nil {
		return nil, err
	}
	env.SetInherited(classNames(chain))

	reg := phase.NewRegistry()
	recipe.NewShell(b.runner, settings.Shell).Register(reg, rcp, chain)
	builtin.New(b.runner, b.fs).Register(reg, rcp.EAPI)

	resolver, err := phase.NewResolver(reg, rcp.EAPI)
	if err != nil {
		return nil, err
	}
	plan, err := resolver.Plan(phase.DefaultDefinitions())
	if err != nil {
		return nil, err
	}

	n := req.Jobs
	if n <= 0 {
		n = jobs.FromMakeOpts(settings.MakeOpts)
	}

	attempt := &Attempt{
		ID:         b.newID(),
		ConfigPath: confPath,
		Settings:   settings,
		Recipe:     rcp,
		Chain:      chain,
		Env:        env,
		Plan:       plan,
		Jobs:       n,
	}

	b.logger.Debug(ctx, "build prepared",
		ports.F("attempt", attempt.ID),
		ports.F("package", rcp.Name),
		ports.F("eapi", rcp.EAPI),
		ports.F("root", root),
		ports.F("jobs", n),
	)

	return attempt, nil
}

// Run executes a prepared attempt.
func (b *Builder) Run(ctx context.Context, attempt *Attempt) (*execution.Result, error) {
	log := b.logger.With(ports.F("attempt", attempt.ID), ports.F("package", attempt.Recipe.Name))

	ctx = ports.ContextWithLogger(ctx, log)

	executor := execution.NewExecutor(b.fs, b.checker).
		WithJobs(attempt.Jobs).
		WithOutput(b.stdout, b.stderr)

	log.Info(ctx, "build started", ports.F("root", attempt.Env.RootDir()))
	result, err := executor.Execute(ctx, attempt.Env, attempt.Plan)
	if err != nil {
		log.Error(ctx, "build failed", ports.F("error", err.Error()))
		return result, err
	}

	summary := result.Summary()
	log.Info(ctx, "build finished",
		ports.F("succeeded", summary.Succeeded),
		ports.F("skipped", summary.Skipped),
	)
	return result, nil
}

// Build prepares and runs an attempt.
func (b *Builder) Build(ctx context.Context, req Request) (*Attempt, *execution.Result, error) {
	attempt, err := b.Prepare(ctx, req)
	if err != nil {
		return nil, nil, err
	}
	result, err := b.Run(ctx, attempt)
	return attempt, result, err
}

// CheckReadOnly returns the read-only mount points backing dirs.
func (b *Builder) CheckReadOnly(ctx context.Context, dirs []string) ([]string, error) {
	return b.checker.ReadOnlyMounts(ctx, dirs)
}

func searchPath(settings config.Settings, req Request) string {
	if settings.SearchPath != "" {
		return settings.SearchPath
	}
	return req.SearchPath
}

func validateUse(layers ...[]string) error {
	for _, layer := range layers {
		for _, tok := range layer {
			if err := validation.ValidateUseToken(tok); err != nil {
				return fmt.Errorf("invalid USE setting: %w", err)
			}
		}
	}
	return nil
}

func classNames(chain []*recipe.BuildClass) []string {
	names := make([]string, 0, len(chain))
	for _, bc := range chain {
		names = append(names, bc.Name)
	}
	return names
}

// Package execution runs a resolved phase plan against a build environment.
package execution

import (
	"context"
	"fmt"
	"io"
	"path/filepath"
	"time"

	"github.com/felixgeelhaar/ebuild/internal/domain/environment"
	"github.com/felixgeelhaar/ebuild/internal/domain/fsguard"
	"github.com/felixgeelhaar/ebuild/internal/domain/jobs"
	"github.com/felixgeelhaar/ebuild/internal/domain/phase"
	"github.com/felixgeelhaar/ebuild/internal/ports"
)

// Executor runs the phases of a Plan strictly in order.
//
// Regular phases stop at the first failure. Cleanup phases then run exactly
// once each, whether the build succeeded, failed, was aborted on read-only
// storage or was cancelled.
type Executor struct {
	fs      ports.FileSystem
	checker fsguard.Checker
	logger  ports.Logger
	jobs    int
	stdout  io.Writer
	stderr  io.Writer
}

// NewExecutor creates a new Executor. A nil checker disables the read-only
// storage check.
func NewExecutor(fs ports.FileSystem, checker fsguard.Checker) *Executor {
	if checker == nil {
		checker = fsguard.NoopChecker{}
	}
	return &Executor{
		fs:      fs,
		checker: checker,
		logger:  ports.Discard,
	}
}

// WithLogger returns an Executor that logs to logger.
func (e *Executor) WithLogger(logger ports.Logger) *Executor {
	c := *e
	if logger == nil {
		logger = ports.Discard
	}
	c.logger = logger
	return &c
}

// WithJobs returns an Executor with a fixed job count for parallel phases.
// Zero resolves the count from MAKEOPTS at execution time.
func (e *Executor) WithJobs(n int) *Executor {
	c := *e
	c.jobs = n
	return &c
}

// WithOutput returns an Executor that passes stdout and stderr to phase
// bodies.
func (e *Executor) WithOutput(stdout, stderr io.Writer) *Executor {
	c := *e
	c.stdout = stdout
	c.stderr = stderr
	return &c
}

// Execute creates the build directories and runs plan. It returns the
// per-phase results and the first fatal error. Without an explicit logger,
// the one attached to ctx is used.
func (e *Executor) Execute(ctx context.Context, env *environment.Context, plan *phase.Plan) (*Result, error) {
	if e.logger == ports.Discard {
		if log := ports.LoggerFromContext(ctx); log != nil {
			e = e.WithLogger(log)
		}
	}
	result := NewResult()

	if err := env.CreateDirs(e.fs); err != nil {
		if roErr := e.readOnlyRoot(ctx, env.RootDir(), err); roErr != nil {
			return result, roErr
		}
		return result, err
	}

	machine, err := newPhaseMachine()
	if err != nil {
		return result, err
	}
	defer machine.stop()

	r := &run{
		executor: e,
		env:      env,
		machine:  machine,
		result:   result,
		jobs:     e.resolveJobs(env),
	}

	var fatal error
	for _, entry := range plan.Regular() {
		if err := ctx.Err(); err != nil {
			fatal = fmt.Errorf("build cancelled before %s: %w", entry.Name(), err)
			e.logger.Warn(ctx, "build cancelled", ports.F("phase", entry.Name().String()))
			break
		}
		if err := r.runEntry(ctx, entry); err != nil {
			fatal = err
			break
		}
	}

	cleanupCtx := context.WithoutCancel(ctx)
	for _, entry := range plan.Cleanup() {
		if err := r.runEntry(cleanupCtx, entry); err != nil {
			if fatal == nil {
				fatal = err
				continue
			}
			e.logger.Error(cleanupCtx, "cleanup phase failed",
				ports.F("phase", entry.Name().String()),
				ports.F("error", err.Error()),
			)
		}
	}

	e.logger.Debug(ctx, "build finished",
		ports.F("phases", len(result.Phases())),
		ports.F("bodies_run", machine.runs()),
		ports.F("succeeded", fatal == nil),
	)

	return result, fatal
}

// readOnlyRoot reports a failed directory creation as read-only storage when
// the nearest existing ancestor of root sits on a read-only mount.
func (e *Executor) readOnlyRoot(ctx context.Context, root string, cause error) error {
	dir := root
	for !e.fs.Exists(dir) {
		parent := filepath.Dir(dir)
		if parent == dir {
			break
		}
		dir = parent
	}

	mounts, err := e.checker.ReadOnlyMounts(ctx, []string{dir})
	if err != nil || len(mounts) == 0 {
		return nil
	}
	e.logger.Error(ctx, "build root is on read-only storage",
		ports.F("root", root),
		ports.F("mounts", mounts),
	)
	return phase.NewReadOnlyRootError(root, mounts, cause)
}

func (e *Executor) resolveJobs(env *environment.Context) int {
	if e.jobs > 0 {
		return e.jobs
	}
	opts, _ := env.Get(environment.VarMakeOpts)
	return jobs.FromMakeOpts(opts)
}

// run is the state of one Execute call.
type run struct {
	executor *Executor
	env      *environment.Context
	machine  *phaseMachine
	result   *Result
	jobs     int
}

// runEntry drives one phase through the state machine and records its
// result. It returns a non-nil error when the phase failed.
func (r *run) runEntry(ctx context.Context, entry phase.Entry) error {
	def := entry.Definition()
	name := def.Name
	log := r.executor.logger.With(ports.F("phase", name.String()))

	if err := r.machine.begin(); err != nil {
		return err
	}

	if def.Guard != "" && !r.env.UseFlagEnabled(def.Guard) {
		return r.skip(ctx, log, entry, fmt.Sprintf("USE flag %q is disabled", def.Guard))
	}
	if !entry.Eligible() {
		return r.skip(ctx, log, entry, fmt.Sprintf("not valid for EAPI %s", r.env.EAPI()))
	}

	if def.Mutating() {
		if err := r.checkWritable(ctx, log, entry); err != nil {
			return err
		}
	}

	if err := r.env.Set(environment.VarPhase, name.String()); err != nil {
		return err
	}

	inv := phase.Invocation{
		Phase:   name,
		Env:     r.env,
		WorkDir: def.WorkDir.Path(r.env),
		Jobs:    1,
		Logger:  log,
		Stdout:  r.executor.stdout,
		Stderr:  r.executor.stderr,
	}
	if def.Parallel {
		inv.Jobs = r.jobs
	}

	if err := r.machine.send(EventRun, StatusRunning); err != nil {
		return err
	}
	impl := entry.Implementation()
	log.Info(ctx, "phase started",
		ports.F("func", name.FuncName()),
		ports.F("kind", impl.Kind.String()),
		ports.F("source", impl.Source),
		ports.F("dir", inv.WorkDir),
	)

	start := time.Now()
	runErr := impl.Run(ctx, inv)
	duration := time.Since(start)

	if runErr != nil {
		if err := r.machine.send(EventFail, StatusFailed); err != nil {
			return err
		}
		perr := phase.NewExecutionFailedError(name, runErr)
		r.result.Add(NewPhaseResult(entry, StatusFailed, perr).
			WithDuration(duration).
			WithTrace(r.machine.transitions()))
		log.Error(ctx, "phase failed", ports.F("error", runErr.Error()), ports.F("duration", duration))
		return perr
	}

	if err := r.machine.send(EventSucceed, StatusSucceeded); err != nil {
		return err
	}
	r.result.Add(NewPhaseResult(entry, StatusSucceeded, nil).
		WithDuration(duration).
		WithTrace(r.machine.transitions()))
	log.Info(ctx, "phase succeeded", ports.F("duration", duration))
	return nil
}

func (r *run) skip(ctx context.Context, log ports.Logger, entry phase.Entry, reason string) error {
	if err := r.machine.send(EventSkip, StatusSkipped); err != nil {
		return err
	}
	r.result.Add(NewPhaseResult(entry, StatusSkipped, nil).
		WithReason(reason).
		WithTrace(r.machine.transitions()))
	log.Info(ctx, "phase skipped", ports.F("reason", reason))
	return nil
}

// checkWritable aborts the phase before it starts when any directory it
// writes sits on read-only storage. A checker failure is logged and the
// phase proceeds.
func (r *run) checkWritable(ctx context.Context, log ports.Logger, entry phase.Entry) error {
	dirs := entry.Definition().WritePaths(r.env)
	mounts, err := r.executor.checker.ReadOnlyMounts(ctx, dirs)
	if err != nil {
		log.Warn(ctx, "read-only storage check failed; continuing", ports.F("error", err.Error()))
		return nil
	}
	if len(mounts) == 0 {
		return nil
	}

	if err := r.machine.send(EventAbort, StatusFailed); err != nil {
		return err
	}
	roErr := phase.NewReadOnlyFilesystemError(entry.Name(), mounts)
	r.result.Add(NewPhaseResult(entry, StatusFailed, roErr).
		WithTrace(r.machine.transitions()))
	log.Error(ctx, "target directories are on read-only storage", ports.F("mounts", mounts))
	return roErr
}

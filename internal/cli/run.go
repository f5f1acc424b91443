// Package cli wires the cobra commands to the planning, safety, and
// execution layers.
package cli

import (
	"context"
	"fmt"
	"strings"

	"hedgerow.dev/hedge/internal/config"
	"hedgerow.dev/hedge/internal/errors"
	"hedgerow.dev/hedge/internal/execute"
	"hedgerow.dev/hedge/internal/git"
	"hedgerow.dev/hedge/internal/plan"
	"hedgerow.dev/hedge/internal/safety"
	"hedgerow.dev/hedge/internal/tui"
)

// runtime bundles everything a command needs once the repository is open
type runtime struct {
	Git      git.Runner
	Config   *config.Config
	Splog    *tui.Splog
	Planner  *plan.Planner
	RepoRoot string
}

// initRuntime opens the enclosing repository and loads its config
func initRuntime() (*runtime, error) {
	if err := git.InitDefaultRepo(); err != nil {
		return nil, fmt.Errorf("not a git repository: %w", err)
	}

	repoRoot, err := git.GetRepoRoot()
	if err != nil {
		return nil, fmt.Errorf("failed to get repo root: %w", err)
	}

	cfg, err := config.Load(repoRoot)
	if err != nil {
		return nil, err
	}

	splog, err := tui.NewSplogWithFile(tui.GetLogFilePath())
	if err != nil {
		// File logging is optional; fall back to console only
		splog = tui.NewSplog()
	}

	runner := git.NewRealRunner()
	return &runtime{
		Git:      runner,
		Config:   cfg,
		Splog:    splog,
		Planner:  plan.NewPlanner(runner, cfg),
		RepoRoot: repoRoot,
	}, nil
}

// runOptions carry the per-invocation toggles shared by every command
type runOptions struct {
	DryRun    bool
	Yes       bool
	Overrides safety.Overrides
}

// runPlan takes a plan through the gate, confirmation, and execution.
// Dry runs render the step list after the gate's verdict and never
// execute. A declined or unconfirmable Warn aborts with a dedicated
// error so the exit code distinguishes it from a Block.
func (rt *runtime) runPlan(ctx context.Context, p *plan.Plan, opts runOptions) (*execute.Report, error) {
	for _, branch := range p.SkippedProtected {
		rt.Splog.Debug("skipping protected branch %s", branch)
	}

	gate := safety.NewGate(rt.Git, rt.Config)
	verdict, err := gate.Evaluate(p, opts.Overrides)
	if err != nil {
		return nil, err
	}

	controller := execute.NewController(rt.Git, rt.Splog)

	if verdict.Level == safety.Block {
		for _, reason := range verdict.Reasons {
			rt.Splog.Error("%s", reason.Message)
		}
		if opts.DryRun {
			controller.DryRun(p)
		}
		return nil, errors.NewSafetyBlockError(verdict.Messages()...)
	}

	accepted := verdict.Accepted
	for _, reason := range accepted {
		rt.Splog.Debug("override accepted: %s", reason.Message)
	}

	if verdict.Level == safety.Warn {
		for _, reason := range verdict.Reasons {
			rt.Splog.Warn("%s", reason.Message)
		}
		if !opts.DryRun {
			if opts.Yes {
				accepted = append(accepted, verdict.Reasons...)
			} else {
				confirmed, err := tui.PromptConfirm("Proceed anyway?")
				if err != nil || !confirmed {
					return nil, errors.NewSafetyWarnError(verdict.Messages()...)
				}
				accepted = append(accepted, verdict.Reasons...)
			}
		}
	}

	if opts.DryRun {
		controller.DryRun(p)
		return nil, nil
	}

	report, err := controller.Execute(ctx, p, accepted)
	if err != nil {
		rt.reportFailure(p, report)
		return report, err
	}

	if len(report.AcceptedRisks) > 0 {
		codes := make([]string, len(report.AcceptedRisks))
		for i, r := range report.AcceptedRisks {
			codes[i] = r.Code
		}
		rt.Splog.Debug("completed with accepted risks: %s", strings.Join(codes, ", "))
	}

	return report, nil
}

func (rt *runtime) reportFailure(p *plan.Plan, report *execute.Report) {
	rt.Splog.Error("failed at step %d of %d (%d completed)", report.FailedStep, len(p.Steps), report.CompletedSteps)
	switch {
	case !report.RollbackPerformed:
		rt.Splog.Info("no local changes had landed; nothing to roll back")
	case report.RollbackSucceeded:
		rt.Splog.Info("repository restored to %s", p.Pre.Branch)
	default:
		rt.Splog.Error("automatic rollback failed; run by hand: %s", report.ManualRecoveryHint)
	}
}

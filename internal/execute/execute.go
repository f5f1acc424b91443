// Package execute runs plans step by step and restores the pre-plan
// snapshot when a step fails partway through.
package execute

import (
	"context"
	"fmt"
	"strings"

	"hedgerow.dev/hedge/internal/errors"
	"hedgerow.dev/hedge/internal/git"
	"hedgerow.dev/hedge/internal/plan"
	"hedgerow.dev/hedge/internal/safety"
	"hedgerow.dev/hedge/internal/tui"
)

// Report summarizes one execution attempt. It is produced for every run,
// successful or not, so callers always know how far the plan got.
type Report struct {
	CompletedSteps     int
	FailedStep         int // 1-based index of the failing step; 0 when all steps succeeded
	RollbackPerformed  bool
	RollbackSucceeded  bool
	ManualRecoveryHint string
	AcceptedRisks      []safety.Reason
}

// Controller executes plans against a git runner
type Controller struct {
	git   git.Runner
	splog *tui.Splog
}

// NewController creates a Controller backed by the given git runner
func NewController(g git.Runner, splog *tui.Splog) *Controller {
	return &Controller{git: g, splog: splog}
}

// Execute runs the plan's steps in order, stopping at the first failure.
// On failure it rolls back to the plan's snapshot when any local
// mutation has landed, and returns an ExecutionError (rollback worked)
// or a RecoveryError (rollback also failed, the hint says what to run by
// hand). The returned Report is valid in every case.
func (c *Controller) Execute(ctx context.Context, p *plan.Plan, accepted []safety.Reason) (*Report, error) {
	report := &Report{AcceptedRisks: accepted}

	for i, step := range p.Steps {
		c.splog.Info("→ %s", step.Description)
		if err := c.runStep(ctx, step); err != nil {
			report.CompletedSteps = i
			report.FailedStep = i + 1
			return c.recover(ctx, p, report, step, err)
		}
		report.CompletedSteps = i + 1
	}

	return report, nil
}

// DryRun prints the plan without executing anything. The lines are
// exactly the step descriptions a real run would log.
func (c *Controller) DryRun(p *plan.Plan) {
	if len(p.Steps) == 0 {
		c.splog.Info("nothing to do")
		return
	}
	c.splog.Info("would run %d step(s):", len(p.Steps))
	for _, line := range p.Render() {
		c.splog.Info("  %s", line)
	}
}

func (c *Controller) runStep(ctx context.Context, step plan.Step) error {
	switch step.Op {
	case plan.OpCheckoutBranch:
		return c.git.Checkout(ctx, step.Args[0])
	case plan.OpCreateOrMoveBranch:
		if step.Args[2] == plan.BranchCreate {
			return c.git.CreateBranch(ctx, step.Args[0], step.Args[1])
		}
		return c.git.MoveBranch(ctx, step.Args[0], step.Args[1])
	case plan.OpMergeIntoCurrent:
		if step.Args[1] == plan.MergeFFOnly {
			return c.git.FastForward(ctx, step.Args[0])
		}
		return c.git.Merge(ctx, step.Args[0])
	case plan.OpRebaseOnto:
		return c.git.RebaseOnto(ctx, step.Args[0])
	case plan.OpCherryPickCommit:
		return c.git.CherryPick(ctx, step.Args[0])
	case plan.OpResetSoftTo:
		return c.git.SoftReset(ctx, step.Args[0])
	case plan.OpCommitWithMessage:
		return c.git.Commit(ctx, step.Args[0])
	case plan.OpPush:
		opts := git.PushOptions{
			Force:          step.Args[2] == plan.PushForce,
			ForceWithLease: step.Args[2] == plan.PushForceWithLease,
			SetUpstream:    step.Args[3] == "true",
		}
		return c.git.Push(ctx, step.Args[0], step.Args[1], opts)
	case plan.OpNoOp:
		return nil
	}
	return fmt.Errorf("unknown step operation %q", step.Op)
}

// recover restores the pre-plan snapshot after a failed step. When no
// local mutation happened yet there is nothing to restore; the failure
// is reported as-is.
func (c *Controller) recover(ctx context.Context, p *plan.Plan, report *Report, failed plan.Step, cause error) (*Report, error) {
	execErr := errors.NewExecutionError(string(failed.Op), report.FailedStep, cause)

	if !localMutationRan(p, report.CompletedSteps, failed) {
		return report, execErr
	}

	report.RollbackPerformed = true
	hint := manualHint(p, failed)

	if err := c.abortInProgress(ctx, failed); err != nil {
		report.ManualRecoveryHint = hint
		return report, errors.NewRecoveryError(hint, err)
	}

	if p.Pre.Branch != "" {
		if err := c.git.Checkout(ctx, p.Pre.Branch); err != nil {
			report.ManualRecoveryHint = hint
			return report, errors.NewRecoveryError(hint, err)
		}
	}
	if p.Pre.Head != "" {
		if err := c.git.HardReset(ctx, p.Pre.Head); err != nil {
			report.ManualRecoveryHint = hint
			return report, errors.NewRecoveryError(hint, err)
		}
	}

	report.RollbackSucceeded = true
	c.splog.Warn("rolled back to %s @ %s", p.Pre.Branch, shortSHA(p.Pre.Head))
	return report, execErr
}

// localMutationRan reports whether any completed step, or the failed
// step itself, touched local repository state.
func localMutationRan(p *plan.Plan, completed int, failed plan.Step) bool {
	for _, step := range p.Steps[:completed] {
		if mutatesLocal(step.Op) {
			return true
		}
	}
	return mutatesLocal(failed.Op)
}

func mutatesLocal(op plan.StepOp) bool {
	switch op {
	case plan.OpPush, plan.OpNoOp:
		return false
	}
	return true
}

// abortInProgress clears the conflicted state a failed step leaves behind
func (c *Controller) abortInProgress(ctx context.Context, failed plan.Step) error {
	switch failed.Op {
	case plan.OpCherryPickCommit:
		return c.git.AbortCherryPick(ctx)
	case plan.OpRebaseOnto:
		return c.git.AbortRebase(ctx)
	case plan.OpMergeIntoCurrent:
		if failed.Args[1] != plan.MergeFFOnly {
			return c.git.AbortMerge(ctx)
		}
	}
	return nil
}

// manualHint composes the native commands an operator needs when the
// automatic rollback cannot finish.
func manualHint(p *plan.Plan, failed plan.Step) string {
	var cmds []string
	switch failed.Op {
	case plan.OpCherryPickCommit:
		cmds = append(cmds, "git cherry-pick --abort")
	case plan.OpRebaseOnto:
		cmds = append(cmds, "git rebase --abort")
	case plan.OpMergeIntoCurrent:
		if failed.Args[1] != plan.MergeFFOnly {
			cmds = append(cmds, "git merge --abort")
		}
	}
	if p.Pre.Branch != "" {
		cmds = append(cmds, "git checkout "+p.Pre.Branch)
	}
	if p.Pre.Head != "" {
		cmds = append(cmds, "git reset --hard "+p.Pre.Head)
	}
	return strings.Join(cmds, " && ")
}

func shortSHA(sha string) string {
	if len(sha) > 7 {
		return sha[:7]
	}
	return sha
}

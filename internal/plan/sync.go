package plan

import (
	"hedgerow.dev/hedge/internal/classify"
	"hedgerow.dev/hedge/internal/config"
	"hedgerow.dev/hedge/internal/errors"
)

// SyncRequest names the branches to bring up to date with their
// upstreams. Branches is already resolved; an empty list means the
// checked-out branch.
type SyncRequest struct {
	Branches      []string
	ExplicitNames map[string]bool // literally-named branches, exempt from the protected skip
	Bulk          bool
	Strategy      string // empty means the configured strategy
}

// Sync plans updating each named branch from its upstream. The whole
// selection becomes one plan: per-branch steps in selection order, then
// a final switch back to the branch that was checked out. Branches with
// nothing to pull contribute a no-op step so the rendered plan accounts
// for every selected branch.
func (p *Planner) Sync(req SyncRequest) (*Plan, error) {
	strategy := req.Strategy
	var err error
	if strategy == "" {
		strategy, err = p.cfg.SyncStrategy()
	} else {
		strategy, err = config.ValidateStrategy(strategy)
	}
	if err != nil {
		return nil, err
	}

	pre, st, err := p.snapshot(false)
	if err != nil {
		return nil, err
	}
	if st.IsDetached {
		return &Plan{Kind: KindSync, Pre: pre, RequiresAttached: true, RequiresClean: true}, nil
	}

	branches := req.Branches
	if len(branches) == 0 {
		branches = []string{st.Branch}
	}

	var steps []Step
	var diverged, skipped []string
	position := st.Branch // branch the worktree is on after the steps so far

	for _, branch := range branches {
		if req.Bulk && p.cfg.IsProtected(branch) && !req.ExplicitNames[branch] {
			skipped = append(skipped, branch)
			continue
		}

		bst, err := p.classifier.Status(branch, false)
		if err != nil {
			return nil, err
		}

		switch bst.Classification {
		case classify.NoUpstream:
			steps = append(steps, newStep(OpNoOp, nil, "%s: no upstream configured, skipping", branch))
		case classify.UpToDate:
			steps = append(steps, newStep(OpNoOp, nil, "%s: already up to date with %s", branch, bst.Upstream))
		case classify.Ahead:
			steps = append(steps, newStep(OpNoOp, nil, "%s: ahead of %s by %d, nothing to pull", branch, bst.Upstream, bst.Divergence.Ahead))
		case classify.Behind:
			steps = append(steps,
				newStep(OpCheckoutBranch, []string{branch}, "switch to branch %s", branch),
				newStep(OpMergeIntoCurrent, []string{bst.Upstream, MergeFFOnly}, "fast-forward %s to %s (behind by %d)", branch, bst.Upstream, bst.Divergence.Behind),
			)
			position = branch
		case classify.Diverged:
			switch strategy {
			case config.StrategyMerge:
				steps = append(steps,
					newStep(OpCheckoutBranch, []string{branch}, "switch to branch %s", branch),
					newStep(OpMergeIntoCurrent, []string{bst.Upstream, MergeFull}, "merge %s into %s (ahead %d, behind %d)", bst.Upstream, branch, bst.Divergence.Ahead, bst.Divergence.Behind),
				)
				position = branch
				diverged = append(diverged, branch)
			case config.StrategyRebase:
				steps = append(steps,
					newStep(OpCheckoutBranch, []string{branch}, "switch to branch %s", branch),
					newStep(OpRebaseOnto, []string{bst.Upstream}, "rebase %s onto %s (ahead %d, behind %d)", branch, bst.Upstream, bst.Divergence.Ahead, bst.Divergence.Behind),
				)
				position = branch
				diverged = append(diverged, branch)
			case config.StrategyFFOnly:
				if !req.Bulk {
					return nil, errors.NewPlanningError(errors.ErrCannotFastForward, "branch %s has diverged from %s and the strategy is %s", branch, bst.Upstream, config.StrategyFFOnly)
				}
				steps = append(steps, newStep(OpNoOp, nil, "%s: diverged from %s, cannot fast-forward, skipping", branch, bst.Upstream))
			}
		}
	}

	if position != st.Branch {
		steps = append(steps, newStep(OpCheckoutBranch, []string{st.Branch}, "return to branch %s", st.Branch))
	}

	return &Plan{
		Kind:             KindSync,
		Steps:            steps,
		Pre:              pre,
		RequiresAttached: true,
		RequiresClean:    true,
		SourceBranch:     st.Branch,
		Diverged:         diverged,
		SkippedProtected: skipped,
	}, nil
}

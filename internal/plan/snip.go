package plan

import (
	"fmt"

	"hedgerow.dev/hedge/internal/errors"
)

// SnipRequest selects a commit to relocate onto another branch.
type SnipRequest struct {
	Commit       string // revision to relocate; empty means the branch tip
	Onto         string // target branch, required
	NoPull       bool   // skip the fast-forward of the target before picking
	KeepOriginal bool   // leave the original branch untouched
	NewBranch    string // branch name for KeepOriginal; derived when empty
}

// Snip plans relocating a commit onto a target branch: switch to the
// target, bring it up to date, cherry-pick the commit, then repoint the
// original branch at the result (or grow a fresh branch when the
// original is kept).
func (p *Planner) Snip(req SnipRequest) (*Plan, error) {
	pre, st, err := p.snapshot(true)
	if err != nil {
		return nil, err
	}
	if st.IsDetached {
		return &Plan{Kind: KindSnip, Pre: pre, RequiresAttached: true, RequiresClean: true}, nil
	}

	exists, err := p.git.BranchExists(req.Onto)
	if err != nil {
		return nil, err
	}
	if !exists {
		return nil, errors.NewReferenceError("branch", req.Onto)
	}

	// Relocating onto the branch being rewritten cannot work; hand the
	// gate an inert plan carrying the annotations it blocks on.
	if req.Onto == st.Branch {
		return &Plan{
			Kind:             KindSnip,
			Pre:              pre,
			RequiresAttached: true,
			RequiresClean:    true,
			SourceBranch:     st.Branch,
			TargetBranch:     req.Onto,
		}, nil
	}

	source := req.Commit
	if source == "" {
		source = st.Branch
	}
	sha, err := p.git.ResolveRevision(source)
	if err != nil {
		return nil, err
	}

	steps := []Step{
		newStep(OpCheckoutBranch, []string{req.Onto}, "switch to branch %s", req.Onto),
	}

	targetUpstream, err := p.git.UpstreamOf(req.Onto)
	if err != nil {
		return nil, err
	}
	if !req.NoPull && targetUpstream != "" {
		steps = append(steps, newStep(OpMergeIntoCurrent, []string{targetUpstream, MergeFFOnly}, "fast-forward %s to %s", req.Onto, targetUpstream))
	}

	steps = append(steps, newStep(OpCherryPickCommit, []string{sha}, "cherry-pick %s onto %s", short(sha), req.Onto))

	var rewrites []string
	if req.KeepOriginal {
		name := req.NewBranch
		if name == "" {
			name, err = p.deriveBranchName(st.Branch + "-snip")
			if err != nil {
				return nil, err
			}
		}
		steps = append(steps, newStep(OpCreateOrMoveBranch, []string{name, "HEAD", BranchCreate}, "create branch %s at the relocated commit", name))
	} else {
		steps = append(steps, newStep(OpCreateOrMoveBranch, []string{st.Branch, "HEAD", BranchMove}, "move branch %s to the relocated commit", st.Branch))

		// Everything on the original branch since it forked from the
		// target is abandoned, except the commit being relocated.
		mergeBase, err := p.git.MergeBase(st.Branch, req.Onto)
		if err != nil {
			return nil, err
		}
		onBranch, err := p.git.CommitsBetween(mergeBase, st.Branch)
		if err != nil {
			return nil, err
		}
		for _, c := range onBranch {
			if c != sha {
				rewrites = append(rewrites, c)
			}
		}
	}

	steps = append(steps, newStep(OpCheckoutBranch, []string{st.Branch}, "return to branch %s", st.Branch))

	return &Plan{
		Kind:             KindSnip,
		Steps:            steps,
		Pre:              pre,
		RequiresAttached: true,
		RequiresClean:    true,
		SourceBranch:     st.Branch,
		TargetBranch:     req.Onto,
		Upstream:         st.Upstream,
		RewrittenCommits: rewrites,
	}, nil
}

// deriveBranchName appends a numeric suffix until the name is free
func (p *Planner) deriveBranchName(base string) (string, error) {
	name := base
	for i := 2; ; i++ {
		exists, err := p.git.BranchExists(name)
		if err != nil {
			return "", err
		}
		if !exists {
			return name, nil
		}
		name = fmt.Sprintf("%s-%d", base, i)
	}
}

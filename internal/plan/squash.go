package plan

import (
	goerrors "errors"

	"hedgerow.dev/hedge/internal/errors"
)

// SquashRequest selects the commits to collapse. Either Count (the N
// newest commits on the checked-out branch) or the From/To endpoints
// (inclusive, oldest to newest) must be given, never both.
type SquashRequest struct {
	Count   int
	From    string
	To      string
	Message string // empty means reuse the oldest commit's message
}

// Squash plans collapsing a contiguous run of commits ending at the
// branch tip into one commit. The plan is a soft reset to the parent of
// the oldest commit in the run followed by a single commit.
func (p *Planner) Squash(req SquashRequest) (*Plan, error) {
	hasRange := req.From != "" || req.To != ""

	// Request shape is checked before any repository access
	if req.Count > 0 && hasRange {
		return nil, errors.NewPlanningError(errors.ErrMalformedRange, "give either a commit count or a from/to range, not both")
	}
	if !hasRange {
		if req.Count < 2 {
			return nil, errors.NewPlanningError(errors.ErrSquashTooShort, "cannot squash %d commit(s); at least two are required", req.Count)
		}
	} else if req.From == "" || req.To == "" {
		return nil, errors.NewPlanningError(errors.ErrMalformedRange, "a commit range needs both endpoints")
	}

	pre, st, err := p.snapshot(true)
	if err != nil {
		return nil, err
	}
	if st.IsDetached {
		return &Plan{Kind: KindSquash, Pre: pre, RequiresAttached: true, RequiresClean: true}, nil
	}

	tip, err := p.git.ResolveRevision(st.Branch)
	if err != nil {
		return nil, err
	}

	var base, oldest string
	var commits []string // oldest first

	if !hasRange {
		// Walk first parents back from the tip
		newestFirst := []string{tip}
		cur := tip
		for i := 1; i < req.Count; i++ {
			parent, err := p.git.ParentOf(cur)
			if err != nil {
				if goerrors.Is(err, errors.ErrRootCommit) {
					return nil, errors.NewPlanningError(errors.ErrRootCommit, "branch %s has fewer than %d commits", st.Branch, req.Count)
				}
				return nil, err
			}
			cur = parent
			newestFirst = append(newestFirst, parent)
		}
		oldest = cur
		for i := len(newestFirst) - 1; i >= 0; i-- {
			commits = append(commits, newestFirst[i])
		}
	} else {
		from, err := p.git.ResolveRevision(req.From)
		if err != nil {
			return nil, err
		}
		to, err := p.git.ResolveRevision(req.To)
		if err != nil {
			return nil, err
		}
		if from == to {
			return nil, errors.NewPlanningError(errors.ErrSquashTooShort, "range %s..%s selects a single commit", short(from), short(to))
		}
		if to != tip {
			return nil, errors.NewPlanningError(errors.ErrMalformedRange, "range must end at the tip of %s", st.Branch)
		}
		ancestor, err := p.git.IsAncestor(from, to)
		if err != nil {
			return nil, err
		}
		if !ancestor {
			return nil, errors.NewPlanningError(errors.ErrMalformedRange, "%s is not an ancestor of %s", short(from), short(to))
		}
		oldest = from
	}

	base, err = p.git.ParentOf(oldest)
	if err != nil {
		if goerrors.Is(err, errors.ErrRootCommit) {
			return nil, errors.NewPlanningError(errors.ErrRootCommit, "cannot squash through the root commit")
		}
		return nil, err
	}

	if hasRange {
		commits, err = p.git.CommitsBetween(base, tip)
		if err != nil {
			return nil, err
		}
		if len(commits) < 2 {
			return nil, errors.NewPlanningError(errors.ErrSquashTooShort, "range selects fewer than two commits")
		}
	}

	message := req.Message
	if message == "" {
		message, err = p.git.CommitMessage(oldest)
		if err != nil {
			return nil, err
		}
	}

	return &Plan{
		Kind: KindSquash,
		Steps: []Step{
			newStep(OpResetSoftTo, []string{base}, "reset %s softly to %s, keeping all changes staged", st.Branch, short(base)),
			newStep(OpCommitWithMessage, []string{message}, "commit the staged changes as a single commit"),
		},
		Pre:              pre,
		RequiresAttached: true,
		RequiresClean:    true,
		SourceBranch:     st.Branch,
		Upstream:         st.Upstream,
		RewrittenCommits: commits,
	}, nil
}

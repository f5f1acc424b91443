// Package classify computes the relationship between a branch and its
// upstream and folds it into a small state enum used by the planners.
package classify

import (
	"fmt"

	"hedgerow.dev/hedge/internal/errors"
	"hedgerow.dev/hedge/internal/git"
)

// Classification describes a branch's relationship to its upstream
type Classification int

const (
	// UpToDate indicates ahead=0 and behind=0
	UpToDate Classification = iota
	// Ahead indicates local-only commits and nothing to pull
	Ahead
	// Behind indicates upstream-only commits and nothing local
	Behind
	// Diverged indicates commits on both sides
	Diverged
	// NoUpstream indicates the branch has no configured upstream
	NoUpstream
	// Detached indicates HEAD does not resolve to a branch
	Detached
)

// String returns the classification name for display
func (c Classification) String() string {
	switch c {
	case UpToDate:
		return "up-to-date"
	case Ahead:
		return "ahead"
	case Behind:
		return "behind"
	case Diverged:
		return "diverged"
	case NoUpstream:
		return "no-upstream"
	case Detached:
		return "detached"
	}
	return "unknown"
}

// Divergence counts commits reachable from the branch but not its
// upstream (Ahead) and vice versa (Behind). It is derived state,
// recomputed whenever either pointer moves.
type Divergence struct {
	Ahead  int
	Behind int
}

// Classify is a pure function from divergence and HEAD state to a
// classification. The four divergence cases are exhaustive and mutually
// exclusive; detachment and a missing upstream take precedence in that
// order.
func Classify(d Divergence, hasUpstream, detached bool) Classification {
	if detached {
		return Detached
	}
	if !hasUpstream {
		return NoUpstream
	}
	switch {
	case d.Ahead == 0 && d.Behind == 0:
		return UpToDate
	case d.Ahead > 0 && d.Behind == 0:
		return Ahead
	case d.Ahead == 0 && d.Behind > 0:
		return Behind
	default:
		return Diverged
	}
}

// Status is a snapshot of a branch's state, valid only for the
// planning+execution cycle that produced it.
type Status struct {
	Branch         string
	Upstream       string
	Head           string
	Classification Classification
	Divergence     Divergence
	HasUpstream    bool
	IsClean        bool
	IsDetached     bool
}

// Classifier queries branch state from git. Every call hits the
// repository fresh; results must not be cached across mutations.
type Classifier struct {
	git git.Runner
}

// NewClassifier creates a Classifier backed by the given git runner
func NewClassifier(g git.Runner) *Classifier {
	return &Classifier{git: g}
}

// Status computes the snapshot for a branch. An empty branch name means
// the checked-out branch. Detachment is always detected and reported,
// even when the caller named a branch explicitly.
func (c *Classifier) Status(branch string, ignoreUntracked bool) (Status, error) {
	detached, err := c.git.IsDetached()
	if err != nil {
		return Status{}, fmt.Errorf("failed to inspect HEAD: %w", err)
	}

	clean, err := c.git.IsClean(ignoreUntracked)
	if err != nil {
		return Status{}, fmt.Errorf("failed to inspect working tree: %w", err)
	}

	if branch == "" {
		if detached {
			return Status{
				Classification: Detached,
				IsClean:        clean,
				IsDetached:     true,
			}, nil
		}
		branch, err = c.git.CurrentBranch()
		if err != nil {
			return Status{}, err
		}
	}

	exists, err := c.git.BranchExists(branch)
	if err != nil {
		return Status{}, err
	}
	if !exists {
		return Status{}, errors.NewReferenceError("branch", branch)
	}

	head, err := c.git.ResolveRevision(branch)
	if err != nil {
		return Status{}, err
	}

	upstream, err := c.git.UpstreamOf(branch)
	if err != nil {
		return Status{}, err
	}

	status := Status{
		Branch:      branch,
		Upstream:    upstream,
		Head:        head,
		HasUpstream: upstream != "",
		IsClean:     clean,
		IsDetached:  detached,
	}

	if upstream != "" {
		ahead, behind, err := c.git.AheadBehind(branch, upstream)
		if err != nil {
			return Status{}, err
		}
		status.Divergence = Divergence{Ahead: ahead, Behind: behind}
	}

	// A named branch classifies on its own divergence; detachment is
	// repository state and stays visible through IsDetached.
	status.Classification = Classify(status.Divergence, status.HasUpstream, false)
	return status, nil
}

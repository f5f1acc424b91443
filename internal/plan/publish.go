package plan

import (
	"strconv"

	"hedgerow.dev/hedge/internal/classify"
)

// PublishRequest names the branch to push and how hard to push it.
type PublishRequest struct {
	Branch     string // empty means the checked-out branch
	Remote     string // empty means the configured remote
	Force      string // "", PushForce, or PushForceWithLease
	NoUpstream bool   // never pass -u, regardless of config
}

// Publish plans pushing a branch to its remote. When the remote branch
// exists and is not an ancestor of the local one, a plain push cannot
// land; the plan then carries the requested force variant, defaulting
// to force-with-lease.
func (p *Planner) Publish(req PublishRequest) (*Plan, error) {
	pre, st, err := p.classifierStatus(req.Branch)
	if err != nil {
		return nil, err
	}
	if req.Branch == "" && st.IsDetached {
		return &Plan{Kind: KindPublish, Pre: pre, RequiresAttached: true}, nil
	}

	branch := st.Branch
	remote := req.Remote
	if remote == "" {
		remote = p.cfg.RemoteName()
	}

	needsForce := false
	remoteExists, err := p.git.RemoteBranchExists(remote, branch)
	if err != nil {
		return nil, err
	}
	if remoteExists {
		ancestor, err := p.git.IsAncestor(remote+"/"+branch, branch)
		if err != nil {
			return nil, err
		}
		needsForce = !ancestor
	}

	mode := PushPlain
	forceMode := ""
	switch {
	case needsForce && req.Force != "":
		mode = req.Force
		forceMode = req.Force
	case needsForce:
		mode = PushForceWithLease
		forceMode = PushForceWithLease
	case req.Force != "":
		mode = req.Force
		forceMode = req.Force
	}

	setUpstream := !req.NoUpstream && p.cfg.PublishSetsUpstream() && !st.HasUpstream

	desc := "push " + branch + " to " + remote
	switch mode {
	case PushForceWithLease:
		desc += " (force, refusing to clobber unseen remote commits)"
	case PushForce:
		desc += " (force)"
	}
	if setUpstream {
		desc += ", setting upstream"
	}

	return &Plan{
		Kind: KindPublish,
		Steps: []Step{
			newStep(OpPush, []string{remote, branch, mode, strconv.FormatBool(setUpstream)}, "%s", desc),
		},
		Pre:              pre,
		RequiresAttached: req.Branch == "",
		SourceBranch:     branch,
		Remote:           remote,
		Upstream:         st.Upstream,
		NeedsForce:       needsForce,
		ForceMode:        forceMode,
	}, nil
}

// classifierStatus snapshots the repository and classifies the requested
// branch. The snapshot always describes the checked-out state, even when
// an explicit branch was named.
func (p *Planner) classifierStatus(branch string) (Snapshot, classify.Status, error) {
	pre, current, err := p.snapshot(true)
	if err != nil {
		return Snapshot{}, classify.Status{}, err
	}
	if branch == "" || branch == current.Branch {
		return pre, current, nil
	}
	st, err := p.classifier.Status(branch, true)
	if err != nil {
		return Snapshot{}, classify.Status{}, err
	}
	return pre, st, nil
}

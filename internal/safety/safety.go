// Package safety judges plans before execution. Rules run in a fixed
// order; the first Block ends evaluation, Warns accumulate and can each
// be overridden individually or accepted interactively. The gate never
// mutates anything.
package safety

import (
	"fmt"
	"strings"

	"hedgerow.dev/hedge/internal/config"
	"hedgerow.dev/hedge/internal/git"
	"hedgerow.dev/hedge/internal/plan"
)

// Level is the severity of a verdict
type Level int

const (
	// Allow means execution may proceed unconditionally
	Allow Level = iota
	// Warn means execution needs confirmation or a matching override
	Warn
	// Block means execution must not happen; not overridable
	Block
)

// String returns the level name for display
func (l Level) String() string {
	switch l {
	case Allow:
		return "allow"
	case Warn:
		return "warn"
	case Block:
		return "block"
	}
	return "unknown"
}

// Reason codes, one per rule
const (
	CodeDetachedHead    = "detached-head"
	CodeDirtyWorktree   = "dirty-worktree"
	CodeLostCommits     = "lost-commits"
	CodeSelfTarget      = "self-target"
	CodePushedCommits   = "pushed-commits"
	CodeProtectedBranch = "protected-branch"
	CodeUnknownRemote   = "unknown-remote"
	CodeDivergedBranch  = "diverged-branch"
)

// Reason is one finding from one rule
type Reason struct {
	Code        string
	Message     string
	Overridable bool
}

// Verdict is the gate's judgment of a plan. Accepted lists Warn reasons
// that a matching override converted to Allow; they are still reported
// so the run records which risks were taken.
type Verdict struct {
	Level    Level
	Reasons  []Reason
	Accepted []Reason
}

// Messages flattens the active reasons for error construction
func (v Verdict) Messages() []string {
	msgs := make([]string, 0, len(v.Reasons))
	for _, r := range v.Reasons {
		msgs = append(msgs, r.Message)
	}
	return msgs
}

// Overrides name the specific Warn codes the caller accepts up front.
// Each field clears exactly one code; an override never spills over onto
// a Warn it does not name.
type Overrides struct {
	LostCommits   bool // clears lost-commits
	PushedCommits bool // clears pushed-commits
	Protected     bool // clears protected-branch
	Diverged      bool // clears diverged-branch
}

func (o Overrides) clears(code string) bool {
	switch code {
	case CodeLostCommits:
		return o.LostCommits
	case CodePushedCommits:
		return o.PushedCommits
	case CodeProtectedBranch:
		return o.Protected
	case CodeDivergedBranch:
		return o.Diverged
	}
	return false
}

// Gate evaluates plans against the safety rules
type Gate struct {
	git git.Runner
	cfg *config.Config
}

// NewGate creates a Gate backed by the given git runner and config
func NewGate(g git.Runner, cfg *config.Config) *Gate {
	return &Gate{git: g, cfg: cfg}
}

// Evaluate runs every rule against the plan, in order. A Block returns
// immediately with the blocking reason first, followed by any Warns
// already found so the operator sees the whole picture. Otherwise each
// Warn is either cleared by a matching override (moved to Accepted) or
// kept, and the verdict is Warn when any remain.
func (g *Gate) Evaluate(p *plan.Plan, o Overrides) (Verdict, error) {
	var warns []Reason

	block := func(code, format string, a ...interface{}) Verdict {
		reason := Reason{Code: code, Message: fmt.Sprintf(format, a...)}
		return Verdict{Level: Block, Reasons: append([]Reason{reason}, warns...)}
	}
	warn := func(code, format string, a ...interface{}) {
		warns = append(warns, Reason{Code: code, Message: fmt.Sprintf(format, a...), Overridable: true})
	}

	// 1. Structure-mutating operations need a branch to restore
	if p.RequiresAttached && p.Pre.Detached {
		return block(CodeDetachedHead, "HEAD is detached; %s needs a checked-out branch", p.Kind), nil
	}

	// 2. Structure-mutating operations need a clean tree to roll back to
	if p.RequiresClean && !p.Pre.Clean {
		return block(CodeDirtyWorktree, "working tree has uncommitted changes; commit or stash them first"), nil
	}

	// 3. Commits left unreachable from every remaining branch
	if len(p.RewrittenCommits) > 0 {
		lost, err := g.lostCommits(p)
		if err != nil {
			return Verdict{}, err
		}
		if len(lost) > 0 {
			shortened := make([]string, len(lost))
			for i, sha := range lost {
				shortened[i] = shortSHA(sha)
			}
			warn(CodeLostCommits, "commits %s will become unreachable from any branch", strings.Join(shortened, ", "))
		}
	}

	// 4. A relocate can never target the branch it rewrites
	if p.Kind == plan.KindSnip && p.TargetBranch != "" && p.TargetBranch == p.SourceBranch {
		return block(CodeSelfTarget, "cannot snip onto %s, the branch being rewritten", p.TargetBranch), nil
	}

	// 5. Rewriting commits already on the upstream forces a force-push later
	if p.Upstream != "" && len(p.RewrittenCommits) > 0 {
		pushed, err := g.pushedCommits(p)
		if err != nil {
			return Verdict{}, err
		}
		if len(pushed) > 0 {
			shortened := make([]string, len(pushed))
			for i, sha := range pushed {
				shortened[i] = shortSHA(sha)
			}
			warn(CodePushedCommits, "commits %s are already on %s; rewriting them will require a force-push", strings.Join(shortened, ", "), p.Upstream)
		}
	}

	// 6. Force-pushing a protected branch
	if p.ForceMode != "" && g.cfg.IsProtected(p.SourceBranch) {
		warn(CodeProtectedBranch, "%s is a protected branch and this push uses %s", p.SourceBranch, p.ForceMode)
	}

	// 7. Pushing to a remote that is not configured
	if p.Remote != "" {
		exists, err := g.git.RemoteExists(p.Remote)
		if err != nil {
			return Verdict{}, err
		}
		if !exists {
			return block(CodeUnknownRemote, "remote %s is not configured", p.Remote), nil
		}
	}

	// 8. Diverged branches are integrated at higher risk
	if len(p.Diverged) > 0 {
		warn(CodeDivergedBranch, "branches %s have diverged from their upstreams and will be integrated, not just fast-forwarded", strings.Join(p.Diverged, ", "))
	}

	verdict := Verdict{Level: Allow}
	for _, r := range warns {
		if o.clears(r.Code) {
			verdict.Accepted = append(verdict.Accepted, r)
			continue
		}
		verdict.Reasons = append(verdict.Reasons, r)
	}
	if len(verdict.Reasons) > 0 {
		verdict.Level = Warn
	}
	return verdict, nil
}

// lostCommits filters the plan's rewritten commits down to those no
// branch other than the one being rewritten can still reach.
func (g *Gate) lostCommits(p *plan.Plan) ([]string, error) {
	var lost []string
	for _, sha := range p.RewrittenCommits {
		branches, err := g.git.BranchesContaining(sha)
		if err != nil {
			return nil, err
		}
		reachable := false
		for _, b := range branches {
			if b != p.SourceBranch {
				reachable = true
				break
			}
		}
		if !reachable {
			lost = append(lost, sha)
		}
	}
	return lost, nil
}

// pushedCommits filters the plan's rewritten commits down to those the
// upstream already has.
func (g *Gate) pushedCommits(p *plan.Plan) ([]string, error) {
	var pushed []string
	for _, sha := range p.RewrittenCommits {
		onUpstream, err := g.git.IsAncestor(sha, p.Upstream)
		if err != nil {
			return nil, err
		}
		if onUpstream {
			pushed = append(pushed, sha)
		}
	}
	return pushed, nil
}

func shortSHA(sha string) string {
	if len(sha) > 7 {
		return sha[:7]
	}
	return sha
}

// Package plan turns requests against classified branch state into
// ordered lists of primitive steps. Plans are data: nothing here touches
// the repository beyond read-only queries, and every plan carries the
// snapshot it was computed from so the executor can restore it.
package plan

import (
	"fmt"
)

// Kind names the operation a plan implements
type Kind string

const (
	KindSync    Kind = "sync"
	KindSquash  Kind = "squash"
	KindSnip    Kind = "snip"
	KindPublish Kind = "publish"
)

// StepOp is a primitive repository operation. Steps never compose; each
// maps onto exactly one native git invocation at execution time.
type StepOp string

const (
	OpCheckoutBranch     StepOp = "checkout-branch"
	OpCreateOrMoveBranch StepOp = "create-or-move-branch"
	OpMergeIntoCurrent   StepOp = "merge-into-current"
	OpRebaseOnto         StepOp = "rebase-onto"
	OpCherryPickCommit   StepOp = "cherry-pick-commit"
	OpResetSoftTo        StepOp = "reset-soft-to"
	OpCommitWithMessage  StepOp = "commit-with-message"
	OpPush               StepOp = "push"
	OpNoOp               StepOp = "no-op"
)

// Merge modes for OpMergeIntoCurrent
const (
	MergeFFOnly = "ff-only"
	MergeFull   = "merge"
)

// Branch modes for OpCreateOrMoveBranch
const (
	BranchCreate = "create"
	BranchMove   = "move"
)

// Force modes carried in an OpPush step
const (
	PushPlain          = "plain"
	PushForce          = "force"
	PushForceWithLease = "force-with-lease"
)

// Step is one primitive operation with its resolved arguments and a
// human-readable description. The description printed during execution
// is the same text a dry run renders.
type Step struct {
	Op          StepOp
	Args        []string
	Description string
}

func newStep(op StepOp, args []string, format string, a ...interface{}) Step {
	return Step{
		Op:          op,
		Args:        append([]string(nil), args...),
		Description: fmt.Sprintf(format, a...),
	}
}

// Snapshot records the repository state a plan was computed against.
// It is what the executor restores on rollback, and it is stale the
// moment any mutation lands outside the plan.
type Snapshot struct {
	Branch   string // checked-out branch; empty when detached
	Head     string // SHA of HEAD
	Clean    bool
	Detached bool
}

// Plan is an ordered list of steps plus the annotations the safety gate
// needs to judge it. A plan is inert until the gate allows it.
type Plan struct {
	Kind  Kind
	Steps []Step
	Pre   Snapshot

	// Gate annotations
	RequiresAttached bool
	RequiresClean    bool
	SourceBranch     string   // branch whose history the plan rewrites or pushes
	TargetBranch     string   // relocate target; empty otherwise
	Remote           string   // remote the plan pushes to; empty otherwise
	Upstream         string   // upstream ref of SourceBranch, if any
	RewrittenCommits []string // commits the plan abandons from SourceBranch
	NeedsForce       bool     // push cannot land without a force variant
	ForceMode        string   // "", PushForce, or PushForceWithLease
	Diverged         []string // branches integrated while diverged
	SkippedProtected []string // protected branches silently dropped from a bulk sync
}

// Mutates reports whether the plan changes local repository state.
// Push-only plans do not: there is nothing local to roll back.
func (p *Plan) Mutates() bool {
	for _, step := range p.Steps {
		switch step.Op {
		case OpPush, OpNoOp:
		default:
			return true
		}
	}
	return false
}

// Render returns the numbered step descriptions, one line per step.
// Dry runs print exactly these lines; execution logs the same text per
// step as it runs.
func (p *Plan) Render() []string {
	lines := make([]string, 0, len(p.Steps))
	for i, step := range p.Steps {
		lines = append(lines, fmt.Sprintf("%d. %s", i+1, step.Description))
	}
	return lines
}

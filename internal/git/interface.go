package git

import (
	"context"
)

// Runner defines the interface for git operations used by the planning and
// execution layers. This allows the core to be used with both real git and
// fake implementations in tests.
type Runner interface {
	// Repository queries
	CurrentBranch() (string, error)
	IsDetached() (bool, error)
	LocalBranches() ([]string, error)
	RemoteBranches() ([]string, error)
	BranchExists(name string) (bool, error)
	UpstreamOf(branch string) (string, error)
	AheadBehind(branch, upstream string) (ahead, behind int, err error)
	IsClean(ignoreUntracked bool) (bool, error)
	ResolveRevision(rev string) (string, error)
	CommitMessage(rev string) (string, error)
	ParentOf(rev string) (string, error)
	MergeBase(rev1, rev2 string) (string, error)
	CommitsBetween(base, tip string) ([]string, error)
	IsAncestor(ancestor, descendant string) (bool, error)
	BranchesContaining(sha string) ([]string, error)
	RemoteExists(name string) (bool, error)
	RemoteBranchExists(remote, branch string) (bool, error)
	RemoteURL(name string) (string, error)

	// Mutating operations
	Checkout(ctx context.Context, branch string) error
	CreateBranch(ctx context.Context, name, revision string) error
	MoveBranch(ctx context.Context, name, revision string) error
	FastForward(ctx context.Context, ref string) error
	Merge(ctx context.Context, ref string) error
	RebaseOnto(ctx context.Context, upstream string) error
	CherryPick(ctx context.Context, sha string) error
	SoftReset(ctx context.Context, revision string) error
	HardReset(ctx context.Context, revision string) error
	Commit(ctx context.Context, message string) error
	Push(ctx context.Context, remote, refspec string, opts PushOptions) error
	AbortCherryPick(ctx context.Context) error
	AbortRebase(ctx context.Context) error
	AbortMerge(ctx context.Context) error
}

// NewRealRunner returns a standard implementation of Runner that calls
// the package-level git functions.
func NewRealRunner() Runner {
	return &realRunner{}
}

// realRunner implements Runner by calling the actual git package functions
type realRunner struct{}

func (r *realRunner) CurrentBranch() (string, error) {
	return GetCurrentBranch()
}

func (r *realRunner) IsDetached() (bool, error) {
	return IsDetached()
}

func (r *realRunner) LocalBranches() ([]string, error) {
	return GetLocalBranchNames()
}

func (r *realRunner) RemoteBranches() ([]string, error) {
	return GetRemoteBranchNames()
}

func (r *realRunner) BranchExists(name string) (bool, error) {
	return BranchExists(name)
}

func (r *realRunner) UpstreamOf(branch string) (string, error) {
	return GetUpstream(branch)
}

func (r *realRunner) AheadBehind(branch, upstream string) (int, int, error) {
	return GetAheadBehind(branch, upstream)
}

func (r *realRunner) IsClean(ignoreUntracked bool) (bool, error) {
	return IsClean(ignoreUntracked)
}

func (r *realRunner) ResolveRevision(rev string) (string, error) {
	return ResolveRevision(rev)
}

func (r *realRunner) CommitMessage(rev string) (string, error) {
	return GetCommitMessage(rev)
}

func (r *realRunner) ParentOf(rev string) (string, error) {
	return GetParent(rev)
}

func (r *realRunner) MergeBase(rev1, rev2 string) (string, error) {
	return GetMergeBase(rev1, rev2)
}

func (r *realRunner) CommitsBetween(base, tip string) ([]string, error) {
	return GetCommitsBetween(base, tip)
}

func (r *realRunner) IsAncestor(ancestor, descendant string) (bool, error) {
	return IsAncestor(ancestor, descendant)
}

func (r *realRunner) BranchesContaining(sha string) ([]string, error) {
	return GetBranchesContaining(sha)
}

func (r *realRunner) RemoteExists(name string) (bool, error) {
	return RemoteExists(name)
}

func (r *realRunner) RemoteBranchExists(remote, branch string) (bool, error) {
	return RemoteBranchExists(remote, branch)
}

func (r *realRunner) RemoteURL(name string) (string, error) {
	return RemoteURL(name)
}

func (r *realRunner) Checkout(ctx context.Context, branch string) error {
	return CheckoutBranch(ctx, branch)
}

func (r *realRunner) CreateBranch(ctx context.Context, name, revision string) error {
	return CreateBranch(ctx, name, revision)
}

func (r *realRunner) MoveBranch(ctx context.Context, name, revision string) error {
	return MoveBranch(ctx, name, revision)
}

func (r *realRunner) FastForward(ctx context.Context, ref string) error {
	return FastForward(ctx, ref)
}

func (r *realRunner) Merge(ctx context.Context, ref string) error {
	return Merge(ctx, ref)
}

func (r *realRunner) RebaseOnto(ctx context.Context, upstream string) error {
	return RebaseOnto(ctx, upstream)
}

func (r *realRunner) CherryPick(ctx context.Context, sha string) error {
	return CherryPick(ctx, sha)
}

func (r *realRunner) SoftReset(ctx context.Context, revision string) error {
	return SoftReset(ctx, revision)
}

func (r *realRunner) HardReset(ctx context.Context, revision string) error {
	return HardReset(ctx, revision)
}

func (r *realRunner) Commit(ctx context.Context, message string) error {
	return Commit(ctx, message)
}

func (r *realRunner) Push(ctx context.Context, remote, refspec string, opts PushOptions) error {
	return Push(ctx, remote, refspec, opts)
}

func (r *realRunner) AbortCherryPick(ctx context.Context) error {
	return AbortCherryPick(ctx)
}

func (r *realRunner) AbortRebase(ctx context.Context) error {
	return AbortRebase(ctx)
}

func (r *realRunner) AbortMerge(ctx context.Context) error {
	return AbortMerge(ctx)
}

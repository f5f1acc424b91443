// Package gitfake provides an in-memory git.Runner for tests.
// Queries are answered from maps populated by the test; mutating
// operations are recorded and can be made to fail at a chosen call.
package gitfake

import (
	"context"
	"fmt"
	"strings"

	"hedgerow.dev/hedge/internal/errors"
	"hedgerow.dev/hedge/internal/git"
)

// Fake implements git.Runner against in-memory state
type Fake struct {
	Branch   string // current branch; "" means detached
	Detached bool
	Head     string // SHA of HEAD

	Locals  []string
	Remotes []string

	Upstreams  map[string]string // branch -> upstream ref
	Divergence map[string][2]int // branch -> {ahead, behind}

	CleanTracked bool // no staged or unstaged modifications
	HasUntracked bool

	Revs       map[string]string   // rev expression -> SHA (SHAs resolve to themselves)
	Messages   map[string]string   // SHA -> commit message
	Parents    map[string]string   // SHA -> first-parent SHA; "" means root commit
	Ranges     map[string][]string // "base..tip" -> SHAs oldest first
	Ancestors  map[string]bool     // "ancestor..descendant" -> true
	Containing map[string][]string // SHA -> local branches reaching it

	RemoteSet       map[string]bool
	RemoteBranchSet map[string]bool // "remote/branch"
	RemoteURLs      map[string]string

	// Calls records every mutating operation in order, formatted as
	// "op arg1 arg2 ...".
	Calls []string

	// FailOnCall makes the nth (1-based) mutating call return FailErr.
	FailOnCall int
	FailErr    error

	// AbortErr is returned by every abort operation, simulating a
	// rollback that itself fails.
	AbortErr error

	// RestoreErr is returned by Checkout/MoveBranch/HardReset once a
	// failure has already happened, simulating unrecoverable state.
	RestoreErr error

	failed bool
}

// New returns a Fake with a clean tree on branch main
func New() *Fake {
	return &Fake{
		Branch:          "main",
		Head:            "aaa0000",
		Locals:          []string{"main"},
		CleanTracked:    true,
		Upstreams:       map[string]string{},
		Divergence:      map[string][2]int{},
		Revs:            map[string]string{},
		Messages:        map[string]string{},
		Parents:         map[string]string{},
		Ranges:          map[string][]string{},
		Ancestors:       map[string]bool{},
		Containing:      map[string][]string{},
		RemoteSet:       map[string]bool{"origin": true},
		RemoteBranchSet: map[string]bool{},
		RemoteURLs:      map[string]string{"origin": "git@github.com:acme/widgets.git"},
	}
}

var _ git.Runner = (*Fake)(nil)

func (f *Fake) record(op string, args ...string) error {
	f.Calls = append(f.Calls, strings.TrimSpace(op+" "+strings.Join(args, " ")))
	if f.failed && f.RestoreErr != nil {
		return f.RestoreErr
	}
	if f.FailOnCall > 0 && len(f.Calls) == f.FailOnCall {
		f.failed = true
		if f.FailErr != nil {
			return f.FailErr
		}
		return fmt.Errorf("injected failure at call %d", f.FailOnCall)
	}
	return nil
}

func (f *Fake) CurrentBranch() (string, error) {
	if f.Detached {
		return "", errors.ErrDetachedHead
	}
	return f.Branch, nil
}

func (f *Fake) IsDetached() (bool, error) {
	return f.Detached, nil
}

func (f *Fake) LocalBranches() ([]string, error) {
	return append([]string(nil), f.Locals...), nil
}

func (f *Fake) RemoteBranches() ([]string, error) {
	return append([]string(nil), f.Remotes...), nil
}

func (f *Fake) BranchExists(name string) (bool, error) {
	for _, b := range f.Locals {
		if b == name {
			return true, nil
		}
	}
	return false, nil
}

func (f *Fake) UpstreamOf(branch string) (string, error) {
	return f.Upstreams[branch], nil
}

func (f *Fake) AheadBehind(branch, upstream string) (int, int, error) {
	d := f.Divergence[branch]
	return d[0], d[1], nil
}

func (f *Fake) IsClean(ignoreUntracked bool) (bool, error) {
	if !f.CleanTracked {
		return false, nil
	}
	if ignoreUntracked {
		return true, nil
	}
	return !f.HasUntracked, nil
}

func (f *Fake) ResolveRevision(rev string) (string, error) {
	if sha, ok := f.Revs[rev]; ok {
		return sha, nil
	}
	// SHAs resolve to themselves once known
	if _, ok := f.Messages[rev]; ok {
		return rev, nil
	}
	if _, ok := f.Parents[rev]; ok {
		return rev, nil
	}
	return "", errors.NewReferenceError("commit", rev)
}

func (f *Fake) CommitMessage(rev string) (string, error) {
	sha, err := f.ResolveRevision(rev)
	if err != nil {
		return "", err
	}
	msg, ok := f.Messages[sha]
	if !ok {
		return "", errors.NewReferenceError("commit", rev)
	}
	return msg, nil
}

func (f *Fake) ParentOf(rev string) (string, error) {
	sha, err := f.ResolveRevision(rev)
	if err != nil {
		return "", err
	}
	parent, ok := f.Parents[sha]
	if !ok || parent == "" {
		return "", errors.ErrRootCommit
	}
	return parent, nil
}

func (f *Fake) MergeBase(rev1, rev2 string) (string, error) {
	if sha, ok := f.Revs[rev1+"..."+rev2]; ok {
		return sha, nil
	}
	return "", fmt.Errorf("no merge base configured for %s...%s", rev1, rev2)
}

func (f *Fake) CommitsBetween(base, tip string) ([]string, error) {
	if shas, ok := f.Ranges[base+".."+tip]; ok {
		return append([]string(nil), shas...), nil
	}
	return nil, nil
}

func (f *Fake) IsAncestor(ancestor, descendant string) (bool, error) {
	return f.Ancestors[ancestor+".."+descendant], nil
}

func (f *Fake) BranchesContaining(sha string) ([]string, error) {
	return append([]string(nil), f.Containing[sha]...), nil
}

func (f *Fake) RemoteExists(name string) (bool, error) {
	return f.RemoteSet[name], nil
}

func (f *Fake) RemoteBranchExists(remote, branch string) (bool, error) {
	return f.RemoteBranchSet[remote+"/"+branch], nil
}

func (f *Fake) RemoteURL(name string) (string, error) {
	url, ok := f.RemoteURLs[name]
	if !ok {
		return "", errors.NewReferenceError("remote", name)
	}
	return url, nil
}

func (f *Fake) Checkout(_ context.Context, branch string) error {
	if err := f.record("checkout", branch); err != nil {
		return err
	}
	f.Branch = branch
	f.Detached = false
	return nil
}

func (f *Fake) CreateBranch(_ context.Context, name, revision string) error {
	if err := f.record("branch", name, revision); err != nil {
		return err
	}
	f.Locals = append(f.Locals, name)
	return nil
}

func (f *Fake) MoveBranch(_ context.Context, name, revision string) error {
	return f.record("update-ref", name, revision)
}

func (f *Fake) FastForward(_ context.Context, ref string) error {
	return f.record("merge --ff-only", ref)
}

func (f *Fake) Merge(_ context.Context, ref string) error {
	return f.record("merge", ref)
}

func (f *Fake) RebaseOnto(_ context.Context, upstream string) error {
	return f.record("rebase", upstream)
}

func (f *Fake) CherryPick(_ context.Context, sha string) error {
	return f.record("cherry-pick", sha)
}

func (f *Fake) SoftReset(_ context.Context, revision string) error {
	return f.record("reset --soft", revision)
}

func (f *Fake) HardReset(_ context.Context, revision string) error {
	return f.record("reset --hard", revision)
}

func (f *Fake) Commit(_ context.Context, message string) error {
	return f.record("commit", message)
}

func (f *Fake) Push(_ context.Context, remote, refspec string, opts git.PushOptions) error {
	args := []string{remote, refspec}
	if opts.Force {
		args = append(args, "--force")
	} else if opts.ForceWithLease {
		args = append(args, "--force-with-lease")
	}
	if opts.SetUpstream {
		args = append(args, "-u")
	}
	return f.record("push", args...)
}

func (f *Fake) AbortCherryPick(context.Context) error {
	f.Calls = append(f.Calls, "cherry-pick --abort")
	return f.AbortErr
}

func (f *Fake) AbortRebase(context.Context) error {
	f.Calls = append(f.Calls, "rebase --abort")
	return f.AbortErr
}

func (f *Fake) AbortMerge(context.Context) error {
	f.Calls = append(f.Calls, "merge --abort")
	return f.AbortErr
}

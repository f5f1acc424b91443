package git

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"sync"

	"github.com/go-git/go-git/v5/plumbing"

	hedgeerrors "hedgerow.dev/hedge/internal/errors"
)

// goGitMu synchronizes go-git object reads to prevent concurrent packfile access
var goGitMu sync.Mutex

// ResolveRevision resolves a revision expression to a commit SHA
func ResolveRevision(rev string) (string, error) {
	repo, err := GetDefaultRepo()
	if err != nil {
		return "", err
	}

	goGitMu.Lock()
	defer goGitMu.Unlock()

	hash, err := repo.Repository.ResolveRevision(plumbing.Revision(rev))
	if err != nil {
		return "", hedgeerrors.NewReferenceError("commit", rev)
	}
	return hash.String(), nil
}

// GetCommitMessage returns the full commit message of a revision
func GetCommitMessage(rev string) (string, error) {
	repo, err := GetDefaultRepo()
	if err != nil {
		return "", err
	}

	sha, err := ResolveRevision(rev)
	if err != nil {
		return "", err
	}

	goGitMu.Lock()
	defer goGitMu.Unlock()

	commit, err := repo.CommitObject(plumbing.NewHash(sha))
	if err != nil {
		return "", fmt.Errorf("failed to get commit %s: %w", sha, err)
	}

	return strings.TrimSpace(commit.Message), nil
}

// GetParent returns the first-parent SHA of a commit.
// Returns ErrRootCommit when the commit has no parents.
func GetParent(rev string) (string, error) {
	repo, err := GetDefaultRepo()
	if err != nil {
		return "", err
	}

	sha, err := ResolveRevision(rev)
	if err != nil {
		return "", err
	}

	goGitMu.Lock()
	defer goGitMu.Unlock()

	commit, err := repo.CommitObject(plumbing.NewHash(sha))
	if err != nil {
		return "", fmt.Errorf("failed to get commit %s: %w", sha, err)
	}

	if commit.NumParents() == 0 {
		return "", hedgeerrors.ErrRootCommit
	}
	return commit.ParentHashes[0].String(), nil
}

// IsAncestor checks if the first revision is an ancestor of the second revision
func IsAncestor(ancestor, descendant string) (bool, error) {
	repo, err := GetDefaultRepo()
	if err != nil {
		return false, err
	}

	ancestorSha, err := ResolveRevision(ancestor)
	if err != nil {
		return false, err
	}
	descendantSha, err := ResolveRevision(descendant)
	if err != nil {
		return false, err
	}

	if ancestorSha == descendantSha {
		return true, nil
	}

	goGitMu.Lock()
	defer goGitMu.Unlock()

	ancestorCommit, err := repo.CommitObject(plumbing.NewHash(ancestorSha))
	if err != nil {
		return false, fmt.Errorf("failed to get ancestor commit: %w", err)
	}
	descendantCommit, err := repo.CommitObject(plumbing.NewHash(descendantSha))
	if err != nil {
		return false, fmt.Errorf("failed to get descendant commit: %w", err)
	}

	return ancestorCommit.IsAncestor(descendantCommit)
}

// GetMergeBase returns the merge base of two revisions
func GetMergeBase(rev1, rev2 string) (string, error) {
	repo, err := GetDefaultRepo()
	if err != nil {
		return "", err
	}

	sha1, err := ResolveRevision(rev1)
	if err != nil {
		return "", err
	}
	sha2, err := ResolveRevision(rev2)
	if err != nil {
		return "", err
	}

	goGitMu.Lock()
	defer goGitMu.Unlock()

	commit1, err := repo.CommitObject(plumbing.NewHash(sha1))
	if err != nil {
		return "", fmt.Errorf("failed to get commit %s: %w", sha1, err)
	}
	commit2, err := repo.CommitObject(plumbing.NewHash(sha2))
	if err != nil {
		return "", fmt.Errorf("failed to get commit %s: %w", sha2, err)
	}

	mergeBases, err := commit1.MergeBase(commit2)
	if err != nil {
		return "", fmt.Errorf("failed to find merge base: %w", err)
	}
	if len(mergeBases) == 0 {
		return "", fmt.Errorf("no merge base between %s and %s", rev1, rev2)
	}

	return mergeBases[0].Hash.String(), nil
}

// GetUpstream returns the upstream ref (e.g. "origin/main") configured for a
// local branch, or "" when the branch has no upstream.
func GetUpstream(branch string) (string, error) {
	upstream, err := RunGitCommand("rev-parse", "--abbrev-ref", "--symbolic-full-name", branch+"@{upstream}")
	if err != nil {
		// No upstream configured is a valid state, not an error
		return "", nil
	}
	return upstream, nil
}

// GetAheadBehind returns how many commits the branch is ahead of and behind
// its upstream.
func GetAheadBehind(branch, upstream string) (ahead, behind int, err error) {
	output, err := RunGitCommand("rev-list", "--left-right", "--count", branch+"..."+upstream)
	if err != nil {
		return 0, 0, fmt.Errorf("failed to count divergence of %s against %s: %w", branch, upstream, err)
	}

	fields := strings.Fields(output)
	if len(fields) != 2 {
		return 0, 0, fmt.Errorf("unexpected rev-list output %q", output)
	}

	ahead, err = strconv.Atoi(fields[0])
	if err != nil {
		return 0, 0, fmt.Errorf("failed to parse ahead count: %w", err)
	}
	behind, err = strconv.Atoi(fields[1])
	if err != nil {
		return 0, 0, fmt.Errorf("failed to parse behind count: %w", err)
	}
	return ahead, behind, nil
}

// IsClean reports whether the working tree has no modifications.
// Both staged and unstaged changes count as dirty; untracked files are
// ignored when ignoreUntracked is set.
func IsClean(ignoreUntracked bool) (bool, error) {
	args := []string{"status", "--porcelain"}
	if ignoreUntracked {
		args = append(args, "--untracked-files=no")
	}
	output, err := RunGitCommand(args...)
	if err != nil {
		return false, fmt.Errorf("failed to get worktree status: %w", err)
	}
	return output == "", nil
}

// GetCommitsBetween returns the SHAs reachable from tip but not base,
// oldest first.
func GetCommitsBetween(base, tip string) ([]string, error) {
	lines, err := RunGitCommandLines("rev-list", "--reverse", base+".."+tip)
	if err != nil {
		return nil, fmt.Errorf("failed to list commits %s..%s: %w", base, tip, err)
	}
	return lines, nil
}

// GetBranchesContaining returns the local branches whose tips reach the
// given commit.
func GetBranchesContaining(sha string) ([]string, error) {
	lines, err := RunGitCommandLines("branch", "--format=%(refname:short)", "--contains", sha)
	if err != nil {
		return nil, fmt.Errorf("failed to find branches containing %s: %w", sha, err)
	}
	return lines, nil
}

// RemoteBranchExists reports whether a remote-tracking ref exists for the
// given remote and branch.
func RemoteBranchExists(remote, branch string) (bool, error) {
	_, err := RunGitCommand("rev-parse", "--verify", "--quiet", fmt.Sprintf("refs/remotes/%s/%s", remote, branch))
	if err != nil {
		return false, nil
	}
	return true, nil
}

// IsCherryPickInProgress reports whether a cherry-pick is mid-flight
func IsCherryPickInProgress(ctx context.Context) bool {
	_, err := RunGitCommandWithContext(ctx, "rev-parse", "--verify", "--quiet", "CHERRY_PICK_HEAD")
	return err == nil
}

// IsRebaseInProgress reports whether a rebase is mid-flight
func IsRebaseInProgress(ctx context.Context) bool {
	_, err := RunGitCommandWithContext(ctx, "rev-parse", "--verify", "--quiet", "REBASE_HEAD")
	return err == nil
}

// IsMergeInProgress reports whether a merge is mid-flight
func IsMergeInProgress(ctx context.Context) bool {
	_, err := RunGitCommandWithContext(ctx, "rev-parse", "--verify", "--quiet", "MERGE_HEAD")
	return err == nil
}

package git

import (
	"context"
	"fmt"
)

// CheckoutBranch checks out an existing branch
func CheckoutBranch(ctx context.Context, branchName string) error {
	_, err := RunGitCommandWithContext(ctx, "checkout", branchName)
	if err != nil {
		return fmt.Errorf("failed to checkout %s: %w", branchName, err)
	}
	return nil
}

// CreateBranch creates a branch pointing at the given revision without
// checking it out.
func CreateBranch(ctx context.Context, name, revision string) error {
	_, err := RunGitCommandWithContext(ctx, "branch", name, revision)
	if err != nil {
		return fmt.Errorf("failed to create branch %s at %s: %w", name, revision, err)
	}
	return nil
}

// MoveBranch moves a branch pointer to the given revision via update-ref,
// leaving the working tree untouched. The branch must not be checked out.
func MoveBranch(ctx context.Context, name, revision string) error {
	_, err := RunGitCommandWithContext(ctx, "update-ref", "refs/heads/"+name, revision)
	if err != nil {
		return fmt.Errorf("failed to move branch %s to %s: %w", name, revision, err)
	}
	return nil
}

// FastForward fast-forwards the current branch to the given ref.
// Fails if the merge is not a fast-forward.
func FastForward(ctx context.Context, ref string) error {
	_, err := RunGitCommandWithContext(ctx, "merge", "--ff-only", ref)
	if err != nil {
		return fmt.Errorf("failed to fast-forward to %s: %w", ref, err)
	}
	return nil
}

// Merge merges the given ref into the current branch, creating a merge
// commit when necessary.
func Merge(ctx context.Context, ref string) error {
	_, err := RunGitCommandWithContext(ctx, "merge", "--no-edit", ref)
	if err != nil {
		return fmt.Errorf("failed to merge %s: %w", ref, err)
	}
	return nil
}

// RebaseOnto rebases the current branch onto the given upstream
func RebaseOnto(ctx context.Context, upstream string) error {
	_, err := RunGitCommandWithContext(ctx, "rebase", upstream)
	if err != nil {
		return fmt.Errorf("failed to rebase onto %s: %w", upstream, err)
	}
	return nil
}

// CherryPick applies a single commit onto the current branch
func CherryPick(ctx context.Context, sha string) error {
	_, err := RunGitCommandWithContext(ctx, "cherry-pick", sha)
	if err != nil {
		return fmt.Errorf("failed to cherry-pick %s: %w", sha, err)
	}
	return nil
}

// SoftReset performs a soft reset to a specific revision
func SoftReset(ctx context.Context, revision string) error {
	_, err := RunGitCommandWithContext(ctx, "reset", "-q", "--soft", revision)
	if err != nil {
		return fmt.Errorf("failed to soft reset to %s: %w", revision, err)
	}
	return nil
}

// HardReset performs a hard reset to a specific revision
func HardReset(ctx context.Context, revision string) error {
	_, err := RunGitCommandWithContext(ctx, "reset", "--hard", revision)
	if err != nil {
		return fmt.Errorf("failed to hard reset to %s: %w", revision, err)
	}
	return nil
}

// Commit records the currently staged state with the given message
func Commit(ctx context.Context, message string) error {
	_, err := RunGitCommandWithContext(ctx, "commit", "-m", message)
	if err != nil {
		return fmt.Errorf("failed to commit: %w", err)
	}
	return nil
}

// AbortCherryPick aborts an in-progress cherry-pick
func AbortCherryPick(ctx context.Context) error {
	_, err := RunGitCommandWithContext(ctx, "cherry-pick", "--abort")
	if err != nil {
		return fmt.Errorf("failed to abort cherry-pick: %w", err)
	}
	return nil
}

// AbortRebase aborts an in-progress rebase
func AbortRebase(ctx context.Context) error {
	_, err := RunGitCommandWithContext(ctx, "rebase", "--abort")
	if err != nil {
		return fmt.Errorf("failed to abort rebase: %w", err)
	}
	return nil
}

// AbortMerge aborts an in-progress merge
func AbortMerge(ctx context.Context) error {
	_, err := RunGitCommandWithContext(ctx, "merge", "--abort")
	if err != nil {
		return fmt.Errorf("failed to abort merge: %w", err)
	}
	return nil
}

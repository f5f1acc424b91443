package git

import (
	"context"
	"errors"
	"fmt"
	"strings"

	hedgeerrors "hedgerow.dev/hedge/internal/errors"
)

// ErrStaleRemoteInfo indicates that a force-with-lease push failed because
// the remote moved since it was last observed.
var ErrStaleRemoteInfo = errors.New("stale info")

// PushOptions controls how a branch is pushed
type PushOptions struct {
	Force          bool
	ForceWithLease bool
	SetUpstream    bool
}

// Push pushes a refspec to a remote.
// If ForceWithLease is set, uses --force-with-lease (safer).
// If Force is set, uses --force (overwrites remote unconditionally).
func Push(ctx context.Context, remote, refspec string, opts PushOptions) error {
	args := []string{"push"}
	if opts.SetUpstream {
		args = append(args, "-u")
	}
	if opts.Force {
		args = append(args, "--force")
	} else if opts.ForceWithLease {
		args = append(args, "--force-with-lease")
	}
	args = append(args, remote, refspec)

	_, err := RunGitCommandWithContext(ctx, args...)
	if err != nil {
		var cmdErr *hedgeerrors.GitCommandError
		if errors.As(err, &cmdErr) {
			combined := cmdErr.Stderr + cmdErr.Stdout
			if strings.Contains(combined, "stale info") || strings.Contains(combined, "forced update") {
				return fmt.Errorf("force-with-lease push of %s failed because the remote branch moved since it was last observed; run 'hedge sync' to integrate the remote changes, or use --force to overwrite: %w", refspec, ErrStaleRemoteInfo)
			}
		}
		return fmt.Errorf("failed to push %s to %s: %w", refspec, remote, err)
	}

	return nil
}

// FetchRemote fetches the given remote, pruning deleted branches
func FetchRemote(ctx context.Context, remote string) error {
	_, err := RunGitCommandWithContext(ctx, "fetch", "--prune", remote)
	if err != nil {
		return fmt.Errorf("failed to fetch %s: %w", remote, err)
	}
	return nil
}

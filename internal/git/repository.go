package git

import (
	"fmt"
	"path/filepath"
	"sort"
	"strings"

	"github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing"

	hedgeerrors "hedgerow.dev/hedge/internal/errors"
)

// Repository wraps a go-git repository
type Repository struct {
	*git.Repository
	path string
}

var defaultRepo *Repository

// OpenRepository opens a git repository at the given path
func OpenRepository(path string) (*Repository, error) {
	absPath, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve path: %w", err)
	}

	repo, err := git.PlainOpenWithOptions(absPath, &git.PlainOpenOptions{
		DetectDotGit: true,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to open repository: %w", err)
	}

	return &Repository{
		Repository: repo,
		path:       absPath,
	}, nil
}

// InitDefaultRepo initializes the default repository from the current directory
func InitDefaultRepo() error {
	if defaultRepo != nil {
		return nil // Already initialized
	}

	repoRoot, err := RunGitCommand("rev-parse", "--show-toplevel")
	if err != nil {
		return fmt.Errorf("not a git repository: %w", err)
	}

	repo, err := OpenRepository(repoRoot)
	if err != nil {
		return err
	}

	defaultRepo = repo
	SetWorkingDir(repoRoot)
	return nil
}

// GetDefaultRepo returns the default repository (must call InitDefaultRepo first)
func GetDefaultRepo() (*Repository, error) {
	if defaultRepo == nil {
		return nil, fmt.Errorf("repository not initialized, call InitDefaultRepo first")
	}
	return defaultRepo, nil
}

// GetRepoRoot returns the root directory of the default repository
func GetRepoRoot() (string, error) {
	repo, err := GetDefaultRepo()
	if err != nil {
		return "", err
	}
	return repo.path, nil
}

// GetLocalBranchNames returns all local branch names, sorted for stable iteration
func GetLocalBranchNames() ([]string, error) {
	repo, err := GetDefaultRepo()
	if err != nil {
		return nil, err
	}

	branches, err := repo.Branches()
	if err != nil {
		return nil, fmt.Errorf("failed to get branches: %w", err)
	}

	var names []string
	err = branches.ForEach(func(ref *plumbing.Reference) error {
		if ref.Name().IsBranch() {
			names = append(names, ref.Name().Short())
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to iterate branches: %w", err)
	}

	sort.Strings(names)
	return names, nil
}

// GetRemoteBranchNames returns all remote-tracking branch names
// (in "remote/branch" form), sorted for stable iteration.
func GetRemoteBranchNames() ([]string, error) {
	repo, err := GetDefaultRepo()
	if err != nil {
		return nil, err
	}

	refs, err := repo.References()
	if err != nil {
		return nil, fmt.Errorf("failed to get references: %w", err)
	}

	var names []string
	err = refs.ForEach(func(ref *plumbing.Reference) error {
		if ref.Name().IsRemote() {
			short := ref.Name().Short()
			// Skip symbolic origin/HEAD entries
			if strings.HasSuffix(short, "/HEAD") {
				return nil
			}
			names = append(names, short)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to iterate references: %w", err)
	}

	sort.Strings(names)
	return names, nil
}

// GetCurrentBranch returns the current branch name.
// Returns ErrDetachedHead when HEAD does not point at a branch.
func GetCurrentBranch() (string, error) {
	repo, err := GetDefaultRepo()
	if err != nil {
		return "", err
	}

	head, err := repo.Head()
	if err != nil {
		return "", fmt.Errorf("failed to get HEAD: %w", err)
	}

	if !head.Name().IsBranch() {
		return "", hedgeerrors.ErrDetachedHead
	}

	return head.Name().Short(), nil
}

// IsDetached reports whether HEAD is detached (no symbolic branch pointer resolves)
func IsDetached() (bool, error) {
	repo, err := GetDefaultRepo()
	if err != nil {
		return false, err
	}

	head, err := repo.Head()
	if err != nil {
		return false, fmt.Errorf("failed to get HEAD: %w", err)
	}

	return !head.Name().IsBranch(), nil
}

// BranchExists reports whether a local branch exists
func BranchExists(name string) (bool, error) {
	repo, err := GetDefaultRepo()
	if err != nil {
		return false, err
	}

	_, err = repo.Reference(plumbing.NewBranchReferenceName(name), true)
	if err == plumbing.ErrReferenceNotFound {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("failed to look up branch %s: %w", name, err)
	}
	return true, nil
}

// RemoteExists reports whether a remote with the given name is configured
func RemoteExists(name string) (bool, error) {
	repo, err := GetDefaultRepo()
	if err != nil {
		return false, err
	}

	_, err = repo.Remote(name)
	if err == git.ErrRemoteNotFound {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("failed to look up remote %s: %w", name, err)
	}
	return true, nil
}

// RemoteURL returns the first configured URL of a remote
func RemoteURL(name string) (string, error) {
	repo, err := GetDefaultRepo()
	if err != nil {
		return "", err
	}

	remote, err := repo.Remote(name)
	if err != nil {
		return "", hedgeerrors.NewReferenceError("remote", name)
	}

	urls := remote.Config().URLs
	if len(urls) == 0 {
		return "", fmt.Errorf("remote %s has no URL", name)
	}
	return urls[0], nil
}

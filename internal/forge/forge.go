// Package forge looks up pull requests on the hosting service a remote
// points at. Everything here is best-effort decoration for publish
// output; failures are reported, never fatal.
package forge

import (
	"context"
	"fmt"
	"net/url"
	"os"
	"strings"

	"github.com/google/go-github/v62/github"
	"golang.org/x/oauth2"

	"hedgerow.dev/hedge/internal/git"
)

// PullRequestInfo is the slice of PR state publish cares about.
// This is a simplified struct to avoid coupling callers to go-github.
type PullRequestInfo struct {
	Number  int
	HTMLURL string
	Title   string
	State   string
	Draft   bool
}

// RepoInfo contains parsed information from a git remote URL
type RepoInfo struct {
	Hostname string
	Owner    string
	Repo     string
}

// FindOpenPR returns the pull request whose head is the given branch, or
// nil when there is none. It needs a token (GITHUB_TOKEN or a logged-in
// gh CLI); without one it returns an error the caller can downgrade to a
// debug message.
func FindOpenPR(ctx context.Context, remoteURL, branch string) (*PullRequestInfo, error) {
	info, err := ParseRemoteURL(remoteURL)
	if err != nil {
		return nil, err
	}

	token, err := getToken(ctx)
	if err != nil {
		return nil, err
	}

	client, err := newClient(ctx, info.Hostname, token)
	if err != nil {
		return nil, err
	}

	prs, _, err := client.PullRequests.List(ctx, info.Owner, info.Repo, &github.PullRequestListOptions{
		Head:  fmt.Sprintf("%s:%s", info.Owner, branch),
		State: "open",
		ListOptions: github.ListOptions{
			PerPage: 1,
		},
	})
	if err != nil {
		return nil, err
	}
	if len(prs) == 0 {
		return nil, nil
	}

	pr := prs[0]
	result := &PullRequestInfo{}
	if pr.Number != nil {
		result.Number = *pr.Number
	}
	if pr.HTMLURL != nil {
		result.HTMLURL = *pr.HTMLURL
	}
	if pr.Title != nil {
		result.Title = *pr.Title
	}
	if pr.State != nil {
		result.State = strings.ToUpper(*pr.State)
	}
	if pr.Draft != nil {
		result.Draft = *pr.Draft
	}
	return result, nil
}

// newClient creates a GitHub client configured for the given hostname.
// Supports both github.com and GitHub Enterprise instances.
func newClient(ctx context.Context, hostname, token string) (*github.Client, error) {
	ts := oauth2.StaticTokenSource(
		&oauth2.Token{AccessToken: token},
	)
	tc := oauth2.NewClient(ctx, ts)
	client := github.NewClient(tc)

	if hostname != "github.com" {
		// GitHub Enterprise API endpoints
		baseURL, err := url.Parse(fmt.Sprintf("https://%s/api/v3/", hostname))
		if err != nil {
			return nil, fmt.Errorf("failed to parse base URL for hostname %s: %w", hostname, err)
		}
		uploadURL, err := url.Parse(fmt.Sprintf("https://%s/api/uploads/", hostname))
		if err != nil {
			return nil, fmt.Errorf("failed to parse upload URL for hostname %s: %w", hostname, err)
		}
		client.BaseURL = baseURL
		client.UploadURL = uploadURL
	}

	return client, nil
}

// getToken gets a GitHub token from the environment or the gh CLI
func getToken(ctx context.Context) (string, error) {
	if token := os.Getenv("GITHUB_TOKEN"); token != "" {
		return token, nil
	}

	output, err := git.RunGHCommandWithContext(ctx, "auth", "token")
	if err != nil {
		return "", fmt.Errorf("failed to get GitHub token: %w", err)
	}

	token := strings.TrimSpace(output)
	if token == "" {
		return "", fmt.Errorf("empty GitHub token")
	}
	return token, nil
}

// ParseRemoteURL parses a git remote URL and extracts hostname, owner,
// and repo. Supports both SSH and HTTPS forms, for github.com and
// GitHub Enterprise hosts.
func ParseRemoteURL(remoteURL string) (*RepoInfo, error) {
	remoteURL = strings.TrimSpace(remoteURL)
	remoteURL = strings.TrimSuffix(remoteURL, ".git")

	var hostname, owner, repo string

	if strings.Contains(remoteURL, "@") {
		// SSH format: git@hostname:owner/repo or git@hostname/owner/repo
		parts := strings.SplitN(remoteURL, "@", 2)
		if len(parts) != 2 {
			return nil, fmt.Errorf("invalid SSH remote URL format")
		}
		hostAndPath := parts[1]

		var path string
		if strings.Contains(hostAndPath, ":") {
			hostPathParts := strings.SplitN(hostAndPath, ":", 2)
			hostname = hostPathParts[0]
			path = hostPathParts[1]
		} else {
			pathParts := strings.SplitN(hostAndPath, "/", 2)
			if len(pathParts) < 2 {
				return nil, fmt.Errorf("invalid SSH remote URL: missing path")
			}
			hostname = pathParts[0]
			path = pathParts[1]
		}

		pathParts := strings.Split(path, "/")
		if len(pathParts) < 2 {
			return nil, fmt.Errorf("invalid SSH remote URL: path must be owner/repo")
		}
		owner = pathParts[0]
		repo = pathParts[len(pathParts)-1]
	} else {
		remoteURL = strings.TrimPrefix(remoteURL, "https://")
		remoteURL = strings.TrimPrefix(remoteURL, "http://")

		parts := strings.Split(remoteURL, "/")
		if len(parts) < 3 {
			return nil, fmt.Errorf("invalid HTTPS remote URL: must be protocol://hostname/owner/repo")
		}
		hostname = parts[0]
		owner = parts[len(parts)-2]
		repo = parts[len(parts)-1]
	}

	if hostname == "" || owner == "" || repo == "" {
		return nil, fmt.Errorf("failed to parse hostname, owner, or repo from remote URL")
	}

	return &RepoInfo{
		Hostname: hostname,
		Owner:    owner,
		Repo:     repo,
	}, nil
}

// Package config provides repository configuration management,
// including reading and writing hedge configuration files.
package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/bmatcuk/doublestar/v4"

	"hedgerow.dev/hedge/internal/errors"
)

// configFileName is the per-repository config file, stored inside .git
// so it never ends up committed.
const configFileName = ".hedge_config"

// Strategy names accepted for sync integration
const (
	StrategyMerge  = "merge"
	StrategyRebase = "rebase"
	StrategyFFOnly = "ff-only"
)

// DefaultProtectedBranches are the protected patterns used when the
// config file does not set any.
var DefaultProtectedBranches = []string{"main", "master", "release/**"}

// Config represents the repository configuration
type Config struct {
	Remote            *string  `json:"remote,omitempty"`
	Strategy          *string  `json:"strategy,omitempty"`
	ProtectedBranches []string `json:"protectedBranches,omitempty"`
	SetUpstream       *bool    `json:"publish.setUpstream,omitempty"`
}

func configPath(repoRoot string) string {
	return filepath.Join(repoRoot, ".git", configFileName)
}

// Load reads the repository configuration. A missing file yields the
// default configuration, not an error.
func Load(repoRoot string) (*Config, error) {
	data, err := os.ReadFile(configPath(repoRoot))
	if err != nil {
		return &Config{}, nil
	}

	var cfg Config
	if err := json.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse repo config: %w", err)
	}

	return &cfg, nil
}

// Save writes the configuration back to the repository
func Save(repoRoot string, cfg *Config) error {
	data, err := json.MarshalIndent(cfg, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}
	return os.WriteFile(configPath(repoRoot), data, 0600)
}

// RemoteName returns the configured remote, or "origin"
func (c *Config) RemoteName() string {
	if c.Remote != nil && *c.Remote != "" {
		return *c.Remote
	}
	return "origin"
}

// SyncStrategy returns the configured sync strategy, or "merge".
// An unrecognized strategy name is a distinct error, not a fallback.
func (c *Config) SyncStrategy() (string, error) {
	if c.Strategy == nil || *c.Strategy == "" {
		return StrategyMerge, nil
	}
	return ValidateStrategy(*c.Strategy)
}

// ValidateStrategy checks a strategy name against the known set
func ValidateStrategy(name string) (string, error) {
	switch name {
	case StrategyMerge, StrategyRebase, StrategyFFOnly:
		return name, nil
	}
	return "", errors.NewPlanningError(errors.ErrUnknownStrategy, "unknown sync strategy %q (expected %s, %s, or %s)", name, StrategyMerge, StrategyRebase, StrategyFFOnly)
}

// Protected returns the protected-branch patterns in effect
func (c *Config) Protected() []string {
	if len(c.ProtectedBranches) > 0 {
		return c.ProtectedBranches
	}
	return DefaultProtectedBranches
}

// IsProtected reports whether a branch name matches any protected
// pattern. Patterns use doublestar glob syntax; a pattern that fails to
// compile is compared literally.
func (c *Config) IsProtected(branch string) bool {
	for _, pattern := range c.Protected() {
		matched, err := doublestar.Match(pattern, branch)
		if err != nil {
			if pattern == branch {
				return true
			}
			continue
		}
		if matched {
			return true
		}
	}
	return false
}

// PublishSetsUpstream reports whether publish should pass -u by default
func (c *Config) PublishSetsUpstream() bool {
	if c.SetUpstream != nil {
		return *c.SetUpstream
	}
	return true
}

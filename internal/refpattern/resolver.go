package refpattern

import (
	"fmt"

	"hedgerow.dev/hedge/internal/errors"
	"hedgerow.dev/hedge/internal/git"
)

// Scope selects which branch universe patterns are resolved against
type Scope int

const (
	// ScopeLocal matches local branches only (the default)
	ScopeLocal Scope = iota
	// ScopeRemote matches remote-tracking branches only
	ScopeRemote
	// ScopeAll matches local and remote-tracking branches
	ScopeAll
)

// BranchRef identifies a branch by name within its origin class.
// A BranchRef is not a stable identity: branch pointers move, so refs
// must be re-resolved after any mutating operation.
type BranchRef struct {
	Name   string
	Remote bool
}

// Selection is the result of resolving positive and exclusion patterns
// against the same candidate universe.
type Selection struct {
	Include []BranchRef
	Exclude []BranchRef
}

// Refs returns the included refs with every excluded ref filtered out
func (s Selection) Refs() []BranchRef {
	excluded := make(map[BranchRef]bool, len(s.Exclude))
	for _, ref := range s.Exclude {
		excluded[ref] = true
	}

	var refs []BranchRef
	for _, ref := range s.Include {
		if !excluded[ref] {
			refs = append(refs, ref)
		}
	}
	return refs
}

// RevisionArgs renders the selection as revision-walk arguments: one
// positive ref name per inclusion and a "^name" exclusion marker per
// excluded ref.
func (s Selection) RevisionArgs() []string {
	args := make([]string, 0, len(s.Include)+len(s.Exclude))
	for _, ref := range s.Include {
		args = append(args, ref.Name)
	}
	for _, ref := range s.Exclude {
		args = append(args, "^"+ref.Name)
	}
	return args
}

// Resolver expands branch patterns against the repository's branch lists.
// The candidate universe is queried fresh on every call; nothing is
// cached across mutating operations.
type Resolver struct {
	git git.Runner
}

// NewResolver creates a Resolver backed by the given git runner
func NewResolver(g git.Runner) *Resolver {
	return &Resolver{git: g}
}

// candidates returns the branch universe for a scope in stable order:
// local branches first, then remote-tracking branches.
func (r *Resolver) candidates(scope Scope) ([]BranchRef, error) {
	var refs []BranchRef

	if scope == ScopeLocal || scope == ScopeAll {
		locals, err := r.git.LocalBranches()
		if err != nil {
			return nil, fmt.Errorf("failed to list local branches: %w", err)
		}
		for _, name := range locals {
			refs = append(refs, BranchRef{Name: name})
		}
	}

	if scope == ScopeRemote || scope == ScopeAll {
		remotes, err := r.git.RemoteBranches()
		if err != nil {
			return nil, fmt.Errorf("failed to list remote branches: %w", err)
		}
		for _, name := range remotes {
			refs = append(refs, BranchRef{Name: name, Remote: true})
		}
	}

	return refs, nil
}

// Resolve expands the given patterns against the scope's branch universe.
// Results are deduplicated and ordered first-seen-wins: patterns are
// scanned in argument order, candidates in list order. With zero patterns
// the scope's entire universe is returned. A positive pattern that
// matches nothing fails with a PatternError rather than contributing a
// silent empty result.
func (r *Resolver) Resolve(patterns []string, scope Scope) ([]BranchRef, error) {
	universe, err := r.candidates(scope)
	if err != nil {
		return nil, err
	}

	if len(patterns) == 0 {
		return universe, nil
	}

	seen := make(map[BranchRef]bool)
	var refs []BranchRef
	for _, raw := range patterns {
		pattern := Compile(raw)
		matched := false
		for _, ref := range universe {
			if !pattern.Match(ref.Name) {
				continue
			}
			matched = true
			if !seen[ref] {
				seen[ref] = true
				refs = append(refs, ref)
			}
		}
		if !matched {
			return nil, errors.NewPatternError(raw)
		}
	}

	return refs, nil
}

// Select resolves positive and exclusion patterns against the same
// universe. Exclusion patterns that match nothing are not an error; only
// positive selections must be non-empty.
func (r *Resolver) Select(include, exclude []string, scope Scope) (Selection, error) {
	included, err := r.Resolve(include, scope)
	if err != nil {
		return Selection{}, err
	}

	universe, err := r.candidates(scope)
	if err != nil {
		return Selection{}, err
	}

	seen := make(map[BranchRef]bool)
	var excluded []BranchRef
	for _, raw := range exclude {
		pattern := Compile(raw)
		for _, ref := range universe {
			if pattern.Match(ref.Name) && !seen[ref] {
				seen[ref] = true
				excluded = append(excluded, ref)
			}
		}
	}

	return Selection{Include: included, Exclude: excluded}, nil
}

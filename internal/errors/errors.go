// Package errors provides sentinel errors and custom error types for the hedge application.
// Use errors.Is() and errors.As() to check for specific error types.
package errors

import (
	"errors"
	"fmt"
	"strings"
)

// Sentinel errors for common conditions
var (
	// ErrNoMatch indicates that a positive branch selection matched nothing
	ErrNoMatch = errors.New("no branches matched")

	// ErrDetachedHead indicates that HEAD does not resolve to a branch
	ErrDetachedHead = errors.New("detached HEAD")

	// ErrDirtyWorktree indicates uncommitted changes in the working tree
	ErrDirtyWorktree = errors.New("working tree not clean")

	// ErrBranchNotFound indicates that a branch does not exist
	ErrBranchNotFound = errors.New("branch not found")

	// ErrCommitNotFound indicates that a revision does not resolve
	ErrCommitNotFound = errors.New("commit not found")

	// ErrRemoteNotFound indicates that a named remote is not configured
	ErrRemoteNotFound = errors.New("remote not found")

	// ErrRootCommit indicates an operation needed the parent of a parentless commit
	ErrRootCommit = errors.New("commit has no parent")

	// ErrSquashTooShort indicates a squash range of fewer than two commits
	ErrSquashTooShort = errors.New("cannot squash fewer than two commits")

	// ErrMalformedRange indicates an unparseable or inverted commit range
	ErrMalformedRange = errors.New("malformed commit range")

	// ErrUnknownStrategy indicates an unrecognized sync strategy name
	ErrUnknownStrategy = errors.New("unknown sync strategy")

	// ErrSelfTarget indicates an operation targeting its own source branch
	ErrSelfTarget = errors.New("target branch equals source branch")

	// ErrCannotFastForward indicates a diverged branch under the ff-only strategy
	ErrCannotFastForward = errors.New("cannot fast-forward a diverged branch")
)

// PatternError reports a positive selection pattern that matched no branches.
// Downstream commands must be able to distinguish "nothing selected" from a
// selection that legitimately resolved to nothing, so this is never swallowed.
type PatternError struct {
	Pattern string
}

func (e *PatternError) Error() string {
	return fmt.Sprintf("no branches match pattern %q", e.Pattern)
}

// Is returns true if the target error is ErrNoMatch
func (e *PatternError) Is(target error) bool {
	return target == ErrNoMatch
}

// NewPatternError creates a new PatternError
func NewPatternError(pattern string) *PatternError {
	return &PatternError{Pattern: pattern}
}

// ReferenceError reports a branch, commit, or remote name that does not resolve.
type ReferenceError struct {
	Kind string // "branch", "commit", or "remote"
	Name string
}

func (e *ReferenceError) Error() string {
	return fmt.Sprintf("%s %s does not exist", e.Kind, e.Name)
}

// Is maps the reference kind onto its sentinel
func (e *ReferenceError) Is(target error) bool {
	switch e.Kind {
	case "branch":
		return target == ErrBranchNotFound
	case "commit":
		return target == ErrCommitNotFound
	case "remote":
		return target == ErrRemoteNotFound
	}
	return false
}

// NewReferenceError creates a new ReferenceError
func NewReferenceError(kind, name string) *ReferenceError {
	return &ReferenceError{Kind: kind, Name: name}
}

// PreconditionError reports repository state that makes an operation invalid
// before any planning happens (detached HEAD, dirty tree, self-target).
type PreconditionError struct {
	Sentinel error
	Message  string
}

func (e *PreconditionError) Error() string {
	if e.Message != "" {
		return e.Message
	}
	return e.Sentinel.Error()
}

func (e *PreconditionError) Unwrap() error {
	return e.Sentinel
}

// NewPreconditionError creates a new PreconditionError wrapping a sentinel
func NewPreconditionError(sentinel error, format string, args ...interface{}) *PreconditionError {
	return &PreconditionError{Sentinel: sentinel, Message: fmt.Sprintf(format, args...)}
}

// PlanningError reports a request the planner cannot turn into a plan
// (malformed range, unknown strategy, root-commit reset target).
type PlanningError struct {
	Sentinel error
	Message  string
}

func (e *PlanningError) Error() string {
	if e.Message != "" {
		return e.Message
	}
	return e.Sentinel.Error()
}

func (e *PlanningError) Unwrap() error {
	return e.Sentinel
}

// NewPlanningError creates a new PlanningError wrapping a sentinel
func NewPlanningError(sentinel error, format string, args ...interface{}) *PlanningError {
	return &PlanningError{Sentinel: sentinel, Message: fmt.Sprintf(format, args...)}
}

// SafetyBlockError is a non-overridable safety verdict. It always aborts
// before any mutation.
type SafetyBlockError struct {
	Reasons []string
}

func (e *SafetyBlockError) Error() string {
	return fmt.Sprintf("operation blocked: %s", strings.Join(e.Reasons, "; "))
}

// NewSafetyBlockError creates a new SafetyBlockError
func NewSafetyBlockError(reasons ...string) *SafetyBlockError {
	return &SafetyBlockError{Reasons: reasons}
}

// SafetyWarnError is an overridable safety verdict that was not confirmed
// or overridden by the caller.
type SafetyWarnError struct {
	Reasons []string
}

func (e *SafetyWarnError) Error() string {
	return fmt.Sprintf("operation not confirmed: %s", strings.Join(e.Reasons, "; "))
}

// NewSafetyWarnError creates a new SafetyWarnError
func NewSafetyWarnError(reasons ...string) *SafetyWarnError {
	return &SafetyWarnError{Reasons: reasons}
}

// ExecutionError reports a primitive plan step that failed mid-execution.
type ExecutionError struct {
	Step       string
	StepNumber int
	Err        error
}

func (e *ExecutionError) Error() string {
	return fmt.Sprintf("step %d (%s) failed: %v", e.StepNumber, e.Step, e.Err)
}

func (e *ExecutionError) Unwrap() error {
	return e.Err
}

// NewExecutionError creates a new ExecutionError
func NewExecutionError(step string, stepNumber int, err error) *ExecutionError {
	return &ExecutionError{Step: step, StepNumber: stepNumber, Err: err}
}

// RecoveryError reports a failed automatic rollback. It is never retried;
// Hint carries the exact native commands the operator must run by hand.
type RecoveryError struct {
	Hint string
	Err  error
}

func (e *RecoveryError) Error() string {
	return fmt.Sprintf("automatic rollback failed: %v\nmanual recovery: %s", e.Err, e.Hint)
}

func (e *RecoveryError) Unwrap() error {
	return e.Err
}

// NewRecoveryError creates a new RecoveryError
func NewRecoveryError(hint string, err error) *RecoveryError {
	return &RecoveryError{Hint: hint, Err: err}
}

// GitCommandError represents an error from a git command execution
type GitCommandError struct {
	Command string
	Args    []string
	Stdout  string
	Stderr  string
	Err     error
}

func (e *GitCommandError) Error() string {
	msg := fmt.Sprintf("git command failed: %s", e.Command)
	if len(e.Args) > 0 {
		msg += fmt.Sprintf(" %v", e.Args)
	}
	if e.Stderr != "" {
		msg += fmt.Sprintf("\nstderr: %s", e.Stderr)
	}
	if e.Stdout != "" {
		msg += fmt.Sprintf("\nstdout: %s", e.Stdout)
	}
	if e.Err != nil {
		msg += fmt.Sprintf("\n%v", e.Err)
	}
	return msg
}

func (e *GitCommandError) Unwrap() error {
	return e.Err
}

// NewGitCommandError creates a new GitCommandError
func NewGitCommandError(command string, args []string, stdout, stderr string, err error) *GitCommandError {
	return &GitCommandError{
		Command: command,
		Args:    args,
		Stdout:  stdout,
		Stderr:  stderr,
		Err:     err,
	}
}

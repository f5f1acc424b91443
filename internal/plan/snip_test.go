package plan

import (
	"testing"

	"github.com/stretchr/testify/require"

	hedgeerrors "hedgerow.dev/hedge/internal/errors"
	"hedgerow.dev/hedge/internal/git/gitfake"
)

// snipFake builds a repo on branch feature carrying f1 and f2 on top of
// the merge base m0 it shares with main.
func snipFake() *gitfake.Fake {
	f := gitfake.New()
	f.Branch = "feature"
	f.Head = "f2"
	f.Locals = []string{"main", "feature"}
	f.Revs["feature"] = "f2"
	f.Revs["main"] = "m0"
	f.Revs["feature...main"] = "m0"
	f.Ranges["m0..feature"] = []string{"f1", "f2"}
	f.Messages["f1"] = "refactor config"
	f.Messages["f2"] = "fix flaky test"
	f.Upstreams["main"] = "origin/main"
	f.Upstreams["feature"] = "origin/feature"
	return f
}

func TestSnipTip(t *testing.T) {
	p, err := testPlanner(snipFake()).Snip(SnipRequest{Onto: "main"})
	require.NoError(t, err)

	require.Equal(t, KindSnip, p.Kind)
	require.Equal(t, []StepOp{
		OpCheckoutBranch,
		OpMergeIntoCurrent,
		OpCherryPickCommit,
		OpCreateOrMoveBranch,
		OpCheckoutBranch,
	}, stepOps(p))

	require.Equal(t, []string{"main"}, p.Steps[0].Args)
	require.Equal(t, []string{"origin/main", MergeFFOnly}, p.Steps[1].Args)
	require.Equal(t, []string{"f2"}, p.Steps[2].Args)
	require.Equal(t, []string{"feature", "HEAD", BranchMove}, p.Steps[3].Args)
	require.Equal(t, []string{"feature"}, p.Steps[4].Args)

	// The relocated commit itself is not abandoned; the rest of the
	// branch's history since the merge base is
	require.Equal(t, []string{"f1"}, p.RewrittenCommits)
	require.Equal(t, "feature", p.SourceBranch)
	require.Equal(t, "main", p.TargetBranch)
	require.True(t, p.RequiresAttached)
	require.True(t, p.RequiresClean)
}

func TestSnipNoPull(t *testing.T) {
	p, err := testPlanner(snipFake()).Snip(SnipRequest{Onto: "main", NoPull: true})
	require.NoError(t, err)
	require.Equal(t, []StepOp{
		OpCheckoutBranch,
		OpCherryPickCommit,
		OpCreateOrMoveBranch,
		OpCheckoutBranch,
	}, stepOps(p))
}

func TestSnipTargetWithoutUpstream(t *testing.T) {
	f := snipFake()
	delete(f.Upstreams, "main")
	p, err := testPlanner(f).Snip(SnipRequest{Onto: "main"})
	require.NoError(t, err)
	for _, step := range p.Steps {
		require.NotEqual(t, OpMergeIntoCurrent, step.Op)
	}
}

func TestSnipExplicitCommit(t *testing.T) {
	p, err := testPlanner(snipFake()).Snip(SnipRequest{Commit: "f1", Onto: "main"})
	require.NoError(t, err)
	require.Equal(t, []string{"f1"}, p.Steps[2].Args)
	// Now f2 is the abandoned one
	require.Equal(t, []string{"f2"}, p.RewrittenCommits)
}

func TestSnipKeepOriginal(t *testing.T) {
	t.Run("derives a branch name", func(t *testing.T) {
		p, err := testPlanner(snipFake()).Snip(SnipRequest{Onto: "main", KeepOriginal: true})
		require.NoError(t, err)
		require.Equal(t, []string{"feature-snip", "HEAD", BranchCreate}, p.Steps[3].Args)
		// Original branch untouched, nothing abandoned
		require.Empty(t, p.RewrittenCommits)
	})

	t.Run("derived name skips existing branches", func(t *testing.T) {
		f := snipFake()
		f.Locals = append(f.Locals, "feature-snip")
		p, err := testPlanner(f).Snip(SnipRequest{Onto: "main", KeepOriginal: true})
		require.NoError(t, err)
		require.Equal(t, []string{"feature-snip-2", "HEAD", BranchCreate}, p.Steps[3].Args)
	})

	t.Run("explicit name wins", func(t *testing.T) {
		p, err := testPlanner(snipFake()).Snip(SnipRequest{Onto: "main", KeepOriginal: true, NewBranch: "hotfix"})
		require.NoError(t, err)
		require.Equal(t, []string{"hotfix", "HEAD", BranchCreate}, p.Steps[3].Args)
	})
}

func TestSnipSelfTargetYieldsInertPlan(t *testing.T) {
	p, err := testPlanner(snipFake()).Snip(SnipRequest{Onto: "feature"})
	require.NoError(t, err)
	require.Empty(t, p.Steps)
	require.Equal(t, "feature", p.SourceBranch)
	require.Equal(t, "feature", p.TargetBranch)
}

func TestSnipUnknownTarget(t *testing.T) {
	_, err := testPlanner(snipFake()).Snip(SnipRequest{Onto: "nope"})
	require.ErrorIs(t, err, hedgeerrors.ErrBranchNotFound)
}

func TestSnipDetachedHead(t *testing.T) {
	f := snipFake()
	f.Detached = true
	f.Branch = ""
	p, err := testPlanner(f).Snip(SnipRequest{Onto: "main"})
	require.NoError(t, err)
	require.Empty(t, p.Steps)
	require.True(t, p.RequiresAttached)
	require.True(t, p.Pre.Detached)
}

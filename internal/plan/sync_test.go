package plan

import (
	"testing"

	"github.com/stretchr/testify/require"

	"hedgerow.dev/hedge/internal/config"
	hedgeerrors "hedgerow.dev/hedge/internal/errors"
	"hedgerow.dev/hedge/internal/git/gitfake"
)

// syncFake builds a repo with one branch in each classification,
// checked out on main.
func syncFake() *gitfake.Fake {
	f := gitfake.New()
	f.Branch = "main"
	f.Head = "m1"
	f.Locals = []string{"main", "fast", "stale", "forked", "lone"}
	for _, b := range f.Locals {
		f.Revs[b] = b + "-sha"
	}
	f.Upstreams["main"] = "origin/main"
	f.Upstreams["fast"] = "origin/fast"
	f.Upstreams["stale"] = "origin/stale"
	f.Upstreams["forked"] = "origin/forked"
	f.Divergence["main"] = [2]int{0, 0}
	f.Divergence["fast"] = [2]int{2, 0}
	f.Divergence["stale"] = [2]int{0, 3}
	f.Divergence["forked"] = [2]int{1, 2}
	return f
}

func TestSyncCurrentBranchOnly(t *testing.T) {
	t.Run("up to date is a single no-op", func(t *testing.T) {
		p, err := testPlanner(syncFake()).Sync(SyncRequest{})
		require.NoError(t, err)
		require.Equal(t, []StepOp{OpNoOp}, stepOps(p))
		require.False(t, p.Mutates())
	})

	t.Run("behind fast-forwards and stays put", func(t *testing.T) {
		f := syncFake()
		f.Branch = "stale"
		p, err := testPlanner(f).Sync(SyncRequest{})
		require.NoError(t, err)
		require.Equal(t, []StepOp{OpCheckoutBranch, OpMergeIntoCurrent}, stepOps(p))
		require.Equal(t, []string{"origin/stale", MergeFFOnly}, p.Steps[1].Args)
		// Already on the branch being synced, no trailing switch back
	})
}

func TestSyncBulk(t *testing.T) {
	f := syncFake()
	p, err := testPlanner(f).Sync(SyncRequest{
		Branches: []string{"main", "fast", "stale", "forked", "lone"},
		Bulk:     true,
	})
	require.NoError(t, err)

	require.Equal(t, []StepOp{
		OpNoOp,             // main up to date
		OpNoOp,             // fast ahead
		OpCheckoutBranch,   // stale
		OpMergeIntoCurrent, // ff stale
		OpCheckoutBranch,   // forked
		OpMergeIntoCurrent, // merge strategy by default
		OpNoOp,             // lone has no upstream
		OpCheckoutBranch,   // back to main
	}, stepOps(p))

	require.Equal(t, []string{"origin/forked", MergeFull}, p.Steps[5].Args)
	require.Equal(t, []string{"main"}, p.Steps[len(p.Steps)-1].Args)
	require.Equal(t, []string{"forked"}, p.Diverged)
	require.Equal(t, "main", p.SourceBranch)
	require.True(t, p.RequiresClean)
}

func TestSyncStrategies(t *testing.T) {
	t.Run("rebase strategy rebases diverged branches", func(t *testing.T) {
		p, err := testPlanner(syncFake()).Sync(SyncRequest{
			Branches: []string{"forked"},
			Bulk:     true,
			Strategy: config.StrategyRebase,
		})
		require.NoError(t, err)
		require.Equal(t, []StepOp{OpCheckoutBranch, OpRebaseOnto, OpCheckoutBranch}, stepOps(p))
		require.Equal(t, []string{"origin/forked"}, p.Steps[1].Args)
		require.Equal(t, []string{"forked"}, p.Diverged)
	})

	t.Run("ff-only refuses a diverged branch outright", func(t *testing.T) {
		f := syncFake()
		f.Branch = "forked"
		_, err := testPlanner(f).Sync(SyncRequest{Strategy: config.StrategyFFOnly})
		require.ErrorIs(t, err, hedgeerrors.ErrCannotFastForward)
	})

	t.Run("ff-only skips diverged branches in bulk", func(t *testing.T) {
		p, err := testPlanner(syncFake()).Sync(SyncRequest{
			Branches: []string{"stale", "forked"},
			Bulk:     true,
			Strategy: config.StrategyFFOnly,
		})
		require.NoError(t, err)
		require.Equal(t, []StepOp{OpCheckoutBranch, OpMergeIntoCurrent, OpNoOp, OpCheckoutBranch}, stepOps(p))
		require.Empty(t, p.Diverged)
	})

	t.Run("unknown strategy", func(t *testing.T) {
		_, err := testPlanner(syncFake()).Sync(SyncRequest{Strategy: "octopus"})
		require.ErrorIs(t, err, hedgeerrors.ErrUnknownStrategy)
	})

	t.Run("strategy falls back to config", func(t *testing.T) {
		strategy := config.StrategyRebase
		p, err := plannerWithConfig(syncFake(), &config.Config{
			Strategy:          &strategy,
			ProtectedBranches: []string{"never-matches"},
		}).Sync(SyncRequest{Branches: []string{"forked"}, Bulk: true})
		require.NoError(t, err)
		require.Equal(t, []StepOp{OpCheckoutBranch, OpRebaseOnto, OpCheckoutBranch}, stepOps(p))
	})
}

func TestSyncProtectedBranches(t *testing.T) {
	cfg := &config.Config{ProtectedBranches: []string{"main"}}

	t.Run("bulk runs skip protected branches silently", func(t *testing.T) {
		p, err := plannerWithConfig(syncFake(), cfg).Sync(SyncRequest{
			Branches: []string{"main", "stale"},
			Bulk:     true,
		})
		require.NoError(t, err)
		require.Equal(t, []string{"main"}, p.SkippedProtected)
		require.Equal(t, []StepOp{OpCheckoutBranch, OpMergeIntoCurrent, OpCheckoutBranch}, stepOps(p))
	})

	t.Run("literally named protected branches are synced", func(t *testing.T) {
		p, err := plannerWithConfig(syncFake(), cfg).Sync(SyncRequest{
			Branches:      []string{"main", "stale"},
			ExplicitNames: map[string]bool{"main": true},
			Bulk:          true,
		})
		require.NoError(t, err)
		require.Empty(t, p.SkippedProtected)
		require.Equal(t, OpNoOp, p.Steps[0].Op) // main is up to date
	})
}

func TestSyncDetachedHead(t *testing.T) {
	f := syncFake()
	f.Detached = true
	f.Branch = ""
	p, err := testPlanner(f).Sync(SyncRequest{})
	require.NoError(t, err)
	require.Empty(t, p.Steps)
	require.True(t, p.RequiresAttached)
	require.True(t, p.Pre.Detached)
}

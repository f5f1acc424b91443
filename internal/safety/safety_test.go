package safety

import (
	"testing"

	"github.com/stretchr/testify/require"

	"hedgerow.dev/hedge/internal/config"
	"hedgerow.dev/hedge/internal/git/gitfake"
	"hedgerow.dev/hedge/internal/plan"
)

func testGate(f *gitfake.Fake) *Gate {
	return NewGate(f, &config.Config{})
}

func reasonCodes(reasons []Reason) []string {
	codes := make([]string, len(reasons))
	for i, r := range reasons {
		codes[i] = r.Code
	}
	return codes
}

func TestGateAllows(t *testing.T) {
	p := &plan.Plan{
		Kind:             plan.KindSync,
		Pre:              plan.Snapshot{Branch: "main", Head: "m1", Clean: true},
		RequiresAttached: true,
		RequiresClean:    true,
	}

	verdict, err := testGate(gitfake.New()).Evaluate(p, Overrides{})
	require.NoError(t, err)
	require.Equal(t, Allow, verdict.Level)
	require.Empty(t, verdict.Reasons)
}

func TestGateBlocksDetachedHead(t *testing.T) {
	p := &plan.Plan{
		Kind:             plan.KindSquash,
		Pre:              plan.Snapshot{Detached: true, Clean: true},
		RequiresAttached: true,
		RequiresClean:    true,
	}

	verdict, err := testGate(gitfake.New()).Evaluate(p, Overrides{})
	require.NoError(t, err)
	require.Equal(t, Block, verdict.Level)
	require.Equal(t, []string{CodeDetachedHead}, reasonCodes(verdict.Reasons))
}

func TestGateBlocksDirtyWorktree(t *testing.T) {
	p := &plan.Plan{
		Kind:             plan.KindSync,
		Pre:              plan.Snapshot{Branch: "main", Clean: false},
		RequiresAttached: true,
		RequiresClean:    true,
	}

	verdict, err := testGate(gitfake.New()).Evaluate(p, Overrides{})
	require.NoError(t, err)
	require.Equal(t, Block, verdict.Level)
	require.Equal(t, CodeDirtyWorktree, verdict.Reasons[0].Code)
}

func TestGateDirtyTreeIrrelevantForPush(t *testing.T) {
	// Publish plans don't mutate local state and don't require a clean tree
	p := &plan.Plan{
		Kind:         plan.KindPublish,
		Pre:          plan.Snapshot{Branch: "main", Clean: false},
		SourceBranch: "feature",
		Remote:       "origin",
	}

	verdict, err := testGate(gitfake.New()).Evaluate(p, Overrides{})
	require.NoError(t, err)
	require.Equal(t, Allow, verdict.Level)
}

func TestGateLostCommits(t *testing.T) {
	newPlan := func() *plan.Plan {
		return &plan.Plan{
			Kind:             plan.KindSquash,
			Pre:              plan.Snapshot{Branch: "feature", Head: "c3", Clean: true},
			RequiresAttached: true,
			RequiresClean:    true,
			SourceBranch:     "feature",
			RewrittenCommits: []string{"c1", "c2"},
		}
	}

	t.Run("commits reachable only from the rewritten branch warn", func(t *testing.T) {
		f := gitfake.New()
		f.Containing["c1"] = []string{"feature"}
		f.Containing["c2"] = []string{"feature", "other"}

		verdict, err := testGate(f).Evaluate(newPlan(), Overrides{})
		require.NoError(t, err)
		require.Equal(t, Warn, verdict.Level)
		require.Equal(t, []string{CodeLostCommits}, reasonCodes(verdict.Reasons))
		require.Contains(t, verdict.Reasons[0].Message, "c1")
		require.NotContains(t, verdict.Reasons[0].Message, "c2")
		require.True(t, verdict.Reasons[0].Overridable)
	})

	t.Run("commits held by another branch do not warn", func(t *testing.T) {
		f := gitfake.New()
		f.Containing["c1"] = []string{"feature", "archive"}
		f.Containing["c2"] = []string{"feature", "archive"}

		verdict, err := testGate(f).Evaluate(newPlan(), Overrides{})
		require.NoError(t, err)
		require.Equal(t, Allow, verdict.Level)
	})

	t.Run("matching override accepts the warn", func(t *testing.T) {
		f := gitfake.New()
		f.Containing["c1"] = []string{"feature"}

		verdict, err := testGate(f).Evaluate(newPlan(), Overrides{LostCommits: true})
		require.NoError(t, err)
		require.Equal(t, Allow, verdict.Level)
		require.Equal(t, []string{CodeLostCommits}, reasonCodes(verdict.Accepted))
	})

	t.Run("unrelated override does not", func(t *testing.T) {
		f := gitfake.New()
		f.Containing["c1"] = []string{"feature"}

		verdict, err := testGate(f).Evaluate(newPlan(), Overrides{PushedCommits: true})
		require.NoError(t, err)
		require.Equal(t, Warn, verdict.Level)
		require.Equal(t, []string{CodeLostCommits}, reasonCodes(verdict.Reasons))
	})
}

func TestGateBlocksSelfTarget(t *testing.T) {
	// Self-target is a Block even when overrides are thrown at it
	p := &plan.Plan{
		Kind:             plan.KindSnip,
		Pre:              plan.Snapshot{Branch: "feature", Clean: true},
		RequiresAttached: true,
		RequiresClean:    true,
		SourceBranch:     "feature",
		TargetBranch:     "feature",
	}

	verdict, err := testGate(gitfake.New()).Evaluate(p, Overrides{
		LostCommits:   true,
		PushedCommits: true,
		Protected:     true,
		Diverged:      true,
	})
	require.NoError(t, err)
	require.Equal(t, Block, verdict.Level)
	require.Equal(t, CodeSelfTarget, verdict.Reasons[0].Code)
}

func TestGatePushedCommits(t *testing.T) {
	f := gitfake.New()
	f.Containing["c1"] = []string{"feature", "other"}
	f.Containing["c2"] = []string{"feature", "other"}
	f.Ancestors["c1..origin/feature"] = true

	p := &plan.Plan{
		Kind:             plan.KindSquash,
		Pre:              plan.Snapshot{Branch: "feature", Clean: true},
		RequiresAttached: true,
		RequiresClean:    true,
		SourceBranch:     "feature",
		Upstream:         "origin/feature",
		RewrittenCommits: []string{"c1", "c2"},
	}

	verdict, err := testGate(f).Evaluate(p, Overrides{})
	require.NoError(t, err)
	require.Equal(t, Warn, verdict.Level)
	require.Equal(t, []string{CodePushedCommits}, reasonCodes(verdict.Reasons))
	require.Contains(t, verdict.Reasons[0].Message, "c1")
}

func TestGateProtectedForcePush(t *testing.T) {
	p := &plan.Plan{
		Kind:         plan.KindPublish,
		Pre:          plan.Snapshot{Branch: "main", Clean: true},
		SourceBranch: "main",
		Remote:       "origin",
		NeedsForce:   true,
		ForceMode:    plan.PushForceWithLease,
	}

	verdict, err := testGate(gitfake.New()).Evaluate(p, Overrides{})
	require.NoError(t, err)
	require.Equal(t, Warn, verdict.Level)
	require.Equal(t, []string{CodeProtectedBranch}, reasonCodes(verdict.Reasons))

	// A plain push to the protected branch is fine
	p.ForceMode = ""
	verdict, err = testGate(gitfake.New()).Evaluate(p, Overrides{})
	require.NoError(t, err)
	require.Equal(t, Allow, verdict.Level)
}

func TestGateBlocksUnknownRemote(t *testing.T) {
	p := &plan.Plan{
		Kind:         plan.KindPublish,
		Pre:          plan.Snapshot{Branch: "main", Clean: true},
		SourceBranch: "main",
		Remote:       "fork",
		ForceMode:    plan.PushForce,
	}

	verdict, err := testGate(gitfake.New()).Evaluate(p, Overrides{})
	require.NoError(t, err)
	require.Equal(t, Block, verdict.Level)
	// The block leads; the protected-branch warn gathered on the way is
	// still reported after it
	require.Equal(t, []string{CodeUnknownRemote, CodeProtectedBranch}, reasonCodes(verdict.Reasons))
}

func TestGateDivergedSync(t *testing.T) {
	p := &plan.Plan{
		Kind:             plan.KindSync,
		Pre:              plan.Snapshot{Branch: "main", Clean: true},
		RequiresAttached: true,
		RequiresClean:    true,
		SourceBranch:     "main",
		Diverged:         []string{"forked", "wild"},
	}

	verdict, err := testGate(gitfake.New()).Evaluate(p, Overrides{})
	require.NoError(t, err)
	require.Equal(t, Warn, verdict.Level)
	require.Equal(t, []string{CodeDivergedBranch}, reasonCodes(verdict.Reasons))
	require.Contains(t, verdict.Reasons[0].Message, "forked")

	verdict, err = testGate(gitfake.New()).Evaluate(p, Overrides{Diverged: true})
	require.NoError(t, err)
	require.Equal(t, Allow, verdict.Level)
}

func TestGateRuleOrder(t *testing.T) {
	// Detached and dirty at once: the earlier rule wins
	p := &plan.Plan{
		Kind:             plan.KindSquash,
		Pre:              plan.Snapshot{Detached: true, Clean: false},
		RequiresAttached: true,
		RequiresClean:    true,
	}

	verdict, err := testGate(gitfake.New()).Evaluate(p, Overrides{})
	require.NoError(t, err)
	require.Equal(t, Block, verdict.Level)
	require.Equal(t, []string{CodeDetachedHead}, reasonCodes(verdict.Reasons))
}

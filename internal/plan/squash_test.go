package plan

import (
	"testing"

	"github.com/stretchr/testify/require"

	hedgeerrors "hedgerow.dev/hedge/internal/errors"
	"hedgerow.dev/hedge/internal/git/gitfake"
)

// squashFake builds a repo on branch feature with history c0..c3, c3 at
// the tip and c0 the root.
func squashFake() *gitfake.Fake {
	f := gitfake.New()
	f.Branch = "feature"
	f.Head = "c3"
	f.Locals = []string{"main", "feature"}
	f.Revs["feature"] = "c3"
	f.Upstreams["feature"] = "origin/feature"
	f.Parents["c3"] = "c2"
	f.Parents["c2"] = "c1"
	f.Parents["c1"] = "c0"
	f.Parents["c0"] = ""
	f.Messages["c0"] = "initial"
	f.Messages["c1"] = "add login form"
	f.Messages["c2"] = "fix validation"
	f.Messages["c3"] = "wip"
	return f
}

func TestSquashByCount(t *testing.T) {
	f := squashFake()
	p, err := testPlanner(f).Squash(SquashRequest{Count: 3})
	require.NoError(t, err)

	require.Equal(t, KindSquash, p.Kind)
	require.Equal(t, []StepOp{OpResetSoftTo, OpCommitWithMessage}, stepOps(p))

	// Reset lands on the parent of the oldest squashed commit and the
	// message comes from that oldest commit
	require.Equal(t, []string{"c0"}, p.Steps[0].Args)
	require.Equal(t, []string{"add login form"}, p.Steps[1].Args)

	require.Equal(t, []string{"c1", "c2", "c3"}, p.RewrittenCommits)
	require.Equal(t, "feature", p.SourceBranch)
	require.Equal(t, "origin/feature", p.Upstream)
	require.True(t, p.RequiresAttached)
	require.True(t, p.RequiresClean)
	require.Equal(t, "feature", p.Pre.Branch)
	require.Equal(t, "c3", p.Pre.Head)
}

func TestSquashExplicitMessage(t *testing.T) {
	p, err := testPlanner(squashFake()).Squash(SquashRequest{Count: 2, Message: "login feature"})
	require.NoError(t, err)
	require.Equal(t, []string{"c1"}, p.Steps[0].Args)
	require.Equal(t, []string{"login feature"}, p.Steps[1].Args)
	require.Equal(t, []string{"c2", "c3"}, p.RewrittenCommits)
}

func TestSquashByRange(t *testing.T) {
	f := squashFake()
	f.Ancestors["c1..c3"] = true
	f.Ranges["c0..c3"] = []string{"c1", "c2", "c3"}

	p, err := testPlanner(f).Squash(SquashRequest{From: "c1", To: "c3"})
	require.NoError(t, err)
	require.Equal(t, []string{"c0"}, p.Steps[0].Args)
	require.Equal(t, []string{"add login form"}, p.Steps[1].Args)
	require.Equal(t, []string{"c1", "c2", "c3"}, p.RewrittenCommits)
}

func TestSquashRejectsBadRequests(t *testing.T) {
	t.Run("count below two", func(t *testing.T) {
		_, err := testPlanner(squashFake()).Squash(SquashRequest{Count: 1})
		require.ErrorIs(t, err, hedgeerrors.ErrSquashTooShort)
	})

	t.Run("count below two fails before any repository access", func(t *testing.T) {
		f := squashFake()
		f.Detached = true
		f.Branch = ""
		_, err := testPlanner(f).Squash(SquashRequest{Count: 0})
		require.ErrorIs(t, err, hedgeerrors.ErrSquashTooShort)
	})

	t.Run("count and range together", func(t *testing.T) {
		_, err := testPlanner(squashFake()).Squash(SquashRequest{Count: 2, From: "c1", To: "c3"})
		require.ErrorIs(t, err, hedgeerrors.ErrMalformedRange)
	})

	t.Run("half a range", func(t *testing.T) {
		_, err := testPlanner(squashFake()).Squash(SquashRequest{From: "c1"})
		require.ErrorIs(t, err, hedgeerrors.ErrMalformedRange)
	})

	t.Run("single-commit range", func(t *testing.T) {
		_, err := testPlanner(squashFake()).Squash(SquashRequest{From: "c3", To: "c3"})
		require.ErrorIs(t, err, hedgeerrors.ErrSquashTooShort)
	})

	t.Run("range not ending at the tip", func(t *testing.T) {
		_, err := testPlanner(squashFake()).Squash(SquashRequest{From: "c1", To: "c2"})
		require.ErrorIs(t, err, hedgeerrors.ErrMalformedRange)
	})

	t.Run("inverted range", func(t *testing.T) {
		f := squashFake()
		// c3..c3 would be the tip; ask for c3->tip with from not an ancestor
		f.Revs["other"] = "c9"
		f.Messages["c9"] = "elsewhere"
		_, err := testPlanner(f).Squash(SquashRequest{From: "c9", To: "c3"})
		require.ErrorIs(t, err, hedgeerrors.ErrMalformedRange)
	})

	t.Run("unknown revision", func(t *testing.T) {
		_, err := testPlanner(squashFake()).Squash(SquashRequest{From: "zzz", To: "c3"})
		require.ErrorIs(t, err, hedgeerrors.ErrCommitNotFound)
	})
}

func TestSquashRootCommit(t *testing.T) {
	t.Run("range reaches past the root", func(t *testing.T) {
		f := squashFake()
		// Branch with only two commits: squashing both needs c0's parent
		f.Head = "c1"
		f.Revs["feature"] = "c1"
		_, err := testPlanner(f).Squash(SquashRequest{Count: 2})
		require.ErrorIs(t, err, hedgeerrors.ErrRootCommit)
	})

	t.Run("count exceeds history length", func(t *testing.T) {
		_, err := testPlanner(squashFake()).Squash(SquashRequest{Count: 9})
		require.ErrorIs(t, err, hedgeerrors.ErrRootCommit)
	})
}

func TestSquashDetachedHead(t *testing.T) {
	f := squashFake()
	f.Detached = true
	f.Branch = ""

	p, err := testPlanner(f).Squash(SquashRequest{Count: 2})
	require.NoError(t, err)
	require.Empty(t, p.Steps)
	require.True(t, p.RequiresAttached)
	require.True(t, p.Pre.Detached)
}

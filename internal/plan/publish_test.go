package plan

import (
	"testing"

	"github.com/stretchr/testify/require"

	"hedgerow.dev/hedge/internal/config"
	"hedgerow.dev/hedge/internal/git/gitfake"
)

func publishFake() *gitfake.Fake {
	f := gitfake.New()
	f.Branch = "feature"
	f.Head = "f2"
	f.Locals = []string{"main", "feature"}
	f.Revs["feature"] = "f2"
	f.Revs["main"] = "m1"
	return f
}

func TestPublishNewBranch(t *testing.T) {
	p, err := testPlanner(publishFake()).Publish(PublishRequest{})
	require.NoError(t, err)

	require.Equal(t, KindPublish, p.Kind)
	require.Equal(t, []StepOp{OpPush}, stepOps(p))
	// No remote branch yet: plain push, and -u since there is no upstream
	require.Equal(t, []string{"origin", "feature", PushPlain, "true"}, p.Steps[0].Args)
	require.False(t, p.NeedsForce)
	require.Empty(t, p.ForceMode)
	require.Equal(t, "origin", p.Remote)
	require.Equal(t, "feature", p.SourceBranch)
	require.False(t, p.RequiresClean)
	require.False(t, p.Mutates())
}

func TestPublishFastForwardableRemote(t *testing.T) {
	f := publishFake()
	f.RemoteBranchSet["origin/feature"] = true
	f.Upstreams["feature"] = "origin/feature"
	f.Ancestors["origin/feature..feature"] = true

	p, err := testPlanner(f).Publish(PublishRequest{})
	require.NoError(t, err)
	// Remote is an ancestor: plain push, and the upstream is already set
	require.Equal(t, []string{"origin", "feature", PushPlain, "false"}, p.Steps[0].Args)
	require.False(t, p.NeedsForce)
}

func TestPublishDivergedRemote(t *testing.T) {
	t.Run("defaults to force-with-lease", func(t *testing.T) {
		f := publishFake()
		f.RemoteBranchSet["origin/feature"] = true

		p, err := testPlanner(f).Publish(PublishRequest{})
		require.NoError(t, err)
		require.True(t, p.NeedsForce)
		require.Equal(t, PushForceWithLease, p.ForceMode)
		require.Equal(t, PushForceWithLease, p.Steps[0].Args[2])
	})

	t.Run("explicit force is honored", func(t *testing.T) {
		f := publishFake()
		f.RemoteBranchSet["origin/feature"] = true

		p, err := testPlanner(f).Publish(PublishRequest{Force: PushForce})
		require.NoError(t, err)
		require.Equal(t, PushForce, p.ForceMode)
	})
}

func TestPublishRequestedForceWithoutNeed(t *testing.T) {
	p, err := testPlanner(publishFake()).Publish(PublishRequest{Force: PushForceWithLease})
	require.NoError(t, err)
	require.False(t, p.NeedsForce)
	require.Equal(t, PushForceWithLease, p.ForceMode)
}

func TestPublishNamedBranch(t *testing.T) {
	p, err := testPlanner(publishFake()).Publish(PublishRequest{Branch: "main"})
	require.NoError(t, err)
	require.Equal(t, "main", p.SourceBranch)
	require.False(t, p.RequiresAttached)
	// The snapshot still describes the checked-out state
	require.Equal(t, "feature", p.Pre.Branch)
}

func TestPublishRemoteSelection(t *testing.T) {
	t.Run("flag wins", func(t *testing.T) {
		p, err := testPlanner(publishFake()).Publish(PublishRequest{Remote: "fork"})
		require.NoError(t, err)
		require.Equal(t, "fork", p.Remote)
	})

	t.Run("config default", func(t *testing.T) {
		remote := "upstream"
		p, err := plannerWithConfig(publishFake(), &config.Config{Remote: &remote}).Publish(PublishRequest{})
		require.NoError(t, err)
		require.Equal(t, "upstream", p.Remote)
	})
}

func TestPublishUpstreamHandling(t *testing.T) {
	t.Run("no-upstream flag suppresses -u", func(t *testing.T) {
		p, err := testPlanner(publishFake()).Publish(PublishRequest{NoUpstream: true})
		require.NoError(t, err)
		require.Equal(t, "false", p.Steps[0].Args[3])
	})

	t.Run("config can turn -u off", func(t *testing.T) {
		setUpstream := false
		p, err := plannerWithConfig(publishFake(), &config.Config{SetUpstream: &setUpstream}).Publish(PublishRequest{})
		require.NoError(t, err)
		require.Equal(t, "false", p.Steps[0].Args[3])
	})
}

func TestPublishDetachedHead(t *testing.T) {
	f := publishFake()
	f.Detached = true
	f.Branch = ""
	p, err := testPlanner(f).Publish(PublishRequest{})
	require.NoError(t, err)
	require.Empty(t, p.Steps)
	require.True(t, p.RequiresAttached)
}

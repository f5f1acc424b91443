package plan

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/require"

	"hedgerow.dev/hedge/internal/config"
	"hedgerow.dev/hedge/internal/git/gitfake"
)

func testPlanner(f *gitfake.Fake) *Planner {
	// Default protected patterns would swallow "main" in bulk tests
	return NewPlanner(f, &config.Config{ProtectedBranches: []string{"never-matches"}})
}

func plannerWithConfig(f *gitfake.Fake, cfg *config.Config) *Planner {
	return NewPlanner(f, cfg)
}

func stepOps(p *Plan) []StepOp {
	ops := make([]StepOp, len(p.Steps))
	for i, s := range p.Steps {
		ops[i] = s.Op
	}
	return ops
}

func TestRenderMatchesStepDescriptions(t *testing.T) {
	p := &Plan{
		Kind: KindSync,
		Steps: []Step{
			newStep(OpCheckoutBranch, []string{"feature"}, "switch to branch %s", "feature"),
			newStep(OpMergeIntoCurrent, []string{"origin/feature", MergeFFOnly}, "fast-forward %s to %s", "feature", "origin/feature"),
			newStep(OpCheckoutBranch, []string{"main"}, "return to branch %s", "main"),
		},
	}

	lines := p.Render()
	require.Len(t, lines, len(p.Steps))
	for i, step := range p.Steps {
		require.Equal(t, fmt.Sprintf("%d. %s", i+1, step.Description), lines[i])
	}
}

func TestPlanMutates(t *testing.T) {
	pushOnly := &Plan{Steps: []Step{newStep(OpPush, []string{"origin", "main", PushPlain, "false"}, "push")}}
	require.False(t, pushOnly.Mutates())

	noops := &Plan{Steps: []Step{newStep(OpNoOp, nil, "nothing")}}
	require.False(t, noops.Mutates())

	local := &Plan{Steps: []Step{newStep(OpCheckoutBranch, []string{"x"}, "switch")}}
	require.True(t, local.Mutates())
}

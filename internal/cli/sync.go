package cli

import (
	"github.com/spf13/cobra"

	"hedgerow.dev/hedge/internal/git"
	"hedgerow.dev/hedge/internal/plan"
	"hedgerow.dev/hedge/internal/refpattern"
	"hedgerow.dev/hedge/internal/safety"
)

// newSyncCmd creates the sync command
func newSyncCmd() *cobra.Command {
	var (
		all      bool
		exclude  []string
		strategy string
		fetch    bool
		dryRun   bool
		yes      bool
	)

	cmd := &cobra.Command{
		Use:   "sync [pattern...]",
		Short: "Bring branches up to date with their upstreams",
		Long: `Bring branches up to date with their upstreams.

With no arguments, syncs the checked-out branch. Patterns select
branches by name, with * matching any substring; --all selects every
local branch. Protected branches are skipped in bulk runs unless named
literally. Branches that are behind are fast-forwarded; diverged
branches are integrated with the configured strategy (merge, rebase, or
ff-only).`,
		RunE: func(cmd *cobra.Command, args []string) error {
			rt, err := initRuntime()
			if err != nil {
				return err
			}
			defer func() { _ = rt.Splog.Close() }()

			if fetch {
				remote := rt.Config.RemoteName()
				rt.Splog.Debug("fetching %s", remote)
				if err := git.FetchRemote(cmd.Context(), remote); err != nil {
					return err
				}
			}

			var branches []string
			explicit := map[string]bool{}
			bulk := all || len(args) > 0

			if bulk {
				resolver := refpattern.NewResolver(rt.Git)
				selection, err := resolver.Select(args, exclude, refpattern.ScopeLocal)
				if err != nil {
					return err
				}
				for _, ref := range selection.Refs() {
					branches = append(branches, ref.Name)
				}
				for _, raw := range args {
					if refpattern.Compile(raw).IsLiteral() {
						explicit[raw] = true
					}
				}
			}

			p, err := rt.Planner.Sync(plan.SyncRequest{
				Branches:      branches,
				ExplicitNames: explicit,
				Bulk:          bulk,
				Strategy:      strategy,
			})
			if err != nil {
				return err
			}

			_, err = rt.runPlan(cmd.Context(), p, runOptions{
				DryRun:    dryRun,
				Yes:       yes,
				Overrides: safety.Overrides{},
			})
			return err
		},
	}

	cmd.Flags().BoolVar(&all, "all", false, "sync every local branch")
	cmd.Flags().StringSliceVar(&exclude, "exclude", nil, "patterns to leave out of the selection")
	cmd.Flags().StringVar(&strategy, "strategy", "", "integration strategy for diverged branches (merge, rebase, ff-only)")
	cmd.Flags().BoolVar(&fetch, "fetch", false, "fetch and prune the configured remote first")
	cmd.Flags().BoolVar(&dryRun, "dry-run", false, "print the plan without executing it")
	cmd.Flags().BoolVarP(&yes, "yes", "y", false, "accept all warnings without prompting")

	return cmd
}

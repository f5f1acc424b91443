package cli

import (
	"github.com/spf13/cobra"

	"hedgerow.dev/hedge/internal/plan"
	"hedgerow.dev/hedge/internal/safety"
)

// newSnipCmd creates the snip command
func newSnipCmd() *cobra.Command {
	var (
		commit       string
		onto         string
		as           string
		noPull       bool
		keepOriginal bool
		force        bool
		forcePushed  bool
		dryRun       bool
		yes          bool
	)

	cmd := &cobra.Command{
		Use:   "snip",
		Short: "Relocate a commit onto another branch",
		Long: `Relocate a commit onto another branch.

Switches to the target branch, fast-forwards it to its upstream,
cherry-picks the commit (by default the tip of the current branch), and
repoints the current branch at the result. With --keep-original the
current branch is left alone and a new branch grows from the relocated
commit instead.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			rt, err := initRuntime()
			if err != nil {
				return err
			}
			defer func() { _ = rt.Splog.Close() }()

			p, err := rt.Planner.Snip(plan.SnipRequest{
				Commit:       commit,
				Onto:         onto,
				NoPull:       noPull,
				KeepOriginal: keepOriginal,
				NewBranch:    as,
			})
			if err != nil {
				return err
			}

			_, err = rt.runPlan(cmd.Context(), p, runOptions{
				DryRun: dryRun,
				Yes:    yes,
				Overrides: safety.Overrides{
					LostCommits:   force,
					PushedCommits: forcePushed,
				},
			})
			return err
		},
	}

	cmd.Flags().StringVar(&commit, "commit", "", "revision to relocate (default: the current branch tip)")
	cmd.Flags().StringVar(&onto, "onto", "", "branch to relocate the commit onto")
	cmd.Flags().StringVar(&as, "as", "", "branch name to create with --keep-original")
	cmd.Flags().BoolVar(&noPull, "no-pull", false, "skip fast-forwarding the target before picking")
	cmd.Flags().BoolVar(&keepOriginal, "keep-original", false, "leave the current branch untouched")
	cmd.Flags().BoolVar(&force, "force", false, "accept making abandoned commits unreachable")
	cmd.Flags().BoolVar(&forcePushed, "force-pushed", false, "accept rewriting commits already on the upstream")
	cmd.Flags().BoolVar(&dryRun, "dry-run", false, "print the plan without executing it")
	cmd.Flags().BoolVarP(&yes, "yes", "y", false, "accept all warnings without prompting")

	_ = cmd.MarkFlagRequired("onto")

	return cmd
}

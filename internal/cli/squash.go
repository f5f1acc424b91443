package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"hedgerow.dev/hedge/internal/plan"
	"hedgerow.dev/hedge/internal/safety"
)

// newSquashCmd creates the squash command
func newSquashCmd() *cobra.Command {
	var (
		count       int
		from        string
		to          string
		message     string
		force       bool
		forcePushed bool
		dryRun      bool
		yes         bool
	)

	cmd := &cobra.Command{
		Use:   "squash",
		Short: "Collapse the newest commits on the current branch into one",
		Long: `Collapse the newest commits on the current branch into one commit.

Select the commits with --count (the N newest) or with --from and --to
(an inclusive range ending at the branch tip). Without --message the
squashed commit reuses the message of the oldest commit in the range.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if count == 0 && from == "" && to == "" {
				return fmt.Errorf("select commits with --count or --from/--to")
			}

			rt, err := initRuntime()
			if err != nil {
				return err
			}
			defer func() { _ = rt.Splog.Close() }()

			p, err := rt.Planner.Squash(plan.SquashRequest{
				Count:   count,
				From:    from,
				To:      to,
				Message: message,
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

	cmd.Flags().IntVarP(&count, "count", "n", 0, "number of commits to squash, counted from the tip")
	cmd.Flags().StringVar(&from, "from", "", "oldest commit of the range (inclusive)")
	cmd.Flags().StringVar(&to, "to", "", "newest commit of the range (inclusive, must be the tip)")
	cmd.Flags().StringVarP(&message, "message", "m", "", "message for the squashed commit")
	cmd.Flags().BoolVar(&force, "force", false, "accept making the squashed commits unreachable")
	cmd.Flags().BoolVar(&forcePushed, "force-pushed", false, "accept rewriting commits already on the upstream")
	cmd.Flags().BoolVar(&dryRun, "dry-run", false, "print the plan without executing it")
	cmd.Flags().BoolVarP(&yes, "yes", "y", false, "accept all warnings without prompting")

	return cmd
}

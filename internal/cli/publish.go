package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"hedgerow.dev/hedge/internal/forge"
	"hedgerow.dev/hedge/internal/plan"
	"hedgerow.dev/hedge/internal/safety"
)

// newPublishCmd creates the publish command
func newPublishCmd() *cobra.Command {
	var (
		remote         string
		force          bool
		forceWithLease bool
		noUpstream     bool
		noForge        bool
		dryRun         bool
		yes            bool
	)

	cmd := &cobra.Command{
		Use:   "publish [branch]",
		Short: "Push a branch to its remote",
		Long: `Push a branch to its remote, defaulting to the checked-out branch.

When the remote branch has moved on and a plain push cannot land, the
push is upgraded to force-with-lease (or plain --force when asked for).
After a successful push the matching open pull request, if any, is
looked up and printed.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if force && forceWithLease {
				return fmt.Errorf("--force and --force-with-lease are mutually exclusive")
			}

			rt, err := initRuntime()
			if err != nil {
				return err
			}
			defer func() { _ = rt.Splog.Close() }()

			branch := ""
			if len(args) == 1 {
				branch = args[0]
			}

			forceMode := ""
			if force {
				forceMode = plan.PushForce
			} else if forceWithLease {
				forceMode = plan.PushForceWithLease
			}

			p, err := rt.Planner.Publish(plan.PublishRequest{
				Branch:     branch,
				Remote:     remote,
				Force:      forceMode,
				NoUpstream: noUpstream,
			})
			if err != nil {
				return err
			}

			_, err = rt.runPlan(cmd.Context(), p, runOptions{
				DryRun:    dryRun,
				Yes:       yes,
				Overrides: safety.Overrides{},
			})
			if err != nil {
				return err
			}

			if !dryRun && !noForge {
				lookupPullRequest(cmd.Context(), rt, p)
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&remote, "remote", "", "remote to push to (default: the configured remote)")
	cmd.Flags().BoolVar(&force, "force", false, "push with --force")
	cmd.Flags().BoolVar(&forceWithLease, "force-with-lease", false, "push with --force-with-lease")
	cmd.Flags().BoolVar(&noUpstream, "no-upstream", false, "never set the upstream, regardless of config")
	cmd.Flags().BoolVar(&noForge, "no-forge", false, "skip the pull request lookup after pushing")
	cmd.Flags().BoolVar(&dryRun, "dry-run", false, "print the plan without executing it")
	cmd.Flags().BoolVarP(&yes, "yes", "y", false, "accept all warnings without prompting")

	return cmd
}

// lookupPullRequest prints the open PR for the pushed branch, if the
// forge is reachable. Failures are logged at debug and never fail the
// command; the push already happened.
func lookupPullRequest(ctx context.Context, rt *runtime, p *plan.Plan) {
	url, err := rt.Git.RemoteURL(p.Remote)
	if err != nil {
		rt.Splog.Debug("pull request lookup skipped: %v", err)
		return
	}

	pr, err := forge.FindOpenPR(ctx, url, p.SourceBranch)
	if err != nil {
		rt.Splog.Debug("pull request lookup failed: %v", err)
		return
	}
	if pr == nil {
		rt.Splog.Debug("no open pull request for %s", p.SourceBranch)
		return
	}

	label := ""
	if pr.Draft {
		label = " (draft)"
	}
	rt.Splog.Info("open pull request%s: #%d %s", label, pr.Number, pr.Title)
	rt.Splog.Info("  %s", pr.HTMLURL)
}

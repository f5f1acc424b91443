package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"hedgerow.dev/hedge/internal/classify"
	"hedgerow.dev/hedge/internal/git"
	"hedgerow.dev/hedge/internal/refpattern"
	"hedgerow.dev/hedge/internal/tui"
)

// newStatusCmd creates the status command
func newStatusCmd() *cobra.Command {
	var (
		remoteScope bool
		allScope    bool
	)

	cmd := &cobra.Command{
		Use:   "status [pattern...]",
		Short: "Show how branches relate to their upstreams",
		Long: `Show how each branch relates to its upstream.

With no arguments, covers every local branch. Patterns select branches
by name, with * matching any substring; --remote and --all widen the
scope to remote-tracking branches.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			rt, err := initRuntime()
			if err != nil {
				return err
			}
			defer func() { _ = rt.Splog.Close() }()

			scope := refpattern.ScopeLocal
			if remoteScope {
				scope = refpattern.ScopeRemote
			}
			if allScope {
				scope = refpattern.ScopeAll
			}

			refs, err := refpattern.NewResolver(rt.Git).Resolve(args, scope)
			if err != nil {
				return err
			}

			detached, err := rt.Git.IsDetached()
			if err != nil {
				return err
			}
			if detached {
				rt.Splog.Warn("HEAD is detached")
			}

			switch {
			case git.IsCherryPickInProgress(cmd.Context()):
				rt.Splog.Warn("a cherry-pick is in progress; finish or abort it first")
			case git.IsRebaseInProgress(cmd.Context()):
				rt.Splog.Warn("a rebase is in progress; finish or abort it first")
			case git.IsMergeInProgress(cmd.Context()):
				rt.Splog.Warn("a merge is in progress; finish or abort it first")
			}

			current := ""
			if !detached {
				current, err = rt.Git.CurrentBranch()
				if err != nil {
					return err
				}
			}

			classifier := classify.NewClassifier(rt.Git)
			for _, ref := range refs {
				if ref.Remote {
					rt.Splog.Info("  %s  %s", ref.Name, tui.ColorDim("remote-tracking"))
					continue
				}

				st, err := classifier.Status(ref.Name, true)
				if err != nil {
					return err
				}

				marker := " "
				if ref.Name == current {
					marker = "*"
				}
				rt.Splog.Info("%s %s  %s", marker, ref.Name, describeStatus(st))
			}

			return nil
		},
	}

	cmd.Flags().BoolVar(&remoteScope, "remote", false, "show remote-tracking branches instead of local ones")
	cmd.Flags().BoolVar(&allScope, "all", false, "show local and remote-tracking branches")

	return cmd
}

// describeStatus renders one branch's classification with divergence counts
func describeStatus(st classify.Status) string {
	switch st.Classification {
	case classify.UpToDate:
		return tui.ColorGreen("up to date") + tui.ColorDim(" with "+st.Upstream)
	case classify.Ahead:
		return tui.ColorCyan(fmt.Sprintf("ahead %d", st.Divergence.Ahead)) + tui.ColorDim(" of "+st.Upstream)
	case classify.Behind:
		return tui.ColorYellow(fmt.Sprintf("behind %d", st.Divergence.Behind)) + tui.ColorDim(" of "+st.Upstream)
	case classify.Diverged:
		return tui.ColorRed(fmt.Sprintf("diverged (ahead %d, behind %d)", st.Divergence.Ahead, st.Divergence.Behind)) + tui.ColorDim(" from "+st.Upstream)
	case classify.NoUpstream:
		return tui.ColorDim("no upstream")
	}
	return st.Classification.String()
}

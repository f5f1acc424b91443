package plan

import (
	"hedgerow.dev/hedge/internal/classify"
	"hedgerow.dev/hedge/internal/config"
	"hedgerow.dev/hedge/internal/git"
)

// Planner builds plans from read-only repository queries. It holds no
// state between calls; every plan is computed against a fresh snapshot.
type Planner struct {
	git        git.Runner
	cfg        *config.Config
	classifier *classify.Classifier
}

// NewPlanner creates a Planner backed by the given git runner and config
func NewPlanner(g git.Runner, cfg *config.Config) *Planner {
	return &Planner{
		git:        g,
		cfg:        cfg,
		classifier: classify.NewClassifier(g),
	}
}

// snapshot captures the state of the checked-out branch
func (p *Planner) snapshot(ignoreUntracked bool) (Snapshot, classify.Status, error) {
	st, err := p.classifier.Status("", ignoreUntracked)
	if err != nil {
		return Snapshot{}, classify.Status{}, err
	}
	return Snapshot{
		Branch:   st.Branch,
		Head:     st.Head,
		Clean:    st.IsClean,
		Detached: st.IsDetached,
	}, st, nil
}

func short(sha string) string {
	if len(sha) > 7 {
		return sha[:7]
	}
	return sha
}

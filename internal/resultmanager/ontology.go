package resultmanager

import (
	"context"

	"github.com/indralab/network-search/internal/model"
)

// OntologyResultManager wraps the shared-ancestors provider's output
// (SPEC_FULL.md section 4.4.3). The ontology service already returns Nodes
// sorted by (name, namespace, identifier); no additional filtering applies.
type OntologyResultManager struct {
	Source model.Node
	Target model.Node
}

// Run copies parents into an OntologyResults, stopping early if ctx is
// done.
func (m OntologyResultManager) Run(ctx context.Context, parents []model.Node) model.OntologyResults {
	out := model.OntologyResults{Source: m.Source, Target: m.Target}
	for _, p := range parents {
		select {
		case <-ctx.Done():
			return out
		default:
		}
		out.Parents = append(out.Parents, p)
	}
	return out
}

package resultmanager

import (
	"context"

	"github.com/indralab/network-search/internal/algorithms"
	"github.com/indralab/network-search/internal/model"
	"github.com/indralab/network-search/internal/spec"
)

// SharedInteractorsResultManager assembles the shared-interactors family's
// result (SPEC_FULL.md section 4.4.2): each (sourceEdge, targetEdge) pair is
// decorated into two EdgeData and kept only if both survive filtering;
// order is preserved from the algorithm's belief-ranked output.
type SharedInteractorsResultManager struct {
	Decorator  Decorator
	Filters    spec.FilterSet
	Downstream bool
}

// Run decorates pairs into a SharedInteractorsResults, stopping early if ctx
// is done.
func (m SharedInteractorsResultManager) Run(ctx context.Context, pairs []algorithms.SharedPair) model.SharedInteractorsResults {
	out := model.SharedInteractorsResults{Downstream: m.Downstream}
	for _, p := range pairs {
		select {
		case <-ctx.Done():
			return out
		default:
		}
		sEdge, sOK := m.Decorator.EdgeFor(m.Filters, p.SourceEdge[0], p.SourceEdge[1])
		if !sOK {
			continue
		}
		tEdge, tOK := m.Decorator.EdgeFor(m.Filters, p.TargetEdge[0], p.TargetEdge[1])
		if !tOK {
			continue
		}
		out.SourceData = append(out.SourceData, sEdge)
		out.TargetData = append(out.TargetData, tEdge)
	}
	return out
}

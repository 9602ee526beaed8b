package resultmanager

import (
	"context"

	"github.com/indralab/network-search/internal/algorithms"
	"github.com/indralab/network-search/internal/model"
	"github.com/indralab/network-search/internal/spec"
)

// SubgraphResultManager assembles the induced-subgraph query's result
// (SPEC_FULL.md section 4.4.4): classifies each requested node as resolved
// or absent, then decorates the induced subgraph's edges, dropping any edge
// whose only surviving statement type is the ontology-family sentinel.
type SubgraphResultManager struct {
	Decorator Decorator
	Filters   spec.FilterSet
}

// Run classifies resolved and decorates edges into a SubgraphResults,
// stopping edge decoration early if ctx is done.
func (m SubgraphResultManager) Run(ctx context.Context, resolved []algorithms.ResolvedNode, edges []algorithms.SubgraphEdge) model.SubgraphResults {
	out := model.SubgraphResults{}
	for _, r := range resolved {
		if !r.InGraph {
			n := model.Node{Name: r.RequestedName}
			out.OriginalNodes = append(out.OriginalNodes, n)
			out.NotInGraph = append(out.NotInGraph, n)
			continue
		}
		n, ok := m.Decorator.NodeFor(r.Handle)
		if !ok {
			n = model.Node{Name: r.RequestedName}
			out.OriginalNodes = append(out.OriginalNodes, n)
			out.NotInGraph = append(out.NotInGraph, n)
			continue
		}
		out.OriginalNodes = append(out.OriginalNodes, n)
		out.NodesInGraph = append(out.NodesInGraph, n)
	}

	for _, e := range edges {
		select {
		case <-ctx.Done():
			return out
		default:
		}
		edge, ok := m.Decorator.EdgeByHashFor(m.Filters, e.From, e.To)
		if !ok {
			continue
		}
		out.Edges = append(out.Edges, edge)
	}
	return out
}

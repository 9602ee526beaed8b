package resultmanager

import (
	"context"

	"github.com/indralab/network-search/internal/algorithms"
	"github.com/indralab/network-search/internal/model"
	"github.com/indralab/network-search/internal/spec"
	"github.com/indralab/network-search/internal/util"
)

// PathResultManager is the shared base for SSP, BFS and Dijkstra (SPEC_FULL.md
// section 4.4.1): it drives a PathIterator under a deadline and a result cap,
// applies whatever filtering its family did not already enforce internally,
// and optionally culls the highest-degree interior node every CullEvery
// paths to produce a diverse path set.
type PathResultManager struct {
	Decorator Decorator
	Filters   spec.FilterSet
	Source    *model.Node
	Target    *model.Node
	// ReverseOpen reverses each raw path's node order before processing,
	// for an open search run from the target (only Target was given).
	ReverseOpen bool
}

// Run drains it until the deadline carried by ctx is hit, the result cap
// (KShortest/MaxPaths in the filter set) is reached, or the iterator is
// exhausted.
func (m PathResultManager) Run(ctx context.Context, it *algorithms.PathIterator) model.PathResultData {
	result := model.PathResultData{Source: m.Source, Target: m.Target, Paths: map[int][]model.Path{}}

	var prevPath []string
	emitted := 0
	cullEvery := m.Filters.CullBestNode

	for {
		select {
		case <-ctx.Done():
			return result
		default:
		}
		if m.Filters.MaxPaths > 0 && emitted >= m.Filters.MaxPaths {
			return result
		}
		if cullEvery >= 2 && emitted > 0 && emitted%cullEvery == 0 && len(prevPath) >= 3 {
			if node, ok := m.highestDegreeInterior(prevPath); ok {
				it.Feedback(map[string]struct{}{node: {}})
			}
		}

		raw, ok := it.Next()
		if !ok {
			return result
		}
		handles := raw.Handles
		if m.ReverseOpen {
			handles = reverseHandles(handles)
		}

		if m.Filters.PathLength > 0 && !m.Filters.OverallWeighted {
			if len(handles) < m.Filters.PathLength {
				prevPath = handles
				continue
			}
			if len(handles) > m.Filters.PathLength {
				return result
			}
		}

		if !m.allowedNSOK(handles) {
			prevPath = handles
			continue
		}

		path, ok := m.buildPath(handles)
		prevPath = handles
		if !ok {
			continue
		}
		result.Paths[path.Len()] = append(result.Paths[path.Len()], path)
		emitted++
	}
}

// allowedNSOK reports whether every interior node (not the first or last
// handle) has a namespace in Filters.AllowedNS. Families that already
// enforce the namespace allow-list internally (BFS) are handed a filter set
// with AllowedNS cleared, so this check is a no-op for them.
func (m PathResultManager) allowedNSOK(handles []string) bool {
	if len(m.Filters.AllowedNS) == 0 || len(handles) < 3 {
		return true
	}
	allow := map[string]struct{}{}
	for _, ns := range m.Filters.AllowedNS {
		allow[util.CaseFold(ns)] = struct{}{}
	}
	for _, h := range handles[1 : len(handles)-1] {
		name := m.Decorator.View.NodeName(h)
		attrs, ok := m.Decorator.Store.Attrs(name)
		if !ok {
			return false
		}
		if _, ok := allow[util.CaseFold(attrs.Namespace)]; !ok {
			return false
		}
	}
	return true
}

func (m PathResultManager) buildPath(handles []string) (model.Path, bool) {
	nodes := make([]model.Node, len(handles))
	for i, h := range handles {
		n, ok := m.Decorator.NodeFor(h)
		if !ok {
			return model.Path{}, false
		}
		nodes[i] = n
	}
	edges := make([]model.EdgeData, 0, len(handles)-1)
	for i := 0; i < len(handles)-1; i++ {
		e, ok := m.Decorator.EdgeFor(m.Filters, handles[i], handles[i+1])
		if !ok {
			return model.Path{}, false
		}
		edges = append(edges, e)
	}
	return model.Path{Nodes: nodes, Edges: edges}, true
}

// highestDegreeInterior returns the interior node (excluding the path's
// first and last handle) with the highest degree, weighted when the search
// is overall-weighted. Ties favor the node encountered earliest along the
// path, mirroring the underlying graph's iteration order.
func (m PathResultManager) highestDegreeInterior(path []string) (string, bool) {
	if len(path) < 3 {
		return "", false
	}
	best := ""
	bestDeg := -1.0
	for _, h := range path[1 : len(path)-1] {
		d := m.degree(h)
		if d > bestDeg {
			bestDeg = d
			best = h
		}
	}
	if best == "" {
		return "", false
	}
	return best, true
}

func (m PathResultManager) degree(handle string) float64 {
	succ, _ := m.Decorator.View.Successors(handle)
	pred, _ := m.Decorator.View.Predecessors(handle)
	if !m.Filters.OverallWeighted {
		return float64(len(succ) + len(pred))
	}
	var sum float64
	for _, v := range succ {
		if a, ok := m.Decorator.View.EdgeAttrs(handle, v); ok {
			sum += a.Weight
		}
	}
	for _, u := range pred {
		if a, ok := m.Decorator.View.EdgeAttrs(u, handle); ok {
			sum += a.Weight
		}
	}
	return sum
}

func reverseHandles(in []string) []string {
	out := make([]string, len(in))
	for i, h := range in {
		out[len(in)-1-i] = h
	}
	return out
}

// Package planner implements the query planner (SPEC_FULL.md section 4.3):
// given a validated search specification, it produces a map from role to a
// tagged Query variant, ready for the response assembler to dispatch to the
// matching algorithm adapter.
package planner

import (
	"github.com/indralab/network-search/internal/apperror"
	"github.com/indralab/network-search/internal/spec"
)

// Role names one query's purpose within a response: the primary path
// query, its reverse counterpart, or one of the auxiliary result sets.
type Role string

const (
	RolePrimary          Role = "primary"
	RoleReverse          Role = "reverse"
	RoleSharedTargets    Role = "shared_targets"
	RoleSharedRegulators Role = "shared_regulators"
	RoleOntology         Role = "ontology"
	RoleSubgraph         Role = "subgraph"
)

// Kind tags which algorithm family a Query dispatches to. Modeling the five
// families as a tagged variant (rather than a class hierarchy per family)
// keeps the planner and the assembler's per-variant dispatch in one place
// each (SPEC_FULL.md design note on polymorphism over algorithms).
type Kind string

const (
	KindShortestSimplePaths Kind = "shortest_simple_paths"
	KindBFS                 Kind = "bfs"
	KindDijkstra            Kind = "dijkstra"
	KindSharedInteractors   Kind = "shared_interactors"
	KindSharedParents       Kind = "shared_parents"
	KindSubgraph            Kind = "subgraph"
)

// Query is the tagged variant the assembler dispatches on. Not every field
// is meaningful for every Kind; the adapters read only the fields their
// family needs.
type Query struct {
	Kind Role
	Alg  Kind

	Source string
	Target string
	// Reverse, for BFS/Dijkstra, means traverse predecessors instead of
	// successors; for ShortestSimplePaths it means Source/Target were
	// already swapped by the caller.
	Reverse    bool
	Weighted   bool
	Regulators bool

	Filters spec.FilterSet

	SubgraphNodes []spec.SubgraphNode
}

// Plan maps a validated Spec to its primary path query plus zero or more
// auxiliary queries, following SPEC_FULL.md section 4.3.
func Plan(s *spec.Spec) (map[Role]Query, error) {
	if s.IsSubgraphRequest() {
		return map[Role]Query{
			RoleSubgraph: {Kind: RoleSubgraph, Alg: KindSubgraph, SubgraphNodes: s.SubgraphNodes, Filters: spec.NewFilterSet(s)},
		}, nil
	}

	filters := spec.NewFilterSet(s)
	plan := map[Role]Query{}

	switch {
	case s.Source != "" && s.Target != "":
		plan[RolePrimary] = Query{
			Kind: RolePrimary, Alg: KindShortestSimplePaths,
			Source: s.Source, Target: s.Target, Weighted: s.OverallWeighted(), Filters: filters,
		}
		plan[RoleSharedTargets] = Query{
			Kind: RoleSharedTargets, Alg: KindSharedInteractors,
			Source: s.Source, Target: s.Target, Regulators: false, Filters: filters,
		}
		plan[RoleOntology] = Query{Kind: RoleOntology, Alg: KindSharedParents, Source: s.Source, Target: s.Target, Filters: filters}
		if s.SharedRegulators {
			plan[RoleSharedRegulators] = Query{
				Kind: RoleSharedRegulators, Alg: KindSharedInteractors,
				Source: s.Source, Target: s.Target, Regulators: true, Filters: filters,
			}
		}
		if s.TwoWay {
			r := s.Reverse()
			plan[RoleReverse] = Query{
				Kind: RoleReverse, Alg: KindShortestSimplePaths,
				Source: r.Source, Target: r.Target, Weighted: r.OverallWeighted(), Filters: spec.NewFilterSet(r),
			}
		}

	case s.Source != "" || s.Target != "":
		start := s.Source
		reverse := false
		if start == "" {
			start = s.Target
			reverse = true
		}
		alg := KindBFS
		if s.OverallWeighted() {
			alg = KindDijkstra
		}
		openQuery := func(role Role, rev bool) Query {
			q := Query{Kind: role, Alg: alg, Reverse: rev, Weighted: s.OverallWeighted(), Filters: filters}
			if rev {
				q.Target = start
			} else {
				q.Source = start
			}
			return q
		}
		plan[RolePrimary] = openQuery(RolePrimary, reverse)
		if s.TwoWay {
			plan[RoleReverse] = openQuery(RoleReverse, !reverse)
		}

	default:
		return nil, &apperror.ValidationError{Field: "source/target", Reason: "at least one of source or target is required"}
	}

	return plan, nil
}

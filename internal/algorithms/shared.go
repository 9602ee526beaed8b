package algorithms

import (
	"context"
	"sort"

	"github.com/indralab/network-search/internal/external"
	"github.com/indralab/network-search/internal/graphstore"
	"github.com/indralab/network-search/internal/model"
	"github.com/indralab/network-search/internal/util"
)

// SharedPair is one shared-neighbor result: the edge from the source side
// and the edge from the target side to the same neighbor x.
type SharedPair struct {
	SourceEdge [2]string
	TargetEdge [2]string
	Neighbor   string
}

// SharedInteractorsArgs is the fixed argument bundle for the
// SharedInteractors family (SPEC_FULL.md section 4.2), grounded directly on
// the original shared_interactors pathfinding routine.
type SharedInteractorsArgs struct {
	Store         *graphstore.Store
	Source        string
	Target        string
	AllowedNS     []string
	StmtTypes     []string
	SourceFilter  []string
	MaxResults    int
	Regulators    bool
	Sign          *int
	HashBlacklist []int64
	NodeBlacklist []string
	BeliefCutoff  float64
	CuratedOnly   bool
}

// SharedInteractors returns shared downstream targets (Regulators=false) or
// shared upstream regulators (Regulators=true) of Source and Target, sorted
// by the min of each side's maximum supporting belief, descending.
func SharedInteractors(args SharedInteractorsArgs) ([]SharedPair, error) {
	neigh := args.Store.Successors
	if args.Regulators {
		neigh = args.Store.Predecessors
	}
	sNeigh, err := neigh(args.Source)
	if err != nil {
		return nil, err
	}
	tNeigh, err := neigh(args.Target)
	if err != nil {
		return nil, err
	}

	sSet := toSet(sNeigh)
	tSet := toSet(tNeigh)

	if len(args.NodeBlacklist) > 0 {
		bl := toSet(args.NodeBlacklist)
		sSet = subtract(sSet, bl)
		tSet = subtract(tSet, bl)
	}
	if len(args.AllowedNS) > 0 {
		allow := toSet(args.AllowedNS)
		sSet = filterByNS(sSet, args.Store, allow)
		tSet = filterByNS(tSet, args.Store, allow)
	}
	if len(args.StmtTypes) > 0 {
		sSet = filterByStmtType(sSet, args.Store, args.Source, args.Regulators, args.StmtTypes)
		tSet = filterByStmtType(tSet, args.Store, args.Target, args.Regulators, args.StmtTypes)
	}
	if args.CuratedOnly {
		sSet = filterCurated(sSet, args.Store, args.Source, args.Regulators)
		tSet = filterCurated(tSet, args.Store, args.Target, args.Regulators)
	}
	if len(args.HashBlacklist) > 0 {
		bl := toInt64Set(args.HashBlacklist)
		sSet = filterHashBlacklist(sSet, args.Store, args.Source, args.Regulators, bl)
		tSet = filterHashBlacklist(tSet, args.Store, args.Target, args.Regulators, bl)
	}
	if args.BeliefCutoff > 0 {
		sSet = filterBelief(sSet, args.Store, args.Source, args.Regulators, args.BeliefCutoff)
		tSet = filterBelief(tSet, args.Store, args.Target, args.Regulators, args.BeliefCutoff)
	}

	intermediates := intersect(sSet, tSet)

	if args.Sign != nil {
		intermediates = filterBySign(intermediates, args.Store, args.Source, args.Target, args.Regulators, *args.Sign)
	}

	ordered := sortByMinMaxBelief(intermediates, args.Store, args.Source, args.Target, args.Regulators)

	max := args.MaxResults
	if max <= 0 || max > len(ordered) {
		max = len(ordered)
	}

	pairs := make([]SharedPair, 0, max)
	for _, x := range ordered[:max] {
		if args.Regulators {
			pairs = append(pairs, SharedPair{SourceEdge: [2]string{x, args.Source}, TargetEdge: [2]string{x, args.Target}, Neighbor: x})
		} else {
			pairs = append(pairs, SharedPair{SourceEdge: [2]string{args.Source, x}, TargetEdge: [2]string{args.Target, x}, Neighbor: x})
		}
	}
	return pairs, nil
}

func toSet(items []string) map[string]struct{} {
	s := make(map[string]struct{}, len(items))
	for _, i := range items {
		s[i] = struct{}{}
	}
	return s
}

func toInt64Set(items []int64) map[int64]struct{} {
	s := make(map[int64]struct{}, len(items))
	for _, i := range items {
		s[i] = struct{}{}
	}
	return s
}

func subtract(a, b map[string]struct{}) map[string]struct{} {
	out := map[string]struct{}{}
	for k := range a {
		if _, ok := b[k]; !ok {
			out[k] = struct{}{}
		}
	}
	return out
}

func intersect(a, b map[string]struct{}) map[string]struct{} {
	out := map[string]struct{}{}
	for k := range a {
		if _, ok := b[k]; ok {
			out[k] = struct{}{}
		}
	}
	return out
}

func filterByNS(set map[string]struct{}, store *graphstore.Store, allow map[string]struct{}) map[string]struct{} {
	out := map[string]struct{}{}
	for n := range set {
		attrs, ok := store.Attrs(n)
		if !ok {
			continue
		}
		if _, ok := allow[util.CaseFold(attrs.Namespace)]; ok {
			out[n] = struct{}{}
		}
	}
	return out
}

func edgeFor(store *graphstore.Store, anchor, n string, regulators bool) (graphstore.EdgeAttrs, bool) {
	if regulators {
		return store.EdgeAttrs(n, anchor)
	}
	return store.EdgeAttrs(anchor, n)
}

func filterByStmtType(set map[string]struct{}, store *graphstore.Store, anchor string, regulators bool, types []string) map[string]struct{} {
	allow := toSet(types)
	out := map[string]struct{}{}
	for n := range set {
		attrs, ok := edgeFor(store, anchor, n, regulators)
		if !ok {
			continue
		}
		for stype := range attrs.Statements {
			if _, ok := allow[util.CaseFold(stype)]; ok {
				out[n] = struct{}{}
				break
			}
		}
	}
	return out
}

func filterCurated(set map[string]struct{}, store *graphstore.Store, anchor string, regulators bool) map[string]struct{} {
	out := map[string]struct{}{}
	for n := range set {
		attrs, ok := edgeFor(store, anchor, n, regulators)
		if !ok {
			continue
		}
		for _, stmts := range attrs.Statements {
			for _, s := range stmts {
				if s.Curated {
					out[n] = struct{}{}
				}
			}
		}
	}
	return out
}

func filterHashBlacklist(set map[string]struct{}, store *graphstore.Store, anchor string, regulators bool, blacklist map[int64]struct{}) map[string]struct{} {
	out := map[string]struct{}{}
	for n := range set {
		attrs, ok := edgeFor(store, anchor, n, regulators)
		if !ok {
			continue
		}
		for _, stmts := range attrs.Statements {
			for _, s := range stmts {
				if _, blocked := blacklist[s.StmtHash]; !blocked {
					out[n] = struct{}{}
				}
			}
		}
	}
	return out
}

func filterBelief(set map[string]struct{}, store *graphstore.Store, anchor string, regulators bool, cutoff float64) map[string]struct{} {
	out := map[string]struct{}{}
	for n := range set {
		attrs, ok := edgeFor(store, anchor, n, regulators)
		if !ok {
			continue
		}
		for _, stmts := range attrs.Statements {
			for _, s := range stmts {
				if s.Belief > cutoff {
					out[n] = struct{}{}
				}
			}
		}
	}
	return out
}

// filterBySign keeps a shared neighbor only if its two supporting edges
// combine to the requested overall sign: sign 0 (up) requires the two edges
// to carry the same polarity, sign 1 (down) requires them to differ.
func filterBySign(set map[string]struct{}, store *graphstore.Store, source, target string, regulators bool, sign int) map[string]struct{} {
	out := map[string]struct{}{}
	for n := range set {
		sAttrs, sOK := edgeFor(store, source, n, regulators)
		tAttrs, tOK := edgeFor(store, target, n, regulators)
		if !sOK || !tOK || sAttrs.Sign == nil || tAttrs.Sign == nil {
			continue
		}
		same := *sAttrs.Sign == *tAttrs.Sign
		if (sign == model.SignPlus) == same {
			out[n] = struct{}{}
		}
	}
	return out
}

func sortByMinMaxBelief(set map[string]struct{}, store *graphstore.Store, source, target string, regulators bool) []string {
	type scored struct {
		name  string
		score float64
	}
	scoreds := make([]scored, 0, len(set))
	for n := range set {
		sMax := maxBelief(store, source, n, regulators)
		tMax := maxBelief(store, target, n, regulators)
		m := sMax
		if tMax < m {
			m = tMax
		}
		scoreds = append(scoreds, scored{name: n, score: m})
	}
	sort.Slice(scoreds, func(i, j int) bool {
		if scoreds[i].score != scoreds[j].score {
			return scoreds[i].score > scoreds[j].score
		}
		return scoreds[i].name < scoreds[j].name
	})
	out := make([]string, len(scoreds))
	for i, s := range scoreds {
		out[i] = s.name
	}
	return out
}

func maxBelief(store *graphstore.Store, anchor, n string, regulators bool) float64 {
	attrs, ok := edgeFor(store, anchor, n, regulators)
	if !ok {
		return 0
	}
	var max float64
	for _, stmts := range attrs.Statements {
		for _, s := range stmts {
			if s.Belief > max {
				max = s.Belief
			}
		}
	}
	return max
}

// SharedParentsArgs is the fixed argument bundle for the SharedParents
// family.
type SharedParentsArgs struct {
	Ontology      external.OntologyService
	SourceNS      string
	SourceID      string
	TargetNS      string
	TargetID      string
	ImmediateOnly bool
	LabelAllow    map[string]struct{}
	MaxResults    int
}

// SharedParents delegates to the ontology service and returns its Nodes,
// already sorted by (name, namespace, identifier).
func SharedParents(ctx context.Context, args SharedParentsArgs) ([]model.Node, error) {
	parents, err := args.Ontology.SharedParents(ctx, args.SourceNS, args.SourceID, args.TargetNS, args.TargetID,
		args.ImmediateOnly, args.LabelAllow, args.MaxResults)
	if err != nil {
		return nil, err
	}
	out := make([]model.Node, len(parents))
	for i, p := range parents {
		out[i] = model.Node{Name: p.Name, Namespace: p.Namespace, Identifier: p.Identifier, Lookup: p.URL}
	}
	return out, nil
}

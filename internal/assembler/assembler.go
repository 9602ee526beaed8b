// Package assembler implements the response assembler (SPEC_FULL.md section
// 4.5 / C7): it runs a plan's auxiliary queries, then its primary path query
// and reverse counterpart, dispatching each to the matching algorithm
// adapter and result manager, and packs the results into the response
// model.
package assembler

import (
	"context"
	"log/slog"
	"time"

	"github.com/indralab/network-search/internal/algorithms"
	"github.com/indralab/network-search/internal/apperror"
	"github.com/indralab/network-search/internal/external"
	"github.com/indralab/network-search/internal/graphstore"
	netsearchlog "github.com/indralab/network-search/internal/log"
	"github.com/indralab/network-search/internal/metrics"
	"github.com/indralab/network-search/internal/model"
	"github.com/indralab/network-search/internal/planner"
	"github.com/indralab/network-search/internal/resultmanager"
	"github.com/indralab/network-search/internal/spec"
	"github.com/indralab/network-search/internal/util"
	"golang.org/x/sync/errgroup"
)

// Assembler holds the collaborators a request needs beyond the spec itself:
// the graph store and the three external services spec.md section 1
// declares out of scope for the core.
type Assembler struct {
	Store     *graphstore.Store
	Ontology  external.OntologyService
	URLs      external.IdentifierURLService
	RefCounts external.MeshRefCountService
}

// Handle plans and executes s. For a subgraph request it returns
// (nil, subgraphResults, nil); for a path-finding request it returns
// (response, nil, nil). Exactly one of the two return values is non-nil on
// success.
func (a Assembler) Handle(ctx context.Context, s *spec.Spec) (*model.Response, *model.SubgraphResults, error) {
	plan, err := planner.Plan(s)
	if err != nil {
		return nil, nil, err
	}

	if q, ok := plan[planner.RoleSubgraph]; ok {
		r := a.runSubgraph(ctx, q)
		return nil, &r, nil
	}

	hash, err := s.Hash()
	if err != nil {
		return nil, nil, err
	}

	deadline := time.Now().Add(time.Duration(s.UserTimeout * float64(time.Second)))
	qctx, cancel := context.WithDeadline(ctx, deadline)
	defer cancel()

	resp := &model.Response{QueryHash: hash, TimeLimit: s.UserTimeout}
	requestStarted := time.Now()
	var algLogs []netsearchlog.AlgorithmLog

	// Auxiliary queries run before the primary path query (SPEC_FULL.md
	// section 4.5) and independently of one another, so they fan out on an
	// errgroup rather than running strictly sequentially.
	var aux errgroup.Group
	if q, ok := plan[planner.RoleSharedTargets]; ok {
		aux.Go(func() error {
			r := a.runSharedInteractors(qctx, s, q)
			resp.SharedTargets = &r
			return nil
		})
	}
	if q, ok := plan[planner.RoleSharedRegulators]; ok {
		aux.Go(func() error {
			r := a.runSharedInteractors(qctx, s, q)
			resp.SharedRegulators = &r
			return nil
		})
	}
	if q, ok := plan[planner.RoleOntology]; ok {
		aux.Go(func() error {
			r, err := a.runOntology(qctx, s, q)
			if err != nil {
				slog.WarnContext(ctx, "ontology lookup failed", "error", err)
				return nil
			}
			resp.Ontology = &r
			return nil
		})
	}
	_ = aux.Wait()

	if q, ok := plan[planner.RolePrimary]; ok {
		r, alog := a.runPathQuery(qctx, s, q)
		resp.ForwardPath = &r
		algLogs = append(algLogs, alog)
	}
	if q, ok := plan[planner.RoleReverse]; ok {
		r, alog := a.runPathQuery(qctx, s, q)
		resp.ReversePath = &r
		algLogs = append(algLogs, alog)
	}

	if qctx.Err() != nil {
		resp.TimedOut = true
	}

	netsearchlog.WriteUsageLog(netsearchlog.UsageLog{
		QueryHash:  hash,
		ElapsedMs:  time.Since(requestStarted).Milliseconds(),
		TimedOut:   resp.TimedOut,
		Algorithms: algLogs,
	})
	return resp, nil, nil
}

// handles resolves a query's Source/Target to graph-store handles under the
// sign-lifting convention (SPEC_FULL.md section 4.4.1): for two-endpoint
// searches the source is always lifted to sign 0 (up) and the target to the
// requested sign; for open searches the start carries sign 0 unless the
// search is reversed (started from the target), in which case it carries
// the requested sign.
func (a Assembler) handles(s *spec.Spec, q planner.Query) (view graphstore.View, source, target string, signed bool) {
	if s.Sign == spec.SignAbsent {
		return a.Store.UnsignedView(), q.Source, q.Target, false
	}

	requested := model.SignPlus
	if s.Sign == spec.SignDown {
		requested = model.SignMinus
	}

	view = a.Store.SignedView()
	if q.Source != "" && q.Target != "" {
		source = graphstore.EncodeSigned(model.SignedNodeRef{Name: q.Source, Sign: model.SignPlus})
		target = graphstore.EncodeSigned(model.SignedNodeRef{Name: q.Target, Sign: requested})
		return view, source, target, true
	}

	startSign := model.SignPlus
	if q.Reverse {
		startSign = requested
	}
	if q.Source != "" {
		source = graphstore.EncodeSigned(model.SignedNodeRef{Name: q.Source, Sign: startSign})
	} else {
		target = graphstore.EncodeSigned(model.SignedNodeRef{Name: q.Target, Sign: startSign})
	}
	return view, source, target, true
}

// signedNodeBlacklist lifts a plain-name blacklist to both signed variants
// of each name, per SPEC_FULL.md's REDESIGN FLAG C.5.
func signedNodeBlacklist(names []string) map[string]struct{} {
	out := map[string]struct{}{}
	for _, n := range names {
		out[graphstore.EncodeSigned(model.SignedNodeRef{Name: n, Sign: model.SignPlus})] = struct{}{}
		out[graphstore.EncodeSigned(model.SignedNodeRef{Name: n, Sign: model.SignMinus})] = struct{}{}
	}
	return out
}

func plainNodeBlacklist(names []string) map[string]struct{} {
	out := make(map[string]struct{}, len(names))
	for _, n := range names {
		out[n] = struct{}{}
	}
	return out
}

func (a Assembler) decoratorFor(view graphstore.View, signed bool) resultmanager.Decorator {
	return resultmanager.Decorator{Store: a.Store, View: view, URLs: a.URLs, Signed: signed}
}

func (a Assembler) runPathQuery(ctx context.Context, s *spec.Spec, q planner.Query) (model.PathResultData, netsearchlog.AlgorithmLog) {
	view, source, target, signed := a.handles(s, q)
	dec := a.decoratorFor(view, signed)

	var sourceNode, targetNode *model.Node
	if source != "" {
		if n, ok := dec.NodeFor(source); ok {
			sourceNode = &n
		} else {
			sourceNode = &model.Node{Name: q.Source}
		}
	}
	if target != "" {
		if n, ok := dec.NodeFor(target); ok {
			targetNode = &n
		} else {
			targetNode = &model.Node{Name: q.Target}
		}
	}

	blacklist := plainNodeBlacklist(q.Filters.NodeBlacklist)
	if signed {
		blacklist = signedNodeBlacklist(q.Filters.NodeBlacklist)
	}

	var it *algorithms.PathIterator
	var familyFilters spec.FilterSet
	reverseOpen := false

	switch q.Alg {
	case planner.KindShortestSimplePaths:
		it = algorithms.ShortestSimplePaths(algorithms.ShortestSimplePathsArgs{
			Graph: blockedView{view, blacklist, map[string]struct{}{source: {}, target: {}}}, Source: source, Target: target,
			Weighted: q.Weighted, MaxResults: q.Filters.MaxPaths,
		})
		familyFilters = q.Filters.WithoutNodeBlacklist()

	case planner.KindBFS:
		depthLimit := s.DepthLimit
		if s.PathLength > 0 && s.PathLength > depthLimit+1 {
			slog.WarnContext(ctx, "raising depth_limit to satisfy path_length", "path_length", s.PathLength, "depth_limit", depthLimit)
			depthLimit = s.PathLength - 1
		}
		start := source
		reverseOpen = q.Reverse
		if reverseOpen {
			start = target
		}
		edgeOK := a.bfsEdgeOK(ctx, s, q.Filters)
		it = algorithms.BFS(algorithms.BFSArgs{
			Graph: view, Start: start, Reverse: reverseOpen, DepthLimit: depthLimit, MaxPerNode: s.MaxPerNode,
			NodeOK: a.nodeOK(blacklist, q.Filters, true),
			EdgeOK: edgeOK,
		})
		familyFilters = q.Filters.WithoutNodeBlacklist().WithoutAllowedNS().WithoutTerminalNS().
			WithoutStmtFilters().WithoutBeliefAndCurated().WithoutPathLength()

	case planner.KindDijkstra:
		start := source
		reverseOpen = q.Reverse
		if reverseOpen {
			start = target
		}
		it = algorithms.Dijkstra(algorithms.DijkstraArgs{
			Graph: view, Start: start, Reverse: reverseOpen, Weighted: q.Weighted,
			NodeOK: a.nodeOK(blacklist, q.Filters, false),
		})
		familyFilters = q.Filters.WithoutNodeBlacklist().WithoutTerminalNS()
	}

	prm := resultmanager.PathResultManager{
		Decorator: dec, Filters: familyFilters, Source: sourceNode, Target: targetNode, ReverseOpen: reverseOpen,
	}
	started := time.Now()
	result := prm.Run(ctx, it)

	total := 0
	for _, paths := range result.Paths {
		total += len(paths)
	}
	timedOut := ctx.Err() != nil
	capReached := q.Filters.MaxPaths > 0 && total >= q.Filters.MaxPaths
	metrics.RecordQuery(string(q.Alg), time.Since(started), total, timedOut, capReached)
	return result, netsearchlog.AlgorithmLog{
		AlgName:    string(q.Alg),
		ResultsN:   total,
		TimedOut:   timedOut,
		CapReached: capReached,
	}
}

// nodeOK builds the NodeOK predicate BFS/Dijkstra use to enforce the node
// blacklist, the terminal-namespace blacklist (spec.md section 4.1's
// terminal_ns), and, for BFS, the allowed-namespace filter, all internally.
func (a Assembler) nodeOK(blacklist map[string]struct{}, fs spec.FilterSet, checkNS bool) func(string) bool {
	var allow map[string]struct{}
	if checkNS && len(fs.AllowedNS) > 0 {
		allow = map[string]struct{}{}
		for _, ns := range fs.AllowedNS {
			allow[ns] = struct{}{}
		}
	}
	var terminal map[string]struct{}
	if len(fs.TerminalNS) > 0 {
		terminal = map[string]struct{}{}
		for _, ns := range fs.TerminalNS {
			terminal[ns] = struct{}{}
		}
	}
	return func(handle string) bool {
		if _, blocked := blacklist[handle]; blocked {
			return false
		}
		if allow == nil && terminal == nil {
			return true
		}
		name := handle
		if i := indexOfSignSep(handle); i >= 0 {
			name = handle[:i]
		}
		attrs, ok := a.Store.Attrs(name)
		if !ok {
			return false
		}
		ns := util.CaseFold(attrs.Namespace)
		if allow != nil && !inSet(ns, allow) {
			return false
		}
		if terminal != nil && inSet(ns, terminal) {
			return false
		}
		return true
	}
}

func indexOfSignSep(handle string) int {
	for i := len(handle) - 1; i >= 0; i-- {
		if handle[i] == '|' {
			return i
		}
	}
	return -1
}

func inSet(v string, set map[string]struct{}) bool {
	_, ok := set[v]
	return ok
}

// bfsEdgeOK builds the per-edge predicate BFS enforces internally:
// statement-type allow-list, hash blacklist, belief cutoff, curated flag,
// and (when mesh_ids are set) the mesh-scoped edge allow-list described in
// SPEC_FULL.md's REDESIGN FLAG C.3.
func (a Assembler) bfsEdgeOK(ctx context.Context, s *spec.Spec, fs spec.FilterSet) func(u, v string) bool {
	var meshHashes map[int64]struct{}
	if len(s.MeshIDs) > 0 && a.RefCounts != nil {
		if rc, err := a.RefCounts.RefCounts(ctx, s.MeshIDs); err == nil {
			meshHashes = map[int64]struct{}{}
			for hash := range rc {
				meshHashes[hash] = struct{}{}
			}
		}
	}

	return func(u, v string) bool {
		attrs, ok := a.Store.EdgeAttrs(u, v)
		if !ok {
			attrs, ok = a.signedEdgeAttrs(u, v)
			if !ok {
				return false
			}
		}
		matched := false
		for stype, stmts := range attrs.Statements {
			if len(fs.ExcludeStmts) > 0 && !contains(fs.ExcludeStmts, util.CaseFold(stype)) {
				continue
			}
			for _, st := range stmts {
				if fs.CuratedDBOnly && !st.Curated {
					continue
				}
				if fs.BeliefCutoff > 0 && st.Belief <= fs.BeliefCutoff {
					continue
				}
				if blacklisted(fs.HashBlacklist, st.StmtHash) {
					continue
				}
				if meshHashes != nil {
					if _, ok := meshHashes[st.StmtHash]; !ok {
						continue
					}
				}
				matched = true
			}
		}
		return matched
	}
}

func (a Assembler) signedEdgeAttrs(u, v string) (graphstore.EdgeAttrs, bool) {
	uRef, err1 := graphstore.DecodeSigned(u)
	vRef, err2 := graphstore.DecodeSigned(v)
	if err1 != nil || err2 != nil {
		return graphstore.EdgeAttrs{}, false
	}
	return a.Store.SignedEdgeAttrs(uRef, vRef)
}

func contains(strs []string, target string) bool {
	for _, s := range strs {
		if s == target {
			return true
		}
	}
	return false
}

func blacklisted(hashes []int64, h int64) bool {
	for _, x := range hashes {
		if x == h {
			return true
		}
	}
	return false
}

func (a Assembler) runSharedInteractors(ctx context.Context, s *spec.Spec, q planner.Query) model.SharedInteractorsResults {
	var sign *int
	if s.Sign != spec.SignAbsent {
		v := model.SignPlus
		if s.Sign == spec.SignDown {
			v = model.SignMinus
		}
		sign = &v
	}
	pairs, err := algorithms.SharedInteractors(algorithms.SharedInteractorsArgs{
		Store: a.Store, Source: q.Source, Target: q.Target,
		AllowedNS: q.Filters.AllowedNS, StmtTypes: q.Filters.ExcludeStmts,
		MaxResults: q.Filters.MaxPaths, Regulators: q.Regulators, Sign: sign,
		HashBlacklist: q.Filters.HashBlacklist, NodeBlacklist: q.Filters.NodeBlacklist,
		BeliefCutoff: q.Filters.BeliefCutoff, CuratedOnly: q.Filters.CuratedDBOnly,
	})
	if err != nil {
		slog.WarnContext(ctx, "shared interactors failed", "error", err)
		return model.SharedInteractorsResults{Downstream: !q.Regulators}
	}
	dec := a.decoratorFor(a.Store.UnsignedView(), false)
	mgr := resultmanager.SharedInteractorsResultManager{
		Decorator: dec, Filters: q.Filters.WithoutNodeBlacklist().WithoutAllowedNS(), Downstream: !q.Regulators,
	}
	return mgr.Run(ctx, pairs)
}

func (a Assembler) runOntology(ctx context.Context, s *spec.Spec, q planner.Query) (model.OntologyResults, error) {
	if a.Ontology == nil {
		return model.OntologyResults{}, &apperror.MissingParametersError{AlgName: "SharedParents", Param: "ontology service"}
	}
	srcAttrs, srcOK := a.Store.Attrs(q.Source)
	tgtAttrs, tgtOK := a.Store.Attrs(q.Target)
	if !srcOK || !tgtOK {
		return model.OntologyResults{}, nil
	}
	parents, err := algorithms.SharedParents(ctx, algorithms.SharedParentsArgs{
		Ontology: a.Ontology, SourceNS: srcAttrs.Namespace, SourceID: srcAttrs.Identifier,
		TargetNS: tgtAttrs.Namespace, TargetID: tgtAttrs.Identifier, MaxResults: q.Filters.MaxPaths,
	})
	if err != nil {
		return model.OntologyResults{}, err
	}
	mgr := resultmanager.OntologyResultManager{
		Source: model.Node{Name: q.Source, Namespace: srcAttrs.Namespace, Identifier: srcAttrs.Identifier},
		Target: model.Node{Name: q.Target, Namespace: tgtAttrs.Namespace, Identifier: tgtAttrs.Identifier},
	}
	return mgr.Run(ctx, parents), nil
}

func (a Assembler) runSubgraph(ctx context.Context, q planner.Query) model.SubgraphResults {
	resolved := algorithms.ResolveSubgraphNodes(a.Store, q.SubgraphNodes)
	edges, err := algorithms.SubgraphEdges(a.Store, resolved)
	if err != nil {
		slog.WarnContext(ctx, "subgraph edges failed", "error", err)
	}
	dec := a.decoratorFor(a.Store.UnsignedView(), false)
	mgr := resultmanager.SubgraphResultManager{Decorator: dec, Filters: q.Filters}
	return mgr.Run(ctx, resolved, edges)
}

// blockedView wraps a View, excluding blacklisted handles from Successors
// and Predecessors (except those in keep, the search endpoints, which are
// never excludable).
type blockedView struct {
	graphstore.View
	blacklist map[string]struct{}
	keep      map[string]struct{}
}

func (v blockedView) Successors(handle string) ([]string, error) {
	return v.filtered(v.View.Successors(handle))
}

func (v blockedView) Predecessors(handle string) ([]string, error) {
	return v.filtered(v.View.Predecessors(handle))
}

func (v blockedView) filtered(handles []string, err error) ([]string, error) {
	if err != nil {
		return nil, err
	}
	out := make([]string, 0, len(handles))
	for _, h := range handles {
		if _, blocked := v.blacklist[h]; blocked {
			if _, kept := v.keep[h]; !kept {
				continue
			}
		}
		out = append(out, h)
	}
	return out, nil
}

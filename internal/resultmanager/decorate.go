// Package resultmanager implements the per-algorithm-family result
// managers (SPEC_FULL.md section 4.4): each wraps a lazy raw result stream,
// applies the filters its algorithm did not already enforce, decorates
// nodes and edges with graph-store metadata, and stops at the first
// deadline or result-cap hit.
package resultmanager

import (
	"github.com/indralab/network-search/internal/external"
	"github.com/indralab/network-search/internal/graphstore"
	"github.com/indralab/network-search/internal/model"
	"github.com/indralab/network-search/internal/spec"
	"github.com/indralab/network-search/internal/util"
)

// Decorator holds the shared node/edge decoration helpers every result
// manager uses (SPEC_FULL.md section 4.4's "they share decoration
// helpers").
type Decorator struct {
	Store  *graphstore.Store
	View   graphstore.View
	URLs   external.IdentifierURLService
	Signed bool
}

// NodeFor builds a Node from a graph handle, populated from the store's
// node attributes, or false if the handle is not in the graph.
func (d Decorator) NodeFor(handle string) (model.Node, bool) {
	name := d.View.NodeName(handle)
	attrs, ok := d.Store.Attrs(name)
	if !ok {
		return model.Node{}, false
	}
	n := model.Node{Name: attrs.Name, Namespace: attrs.Namespace, Identifier: attrs.Identifier}
	if url, ok := d.URLs.URL(attrs.Namespace, attrs.Identifier); ok {
		n.Lookup = url
	}
	if d.Signed {
		if ref, err := graphstore.DecodeSigned(handle); err == nil {
			sign := ref.Sign
			n.Sign = &sign
		}
	}
	return n, true
}

// FilterStatement applies the filter set's statement-level predicates in
// order (cheapest first): type inclusion, belief cutoff, curated flag,
// hash blacklist. Returns ok=false to drop the statement.
func FilterStatement(fs spec.FilterSet, s model.StmtData) bool {
	if len(fs.ExcludeStmts) > 0 {
		if !util.StringContainedIn(util.CaseFold(s.StmtType), fs.ExcludeStmts) {
			return false
		}
	}
	if fs.BeliefCutoff > 0 && s.Belief <= fs.BeliefCutoff {
		return false
	}
	if fs.CuratedDBOnly && !s.Curated {
		return false
	}
	if len(fs.HashBlacklist) > 0 {
		for _, h := range fs.HashBlacklist {
			if h == s.StmtHash {
				return false
			}
		}
	}
	return true
}

// EdgeFor fetches the edge (u, v)'s attributes, filters its statements,
// and assembles a model.EdgeData. ok=false when the edge has no surviving
// statements (or does not exist), per the invariant that an edge with no
// statements must never be handed to a caller.
func (d Decorator) EdgeFor(fs spec.FilterSet, u, v string) (model.EdgeData, bool) {
	attrs, ok := d.View.EdgeAttrs(u, v)
	if !ok {
		return model.EdgeData{}, false
	}

	uNode, uOK := d.NodeFor(u)
	vNode, vOK := d.NodeFor(v)
	if !uOK || !vOK {
		return model.EdgeData{}, false
	}

	surviving := map[string][]model.StmtData{}
	for stype, stmts := range attrs.Statements {
		for _, s := range stmts {
			if !FilterStatement(fs, s) {
				continue
			}
			surviving[stype] = append(surviving[stype], s)
		}
	}
	if len(surviving) == 0 {
		return model.EdgeData{}, false
	}

	edge := model.EdgeData{
		Edge:          [2]model.Node{uNode, vNode},
		Statements:    surviving,
		Belief:        attrs.Belief,
		Weight:        attrs.Weight,
		ContextWeight: attrs.ContextWeight,
		URL:           model.EdgeURL(uNode.Namespace, uNode.Identifier, vNode.Namespace, vNode.Identifier),
	}
	if d.Signed && uNode.Sign != nil && vNode.Sign != nil {
		sign := *uNode.Sign ^ *vNode.Sign
		edge.Sign = &sign
	} else if attrs.Sign != nil {
		sign := *attrs.Sign
		edge.Sign = &sign
	}
	return edge, true
}

// ontologySentinel is the family-relationship statement type the subgraph
// result manager drops edges for when it is the edge's only supporting
// statement type.
const ontologySentinel = "fplx"

// EdgeByHashFor is the subgraph-query variant of EdgeFor: statements are
// keyed by statement hash rather than grouped by type, and an edge whose
// only surviving statement type is the ontology-family sentinel ("fplx") is
// dropped.
func (d Decorator) EdgeByHashFor(fs spec.FilterSet, u, v string) (model.EdgeDataByHash, bool) {
	attrs, ok := d.View.EdgeAttrs(u, v)
	if !ok {
		return model.EdgeDataByHash{}, false
	}
	uNode, uOK := d.NodeFor(u)
	vNode, vOK := d.NodeFor(v)
	if !uOK || !vOK {
		return model.EdgeDataByHash{}, false
	}

	byHash := map[int64]model.StmtData{}
	types := map[string]struct{}{}
	for stype, stmts := range attrs.Statements {
		for _, s := range stmts {
			if !FilterStatement(fs, s) {
				continue
			}
			byHash[s.StmtHash] = s
			types[stype] = struct{}{}
		}
	}
	if len(byHash) == 0 {
		return model.EdgeDataByHash{}, false
	}
	if len(types) == 1 {
		if _, onlyFplx := types[ontologySentinel]; onlyFplx {
			return model.EdgeDataByHash{}, false
		}
	}

	edge := model.EdgeDataByHash{
		Edge:             [2]model.Node{uNode, vNode},
		StatementsByHash: byHash,
		Belief:           attrs.Belief,
		Weight:           attrs.Weight,
		ContextWeight:    attrs.ContextWeight,
		URL:              model.EdgeURL(uNode.Namespace, uNode.Identifier, vNode.Namespace, vNode.Identifier),
	}
	if d.Signed && uNode.Sign != nil && vNode.Sign != nil {
		sign := *uNode.Sign ^ *vNode.Sign
		edge.Sign = &sign
	} else if attrs.Sign != nil {
		sign := *attrs.Sign
		edge.Sign = &sign
	}
	return edge, true
}

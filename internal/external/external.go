// Package external declares the contracts for the three collaborators the
// query pipeline calls out to but does not implement itself: ontology
// lookups, identifier-URL construction, and mesh-scoped reference counts
// (SPEC_FULL.md section 6 / spec.md section 1's "deliberately out of
// scope" list). Production wiring supplies real implementations; tests use
// the in-memory fakes in this package.
package external

import (
	"context"
	"sort"

	"github.com/indralab/network-search/internal/model"
)

// Parent is one shared-ontological-parent result.
type Parent struct {
	Name       string
	Namespace  string
	Identifier string
	URL        string
}

// OntologyService answers shared-parents queries.
type OntologyService interface {
	SharedParents(ctx context.Context, srcNS, srcID, tgtNS, tgtID string,
		immediateOnly bool, labelAllow map[string]struct{}, max int) ([]Parent, error)
}

// IdentifierURLService resolves a (namespace, identifier) pair to a lookup
// URL, when one is known.
type IdentifierURLService interface {
	URL(namespace, identifier string) (string, bool)
}

// RefCounts is the per-source and total evidence count for one statement
// hash, scoped to a set of mesh ids.
type RefCounts struct {
	BySource map[string]int
	Total    int
}

// MeshRefCountService answers mesh-scoped reference-count queries, used to
// derive both the permitted hash set for context-weighted searches and the
// ref-count callable passed into weighted algorithms.
type MeshRefCountService interface {
	RefCounts(ctx context.Context, meshIDs []string) (map[int64]RefCounts, error)
}

// StaticOntology is a fixed-table OntologyService, grounded on the parent
// ontology relation used by tests and small deployments where the full
// ontology graph is loaded once at start and never changes mid-process.
type StaticOntology struct {
	// Parents maps a (namespace, identifier) child to its direct parents.
	Parents map[[2]string][]Parent
}

func (o *StaticOntology) SharedParents(_ context.Context, srcNS, srcID, tgtNS, tgtID string,
	immediateOnly bool, labelAllow map[string]struct{}, max int) ([]Parent, error) {
	srcParents := o.ancestors(srcNS, srcID, immediateOnly)
	tgtParents := o.ancestors(tgtNS, tgtID, immediateOnly)

	tgtSet := map[[2]string]Parent{}
	for _, p := range tgtParents {
		tgtSet[[2]string{p.Namespace, p.Identifier}] = p
	}

	var shared []Parent
	seen := map[[2]string]bool{}
	for _, p := range srcParents {
		key := [2]string{p.Namespace, p.Identifier}
		if _, ok := tgtSet[key]; !ok || seen[key] {
			continue
		}
		if labelAllow != nil {
			if _, ok := labelAllow[p.Namespace+":"+p.Identifier]; !ok {
				continue
			}
		}
		seen[key] = true
		shared = append(shared, p)
	}

	sort.Slice(shared, func(i, j int) bool {
		if shared[i].Name != shared[j].Name {
			return shared[i].Name < shared[j].Name
		}
		if shared[i].Namespace != shared[j].Namespace {
			return shared[i].Namespace < shared[j].Namespace
		}
		return shared[i].Identifier < shared[j].Identifier
	})

	if max > 0 && len(shared) > max {
		shared = shared[:max]
	}
	return shared, nil
}

func (o *StaticOntology) ancestors(ns, id string, immediateOnly bool) []Parent {
	direct := o.Parents[[2]string{ns, id}]
	if immediateOnly {
		return direct
	}
	all := append([]Parent(nil), direct...)
	for _, p := range direct {
		all = append(all, o.ancestors(p.Namespace, p.Identifier, false)...)
	}
	return all
}

// DBIdentifierURL builds lookup URLs with model.EdgeURL's base, the default
// production IdentifierURLService.
type DBIdentifierURL struct{}

func (DBIdentifierURL) URL(namespace, identifier string) (string, bool) {
	if namespace == "" || identifier == "" {
		return "", false
	}
	return model.EdgeURL(namespace, identifier, namespace, identifier), true
}

// StaticRefCounts is a fixed-table MeshRefCountService for tests and small
// deployments.
type StaticRefCounts struct {
	ByMeshID map[string]map[int64]RefCounts
}

func (s *StaticRefCounts) RefCounts(_ context.Context, meshIDs []string) (map[int64]RefCounts, error) {
	out := map[int64]RefCounts{}
	for _, id := range meshIDs {
		for hash, rc := range s.ByMeshID[id] {
			existing, ok := out[hash]
			if !ok {
				out[hash] = rc
				continue
			}
			merged := RefCounts{BySource: map[string]int{}, Total: existing.Total + rc.Total}
			for k, v := range existing.BySource {
				merged.BySource[k] = v
			}
			for k, v := range rc.BySource {
				merged.BySource[k] += v
			}
			out[hash] = merged
		}
	}
	return out, nil
}

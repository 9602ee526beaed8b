package algorithms

import (
	"testing"

	"github.com/indralab/network-search/internal/graphstore"
	"github.com/indralab/network-search/internal/spec"
)

func twoNodeStore(t *testing.T) *graphstore.Store {
	t.Helper()
	s := graphstore.New()
	if err := s.AddNode(graphstore.NodeAttrs{Name: "BRCA1", Namespace: "HGNC", Identifier: "1100"}); err != nil {
		t.Fatal(err)
	}
	if err := s.AddNode(graphstore.NodeAttrs{Name: "BRCA2", Namespace: "HGNC", Identifier: "1101"}); err != nil {
		t.Fatal(err)
	}
	return s
}

func TestResolveSubgraphNodesResolvesByName(t *testing.T) {
	resolved := ResolveSubgraphNodes(twoNodeStore(t), []spec.SubgraphNode{{Name: "BRCA1"}})
	if len(resolved) != 1 || !resolved[0].InGraph || resolved[0].Handle != "BRCA1" {
		t.Fatalf("resolved = %+v, want a single in-graph BRCA1 entry", resolved)
	}
}

func TestResolveSubgraphNodesFallsBackToNamespaceIdentifier(t *testing.T) {
	resolved := ResolveSubgraphNodes(twoNodeStore(t), []spec.SubgraphNode{
		{Name: "old-alias", Namespace: "HGNC", Identifier: "1100"},
	})
	if len(resolved) != 1 || !resolved[0].InGraph {
		t.Fatalf("resolved = %+v, want a single in-graph entry", resolved)
	}
	if resolved[0].Handle != "BRCA1" {
		t.Errorf("Handle = %q, want the corrected handle BRCA1", resolved[0].Handle)
	}
	if resolved[0].RequestedName != "old-alias" {
		t.Errorf("RequestedName = %q, want the original request preserved", resolved[0].RequestedName)
	}
}

func TestResolveSubgraphNodesAbsentWhenNothingMatches(t *testing.T) {
	resolved := ResolveSubgraphNodes(twoNodeStore(t), []spec.SubgraphNode{
		{Name: "nope", Namespace: "HGNC", Identifier: "9999"},
	})
	if len(resolved) != 1 || resolved[0].InGraph {
		t.Fatalf("resolved = %+v, want a single absent entry", resolved)
	}
}

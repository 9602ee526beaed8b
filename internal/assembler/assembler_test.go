package assembler

import (
	"context"
	"testing"

	"github.com/indralab/network-search/internal/external"
	"github.com/indralab/network-search/internal/graphstore"
	"github.com/indralab/network-search/internal/model"
	"github.com/indralab/network-search/internal/spec"
)

// linearStore builds BRCA1 -> BRCA2 -> CHEK1, each edge carrying one
// Phosphorylation statement, for end-to-end path-query tests.
func linearStore(t *testing.T) *graphstore.Store {
	t.Helper()
	s := graphstore.New()
	for i, n := range []string{"BRCA1", "BRCA2", "CHEK1"} {
		if err := s.AddNode(graphstore.NodeAttrs{Name: n, Namespace: "HGNC", Identifier: string(rune('1' + i))}); err != nil {
			t.Fatal(err)
		}
	}
	for _, e := range [][2]string{{"BRCA1", "BRCA2"}, {"BRCA2", "CHEK1"}} {
		if err := s.AddEdge(e[0], e[1], graphstore.EdgeAttrs{
			Statements: map[string][]model.StmtData{
				"Phosphorylation": {model.NewStmtData("Phosphorylation", 4, 77, nil, 0.9, true, "")},
			},
			Belief: 0.9,
			Weight: 1.0,
		}); err != nil {
			t.Fatal(err)
		}
	}
	if err := s.BuildSignedGraph(func(graphstore.EdgeAttrs) int { return model.SignPlus }); err != nil {
		t.Fatal(err)
	}
	return s
}

func TestHandleShortestSimplePaths(t *testing.T) {
	a := Assembler{Store: linearStore(t), URLs: external.DBIdentifierURL{}}
	sp, err := spec.New(spec.Input{Source: "BRCA1", Target: "CHEK1"})
	if err != nil {
		t.Fatal(err)
	}

	resp, subgraph, err := a.Handle(context.Background(), sp)
	if err != nil {
		t.Fatalf("Handle() returned error: %v", err)
	}
	if subgraph != nil {
		t.Fatal("a two-endpoint search should not return subgraph results")
	}
	if resp.ForwardPath == nil {
		t.Fatal("ForwardPath is nil, want a populated path result")
	}
	if len(resp.ForwardPath.Paths[3]) != 1 {
		t.Fatalf("Paths[3] has %d entries, want 1", len(resp.ForwardPath.Paths[3]))
	}
	path := resp.ForwardPath.Paths[3][0]
	if path.Nodes[0].Name != "BRCA1" || path.Nodes[2].Name != "CHEK1" {
		t.Errorf("path = %+v, want BRCA1..CHEK1", path.Nodes)
	}
	if resp.SharedTargets == nil {
		t.Error("SharedTargets should always be populated for a two-endpoint search")
	}
}

func TestHandleOpenSearchUsesBFS(t *testing.T) {
	a := Assembler{Store: linearStore(t), URLs: external.DBIdentifierURL{}}
	sp, err := spec.New(spec.Input{Source: "BRCA1"})
	if err != nil {
		t.Fatal(err)
	}

	resp, subgraph, err := a.Handle(context.Background(), sp)
	if err != nil {
		t.Fatalf("Handle() returned error: %v", err)
	}
	if subgraph != nil {
		t.Fatal("an open search should not return subgraph results")
	}
	if resp.ForwardPath == nil {
		t.Fatal("ForwardPath is nil, want a populated BFS result")
	}
}

// branchedStore builds BRCA1 -> BRCA2 (HGNC) and BRCA1 -> CPLX1 (FPLX), so a
// terminal_ns filter on one branch can be distinguished from the other.
func branchedStore(t *testing.T) *graphstore.Store {
	t.Helper()
	s := graphstore.New()
	for _, n := range []struct{ name, ns string }{
		{"BRCA1", "HGNC"}, {"BRCA2", "HGNC"}, {"CPLX1", "FPLX"},
	} {
		if err := s.AddNode(graphstore.NodeAttrs{Name: n.name, Namespace: n.ns, Identifier: n.name}); err != nil {
			t.Fatal(err)
		}
	}
	for _, e := range [][2]string{{"BRCA1", "BRCA2"}, {"BRCA1", "CPLX1"}} {
		if err := s.AddEdge(e[0], e[1], graphstore.EdgeAttrs{
			Statements: map[string][]model.StmtData{
				"Phosphorylation": {model.NewStmtData("Phosphorylation", 4, 77, nil, 0.9, true, "")},
			},
			Belief: 0.9,
			Weight: 1.0,
		}); err != nil {
			t.Fatal(err)
		}
	}
	if err := s.BuildSignedGraph(func(graphstore.EdgeAttrs) int { return model.SignPlus }); err != nil {
		t.Fatal(err)
	}
	return s
}

func TestHandleOpenSearchRejectsTerminalNamespace(t *testing.T) {
	a := Assembler{Store: branchedStore(t), URLs: external.DBIdentifierURL{}}
	sp, err := spec.New(spec.Input{Source: "BRCA1", TerminalNS: []string{"FPLX"}})
	if err != nil {
		t.Fatal(err)
	}

	resp, _, err := a.Handle(context.Background(), sp)
	if err != nil {
		t.Fatalf("Handle() returned error: %v", err)
	}
	if resp.ForwardPath == nil {
		t.Fatal("ForwardPath is nil, want a populated BFS result")
	}
	for _, paths := range resp.ForwardPath.Paths {
		for _, p := range paths {
			for _, n := range p.Nodes {
				if n.Name == "CPLX1" {
					t.Errorf("path %+v reaches CPLX1, want terminal_ns=FPLX to exclude it", p.Nodes)
				}
			}
		}
	}
}

func TestHandleSubgraphRequest(t *testing.T) {
	a := Assembler{Store: linearStore(t), URLs: external.DBIdentifierURL{}}
	sp, err := spec.New(spec.Input{SubgraphNodes: []spec.SubgraphNode{
		{Name: "BRCA1"}, {Name: "BRCA2"}, {Name: "NOT_IN_GRAPH"},
	}})
	if err != nil {
		t.Fatal(err)
	}

	resp, subgraph, err := a.Handle(context.Background(), sp)
	if err != nil {
		t.Fatalf("Handle() returned error: %v", err)
	}
	if resp != nil {
		t.Fatal("a subgraph request should not return a path response")
	}
	if subgraph == nil {
		t.Fatal("subgraph is nil, want populated subgraph results")
	}
	if len(subgraph.NodesInGraph) != 2 {
		t.Errorf("NodesInGraph has %d entries, want 2", len(subgraph.NodesInGraph))
	}
	if len(subgraph.NotInGraph) != 1 {
		t.Errorf("NotInGraph has %d entries, want 1", len(subgraph.NotInGraph))
	}
}

func TestHandleSubgraphRequestResolvesByNamespaceIdentifier(t *testing.T) {
	a := Assembler{Store: linearStore(t), URLs: external.DBIdentifierURL{}}
	sp, err := spec.New(spec.Input{SubgraphNodes: []spec.SubgraphNode{
		{Name: "stale-alias", Namespace: "HGNC", Identifier: "1"},
	}})
	if err != nil {
		t.Fatal(err)
	}

	_, subgraph, err := a.Handle(context.Background(), sp)
	if err != nil {
		t.Fatalf("Handle() returned error: %v", err)
	}
	if subgraph == nil {
		t.Fatal("subgraph is nil, want populated subgraph results")
	}
	if len(subgraph.NodesInGraph) != 1 || subgraph.NodesInGraph[0].Name != "BRCA1" {
		t.Errorf("NodesInGraph = %+v, want a single corrected BRCA1 entry", subgraph.NodesInGraph)
	}
	if len(subgraph.NotInGraph) != 0 {
		t.Errorf("NotInGraph has %d entries, want 0 (namespace/identifier fallback should have resolved it)", len(subgraph.NotInGraph))
	}
}

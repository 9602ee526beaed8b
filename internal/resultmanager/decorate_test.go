package resultmanager

import (
	"testing"

	"github.com/indralab/network-search/internal/external"
	"github.com/indralab/network-search/internal/graphstore"
	"github.com/indralab/network-search/internal/model"
	"github.com/indralab/network-search/internal/spec"
)

func newFixtureStore(t *testing.T) *graphstore.Store {
	t.Helper()
	s := graphstore.New()
	must := func(err error) {
		t.Helper()
		if err != nil {
			t.Fatal(err)
		}
	}
	must(s.AddNode(graphstore.NodeAttrs{Name: "BRCA1", Namespace: "HGNC", Identifier: "1100"}))
	must(s.AddNode(graphstore.NodeAttrs{Name: "BRCA2", Namespace: "HGNC", Identifier: "1101"}))
	must(s.AddEdge("BRCA1", "BRCA2", graphstore.EdgeAttrs{
		Statements: map[string][]model.StmtData{
			"Phosphorylation": {model.NewStmtData("Phosphorylation", 3, 111, map[string]int{"reach": 3}, 0.9, true, "p")},
			"Activation":      {model.NewStmtData("Activation", 1, 222, map[string]int{"reach": 1}, 0.2, false, "a")},
		},
		Belief: 0.9,
		Weight: 1.0,
	}))
	must(s.BuildSignedGraph(func(graphstore.EdgeAttrs) int { return model.SignPlus }))
	return s
}

func TestDecoratorNodeFor(t *testing.T) {
	store := newFixtureStore(t)
	dec := Decorator{Store: store, View: store.UnsignedView(), URLs: external.DBIdentifierURL{}}

	n, ok := dec.NodeFor("BRCA1")
	if !ok {
		t.Fatal("NodeFor(BRCA1) = false, want true")
	}
	if n.Namespace != "HGNC" || n.Identifier != "1100" {
		t.Errorf("NodeFor(BRCA1) = %+v, want HGNC/1100", n)
	}
	if n.Lookup == "" {
		t.Error("NodeFor should populate Lookup from the identifier-URL service")
	}

	if _, ok := dec.NodeFor("NOPE"); ok {
		t.Error("NodeFor(NOPE) = true, want false for an absent handle")
	}
}

func TestFilterStatementBeliefCutoff(t *testing.T) {
	low := model.NewStmtData("Activation", 1, 1, nil, 0.1, false, "")
	high := model.NewStmtData("Activation", 1, 2, nil, 0.9, false, "")
	fs := spec.FilterSet{BeliefCutoff: 0.5}
	if FilterStatement(fs, low) {
		t.Error("statement below belief cutoff should be dropped")
	}
	if !FilterStatement(fs, high) {
		t.Error("statement above belief cutoff should survive")
	}
}

func TestFilterStatementCuratedOnly(t *testing.T) {
	fs := spec.FilterSet{CuratedDBOnly: true}
	curated := model.NewStmtData("Activation", 1, 1, nil, 0.9, true, "")
	uncurated := model.NewStmtData("Activation", 1, 2, nil, 0.9, false, "")
	if !FilterStatement(fs, curated) {
		t.Error("curated statement should survive curated_db_only")
	}
	if FilterStatement(fs, uncurated) {
		t.Error("uncurated statement should be dropped by curated_db_only")
	}
}

func TestFilterStatementHashBlacklist(t *testing.T) {
	fs := spec.FilterSet{HashBlacklist: []int64{111}}
	blocked := model.NewStmtData("Activation", 1, 111, nil, 0.9, false, "")
	kept := model.NewStmtData("Activation", 1, 222, nil, 0.9, false, "")
	if FilterStatement(fs, blocked) {
		t.Error("blacklisted hash should be dropped")
	}
	if !FilterStatement(fs, kept) {
		t.Error("non-blacklisted hash should survive")
	}
}

func TestEdgeForDropsWhenAllStatementTypesFiltered(t *testing.T) {
	store := newFixtureStore(t)
	dec := Decorator{Store: store, View: store.UnsignedView(), URLs: external.DBIdentifierURL{}}

	fs := spec.FilterSet{ExcludeStmts: []string{"phosphorylation"}}
	edge, ok := dec.EdgeFor(fs, "BRCA1", "BRCA2")
	if !ok {
		t.Fatal("EdgeFor should survive with one allowed statement type")
	}
	if _, has := edge.Statements["Activation"]; has {
		t.Error("Activation should have been filtered out by the stmt-type allow-list")
	}
	if _, has := edge.Statements["Phosphorylation"]; !has {
		t.Error("Phosphorylation should have survived the stmt-type allow-list")
	}

	fsNone := spec.FilterSet{ExcludeStmts: []string{"nonexistent_type"}}
	if _, ok := dec.EdgeFor(fsNone, "BRCA1", "BRCA2"); ok {
		t.Error("EdgeFor should drop the edge when no statement type survives")
	}
}

func TestEdgeByHashForDropsFplxOnlySentinel(t *testing.T) {
	store := graphstore.New()
	if err := store.AddNode(graphstore.NodeAttrs{Name: "A", Namespace: "HGNC", Identifier: "1"}); err != nil {
		t.Fatal(err)
	}
	if err := store.AddNode(graphstore.NodeAttrs{Name: "B", Namespace: "HGNC", Identifier: "2"}); err != nil {
		t.Fatal(err)
	}
	if err := store.AddEdge("A", "B", graphstore.EdgeAttrs{
		Statements: map[string][]model.StmtData{
			"fplx": {model.NewStmtData("fplx", 1, 999, nil, 0.5, false, "")},
		},
	}); err != nil {
		t.Fatal(err)
	}
	if err := store.BuildSignedGraph(func(graphstore.EdgeAttrs) int { return model.SignPlus }); err != nil {
		t.Fatal(err)
	}

	dec := Decorator{Store: store, View: store.UnsignedView(), URLs: external.DBIdentifierURL{}}
	if _, ok := dec.EdgeByHashFor(spec.FilterSet{}, "A", "B"); ok {
		t.Error("EdgeByHashFor should drop an edge whose only surviving statement type is the ontology sentinel")
	}
}

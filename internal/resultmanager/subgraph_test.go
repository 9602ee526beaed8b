package resultmanager

import (
	"context"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/indralab/network-search/internal/algorithms"
	"github.com/indralab/network-search/internal/external"
	"github.com/indralab/network-search/internal/model"
	"github.com/indralab/network-search/internal/spec"
)

func TestSubgraphResultManagerRunClassifiesAndDecorates(t *testing.T) {
	store := newFixtureStore(t)
	dec := Decorator{Store: store, View: store.UnsignedView(), URLs: external.DBIdentifierURL{}}
	m := SubgraphResultManager{Decorator: dec, Filters: spec.FilterSet{}}

	resolved := []algorithms.ResolvedNode{
		{RequestedName: "BRCA1", Handle: "BRCA1", Namespace: "HGNC", Identifier: "1100", InGraph: true},
		{RequestedName: "BRCA2", Handle: "BRCA2", Namespace: "HGNC", Identifier: "1101", InGraph: true},
		{RequestedName: "NOT_IN_GRAPH", InGraph: false},
	}
	edges := []algorithms.SubgraphEdge{{From: "BRCA1", To: "BRCA2"}}

	got := m.Run(context.Background(), resolved, edges)

	require.Len(t, got.OriginalNodes, 3, "every requested node should appear in OriginalNodes regardless of resolution")
	require.Len(t, got.NodesInGraph, 2)
	require.Len(t, got.NotInGraph, 1)
	assert.Equal(t, "NOT_IN_GRAPH", got.NotInGraph[0].Name)
	require.Len(t, got.Edges, 1)

	want := model.Node{Name: "BRCA1", Namespace: "HGNC", Identifier: "1100"}
	if diff := cmp.Diff(want, got.NodesInGraph[0], cmpopts.IgnoreFields(model.Node{}, "Lookup")); diff != "" {
		t.Errorf("NodesInGraph[0] mismatch (-want +got):\n%s", diff)
	}
}

func TestSubgraphResultManagerRunStopsEarlyWhenContextDone(t *testing.T) {
	store := newFixtureStore(t)
	dec := Decorator{Store: store, View: store.UnsignedView(), URLs: external.DBIdentifierURL{}}
	m := SubgraphResultManager{Decorator: dec, Filters: spec.FilterSet{}}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	resolved := []algorithms.ResolvedNode{
		{RequestedName: "BRCA1", Handle: "BRCA1", Namespace: "HGNC", Identifier: "1100", InGraph: true},
		{RequestedName: "BRCA2", Handle: "BRCA2", Namespace: "HGNC", Identifier: "1101", InGraph: true},
	}
	edges := []algorithms.SubgraphEdge{{From: "BRCA1", To: "BRCA2"}}

	got := m.Run(ctx, resolved, edges)
	assert.Empty(t, got.Edges, "edge decoration should stop immediately once ctx is done")
}

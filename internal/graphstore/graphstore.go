// Package graphstore holds the in-memory causal-influence graph: one
// unsigned directed graph and one signed-node graph derived from it via the
// doubling transform. The store is built once at process start and treated
// as read-only by every request thereafter (see the concurrency model in
// SPEC_FULL.md section 5).
package graphstore

import (
	"fmt"
	"sort"
	"sync"

	"github.com/dominikbraun/graph"

	"github.com/indralab/network-search/internal/model"
)

// NodeAttrs is the attribute bag the store keeps for each unsigned node,
// the Go analogue of the graph's per-node attribute dict in the external
// read contract (SPEC_FULL.md section 6).
type NodeAttrs struct {
	Name       string
	Namespace  string
	Identifier string
}

// EdgeAttrs is the attribute bag the store keeps for each directed edge.
type EdgeAttrs struct {
	Statements map[string][]model.StmtData
	Belief     float64
	Weight     float64
	// Sign is the edge's net polarity (model.SignPlus/SignMinus), derived
	// once when the edge is built rather than re-derived from statement
	// types at query time.
	Sign          *int
	ContextWeight *float64
}

// Store is the read-only graph-store contract: attrs-by-handle, a
// reverse (namespace, identifier) index, an edge-attrs lookup, and forward
// and reverse adjacency, for both the unsigned graph and its signed-node
// counterpart.
type Store struct {
	mu sync.RWMutex

	unsigned graph.Graph[string, string]
	nodes    map[string]NodeAttrs
	edges    map[[2]string]EdgeAttrs
	byNSID   map[nsID]string

	signed       graph.Graph[model.SignedNodeRef, model.SignedNodeRef]
	signedEdges  map[[2]model.SignedNodeRef]EdgeAttrs
}

type nsID struct {
	namespace, identifier string
}

// New creates an empty store. Use LoadLocal or LoadGCS to populate it, or
// AddNode/AddEdge directly for tests and fixtures.
func New() *Store {
	return &Store{
		unsigned: graph.New(graph.StringHash, graph.Directed()),
		nodes:    map[string]NodeAttrs{},
		edges:    map[[2]string]EdgeAttrs{},
		byNSID:   map[nsID]string{},
		signed: graph.New(func(n model.SignedNodeRef) model.SignedNodeRef { return n },
			graph.Directed()),
		signedEdges: map[[2]model.SignedNodeRef]EdgeAttrs{},
	}
}

// AddNode registers a vertex in the unsigned graph.
func (s *Store) AddNode(attrs NodeAttrs) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.unsigned.AddVertex(attrs.Name); err != nil && err != graph.ErrVertexAlreadyExists {
		return fmt.Errorf("add node %s: %w", attrs.Name, err)
	}
	s.nodes[attrs.Name] = attrs
	s.byNSID[nsID{attrs.Namespace, attrs.Identifier}] = attrs.Name
	return nil
}

// AddEdge registers a directed edge (from, to) with its attributes in the
// unsigned graph.
func (s *Store) AddEdge(from, to string, attrs EdgeAttrs) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.unsigned.AddEdge(from, to); err != nil && err != graph.ErrEdgeAlreadyExists {
		return fmt.Errorf("add edge %s->%s: %w", from, to, err)
	}
	s.edges[[2]string{from, to}] = attrs
	return nil
}

// BuildSignedGraph derives the signed-node graph from the unsigned graph via
// the doubling transform: every unsigned node (name) becomes two signed
// nodes (name, 0) and (name, 1); each edge's sign is the value signFn
// returns for its attributes (SignPlus → same-sign edges, SignMinus →
// sign-flipping edges). The core
// never re-derives signs from statement types at query time once this has
// run (SPEC_FULL.md design note on signed-node encoding); signFn is the one
// place that happens, supplied by the caller building the store.
func (s *Store) BuildSignedGraph(signFn func(attrs EdgeAttrs) int) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for name := range s.nodes {
		for _, sign := range []int{model.SignPlus, model.SignMinus} {
			ref := model.SignedNodeRef{Name: name, Sign: sign}
			if err := s.signed.AddVertex(ref); err != nil && err != graph.ErrVertexAlreadyExists {
				return err
			}
		}
	}

	for pair, attrs := range s.edges {
		edgeSign := signFn(attrs)
		for _, srcSign := range []int{model.SignPlus, model.SignMinus} {
			dstSign := srcSign
			if edgeSign == model.SignMinus {
				dstSign = 1 - srcSign
			}
			from := model.SignedNodeRef{Name: pair[0], Sign: srcSign}
			to := model.SignedNodeRef{Name: pair[1], Sign: dstSign}
			if err := s.signed.AddEdge(from, to); err != nil && err != graph.ErrEdgeAlreadyExists {
				return err
			}
			s.signedEdges[[2]model.SignedNodeRef{from, to}] = attrs
		}
	}
	return nil
}

// Attrs returns the node attributes for handle n, or false if unknown.
func (s *Store) Attrs(n string) (NodeAttrs, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	a, ok := s.nodes[n]
	return a, ok
}

// NameByNSID resolves a (namespace, identifier) pair to the graph's display
// handle.
func (s *Store) NameByNSID(namespace, identifier string) (string, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	n, ok := s.byNSID[nsID{namespace, identifier}]
	return n, ok
}

// EdgeAttrs returns the attributes of the edge (u, v), or false if absent.
func (s *Store) EdgeAttrs(u, v string) (EdgeAttrs, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	a, ok := s.edges[[2]string{u, v}]
	return a, ok
}

// SignedEdgeAttrs returns the attributes of a signed edge.
func (s *Store) SignedEdgeAttrs(u, v model.SignedNodeRef) (EdgeAttrs, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	a, ok := s.signedEdges[[2]model.SignedNodeRef{u, v}]
	return a, ok
}

// Successors returns the sorted list of direct successors of n in the
// unsigned graph.
func (s *Store) Successors(n string) ([]string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	adj, err := s.unsigned.AdjacencyMap()
	if err != nil {
		return nil, err
	}
	return sortedTargets(adj[n]), nil
}

// Predecessors returns the sorted list of direct predecessors of n in the
// unsigned graph.
func (s *Store) Predecessors(n string) ([]string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	adj, err := s.unsigned.PredecessorMap()
	if err != nil {
		return nil, err
	}
	return sortedTargets(adj[n]), nil
}

// SignedSuccessors returns the sorted successors of a signed node.
func (s *Store) SignedSuccessors(n model.SignedNodeRef) ([]model.SignedNodeRef, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	adj, err := s.signed.AdjacencyMap()
	if err != nil {
		return nil, err
	}
	return sortedSignedTargets(adj[n]), nil
}

// SignedPredecessors returns the sorted predecessors of a signed node.
func (s *Store) SignedPredecessors(n model.SignedNodeRef) ([]model.SignedNodeRef, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	adj, err := s.signed.PredecessorMap()
	if err != nil {
		return nil, err
	}
	return sortedSignedTargets(adj[n]), nil
}

// HasNode reports whether n exists in the unsigned graph.
func (s *Store) HasNode(n string) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	_, ok := s.nodes[n]
	return ok
}

// NodeCount returns the number of nodes in the unsigned graph.
func (s *Store) NodeCount() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.nodes)
}

func sortedTargets[E any](m map[string]E) []string {
	out := make([]string, 0, len(m))
	for k := range m {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}

func sortedSignedTargets[E any](m map[model.SignedNodeRef]E) []model.SignedNodeRef {
	out := make([]model.SignedNodeRef, 0, len(m))
	for k := range m {
		out = append(out, k)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Name != out[j].Name {
			return out[i].Name < out[j].Name
		}
		return out[i].Sign < out[j].Sign
	})
	return out
}

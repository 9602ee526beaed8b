package algorithms

import (
	"github.com/indralab/network-search/internal/graphstore"
	"github.com/indralab/network-search/internal/spec"
)

// SubgraphEdge is one induced-subgraph edge before decoration.
type SubgraphEdge struct {
	From, To string
}

// ResolvedNode is one subgraph input node after classification against the
// graph store.
type ResolvedNode struct {
	RequestedName string
	Handle        string
	Namespace     string
	Identifier    string
	InGraph       bool
}

// ResolveSubgraphNodes classifies each requested node as resolvable
// directly by name, resolvable via the (namespace, identifier) reverse
// index with a corrected handle, or absent from the graph.
func ResolveSubgraphNodes(store *graphstore.Store, nodes []spec.SubgraphNode) []ResolvedNode {
	out := make([]ResolvedNode, 0, len(nodes))
	for _, n := range nodes {
		if attrs, ok := store.Attrs(n.Name); ok {
			out = append(out, ResolvedNode{RequestedName: n.Name, Handle: n.Name,
				Namespace: attrs.Namespace, Identifier: attrs.Identifier, InGraph: true})
			continue
		}
		if n.Namespace != "" && n.Identifier != "" {
			if handle, ok := store.NameByNSID(n.Namespace, n.Identifier); ok {
				if attrs, ok := store.Attrs(handle); ok {
					out = append(out, ResolvedNode{RequestedName: n.Name, Handle: handle,
						Namespace: attrs.Namespace, Identifier: attrs.Identifier, InGraph: true})
					continue
				}
			}
		}
		out = append(out, ResolvedNode{RequestedName: n.Name, InGraph: false})
	}
	return out
}

// SubgraphEdges returns the induced subgraph's edges among the resolved,
// in-graph handles: every edge whose endpoints are both in the resolved
// set, deduplicated by endpoint pair.
func SubgraphEdges(store *graphstore.Store, resolved []ResolvedNode) ([]SubgraphEdge, error) {
	handles := map[string]struct{}{}
	for _, r := range resolved {
		if r.InGraph {
			handles[r.Handle] = struct{}{}
		}
	}

	seen := map[[2]string]struct{}{}
	var out []SubgraphEdge
	for h := range handles {
		succ, err := store.Successors(h)
		if err != nil {
			return nil, err
		}
		for _, v := range succ {
			if _, ok := handles[v]; !ok {
				continue
			}
			key := [2]string{h, v}
			if _, ok := seen[key]; ok {
				continue
			}
			seen[key] = struct{}{}
			out = append(out, SubgraphEdge{From: h, To: v})
		}
	}
	return out, nil
}

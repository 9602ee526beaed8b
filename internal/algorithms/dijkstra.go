package algorithms

import "container/heap"

// DijkstraArgs is the fixed argument bundle for the open-ended Dijkstra
// family (SPEC_FULL.md section 4.2): single endpoint, no target, explores
// outward in nondecreasing weight order until the consumer stops pulling.
type DijkstraArgs struct {
	Graph    View
	Start    string
	Reverse  bool
	Weighted bool
	// NodeOK reports whether a candidate node survives the node-blacklist
	// and terminal-namespace filters, the only two Dijkstra enforces
	// internally.
	NodeOK func(handle string) bool
}

// Dijkstra returns a restartable lazy sequence of node-handle paths from
// Start in nondecreasing weight order.
func Dijkstra(args DijkstraArgs) *PathIterator {
	return NewPathIterator(func(ignored map[string]struct{}) []RawPath {
		return dijkstraGenerate(args, ignored)
	})
}

func dijkstraGenerate(args DijkstraArgs, ignored map[string]struct{}) []RawPath {
	dist := map[string]float64{args.Start: 0}
	prev := map[string]string{}
	visited := map[string]bool{}

	pq := &dijkstraQueue{{handle: args.Start, dist: 0}}
	heap.Init(pq)

	var out []RawPath
	for pq.Len() > 0 {
		u := heap.Pop(pq).(*dijkstraItem)
		if visited[u.handle] {
			continue
		}
		visited[u.handle] = true
		if u.handle != args.Start {
			path := reconstruct(prev, args.Start, u.handle)
			out = append(out, RawPath{Handles: path, Cost: dist[u.handle]})
		}

		var next []string
		var err error
		if args.Reverse {
			next, err = args.Graph.Predecessors(u.handle)
		} else {
			next, err = args.Graph.Successors(u.handle)
		}
		if err != nil {
			continue
		}
		for _, v := range next {
			if _, blocked := ignored[v]; blocked {
				continue
			}
			if args.NodeOK != nil && !args.NodeOK(v) {
				continue
			}
			w := u.handle
			x := v
			if args.Reverse {
				w, x = v, u.handle
			}
			nd := dist[u.handle] + edgeWeight(args.Graph, w, x, args.Weighted)
			if cur, ok := dist[v]; !ok || nd < cur {
				dist[v] = nd
				prev[v] = u.handle
				heap.Push(pq, &dijkstraItem{handle: v, dist: nd})
			}
		}
	}
	return out
}

package algorithms

import "sort"

// BFSArgs is the fixed argument bundle for the BFS family (SPEC_FULL.md
// section 4.2): a bounded-depth, bounded-fanout breadth-first search from a
// single endpoint.
type BFSArgs struct {
	Graph      View
	Start      string
	Reverse    bool
	DepthLimit int
	MaxPerNode int
	// NodeOK reports whether a candidate node survives the namespace
	// allow-list, node blacklist and terminal-namespace filters — the
	// filters BFS enforces internally rather than leaving to the result
	// manager (SPEC_FULL.md section 4.4.1's "already enforced" table).
	NodeOK func(handle string) bool
	// EdgeOK reports whether the edge (u, v) survives the statement-type,
	// hash-blacklist, belief-cutoff and curated-only predicates.
	EdgeOK func(u, v string) bool
}

// BFS returns a restartable lazy sequence of node-handle paths from Start,
// bounded by DepthLimit edges and MaxPerNode fanout per expanded node, in
// nondecreasing path-length order.
func BFS(args BFSArgs) *PathIterator {
	depthLimit := args.DepthLimit
	if depthLimit <= 0 {
		depthLimit = 2
	}
	return NewPathIterator(func(ignored map[string]struct{}) []RawPath {
		return bfsGenerate(args, ignored, depthLimit)
	})
}

func bfsGenerate(args BFSArgs, ignored map[string]struct{}, depthLimit int) []RawPath {
	type queued struct {
		path []string
	}
	visited := map[string]bool{args.Start: true}
	queue := []queued{{path: []string{args.Start}}}
	var out []RawPath

	for len(queue) > 0 {
		cur := queue[0]
		queue = queue[1:]
		u := cur.path[len(cur.path)-1]
		if len(cur.path)-1 >= depthLimit {
			continue
		}

		var next []string
		var err error
		if args.Reverse {
			next, err = args.Graph.Predecessors(u)
		} else {
			next, err = args.Graph.Successors(u)
		}
		if err != nil {
			continue
		}
		sort.Strings(next)

		taken := 0
		for _, v := range next {
			if taken >= args.MaxPerNode && args.MaxPerNode > 0 {
				break
			}
			if visited[v] {
				continue
			}
			if _, blocked := ignored[v]; blocked {
				continue
			}
			if args.NodeOK != nil && !args.NodeOK(v) {
				continue
			}
			if args.EdgeOK != nil {
				ok := args.EdgeOK(u, v)
				if args.Reverse {
					ok = args.EdgeOK(v, u)
				}
				if !ok {
					continue
				}
			}
			visited[v] = true
			taken++
			path := append(append([]string(nil), cur.path...), v)
			out = append(out, RawPath{Handles: path, Cost: float64(len(path) - 1)})
			queue = append(queue, queued{path: path})
		}
	}
	return out
}
